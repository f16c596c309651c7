package component

// AIInterrupt is a one-shot request to force an AI into a state, e.g. a stun
// from a projectile hit. The AI system consumes and removes it.
type AIInterrupt struct {
	State AIStateKind
}

var AIInterruptComponent = NewComponent[AIInterrupt]("aiInterrupt")
