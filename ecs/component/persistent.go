package component

type Persistent struct {
	ID                string
	KeepOnSceneChange bool
}

var PersistentComponent = NewComponent[Persistent]("persistent")
