package component

type CommandKind string

const (
	CommandCreate CommandKind = "create"
	CommandDelete CommandKind = "delete"
)

// Command is a pending structural change raised by UI, editor or gameplay
// code outside a system's own query.
type Command struct {
	Kind      CommandKind
	Archetype string
	Data      map[string]any
	Target    EntityRef
}

// Commands is the queue held by the global entity.
type Commands struct {
	Queue []Command
}

func (c *Commands) Push(cmd Command) {
	c.Queue = append(c.Queue, cmd)
}

var CommandsComponent = NewComponent[Commands]("commands")
