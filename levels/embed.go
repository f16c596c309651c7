package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
)

//go:embed *.json
var LevelsFS embed.FS

var ErrUnknownLevel = errors.New("levels: unknown level")

// Level is one map: its extent, the named points a player can arrive at and
// the entities spawned when it loads.
type Level struct {
	ID       string   `json:"id"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Entries  []Entry  `json:"entries"`
	Entities []Entity `json:"entities,omitempty"`
}

type Entry struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Entity is factory input: an archetype name plus overlay data.
type Entity struct {
	Archetype string         `json:"archetype"`
	Data      map[string]any `json:"data,omitempty"`
}

func (l *Level) Entry(id string) (Entry, bool) {
	i := slices.IndexFunc(l.Entries, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		return Entry{}, false
	}
	return l.Entries[i], true
}

func (l *Level) Validate() error {
	if l.ID == "" {
		return errors.New("levels: missing id")
	}
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("levels: %s: extent must be positive", l.ID)
	}
	seen := make(map[string]struct{}, len(l.Entries))
	for _, e := range l.Entries {
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("levels: %s: duplicate entry %q", l.ID, e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	for i, ent := range l.Entities {
		if ent.Archetype == "" {
			return fmt.Errorf("levels: %s: entity %d has no archetype", l.ID, i)
		}
	}
	return nil
}

func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLevel, name)
		}
		return nil, fmt.Errorf("read level: %w", err)
	}
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// Load reads the level with the given id.
func Load(id string) (*Level, error) {
	return LoadLevelFromFS(path.Clean(id) + ".json")
}

// IDs lists every embedded level.
func IDs() []string {
	matches, _ := fs.Glob(LevelsFS, "*.json")
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[:len(m)-len(".json")])
	}
	return out
}
