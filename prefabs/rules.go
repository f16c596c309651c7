package prefabs

import "fmt"

// SpawnRuleSpec spawns archetypes in response to a trigger signal. When is
// an optional expression evaluated against the signal; an empty condition
// always matches.
type SpawnRuleSpec struct {
	Name      string         `yaml:"name"`
	Signal    string         `yaml:"signal"`
	When      string         `yaml:"when"`
	Archetype string         `yaml:"archetype"`
	Count     int            `yaml:"count"`
	Spread    float64        `yaml:"spread"`
	MaxAlive  int            `yaml:"max_alive"`
	Data      map[string]any `yaml:"data"`
}

type spawnRulesFile struct {
	Rules []SpawnRuleSpec `yaml:"rules"`
}

func LoadSpawnRules() ([]SpawnRuleSpec, error) {
	file, err := LoadSpec[spawnRulesFile](RulesFile)
	if err != nil {
		return nil, err
	}
	for i, r := range file.Rules {
		if r.Signal == "" || r.Archetype == "" {
			return nil, fmt.Errorf("prefabs: %s rule %d (%s): signal and archetype are required", RulesFile, i, r.Name)
		}
		if r.Count <= 0 {
			file.Rules[i].Count = 1
		}
	}
	return file.Rules, nil
}
