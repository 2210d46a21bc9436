package planner

import (
	"fmt"
	"os"

	"github.com/nstehr/skirmish/model"
	"gopkg.in/yaml.v3"
)

// ClassTable maps a class to a weight.
type ClassTable map[model.Class]float64

// Weights are the static per-class constants of the board heuristic.
type Weights struct {
	// Base is what a unit of the class is worth at full health.
	Base ClassTable `yaml:"base"`
	// AllyAffinity is how strongly the class wants to stay near friends.
	AllyAffinity ClassTable `yaml:"ally_affinity"`
	// EnemyAffinity is how strongly the class closes on enemies.
	EnemyAffinity ClassTable `yaml:"enemy_affinity"`
	// Danger scales the threat penalty of a unit of the class.
	Danger ClassTable `yaml:"danger"`
	// Matchup[attacker][target] is the class advantage, -10..10.
	Matchup map[model.Class]ClassTable `yaml:"matchup"`
	// Priority orders units within a turn; lower acts first.
	Priority ClassTable `yaml:"priority"`

	// Jitter is the deviation of the noise added to each board score.
	Jitter float64 `yaml:"jitter"`
	// PriorityJitter is the deviation of the noise added to unit priority.
	PriorityJitter float64 `yaml:"priority_jitter"`
}

var classes = []model.Class{model.Archer, model.Assassin, model.Cleric, model.Knight, model.Mage, model.Valkyrie, model.TestChar, model.VIP}

func table(values ...float64) ClassTable {
	t := make(ClassTable, len(classes))
	for i, c := range classes {
		t[c] = values[i]
	}
	return t
}

// DefaultWeights returns the tuned tables.
func DefaultWeights() Weights {
	return Weights{
		//                  archer assassin cleric knight mage valkyrie testchar vip
		Base:          table(5, 5, 10, 5, 5, 7, 5, 15),
		AllyAffinity:  table(4, 1, 10, 7, 5, 7, 5, 10),
		EnemyAffinity: table(5, 9, 0, 4, 5, 6, 5, 0),
		Danger:        table(1, 1, 1, 1, 1, 1, 1, 1.5),
		Priority:      table(3.1, 3, 3.5, 2, 3.1, 4, 5, 6),
		Matchup: map[model.Class]ClassTable{
			model.Archer:   table(3, 0, 9, 1, 7, 10, 0, 5),
			model.Assassin: table(5, 3, 10, 1, 5, 3, 0, 8),
			model.Cleric:   table(5, 1, 5, 5, 5, 5, 0, 2),
			model.Knight:   table(0, 8, 9, 2, 5, 0, 0, 5),
			model.Mage:     table(5, 3, 6, 9, 4, 3, 0, 5),
			model.Valkyrie: table(0, 2, 5, 5, 4, 3, 0, 5),
			model.TestChar: table(0, 0, 0, 0, 0, 0, 0, 0),
			model.VIP:      table(0, 0, 0, 0, 0, 0, 0, 0),
		},
		Jitter:         0.01,
		PriorityJitter: 0.1,
	}
}

// LoadWeights reads a YAML file over the defaults. Entries the file omits
// keep their default value.
func LoadWeights(path string) (Weights, error) {
	w := DefaultWeights()
	raw, err := os.ReadFile(path)
	if err != nil {
		return w, fmt.Errorf("read weights: %w", err)
	}
	var override weightsFile
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return w, fmt.Errorf("parse weights %s: %w", path, err)
	}
	w.merge(override)
	w.Validate()
	return w, nil
}

// weightsFile is the on-disk form of Weights. The scalars are pointers so
// an explicit zero, such as jitter: 0 for a repeatable run, still applies.
type weightsFile struct {
	Base           ClassTable                 `yaml:"base"`
	AllyAffinity   ClassTable                 `yaml:"ally_affinity"`
	EnemyAffinity  ClassTable                 `yaml:"enemy_affinity"`
	Danger         ClassTable                 `yaml:"danger"`
	Matchup        map[model.Class]ClassTable `yaml:"matchup"`
	Priority       ClassTable                 `yaml:"priority"`
	Jitter         *float64                   `yaml:"jitter"`
	PriorityJitter *float64                   `yaml:"priority_jitter"`
}

func (w *Weights) merge(o weightsFile) {
	mergeTable(w.Base, o.Base)
	mergeTable(w.AllyAffinity, o.AllyAffinity)
	mergeTable(w.EnemyAffinity, o.EnemyAffinity)
	mergeTable(w.Danger, o.Danger)
	mergeTable(w.Priority, o.Priority)
	for attacker, row := range o.Matchup {
		if w.Matchup[attacker] == nil {
			w.Matchup[attacker] = make(ClassTable)
		}
		mergeTable(w.Matchup[attacker], row)
	}
	if o.Jitter != nil {
		w.Jitter = *o.Jitter
	}
	if o.PriorityJitter != nil {
		w.PriorityJitter = *o.PriorityJitter
	}
}

func mergeTable(dst, src ClassTable) {
	for c, v := range src {
		dst[c] = v
	}
}

// Validate clamps every entry into its documented range.
func (w *Weights) Validate() {
	clampTable(w.Base, 0, 100)
	clampTable(w.AllyAffinity, 0, 10)
	clampTable(w.EnemyAffinity, 0, 10)
	clampTable(w.Danger, 0, 10)
	clampTable(w.Priority, 0, 10)
	for _, row := range w.Matchup {
		clampTable(row, -10, 10)
	}
	w.Jitter = clamp(w.Jitter, 0, 1)
	w.PriorityJitter = clamp(w.PriorityJitter, 0, 1)
}

func clampTable(t ClassTable, lo, hi float64) {
	for c, v := range t {
		t[c] = clamp(v, lo, hi)
	}
}

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (w *Weights) matchup(attacker, target model.Class) float64 {
	return w.Matchup[attacker][target]
}
