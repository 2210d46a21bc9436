package objective

import (
	"fmt"

	"github.com/nstehr/skirmish/catalog"
	"github.com/nstehr/skirmish/model"
)

// Objectives is the victory and scripting section of a scenario.
type Objectives struct {
	// Seize names the side that wins by holding a goal tile when its turn
	// starts.
	Seize model.Side `yaml:"seize"`
	// Escort makes every VIP vital: a side whose VIPs have all fallen
	// loses, and only a VIP (or a unit carrying one) can seize a goal.
	Escort bool       `yaml:"escort"`
	Rules  []RuleSpec `yaml:"rules"`
}

// RuleSpec is a scripted rule as written in a scenario file.
type RuleSpec struct {
	Name      string   `yaml:"name"`
	Priority  int      `yaml:"priority"`
	Category  string   `yaml:"category"`
	Exclusive bool     `yaml:"exclusive"`
	Once      bool     `yaml:"once"`
	When      string   `yaml:"when"`
	Then      []string `yaml:"then"`
}

const (
	priorityVIPLost = 1000
	prioritySeize   = 900
	categoryVictory = "victory"
)

// Compile generates the rule set for o. Conditions of the built-in
// victory rules are built via fmt.Sprintf from validated sides, so only
// scripted rules can fail to compile.
func Compile(o Objectives, cat *catalog.Catalog) ([]*Rule, error) {
	var rules []*Rule

	if o.Escort {
		for _, side := range []model.Side{model.Blue, model.Red} {
			rules = append(rules, &Rule{
				Name:         "vip-lost-" + string(side),
				Priority:     priorityVIPLost,
				Category:     categoryVictory,
				Exclusive:    true,
				ConditionSrc: fmt.Sprintf(`Fielded(%q, "vip") > 0 && Count(%q, "vip") == 0`, side, side),
				Action:       ActionWin(side.Opponent(), "vip lost"),
			})
		}
	}

	if o.Seize != "" {
		if !o.Seize.Valid() {
			return nil, fmt.Errorf("objectives: invalid seize side %q", o.Seize)
		}
		name, check := "seize-goal", "OnGoal"
		if o.Escort {
			name, check = "escort-goal", "EscortOnGoal"
		}
		rules = append(rules, &Rule{
			Name:         name,
			Priority:     prioritySeize,
			Category:     categoryVictory,
			Exclusive:    true,
			ConditionSrc: fmt.Sprintf(`Active == %q && %s(%q)`, o.Seize, check, o.Seize),
			Action:       ActionWin(o.Seize, "goal seized"),
		})
	}

	for i, spec := range o.Rules {
		r, err := compileSpec(spec, cat)
		if err != nil {
			return nil, fmt.Errorf("objectives rule %d: %w", i, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func compileSpec(spec RuleSpec, cat *catalog.Catalog) (*Rule, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("rule needs a name")
	}
	if spec.When == "" {
		return nil, fmt.Errorf("rule %q needs a condition", spec.Name)
	}
	if len(spec.Then) == 0 {
		return nil, fmt.Errorf("rule %q has no actions", spec.Name)
	}
	actions := make([]ActionFunc, 0, len(spec.Then))
	for _, src := range spec.Then {
		a, err := ParseAction(cat, src)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", spec.Name, err)
		}
		actions = append(actions, a)
	}
	category := spec.Category
	if category == "" {
		category = "script"
	}
	return &Rule{
		Name:         spec.Name,
		Priority:     spec.Priority,
		Category:     category,
		Exclusive:    spec.Exclusive,
		Once:         spec.Once,
		ConditionSrc: spec.When,
		Action:       sequence(actions),
	}, nil
}

// Build compiles o into an engine. No objectives yield a nil engine.
func Build(o Objectives, cat *catalog.Catalog) (*Engine, error) {
	rules, err := Compile(o, cat)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, nil
	}
	return NewEngine(rules)
}
