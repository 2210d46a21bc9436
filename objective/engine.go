package objective

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/skirmish/rules"
)

// Engine holds a scenario's compiled rules. Memory persists between
// checks and records which once-only rules have fired.
type Engine struct {
	rules  []*Rule
	Memory map[string]any
}

// NewEngine compiles every condition and orders the rules by priority.
// Rules of equal priority keep their given order.
func NewEngine(rules []*Rule) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Engine{
		rules:  compiled,
		Memory: make(map[string]any),
	}, nil
}

// Attach evaluates the engine at every turn start of b.
func (e *Engine) Attach(b *rules.Battle) {
	b.OnTurnStart(func(b *rules.Battle) {
		if _, err := e.Evaluate(b); err != nil {
			slog.Error("objective evaluation error", "error", err)
		}
	})
}

// Rules lists the rule names in evaluation order.
func (e *Engine) Rules() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name
	}
	return names
}

// Evaluate runs every rule against b and returns the names of those that
// fired. Condition errors are logged and the rule skipped.
func (e *Engine) Evaluate(b *rules.Battle) ([]string, error) {
	env := newEnv(b, e.Memory)
	closed := make(map[string]bool) // categories silenced by an exclusive rule

	var names []string
	for _, r := range e.rules {
		if closed[r.Category] {
			continue
		}
		if r.Once && env.Fired(r.Name) {
			continue
		}

		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "error", err)
			continue
		}

		match, ok := result.(bool)
		if !ok || !match {
			continue
		}

		slog.Debug("rule fired", "rule", r.Name, "priority", r.Priority, "category", r.Category, "turn", b.Turn)
		names = append(names, r.Name)
		if r.Once {
			e.Memory[firedKey(r.Name)] = true
		}

		if err := r.Action(env, b); err != nil {
			return names, fmt.Errorf("rule %q: %w", r.Name, err)
		}

		if r.Exclusive {
			closed[r.Category] = true
		}
	}
	return names, nil
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
