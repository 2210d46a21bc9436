package catalog

import (
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/skirmish/model"
)

// HookSpec defines a passive combat modifier as a pair of expressions.
// Each expression sees a HookEnv and yields the new value; an empty
// source leaves that value untouched.
type HookSpec struct {
	ID       model.CapabilityID `yaml:"id"`
	Name     string             `yaml:"name"`
	Accuracy string             `yaml:"accuracy"`
	Damage   string             `yaml:"damage"`
}

// Combatant is the view of a unit exposed to hook expressions.
type Combatant struct {
	ID    string
	Class string
	Side  string
	HP    float64
	MaxHP float64
	Att   float64
	Def   float64
	Mag   float64
	Res   float64
	Spd   float64
	Eva   float64
	caps  model.CapabilitySet
}

// Has reports whether the combatant holds capability id.
func (c Combatant) Has(id string) bool { return c.caps.Has(model.CapabilityID(id)) }

// HookEnv is the expression environment for combat hooks.
type HookEnv struct {
	Value            float64
	Holder           Combatant
	Attacker         Combatant
	Defender         Combatant
	HolderIsAttacker bool
	HolderIsDefender bool
	Attack           string
	Offense          string
	Defense          string
	Power            float64
}

func newCombatant(u *model.Unit, st model.Stats) Combatant {
	if u == nil {
		return Combatant{}
	}
	return Combatant{
		ID:    u.ID,
		Class: string(u.Class),
		Side:  string(u.Side),
		HP:    float64(u.HP),
		MaxHP: float64(u.MaxHP),
		Att:   float64(st.Attack),
		Def:   float64(st.Defense),
		Mag:   float64(st.Magic),
		Res:   float64(st.Resistance),
		Spd:   float64(st.Speed),
		Eva:   float64(st.Evasion),
		caps:  u.CapabilitySet(),
	}
}

func newHookEnv(v float64, e model.Engagement) HookEnv {
	holderStats := e.AttackerStats
	if e.Holder == e.Defender {
		holderStats = e.DefenderStats
	}
	return HookEnv{
		Value:            v,
		Holder:           newCombatant(e.Holder, holderStats),
		Attacker:         newCombatant(e.Attacker, e.AttackerStats),
		Defender:         newCombatant(e.Defender, e.DefenderStats),
		HolderIsAttacker: e.Holder != nil && e.Holder == e.Attacker,
		HolderIsDefender: e.Holder != nil && e.Holder == e.Defender,
		Attack:           string(e.Attack.ID),
		Offense:          string(e.Attack.Offense),
		Defense:          string(e.Attack.Defense),
		Power:            e.Attack.Power,
	}
}

// compiledHook holds the programs for one HookSpec. Programs are shared by
// every instance of the capability.
type compiledHook struct {
	spec     HookSpec
	accuracy *vm.Program
	damage   *vm.Program
}

func compileHook(spec HookSpec) (*compiledHook, error) {
	if spec.ID == "" {
		return nil, fmt.Errorf("hook has no id")
	}
	h := &compiledHook{spec: spec}
	var err error
	if h.accuracy, err = compileExpr(spec.Accuracy); err != nil {
		return nil, fmt.Errorf("compile %s accuracy: %w", spec.ID, err)
	}
	if h.damage, err = compileExpr(spec.Damage); err != nil {
		return nil, fmt.Errorf("compile %s damage: %w", spec.ID, err)
	}
	return h, nil
}

func compileExpr(src string) (*vm.Program, error) {
	if src == "" {
		return nil, nil
	}
	return expr.Compile(src, expr.Env(HookEnv{}), expr.AsFloat64())
}

// Hook is a capability whose combat adjustments are compiled expressions.
type Hook struct {
	base
	code *compiledHook
}

func (h *Hook) newInstance() model.Capability {
	name := h.code.spec.Name
	if name == "" {
		name = string(h.code.spec.ID)
	}
	return &Hook{base: base{id: h.code.spec.ID, name: name}, code: h.code}
}

func (h *Hook) AdjustAccuracy(v float64, e model.Engagement) float64 {
	return h.run(h.code.accuracy, "accuracy", v, e)
}

func (h *Hook) AdjustDamage(v float64, e model.Engagement) float64 {
	return h.run(h.code.damage, "damage", v, e)
}

func (h *Hook) run(prog *vm.Program, which string, v float64, e model.Engagement) float64 {
	if prog == nil {
		return v
	}
	out, err := vm.Run(prog, newHookEnv(v, e))
	if err != nil {
		slog.Warn("combat hook error", "capability", h.id, "hook", which, "error", err)
		return v
	}
	switch n := out.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	slog.Warn("combat hook returned non-number", "capability", h.id, "hook", which, "value", out)
	return v
}
