// Package objective decides battles by rule: victory conditions and
// scenario scripts are expr conditions checked whenever a side's turn
// begins.
package objective

import (
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/skirmish/rules"
)

// ActionFunc changes the battle once its rule's condition holds.
type ActionFunc func(env Env, b *rules.Battle) error

// Rule pairs a turn-start condition with the action it triggers. Within a
// Category, an Exclusive rule that fires silences every rule ranked below
// it, so only one victory can be declared per check.
type Rule struct {
	Name      string
	Priority  int // checked highest first
	Category  string
	Exclusive bool
	Once      bool // never fires again after its first time
	// ConditionSrc is the expr source; it must evaluate to a bool.
	ConditionSrc string
	Action       ActionFunc

	program *vm.Program
}
