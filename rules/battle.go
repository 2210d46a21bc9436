// Package rules is the battle engine: movement legality, distances,
// targeting, combat math, threat boards, state snapshots and committed
// moves.
package rules

import (
	"fmt"
	"log/slog"

	"github.com/nstehr/skirmish/model"
)

// Battle owns the grid and every unit. It is not safe for concurrent use.
type Battle struct {
	Grid  *model.Grid
	Units []*model.Unit
	// Active is the side whose turn it is.
	Active model.Side
	Turn   int
	// TurnLimit ends the battle in Defender's favour once Turn exceeds it.
	// Zero disables the limit.
	TurnLimit int
	Defender  model.Side

	profiles  []model.CapabilityID
	dist      *DistanceMaps
	turnStart map[*model.Unit]model.Square
	declared  model.Side
	turnHooks []func(*Battle)
}

// NewBattle creates an empty battle on grid. profiles lists the
// movement-granting capabilities that get their own distance map.
func NewBattle(grid *model.Grid, profiles []model.CapabilityID) *Battle {
	b := &Battle{
		Grid:      grid,
		Active:    model.Blue,
		Turn:      1,
		Defender:  model.Blue,
		profiles:  profiles,
		turnStart: make(map[*model.Unit]model.Square),
	}
	b.RebuildDistanceMaps()
	return b
}

// Deploy adds u to the battle at sq.
func (b *Battle) Deploy(u *model.Unit, sq model.Square) error {
	if _, dup := b.Unit(u.ID); dup {
		return fmt.Errorf("deploy %s: duplicate unit id", u.ID)
	}
	if !b.Grid.InBounds(sq) {
		return fmt.Errorf("deploy %s: %w: %s", u.ID, model.ErrOutOfBounds, sq)
	}
	if !b.Grid.Tile(sq).Landable.Allows(u.CapabilitySet()) {
		return fmt.Errorf("deploy %s: %w: %s cannot stand on %s", u.ID, ErrIllegalMove, u.Class, b.Grid.Tile(sq).Terrain)
	}
	if err := b.Grid.Place(u, sq); err != nil {
		return fmt.Errorf("deploy %s: %w", u.ID, err)
	}
	b.Units = append(b.Units, u)
	b.turnStart[u] = sq
	return nil
}

// Unit finds a unit by id, dead or alive.
func (b *Battle) Unit(id string) (*model.Unit, bool) {
	for _, u := range b.Units {
		if u.ID == id {
			return u, true
		}
	}
	return nil, false
}

// Position returns where u stands. Carried and dead units have none.
func (b *Battle) Position(u *model.Unit) (model.Square, bool) {
	return b.Grid.Locate(u)
}

// OnGrid lists the living units of side that occupy a square.
func (b *Battle) OnGrid(side model.Side) []*model.Unit {
	var out []*model.Unit
	for _, u := range b.Units {
		if u.Side != side || !u.Alive() {
			continue
		}
		if _, ok := b.Grid.Locate(u); ok {
			out = append(out, u)
		}
	}
	return out
}

// Living counts the living units of side, carried ones included.
func (b *Battle) Living(side model.Side) int {
	n := 0
	for _, u := range b.Units {
		if u.Side == side && u.Alive() {
			n++
		}
	}
	return n
}

// Ready lists units of side that may still act this turn.
func (b *Battle) Ready(side model.Side) []*model.Unit {
	var out []*model.Unit
	for _, u := range b.OnGrid(side) {
		if !u.Acted {
			out = append(out, u)
		}
	}
	return out
}

// TurnStart returns where u stood when its side's turn began.
func (b *Battle) TurnStart(u *model.Unit) (model.Square, bool) {
	sq, ok := b.turnStart[u]
	if !ok {
		return b.Grid.Locate(u)
	}
	return sq, ok
}

// Winner reports the winning side once one has been declared, one side
// has no living units or the turn limit has passed.
func (b *Battle) Winner() (model.Side, bool) {
	if b.declared != "" {
		return b.declared, true
	}
	blue, red := b.Living(model.Blue), b.Living(model.Red)
	switch {
	case blue == 0 && red == 0:
		return "", false
	case blue == 0:
		return model.Red, true
	case red == 0:
		return model.Blue, true
	}
	if b.TurnLimit > 0 && b.Turn > b.TurnLimit {
		return b.Defender, true
	}
	return "", false
}

// Declare ends the battle in side's favour. The first declaration stands.
func (b *Battle) Declare(side model.Side, reason string) {
	if b.declared != "" {
		return
	}
	b.declared = side
	slog.Info("winner declared", "side", side, "reason", reason, "turn", b.Turn)
}

// OnTurnStart registers fn to run at the end of every BeginTurn.
func (b *Battle) OnTurnStart(fn func(*Battle)) {
	b.turnHooks = append(b.turnHooks, fn)
}

// kill takes a dead unit off the board. Anything it carried is dropped on
// the square it held.
func (b *Battle) kill(u *model.Unit) {
	sq, ok := b.Grid.Locate(u)
	b.Grid.Remove(u)
	delete(b.turnStart, u)
	slog.Info("unit defeated", "unit", u.ID, "class", u.Class, "side", u.Side)
	if u.Carrying == "" {
		return
	}
	carried, found := b.Unit(u.Carrying)
	u.Carrying = ""
	if !found || !ok {
		return
	}
	carried.Carried = false
	if err := b.Grid.Place(carried, sq); err != nil {
		slog.Warn("drop carried unit", "unit", carried.ID, "error", err)
	}
}
