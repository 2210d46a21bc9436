package rules

import (
	"fmt"
	"log/slog"

	"github.com/nstehr/skirmish/model"
)

// BeginTurn hands control to side. Its units lose expired statuses, return
// to base stats, fire turn-start triggers and become ready. Every unit's
// turn-start square is recorded.
func (b *Battle) BeginTurn(side model.Side) {
	b.Active = side
	for _, u := range b.Units {
		if u.Side != side || !u.Alive() {
			continue
		}
		for _, c := range u.Capabilities {
			if c.Usage().PerTurn() {
				c.Usage().Tick()
			}
		}
		u.DropExpired()
		u.Stats = u.Base
		for _, c := range u.Capabilities {
			if t, ok := c.(model.TurnStartTrigger); ok {
				t.OnTurnStart(u)
			}
		}
		u.Acted = false
	}
	clear(b.turnStart)
	for u, sq := range b.Grid.Occupancy() {
		b.turnStart[u] = sq
	}
	slog.Debug("turn begun", "side", side, "turn", b.Turn)
	for _, fn := range b.turnHooks {
		fn(b)
	}
}

// EndTurn passes control to the other side and advances the turn counter.
func (b *Battle) EndTurn() {
	b.Turn++
	b.BeginTurn(b.Active.Opponent())
}

// TurnOver reports whether the active side has no unit left to act.
func (b *Battle) TurnOver() bool {
	return len(b.Ready(b.Active)) == 0
}

// Carry lifts an adjacent ally off the grid. Carried units are invisible
// to targeting and threat boards until released.
func (b *Battle) Carry(carrier, passenger *model.Unit) error {
	if carrier == passenger || carrier.Side != passenger.Side {
		return fmt.Errorf("%w: %s cannot carry %s", ErrIllegalMove, carrier.ID, passenger.ID)
	}
	if carrier.Carrying != "" || passenger.Carrying != "" || carrier.Carried {
		return fmt.Errorf("%w: %s or %s is already carrying", ErrIllegalMove, carrier.ID, passenger.ID)
	}
	from, ok := b.Grid.Locate(carrier)
	if !ok {
		return fmt.Errorf("%w: %s is not on the grid", ErrIllegalMove, carrier.ID)
	}
	at, ok := b.Grid.Locate(passenger)
	if !ok || from.Manhattan(at) != 1 {
		return fmt.Errorf("%w: %s is not next to %s", ErrIllegalMove, passenger.ID, carrier.ID)
	}
	b.Grid.Remove(passenger)
	delete(b.turnStart, passenger)
	passenger.Carried = true
	carrier.Carrying = passenger.ID
	return nil
}

// Release sets the carried unit down on an empty square next to the
// carrier.
func (b *Battle) Release(carrier *model.Unit, sq model.Square) error {
	passenger, ok := b.Unit(carrier.Carrying)
	if !ok {
		return fmt.Errorf("%w: %s carries nothing", ErrIllegalMove, carrier.ID)
	}
	from, ok := b.Grid.Locate(carrier)
	if !ok || from.Manhattan(sq) != 1 || !b.Grid.InBounds(sq) {
		return fmt.Errorf("%w: %s is not next to %s", ErrIllegalMove, sq, carrier.ID)
	}
	if b.Grid.Occupant(sq) != nil || !b.Grid.Tile(sq).Landable.Allows(passenger.CapabilitySet()) {
		return fmt.Errorf("%w: %s cannot land on %s", ErrIllegalMove, passenger.ID, sq)
	}
	if err := b.Grid.Place(passenger, sq); err != nil {
		return err
	}
	passenger.Carried = false
	carrier.Carrying = ""
	b.turnStart[passenger] = sq
	return nil
}
