package rules

import "github.com/nstehr/skirmish/model"

type unitState struct {
	unit     *model.Unit
	hp       int
	stats    model.Stats
	acted    bool
	carried  bool
	carrying string
	caps     []model.Capability
	usage    []model.Usage
}

// Snapshot captures every field that planning or a committed move can
// change: unit hit points, stats, ready flags, carry state, capability
// lists with their use counters, grid occupancy, turn-start squares and
// any declared winner.
type Snapshot struct {
	units     []unitState
	occupancy map[*model.Unit]model.Square
	turnStart map[*model.Unit]model.Square
	declared  model.Side
}

// Snapshot records the mutable battle state.
func (b *Battle) Snapshot() *Snapshot {
	s := &Snapshot{
		units:     make([]unitState, len(b.Units)),
		occupancy: b.Grid.Occupancy(),
		turnStart: make(map[*model.Unit]model.Square, len(b.turnStart)),
		declared:  b.declared,
	}
	for u, sq := range b.turnStart {
		s.turnStart[u] = sq
	}
	for i, u := range b.Units {
		st := unitState{
			unit:     u,
			hp:       u.HP,
			stats:    u.Stats,
			acted:    u.Acted,
			carried:  u.Carried,
			carrying: u.Carrying,
			caps:     append([]model.Capability(nil), u.Capabilities...),
			usage:    make([]model.Usage, len(u.Capabilities)),
		}
		for j, c := range u.Capabilities {
			st.usage[j] = *c.Usage()
		}
		s.units[i] = st
	}
	return s
}

// Restore puts the battle back exactly as it was when s was taken.
func (b *Battle) Restore(s *Snapshot) {
	b.Units = b.Units[:0]
	for _, st := range s.units {
		u := st.unit
		u.HP = st.hp
		u.Stats = st.stats
		u.Acted = st.acted
		u.Carried = st.carried
		u.Carrying = st.carrying
		u.Capabilities = append(u.Capabilities[:0:0], st.caps...)
		for j, c := range u.Capabilities {
			*c.Usage() = st.usage[j]
		}
		b.Units = append(b.Units, u)
	}
	b.declared = s.declared
	b.Grid.Reset(s.occupancy)
	clear(b.turnStart)
	for u, sq := range s.turnStart {
		b.turnStart[u] = sq
	}
}
