package rules

import (
	"slices"

	"github.com/nstehr/skirmish/model"
)

// Unreachable marks a pair of squares with no connecting path.
const Unreachable = -1

// NoProfile keys the distance map of a unit without movement capabilities.
const NoProfile model.CapabilityID = ""

// DistanceMaps holds one all-pairs step-distance table per movement
// profile. Distances count steps through passable tiles and ignore cost
// and occupancy. Treat as immutable.
type DistanceMaps struct {
	width  int
	height int
	tables map[model.CapabilityID][]int32
}

// NewDistanceMaps runs a breadth-first search from every square for each
// profile, plus the baseline profile. An impassable square reaches only
// itself, which keeps every table symmetric.
func NewDistanceMaps(g *model.Grid, profiles []model.CapabilityID) *DistanceMaps {
	dm := &DistanceMaps{width: g.Width, height: g.Height, tables: make(map[model.CapabilityID][]int32)}
	dm.tables[NoProfile] = buildTable(g, nil)
	for _, p := range profiles {
		if p == NoProfile {
			continue
		}
		dm.tables[p] = buildTable(g, model.CapabilitySet{p})
	}
	return dm
}

func buildTable(g *model.Grid, caps model.CapabilitySet) []int32 {
	n := g.Width * g.Height
	passable := make([]bool, n)
	for i, sq := range g.Squares() {
		passable[i] = g.Tile(sq).Passable.Allows(caps)
	}
	table := make([]int32, n*n)
	queue := make([]int, 0, n)
	for src := 0; src < n; src++ {
		row := table[src*n : (src+1)*n]
		for i := range row {
			row[i] = Unreachable
		}
		row[src] = 0
		if !passable[src] {
			continue
		}
		queue = append(queue[:0], src)
		for head := 0; head < len(queue); head++ {
			cur := queue[head]
			x, y := cur%g.Width, cur/g.Width
			for _, d := range model.Directions {
				nx, ny := x+d.X, y+d.Y
				if nx < 0 || ny < 0 || nx >= g.Width || ny >= g.Height {
					continue
				}
				next := ny*g.Width + nx
				if !passable[next] || row[next] != Unreachable {
					continue
				}
				row[next] = row[cur] + 1
				queue = append(queue, next)
			}
		}
	}
	return table
}

// Distance returns the step distance from a to b under profile, or
// Unreachable. Unknown profiles use the baseline table.
func (dm *DistanceMaps) Distance(profile model.CapabilityID, a, b model.Square) int {
	table, ok := dm.tables[profile]
	if !ok {
		table = dm.tables[NoProfile]
	}
	if a.X < 0 || a.Y < 0 || a.X >= dm.width || a.Y >= dm.height ||
		b.X < 0 || b.Y < 0 || b.X >= dm.width || b.Y >= dm.height {
		return Unreachable
	}
	n := dm.width * dm.height
	return int(table[(a.Y*dm.width+a.X)*n+b.Y*dm.width+b.X])
}

// Profiles lists the keyed profiles, baseline first.
func (dm *DistanceMaps) Profiles() []model.CapabilityID {
	var out []model.CapabilityID
	for p := range dm.tables {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// RebuildDistanceMaps recomputes the tables after a terrain change.
func (b *Battle) RebuildDistanceMaps() {
	b.dist = NewDistanceMaps(b.Grid, b.profiles)
}

// DistanceMaps exposes the current tables.
func (b *Battle) DistanceMaps() *DistanceMaps { return b.dist }

// DistanceBetweenUnits is the shortest distance from a to c over the
// baseline profile and every movement profile a holds. It falls back to
// Manhattan distance when no profile connects them, and returns
// Unreachable if either unit is off the grid.
func (b *Battle) DistanceBetweenUnits(a, c *model.Unit) int {
	pa, ok := b.Grid.Locate(a)
	if !ok {
		return Unreachable
	}
	pc, ok := b.Grid.Locate(c)
	if !ok {
		return Unreachable
	}
	best := b.dist.Distance(NoProfile, pa, pc)
	for _, capability := range a.Capabilities {
		m, ok := capability.(model.MovementModifier)
		if !ok || !m.MovementProfile() {
			continue
		}
		d := b.dist.Distance(capability.ID(), pa, pc)
		if d != Unreachable && (best == Unreachable || d < best) {
			best = d
		}
	}
	if best == Unreachable {
		return pa.Manhattan(pc)
	}
	return best
}
