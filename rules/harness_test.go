package rules

import (
	"encoding/json"
	"fmt"
	"sort"
	"testing"

	"github.com/nstehr/skirmish/catalog"
	"github.com/nstehr/skirmish/model"
)

// fixture builds small battles for tests.
type fixture struct {
	rows   []string
	first  model.Side
	cat    *catalog.Catalog
	placed []placement
}

type placement struct {
	spec  catalog.UnitSpec
	at    model.Square
	edits []func(*model.Unit)
}

type option func(*fixture)

func withMap(rows ...string) option {
	return func(f *fixture) { f.rows = rows }
}

func withFirst(side model.Side) option {
	return func(f *fixture) { f.first = side }
}

func withUnit(id string, side model.Side, class model.Class, x, y int, edits ...func(*model.Unit)) option {
	return func(f *fixture) {
		f.placed = append(f.placed, placement{
			spec:  catalog.UnitSpec{ID: id, Name: id, Side: side, Class: class},
			at:    model.Square{X: x, Y: y},
			edits: edits,
		})
	}
}

// movement sets both base and current movement.
func movement(n int) func(*model.Unit) {
	return func(u *model.Unit) {
		u.Base.Movement = n
		u.Stats.Movement = n
	}
}

func stats(s model.Stats) func(*model.Unit) {
	return func(u *model.Unit) {
		u.Base = s
		u.Stats = s
	}
}

func hp(n int) func(*model.Unit) {
	return func(u *model.Unit) { u.HP = n }
}

func acted(u *model.Unit) { u.Acted = true }

// only replaces the capability list; no ids means none.
func only(ids ...model.CapabilityID) func(*model.Unit) {
	return func(u *model.Unit) {
		u.Capabilities = nil
		for _, id := range ids {
			c, err := catalog.New().Capability(id)
			if err != nil {
				panic(err)
			}
			u.Grant(c)
		}
	}
}

func attacks(ids ...model.AttackID) func(*model.Unit) {
	return func(u *model.Unit) {
		u.Attacks = nil
		for _, id := range ids {
			u.Attacks = append(u.Attacks, catalog.Attacks[id])
		}
	}
}

func newBattle(t *testing.T, opts ...option) *Battle {
	t.Helper()
	f := &fixture{
		rows:  []string{".....", ".....", ".....", ".....", "....."},
		first: model.Blue,
		cat:   catalog.New(),
	}
	for _, o := range opts {
		o(f)
	}
	grid, err := model.ParseGrid(f.rows)
	if err != nil {
		t.Fatalf("ParseGrid: %v", err)
	}
	b := NewBattle(grid, f.cat.MovementProfiles())
	for _, p := range f.placed {
		u, err := f.cat.NewUnit(p.spec)
		if err != nil {
			t.Fatalf("NewUnit %s: %v", p.spec.ID, err)
		}
		for _, edit := range p.edits {
			edit(u)
		}
		if err := b.Deploy(u, p.at); err != nil {
			t.Fatalf("Deploy %s: %v", p.spec.ID, err)
		}
	}
	b.Active = f.first
	return b
}

func unit(t *testing.T, b *Battle, id string) *model.Unit {
	t.Helper()
	u, ok := b.Unit(id)
	if !ok {
		t.Fatalf("no unit %q", id)
	}
	return u
}

func sq(x, y int) model.Square { return model.Square{X: x, Y: y} }

func sameSquares(a, b []model.Square) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// fingerprint serialises every piece of mutable battle state.
func fingerprint(t *testing.T, b *Battle) string {
	t.Helper()
	type capState struct {
		ID    model.CapabilityID
		Usage model.Usage
	}
	type unitState struct {
		Unit *model.Unit
		Caps []capState
		At   string
		From string
	}
	var out []unitState
	for _, u := range b.Units {
		s := unitState{Unit: u}
		for _, c := range u.Capabilities {
			s.Caps = append(s.Caps, capState{c.ID(), *c.Usage()})
		}
		if at, ok := b.Grid.Locate(u); ok {
			s.At = at.String()
		}
		if from, ok := b.turnStart[u]; ok {
			s.From = from.String()
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Unit.ID < out[j].Unit.ID })
	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return fmt.Sprintf("%s|%s", raw, b.Grid.Render())
}
