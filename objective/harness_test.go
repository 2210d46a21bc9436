package objective

import (
	"testing"

	"github.com/nstehr/skirmish/catalog"
	"github.com/nstehr/skirmish/model"
	"github.com/nstehr/skirmish/rules"
)

type deployment struct {
	id    string
	side  model.Side
	class model.Class
	x, y  int
}

// newBattle deploys units on rows without beginning a turn.
func newBattle(t *testing.T, rows []string, units ...deployment) (*rules.Battle, *catalog.Catalog) {
	t.Helper()
	cat := catalog.New()
	g, err := model.ParseGrid(rows)
	if err != nil {
		t.Fatal(err)
	}
	b := rules.NewBattle(g, cat.MovementProfiles())
	for _, d := range units {
		u, err := cat.NewUnit(catalog.UnitSpec{ID: d.id, Name: d.id, Side: d.side, Class: d.class})
		if err != nil {
			t.Fatal(err)
		}
		if err := b.Deploy(u, model.Square{X: d.x, Y: d.y}); err != nil {
			t.Fatal(err)
		}
	}
	return b, cat
}

func mustUnit(t *testing.T, b *rules.Battle, id string) *model.Unit {
	t.Helper()
	u, ok := b.Unit(id)
	if !ok {
		t.Fatalf("no unit %q", id)
	}
	return u
}
