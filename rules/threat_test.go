package rules

import (
	"testing"

	"github.com/nstehr/skirmish/model"
)

func TestThreatBoardCoverage(t *testing.T) {
	b := newBattle(t, withMap("......."),
		withUnit("archer", model.Red, model.Archer, 0, 0, movement(1), attacks("bow")),
	)
	board := b.BuildThreatBoard(model.Red)
	for x := 0; x < 7; x++ {
		got := len(board.At(sq(x, 0)))
		want := 0
		if x <= 3 {
			want = 1
		}
		if got != want {
			t.Errorf("threats at (%d,0) = %d, want %d", x, got, want)
		}
	}
	if board.At(sq(-1, 0)) != nil || board.At(sq(7, 0)) != nil {
		t.Error("out-of-bounds lookups should be empty")
	}
}

func TestThreatBoardHonoursMinRange(t *testing.T) {
	b := newBattle(t, withMap("......."),
		withUnit("archer", model.Red, model.Archer, 3, 0, movement(0), attacks("bow")),
	)
	board := b.BuildThreatBoard(model.Red)
	if n := len(board.At(sq(3, 0))); n != 0 {
		t.Errorf("archer threatens its own square %d times", n)
	}
	if n := len(board.At(sq(1, 0))); n != 1 {
		t.Errorf("threats at range 2 = %d, want 1", n)
	}
}

func TestIncomingDamage(t *testing.T) {
	b := newBattle(t, withMap("......."),
		withUnit("a", model.Red, model.Knight, 0, 0, movement(1), only()),
		withUnit("b", model.Red, model.Knight, 4, 0, movement(1), only()),
		withUnit("far", model.Red, model.Knight, 6, 0, movement(1), only()),
		withUnit("target", model.Blue, model.Knight, 2, 0, only()),
	)
	board := b.BuildThreatBoard(model.Red)
	target := unit(t, b, "target")

	// Each adjacent knight's best hit is the axe: 5 * 1.5 = 7.5 -> 8, at 75%.
	if got := b.MaxIncomingDamage(board, target, false); got != 16 {
		t.Errorf("MaxIncomingDamage = %d, want 16", got)
	}
	if got := b.ProbableIncomingDamage(board, target, false); got != 12 {
		t.Errorf("ProbableIncomingDamage = %v, want 12", got)
	}

	unit(t, b, "b").Acted = true
	if got := b.MaxIncomingDamage(board, target, true); got != 8 {
		t.Errorf("MaxIncomingDamage ignoring acted = %d, want 8", got)
	}
	if got := b.MaxIncomingDamage(board, target, false); got != 16 {
		t.Errorf("MaxIncomingDamage counting acted = %d, want 16", got)
	}

	unit(t, b, "a").HP = 0
	if got := b.MaxIncomingDamage(board, target, false); got != 8 {
		t.Errorf("dead attacker still counted: %d", got)
	}
}

func TestCarriedUnitsInvisible(t *testing.T) {
	b := newBattle(t, withMap("....."),
		withUnit("carrier", model.Blue, model.Knight, 1, 0),
		withUnit("rider", model.Blue, model.Cleric, 2, 0),
		withUnit("enemy", model.Red, model.Archer, 4, 0, attacks("bow")),
	)
	rider := unit(t, b, "rider")
	if err := b.Carry(unit(t, b, "carrier"), rider); err != nil {
		t.Fatal(err)
	}
	if got := b.TargetsInRange(sq(4, 0), 4, model.Blue); !sameSquares(got, []model.Square{sq(1, 0)}) {
		t.Errorf("targets = %v, want only the carrier", got)
	}
	board := b.BuildThreatBoard(model.Red)
	if got := b.MaxIncomingDamage(board, rider, false); got != 0 {
		t.Errorf("carried unit takes %d incoming damage", got)
	}
}
