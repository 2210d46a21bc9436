package agent

import (
	"errors"
	"testing"

	"github.com/nstehr/skirmish/model"
	"github.com/nstehr/skirmish/rules"
	"github.com/nstehr/skirmish/scenario"
)

const duel = `
name: duel
map:
  - "......"
  - "......"
  - "......"
units:
  - {id: k, name: Kay, side: blue, class: knight, at: [0, 1]}
  - {id: a, name: Robin, side: blue, class: archer, at: [0, 0]}
  - {id: m, name: Morgause, side: red, class: mage, at: [5, 1]}
`

func newSession(t *testing.T, doc string, human model.Side) *Session {
	t.Helper()
	f, err := scenario.Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.Seed = 7
	s, err := NewSession(f, human, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestStateReportsUnits(t *testing.T) {
	s := newSession(t, duel, "")
	st := s.State()
	if st.Session != s.ID || st.Scenario != "duel" || st.Active != model.Blue || st.Turn != 1 {
		t.Errorf("state header %+v", st)
	}
	if len(st.Units) != 3 {
		t.Fatalf("got %d units", len(st.Units))
	}
	k := st.Units[0]
	if k.ID != "k" || k.At == nil || *k.At != (model.Square{X: 0, Y: 1}) || k.HP != k.MaxHP {
		t.Errorf("knight state %+v", k)
	}
	if len(st.Events) != 0 {
		t.Errorf("first report carries events: %+v", st.Events)
	}
}

func TestPlanDoesNotCommit(t *testing.T) {
	s := newSession(t, duel, "")
	before := s.State().Board
	m, err := s.Plan("")
	if err != nil {
		t.Fatal(err)
	}
	if m.Unit == "" {
		t.Error("planned move has no unit")
	}
	if after := s.State().Board; after != before {
		t.Errorf("planning moved units:\n%s\nvs\n%s", before, after)
	}
}

func TestApplyPlannedMove(t *testing.T) {
	s := newSession(t, duel, "")
	m, err := s.Plan("k")
	if err != nil {
		t.Fatal(err)
	}
	out, err := s.Apply(m)
	if err != nil {
		t.Fatalf("Apply planned move: %v", err)
	}
	if out.Move.Unit != "k" {
		t.Errorf("outcome for %s", out.Move.Unit)
	}
	st := s.State()
	if len(st.Events) == 0 || st.Events[0].Kind != string(EventMove) {
		t.Errorf("events after apply: %+v", st.Events)
	}
	if _, err := s.Apply(m); !errors.Is(err, rules.ErrIllegalMove) {
		t.Errorf("second apply error = %v, want illegal move", err)
	}
}

func TestPlanErrors(t *testing.T) {
	s := newSession(t, duel, "")
	if _, err := s.Plan("nobody"); !errors.Is(err, rules.ErrInvalidReference) {
		t.Errorf("unknown unit: %v", err)
	}
	if _, err := s.Plan("m"); !errors.Is(err, rules.ErrOutOfTurn) {
		t.Errorf("enemy unit: %v", err)
	}
	if _, err := s.Squares("nobody"); !errors.Is(err, rules.ErrInvalidReference) {
		t.Errorf("squares of unknown unit: %v", err)
	}
}

func TestSquares(t *testing.T) {
	s := newSession(t, duel, "")
	squares, err := s.Squares("k")
	if err != nil {
		t.Fatal(err)
	}
	if !model.ContainsSquare(squares, model.Square{X: 0, Y: 1}) {
		t.Error("a unit may always stay put")
	}
	if model.ContainsSquare(squares, model.Square{X: 0, Y: 0}) {
		t.Error("occupied square offered")
	}
}

func TestAutoplayThenEndTurn(t *testing.T) {
	s := newSession(t, duel, "")
	outs, err := s.Autoplay()
	if err != nil {
		t.Fatal(err)
	}
	if len(outs) == 0 || len(outs) > 2 {
		t.Errorf("autoplay made %d moves for two units", len(outs))
	}
	if _, err := s.EndTurn(); err != nil {
		t.Fatal(err)
	}
	st := s.State()
	if st.Active != model.Red || st.Turn != 2 {
		t.Errorf("after end turn: %s turn %d", st.Active, st.Turn)
	}
	var started bool
	for _, e := range st.Events {
		started = started || e.Kind == string(EventTurnStarted)
	}
	if !started {
		t.Errorf("no turn_started event in %+v", st.Events)
	}
}

func TestComputerPlaysOtherSide(t *testing.T) {
	// Red moves first and is the computer's: it has already played when
	// the session opens.
	doc := duel + "first: red\n"
	s := newSession(t, doc, model.Blue)
	st := s.State()
	if st.Active != model.Blue || st.Turn != 2 {
		t.Fatalf("opening: %s turn %d", st.Active, st.Turn)
	}

	m, err := s.Plan("")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Apply(m); err != nil {
		t.Fatal(err)
	}
	outs, err := s.EndTurn()
	if err != nil {
		t.Fatal(err)
	}
	st = s.State()
	if st.Winner == "" && (st.Active != model.Blue || st.Turn != 4) {
		t.Errorf("after computer reply: %s turn %d", st.Active, st.Turn)
	}
	for _, out := range outs {
		if out.Move.Unit != "m" {
			t.Errorf("computer moved %s", out.Move.Unit)
		}
	}
}

func TestHumanCannotMoveComputerUnits(t *testing.T) {
	s := newSession(t, duel, model.Red)
	// Blue is the computer's and moved first; control is back with red.
	if st := s.State(); st.Active != model.Red && st.Winner == "" {
		t.Fatalf("active %s", st.Active)
	}
	_, err := s.Apply(model.Move{Unit: "k", Destination: model.Square{X: 0, Y: 1}})
	if !errors.Is(err, rules.ErrOutOfTurn) {
		t.Errorf("apply for computer unit: %v", err)
	}
}

func TestBattleOverRejectsActions(t *testing.T) {
	doc := `
name: done
turn_limit: 1
defender: red
map: ["...."]
units:
  - {id: k, side: blue, class: knight, at: [0, 0]}
  - {id: m, side: red, class: mage, at: [3, 0]}
`
	s := newSession(t, doc, "")
	if _, err := s.EndTurn(); err != nil {
		t.Fatal(err)
	}
	st := s.State()
	if st.Winner != model.Red {
		t.Fatalf("winner %q after the turn limit", st.Winner)
	}
	var won bool
	for _, e := range st.Events {
		won = won || e.Kind == string(EventBattleWon)
	}
	if !won {
		t.Errorf("no battle_won event in %+v", st.Events)
	}
	if _, err := s.Plan(""); !errors.Is(err, ErrBattleOver) {
		t.Errorf("plan after the end: %v", err)
	}
	if _, err := s.EndTurn(); !errors.Is(err, ErrBattleOver) {
		t.Errorf("end turn after the end: %v", err)
	}
}

func TestInvalidHumanSide(t *testing.T) {
	f, err := scenario.Parse([]byte(duel))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewSession(f, "green", DefaultConfig()); err == nil {
		t.Error("green accepted")
	}
}
