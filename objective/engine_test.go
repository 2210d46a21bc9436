package objective

import (
	"reflect"
	"strings"
	"testing"

	"github.com/nstehr/skirmish/model"
	"github.com/nstehr/skirmish/rules"
)

func record(log *[]string, name string) ActionFunc {
	return func(Env, *rules.Battle) error {
		*log = append(*log, name)
		return nil
	}
}

func TestEngineSortsByPriority(t *testing.T) {
	var log []string
	eng, err := NewEngine([]*Rule{
		{Name: "low", Priority: 1, Category: "a", ConditionSrc: "true", Action: record(&log, "low")},
		{Name: "high", Priority: 10, Category: "b", ConditionSrc: "true", Action: record(&log, "high")},
		{Name: "mid", Priority: 5, Category: "c", ConditionSrc: "true", Action: record(&log, "mid")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := eng.Rules(); !reflect.DeepEqual(got, []string{"high", "mid", "low"}) {
		t.Errorf("rule order %v", got)
	}
	b, _ := newBattle(t, []string{".."})
	fired, err := eng.Evaluate(b)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(fired, log) || len(log) != 3 {
		t.Errorf("fired %v, actions ran %v", fired, log)
	}
}

func TestExclusiveBlocksCategory(t *testing.T) {
	var log []string
	eng, err := NewEngine([]*Rule{
		{Name: "first", Priority: 2, Category: "victory", Exclusive: true, ConditionSrc: "true", Action: record(&log, "first")},
		{Name: "second", Priority: 1, Category: "victory", ConditionSrc: "true", Action: record(&log, "second")},
		{Name: "other", Priority: 0, Category: "script", ConditionSrc: "true", Action: record(&log, "other")},
	})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := newBattle(t, []string{".."})
	if _, err := eng.Evaluate(b); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(log, []string{"first", "other"}) {
		t.Errorf("actions ran %v", log)
	}
}

func TestOnceRulesFireOnce(t *testing.T) {
	var log []string
	eng, err := NewEngine([]*Rule{
		{Name: "intro", Once: true, ConditionSrc: "Turn >= 1", Action: record(&log, "intro")},
		{Name: "every", ConditionSrc: `Fired("intro")`, Action: record(&log, "every")},
	})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := newBattle(t, []string{".."})
	for i := 0; i < 3; i++ {
		if _, err := eng.Evaluate(b); err != nil {
			t.Fatal(err)
		}
	}
	// "every" runs after "intro" in the first pass since both have priority 0.
	want := []string{"intro", "every", "every", "every"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("actions ran %v, want %v", log, want)
	}
}

func TestConditionRuntimeErrorSkipsRule(t *testing.T) {
	var log []string
	eng, err := NewEngine([]*Rule{
		{Name: "broken", Priority: 1, ConditionSrc: `Memory["missing"] > 1`, Action: record(&log, "broken")},
		{Name: "fine", ConditionSrc: "true", Action: record(&log, "fine")},
	})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := newBattle(t, []string{".."})
	if _, err := eng.Evaluate(b); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(log, []string{"fine"}) {
		t.Errorf("actions ran %v", log)
	}
}

func TestCompileErrorNamesRule(t *testing.T) {
	_, err := NewEngine([]*Rule{{Name: "typo", ConditionSrc: "Livng('blue') > 0"}})
	if err == nil {
		t.Fatal("expected compile error")
	}
	if !strings.HasPrefix(err.Error(), `compile rule "typo"`) {
		t.Errorf("error %v", err)
	}
	if _, err := NewEngine([]*Rule{{Name: "number", ConditionSrc: "Turn + 1"}}); err == nil {
		t.Error("non-boolean condition compiled")
	}
}

func TestAttachRunsAtTurnStart(t *testing.T) {
	b, _ := newBattle(t, []string{"...G"},
		deployment{"k", model.Blue, model.Knight, 3, 0},
		deployment{"m", model.Red, model.Mage, 0, 0},
	)
	eng, err := NewEngine([]*Rule{{
		Name: "seize", Category: categoryVictory, Exclusive: true,
		ConditionSrc: `Active == "blue" && OnGoal("blue")`,
		Action:       ActionWin(model.Blue, "goal seized"),
	}})
	if err != nil {
		t.Fatal(err)
	}
	eng.Attach(b)

	b.BeginTurn(model.Red)
	if _, over := b.Winner(); over {
		t.Fatal("red's turn start decided the battle")
	}
	b.EndTurn()
	if w, _ := b.Winner(); w != model.Blue {
		t.Errorf("winner %q, want blue", w)
	}
}
