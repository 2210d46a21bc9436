package objective

import (
	"testing"

	"github.com/nstehr/skirmish/model"
	"github.com/nstehr/skirmish/rules"
)

func TestEnvQueries(t *testing.T) {
	b, _ := newBattle(t, []string{
		"G.f..",
		".....",
	},
		deployment{"vip", model.Blue, model.VIP, 0, 0},
		deployment{"guard", model.Blue, model.Knight, 2, 0},
		deployment{"foe", model.Red, model.Assassin, 4, 1},
	)
	mustUnit(t, b, "guard").HP = 0
	env := newEnv(b, map[string]any{})

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"alive", env.Alive("vip"), true},
		{"dead", env.Alive("guard"), false},
		{"missing", env.Alive("nobody"), false},
		{"hp", env.HP("foe"), mustUnit(t, b, "foe").MaxHP},
		{"hp missing", env.HP("nobody"), 0},
		{"living", env.Living("blue"), 1},
		{"count living", env.Count("blue", "knight"), 0},
		{"fielded", env.Fielded("blue", "knight"), 1},
		{"class case", env.Count("blue", "VIP"), 1},
		{"terrain", env.OnTerrain("vip", "goal"), true},
		{"terrain other", env.OnTerrain("foe", "forest"), false},
		{"on goal", env.OnGoal("blue"), true},
		{"enemy not on goal", env.OnGoal("red"), false},
		{"escort on goal", env.EscortOnGoal("blue"), true},
		{"distance", env.Distance("vip", "foe"), 5},
		{"distance to dead", env.Distance("vip", "guard"), rules.Unreachable},
		{"not fired", env.Fired("intro"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestEscortOnGoalNeedsVIP(t *testing.T) {
	b, _ := newBattle(t, []string{
		"G..",
		"...",
	},
		deployment{"guard", model.Blue, model.Knight, 0, 0},
		deployment{"vip", model.Blue, model.VIP, 0, 1},
	)
	env := newEnv(b, nil)
	if !env.OnGoal("blue") {
		t.Fatal("guard should hold the goal")
	}
	if env.EscortOnGoal("blue") {
		t.Fatal("a plain guard on the goal counted as an escort")
	}

	guard, vip := mustUnit(t, b, "guard"), mustUnit(t, b, "vip")
	if err := b.Carry(guard, vip); err != nil {
		t.Fatal(err)
	}
	if !env.EscortOnGoal("blue") {
		t.Error("guard carrying the vip should count")
	}

	vip.HP = 0
	if env.EscortOnGoal("blue") {
		t.Error("a dead vip cannot be escorted")
	}
}
