package agent

import (
	"fmt"

	"github.com/nstehr/skirmish/ipc"
	"github.com/nstehr/skirmish/model"
	"github.com/nstehr/skirmish/rules"
)

// EventKind identifies the category of a battle event reported to clients
// alongside the state.
type EventKind string

const (
	EventMove         EventKind = "move"
	EventUnitDefeated EventKind = "unit_defeated"
	EventUnitRevived  EventKind = "unit_revived"
	EventTurnStarted  EventKind = "turn_started"
	EventBattleWon    EventKind = "battle_won"
)

// stateSnapshot captures the diffable fields of a battle. The session
// stores the last one it reported and compares against the next.
type stateSnapshot struct {
	turn   int
	active model.Side
	winner model.Side
	ids    []string       // battle order
	hp     map[string]int // unit id → hp
	names  map[string]string
}

func takeSnapshot(b *rules.Battle) stateSnapshot {
	snap := stateSnapshot{
		turn:   b.Turn,
		active: b.Active,
		hp:     make(map[string]int, len(b.Units)),
		names:  make(map[string]string, len(b.Units)),
	}
	if w, ok := b.Winner(); ok {
		snap.winner = w
	}
	for _, u := range b.Units {
		snap.ids = append(snap.ids, u.ID)
		snap.hp[u.ID] = u.HP
		snap.names[u.ID] = u.Name
	}
	return snap
}

// detectEvents compares cur against prev and lists what changed, after one
// move event per committed outcome. A nil prev means this is the first
// report: nothing has happened yet.
func detectEvents(prev *stateSnapshot, cur stateSnapshot, outcomes []rules.Outcome) []ipc.Event {
	if prev == nil {
		return nil
	}
	var events []ipc.Event

	for _, out := range outcomes {
		events = append(events, ipc.Event{
			Kind:   string(EventMove),
			Turn:   cur.turn,
			Unit:   out.Move.Unit,
			Detail: describeOutcome(out),
		})
	}

	for _, id := range cur.ids {
		hp := cur.hp[id]
		before, known := prev.hp[id]
		if !known {
			continue
		}
		switch {
		case before > 0 && hp <= 0:
			events = append(events, ipc.Event{Kind: string(EventUnitDefeated), Turn: cur.turn, Unit: id, Detail: cur.names[id] + " was defeated"})
		case before <= 0 && hp > 0:
			events = append(events, ipc.Event{Kind: string(EventUnitRevived), Turn: cur.turn, Unit: id, Detail: cur.names[id] + " is back"})
		}
	}

	if cur.turn != prev.turn || cur.active != prev.active {
		events = append(events, ipc.Event{Kind: string(EventTurnStarted), Turn: cur.turn, Detail: fmt.Sprintf("turn %d: %s to move", cur.turn, cur.active)})
	}

	if cur.winner != "" && prev.winner == "" {
		events = append(events, ipc.Event{Kind: string(EventBattleWon), Turn: cur.turn, Detail: string(cur.winner) + " wins"})
	}

	return events
}

func describeOutcome(out rules.Outcome) string {
	m := out.Move
	switch m.Kind {
	case model.AttackAction:
		if !out.Hit {
			return fmt.Sprintf("%s: missed (roll %d)", m, out.Roll)
		}
		return fmt.Sprintf("%s: %d damage (roll %d)", m, out.Damage, out.Roll)
	case model.SkillAction:
		if out.Healed > 0 {
			return fmt.Sprintf("%s: healed %d", m, out.Healed)
		}
		return fmt.Sprintf("%s: affected %d", m, len(out.Affected))
	}
	return m.String()
}
