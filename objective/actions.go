package objective

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/nstehr/skirmish/catalog"
	"github.com/nstehr/skirmish/model"
	"github.com/nstehr/skirmish/rules"
)

// ActionWin ends the battle in side's favour.
func ActionWin(side model.Side, reason string) ActionFunc {
	return func(env Env, b *rules.Battle) error {
		b.Declare(side, reason)
		return nil
	}
}

// ActionGrant gives every unit matched by who a fresh capability id. A
// status already held is refreshed.
func ActionGrant(cat *catalog.Catalog, who string, id model.CapabilityID) ActionFunc {
	return func(env Env, b *rules.Battle) error {
		for _, u := range targets(b, who) {
			c, err := cat.Capability(id)
			if err != nil {
				return err
			}
			slog.Debug("granting capability", "unit", u.ID, "capability", id)
			rules.Grant(u, c)
		}
		return nil
	}
}

// ActionHeal restores amount hit points to every unit matched by who.
func ActionHeal(who string, amount int) ActionFunc {
	return func(env Env, b *rules.Battle) error {
		for _, u := range targets(b, who) {
			if healed := u.Heal(amount); healed > 0 {
				slog.Debug("healing unit", "unit", u.ID, "amount", healed)
			}
		}
		return nil
	}
}

// ActionAnnounce logs msg; scenarios use it for narration.
func ActionAnnounce(msg string) ActionFunc {
	return func(env Env, b *rules.Battle) error {
		slog.Info("scenario", "turn", env.Turn, "message", msg)
		return nil
	}
}

// targets resolves a side name to its living units on the grid, or a unit
// id to that unit while it lives.
func targets(b *rules.Battle, who string) []*model.Unit {
	if side := model.Side(who); side.Valid() {
		return b.OnGrid(side)
	}
	if u, ok := b.Unit(who); ok && u.Alive() {
		return []*model.Unit{u}
	}
	return nil
}

// ParseAction builds an action from its script form:
//
//	win <side>
//	grant <side|unit> <capability>
//	heal <side|unit> <amount>
//	say <message>
func ParseAction(cat *catalog.Catalog, src string) (ActionFunc, error) {
	verb, rest, _ := strings.Cut(strings.TrimSpace(src), " ")
	args := strings.Fields(rest)
	switch verb {
	case "win":
		if len(args) != 1 || !model.Side(args[0]).Valid() {
			return nil, fmt.Errorf("action %q: want win <side>", src)
		}
		return ActionWin(model.Side(args[0]), "scripted"), nil
	case "grant":
		if len(args) != 2 {
			return nil, fmt.Errorf("action %q: want grant <who> <capability>", src)
		}
		id := model.CapabilityID(args[1])
		if _, err := cat.Capability(id); err != nil {
			return nil, fmt.Errorf("action %q: %w", src, err)
		}
		return ActionGrant(cat, args[0], id), nil
	case "heal":
		if len(args) != 2 {
			return nil, fmt.Errorf("action %q: want heal <who> <amount>", src)
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("action %q: amount must be a positive integer", src)
		}
		return ActionHeal(args[0], n), nil
	case "say":
		if strings.TrimSpace(rest) == "" {
			return nil, fmt.Errorf("action %q: nothing to say", src)
		}
		return ActionAnnounce(strings.TrimSpace(rest)), nil
	}
	return nil, fmt.Errorf("unknown action %q", src)
}

// sequence runs actions in order, stopping at the first error.
func sequence(actions []ActionFunc) ActionFunc {
	return func(env Env, b *rules.Battle) error {
		for _, a := range actions {
			if err := a(env, b); err != nil {
				return err
			}
		}
		return nil
	}
}
