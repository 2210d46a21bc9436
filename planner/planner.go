// Package planner is the one-ply decision engine. For a unit it enumerates
// every destination, attack and skill, plays each out in expectation on
// the live battle, scores the board and rolls the battle back.
package planner

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/nstehr/skirmish/model"
	"github.com/nstehr/skirmish/rules"
)

// Planner chooses moves for one battle. It mutates the battle while
// evaluating and restores it before returning, so callers must not touch
// the battle concurrently.
type Planner struct {
	battle  *rules.Battle
	weights Weights
	policy  Policy
	rng     *rand.Rand
}

// New returns a planner over b. rng drives score noise, unit ordering,
// weighted selection and committed rolls.
func New(b *rules.Battle, w Weights, policy Policy, rng *rand.Rand) *Planner {
	if policy == "" {
		policy = Argmax
	}
	return &Planner{battle: b, weights: w, policy: policy, rng: rng}
}

// acting is the immutable set of units already acting in a nested plan.
type acting map[*model.Unit]bool

func (a acting) with(u *model.Unit) acting {
	next := make(acting, len(a)+1)
	for k := range a {
		next[k] = true
	}
	next[u] = true
	return next
}

// SelectUnit picks the next ready unit of side: lowest class priority
// first, with a little noise so equal classes do not always act in the
// same order.
func (p *Planner) SelectUnit(side model.Side) (*model.Unit, bool) {
	ready := p.battle.Ready(side)
	if len(ready) == 0 {
		return nil, false
	}
	keys := make(map[*model.Unit]float64, len(ready))
	for _, u := range ready {
		keys[u] = p.weights.Priority[u.Class] + p.rng.NormFloat64()*p.weights.PriorityJitter
	}
	sort.SliceStable(ready, func(i, j int) bool { return keys[ready[i]] < keys[ready[j]] })
	return ready[0], true
}

// EnumerateMoves lists every non-redundant move for u.
func (p *Planner) EnumerateMoves(u *model.Unit) ([]model.Move, error) {
	return p.enumerate(u, acting{u: true})
}

func (p *Planner) enumerate(u *model.Unit, busy acting) ([]model.Move, error) {
	b := p.battle
	squares := b.LegalSquares(u)
	if len(squares) == 0 {
		return nil, fmt.Errorf("%w: %s", rules.ErrNoLegalMoves, u.ID)
	}
	start, _ := b.TurnStart(u)
	home, onGrid := b.Position(u)
	if !onGrid {
		return nil, fmt.Errorf("%w: %s is not on the grid", rules.ErrIllegalMove, u.ID)
	}
	defer func() {
		if err := b.Grid.Place(u, home); err != nil {
			slog.Error("return unit after enumeration", "unit", u.ID, "error", err)
		}
	}()

	var moves []model.Move
	for _, sq := range squares {
		if err := b.Grid.Place(u, sq); err != nil {
			return nil, fmt.Errorf("%w: %s to %s: %v", rules.ErrIllegalMove, u.ID, sq, err)
		}
		moves = append(moves, model.NewMove(u.ID, start, sq, nil, model.MoveOnly, ""))
		moves = append(moves, p.attackMoves(u, start, sq)...)
		moves = append(moves, p.skillMoves(u, start, sq, busy)...)
	}
	return moves, nil
}

type attackOption struct {
	atk      model.Attack
	target   model.Square
	accuracy int
	damage   int
}

// dominated reports whether o is no better than other in both accuracy
// and damage and strictly worse in one.
func (o attackOption) dominated(other attackOption) bool {
	return (other.accuracy >= o.accuracy && other.damage > o.damage) ||
		(other.accuracy > o.accuracy && other.damage >= o.damage)
}

func (p *Planner) attackMoves(u *model.Unit, start, sq model.Square) []model.Move {
	b := p.battle
	byTarget := make(map[model.Square][]attackOption)
	var order []model.Square
	for _, atk := range u.Attacks {
		for _, t := range b.AttackOptions(u, sq, atk) {
			def := b.Grid.Occupant(t)
			opt := attackOption{atk: atk, target: t, accuracy: b.Accuracy(u, atk, def), damage: b.MaxDamage(u, atk, def)}
			if opt.damage == 0 {
				continue
			}
			if _, seen := byTarget[t]; !seen {
				order = append(order, t)
			}
			byTarget[t] = append(byTarget[t], opt)
		}
	}

	var moves []model.Move
	for _, t := range order {
		opts := byTarget[t]
		for i, o := range opts {
			beaten := false
			for j, other := range opts {
				if i != j && o.dominated(other) {
					beaten = true
					break
				}
			}
			if !beaten {
				target := o.target
				moves = append(moves, model.NewMove(u.ID, start, sq, &target, model.AttackAction, string(o.atk.ID)))
			}
		}
	}
	return moves
}

func (p *Planner) skillMoves(u *model.Unit, start, sq model.Square, busy acting) []model.Move {
	b := p.battle
	var moves []model.Move
	for _, skill := range rules.Actives(u) {
		tg := skill.Targeting()
		for _, t := range b.SkillOptions(u, sq, skill) {
			occ := b.Grid.Occupant(t)
			if tg.Area && !tg.TargetEnemy && t != sq {
				continue
			}
			if tg.Effect == model.EffectHeal && occ.HP >= occ.MaxHP {
				continue
			}
			if !rules.SkillTargetAllowed(u, skill, occ) || (tg.Effect == model.EffectExtraTurn && busy[occ]) {
				continue
			}
			target := t
			moves = append(moves, model.NewMove(u.ID, start, sq, &target, model.SkillAction, string(skill.ID())))
		}
	}
	return moves
}

// Evaluate scores every move by playing it out in expectation and rolling
// the battle back. The returned moves carry their scores.
func (p *Planner) Evaluate(u *model.Unit, moves []model.Move) []model.Move {
	return p.evaluate(u, moves, acting{u: true})
}

func (p *Planner) evaluate(u *model.Unit, moves []model.Move, busy acting) []model.Move {
	bd := p.buildBoards(u.Side)
	scored := make([]model.Move, len(moves))
	for i, m := range moves {
		snap := p.battle.Snapshot()
		scored[i] = m.Scored(p.simulate(u, m, busy, bd))
		p.battle.Restore(snap)
	}
	return scored
}

// simulate applies m deterministically: attacks deal their full damage
// with hit points floored at zero, skills apply their effect, and an extra
// turn is scored by the beneficiary's own best move.
func (p *Planner) simulate(u *model.Unit, m model.Move, busy acting, bd boards) model.Score {
	b := p.battle
	if err := b.Grid.Place(u, m.Destination); err != nil {
		slog.Error("simulate move", "move", m.String(), "error", err)
		var s model.Score
		s.Add("invalid", -1e9)
		return s
	}
	var bonus float64
	switch m.Kind {
	case model.AttackAction:
		atk, _ := u.Attack(model.AttackID(m.ActionID))
		def := b.Grid.Occupant(*m.Target)
		bonus = float64(b.Accuracy(u, atk, def)) / 100
		def.Damage(b.MaxDamage(u, atk, def))
	case model.SkillAction:
		c, _ := u.Capability(model.CapabilityID(m.ActionID))
		eff := b.ApplySkill(u, c.(model.Targetable), *m.Target)
		if eff.ExtraTurn != nil {
			u.Acted = true
			if s, ok := p.extraTurn(eff.ExtraTurn, busy.with(eff.ExtraTurn)); ok {
				return s
			}
		}
	}
	u.Acted = true
	s := p.Score(u, u.Side, bd)
	if m.Kind == model.AttackAction {
		s.Add("accuracy", bonus)
	}
	return s
}

// extraTurn plans the beneficiary of an extra turn and returns the score
// of its best move.
func (p *Planner) extraTurn(beneficiary *model.Unit, busy acting) (model.Score, bool) {
	moves, err := p.enumerate(beneficiary, busy)
	if err != nil || len(moves) == 0 {
		return model.Score{}, false
	}
	scored := p.evaluate(beneficiary, moves, busy)
	best := scored[argmax(scored)]
	s := model.Score{Terms: append([]model.Term(nil), best.Terms...)}
	s.Add("extra turn", 0)
	return s, true
}

// PlanMove returns the move u should make. A nil u lets SelectUnit pick.
func (p *Planner) PlanMove(u *model.Unit, side model.Side) (model.Move, error) {
	if u == nil {
		var ok bool
		if u, ok = p.SelectUnit(side); !ok {
			return model.Move{}, fmt.Errorf("%w: %s has no unit left to act", rules.ErrIllegalMove, side)
		}
	}
	if u.Side != side {
		return model.Move{}, fmt.Errorf("%w: %s does not belong to %s", rules.ErrOutOfTurn, u.ID, side)
	}
	if u.Acted || !u.Alive() || u.Carried {
		return model.Move{}, fmt.Errorf("%w: %s cannot act", rules.ErrIllegalMove, u.ID)
	}
	moves, err := p.EnumerateMoves(u)
	if err != nil {
		return model.Move{}, err
	}
	scored := p.Evaluate(u, moves)
	best := scored[p.policy.choose(scored, p.rng)]
	slog.Debug("move planned", "unit", u.ID, "class", u.Class, "candidates", len(scored), "move", best.String())
	return best, nil
}

// PlanTurn lets the planner act with every ready unit of side, committing
// each move with a rolled outcome. It stops early once the battle is won.
func (p *Planner) PlanTurn(side model.Side) ([]rules.Outcome, error) {
	var outcomes []rules.Outcome
	for {
		if _, over := p.battle.Winner(); over {
			return outcomes, nil
		}
		u, ok := p.SelectUnit(side)
		if !ok {
			return outcomes, nil
		}
		m, err := p.PlanMove(u, side)
		if err != nil {
			return outcomes, err
		}
		out, err := p.battle.ApplyMove(m, p.rng)
		if err != nil {
			return outcomes, fmt.Errorf("commit planned move %s: %w", m, err)
		}
		out.Move = m
		outcomes = append(outcomes, out)
	}
}
