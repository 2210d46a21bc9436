package planner

import (
	"math"

	"github.com/nstehr/skirmish/model"
	"github.com/nstehr/skirmish/rules"
)

// boards are the threat boards of one planning pass.
type boards struct {
	own   *rules.ThreatBoard
	enemy *rules.ThreatBoard
}

func (p *Planner) buildBoards(side model.Side) boards {
	return boards{
		own:   p.battle.BuildThreatBoard(side),
		enemy: p.battle.BuildThreatBoard(side.Opponent()),
	}
}

func living(units []*model.Unit, side model.Side) []*model.Unit {
	var out []*model.Unit
	for _, u := range units {
		if u.Side == side && u.Alive() {
			out = append(out, u)
		}
	}
	return out
}

// Score rates the board from side's point of view after moved acted.
// The terms are kept separate so a decision can be explained.
func (p *Planner) Score(moved *model.Unit, side model.Side, bd boards) model.Score {
	var s model.Score
	b := p.battle
	w := &p.weights
	own := living(b.Units, side)
	enemy := living(b.Units, side.Opponent())

	switch {
	case len(enemy) == 0:
		s.Add("winner", math.Inf(1))
		return s
	case len(own) == 0:
		s.Add("winner", math.Inf(-1))
		return s
	}

	s.Add("characters", 2*(worth(w, own)-worth(w, enemy)))

	plAdv := advantage(w, own, enemy)
	enAdv := advantage(w, enemy, own)
	s.Add("advantage", plAdv)
	s.Sub("disadvantage", enAdv)

	span := float64(b.Grid.Width + b.Grid.Height)
	s.Sub("allies close", 2*p.closeness(moved, own, w.AllyAffinity[moved.Class], 2, span))

	pressure := 3.0
	if enAdv > 0 {
		pressure = math.Max(3, (plAdv/float64(len(own)))/(enAdv/float64(len(enemy))))
	}
	s.Sub("enemies close", pressure*p.closeness(moved, enemy, w.EnemyAffinity[moved.Class], 4, span))

	s.Add("stats", 0.01*(p.meanStats(own)-p.meanStats(enemy)))
	s.Sub("danger", p.danger(own, bd))

	if w.Jitter > 0 {
		s.Add("noise", p.rng.NormFloat64()*w.Jitter)
	}
	return s
}

// worth sums base value scaled by health: a full-health unit counts double.
func worth(w *Weights, units []*model.Unit) float64 {
	total := 0.0
	for _, u := range units {
		total += w.Base[u.Class] * (1 + u.HPFraction())
	}
	return total
}

// advantage averages the matchup of every attacker against every target,
// shaded by the attacker's health.
func advantage(w *Weights, attackers, targets []*model.Unit) float64 {
	if len(attackers) == 0 || len(targets) == 0 {
		return 0
	}
	total := 0.0
	for _, a := range attackers {
		for _, t := range targets {
			total += w.matchup(a.Class, t.Class) * (0.8 + 0.2*a.HPFraction())
		}
	}
	return total / float64(len(attackers)*len(targets))
}

// closeness averages how far moved sits beyond slack squares from each
// unit of others, squashed into [0,1) and scaled by affinity. moved counts
// as a member at distance zero when it is among others.
func (p *Planner) closeness(moved *model.Unit, others []*model.Unit, affinity float64, slack int, span float64) float64 {
	total, n := 0.0, 0
	for _, o := range others {
		if o == moved {
			n++
			continue
		}
		d := p.battle.DistanceBetweenUnits(moved, o)
		if d == rules.Unreachable {
			continue
		}
		total += affinity * math.Tanh(float64(max(0, d-slack))/span)
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

func (p *Planner) meanStats(units []*model.Unit) float64 {
	if len(units) == 0 {
		return 0
	}
	total := 0.0
	for _, u := range units {
		total += p.battle.EffectiveStats(u).Mean()
	}
	return total / float64(len(units))
}

// danger penalises own units the enemy could hurt next turn: heavily when
// the expected damage is lethal, less when only the maximum is, and in
// proportion otherwise. Threats our side could remove first count less.
func (p *Planner) danger(own []*model.Unit, bd boards) float64 {
	b := p.battle
	w := &p.weights
	total := 0.0
	for _, u := range own {
		at, ok := b.Position(u)
		if !ok || u.HP == 0 {
			continue
		}
		probable := b.ProbableIncomingDamage(bd.enemy, u, false)
		worst := b.MaxIncomingDamage(bd.enemy, u, false)
		if worst == 0 {
			continue
		}

		// Matchups and kill chances only count attackers that reach u.
		maxAdv, maxDisadv := 0.0, 0.0
		threats, killable := 0, 0
		seen := make(map[*model.Unit]bool)
		for _, th := range bd.enemy.At(at) {
			if seen[th.Unit] || !th.Unit.Alive() {
				continue
			}
			seen[th.Unit] = true
			threats++
			maxAdv = math.Max(maxAdv, w.matchup(u.Class, th.Unit.Class))
			maxDisadv = math.Max(maxDisadv, w.matchup(th.Unit.Class, u.Class))
			if float64(b.MaxIncomingDamage(bd.own, th.Unit, true)) >= float64(th.Unit.HP) {
				killable++
			}
		}
		fact := 0.1 * math.Min(10, (maxDisadv+0.001)/(maxAdv+0.001))
		if threats > 0 {
			fact *= float64(threats-killable) / float64(threats)
		}
		fact *= w.Danger[u.Class] / float64(len(own))

		base := w.Base[u.Class]
		switch {
		case probable >= float64(u.HP):
			total += base * fact
		case worst >= u.HP:
			total += 0.8 * base * fact
		default:
			total += 0.3 * base * (probable / float64(u.MaxHP)) * fact
		}
	}
	return total
}
