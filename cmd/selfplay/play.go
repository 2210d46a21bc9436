package main

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/nstehr/skirmish/model"
	"github.com/nstehr/skirmish/planner"
	"github.com/nstehr/skirmish/scenario"
)

// Result is how one game ended. An empty Winner is a draw.
type Result struct {
	Winner model.Side
	Turns  int
	Moves  int
}

type runner struct {
	weights  planner.Weights
	policy   planner.Policy
	maxTurns int
	out      io.Writer
}

// play runs one game of f with both sides on the planner.
func (r runner) play(f *scenario.File, rng *rand.Rand) (Result, error) {
	b, err := f.Build()
	if err != nil {
		return Result{}, err
	}
	p := planner.New(b, r.weights, r.policy, rng)
	var res Result
	for {
		if w, ok := b.Winner(); ok {
			res.Winner = w
			break
		}
		if r.maxTurns > 0 && b.Turn > r.maxTurns {
			break
		}
		outs, err := p.PlanTurn(b.Active)
		if err != nil {
			return res, fmt.Errorf("turn %d: %w", b.Turn, err)
		}
		for _, out := range outs {
			fmt.Fprintf(r.out, "turn %3d %-4s %s", b.Turn, b.Active, out.Move)
			if out.Move.Kind == model.AttackAction {
				fmt.Fprintf(r.out, " roll=%d damage=%d", out.Roll, out.Damage)
			}
			if len(out.Defeated) > 0 {
				fmt.Fprintf(r.out, " defeated=%v", out.Defeated)
			}
			fmt.Fprintln(r.out)
		}
		res.Moves += len(outs)
		if w, ok := b.Winner(); ok {
			res.Winner = w
			break
		}
		b.EndTurn()
	}
	res.Turns = b.Turn
	if res.Winner == "" {
		fmt.Fprintf(r.out, "draw after %d turns\n", res.Turns)
	} else {
		fmt.Fprintf(r.out, "%s wins on turn %d\n", res.Winner, res.Turns)
	}
	return res, nil
}
