package planner

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/nstehr/skirmish/model"
)

// Policy picks one move from a scored candidate list.
type Policy string

const (
	// Argmax takes the highest score; ties go to the earliest candidate.
	Argmax Policy = "argmax"
	// Weighted samples candidates with probability rising with score.
	Weighted Policy = "weighted"
)

// ParsePolicy accepts a policy name, case-insensitively. Empty means Argmax.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", Argmax:
		return Argmax, nil
	case Weighted:
		return Weighted, nil
	}
	return "", fmt.Errorf("unknown policy %q (want argmax or weighted)", s)
}

func (p Policy) choose(moves []model.Move, rng *rand.Rand) int {
	if p == Weighted {
		return weightedIndex(moves, rng)
	}
	return argmax(moves)
}

func argmax(moves []model.Move) int {
	best := -1
	for i, m := range moves {
		if best < 0 || m.Value > moves[best].Value {
			best = i
		}
	}
	return best
}

// weightedIndex shifts finite scores so the worst is zero and samples in
// proportion. A winning move is always taken.
func weightedIndex(moves []model.Move, rng *rand.Rand) int {
	lo := math.Inf(1)
	var finite []int
	for i, m := range moves {
		switch {
		case math.IsInf(m.Value, 1):
			return i
		case math.IsInf(m.Value, -1) || math.IsNaN(m.Value):
			continue
		}
		finite = append(finite, i)
		lo = math.Min(lo, m.Value)
	}
	if len(finite) == 0 {
		return argmax(moves)
	}
	const floor = 1e-6
	total := 0.0
	for _, i := range finite {
		total += moves[i].Value - lo + floor
	}
	pick := rng.Float64() * total
	for _, i := range finite {
		pick -= moves[i].Value - lo + floor
		if pick <= 0 {
			return i
		}
	}
	return finite[len(finite)-1]
}
