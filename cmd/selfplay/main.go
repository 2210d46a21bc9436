// Command selfplay pits the planner against itself on a scenario and
// reports who won.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/nstehr/skirmish/model"
	"github.com/nstehr/skirmish/planner"
	"github.com/nstehr/skirmish/scenario"
)

func main() {
	scenarioArg := flag.String("scenario", "skirmish", "scenario file, or the name of a builtin scenario")
	games := flag.Int("games", 1, "number of games to play")
	seed := flag.Int64("seed", 0, "RNG seed of the first game (0 seeds from the clock)")
	maxTurns := flag.Int("max-turns", 100, "turns after which a game is a draw")
	weightsPath := flag.String("weights", "", "YAML file overriding planner weights")
	policyName := flag.String("policy", "argmax", "move selection policy: argmax or weighted")
	quiet := flag.Bool("quiet", false, "print only the summary")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q\n", *logLevel)
		os.Exit(2)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	f, err := loadScenario(*scenarioArg)
	if err != nil {
		slog.Error("load scenario", "error", err)
		os.Exit(1)
	}
	weights := planner.DefaultWeights()
	if *weightsPath != "" {
		if weights, err = planner.LoadWeights(*weightsPath); err != nil {
			slog.Error("load weights", "error", err)
			os.Exit(1)
		}
	}
	policy, err := planner.ParsePolicy(*policyName)
	if err != nil {
		slog.Error("invalid policy", "error", err)
		os.Exit(1)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	var log io.Writer = os.Stdout
	if *quiet {
		log = io.Discard
	}
	r := runner{weights: weights, policy: policy, maxTurns: *maxTurns, out: log}
	var report Report
	for i := 0; i < *games; i++ {
		g := *seed + int64(i)
		fmt.Fprintf(log, "== game %d (seed %d)\n", i+1, g)
		res, err := r.play(f, rand.New(rand.NewSource(g)))
		if err != nil {
			slog.Error("game failed", "game", i+1, "seed", g, "error", err)
			os.Exit(1)
		}
		report.Add(res)
	}
	fmt.Println(report)
}

func loadScenario(arg string) (*scenario.File, error) {
	if _, err := os.Stat(arg); err == nil {
		return scenario.Load(arg)
	}
	return scenario.Builtin(arg)
}

// Report aggregates game results.
type Report struct {
	Games int
	Wins  map[model.Side]int
	Draws int
	Turns int
}

func (r *Report) Add(res Result) {
	if r.Wins == nil {
		r.Wins = make(map[model.Side]int)
	}
	r.Games++
	r.Turns += res.Turns
	if res.Winner == "" {
		r.Draws++
		return
	}
	r.Wins[res.Winner]++
}

func (r Report) String() string {
	if r.Games == 0 {
		return "no games played"
	}
	return fmt.Sprintf("games %d: blue %d, red %d, draws %d, mean length %.1f turns",
		r.Games, r.Wins[model.Blue], r.Wins[model.Red], r.Draws, float64(r.Turns)/float64(r.Games))
}
