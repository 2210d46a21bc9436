package agent

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nstehr/skirmish/ipc"
	"github.com/nstehr/skirmish/model"
	"github.com/nstehr/skirmish/planner"
	"github.com/nstehr/skirmish/rules"
	"github.com/nstehr/skirmish/scenario"
)

// ErrBattleOver rejects actions once a side has won.
var ErrBattleOver = errors.New("battle is over")

// Config carries the process-wide planner settings a session starts from.
type Config struct {
	Weights planner.Weights
	Policy  planner.Policy
	// Seed fixes the session RNG; zero seeds from the clock.
	Seed int64
}

// DefaultConfig plans greedily with the built-in weights.
func DefaultConfig() Config {
	return Config{Weights: planner.DefaultWeights(), Policy: planner.Argmax}
}

// Session is one battle and the planner that advises on it. All methods
// are safe for concurrent use.
type Session struct {
	ID       string
	Scenario string
	// Human is the side the client plays. When set, the session moves the
	// other side itself whenever control passes to it.
	Human model.Side

	mu      sync.Mutex
	battle  *rules.Battle
	planner *planner.Planner
	rng     *rand.Rand
	seen    *stateSnapshot
	pending []rules.Outcome
}

// NewSession builds the battle described by f. If the computer moves
// first its opening turn is played before returning.
func NewSession(f *scenario.File, human model.Side, cfg Config) (*Session, error) {
	if human != "" && !human.Valid() {
		return nil, fmt.Errorf("invalid side %q", human)
	}
	b, err := f.Build()
	if err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	s := &Session{
		ID:       uuid.NewString(),
		Scenario: f.Name,
		Human:    human,
		battle:   b,
		planner:  planner.New(b, cfg.Weights, cfg.Policy, rng),
		rng:      rng,
	}
	slog.Info("session started", "session", s.ID, "scenario", f.Name, "human", human, "seed", seed, "policy", cfg.Policy)

	s.mu.Lock()
	defer s.mu.Unlock()
	opening := takeSnapshot(b)
	s.seen = &opening
	if err := s.playComputer(); err != nil {
		return nil, err
	}
	return s, nil
}

// State reports the battle, with the events since the previous report or,
// for the first report, since the session opened.
func (s *Session) State() ipc.StateMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) state() ipc.StateMessage {
	b := s.battle
	msg := ipc.StateMessage{
		Session:   s.ID,
		Scenario:  s.Scenario,
		Turn:      b.Turn,
		TurnLimit: b.TurnLimit,
		Active:    b.Active,
		Board:     b.Grid.Render(),
	}
	if w, ok := b.Winner(); ok {
		msg.Winner = w
	}
	for _, u := range b.Units {
		us := ipc.UnitState{
			ID:           u.ID,
			Name:         u.Name,
			Side:         u.Side,
			Class:        u.Class,
			HP:           u.HP,
			MaxHP:        u.MaxHP,
			Stats:        b.EffectiveStats(u),
			Acted:        u.Acted,
			Carried:      u.Carried,
			Capabilities: u.CapabilitySet(),
		}
		if sq, ok := b.Position(u); ok {
			at := sq
			us.At = &at
		}
		for _, a := range u.Attacks {
			us.Attacks = append(us.Attacks, a.ID)
		}
		msg.Units = append(msg.Units, us)
	}

	cur := takeSnapshot(b)
	msg.Events = detectEvents(s.seen, cur, s.pending)
	s.seen = &cur
	s.pending = nil
	return msg
}

func (s *Session) unit(id string) (*model.Unit, error) {
	u, ok := s.battle.Unit(id)
	if !ok {
		return nil, fmt.Errorf("%w: unit %q", rules.ErrInvalidReference, id)
	}
	return u, nil
}

func (s *Session) over() error {
	if w, ok := s.battle.Winner(); ok {
		return fmt.Errorf("%w: %s won", ErrBattleOver, w)
	}
	return nil
}

// humanTurn rejects client actions while the computer's side is active.
func (s *Session) humanTurn() error {
	if s.Human != "" && s.battle.Active != s.Human {
		return fmt.Errorf("%w: %s is played by the computer", rules.ErrOutOfTurn, s.battle.Active)
	}
	return nil
}

// Squares lists where unit id may end its move this turn.
func (s *Session) Squares(id string) ([]model.Square, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.unit(id)
	if err != nil {
		return nil, err
	}
	return s.battle.LegalSquares(u), nil
}

// Plan asks the planner for the active side's next move. An empty id lets
// the planner choose the unit.
func (s *Session) Plan(id string) (model.Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.over(); err != nil {
		return model.Move{}, err
	}
	var u *model.Unit
	if id != "" {
		var err error
		if u, err = s.unit(id); err != nil {
			return model.Move{}, err
		}
	}
	return s.planner.PlanMove(u, s.battle.Active)
}

// Apply commits m for the client.
func (s *Session) Apply(m model.Move) (rules.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.over(); err != nil {
		return rules.Outcome{}, err
	}
	if err := s.humanTurn(); err != nil {
		return rules.Outcome{}, err
	}
	out, err := s.battle.ApplyMove(m, s.rng)
	if err != nil {
		return rules.Outcome{}, err
	}
	s.pending = append(s.pending, out)
	return out, nil
}

// Autoplay lets the planner act with every ready unit of the active side.
// The turn is not ended.
func (s *Session) Autoplay() ([]rules.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.over(); err != nil {
		return nil, err
	}
	outs, err := s.planner.PlanTurn(s.battle.Active)
	s.pending = append(s.pending, outs...)
	return outs, err
}

// EndTurn passes control to the other side. When that side belongs to the
// computer it is played out and control comes back; the moves it made are
// returned.
func (s *Session) EndTurn() ([]rules.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.over(); err != nil {
		return nil, err
	}
	if err := s.humanTurn(); err != nil {
		return nil, err
	}
	s.battle.EndTurn()
	mark := len(s.pending)
	if err := s.playComputer(); err != nil {
		return nil, err
	}
	return append([]rules.Outcome(nil), s.pending[mark:]...), nil
}

// playComputer moves the computer's side until control reaches the human
// or the battle ends.
func (s *Session) playComputer() error {
	if s.Human == "" {
		return nil
	}
	for s.battle.Active != s.Human {
		if _, over := s.battle.Winner(); over {
			return nil
		}
		outs, err := s.planner.PlanTurn(s.battle.Active)
		s.pending = append(s.pending, outs...)
		if err != nil {
			return fmt.Errorf("computer turn: %w", err)
		}
		if _, over := s.battle.Winner(); over {
			return nil
		}
		s.battle.EndTurn()
	}
	return nil
}
