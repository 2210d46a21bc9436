package agent

import (
	"fmt"
	"log/slog"

	"github.com/nstehr/skirmish/ipc"
	"github.com/nstehr/skirmish/planner"
	"github.com/nstehr/skirmish/scenario"
)

// Agent answers the requests of a single client connection. The session
// is created by the hello handshake.
type Agent struct {
	Conn    *ipc.Connection
	Session *Session
	config  Config
	// onSession, if set, sees every session this agent opens.
	onSession func(*Session)
}

func New(conn *ipc.Connection, cfg Config) *Agent {
	return &Agent{Conn: conn, config: cfg}
}

// OnSession registers fn to be called with each session the agent opens.
func (a *Agent) OnSession(fn func(*Session)) { a.onSession = fn }

// Register installs the agent's handlers on its connection.
func (a *Agent) Register() {
	a.Conn.RegisterHandler(ipc.TypeHello, a.HandleHello)
	a.Conn.RegisterHandler(ipc.TypeGetState, a.HandleGetState)
	a.Conn.RegisterHandler(ipc.TypeSquares, a.HandleSquares)
	a.Conn.RegisterHandler(ipc.TypePlan, a.HandlePlan)
	a.Conn.RegisterHandler(ipc.TypeApply, a.HandleApply)
	a.Conn.RegisterHandler(ipc.TypeAutoplay, a.HandleAutoplay)
	a.Conn.RegisterHandler(ipc.TypeEndTurn, a.HandleEndTurn)
}

// HandleHello loads the requested scenario and replies with its state.
func (a *Agent) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := env.Decode(&hello); err != nil {
		return nil, err
	}

	var (
		f   *scenario.File
		err error
	)
	switch {
	case hello.Scenario != "":
		f, err = scenario.Parse([]byte(hello.Scenario))
	case hello.Builtin != "":
		f, err = scenario.Builtin(hello.Builtin)
	default:
		err = fmt.Errorf("hello needs a scenario or a builtin name")
	}
	if err != nil {
		return nil, err
	}

	cfg := a.config
	if hello.Seed != 0 {
		cfg.Seed = hello.Seed
	}
	if hello.Policy != "" {
		if cfg.Policy, err = planner.ParsePolicy(hello.Policy); err != nil {
			return nil, err
		}
	}

	s, err := NewSession(f, hello.Side, cfg)
	if err != nil {
		return nil, err
	}
	a.Session = s
	a.Conn.Session = s.ID
	if a.onSession != nil {
		a.onSession(s)
	}
	slog.Info("client identified", "session", s.ID, "scenario", s.Scenario, "side", hello.Side)

	return reply(ipc.TypeState, s.State())
}

func (a *Agent) session() (*Session, error) {
	if a.Session == nil {
		return nil, fmt.Errorf("no session: send hello first")
	}
	return a.Session, nil
}

func (a *Agent) HandleGetState(ipc.Envelope) (*ipc.Envelope, error) {
	s, err := a.session()
	if err != nil {
		return nil, err
	}
	return reply(ipc.TypeState, s.State())
}

func (a *Agent) HandleSquares(env ipc.Envelope) (*ipc.Envelope, error) {
	s, err := a.session()
	if err != nil {
		return nil, err
	}
	var cmd ipc.SquaresCommand
	if err := env.Decode(&cmd); err != nil {
		return nil, err
	}
	squares, err := s.Squares(cmd.Unit)
	if err != nil {
		return nil, err
	}
	return reply(ipc.TypeSquares, ipc.SquaresMessage{Unit: cmd.Unit, Squares: squares})
}

// HandlePlan replies with the planner's move without committing it.
func (a *Agent) HandlePlan(env ipc.Envelope) (*ipc.Envelope, error) {
	s, err := a.session()
	if err != nil {
		return nil, err
	}
	var cmd ipc.PlanCommand
	if err := env.Decode(&cmd); err != nil {
		return nil, err
	}
	m, err := s.Plan(cmd.Unit)
	if err != nil {
		return nil, err
	}
	return reply(ipc.TypeMove, m)
}

func (a *Agent) HandleApply(env ipc.Envelope) (*ipc.Envelope, error) {
	s, err := a.session()
	if err != nil {
		return nil, err
	}
	var cmd ipc.ApplyCommand
	if err := env.Decode(&cmd); err != nil {
		return nil, err
	}
	out, err := s.Apply(cmd.Move)
	if err != nil {
		return nil, err
	}
	return reply(ipc.TypeOutcome, out)
}

func (a *Agent) HandleAutoplay(ipc.Envelope) (*ipc.Envelope, error) {
	s, err := a.session()
	if err != nil {
		return nil, err
	}
	outs, err := s.Autoplay()
	if err != nil {
		return nil, err
	}
	return reply(ipc.TypeOutcomes, ipc.OutcomesMessage{Outcomes: outs, State: s.State()})
}

func (a *Agent) HandleEndTurn(ipc.Envelope) (*ipc.Envelope, error) {
	s, err := a.session()
	if err != nil {
		return nil, err
	}
	outs, err := s.EndTurn()
	if err != nil {
		return nil, err
	}
	return reply(ipc.TypeOutcomes, ipc.OutcomesMessage{Outcomes: outs, State: s.State()})
}

func reply(msgType string, data any) (*ipc.Envelope, error) {
	env, err := ipc.NewEnvelope(msgType, data)
	if err != nil {
		return nil, err
	}
	return &env, nil
}
