package ipc

import "github.com/nstehr/skirmish/model"

// Request types a client may send.
const (
	TypeHello    = "hello"
	TypePlan     = "plan"
	TypeApply    = "apply"
	TypeAutoplay = "autoplay"
	TypeEndTurn  = "end_turn"
	TypeSquares  = "squares"
	TypeGetState = "get_state"
)

// PlanCommand asks for the planner's move. An empty Unit lets the planner
// pick the unit too.
type PlanCommand struct {
	Unit string `json:"unit,omitempty"`
}

// ApplyCommand commits a move and answers with its outcome.
type ApplyCommand struct {
	Move model.Move `json:"move"`
}

// SquaresCommand asks for the squares a unit may end its move on.
type SquaresCommand struct {
	Unit string `json:"unit"`
}

type SquaresMessage struct {
	Unit    string         `json:"unit"`
	Squares []model.Square `json:"squares"`
}
