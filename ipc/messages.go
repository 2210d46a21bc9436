package ipc

import (
	"github.com/nstehr/skirmish/model"
	"github.com/nstehr/skirmish/rules"
)

// Message types sent by the sidecar.
const (
	TypeAck      = "ack"
	TypeError    = "error"
	TypeState    = "state"
	TypeMove     = "move"
	TypeOutcome  = "outcome"
	TypeOutcomes = "outcomes"
)

// HelloMessage opens a session. Scenario carries a YAML document; Builtin
// names a shipped scenario instead. Side, when set, is the side the client
// plays: the sidecar moves the other one.
type HelloMessage struct {
	Side     model.Side `json:"side,omitempty"`
	Scenario string     `json:"scenario,omitempty"`
	Builtin  string     `json:"builtin,omitempty"`
	Seed     int64      `json:"seed,omitempty"`
	Policy   string     `json:"policy,omitempty"`
}

type AckMessage struct {
	Status string `json:"status"`
}

// ErrorMessage reports a failed request. Kind names the rule violated,
// when there is one.
type ErrorMessage struct {
	Request string `json:"request"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// StateMessage is the observable battle state.
type StateMessage struct {
	Session   string      `json:"session"`
	Scenario  string      `json:"scenario"`
	Turn      int         `json:"turn"`
	TurnLimit int         `json:"turnLimit,omitempty"`
	Active    model.Side  `json:"active"`
	Winner    model.Side  `json:"winner,omitempty"`
	Board     string      `json:"board"`
	Units     []UnitState `json:"units"`
	Events    []Event     `json:"events,omitempty"`
}

// UnitState is one unit as clients see it. At is nil while the unit is
// dead or carried.
type UnitState struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Side         model.Side           `json:"side"`
	Class        model.Class          `json:"class"`
	HP           int                  `json:"hp"`
	MaxHP        int                  `json:"maxHp"`
	Stats        model.Stats          `json:"stats"`
	At           *model.Square        `json:"at,omitempty"`
	Acted        bool                 `json:"acted"`
	Carried      bool                 `json:"carried,omitempty"`
	Attacks      []model.AttackID     `json:"attacks"`
	Capabilities []model.CapabilityID `json:"capabilities"`
}

// Event is a notable change between two states.
type Event struct {
	Kind   string `json:"kind"`
	Turn   int    `json:"turn"`
	Unit   string `json:"unit,omitempty"`
	Detail string `json:"detail"`
}

// OutcomesMessage answers autoplay and end_turn: the moves committed on the
// way and the resulting state.
type OutcomesMessage struct {
	Outcomes []rules.Outcome `json:"outcomes"`
	State    StateMessage    `json:"state"`
}
