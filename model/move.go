package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// ActionKind is what a move does after relocating.
type ActionKind byte

const (
	MoveOnly ActionKind = iota
	AttackAction
	SkillAction
)

var actionNames = [...]string{"move", "attack", "skill"}

func (k ActionKind) String() string {
	if int(k) < len(actionNames) {
		return actionNames[k]
	}
	return fmt.Sprintf("action(%d)", k)
}

func (k ActionKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *ActionKind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for i, name := range actionNames {
		if strings.EqualFold(name, s) {
			*k = ActionKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown action kind %q", s)
}

// Move is a single turn action. Treat it as a value: planners attach
// scores with Scored, which returns a copy.
type Move struct {
	Unit        string     `json:"unit"`
	Source      Square     `json:"source"`
	Destination Square     `json:"destination"`
	Target      *Square    `json:"target,omitempty"`
	Kind        ActionKind `json:"kind"`
	ActionID    string     `json:"actionId,omitempty"`
	Value       float64    `json:"value"`
	Terms       []Term     `json:"terms,omitempty"`
}

// NewMove builds an unscored move. target may be nil for MoveOnly.
func NewMove(unit string, src, dst Square, target *Square, kind ActionKind, actionID string) Move {
	m := Move{Unit: unit, Source: src, Destination: dst, Kind: kind, ActionID: actionID}
	if target != nil {
		t := *target
		m.Target = &t
	}
	return m
}

// Scored returns a copy of m carrying score s.
func (m Move) Scored(s Score) Move {
	m.Value = s.Total()
	m.Terms = append([]Term(nil), s.Terms...)
	if m.Target != nil {
		t := *m.Target
		m.Target = &t
	}
	return m
}

func (m Move) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s->%s", m.Unit, m.Source, m.Destination)
	if m.Kind != MoveOnly {
		fmt.Fprintf(&b, " %s %s", m.Kind, m.ActionID)
		if m.Target != nil {
			fmt.Fprintf(&b, "@%s", m.Target)
		}
	}
	return b.String()
}

// Term is one named contribution to a heuristic score.
type Term struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Score is an itemized heuristic value.
type Score struct {
	Terms []Term
}

func (s *Score) Add(name string, v float64) { s.Terms = append(s.Terms, Term{Name: name, Value: v}) }
func (s *Score) Sub(name string, v float64) { s.Add(name, -v) }

// Total sums the terms. A single infinite term decides the total.
func (s Score) Total() float64 {
	total := 0.0
	for _, t := range s.Terms {
		if math.IsInf(t.Value, 0) {
			return t.Value
		}
		total += t.Value
	}
	return total
}

func (s Score) String() string {
	parts := make([]string, 0, len(s.Terms))
	for _, t := range s.Terms {
		parts = append(parts, fmt.Sprintf("%s=%.3f", t.Name, t.Value))
	}
	return strings.Join(parts, " ")
}

// JSON cannot carry infinities; decided moves are clamped to the float range.
func finite(v float64) float64 {
	switch {
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	}
	return v
}

func (t Term) MarshalJSON() ([]byte, error) {
	type plain Term
	return json.Marshal(plain{Name: t.Name, Value: finite(t.Value)})
}

func (m Move) MarshalJSON() ([]byte, error) {
	type plain Move
	p := plain(m)
	p.Value = finite(p.Value)
	return json.Marshal(p)
}
