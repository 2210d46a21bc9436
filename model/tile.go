package model

import (
	"fmt"
	"slices"
)

// AccessKind tags an Access rule.
type AccessKind byte

const (
	AccessAlways AccessKind = iota
	AccessNever
	AccessRequiresAnyOf
)

// Access decides whether a unit may pass or land on a tile.
type Access struct {
	Kind  AccessKind
	AnyOf []CapabilityID
}

func Always() Access { return Access{Kind: AccessAlways} }
func Never() Access  { return Access{Kind: AccessNever} }

// RequiresAnyOf admits units holding at least one of ids.
func RequiresAnyOf(ids ...CapabilityID) Access {
	return Access{Kind: AccessRequiresAnyOf, AnyOf: ids}
}

// Allows reports whether a holder of caps satisfies the rule.
func (a Access) Allows(caps CapabilitySet) bool {
	switch a.Kind {
	case AccessAlways:
		return true
	case AccessRequiresAnyOf:
		for _, id := range a.AnyOf {
			if caps.Has(id) {
				return true
			}
		}
	}
	return false
}

func (a Access) String() string {
	switch a.Kind {
	case AccessAlways:
		return "always"
	case AccessNever:
		return "never"
	}
	return fmt.Sprintf("any-of%v", a.AnyOf)
}

// Tile is one grid cell's static terrain data.
type Tile struct {
	Terrain  Terrain
	Passable Access
	Landable Access
	// MoveCost is the budget spent entering the tile.
	MoveCost float64
	// CostWaivers reduce MoveCost to 1 for holders.
	CostWaivers []CapabilityID
	// Combat is added to the stats of a unit standing here. Movement is ignored.
	Combat Stats
}

// Validate enforces the tile invariants.
func (t Tile) Validate() error {
	if t.Passable.Kind == AccessNever && t.Landable.Kind != AccessNever {
		return fmt.Errorf("%w: %s is never passable but landable", ErrInvalidTile, t.Terrain)
	}
	if t.MoveCost < 0 {
		return fmt.Errorf("%w: %s has negative move cost %v", ErrInvalidTile, t.Terrain, t.MoveCost)
	}
	return nil
}

// CostFor returns the cost for a holder of caps to enter the tile.
func (t Tile) CostFor(caps CapabilitySet) float64 {
	if slices.ContainsFunc(t.CostWaivers, caps.Has) && t.MoveCost > 1 {
		return 1
	}
	return t.MoveCost
}
