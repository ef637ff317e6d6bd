// Package keeper implements the keeper cost cascade: it assigns each
// proposed keeper a draft-round cost from league rules and draft history,
// detects collisions where two keepers claim the same effective draft slot,
// and cascades the losing keeper to the next available round until the
// assignment is stable.
//
// The engine is pure. It performs no I/O, keeps no state between calls, and
// given the same inputs produces the same output; persisting results is the
// caller's job.
package keeper

import (
	"fmt"

	"github.com/draftroom/keeper-data/internal/league"
)

// KeeperInput is one proposed keeper declaration submitted by a roster for
// the upcoming season.
type KeeperInput struct {
	PlayerID   string
	RosterID   string
	PlayerName string // display only, never consulted by cost logic
	Type       league.KeeperType
}

// ResolvedKeeper is one keeper after cost resolution.
type ResolvedKeeper struct {
	PlayerID   string
	RosterID   string
	PlayerName string
	Type       league.KeeperType
	YearsKept  int

	// BaseCost is computed once from draft history and never mutated;
	// only FinalCost moves during cascade resolution.
	BaseCost  int
	FinalCost int

	// CascadeSteps lists every intermediate round visited while resolving
	// collisions, in order, for audit and display.
	CascadeSteps []int
	IsCascaded   bool

	// ConflictsWith names the other players this keeper collided with at any
	// point during resolution.
	ConflictsWith []string

	// Eligible is false when the keeper was excluded from slot resolution
	// (unknown references, max years exceeded, over a roster cap, or no
	// round left to cascade into). An ineligible keeper carries FinalCost 0
	// and a matching entry in CascadeResult.Errors.
	Eligible bool
}

// ConflictStatus says how a collision ended.
type ConflictStatus string

const (
	ConflictResolved   ConflictStatus = "RESOLVED"
	ConflictUnresolved ConflictStatus = "UNRESOLVED"
)

// Conflict records one collision between two keepers over an effective
// draft slot.
type Conflict struct {
	Round          int    // the contested round
	SlotRosterID   string // effective current owner of the contested slot
	WinnerPlayerID string
	LoserPlayerID  string
	Status         ConflictStatus
	Resolution     string
}

// CascadeResult is the outcome of one cascade computation for a season.
// Error accumulation follows the partial-success contract: a bad keeper
// entry never blocks the rest of the batch.
type CascadeResult struct {
	Season    int
	Keepers   []ResolvedKeeper
	Conflicts []Conflict
	Errors    []string
	HasErrors bool
}

func (r *CascadeResult) addErrorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a one-line overview for logs.
func (r *CascadeResult) Summary() string {
	cascaded := 0
	for _, k := range r.Keepers {
		if k.IsCascaded {
			cascaded++
		}
	}
	return fmt.Sprintf(
		"season=%d keepers=%d cascaded=%d conflicts=%d errors=%d",
		r.Season, len(r.Keepers), cascaded, len(r.Conflicts), len(r.Errors),
	)
}
