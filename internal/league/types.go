// Package league defines the domain records a keeper league is made of:
// rosters, players, draft history, keeper history, and traded picks, plus
// the per-league keeper rules. The cascade engine consumes these through a
// read-only Snapshot.
package league

import "fmt"

// KeeperType distinguishes a franchise-tagged keeper from a regular one.
type KeeperType string

const (
	// KeeperFranchise costs the league's fixed franchise round and is exempt
	// from years-kept decay.
	KeeperFranchise KeeperType = "FRANCHISE"
	// KeeperRegular decays one round per consecutive year kept.
	KeeperRegular KeeperType = "REGULAR"
)

// Valid reports whether t is a known keeper type.
func (t KeeperType) Valid() bool {
	return t == KeeperFranchise || t == KeeperRegular
}

// League identifies one keeper league.
type League struct {
	ID     string
	Name   string
	Season int // current/target season
}

// Roster is one team in a league.
type Roster struct {
	ID    string
	Name  string
	Owner string
}

// Player is the minimal player record the keeper subsystem needs. IDs are
// the external platform's stable identifiers.
type Player struct {
	ID       string
	Name     string
	Position string
	NFLTeam  string
}

// DraftSelection records one pick of a past draft.
type DraftSelection struct {
	Season   int
	Round    int
	Pick     int
	RosterID string
	PlayerID string
}

// KeeperRecord is the durable record of a player kept for a season.
// YearsKept counts consecutive seasons kept by the same roster through and
// including Season; a first-year keeper carries YearsKept = 1.
type KeeperRecord struct {
	Season    int
	PlayerID  string
	RosterID  string
	Type      KeeperType
	YearsKept int
	BaseCost  int
	FinalCost int
}

// TradedPick records that the pick originally assigned to one roster now
// belongs to another for a given season and round.
type TradedPick struct {
	Season           int
	Round            int
	OriginalRosterID string
	CurrentRosterID  string
}

// Rules are the per-league keeper settings the cascade engine computes
// against.
type Rules struct {
	MaxKeepers            int
	MaxFranchiseTags      int
	MaxRegularKeepers     int
	RegularKeeperMaxYears int
	UndraftedRound        int // baseline round for a player with no draft history
	FranchiseTagRound     int // fixed cost of a FRANCHISE keeper
	TotalRounds           int
	PickValues            map[int]int // round -> display value, not used in cost logic
}

// Validate checks that the rules describe a computable league.
func (r Rules) Validate() error {
	if r.TotalRounds < 1 {
		return fmt.Errorf("total rounds must be at least 1, got %d", r.TotalRounds)
	}
	if r.FranchiseTagRound < 1 || r.FranchiseTagRound > r.TotalRounds {
		return fmt.Errorf("franchise tag round %d outside draft rounds 1-%d", r.FranchiseTagRound, r.TotalRounds)
	}
	if r.UndraftedRound < 1 || r.UndraftedRound > r.TotalRounds {
		return fmt.Errorf("undrafted round %d outside draft rounds 1-%d", r.UndraftedRound, r.TotalRounds)
	}
	if r.MaxKeepers < 1 {
		return fmt.Errorf("max keepers must be at least 1, got %d", r.MaxKeepers)
	}
	if r.RegularKeeperMaxYears < 1 {
		return fmt.Errorf("regular keeper max years must be at least 1, got %d", r.RegularKeeperMaxYears)
	}
	return nil
}

// RoundValue returns the display value of a draft round, or 0 when the
// league has no value table entry for it.
func (r Rules) RoundValue(round int) int {
	if r.PickValues == nil {
		return 0
	}
	return r.PickValues[round]
}
