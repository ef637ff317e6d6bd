package keeper

import "github.com/draftroom/keeper-data/internal/league"

// slot identifies one draft slot by round and the roster the pick was
// originally assigned to.
type slot struct {
	round    int
	rosterID string
}

// ownershipTable resolves which roster currently owns a draft slot after
// trades. Built once per cascade call, read-only afterwards.
type ownershipTable struct {
	current map[slot]string
}

// newOwnershipTable indexes the traded picks that apply to the target
// season. Picks traded more than once arrive as separate records keyed by
// the original owner, so the last record for a slot wins.
func newOwnershipTable(picks []league.TradedPick, season int) *ownershipTable {
	t := &ownershipTable{current: make(map[slot]string)}
	for _, p := range picks {
		if p.Season != season {
			continue
		}
		t.current[slot{p.Round, p.OriginalRosterID}] = p.CurrentRosterID
	}
	return t
}

// effectiveOwner returns the roster that actually holds the round-N pick
// originally assigned to originalOwner.
func (t *ownershipTable) effectiveOwner(round int, originalOwner string) string {
	if owner, ok := t.current[slot{round, originalOwner}]; ok {
		return owner
	}
	return originalOwner
}

// effectiveSlot maps a keeper's (round, roster) claim to the slot it would
// actually consume. Two keepers collide iff their effective slots are equal.
func (t *ownershipTable) effectiveSlot(round int, rosterID string) slot {
	return slot{round, t.effectiveOwner(round, rosterID)}
}
