package keeper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/draftroom/keeper-data/internal/league"
)

func TestEffectiveOwnerRedirectsTradedPick(t *testing.T) {
	picks := []league.TradedPick{
		{Season: 2026, Round: 4, OriginalRosterID: "r1", CurrentRosterID: "r2"},
		{Season: 2027, Round: 4, OriginalRosterID: "r1", CurrentRosterID: "r3"},
	}
	table := newOwnershipTable(picks, 2026)

	assert.Equal(t, "r2", table.effectiveOwner(4, "r1"))
	assert.Equal(t, "r1", table.effectiveOwner(5, "r1"))
	assert.Equal(t, "r2", table.effectiveOwner(4, "r2"))
}

func TestEffectiveSlotEquality(t *testing.T) {
	picks := []league.TradedPick{
		{Season: 2026, Round: 4, OriginalRosterID: "r1", CurrentRosterID: "r2"},
	}
	table := newOwnershipTable(picks, 2026)

	// r1's claim and r2's own claim land on the same slot after the trade.
	assert.Equal(t, table.effectiveSlot(4, "r1"), table.effectiveSlot(4, "r2"))
	assert.NotEqual(t, table.effectiveSlot(5, "r1"), table.effectiveSlot(5, "r2"))
}
