package league

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearsKeptConsecutiveChain(t *testing.T) {
	history := []KeeperRecord{
		{Season: 2025, PlayerID: "p1", RosterID: "r1"},
		{Season: 2024, PlayerID: "p1", RosterID: "r1"},
		{Season: 2023, PlayerID: "p1", RosterID: "r1"},
	}
	snap := NewSnapshot(League{ID: "lg"}, nil, nil, nil, history, nil)

	assert.Equal(t, 3, snap.YearsKept("p1", "r1", 2026))
	assert.Equal(t, 2, snap.YearsKept("p1", "r1", 2025))
	assert.Equal(t, 0, snap.YearsKept("p1", "r2", 2026))
	assert.Equal(t, 0, snap.YearsKept("p2", "r1", 2026))
}

func TestYearsKeptGapBreaksChain(t *testing.T) {
	history := []KeeperRecord{
		{Season: 2025, PlayerID: "p1", RosterID: "r1"},
		{Season: 2023, PlayerID: "p1", RosterID: "r1"},
	}
	snap := NewSnapshot(League{ID: "lg"}, nil, nil, nil, history, nil)

	assert.Equal(t, 1, snap.YearsKept("p1", "r1", 2026))
}

func TestYearsKeptDifferentRosterBreaksChain(t *testing.T) {
	history := []KeeperRecord{
		{Season: 2025, PlayerID: "p1", RosterID: "r2"},
		{Season: 2024, PlayerID: "p1", RosterID: "r1"},
	}
	snap := NewSnapshot(League{ID: "lg"}, nil, nil, nil, history, nil)

	assert.Equal(t, 0, snap.YearsKept("p1", "r1", 2026))
	assert.Equal(t, 1, snap.YearsKept("p1", "r2", 2026))
}

func TestOriginalDraftRoundLatestSeasonWins(t *testing.T) {
	drafts := []DraftSelection{
		{Season: 2021, Round: 9, RosterID: "r1", PlayerID: "p1"},
		{Season: 2024, Round: 3, RosterID: "r1", PlayerID: "p1"},
	}
	snap := NewSnapshot(League{ID: "lg"}, nil, nil, drafts, nil, nil)

	assert.Equal(t, 3, snap.OriginalDraftRound("p1", "r1"))
	assert.Equal(t, 0, snap.OriginalDraftRound("p1", "r2"))

	// Same selections in the opposite slice order must pick the same round:
	// the later season wins, not the later record.
	reversed := []DraftSelection{drafts[1], drafts[0]}
	snap = NewSnapshot(League{ID: "lg"}, nil, nil, reversed, nil, nil)
	assert.Equal(t, 3, snap.OriginalDraftRound("p1", "r1"))
}

func TestRulesValidate(t *testing.T) {
	valid := Rules{
		MaxKeepers: 3, MaxFranchiseTags: 1, MaxRegularKeepers: 2,
		RegularKeeperMaxYears: 3, UndraftedRound: 8, FranchiseTagRound: 1, TotalRounds: 16,
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.FranchiseTagRound = 17
	assert.Error(t, bad.Validate())

	bad = valid
	bad.UndraftedRound = 0
	assert.Error(t, bad.Validate())

	bad = valid
	bad.TotalRounds = 0
	assert.Error(t, bad.Validate())
}

func TestRoundValue(t *testing.T) {
	r := Rules{PickValues: map[int]int{1: 1000, 2: 800}}
	assert.Equal(t, 1000, r.RoundValue(1))
	assert.Equal(t, 0, r.RoundValue(9))
	assert.Equal(t, 0, Rules{}.RoundValue(1))
}

func TestRecalculateYearsKept(t *testing.T) {
	records := []KeeperRecord{
		{Season: 2025, PlayerID: "p1", RosterID: "r1", YearsKept: 99},
		{Season: 2024, PlayerID: "p1", RosterID: "r1"},
		{Season: 2022, PlayerID: "p1", RosterID: "r1"},
		{Season: 2025, PlayerID: "p2", RosterID: "r2"},
	}

	out := RecalculateYearsKept(records, 2026)
	require.Len(t, out, 4)

	byKey := make(map[int]KeeperRecord)
	for _, r := range out {
		if r.PlayerID == "p1" {
			byKey[r.Season] = r
		}
	}
	// 2022 stands alone; 2024 starts a fresh chain that 2025 extends.
	assert.Equal(t, 1, byKey[2022].YearsKept)
	assert.Equal(t, 1, byKey[2024].YearsKept)
	assert.Equal(t, 2, byKey[2025].YearsKept)
}

func TestRecalculateYearsKeptLeavesTargetSeasonAlone(t *testing.T) {
	records := []KeeperRecord{
		{Season: 2026, PlayerID: "p1", RosterID: "r1", YearsKept: 42},
		{Season: 2025, PlayerID: "p1", RosterID: "r1", YearsKept: 0},
	}

	out := RecalculateYearsKept(records, 2026)
	for _, r := range out {
		switch r.Season {
		case 2026:
			assert.Equal(t, 42, r.YearsKept)
		case 2025:
			assert.Equal(t, 1, r.YearsKept)
		}
	}
}

func TestKeeperTypeValid(t *testing.T) {
	assert.True(t, KeeperFranchise.Valid())
	assert.True(t, KeeperRegular.Valid())
	assert.False(t, KeeperType("TAXI").Valid())
}
