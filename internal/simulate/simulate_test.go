package simulate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftroom/keeper-data/internal/keeper"
	"github.com/draftroom/keeper-data/internal/league"
)

func testRules() league.Rules {
	return league.Rules{
		MaxKeepers:            3,
		MaxFranchiseTags:      1,
		MaxRegularKeepers:     2,
		RegularKeeperMaxYears: 3,
		UndraftedRound:        8,
		FranchiseTagRound:     1,
		TotalRounds:           16,
		PickValues:            map[int]int{1: 1000, 4: 510, 5: 410},
	}
}

func testSnapshot() *league.Snapshot {
	lg := league.League{ID: "ulb", Name: "Ultimate League", Season: 2026}
	rosters := []league.Roster{
		{ID: "r1", Name: "Mud Dogs"},
		{ID: "r2", Name: "Icemen"},
	}
	players := []league.Player{
		{ID: "p1", Name: "Aaron Ayers", Position: "RB", NFLTeam: "DET"},
		{ID: "p2", Name: "Ben Briggs", Position: "WR", NFLTeam: "BUF"},
	}
	drafts := []league.DraftSelection{
		{Season: 2025, Round: 4, RosterID: "r1", PlayerID: "p1"},
		{Season: 2025, Round: 4, RosterID: "r2", PlayerID: "p2"},
	}
	picks := []league.TradedPick{
		{Season: 2026, Round: 4, OriginalRosterID: "r1", CurrentRosterID: "r2"},
	}
	return league.NewSnapshot(lg, rosters, players, drafts, nil, picks)
}

func testRequest() Request {
	return Request{
		LeagueID: "ulb",
		Season:   2026,
		Keepers: []keeper.KeeperInput{
			{PlayerID: "p1", RosterID: "r1", Type: league.KeeperRegular},
			{PlayerID: "p2", RosterID: "r2", Type: league.KeeperRegular},
		},
	}
}

// mapCache is an always-on ResultCache for tests.
type mapCache struct {
	entries map[string]*Result
	hits    int
}

func newMapCache() *mapCache { return &mapCache{entries: make(map[string]*Result)} }

func (m *mapCache) Get(key string) (*Result, bool) {
	r, ok := m.entries[key]
	if ok {
		m.hits++
	}
	return r, ok
}

func (m *mapCache) Set(key string, r *Result) { m.entries[key] = r }

func TestSimulateEnrichesResult(t *testing.T) {
	svc := NewService(testRules(), testSnapshot(), nil, nil)

	res, err := svc.Simulate(context.Background(), testRequest())
	require.NoError(t, err)
	require.False(t, res.HasErrors)
	require.Len(t, res.Keepers, 2)

	// The traded round-4 pick makes the two keepers collide; p1 wins the
	// tiebreak and p2 cascades to round 5.
	p1 := res.Keepers[0]
	assert.Equal(t, "p1", p1.PlayerID)
	assert.Equal(t, "Aaron Ayers", p1.PlayerName)
	assert.Equal(t, "RB", p1.Position)
	assert.Equal(t, "DET", p1.NFLTeam)
	assert.Equal(t, "Mud Dogs", p1.RosterName)
	assert.Equal(t, 4, p1.FinalCost)
	assert.Equal(t, 510, p1.RoundValue)

	p2 := res.Keepers[1]
	assert.Equal(t, 5, p2.FinalCost)
	assert.Equal(t, 410, p2.RoundValue)
	assert.True(t, p2.IsCascaded)

	assert.NotEmpty(t, res.Checksum)
}

func TestSimulateBoard(t *testing.T) {
	svc := NewService(testRules(), testSnapshot(), nil, nil)

	res, err := svc.Simulate(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, []int{4, 5}, res.Board.Rounds())

	// p1's claim on round 4 rides r1's original pick, which r2 now owns.
	round4 := res.Board[4]
	require.Len(t, round4, 1)
	assert.Equal(t, "p1", round4[0].PlayerID)
	assert.Equal(t, "r2", round4[0].RosterID)
	assert.Equal(t, "Icemen", round4[0].RosterName)

	// p2 cascaded to round 5 on r2's own (untraded) slot.
	round5 := res.Board[5]
	require.Len(t, round5, 1)
	assert.Equal(t, "p2", round5[0].PlayerID)
	assert.Equal(t, "r2", round5[0].RosterID)
}

func TestSimulateBoardFlagsFranchise(t *testing.T) {
	svc := NewService(testRules(), testSnapshot(), nil, nil)
	req := Request{
		LeagueID: "ulb",
		Season:   2026,
		Keepers: []keeper.KeeperInput{
			{PlayerID: "p1", RosterID: "r1", Type: league.KeeperFranchise},
		},
	}

	res, err := svc.Simulate(context.Background(), req)
	require.NoError(t, err)

	round1 := res.Board[1]
	require.Len(t, round1, 1)
	assert.True(t, round1[0].Franchise)
	assert.Equal(t, "r1", round1[0].RosterID)
}

func TestSimulateMemoizes(t *testing.T) {
	c := newMapCache()
	svc := NewService(testRules(), testSnapshot(), c, nil)

	first, err := svc.Simulate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, 0, c.hits)

	// Same batch, different order: same checksum, served from cache.
	req := testRequest()
	req.Keepers[0], req.Keepers[1] = req.Keepers[1], req.Keepers[0]
	second, err := svc.Simulate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, c.hits)
	assert.Equal(t, first, second)

	// Cached results come back as copies, nested slices included: the
	// cascaded keeper's audit trail must survive caller mutation.
	second.Keepers[0].PlayerName = "mutated"
	require.Equal(t, []int{5}, second.Keepers[1].CascadeSteps)
	second.Keepers[1].CascadeSteps[0] = 99
	second.Keepers[1].ConflictsWith[0] = "poisoned"

	third, err := svc.Simulate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "Aaron Ayers", third.Keepers[0].PlayerName)
	assert.Equal(t, []int{5}, third.Keepers[1].CascadeSteps)
	assert.Equal(t, []string{"p1"}, third.Keepers[1].ConflictsWith)
}

func TestSimulateSeasons(t *testing.T) {
	svc := NewService(testRules(), testSnapshot(), nil, nil)

	results, err := svc.SimulateSeasons(context.Background(), testRequest(), []int{2026, 2027, 2028})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, season := range []int{2026, 2027, 2028} {
		require.NotNil(t, results[i])
		assert.Equal(t, season, results[i].Season)
	}
}

func TestSimulateCanceledContext(t *testing.T) {
	svc := NewService(testRules(), testSnapshot(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Simulate(ctx, testRequest())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChecksumOrderIndependent(t *testing.T) {
	a := testRequest()
	b := testRequest()
	b.Keepers[0], b.Keepers[1] = b.Keepers[1], b.Keepers[0]

	ca, err := Checksum(a)
	require.NoError(t, err)
	cb, err := Checksum(b)
	require.NoError(t, err)
	assert.Equal(t, ca, cb)

	b.Season = 2027
	cc, err := Checksum(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca, cc)
}

// recordingWriter captures the batch it receives.
type recordingWriter struct {
	leagueID string
	season   int
	costs    []KeeperCost
	calls    int
}

func (w *recordingWriter) WriteBatch(ctx context.Context, leagueID string, season int, costs []KeeperCost) error {
	w.calls++
	w.leagueID = leagueID
	w.season = season
	w.costs = costs
	return nil
}

func TestFinalizeWritesSingleBatch(t *testing.T) {
	svc := NewService(testRules(), testSnapshot(), nil, nil)
	w := &recordingWriter{}

	res, err := svc.Finalize(context.Background(), testRequest(), w, false)
	require.NoError(t, err)
	require.False(t, res.HasErrors)

	assert.Equal(t, 1, w.calls)
	assert.Equal(t, "ulb", w.leagueID)
	assert.Equal(t, 2026, w.season)
	require.Len(t, w.costs, 2)

	// First-year keepers are stored with a one-season chain.
	assert.Equal(t, 1, w.costs[0].YearsKept)
	assert.Equal(t, 4, w.costs[0].BaseCost)
	assert.Equal(t, 4, w.costs[0].FinalCost)
	assert.Equal(t, 5, w.costs[1].FinalCost)
}

func TestFinalizeFranchiseYearsChain(t *testing.T) {
	// p1 was kept by r1 in 2024 and 2025 and is franchise-tagged for 2026:
	// the durable record carries the full three-season chain even though
	// the tag's cost never consulted it.
	lg := league.League{ID: "ulb", Season: 2026}
	rosters := []league.Roster{{ID: "r1", Name: "Mud Dogs"}}
	players := []league.Player{{ID: "p1", Name: "Aaron Ayers"}}
	history := []league.KeeperRecord{
		{Season: 2025, PlayerID: "p1", RosterID: "r1", Type: league.KeeperRegular},
		{Season: 2024, PlayerID: "p1", RosterID: "r1", Type: league.KeeperRegular},
	}
	snap := league.NewSnapshot(lg, rosters, players, nil, history, nil)

	svc := NewService(testRules(), snap, nil, nil)
	w := &recordingWriter{}
	req := Request{
		LeagueID: "ulb",
		Season:   2026,
		Keepers: []keeper.KeeperInput{
			{PlayerID: "p1", RosterID: "r1", Type: league.KeeperFranchise},
		},
	}

	_, err := svc.Finalize(context.Background(), req, w, false)
	require.NoError(t, err)
	require.Len(t, w.costs, 1)
	assert.Equal(t, league.KeeperFranchise, w.costs[0].Type)
	assert.Equal(t, 3, w.costs[0].YearsKept)
	assert.Equal(t, 1, w.costs[0].FinalCost)
}

func TestFinalizeRefusesErrors(t *testing.T) {
	svc := NewService(testRules(), testSnapshot(), nil, nil)
	w := &recordingWriter{}

	req := testRequest()
	req.Keepers = append(req.Keepers, keeper.KeeperInput{
		PlayerID: "ghost", RosterID: "r1", Type: league.KeeperRegular,
	})

	res, err := svc.Finalize(context.Background(), req, w, false)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.True(t, res.HasErrors)
	assert.Equal(t, 0, w.calls)

	// force writes the eligible keepers anyway.
	res, err = svc.Finalize(context.Background(), req, w, true)
	require.NoError(t, err)
	assert.True(t, res.HasErrors)
	assert.Equal(t, 1, w.calls)
	assert.Len(t, w.costs, 2)
}
