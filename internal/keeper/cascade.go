package keeper

import (
	"fmt"
	"sort"

	"github.com/draftroom/keeper-data/internal/league"
)

// Calculate resolves draft-round costs for a batch of proposed keepers
// within one league for one target season.
//
// Missing or invalid league rules are a hard failure: nothing can be
// computed without them. Everything else (unknown rosters or players,
// ineligible keepers, unresolvable collisions) is accumulated per item in
// the result so one bad entry never blocks the rest of the batch.
//
// The call is deterministic: inputs are put in a canonical order before
// resolution, so the same batch in any order yields an identical result.
func Calculate(leagueID string, rules league.Rules, snap *league.Snapshot, inputs []KeeperInput, season int) (*CascadeResult, error) {
	if snap == nil {
		return nil, fmt.Errorf("league %s: no snapshot", leagueID)
	}
	if snap.League.ID != leagueID {
		return nil, fmt.Errorf("league %s: snapshot is for league %s", leagueID, snap.League.ID)
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("league %s keeper rules: %w", leagueID, err)
	}

	res := &CascadeResult{Season: season}
	if len(inputs) == 0 {
		return res, nil
	}

	keepers := computeBaseCosts(rules, snap, canonicalOrder(inputs), season, res)
	table := newOwnershipTable(snap.TradedPicks, season)
	resolveCollisions(rules, table, keepers, len(inputs), res)

	sort.SliceStable(keepers, func(i, j int) bool {
		if keepers[i].RosterID != keepers[j].RosterID {
			return keepers[i].RosterID < keepers[j].RosterID
		}
		if keepers[i].FinalCost != keepers[j].FinalCost {
			return keepers[i].FinalCost < keepers[j].FinalCost
		}
		return keepers[i].PlayerID < keepers[j].PlayerID
	})
	res.Keepers = make([]ResolvedKeeper, len(keepers))
	for i, k := range keepers {
		res.Keepers[i] = *k
	}
	res.HasErrors = len(res.Errors) > 0
	return res, nil
}

// canonicalOrder copies the batch into (rosterID, playerID) order so that
// input order never influences the outcome.
func canonicalOrder(inputs []KeeperInput) []KeeperInput {
	sorted := make([]KeeperInput, len(inputs))
	copy(sorted, inputs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].RosterID != sorted[j].RosterID {
			return sorted[i].RosterID < sorted[j].RosterID
		}
		return sorted[i].PlayerID < sorted[j].PlayerID
	})
	return sorted
}

// --------------------------------------------------------------------------
// Step 1 — base cost computation
// --------------------------------------------------------------------------

// computeBaseCosts validates each proposed keeper independently and assigns
// its pre-cascade cost. Keepers that fail validation stay in the output with
// Eligible = false and a matching entry in res.Errors.
func computeBaseCosts(rules league.Rules, snap *league.Snapshot, inputs []KeeperInput, season int, res *CascadeResult) []*ResolvedKeeper {
	type tally struct {
		total     int
		franchise int
		regular   int
	}
	counts := make(map[string]*tally)
	seen := make(map[string]bool, len(inputs))

	out := make([]*ResolvedKeeper, 0, len(inputs))
	for _, in := range inputs {
		k := &ResolvedKeeper{
			PlayerID:   in.PlayerID,
			RosterID:   in.RosterID,
			PlayerName: in.PlayerName,
			Type:       in.Type,
		}
		out = append(out, k)

		if seen[in.PlayerID] {
			res.addErrorf("player %s: proposed more than once", in.PlayerID)
			continue
		}
		seen[in.PlayerID] = true

		if !in.Type.Valid() {
			res.addErrorf("player %s: unknown keeper type %q", in.PlayerID, in.Type)
			continue
		}
		if _, ok := snap.Roster(in.RosterID); !ok {
			res.addErrorf("player %s: roster %s not found", in.PlayerID, in.RosterID)
			continue
		}
		p, ok := snap.Player(in.PlayerID)
		if !ok {
			res.addErrorf("player %s not found", in.PlayerID)
			continue
		}
		if k.PlayerName == "" {
			k.PlayerName = p.Name
		}

		c := counts[in.RosterID]
		if c == nil {
			c = &tally{}
			counts[in.RosterID] = c
		}
		if c.total >= rules.MaxKeepers {
			res.addErrorf("player %s: roster %s exceeds max keepers (%d)", in.PlayerID, in.RosterID, rules.MaxKeepers)
			continue
		}

		switch in.Type {
		case league.KeeperFranchise:
			if c.franchise >= rules.MaxFranchiseTags {
				res.addErrorf("player %s: roster %s exceeds max franchise tags (%d)", in.PlayerID, in.RosterID, rules.MaxFranchiseTags)
				continue
			}
			c.total++
			c.franchise++
			// A franchise tag always costs the configured round, independent
			// of years kept, and is never cascaded.
			k.BaseCost = rules.FranchiseTagRound
			k.FinalCost = rules.FranchiseTagRound
			k.Eligible = true

		case league.KeeperRegular:
			if c.regular >= rules.MaxRegularKeepers {
				res.addErrorf("player %s: roster %s exceeds max regular keepers (%d)", in.PlayerID, in.RosterID, rules.MaxRegularKeepers)
				continue
			}
			k.YearsKept = snap.YearsKept(in.PlayerID, in.RosterID, season)
			if k.YearsKept >= rules.RegularKeeperMaxYears {
				res.addErrorf("player %s (%s): maximum keeper years exceeded (%d)", in.PlayerID, k.PlayerName, k.YearsKept)
				continue
			}
			c.total++
			c.regular++
			round := snap.OriginalDraftRound(in.PlayerID, in.RosterID)
			if round == 0 {
				round = rules.UndraftedRound
			}
			k.BaseCost = max(1, round-k.YearsKept)
			k.FinalCost = k.BaseCost
			k.Eligible = true
		}
	}
	return out
}

// --------------------------------------------------------------------------
// Steps 2 & 3 — collision detection and cascade resolution
// --------------------------------------------------------------------------

// resolveCollisions repeatedly groups eligible regular keepers by the
// effective draft slot their current cost claims, and cascades the losing
// keeper of every contested slot one round toward the draft's end, until no
// collisions remain or the iteration cap is reached.
//
// Franchise keepers never enter the grouping: their round is fixed, so they
// cannot collide with each other or displace a regular keeper.
//
// Each pass either settles the batch or moves at least one cost upward, and
// costs are capped at the league's total rounds, so the loop terminates;
// the step cap is a second bound against adversarial inputs.
func resolveCollisions(rules league.Rules, table *ownershipTable, keepers []*ResolvedKeeper, batchSize int, res *CascadeResult) {
	maxSteps := rules.TotalRounds * batchSize
	steps := 0

	for {
		groups := make(map[slot][]*ResolvedKeeper)
		for _, k := range keepers {
			if !k.Eligible || k.Type != league.KeeperRegular {
				continue
			}
			s := table.effectiveSlot(k.FinalCost, k.RosterID)
			groups[s] = append(groups[s], k)
		}

		var contested []slot
		for s, g := range groups {
			if len(g) > 1 {
				contested = append(contested, s)
			}
		}
		if len(contested) == 0 {
			return
		}
		sort.Slice(contested, func(i, j int) bool {
			if contested[i].round != contested[j].round {
				return contested[i].round < contested[j].round
			}
			return contested[i].rosterID < contested[j].rosterID
		})

		if steps >= maxSteps {
			abandonContested(contested, groups, res)
			return
		}

		for _, s := range contested {
			g := groups[s]
			orderByPriority(g)
			winner := g[0]
			for _, loser := range g[1:] {
				steps++
				recordCollision(winner, loser)

				next := loser.FinalCost + 1
				if next > rules.TotalRounds {
					loser.Eligible = false
					loser.FinalCost = 0
					res.Conflicts = append(res.Conflicts, Conflict{
						Round:          s.round,
						SlotRosterID:   s.rosterID,
						WinnerPlayerID: winner.PlayerID,
						LoserPlayerID:  loser.PlayerID,
						Status:         ConflictUnresolved,
						Resolution:     fmt.Sprintf("no available round past %d", rules.TotalRounds),
					})
					res.addErrorf("player %s: no available round (cascade past round %d)", loser.PlayerID, rules.TotalRounds)
					continue
				}

				loser.FinalCost = next
				loser.CascadeSteps = append(loser.CascadeSteps, next)
				loser.IsCascaded = true
				res.Conflicts = append(res.Conflicts, Conflict{
					Round:          s.round,
					SlotRosterID:   s.rosterID,
					WinnerPlayerID: winner.PlayerID,
					LoserPlayerID:  loser.PlayerID,
					Status:         ConflictResolved,
					Resolution:     fmt.Sprintf("player %s cascaded to round %d", loser.PlayerID, next),
				})
			}
		}
	}
}

// orderByPriority sorts a colliding group winner-first: fewer years kept
// wins the contested slot; on a tie the lexically smaller player id wins.
// The tiebreak is arbitrary but total: any stable rule works as long as it
// never depends on input order.
func orderByPriority(g []*ResolvedKeeper) {
	sort.Slice(g, func(i, j int) bool {
		if g[i].YearsKept != g[j].YearsKept {
			return g[i].YearsKept < g[j].YearsKept
		}
		return g[i].PlayerID < g[j].PlayerID
	})
}

// recordCollision links the two keepers of a collision for reporting.
func recordCollision(winner, loser *ResolvedKeeper) {
	winner.ConflictsWith = appendUnique(winner.ConflictsWith, loser.PlayerID)
	loser.ConflictsWith = appendUnique(loser.ConflictsWith, winner.PlayerID)
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// abandonContested marks every keeper still colliding when the iteration
// cap is hit as unresolved. The winner of each slot keeps its cost.
func abandonContested(contested []slot, groups map[slot][]*ResolvedKeeper, res *CascadeResult) {
	for _, s := range contested {
		g := groups[s]
		orderByPriority(g)
		winner := g[0]
		for _, loser := range g[1:] {
			recordCollision(winner, loser)
			loser.Eligible = false
			loser.FinalCost = 0
			res.Conflicts = append(res.Conflicts, Conflict{
				Round:          s.round,
				SlotRosterID:   s.rosterID,
				WinnerPlayerID: winner.PlayerID,
				LoserPlayerID:  loser.PlayerID,
				Status:         ConflictUnresolved,
				Resolution:     "iteration cap reached",
			})
			res.addErrorf("player %s: unresolved collision at round %d", loser.PlayerID, s.round)
		}
	}
}
