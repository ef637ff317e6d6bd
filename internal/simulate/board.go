package simulate

import (
	"sort"

	"github.com/draftroom/keeper-data/internal/keeper"
	"github.com/draftroom/keeper-data/internal/league"
)

// BoardSlot is one claimed slot on the draft board: the keeper occupying a
// round for the roster that effectively owns the pick.
type BoardSlot struct {
	Round      int
	RosterID   string // effective owner after trades
	RosterName string
	PlayerID   string
	PlayerName string
	Franchise  bool
}

// Board is the per-round view of all claimed keeper slots, keyed by round,
// slots within a round ordered by roster id.
type Board map[int][]BoardSlot

// buildBoard derives the draft-board view from a cascade result. Franchise
// keepers are charted at the franchise round under their own roster; regular
// keepers are charted under the effective owner of the round they resolved
// to.
func buildBoard(snap *league.Snapshot, cascade *keeper.CascadeResult) Board {
	owners := make(map[slotKey]string)
	for _, t := range snap.TradedPicks {
		if t.Season == cascade.Season {
			owners[slotKey{t.Round, t.OriginalRosterID}] = t.CurrentRosterID
		}
	}

	board := make(Board)
	for _, k := range cascade.Keepers {
		if !k.Eligible {
			continue
		}
		owner := k.RosterID
		if k.Type == league.KeeperRegular {
			if current, ok := owners[slotKey{k.FinalCost, k.RosterID}]; ok {
				owner = current
			}
		}
		slot := BoardSlot{
			Round:      k.FinalCost,
			RosterID:   owner,
			PlayerID:   k.PlayerID,
			PlayerName: k.PlayerName,
			Franchise:  k.Type == league.KeeperFranchise,
		}
		if r, ok := snap.Roster(owner); ok {
			slot.RosterName = r.Name
		}
		board[k.FinalCost] = append(board[k.FinalCost], slot)
	}
	for round := range board {
		sort.Slice(board[round], func(i, j int) bool {
			if board[round][i].RosterID != board[round][j].RosterID {
				return board[round][i].RosterID < board[round][j].RosterID
			}
			return board[round][i].PlayerID < board[round][j].PlayerID
		})
	}
	return board
}

type slotKey struct {
	round    int
	rosterID string
}

// Rounds returns the board's claimed rounds in ascending order.
func (b Board) Rounds() []int {
	rounds := make([]int, 0, len(b))
	for r := range b {
		rounds = append(rounds, r)
	}
	sort.Ints(rounds)
	return rounds
}

func (b Board) copy() Board {
	dup := make(Board, len(b))
	for round, slots := range b {
		s := make([]BoardSlot, len(slots))
		copy(s, slots)
		dup[round] = s
	}
	return dup
}
