package simulate

import (
	"context"
	"fmt"

	"github.com/draftroom/keeper-data/internal/league"
)

// KeeperCost is one resolved cost ready to persist.
type KeeperCost struct {
	PlayerID  string
	RosterID  string
	Season    int
	Type      league.KeeperType
	YearsKept int
	BaseCost  int
	FinalCost int
}

// KeeperWriter persists a finalized batch. WriteBatch receives every cost of
// the season in one call so implementations can apply their own transactional
// discipline; the engine gives no atomicity guarantee of its own.
type KeeperWriter interface {
	WriteBatch(ctx context.Context, leagueID string, season int, costs []KeeperCost) error
}

// Finalize runs the cascade and writes the resolved costs through w.
// A cascade with errors is refused unless force is set; with force, only the
// eligible keepers are written and the errors travel back in the result.
func (s *Service) Finalize(ctx context.Context, req Request, w KeeperWriter, force bool) (*Result, error) {
	res, err := s.Simulate(ctx, req)
	if err != nil {
		return nil, err
	}
	if res.HasErrors && !force {
		return res, fmt.Errorf("cascade has %d errors, refusing to finalize", len(res.Errors))
	}

	costs := make([]KeeperCost, 0, len(res.Keepers))
	for _, k := range res.Keepers {
		if !k.Eligible {
			continue
		}
		// The engine's YearsKept counts prior seasons only; the durable
		// record counts the chain through its own season. For franchise
		// tags the engine never computes the chain (the tag's cost ignores
		// it), so the prior seasons come from the snapshot instead.
		years := k.YearsKept
		if k.Type == league.KeeperFranchise {
			years = s.snap.YearsKept(k.PlayerID, k.RosterID, req.Season)
		}
		costs = append(costs, KeeperCost{
			PlayerID:  k.PlayerID,
			RosterID:  k.RosterID,
			Season:    req.Season,
			Type:      k.Type,
			YearsKept: years + 1,
			BaseCost:  k.BaseCost,
			FinalCost: k.FinalCost,
		})
	}
	if err := w.WriteBatch(ctx, req.LeagueID, req.Season, costs); err != nil {
		return res, fmt.Errorf("write keeper costs: %w", err)
	}
	s.logger.Info("keepers finalized", "league", req.LeagueID, "season", req.Season, "written", len(costs))
	return res, nil
}
