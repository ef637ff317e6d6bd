// Package simulate wraps the cascade engine for its two consumers: the
// simulation flow, which enriches results with display metadata and a
// per-round draft board and persists nothing, and the finalization flow,
// which writes resolved costs back through the caller's writer in one batch.
package simulate

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/draftroom/keeper-data/internal/keeper"
	"github.com/draftroom/keeper-data/internal/league"
)

// Request is one simulation request.
type Request struct {
	LeagueID string               `json:"league_id"`
	Season   int                  `json:"season"`
	Keepers  []keeper.KeeperInput `json:"keepers"`
}

// EnrichedKeeper is a resolved keeper plus the display metadata the UI
// renders alongside it.
type EnrichedKeeper struct {
	keeper.ResolvedKeeper
	Position   string
	NFLTeam    string
	RosterName string
	RoundValue int // display value of the final round, 0 when ineligible
}

// Result is an enriched cascade result.
type Result struct {
	LeagueID  string
	Season    int
	Keepers   []EnrichedKeeper
	Board     Board
	Conflicts []keeper.Conflict
	Errors    []string
	HasErrors bool
	Checksum  string // canonical checksum of the request that produced this
}

// ResultCache memoizes simulation results by request checksum. Implemented
// by the cache package; a nil cache disables memoization.
type ResultCache interface {
	Get(key string) (*Result, bool)
	Set(key string, r *Result)
}

// Service runs simulations against one league snapshot. The engine itself
// is pure, so a Service is safe for concurrent use as long as its snapshot
// is not replaced mid-flight; build a fresh Service per snapshot instead.
type Service struct {
	rules  league.Rules
	snap   *league.Snapshot
	cache  ResultCache
	logger *slog.Logger
}

// NewService builds a simulation service. cache may be nil.
func NewService(rules league.Rules, snap *league.Snapshot, cache ResultCache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{rules: rules, snap: snap, cache: cache, logger: logger}
}

// Simulate runs the cascade and enriches the outcome. Repeated requests
// with the same checksum are served from the cache; cached results are
// copied on the way out so callers can mutate what they receive.
func (s *Service) Simulate(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key, err := Checksum(req)
	if err != nil {
		return nil, fmt.Errorf("checksum request: %w", err)
	}
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			s.logger.Debug("simulation cache hit", "league", req.LeagueID, "season", req.Season, "checksum", key[:8])
			return cached.copy(), nil
		}
	}

	cascade, err := keeper.Calculate(req.LeagueID, s.rules, s.snap, req.Keepers, req.Season)
	if err != nil {
		return nil, err
	}
	s.logger.Info("cascade computed", "league", req.LeagueID, "summary", cascade.Summary())

	res := s.enrich(req, cascade, key)
	if s.cache != nil {
		s.cache.Set(key, res.copy())
	}
	return res, nil
}

// SimulateSeasons runs independent simulations of the same keeper batch for
// several target seasons. Each run only reads its inputs, so the fan-out
// needs no coordination beyond collecting results.
func (s *Service) SimulateSeasons(ctx context.Context, base Request, seasons []int) ([]*Result, error) {
	results := make([]*Result, len(seasons))
	g, ctx := errgroup.WithContext(ctx)
	for i, season := range seasons {
		i := i
		req := base
		req.Season = season
		g.Go(func() error {
			res, err := s.Simulate(ctx, req)
			if err != nil {
				return fmt.Errorf("season %d: %w", req.Season, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// enrich attaches display metadata and the draft board to a cascade result.
func (s *Service) enrich(req Request, cascade *keeper.CascadeResult, checksum string) *Result {
	res := &Result{
		LeagueID:  req.LeagueID,
		Season:    req.Season,
		Keepers:   make([]EnrichedKeeper, len(cascade.Keepers)),
		Conflicts: cascade.Conflicts,
		Errors:    cascade.Errors,
		HasErrors: cascade.HasErrors,
		Checksum:  checksum,
	}
	for i, k := range cascade.Keepers {
		e := EnrichedKeeper{ResolvedKeeper: k}
		if p, ok := s.snap.Player(k.PlayerID); ok {
			e.Position = p.Position
			e.NFLTeam = p.NFLTeam
		}
		if r, ok := s.snap.Roster(k.RosterID); ok {
			e.RosterName = r.Name
		}
		if k.Eligible {
			e.RoundValue = s.rules.RoundValue(k.FinalCost)
		}
		res.Keepers[i] = e
	}
	res.Board = buildBoard(s.snap, cascade)
	return res
}

func (r *Result) copy() *Result {
	dup := *r
	dup.Keepers = make([]EnrichedKeeper, len(r.Keepers))
	for i, k := range r.Keepers {
		// The per-keeper slices must not alias the cached entry's backing
		// arrays, or a caller mutation would poison the memoized result.
		k.CascadeSteps = append([]int(nil), k.CascadeSteps...)
		k.ConflictsWith = append([]string(nil), k.ConflictsWith...)
		dup.Keepers[i] = k
	}
	dup.Conflicts = make([]keeper.Conflict, len(r.Conflicts))
	copy(dup.Conflicts, r.Conflicts)
	dup.Errors = append([]string(nil), r.Errors...)
	dup.Board = r.Board.copy()
	return &dup
}
