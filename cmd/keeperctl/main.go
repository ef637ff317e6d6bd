// Command keeperctl runs keeper cost cascades against league scenario files.
//
// Usage:
//
//	keeperctl simulate --scenario league.yaml --season 2026
//	keeperctl simulate --scenario league.yaml --seasons 2026,2027 --json
//	keeperctl finalize --scenario league.yaml --season 2026 --out league.yaml
//	keeperctl years recalc --scenario league.yaml --season 2026
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/draftroom/keeper-data/internal/cache"
	"github.com/draftroom/keeper-data/internal/config"
	"github.com/draftroom/keeper-data/internal/league"
	"github.com/draftroom/keeper-data/internal/scenario"
	"github.com/draftroom/keeper-data/internal/simulate"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "keeperctl",
		Short: "Keeper cost cascade CLI",
	}

	root.AddCommand(simulateCmd())
	root.AddCommand(finalizeCmd())
	root.AddCommand(yearsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// simulate command
// --------------------------------------------------------------------------

func simulateCmd() *cobra.Command {
	var scenarioPath string
	var season int
	var seasons string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Compute a keeper cost cascade without persisting anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config) error {
				svc, doc, err := buildService(cfg, scenarioPath)
				if err != nil {
					return err
				}
				req := simulate.Request{
					LeagueID: doc.League.ID,
					Season:   targetSeason(doc, season),
					Keepers:  doc.Inputs(),
				}

				if seasons != "" {
					targets, err := parseSeasons(seasons)
					if err != nil {
						return err
					}
					results, err := svc.SimulateSeasons(ctx, req, targets)
					if err != nil {
						return err
					}
					for _, res := range results {
						if err := printResult(res, asJSON); err != nil {
							return err
						}
					}
					return nil
				}

				res, err := svc.Simulate(ctx, req)
				if err != nil {
					return err
				}
				return printResult(res, asJSON)
			})
		},
	}
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to the league scenario file (required)")
	cmd.Flags().IntVar(&season, "season", 0, "Target season (default: league season from the scenario)")
	cmd.Flags().StringVar(&seasons, "seasons", "", "Comma-separated target seasons, simulated concurrently")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the raw result as JSON")
	_ = cmd.MarkFlagRequired("scenario")
	return cmd
}

// --------------------------------------------------------------------------
// finalize command
// --------------------------------------------------------------------------

func finalizeCmd() *cobra.Command {
	var scenarioPath, outPath string
	var season int
	var force bool
	cmd := &cobra.Command{
		Use:   "finalize",
		Short: "Compute a cascade and write resolved costs into the scenario's keeper history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config) error {
				svc, doc, err := buildService(cfg, scenarioPath)
				if err != nil {
					return err
				}
				req := simulate.Request{
					LeagueID: doc.League.ID,
					Season:   targetSeason(doc, season),
					Keepers:  doc.Inputs(),
				}

				out := outPath
				if out == "" {
					out = scenarioPath
				}
				writer := scenario.NewWriter(doc, resolvePath(cfg, out))
				res, err := svc.Finalize(ctx, req, writer, force)
				if err != nil {
					if res != nil {
						for _, e := range res.Errors {
							logger.Error("cascade error", "error", e)
						}
					}
					return err
				}
				logger.Info("Finalized", "league", req.LeagueID, "season", req.Season, "out", out)
				return printResult(res, false)
			})
		},
	}
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to the league scenario file (required)")
	cmd.Flags().IntVar(&season, "season", 0, "Target season (default: league season from the scenario)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output path (default: overwrite the scenario file)")
	cmd.Flags().BoolVar(&force, "force", false, "Write eligible keepers even when the cascade has errors")
	_ = cmd.MarkFlagRequired("scenario")
	return cmd
}

// --------------------------------------------------------------------------
// years command
// --------------------------------------------------------------------------

func yearsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "years",
		Short: "Keeper history maintenance",
	}
	cmd.AddCommand(yearsRecalcCmd())
	return cmd
}

func yearsRecalcCmd() *cobra.Command {
	var scenarioPath, outPath string
	var season int
	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "Recompute years-kept chains in the scenario's keeper history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config) error {
				doc, err := scenario.Load(resolvePath(cfg, scenarioPath))
				if err != nil {
					return err
				}
				target := targetSeason(doc, season)
				snap := doc.Snapshot()
				records := league.RecalculateYearsKept(snap.KeeperHistory, target)
				doc.SetKeeperHistory(records)

				out := outPath
				if out == "" {
					out = scenarioPath
				}
				if err := scenario.Save(resolvePath(cfg, out), doc); err != nil {
					return err
				}
				logger.Info("Years recalculated", "league", doc.League.ID, "season", target, "records", len(records), "out", out)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to the league scenario file (required)")
	cmd.Flags().IntVar(&season, "season", 0, "Target season (default: league season from the scenario)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output path (default: overwrite the scenario file)")
	_ = cmd.MarkFlagRequired("scenario")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// run handles config loading and context cancellation.
func run(fn func(ctx context.Context, cfg *config.Config) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg := config.Load()
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	return fn(ctx, cfg)
}

// buildService loads a scenario and wires the simulation service around it.
func buildService(cfg *config.Config, scenarioPath string) (*simulate.Service, *scenario.Document, error) {
	doc, err := scenario.Load(resolvePath(cfg, scenarioPath))
	if err != nil {
		return nil, nil, err
	}
	rules := doc.LeagueRules(config.DefaultRules())
	svc := simulate.NewService(rules, doc.Snapshot(), cache.New(cfg.CacheEnabled, cfg.CacheTTL), logger)
	return svc, doc, nil
}

func resolvePath(cfg *config.Config, path string) string {
	if filepath.IsAbs(path) || cfg.ScenarioDir == "." {
		return path
	}
	return filepath.Join(cfg.ScenarioDir, path)
}

func targetSeason(doc *scenario.Document, flag int) int {
	if flag != 0 {
		return flag
	}
	return doc.League.Season
}

func parseSeasons(csv string) ([]int, error) {
	parts := strings.Split(csv, ",")
	seasons := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid season %q", p)
		}
		seasons = append(seasons, n)
	}
	sort.Ints(seasons)
	return seasons, nil
}

// --------------------------------------------------------------------------
// Output
// --------------------------------------------------------------------------

func printResult(res *simulate.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Printf("league %s, season %d\n", res.LeagueID, res.Season)
	for _, k := range res.Keepers {
		switch {
		case !k.Eligible:
			fmt.Printf("  %-22s %-12s INELIGIBLE\n", k.PlayerName, k.RosterName)
		case k.IsCascaded:
			fmt.Printf("  %-22s %-12s R%-2d (base R%d, cascaded via %v)\n", k.PlayerName, k.RosterName, k.FinalCost, k.BaseCost, k.CascadeSteps)
		default:
			fmt.Printf("  %-22s %-12s R%-2d\n", k.PlayerName, k.RosterName, k.FinalCost)
		}
	}
	if len(res.Conflicts) > 0 {
		fmt.Println("conflicts:")
		for _, c := range res.Conflicts {
			fmt.Printf("  R%d (%s): %s over %s: %s\n", c.Round, c.SlotRosterID, c.WinnerPlayerID, c.LoserPlayerID, c.Resolution)
		}
	}
	if len(res.Errors) > 0 {
		fmt.Println("errors:")
		for _, e := range res.Errors {
			fmt.Printf("  %s\n", e)
		}
	}
	printBoard(res.Board)
	return nil
}

func printBoard(b simulate.Board) {
	if len(b) == 0 {
		return
	}
	fmt.Println("draft board:")
	for _, round := range b.Rounds() {
		for _, s := range b[round] {
			tag := ""
			if s.Franchise {
				tag = " [FT]"
			}
			fmt.Printf("  R%-2d %-12s %s%s\n", round, s.RosterName, s.PlayerName, tag)
		}
	}
}
