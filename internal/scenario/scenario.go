// Package scenario loads and saves league scenario files: a YAML document
// carrying league rules, rosters, players, draft and keeper history, traded
// picks, and the proposed keepers for a target season. Scenario files feed
// the keeperctl CLI and the test suite; the web layers assemble the same
// snapshot from their own storage.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/draftroom/keeper-data/internal/keeper"
	"github.com/draftroom/keeper-data/internal/league"
)

// Document is the on-disk scenario schema.
type Document struct {
	League struct {
		ID     string `yaml:"id"`
		Name   string `yaml:"name"`
		Season int    `yaml:"season"`
	} `yaml:"league"`

	// Rules may be omitted; callers fall back to configured defaults.
	Rules *RulesDoc `yaml:"rules,omitempty"`

	Rosters []struct {
		ID    string `yaml:"id"`
		Name  string `yaml:"name"`
		Owner string `yaml:"owner,omitempty"`
	} `yaml:"rosters"`

	Players []struct {
		ID       string `yaml:"id"`
		Name     string `yaml:"name"`
		Position string `yaml:"position,omitempty"`
		NFLTeam  string `yaml:"nfl_team,omitempty"`
	} `yaml:"players"`

	DraftHistory []struct {
		Season   int    `yaml:"season"`
		Round    int    `yaml:"round"`
		Pick     int    `yaml:"pick,omitempty"`
		RosterID string `yaml:"roster_id"`
		PlayerID string `yaml:"player_id"`
	} `yaml:"draft_history,omitempty"`

	KeeperHistory []KeeperRecordDoc `yaml:"keeper_history,omitempty"`

	TradedPicks []struct {
		Season           int    `yaml:"season"`
		Round            int    `yaml:"round"`
		OriginalRosterID string `yaml:"original_roster_id"`
		CurrentRosterID  string `yaml:"current_roster_id"`
	} `yaml:"traded_picks,omitempty"`

	ProposedKeepers []struct {
		PlayerID   string `yaml:"player_id"`
		RosterID   string `yaml:"roster_id"`
		PlayerName string `yaml:"player_name,omitempty"`
		Type       string `yaml:"type"`
	} `yaml:"proposed_keepers,omitempty"`
}

// RulesDoc mirrors league.Rules with YAML tags.
type RulesDoc struct {
	MaxKeepers            int         `yaml:"max_keepers"`
	MaxFranchiseTags      int         `yaml:"max_franchise_tags"`
	MaxRegularKeepers     int         `yaml:"max_regular_keepers"`
	RegularKeeperMaxYears int         `yaml:"regular_keeper_max_years"`
	UndraftedRound        int         `yaml:"undrafted_round"`
	FranchiseTagRound     int         `yaml:"franchise_tag_round"`
	TotalRounds           int         `yaml:"total_rounds"`
	PickValues            map[int]int `yaml:"pick_values,omitempty"`
}

// KeeperRecordDoc is one keeper history entry on disk.
type KeeperRecordDoc struct {
	Season    int    `yaml:"season"`
	PlayerID  string `yaml:"player_id"`
	RosterID  string `yaml:"roster_id"`
	Type      string `yaml:"type,omitempty"`
	YearsKept int    `yaml:"years_kept,omitempty"`
	BaseCost  int    `yaml:"base_cost,omitempty"`
	FinalCost int    `yaml:"final_cost,omitempty"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &doc, nil
}

// Save writes the document back out, for finalize and years-recalc output.
func Save(path string, doc *Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal scenario: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write scenario: %w", err)
	}
	return nil
}

// Validate checks referential integrity of the document. Rule validation is
// deferred to league.Rules so defaults can be applied first.
func (d *Document) Validate() error {
	if d.League.ID == "" {
		return fmt.Errorf("league.id is required")
	}
	if len(d.Rosters) == 0 {
		return fmt.Errorf("at least one roster is required")
	}

	rosters := make(map[string]bool, len(d.Rosters))
	for _, r := range d.Rosters {
		if r.ID == "" {
			return fmt.Errorf("roster with empty id")
		}
		if rosters[r.ID] {
			return fmt.Errorf("duplicate roster id %s", r.ID)
		}
		rosters[r.ID] = true
	}

	players := make(map[string]bool, len(d.Players))
	for _, p := range d.Players {
		if p.ID == "" {
			return fmt.Errorf("player with empty id")
		}
		if players[p.ID] {
			return fmt.Errorf("duplicate player id %s", p.ID)
		}
		players[p.ID] = true
	}

	for _, s := range d.DraftHistory {
		if !rosters[s.RosterID] {
			return fmt.Errorf("draft history references unknown roster %s", s.RosterID)
		}
		if !players[s.PlayerID] {
			return fmt.Errorf("draft history references unknown player %s", s.PlayerID)
		}
		if s.Round < 1 {
			return fmt.Errorf("draft history for player %s: round %d out of range", s.PlayerID, s.Round)
		}
	}
	for _, k := range d.KeeperHistory {
		if !rosters[k.RosterID] {
			return fmt.Errorf("keeper history references unknown roster %s", k.RosterID)
		}
		if !players[k.PlayerID] {
			return fmt.Errorf("keeper history references unknown player %s", k.PlayerID)
		}
	}
	for _, t := range d.TradedPicks {
		if !rosters[t.OriginalRosterID] {
			return fmt.Errorf("traded pick references unknown roster %s", t.OriginalRosterID)
		}
		if !rosters[t.CurrentRosterID] {
			return fmt.Errorf("traded pick references unknown roster %s", t.CurrentRosterID)
		}
		if t.Round < 1 {
			return fmt.Errorf("traded pick round %d out of range", t.Round)
		}
	}
	return nil
}

// LeagueRules returns the document's rules, or fallback when the document
// carries none.
func (d *Document) LeagueRules(fallback league.Rules) league.Rules {
	if d.Rules == nil {
		return fallback
	}
	return league.Rules{
		MaxKeepers:            d.Rules.MaxKeepers,
		MaxFranchiseTags:      d.Rules.MaxFranchiseTags,
		MaxRegularKeepers:     d.Rules.MaxRegularKeepers,
		RegularKeeperMaxYears: d.Rules.RegularKeeperMaxYears,
		UndraftedRound:        d.Rules.UndraftedRound,
		FranchiseTagRound:     d.Rules.FranchiseTagRound,
		TotalRounds:           d.Rules.TotalRounds,
		PickValues:            d.Rules.PickValues,
	}
}

// Snapshot assembles the league snapshot the cascade engine reads.
func (d *Document) Snapshot() *league.Snapshot {
	lg := league.League{ID: d.League.ID, Name: d.League.Name, Season: d.League.Season}

	rosters := make([]league.Roster, len(d.Rosters))
	for i, r := range d.Rosters {
		rosters[i] = league.Roster{ID: r.ID, Name: r.Name, Owner: r.Owner}
	}
	players := make([]league.Player, len(d.Players))
	for i, p := range d.Players {
		players[i] = league.Player{ID: p.ID, Name: p.Name, Position: p.Position, NFLTeam: p.NFLTeam}
	}
	drafts := make([]league.DraftSelection, len(d.DraftHistory))
	for i, s := range d.DraftHistory {
		drafts[i] = league.DraftSelection{Season: s.Season, Round: s.Round, Pick: s.Pick, RosterID: s.RosterID, PlayerID: s.PlayerID}
	}
	history := make([]league.KeeperRecord, len(d.KeeperHistory))
	for i, k := range d.KeeperHistory {
		history[i] = league.KeeperRecord{
			Season:    k.Season,
			PlayerID:  k.PlayerID,
			RosterID:  k.RosterID,
			Type:      league.KeeperType(k.Type),
			YearsKept: k.YearsKept,
			BaseCost:  k.BaseCost,
			FinalCost: k.FinalCost,
		}
	}
	picks := make([]league.TradedPick, len(d.TradedPicks))
	for i, t := range d.TradedPicks {
		picks[i] = league.TradedPick{Season: t.Season, Round: t.Round, OriginalRosterID: t.OriginalRosterID, CurrentRosterID: t.CurrentRosterID}
	}

	return league.NewSnapshot(lg, rosters, players, drafts, history, picks)
}

// Inputs returns the proposed keepers as engine inputs.
func (d *Document) Inputs() []keeper.KeeperInput {
	inputs := make([]keeper.KeeperInput, len(d.ProposedKeepers))
	for i, p := range d.ProposedKeepers {
		inputs[i] = keeper.KeeperInput{
			PlayerID:   p.PlayerID,
			RosterID:   p.RosterID,
			PlayerName: p.PlayerName,
			Type:       league.KeeperType(p.Type),
		}
	}
	return inputs
}

// SetKeeperHistory replaces the document's keeper history, used when
// writing back recalculated or finalized records.
func (d *Document) SetKeeperHistory(records []league.KeeperRecord) {
	docs := make([]KeeperRecordDoc, len(records))
	for i, r := range records {
		docs[i] = KeeperRecordDoc{
			Season:    r.Season,
			PlayerID:  r.PlayerID,
			RosterID:  r.RosterID,
			Type:      string(r.Type),
			YearsKept: r.YearsKept,
			BaseCost:  r.BaseCost,
			FinalCost: r.FinalCost,
		}
	}
	d.KeeperHistory = docs
}
