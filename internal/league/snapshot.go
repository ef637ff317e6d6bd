package league

// Snapshot is everything the cascade engine reads for one league: the
// caller (CLI, simulation endpoint) fetches and assembles it, the engine
// only looks things up. It is never mutated after construction.
type Snapshot struct {
	League  League
	rosters map[string]Roster
	players map[string]Player

	// originalRound indexes draft history by (playerID, rosterID): the round
	// in which that roster originally drafted that player, with the season
	// kept alongside so the latest selection wins regardless of input order.
	originalRound map[playerRoster]seasonRound

	// kept indexes keeper history by (playerID, rosterID, season).
	kept map[keptKey]bool

	KeeperHistory []KeeperRecord
	TradedPicks   []TradedPick
}

type playerRoster struct {
	playerID string
	rosterID string
}

type seasonRound struct {
	season int
	round  int
}

type keptKey struct {
	playerID string
	rosterID string
	season   int
}

// NewSnapshot indexes the supplied records for lookup. When a roster drafted
// the same player in more than one season, the most recent season wins.
func NewSnapshot(lg League, rosters []Roster, players []Player, drafts []DraftSelection, keeperHistory []KeeperRecord, tradedPicks []TradedPick) *Snapshot {
	s := &Snapshot{
		League:        lg,
		rosters:       make(map[string]Roster, len(rosters)),
		players:       make(map[string]Player, len(players)),
		originalRound: make(map[playerRoster]seasonRound, len(drafts)),
		kept:          make(map[keptKey]bool, len(keeperHistory)),
		KeeperHistory: keeperHistory,
		TradedPicks:   tradedPicks,
	}
	for _, r := range rosters {
		s.rosters[r.ID] = r
	}
	for _, p := range players {
		s.players[p.ID] = p
	}
	for _, d := range drafts {
		key := playerRoster{d.PlayerID, d.RosterID}
		if prev, ok := s.originalRound[key]; !ok || d.Season > prev.season {
			s.originalRound[key] = seasonRound{season: d.Season, round: d.Round}
		}
	}
	for _, k := range keeperHistory {
		s.kept[keptKey{k.PlayerID, k.RosterID, k.Season}] = true
	}
	return s
}

// Roster looks up a roster by id.
func (s *Snapshot) Roster(id string) (Roster, bool) {
	r, ok := s.rosters[id]
	return r, ok
}

// Player looks up a player by id.
func (s *Snapshot) Player(id string) (Player, bool) {
	p, ok := s.players[id]
	return p, ok
}

// OriginalDraftRound returns the round in which the roster currently holding
// the player originally drafted them, or 0 when the player went undrafted.
func (s *Snapshot) OriginalDraftRound(playerID, rosterID string) int {
	return s.originalRound[playerRoster{playerID, rosterID}].round
}

// YearsKept counts the consecutive prior seasons the player was kept by this
// exact roster, ending at the season immediately before targetSeason. A gap
// or a season kept by a different roster resets the count to 0.
func (s *Snapshot) YearsKept(playerID, rosterID string, targetSeason int) int {
	years := 0
	for season := targetSeason - 1; s.kept[keptKey{playerID, rosterID, season}]; season-- {
		years++
	}
	return years
}
