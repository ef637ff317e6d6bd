package league

import "sort"

// RecalculateYearsKept recomputes the YearsKept field of every keeper record
// from the raw (season, player, roster) facts and returns the corrected
// records, most recent season first within each player. Sync jobs run this
// after importing rosters so the cascade engine's years-kept lookups see
// consistent chains; it is also exposed through the CLI for repairing
// hand-edited scenario files.
//
// A record's YearsKept is the length of the unbroken run of seasons the same
// roster kept the same player, ending at that record's season. Records for
// seasons at or after targetSeason are left untouched (the target season has
// not been finalized yet).
func RecalculateYearsKept(records []KeeperRecord, targetSeason int) []KeeperRecord {
	kept := make(map[keptKey]bool, len(records))
	for _, r := range records {
		kept[keptKey{r.PlayerID, r.RosterID, r.Season}] = true
	}

	out := make([]KeeperRecord, len(records))
	copy(out, records)
	for i := range out {
		if out[i].Season >= targetSeason {
			continue
		}
		years := 0
		for season := out[i].Season; kept[keptKey{out[i].PlayerID, out[i].RosterID, season}]; season-- {
			years++
		}
		out[i].YearsKept = years
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PlayerID != out[j].PlayerID {
			return out[i].PlayerID < out[j].PlayerID
		}
		return out[i].Season > out[j].Season
	})
	return out
}
