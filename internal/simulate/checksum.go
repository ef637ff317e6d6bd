package simulate

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/draftroom/keeper-data/internal/keeper"
)

// Checksum returns the sha256 of the request in canonical form: keepers are
// sorted by (rosterID, playerID) before hashing, so the same batch in any
// order maps to the same cache key, matching the engine's own canonical
// ordering.
func Checksum(req Request) (string, error) {
	canon := Request{
		LeagueID: req.LeagueID,
		Season:   req.Season,
		Keepers:  make([]keeper.KeeperInput, len(req.Keepers)),
	}
	copy(canon.Keepers, req.Keepers)
	sort.Slice(canon.Keepers, func(i, j int) bool {
		if canon.Keepers[i].RosterID != canon.Keepers[j].RosterID {
			return canon.Keepers[i].RosterID < canon.Keepers[j].RosterID
		}
		return canon.Keepers[i].PlayerID < canon.Keepers[j].PlayerID
	})

	data, err := json.Marshal(canon)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
