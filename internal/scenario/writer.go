package scenario

import (
	"context"
	"fmt"

	"github.com/draftroom/keeper-data/internal/simulate"
)

// Writer persists finalized keeper costs into a scenario document's keeper
// history and saves the document in one step, satisfying
// simulate.KeeperWriter. The whole batch lands in a single file write, which
// is the scenario backend's version of the caller-owned transaction.
type Writer struct {
	doc  *Document
	path string
}

// NewWriter wraps a loaded document for finalization output.
func NewWriter(doc *Document, path string) *Writer {
	return &Writer{doc: doc, path: path}
}

// WriteBatch replaces the season's keeper history entries with the resolved
// costs and writes the document to disk.
func (w *Writer) WriteBatch(ctx context.Context, leagueID string, season int, costs []simulate.KeeperCost) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if leagueID != w.doc.League.ID {
		return fmt.Errorf("writer is bound to league %s, got %s", w.doc.League.ID, leagueID)
	}

	history := make([]KeeperRecordDoc, 0, len(w.doc.KeeperHistory)+len(costs))
	for _, rec := range w.doc.KeeperHistory {
		if rec.Season != season {
			history = append(history, rec)
		}
	}
	for _, c := range costs {
		history = append(history, KeeperRecordDoc{
			Season:    c.Season,
			PlayerID:  c.PlayerID,
			RosterID:  c.RosterID,
			Type:      string(c.Type),
			YearsKept: c.YearsKept,
			BaseCost:  c.BaseCost,
			FinalCost: c.FinalCost,
		})
	}
	w.doc.KeeperHistory = history
	return Save(w.path, w.doc)
}
