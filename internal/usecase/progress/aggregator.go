// Package progress turns persisted item states into batch-level snapshots.
// Snapshots are computed from the database on every call, never cached, so a
// process restart mid-run costs nothing.
package progress

import (
	"context"
	"math"

	"github.com/johan198205/lekia-translations-sub000/internal/domain"
	"github.com/johan198205/lekia-translations-sub000/internal/ports"
)

// Counts buckets the batch's items by status. UI-string items in the
// processing state count under Optimizing; the two states mean the same
// thing, an item holding a gateway call in its first phase.
type Counts struct {
	Pending     int `json:"pending"`
	Optimizing  int `json:"optimizing"`
	Optimized   int `json:"optimized"`
	Translating int `json:"translating"`
	Completed   int `json:"completed"`
	Error       int `json:"error"`
}

type Snapshot struct {
	Done    int    `json:"done"`
	Total   int    `json:"total"`
	Percent int    `json:"percent"`
	Counts  Counts `json:"counts"`
}

// TerminalFor reports whether nothing in the snapshot can still change.
// Product batches also wait out the translating phase; UI-string batches have
// no second phase.
func (s Snapshot) TerminalFor(jobType domain.JobType) bool {
	if s.Counts.Pending > 0 || s.Counts.Optimizing > 0 {
		return false
	}
	if jobType == domain.JobTypeProductTexts && s.Counts.Translating > 0 {
		return false
	}
	return true
}

type Aggregator struct {
	batches      ports.BatchRepository
	translations ports.TranslationRepository
}

func New(batches ports.BatchRepository, translations ports.TranslationRepository) *Aggregator {
	return &Aggregator{batches: batches, translations: translations}
}

// Summarize builds the snapshot for a batch, optionally narrowed to a subset
// of its items. Percent follows the dominant phase: while any item optimizes,
// optimized and completed items count as done; once translation is the only
// activity, items with at least one stored translation count; otherwise
// anything past pending counts. An empty batch is 0 percent.
func (a *Aggregator) Summarize(ctx context.Context, batchID int64, itemIDs []int64) (Snapshot, error) {
	items, err := a.batches.ListItems(ctx, batchID, itemIDs)
	if err != nil {
		return Snapshot{}, err
	}

	var c Counts
	for _, it := range items {
		switch it.Status {
		case domain.StatusPending:
			c.Pending++
		case domain.StatusOptimizing, domain.StatusProcessing:
			c.Optimizing++
		case domain.StatusOptimized:
			c.Optimized++
		case domain.StatusTranslating:
			c.Translating++
		case domain.StatusCompleted:
			c.Completed++
		case domain.StatusError:
			c.Error++
		}
	}

	snap := Snapshot{
		Done:   c.Completed + c.Error,
		Total:  len(items),
		Counts: c,
	}
	if snap.Total == 0 {
		return snap, nil
	}

	switch {
	case c.Optimizing > 0 || c.Optimized > 0:
		snap.Percent = percent(c.Optimized+c.Completed, snap.Total)
	case c.Translating > 0:
		ids := make([]int64, len(items))
		for i, it := range items {
			ids[i] = it.ID
		}
		translated, err := a.translations.TranslatedItemIDs(ctx, ids)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Percent = percent(len(translated), snap.Total)
	default:
		snap.Percent = percent(snap.Total-c.Pending, snap.Total)
	}
	return snap, nil
}

func percent(n, total int) int {
	return int(math.Round(100 * float64(n) / float64(total)))
}
