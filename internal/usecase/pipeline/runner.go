// Package pipeline runs batches through the optimize and translate phases.
// One goroutine per batch works the items strictly in order; a per-batch lease
// rejects a second run of the same batch while the first is still going.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/johan198205/lekia-translations-sub000/internal/domain"
	"github.com/johan198205/lekia-translations-sub000/internal/log"
	"github.com/johan198205/lekia-translations-sub000/internal/ports"
	"github.com/johan198205/lekia-translations-sub000/internal/usecase/gateway"
)

type Deps struct {
	Batches      ports.BatchRepository
	Items        ports.ItemRepository
	Translations ports.TranslationRepository
	Gateway      *gateway.Service
	Logger       log.Logger
}

// Params selects the work for one run. ItemIDs empty means the whole batch;
// unknown or out-of-batch IDs are silently skipped.
type Params struct {
	Optimize    bool     `json:"optimize"`
	TargetLangs []string `json:"target_langs"`
	ItemIDs     []int64  `json:"item_ids"`
}

// StartResult reports what a run was scheduled over.
type StartResult struct {
	RunID      string `json:"run_id"`
	BatchID    int64  `json:"batch_id"`
	ItemsCount int    `json:"items_count"`
}

type Runner struct {
	d      Deps
	mu     sync.Mutex
	active map[int64]context.CancelFunc
}

func NewRunner(d Deps) *Runner {
	if d.Logger == nil {
		d.Logger = log.Noop
	}
	return &Runner{d: d, active: map[int64]context.CancelFunc{}}
}

// Start schedules a run and returns once it is accepted. The run itself
// proceeds on a detached goroutine; callers observe it through persisted item
// states, not through this call. A batch with a run in flight returns
// domain.ErrBatchBusy.
func (r *Runner) Start(ctx context.Context, batchID int64, p Params) (StartResult, error) {
	if !p.Optimize && len(p.TargetLangs) == 0 {
		return StartResult{}, fmt.Errorf("%w: neither optimize nor target languages requested", domain.ErrNotValid)
	}
	b, err := r.d.Batches.Get(ctx, batchID)
	if err != nil {
		return StartResult{}, err
	}
	if b == nil {
		return StartResult{}, fmt.Errorf("batch %d: %w", batchID, domain.ErrNotFound)
	}
	if b.JobType == domain.JobTypeUIStrings && p.Optimize {
		return StartResult{}, fmt.Errorf("%w: ui_strings batches do not optimize", domain.ErrNotValid)
	}
	items, err := r.d.Batches.ListItems(ctx, batchID, p.ItemIDs)
	if err != nil {
		return StartResult{}, err
	}

	r.mu.Lock()
	if _, ok := r.active[batchID]; ok {
		r.mu.Unlock()
		return StartResult{}, fmt.Errorf("batch %d: %w", batchID, domain.ErrBatchBusy)
	}
	cctx, cancel := context.WithCancel(context.Background())
	r.active[batchID] = cancel
	r.mu.Unlock()

	// A run over an already closed batch is a regenerate: it re-opens the
	// selected items but never moves the batch's own status backward.
	if b.Status != domain.BatchCompleted {
		if err := r.d.Batches.UpdateStatus(ctx, batchID, domain.BatchRunning); err != nil {
			r.release(batchID)
			return StartResult{}, err
		}
	}
	runID := uuid.NewString()
	logger := r.d.Logger.WithValues(log.Kv{"run_id": runID, "batch_id": batchID})
	logger.Infof("run started: job_type=%s items=%d optimize=%t langs=%d",
		b.JobType, len(items), p.Optimize, len(p.TargetLangs))
	go r.run(cctx, logger, b, items, p)
	return StartResult{RunID: runID, BatchID: batchID, ItemsCount: len(items)}, nil
}

// Cancel stops the batch's run after the current item finishes. Reports
// whether a run was active.
func (r *Runner) Cancel(batchID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cancel, ok := r.active[batchID]; ok {
		cancel()
		delete(r.active, batchID)
		return true
	}
	return false
}

// Running reports whether the batch holds an active run lease.
func (r *Runner) Running(batchID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.active[batchID]
	return ok
}

func (r *Runner) release(batchID int64) {
	r.mu.Lock()
	if cancel, ok := r.active[batchID]; ok {
		cancel()
		delete(r.active, batchID)
	}
	r.mu.Unlock()
}

func (r *Runner) run(ctx context.Context, logger log.Logger, b *domain.Batch, items []*domain.Item, p Params) {
	defer r.release(b.ID)
	started := time.Now()
	for _, it := range items {
		select {
		case <-ctx.Done():
			logger.Warningf("run canceled after %d of %d items", doneCount(items, it), len(items))
			// The lease goes back and untouched items stay pending. The batch
			// stays running until a later run closes it.
			return
		default:
		}
		r.processItem(ctx, logger, b.JobType, it, p)
	}
	// Uses a fresh context: the run context may already be canceled and the
	// final status write must still land.
	if err := r.d.Batches.UpdateStatus(context.Background(), b.ID, domain.BatchCompleted); err != nil {
		logger.Errorf("close batch: %v", err)
	}
	logger.Infof("run finished: items=%d took=%s", len(items), time.Since(started).Round(time.Millisecond))
}

// processItem takes one item through its phases. Failures are recorded on the
// item and never propagate; the caller moves on to the next item regardless.
func (r *Runner) processItem(ctx context.Context, logger log.Logger, jobType domain.JobType, it *domain.Item, p Params) {
	if jobType == domain.JobTypeUIStrings {
		r.processUIString(ctx, logger, it, p)
		return
	}

	text := it.SourceText
	if p.Optimize {
		// The in-flight status lands before the gateway call so a crash leaves
		// the item visibly stuck in optimizing, not silently pending.
		if !r.setStatus(ctx, logger, it, domain.StatusOptimizing, "") {
			return
		}
		res, err := r.d.Gateway.Rewrite(ctx, ports.Document{
			Name:       it.Name,
			Text:       it.SourceText,
			ToneHint:   it.ToneHint,
			Attributes: it.Attributes(),
		})
		if err != nil {
			r.fail(ctx, logger, it, fmt.Sprintf("rewrite: %v", err))
			return
		}
		if !domain.CanTransition(it.Status, domain.StatusOptimized) {
			logger.Warningf("item %d: refusing %s -> %s", it.ID, it.Status, domain.StatusOptimized)
			return
		}
		if err := r.d.Items.SetOptimized(ctx, it.ID, res.Text, domain.StatusOptimized); err != nil {
			logger.Errorf("item %d: store optimized text: %v", it.ID, err)
			return
		}
		it.Status = domain.StatusOptimized
		logger.Debugf("item %d optimized: mode=%s len=%d", it.ID, res.Mode, len(res.Text))
		text = res.Text
	} else if it.OptimizedText != "" {
		// Translate-only runs work from the optimized rendition when a prior
		// run produced one.
		text = it.OptimizedText
	}

	if len(p.TargetLangs) == 0 {
		r.setStatus(ctx, logger, it, domain.StatusCompleted, "")
		return
	}

	if !r.setStatus(ctx, logger, it, domain.StatusTranslating, "") {
		return
	}
	failed := r.translateInto(ctx, logger, it.ID, text, p.TargetLangs)
	r.finish(ctx, logger, it, failed, len(p.TargetLangs))
}

// setStatus moves the item to its next status when the move is legal: either a
// forward step of the state machine, or a regenerate re-entering an in-flight
// state from any status past pending. Illegal moves are refused and logged,
// never written.
func (r *Runner) setStatus(ctx context.Context, logger log.Logger, it *domain.Item, to domain.Status, errMsg string) bool {
	if !domain.CanTransition(it.Status, to) && !(to.InFlight() && domain.CanReenter(it.Status)) {
		logger.Warningf("item %d: refusing %s -> %s", it.ID, it.Status, to)
		return false
	}
	if err := r.d.Items.UpdateStatus(ctx, it.ID, to, errMsg); err != nil {
		logger.Errorf("item %d: mark %s: %v", it.ID, to, err)
		return false
	}
	it.Status = to
	return true
}

// processUIString translates one UI string into every requested language under
// the single processing phase.
func (r *Runner) processUIString(ctx context.Context, logger log.Logger, it *domain.Item, p Params) {
	if !r.setStatus(ctx, logger, it, domain.StatusProcessing, "") {
		return
	}
	failed := r.translateInto(ctx, logger, it.ID, it.SourceText, p.TargetLangs)
	r.finish(ctx, logger, it, failed, len(p.TargetLangs))
}

// translateInto stores a translation per target language and returns the
// languages that failed. One language failing never blocks the next.
func (r *Runner) translateInto(ctx context.Context, logger log.Logger, itemID int64, text string, langs []string) []string {
	var failed []string
	for _, lang := range langs {
		res, err := r.d.Gateway.Translate(ctx, text, lang)
		if err != nil {
			logger.Warningf("item %d: translate %s: %v", itemID, lang, err)
			failed = append(failed, lang)
			continue
		}
		t := &domain.Translation{ItemID: itemID, LangCode: lang, Text: res.Text}
		if err := r.d.Translations.Upsert(ctx, t); err != nil {
			logger.Errorf("item %d: store %s translation: %v", itemID, lang, err)
			failed = append(failed, lang)
			continue
		}
		logger.Debugf("item %d translated: lang=%s mode=%s len=%d", itemID, lang, res.Mode, len(res.Text))
	}
	return failed
}

// finish closes the item after the translate phase. Error only when every
// language failed; a partial failure completes the item and records which
// languages are missing.
func (r *Runner) finish(ctx context.Context, logger log.Logger, it *domain.Item, failed []string, requested int) {
	switch {
	case requested > 0 && len(failed) == requested:
		r.fail(ctx, logger, it, "all target languages failed: "+strings.Join(failed, ", "))
	case len(failed) > 0:
		r.setStatus(ctx, logger, it, domain.StatusCompleted, "missing languages: "+strings.Join(failed, ", "))
	default:
		r.setStatus(ctx, logger, it, domain.StatusCompleted, "")
	}
}

func (r *Runner) fail(ctx context.Context, logger log.Logger, it *domain.Item, msg string) {
	logger.Warningf("item %d failed: %s", it.ID, msg)
	r.setStatus(ctx, logger, it, domain.StatusError, msg)
}

func doneCount(items []*domain.Item, current *domain.Item) int {
	for i, it := range items {
		if it == current {
			return i
		}
	}
	return len(items)
}
