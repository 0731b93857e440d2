package web

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/text/language"

	"github.com/johan198205/lekia-translations-sub000/internal/domain"
	"github.com/johan198205/lekia-translations-sub000/internal/usecase/pipeline"
)

func (s *Server) handleCreateBatch(w http.ResponseWriter, r *http.Request) {
	uploadID, err := pathID(r)
	if err != nil {
		writeError(w, domain.ErrNotValid)
		return
	}
	u, err := s.d.Uploads.Get(r.Context(), uploadID)
	if err != nil {
		writeError(w, err)
		return
	}
	if u == nil {
		writeError(w, fmt.Errorf("upload %d: %w", uploadID, domain.ErrNotFound))
		return
	}

	var body struct {
		Name    string  `json:"name"`
		ItemIDs []int64 `json:"itemIds"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, fmt.Errorf("%w: %v", domain.ErrNotValid, err))
		return
	}
	itemIDs := body.ItemIDs
	if len(itemIDs) == 0 {
		items, err := s.d.Items.ListByUpload(r.Context(), uploadID)
		if err != nil {
			writeError(w, err)
			return
		}
		for _, it := range items {
			itemIDs = append(itemIDs, it.ID)
		}
	}
	if len(itemIDs) == 0 {
		writeError(w, fmt.Errorf("%w: upload has no items", domain.ErrNotValid))
		return
	}

	b := &domain.Batch{
		UploadID: uploadID,
		Name:     body.Name,
		JobType:  u.JobType,
		Status:   domain.BatchPending,
	}
	if err := s.d.Batches.Create(r.Context(), b, itemIDs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, domain.ErrNotValid)
		return
	}
	b, err := s.d.Batches.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if b == nil {
		writeError(w, fmt.Errorf("batch %d: %w", id, domain.ErrNotFound))
		return
	}
	snap, err := s.d.Progress.Summarize(r.Context(), id, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"batch": b, "progress": snap})
}

type processRequest struct {
	Optimize    bool     `json:"optimize"`
	TargetLangs []string `json:"targetLangs"`
	ItemIDs     []int64  `json:"itemIds"`
	// SelectedIndices are zero-based positions in the batch's creation order.
	// They are resolved to item IDs here and never travel further.
	SelectedIndices []int `json:"selectedIndices"`
}

func (s *Server) handleProcessBatch(w http.ResponseWriter, r *http.Request) {
	batchID, err := pathID(r)
	if err != nil {
		writeError(w, domain.ErrNotValid)
		return
	}
	var body processRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, fmt.Errorf("%w: %v", domain.ErrNotValid, err))
		return
	}
	s.startRun(w, r, batchID, body)
}

// handleRegenerateBatch re-enters already processed items. It is the same run
// as process; product batches default to re-running the optimize phase.
func (s *Server) handleRegenerateBatch(w http.ResponseWriter, r *http.Request) {
	batchID, err := pathID(r)
	if err != nil {
		writeError(w, domain.ErrNotValid)
		return
	}
	var body processRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, fmt.Errorf("%w: %v", domain.ErrNotValid, err))
		return
	}
	if !body.Optimize && len(body.TargetLangs) == 0 {
		b, err := s.d.Batches.Get(r.Context(), batchID)
		if err != nil {
			writeError(w, err)
			return
		}
		if b == nil {
			writeError(w, fmt.Errorf("batch %d: %w", batchID, domain.ErrNotFound))
			return
		}
		body.Optimize = b.JobType == domain.JobTypeProductTexts
	}
	s.startRun(w, r, batchID, body)
}

// handleCancelBatch stops the batch's active run after the current item
// finishes. Canceling an idle batch is not an error; the response just reports
// that nothing was running.
func (s *Server) handleCancelBatch(w http.ResponseWriter, r *http.Request) {
	batchID, err := pathID(r)
	if err != nil {
		writeError(w, domain.ErrNotValid)
		return
	}
	b, err := s.d.Batches.Get(r.Context(), batchID)
	if err != nil {
		writeError(w, err)
		return
	}
	if b == nil {
		writeError(w, fmt.Errorf("batch %d: %w", batchID, domain.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"canceled": s.d.Runner.Cancel(batchID)})
}

func (s *Server) startRun(w http.ResponseWriter, r *http.Request, batchID int64, body processRequest) {
	if err := validateLangs(body.TargetLangs); err != nil {
		writeError(w, err)
		return
	}
	itemIDs, err := s.resolveSelection(r.Context(), batchID, body.ItemIDs, body.SelectedIndices)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.d.Runner.Start(r.Context(), batchID, pipeline.Params{
		Optimize:    body.Optimize,
		TargetLangs: body.TargetLangs,
		ItemIDs:     itemIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"batchId":    res.BatchID,
		"itemsCount": res.ItemsCount,
		"runId":      res.RunID,
	})
}

// resolveSelection merges explicit item IDs with position indices, resolved
// against the batch's creation order. Out-of-range indices are skipped, the
// same as unknown IDs. An empty selection means the whole batch (nil).
func (s *Server) resolveSelection(ctx context.Context, batchID int64, itemIDs []int64, indices []int) ([]int64, error) {
	if len(indices) == 0 {
		return itemIDs, nil
	}
	items, err := s.d.Batches.ListItems(ctx, batchID, nil)
	if err != nil {
		return nil, err
	}
	seen := map[int64]bool{}
	for _, id := range itemIDs {
		seen[id] = true
	}
	out := append([]int64(nil), itemIDs...)
	for _, idx := range indices {
		if idx < 0 || idx >= len(items) {
			continue
		}
		id := items[idx].ID
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		// An empty resolved selection must not widen into the whole batch.
		return nil, fmt.Errorf("%w: selection resolves to no items", domain.ErrNotValid)
	}
	return out, nil
}

func validateLangs(codes []string) error {
	for _, c := range codes {
		if _, err := language.Parse(c); err != nil {
			return fmt.Errorf("%w: target language %q: %v", domain.ErrNotValid, c, err)
		}
	}
	return nil
}

func (s *Server) handleExportBatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, domain.ErrNotValid)
		return
	}
	ex, err := s.d.Exporter.ExportBatch(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ex.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(ex.Content)
}
