package web

import (
	"fmt"
	"net/http"

	"github.com/johan198205/lekia-translations-sub000/internal/domain"
)

// handlePatchItem applies a single-field edit: either the optimized text or
// one translation. Edits do not move the item's status.
func (s *Server) handlePatchItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, domain.ErrNotValid)
		return
	}
	var body struct {
		OptimizedText *string `json:"optimizedText"`
		Translation   *struct {
			LangCode string `json:"langCode"`
			Text     string `json:"text"`
		} `json:"translation"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, fmt.Errorf("%w: %v", domain.ErrNotValid, err))
		return
	}
	if body.OptimizedText == nil && body.Translation == nil {
		writeError(w, fmt.Errorf("%w: nothing to edit", domain.ErrNotValid))
		return
	}

	it, err := s.d.Items.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if it == nil {
		writeError(w, fmt.Errorf("item %d: %w", id, domain.ErrNotFound))
		return
	}

	if body.OptimizedText != nil {
		if err := s.d.Items.SetOptimized(r.Context(), id, *body.OptimizedText, it.Status); err != nil {
			writeError(w, err)
			return
		}
	}
	if body.Translation != nil {
		if err := validateLangs([]string{body.Translation.LangCode}); err != nil {
			writeError(w, err)
			return
		}
		t := &domain.Translation{ItemID: id, LangCode: body.Translation.LangCode, Text: body.Translation.Text}
		if err := s.d.Translations.Upsert(r.Context(), t); err != nil {
			writeError(w, err)
			return
		}
	}

	it, err = s.d.Items.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}
