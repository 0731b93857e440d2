package web

import (
	"fmt"
	"net/http"

	"github.com/johan198205/lekia-translations-sub000/internal/domain"
	"github.com/johan198205/lekia-translations-sub000/internal/ports"
)

// handleDiagnosticsRewrite runs one ad-hoc rewrite and reports which mode
// actually produced the result. Stub fallback is silent in a batch run, so
// this is the only way to check live-backend health without processing data.
func (s *Server) handleDiagnosticsRewrite(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name       string            `json:"name"`
		Text       string            `json:"text"`
		ToneHint   string            `json:"toneHint"`
		Attributes map[string]string `json:"attributes"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, fmt.Errorf("%w: %v", domain.ErrNotValid, err))
		return
	}
	if body.Text == "" {
		writeError(w, fmt.Errorf("%w: text is required", domain.ErrNotValid))
		return
	}
	res, err := s.d.Gateway.Rewrite(r.Context(), ports.Document{
		Name:       body.Name,
		Text:       body.Text,
		ToneHint:   body.ToneHint,
		Attributes: body.Attributes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"mode":    string(res.Mode),
		"preview": truncate(res.Text, 200),
	})
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
