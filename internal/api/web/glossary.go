package web

import (
	"fmt"
	"net/http"

	"github.com/johan198205/lekia-translations-sub000/internal/domain"
)

func (s *Server) handleListGlossary(w http.ResponseWriter, r *http.Request) {
	terms, err := s.d.Glossary.List(r.Context(), r.URL.Query().Get("lang"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, terms)
}

func (s *Server) handleUpsertGlossary(w http.ResponseWriter, r *http.Request) {
	var body struct {
		LangCode   string `json:"langCode"`
		SourceTerm string `json:"sourceTerm"`
		TargetTerm string `json:"targetTerm"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, fmt.Errorf("%w: %v", domain.ErrNotValid, err))
		return
	}
	if body.SourceTerm == "" || body.LangCode == "" {
		writeError(w, fmt.Errorf("%w: langCode and sourceTerm are required", domain.ErrNotValid))
		return
	}
	if err := validateLangs([]string{body.LangCode}); err != nil {
		writeError(w, err)
		return
	}
	t := &domain.GlossaryTerm{
		LangCode:   body.LangCode,
		SourceTerm: body.SourceTerm,
		TargetTerm: body.TargetTerm,
	}
	if err := s.d.Glossary.Upsert(r.Context(), t); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleDeleteGlossary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, domain.ErrNotValid)
		return
	}
	if err := s.d.Glossary.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	val, err := s.d.Settings.Get(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": val})
}

func (s *Server) handlePutSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	var body struct {
		Value string `json:"value"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, fmt.Errorf("%w: %v", domain.ErrNotValid, err))
		return
	}
	if err := s.d.Settings.Set(r.Context(), key, body.Value); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": body.Value})
}
