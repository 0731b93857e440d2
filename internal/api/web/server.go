// Package web is the HTTP surface: upload ingestion, batch management, the
// processing trigger, the SSE progress stream, export and diagnostics.
package web

import (
	"net/http"
	"time"

	"github.com/johan198205/lekia-translations-sub000/internal/log"
	"github.com/johan198205/lekia-translations-sub000/internal/ports"
	"github.com/johan198205/lekia-translations-sub000/internal/usecase/exporter"
	"github.com/johan198205/lekia-translations-sub000/internal/usecase/gateway"
	"github.com/johan198205/lekia-translations-sub000/internal/usecase/importer"
	"github.com/johan198205/lekia-translations-sub000/internal/usecase/pipeline"
	"github.com/johan198205/lekia-translations-sub000/internal/usecase/progress"
)

type Deps struct {
	Uploads      ports.UploadRepository
	Items        ports.ItemRepository
	Batches      ports.BatchRepository
	Translations ports.TranslationRepository
	Glossary     ports.GlossaryRepository
	Settings     ports.SettingsRepository

	Importer *importer.Service
	Exporter *exporter.Service
	Runner   *pipeline.Runner
	Progress *progress.Aggregator
	Gateway  *gateway.Service

	Logger log.Logger

	// PollInterval paces progress polls on the SSE stream; HeartbeatInterval
	// paces keepalive frames.
	PollInterval      time.Duration
	HeartbeatInterval time.Duration
}

type Server struct {
	d   Deps
	mux *http.ServeMux
}

func NewServer(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = log.Noop
	}
	if d.PollInterval <= 0 {
		d.PollInterval = 2 * time.Second
	}
	if d.HeartbeatInterval <= 0 {
		d.HeartbeatInterval = 30 * time.Second
	}
	s := &Server{d: d, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /uploads", s.handleCreateUpload)
	s.mux.HandleFunc("GET /uploads", s.handleListUploads)
	s.mux.HandleFunc("GET /uploads/{id}", s.handleGetUpload)
	s.mux.HandleFunc("DELETE /uploads/{id}", s.handleDeleteUpload)
	s.mux.HandleFunc("GET /uploads/{id}/items", s.handleListItems)
	s.mux.HandleFunc("POST /uploads/{id}/batches", s.handleCreateBatch)

	s.mux.HandleFunc("GET /batches/{id}", s.handleGetBatch)
	s.mux.HandleFunc("POST /batches/{id}/process", s.handleProcessBatch)
	s.mux.HandleFunc("POST /batches/{id}/regenerate", s.handleRegenerateBatch)
	s.mux.HandleFunc("POST /batches/{id}/cancel", s.handleCancelBatch)
	s.mux.HandleFunc("GET /batches/{id}/events", s.handleBatchEvents)
	s.mux.HandleFunc("GET /batches/{id}/export", s.handleExportBatch)

	s.mux.HandleFunc("PATCH /items/{id}", s.handlePatchItem)

	s.mux.HandleFunc("GET /glossary", s.handleListGlossary)
	s.mux.HandleFunc("POST /glossary", s.handleUpsertGlossary)
	s.mux.HandleFunc("DELETE /glossary/{id}", s.handleDeleteGlossary)

	s.mux.HandleFunc("GET /settings/{key}", s.handleGetSetting)
	s.mux.HandleFunc("PUT /settings/{key}", s.handlePutSetting)

	s.mux.HandleFunc("POST /diagnostics/rewrite", s.handleDiagnosticsRewrite)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth pings the text backend so a stub fallback in batch runs does
// not hide a dead live endpoint from operators.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	backend := "ok"
	if err := s.d.Gateway.Ping(r.Context()); err != nil {
		s.d.Logger.Warningf("health: backend ping: %v", err)
		backend = "unreachable"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"mode":    string(s.d.Gateway.Mode()),
		"backend": backend,
	})
}
