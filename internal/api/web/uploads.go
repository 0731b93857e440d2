package web

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/johan198205/lekia-translations-sub000/internal/domain"
	"github.com/johan198205/lekia-translations-sub000/internal/usecase/importer"
)

const maxUploadBytes = 32 << 20

// handleCreateUpload accepts either a multipart form (fields "file" and
// "job_type") or a JSON body with the file content inline.
func (s *Server) handleCreateUpload(w http.ResponseWriter, r *http.Request) {
	args, err := s.readUploadArgs(r)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", domain.ErrNotValid, err))
		return
	}
	u, err := s.d.Importer.Import(r.Context(), *args)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) readUploadArgs(r *http.Request) (*importer.ImportArgs, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, err
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			return nil, err
		}
		defer f.Close()
		content, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
		if err != nil {
			return nil, err
		}
		return &importer.ImportArgs{
			Filename: hdr.Filename,
			JobType:  domain.JobType(r.FormValue("job_type")),
			Content:  content,
		}, nil
	}

	var body struct {
		Filename string         `json:"filename"`
		JobType  domain.JobType `json:"jobType"`
		Content  string         `json:"content"`
	}
	if err := decodeBody(r, &body); err != nil {
		return nil, err
	}
	return &importer.ImportArgs{
		Filename: body.Filename,
		JobType:  body.JobType,
		Content:  []byte(body.Content),
	}, nil
}

func (s *Server) handleListUploads(w http.ResponseWriter, r *http.Request) {
	list, err := s.d.Uploads.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, domain.ErrNotValid)
		return
	}
	u, err := s.d.Uploads.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if u == nil {
		writeError(w, fmt.Errorf("upload %d: %w", id, domain.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleDeleteUpload(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, domain.ErrNotValid)
		return
	}
	if err := s.d.Uploads.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, domain.ErrNotValid)
		return
	}
	items, err := s.d.Items.ListByUpload(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
