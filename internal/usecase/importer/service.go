// Package importer turns an uploaded spreadsheet into a stored upload with
// its items.
package importer

import (
	"context"
	"fmt"

	"github.com/johan198205/lekia-translations-sub000/internal/domain"
	"github.com/johan198205/lekia-translations-sub000/internal/log"
	"github.com/johan198205/lekia-translations-sub000/internal/ports"
)

type Service struct {
	uploads ports.UploadRepository
	items   ports.ItemRepository
	parser  ports.Parser
	logger  log.Logger
}

func New(uploads ports.UploadRepository, items ports.ItemRepository, parser ports.Parser, logger log.Logger) *Service {
	if logger == nil {
		logger = log.Noop
	}
	return &Service{uploads: uploads, items: items, parser: parser, logger: logger}
}

type ImportArgs struct {
	Filename string
	JobType  domain.JobType
	Content  []byte
}

// Import parses the file and persists the upload together with its rows.
// A file that parses to zero rows is rejected rather than stored empty.
func (s *Service) Import(ctx context.Context, a ImportArgs) (*domain.Upload, error) {
	if !a.JobType.Valid() {
		return nil, fmt.Errorf("%w: unknown job type %q", domain.ErrNotValid, a.JobType)
	}
	items, err := s.parser.Parse(a.JobType, a.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrNotValid, a.Filename, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: %s contains no rows", domain.ErrNotValid, a.Filename)
	}

	u := &domain.Upload{Filename: a.Filename, JobType: a.JobType, TotalCount: len(items)}
	if err := s.uploads.Create(ctx, u); err != nil {
		return nil, err
	}
	for _, it := range items {
		it.UploadID = u.ID
	}
	if err := s.items.InsertBatch(ctx, items); err != nil {
		return nil, err
	}
	s.logger.Infof("upload imported: id=%d file=%s job_type=%s items=%d", u.ID, a.Filename, a.JobType, len(items))
	return u, nil
}
