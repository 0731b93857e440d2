package ports

import (
	"github.com/johan198205/lekia-translations-sub000/internal/domain"
)

// Parser decodes one spreadsheet format into upload items.
type Parser interface {
	Format() string
	Parse(jobType domain.JobType, data []byte) ([]*domain.Item, error)
}
