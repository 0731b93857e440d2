package ports

import "github.com/johan198205/lekia-translations-sub000/internal/domain"

// ExportRow is one processed item flattened for re-encoding.
type ExportRow struct {
	Name          string
	SourceText    string
	OptimizedText string
	Status        string
	ErrorMessage  string
	Translations  map[string]string
}

type Exporter interface {
	Format() string
	Export(jobType domain.JobType, langCodes []string, rows []ExportRow) ([]byte, error)
}
