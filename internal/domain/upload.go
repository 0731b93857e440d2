package domain

import "time"

// JobType selects which pipeline an upload's rows go through.
type JobType string

const (
	JobTypeProductTexts JobType = "product_texts"
	JobTypeUIStrings    JobType = "ui_strings"
)

func (t JobType) Valid() bool {
	return t == JobTypeProductTexts || t == JobTypeUIStrings
}

// Upload is the ingestion unit: one source file, all items parsed from it,
// and zero or more batches drawn from those items.
type Upload struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	JobType    JobType   `json:"job_type"`
	TotalCount int       `json:"total_count"`
	CreatedAt  time.Time `json:"created_at"`
}
