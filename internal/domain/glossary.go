package domain

import "time"

// GlossaryTerm pins the translation of a specific term for one target
// language. Terms are substituted into translation output before the format
// guard runs.
type GlossaryTerm struct {
	ID         int64     `json:"id"`
	LangCode   string    `json:"lang_code"`
	SourceTerm string    `json:"source_term"`
	TargetTerm string    `json:"target_term"`
	CreatedAt  time.Time `json:"created_at"`
}
