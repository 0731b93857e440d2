package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Status is the processing state of an item. Product items move
// pending → optimizing → optimized → translating → completed; UI-string
// items move pending → processing → completed. Error is reachable from any
// in-flight state and is terminal for that attempt.
type Status string

const (
	StatusPending     Status = "pending"
	StatusOptimizing  Status = "optimizing"
	StatusOptimized   Status = "optimized"
	StatusTranslating Status = "translating"
	StatusProcessing  Status = "processing"
	StatusCompleted   Status = "completed"
	StatusError       Status = "error"
)

// forward holds the legal forward transitions. A translate-only run enters
// translating straight from pending; an optimize-only run closes
// optimized → completed.
var forward = map[Status][]Status{
	StatusPending:     {StatusOptimizing, StatusTranslating, StatusProcessing},
	StatusOptimizing:  {StatusOptimized, StatusError},
	StatusOptimized:   {StatusTranslating, StatusCompleted},
	StatusTranslating: {StatusCompleted, StatusError},
	StatusProcessing:  {StatusCompleted, StatusError},
}

// CanTransition reports whether moving from one status to another is a legal
// forward step.
func CanTransition(from, to Status) bool {
	for _, s := range forward[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanReenter reports whether a regenerate request may pull the item back into
// the pipeline. Anything that has left pending can be re-entered; prior
// translations are preserved unless explicitly overwritten.
func CanReenter(s Status) bool {
	return s != StatusPending && s != ""
}

// Terminal reports whether the status ends the current attempt.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// InFlight reports whether the item currently holds a gateway call or is
// between phases of one run.
func (s Status) InFlight() bool {
	return s == StatusOptimizing || s == StatusTranslating || s == StatusProcessing
}

// Item is one row of an upload. For product uploads Name/SourceText carry the
// product name and description; for UI-string uploads Name carries the string
// key and SourceText the source-locale value.
type Item struct {
	ID            int64     `json:"id"`
	UploadID      int64     `json:"upload_id"`
	Position      int       `json:"position"`
	Name          string    `json:"name"`
	SourceText    string    `json:"source_text"`
	AttributesRaw string    `json:"attributes_json"`
	ToneHint      string    `json:"tone_hint"`
	OptimizedText string    `json:"optimized_text"`
	Status        Status    `json:"status"`
	ErrorMessage  string    `json:"error_message"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Attributes decodes AttributesRaw. The canonical form is a JSON object of
// strings; "key=value;key=value" from hand-edited spreadsheets is accepted as
// a fallback. Undecodable input yields nil rather than an error, attributes
// are advisory.
func (i *Item) Attributes() map[string]string {
	raw := strings.TrimSpace(i.AttributesRaw)
	if raw == "" {
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err == nil {
		return m
	}
	m = map[string]string{}
	for _, pair := range strings.Split(raw, ";") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" {
			m[k] = v
		}
	}
	if len(m) == 0 {
		return nil
	}
	return m
}
