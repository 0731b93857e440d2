package ports

import "context"

// Document is the input to a rewrite: one product row's source fields.
type Document struct {
	Name       string
	Text       string
	ToneHint   string
	Attributes map[string]string
}

type GenerateParams struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
}

// TextBackend is a single live text-generation endpoint. Implementations own
// their retry/timeout policy; an error means all attempts were exhausted.
type TextBackend interface {
	Generate(ctx context.Context, p GenerateParams) (string, error)
	Ping(ctx context.Context) error
}
