package ports

// PromptData carries the values substituted into a prompt template.
type PromptData struct {
	Name       string
	Text       string
	ToneHint   string
	Attributes map[string]string
	TargetLang string
}

// PromptRenderer substitutes tokens into the effective template for a prompt
// type/role pair. Substitution failures are not surfaced: the renderer
// degrades to returning the template as written, indistinguishable from a
// template with no matching tokens.
type PromptRenderer interface {
	Render(typ, role string, data PromptData) string
}
