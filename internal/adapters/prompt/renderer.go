package prompt

import (
	"bytes"
	"text/template"

	"github.com/johan198205/lekia-translations-sub000/internal/ports"
)

// Renderer substitutes prompt tokens via text/template. Overrides (keyed
// "<type>.<role>") take precedence over the builtin templates. Any template
// failure degrades to returning the template body as written, so a broken
// override behaves exactly like one with no matching tokens.
type Renderer struct {
	overrides map[string]string
}

func New(overrides map[string]string) *Renderer { return &Renderer{overrides: overrides} }

func (r *Renderer) Render(typ, role string, data ports.PromptData) string {
	body := builtinTemplate(typ, role)
	if r.overrides != nil {
		if o, ok := r.overrides[typ+"."+role]; ok && o != "" {
			body = o
		}
	}
	tpl, err := template.New("prompt").Parse(body)
	if err != nil {
		return body
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return body
	}
	return buf.String()
}

func builtinTemplate(typ, role string) string {
	if typ == "rewrite" && role == "system" {
		return "You are a professional e-commerce copywriter. Rewrite the product description to be clear, engaging and SEO-friendly.{{if .ToneHint}} Tone of voice: {{.ToneHint}}.{{end}} Keep all factual claims from the source. Return only JSON: {\"text\":\"...\"}."
	}
	if typ == "rewrite" && role == "user" {
		return "product: {{.Name}}\n{{if .Attributes}}attributes: {{range $k, $v := .Attributes}}{{$k}}={{$v}} {{end}}\n{{end}}description: {{.Text}}"
	}
	if typ == "translate" && role == "system" {
		return "You are a professional translator. Translate the document to the language with ISO 639-1 code \"{{.TargetLang}}\". Preserve markdown structure exactly: keep every heading and list marker where the source has one and add none of your own. Return only JSON: {\"text\":\"...\"}."
	}
	if typ == "translate" && role == "user" {
		return "document:\n{{.Text}}"
	}
	return ""
}
