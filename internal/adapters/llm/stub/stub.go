// Package stub is the deterministic offline substitute for the live
// text-generation backend. It never fails, which keeps the pipeline alive
// through a full backend outage at the cost of result quality.
package stub

import (
	"sort"
	"strings"

	"github.com/johan198205/lekia-translations-sub000/internal/ports"
)

// Rewrite composes an optimized document from the row fields: heading from
// the product name, trimmed source text, attributes as a bullet list. Same
// input, same output.
func Rewrite(d ports.Document) string {
	var b strings.Builder
	name := strings.TrimSpace(d.Name)
	if name != "" {
		b.WriteString("## ")
		b.WriteString(name)
		b.WriteString("\n\n")
	}
	b.WriteString(strings.TrimSpace(d.Text))
	if len(d.Attributes) > 0 {
		keys := make([]string, 0, len(d.Attributes))
		for k := range d.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\n")
		for _, k := range keys {
			b.WriteString("\n- ")
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(d.Attributes[k])
		}
	}
	return b.String()
}

// Translate is an identity pseudo-translation: the text comes back unchanged,
// so every structural marker stays exactly where the source put it.
func Translate(text, langCode string) string {
	return text
}
