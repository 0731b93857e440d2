package gateway

import (
	"sort"
	"strings"
)

// ApplyTerms pins glossary target terms into translated text. Longer source
// terms replace first so a term that contains another term wins over it.
func ApplyTerms(text string, terms map[string]string) string {
	if len(terms) == 0 {
		return text
	}
	keys := make([]string, 0, len(terms))
	for k := range terms {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		text = strings.ReplaceAll(text, k, terms[k])
	}
	return text
}
