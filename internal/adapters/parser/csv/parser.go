// Package csv decodes uploaded spreadsheets. Product files carry
// name/text columns with optional attributes and tone; UI-string files carry
// key/value columns. The header contract is fixed; column-alias resolution is
// out of scope.
package csv

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/johan198205/lekia-translations-sub000/internal/domain"
)

type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Format() string { return "csv" }

func (p *Parser) Parse(jobType domain.JobType, data []byte) ([]*domain.Item, error) {
	data = stripBOM(data)
	r := csv.NewReader(bufio.NewReader(bytes.NewReader(data)))
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return nil, err
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}

	nameCol, textCol := -1, -1
	switch jobType {
	case domain.JobTypeProductTexts:
		nameCol = find(idx, "name", "product", "title")
		textCol = find(idx, "text", "description", "body")
	case domain.JobTypeUIStrings:
		nameCol = find(idx, "key")
		textCol = find(idx, "value", "text", "source")
	default:
		return nil, errors.New("unsupported job type: " + string(jobType))
	}
	if nameCol == -1 || textCol == -1 {
		return nil, errors.New("csv missing required columns for job type " + string(jobType))
	}
	attrCol := find(idx, "attributes")
	toneCol := find(idx, "tone")

	var items []*domain.Item
	pos := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		name := field(rec, nameCol)
		if name == "" {
			continue
		}
		it := &domain.Item{
			Position:   pos,
			Name:       name,
			SourceText: field(rec, textCol),
			Status:     domain.StatusPending,
		}
		if jobType == domain.JobTypeProductTexts {
			it.AttributesRaw = field(rec, attrCol)
			it.ToneHint = field(rec, toneCol)
		}
		items = append(items, it)
		pos++
	}
	return items, nil
}

func find(idx map[string]int, names ...string) int {
	for _, n := range names {
		if i, ok := idx[n]; ok {
			return i
		}
	}
	return -1
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}
