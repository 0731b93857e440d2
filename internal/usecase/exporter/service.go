// Package exporter assembles a batch's items and translations into a
// downloadable file.
package exporter

import (
	"context"
	"fmt"
	"sort"

	"github.com/johan198205/lekia-translations-sub000/internal/domain"
	"github.com/johan198205/lekia-translations-sub000/internal/ports"
)

type Service struct {
	batches      ports.BatchRepository
	translations ports.TranslationRepository
	exporter     ports.Exporter
}

func New(batches ports.BatchRepository, translations ports.TranslationRepository, exporter ports.Exporter) *Service {
	return &Service{batches: batches, translations: translations, exporter: exporter}
}

type Export struct {
	Filename string
	Content  []byte
}

// ExportBatch renders every item of the batch, whatever its state. Unfinished
// items export with empty result columns and their current status, so a
// partial export mid-run is valid output.
func (s *Service) ExportBatch(ctx context.Context, batchID int64) (*Export, error) {
	b, err := s.batches.Get(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("batch %d: %w", batchID, domain.ErrNotFound)
	}
	items, err := s.batches.ListItems(ctx, batchID, nil)
	if err != nil {
		return nil, err
	}

	langSet := map[string]bool{}
	rows := make([]ports.ExportRow, 0, len(items))
	for _, it := range items {
		trs, err := s.translations.ListByItem(ctx, it.ID)
		if err != nil {
			return nil, err
		}
		row := ports.ExportRow{
			Name:          it.Name,
			SourceText:    it.SourceText,
			OptimizedText: it.OptimizedText,
			Status:        string(it.Status),
			ErrorMessage:  it.ErrorMessage,
			Translations:  map[string]string{},
		}
		for _, t := range trs {
			row.Translations[t.LangCode] = t.Text
			langSet[t.LangCode] = true
		}
		rows = append(rows, row)
	}

	langCodes := make([]string, 0, len(langSet))
	for l := range langSet {
		langCodes = append(langCodes, l)
	}
	sort.Strings(langCodes)

	content, err := s.exporter.Export(b.JobType, langCodes, rows)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("batch-%d.%s", b.ID, s.exporter.Format())
	return &Export{Filename: name, Content: content}, nil
}
