package csv

import (
	"bytes"
	"encoding/csv"

	"github.com/johan198205/lekia-translations-sub000/internal/domain"
	"github.com/johan198205/lekia-translations-sub000/internal/ports"
)

type Exporter struct{}

func New() *Exporter { return &Exporter{} }

func (e *Exporter) Format() string { return "csv" }

func (e *Exporter) Export(jobType domain.JobType, langCodes []string, rows []ports.ExportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"name", "source_text"}
	if jobType == domain.JobTypeProductTexts {
		header = append(header, "optimized_text")
	}
	header = append(header, langCodes...)
	header = append(header, "status", "error")
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range rows {
		rec := []string{row.Name, row.SourceText}
		if jobType == domain.JobTypeProductTexts {
			rec = append(rec, row.OptimizedText)
		}
		for _, lang := range langCodes {
			rec = append(rec, row.Translations[lang])
		}
		rec = append(rec, row.Status, row.ErrorMessage)
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
