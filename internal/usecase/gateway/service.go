// Package gateway fronts text generation for the pipeline. It selects between
// the live backend and the deterministic stub, renders prompts, and runs every
// translation through glossary substitution and the heading guard. A live
// failure after the retry budget degrades to the stub instead of surfacing an
// error, so a backend outage slows a run down but never fails it.
package gateway

import (
	"context"
	"strings"

	"github.com/johan198205/lekia-translations-sub000/internal/adapters/llm/stub"
	"github.com/johan198205/lekia-translations-sub000/internal/log"
	"github.com/johan198205/lekia-translations-sub000/internal/ports"
)

// Mode names which backend produced a result.
type Mode string

const (
	ModeLive Mode = "live"
	ModeStub Mode = "stub"
)

// Result carries the generated text together with the mode that produced it,
// so callers (the diagnostics endpoint in particular) can tell a degraded
// answer from a live one.
type Result struct {
	Text string `json:"text"`
	Mode Mode   `json:"mode"`
}

type Config struct {
	// Mode selects the backend. ModeStub forces the offline path even when a
	// live backend is wired.
	Mode        Mode
	Temperature float64
}

type Deps struct {
	// Live may be nil; the service then runs stub-only regardless of Mode.
	Live     ports.TextBackend
	Prompt   ports.PromptRenderer
	Glossary ports.GlossaryRepository
	Logger   log.Logger
}

type Service struct {
	cfg Config
	d   Deps
}

func New(cfg Config, d Deps) *Service {
	if cfg.Mode == "" {
		cfg.Mode = ModeLive
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.7
	}
	if d.Logger == nil {
		d.Logger = log.Noop
	}
	return &Service{cfg: cfg, d: d}
}

func (s *Service) live() bool {
	return s.cfg.Mode == ModeLive && s.d.Live != nil
}

// Mode reports the configured backend mode, accounting for a missing live
// client.
func (s *Service) Mode() Mode {
	if s.live() {
		return ModeLive
	}
	return ModeStub
}

// Rewrite produces the optimized rendition of a product document.
func (s *Service) Rewrite(ctx context.Context, doc ports.Document) (Result, error) {
	if s.live() {
		data := ports.PromptData{
			Name:       doc.Name,
			Text:       doc.Text,
			ToneHint:   doc.ToneHint,
			Attributes: doc.Attributes,
		}
		p := ports.GenerateParams{
			SystemPrompt: s.d.Prompt.Render("rewrite", "system", data),
			UserPrompt:   s.d.Prompt.Render("rewrite", "user", data),
			Temperature:  s.cfg.Temperature,
		}
		out, err := s.d.Live.Generate(ctx, p)
		if err == nil {
			return Result{Text: strings.TrimSpace(out), Mode: ModeLive}, nil
		}
		s.d.Logger.Warningf("live rewrite failed, using stub: %v", err)
	}
	return Result{Text: stub.Rewrite(doc), Mode: ModeStub}, nil
}

// Translate renders text into the target language. Glossary terms and the
// heading guard apply to the output of either backend.
func (s *Service) Translate(ctx context.Context, text, langCode string) (Result, error) {
	res := Result{Mode: ModeStub}
	if s.live() {
		data := ports.PromptData{Text: text, TargetLang: langCode}
		p := ports.GenerateParams{
			SystemPrompt: s.d.Prompt.Render("translate", "system", data),
			UserPrompt:   s.d.Prompt.Render("translate", "user", data),
			Temperature:  s.cfg.Temperature,
		}
		out, err := s.d.Live.Generate(ctx, p)
		if err == nil {
			res = Result{Text: strings.TrimSpace(out), Mode: ModeLive}
		} else {
			s.d.Logger.Warningf("live translate failed, using stub: lang=%s err=%v", langCode, err)
		}
	}
	if res.Mode == ModeStub {
		res.Text = stub.Translate(text, langCode)
	}
	if s.d.Glossary != nil {
		terms, err := s.d.Glossary.TermsFor(ctx, langCode)
		if err != nil {
			// A glossary read failure degrades to an unsubstituted translation.
			s.d.Logger.Warningf("glossary lookup failed: lang=%s err=%v", langCode, err)
		} else {
			res.Text = ApplyTerms(res.Text, terms)
		}
	}
	res.Text = GuardLeadingHeading(text, res.Text)
	return res, nil
}

// Ping probes the live backend. Stub mode is always reachable.
func (s *Service) Ping(ctx context.Context) error {
	if !s.live() {
		return nil
	}
	return s.d.Live.Ping(ctx)
}
