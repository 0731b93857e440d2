// Package openai is the live text-generation backend: an OpenAI-compatible
// chat-completions endpoint reached over HTTP with retry and timeout policy.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/johan198205/lekia-translations-sub000/internal/log"
	"github.com/johan198205/lekia-translations-sub000/internal/ports"
)

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	// Timeout bounds each individual HTTP attempt.
	Timeout time.Duration
	// MaxAttempts is the total number of attempts (first call + retries).
	MaxAttempts int
	// RetryWait is the initial backoff; resty grows it exponentially and adds
	// jitter on each retry.
	RetryWait time.Duration
	Logger    log.Logger
}

func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com"
	}
	if c.Timeout <= 0 {
		c.Timeout = 45 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.RetryWait <= 0 {
		c.RetryWait = 400 * time.Millisecond
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
}

type Client struct {
	cfg  Config
	http *resty.Client
}

func New(cfg Config) *Client {
	cfg.defaults()
	hc := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxAttempts - 1).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(10 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			// 4xx is a client/config error; retrying cannot change the answer.
			if r.StatusCode() >= 400 && r.StatusCode() < 500 {
				return false
			}
			return r.IsError()
		})
	return &Client{cfg: cfg, http: hc}
}

func (c *Client) Generate(ctx context.Context, p ports.GenerateParams) (string, error) {
	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/chat/completions"
	body := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": p.SystemPrompt},
			{"role": "user", "content": p.UserPrompt},
		},
		"temperature":     p.Temperature,
		"response_format": map[string]string{"type": "json_object"},
	}
	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	r, err := c.http.R().SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).SetResult(&resp).
		Post(url)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if r.IsError() {
		return "", fmt.Errorf("chat completion: %s; body: %s", r.Status(), abbreviate(r.String(), 500))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	out, err := extractText(content)
	if err != nil {
		return "", err
	}
	return out, nil
}

// Ping verifies connectivity and the credential with a cheap models listing.
func (c *Client) Ping(ctx context.Context) error {
	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/models"
	r, err := c.http.R().SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.cfg.APIKey).
		Get(url)
	if err != nil {
		return err
	}
	if r.IsError() {
		return fmt.Errorf("list models: %s", r.Status())
	}
	return nil
}

// extractText pulls the generated document out of the model response. Models
// usually honor the JSON instruction; the fallbacks cover fenced code blocks
// and plain-text answers.
func extractText(content string) (string, error) {
	s := strings.TrimSpace(content)
	if idx := strings.Index(s, "```"); idx >= 0 {
		rest := s[idx+3:]
		rest = strings.TrimPrefix(rest, "json")
		if j := strings.Index(rest, "```"); j >= 0 {
			s = strings.TrimSpace(rest[:j])
		}
	}
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(s), &obj); err == nil && obj.Text != "" {
		return obj.Text, nil
	}
	if i := strings.Index(s, "{"); i >= 0 {
		if j := strings.LastIndex(s, "}"); j > i {
			if err := json.Unmarshal([]byte(s[i:j+1]), &obj); err == nil && obj.Text != "" {
				return obj.Text, nil
			}
		}
	}
	if s != "" && !strings.Contains(s, "{") {
		return s, nil
	}
	return "", fmt.Errorf("failed to parse response JSON; content: %s", abbreviate(s, 500))
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
