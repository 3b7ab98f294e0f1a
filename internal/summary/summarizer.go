// Package summary asks an external text-generation API for a prose summary
// of the currently projected orders. Failures degrade to a fallback string;
// nothing in here ever reaches the user as a crash.
package summary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/daftarhq/daftar/internal/order"
)

const (
	defaultBaseURL = "https://api.anthropic.com/v1/messages"
	defaultModel   = "claude-3-haiku-20240307"
)

// Fallback is shown whenever a summary could not be produced.
const Fallback = "تعذر إنشاء الملخص، حاول مرة أخرى لاحقاً."

var (
	// ErrBusy means a summary request is already in flight; the new
	// request is dropped, not queued.
	ErrBusy = errors.New("summary request already in flight")

	ErrNoCredential = errors.New("summary API key missing")
)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

type Summarizer struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string

	inFlight atomic.Bool
}

func New(cfg Config) *Summarizer {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Summarizer{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Summarize requests a prose summary of the given orders, which must be the
// currently projected (filtered and sorted) list, not the raw set. A request
// arriving while another is outstanding returns ErrBusy.
func (s *Summarizer) Summarize(ctx context.Context, orders []*order.Order) (string, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer s.inFlight.Store(false)

	if s.apiKey == "" {
		return "", ErrNoCredential
	}

	requestBody := map[string]any{
		"model":      s.model,
		"max_tokens": 400,
		"system":     "أنت مساعد محاسبة. لخّص الطلبات التالية في فقرة عربية قصيرة تذكر عدد الطلبات وتوزيعها بين الدخل والمصروف وأبرز البنود.",
		"messages": []map[string]string{
			{"role": "user", "content": buildPrompt(orders)},
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, strings.NewReader(string(jsonBody)))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("summary API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response apiResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	if len(response.Content) == 0 || strings.TrimSpace(response.Content[0].Text) == "" {
		return "", errors.New("empty summary response")
	}

	return strings.TrimSpace(response.Content[0].Text), nil
}

type apiResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func buildPrompt(orders []*order.Order) string {
	var sb strings.Builder

	sb.WriteString("الطلبات:\n")

	for _, o := range orders {
		ref := o.RefOrEmpty()
		if ref == "" {
			ref = "N/A"
		}

		sb.WriteString(fmt.Sprintf("- %s | %s | %s | %s | %s\n",
			o.Date, o.Name, ref, o.Type, o.Status))
	}

	return sb.String()
}
