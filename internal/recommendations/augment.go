package recommendations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lucasrivera/shoppulse-backend/pkg/config"
	pkgerrors "github.com/lucasrivera/shoppulse-backend/pkg/errors"
)

const (
	defaultAugmentBaseURL            = "https://generativelanguage.googleapis.com/v1beta"
	augmentBodyReadLimit       int64 = 1024
	defaultAugmentTimeout            = 8 * time.Second
	narrativeRecommendationCap       = 5
)

var errAugmentKeyRequired = errors.New("augment api key is required")

// Augmenter produces a prose narrative for a ranked recommendation list.
// Implementations may fail; callers fall back to a generated template.
type Augmenter interface {
	Narrate(ctx context.Context, recs []Recommendation) (string, error)
}

// GeminiAugmenter asks a generative language model to narrate the findings.
type GeminiAugmenter struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// GeminiOption configures optional augmenter behavior.
type GeminiOption func(*GeminiAugmenter)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) GeminiOption {
	return func(a *GeminiAugmenter) {
		if client != nil {
			a.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured API base URL.
func WithBaseURL(baseURL string) GeminiOption {
	return func(a *GeminiAugmenter) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			a.baseURL = trimmed
		}
	}
}

// NewGeminiAugmenter builds the narrative client from config.
func NewGeminiAugmenter(cfg config.AugmentConfig, opts ...GeminiOption) (*GeminiAugmenter, error) {
	trimmedKey := strings.TrimSpace(cfg.APIKey)
	if trimmedKey == "" {
		return nil, errAugmentKeyRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultAugmentTimeout
	}

	augmenter := &GeminiAugmenter{
		apiKey:     trimmedKey,
		model:      cfg.Model,
		baseURL:    defaultAugmentBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		augmenter.baseURL = strings.TrimSpace(cfg.BaseURL)
	}

	for _, opt := range opts {
		if opt != nil {
			opt(augmenter)
		}
	}

	if augmenter.httpClient == nil {
		augmenter.httpClient = &http.Client{Timeout: timeout}
	}
	if augmenter.model == "" {
		augmenter.model = "gemini-2.5-flash"
	}

	return augmenter, nil
}

// Narrate sends the top recommendations and returns the model's summary text.
func (a *GeminiAugmenter) Narrate(ctx context.Context, recs []Recommendation) (string, error) {
	if a == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "augment client not configured")
	}
	if len(recs) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "no recommendations to narrate")
	}

	payload, err := json.Marshal(a.buildRequest(recs))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal narrate request")
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(a.baseURL, "/"), a.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build narrate request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", a.apiKey)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute narrate request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, augmentBodyReadLimit))
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "narrate request failed")
	}

	var apiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode narrate response")
	}

	var parts []string
	for _, candidate := range apiResp.Candidates {
		for _, part := range candidate.Content.Parts {
			if text := strings.TrimSpace(part.Text); text != "" {
				parts = append(parts, text)
			}
		}
		break
	}
	if len(parts) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "narrate response contained no text")
	}

	return strings.Join(parts, "\n"), nil
}

func (a *GeminiAugmenter) buildRequest(recs []Recommendation) any {
	var sb strings.Builder
	sb.WriteString("Summarize the following merchant recommendations in two short paragraphs for a store owner:\n")
	for i, rec := range recs {
		if i == narrativeRecommendationCap {
			break
		}
		fmt.Fprintf(&sb, "%d. [%s/%s] %s: %s\n", rec.Rank, rec.Category, rec.Priority, rec.Title, rec.Description)
	}

	type part struct {
		Text string `json:"text"`
	}
	type content struct {
		Parts []part `json:"parts"`
	}
	return struct {
		Contents []content `json:"contents"`
	}{
		Contents: []content{{Parts: []part{{Text: sb.String()}}}},
	}
}

// templateNarrative is the deterministic fallback used whenever the
// augmenter is absent or fails.
func templateNarrative(recs []Recommendation) string {
	if len(recs) == 0 {
		return "No recommendations were generated for this dataset."
	}

	high := 0
	for _, rec := range recs {
		if rec.Priority == PriorityHigh {
			high++
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d recommendations were generated, %d of them high priority.", len(recs), high)
	fmt.Fprintf(&sb, " Start with %q (%s).", recs[0].Title, strings.ToLower(string(recs[0].Priority)))
	if len(recs) > 1 {
		fmt.Fprintf(&sb, " Next, consider %q.", recs[1].Title)
	}
	return sb.String()
}
