// Package services provides external service integrations and technical concerns like the AI processor client
package services

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

	"github.com/amirphl/ecolca/lca"
	"golang.org/x/time/rate"
)

// ErrAIUnavailable is returned, wrapping the cause, whenever the AI processor cannot serve a call.
var ErrAIUnavailable = errors.New("ai processor unavailable")

// AIProcessorClient talks to the external AI processor
type AIProcessorClient interface {
	Process(ctx context.Context, materials []lca.MaterialInput, options map[string]any) (*AIProcessResult, error)
	Recommendations(ctx context.Context, req AIRecommendationRequest) (*AIRecommendationResult, error)
	Categorize(ctx context.Context, materials []lca.MaterialInput) (*AICategorizeResult, error)
	Health(ctx context.Context) (*AIHealthResult, error)
}

// AIProcessResult is the /process response
type AIProcessResult struct {
	ProcessedMaterials []lca.ProcessedMaterial `json:"processed_materials"`
	ProcessingInfo     lca.ProcessingInfo      `json:"processing_info"`
}

// AIRecommendationRequest is the /recommendations request body
type AIRecommendationRequest struct {
	LCAResults any            `json:"lca_results"`
	Context    map[string]any `json:"context,omitempty"`
}

// AIRecommendation is one recommendation as produced by the AI processor
type AIRecommendation struct {
	Type               string   `json:"type"`
	Priority           string   `json:"priority"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Action             string   `json:"action,omitempty"`
	Actions            []string `json:"actions,omitempty"`
	ImpactScore        float64  `json:"impact_score,omitempty"`
	EstimatedReduction string   `json:"estimated_reduction,omitempty"`
}

// AIRecommendationResult is the /recommendations response
type AIRecommendationResult struct {
	Recommendations []AIRecommendation `json:"recommendations"`
	ConfidenceScore float64            `json:"confidence_score"`
	GeneratedAt     string             `json:"generated_at"`
}

// AICategorizeResult is the /categorize response
type AICategorizeResult struct {
	CategorizedMaterials []lca.CategorizedMaterial `json:"categorized_materials"`
	TotalProcessed       int                       `json:"total_processed"`
}

// AIHealthResult is the /health response
type AIHealthResult struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// AIProcessorClientImpl is the HTTP implementation of AIProcessorClient
type AIProcessorClientImpl struct {
	BaseURL        string
	HTTPClient     *http.Client
	ProcessTimeout time.Duration
	HealthTimeout  time.Duration
	limiter        *rate.Limiter
}

// NewAIProcessorClient creates an HTTP client for the AI processor. rps <= 0 disables local rate limiting.
func NewAIProcessorClient(baseURL string, processTimeout, healthTimeout time.Duration, rps float64, burst int) *AIProcessorClientImpl {
	if processTimeout <= 0 {
		processTimeout = 10 * time.Second
	}
	if healthTimeout <= 0 {
		healthTimeout = 5 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if rps > 0 {
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return &AIProcessorClientImpl{
		BaseURL:        strings.TrimRight(baseURL, "/"),
		HTTPClient:     &http.Client{},
		ProcessTimeout: processTimeout,
		HealthTimeout:  healthTimeout,
		limiter:        limiter,
	}
}

func (c *AIProcessorClientImpl) Process(ctx context.Context, materials []lca.MaterialInput, options map[string]any) (*AIProcessResult, error) {
	body := map[string]any{"materials": materials}
	if options != nil {
		body["options"] = options
	}
	var out AIProcessResult
	if err := c.doJSON(ctx, http.MethodPost, "/process", c.ProcessTimeout, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AIProcessorClientImpl) Recommendations(ctx context.Context, req AIRecommendationRequest) (*AIRecommendationResult, error) {
	var out AIRecommendationResult
	if err := c.doJSON(ctx, http.MethodPost, "/recommendations", c.ProcessTimeout, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AIProcessorClientImpl) Categorize(ctx context.Context, materials []lca.MaterialInput) (*AICategorizeResult, error) {
	var out AICategorizeResult
	body := map[string]any{"materials": materials}
	if err := c.doJSON(ctx, http.MethodPost, "/categorize", c.ProcessTimeout, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AIProcessorClientImpl) Health(ctx context.Context) (*AIHealthResult, error) {
	var out AIHealthResult
	if err := c.doJSON(ctx, http.MethodGet, "/health", c.HealthTimeout, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// doJSON performs one attempt; every failure is reported as ErrAIUnavailable.
func (c *AIProcessorClientImpl) doJSON(ctx context.Context, method, path string, timeout time.Duration, in, out any) error {
	if !c.limiter.Allow() {
		return fmt.Errorf("%w: local rate limit exceeded", ErrAIUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: encode request: %w", ErrAIUnavailable, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", ErrAIUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrAIUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s returned status %d: %s", ErrAIUnavailable, method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", ErrAIUnavailable, path, err)
	}
	return nil
}

// MockAIProcessorClient is a configurable AIProcessorClient for tests and local runs
type MockAIProcessorClient struct {
	Err error

	ProcessResult        *AIProcessResult
	RecommendationResult *AIRecommendationResult
	CategorizeResult     *AICategorizeResult
	HealthResult         *AIHealthResult

	Calls map[string]int
}

// NewMockAIProcessorClient returns a mock that fails every call with ErrAIUnavailable
func NewMockAIProcessorClient() *MockAIProcessorClient {
	return &MockAIProcessorClient{
		Err:   fmt.Errorf("%w: mock", ErrAIUnavailable),
		Calls: make(map[string]int),
	}
}

func (m *MockAIProcessorClient) record(op string) {
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[op]++
}

func (m *MockAIProcessorClient) Process(ctx context.Context, materials []lca.MaterialInput, options map[string]any) (*AIProcessResult, error) {
	m.record("process")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.ProcessResult, nil
}

func (m *MockAIProcessorClient) Recommendations(ctx context.Context, req AIRecommendationRequest) (*AIRecommendationResult, error) {
	m.record("recommendations")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.RecommendationResult, nil
}

func (m *MockAIProcessorClient) Categorize(ctx context.Context, materials []lca.MaterialInput) (*AICategorizeResult, error) {
	m.record("categorize")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.CategorizeResult, nil
}

func (m *MockAIProcessorClient) Health(ctx context.Context) (*AIHealthResult, error) {
	m.record("health")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.HealthResult, nil
}
