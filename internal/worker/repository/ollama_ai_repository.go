package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"newsbrief/internal/entity"
	"newsbrief/internal/worker/config"
	"newsbrief/internal/worker/dto"
	"newsbrief/pkg/logger"
	"newsbrief/pkg/ratelimit"

	"golang.org/x/time/rate"
)

// ollamaAIRepository implements AIRepository against a local Ollama server.
type ollamaAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter

	availMu      sync.Mutex
	availResult  bool
	availChecked time.Time
}

const availabilityProbeInterval = 30 * time.Second

// NewOllamaAIRepository creates a new instance of ollamaAIRepository.
func NewOllamaAIRepository(cfg *config.Config, log *logger.Logger) (AIRepository, error) {
	if cfg.Ollama.BaseURL == "" {
		return nil, fmt.Errorf("ollama base_url is not configured")
	}
	secondsPerRequest := time.Minute / time.Duration(cfg.Ollama.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)
	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Ollama.MaxTokenPerMinute)

	return &ollamaAIRepository{
		client: &http.Client{
			Timeout: cfg.Synthesis.LLMTimeout,
		},
		cfg:            cfg,
		logger:         log,
		tokenLimiter:   tokenLimiter,
		requestLimiter: requestLimiter,
	}, nil
}

// Model returns the configured Ollama model name.
func (r *ollamaAIRepository) Model() string {
	return r.cfg.Ollama.Model
}

// IsAvailable probes the Ollama /api/tags endpoint. The result is cached
// briefly so pipeline loops can call it per article without hammering
// the server.
func (r *ollamaAIRepository) IsAvailable(ctx context.Context) bool {
	r.availMu.Lock()
	defer r.availMu.Unlock()

	if time.Since(r.availChecked) < availabilityProbeInterval {
		return r.availResult
	}

	probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, "GET", r.cfg.Ollama.BaseURL+"/api/tags", nil)
	if err != nil {
		r.availResult = false
		r.availChecked = time.Now()
		return false
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("Ollama availability probe failed", logger.ErrorField(err))
		r.availResult = false
		r.availChecked = time.Now()
		return false
	}
	defer resp.Body.Close()

	r.availResult = resp.StatusCode == http.StatusOK
	r.availChecked = time.Now()
	return r.availResult
}

// CountTokens reports no tokenizer support; callers fall back to the
// character estimate.
func (r *ollamaAIRepository) CountTokens(ctx context.Context, text string) (int, bool) {
	return 0, false
}

// Generate sends a non-streaming generate request and returns the raw
// response text.
func (r *ollamaAIRepository) Generate(ctx context.Context, prompt string) (string, error) {
	// No server-side token counter; estimate with chars/4 for the limiter.
	if err := r.tokenLimiter.Wait(ctx, len(prompt)/4); err != nil {
		return "", fmt.Errorf("failed to wait for token limit: %w", err)
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload := dto.OllamaGenerateRequest{
		Model:  r.cfg.Ollama.Model,
		Prompt: prompt,
		Stream: false,
	}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.cfg.Ollama.BaseURL+"/api/generate", bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to send request to Ollama", logger.ErrorField(err))
		return "", fmt.Errorf("failed to send request to Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.logger.Error("Received non-OK response from Ollama", logger.IntField("status_code", resp.StatusCode))
		return "", fmt.Errorf("received non-OK response from Ollama: %d - %s", resp.StatusCode, string(body))
	}

	var ollamaResp dto.OllamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	return ollamaResp.Response, nil
}

// SynthesizeCluster runs a single direct-strategy synthesis call.
func (r *ollamaAIRepository) SynthesizeCluster(ctx context.Context, articles []entity.Article) (*dto.SynthesisResult, error) {
	raw, err := r.Generate(ctx, BuildSynthesizeClusterPrompt(articles))
	if err != nil {
		return nil, err
	}
	var result dto.SynthesisResult
	if err := unmarshalLLMResponse(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SummarizeGroup runs one map pass over an article group.
func (r *ollamaAIRepository) SummarizeGroup(ctx context.Context, articles []entity.Article) (*dto.GroupSummary, error) {
	raw, err := r.Generate(ctx, BuildGroupSummaryPrompt(articles))
	if err != nil {
		return nil, err
	}
	var result dto.GroupSummary
	if err := unmarshalLLMResponse(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ReduceSummaries merges map-pass outputs into the final synthesis.
func (r *ollamaAIRepository) ReduceSummaries(ctx context.Context, summaries []dto.GroupSummary) (*dto.SynthesisResult, error) {
	raw, err := r.Generate(ctx, BuildReduceSummariesPrompt(summaries))
	if err != nil {
		return nil, err
	}
	var result dto.SynthesisResult
	if err := unmarshalLLMResponse(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExtractEntities extracts the five entity categories from one article.
func (r *ollamaAIRepository) ExtractEntities(ctx context.Context, title, summary string) (*dto.EntityExtractionResult, error) {
	raw, err := r.Generate(ctx, BuildExtractEntitiesPrompt(title, summary))
	if err != nil {
		return nil, err
	}
	var result dto.EntityExtractionResult
	if err := unmarshalLLMResponse(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
