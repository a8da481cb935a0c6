package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"newsbrief/internal/entity"
	"newsbrief/internal/worker/config"
	"newsbrief/internal/worker/dto"
	"newsbrief/pkg/logger"
	"newsbrief/pkg/ratelimit"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// geminiAIRepository implements AIRepository using the Google Gemini API.
type geminiAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (AIRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)
	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute)

	return &geminiAIRepository{
		client: &http.Client{
			Timeout: cfg.Synthesis.LLMTimeout,
		},
		cfg:            cfg,
		logger:         log,
		tokenLimiter:   tokenLimiter,
		requestLimiter: requestLimiter,
		genAiClient:    genAiClient,
	}, nil
}

// Model returns the configured Gemini model name.
func (r *geminiAIRepository) Model() string {
	return r.cfg.Gemini.Model
}

// IsAvailable reports whether the repository is configured with an API
// key. The hosted API has no cheap liveness probe; request failures are
// handled by the per-cluster fallback instead.
func (r *geminiAIRepository) IsAvailable(ctx context.Context) bool {
	return r.cfg.Gemini.APIKey != ""
}

// CountTokens uses the Gemini tokenizer for precise prompt budgeting.
func (r *geminiAIRepository) CountTokens(ctx context.Context, text string) (int, bool) {
	contents := []*genai.Content{
		genai.NewContentFromText(text, "user"),
	}
	resp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		r.logger.Debug("Gemini token count failed, falling back to estimate", logger.ErrorField(err))
		return 0, false
	}
	return int(resp.TotalTokens), true
}

// Generate sends the prompt to the Gemini generateContent endpoint and
// returns the raw response text.
func (r *geminiAIRepository) Generate(ctx context.Context, prompt string) (string, error) {
	if tokens, ok := r.CountTokens(ctx, prompt); ok {
		r.logger.Debug("Gemini token count",
			logger.IntField("total_tokens", tokens),
			logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
		)
		if err := r.tokenLimiter.Wait(ctx, tokens); err != nil {
			return "", fmt.Errorf("failed to wait for token limit: %w", err)
		}
	} else {
		if err := r.tokenLimiter.Wait(ctx, len(prompt)/4); err != nil {
			return "", fmt.Errorf("failed to wait for token limit: %w", err)
		}
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload := dto.GeminiAPIRequest{
		Contents: []dto.Content{{Parts: []dto.Part{{Text: prompt}}}},
	}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s:generateContent?key=%s", r.cfg.Gemini.BaseURL, r.cfg.Gemini.Model, r.cfg.Gemini.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to send request to Gemini API", logger.ErrorField(err))
		return "", fmt.Errorf("failed to send request to Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.logger.Error("Received non-OK response from Gemini API", logger.IntField("status_code", resp.StatusCode))
		return "", fmt.Errorf("received non-OK response from Gemini API: %d - %s", resp.StatusCode, string(body))
	}

	var geminiResp dto.GeminiAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content found in Gemini response")
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

// SynthesizeCluster runs a single direct-strategy synthesis call.
func (r *geminiAIRepository) SynthesizeCluster(ctx context.Context, articles []entity.Article) (*dto.SynthesisResult, error) {
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
func (r *geminiAIRepository) SummarizeGroup(ctx context.Context, articles []entity.Article) (*dto.GroupSummary, error) {
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
func (r *geminiAIRepository) ReduceSummaries(ctx context.Context, summaries []dto.GroupSummary) (*dto.SynthesisResult, error) {
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
func (r *geminiAIRepository) ExtractEntities(ctx context.Context, title, summary string) (*dto.EntityExtractionResult, error) {
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
