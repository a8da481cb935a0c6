package repository

import (
	"context"

	"newsbrief/internal/entity"
	"newsbrief/internal/worker/dto"
)

// AIRepository abstracts the text-generation capability used by the
// synthesis pipeline. IsAvailable must be cheap to probe; when it
// reports false every caller short-circuits to its fallback path.
type AIRepository interface {
	IsAvailable(ctx context.Context) bool
	Model() string
	Generate(ctx context.Context, prompt string) (string, error)
	CountTokens(ctx context.Context, text string) (int, bool)
	SynthesizeCluster(ctx context.Context, articles []entity.Article) (*dto.SynthesisResult, error)
	SummarizeGroup(ctx context.Context, articles []entity.Article) (*dto.GroupSummary, error)
	ReduceSummaries(ctx context.Context, summaries []dto.GroupSummary) (*dto.SynthesisResult, error)
	ExtractEntities(ctx context.Context, title, summary string) (*dto.EntityExtractionResult, error)
}
