package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"newsbrief/internal/entity"
	"newsbrief/internal/worker/dto"
	"newsbrief/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

type fakeAIRepo struct {
	available bool
	model     string

	synthesizeResult *dto.SynthesisResult
	synthesizeErr    error
	groupSummary     *dto.GroupSummary
	groupErr         error
	reduceResult     *dto.SynthesisResult
	reduceErr        error
	extractResult    *dto.EntityExtractionResult
	extractErr       error

	synthesizeCalls int
	groupCalls      int
	reduceCalls     int
}

func (f *fakeAIRepo) IsAvailable(ctx context.Context) bool { return f.available }

func (f *fakeAIRepo) Model() string {
	if f.model == "" {
		return "test-model"
	}
	return f.model
}

func (f *fakeAIRepo) Generate(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeAIRepo) CountTokens(ctx context.Context, text string) (int, bool) {
	return 0, false
}

func (f *fakeAIRepo) SynthesizeCluster(ctx context.Context, articles []entity.Article) (*dto.SynthesisResult, error) {
	f.synthesizeCalls++
	if f.synthesizeErr != nil {
		return nil, f.synthesizeErr
	}
	result := *f.synthesizeResult
	return &result, nil
}

func (f *fakeAIRepo) SummarizeGroup(ctx context.Context, articles []entity.Article) (*dto.GroupSummary, error) {
	f.groupCalls++
	if f.groupErr != nil {
		return nil, f.groupErr
	}
	summary := *f.groupSummary
	return &summary, nil
}

func (f *fakeAIRepo) ReduceSummaries(ctx context.Context, summaries []dto.GroupSummary) (*dto.SynthesisResult, error) {
	f.reduceCalls++
	if f.reduceErr != nil {
		return nil, f.reduceErr
	}
	result := *f.reduceResult
	return &result, nil
}

func (f *fakeAIRepo) ExtractEntities(ctx context.Context, title, summary string) (*dto.EntityExtractionResult, error) {
	if f.extractErr != nil {
		return nil, f.extractErr
	}
	if f.extractResult == nil {
		return &dto.EntityExtractionResult{}, nil
	}
	return f.extractResult, nil
}

type fakeCacheRepo struct {
	entry    *entity.SynthesisCache
	getErr   error
	storeErr error
	stored   []*entity.SynthesisCache
}

func (f *fakeCacheRepo) Get(ctx context.Context, articleIDs []uint, model string) (*entity.SynthesisCache, error) {
	return f.entry, f.getErr
}

func (f *fakeCacheRepo) Store(ctx context.Context, cacheEntry *entity.SynthesisCache) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	f.stored = append(f.stored, cacheEntry)
	return nil
}

func (f *fakeCacheRepo) InvalidateForArticles(ctx context.Context, articleIDs []uint) (int64, error) {
	return 0, nil
}

func (f *fakeCacheRepo) CleanupExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

func newTestSynthesizer(ai *fakeAIRepo, cache *fakeCacheRepo) *Synthesizer {
	cfg := synthesisConfig()
	cfg.CacheTTL = time.Hour
	selector := NewContextSelector(cfg, nil)
	return NewSynthesizer(ai, cache, selector, cfg, testLogger())
}

func testCluster(n int) *Cluster {
	cluster := &Cluster{Topic: "ai"}
	for i := 0; i < n; i++ {
		cluster.Articles = append(cluster.Articles, entity.Article{
			ID:        uint(i + 1),
			Title:     "Model release coverage",
			Summary:   "Details about the release",
			RankScore: 1.0 - float64(i)*0.1,
		})
	}
	return cluster
}

func TestSynthesizeServesCacheHit(t *testing.T) {
	ai := &fakeAIRepo{available: true}
	cache := &fakeCacheRepo{entry: &entity.SynthesisCache{
		Title:     "Cached title",
		Synthesis: "Cached synthesis",
		KeyPoints: []string{"a", "b", "c"},
		Topics:    []string{"ai"},
	}}
	synth := newTestSynthesizer(ai, cache)

	result := synth.Synthesize(context.Background(), testCluster(3))

	assert.True(t, result.FromCache)
	assert.Equal(t, "Cached title", result.Title)
	assert.Equal(t, 0, ai.synthesizeCalls)
	assert.Empty(t, cache.stored)
}

func TestSynthesizeCacheErrorFallsThroughToLLM(t *testing.T) {
	ai := &fakeAIRepo{
		available: true,
		synthesizeResult: &dto.SynthesisResult{
			Title:     "Fresh title",
			Synthesis: "Fresh synthesis",
			KeyPoints: []string{"a", "b", "c"},
		},
	}
	cache := &fakeCacheRepo{getErr: errors.New("connection refused")}
	synth := newTestSynthesizer(ai, cache)

	result := synth.Synthesize(context.Background(), testCluster(3))

	assert.False(t, result.FromCache)
	assert.Equal(t, "Fresh title", result.Title)
	assert.Equal(t, 1, ai.synthesizeCalls)
}

func TestSynthesizeUnavailableLLMUsesExtractiveFallback(t *testing.T) {
	ai := &fakeAIRepo{available: false}
	cache := &fakeCacheRepo{}
	synth := newTestSynthesizer(ai, cache)

	cluster := &Cluster{Topic: "ai", Articles: []entity.Article{
		{ID: 1, Title: "Second-best source", RankScore: 0.5, Topic: "ai"},
		{ID: 2, Title: "Top source headline", RankScore: 0.9, Topic: "ai"},
	}}

	result := synth.Synthesize(context.Background(), cluster)

	assert.True(t, result.Fallback)
	assert.Equal(t, "Top source headline", result.Title)
	assert.Equal(t, []string{"ai"}, result.Topics)
	assert.Len(t, result.KeyPoints, 3)
	assert.Equal(t, "Based on 2 sources", result.KeyPoints[0])
	assert.Empty(t, cache.stored, "fallback results must not be cached")
}

func TestSynthesizeLLMErrorUsesExtractiveFallback(t *testing.T) {
	ai := &fakeAIRepo{available: true, synthesizeErr: errors.New("model overloaded")}
	cache := &fakeCacheRepo{}
	synth := newTestSynthesizer(ai, cache)

	result := synth.Synthesize(context.Background(), testCluster(3))

	assert.True(t, result.Fallback)
	assert.Empty(t, cache.stored)
}

func TestSynthesizeStoresResultInCache(t *testing.T) {
	ai := &fakeAIRepo{
		available: true,
		synthesizeResult: &dto.SynthesisResult{
			Title:     "Story title",
			Synthesis: "Full synthesis",
			KeyPoints: []string{"a", "b", "c"},
			Topics:    []string{"ai"},
		},
	}
	cache := &fakeCacheRepo{}
	synth := newTestSynthesizer(ai, cache)
	cluster := testCluster(3)

	result := synth.Synthesize(context.Background(), cluster)

	assert.False(t, result.Fallback)
	require.Len(t, cache.stored, 1)
	entry := cache.stored[0]
	assert.Equal(t, entity.GenerateCacheKey(cluster.ArticleIDs(), ai.Model()), entry.CacheKey)
	assert.Equal(t, ai.Model(), entry.Model)
	assert.Equal(t, "Story title", entry.Title)
	assert.False(t, entry.ExpiresAt.IsZero())
}

func TestSynthesizeNormalizesShortResults(t *testing.T) {
	ai := &fakeAIRepo{
		available: true,
		synthesizeResult: &dto.SynthesisResult{
			Title:     "  ",
			Synthesis: "Something happened",
			KeyPoints: []string{"only one"},
		},
	}
	synth := newTestSynthesizer(ai, &fakeCacheRepo{})

	result := synth.Synthesize(context.Background(), testCluster(2))

	assert.Equal(t, "Untitled story", result.Title)
	assert.Len(t, result.KeyPoints, 3)
	assert.Equal(t, "only one", result.KeyPoints[0])
}

func TestSynthesizeMapReduceStrategy(t *testing.T) {
	ai := &fakeAIRepo{
		available:    true,
		groupSummary: &dto.GroupSummary{Summary: "group summary", KeyFacts: []string{"fact"}},
		reduceResult: &dto.SynthesisResult{
			Title:     "Reduced title",
			Synthesis: "Reduced synthesis",
			KeyPoints: []string{"a", "b", "c"},
		},
	}
	synth := newTestSynthesizer(ai, &fakeCacheRepo{})

	result := synth.Synthesize(context.Background(), testCluster(10))

	assert.Equal(t, "Reduced title", result.Title)
	assert.Equal(t, 2, ai.groupCalls)
	assert.Equal(t, 1, ai.reduceCalls)
	assert.Equal(t, 0, ai.synthesizeCalls)
}

func TestSynthesizeMapReduceToleratesPartialGroupFailures(t *testing.T) {
	ai := &fakeAIRepo{
		available: true,
		groupErr:  errors.New("timeout"),
	}
	synth := newTestSynthesizer(ai, &fakeCacheRepo{})

	result := synth.Synthesize(context.Background(), testCluster(10))

	// Every group failed, so the reduce pass never ran and the
	// extractive fallback took over.
	assert.True(t, result.Fallback)
	assert.Equal(t, 0, ai.reduceCalls)
}

func TestSynthesizeHierarchicalStrategy(t *testing.T) {
	ai := &fakeAIRepo{
		available:    true,
		groupSummary: &dto.GroupSummary{Summary: "group summary"},
		reduceResult: &dto.SynthesisResult{
			Title:     "Reduced title",
			Synthesis: "Reduced synthesis",
			KeyPoints: []string{"a", "b", "c"},
		},
	}
	synth := newTestSynthesizer(ai, &fakeCacheRepo{})

	result := synth.Synthesize(context.Background(), testCluster(16))

	assert.False(t, result.Fallback)
	assert.Equal(t, 4, ai.groupCalls)
	// Four group summaries fit in one reduce chunk, so the tier merge
	// passes them straight to the final reduce.
	assert.Equal(t, 1, ai.reduceCalls)
}
