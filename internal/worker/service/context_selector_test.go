package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"newsbrief/internal/entity"
	"newsbrief/internal/worker/config"

	"github.com/stretchr/testify/assert"
)

func synthesisConfig() config.Synthesis {
	return config.Synthesis{
		DefaultTokenBudget:   8000,
		SafetyMargin:         0.9,
		BasePromptOverhead:   500,
		MaxArticlesPerPrompt: 8,
		MapReduceMinArticles: 9,
		HierarchicalMin:      16,
		GroupSize:            5,
	}
}

func makeArticles(n int) []entity.Article {
	articles := make([]entity.Article, 0, n)
	for i := 0; i < n; i++ {
		articles = append(articles, entity.Article{ID: uint(i + 1), Title: "article", Summary: "summary"})
	}
	return articles
}

func TestPrioritizeOrdersByRankThenRecency(t *testing.T) {
	older := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	articles := []entity.Article{
		{ID: 1, RankScore: 0.5, Published: &older},
		{ID: 2, RankScore: 0.9, Published: &older},
		{ID: 3, RankScore: 0.5, Published: &newer},
		{ID: 4, RankScore: 0.5},
	}

	sorted := Prioritize(articles)

	assert.Equal(t, uint(2), sorted[0].ID)
	assert.Equal(t, uint(3), sorted[1].ID)
	assert.Equal(t, uint(1), sorted[2].ID)
	assert.Equal(t, uint(4), sorted[3].ID)
}

func TestPrioritizeDoesNotMutateInput(t *testing.T) {
	articles := []entity.Article{
		{ID: 1, RankScore: 0.1},
		{ID: 2, RankScore: 0.9},
	}
	Prioritize(articles)
	assert.Equal(t, uint(1), articles[0].ID)
}

func TestSelectContextDirectBelowMapReduceThreshold(t *testing.T) {
	selector := NewContextSelector(synthesisConfig(), nil)

	plan := selector.SelectContext(context.Background(), makeArticles(8), "llama3.1:8b")

	assert.Equal(t, StrategyDirect, plan.Strategy)
	assert.Len(t, plan.Articles, 8)
	assert.Empty(t, plan.Dropped)
	assert.Nil(t, plan.Groups)
}

func TestSelectContextMapReduceAtThreshold(t *testing.T) {
	selector := NewContextSelector(synthesisConfig(), nil)

	plan := selector.SelectContext(context.Background(), makeArticles(9), "llama3.1:8b")

	assert.Equal(t, StrategyMapReduce, plan.Strategy)
	assert.Len(t, plan.Articles, 9)
	assert.Len(t, plan.Groups, 2)
	assert.Len(t, plan.Groups[0], 5)
	assert.Len(t, plan.Groups[1], 4)
}

func TestSelectContextHierarchicalAtThreshold(t *testing.T) {
	selector := NewContextSelector(synthesisConfig(), nil)

	plan := selector.SelectContext(context.Background(), makeArticles(16), "llama3.1:8b")

	assert.Equal(t, StrategyHierarchical, plan.Strategy)
	assert.Len(t, plan.Groups, 4)
}

func TestSelectContextDirectDropsOverBudget(t *testing.T) {
	cfg := synthesisConfig()
	cfg.DefaultTokenBudget = 1000 // effective budget 400 tokens
	selector := NewContextSelector(cfg, nil)

	long := strings.Repeat("x", 1200) // ~300 tokens by the chars/4 estimate
	articles := []entity.Article{
		{ID: 1, RankScore: 0.9, Title: "t", Summary: long},
		{ID: 2, RankScore: 0.8, Title: "t", Summary: long},
		{ID: 3, RankScore: 0.7, Title: "t", Summary: long},
	}

	plan := selector.SelectContext(context.Background(), articles, "unknown-model")

	assert.Equal(t, StrategyDirect, plan.Strategy)
	assert.Len(t, plan.Articles, 1)
	assert.Equal(t, uint(1), plan.Articles[0].ID)
	assert.ElementsMatch(t, []uint{2, 3}, plan.Dropped)
}

func TestSelectContextDirectRespectsArticleCap(t *testing.T) {
	cfg := synthesisConfig()
	cfg.MaxArticlesPerPrompt = 2
	selector := NewContextSelector(cfg, nil)

	plan := selector.SelectContext(context.Background(), makeArticles(5), "llama3.1:8b")

	assert.Len(t, plan.Articles, 2)
	assert.Len(t, plan.Dropped, 3)
}

func TestSelectContextUsesPerModelBudget(t *testing.T) {
	cfg := synthesisConfig()
	cfg.ModelTokenBudgets = map[string]int{"tiny": 600} // effective budget 40 tokens
	selector := NewContextSelector(cfg, nil)

	long := strings.Repeat("x", 400)
	articles := []entity.Article{{ID: 1, Title: "t", Summary: long}}

	plan := selector.SelectContext(context.Background(), articles, "tiny")
	assert.Empty(t, plan.Articles)
	assert.Equal(t, []uint{1}, plan.Dropped)

	plan = selector.SelectContext(context.Background(), articles, "not-configured")
	assert.Len(t, plan.Articles, 1)
}

func TestSelectContextPrefersRealTokenCounter(t *testing.T) {
	cfg := synthesisConfig()
	cfg.DefaultTokenBudget = 1000 // effective budget 400 tokens
	counter := func(ctx context.Context, text string) (int, bool) {
		return 500, true // over budget regardless of text length
	}
	selector := NewContextSelector(cfg, counter)

	plan := selector.SelectContext(context.Background(), makeArticles(1), "llama3.1:8b")

	assert.Empty(t, plan.Articles)
	assert.Equal(t, []uint{1}, plan.Dropped)
}
