package service

import (
	"context"
	"fmt"
	"sort"

	"newsbrief/internal/entity"
	"newsbrief/internal/worker/config"
)

// Synthesis strategies, selected by cluster size.
const (
	StrategyDirect       = "direct"
	StrategyMapReduce    = "map_reduce"
	StrategyHierarchical = "hierarchical"
)

// TokenCounterFunc counts tokens with a real tokenizer when one is
// available; the second return is false when the caller should fall back
// to the character estimate.
type TokenCounterFunc func(ctx context.Context, text string) (int, bool)

// ContextPlan is the outcome of context selection for one cluster:
// which articles make the prompt, under which strategy, and which were
// excluded from the prompt. Dropped articles remain story members; they
// are only left out of the LLM context.
type ContextPlan struct {
	Strategy string
	Articles []entity.Article
	Groups   [][]entity.Article
	Dropped  []uint
}

// ContextSelector decides how a cluster fits into a model's context
// budget.
type ContextSelector struct {
	cfg     config.Synthesis
	counter TokenCounterFunc
}

// NewContextSelector creates a new ContextSelector. counter may be nil,
// in which case the chars/4 estimate is always used.
func NewContextSelector(cfg config.Synthesis, counter TokenCounterFunc) *ContextSelector {
	return &ContextSelector{cfg: cfg, counter: counter}
}

// Prioritize sorts articles by rank score descending, breaking ties with
// more recent published time first.
func Prioritize(articles []entity.Article) []entity.Article {
	sorted := make([]entity.Article, len(articles))
	copy(sorted, articles)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].RankScore != sorted[j].RankScore {
			return sorted[i].RankScore > sorted[j].RankScore
		}
		pi, pj := sorted[i].Published, sorted[j].Published
		if pi == nil || pj == nil {
			return pj == nil && pi != nil
		}
		return pi.After(*pj)
	})
	return sorted
}

// SelectContext plans the synthesis of one cluster for the given model.
func (s *ContextSelector) SelectContext(ctx context.Context, articles []entity.Article, model string) ContextPlan {
	prioritized := Prioritize(articles)

	switch {
	case len(prioritized) >= s.cfg.HierarchicalMin:
		return ContextPlan{
			Strategy: StrategyHierarchical,
			Articles: prioritized,
			Groups:   groupArticles(prioritized, s.cfg.GroupSize),
		}
	case len(prioritized) >= s.cfg.MapReduceMinArticles:
		return ContextPlan{
			Strategy: StrategyMapReduce,
			Articles: prioritized,
			Groups:   groupArticles(prioritized, s.cfg.GroupSize),
		}
	}

	return s.selectDirect(ctx, prioritized, model)
}

// selectDirect greedily admits prioritized articles while they fit the
// effective budget and the per-prompt article cap.
func (s *ContextSelector) selectDirect(ctx context.Context, prioritized []entity.Article, model string) ContextPlan {
	budget := s.effectiveBudget(model)

	plan := ContextPlan{Strategy: StrategyDirect}
	used := 0
	for _, article := range prioritized {
		if len(plan.Articles) >= s.cfg.MaxArticlesPerPrompt {
			plan.Dropped = append(plan.Dropped, article.ID)
			continue
		}
		tokens := s.estimateArticleTokens(ctx, &article)
		if used+tokens > budget {
			plan.Dropped = append(plan.Dropped, article.ID)
			continue
		}
		used += tokens
		plan.Articles = append(plan.Articles, article)
	}
	return plan
}

// effectiveBudget is the model's synthesis allowance scaled by the
// safety margin, minus the reserved base-prompt overhead.
func (s *ContextSelector) effectiveBudget(model string) int {
	allowance, ok := s.cfg.ModelTokenBudgets[model]
	if !ok {
		allowance = s.cfg.DefaultTokenBudget
	}
	return int(float64(allowance)*s.cfg.SafetyMargin) - s.cfg.BasePromptOverhead
}

// estimateArticleTokens counts tokens for the templated article block,
// falling back to the chars/4 estimate without a tokenizer.
func (s *ContextSelector) estimateArticleTokens(ctx context.Context, article *entity.Article) int {
	text := fmt.Sprintf("Title: %s\n%s", article.Title, article.BestSummary())
	if s.counter != nil {
		if tokens, ok := s.counter(ctx, text); ok {
			return tokens
		}
	}
	return len(text) / 4
}

func groupArticles(articles []entity.Article, groupSize int) [][]entity.Article {
	if groupSize <= 0 {
		groupSize = 5
	}
	var groups [][]entity.Article
	for start := 0; start < len(articles); start += groupSize {
		end := start + groupSize
		if end > len(articles) {
			end = len(articles)
		}
		groups = append(groups, articles[start:end])
	}
	return groups
}
