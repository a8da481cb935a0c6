package service

import (
	"context"
	"fmt"
	"strings"

	"newsbrief/internal/entity"
	"newsbrief/internal/worker/config"
	"newsbrief/internal/worker/dto"
	"newsbrief/internal/worker/repository"
	"newsbrief/pkg/logger"
	"newsbrief/pkg/utils"

	"github.com/lib/pq"
)

const minKeyPoints = 3

// Synthesizer orchestrates the LLM calls that turn one cluster into a
// synthesis payload, consulting the synthesis cache first and degrading
// to extractive synthesis whenever the LLM path fails.
type Synthesizer struct {
	aiRepo    repository.AIRepository
	cacheRepo repository.SynthesisCacheRepository
	selector  *ContextSelector
	cfg       config.Synthesis
	logger    *logger.Logger
}

// NewSynthesizer creates a new Synthesizer.
func NewSynthesizer(aiRepo repository.AIRepository, cacheRepo repository.SynthesisCacheRepository, selector *ContextSelector, cfg config.Synthesis, log *logger.Logger) *Synthesizer {
	return &Synthesizer{
		aiRepo:    aiRepo,
		cacheRepo: cacheRepo,
		selector:  selector,
		cfg:       cfg,
		logger:    log,
	}
}

// Synthesize produces the synthesis payload for one cluster. It never
// returns an error for LLM or cache trouble; a degraded extractive
// result is still a result.
func (s *Synthesizer) Synthesize(ctx context.Context, cluster *Cluster) *dto.SynthesisResult {
	articleIDs := cluster.ArticleIDs()
	model := s.aiRepo.Model()

	cached, err := s.cacheRepo.Get(ctx, articleIDs, model)
	if err != nil {
		s.logger.Warn("Synthesis cache lookup failed", logger.ErrorField(err))
	}
	if cached != nil {
		s.logger.Debug("Synthesis cache hit", logger.IntField("articles", len(articleIDs)))
		return &dto.SynthesisResult{
			Title:        cached.Title,
			Synthesis:    cached.Synthesis,
			KeyPoints:    cached.KeyPoints,
			WhyItMatters: cached.WhyItMatters,
			Topics:       cached.Topics,
			Entities:     cached.Entities,
			FromCache:    true,
		}
	}

	if !s.aiRepo.IsAvailable(ctx) {
		s.logger.Warn("LLM unavailable, using extractive synthesis",
			logger.IntField("articles", len(articleIDs)))
		return s.extractiveFallback(cluster)
	}

	plan := s.selector.SelectContext(ctx, cluster.Articles, model)
	if len(plan.Dropped) > 0 {
		s.logger.Debug("Articles excluded from synthesis prompt",
			logger.IntField("dropped", len(plan.Dropped)),
			logger.StringField("strategy", plan.Strategy))
	}

	result, err := s.runStrategy(ctx, plan)
	if err != nil {
		s.logger.Warn("LLM synthesis failed, using extractive fallback",
			logger.ErrorField(err), logger.StringField("strategy", plan.Strategy))
		return s.extractiveFallback(cluster)
	}

	s.normalize(result, len(cluster.Articles))
	s.storeInCache(ctx, articleIDs, model, result)
	return result
}

func (s *Synthesizer) runStrategy(ctx context.Context, plan ContextPlan) (*dto.SynthesisResult, error) {
	switch plan.Strategy {
	case StrategyDirect:
		return s.aiRepo.SynthesizeCluster(ctx, plan.Articles)
	case StrategyMapReduce:
		summaries, err := s.mapGroups(ctx, plan.Groups)
		if err != nil {
			return nil, err
		}
		return s.aiRepo.ReduceSummaries(ctx, summaries)
	case StrategyHierarchical:
		summaries, err := s.mapGroups(ctx, plan.Groups)
		if err != nil {
			return nil, err
		}
		merged, err := s.mergeSummaryTier(ctx, summaries)
		if err != nil {
			return nil, err
		}
		return s.aiRepo.ReduceSummaries(ctx, merged)
	default:
		return nil, fmt.Errorf("unknown synthesis strategy: %s", plan.Strategy)
	}
}

// mapGroups runs the map pass over every group. Individual group
// failures are tolerated as long as at least one summary survives.
func (s *Synthesizer) mapGroups(ctx context.Context, groups [][]entity.Article) ([]dto.GroupSummary, error) {
	var summaries []dto.GroupSummary
	for i, group := range groups {
		summary, err := s.aiRepo.SummarizeGroup(ctx, group)
		if err != nil {
			s.logger.Warn("Group summary failed, skipping group",
				logger.ErrorField(err), logger.IntField("group", i))
			continue
		}
		summaries = append(summaries, *summary)
	}
	if len(summaries) == 0 {
		return nil, fmt.Errorf("all group summaries failed")
	}
	return summaries, nil
}

// mergeSummaryTier collapses the extra hierarchical tier: chunks of
// group summaries are reduced into intermediate summaries that feed the
// final reduce pass.
func (s *Synthesizer) mergeSummaryTier(ctx context.Context, summaries []dto.GroupSummary) ([]dto.GroupSummary, error) {
	if len(summaries) <= s.cfg.GroupSize {
		return summaries, nil
	}

	var merged []dto.GroupSummary
	for start := 0; start < len(summaries); start += s.cfg.GroupSize {
		end := start + s.cfg.GroupSize
		if end > len(summaries) {
			end = len(summaries)
		}
		reduced, err := s.aiRepo.ReduceSummaries(ctx, summaries[start:end])
		if err != nil {
			s.logger.Warn("Tier merge failed, skipping chunk", logger.ErrorField(err))
			continue
		}
		merged = append(merged, dto.GroupSummary{
			Summary:  reduced.Synthesis,
			KeyFacts: reduced.KeyPoints,
			Entities: reduced.Entities,
		})
	}
	if len(merged) == 0 {
		return nil, fmt.Errorf("all tier merges failed")
	}
	return merged, nil
}

// normalize pads short results so downstream validation always holds.
func (s *Synthesizer) normalize(result *dto.SynthesisResult, articleCount int) {
	result.Title = strings.TrimSpace(result.Title)
	if result.Title == "" {
		result.Title = "Untitled story"
	}
	for len(result.KeyPoints) < minKeyPoints {
		switch len(result.KeyPoints) {
		case 0:
			result.KeyPoints = append(result.KeyPoints, fmt.Sprintf("Based on %d sources", articleCount))
		case 1:
			result.KeyPoints = append(result.KeyPoints, "Multiple outlets reported on this development")
		default:
			result.KeyPoints = append(result.KeyPoints, "See linked articles for further detail")
		}
	}
}

// extractiveFallback assembles a synthesis without the LLM: titles make
// the narrative, key points are generic, and the dominant topic becomes
// the topic tag.
func (s *Synthesizer) extractiveFallback(cluster *Cluster) *dto.SynthesisResult {
	prioritized := Prioritize(cluster.Articles)

	titles := make([]string, 0, len(prioritized))
	for _, a := range prioritized {
		titles = append(titles, a.Title)
	}

	topicCounts := make(map[string]int)
	for _, a := range cluster.Articles {
		if a.Topic != "" {
			topicCounts[a.Topic]++
		}
	}
	var topics []string
	bestCount := 0
	for topic, count := range topicCounts {
		if count > bestCount {
			bestCount = count
			topics = []string{topic}
		}
	}

	var entities []string
	seen := make(map[string]struct{})
	for i := range cluster.Articles {
		cached := cluster.Articles[i].CachedEntities(s.aiRepo.Model())
		if cached == nil {
			continue
		}
		for _, mention := range cached.AllEntities() {
			key := strings.ToLower(mention.Name)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			entities = append(entities, mention.Name)
		}
	}

	result := &dto.SynthesisResult{
		Title:     prioritized[0].Title,
		Synthesis: strings.Join(titles, " · "),
		KeyPoints: []string{fmt.Sprintf("Based on %d sources", len(cluster.Articles))},
		Topics:    topics,
		Entities:  entities,
		Fallback:  true,
	}
	s.normalize(result, len(cluster.Articles))
	return result
}

// storeInCache upserts the synthesis result. Failures are logged only;
// a cache problem must never abort the owning synthesis.
func (s *Synthesizer) storeInCache(ctx context.Context, articleIDs []uint, model string, result *dto.SynthesisResult) {
	ids := make(pq.Int64Array, 0, len(articleIDs))
	for _, id := range articleIDs {
		ids = append(ids, int64(id))
	}

	now := utils.TimeNowUTC()
	cacheEntry := &entity.SynthesisCache{
		CacheKey:     entity.GenerateCacheKey(articleIDs, model),
		ArticleIDs:   ids,
		Model:        model,
		Title:        result.Title,
		Synthesis:    result.Synthesis,
		KeyPoints:    result.KeyPoints,
		WhyItMatters: result.WhyItMatters,
		Topics:       result.Topics,
		Entities:     result.Entities,
		ExpiresAt:    now.Add(s.cfg.CacheTTL),
	}

	if err := s.cacheRepo.Store(ctx, cacheEntry); err != nil {
		s.logger.Warn("Failed to store synthesis in cache", logger.ErrorField(err))
	}
}
