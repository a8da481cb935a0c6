package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"newsbrief/internal/entity"
	"newsbrief/internal/worker/config"
	"newsbrief/internal/worker/dto"
	"newsbrief/internal/worker/repository"
	"newsbrief/pkg/logger"
	"newsbrief/pkg/telegram"
	"newsbrief/pkg/utils"
)

// GenerationParams are the per-run knobs of the story pipeline. Zero
// values fall back to the configured defaults.
type GenerationParams struct {
	TimeWindowHours     int
	MinArticlesPerStory int
	SimilarityThreshold float64
	MaxWorkers          int
}

// PipelineService drives one story generation run end to end.
type PipelineService interface {
	GenerateStories(ctx context.Context, params GenerationParams) ([]uint, error)
}

// NewPipelineService creates a new PipelineService.
func NewPipelineService(
	cfg *config.Config,
	log *logger.Logger,
	articleRepo repository.ArticleRepository,
	storyRepo repository.StoryRepository,
	generationRepo repository.StoryGenerationRepository,
	clusterer *Clusterer,
	synthesizer *Synthesizer,
	notifier telegram.Notifier,
) PipelineService {
	return &pipelineService{
		cfg:            cfg,
		logger:         log,
		articleRepo:    articleRepo,
		storyRepo:      storyRepo,
		generationRepo: generationRepo,
		clusterer:      clusterer,
		synthesizer:    synthesizer,
		notifier:       notifier,
	}
}

type pipelineService struct {
	cfg            *config.Config
	logger         *logger.Logger
	articleRepo    repository.ArticleRepository
	storyRepo      repository.StoryRepository
	generationRepo repository.StoryGenerationRepository
	clusterer      *Clusterer
	synthesizer    *Synthesizer
	notifier       telegram.Notifier
}

type clusterSynthesis struct {
	cluster   Cluster
	synthesis *dto.SynthesisResult
	failed    bool
}

// GenerateStories runs the full pipeline: fetch candidates, cluster,
// synthesize in parallel, then commit new stories and new versions in a
// single batched transaction. The returned IDs are the stories written
// by this run; an empty slice with an error means the commit failed and
// nothing was written.
func (s *pipelineService) GenerateStories(ctx context.Context, params GenerationParams) ([]uint, error) {
	s.applyDefaults(&params)

	generation := &entity.StoryGeneration{
		Status: entity.GenerationStatusRunning,
		Model:  s.synthesizer.aiRepo.Model(),
	}
	if err := s.generationRepo.Create(ctx, generation); err != nil {
		s.logger.Warn("Failed to record generation run", logger.ErrorField(err))
	}

	storyIDs, err := s.run(ctx, params, generation)

	generation.StoryCount = len(storyIDs)
	generation.CompletedAt = sql.NullTime{Time: utils.TimeNowUTC(), Valid: true}
	if err != nil {
		generation.Status = entity.GenerationStatusFailed
		generation.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
	} else {
		generation.Status = entity.GenerationStatusCompleted
	}
	if updateErr := s.generationRepo.Update(ctx, generation); updateErr != nil {
		s.logger.Warn("Failed to update generation run", logger.ErrorField(updateErr))
	}

	return storyIDs, err
}

func (s *pipelineService) applyDefaults(params *GenerationParams) {
	if params.TimeWindowHours == 0 {
		params.TimeWindowHours = s.cfg.Clustering.TimeWindowHours
	}
	if params.MinArticlesPerStory == 0 {
		params.MinArticlesPerStory = s.cfg.Clustering.MinArticlesPerStory
	}
	if params.SimilarityThreshold == 0 {
		params.SimilarityThreshold = s.cfg.Clustering.SimilarityThreshold
	}
	if params.MaxWorkers == 0 {
		params.MaxWorkers = s.cfg.Clustering.MaxWorkers
	}
}

func (s *pipelineService) run(ctx context.Context, params GenerationParams, generation *entity.StoryGeneration) ([]uint, error) {
	since := utils.TimeNowUTC().Add(-time.Duration(params.TimeWindowHours) * time.Hour)
	candidates, err := s.articleRepo.FindCandidates(ctx, since)
	if err != nil {
		return nil, err
	}
	generation.ArticleCount = len(candidates)

	if len(candidates) == 0 {
		s.logger.Info("No candidate articles in window")
		return nil, nil
	}

	clusters := s.clusterer.ClusterArticles(ctx, candidates, params.SimilarityThreshold, params.MinArticlesPerStory)
	generation.ClusterCount = len(clusters)
	if len(clusters) == 0 {
		s.logger.Info("No clusters met the story minimum",
			logger.IntField("articles", len(candidates)))
		return nil, nil
	}

	results := s.synthesizeAll(ctx, clusters, params.MaxWorkers)

	return s.commitResults(ctx, results)
}

// synthesizeAll fans cluster synthesis out over a bounded worker pool.
// Results land in a slice keyed by cluster index; one cluster's failure
// never cancels its siblings.
func (s *pipelineService) synthesizeAll(ctx context.Context, clusters []Cluster, maxWorkers int) []clusterSynthesis {
	results := make([]clusterSynthesis, len(clusters))
	semaphore := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for i := range clusters {
		if !utils.ShouldContinue(ctx, s.logger) {
			results[i] = clusterSynthesis{cluster: clusters[i], failed: true}
			continue
		}
		wg.Add(1)
		idx := i
		utils.GoSafe(func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			cluster := clusters[idx]
			synthesis := s.synthesizer.Synthesize(ctx, &cluster)
			results[idx] = clusterSynthesis{cluster: cluster, synthesis: synthesis}
		})
	}
	wg.Wait()

	return results
}

// commitResults processes syntheses sequentially and writes everything
// in one batched transaction, keeping the story_hash dedup and the
// supersession chain free of write-write races.
func (s *pipelineService) commitResults(ctx context.Context, results []clusterSynthesis) ([]uint, error) {
	activeStories, err := s.storyRepo.FindActiveWithArticles(ctx)
	if err != nil {
		return nil, err
	}
	existingHashes, err := s.storyRepo.ExistingHashes(ctx)
	if err != nil {
		return nil, err
	}

	now := utils.TimeNowUTC()
	supersededInBatch := make(map[uint]bool)
	var batch []repository.StoryCommit
	var digest []telegram.StoryDigestEntry

	for _, result := range results {
		if result.failed || result.synthesis == nil {
			continue
		}

		candidateIDs := result.cluster.ArticleIDs()

		overlapping, ratio := FindBestOverlap(candidateIDs, activeStories, s.cfg.Clustering.OverlapThreshold)
		if overlapping != nil && supersededInBatch[overlapping.ID] {
			overlapping = nil
		}

		var commit repository.StoryCommit
		if overlapping != nil {
			s.logger.Info("Updating overlapping story",
				logger.Field("story_id", overlapping.ID),
				logger.Float64Field("overlap_ratio", ratio))
			commit = s.buildUpdateCommit(overlapping, &result, now)
			supersededInBatch[overlapping.ID] = true
		} else {
			hash := entity.ComputeStoryHash(candidateIDs)
			if existingHashes[hash] {
				s.logger.Info("Skipping duplicate cluster", logger.StringField("story_hash", hash))
				continue
			}
			existingHashes[hash] = true
			commit = s.buildCreateCommit(&result, now)
		}

		batch = append(batch, commit)
		digest = append(digest, telegram.StoryDigestEntry{
			Title:        commit.Story.Title,
			Synthesis:    commit.Story.Synthesis,
			Topics:       commit.Story.Topics,
			ArticleCount: commit.Story.ArticleCount,
			Version:      commit.Story.Version,
			IsUpdate:     commit.SupersedesID != nil,
		})
	}

	if len(batch) == 0 {
		return nil, nil
	}

	storyIDs, err := s.storyRepo.CommitBatch(ctx, batch)
	if err != nil {
		s.logger.Error("Batch commit failed, run produced no stories", logger.ErrorField(err))
		return nil, err
	}

	s.notifyDigest(digest)
	return storyIDs, nil
}

func (s *pipelineService) buildCreateCommit(result *clusterSynthesis, now time.Time) repository.StoryCommit {
	prioritized := Prioritize(result.cluster.Articles)
	links := make([]entity.StoryArticle, 0, len(prioritized))
	for i, article := range prioritized {
		links = append(links, entity.StoryArticle{
			ArticleID:      article.ID,
			RelevanceScore: clamp01(article.RankScore),
			IsPrimary:      i == 0,
		})
	}

	windowStart, windowEnd := publishedWindow(result.cluster.Articles)
	memberIDs := result.cluster.ArticleIDs()

	return repository.StoryCommit{
		Story:        s.buildStory(result, memberIDs, windowStart, windowEnd, now),
		ArticleLinks: links,
	}
}

// buildUpdateCommit produces the new version of an existing story: the
// full merged article set gets a fresh link set, with existing links
// copied over so relevance and the primary flag carry forward.
func (s *pipelineService) buildUpdateCommit(existing *entity.Story, result *clusterSynthesis, now time.Time) repository.StoryCommit {
	existingIDs := existing.ArticleIDs()
	mergedIDs := MergeArticleIDs(existingIDs, result.cluster.ArticleIDs())

	existingByArticle := make(map[uint]entity.StoryArticle, len(existing.Articles))
	for _, link := range existing.Articles {
		existingByArticle[link.ArticleID] = link
	}
	newRank := make(map[uint]float64, len(result.cluster.Articles))
	for _, article := range result.cluster.Articles {
		newRank[article.ID] = clamp01(article.RankScore)
	}

	links := make([]entity.StoryArticle, 0, len(mergedIDs))
	for _, articleID := range mergedIDs {
		if prior, ok := existingByArticle[articleID]; ok {
			links = append(links, entity.StoryArticle{
				ArticleID:      articleID,
				RelevanceScore: prior.RelevanceScore,
				IsPrimary:      prior.IsPrimary,
			})
		} else {
			links = append(links, entity.StoryArticle{
				ArticleID:      articleID,
				RelevanceScore: newRank[articleID],
			})
		}
	}

	windowStart, windowEnd := publishedWindow(result.cluster.Articles)
	if existing.TimeWindowStart != nil && (windowStart == nil || existing.TimeWindowStart.Before(*windowStart)) {
		windowStart = existing.TimeWindowStart
	}
	if existing.TimeWindowEnd != nil && (windowEnd == nil || existing.TimeWindowEnd.After(*windowEnd)) {
		windowEnd = existing.TimeWindowEnd
	}

	story := s.buildStory(result, mergedIDs, windowStart, windowEnd, now)
	supersedesID := existing.ID
	return repository.StoryCommit{
		Story:        story,
		ArticleLinks: links,
		SupersedesID: &supersedesID,
	}
}

func (s *pipelineService) buildStory(result *clusterSynthesis, memberIDs []uint, windowStart, windowEnd *time.Time, now time.Time) entity.Story {
	synthesis := result.synthesis

	quality := 0.8
	if synthesis.Fallback {
		quality = 0.4
	}

	return entity.Story{
		Title:           synthesis.Title,
		Synthesis:       synthesis.Synthesis,
		KeyPoints:       synthesis.KeyPoints,
		WhyItMatters:    synthesis.WhyItMatters,
		Topics:          synthesis.Topics,
		Entities:        synthesis.Entities,
		ArticleCount:    len(memberIDs),
		ImportanceScore: importanceScore(len(memberIDs)),
		FreshnessScore:  freshnessScore(windowEnd, now, s.cfg.Clustering.TimeWindowHours),
		QualityScore:    quality,
		StoryHash:       entity.ComputeStoryHash(memberIDs),
		Status:          entity.StoryStatusActive,
		Version:         1,
		FirstSeen:       now,
		LastUpdated:     now,
		TimeWindowStart: windowStart,
		TimeWindowEnd:   windowEnd,
	}
}

func (s *pipelineService) notifyDigest(digest []telegram.StoryDigestEntry) {
	if s.notifier == nil || len(digest) == 0 {
		return
	}
	for _, message := range telegram.FormatStoryDigest(digest) {
		if err := s.notifier.SendMessage(message); err != nil {
			s.logger.Error("Failed to send Telegram digest", logger.ErrorField(err))
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func publishedWindow(articles []entity.Article) (*time.Time, *time.Time) {
	var start, end *time.Time
	for i := range articles {
		published := articles[i].Published
		if published == nil {
			continue
		}
		if start == nil || published.Before(*start) {
			start = published
		}
		if end == nil || published.After(*end) {
			end = published
		}
	}
	return start, end
}

func importanceScore(articleCount int) float64 {
	return clamp01(float64(articleCount) / 10.0)
}

func freshnessScore(windowEnd *time.Time, now time.Time, windowHours int) float64 {
	if windowEnd == nil || windowHours <= 0 {
		return 0
	}
	age := now.Sub(*windowEnd)
	if age < 0 {
		age = 0
	}
	return clamp01(1.0 - age.Hours()/float64(windowHours))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
