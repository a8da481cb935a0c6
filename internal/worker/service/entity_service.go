package service

import (
	"context"
	"encoding/json"

	"newsbrief/internal/entity"
	"newsbrief/internal/worker/dto"
	"newsbrief/internal/worker/repository"
	"newsbrief/pkg/logger"

	"gorm.io/datatypes"
)

// EntityService manages per-article extracted entities with a persistent
// cache on the article row, keyed by the extraction model.
type EntityService struct {
	aiRepo      repository.AIRepository
	articleRepo repository.ArticleRepository
	logger      *logger.Logger
}

// NewEntityService creates a new EntityService.
func NewEntityService(aiRepo repository.AIRepository, articleRepo repository.ArticleRepository, log *logger.Logger) *EntityService {
	return &EntityService{
		aiRepo:      aiRepo,
		articleRepo: articleRepo,
		logger:      log,
	}
}

// GetCachedEntities returns the cached entities for the article, or nil
// when nothing is cached or the cached model differs from the requested
// one. A model mismatch is a miss, not an error.
func (s *EntityService) GetCachedEntities(article *entity.Article, model string) *entity.ExtractedEntities {
	return article.CachedEntities(model)
}

// ExtractAndCacheEntities returns the article's entities, extracting via
// the LLM on a cache miss and persisting the result. Extraction degrades
// gracefully: an unavailable LLM or a parse failure yields empty
// entities, never an error, so similarity falls back to keywords alone.
func (s *EntityService) ExtractAndCacheEntities(ctx context.Context, article *entity.Article, useCache bool) *entity.ExtractedEntities {
	model := s.aiRepo.Model()

	if useCache {
		if cached := s.GetCachedEntities(article, model); cached != nil {
			return cached
		}
	}

	empty := &entity.ExtractedEntities{Model: model}

	if !s.aiRepo.IsAvailable(ctx) {
		return empty
	}

	result, err := s.aiRepo.ExtractEntities(ctx, article.Title, article.BestSummary())
	if err != nil {
		s.logger.Warn("Entity extraction failed, continuing without entities",
			logger.ErrorField(err), logger.Field("article_id", article.ID))
		return empty
	}

	extracted := fromExtractionResult(model, result)
	extracted.Cap()

	doc, err := json.Marshal(extracted)
	if err != nil {
		s.logger.Warn("Failed to marshal entity document", logger.ErrorField(err))
		return extracted
	}
	article.EntitiesJSON = datatypes.JSON(doc)
	if err := s.articleRepo.UpdateEntities(ctx, article.ID, article.EntitiesJSON); err != nil {
		s.logger.Warn("Failed to persist entity cache",
			logger.ErrorField(err), logger.Field("article_id", article.ID))
	}

	return extracted
}

func fromExtractionResult(model string, result *dto.EntityExtractionResult) *entity.ExtractedEntities {
	return &entity.ExtractedEntities{
		Model:        model,
		Companies:    toMentions(result.Companies),
		Products:     toMentions(result.Products),
		People:       toMentions(result.People),
		Technologies: toMentions(result.Technologies),
		Locations:    toMentions(result.Locations),
	}
}

func toMentions(names []string) []entity.EntityMention {
	mentions := make([]entity.EntityMention, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		mentions = append(mentions, entity.EntityMention{Name: name})
	}
	return mentions
}
