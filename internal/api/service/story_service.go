package service

import (
	"context"
	"encoding/json"
	"fmt"

	"newsbrief/internal/api/config"
	"newsbrief/internal/api/dto"
	"newsbrief/internal/api/repository"
	"newsbrief/internal/entity"
	"newsbrief/pkg/common"
	"newsbrief/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// StoryService defines the story operations exposed by the API.
type StoryService interface {
	ListStories(ctx context.Context, req dto.ListStoriesRequest) ([]*dto.StoryResponse, error)
	GetStoryByID(ctx context.Context, id uint) (*dto.StoryResponse, error)
	GetStoryVersions(ctx context.Context, id uint) ([]*dto.StoryResponse, error)
	TriggerGeneration(ctx context.Context, req *dto.GenerateStoriesRequest) error
	ArchiveStory(ctx context.Context, id uint) error
	DeleteStory(ctx context.Context, id uint) error
}

// NewStoryService creates a new story service.
func NewStoryService(cfg *config.Config, storyRepo repository.StoryRepository, redisClient *redis.Client, log *logger.Logger) StoryService {
	return &storyService{
		cfg:         cfg,
		storyRepo:   storyRepo,
		redisClient: redisClient,
		logger:      log,
	}
}

type storyService struct {
	cfg         *config.Config
	storyRepo   repository.StoryRepository
	redisClient *redis.Client
	logger      *logger.Logger
}

// ListStories retrieves stories matching the filters.
func (s *storyService) ListStories(ctx context.Context, req dto.ListStoriesRequest) ([]*dto.StoryResponse, error) {
	stories, err := s.storyRepo.FindAll(ctx, repository.StoryFilter{
		Status:  req.Status,
		Topic:   req.Topic,
		OrderBy: req.OrderBy,
		Limit:   req.Limit,
		Offset:  req.Offset,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.StoryResponse, 0, len(stories))
	for i := range stories {
		responses = append(responses, mapToStoryResponse(&stories[i]))
	}
	return responses, nil
}

// GetStoryByID retrieves one story with its member articles. A nil
// response means the story does not exist.
func (s *storyService) GetStoryByID(ctx context.Context, id uint) (*dto.StoryResponse, error) {
	story, err := s.storyRepo.FindByID(ctx, id)
	if err != nil || story == nil {
		return nil, err
	}
	return mapToStoryResponse(story), nil
}

// GetStoryVersions retrieves the full version history of a story,
// newest first.
func (s *storyService) GetStoryVersions(ctx context.Context, id uint) ([]*dto.StoryResponse, error) {
	versions, err := s.storyRepo.FindVersions(ctx, id)
	if err != nil {
		return nil, err
	}
	responses := make([]*dto.StoryResponse, 0, len(versions))
	for i := range versions {
		responses = append(responses, mapToStoryResponse(&versions[i]))
	}
	return responses, nil
}

// TriggerGeneration enqueues a story generation run on the worker stream.
func (s *storyService) TriggerGeneration(ctx context.Context, req *dto.GenerateStoriesRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal generation payload: %w", err)
	}

	if err := s.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamStoryGeneration,
		Values: map[string]interface{}{"payload": string(payload)},
		MaxLen: s.cfg.Redis.StreamMaxLen,
	}).Err(); err != nil {
		return fmt.Errorf("failed to enqueue generation run: %w", err)
	}

	s.logger.Info("Story generation run enqueued")
	return nil
}

// ArchiveStory marks a story as archived.
func (s *storyService) ArchiveStory(ctx context.Context, id uint) error {
	if err := s.storyRepo.UpdateStatus(ctx, id, entity.StoryStatusArchived); err != nil {
		s.logger.Error("Failed to archive story", logger.ErrorField(err), logger.Field("story_id", id))
		return err
	}
	s.logger.Info("Story archived", logger.Field("story_id", id))
	return nil
}

// DeleteStory removes a story and its article links.
func (s *storyService) DeleteStory(ctx context.Context, id uint) error {
	if err := s.storyRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete story", logger.ErrorField(err), logger.Field("story_id", id))
		return err
	}
	s.logger.Info("Story deleted", logger.Field("story_id", id))
	return nil
}

// mapToStoryResponse maps an entity.Story to a dto.StoryResponse.
func mapToStoryResponse(story *entity.Story) *dto.StoryResponse {
	resp := &dto.StoryResponse{
		ID:                story.ID,
		Title:             story.Title,
		Synthesis:         story.Synthesis,
		KeyPoints:         story.KeyPoints,
		WhyItMatters:      story.WhyItMatters,
		Topics:            story.Topics,
		Entities:          story.Entities,
		ArticleCount:      story.ArticleCount,
		ImportanceScore:   story.ImportanceScore,
		FreshnessScore:    story.FreshnessScore,
		QualityScore:      story.QualityScore,
		Status:            story.Status,
		Version:           story.Version,
		PreviousVersionID: story.PreviousVersionID,
		FirstSeen:         story.FirstSeen,
		LastUpdated:       story.LastUpdated,
	}

	for _, link := range story.Articles {
		articleDTO := dto.StoryArticleDTO{
			ArticleID:      link.ArticleID,
			RelevanceScore: link.RelevanceScore,
			IsPrimary:      link.IsPrimary,
		}
		if link.Article != nil {
			articleDTO.Title = link.Article.Title
			articleDTO.Link = link.Article.Link
			articleDTO.Source = link.Article.Source
		}
		resp.Articles = append(resp.Articles, articleDTO)
	}
	return resp
}
