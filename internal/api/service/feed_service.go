package service

import (
	"context"
	"fmt"
	"net/url"

	"newsbrief/internal/api/dto"
	"newsbrief/internal/api/repository"
	"newsbrief/internal/entity"
	"newsbrief/pkg/logger"
)

// FeedService defines the feed management operations exposed by the API.
type FeedService interface {
	CreateFeed(ctx context.Context, req *dto.CreateFeedRequest) (*dto.FeedResponse, error)
	GetAllFeeds(ctx context.Context) ([]*dto.FeedResponse, error)
	UpdateFeed(ctx context.Context, id uint, req *dto.UpdateFeedRequest) (*dto.FeedResponse, error)
	DeleteFeed(ctx context.Context, id uint) error
}

// NewFeedService creates a new feed service.
func NewFeedService(feedRepo repository.FeedRepository, log *logger.Logger) FeedService {
	return &feedService{
		feedRepo: feedRepo,
		logger:   log,
	}
}

type feedService struct {
	feedRepo repository.FeedRepository
	logger   *logger.Logger
}

// CreateFeed registers a new feed subscription.
func (s *feedService) CreateFeed(ctx context.Context, req *dto.CreateFeedRequest) (*dto.FeedResponse, error) {
	parsed, err := url.Parse(req.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid feed URL %q", req.URL)
	}

	credibility := req.Credibility
	if credibility <= 0 {
		credibility = 1.0
	}

	feed := &entity.Feed{
		URL:         req.URL,
		Title:       req.Title,
		Credibility: credibility,
		IsActive:    true,
	}
	if err := s.feedRepo.Create(ctx, feed); err != nil {
		return nil, err
	}

	s.logger.Info("Feed created", logger.Field("feed_id", feed.ID), logger.StringField("url", feed.URL))
	return mapToFeedResponse(feed), nil
}

// GetAllFeeds retrieves all feed subscriptions.
func (s *feedService) GetAllFeeds(ctx context.Context) ([]*dto.FeedResponse, error) {
	feeds, err := s.feedRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]*dto.FeedResponse, 0, len(feeds))
	for i := range feeds {
		responses = append(responses, mapToFeedResponse(&feeds[i]))
	}
	return responses, nil
}

// UpdateFeed updates an existing feed subscription. A nil response
// means the feed does not exist.
func (s *feedService) UpdateFeed(ctx context.Context, id uint, req *dto.UpdateFeedRequest) (*dto.FeedResponse, error) {
	feed, err := s.feedRepo.FindByID(ctx, id)
	if err != nil || feed == nil {
		return nil, err
	}

	if req.Title != "" {
		feed.Title = req.Title
	}
	if req.Credibility != nil {
		feed.Credibility = *req.Credibility
	}
	if req.IsActive != nil {
		feed.IsActive = *req.IsActive
	}

	if err := s.feedRepo.Update(ctx, feed); err != nil {
		s.logger.Error("Failed to update feed", logger.ErrorField(err), logger.Field("feed_id", id))
		return nil, err
	}
	return mapToFeedResponse(feed), nil
}

// DeleteFeed removes a feed subscription.
func (s *feedService) DeleteFeed(ctx context.Context, id uint) error {
	if err := s.feedRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete feed", logger.ErrorField(err), logger.Field("feed_id", id))
		return err
	}
	s.logger.Info("Feed deleted", logger.Field("feed_id", id))
	return nil
}

// mapToFeedResponse maps an entity.Feed to a dto.FeedResponse.
func mapToFeedResponse(feed *entity.Feed) *dto.FeedResponse {
	return &dto.FeedResponse{
		ID:          feed.ID,
		URL:         feed.URL,
		Title:       feed.Title,
		Credibility: feed.Credibility,
		IsActive:    feed.IsActive,
		LastFetched: feed.LastFetched,
		CreatedAt:   feed.CreatedAt,
	}
}
