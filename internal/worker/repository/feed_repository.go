package repository

import (
	"context"
	"time"

	"newsbrief/internal/entity"

	"gorm.io/gorm"
)

// FeedRepository defines the interface for interacting with feed data.
type FeedRepository interface {
	FindActive(ctx context.Context) ([]entity.Feed, error)
	UpdateLastFetched(ctx context.Context, feedID uint, fetchedAt time.Time) error
}

// NewFeedRepository creates a new GORM-based feed repository.
func NewFeedRepository(db *gorm.DB) FeedRepository {
	return &feedRepository{db: db}
}

type feedRepository struct {
	db *gorm.DB
}

// FindActive retrieves all feeds enabled for scraping.
func (r *feedRepository) FindActive(ctx context.Context) ([]entity.Feed, error) {
	var feeds []entity.Feed
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&feeds).Error; err != nil {
		return nil, err
	}
	return feeds, nil
}

// UpdateLastFetched records a completed fetch of a feed.
func (r *feedRepository) UpdateLastFetched(ctx context.Context, feedID uint, fetchedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.Feed{}).
		Where("id = ?", feedID).
		Update("last_fetched", fetchedAt).Error
}
