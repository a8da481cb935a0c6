package repository

import (
	"context"

	"newsbrief/internal/entity"

	"gorm.io/gorm"
)

// FeedRepository defines the feed management operations of the API.
type FeedRepository interface {
	Create(ctx context.Context, feed *entity.Feed) error
	FindAll(ctx context.Context) ([]entity.Feed, error)
	FindByID(ctx context.Context, id uint) (*entity.Feed, error)
	Update(ctx context.Context, feed *entity.Feed) error
	Delete(ctx context.Context, id uint) error
}

// NewFeedRepository creates a new GORM-based feed repository.
func NewFeedRepository(db *gorm.DB) FeedRepository {
	return &feedRepository{db: db}
}

type feedRepository struct {
	db *gorm.DB
}

// Create registers a new feed subscription.
func (r *feedRepository) Create(ctx context.Context, feed *entity.Feed) error {
	return r.db.WithContext(ctx).Create(feed).Error
}

// FindAll retrieves all feed subscriptions.
func (r *feedRepository) FindAll(ctx context.Context) ([]entity.Feed, error) {
	var feeds []entity.Feed
	if err := r.db.WithContext(ctx).Order("id").Find(&feeds).Error; err != nil {
		return nil, err
	}
	return feeds, nil
}

// FindByID retrieves one feed subscription.
func (r *feedRepository) FindByID(ctx context.Context, id uint) (*entity.Feed, error) {
	var feed entity.Feed
	if err := r.db.WithContext(ctx).First(&feed, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &feed, nil
}

// Update saves changes to an existing feed subscription.
func (r *feedRepository) Update(ctx context.Context, feed *entity.Feed) error {
	return r.db.WithContext(ctx).Save(feed).Error
}

// Delete removes a feed subscription. Already ingested articles stay.
func (r *feedRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Feed{}, id).Error
}
