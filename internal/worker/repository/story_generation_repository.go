package repository

import (
	"context"

	"newsbrief/internal/entity"

	"gorm.io/gorm"
)

// StoryGenerationRepository records pipeline runs.
type StoryGenerationRepository interface {
	Create(ctx context.Context, generation *entity.StoryGeneration) error
	Update(ctx context.Context, generation *entity.StoryGeneration) error
}

// NewStoryGenerationRepository creates a new GORM-based generation-run
// repository.
func NewStoryGenerationRepository(db *gorm.DB) StoryGenerationRepository {
	return &storyGenerationRepository{db: db}
}

type storyGenerationRepository struct {
	db *gorm.DB
}

// Create inserts a new generation run record.
func (r *storyGenerationRepository) Create(ctx context.Context, generation *entity.StoryGeneration) error {
	return r.db.WithContext(ctx).Create(generation).Error
}

// Update persists the final state of a generation run.
func (r *storyGenerationRepository) Update(ctx context.Context, generation *entity.StoryGeneration) error {
	return r.db.WithContext(ctx).Save(generation).Error
}
