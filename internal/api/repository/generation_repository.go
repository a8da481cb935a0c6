package repository

import (
	"context"

	"newsbrief/internal/entity"

	"gorm.io/gorm"
)

// GenerationRepository defines the read-side generation run operations.
type GenerationRepository interface {
	FindAll(ctx context.Context, limit int) ([]entity.StoryGeneration, error)
	FindByID(ctx context.Context, id uint) (*entity.StoryGeneration, error)
}

// NewGenerationRepository creates a new GORM-based generation repository.
func NewGenerationRepository(db *gorm.DB) GenerationRepository {
	return &generationRepository{db: db}
}

type generationRepository struct {
	db *gorm.DB
}

// FindAll retrieves recent generation runs, newest first.
func (r *generationRepository) FindAll(ctx context.Context, limit int) ([]entity.StoryGeneration, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultListLimit
	}
	var generations []entity.StoryGeneration
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&generations).Error
	if err != nil {
		return nil, err
	}
	return generations, nil
}

// FindByID retrieves one generation run.
func (r *generationRepository) FindByID(ctx context.Context, id uint) (*entity.StoryGeneration, error) {
	var generation entity.StoryGeneration
	if err := r.db.WithContext(ctx).First(&generation, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &generation, nil
}
