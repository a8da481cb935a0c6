package repository

import (
	"context"

	"newsbrief/internal/entity"

	"gorm.io/gorm"
)

// StoryFilter narrows a story listing.
type StoryFilter struct {
	Status  string
	Topic   string
	OrderBy string
	Limit   int
	Offset  int
}

// listOrderings whitelists the order_by values; anything else falls back
// to the importance ordering.
var listOrderings = map[string]string{
	"importance":   "importance_score DESC, last_updated DESC",
	"freshness":    "freshness_score DESC, last_updated DESC",
	"last_updated": "last_updated DESC",
	"first_seen":   "first_seen DESC",
}

func listOrderClause(orderBy string) string {
	if clause, ok := listOrderings[orderBy]; ok {
		return clause
	}
	return listOrderings["importance"]
}

// StoryRepository defines the read-side story operations of the API.
type StoryRepository interface {
	FindAll(ctx context.Context, filter StoryFilter) ([]entity.Story, error)
	FindByID(ctx context.Context, id uint) (*entity.Story, error)
	FindVersions(ctx context.Context, id uint) ([]entity.Story, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
}

// NewStoryRepository creates a new GORM-based story repository.
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

type storyRepository struct {
	db *gorm.DB
}

const defaultListLimit = 20

// FindAll retrieves stories matching the filter, most important first.
func (r *storyRepository) FindAll(ctx context.Context, filter StoryFilter) ([]entity.Story, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = defaultListLimit
	}

	query := r.db.WithContext(ctx).Model(&entity.Story{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	} else {
		query = query.Where("status = ?", entity.StoryStatusActive)
	}
	if filter.Topic != "" {
		query = query.Where("? = ANY(topics)", filter.Topic)
	}

	var stories []entity.Story
	err := query.
		Order(listOrderClause(filter.OrderBy)).
		Limit(limit).
		Offset(filter.Offset).
		Find(&stories).Error
	if err != nil {
		return nil, err
	}
	return stories, nil
}

// FindByID retrieves one story with its member articles.
func (r *storyRepository) FindByID(ctx context.Context, id uint) (*entity.Story, error) {
	var story entity.Story
	err := r.db.WithContext(ctx).
		Preload("Articles").
		Preload("Articles.Article").
		First(&story, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &story, nil
}

// FindVersions walks the supersession chain of a story, newest first.
func (r *storyRepository) FindVersions(ctx context.Context, id uint) ([]entity.Story, error) {
	var versions []entity.Story
	currentID := &id
	for currentID != nil {
		var story entity.Story
		err := r.db.WithContext(ctx).First(&story, *currentID).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				break
			}
			return nil, err
		}
		versions = append(versions, story)
		currentID = story.PreviousVersionID
	}
	return versions, nil
}

// UpdateStatus sets the lifecycle status of a story.
func (r *storyRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&entity.Story{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Delete removes a story and its article links.
func (r *storyRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("story_id = ?", id).Delete(&entity.StoryArticle{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Story{}, id).Error
	})
}
