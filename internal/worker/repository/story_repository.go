package repository

import (
	"context"
	"fmt"
	"time"

	"newsbrief/internal/entity"
	"newsbrief/pkg/logger"

	"gorm.io/gorm"
)

// StoryCommit describes one pending story write: either a brand-new
// story (SupersedesID nil) or a new version superseding an existing
// active story.
type StoryCommit struct {
	Story        entity.Story
	ArticleLinks []entity.StoryArticle
	SupersedesID *uint
}

// StoryRepository defines the pipeline-facing interface for story
// persistence and versioning.
type StoryRepository interface {
	FindActiveWithArticles(ctx context.Context) ([]entity.Story, error)
	ExistingHashes(ctx context.Context) (map[string]bool, error)
	CommitBatch(ctx context.Context, batch []StoryCommit) ([]uint, error)
	ArchiveStaleActive(ctx context.Context, before time.Time) (int64, error)
	DeleteArchivedBefore(ctx context.Context, before time.Time) (int64, error)
}

// NewStoryRepository creates a new GORM-based story repository.
func NewStoryRepository(db *gorm.DB, log *logger.Logger) StoryRepository {
	return &storyRepository{db: db, logger: log}
}

type storyRepository struct {
	db     *gorm.DB
	logger *logger.Logger
}

// FindActiveWithArticles retrieves all active stories with their article
// links. Only active stories are eligible for overlap updates.
func (r *storyRepository) FindActiveWithArticles(ctx context.Context) ([]entity.Story, error) {
	var stories []entity.Story
	err := r.db.WithContext(ctx).
		Preload("Articles").
		Where("status = ?", entity.StoryStatusActive).
		Find(&stories).Error
	if err != nil {
		return nil, err
	}
	return stories, nil
}

// ExistingHashes returns the story hashes of all active and superseded
// stories, the universe the duplicate guard checks against.
func (r *storyRepository) ExistingHashes(ctx context.Context) (map[string]bool, error) {
	var stories []entity.Story
	err := r.db.WithContext(ctx).Select("id", "story_hash").
		Where("status IN ?", []string{entity.StoryStatusActive, entity.StoryStatusSuperseded}).
		Find(&stories).Error
	if err != nil {
		return nil, err
	}

	hashes := make(map[string]bool, len(stories))
	for _, s := range stories {
		hashes[s.StoryHash] = true
	}
	return hashes, nil
}

// CommitBatch writes all pending stories in a single transaction: flush
// to assign IDs, link articles, supersede predecessors. Any failure
// rolls back the whole batch. Exact-duplicate hashes found inside the
// transaction are skipped, not errors, so two identical clusters in one
// run resolve deterministically to one story.
func (r *storyRepository) CommitBatch(ctx context.Context, batch []StoryCommit) ([]uint, error) {
	var storyIDs []uint

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range batch {
			commit := &batch[i]

			var existingCount int64
			if err := tx.Model(&entity.Story{}).
				Where("story_hash = ? AND status IN ?", commit.Story.StoryHash,
					[]string{entity.StoryStatusActive, entity.StoryStatusSuperseded}).
				Count(&existingCount).Error; err != nil {
				return fmt.Errorf("failed to check story hash: %w", err)
			}
			if existingCount > 0 {
				r.logger.Info("Skipping duplicate story",
					logger.StringField("story_hash", commit.Story.StoryHash))
				continue
			}

			if commit.SupersedesID != nil {
				var predecessor entity.Story
				if err := tx.First(&predecessor, *commit.SupersedesID).Error; err != nil {
					return fmt.Errorf("failed to load superseded story %d: %w", *commit.SupersedesID, err)
				}

				commit.Story.Version = predecessor.Version + 1
				commit.Story.PreviousVersionID = &predecessor.ID
				// first_seen travels the whole version chain.
				commit.Story.FirstSeen = predecessor.FirstSeen
			}

			if err := tx.Create(&commit.Story).Error; err != nil {
				return fmt.Errorf("failed to create story: %w", err)
			}

			for j := range commit.ArticleLinks {
				commit.ArticleLinks[j].StoryID = commit.Story.ID
			}
			if len(commit.ArticleLinks) > 0 {
				if err := tx.Create(&commit.ArticleLinks).Error; err != nil {
					return fmt.Errorf("failed to link articles to story %d: %w", commit.Story.ID, err)
				}
			}

			if commit.SupersedesID != nil {
				if err := tx.Model(&entity.Story{}).
					Where("id = ?", *commit.SupersedesID).
					Update("status", entity.StoryStatusSuperseded).Error; err != nil {
					return fmt.Errorf("failed to supersede story %d: %w", *commit.SupersedesID, err)
				}
			}

			storyIDs = append(storyIDs, commit.Story.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return storyIDs, nil
}

// ArchiveStaleActive archives active stories not updated since the
// given cutoff. Superseding never applies here; archiving is purely
// time-based.
func (r *storyRepository) ArchiveStaleActive(ctx context.Context, before time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&entity.Story{}).
		Where("status = ? AND last_updated < ?", entity.StoryStatusActive, before).
		Update("status", entity.StoryStatusArchived)
	return tx.RowsAffected, tx.Error
}

// DeleteArchivedBefore removes archived stories past the retention
// window, along with their article links.
func (r *storyRepository) DeleteArchivedBefore(ctx context.Context, before time.Time) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stale []entity.Story
		if err := tx.Select("id").
			Where("status = ? AND last_updated < ?", entity.StoryStatusArchived, before).
			Find(&stale).Error; err != nil {
			return err
		}
		if len(stale) == 0 {
			return nil
		}

		ids := make([]uint, 0, len(stale))
		for _, s := range stale {
			ids = append(ids, s.ID)
		}

		if err := tx.Where("story_id IN ?", ids).Delete(&entity.StoryArticle{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&entity.Story{})
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}
