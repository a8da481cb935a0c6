package repository

import (
	"context"
	"time"

	"newsbrief/internal/entity"
	"newsbrief/pkg/logger"
	"newsbrief/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const invalidatedGracePeriod = 24 * time.Hour

// SynthesisCacheRepository defines the interface for the
// content-addressed synthesis cache.
type SynthesisCacheRepository interface {
	Get(ctx context.Context, articleIDs []uint, model string) (*entity.SynthesisCache, error)
	Store(ctx context.Context, cacheEntry *entity.SynthesisCache) error
	InvalidateForArticles(ctx context.Context, articleIDs []uint) (int64, error)
	CleanupExpired(ctx context.Context) (int64, error)
}

// NewSynthesisCacheRepository creates a new GORM-based synthesis cache
// repository.
func NewSynthesisCacheRepository(db *gorm.DB, log *logger.Logger) SynthesisCacheRepository {
	return &synthesisCacheRepository{db: db, logger: log}
}

type synthesisCacheRepository struct {
	db     *gorm.DB
	logger *logger.Logger
}

// Get looks up a cached synthesis by its deterministic key. Expired or
// invalidated entries are treated as misses.
func (r *synthesisCacheRepository) Get(ctx context.Context, articleIDs []uint, model string) (*entity.SynthesisCache, error) {
	cacheKey := entity.GenerateCacheKey(articleIDs, model)

	var cacheEntry entity.SynthesisCache
	err := r.db.WithContext(ctx).Where("cache_key = ?", cacheKey).First(&cacheEntry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	if !cacheEntry.IsValid(utils.TimeNowUTC()) {
		return nil, nil
	}
	return &cacheEntry, nil
}

// Store upserts a cache entry. A unique-key race with a concurrent
// writer resolves to an update; cache-store failures must never abort
// the owning synthesis, so callers log rather than propagate errors.
func (r *synthesisCacheRepository) Store(ctx context.Context, cacheEntry *entity.SynthesisCache) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "synthesis", "key_points", "why_it_matters",
			"topics", "entities", "expires_at", "invalidated_at",
		}),
	}).Create(cacheEntry).Error
}

// InvalidateForArticles tombstones every live entry whose member set
// intersects the given article IDs.
func (r *synthesisCacheRepository) InvalidateForArticles(ctx context.Context, articleIDs []uint) (int64, error) {
	if len(articleIDs) == 0 {
		return 0, nil
	}

	var live []entity.SynthesisCache
	err := r.db.WithContext(ctx).Select("id", "article_ids").
		Where("invalidated_at IS NULL").
		Find(&live).Error
	if err != nil {
		return 0, err
	}

	var hitIDs []uint
	for _, cacheEntry := range live {
		if cacheEntry.Covers(articleIDs) {
			hitIDs = append(hitIDs, cacheEntry.ID)
		}
	}
	if len(hitIDs) == 0 {
		return 0, nil
	}

	now := utils.TimeNowUTC()
	tx := r.db.WithContext(ctx).Model(&entity.SynthesisCache{}).
		Where("id IN ?", hitIDs).
		Update("invalidated_at", now)
	if tx.Error != nil {
		return 0, tx.Error
	}

	r.logger.Info("Invalidated synthesis cache entries", logger.IntField("count", int(tx.RowsAffected)))
	return tx.RowsAffected, nil
}

// CleanupExpired deletes entries past their TTL and invalidated entries
// older than the grace period.
func (r *synthesisCacheRepository) CleanupExpired(ctx context.Context) (int64, error) {
	now := utils.TimeNowUTC()

	expired := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&entity.SynthesisCache{})
	if expired.Error != nil {
		return 0, expired.Error
	}

	stale := r.db.WithContext(ctx).
		Where("invalidated_at IS NOT NULL AND invalidated_at < ?", now.Add(-invalidatedGracePeriod)).
		Delete(&entity.SynthesisCache{})
	if stale.Error != nil {
		return expired.RowsAffected, stale.Error
	}

	return expired.RowsAffected + stale.RowsAffected, nil
}
