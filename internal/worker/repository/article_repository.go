package repository

import (
	"context"
	"time"

	"newsbrief/internal/entity"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArticleRepository defines the interface for interacting with article data.
type ArticleRepository interface {
	CreateIgnoreConflict(ctx context.Context, article *entity.Article) (bool, error)
	FindByID(ctx context.Context, id uint) (*entity.Article, error)
	FindByLink(ctx context.Context, link string) (*entity.Article, error)
	FindExistingHashes(ctx context.Context, hashes []string) (map[string]bool, error)
	FindCandidates(ctx context.Context, since time.Time) ([]entity.Article, error)
	UpdateContent(ctx context.Context, id uint, rawContent, summary string) error
	UpdateEntities(ctx context.Context, id uint, doc datatypes.JSON) error
}

// NewArticleRepository creates a new GORM-based article repository.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

type articleRepository struct {
	db *gorm.DB
}

// CreateIgnoreConflict inserts a new article, skipping silently when the
// hash identifier already exists. It reports whether a row was written.
func (r *articleRepository) CreateIgnoreConflict(ctx context.Context, article *entity.Article) (bool, error) {
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hash_identifier"}},
		DoNothing: true,
	}).Create(article)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// FindByID retrieves one article.
func (r *articleRepository) FindByID(ctx context.Context, id uint) (*entity.Article, error) {
	var article entity.Article
	if err := r.db.WithContext(ctx).First(&article, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &article, nil
}

// FindByLink retrieves one article by its canonical link.
func (r *articleRepository) FindByLink(ctx context.Context, link string) (*entity.Article, error) {
	var article entity.Article
	if err := r.db.WithContext(ctx).Where("link = ?", link).First(&article).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &article, nil
}

// FindExistingHashes returns which of the given hash identifiers are
// already stored.
func (r *articleRepository) FindExistingHashes(ctx context.Context, hashes []string) (map[string]bool, error) {
	if len(hashes) == 0 {
		return map[string]bool{}, nil
	}

	var existing []entity.Article
	err := r.db.WithContext(ctx).Select("id", "hash_identifier").
		Where("hash_identifier IN ?", hashes).
		Find(&existing).Error
	if err != nil {
		return nil, err
	}

	found := make(map[string]bool, len(existing))
	for _, a := range existing {
		found[a.HashIdentifier] = true
	}
	return found, nil
}

// FindCandidates retrieves articles published in the clustering time
// window that carry some summary text, newest first. The stable sort
// keeps the order-sensitive clusterer deterministic across runs.
func (r *articleRepository) FindCandidates(ctx context.Context, since time.Time) ([]entity.Article, error) {
	var articles []entity.Article
	err := r.db.WithContext(ctx).
		Where("published >= ?", since).
		Where("(summary <> '' OR ai_summary <> '')").
		Order("published DESC, id DESC").
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// UpdateContent refreshes the extracted content of an existing article.
// Callers must invalidate any synthesis cache entries covering it.
func (r *articleRepository) UpdateContent(ctx context.Context, id uint, rawContent, summary string) error {
	return r.db.WithContext(ctx).Model(&entity.Article{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"raw_content": rawContent,
			"summary":     summary,
		}).Error
}

// UpdateEntities stores the extracted entity document on the article row.
func (r *articleRepository) UpdateEntities(ctx context.Context, id uint, doc datatypes.JSON) error {
	return r.db.WithContext(ctx).Model(&entity.Article{}).
		Where("id = ?", id).
		Update("entities_json", doc).Error
}
