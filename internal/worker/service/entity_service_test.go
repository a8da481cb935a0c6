package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"newsbrief/internal/entity"
	"newsbrief/internal/worker/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fakeEntityArticleRepo struct {
	updatedID  uint
	updatedDoc datatypes.JSON
	updateErr  error
}

func (f *fakeEntityArticleRepo) CreateIgnoreConflict(ctx context.Context, article *entity.Article) (bool, error) {
	return false, errors.New("not implemented")
}

func (f *fakeEntityArticleRepo) FindByID(ctx context.Context, id uint) (*entity.Article, error) {
	return nil, nil
}

func (f *fakeEntityArticleRepo) FindByLink(ctx context.Context, link string) (*entity.Article, error) {
	return nil, nil
}

func (f *fakeEntityArticleRepo) FindExistingHashes(ctx context.Context, hashes []string) (map[string]bool, error) {
	return nil, nil
}

func (f *fakeEntityArticleRepo) FindCandidates(ctx context.Context, since time.Time) ([]entity.Article, error) {
	return nil, nil
}

func (f *fakeEntityArticleRepo) UpdateContent(ctx context.Context, id uint, rawContent, summary string) error {
	return nil
}

func (f *fakeEntityArticleRepo) UpdateEntities(ctx context.Context, id uint, doc datatypes.JSON) error {
	f.updatedID = id
	f.updatedDoc = doc
	return f.updateErr
}

func TestExtractAndCacheEntitiesUsesCache(t *testing.T) {
	cached := &entity.ExtractedEntities{
		Model:     "test-model",
		Companies: []entity.EntityMention{{Name: "Cached Corp"}},
	}
	doc, err := json.Marshal(cached)
	require.NoError(t, err)

	ai := &fakeAIRepo{available: true, extractErr: errors.New("must not be called")}
	svc := NewEntityService(ai, &fakeEntityArticleRepo{}, testLogger())

	article := &entity.Article{ID: 1, EntitiesJSON: datatypes.JSON(doc)}
	got := svc.ExtractAndCacheEntities(context.Background(), article, true)

	require.NotNil(t, got)
	assert.Equal(t, "Cached Corp", got.Companies[0].Name)
}

func TestExtractAndCacheEntitiesExtractsAndPersists(t *testing.T) {
	ai := &fakeAIRepo{
		available: true,
		extractResult: &dto.EntityExtractionResult{
			Companies: []string{"Acme", ""},
			People:    []string{"Jane Doe"},
		},
	}
	repo := &fakeEntityArticleRepo{}
	svc := NewEntityService(ai, repo, testLogger())

	article := &entity.Article{ID: 7, Title: "Acme appoints Jane Doe"}
	got := svc.ExtractAndCacheEntities(context.Background(), article, true)

	require.NotNil(t, got)
	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Companies, 1, "empty names are dropped")
	assert.Equal(t, "Acme", got.Companies[0].Name)

	assert.Equal(t, uint(7), repo.updatedID)
	assert.NotEmpty(t, repo.updatedDoc)
	assert.NotEmpty(t, article.EntitiesJSON)
}

func TestExtractAndCacheEntitiesUnavailableLLM(t *testing.T) {
	ai := &fakeAIRepo{available: false}
	repo := &fakeEntityArticleRepo{}
	svc := NewEntityService(ai, repo, testLogger())

	got := svc.ExtractAndCacheEntities(context.Background(), &entity.Article{ID: 1}, true)

	require.NotNil(t, got)
	assert.True(t, got.IsEmpty())
	assert.Zero(t, repo.updatedID, "nothing persisted without an extraction")
}

func TestExtractAndCacheEntitiesExtractionError(t *testing.T) {
	ai := &fakeAIRepo{available: true, extractErr: errors.New("parse failure")}
	svc := NewEntityService(ai, &fakeEntityArticleRepo{}, testLogger())

	got := svc.ExtractAndCacheEntities(context.Background(), &entity.Article{ID: 1}, true)

	require.NotNil(t, got)
	assert.True(t, got.IsEmpty())
}

func TestExtractAndCacheEntitiesBypassesCacheWhenDisabled(t *testing.T) {
	cached := &entity.ExtractedEntities{
		Model:     "test-model",
		Companies: []entity.EntityMention{{Name: "Stale Corp"}},
	}
	doc, err := json.Marshal(cached)
	require.NoError(t, err)

	ai := &fakeAIRepo{
		available:     true,
		extractResult: &dto.EntityExtractionResult{Companies: []string{"Fresh Corp"}},
	}
	svc := NewEntityService(ai, &fakeEntityArticleRepo{}, testLogger())

	article := &entity.Article{ID: 1, EntitiesJSON: datatypes.JSON(doc)}
	got := svc.ExtractAndCacheEntities(context.Background(), article, false)

	require.NotNil(t, got)
	assert.Equal(t, "Fresh Corp", got.Companies[0].Name)
}

func TestGetCachedEntitiesModelMismatch(t *testing.T) {
	doc, err := json.Marshal(&entity.ExtractedEntities{Model: "other-model"})
	require.NoError(t, err)

	ai := &fakeAIRepo{}
	svc := NewEntityService(ai, &fakeEntityArticleRepo{}, testLogger())

	article := &entity.Article{EntitiesJSON: datatypes.JSON(doc)}
	assert.Nil(t, svc.GetCachedEntities(article, "test-model"))
}
