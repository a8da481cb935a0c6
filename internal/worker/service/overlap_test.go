package service

import (
	"testing"

	"newsbrief/internal/entity"

	"github.com/stretchr/testify/assert"
)

func storyWithArticles(id uint, articleIDs ...uint) entity.Story {
	story := entity.Story{ID: id}
	for _, aid := range articleIDs {
		story.Articles = append(story.Articles, entity.StoryArticle{StoryID: id, ArticleID: aid})
	}
	return story
}

func TestOverlapRatio(t *testing.T) {
	existing := []uint{1, 2, 3, 4, 5}

	assert.InDelta(t, 0.75, OverlapRatio([]uint{1, 2, 3, 7}, existing), 1e-12)
	assert.InDelta(t, 0.2, OverlapRatio([]uint{1, 6, 7, 8, 9}, existing), 1e-12)
	assert.InDelta(t, 1.0, OverlapRatio([]uint{1, 2, 3}, existing), 1e-12)
	assert.Equal(t, 0.0, OverlapRatio([]uint{8, 9}, existing))
}

func TestOverlapRatioEmptySides(t *testing.T) {
	assert.Equal(t, 0.0, OverlapRatio(nil, []uint{1, 2}))
	assert.Equal(t, 0.0, OverlapRatio([]uint{1, 2}, nil))
}

func TestFindBestOverlapMatchesMostlyContainedCandidate(t *testing.T) {
	stories := []entity.Story{storyWithArticles(10, 1, 2, 3, 4, 5)}

	best, ratio := FindBestOverlap([]uint{1, 2, 3, 7}, stories, 0.70)
	assert.NotNil(t, best)
	assert.Equal(t, uint(10), best.ID)
	assert.InDelta(t, 0.75, ratio, 1e-12)
}

func TestFindBestOverlapRejectsBelowThreshold(t *testing.T) {
	stories := []entity.Story{storyWithArticles(10, 1, 2, 3, 4, 5)}

	best, ratio := FindBestOverlap([]uint{1, 6, 7, 8, 9}, stories, 0.70)
	assert.Nil(t, best)
	assert.Equal(t, 0.0, ratio)
}

func TestFindBestOverlapPicksHighestRatio(t *testing.T) {
	stories := []entity.Story{
		storyWithArticles(10, 1, 2, 3),
		storyWithArticles(20, 1, 2, 3, 7),
	}

	// 3/4 of the candidate sits in story 10, all of it in story 20.
	best, ratio := FindBestOverlap([]uint{1, 2, 3, 7}, stories, 0.70)
	assert.NotNil(t, best)
	assert.Equal(t, uint(20), best.ID)
	assert.InDelta(t, 1.0, ratio, 1e-12)
}

func TestFindBestOverlapExactThresholdQualifies(t *testing.T) {
	stories := []entity.Story{storyWithArticles(10, 1, 2, 3, 4, 5, 6, 7)}

	best, ratio := FindBestOverlap([]uint{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, stories, 0.70)
	assert.NotNil(t, best)
	assert.InDelta(t, 0.7, ratio, 1e-12)
}

func TestMergeArticleIDsPreservesOrderWithoutDuplicates(t *testing.T) {
	merged := MergeArticleIDs([]uint{3, 1, 2}, []uint{2, 4, 1, 5})
	assert.Equal(t, []uint{3, 1, 2, 4, 5}, merged)
}

func TestMergeArticleIDsEmptySides(t *testing.T) {
	assert.Equal(t, []uint{1, 2}, MergeArticleIDs(nil, []uint{1, 2}))
	assert.Equal(t, []uint{1, 2}, MergeArticleIDs([]uint{1, 2}, nil))
}
