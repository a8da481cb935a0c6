package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeStoryHashOrderIndependent(t *testing.T) {
	a := ComputeStoryHash([]uint{5, 1, 9})
	b := ComputeStoryHash([]uint{1, 5, 9})
	assert.Equal(t, a, b)
}

func TestComputeStoryHashDistinguishesSets(t *testing.T) {
	assert.NotEqual(t, ComputeStoryHash([]uint{1, 2}), ComputeStoryHash([]uint{1, 3}))
	assert.NotEqual(t, ComputeStoryHash([]uint{1, 23}), ComputeStoryHash([]uint{12, 3}))
}

func TestStoryArticleIDs(t *testing.T) {
	story := &Story{Articles: []StoryArticle{
		{ArticleID: 7},
		{ArticleID: 3},
	}}
	assert.Equal(t, []uint{7, 3}, story.ArticleIDs())
}
