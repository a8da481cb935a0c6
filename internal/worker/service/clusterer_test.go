package service

import (
	"context"
	"testing"

	"newsbrief/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newKeywordOnlyClusterer builds a clusterer whose entity extraction is
// offline, so similarity collapses to the keyword signal.
func newKeywordOnlyClusterer() *Clusterer {
	ai := &fakeAIRepo{available: false}
	entitySvc := NewEntityService(ai, nil, testLogger())
	return NewClusterer(DefaultSimilarityWeights(), entitySvc, testLogger())
}

func TestClusterArticlesGroupsRelatedHeadlines(t *testing.T) {
	clusterer := newKeywordOnlyClusterer()

	articles := []entity.Article{
		{ID: 1, Topic: "ai", Title: "OpenAI releases GPT-5 model with improved reasoning"},
		{ID: 2, Topic: "ai", Title: "OpenAI GPT-5 model release brings improved reasoning to developers"},
		{ID: 3, Topic: "ai", Title: "GPT-5 release: OpenAI model improves reasoning benchmarks"},
		{ID: 4, Topic: "ai", Title: "Robotics lab demonstrates warehouse automation arm"},
		{ID: 5, Topic: "chips", Title: "Foundry announces wafer capacity expansion"},
	}

	clusters := clusterer.ClusterArticles(context.Background(), articles, 0.25, 2)

	require.Len(t, clusters, 1)
	assert.Equal(t, "ai", clusters[0].Topic)
	assert.ElementsMatch(t, []uint{1, 2, 3}, clusters[0].ArticleIDs())
}

func TestClusterArticlesMinSizeFilter(t *testing.T) {
	clusterer := newKeywordOnlyClusterer()

	articles := []entity.Article{
		{ID: 1, Topic: "ai", Title: "OpenAI releases GPT-5 model with improved reasoning"},
		{ID: 2, Topic: "ai", Title: "Robotics lab demonstrates warehouse automation arm"},
	}

	clusters := clusterer.ClusterArticles(context.Background(), articles, 0.25, 2)
	assert.Empty(t, clusters)

	clusters = clusterer.ClusterArticles(context.Background(), articles, 0.25, 1)
	assert.Len(t, clusters, 2)
}

func TestClusterArticlesPartitionsByTopic(t *testing.T) {
	clusterer := newKeywordOnlyClusterer()

	// Identical headlines in different topic partitions never meet.
	articles := []entity.Article{
		{ID: 1, Topic: "ai", Title: "Chipmaker announces record datacenter revenue"},
		{ID: 2, Topic: "chips", Title: "Chipmaker announces record datacenter revenue"},
	}

	clusters := clusterer.ClusterArticles(context.Background(), articles, 0.25, 1)

	require.Len(t, clusters, 2)
	assert.NotEqual(t, clusters[0].Topic, clusters[1].Topic)
	assert.Len(t, clusters[0].Articles, 1)
	assert.Len(t, clusters[1].Articles, 1)
}

func TestClusterArticlesEmptyTopicFallsBackToUncategorized(t *testing.T) {
	clusterer := newKeywordOnlyClusterer()

	articles := []entity.Article{
		{ID: 1, Title: "Satellite launch reaches orbit successfully"},
		{ID: 2, Title: "Satellite launch reaches orbit after successful liftoff"},
	}

	clusters := clusterer.ClusterArticles(context.Background(), articles, 0.25, 2)

	require.Len(t, clusters, 1)
	assert.Equal(t, uncategorizedTopic, clusters[0].Topic)
}

func TestClusterArticlesNoInput(t *testing.T) {
	clusterer := newKeywordOnlyClusterer()
	assert.Empty(t, clusterer.ClusterArticles(context.Background(), nil, 0.25, 2))
}

func TestClusterArticlesRefreshesFeaturesBetweenRuns(t *testing.T) {
	clusterer := newKeywordOnlyClusterer()

	first := []entity.Article{
		{ID: 1, Topic: "ai", Title: "Satellite launch reaches orbit successfully"},
		{ID: 2, Topic: "ai", Title: "Satellite launch reaches orbit after successful liftoff"},
	}
	clusters := clusterer.ClusterArticles(context.Background(), first, 0.25, 2)
	require.Len(t, clusters, 1)

	// Same article ID, retitled between runs. Stale memoized keywords
	// would still cluster it with article 2.
	second := []entity.Article{
		{ID: 1, Topic: "ai", Title: "Chipmaker posts record quarterly earnings"},
		{ID: 2, Topic: "ai", Title: "Satellite launch reaches orbit after successful liftoff"},
	}
	clusters = clusterer.ClusterArticles(context.Background(), second, 0.25, 2)
	assert.Empty(t, clusters)
}

func TestClusterArticlesAssignsToBestCluster(t *testing.T) {
	clusterer := newKeywordOnlyClusterer()

	articles := []entity.Article{
		{ID: 1, Topic: "ai", Title: "OpenAI releases GPT-5 model with improved reasoning"},
		{ID: 2, Topic: "ai", Title: "Robotics lab demonstrates warehouse automation arm"},
		{ID: 3, Topic: "ai", Title: "Robotics lab warehouse automation arm handles fragile items"},
	}

	clusters := clusterer.ClusterArticles(context.Background(), articles, 0.25, 1)

	require.Len(t, clusters, 2)
	var robotics *Cluster
	for i := range clusters {
		for _, id := range clusters[i].ArticleIDs() {
			if id == 2 {
				robotics = &clusters[i]
			}
		}
	}
	require.NotNil(t, robotics)
	assert.ElementsMatch(t, []uint{2, 3}, robotics.ArticleIDs())
}
