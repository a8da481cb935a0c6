package service

import (
	"context"
	"testing"
	"time"

	"newsbrief/internal/entity"
	"newsbrief/internal/worker/config"
	"newsbrief/internal/worker/dto"
	"newsbrief/internal/worker/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStoryRepo applies the commit semantics in memory: hash dedup,
// version chaining, first_seen propagation, supersession.
type fakeStoryRepo struct {
	stories map[uint]*entity.Story
	nextID  uint
}

func newFakeStoryRepo() *fakeStoryRepo {
	return &fakeStoryRepo{stories: make(map[uint]*entity.Story)}
}

func (f *fakeStoryRepo) FindActiveWithArticles(ctx context.Context) ([]entity.Story, error) {
	var active []entity.Story
	for _, story := range f.stories {
		if story.Status == entity.StoryStatusActive {
			active = append(active, *story)
		}
	}
	return active, nil
}

func (f *fakeStoryRepo) ExistingHashes(ctx context.Context) (map[string]bool, error) {
	hashes := make(map[string]bool)
	for _, story := range f.stories {
		if story.Status == entity.StoryStatusActive || story.Status == entity.StoryStatusSuperseded {
			hashes[story.StoryHash] = true
		}
	}
	return hashes, nil
}

func (f *fakeStoryRepo) CommitBatch(ctx context.Context, batch []repository.StoryCommit) ([]uint, error) {
	var storyIDs []uint
	for i := range batch {
		commit := batch[i]

		hashes, _ := f.ExistingHashes(ctx)
		if hashes[commit.Story.StoryHash] {
			continue
		}

		if commit.SupersedesID != nil {
			predecessor := f.stories[*commit.SupersedesID]
			commit.Story.Version = predecessor.Version + 1
			commit.Story.PreviousVersionID = &predecessor.ID
			commit.Story.FirstSeen = predecessor.FirstSeen
		}

		f.nextID++
		commit.Story.ID = f.nextID
		for j := range commit.ArticleLinks {
			commit.ArticleLinks[j].StoryID = commit.Story.ID
		}
		commit.Story.Articles = commit.ArticleLinks

		stored := commit.Story
		f.stories[stored.ID] = &stored

		if commit.SupersedesID != nil {
			f.stories[*commit.SupersedesID].Status = entity.StoryStatusSuperseded
		}
		storyIDs = append(storyIDs, stored.ID)
	}
	return storyIDs, nil
}

func (f *fakeStoryRepo) ArchiveStaleActive(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeStoryRepo) DeleteArchivedBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func newCommitTestPipeline(repo *fakeStoryRepo) *pipelineService {
	return &pipelineService{
		cfg: &config.Config{Clustering: config.Clustering{
			OverlapThreshold: 0.7,
			TimeWindowHours:  24,
		}},
		logger:    testLogger(),
		storyRepo: repo,
	}
}

func clusterResult(title string, articleIDs ...uint) clusterSynthesis {
	articles := make([]entity.Article, 0, len(articleIDs))
	for _, id := range articleIDs {
		articles = append(articles, entity.Article{ID: id, Title: title})
	}
	return clusterSynthesis{
		cluster: Cluster{Topic: "ai", Articles: articles},
		synthesis: &dto.SynthesisResult{
			Title:     title,
			Synthesis: "synthesis",
			KeyPoints: []string{"a", "b", "c"},
		},
	}
}

func TestCommitResultsVersionChain(t *testing.T) {
	repo := newFakeStoryRepo()
	p := newCommitTestPipeline(repo)
	ctx := context.Background()

	v1IDs, err := p.commitResults(ctx, []clusterSynthesis{clusterResult("first", 1, 2, 3, 4, 5)})
	require.NoError(t, err)
	require.Len(t, v1IDs, 1)
	v1 := repo.stories[v1IDs[0]]

	v2IDs, err := p.commitResults(ctx, []clusterSynthesis{clusterResult("second", 1, 2, 3, 4, 6)})
	require.NoError(t, err)
	require.Len(t, v2IDs, 1)
	v2 := repo.stories[v2IDs[0]]

	v3IDs, err := p.commitResults(ctx, []clusterSynthesis{clusterResult("third", 1, 2, 3, 4, 5, 6, 7)})
	require.NoError(t, err)
	require.Len(t, v3IDs, 1)
	v3 := repo.stories[v3IDs[0]]

	assert.Equal(t, 2, v2.Version)
	assert.Equal(t, 3, v3.Version)
	require.NotNil(t, v2.PreviousVersionID)
	assert.Equal(t, v1.ID, *v2.PreviousVersionID)
	require.NotNil(t, v3.PreviousVersionID)
	assert.Equal(t, v2.ID, *v3.PreviousVersionID)

	assert.Equal(t, entity.StoryStatusSuperseded, v1.Status)
	assert.Equal(t, entity.StoryStatusSuperseded, v2.Status)
	assert.Equal(t, entity.StoryStatusActive, v3.Status)

	assert.True(t, v2.FirstSeen.Equal(v1.FirstSeen))
	assert.True(t, v3.FirstSeen.Equal(v1.FirstSeen))

	assert.ElementsMatch(t, []uint{1, 2, 3, 4, 5, 6}, v2.ArticleIDs())
	assert.ElementsMatch(t, []uint{1, 2, 3, 4, 5, 6, 7}, v3.ArticleIDs())
}

func TestCommitResultsDedupIdempotence(t *testing.T) {
	repo := newFakeStoryRepo()
	p := newCommitTestPipeline(repo)
	ctx := context.Background()

	first, err := p.commitResults(ctx, []clusterSynthesis{clusterResult("story", 1, 2, 3)})
	require.NoError(t, err)
	require.Len(t, first, 1)

	// The same cluster again: full overlap resolves the merged set to
	// the identical hash, so the run is net-zero.
	second, err := p.commitResults(ctx, []clusterSynthesis{clusterResult("story", 1, 2, 3)})
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Len(t, repo.stories, 1)
	assert.Equal(t, entity.StoryStatusActive, repo.stories[first[0]].Status)
}

func TestCommitResultsSecondOverlapInBatchCreates(t *testing.T) {
	repo := newFakeStoryRepo()
	p := newCommitTestPipeline(repo)
	ctx := context.Background()

	seed, err := p.commitResults(ctx, []clusterSynthesis{clusterResult("seed", 1, 2, 3, 4, 5)})
	require.NoError(t, err)
	require.Len(t, seed, 1)

	ids, err := p.commitResults(ctx, []clusterSynthesis{
		clusterResult("extends", 1, 2, 3, 4, 6),
		clusterResult("also overlaps", 1, 2, 3, 4, 7),
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)

	update := repo.stories[ids[0]]
	created := repo.stories[ids[1]]
	assert.Equal(t, 2, update.Version)
	require.NotNil(t, update.PreviousVersionID)
	assert.Equal(t, seed[0], *update.PreviousVersionID)
	assert.Equal(t, 1, created.Version)
	assert.Nil(t, created.PreviousVersionID)
	assert.ElementsMatch(t, []uint{1, 2, 3, 4, 7}, created.ArticleIDs())
}

func TestCommitResultsSkipsFailedClusters(t *testing.T) {
	repo := newFakeStoryRepo()
	p := newCommitTestPipeline(repo)

	results := []clusterSynthesis{
		{cluster: Cluster{Topic: "ai"}, failed: true},
		{cluster: Cluster{Topic: "ai"}},
	}
	ids, err := p.commitResults(context.Background(), results)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Empty(t, repo.stories)
}

func TestPublishedWindow(t *testing.T) {
	early := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	mid := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	articles := []entity.Article{
		{Published: &mid},
		{Published: &late},
		{Published: nil},
		{Published: &early},
	}

	start, end := publishedWindow(articles)
	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.Equal(t, early, *start)
	assert.Equal(t, late, *end)
}

func TestPublishedWindowAllNil(t *testing.T) {
	start, end := publishedWindow([]entity.Article{{}, {}})
	assert.Nil(t, start)
	assert.Nil(t, end)
}

func TestImportanceScore(t *testing.T) {
	assert.InDelta(t, 0.3, importanceScore(3), 1e-12)
	assert.Equal(t, 1.0, importanceScore(10))
	assert.Equal(t, 1.0, importanceScore(25))
	assert.Equal(t, 0.0, importanceScore(0))
}

func TestFreshnessScore(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	recent := now.Add(-6 * time.Hour)
	assert.InDelta(t, 0.75, freshnessScore(&recent, now, 24), 1e-9)

	stale := now.Add(-48 * time.Hour)
	assert.Equal(t, 0.0, freshnessScore(&stale, now, 24))

	assert.Equal(t, 0.0, freshnessScore(nil, now, 24))

	future := now.Add(time.Hour)
	assert.Equal(t, 1.0, freshnessScore(&future, now, 24))
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-0.5))
	assert.Equal(t, 0.5, clamp01(0.5))
	assert.Equal(t, 1.0, clamp01(1.5))
}
