package service

import (
	"context"
	"fmt"
	"time"

	"newsbrief/internal/entity"
	"newsbrief/pkg/logger"

	gocache "github.com/patrickmn/go-cache"
)

const uncategorizedTopic = "uncategorized"

// Cluster is one group of related articles formed within a single
// pipeline run. Transient; only the resulting stories are persisted.
type Cluster struct {
	Topic    string
	Articles []entity.Article
}

// ArticleIDs returns the member article IDs in cluster order.
func (c *Cluster) ArticleIDs() []uint {
	ids := make([]uint, 0, len(c.Articles))
	for _, a := range c.Articles {
		ids = append(ids, a.ID)
	}
	return ids
}

// Clusterer groups candidate articles into topic-partitioned similarity
// clusters using greedy single-pass average-linkage assignment. The
// assignment is order-sensitive and makes no merging pass; that is a
// deliberate simplicity/performance tradeoff, kept predictable by
// feeding articles in a stable sort order.
type Clusterer struct {
	weights   SimilarityWeights
	entitySvc *EntityService
	logger    *logger.Logger
	runCache  *gocache.Cache
}

// NewClusterer creates a new Clusterer.
func NewClusterer(weights SimilarityWeights, entitySvc *EntityService, log *logger.Logger) *Clusterer {
	return &Clusterer{
		weights:   weights,
		entitySvc: entitySvc,
		logger:    log,
		runCache:  gocache.New(10*time.Minute, 15*time.Minute),
	}
}

type articleFeatures struct {
	keywords map[string]int
	entities *entity.ExtractedEntities
}

// features memoizes keyword extraction and entity lookup per article for
// the duration of a run.
func (c *Clusterer) features(ctx context.Context, article *entity.Article) *articleFeatures {
	key := fmt.Sprintf("features:%d", article.ID)
	if cached, ok := c.runCache.Get(key); ok {
		return cached.(*articleFeatures)
	}

	feats := &articleFeatures{
		keywords: ExtractKeywords(article.Title, article.BestSummary()),
		entities: c.entitySvc.ExtractAndCacheEntities(ctx, article, true),
	}
	c.runCache.Set(key, feats, gocache.DefaultExpiration)
	return feats
}

// ClusterArticles partitions candidates by topic and runs greedy
// similarity clustering within each partition, dropping clusters smaller
// than minArticles afterward.
func (c *Clusterer) ClusterArticles(ctx context.Context, articles []entity.Article, threshold float64, minArticles int) []Cluster {
	// Features are memoized per run only; a later run must see refreshed
	// article content and entity caches.
	c.runCache.Flush()

	byTopic := make(map[string][]entity.Article)
	var topicOrder []string
	for _, article := range articles {
		topic := article.Topic
		if topic == "" {
			topic = uncategorizedTopic
		}
		if _, seen := byTopic[topic]; !seen {
			topicOrder = append(topicOrder, topic)
		}
		byTopic[topic] = append(byTopic[topic], article)
	}

	var clusters []Cluster
	for _, topic := range topicOrder {
		group := byTopic[topic]
		topicClusters := c.clusterTopicGroup(ctx, topic, group, threshold)
		for _, cluster := range topicClusters {
			if len(cluster.Articles) < minArticles {
				continue
			}
			clusters = append(clusters, cluster)
		}
	}

	c.logger.Info("Clustering complete",
		logger.IntField("articles", len(articles)),
		logger.IntField("topics", len(byTopic)),
		logger.IntField("clusters", len(clusters)))

	return clusters
}

// clusterTopicGroup assigns each article, in arrival order, to the
// existing cluster with the highest average similarity over its current
// members, or starts a new singleton when no cluster reaches the
// threshold.
func (c *Clusterer) clusterTopicGroup(ctx context.Context, topic string, group []entity.Article, threshold float64) []Cluster {
	var clusters []Cluster

	for _, article := range group {
		feats := c.features(ctx, &article)

		bestIdx := -1
		bestScore := 0.0
		for idx := range clusters {
			score := c.averageSimilarity(ctx, feats, &article, clusters[idx].Articles)
			if score > bestScore {
				bestScore = score
				bestIdx = idx
			}
		}

		if bestIdx >= 0 && bestScore >= threshold {
			clusters[bestIdx].Articles = append(clusters[bestIdx].Articles, article)
		} else {
			clusters = append(clusters, Cluster{Topic: topic, Articles: []entity.Article{article}})
		}
	}

	return clusters
}

// averageSimilarity averages the combined similarity of the candidate
// against every current member, not a centroid.
func (c *Clusterer) averageSimilarity(ctx context.Context, feats *articleFeatures, article *entity.Article, members []entity.Article) float64 {
	if len(members) == 0 {
		return 0
	}

	total := 0.0
	for i := range members {
		member := &members[i]
		memberFeats := c.features(ctx, member)
		total += CombinedSimilarity(c.weights,
			feats.keywords, memberFeats.keywords,
			feats.entities, memberFeats.entities,
			article.Topic, member.Topic)
	}
	return total / float64(len(members))
}
