package service

import (
	"strings"

	"newsbrief/internal/entity"
)

// SimilarityWeights configures the combined-similarity blend. Construct
// via DefaultSimilarityWeights or from the clustering config; there is
// no package-level mutable state.
type SimilarityWeights struct {
	Keyword    float64
	Entity     float64
	TopicBonus float64
}

// DefaultSimilarityWeights returns the production blend.
func DefaultSimilarityWeights() SimilarityWeights {
	return SimilarityWeights{Keyword: 0.4, Entity: 0.6, TopicBonus: 0.2}
}

const primaryRoleBoost = 1.5

// KeywordSimilarity computes the weighted Jaccard index of two keyword
// multisets: sum of per-term minima over sum of per-term maxima.
// Symmetric; identical non-empty sets yield 1.0, two empty sets 0.
func KeywordSimilarity(a, b map[string]int) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var minSum, maxSum int
	for term, countA := range a {
		countB := b[term]
		if countA < countB {
			minSum += countA
			maxSum += countB
		} else {
			minSum += countB
			maxSum += countA
		}
	}
	for term, countB := range b {
		if _, seen := a[term]; !seen {
			maxSum += countB
		}
	}

	if maxSum == 0 {
		return 0
	}
	return float64(minSum) / float64(maxSum)
}

// entityWeights flattens an entity document into a name→weight map over
// the union of all five categories. Confidence weights apply when the
// extraction carried them; primary-subject mentions are boosted over
// plain mentions.
func entityWeights(entities *entity.ExtractedEntities) map[string]float64 {
	if entities == nil {
		return nil
	}

	weights := make(map[string]float64)
	for _, mention := range entities.AllEntities() {
		name := strings.ToLower(strings.TrimSpace(mention.Name))
		if name == "" {
			continue
		}
		weight := mention.Confidence
		if weight <= 0 {
			weight = 1.0
		}
		if strings.EqualFold(mention.Role, "primary") {
			weight *= primaryRoleBoost
		}
		if weight > weights[name] {
			weights[name] = weight
		}
	}
	return weights
}

// EntitySimilarity computes the weighted Jaccard index over the union of
// all entity categories of both articles.
func EntitySimilarity(a, b *entity.ExtractedEntities) float64 {
	weightsA := entityWeights(a)
	weightsB := entityWeights(b)
	if len(weightsA) == 0 || len(weightsB) == 0 {
		return 0
	}

	var minSum, maxSum float64
	for name, wa := range weightsA {
		wb := weightsB[name]
		if wa < wb {
			minSum += wa
			maxSum += wb
		} else {
			minSum += wb
			maxSum += wa
		}
	}
	for name, wb := range weightsB {
		if _, seen := weightsA[name]; !seen {
			maxSum += wb
		}
	}

	if maxSum == 0 {
		return 0
	}
	return minSum / maxSum
}

// CombinedSimilarity blends keyword and entity similarity and adds a
// fixed bonus when both articles share the same non-empty topic label.
// When either article lacks entity data the blend collapses to pure
// keyword similarity rather than penalizing the pair. The topic bonus is
// additive, so the result can exceed the keyword/entity blend alone.
func CombinedSimilarity(weights SimilarityWeights, keywordsA, keywordsB map[string]int, entitiesA, entitiesB *entity.ExtractedEntities, topicA, topicB string) float64 {
	keywordScore := KeywordSimilarity(keywordsA, keywordsB)

	var score float64
	if entitiesA.IsEmpty() || entitiesB.IsEmpty() {
		score = keywordScore
	} else {
		score = weights.Keyword*keywordScore + weights.Entity*EntitySimilarity(entitiesA, entitiesB)
	}

	if topicA != "" && topicA == topicB {
		score += weights.TopicBonus
	}

	return score
}
