package service

import (
	"testing"

	"newsbrief/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestKeywordSimilarityIdenticalSets(t *testing.T) {
	a := map[string]int{"quantum": 2, "chip": 1}
	assert.Equal(t, 1.0, KeywordSimilarity(a, a))
}

func TestKeywordSimilarityEmptySets(t *testing.T) {
	assert.Equal(t, 0.0, KeywordSimilarity(nil, nil))
	assert.Equal(t, 0.0, KeywordSimilarity(map[string]int{"a": 1}, nil))
	assert.Equal(t, 0.0, KeywordSimilarity(nil, map[string]int{"a": 1}))
}

func TestKeywordSimilarityDisjointSets(t *testing.T) {
	a := map[string]int{"apple": 2}
	b := map[string]int{"orange": 2}
	assert.Equal(t, 0.0, KeywordSimilarity(a, b))
}

func TestKeywordSimilaritySymmetric(t *testing.T) {
	a := map[string]int{"apple": 2, "launch": 1, "event": 3}
	b := map[string]int{"apple": 1, "event": 1, "keynote": 2}
	assert.InDelta(t, KeywordSimilarity(a, b), KeywordSimilarity(b, a), 1e-12)
}

func TestKeywordSimilarityWeightedJaccard(t *testing.T) {
	a := map[string]int{"apple": 2, "launch": 1}
	b := map[string]int{"apple": 1, "event": 1}
	// min: apple 1; max: apple 2 + launch 1 + event 1
	assert.InDelta(t, 0.25, KeywordSimilarity(a, b), 1e-12)
}

func mentions(names ...string) []entity.EntityMention {
	out := make([]entity.EntityMention, 0, len(names))
	for _, n := range names {
		out = append(out, entity.EntityMention{Name: n})
	}
	return out
}

func TestEntitySimilarityIdentical(t *testing.T) {
	a := &entity.ExtractedEntities{Companies: mentions("OpenAI"), People: mentions("Sam Altman")}
	assert.InDelta(t, 1.0, EntitySimilarity(a, a), 1e-12)
}

func TestEntitySimilarityEmptySide(t *testing.T) {
	a := &entity.ExtractedEntities{Companies: mentions("OpenAI")}
	assert.Equal(t, 0.0, EntitySimilarity(a, nil))
	assert.Equal(t, 0.0, EntitySimilarity(nil, a))
	assert.Equal(t, 0.0, EntitySimilarity(a, &entity.ExtractedEntities{}))
}

func TestEntitySimilarityCaseInsensitiveNames(t *testing.T) {
	a := &entity.ExtractedEntities{Companies: mentions("OpenAI")}
	b := &entity.ExtractedEntities{Companies: mentions("openai")}
	assert.InDelta(t, 1.0, EntitySimilarity(a, b), 1e-12)
}

func TestEntitySimilarityPrimaryRoleBoost(t *testing.T) {
	primary := &entity.ExtractedEntities{
		Companies: []entity.EntityMention{{Name: "Nvidia", Role: "primary"}},
		Products:  mentions("H100"),
	}
	mentioned := &entity.ExtractedEntities{
		Companies: mentions("Nvidia"),
		Products:  mentions("MI300"),
	}
	// min: nvidia 1.0; max: nvidia 1.5 + h100 1.0 + mi300 1.0
	assert.InDelta(t, 1.0/3.5, EntitySimilarity(primary, mentioned), 1e-12)
}

func TestEntitySimilarityConfidenceWeights(t *testing.T) {
	a := &entity.ExtractedEntities{
		Companies: []entity.EntityMention{{Name: "Intel", Confidence: 0.5}},
	}
	b := &entity.ExtractedEntities{
		Companies: []entity.EntityMention{{Name: "Intel", Confidence: 1.0}},
	}
	assert.InDelta(t, 0.5, EntitySimilarity(a, b), 1e-12)
}

func TestCombinedSimilarityBlend(t *testing.T) {
	weights := DefaultSimilarityWeights()
	kw := map[string]int{"shared": 1}
	entA := &entity.ExtractedEntities{Companies: mentions("Acme")}
	entB := &entity.ExtractedEntities{Companies: mentions("Acme")}

	score := CombinedSimilarity(weights, kw, kw, entA, entB, "", "")
	assert.InDelta(t, 0.4*1.0+0.6*1.0, score, 1e-12)
}

func TestCombinedSimilarityCollapsesWithoutEntities(t *testing.T) {
	weights := DefaultSimilarityWeights()
	kw := map[string]int{"shared": 1}
	entA := &entity.ExtractedEntities{Companies: mentions("Acme")}

	score := CombinedSimilarity(weights, kw, kw, entA, nil, "", "")
	assert.InDelta(t, 1.0, score, 1e-12)
}

func TestCombinedSimilarityTopicBonusIsAdditive(t *testing.T) {
	weights := DefaultSimilarityWeights()
	kw := map[string]int{"shared": 1}

	withBonus := CombinedSimilarity(weights, kw, kw, nil, nil, "ai", "ai")
	withoutBonus := CombinedSimilarity(weights, kw, kw, nil, nil, "ai", "chips")

	assert.InDelta(t, withoutBonus+weights.TopicBonus, withBonus, 1e-12)
	assert.Greater(t, withBonus, 1.0)
}

func TestCombinedSimilarityNoBonusForEmptyTopic(t *testing.T) {
	weights := DefaultSimilarityWeights()
	kw := map[string]int{"shared": 1}

	score := CombinedSimilarity(weights, kw, kw, nil, nil, "", "")
	assert.InDelta(t, 1.0, score, 1e-12)
}
