package entity

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const maxEntitiesPerCategory = 5

// Article represents a single ingested feed item.
type Article struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	FeedID         uint           `json:"feed_id"`
	Title          string         `gorm:"not null" json:"title"`
	Link           string         `gorm:"unique;not null" json:"link"`
	Summary        string         `json:"summary"`
	AISummary      string         `json:"ai_summary"`
	RawContent     string         `json:"raw_content"`
	Topic          string         `json:"topic"`
	Published      *time.Time     `json:"published,omitempty"`
	HashIdentifier string         `gorm:"unique;not null" json:"hash_identifier"`
	Source         string         `json:"source"`
	RankScore      float64        `json:"rank_score"`
	EntitiesJSON   datatypes.JSON `gorm:"type:jsonb" json:"entities_json,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Article model.
func (Article) TableName() string {
	return "articles"
}

// BestSummary returns the AI summary when present, the feed summary otherwise.
func (a *Article) BestSummary() string {
	if a.AISummary != "" {
		return a.AISummary
	}
	return a.Summary
}

// EntityMention is one extracted entity, optionally carrying enhanced
// confidence/role metadata from the extraction model.
type EntityMention struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence,omitempty"`
	Role       string  `json:"role,omitempty"`
}

// ExtractedEntities holds the five entity categories extracted from an
// article, plus the model that produced them. The document is stored as
// jsonb on the article row; a stored model different from the requesting
// model is a cache miss, not an error.
type ExtractedEntities struct {
	Model        string          `json:"model"`
	Companies    []EntityMention `json:"companies"`
	Products     []EntityMention `json:"products"`
	People       []EntityMention `json:"people"`
	Technologies []EntityMention `json:"technologies"`
	Locations    []EntityMention `json:"locations"`
}

// AllEntities returns the union of all five categories.
func (e *ExtractedEntities) AllEntities() []EntityMention {
	var all []EntityMention
	all = append(all, e.Companies...)
	all = append(all, e.Products...)
	all = append(all, e.People...)
	all = append(all, e.Technologies...)
	all = append(all, e.Locations...)
	return all
}

// IsEmpty reports whether no entities were extracted in any category.
func (e *ExtractedEntities) IsEmpty() bool {
	return e == nil || len(e.AllEntities()) == 0
}

// Cap enforces the per-category limit on LLM output.
func (e *ExtractedEntities) Cap() {
	e.Companies = capMentions(e.Companies)
	e.Products = capMentions(e.Products)
	e.People = capMentions(e.People)
	e.Technologies = capMentions(e.Technologies)
	e.Locations = capMentions(e.Locations)
}

func capMentions(mentions []EntityMention) []EntityMention {
	if len(mentions) > maxEntitiesPerCategory {
		return mentions[:maxEntitiesPerCategory]
	}
	return mentions
}

// CachedEntities decodes the stored entity document, returning nil when
// none is stored or the stored model does not match the requested one.
func (a *Article) CachedEntities(model string) *ExtractedEntities {
	if len(a.EntitiesJSON) == 0 {
		return nil
	}
	var entities ExtractedEntities
	if err := json.Unmarshal(a.EntitiesJSON, &entities); err != nil {
		return nil
	}
	if entities.Model != model {
		return nil
	}
	return &entities
}
