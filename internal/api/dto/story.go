package dto

import "time"

// StoryArticleDTO is one member article of a story.
type StoryArticleDTO struct {
	ArticleID      uint    `json:"article_id"`
	Title          string  `json:"title"`
	Link           string  `json:"link"`
	Source         string  `json:"source"`
	RelevanceScore float64 `json:"relevance_score"`
	IsPrimary      bool    `json:"is_primary"`
}

// StoryResponse is the API representation of one story version.
type StoryResponse struct {
	ID                uint              `json:"id"`
	Title             string            `json:"title"`
	Synthesis         string            `json:"synthesis"`
	KeyPoints         []string          `json:"key_points"`
	WhyItMatters      string            `json:"why_it_matters"`
	Topics            []string          `json:"topics"`
	Entities          []string          `json:"entities"`
	ArticleCount      int               `json:"article_count"`
	ImportanceScore   float64           `json:"importance_score"`
	FreshnessScore    float64           `json:"freshness_score"`
	QualityScore      float64           `json:"quality_score"`
	Status            string            `json:"status"`
	Version           int               `json:"version"`
	PreviousVersionID *uint             `json:"previous_version_id,omitempty"`
	FirstSeen         time.Time         `json:"first_seen"`
	LastUpdated       time.Time         `json:"last_updated"`
	Articles          []StoryArticleDTO `json:"articles,omitempty"`
}

// ListStoriesRequest carries the query filters for listing stories.
type ListStoriesRequest struct {
	Status  string `query:"status"`
	Topic   string `query:"topic"`
	OrderBy string `query:"order_by"`
	Limit   int    `query:"limit"`
	Offset  int    `query:"offset"`
}

// GenerateStoriesRequest triggers a story generation run. Zero-valued
// fields fall back to the worker's configured defaults.
type GenerateStoriesRequest struct {
	TimeWindowHours     int     `json:"time_window_hours,omitempty"`
	MinArticlesPerStory int     `json:"min_articles_per_story,omitempty"`
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty"`
	MaxWorkers          int     `json:"max_workers,omitempty"`
}

// GenerateStoriesResponse acknowledges an enqueued generation run.
type GenerateStoriesResponse struct {
	Status string `json:"status"`
}
