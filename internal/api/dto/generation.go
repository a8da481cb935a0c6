package dto

import "time"

// GenerationResponse is the API representation of one pipeline run.
type GenerationResponse struct {
	ID           uint       `json:"id"`
	Status       string     `json:"status"`
	Model        string     `json:"model"`
	ArticleCount int        `json:"article_count"`
	ClusterCount int        `json:"cluster_count"`
	StoryCount   int        `json:"story_count"`
	ErrorMessage string     `json:"error_message,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}
