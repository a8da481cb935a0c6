package entity

import (
	"database/sql"
	"time"
)

// Generation run states.
const (
	GenerationStatusRunning   = "running"
	GenerationStatusCompleted = "completed"
	GenerationStatusFailed    = "failed"
)

// StoryGeneration records one run of the story generation pipeline.
type StoryGeneration struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Status       string         `gorm:"type:varchar(20);default:running" json:"status"`
	Model        string         `json:"model"`
	ArticleCount int            `json:"article_count"`
	ClusterCount int            `json:"cluster_count"`
	StoryCount   int            `json:"story_count"`
	ErrorMessage sql.NullString `json:"error_message,omitempty"`
	StartedAt    time.Time      `gorm:"autoCreateTime" json:"started_at"`
	CompletedAt  sql.NullTime   `json:"completed_at,omitempty"`
}

// TableName specifies the table name for the StoryGeneration model.
func (StoryGeneration) TableName() string {
	return "story_generations"
}
