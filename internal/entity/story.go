package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Story lifecycle states. A lineage only ever moves active→superseded
// (on update) or active→archived (time-based); archived stories are
// deleted after a retention window.
const (
	StoryStatusActive     = "active"
	StoryStatusArchived   = "archived"
	StoryStatusSuperseded = "superseded"
)

// Story is a synthesized aggregate of clustered articles. Updates never
// mutate a story in place: a new row with version+1 supersedes the old
// one, linked through PreviousVersionID.
type Story struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Title             string         `gorm:"not null" json:"title"`
	Synthesis         string         `gorm:"type:text" json:"synthesis"`
	KeyPoints         pq.StringArray `gorm:"type:text[]" json:"key_points"`
	WhyItMatters      string         `gorm:"type:text" json:"why_it_matters"`
	Topics            pq.StringArray `gorm:"type:text[]" json:"topics"`
	Entities          pq.StringArray `gorm:"type:text[]" json:"entities"`
	ArticleCount      int            `json:"article_count"`
	ImportanceScore   float64        `json:"importance_score"`
	FreshnessScore    float64        `json:"freshness_score"`
	QualityScore      float64        `json:"quality_score"`
	StoryHash         string         `gorm:"not null;index" json:"story_hash"`
	Status            string         `gorm:"type:varchar(20);default:active;index" json:"status"`
	Version           int            `gorm:"default:1" json:"version"`
	PreviousVersionID *uint          `json:"previous_version_id,omitempty"`
	FirstSeen         time.Time      `json:"first_seen"`
	LastUpdated       time.Time      `json:"last_updated"`
	TimeWindowStart   *time.Time     `json:"time_window_start,omitempty"`
	TimeWindowEnd     *time.Time     `json:"time_window_end,omitempty"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`

	Articles []StoryArticle `gorm:"foreignKey:StoryID" json:"articles,omitempty"`
}

// TableName specifies the table name for the Story model.
func (Story) TableName() string {
	return "stories"
}

// StoryArticle links a story version to one member article. Links are
// only ever created, never mutated.
type StoryArticle struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	StoryID        uint      `gorm:"not null;index" json:"story_id"`
	ArticleID      uint      `gorm:"not null;index" json:"article_id"`
	RelevanceScore float64   `json:"relevance_score"`
	IsPrimary      bool      `gorm:"default:false" json:"is_primary"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`

	Article *Article `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
}

// TableName specifies the table name for the StoryArticle model.
func (StoryArticle) TableName() string {
	return "story_articles"
}

// ComputeStoryHash returns the deterministic hash of a member-article-ID
// set: SHA-256 over the sorted IDs. Used for exact-duplicate detection.
func ComputeStoryHash(articleIDs []uint) string {
	sorted := make([]uint, len(articleIDs))
	copy(sorted, articleIDs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sb strings.Builder
	for i, id := range sorted {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", id)
	}

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// ArticleIDs returns the member article IDs of this story version.
func (s *Story) ArticleIDs() []uint {
	ids := make([]uint, 0, len(s.Articles))
	for _, link := range s.Articles {
		ids = append(ids, link.ArticleID)
	}
	return ids
}
