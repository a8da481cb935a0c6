package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"

	"newsbrief/pkg/utils"
)

// SynthesisCache is a content-addressed cache entry for one LLM
// synthesis result, keyed by the sorted member article IDs plus model.
type SynthesisCache struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CacheKey      string         `gorm:"unique;not null" json:"cache_key"`
	ArticleIDs    pq.Int64Array  `gorm:"type:bigint[]" json:"article_ids"`
	Model         string         `gorm:"not null" json:"model"`
	Title         string         `json:"title"`
	Synthesis     string         `gorm:"type:text" json:"synthesis"`
	KeyPoints     pq.StringArray `gorm:"type:text[]" json:"key_points"`
	WhyItMatters  string         `gorm:"type:text" json:"why_it_matters"`
	Topics        pq.StringArray `gorm:"type:text[]" json:"topics"`
	Entities      pq.StringArray `gorm:"type:text[]" json:"entities"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt     time.Time      `gorm:"not null;index" json:"expires_at"`
	InvalidatedAt *time.Time     `json:"invalidated_at,omitempty"`
}

// TableName specifies the table name for the SynthesisCache model.
func (SynthesisCache) TableName() string {
	return "synthesis_cache"
}

// GenerateCacheKey returns the deterministic lookup key for a synthesis
// of the given articles under the given model: SHA-256 over the sorted
// IDs plus the model name.
func GenerateCacheKey(articleIDs []uint, model string) string {
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
	sb.WriteByte('|')
	sb.WriteString(model)

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// IsValid reports whether the entry may be served at the given instant:
// not explicitly invalidated and not past its TTL. Stored timestamps
// without a zone are treated as UTC.
func (c *SynthesisCache) IsValid(now time.Time) bool {
	if c.InvalidatedAt != nil {
		return false
	}
	return utils.AsUTC(c.ExpiresAt).After(now.UTC())
}

// Covers reports whether any of the given article IDs is a member of
// this cache entry.
func (c *SynthesisCache) Covers(articleIDs []uint) bool {
	members := make(map[int64]struct{}, len(c.ArticleIDs))
	for _, id := range c.ArticleIDs {
		members[id] = struct{}{}
	}
	for _, id := range articleIDs {
		if _, ok := members[int64(id)]; ok {
			return true
		}
	}
	return false
}
