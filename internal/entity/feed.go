package entity

import "time"

// Feed represents a subscribed RSS/Atom source.
type Feed struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	URL         string     `gorm:"unique;not null" json:"url"`
	Title       string     `json:"title"`
	Credibility float64    `gorm:"default:1.0" json:"credibility"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastFetched *time.Time `json:"last_fetched,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Feed model.
func (Feed) TableName() string {
	return "feeds"
}
