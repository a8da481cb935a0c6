package dto

import "time"

// CreateFeedRequest registers a new feed subscription.
type CreateFeedRequest struct {
	URL         string  `json:"url"`
	Title       string  `json:"title"`
	Credibility float64 `json:"credibility"`
}

// UpdateFeedRequest updates an existing feed subscription.
type UpdateFeedRequest struct {
	Title       string   `json:"title"`
	Credibility *float64 `json:"credibility,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// FeedResponse is the API representation of a feed subscription.
type FeedResponse struct {
	ID          uint       `json:"id"`
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Credibility float64    `json:"credibility"`
	IsActive    bool       `json:"is_active"`
	LastFetched *time.Time `json:"last_fetched,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
