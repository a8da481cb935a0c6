package dto

// StreamDataFeedScraper is the payload published on the feed scraper
// stream. An empty FeedIDs slice means all active feeds.
type StreamDataFeedScraper struct {
	FeedIDs []uint `json:"feed_ids,omitempty"`
}

// StreamDataStoryGeneration is the payload published on the story
// generation stream. Zero-valued fields fall back to configured
// defaults.
type StreamDataStoryGeneration struct {
	TimeWindowHours     int     `json:"time_window_hours,omitempty"`
	MinArticlesPerStory int     `json:"min_articles_per_story,omitempty"`
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty"`
	MaxWorkers          int     `json:"max_workers,omitempty"`
}

// StreamDataCleanup is the payload published on the cleanup stream.
type StreamDataCleanup struct {
	DryRun bool `json:"dry_run,omitempty"`
}
