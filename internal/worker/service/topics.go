package service

import (
	"strings"
	"time"

	"newsbrief/internal/worker/config"
)

// TopicClassifier assigns coarse topic labels from the configured
// interests. It is constructed explicitly from config so tests can build
// isolated instances; there is no process-wide cache.
type TopicClassifier struct {
	interests []config.Interest
}

// NewTopicClassifier creates a classifier from the interests config.
func NewTopicClassifier(interests []config.Interest) *TopicClassifier {
	return &TopicClassifier{interests: interests}
}

// Classify returns the topic whose keywords score the most hits in the
// title and summary, or "" when nothing matches.
func (c *TopicClassifier) Classify(title, summary string) string {
	text := strings.ToLower(title + " " + summary)

	bestTopic := ""
	bestHits := 0
	for _, interest := range c.interests {
		hits := 0
		for _, keyword := range interest.Keywords {
			if strings.Contains(text, strings.ToLower(keyword)) {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			bestTopic = interest.Topic
		}
	}
	return bestTopic
}

const rankRecencyWindow = 7 * 24 * time.Hour

// RankScore combines the feed credibility weight (0–2, neutral 1.0 when
// unset) with linear recency decay over a one-week window.
func RankScore(credibility float64, published *time.Time, now time.Time) float64 {
	if credibility <= 0 {
		credibility = 1.0
	}

	recency := 0.0
	if published != nil {
		age := now.Sub(*published)
		if age < 0 {
			age = 0
		}
		recency = 1.0 - age.Seconds()/rankRecencyWindow.Seconds()
		if recency < 0 {
			recency = 0
		}
	}

	return credibility * recency
}
