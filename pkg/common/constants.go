package common

const (
	RedisStreamFeedScraper     = "newsbrief.feed.scraper"
	RedisStreamStoryGeneration = "newsbrief.story.generation"
	RedisStreamCleanup         = "newsbrief.cleanup"

	RedisStreamGroup    = "worker-group"
	RedisStreamConsumer = "worker-consumer"
)
