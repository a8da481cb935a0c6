package consumer

import (
	"context"
	"strings"
	"sync"
	"time"

	"newsbrief/internal/worker/config"
	"newsbrief/internal/worker/service"
	"newsbrief/pkg/common"
	"newsbrief/pkg/logger"
	"newsbrief/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// RedisConsumer manages the consumption of worker jobs from the Redis
// streams.
type RedisConsumer struct {
	cfg                    *config.Config
	redisClient            *redis.Client
	feedScraperService     service.FeedScraperService
	storyGenerationService service.StoryGenerationService
	cleanupService         service.CleanupService
	logger                 *logger.Logger
	stopChan               chan struct{}
	wg                     sync.WaitGroup
}

// NewRedisConsumer creates a new RedisConsumer.
func NewRedisConsumer(
	cfg *config.Config,
	redisClient *redis.Client,
	feedScraperService service.FeedScraperService,
	storyGenerationService service.StoryGenerationService,
	cleanupService service.CleanupService,
	log *logger.Logger,
) *RedisConsumer {
	return &RedisConsumer{
		cfg:                    cfg,
		redisClient:            redisClient,
		feedScraperService:     feedScraperService,
		storyGenerationService: storyGenerationService,
		cleanupService:         cleanupService,
		logger:                 log,
		stopChan:               make(chan struct{}),
	}
}

// Start begins the consumer's job processing loops.
func (c *RedisConsumer) Start(ctx context.Context) {
	c.logger.Info("Redis consumer started")
	c.ensureGroups(ctx)
	c.RegisterStreamHandler(ctx, c.feedScraperService.ProcessTask, common.RedisStreamFeedScraper, c.cfg.Worker.RedisStreamFeedScraperTimeout)
	c.RegisterStreamHandler(ctx, c.storyGenerationService.ProcessTask, common.RedisStreamStoryGeneration, c.cfg.Worker.RedisStreamStoryGenerationTimeout)
	c.RegisterStreamHandler(ctx, c.cleanupService.ProcessTask, common.RedisStreamCleanup, c.cfg.Worker.RedisStreamCleanupTimeout)
}

func (c *RedisConsumer) ensureGroups(ctx context.Context) {
	streams := []string{
		common.RedisStreamFeedScraper,
		common.RedisStreamStoryGeneration,
		common.RedisStreamCleanup,
	}
	for _, stream := range streams {
		err := c.redisClient.XGroupCreateMkStream(ctx, stream, common.RedisStreamGroup, "0").Err()
		// BUSYGROUP means the group already exists.
		if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
			c.logger.Error("Failed to create consumer group",
				logger.ErrorField(err), logger.StringField("stream", stream))
		}
	}
}

// RegisterStreamHandler runs fn in a loop until stopped, each invocation
// bounded by the given timeout.
func (c *RedisConsumer) RegisterStreamHandler(ctx context.Context, fn func(ctx context.Context), streamName string, timeout time.Duration) {
	c.logger.Info("Registering stream handler", logger.Field("stream", streamName))
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	c.wg.Add(1)
	utils.GoSafe(func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Redis consumer stopping due to context cancellation")
				return
			case <-c.stopChan:
				c.logger.Info("Redis consumer stopping")
				return
			default:
				ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
				fn(ctxTimeout)
				cancel()
			}
		}
	})
}

// Stop gracefully shuts down the consumer.
func (c *RedisConsumer) Stop() {
	close(c.stopChan)
	c.wg.Wait()
	c.logger.Info("Redis consumer stopped")
}
