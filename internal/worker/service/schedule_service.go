package service

import (
	"context"
	"encoding/json"
	"fmt"

	"newsbrief/internal/worker/config"
	"newsbrief/internal/worker/dto"
	"newsbrief/pkg/common"
	"newsbrief/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// ScheduleService publishes worker jobs to their Redis streams on the
// configured cron schedules.
type ScheduleService interface {
	Start(ctx context.Context) error
	Stop()
	PublishFeedScrape(ctx context.Context, payload dto.StreamDataFeedScraper) error
	PublishStoryGeneration(ctx context.Context, payload dto.StreamDataStoryGeneration) error
	PublishCleanup(ctx context.Context, payload dto.StreamDataCleanup) error
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(cfg *config.Config, log *logger.Logger, redisClient *redis.Client) ScheduleService {
	return &scheduleService{
		cfg:         cfg,
		logger:      log,
		redisClient: redisClient,
		cron:        cron.New(),
	}
}

type scheduleService struct {
	cfg         *config.Config
	logger      *logger.Logger
	redisClient *redis.Client
	cron        *cron.Cron
}

// Start registers the configured schedules and starts the cron runner.
// A job with an empty schedule is not registered.
func (s *scheduleService) Start(ctx context.Context) error {
	type schedule struct {
		name string
		expr string
		fn   func()
	}
	schedules := []schedule{
		{
			name: "feed_scraper",
			expr: s.cfg.Worker.FeedScraperSchedule,
			fn: func() {
				if err := s.PublishFeedScrape(ctx, dto.StreamDataFeedScraper{}); err != nil {
					s.logger.Error("Failed to publish feed scrape job", logger.ErrorField(err))
				}
			},
		},
		{
			name: "story_generation",
			expr: s.cfg.Worker.StoryGenerationSchedule,
			fn: func() {
				if err := s.PublishStoryGeneration(ctx, dto.StreamDataStoryGeneration{}); err != nil {
					s.logger.Error("Failed to publish story generation job", logger.ErrorField(err))
				}
			},
		},
		{
			name: "cleanup",
			expr: s.cfg.Worker.CleanupSchedule,
			fn: func() {
				if err := s.PublishCleanup(ctx, dto.StreamDataCleanup{}); err != nil {
					s.logger.Error("Failed to publish cleanup job", logger.ErrorField(err))
				}
			},
		},
	}

	for _, sched := range schedules {
		if sched.expr == "" {
			s.logger.Info("Schedule not configured, skipping", logger.StringField("job", sched.name))
			continue
		}
		if _, err := s.cron.AddFunc(sched.expr, sched.fn); err != nil {
			return fmt.Errorf("failed to register %s schedule %q: %w", sched.name, sched.expr, err)
		}
		s.logger.Info("Registered schedule",
			logger.StringField("job", sched.name),
			logger.StringField("cron", sched.expr))
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron runner, waiting for running publishes to finish.
func (s *scheduleService) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Schedule service stopped")
}

// PublishFeedScrape enqueues a feed scrape job.
func (s *scheduleService) PublishFeedScrape(ctx context.Context, payload dto.StreamDataFeedScraper) error {
	return s.publish(ctx, common.RedisStreamFeedScraper, payload)
}

// PublishStoryGeneration enqueues a story generation job.
func (s *scheduleService) PublishStoryGeneration(ctx context.Context, payload dto.StreamDataStoryGeneration) error {
	return s.publish(ctx, common.RedisStreamStoryGeneration, payload)
}

// PublishCleanup enqueues a cleanup job.
func (s *scheduleService) PublishCleanup(ctx context.Context, payload dto.StreamDataCleanup) error {
	return s.publish(ctx, common.RedisStreamCleanup, payload)
}

func (s *scheduleService) publish(ctx context.Context, stream string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal job payload: %w", err)
	}

	if err := s.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{"payload": string(data)},
		MaxLen: s.cfg.Redis.StreamMaxLen,
	}).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}

	s.logger.Info("Job published", logger.StringField("stream", stream))
	return nil
}
