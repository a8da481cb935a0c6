package service

import (
	"context"
	"time"

	"newsbrief/internal/worker/config"
	"newsbrief/internal/worker/repository"
	"newsbrief/pkg/common"
	"newsbrief/pkg/logger"
	"newsbrief/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// CleanupService runs the retention sweeps: expired synthesis cache
// entries, stale active stories, and old archived stories.
type CleanupService interface {
	ProcessTask(ctx context.Context)
	Run(ctx context.Context) error
}

// NewCleanupService creates a new CleanupService.
func NewCleanupService(
	cfg *config.Config,
	log *logger.Logger,
	redisClient *redis.Client,
	storyRepo repository.StoryRepository,
	cacheRepo repository.SynthesisCacheRepository,
) CleanupService {
	return &cleanupService{
		cfg:         cfg,
		logger:      log,
		redisClient: redisClient,
		storyRepo:   storyRepo,
		cacheRepo:   cacheRepo,
	}
}

type cleanupService struct {
	cfg         *config.Config
	logger      *logger.Logger
	redisClient *redis.Client
	storyRepo   repository.StoryRepository
	cacheRepo   repository.SynthesisCacheRepository
}

// ProcessTask reads one cleanup job from the stream and runs the sweeps.
func (s *cleanupService) ProcessTask(ctx context.Context) {
	streams, err := s.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamCleanup, ">"},
		Count:    1,
		Block:    2 * time.Second,
	}).Result()
	if err != nil {
		if err == context.Canceled || err == redis.Nil {
			return
		}
		s.logger.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}
	message := streams[0].Messages[0]

	if err := s.Run(ctx); err != nil {
		// Sweeps are independent and rerun on the next schedule; the
		// message is still acknowledged.
		s.logger.Error("Cleanup failed", logger.ErrorField(err), logger.Field("message_id", message.ID))
	}

	if err := ackAndDelete(ctx, s.redisClient, common.RedisStreamCleanup, message.ID); err != nil {
		s.logger.Error("Failed to acknowledge cleanup task", logger.ErrorField(err), logger.Field("message_id", message.ID))
	}
}

// Run executes all retention sweeps. Sweeps are independent, so one
// failing does not stop the others; the first error is returned.
func (s *cleanupService) Run(ctx context.Context) error {
	now := utils.TimeNowUTC()
	var firstErr error

	removed, err := s.cacheRepo.CleanupExpired(ctx)
	if err != nil {
		s.logger.Error("Failed to clean up synthesis cache", logger.ErrorField(err))
		firstErr = err
	} else {
		s.logger.Info("Synthesis cache cleaned", logger.Field("removed", removed))
	}

	archiveBefore := now.AddDate(0, 0, -s.cfg.Retention.ArchiveActiveAfterDays)
	archived, err := s.storyRepo.ArchiveStaleActive(ctx, archiveBefore)
	if err != nil {
		s.logger.Error("Failed to archive stale stories", logger.ErrorField(err))
		if firstErr == nil {
			firstErr = err
		}
	} else {
		s.logger.Info("Stale stories archived", logger.Field("archived", archived))
	}

	deleteBefore := now.AddDate(0, 0, -s.cfg.Retention.DeleteArchivedAfterDays)
	deleted, err := s.storyRepo.DeleteArchivedBefore(ctx, deleteBefore)
	if err != nil {
		s.logger.Error("Failed to delete old archived stories", logger.ErrorField(err))
		if firstErr == nil {
			firstErr = err
		}
	} else {
		s.logger.Info("Old archived stories deleted", logger.Field("deleted", deleted))
	}

	return firstErr
}
