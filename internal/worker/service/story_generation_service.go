package service

import (
	"context"
	"encoding/json"
	"time"

	"newsbrief/internal/worker/dto"
	"newsbrief/pkg/common"
	"newsbrief/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// StoryGenerationService consumes story generation jobs from the stream
// and hands them to the pipeline.
type StoryGenerationService interface {
	ProcessTask(ctx context.Context)
}

// NewStoryGenerationService creates a new StoryGenerationService.
func NewStoryGenerationService(log *logger.Logger, redisClient *redis.Client, pipeline PipelineService) StoryGenerationService {
	return &storyGenerationService{
		logger:      log,
		redisClient: redisClient,
		pipeline:    pipeline,
	}
}

type storyGenerationService struct {
	logger      *logger.Logger
	redisClient *redis.Client
	pipeline    PipelineService
}

// ProcessTask reads one story generation job from the stream and runs it.
func (s *storyGenerationService) ProcessTask(ctx context.Context) {
	streams, err := s.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamStoryGeneration, ">"},
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

	// Every consumed message is acknowledged, success or not: a failed
	// run is recorded on the generation row and a poison payload cannot
	// improve on retry, so nothing may sit in the pending list forever.
	defer func() {
		if err := ackAndDelete(ctx, s.redisClient, common.RedisStreamStoryGeneration, message.ID); err != nil {
			s.logger.Error("Failed to acknowledge story generation task", logger.ErrorField(err), logger.Field("message_id", message.ID))
		}
	}()

	payload, ok := message.Values["payload"].(string)
	if !ok {
		s.logger.Error("field 'payload' not found or not a string in stream message", logger.Field("message_id", message.ID))
		return
	}

	var streamData dto.StreamDataStoryGeneration
	if err := json.Unmarshal([]byte(payload), &streamData); err != nil {
		s.logger.Error("Failed to unmarshal task data", logger.ErrorField(err), logger.Field("message_id", message.ID))
		return
	}

	storyIDs, err := s.pipeline.GenerateStories(ctx, GenerationParams{
		TimeWindowHours:     streamData.TimeWindowHours,
		MinArticlesPerStory: streamData.MinArticlesPerStory,
		SimilarityThreshold: streamData.SimilarityThreshold,
		MaxWorkers:          streamData.MaxWorkers,
	})
	if err != nil {
		s.logger.Error("Story generation failed", logger.ErrorField(err), logger.Field("message_id", message.ID))
		return
	}

	s.logger.Info("Story generation completed",
		logger.IntField("stories", len(storyIDs)),
		logger.Field("message_id", message.ID))
}
