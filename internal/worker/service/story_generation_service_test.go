package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"newsbrief/pkg/common"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storyStreamFake short-circuits the redis command pipeline: it serves
// one stream message and records acknowledgments, so consumer behavior
// is testable without a server.
type storyStreamFake struct {
	payload  string
	consumed bool
	acked    []string
	deleted  []string
}

func (f *storyStreamFake) DialHook(next redis.DialHook) redis.DialHook { return next }

func (f *storyStreamFake) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (f *storyStreamFake) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		switch c := cmd.(type) {
		case *redis.XStreamSliceCmd:
			if f.consumed {
				return redis.Nil
			}
			f.consumed = true
			c.SetVal([]redis.XStream{{
				Stream: common.RedisStreamStoryGeneration,
				Messages: []redis.XMessage{{
					ID:     "7-0",
					Values: map[string]interface{}{"payload": f.payload},
				}},
			}})
		case *redis.IntCmd:
			args := c.Args()
			messageID := fmt.Sprint(args[len(args)-1])
			switch c.Name() {
			case "xack":
				f.acked = append(f.acked, messageID)
				c.SetVal(1)
			case "xdel":
				f.deleted = append(f.deleted, messageID)
				c.SetVal(1)
			}
		}
		return nil
	}
}

func newFakeStreamClient(fake *storyStreamFake) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})
	client.AddHook(fake)
	return client
}

type fakePipeline struct {
	params GenerationParams
	calls  int
	ids    []uint
	err    error
}

func (f *fakePipeline) GenerateStories(ctx context.Context, params GenerationParams) ([]uint, error) {
	f.calls++
	f.params = params
	return f.ids, f.err
}

func TestProcessTaskRunsPipelineAndAcks(t *testing.T) {
	fake := &storyStreamFake{payload: `{"time_window_hours": 48, "max_workers": 2}`}
	pipeline := &fakePipeline{ids: []uint{1, 2}}
	svc := NewStoryGenerationService(testLogger(), newFakeStreamClient(fake), pipeline)

	svc.ProcessTask(context.Background())

	require.Equal(t, 1, pipeline.calls)
	assert.Equal(t, 48, pipeline.params.TimeWindowHours)
	assert.Equal(t, 2, pipeline.params.MaxWorkers)
	assert.Equal(t, []string{"7-0"}, fake.acked)
	assert.Equal(t, []string{"7-0"}, fake.deleted)
}

func TestProcessTaskAcksFailedRuns(t *testing.T) {
	fake := &storyStreamFake{payload: `{"time_window_hours": 24}`}
	pipeline := &fakePipeline{err: errors.New("commit failed")}
	svc := NewStoryGenerationService(testLogger(), newFakeStreamClient(fake), pipeline)

	svc.ProcessTask(context.Background())

	require.Equal(t, 1, pipeline.calls)
	assert.Equal(t, []string{"7-0"}, fake.acked, "failed runs must not strand the message in the pending list")
	assert.Equal(t, []string{"7-0"}, fake.deleted)
}

func TestProcessTaskAcksPoisonPayload(t *testing.T) {
	fake := &storyStreamFake{payload: "not json"}
	pipeline := &fakePipeline{}
	svc := NewStoryGenerationService(testLogger(), newFakeStreamClient(fake), pipeline)

	svc.ProcessTask(context.Background())

	assert.Equal(t, 0, pipeline.calls)
	assert.Equal(t, []string{"7-0"}, fake.acked)
}

func TestProcessTaskEmptyStream(t *testing.T) {
	fake := &storyStreamFake{consumed: true}
	pipeline := &fakePipeline{}
	svc := NewStoryGenerationService(testLogger(), newFakeStreamClient(fake), pipeline)

	svc.ProcessTask(context.Background())

	assert.Equal(t, 0, pipeline.calls)
	assert.Empty(t, fake.acked)
}
