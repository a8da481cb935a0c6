package service

import (
	"context"

	"newsbrief/pkg/common"

	"github.com/redis/go-redis/v9"
)

// ackAndDelete acknowledges a processed stream message and removes it so
// the stream does not grow unbounded.
func ackAndDelete(ctx context.Context, client *redis.Client, stream, messageID string) error {
	if err := client.XAck(ctx, stream, common.RedisStreamGroup, messageID).Err(); err != nil {
		return err
	}
	return client.XDel(ctx, stream, messageID).Err()
}
