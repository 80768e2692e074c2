package db

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ImportQueueKey    = "qnasearch:queue:import"
	TelegramCursorKey = "qnasearch:telegram:last_id"
	DeadLetterKey     = "qnasearch:queue:failed"
	attemptsKeyPrefix = "qnasearch:attempts:"
)

func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// Queue is a Redis list used as a FIFO work queue with per-item attempt
// counters and a dead-letter list.
type Queue struct {
	client *redis.Client
	key    string
}

func NewQueue(client *redis.Client, key string) *Queue {
	return &Queue{client: client, key: key}
}

func (q *Queue) Push(ctx context.Context, item string) error {
	return q.client.LPush(ctx, q.key, item).Err()
}

// Pop blocks for up to timeout. It reports false when nothing arrived.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (string, bool, error) {
	result, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return result[1], true, nil
}

func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

// Fail records a failed attempt for item and returns the attempt count.
func (q *Queue) Fail(ctx context.Context, item string) (int64, error) {
	return q.client.Incr(ctx, attemptsKeyPrefix+item).Result()
}

func (q *Queue) DeadLetter(ctx context.Context, item string) error {
	pipe := q.client.TxPipeline()
	pipe.LPush(ctx, DeadLetterKey, item)
	pipe.Del(ctx, attemptsKeyPrefix+item)
	_, err := pipe.Exec(ctx)
	return err
}

func (q *Queue) Done(ctx context.Context, item string) error {
	return q.client.Del(ctx, attemptsKeyPrefix+item).Err()
}

// Cursor stores the last processed id of a stream.
type Cursor struct {
	client *redis.Client
	key    string
}

func NewCursor(client *redis.Client, key string) *Cursor {
	return &Cursor{client: client, key: key}
}

// Get returns 0 when no cursor has been saved.
func (c *Cursor) Get(ctx context.Context) (int, error) {
	n, err := c.client.Get(ctx, c.key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (c *Cursor) Set(ctx context.Context, id int) error {
	return c.client.Set(ctx, c.key, strconv.Itoa(id), 0).Err()
}
