// Package queue moves job payloads through a Redis list.
package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/jobs"
)

// Queue is a FIFO of job payloads: producers RPUSH, the worker BLPOPs.
type Queue struct {
	rdb     *redis.Client
	name    string
	timeout time.Duration
}

// Open connects to the Redis server at url. popTimeout bounds each
// blocking pop.
func Open(ctx context.Context, url, name string, popTimeout time.Duration) (*Queue, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	// A blocking pop must not be cut off by the client read deadline.
	if opts.ReadTimeout >= 0 && opts.ReadTimeout < popTimeout+5*time.Second {
		opts.ReadTimeout = popTimeout + 5*time.Second
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return New(rdb, name, popTimeout), nil
}

// New wraps an existing client.
func New(rdb *redis.Client, name string, popTimeout time.Duration) *Queue {
	return &Queue{rdb: rdb, name: name, timeout: popTimeout}
}

// Name returns the list key.
func (q *Queue) Name() string {
	return q.name
}

// Pop waits up to the pop timeout for the next payload. It returns nil, nil
// when the wait times out. A message that does not decode is an error.
func (q *Queue) Pop(ctx context.Context) (*jobs.Payload, error) {
	res, err := q.rdb.BLPop(ctx, q.timeout, q.name).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pop %s: %w", q.name, err)
	}
	// res is [key, value].
	if len(res) != 2 {
		return nil, fmt.Errorf("pop %s: unexpected reply %v", q.name, res)
	}
	return jobs.DecodePayload([]byte(res[1]))
}

// Push appends a payload to the tail of the queue.
func (q *Queue) Push(ctx context.Context, p *jobs.Payload) error {
	data, err := p.Encode()
	if err != nil {
		return err
	}
	if err := q.rdb.RPush(ctx, q.name, data).Err(); err != nil {
		return fmt.Errorf("push %s: %w", q.name, err)
	}
	return nil
}

// Len returns the number of waiting payloads.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	n, err := q.rdb.LLen(ctx, q.name).Result()
	if err != nil {
		return 0, fmt.Errorf("queue length %s: %w", q.name, err)
	}
	return n, nil
}

// Connected reports whether the server answers a ping.
func (q *Queue) Connected(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return q.rdb.Ping(ctx).Err() == nil
}

// Close releases the connection pool.
func (q *Queue) Close() error {
	return q.rdb.Close()
}
