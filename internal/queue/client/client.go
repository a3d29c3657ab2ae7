package client

import (
	"context"
	"errors"
	"sync"

	"github.com/hibiken/asynq"
)

type ctxKey int

const (
	_ ctxKey = iota
	asyncQCtxKey
)

var (
	globalClient *asynq.Client
	globalMu     sync.RWMutex

	ErrNoClient = errors.New("asynq client is not configured")
)

// GetClient returns the client stored in ctx, or the global one.
func GetClient(ctx context.Context) *asynq.Client {
	if c, ok := ctx.Value(asyncQCtxKey).(*asynq.Client); ok {
		return c
	}

	globalMu.RLock()
	client := globalClient
	globalMu.RUnlock()

	return client
}

// WithClient stores client in ctx so it takes precedence over the global one.
func WithClient(ctx context.Context, client *asynq.Client) context.Context {
	return context.WithValue(ctx, asyncQCtxKey, client)
}

// SetClient replaces the global client and returns a function restoring the
// previous one.
func SetClient(client *asynq.Client) func() {
	globalMu.Lock()
	prev := globalClient
	globalClient = client
	globalMu.Unlock()
	return func() { SetClient(prev) }
}

// Enqueue puts task on the queue using the client resolved from ctx.
func Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	client := GetClient(ctx)
	if client == nil {
		return nil, ErrNoClient
	}

	return client.EnqueueContext(ctx, task, opts...)
}
