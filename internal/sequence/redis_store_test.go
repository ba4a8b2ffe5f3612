package sequence

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// incrOnly implements the single command RedisStore issues.
type incrOnly struct {
	redis.Cmdable
	mu   sync.Mutex
	keys map[string]int64
	err  error
}

func (f *incrOnly) Incr(ctx context.Context, key string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewIntCmd(ctx, "incr", key)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	if f.keys == nil {
		f.keys = map[string]int64{}
	}
	f.keys[key]++
	cmd.SetVal(f.keys[key])
	return cmd
}

func TestRedisStore_IncrementsPrefixedKey(t *testing.T) {
	client := &incrOnly{}
	store := NewRedisStore(client)

	n, err := store.Increment(context.Background(), TicketCounter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = store.Increment(context.Background(), TicketCounter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, int64(2), client.keys["sequence:ticket"])
}

func TestRedisStore_FailureSurfacesThroughGenerator(t *testing.T) {
	var hooked string
	gen := NewGenerator(NewRedisStore(&incrOnly{err: errors.New("connection refused")}),
		WithFailureHook(func(name string, _ error) { hooked = name }))

	_, err := gen.Next(context.Background(), TicketCounter)
	require.Error(t, err)
	assert.Equal(t, TicketCounter, hooked)
}

func TestRedisStore_Unconfigured(t *testing.T) {
	_, err := NewRedisStore(nil).Increment(context.Background(), TicketCounter)
	assert.Error(t, err)
}
