package tokencache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"staybook/internal/adapters/tokencache"
)

func TestMemory_Lifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := tokencache.NewMemory()

	_, ok := m.Get(ctx, now)
	assert.False(t, ok, "empty cache")

	m.Set(ctx, "tok", now.Add(time.Minute))
	got, ok := m.Get(ctx, now.Add(59*time.Second))
	assert.True(t, ok)
	assert.Equal(t, "tok", got)

	_, ok = m.Get(ctx, now.Add(time.Minute))
	assert.False(t, ok, "expiry instant is a miss")
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := tokencache.NewMemory()
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); m.Set(ctx, "t", now.Add(time.Hour)) }()
		go func() { defer wg.Done(); m.Get(ctx, now) }()
	}
	wg.Wait()

	got, ok := m.Get(ctx, now)
	assert.True(t, ok)
	assert.Equal(t, "t", got)
}
