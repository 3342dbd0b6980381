package coalesce_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex-vit/hdrbright/internal/coalesce"
)

func TestQueueBurstRunsLatestOnly(t *testing.T) {
	q := coalesce.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		q.Run(ctx)
		close(done)
	}()

	var (
		mu       sync.Mutex
		ran      []string
		inFlight atomic.Int32
		maxSeen  atomic.Int32
	)
	record := func(name string) {
		n := inFlight.Add(1)
		if n > maxSeen.Load() {
			maxSeen.Store(n)
		}
		mu.Lock()
		ran = append(ran, name)
		mu.Unlock()
		inFlight.Add(-1)
	}

	started := make(chan struct{})
	release := make(chan struct{})
	require.True(t, q.TryEnqueue(func(context.Context) {
		record("blocker")
		close(started)
		<-release
	}))
	<-started

	last := make(chan struct{})
	require.True(t, q.TryEnqueue(func(context.Context) { record("a") }))
	require.True(t, q.TryEnqueue(func(context.Context) { record("b") }))
	require.True(t, q.TryEnqueue(func(context.Context) {
		record("c")
		close(last)
	}))
	close(release)

	select {
	case <-last:
	case <-time.After(2 * time.Second):
		t.Fatal("latest job never ran")
	}

	q.Close()
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"blocker", "c"}, ran)
	assert.Equal(t, uint64(2), q.Dropped())
	assert.LessOrEqual(t, maxSeen.Load(), int32(1))
}

func TestQueueClosed(t *testing.T) {
	q := coalesce.New()
	q.Close()
	q.Close()
	assert.False(t, q.TryEnqueue(func(context.Context) {}))
}

func TestQueueCloseRunsWaitingJob(t *testing.T) {
	q := coalesce.New()
	ran := false
	require.True(t, q.TryEnqueue(func(context.Context) { ran = true }))
	q.Close()
	q.Run(context.Background())
	assert.True(t, ran)
}

func TestQueueRunStopsOnCancel(t *testing.T) {
	q := coalesce.New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		q.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
