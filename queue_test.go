package minisdk

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchQueueReadersRunConcurrently(t *testing.T) {
	q := newDispatchQueue("test", true, slog.Default())
	defer func() {
		q.close()
		require.NoError(t, q.wait(context.Background()))
	}()

	// Each reader waits for the other; a serial queue would deadlock.
	a, b := make(chan struct{}), make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	q.async(func() { defer wg.Done(); close(a); <-b })
	q.async(func() { defer wg.Done(); close(b); <-a })

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("readers did not run concurrently")
	}
}

func TestDispatchQueueBarrierIsExclusive(t *testing.T) {
	q := newDispatchQueue("test", true, slog.Default())
	defer func() {
		q.close()
		require.NoError(t, q.wait(context.Background()))
	}()

	release := make(chan struct{})
	var mu sync.Mutex
	var order []string
	record := func(s string) {
		mu.Lock()
		order = append(order, s)
		mu.Unlock()
	}

	q.async(func() { <-release; record("reader-1") })
	barrierDone := make(chan struct{})
	q.barrier(func() { record("barrier"); close(barrierDone) })
	afterDone := make(chan struct{})
	q.async(func() { record("reader-2"); close(afterDone) })

	select {
	case <-barrierDone:
		t.Fatal("barrier ran while a reader was in flight")
	case <-afterDone:
		t.Fatal("reader overtook a pending barrier")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-afterDone
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"reader-1", "barrier", "reader-2"}, order)
}

func TestDispatchQueueSerialOrder(t *testing.T) {
	q := newDispatchQueue("test", false, slog.Default())

	var got []int
	for i := 0; i < 100; i++ {
		q.async(func() { got = append(got, i) })
	}
	q.close()
	require.NoError(t, q.wait(context.Background()))

	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestDispatchQueueClosedRejects(t *testing.T) {
	q := newDispatchQueue("test", false, slog.Default())
	q.close()
	require.NoError(t, q.wait(context.Background()))

	assert.False(t, q.async(func() {}))
	assert.False(t, q.barrier(func() {}))
}

func TestDispatchQueueRecoversPanics(t *testing.T) {
	q := newDispatchQueue("test", true, slog.Default())
	ran := make(chan struct{})

	q.async(func() { panic("reader") })
	q.barrier(func() { panic("barrier") })
	q.async(func() { close(ran) })
	q.close()
	require.NoError(t, q.wait(context.Background()))

	select {
	case <-ran:
	default:
		t.Fatal("queue stopped after a panic")
	}
}
