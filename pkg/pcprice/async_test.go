package pcprice

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFutureAwait(t *testing.T) {
	f := Async(context.Background(), func(context.Context) (int, error) { return 7, nil })
	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	boom := errors.New("boom")
	g := Async(context.Background(), func(context.Context) (string, error) { return "", boom })
	_, err = g.Await(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestFutureAwaitGivesUpOnContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	f := Async(context.Background(), func(context.Context) (int, error) {
		<-block
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoopDeliversEveryResultOnceAndSerially(t *testing.T) {
	const n = 50
	loop := NewLoop()

	var running, maxRunning int32
	delivered := make(map[int]int)
	remaining := n

	for i := 0; i < n; i++ {
		i := i
		f := Async(context.Background(), func(context.Context) (int, error) { return i, nil })
		f.Then(loop, func(v int, err error) {
			cur := atomic.AddInt32(&running, 1)
			if cur > atomic.LoadInt32(&maxRunning) {
				atomic.StoreInt32(&maxRunning, cur)
			}
			// only the loop goroutine touches delivered and remaining
			delivered[v]++
			remaining--
			assert.NoError(t, err)
			atomic.AddInt32(&running, -1)
			if remaining == 0 {
				loop.Stop()
			}
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, loop.Run(ctx))

	assert.Len(t, delivered, n)
	for v, count := range delivered {
		assert.Equal(t, 1, count, "value %d", v)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxRunning))
}

func TestLoopRunStopsOnContext(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, loop.Run(ctx), context.Canceled)
}

func TestLoopRunsQueuedCallbacksInOrder(t *testing.T) {
	loop := NewLoop()
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		loop.Execute(func() { order = append(order, i) })
	}
	loop.Execute(loop.Stop)

	require.NoError(t, loop.Run(context.Background()))
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestExecutorFunc(t *testing.T) {
	var called bool
	ExecutorFunc(func(fn func()) { fn() }).Execute(func() { called = true })
	assert.True(t, called)
}
