package pcprice

import (
	"context"
	"sync"
)

// Executor runs callbacks on some execution context.
type Executor interface {
	Execute(fn func())
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(fn func())

func (f ExecutorFunc) Execute(fn func()) { f(fn) }

// Future is the pending result of one operation started with Async.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Async runs fn on a new goroutine. Method values work directly:
//
//	f := pcprice.Async(ctx, client.Stores)
func Async[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.val, f.err = fn(ctx)
	}()
	return f
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Await blocks until the result is available or ctx is done. Giving up on
// ctx does not cancel the operation itself.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then delivers the result to cb on exec, exactly once.
func (f *Future[T]) Then(exec Executor, cb func(T, error)) {
	go func() {
		<-f.done
		exec.Execute(func() { cb(f.val, f.err) })
	}()
}

// Loop is a serial executor: every callback handed to Execute runs on the
// goroutine that called Run, one at a time, in submission order.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stop    chan struct{}
	stopped sync.Once
}

// NewLoop creates an idle loop. Execute may be called before Run.
func NewLoop() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
	}
}

// Execute queues fn. It never blocks.
func (l *Loop) Execute(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Stop makes Run return after the callback currently running, if any.
func (l *Loop) Stop() {
	l.stopped.Do(func() { close(l.stop) })
}

// Run processes callbacks until Stop is called (returns nil) or ctx is done
// (returns ctx.Err()).
func (l *Loop) Run(ctx context.Context) error {
	for {
		for {
			select {
			case <-l.stop:
				return nil
			default:
			}
			fn := l.next()
			if fn == nil {
				break
			}
			fn()
		}

		select {
		case <-l.stop:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) next() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn
}
