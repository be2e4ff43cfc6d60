package minisdk

import (
	"context"
	"log/slog"
	"sync"
)

type task struct {
	fn      func()
	barrier bool
}

// fifo is an unbounded task buffer with a single consumer. push never blocks.
type fifo struct {
	mu     sync.Mutex
	tasks  []task
	closed bool
	ready  chan struct{}
}

func newFIFO() *fifo {
	return &fifo{ready: make(chan struct{}, 1)}
}

// push appends t. It reports false once the fifo is closed.
func (f *fifo) push(t task) bool {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return false
	}
	f.tasks = append(f.tasks, t)
	f.mu.Unlock()
	f.signal()
	return true
}

// pop blocks until a task is available. It reports false when the fifo is
// closed and drained.
func (f *fifo) pop() (task, bool) {
	for {
		f.mu.Lock()
		if len(f.tasks) > 0 {
			t := f.tasks[0]
			f.tasks[0] = task{}
			f.tasks = f.tasks[1:]
			f.mu.Unlock()
			return t, true
		}
		if f.closed {
			f.mu.Unlock()
			return task{}, false
		}
		f.mu.Unlock()
		<-f.ready
	}
}

func (f *fifo) close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.signal()
}

func (f *fifo) signal() {
	select {
	case f.ready <- struct{}{}:
	default:
	}
}

// dispatchQueue runs tasks in submission order on a dispatcher goroutine.
//
// On a concurrent queue non-barrier tasks each run on their own goroutine and
// may overlap; a barrier task waits for every in-flight task, runs alone, and
// holds back everything submitted after it. On a serial queue every task
// behaves like a barrier.
type dispatchQueue struct {
	name       string
	concurrent bool
	tasks      *fifo
	inflight   sync.WaitGroup
	done       chan struct{}
	logger     *slog.Logger
}

func newDispatchQueue(name string, concurrent bool, logger *slog.Logger) *dispatchQueue {
	q := &dispatchQueue{
		name:       name,
		concurrent: concurrent,
		tasks:      newFIFO(),
		done:       make(chan struct{}),
		logger:     logger,
	}
	go q.run()
	return q
}

// async submits fn. It reports false if the queue has been closed.
func (q *dispatchQueue) async(fn func()) bool {
	return q.tasks.push(task{fn: fn})
}

// barrier submits fn as an exclusive task.
func (q *dispatchQueue) barrier(fn func()) bool {
	return q.tasks.push(task{fn: fn, barrier: true})
}

func (q *dispatchQueue) run() {
	for {
		t, ok := q.tasks.pop()
		if !ok {
			break
		}
		if t.barrier || !q.concurrent {
			q.inflight.Wait()
			q.exec(t.fn)
			continue
		}
		q.inflight.Add(1)
		go func(fn func()) {
			defer q.inflight.Done()
			q.exec(fn)
		}(t.fn)
	}
	q.inflight.Wait()
	close(q.done)
}

// exec runs fn, containing any panic so a faulty capability cannot take the
// host process down.
func (q *dispatchQueue) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Warn("minisdk task panicked", "queue", q.name, "panic", r)
		}
	}()
	fn()
}

// close stops accepting tasks. Already queued tasks still run.
func (q *dispatchQueue) close() {
	q.tasks.close()
}

// wait blocks until the queue has drained after close.
func (q *dispatchQueue) wait(ctx context.Context) error {
	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
