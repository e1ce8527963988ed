package velvet

import (
	"context"
	"sync"
	"time"
)

// Loop is a single-goroutine event loop. Timer callbacks and posted tasks
// all run on the goroutine that calls Run, which keeps velvet's state free of
// data races without locking it. Loop implements Clock.
type Loop struct {
	mu    sync.Mutex
	tasks []func()
	wake  chan struct{}
}

// NewLoop creates an idle loop. Nothing runs until Run is called.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

var (
	sharedLoopOnce sync.Once
	sharedLoop     *Loop
)

// DefaultLoop returns the process-wide loop that drives DefaultFrames. The
// application must call its Run method on the goroutine that uses velvet.
func DefaultLoop() *Loop {
	sharedLoopOnce.Do(func() {
		sharedLoop = NewLoop()
	})
	return sharedLoop
}

// Now returns the current wall-clock time.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// AfterFunc posts f to the loop once d has elapsed.
func (l *Loop) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, func() {
		l.Post(f)
	})
}

// Post queues f to run on the loop goroutine. Safe for concurrent use.
func (l *Loop) Post(f func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, f)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run executes posted tasks in order until ctx is done, then returns
// ctx.Err(). Tasks not yet run when ctx is done stay queued, ahead of later
// posts, for the next call to Run.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.mu.Lock()
		tasks := l.tasks
		l.tasks = nil
		l.mu.Unlock()

		for i, task := range tasks {
			if err := ctx.Err(); err != nil {
				l.requeue(tasks[i:])
				return err
			}
			task()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// requeue puts unrun tasks back at the head of the queue.
func (l *Loop) requeue(tasks []func()) {
	l.mu.Lock()
	l.tasks = append(append([]func(){}, tasks...), l.tasks...)
	l.mu.Unlock()
}
