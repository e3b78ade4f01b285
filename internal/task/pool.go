// Package task runs blocking work off the control goroutine.
//
// A Task's Run method executes on a pool worker. When it returns, the task is
// queued for completion; OnCompletion runs later on whichever goroutine calls
// CollectTasks or Await, which is the caller's control loop. Completion runs
// exactly once per submitted task, including tasks whose Run panicked.
//
// Usage:
//
//	pool := task.NewPool(2)
//	h, err := pool.Submit(myTask)
//	if err != nil {
//	    return err
//	}
//	err = pool.Await(ctx, h)
package task

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/obentoo/pluginutils/internal/common/logger"
)

// DefaultWorkers is the worker count used when NewPool is given a non-positive size
const DefaultWorkers = 2

var (
	// ErrPoolClosed is returned by Submit after Shutdown
	ErrPoolClosed = errors.New("task pool is shut down")
	// ErrPanicked is recorded on a handle whose Run panicked
	ErrPanicked = errors.New("task panicked")
)

// Task is a unit of background work
type Task interface {
	// Run executes on a worker goroutine
	Run()
	// OnCompletion executes on the goroutine collecting completions
	OnCompletion()
}

// Handle tracks one submitted task
type Handle struct {
	id          uuid.UUID
	task        Task
	submittedAt time.Time
	done        chan struct{}
	err         error
}

// ID returns the unique id assigned at submission
func (h *Handle) ID() uuid.UUID {
	return h.id
}

// Task returns the submitted task
func (h *Handle) Task() Task {
	return h.task
}

// SubmittedAt returns when the task was submitted
func (h *Handle) SubmittedAt() time.Time {
	return h.submittedAt
}

// Done is closed once OnCompletion has returned
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err reports a panic in Run. Only meaningful after Done is closed.
func (h *Handle) Err() error {
	return h.err
}

// Pool runs tasks on a bounded number of worker goroutines
type Pool struct {
	sem    *semaphore.Weighted
	size   int
	log    *logger.Logger
	notify chan struct{}

	mu        sync.Mutex
	completed []*Handle
	pending   int
	closed    bool
}

// PoolOption is a functional option for configuring Pool
type PoolOption func(*Pool)

// WithLogger sets the logger used to report panicking tasks
func WithLogger(l *logger.Logger) PoolOption {
	return func(p *Pool) {
		p.log = l
	}
}

// NewPool creates a pool running at most workers tasks at a time
func NewPool(workers int, opts ...PoolOption) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	p := &Pool{
		sem:    semaphore.NewWeighted(int64(workers)),
		size:   workers,
		log:    logger.Default(),
		notify: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Size returns the maximum number of concurrently running tasks
func (p *Pool) Size() int {
	return p.size
}

// Pending returns the number of submitted tasks whose completion has not run yet
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

// Submit hands t to a worker and returns immediately
func (p *Pool) Submit(t Task) (*Handle, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	p.pending++
	p.mu.Unlock()

	h := &Handle{
		id:          uuid.New(),
		task:        t,
		submittedAt: time.Now(),
		done:        make(chan struct{}),
	}

	go p.work(h)
	return h, nil
}

func (p *Pool) work(h *Handle) {
	// Acquire with a background context never fails
	_ = p.sem.Acquire(context.Background(), 1)
	h.err = p.run(h)
	p.sem.Release(1)

	p.mu.Lock()
	p.completed = append(p.completed, h)
	p.mu.Unlock()

	select {
	case p.notify <- struct{}{}:
	default:
	}
}

func (p *Pool) run(h *Handle) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("task %s panicked: %v\n%s", h.id, r, debug.Stack())
			err = fmt.Errorf("%w: %v", ErrPanicked, r)
		}
	}()
	h.task.Run()
	return nil
}

// CollectTasks runs OnCompletion for every task that finished since the last
// call, on the calling goroutine. Returns how many completions ran.
func (p *Pool) CollectTasks() int {
	p.mu.Lock()
	batch := p.completed
	p.completed = nil
	p.mu.Unlock()

	for _, h := range batch {
		p.complete(h)
	}
	return len(batch)
}

func (p *Pool) complete(h *Handle) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("task %s completion panicked: %v", h.id, r)
			if h.err == nil {
				h.err = fmt.Errorf("%w: %v", ErrPanicked, r)
			}
		}
		p.mu.Lock()
		p.pending--
		p.mu.Unlock()
		close(h.done)
	}()
	h.task.OnCompletion()
}

// Await collects completions on the calling goroutine until h has completed.
// Other tasks finishing meanwhile are completed too.
func (p *Pool) Await(ctx context.Context, h *Handle) error {
	for {
		p.CollectTasks()
		select {
		case <-h.done:
			return h.err
		default:
		}

		select {
		case <-h.done:
			return h.err
		case <-p.notify:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Drain collects completions until no submitted task is outstanding
func (p *Pool) Drain(ctx context.Context) error {
	for {
		p.CollectTasks()
		if p.Pending() == 0 {
			return nil
		}
		select {
		case <-p.notify:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Shutdown stops accepting tasks and drains the ones already submitted
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return p.Drain(ctx)
}
