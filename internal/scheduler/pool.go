package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrQueueFull   = errors.New("task queue is full")
	ErrPoolStopped = errors.New("pool is stopped")
)

// Task is a unit of work run by the pool.
type Task func(ctx context.Context) error

// Result describes a finished task.
type Result struct {
	ID       uuid.UUID
	Name     string
	Started  time.Time
	Finished time.Time
	Err      error
}

// PoolConfig tunes the worker pool.
type PoolConfig struct {
	Workers     int
	QueueSize   int
	TaskTimeout time.Duration
	// OnDone is called from the worker goroutine after every task.
	OnDone func(Result)
}

type queued struct {
	id   uuid.UUID
	name string
	task Task
}

// Pool runs submitted tasks on a fixed number of workers.
type Pool struct {
	cfg PoolConfig
	log *zap.Logger

	queue chan queued
	wg    sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
	cancel  context.CancelFunc
}

// NewPool starts cfg.Workers workers. Stop must be called to release them.
func NewPool(log *zap.Logger, cfg PoolConfig) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		cfg:    cfg,
		log:    log.Named("pool"),
		queue:  make(chan queued, cfg.QueueSize),
		cancel: cancel,
	}
	for i := 0; i < cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
	return p
}

// Submit enqueues task without blocking and returns its run id.
func (p *Pool) Submit(name string, task Task) (uuid.UUID, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return uuid.Nil, ErrPoolStopped
	}
	q := queued{id: uuid.New(), name: name, task: task}
	select {
	case p.queue <- q:
		return q.id, nil
	default:
		return uuid.Nil, fmt.Errorf("%w: %s", ErrQueueFull, name)
	}
}

// Stop rejects new tasks, lets queued ones finish and waits for the workers.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
	p.cancel()
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for q := range p.queue {
		p.run(ctx, q)
	}
}

func (p *Pool) run(ctx context.Context, q queued) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.TaskTimeout)
	defer cancel()

	res := Result{ID: q.id, Name: q.name, Started: time.Now()}
	func() {
		defer func() {
			if r := recover(); r != nil {
				res.Err = fmt.Errorf("task panicked: %v", r)
			}
		}()
		res.Err = q.task(ctx)
	}()
	res.Finished = time.Now()

	if res.Err != nil {
		p.log.Error("task failed",
			zap.String("task", q.name),
			zap.String("run", q.id.String()),
			zap.Duration("took", res.Finished.Sub(res.Started)),
			zap.Error(res.Err),
		)
	} else {
		p.log.Debug("task done",
			zap.String("task", q.name),
			zap.String("run", q.id.String()),
			zap.Duration("took", res.Finished.Sub(res.Started)),
		)
	}
	if p.cfg.OnDone != nil {
		p.cfg.OnDone(res)
	}
}
