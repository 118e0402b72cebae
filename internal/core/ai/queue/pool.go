package queue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"mealplan-generator/internal/infrastructure/config"
	"mealplan-generator/internal/pkg/common"

	"go.uber.org/zap"
)

// Task is one unit of work executed by the pool.
type Task func()

// Status is a snapshot of the pool for health reporting.
type Status struct {
	QueueLength    int `json:"queue_length"`
	ProcessedCount int `json:"processed_count"`
	MaxQueueSize   int `json:"max_queue_size"`
	Workers        int `json:"workers"`
}

// Pool is the bounded worker pool that runs illustration requests. It caps
// how many AI image calls are in flight at once.
type Pool struct {
	config    *config.Config
	tasks     chan Task
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	processed int64
}

// NewPool creates the pool and starts its workers.
func NewPool(cfg *config.Config) *Pool {
	p := &Pool{
		config: cfg,
		tasks:  make(chan Task, cfg.Queue.MaxSize),
		done:   make(chan struct{}),
	}

	for i := 0; i < cfg.Queue.Workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	common.LogInfo("worker pool started",
		zap.Int("workers", cfg.Queue.Workers),
		zap.Int("max_queue_size", cfg.Queue.MaxSize),
	)

	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			task()
			atomic.AddInt64(&p.processed, 1)
		case <-p.done:
			return
		}
	}
}

// Submit enqueues a task. A full queue blocks the caller until a worker
// drains a slot; Submit fails only when the pool is closed or the context
// ends first.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return fmt.Errorf("worker pool is closed")
	}
}

// GetStatus returns a snapshot of the pool.
func (p *Pool) GetStatus() *Status {
	return &Status{
		QueueLength:    len(p.tasks),
		ProcessedCount: int(atomic.LoadInt64(&p.processed)),
		MaxQueueSize:   p.config.Queue.MaxSize,
		Workers:        p.config.Queue.Workers,
	}
}

// Close stops the workers after the queue drains.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.tasks)
		p.wg.Wait()
		close(p.done)
	})
}
