package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"mealplan-generator/internal/infrastructure/config"
)

func newTestPool(t *testing.T, workers, maxSize int) *Pool {
	t.Helper()
	cfg := &config.Config{}
	cfg.Queue.Workers = workers
	cfg.Queue.MaxSize = maxSize

	p := NewPool(cfg)
	t.Cleanup(p.Close)
	return p
}

func TestPool_RunsSubmittedTasks(t *testing.T) {
	p := newTestPool(t, 3, 10)

	var mu sync.Mutex
	ran := 0
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		err := p.Submit(context.Background(), func() {
			defer wg.Done()
			mu.Lock()
			ran++
			mu.Unlock()
		})
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}

	wg.Wait()
	if ran != 5 {
		t.Errorf("Expected 5 tasks to run, got %d", ran)
	}
}

func TestPool_SubmitFailsOnCancelledContext(t *testing.T) {
	// no workers, so a full queue never drains
	p := newTestPool(t, 0, 1)

	if err := p.Submit(context.Background(), func() {}); err != nil {
		t.Fatalf("First submit should fit the queue: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := p.Submit(ctx, func() {}); err == nil {
		t.Error("Expected a submit on a full queue to fail once the context expires")
	}
}

func TestPool_SubmitBlocksUntilQueueDrains(t *testing.T) {
	p := newTestPool(t, 1, 1)

	release := make(chan struct{})
	if err := p.Submit(context.Background(), func() { <-release }); err != nil {
		t.Fatalf("First submit failed: %v", err)
	}
	// fills the single queue slot while the worker is held
	if err := p.Submit(context.Background(), func() {}); err != nil {
		t.Fatalf("Second submit failed: %v", err)
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		close(release)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.Submit(ctx, func() {}); err != nil {
		t.Errorf("Expected a blocked submit to succeed once the queue drained, got %v", err)
	}
}

func TestPool_Status(t *testing.T) {
	p := newTestPool(t, 2, 8)

	var wg sync.WaitGroup
	wg.Add(1)
	if err := p.Submit(context.Background(), func() { wg.Done() }); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	wg.Wait()

	// the processed counter is incremented right after the task returns
	deadline := time.After(time.Second)
	for {
		status := p.GetStatus()
		if status.ProcessedCount >= 1 {
			if status.Workers != 2 || status.MaxQueueSize != 8 {
				t.Errorf("Unexpected status: %+v", status)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("Timed out waiting for the processed count")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
