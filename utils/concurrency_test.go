package utils

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestAddressSetNoDuplicates(t *testing.T) {
	s := NewAddressSet()

	s.Add("123 Main St Vancouver BC")
	s.Add("123 MAIN ST VANCOUVER BC")

	if s.Size() != 1 {
		t.Errorf("size: got %d, want 1", s.Size())
	}
}

func TestAddressSetContainsIgnoresCase(t *testing.T) {
	s := NewAddressSet()
	s.Add("7 Oak Ave Surrey BC")

	if !s.Contains("7 oak ave surrey bc") {
		t.Error("Contains should match case-insensitively")
	}
	if s.Contains("8 Oak Ave Surrey BC") {
		t.Error("Contains should not match a different address")
	}
}

func TestAddressSetConcurrency(t *testing.T) {
	s := NewAddressSet()

	pool := NewWorkerPool(10)
	for i := 0; i < 100; i++ {
		address := "1 Same St Vancouver BC"
		if i%2 == 0 {
			address = "2 Other St Vancouver BC"
		}
		pool.Go(func() error {
			s.Add(address)
			return nil
		})
	}
	if err := pool.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Size() != 2 {
		t.Errorf("size: got %d, want 2", s.Size())
	}
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	pool := NewWorkerPool(2)
	var running, peak int64

	for i := 0; i < 8; i++ {
		pool.Go(func() error {
			n := atomic.AddInt64(&running, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt64(&running, -1)
			return nil
		})
	}
	pool.Wait()

	if peak > 2 {
		t.Errorf("peak concurrency %d exceeds 2 workers", peak)
	}
}

func TestWorkerPoolReturnsEarliestSubmittedError(t *testing.T) {
	pool := NewWorkerPool(3)
	first := errors.New("first")
	second := errors.New("second")

	pool.Go(func() error { time.Sleep(20 * time.Millisecond); return first })
	pool.Go(func() error { return second })
	pool.Go(func() error { return nil })

	if err := pool.Wait(); !errors.Is(err, first) {
		t.Errorf("Wait() = %v; want %v", err, first)
	}
}

func TestWorkerPoolZeroWorkersStillRuns(t *testing.T) {
	pool := NewWorkerPool(0)
	var ran int64
	pool.Go(func() error { atomic.AddInt64(&ran, 1); return nil })
	if err := pool.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ran != 1 {
		t.Errorf("expected job to run once, ran %d times", ran)
	}
}
