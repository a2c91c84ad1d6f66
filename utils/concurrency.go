package utils

import (
	"strings"
	"sync"
)

// WorkerPool runs jobs on at most maxWorkers goroutines and keeps the error
// each job returns.
type WorkerPool struct {
	semaphore chan struct{}
	wg        sync.WaitGroup

	mu   sync.Mutex
	errs []error
}

// NewWorkerPool creates a WorkerPool. A maxWorkers below 1 means 1.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{semaphore: make(chan struct{}, maxWorkers)}
}

// Go runs job in the pool, blocking while every worker is busy.
func (wp *WorkerPool) Go(job func() error) {
	wp.mu.Lock()
	slot := len(wp.errs)
	wp.errs = append(wp.errs, nil)
	wp.mu.Unlock()

	wp.wg.Add(1)
	wp.semaphore <- struct{}{}

	go func() {
		defer wp.wg.Done()
		defer func() { <-wp.semaphore }()

		err := job()

		wp.mu.Lock()
		wp.errs[slot] = err
		wp.mu.Unlock()
	}()
}

// Wait blocks until all jobs have completed and returns the error of the
// earliest submitted job that failed.
func (wp *WorkerPool) Wait() error {
	wp.wg.Wait()

	wp.mu.Lock()
	defer wp.mu.Unlock()
	for _, err := range wp.errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// AddressSet is a thread-safe set of addresses compared case-insensitively.
type AddressSet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewAddressSet creates an empty AddressSet.
func NewAddressSet() *AddressSet {
	return &AddressSet{seen: make(map[string]struct{})}
}

// NormalizeAddress returns the dedup key for an address.
func NormalizeAddress(address string) string {
	return strings.ToLower(address)
}

// Add records an address.
func (s *AddressSet) Add(address string) {
	key := NormalizeAddress(address)

	s.mu.Lock()
	s.seen[key] = struct{}{}
	s.mu.Unlock()
}

// Contains returns true if the address is in the set.
func (s *AddressSet) Contains(address string) bool {
	key := NormalizeAddress(address)

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[key]
	return exists
}

// Size returns the number of distinct addresses tracked.
func (s *AddressSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
