package qinfo

import (
	"log"
	"sync"
	"time"
)

// Result wraps the outcome of a Job with its metadata.
type Result struct {
	JobID     string
	Value     *ExclusionResult
	Error     error
	CreatedAt time.Time
	TTL       time.Duration
}

/*
ResultSpace holds finished job results and hands them to whoever awaits them,
whether the result arrives before or after the Await call.
*/
type ResultSpace struct {
	mu      sync.Mutex
	values  map[string]Result
	waiting map[string][]chan Result
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

func newResultSpace(cleanupInterval time.Duration) *ResultSpace {
	rs := &ResultSpace{
		values:  make(map[string]Result),
		waiting: make(map[string][]chan Result),
		done:    make(chan struct{}),
	}

	rs.wg.Add(1)
	go func() {
		defer rs.wg.Done()
		rs.cleanup(cleanupInterval)
	}()

	return rs
}

// Store records a result and notifies every waiting channel.
func (rs *ResultSpace) Store(id string, value *ExclusionResult, err error, ttl time.Duration) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	result := Result{
		JobID:     id,
		Value:     value,
		Error:     err,
		CreatedAt: time.Now(),
		TTL:       ttl,
	}
	rs.values[id] = result

	channels := rs.waiting[id]
	for _, ch := range channels {
		ch <- result
		close(ch)
	}
	delete(rs.waiting, id)

	if err != nil {
		log.Printf("Stored failed result for job %s: %v", id, err)
	}
}

// Await returns a channel that will receive the result when it's available
func (rs *ResultSpace) Await(id string) chan Result {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	ch := make(chan Result, 1)
	if result, ok := rs.values[id]; ok {
		ch <- result
		close(ch)
		return ch
	}

	rs.waiting[id] = append(rs.waiting[id], ch)
	return ch
}

func (rs *ResultSpace) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rs.done:
			return
		case <-ticker.C:
			rs.mu.Lock()
			rs.cleanupExpiredValues(time.Now())
			rs.mu.Unlock()
		}
	}
}

func (rs *ResultSpace) cleanupExpiredValues(now time.Time) {
	for id, result := range rs.values {
		if result.TTL > 0 && now.Sub(result.CreatedAt) > result.TTL {
			delete(rs.values, id)
		}
	}
}

// Close stops the cleanup loop. Stored results stay readable.
func (rs *ResultSpace) Close() {
	rs.once.Do(func() {
		close(rs.done)
	})
	rs.wg.Wait()
}
