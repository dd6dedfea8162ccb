package helpers

import (
	"sync"
	"time"
)

// Backoff is limited exponential retry delay for background workers.
// Zero delay after success, first failure waits Min, each next one K times longer, up to Max.
//
//	for {
//		ok := op()
//		time.Sleep(backoff.DelayAfter(ok))
//	}
type Backoff struct {
	Min time.Duration
	Max time.Duration
	K   float32

	mu   sync.Mutex
	next time.Duration
}

func (b *Backoff) DelayAfter(success bool) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	if success {
		b.next = 0
		return 0
	}
	if b.next == 0 {
		b.next = b.Min
	} else {
		b.next = time.Duration(float32(b.next) * b.K)
	}
	if b.Max != 0 && b.next > b.Max {
		b.next = b.Max
	}
	// whole milliseconds read better in logs
	return b.next.Truncate(time.Millisecond)
}

func (b *Backoff) Reset() {
	b.mu.Lock()
	b.next = 0
	b.mu.Unlock()
}
