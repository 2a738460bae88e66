package core

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyBatches is returned when every batch slot stays busy for the
// whole wait period.
var ErrTooManyBatches = errors.New("too many concurrent batches, please try again later")

const (
	DefaultMaxConcurrentBatches = 4
	DefaultBatchWait            = 30 * time.Second
)

// BatchLimiter caps the number of batches processed at once. Batches are
// independent, each with its own connection, so the cap only bounds
// resource use.
type BatchLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// NewBatchLimiter returns a limiter allowing maxConcurrent batches. Acquire
// waits up to maxWait for a free slot.
func NewBatchLimiter(maxConcurrent int, maxWait time.Duration) *BatchLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentBatches
	}
	if maxWait <= 0 {
		maxWait = DefaultBatchWait
	}
	return &BatchLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot. Callers must Release it when done.
func (l *BatchLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-timer.C:
		return ErrTooManyBatches
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (l *BatchLimiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// Active returns the number of batches in progress.
func (l *BatchLimiter) Active() int {
	return int(l.active.Load())
}

// Capacity returns the configured maximum.
func (l *BatchLimiter) Capacity() int {
	return cap(l.slots)
}

// WaitForDrain blocks until no batch is in progress or ctx is done.
func (l *BatchLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for l.Active() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
