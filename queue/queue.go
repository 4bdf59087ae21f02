package queue

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/comalice/dispatchx"
)

// DefaultTickRate is the flush interval Run uses when none is given (60 Hz).
const DefaultTickRate = 16667 * time.Microsecond

// pending is one buffered event with its sequencing metadata.
type pending struct {
	seq      uint64
	priority int
	fire     func(*dispatchx.Dispatcher) error
}

// Queue buffers events for a wrapped Dispatcher and releases them in
// deterministic batches. The batch is guarded by its own mutex; collection
// is atomic and listener invocation happens outside the lock.
type Queue struct {
	d *dispatchx.Dispatcher

	mu    sync.Mutex
	batch []pending
	seq   uint64
}

// New creates an empty Queue in front of d.
func New(d *dispatchx.Dispatcher) *Queue {
	return &Queue{d: d}
}

// Post buffers evt for the next flush instead of dispatching it inline.
func Post[E any](q *Queue, evt *E) {
	PostPri(q, evt, 0)
}

// PostPri buffers evt with a priority. Higher priorities flush first; equal
// priorities flush in post order.
func PostPri[E any](q *Queue, evt *E, priority int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.batch = append(q.batch, pending{
		seq:      q.seq,
		priority: priority,
		// The closure pins the concrete payload type so the batch can stay
		// homogeneous while routing through the generic Dispatch.
		fire: func(d *dispatchx.Dispatcher) error {
			return dispatchx.Dispatch(d, evt)
		},
	})
	q.seq++
}

// Flush drains the buffered batch through the dispatcher. The batch is
// stable-sorted by (priority desc, sequence asc) before delivery. The failure
// policy is the wrapped dispatcher's: under the default policy the first
// dispatch error stops the flush and undelivered events are dropped with the
// batch.
func (q *Queue) Flush() error {
	batch := q.collect()
	sortBatch(batch)
	for _, p := range batch {
		if err := p.fire(q.d); err != nil {
			return err
		}
	}
	return nil
}

// Len reports how many events are currently buffered.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.batch)
}

// Run flushes the queue at fixed tick boundaries until ctx is cancelled.
// On cancellation any remaining batch is flushed once before returning
// ctx.Err(). A flush error stops the loop and is returned.
func (q *Queue) Run(ctx context.Context, tickRate time.Duration) error {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Drain what was posted before cancellation.
			if err := q.Flush(); err != nil {
				return err
			}
			return ctx.Err()
		case <-ticker.C:
			if err := q.Flush(); err != nil {
				return err
			}
		}
	}
}

// collect atomically retrieves and clears the batch.
func (q *Queue) collect() []pending {
	q.mu.Lock()
	defer q.mu.Unlock()
	batch := q.batch
	q.batch = nil
	return batch
}

// sortBatch orders events deterministically.
// Stable sort preserves insertion order for equal priorities.
func sortBatch(batch []pending) {
	sort.SliceStable(batch, func(i, j int) bool {
		if batch[i].priority != batch[j].priority {
			return batch[i].priority > batch[j].priority
		}
		return batch[i].seq < batch[j].seq
	})
}
