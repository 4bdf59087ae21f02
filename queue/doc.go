// Package queue provides deferred, batched dispatch on top of dispatchx.
//
// The core dispatcher is fully synchronous: Dispatch delivers on the caller's
// stack before returning. This package buffers events instead and releases
// them in deterministic batches:
//   - Post/PostPri buffer an event with a monotonically increasing sequence
//     number instead of dispatching inline
//   - Flush drains the batch in (priority desc, sequence asc) order
//   - Run flushes at fixed tick boundaries until the context is cancelled
//
// # Example Usage
//
//	d := dispatchx.New(dispatchx.WithLocking())
//	q := queue.New(d)
//	queue.Post(q, &PlayerJumped{ID: 1})
//	queue.PostPri(q, &EnemySpawned{Kind: "Goblin"}, 10)
//	q.Flush() // spawn first (higher priority), then jump
//
// # Ordering Guarantees
//
// Events are ordered deterministically using:
//  1. Priority (higher priority dispatched first)
//  2. Sequence number (FIFO for same priority)
//  3. Stable sorting (preserves relative order)
//
// Given the same sequence of Post calls, listeners always observe the same
// delivery order, regardless of timing or concurrency.
//
// Post and Flush are safe for concurrent use with each other. Flush invokes
// listeners through the wrapped dispatcher, so when Flush runs on its own
// goroutine (as Run does) the dispatcher should be constructed with
// dispatchx.WithLocking and listeners must tolerate running off the posting
// goroutine.
package queue
