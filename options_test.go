package dispatchx_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"

	. "github.com/comalice/dispatchx"
)

// Test error collection: every listener runs and all failures come back.
func TestErrorCollectionRunsAllListeners(t *testing.T) {
	d := New(WithErrorCollection())

	errFirst := errors.New("first failure")
	errSecond := errors.New("second failure")
	var okCalls int
	SubscribeErr(d, func(evt *PlayerJumped) error { return errFirst })
	Subscribe(d, func(evt *PlayerJumped) { okCalls++ })
	SubscribeErr(d, func(evt *PlayerJumped) error { return errSecond })

	err := Dispatch(d, &PlayerJumped{})
	if err == nil {
		t.Fatal("expected accumulated error, got nil")
	}
	if okCalls != 1 {
		t.Errorf("expected healthy listener still invoked, got %d calls", okCalls)
	}

	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("expected *multierror.Error, got %T", err)
	}
	if len(merr.Errors) != 2 {
		t.Errorf("expected 2 accumulated errors, got %d", len(merr.Errors))
	}
	if !errors.Is(err, errFirst) || !errors.Is(err, errSecond) {
		t.Errorf("expected both failures present, got %v", err)
	}
}

// Test error collection with all listeners healthy: nil, not an empty bundle.
func TestErrorCollectionNilWhenHealthy(t *testing.T) {
	d := New(WithErrorCollection())
	Subscribe(d, func(evt *PlayerJumped) {})

	if err := Dispatch(d, &PlayerJumped{}); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

// Test locking mode under concurrent subscribe/dispatch across types.
func TestLockingConcurrentAccess(t *testing.T) {
	d := New(WithLocking())

	var jumps, spawns atomic.Int64
	Subscribe(d, func(evt *PlayerJumped) { jumps.Add(1) })
	Subscribe(d, func(evt *EnemySpawned) { spawns.Add(1) })

	const perWorker = 100
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if err := Dispatch(d, &PlayerJumped{PlayerID: 1}); err != nil {
					t.Error(err)
					return
				}
				if err := Dispatch(d, &EnemySpawned{EnemyType: "Goblin"}); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	// Registry growth for an unrelated type while dispatches are in flight.
	wg.Add(1)
	go func() {
		defer wg.Done()
		type background struct{}
		for i := 0; i < perWorker; i++ {
			Subscribe(d, func(evt *background) {})
		}
	}()
	wg.Wait()

	if got := jumps.Load(); got != 4*perWorker {
		t.Errorf("expected %d jump deliveries, got %d", 4*perWorker, got)
	}
	if got := spawns.Load(); got != 4*perWorker {
		t.Errorf("expected %d spawn deliveries, got %d", 4*perWorker, got)
	}
}

// Test the lock is not held during listener bodies: a listener may re-enter
// Subscribe and Dispatch without deadlock.
func TestLockingAllowsReentrantListeners(t *testing.T) {
	d := New(WithLocking())

	var spawnCalls int
	Subscribe(d, func(evt *EnemySpawned) { spawnCalls++ })
	Subscribe(d, func(evt *PlayerJumped) {
		Subscribe(d, func(evt *PlayerJumped) {})
		if err := Dispatch(d, &EnemySpawned{EnemyType: "Goblin"}); err != nil {
			t.Error(err)
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := Dispatch(d, &PlayerJumped{}); err != nil {
			t.Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("re-entrant dispatch deadlocked")
	}

	if spawnCalls != 1 {
		t.Errorf("expected nested dispatch delivered once, got %d", spawnCalls)
	}
}
