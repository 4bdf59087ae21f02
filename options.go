// Options for configuring Dispatcher instances.
package dispatchx

import "sync"

// Option configures a Dispatcher at construction time.
type Option func(*Dispatcher)

// WithLocking guards the registry with a single mutex so that Subscribe and
// Dispatch may be called concurrently from multiple goroutines. The mutex is
// held only for the registry lookup and append, never while a listener body
// runs: a listener that re-enters Subscribe or Dispatch does not deadlock,
// and dispatches of distinct types do not serialize their listener work.
func WithLocking() Option {
	return func(d *Dispatcher) {
		d.mu = &sync.Mutex{}
	}
}

// WithErrorCollection changes the failure policy of Dispatch from
// abort-on-first-error to run-every-listener-and-accumulate. The accumulated
// errors are returned as a *multierror.Error. Panics are still not caught.
func WithErrorCollection() Option {
	return func(d *Dispatcher) {
		d.collect = true
	}
}
