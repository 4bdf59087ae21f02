package dispatchx

import (
	"reflect"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// adapter is the type-erased form of a listener. It receives a dispatched
// event as `any`, recovers the concrete payload type it was registered for,
// and invokes the inner listener on success. On a type mismatch it is a no-op
// returning nil. The adapter is what lets one registry hold listeners for
// arbitrary payload types while keeping each invocation type-safe.
type adapter func(evt any) error

// Dispatcher routes dispatched payload values to the listeners registered for
// their exact concrete type. The registry is keyed by reflect.Type and is
// append-only: listeners accumulate for the lifetime of the Dispatcher and
// there is no removal operation.
//
// The zero construction (New with no options) uses no internal locking and
// assumes a single-owner discipline: callers must not invoke Subscribe and
// Dispatch concurrently on the same Dispatcher. See WithLocking for the
// concurrent variant.
type Dispatcher struct {
	// mu is nil unless WithLocking was given. When set it guards only the
	// registry lookup and append, never a listener body, so listeners may
	// re-enter Subscribe or Dispatch without deadlock.
	mu      *sync.Mutex
	collect bool

	listeners map[reflect.Type][]adapter
}

// New creates an empty Dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		listeners: make(map[reflect.Type][]adapter),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Subscribe registers fn as a listener for payload type E. Registration is an
// unconditional append: it never fails, duplicates are kept, and the per-type
// sequence is created on the first subscription. fn may capture and mutate
// external state across invocations; anything it captures must outlive the
// Dispatcher.
func Subscribe[E any](d *Dispatcher, fn func(*E)) {
	SubscribeErr(d, func(evt *E) error {
		fn(evt)
		return nil
	})
}

// SubscribeErr registers an error-returning listener for payload type E. It
// shares the registry and ordering guarantees of Subscribe; how a returned
// error affects the remaining listeners of the same dispatch is decided by
// the Dispatcher's failure policy (see Dispatch and WithErrorCollection).
func SubscribeErr[E any](d *Dispatcher, fn func(*E) error) {
	key := typeKey[E]()
	a := func(evt any) error {
		if e, ok := evt.(*E); ok {
			return fn(e)
		}
		return nil
	}

	d.lock()
	defer d.unlock()
	d.listeners[key] = append(d.listeners[key], a)
}

// Dispatch delivers evt to every listener currently registered for payload
// type E, in registration order. Dispatching a type with no listeners is a
// no-op, not an error. The listener sequence is fetched once at the start of
// the call: a listener registered for E while the dispatch is in progress is
// not invoked by that call.
//
// Under the default failure policy the first listener error aborts the
// remaining invocations and is returned. With WithErrorCollection every
// listener runs and the errors are accumulated. A listener panic is never
// recovered under either policy and unwinds through Dispatch.
//
// The caller retains ownership of evt; listeners receive the same pointer
// and must treat the payload as read-only.
func Dispatch[E any](d *Dispatcher, evt *E) error {
	d.lock()
	seq := d.listeners[typeKey[E]()]
	d.unlock()

	if len(seq) == 0 {
		return nil
	}

	if d.collect {
		var errs *multierror.Error
		for _, a := range seq {
			errs = multierror.Append(errs, a(evt))
		}
		return errs.ErrorOrNil()
	}

	for _, a := range seq {
		if err := a(evt); err != nil {
			return err
		}
	}
	return nil
}

// typeKey returns the registry key for payload type E. reflect.Type values
// are canonical per concrete type within a process, which gives exact-type
// matching: structurally identical but distinct types get distinct keys.
func typeKey[E any]() reflect.Type {
	return reflect.TypeOf((*E)(nil)).Elem()
}

func (d *Dispatcher) lock() {
	if d.mu != nil {
		d.mu.Lock()
	}
}

func (d *Dispatcher) unlock() {
	if d.mu != nil {
		d.mu.Unlock()
	}
}
