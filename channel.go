package dispatchx

// SubscribeChannel registers a listener that forwards each dispatched event
// of type E to ch. The send is non-blocking: when ch is full the event is
// dropped rather than stalling the dispatch loop. The channel is owned by
// the caller and is never closed by the Dispatcher.
func SubscribeChannel[E any](d *Dispatcher, ch chan<- *E) {
	Subscribe(d, func(evt *E) {
		select {
		case ch <- evt:
		default:
			// Non-blocking drop on backpressure.
		}
	})
}
