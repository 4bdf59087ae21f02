package main

import (
	"fmt"
	"os"

	"github.com/comalice/dispatchx"
)

type OrderPlaced struct {
	OrderID string
	Total   float64
}

type OrderShipped struct {
	OrderID string
}

func main() {
	d := dispatchx.New(
		dispatchx.WithLocking(),
		dispatchx.WithErrorCollection(),
	)

	dispatchx.Subscribe(d, func(evt *OrderPlaced) {
		fmt.Printf("billing: charging %.2f for order %s\n", evt.Total, evt.OrderID)
	})
	dispatchx.SubscribeErr(d, func(evt *OrderPlaced) error {
		if evt.Total <= 0 {
			return fmt.Errorf("order %s has non-positive total %.2f", evt.OrderID, evt.Total)
		}
		fmt.Printf("audit: recorded order %s\n", evt.OrderID)
		return nil
	})

	// Channel listener: a harness-side transport for shipped notifications.
	shipped := make(chan *OrderShipped, 16)
	dispatchx.SubscribeChannel(d, shipped)

	if err := dispatchx.Dispatch(d, &OrderPlaced{OrderID: "A-100", Total: 49.90}); err != nil {
		panic(err)
	}

	// With error collection every listener still runs; failures come back bundled.
	if err := dispatchx.Dispatch(d, &OrderPlaced{OrderID: "A-101", Total: 0}); err != nil {
		fmt.Printf("dispatch finished with: %v\n", err)
	}

	dispatchx.Dispatch(d, &OrderShipped{OrderID: "A-100"})
	evt := <-shipped
	fmt.Printf("shipping: order %s left the warehouse\n", evt.OrderID)

	fmt.Println("\nregistry snapshot:")
	if err := d.Snapshot().WriteYAML(os.Stdout); err != nil {
		panic(err)
	}
}
