package broadcast

import "fmt"

type DeliveryError struct {
	Subscriber string
	StatusCode int
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("subscriber %s responded with status %d", e.Subscriber, e.StatusCode)
}
