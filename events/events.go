package events

import "sync"

// EventHandler defines a callback which receives a published event of the generic type. A non-nil error is returned
// to the publisher.
type EventHandler[T any] func(T) error

// EventEmitter describes a provider which can subscribe EventHandler methods for callback when the event type
// (generic) is published. The zero value is ready to use.
type EventEmitter[T any] struct {
	// subscriptions defines the EventHandler methods which should be invoked when a new event is published to this
	// emitter, in subscription order.
	subscriptions []EventHandler[T]

	// subscriptionsLock guards subscriptions.
	subscriptionsLock sync.Mutex
}

// Subscribe adds an EventHandler to the list of subscribed EventHandler objects for this emitter. When an event is
// published, the callback will be triggered with the event data.
func (e *EventEmitter[T]) Subscribe(callback EventHandler[T]) {
	e.subscriptionsLock.Lock()
	defer e.subscriptionsLock.Unlock()
	e.subscriptions = append(e.subscriptions, callback)
}

// Publish emits the provided event by calling every subscribed EventHandler on the calling goroutine. Every handler
// is called even if an earlier one fails; the first error encountered is returned.
func (e *EventEmitter[T]) Publish(event T) error {
	e.subscriptionsLock.Lock()
	subscriptions := make([]EventHandler[T], len(e.subscriptions))
	copy(subscriptions, e.subscriptions)
	e.subscriptionsLock.Unlock()

	var firstErr error
	for _, subscription := range subscriptions {
		if err := subscription(event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SubscriptionCount returns the number of handlers subscribed to this emitter.
func (e *EventEmitter[T]) SubscriptionCount() int {
	e.subscriptionsLock.Lock()
	defer e.subscriptionsLock.Unlock()
	return len(e.subscriptions)
}
