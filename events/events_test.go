package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestEventPublishingAndSubscribing creates EventEmitter objects, subscribes EventHandler callbacks to them, and
// ensures that the events are received as intended.
func TestEventPublishingAndSubscribing(t *testing.T) {
	type TestEventA struct{ Value int }
	type TestEventB struct{}

	var emitterA EventEmitter[TestEventA]
	var emitterB EventEmitter[TestEventB]

	var received []int
	var countB int
	emitterA.Subscribe(func(event TestEventA) error {
		received = append(received, event.Value)
		return nil
	})
	emitterA.Subscribe(func(event TestEventA) error {
		received = append(received, event.Value*10)
		return nil
	})
	emitterB.Subscribe(func(event TestEventB) error {
		countB++
		return nil
	})

	assert.NoError(t, emitterA.Publish(TestEventA{Value: 1}))
	assert.NoError(t, emitterA.Publish(TestEventA{Value: 2}))
	assert.NoError(t, emitterB.Publish(TestEventB{}))

	// Handlers run in subscription order and emitters do not see each other's events
	assert.Equal(t, []int{1, 10, 2, 20}, received)
	assert.Equal(t, 1, countB)
	assert.Equal(t, 2, emitterA.SubscriptionCount())
}

// TestEventPublishingErrors ensures that every handler runs even when one fails and that the first error is returned.
func TestEventPublishingErrors(t *testing.T) {
	var emitter EventEmitter[string]
	firstErr := errors.New("first")
	calls := 0

	emitter.Subscribe(func(string) error {
		calls++
		return firstErr
	})
	emitter.Subscribe(func(string) error {
		calls++
		return errors.New("second")
	})

	err := emitter.Publish("event")
	assert.ErrorIs(t, err, firstErr)
	assert.Equal(t, 2, calls)

	// Publishing with no subscribers is a no-op
	var empty EventEmitter[int]
	assert.NoError(t, empty.Publish(1))
}
