package payroll_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/horasett/payroll-engine/payroll"
)

func TestBroadcaster_DeliversInSubscriptionOrder(t *testing.T) {
	var b payroll.Broadcaster
	var calls []string

	b.Subscribe(func(payroll.Topic) { calls = append(calls, "first") })
	b.Subscribe(func(payroll.Topic) { calls = append(calls, "second") })

	b.Publish(payroll.TopicConfigUpdated)

	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	var b payroll.Broadcaster
	count := 0

	unsubscribe := b.Subscribe(func(payroll.Topic) { count++ })
	b.Publish(payroll.TopicRecordsUpdated)
	unsubscribe()
	unsubscribe()
	b.Publish(payroll.TopicRecordsUpdated)

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, b.Len())
}

func TestBroadcaster_LateSubscriberMissesEarlierEvents(t *testing.T) {
	var b payroll.Broadcaster
	b.Publish(payroll.TopicConfigUpdated)

	got := 0
	b.Subscribe(func(payroll.Topic) { got++ })

	assert.Zero(t, got)
}

func TestBroadcaster_ListenerMayUnsubscribeDuringPublish(t *testing.T) {
	var b payroll.Broadcaster
	var unsubscribe func()
	calls := 0
	unsubscribe = b.Subscribe(func(payroll.Topic) {
		calls++
		unsubscribe()
	})

	b.Publish(payroll.TopicConfigUpdated)
	b.Publish(payroll.TopicConfigUpdated)

	assert.Equal(t, 1, calls)
}
