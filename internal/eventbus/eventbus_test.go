package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviesearch/internal/domain"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	b := New()
	defer b.Close()

	got := make(chan DomainEvent, 1)
	b.Subscribe(EventHistoryCleared, func(e DomainEvent) { got <- e })

	b.Publish(domain.HistoryClearedEvent{Removed: 3})

	select {
	case e := <-got:
		require.IsType(t, domain.HistoryClearedEvent{}, e)
		assert.Equal(t, 3, e.(domain.HistoryClearedEvent).Removed)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	defer b.Close()

	calls := make(chan struct{}, 4)
	unsubscribe := b.Subscribe(EventLookupDispatched, func(DomainEvent) { calls <- struct{}{} })
	marker := make(chan struct{}, 4)
	b.Subscribe(EventLookupDispatched, func(DomainEvent) { marker <- struct{}{} })

	unsubscribe()
	b.Publish(domain.LookupDispatchedEvent{Query: "bat"})

	select {
	case <-marker:
	case <-time.After(time.Second):
		t.Fatal("remaining subscriber not called")
	}
	assert.Len(t, calls, 0)
}

func TestSubscribeAllPreservesOrder(t *testing.T) {
	b := New()
	defer b.Close()

	got := make(chan EventType, 3)
	b.SubscribeAll(func(e DomainEvent) { got <- e.Type() })

	b.Publish(domain.LookupDispatchedEvent{Query: "bat"})
	b.Publish(domain.LookupCompletedEvent{Query: "bat", Count: 2})
	b.Publish(domain.HistoryClearedEvent{})

	var order []EventType
	for i := 0; i < 3; i++ {
		select {
		case et := <-got:
			order = append(order, et)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for events")
		}
	}
	assert.Equal(t, []EventType{EventLookupDispatched, EventLookupCompleted, EventHistoryCleared}, order)
}

func TestHandlerPanicDoesNotStopBus(t *testing.T) {
	b := New()
	defer b.Close()

	got := make(chan struct{}, 1)
	b.Subscribe(EventHistoryCleared, func(DomainEvent) { panic("boom") })
	b.Subscribe(EventHistoryCleared, func(DomainEvent) { got <- struct{}{} })

	b.Publish(domain.HistoryClearedEvent{})

	select {
	case <-got:
	case <-time.After(time.Second):
		t.Fatal("second handler not called after panic")
	}
}

func TestPublishAfterCloseIsIgnored(t *testing.T) {
	b := New()
	b.Close()
	assert.NotPanics(t, func() { b.Publish(domain.HistoryClearedEvent{}) })
}
