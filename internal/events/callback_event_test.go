package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCallbackEvent(t *testing.T) {
	event := NewCallbackEvent[string](false)
	require.NotNil(t, event)
	assert.Equal(t, 0, event.ListenerCount())
	assert.False(t, event.replayLast)

	event2 := NewCallbackEvent[int](true)
	require.NotNil(t, event2)
	assert.True(t, event2.replayLast)
}

func TestCallbackEvent_Listen_Notify_Basic(t *testing.T) {
	event := NewCallbackEvent[string](false)

	var received []string
	unregister := event.Listen(func(value string) {
		received = append(received, value)
	})
	assert.Equal(t, 1, event.ListenerCount())

	event.Notify("test1")
	event.Notify("test2")
	assert.Equal(t, []string{"test1", "test2"}, received)

	unregister()
	assert.Equal(t, 0, event.ListenerCount())

	event.Notify("test3")
	assert.Len(t, received, 2)
}

func TestCallbackEvent_ListenersRunInRegistrationOrder(t *testing.T) {
	event := NewCallbackEvent[int](false)

	var order []string
	unregisterA := event.Listen(func(int) { order = append(order, "a") })
	unregisterB := event.Listen(func(int) { order = append(order, "b") })
	unregisterC := event.Listen(func(int) { order = append(order, "c") })

	event.Notify(1)
	assert.Equal(t, []string{"a", "b", "c"}, order)

	unregisterB()
	order = nil
	event.Notify(2)
	assert.Equal(t, []string{"a", "c"}, order)

	unregisterA()
	unregisterC()
}

func TestCallbackEvent_ReplayLast(t *testing.T) {
	event := NewCallbackEvent[string](true)

	var first []string
	unregister1 := event.Listen(func(v string) { first = append(first, v) })
	assert.Empty(t, first, "nothing to replay before the first Notify")

	_, ok := event.Last()
	assert.False(t, ok)

	event.Notify("first-event")
	assert.Equal(t, []string{"first-event"}, first)

	var second []string
	unregister2 := event.Listen(func(v string) { second = append(second, v) })
	assert.Equal(t, []string{"first-event"}, second)

	event.Notify("second-event")
	assert.Equal(t, []string{"first-event", "second-event"}, first)
	assert.Equal(t, []string{"first-event", "second-event"}, second)

	last, ok := event.Last()
	assert.True(t, ok)
	assert.Equal(t, "second-event", last)

	unregister1()
	unregister2()
}

func TestCallbackEvent_NoReplayWhenDisabled(t *testing.T) {
	event := NewCallbackEvent[string](false)
	event.Notify("first-event")

	var received []string
	unregister := event.Listen(func(v string) { received = append(received, v) })
	assert.Empty(t, received)

	event.Notify("second-event")
	assert.Equal(t, []string{"second-event"}, received)
	unregister()
}

func TestCallbackEvent_ConcurrentAccess(t *testing.T) {
	event := NewCallbackEvent[int](false)

	var wg sync.WaitGroup
	var mu sync.Mutex
	count := 0
	unregisters := make([]func(), 10)

	for i := 0; i < 10; i++ {
		unregisters[i] = event.Listen(func(int) {
			mu.Lock()
			count++
			mu.Unlock()
		})
	}

	wg.Add(5)
	for i := 0; i < 5; i++ {
		go func(value int) {
			defer wg.Done()
			event.Notify(value)
		}(i)
	}
	wg.Wait()

	mu.Lock()
	assert.Equal(t, 50, count)
	mu.Unlock()

	for _, unregister := range unregisters {
		unregister()
	}
}

func TestCallbackEvent_Listen_NilCallback(t *testing.T) {
	event := NewCallbackEvent[string](false)
	assert.Panics(t, func() {
		event.Listen(nil)
	})
}

func TestCallbackEvent_UnregisterDuringNotify(t *testing.T) {
	event := NewCallbackEvent[string](false)

	var received []string
	var unregister func()
	unregister = event.Listen(func(value string) {
		received = append(received, value)
		if value == "unregister" {
			unregister()
		}
	})

	event.Notify("test1")
	event.Notify("unregister")
	event.Notify("test2")

	assert.Equal(t, []string{"test1", "unregister"}, received)
	assert.Equal(t, 0, event.ListenerCount())
}

func TestCallbackEvent_NotifyFromListener(t *testing.T) {
	event := NewCallbackEvent[int](false)

	var received []int
	unregister := event.Listen(func(v int) {
		received = append(received, v)
		if v < 3 {
			event.Notify(v + 1)
		}
	})

	event.Notify(1)
	assert.Equal(t, []int{1, 2, 3}, received)
	unregister()
}

func TestCallbackEvent_MultipleUnregisterCalls(t *testing.T) {
	event := NewCallbackEvent[string](false)

	unregister := event.Listen(func(string) {})
	keep := event.Listen(func(string) {})
	assert.Equal(t, 2, event.ListenerCount())

	unregister()
	unregister()
	unregister()
	assert.Equal(t, 1, event.ListenerCount())

	keep()
	assert.Equal(t, 0, event.ListenerCount())
}
