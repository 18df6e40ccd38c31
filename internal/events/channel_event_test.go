package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain[T any](ch <-chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}

func TestNewChannelEvent(t *testing.T) {
	event := NewChannelEvent[string](false)
	require.NotNil(t, event)
	assert.Equal(t, 0, event.ListenerCount())
	assert.False(t, event.replayLast)

	event2 := NewChannelEvent[int](true)
	require.NotNil(t, event2)
	assert.True(t, event2.replayLast)
}

func TestChannelEvent_Listen_Notify_Basic(t *testing.T) {
	event := NewChannelEvent[string](false)

	ch := make(chan string, 10)
	unregister := event.Listen(ch)
	assert.Equal(t, 1, event.ListenerCount())

	event.Notify("test1")
	event.Notify("test2")
	assert.Equal(t, []string{"test1", "test2"}, drain(ch))

	unregister()
	assert.Equal(t, 0, event.ListenerCount())

	event.Notify("test3")
	assert.Empty(t, drain(ch))
}

func TestChannelEvent_MultipleListeners(t *testing.T) {
	event := NewChannelEvent[int](false)

	ch1 := make(chan int, 10)
	ch2 := make(chan int, 10)
	unregister1 := event.Listen(ch1)
	unregister2 := event.Listen(ch2)

	event.Notify(42)
	event.Notify(100)

	assert.Equal(t, []int{42, 100}, drain(ch1))
	assert.Equal(t, []int{42, 100}, drain(ch2))

	unregister1()
	unregister2()
	assert.Equal(t, 0, event.ListenerCount())
}

func TestChannelEvent_ReplayLast(t *testing.T) {
	event := NewChannelEvent[string](true)

	ch1 := make(chan string, 10)
	unregister1 := event.Listen(ch1)
	assert.Empty(t, drain(ch1))

	event.Notify("first-event")
	assert.Equal(t, []string{"first-event"}, drain(ch1))

	ch2 := make(chan string, 10)
	unregister2 := event.Listen(ch2)
	assert.Equal(t, []string{"first-event"}, drain(ch2))

	event.Notify("second-event")
	assert.Equal(t, []string{"second-event"}, drain(ch1))
	assert.Equal(t, []string{"second-event"}, drain(ch2))

	last, ok := event.Last()
	assert.True(t, ok)
	assert.Equal(t, "second-event", last)

	unregister1()
	unregister2()
}

func TestChannelEvent_Listen_NilChannel(t *testing.T) {
	event := NewChannelEvent[string](false)
	assert.Panics(t, func() {
		event.Listen(nil)
	})
}

func TestChannelEvent_FullChannelDropsValue(t *testing.T) {
	event := NewChannelEvent[string](false)

	ch := make(chan string, 1)
	unregister := event.Listen(ch)

	ch <- "blocking"
	event.Notify("test1")
	event.Notify("test2")
	assert.Equal(t, 1, len(ch))
	<-ch

	event.Notify("test3")
	assert.Equal(t, []string{"test3"}, drain(ch))
	unregister()
}

func TestChannelEvent_ConcurrentNotify(t *testing.T) {
	event := NewChannelEvent[int](false)

	channels := make([]chan int, 10)
	unregisters := make([]func(), 10)
	for i := range channels {
		channels[i] = make(chan int, 100)
		unregisters[i] = event.Listen(channels[i])
	}

	var wg sync.WaitGroup
	wg.Add(5)
	for i := 0; i < 5; i++ {
		go func(value int) {
			defer wg.Done()
			event.Notify(value)
		}(i)
	}
	wg.Wait()

	for i, ch := range channels {
		assert.Len(t, drain(ch), 5, "channel %d", i)
	}
	for _, unregister := range unregisters {
		unregister()
	}
}
