package events

import (
	"sync"
)

type callbackListener[T any] struct {
	id       uint64
	callback func(T)
}

// CallbackEvent is a typed observer list. Listeners run synchronously on the
// goroutine that calls Notify, in the order they were registered.
type CallbackEvent[T any] struct {
	mu         sync.RWMutex
	listeners  []callbackListener[T]
	nextID     uint64
	replayLast bool
	last       T
	hasLast    bool
}

// NewCallbackEvent creates a CallbackEvent.
// replayLast: when true, a listener registered after the first Notify is
// immediately called with the most recent value.
func NewCallbackEvent[T any](replayLast bool) *CallbackEvent[T] {
	return &CallbackEvent[T]{replayLast: replayLast}
}

// Listen registers callback and returns a function that removes it again.
// The returned function is safe to call more than once.
func (e *CallbackEvent[T]) Listen(callback func(T)) func() {
	if callback == nil {
		panic("callback cannot be nil")
	}

	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners = append(e.listeners, callbackListener[T]{id: id, callback: callback})
	replay := e.replayLast && e.hasLast
	last := e.last
	e.mu.Unlock()

	// outside the lock so the callback may re-enter the event
	if replay {
		callback(last)
	}

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, l := range e.listeners {
			if l.id == id {
				e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

// Notify calls every registered listener with value.
func (e *CallbackEvent[T]) Notify(value T) {
	e.mu.Lock()
	if e.replayLast {
		e.last = value
		e.hasLast = true
	}
	snapshot := make([]callbackListener[T], len(e.listeners))
	copy(snapshot, e.listeners)
	e.mu.Unlock()

	for _, l := range snapshot {
		l.callback(value)
	}
}

// Last returns the most recently notified value when replayLast is enabled.
func (e *CallbackEvent[T]) Last() (T, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.last, e.hasLast
}

// ListenerCount returns the current number of registered listeners
func (e *CallbackEvent[T]) ListenerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners)
}
