package main

import "sync"

// feed fans simulation output (trades, top-of-book changes) out to the
// websocket handlers. Listeners that fall behind drop messages rather than
// stall playback.
type feed[T any] struct {
	mu        sync.Mutex
	listeners map[uint64]chan T
	nextID    uint64
}

func newFeed[T any]() *feed[T] {
	return &feed[T]{listeners: make(map[uint64]chan T)}
}

// Listen registers a listener and returns its channel plus a detach
// function. Detaching closes the channel, ending the handler's range loop.
func (f *feed[T]) Listen(buffer int) (<-chan T, func()) {
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	ch := make(chan T, buffer)
	f.listeners[id] = ch
	f.mu.Unlock()

	detach := func() {
		f.mu.Lock()
		if ch, ok := f.listeners[id]; ok {
			delete(f.listeners, id)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, detach
}

// Broadcast delivers a value to every listener that has buffer room.
func (f *feed[T]) Broadcast(value T) {
	f.mu.Lock()
	for _, ch := range f.listeners {
		select {
		case ch <- value:
		default:
		}
	}
	f.mu.Unlock()
}
