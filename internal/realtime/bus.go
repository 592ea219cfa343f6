package realtime

import (
	"context"
	"sync"
)

// Bus is an in-process event fan-out used when no socket transport is
// reachable, mirroring the browser front-end's broadcast-channel fallback.
// It implements Subscriber, so the cashier view does not care which
// transport feeds it.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Subscribe registers handler until the returned stop function is called.
func (b *Bus) Subscribe(_ context.Context, handler Handler) (func(), error) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = handler
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}, nil
}

// Publish delivers ev to every subscribed handler. Unknown kinds are dropped
// at the boundary, same as the socket transport.
func (b *Bus) Publish(ctx context.Context, ev Event) {
	if !knownKind(ev.Kind) {
		return
	}
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, ev)
	}
}
