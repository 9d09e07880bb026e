package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/yungbote/nurture-backend/internal/realtime"
)

// memoryBus fans events out to forwarders in the same process. Used when
// REDIS_ADDR is unset and in tests.
type memoryBus struct {
	mu     sync.RWMutex
	subs   map[int]func(realtime.CatalogEvent)
	nextID int
	closed bool
}

func NewMemoryBus() Bus {
	return &memoryBus{subs: map[int]func(realtime.CatalogEvent){}}
}

func (b *memoryBus) Publish(ctx context.Context, msg realtime.CatalogEvent) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return fmt.Errorf("memory bus closed")
	}
	subs := make([]func(realtime.CatalogEvent), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(msg)
	}
	return nil
}

func (b *memoryBus) StartForwarder(ctx context.Context, onMsg func(m realtime.CatalogEvent)) error {
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("memory bus closed")
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = onMsg
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}()
	return nil
}

func (b *memoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = map[int]func(realtime.CatalogEvent){}
	return nil
}
