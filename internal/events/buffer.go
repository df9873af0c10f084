package events

import "sync"

// Buffer keeps the most recent events up to a fixed capacity, dropping the
// oldest once full. It is meant to be subscribed to a Hub.
type Buffer struct {
	mu      sync.Mutex
	cap     int
	events  []Event
	dropped int
}

func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{cap: capacity}
}

func (b *Buffer) Push(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.events) == b.cap {
		b.events = b.events[1:]
		b.dropped++
	}
	b.events = append(b.events, ev)
}

// Drain returns the buffered events oldest first and empties the buffer.
func (b *Buffer) Drain() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.events
	b.events = nil
	if out == nil {
		out = []Event{}
	}
	return out
}

// Dropped reports how many events were discarded for lack of room.
func (b *Buffer) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
