package events

import "sync"

// Notifier is the publishing side of the bus. State components receive a
// Notifier and never depend on who is listening.
type Notifier interface {
	Publish(Event)
}

// Discard is a Notifier that drops every event.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Publish(Event) {}

// Handler receives a published event.
type Handler func(Event)

// Subscription identifies a registered handler for Unsubscribe.
type Subscription uint64

type subscriber struct {
	id      Subscription
	all     bool
	kind    Kind
	handler Handler
}

// Record is an entry in the bus history.
type Record struct {
	Seq         uint64 `json:"seq"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

// DefaultHistory is the number of records kept by NewBus.
const DefaultHistory = 1000

// Bus delivers events synchronously, in subscription order, and keeps a
// bounded history of recent events.
type Bus struct {
	mu          sync.Mutex
	nextID      Subscription
	subscribers []subscriber
	seq         uint64
	history     []Record
	maxHistory  int
}

// NewBus creates a bus keeping DefaultHistory records.
func NewBus() *Bus {
	return &Bus{maxHistory: DefaultHistory}
}

// Subscribe registers h for events of the given kind.
func (b *Bus) Subscribe(kind Kind, h Handler) Subscription {
	return b.add(subscriber{kind: kind, handler: h})
}

// SubscribeAll registers h for every event.
func (b *Bus) SubscribeAll(h Handler) Subscription {
	return b.add(subscriber{all: true, handler: h})
}

func (b *Bus) add(s subscriber) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	s.id = b.nextID
	b.subscribers = append(b.subscribers, s)
	return s.id
}

// Unsubscribe removes a handler. Unknown subscriptions are ignored.
func (b *Bus) Unsubscribe(id Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subscribers {
		if s.id == id {
			b.subscribers = append(b.subscribers[:i:i], b.subscribers[i+1:]...)
			return
		}
	}
}

// Publish delivers e to every matching subscriber. Handlers run on the
// caller's goroutine after the bus lock is released, so a handler may
// subscribe, unsubscribe or publish.
func (b *Bus) Publish(e Event) {
	if e == nil {
		return
	}
	b.mu.Lock()
	b.seq++
	b.history = append(b.history, Record{Seq: b.seq, Kind: e.Kind().String(), Description: e.Describe()})
	if b.maxHistory > 0 && len(b.history) > b.maxHistory {
		b.history = b.history[len(b.history)-b.maxHistory:]
	}
	targets := make([]Handler, 0, len(b.subscribers))
	for _, s := range b.subscribers {
		if s.all || s.kind == e.Kind() {
			targets = append(targets, s.handler)
		}
	}
	b.mu.Unlock()

	for _, h := range targets {
		h(e)
	}
}

// Recent returns up to n of the most recent records, oldest first.
func (b *Bus) Recent(n int) []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	start := 0
	if n >= 0 && len(b.history) > n {
		start = len(b.history) - n
	}
	out := make([]Record, len(b.history)-start)
	copy(out, b.history[start:])
	return out
}

// Clear removes all subscribers and history.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = nil
	b.history = nil
}

// On subscribes a handler typed to a single event variant.
//
//	events.On(bus, func(e events.GameSaved) { ... })
func On[T Event](b *Bus, fn func(T)) Subscription {
	var zero T
	return b.Subscribe(zero.Kind(), func(e Event) {
		if typed, ok := e.(T); ok {
			fn(typed)
		}
	})
}
