// Package events is the in-process application event bus. Emit never
// blocks: a subscriber that falls behind loses events instead of stalling
// the emitter.
package events

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ShortcutTriggered is emitted once per press of the global shortcut.
const ShortcutTriggered = "global-shortcut-triggered"

// DefaultBuffer is the per-subscription channel capacity.
const DefaultBuffer = 16

var (
	ErrNoListeners = errors.New("no listeners for event")
	ErrDropped     = errors.New("event dropped by busy subscriber")
	ErrClosed      = errors.New("event bus closed")
)

// Event is a named notification with an optional payload.
type Event struct {
	ID      string
	Name    string
	Payload any
	At      time.Time
}

// Bus fans named events out to subscriptions.
type Bus struct {
	log zerolog.Logger

	mu     sync.RWMutex
	subs   map[string]*Subscription
	closed bool
}

func New(log zerolog.Logger) *Bus {
	return &Bus{
		log:  log,
		subs: make(map[string]*Subscription),
	}
}

// Subscribe returns a subscription receiving the named events, or every
// event when no names are given.
func (b *Bus) Subscribe(names ...string) *Subscription {
	return b.SubscribeBuffered(DefaultBuffer, names...)
}

// SubscribeBuffered is Subscribe with an explicit channel capacity.
func (b *Bus) SubscribeBuffered(size int, names ...string) *Subscription {
	if size < 1 {
		size = 1
	}
	sub := &Subscription{
		id:  uuid.NewString(),
		bus: b,
		ch:  make(chan Event, size),
	}
	if len(names) > 0 {
		sub.names = make(map[string]struct{}, len(names))
		for _, n := range names {
			sub.names[n] = struct{}{}
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.ch)
		sub.closed = true
		return sub
	}
	b.subs[sub.id] = sub
	b.log.Debug().Str("subscription", sub.id).Strs("events", names).Msg("Subscribed")
	return sub
}

// Emit delivers an event to every matching subscription without blocking.
func (b *Bus) Emit(name string, payload any) error {
	ev := Event{
		ID:      uuid.NewString(),
		Name:    name,
		Payload: payload,
		At:      time.Now(),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrClosed
	}

	matched, dropped := 0, 0
	for _, sub := range b.subs {
		if !sub.wants(name) {
			continue
		}
		matched++
		select {
		case sub.ch <- ev:
		default:
			dropped++
		}
	}

	switch {
	case matched == 0:
		return fmt.Errorf("%w: %s", ErrNoListeners, name)
	case dropped > 0:
		return fmt.Errorf("%w: %s (%d of %d)", ErrDropped, name, dropped, matched)
	}
	return nil
}

// Close closes every subscription channel. Later Emit calls fail.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for id, sub := range b.subs {
		sub.closed = true
		close(sub.ch)
		delete(b.subs, id)
	}
	return nil
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub.closed {
		return
	}
	sub.closed = true
	delete(b.subs, sub.id)
	close(sub.ch)
	b.log.Debug().Str("subscription", sub.id).Msg("Unsubscribed")
}

// Subscription receives events from a Bus.
type Subscription struct {
	id    string
	bus   *Bus
	names map[string]struct{}
	ch    chan Event

	// guarded by bus.mu
	closed bool
}

func (s *Subscription) ID() string { return s.id }

// C returns the event channel. It is closed by Close or Bus.Close.
func (s *Subscription) C() <-chan Event { return s.ch }

func (s *Subscription) Close() error {
	s.bus.unsubscribe(s)
	return nil
}

func (s *Subscription) wants(name string) bool {
	if s.names == nil {
		return true
	}
	_, ok := s.names[name]
	return ok
}
