package events

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func receive(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case ev, ok := <-sub.C():
		if !ok {
			t.Fatal("subscription channel closed")
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestEmitDeliversToMatchingSubscribers(t *testing.T) {
	bus := New(zerolog.Nop())
	all := bus.Subscribe()
	named := bus.Subscribe(ShortcutTriggered)
	other := bus.Subscribe("something-else")

	if err := bus.Emit(ShortcutTriggered, nil); err != nil {
		t.Fatalf("Emit returned error: %v", err)
	}

	for _, sub := range []*Subscription{all, named} {
		ev := receive(t, sub)
		if ev.Name != ShortcutTriggered {
			t.Errorf("event name = %q, want %q", ev.Name, ShortcutTriggered)
		}
		if ev.Payload != nil {
			t.Errorf("payload = %v, want nil", ev.Payload)
		}
		if ev.ID == "" || ev.At.IsZero() {
			t.Error("event missing ID or timestamp")
		}
	}

	select {
	case ev := <-other.C():
		t.Errorf("unrelated subscription received %q", ev.Name)
	default:
	}
}

func TestEmitWithoutListeners(t *testing.T) {
	bus := New(zerolog.Nop())

	err := bus.Emit(ShortcutTriggered, nil)
	if !errors.Is(err, ErrNoListeners) {
		t.Errorf("Emit error = %v, want ErrNoListeners", err)
	}
}

func TestEmitDoesNotBlockOnFullSubscriber(t *testing.T) {
	bus := New(zerolog.Nop())
	sub := bus.SubscribeBuffered(1, ShortcutTriggered)

	if err := bus.Emit(ShortcutTriggered, nil); err != nil {
		t.Fatalf("first Emit returned error: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- bus.Emit(ShortcutTriggered, nil) }()

	select {
	case err := <-done:
		if !errors.Is(err, ErrDropped) {
			t.Errorf("second Emit error = %v, want ErrDropped", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full subscriber")
	}

	receive(t, sub)
}

func TestSubscriptionClose(t *testing.T) {
	bus := New(zerolog.Nop())
	sub := bus.Subscribe()

	if err := sub.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := <-sub.C(); ok {
		t.Error("channel still open after Close")
	}
	// second close is a no-op
	if err := sub.Close(); err != nil {
		t.Fatal(err)
	}
	if err := bus.Emit("x", nil); !errors.Is(err, ErrNoListeners) {
		t.Errorf("Emit after unsubscribe error = %v, want ErrNoListeners", err)
	}
}

func TestBusClose(t *testing.T) {
	bus := New(zerolog.Nop())
	sub := bus.Subscribe()

	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := <-sub.C(); ok {
		t.Error("subscription channel open after bus Close")
	}
	if err := bus.Emit("x", nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Emit after Close error = %v, want ErrClosed", err)
	}
	if err := sub.Close(); err != nil {
		t.Errorf("Close after bus Close returned %v", err)
	}

	late := bus.Subscribe()
	if _, ok := <-late.C(); ok {
		t.Error("subscription created after Close should be closed")
	}
}

func TestEmitPreservesOrder(t *testing.T) {
	bus := New(zerolog.Nop())
	sub := bus.Subscribe()

	for _, name := range []string{"a", "b", "c"} {
		if err := bus.Emit(name, nil); err != nil {
			t.Fatal(err)
		}
	}
	for _, want := range []string{"a", "b", "c"} {
		if got := receive(t, sub).Name; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}
