package hotkey

import (
	"errors"
	"testing"
)

func TestFakeRejectsDuplicate(t *testing.T) {
	f := NewFake()
	sc := MustParse("Ctrl+Alt+R")

	if err := f.Register(sc, func(State) {}); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	err := f.Register(MustParse("Alt+Ctrl+R"), func(State) {})
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("second Register error = %v, want ErrAlreadyRegistered", err)
	}
	if f.Registered() != 1 {
		t.Errorf("Registered() = %d, want 1", f.Registered())
	}
}

func TestFakeUnregisterFreesCombination(t *testing.T) {
	f := NewFake()
	sc := MustParse("Ctrl+Alt+R")

	if err := f.Register(sc, func(State) {}); err != nil {
		t.Fatal(err)
	}
	if err := f.Unregister(sc); err != nil {
		t.Fatalf("Unregister returned error: %v", err)
	}
	if err := f.Unregister(sc); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("second Unregister error = %v, want ErrNotRegistered", err)
	}
	if err := f.Register(sc, func(State) {}); err != nil {
		t.Errorf("Register after Unregister returned error: %v", err)
	}
}

func TestFakeTrigger(t *testing.T) {
	f := NewFake()
	sc := MustParse("Ctrl+Alt+R")

	var got []State
	if err := f.Register(sc, func(s State) { got = append(got, s) }); err != nil {
		t.Fatal(err)
	}

	f.Trigger(sc, Pressed)
	f.Trigger(sc, Released)
	if f.Trigger(MustParse("Ctrl+R"), Pressed) {
		t.Error("Trigger on unregistered shortcut reported a listener")
	}

	if len(got) != 2 || got[0] != Pressed || got[1] != Released {
		t.Errorf("callback saw %v, want [pressed released]", got)
	}
}

func TestFakeClose(t *testing.T) {
	f := NewFake()
	sc := MustParse("Ctrl+Alt+R")

	if err := f.Register(sc, func(State) {}); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if f.Registered() != 0 {
		t.Errorf("Registered() after Close = %d, want 0", f.Registered())
	}
	if err := f.Register(sc, func(State) {}); !errors.Is(err, ErrClosed) {
		t.Errorf("Register after Close error = %v, want ErrClosed", err)
	}
}

func TestStateString(t *testing.T) {
	if Pressed.String() != "pressed" || Released.String() != "released" || StateUnknown.String() != "unknown" {
		t.Error("unexpected State names")
	}
}
