package hotkey

import (
	"fmt"
	"sync"
)

// Fake is an in-memory Manager. Transitions are delivered synchronously
// through Trigger, which makes it suitable for tests and headless runs.
type Fake struct {
	mu        sync.Mutex
	callbacks map[Shortcut]func(State)
	closed    bool

	// RegisterErr, when set, is returned by the next Register call.
	RegisterErr error

	registerCalls int
}

// NewFake creates an empty fake manager
func NewFake() *Fake {
	return &Fake{callbacks: make(map[Shortcut]func(State))}
}

func (f *Fake) Register(sc Shortcut, callback func(State)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.registerCalls++
	if f.closed {
		return ErrClosed
	}
	if err := f.RegisterErr; err != nil {
		f.RegisterErr = nil
		return err
	}
	if _, exists := f.callbacks[sc]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, sc)
	}
	f.callbacks[sc] = callback
	return nil
}

func (f *Fake) Unregister(sc Shortcut) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.callbacks[sc]; !exists {
		return fmt.Errorf("%w: %s", ErrNotRegistered, sc)
	}
	delete(f.callbacks, sc)
	return nil
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	f.callbacks = make(map[Shortcut]func(State))
	return nil
}

// Trigger delivers a transition to the listener of sc. It reports whether a
// listener was registered.
func (f *Fake) Trigger(sc Shortcut, state State) bool {
	f.mu.Lock()
	cb, ok := f.callbacks[sc]
	f.mu.Unlock()

	if !ok {
		return false
	}
	cb(state)
	return true
}

// Registered returns the number of active registrations.
func (f *Fake) Registered() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.callbacks)
}

// RegisterCalls returns how many times Register was invoked.
func (f *Fake) RegisterCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registerCalls
}
