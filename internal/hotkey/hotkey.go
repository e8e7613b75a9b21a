package hotkey

import "errors"

var (
	// ErrAlreadyRegistered is returned when a shortcut is registered while a
	// previous registration for the same combination is still active.
	ErrAlreadyRegistered = errors.New("shortcut already registered")

	// ErrNotRegistered is returned by Unregister for unknown shortcuts.
	ErrNotRegistered = errors.New("shortcut not registered")

	// ErrClosed is returned after the manager has been closed.
	ErrClosed = errors.New("hotkey manager closed")
)

// State is the transition reported by the host for a registered shortcut.
type State int

const (
	StateUnknown State = iota
	Pressed
	Released
)

func (s State) String() string {
	switch s {
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	default:
		return "unknown"
	}
}

// Manager defines the interface for global hotkey management
type Manager interface {
	// Register installs callback for every transition of sc. The callback runs
	// on whatever goroutine the implementation dispatches from.
	Register(sc Shortcut, callback func(State)) error
	Unregister(sc Shortcut) error
	Close() error
}
