//go:build !darwin && !linux && !windows

package native

import (
	"fmt"
	"runtime"

	"github.com/petems/hotkey-bridge/internal/hotkey"
	"github.com/rs/zerolog"
)

// Manager is unavailable on this OS.
type Manager struct{}

var _ hotkey.Manager = (*Manager)(nil)

// New always fails on unsupported platforms.
func New(log zerolog.Logger) (*Manager, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnavailable, runtime.GOOS)
}

func (m *Manager) Register(sc hotkey.Shortcut, callback func(hotkey.State)) error {
	return ErrUnavailable
}

func (m *Manager) Unregister(sc hotkey.Shortcut) error {
	return ErrUnavailable
}

func (m *Manager) Close() error {
	return nil
}
