//go:build darwin || windows

package native

import (
	"fmt"
	"sync"

	"github.com/petems/hotkey-bridge/internal/hotkey"
	"github.com/rs/zerolog"
	xhotkey "golang.design/x/hotkey"
)

// Manager is a hotkey.Manager backed by the OS global shortcut facility.
type Manager struct {
	log zerolog.Logger

	mu     sync.Mutex
	regs   map[hotkey.Shortcut]*registration
	closed bool
}

var _ hotkey.Manager = (*Manager)(nil)

// New creates a manager for the current display server.
func New(log zerolog.Logger) (*Manager, error) {
	ds := DetectDisplayServer()
	if !ds.SupportsGlobalShortcuts() {
		return nil, fmt.Errorf("%w: display server %s", ErrUnavailable, ds)
	}
	log.Debug().Str("display_server", ds.String()).Msg("Native hotkey manager ready")

	return &Manager{
		log:  log,
		regs: make(map[hotkey.Shortcut]*registration),
	}, nil
}

func (m *Manager) Register(sc hotkey.Shortcut, callback func(hotkey.State)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return hotkey.ErrClosed
	}
	if _, exists := m.regs[sc]; exists {
		return fmt.Errorf("%w: %s", hotkey.ErrAlreadyRegistered, sc)
	}

	mods, key, err := toNative(sc)
	if err != nil {
		return err
	}

	reg := &registration{
		shortcut: sc,
		callback: callback,
		stop:     make(chan struct{}),
		log:      m.log,
	}

	for i, variant := range expandModifiers(mods) {
		hk := xhotkey.New(variant, key)
		if err := hk.Register(); err != nil {
			if i == 0 {
				reg.release()
				return fmt.Errorf("failed to register %s: %w", sc, err)
			}
			// Lock-mask variants are best effort.
			m.log.Debug().Err(err).Str("shortcut", sc.String()).Int("variant", i).Msg("Lock-mask variant not registered")
			continue
		}
		reg.hotkeys = append(reg.hotkeys, hk)
	}

	reg.start()
	m.regs[sc] = reg
	m.log.Debug().Str("shortcut", sc.String()).Int("grabs", len(reg.hotkeys)).Msg("Registered global shortcut")
	return nil
}

func (m *Manager) Unregister(sc hotkey.Shortcut) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	reg, exists := m.regs[sc]
	if !exists {
		return fmt.Errorf("%w: %s", hotkey.ErrNotRegistered, sc)
	}
	delete(m.regs, sc)
	return reg.release()
}

// Close unregisters every shortcut. The manager cannot be reused.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	var firstErr error
	for sc, reg := range m.regs {
		if err := reg.release(); err != nil {
			m.log.Warn().Err(err).Str("shortcut", sc.String()).Msg("Failed to unregister shortcut")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	m.regs = nil
	return firstErr
}

// registration owns the OS grabs for one shortcut.
type registration struct {
	shortcut hotkey.Shortcut
	callback func(hotkey.State)
	hotkeys  []*xhotkey.Hotkey
	stop     chan struct{}
	once     sync.Once
	log      zerolog.Logger
}

func (r *registration) start() {
	for _, hk := range r.hotkeys {
		go r.pump(hk)
	}
}

// pump converts the library's keydown/keyup channels into callback calls.
// Both channels must be drained or the library blocks its event loop.
func (r *registration) pump(hk *xhotkey.Hotkey) {
	for {
		select {
		case <-r.stop:
			return
		case _, ok := <-hk.Keydown():
			if !ok {
				return
			}
			r.dispatch(hotkey.Pressed)
		case _, ok := <-hk.Keyup():
			if !ok {
				return
			}
			r.dispatch(hotkey.Released)
		}
	}
}

func (r *registration) dispatch(state hotkey.State) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Interface("panic", rec).Str("shortcut", r.shortcut.String()).Msg("Recovered from panic in shortcut callback")
		}
	}()
	r.callback(state)
}

func (r *registration) release() error {
	var firstErr error
	r.once.Do(func() {
		close(r.stop)
		for _, hk := range r.hotkeys {
			if err := hk.Unregister(); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("failed to unregister %s: %w", r.shortcut, err)
			}
		}
	})
	return firstErr
}
