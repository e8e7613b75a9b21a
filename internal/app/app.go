package app

import (
	"context"
	"errors"
	"sync"

	"github.com/petems/hotkey-bridge/internal/bridge"
	"github.com/petems/hotkey-bridge/internal/events"
	"github.com/petems/hotkey-bridge/internal/hotkey"
	"github.com/petems/hotkey-bridge/internal/notify"
	"github.com/rs/zerolog"
)

// StatusUpdater is an interface for updating status (e.g., tray icon)
type StatusUpdater interface {
	SetIdle()
	SetActive()
	SetError(reason string)
	SetActivations(n int)
}

type Config struct {
	Hotkeys       hotkey.Manager
	Bus           *events.Bus
	Notifier      notify.Notifier // Optional - can be nil
	Logger        zerolog.Logger
	StatusUpdater StatusUpdater // Optional - can be nil
}

// App owns the global shortcut registration and reacts to its events.
type App struct {
	hotkeys  hotkey.Manager
	bus      *events.Bus
	notifier notify.Notifier
	log      zerolog.Logger
	status   StatusUpdater

	mu          sync.Mutex
	active      bool
	activations int
	hotkeyErr   error
	sub         *events.Subscription
	done        chan struct{}
}

var _ bridge.Handle = (*App)(nil)

func New(cfg Config) *App {
	return &App{
		hotkeys:  cfg.Hotkeys,
		bus:      cfg.Bus,
		notifier: cfg.Notifier,
		log:      cfg.Logger,
		status:   cfg.StatusUpdater,
	}
}

// Hotkeys implements bridge.Handle.
func (a *App) Hotkeys() hotkey.Manager {
	return a.hotkeys
}

// Emit implements bridge.Handle.
func (a *App) Emit(name string, payload any) error {
	return a.bus.Emit(name, payload)
}

// Start subscribes to shortcut events and installs the global shortcut.
// A shortcut that cannot be installed disables the feature but does not
// stop the app; the error is reported through HotkeyErr.
func (a *App) Start() {
	a.mu.Lock()
	a.sub = a.bus.Subscribe(events.ShortcutTriggered)
	a.done = make(chan struct{})
	go a.consume(a.sub, a.done)
	a.mu.Unlock()

	err := a.setupHotkey()

	a.mu.Lock()
	defer a.mu.Unlock()
	a.hotkeyErr = err
	if err != nil {
		a.log.Warn().Err(err).Msg("Global shortcut disabled")
		if a.notifier != nil {
			a.notifier.Notify("Global shortcut unavailable", shortcutErrorMessage(err))
		}
		if a.status != nil {
			a.status.SetError(shortcutErrorMessage(err))
		}
		return
	}
	if a.status != nil {
		a.status.SetIdle()
	}
}

func (a *App) setupHotkey() error {
	if a.hotkeys == nil {
		return &bridge.SetupError{
			Kind:       bridge.RegistrationFailure,
			Descriptor: bridge.Descriptor,
			Err:        errors.New("no global shortcut facility"),
		}
	}
	return bridge.Setup(bridge.Descriptor, a, a.log)
}

func shortcutErrorMessage(err error) string {
	var setupErr *bridge.SetupError
	if errors.As(err, &setupErr) && setupErr.Kind == bridge.RegistrationFailure {
		return bridge.Descriptor + " could not be registered. Another application may already use it."
	}
	return err.Error()
}

func (a *App) consume(sub *events.Subscription, done chan<- struct{}) {
	defer close(done)
	for range sub.C() {
		a.OnActivation()
	}
}

// OnActivation toggles the active state. Called once per shortcut press.
func (a *App) OnActivation() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.active = !a.active
	a.activations++
	a.log.Info().Bool("active", a.active).Int("activations", a.activations).Msg("Shortcut activated")

	if a.status == nil {
		return
	}
	a.status.SetActivations(a.activations)
	if a.active {
		a.status.SetActive()
	} else {
		a.status.SetIdle()
	}
}

// HotkeyErr returns the setup error from Start, if any.
func (a *App) HotkeyErr() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hotkeyErr
}

func (a *App) IsActive() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

func (a *App) Activations() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activations
}

// Shutdown stops consuming events and releases the global shortcut. It
// gives up when ctx is done, leaving the release to process exit.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	sub, done := a.sub, a.done
	a.sub = nil
	a.mu.Unlock()

	if sub != nil {
		sub.Close()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if a.hotkeys == nil {
		return nil
	}

	closed := make(chan error, 1)
	go func() {
		closed <- a.hotkeys.Close()
	}()
	select {
	case err := <-closed:
		return err
	case <-ctx.Done():
		a.log.Warn().Err(ctx.Err()).Msg("Timed out releasing global shortcut")
		return ctx.Err()
	}
}
