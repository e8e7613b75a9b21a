// Package bridge installs the application's global shortcut and turns each
// press into an application event.
package bridge

import (
	"github.com/petems/hotkey-bridge/internal/events"
	"github.com/petems/hotkey-bridge/internal/hotkey"
	"github.com/rs/zerolog"
)

// Descriptor is the global shortcut the application listens for.
const Descriptor = "Ctrl+Alt+R"

// Handle is the part of the running application the bridge needs: the host
// shortcut facility and the application event emitter.
type Handle interface {
	Hotkeys() hotkey.Manager
	Emit(name string, payload any) error
}

// Setup parses descriptor and registers a listener that emits
// events.ShortcutTriggered on every press. The listener lives until the
// manager is closed.
func Setup(descriptor string, h Handle, log zerolog.Logger) error {
	log = log.With().Str("shortcut", descriptor).Logger()
	log.Info().Msg("Setting up global shortcut")

	log.Debug().Msg("Parsing shortcut")
	sc, err := hotkey.Parse(descriptor)
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse shortcut")
		return &SetupError{Kind: ParseFailure, Descriptor: descriptor, Err: err}
	}

	if err := h.Hotkeys().Register(sc, listener(h, log)); err != nil {
		log.Error().Err(err).Msg("Failed to register global shortcut")
		return &SetupError{Kind: RegistrationFailure, Descriptor: descriptor, Err: err}
	}

	log.Info().Str("combination", sc.String()).Msg("Global shortcut registered")
	return nil
}

// listener only reacts to key-down so a single press never fires twice.
func listener(h Handle, log zerolog.Logger) func(hotkey.State) {
	return func(state hotkey.State) {
		if state != hotkey.Pressed {
			return
		}
		log.Debug().Msg("Shortcut triggered")
		if err := h.Emit(events.ShortcutTriggered, nil); err != nil {
			log.Debug().Err(err).Msg("Shortcut event not delivered")
		}
	}
}
