// Package notify shows desktop notifications for conditions the user
// should see without opening the logs.
package notify

import (
	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog"
)

// Notifier shows desktop notifications.
type Notifier interface {
	Notify(title, message string)
}

// Desktop sends notifications through the OS notification service.
type Desktop struct {
	enabled bool
	log     zerolog.Logger
	send    func(title, message string, icon any) error
}

// New creates a desktop notifier. When enabled is false every call is a
// no-op.
func New(enabled bool, log zerolog.Logger) *Desktop {
	return &Desktop{
		enabled: enabled,
		log:     log,
		send:    beeep.Notify,
	}
}

// Notify shows a notification. Failures are logged, not returned.
func (d *Desktop) Notify(title, message string) {
	if !d.enabled {
		return
	}
	if err := d.send(title, message, ""); err != nil {
		d.log.Warn().Err(err).Str("title", title).Msg("Failed to show notification")
		return
	}
	d.log.Debug().Str("title", title).Msg("Notification sent")
}
