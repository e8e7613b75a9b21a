package tray

import (
	"context"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/getlantern/systray"
	"github.com/petems/hotkey-bridge/internal/app"
	"github.com/petems/hotkey-bridge/internal/bridge"
	"github.com/rs/zerolog"
)

type UI struct {
	version string
	commit  string
	log     zerolog.Logger

	// copy writes to the system clipboard
	copy func(string) error

	mu          sync.Mutex
	ready       bool
	status      string
	reason      string
	activations int

	// Menu items
	mStatus      *systray.MenuItem
	mShortcut    *systray.MenuItem
	mActivations *systray.MenuItem
}

var _ app.StatusUpdater = (*UI)(nil)

func New(version, commit string, log zerolog.Logger) *UI {
	return &UI{
		version: version,
		commit:  commit,
		log:     log,
		copy:    clipboard.WriteAll,
		status:  "idle",
	}
}

// Status update methods for the app to call
func (u *UI) SetIdle() {
	u.updateStatus("idle", "")
}

func (u *UI) SetActive() {
	u.updateStatus("active", "")
}

func (u *UI) SetError(reason string) {
	u.updateStatus("error", reason)
}

func (u *UI) SetActivations(n int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.activations = n
	if u.ready {
		u.mActivations.SetTitle(activationsLabel(n))
	}
}

// Run blocks running the tray loop. It MUST be called on the main thread.
func (u *UI) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		systray.Quit()
	}()
	systray.Run(u.onReady, u.onExit)
	return nil
}

func (u *UI) onReady() {
	systray.SetTooltip("Global shortcut bridge")

	// Build menu
	u.mStatus = systray.AddMenuItem("", "Shortcut status")
	u.mStatus.Disable()
	u.mShortcut = systray.AddMenuItem("Shortcut: "+bridge.Descriptor, "Copy shortcut to clipboard")
	u.mActivations = systray.AddMenuItem(activationsLabel(0), "Presses since start")
	u.mActivations.Disable()

	systray.AddSeparator()
	mAbout := systray.AddMenuItem("About", "About hotkey-bridge")
	mQuit := systray.AddMenuItem("Quit", "Exit application")

	u.mu.Lock()
	u.ready = true
	u.applyLocked()
	u.mActivations.SetTitle(activationsLabel(u.activations))
	u.mu.Unlock()

	// Event loop
	go u.handleEvents(mAbout, mQuit)
}

func (u *UI) handleEvents(mAbout, mQuit *systray.MenuItem) {
	for {
		select {
		case <-u.mShortcut.ClickedCh:
			u.copyShortcut()
		case <-mAbout.ClickedCh:
			u.showAbout()
		case <-mQuit.ClickedCh:
			systray.Quit()
			return
		}
	}
}

func (u *UI) copyShortcut() {
	if err := u.copy(bridge.Descriptor); err != nil {
		u.log.Error().Err(err).Msg("Failed to copy shortcut to clipboard")
		return
	}
	u.log.Info().Str("shortcut", bridge.Descriptor).Msg("Copied shortcut to clipboard")
}

func (u *UI) showAbout() {
	// TODO: Show about dialog with native UI
	fmt.Printf("hotkey-bridge %s (%s)\nGlobal shortcut %s\n", u.version, u.commit, bridge.Descriptor)
}

func (u *UI) onExit() {
	u.log.Info().Msg("Tray exited")
}

func (u *UI) updateStatus(status, reason string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.status = status
	u.reason = reason
	if u.ready {
		u.applyLocked()
	}
}

// applyLocked pushes the current status to the tray. Requires u.mu.
func (u *UI) applyLocked() {
	systray.SetTitle(fmt.Sprintf("⌨️ %s", emojiForStatus(u.status)))
	u.mStatus.SetTitle(statusLabel(u.status, u.reason))
}

// emojiForStatus returns the appropriate status emoji
func emojiForStatus(status string) string {
	switch status {
	case "active":
		return "🔴" // Red - active
	case "idle":
		return "🟢" // Green - ready/idle
	case "error":
		return "⚪️" // White - shortcut unavailable
	default:
		return "🟢" // Green - default to ready
	}
}

func statusLabel(status, reason string) string {
	switch status {
	case "active":
		return "Active"
	case "error":
		if reason == "" {
			return "Shortcut unavailable"
		}
		return "Shortcut unavailable: " + reason
	default:
		return "Ready (" + bridge.Descriptor + ")"
	}
}

func activationsLabel(n int) string {
	if n == 1 {
		return "1 activation"
	}
	return fmt.Sprintf("%d activations", n)
}
