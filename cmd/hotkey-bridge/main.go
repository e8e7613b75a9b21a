package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/petems/hotkey-bridge/internal/app"
	"github.com/petems/hotkey-bridge/internal/config"
	"github.com/petems/hotkey-bridge/internal/eventserver"
	"github.com/petems/hotkey-bridge/internal/events"
	"github.com/petems/hotkey-bridge/internal/hotkey"
	"github.com/petems/hotkey-bridge/internal/hotkey/native"
	"github.com/petems/hotkey-bridge/internal/logging"
	"github.com/petems/hotkey-bridge/internal/notify"
	"github.com/petems/hotkey-bridge/internal/permissions"
	"github.com/petems/hotkey-bridge/internal/tray"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

func main() {
	// Load config from XDG/Library/AppData
	cfg, err := config.Load()
	if err != nil {
		// Use default logger if config fails to load
		log := logging.New()
		log.Fatal().Err(err).Str("path", config.Path()).Msg("Failed to load config")
	}

	// Initialize logger with configured level
	log := logging.NewWithLevel(cfg.LogLevel)
	log.Info().Str("version", Version).Str("commit", Commit).Msg("hotkey-bridge starting...")

	// macOS may need accessibility approval before shortcuts fire
	if err := permissions.EnsureAccessibility(); err != nil {
		log.Warn().Err(err).Msg("Accessibility permission missing")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.New(log.With().Str("component", "events").Logger())
	defer bus.Close()

	if cfg.EventServer.Enabled {
		srv := eventserver.New(cfg.EventServer.Addr, bus, log.With().Str("component", "eventserver").Logger())
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("Event server disabled")
		} else {
			defer func() {
				stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer stopCancel()
				srv.Stop(stopCtx)
			}()
		}
	}

	// A nil manager leaves the shortcut disabled; the app reports why.
	var hkManager hotkey.Manager
	if m, err := native.New(log.With().Str("component", "hotkey").Logger()); err != nil {
		log.Warn().Err(err).Msg("Failed to initialize hotkeys")
	} else {
		hkManager = m
	}

	// Create tray UI first (we'll pass it to app)
	trayUI := tray.New(Version, Commit, log.With().Str("component", "tray").Logger())

	application := app.New(app.Config{
		Hotkeys:       hkManager,
		Bus:           bus,
		Notifier:      notify.New(cfg.Notifications, log),
		Logger:        log,
		StatusUpdater: trayUI,
	})

	// Register global hotkey; failure disables the feature only
	application.Start()

	// Setup shutdown signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	// Start tray UI - MUST run on main thread
	if err := trayUI.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Tray error")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()
	if err := application.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}
}
