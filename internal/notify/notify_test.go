package notify

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestNotifyDisabled(t *testing.T) {
	d := New(false, zerolog.Nop())
	called := false
	d.send = func(string, string, any) error { called = true; return nil }

	d.Notify("title", "message")
	if called {
		t.Error("disabled notifier sent a notification")
	}
}

func TestNotifyEnabled(t *testing.T) {
	d := New(true, zerolog.Nop())
	var gotTitle, gotMessage string
	d.send = func(title, message string, _ any) error {
		gotTitle, gotMessage = title, message
		return nil
	}

	d.Notify("Hotkey", "registered")
	if gotTitle != "Hotkey" || gotMessage != "registered" {
		t.Errorf("sent (%q, %q), want (Hotkey, registered)", gotTitle, gotMessage)
	}
}

func TestNotifySwallowsErrors(t *testing.T) {
	d := New(true, zerolog.Nop())
	d.send = func(string, string, any) error { return errors.New("no notification daemon") }

	d.Notify("title", "message") // must not panic
}
