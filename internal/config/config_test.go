package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, Default())
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := Default()
	cfg.LogLevel = "debug"
	cfg.EventServer.Enabled = false
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo returned error: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if *got != *cfg {
		t.Errorf("loaded %+v, want %+v", got, cfg)
	}
}

func TestLoadFromPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"log_level":"warn"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.EventServer != Default().EventServer {
		t.Errorf("EventServer = %+v, want defaults", cfg.EventServer)
	}
}

func TestLoadFromInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom accepted invalid JSON")
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    func(*Config)
		wantErr bool
	}{
		{
			name: "no overrides",
			env:  map[string]string{},
			want: func(*Config) {},
		},
		{
			name: "all overrides",
			env: map[string]string{
				EnvLogLevel:  "debug",
				EnvEventAddr: "127.0.0.1:9999",
				EnvNotify:    "false",
			},
			want: func(c *Config) {
				c.LogLevel = "debug"
				c.EventServer.Addr = "127.0.0.1:9999"
				c.Notifications = false
			},
		},
		{
			name:    "bad bool",
			env:     map[string]string{EnvNotify: "sometimes"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			err := cfg.applyEnv(func(k string) string { return tt.env[k] })
			if tt.wantErr {
				if err == nil {
					t.Fatal("applyEnv succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("applyEnv returned error: %v", err)
			}
			want := Default()
			tt.want(want)
			if *cfg != *want {
				t.Errorf("cfg = %+v, want %+v", cfg, want)
			}
		})
	}
}
