package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Board.PollInterval != 5*time.Minute {
		t.Errorf("expected 5m poll, got %s", cfg.Board.PollInterval)
	}
	h, m, _ := cfg.LogoutClock()
	if h != 20 || m != 0 {
		t.Errorf("expected 20:00 logout, got %02d:%02d", h, m)
	}
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		check   func(t *testing.T, cfg *Config)
		wantErr bool
	}{
		{
			name:    "missing file uses defaults",
			content: "",
			check: func(t *testing.T, cfg *Config) {
				if cfg.API.URL != "http://localhost:3001/api" {
					t.Errorf("unexpected url %q", cfg.API.URL)
				}
			},
		},
		{
			name: "yaml values",
			content: `api:
  url: http://board.local/api
  timeout: 5s
board:
  poll_interval: 2m
  logout_at: "18:30"
  timezone: Europe/London
ui:
  toast_seconds: 5
  desktop_notifications: true
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.API.Timeout != 5*time.Second {
					t.Errorf("expected 5s timeout, got %s", cfg.API.Timeout)
				}
				if cfg.Board.PollInterval != 2*time.Minute {
					t.Errorf("expected 2m poll, got %s", cfg.Board.PollInterval)
				}
				loc, _ := cfg.Location()
				if loc.String() != "Europe/London" {
					t.Errorf("unexpected location %s", loc)
				}
				if !cfg.UI.DesktopNotifications || cfg.ToastDuration() != 5*time.Second {
					t.Errorf("unexpected ui config %+v", cfg.UI)
				}
			},
		},
		{
			name:    "env overrides file",
			content: "api:\n  url: http://file/api\n",
			env:     map[string]string{EnvAPIURL: "http://env/api", EnvLogLevel: "debug"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.API.URL != "http://env/api" {
					t.Errorf("expected env url, got %q", cfg.API.URL)
				}
				if cfg.Log.Level != "debug" {
					t.Errorf("expected debug level, got %q", cfg.Log.Level)
				}
			},
		},
		{
			name:    "bad logout time",
			content: "board:\n  logout_at: eight\n",
			wantErr: true,
		},
		{
			name:    "bad timezone",
			content: "board:\n  timezone: Mars/Olympus\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvAPIURL, "")
			t.Setenv(EnvLogLevel, "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			if tt.content != "" {
				if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
					t.Fatal(err)
				}
			}

			cfg, err := LoadFile(path)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestSaveFileRoundTrip(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvLogLevel, "")
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Board.LogoutAt = "19:45"
	cfg.Board.PollInterval = 90 * time.Second
	if err := SaveFile(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Board.LogoutAt != "19:45" || got.Board.PollInterval != 90*time.Second {
		t.Errorf("unexpected board config %+v", got.Board)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected 0600 permissions, got %v", info.Mode().Perm())
	}
}

func TestDataDirHonoursXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_DATA_HOME", base)

	dir, err := DataDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join(base, "whiteboard") {
		t.Errorf("unexpected data dir %s", dir)
	}
}
