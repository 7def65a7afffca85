package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TODOS_API_URL", "https://example.test/api/")
	t.Setenv("TODOS_USER_ID", "42")
	t.Setenv("TODOS_REQUEST_TIMEOUT", "1500")
	t.Setenv("TODOS_ERROR_TIMEOUT", "500")
	t.Setenv("TODOS_MAX_IN_FLIGHT", "4")
	t.Setenv("TODOS_PORT", "60000")
	t.Setenv("TODOS_DATA_DIR", "/tmp/todos")
	t.Setenv("TODOS_LOG_LEVEL", "debug")

	cfg := NewConfig()
	cfg.LoadFromEnvironment()

	if cfg.BaseURL != "https://example.test/api" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.BaseURL)
	}
	if cfg.UserID != 42 {
		t.Errorf("UserID = %d, want 42", cfg.UserID)
	}
	if cfg.RequestTimeout != 1500*time.Millisecond {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.ErrorTimeout != 500*time.Millisecond {
		t.Errorf("ErrorTimeout = %v", cfg.ErrorTimeout)
	}
	if cfg.MaxInFlight != 4 {
		t.Errorf("MaxInFlight = %d", cfg.MaxInFlight)
	}
	if cfg.Port != 60000 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.DataDir != "/tmp/todos" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadFromEnvironmentIgnoresGarbage(t *testing.T) {
	t.Setenv("TODOS_USER_ID", "abc")
	t.Setenv("TODOS_PORT", "")

	cfg := NewConfig()
	cfg.LoadFromEnvironment()

	if cfg.UserID != 0 {
		t.Errorf("UserID = %d, want 0", cfg.UserID)
	}
	if cfg.Port != 59002 {
		t.Errorf("Port = %d, want default", cfg.Port)
	}
}

func TestSetBaseURL(t *testing.T) {
	cfg := NewConfig()
	cfg.Port = 61000
	cfg.SetBaseURL()
	if cfg.BaseURL != "http://localhost:61000" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}

	cfg.BaseURL = "https://remote.test"
	cfg.SetBaseURL()
	if cfg.BaseURL != "https://remote.test" {
		t.Errorf("explicit BaseURL overwritten: %q", cfg.BaseURL)
	}
}

func TestValidateClient(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		is      error
	}{
		{name: "ok", mutate: func(c *Config) {}},
		{name: "missing user", mutate: func(c *Config) { c.UserID = 0 }, wantErr: true, is: ErrMissingUserID},
		{name: "bad port", mutate: func(c *Config) { c.Port = 80 }, wantErr: true},
		{name: "negative in-flight", mutate: func(c *Config) { c.MaxInFlight = -1 }, wantErr: true},
		{name: "zero error timeout", mutate: func(c *Config) { c.ErrorTimeout = 0 }, wantErr: true},
		{name: "empty base url", mutate: func(c *Config) { c.BaseURL = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			cfg.UserID = 7
			cfg.SetBaseURL()
			tt.mutate(cfg)

			err := cfg.ValidateClient()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateClient() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error %v is not %v", err, tt.is)
			}
		})
	}
}
