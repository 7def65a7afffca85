package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingUserID is returned by ValidateClient when no owner id is configured
var ErrMissingUserID = errors.New("user id is not set, export TODOS_USER_ID or pass --user-id")

// Config holds all application configuration
type Config struct {
	// API settings
	BaseURL        string
	UserID         int
	RequestTimeout time.Duration

	// UI settings
	ErrorTimeout time.Duration
	MaxInFlight  int

	// Development store settings
	Port    int
	DataDir string

	// Backup settings
	BackupDir string

	LogLevel string
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		ErrorTimeout: 3 * time.Second,
		Port:         59002,
		LogLevel:     "info",
	}
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() {
	if baseURL := os.Getenv("TODOS_API_URL"); baseURL != "" {
		c.BaseURL = strings.TrimRight(baseURL, "/")
	}

	if userID := os.Getenv("TODOS_USER_ID"); userID != "" {
		if id, err := strconv.Atoi(userID); err == nil {
			c.UserID = id
		}
	}

	if timeout := os.Getenv("TODOS_REQUEST_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			c.RequestTimeout = time.Duration(t) * time.Millisecond
		}
	}

	if timeout := os.Getenv("TODOS_ERROR_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			c.ErrorTimeout = time.Duration(t) * time.Millisecond
		}
	}

	if inFlight := os.Getenv("TODOS_MAX_IN_FLIGHT"); inFlight != "" {
		if n, err := strconv.Atoi(inFlight); err == nil {
			c.MaxInFlight = n
		}
	}

	if port := os.Getenv("TODOS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Port = p
		}
	}

	if dataDir := os.Getenv("TODOS_DATA_DIR"); dataDir != "" {
		c.DataDir = dataDir
	}

	if backupDir := os.Getenv("TODOS_BACKUP_DIR"); backupDir != "" {
		c.BackupDir = backupDir
	}

	if level := os.Getenv("TODOS_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
}

// SetBaseURL points the client at the local development store when no API URL was given
func (c *Config) SetBaseURL() {
	if c.BaseURL == "" {
		c.BaseURL = fmt.Sprintf("http://localhost:%d", c.Port)
	}
}

// Validate checks the settings shared by every command
func (c *Config) Validate() error {
	if c.Port < 1024 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1024 and 65535, got: %d", c.Port)
	}

	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must be non-negative, got: %v", c.RequestTimeout)
	}

	if c.ErrorTimeout <= 0 {
		return fmt.Errorf("error timeout must be positive, got: %v", c.ErrorTimeout)
	}

	if c.MaxInFlight < 0 {
		return fmt.Errorf("max in-flight requests must be non-negative, got: %d", c.MaxInFlight)
	}

	return nil
}

// ValidateClient checks the settings needed to talk to the remote store
func (c *Config) ValidateClient() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.UserID <= 0 {
		return ErrMissingUserID
	}

	if c.BaseURL == "" {
		return fmt.Errorf("API base URL cannot be empty")
	}

	return nil
}
