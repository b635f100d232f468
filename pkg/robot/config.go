package robot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// DefaultBaseURL is the address of the controller on the rig's access point.
const DefaultBaseURL = "http://192.168.43.94:3000/api"

// DefaultPickSettle is how long a finished pick keeps its button highlighted.
const DefaultPickSettle = time.Second

// Environment variables that override the config file.
const (
	EnvBaseURL  = "ARMPANEL_BASE_URL"
	EnvLogLevel = "ARMPANEL_LOG_LEVEL"
	EnvLogFile  = "ARMPANEL_LOG_FILE"
)

// Config holds the panel configuration
type Config struct {
	BaseURL          string    `json:"base_url"`
	ServoCount       int       `json:"servo_count"`
	InitialPositions Positions `json:"initial_positions,omitempty"`
	PickSettleMs     int       `json:"pick_settle_ms,omitempty"`
	LogFile          string    `json:"log_file,omitempty"`
	LogLevel         string    `json:"log_level,omitempty"`
}

// DefaultConfig returns the configuration for the stock six-servo rig.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:          DefaultBaseURL,
		ServoCount:       DefaultServoCount,
		InitialPositions: InitialPositions(),
		PickSettleMs:     int(DefaultPickSettle / time.Millisecond),
		LogFile:          "armpanel.log",
		LogLevel:         "info",
	}
}

// PickSettle returns the pick settle delay as a duration.
func (c *Config) PickSettle() time.Duration {
	if c.PickSettleMs <= 0 {
		return DefaultPickSettle
	}
	return time.Duration(c.PickSettleMs) * time.Millisecond
}

// Validate checks the servo vector and base address.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url is required")
	}
	if c.ServoCount < 1 || c.ServoCount > 16 {
		return fmt.Errorf("servo_count %d out of range [1, 16]", c.ServoCount)
	}
	if len(c.InitialPositions) != c.ServoCount {
		return fmt.Errorf("initial_positions has %d entries, want %d", len(c.InitialPositions), c.ServoCount)
	}
	if err := c.InitialPositions.Validate(); err != nil {
		return fmt.Errorf("initial_positions: %w", err)
	}
	return nil
}

// LoadConfigFrom loads configuration from a specific file. Missing fields
// take their defaults; a missing file yields the default configuration.
// Environment overrides are applied afterwards.
func LoadConfigFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.InitialPositions = nil

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	// A shorter rig keeps the leading joints of the factory pose.
	if len(cfg.InitialPositions) == 0 {
		cfg.InitialPositions = defaultPose(cfg.ServoCount)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from a .env file and the process environment.
// Variables already set in the environment win over .env. A missing .env
// is fine; a malformed one is an error.
func (c *Config) ApplyEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
	return nil
}

// SaveTo writes the configuration as indented JSON. Existing files are
// overwritten.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// ConfigExists reports whether a config file is present at path.
func ConfigExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func defaultPose(n int) Positions {
	pose := InitialPositions()
	if n <= len(pose) {
		return pose[:max(n, 0)]
	}
	for len(pose) < n {
		pose = append(pose, 90)
	}
	return pose
}
