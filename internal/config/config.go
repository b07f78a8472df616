// Package config loads the client's optional TOML settings file.
//
// Precedence (applied by the CLI): flags > environment > file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultURL         = "http://localhost:3000"
	DefaultTimeout     = 5 * time.Second
	DefaultUnlockDelay = 500 * time.Millisecond
)

type Config struct {
	URL     string        `toml:"url"`
	Timeout time.Duration `toml:"timeout"`

	// UnlockDelay is how long the create control stays hidden after a submit.
	UnlockDelay time.Duration `toml:"unlock_delay"`
	// SelectDelay > 0 selects a newly created user after a fixed delay instead
	// of waiting for the create request to finish.
	SelectDelay time.Duration `toml:"select_delay"`

	LogFile  string `toml:"log_file"`
	LogLevel string `toml:"log_level"`

	TUI TUIConfig `toml:"tui"`
}

type TUIConfig struct {
	// Theme is light|dark|auto.
	Theme string `toml:"theme"`
}

func Defaults() Config {
	return Config{
		URL:         DefaultURL,
		Timeout:     DefaultTimeout,
		UnlockDelay: DefaultUnlockDelay,
		LogLevel:    "info",
		TUI:         TUIConfig{Theme: "auto"},
	}
}

// DefaultPath is ~/.checklist/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".checklist", "config.toml"), nil
}

// Load overlays the file at path onto Defaults. A missing file is not an
// error; the bool reports whether one was read.
func Load(path string) (Config, bool, error) {
	cfg := Defaults()
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, false, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults(), false, nil
		}
		return Defaults(), true, fmt.Errorf("config %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Defaults(), true, fmt.Errorf("config %s: unknown keys: %v", path, undec)
	}
	if err := cfg.Validate(); err != nil {
		return Defaults(), true, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, true, nil
}

func (c Config) Validate() error {
	if c.Timeout < 0 || c.UnlockDelay < 0 || c.SelectDelay < 0 {
		return errors.New("durations must not be negative")
	}
	switch strings.ToLower(strings.TrimSpace(c.TUI.Theme)) {
	case "", "auto", "light", "dark":
	default:
		return fmt.Errorf("tui.theme: unknown value %q", c.TUI.Theme)
	}
	return nil
}
