// Package config provides configuration and persisted local state for
// the budgetchat CLI.
package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	appName        = "budgetchat"
	configFileName = "budgetchat.json"

	// DefaultAPIBaseURL is the production gateway endpoint.
	DefaultAPIBaseURL = "https://api.budgetchat.in/api"
)

// Config is the top-level configuration structure. It also carries the
// three pieces of persisted local state: the auth token, the chosen
// speech-input language, and the theme preference.
type Config struct {
	APIBaseURL     string   `json:"api_base_url,omitempty"`
	AuthToken      string   `json:"auth_token,omitempty"`
	SpeechLanguage string   `json:"speech_language,omitempty"`
	Theme          string   `json:"theme,omitempty"`
	Options        *Options `json:"options,omitempty"`
}

// Options holds optional settings.
type Options struct {
	DataDir        string `json:"data_directory,omitempty"`
	TranscriberCmd string `json:"transcriber_command,omitempty"`
	Debug          bool   `json:"debug,omitempty"`
	DisableArchive bool   `json:"disable_archive,omitempty"`
}

// NewConfig creates a Config with defaults applied.
func NewConfig() *Config {
	cfg := &Config{Options: &Options{}}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.SpeechLanguage == "" {
		cfg.SpeechLanguage = "en-US"
	}
	if cfg.Theme == "" {
		cfg.Theme = "dark"
	}
	if cfg.Options == nil {
		cfg.Options = &Options{}
	}
	if cfg.Options.DataDir == "" {
		cfg.Options.DataDir = filepath.Join(xdg.DataHome, appName)
	}
}

// DataDir returns the directory for local data (archive db, debug log).
func (c *Config) DataDir() string {
	return c.Options.DataDir
}

// GlobalConfigPath returns the path of the user's config file.
func GlobalConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, configFileName)
}
