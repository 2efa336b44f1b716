package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines console configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		API: APIConfig{
			BaseURL: "http://localhost:4000",
			Timeout: 10 * time.Second,
		},
		Session: SessionConfig{
			Path: defaultSessionPath(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("ELDERFLOW_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if base := os.Getenv("ELDERFLOW_API_URL"); base != "" {
		cfg.API.BaseURL = base
	}
	if timeoutStr := os.Getenv("ELDERFLOW_API_TIMEOUT"); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ELDERFLOW_API_TIMEOUT: %w", err)
		}
		cfg.API.Timeout = timeout
	}
	if sessionPath := os.Getenv("ELDERFLOW_SESSION_PATH"); sessionPath != "" {
		cfg.Session.Path = sessionPath
	}
	if level := os.Getenv("ELDERFLOW_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".elderflow-session.json"
	}
	return filepath.Join(home, ".elderflow", "session.json")
}
