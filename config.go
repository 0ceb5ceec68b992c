package formfill

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"
)

// Config holds the settings a host usually keeps in a file.
type Config struct {
	Locale   string `json:"locale" yaml:"locale"`
	Timezone string `json:"timezone" yaml:"timezone"`
	LogLevel string `json:"log_level" yaml:"log_level"`
}

// LoadConfig reads a YAML file (.yaml or .yml) or a JSON file.
func LoadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var conf Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(file, &conf)
	default:
		err = sonic.Unmarshal(file, &conf)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &conf, nil
}

// Options converts the config into form options. Empty settings keep the
// defaults.
func (c *Config) Options() ([]Option, error) {
	var opts []Option
	if c.Locale != "" {
		opts = append(opts, WithLocale(c.Locale))
	}
	if c.Timezone != "" {
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
		}
		opts = append(opts, WithLocation(loc))
	}
	if c.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
		}
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		opts = append(opts, WithLogger(slog.New(handler)))
	}
	return opts, nil
}
