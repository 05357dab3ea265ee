package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/jdziat/livejobs/pkg/core"
	"github.com/jdziat/livejobs/pkg/schedule"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "LIVEJOBS"

// Config holds everything the binary needs to start a session.
type Config struct {
	BaseURL        string        `yaml:"baseURL" split_words:"true"`
	PageSize       int           `yaml:"pageSize" split_words:"true"`
	PollInterval   time.Duration `yaml:"pollInterval" split_words:"true"`
	ReconnectDelay time.Duration `yaml:"reconnectDelay" split_words:"true"`
	FetchTimeout   time.Duration `yaml:"fetchTimeout" split_words:"true"`
	KeepAlive      string        `yaml:"keepAlive" split_words:"true"`

	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
}

// HistoryConfig controls the local stats history database.
type HistoryConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Path      string        `yaml:"path"`
	Retention time.Duration `yaml:"retention"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		BaseURL:        "http://localhost:8080",
		PageSize:       50,
		PollInterval:   10 * time.Second,
		ReconnectDelay: 5 * time.Second,
		FetchTimeout:   30 * time.Second,
		KeepAlive:      "@every 4m",
		History: HistoryConfig{
			Enabled:   true,
			Path:      "livejobs.db",
			Retention: 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Option configures Load.
type Option interface {
	apply(*loader)
}

type optionFunc func(*loader)

func (f optionFunc) apply(l *loader) { f(l) }

type loader struct {
	dotenv string
	prefix string
}

// WithDotEnv sets the .env file read before the environment. A missing file
// is ignored. Default: ".env". An empty path disables it.
func WithDotEnv(path string) Option {
	return optionFunc(func(l *loader) {
		l.dotenv = path
	})
}

// WithEnvPrefix changes the environment variable prefix. Default: EnvPrefix.
func WithEnvPrefix(prefix string) Option {
	return optionFunc(func(l *loader) {
		l.prefix = prefix
	})
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), the .env file and the environment.
func Load(path string, opts ...Option) (*Config, error) {
	l := &loader{dotenv: ".env", prefix: EnvPrefix}
	for _, opt := range opts {
		opt.apply(l)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.decodeYAML(data); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	if l.dotenv != "" {
		if err := godotenv.Load(l.dotenv); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", l.dotenv, err)
		}
	}

	if err := envconfig.Process(l.prefix, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeYAML(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate rejects settings a session cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: baseURL %q must be an http(s) URL", core.ErrInvalidConfig, c.BaseURL)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("%w: pageSize must be positive", core.ErrInvalidConfig)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: pollInterval must be positive", core.ErrInvalidConfig)
	}
	if c.ReconnectDelay <= 0 {
		return fmt.Errorf("%w: reconnectDelay must be positive", core.ErrInvalidConfig)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("%w: fetchTimeout must be positive", core.ErrInvalidConfig)
	}
	if c.KeepAlive != "" {
		if _, err := schedule.ParseCron(c.KeepAlive); err != nil {
			return fmt.Errorf("%w: keepAlive: %v", core.ErrInvalidConfig, err)
		}
	}
	if c.History.Enabled {
		if c.History.Path == "" {
			return fmt.Errorf("%w: history.path is required when history is enabled", core.ErrInvalidConfig)
		}
		if c.History.Retention < 0 {
			return fmt.Errorf("%w: history.retention must not be negative", core.ErrInvalidConfig)
		}
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q must be text or json", core.ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// KeepAliveSchedule parses KeepAlive. It returns nil when keep-alive is
// disabled by an empty expression.
func (c *Config) KeepAliveSchedule() (schedule.Schedule, error) {
	if c.KeepAlive == "" {
		return nil, nil
	}
	return schedule.ParseCron(c.KeepAlive)
}

func (c LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if c.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", core.ErrInvalidConfig, c.Level)
	}
	return lvl, nil
}

// NewLogger builds a slog logger writing to w.
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	lvl, err := c.level()
	if err != nil {
		return nil, err
	}
	hopts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	}
	return slog.New(slog.NewTextHandler(w, hopts)), nil
}

// OpenLogger builds a logger writing to File, or to fallback when File is
// empty. The returned close function releases the file.
func (c LogConfig) OpenLogger(fallback io.Writer) (*slog.Logger, func() error, error) {
	if c.File == "" {
		l, err := c.NewLogger(fallback)
		return l, func() error { return nil }, err
	}
	f, err := os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	l, err := c.NewLogger(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return l, f.Close, nil
}
