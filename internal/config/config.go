// Package config loads the engine client settings used by the scholarlink CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/scholarlink/internal/clients/engagementapi"
	"github.com/yungbote/scholarlink/internal/platform/envutil"
)

const (
	DefaultPath    = "config/scholarlink.yaml"
	DefaultBaseURL = "http://localhost:8080/api"
)

// Duration is a time.Duration that reads "30s" style strings or whole seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	raw := strings.TrimSpace(node.Value)
	if raw == "" {
		*d = 0
		return nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		*d = Duration(time.Duration(n) * time.Second)
		return nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type APIConfig struct {
	BaseURL    string   `yaml:"base_url"`
	Timeout    Duration `yaml:"timeout"`
	MaxRetries int      `yaml:"max_retries"`
}

type SessionConfig struct {
	UserID string `yaml:"user_id"`
	Role   string `yaml:"role"`
	Token  string `yaml:"token"`
}

type PlansConfig struct {
	AllowSkipToCompleted bool `yaml:"allow_skip_to_completed"`
}

type Config struct {
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	Plans   PlansConfig   `yaml:"plans"`
	LogMode string        `yaml:"log_mode"`
}

func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:    DefaultBaseURL,
			Timeout:    Duration(engagementapi.DefaultTimeout),
			MaxRetries: engagementapi.DefaultMaxRetries,
		},
		Session: SessionConfig{Role: "student"},
		LogMode: "development",
	}
}

// Load reads path, or SCHOLARLINK_CONFIG, or DefaultPath, then applies env overrides.
// A missing file is only an error when the path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = envutil.String("SCHOLARLINK_CONFIG", "")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.API.BaseURL = envutil.String("SCHOLARLINK_API_BASE_URL", c.API.BaseURL)
	c.API.Timeout = Duration(envutil.Duration("SCHOLARLINK_API_TIMEOUT", c.API.Timeout.Std()))
	c.API.MaxRetries = envutil.Int("SCHOLARLINK_API_MAX_RETRIES", c.API.MaxRetries)
	c.Session.Token = envutil.String("SCHOLARLINK_TOKEN", c.Session.Token)
	c.Session.UserID = envutil.String("SCHOLARLINK_USER_ID", c.Session.UserID)
	c.Session.Role = envutil.String("SCHOLARLINK_ROLE", c.Session.Role)
	c.Plans.AllowSkipToCompleted = envutil.Bool("SCHOLARLINK_ALLOW_SKIP_TO_COMPLETED", c.Plans.AllowSkipToCompleted)
	c.LogMode = envutil.String("LOG_MODE", c.LogMode)
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.base_url is required")
	}
	if c.API.Timeout < 0 {
		return errors.New("api.timeout must not be negative")
	}
	if c.API.MaxRetries < 0 {
		return errors.New("api.max_retries must not be negative")
	}
	switch strings.ToLower(strings.TrimSpace(c.Session.Role)) {
	case "", "student", "mentor", "admin":
	default:
		return fmt.Errorf("unknown session.role %q", c.Session.Role)
	}
	return nil
}

// ClientOptions maps the API section onto engagementapi options.
func (c Config) ClientOptions() engagementapi.Options {
	return engagementapi.Options{
		BaseURL:    c.API.BaseURL,
		Timeout:    c.API.Timeout.Std(),
		MaxRetries: c.API.MaxRetries,
	}
}
