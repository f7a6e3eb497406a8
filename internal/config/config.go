package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingSource is returned when a command needs the upstream CSV URL and none is configured.
var ErrMissingSource = errors.New("source.url is required (set TACBOARD_SOURCE_URL)")

// Config defines tacboard configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Source  SourceConfig  `yaml:"source"`
	Log     LogConfig     `yaml:"log"`
	Session SessionConfig `yaml:"session"`
	Report  ReportConfig  `yaml:"report"`
	Publish PublishConfig `yaml:"publish"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// SourceConfig points at the published CSV sheet.
type SourceConfig struct {
	URL       string        `yaml:"url"`
	Timeout   time.Duration `yaml:"timeout"`
	Normalize bool          `yaml:"normalize"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type SessionConfig struct {
	Max int           `yaml:"max"`
	TTL time.Duration `yaml:"ttl"`
}

// ReportConfig controls which status labels are left out of the chart.
type ReportConfig struct {
	ExcludeStatuses []string `yaml:"exclude_statuses"`
	ExcludePolicy   string   `yaml:"exclude_policy"`
}

// PublishConfig selects where `export --publish` sends artifacts.
// An empty driver disables publishing.
type PublishConfig struct {
	Driver string   `yaml:"driver"`
	Dir    string   `yaml:"dir"`
	S3     S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	Prefix    string `yaml:"prefix"`
	PathStyle bool   `yaml:"path_style"`
}

// Default returns the built-in configuration. No source URL ships with it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Source: SourceConfig{
			Timeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Session: SessionConfig{
			Max: 256,
			TTL: 30 * time.Minute,
		},
		Report: ReportConfig{
			ExcludePolicy: "always",
		},
		Publish: PublishConfig{
			Dir: "exports",
			S3: S3Config{
				Region: "us-east-1",
			},
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("TACBOARD_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("TACBOARD_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if err := envInt("TACBOARD_SERVER_PORT", &cfg.Server.Port); err != nil {
		return err
	}
	if u := os.Getenv("TACBOARD_SOURCE_URL"); u != "" {
		cfg.Source.URL = u
	}
	if err := envDuration("TACBOARD_SOURCE_TIMEOUT", &cfg.Source.Timeout); err != nil {
		return err
	}
	if err := envBool("TACBOARD_SOURCE_NORMALIZE", &cfg.Source.Normalize); err != nil {
		return err
	}
	if level := os.Getenv("TACBOARD_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if path := os.Getenv("TACBOARD_LOG_PATH"); path != "" {
		cfg.Log.Path = path
	}
	if err := envInt("TACBOARD_SESSION_MAX", &cfg.Session.Max); err != nil {
		return err
	}
	if err := envDuration("TACBOARD_SESSION_TTL", &cfg.Session.TTL); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("TACBOARD_EXCLUDE_STATUSES"); ok {
		cfg.Report.ExcludeStatuses = splitList(v)
	}
	if policy := os.Getenv("TACBOARD_EXCLUDE_POLICY"); policy != "" {
		cfg.Report.ExcludePolicy = policy
	}
	if driver := os.Getenv("TACBOARD_PUBLISH_DRIVER"); driver != "" {
		cfg.Publish.Driver = driver
	}
	if dir := os.Getenv("TACBOARD_PUBLISH_DIR"); dir != "" {
		cfg.Publish.Dir = dir
	}
	if bucket := os.Getenv("TACBOARD_PUBLISH_S3_BUCKET"); bucket != "" {
		cfg.Publish.S3.Bucket = bucket
	}
	if region := os.Getenv("TACBOARD_PUBLISH_S3_REGION"); region != "" {
		cfg.Publish.S3.Region = region
	}
	if endpoint := os.Getenv("TACBOARD_PUBLISH_S3_ENDPOINT"); endpoint != "" {
		cfg.Publish.S3.Endpoint = endpoint
	}
	if prefix := os.Getenv("TACBOARD_PUBLISH_S3_PREFIX"); prefix != "" {
		cfg.Publish.S3.Prefix = prefix
	}
	return envBool("TACBOARD_PUBLISH_S3_PATH_STYLE", &cfg.Publish.S3.PathStyle)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Source.URL != "" {
		u, err := url.Parse(c.Source.URL)
		if err != nil {
			return fmt.Errorf("invalid source.url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid source.url scheme %q", u.Scheme)
		}
	}
	if c.Source.Timeout < 0 {
		return fmt.Errorf("invalid source.timeout %s", c.Source.Timeout)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	if c.Session.Max < 1 {
		return fmt.Errorf("invalid session.max %d", c.Session.Max)
	}
	if c.Session.TTL < 0 {
		return fmt.Errorf("invalid session.ttl %s", c.Session.TTL)
	}
	switch c.Report.ExcludePolicy {
	case "", "always", "unfiltered", "never":
	default:
		return fmt.Errorf("invalid report.exclude_policy %q", c.Report.ExcludePolicy)
	}
	switch c.Publish.Driver {
	case "":
	case "dir":
		if c.Publish.Dir == "" {
			return fmt.Errorf("publish.dir is required for the dir driver")
		}
	case "s3":
		if c.Publish.S3.Bucket == "" {
			return fmt.Errorf("publish.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("invalid publish.driver %q", c.Publish.Driver)
	}
	return nil
}

// RequireSource returns ErrMissingSource when no upstream URL is set.
func (c Config) RequireSource() error {
	if c.Source.URL == "" {
		return ErrMissingSource
	}
	return nil
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

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func envBool(key string, dst *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

// splitList parses a comma-separated env value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
