package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrConfiguration marks a fatal configuration problem detected before any
// network call is made.
var ErrConfiguration = errors.New("configuration error")

// Credentials are the five values required to talk to the vendor API.
type Credentials struct {
	DatacenterID string `mapstructure:"datacenter_id" yaml:"datacenter_id"`
	OrgID        string `mapstructure:"org_id" yaml:"org_id"`
	UserID       string `mapstructure:"user_id" yaml:"user_id"`
	APIToken     string `mapstructure:"api_token" yaml:"api_token"`
	Username     string `mapstructure:"username" yaml:"username"`
}

// AuthConfig selects how requests are authenticated.
// Type is "token" (X-API-TOKEN header, default) or "oauth2" (client credentials).
type AuthConfig struct {
	Type         string   `mapstructure:"type" yaml:"type"`
	ClientID     string   `mapstructure:"client_id" yaml:"client_id"`
	ClientSecret string   `mapstructure:"client_secret" yaml:"client_secret"`
	Scopes       []string `mapstructure:"scopes" yaml:"scopes"`
}

// ClientConfig holds TLS client options.
type ClientConfig struct {
	Insecure      bool   `mapstructure:"insecure" yaml:"insecure"`
	MinTLSVersion string `mapstructure:"min_tls_version" yaml:"min_tls_version"`
	MaxTLSVersion string `mapstructure:"max_tls_version" yaml:"max_tls_version"`
}

// ExportConfig controls the export job request and the polling loop.
type ExportConfig struct {
	Format    string `mapstructure:"format" yaml:"format"`
	UseLabels *bool  `mapstructure:"use_labels" yaml:"use_labels"`
	Compress  *bool  `mapstructure:"compress" yaml:"compress"`
	// Timeout and Interval accept duration strings (e.g. "5m", "2s").
	Timeout  string `mapstructure:"timeout" yaml:"timeout"`
	Interval string `mapstructure:"interval" yaml:"interval"`
}

// LoggingConfig controls log verbosity and output format.
type LoggingConfig struct {
	Level         string `mapstructure:"level" yaml:"level"`   // error, warn, info, debug
	Format        string `mapstructure:"format" yaml:"format"` // text, json
	MaskSensitive *bool  `mapstructure:"mask_sensitive" yaml:"mask_sensitive"`
}

// Config is the full tool configuration.
type Config struct {
	Credentials Credentials   `mapstructure:"credentials" yaml:"credentials"`
	Auth        AuthConfig    `mapstructure:"auth" yaml:"auth"`
	Export      ExportConfig  `mapstructure:"export" yaml:"export"`
	Client      ClientConfig  `mapstructure:"client" yaml:"client"`
	Logging     LoggingConfig `mapstructure:"logging" yaml:"logging"`
	// BaseURL overrides the datacenter-derived API base URL when set.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

const (
	DefaultExportFormat = "csv"
	DefaultPollTimeout  = 300 * time.Second
	DefaultPollInterval = 5 * time.Second
)

// envKeys maps credential fields to the environment variables they load from.
var envKeys = []struct {
	key   string
	apply func(*Credentials, string)
}{
	{"datacenter_id", func(c *Credentials, v string) { c.DatacenterID = v }},
	{"org_id", func(c *Credentials, v string) { c.OrgID = v }},
	{"user_id", func(c *Credentials, v string) { c.UserID = v }},
	{"api_token", func(c *Credentials, v string) { c.APIToken = v }},
	{"username", func(c *Credentials, v string) { c.Username = v }},
}

// Load builds the configuration from, in increasing precedence:
// an optional YAML file at path, a local .env file, process environment
// variables (QUALTRICS_DATACENTER_ID, QUALTRICS_ORG_ID, QUALTRICS_USER_ID,
// QUALTRICS_API_TOKEN, QUALTRICS_USERNAME). Existing process env always wins
// over the .env file.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path) // #nosec G304 -- path comes from the --config flag
		if err != nil {
			return nil, fmt.Errorf("%w: read config file %s: %v", ErrConfiguration, path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("%w: parse config file %s: %v", ErrConfiguration, path, err)
		}
	}

	// godotenv does not overwrite variables already present in the process env.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("QUALTRICS")
	v.AutomaticEnv()
	for _, ek := range envKeys {
		if s := strings.TrimSpace(v.GetString(ek.key)); s != "" {
			ek.apply(&cfg.Credentials, s)
		}
	}
	if s := strings.TrimSpace(v.GetString("client_id")); s != "" {
		cfg.Auth.ClientID = s
	}
	if s := strings.TrimSpace(v.GetString("client_secret")); s != "" {
		cfg.Auth.ClientSecret = s
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Auth.Type) == "" {
		c.Auth.Type = "token"
	}
	if strings.TrimSpace(c.Export.Format) == "" {
		c.Export.Format = DefaultExportFormat
	}
}

// Validate fails fast when any required credential is absent. The returned
// error wraps ErrConfiguration and names the missing field.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"datacenter_id", c.Credentials.DatacenterID},
		{"org_id", c.Credentials.OrgID},
		{"user_id", c.Credentials.UserID},
		{"api_token", c.Credentials.APIToken},
		{"username", c.Credentials.Username},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: missing required credential %q", ErrConfiguration, f.name)
		}
	}
	if t := strings.ToLower(strings.TrimSpace(c.Auth.Type)); t != "" && t != "token" && t != "oauth2" {
		return fmt.Errorf("%w: unknown auth type %q", ErrConfiguration, c.Auth.Type)
	}
	return nil
}

// APIBaseURL returns the vendor API base URL for the configured datacenter,
// honoring an explicit BaseURL override.
func (c *Config) APIBaseURL() string {
	if strings.TrimSpace(c.BaseURL) != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return fmt.Sprintf("https://%s.qualtrics.com/API/v3", c.Credentials.DatacenterID)
}

// TokenURL returns the OAuth2 token endpoint for the configured datacenter.
func (c *Config) TokenURL() string {
	if strings.TrimSpace(c.BaseURL) != "" {
		return strings.TrimRight(c.BaseURL, "/") + "/oauth2/token"
	}
	return fmt.Sprintf("https://%s.qualtrics.com/oauth2/token", c.Credentials.DatacenterID)
}

// PollTimeout parses Export.Timeout, falling back to the default on empty or
// malformed values.
func (c *Config) PollTimeout() time.Duration {
	return parseDurationOr(c.Export.Timeout, DefaultPollTimeout)
}

// PollInterval parses Export.Interval, falling back to the default.
func (c *Config) PollInterval() time.Duration {
	return parseDurationOr(c.Export.Interval, DefaultPollInterval)
}

func parseDurationOr(s string, def time.Duration) time.Duration {
	if t := strings.TrimSpace(s); t != "" {
		if d, err := time.ParseDuration(t); err == nil && d > 0 {
			return d
		}
	}
	return def
}

// UseLabels reports whether the export should use choice labels instead of
// recode values. Defaults to true, matching the vendor UI export.
func (c *Config) UseLabels() bool {
	if c.Export.UseLabels == nil {
		return true
	}
	return *c.Export.UseLabels
}

// Compress reports whether the export download should be zip-compressed.
// The archive fetcher requires compression, so this defaults to true.
func (c *Config) Compress() bool {
	if c.Export.Compress == nil {
		return true
	}
	return *c.Export.Compress
}
