package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var credentialEnvKeys = []string{
	"QUALTRICS_DATACENTER_ID", "QUALTRICS_ORG_ID", "QUALTRICS_USER_ID",
	"QUALTRICS_API_TOKEN", "QUALTRICS_USERNAME",
}

// clearCredentialEnv unsets the credential env vars for the test's duration,
// restoring any original values afterwards.
func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, k := range credentialEnvKeys {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for _, k := range credentialEnvKeys {
			_ = os.Unsetenv(k)
		}
	})
}

func validCreds() Credentials {
	return Credentials{
		DatacenterID: "ca1",
		OrgID:        "myorg",
		UserID:       "UR_123",
		APIToken:     "tok-abc",
		Username:     "user@example.com",
	}
}

func TestValidate_AllFieldsPresent(t *testing.T) {
	cfg := &Config{Credentials: validCreds()}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Loader must return values unchanged
	if cfg.Credentials.APIToken != "tok-abc" || cfg.Credentials.DatacenterID != "ca1" {
		t.Fatalf("credentials mutated: %+v", cfg.Credentials)
	}
}

func TestValidate_MissingFieldNamesField(t *testing.T) {
	cases := []struct {
		name  string
		zero  func(*Credentials)
		field string
	}{
		{"datacenter", func(c *Credentials) { c.DatacenterID = "" }, "datacenter_id"},
		{"org", func(c *Credentials) { c.OrgID = "" }, "org_id"},
		{"user", func(c *Credentials) { c.UserID = "" }, "user_id"},
		{"token", func(c *Credentials) { c.APIToken = "  " }, "api_token"},
		{"username", func(c *Credentials) { c.Username = "" }, "username"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			creds := validCreds()
			tc.zero(&creds)
			cfg := &Config{Credentials: creds}
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error for missing %s", tc.field)
			}
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Fatalf("error does not name field %q: %v", tc.field, err)
			}
		})
	}
}

func TestValidate_UnknownAuthType(t *testing.T) {
	cfg := &Config{Credentials: validCreds(), Auth: AuthConfig{Type: "kerberos"}}
	if err := cfg.Validate(); err == nil || !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for unknown auth type, got %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("QUALTRICS_DATACENTER_ID", "eu2")
	t.Setenv("QUALTRICS_ORG_ID", "acme")
	t.Setenv("QUALTRICS_USER_ID", "UR_9")
	t.Setenv("QUALTRICS_API_TOKEN", "env-token")
	t.Setenv("QUALTRICS_USERNAME", "a@b.c")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Credentials.DatacenterID != "eu2" || cfg.Credentials.APIToken != "env-token" {
		t.Fatalf("env values not applied: %+v", cfg.Credentials)
	}
	if cfg.APIBaseURL() != "https://eu2.qualtrics.com/API/v3" {
		t.Fatalf("unexpected base url: %s", cfg.APIBaseURL())
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	// godotenv writes into the process env; clearCredentialEnv's cleanup
	// removes the loaded values again.
	clearCredentialEnv(t)

	dir := t.TempDir()
	env := "QUALTRICS_DATACENTER_ID=iad1\n" +
		"QUALTRICS_ORG_ID=org\n" +
		"QUALTRICS_USER_ID=UR_1\n" +
		"QUALTRICS_API_TOKEN=dotenv-token\n" +
		"QUALTRICS_USERNAME=who@example.com\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600); err != nil {
		t.Fatal(err)
	}

	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(wd) }()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Credentials.APIToken != "dotenv-token" {
		t.Fatalf(".env not loaded: %+v", cfg.Credentials)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoad_YAMLFileAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	y := `
credentials:
  datacenter_id: fra1
  org_id: yorg
  user_id: UR_y
  api_token: yaml-token
  username: y@example.com
export:
  timeout: 90s
  interval: 2s
logging:
  level: debug
  format: json
`
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(y), 0o600); err != nil {
		t.Fatal(err)
	}
	// env overrides the file value
	clearCredentialEnv(t)
	t.Setenv("QUALTRICS_API_TOKEN", "env-wins")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Credentials.APIToken != "env-wins" {
		t.Fatalf("expected env to take precedence, got %q", cfg.Credentials.APIToken)
	}
	if cfg.Credentials.DatacenterID != "fra1" {
		t.Fatalf("yaml value lost: %+v", cfg.Credentials)
	}
	if cfg.PollTimeout() != 90*time.Second || cfg.PollInterval() != 2*time.Second {
		t.Fatalf("durations not parsed: %v %v", cfg.PollTimeout(), cfg.PollInterval())
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("logging config lost: %+v", cfg.Logging)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestDurationDefaults(t *testing.T) {
	cfg := &Config{}
	if cfg.PollTimeout() != DefaultPollTimeout {
		t.Fatalf("timeout default: %v", cfg.PollTimeout())
	}
	if cfg.PollInterval() != DefaultPollInterval {
		t.Fatalf("interval default: %v", cfg.PollInterval())
	}
	cfg.Export.Timeout = "not-a-duration"
	if cfg.PollTimeout() != DefaultPollTimeout {
		t.Fatalf("malformed timeout should fall back: %v", cfg.PollTimeout())
	}
}

func TestExportOptionDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()
	if cfg.Export.Format != "csv" {
		t.Fatalf("format default: %q", cfg.Export.Format)
	}
	if !cfg.UseLabels() || !cfg.Compress() {
		t.Fatalf("expected labels and compression on by default")
	}
	f := false
	cfg.Export.UseLabels = &f
	if cfg.UseLabels() {
		t.Fatalf("explicit use_labels=false ignored")
	}
}
