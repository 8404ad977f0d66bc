// Package qexport exports survey responses from the Qualtrics v3 API: it
// starts an asynchronous export job, polls it to completion, downloads the
// zip payload and extracts the CSV, with optional header cleanup.
package qexport

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/loykin/qexport/internal/auth"
	"github.com/loykin/qexport/internal/common"
	"github.com/loykin/qexport/internal/config"
	"github.com/loykin/qexport/internal/csvfix"
	"github.com/loykin/qexport/internal/export"
	"github.com/loykin/qexport/internal/httpc"
	"github.com/loykin/qexport/internal/qualtrics"
)

// Re-export commonly used types for public API

// Config is the full tool configuration.
type Config = config.Config

// Credentials are the five required vendor API values.
type Credentials = config.Credentials

// Survey is one (id, name) pair from the vendor account.
type Survey = qualtrics.Survey

// CleanOptions control CSV header cleanup.
type CleanOptions = csvfix.Options

// Error kinds surfaced by the pipeline; match with errors.Is.
var (
	ErrConfiguration  = config.ErrConfiguration
	ErrAuthentication = qualtrics.ErrAuthentication
	ErrNotFound       = qualtrics.ErrNotFound
	ErrSurveyNotFound = qualtrics.ErrSurveyNotFound
	ErrExportTimeout  = export.ErrExportTimeout
	ErrExportFailed   = export.ErrExportFailed
	ErrArchive        = export.ErrArchive
)

// LoadConfig reads configuration from an optional YAML file, a local .env
// file and QUALTRICS_* environment variables.
func LoadConfig(path string) (*Config, error) { return config.Load(path) }

// AuthMethod is the pluggable authentication provider interface.
type AuthMethod = auth.Method

// AuthFactory builds an AuthMethod from a loosely-typed spec map.
type AuthFactory = auth.Factory

// RegisterAuthProvider exposes custom auth provider registration for library users.
func RegisterAuthProvider(typ string, f AuthFactory) { auth.Register(typ, f) }

// Exporter ties the configuration to an authenticated vendor client.
// It is stateless across calls; each export run is independent.
type Exporter struct {
	cfg    *config.Config
	client *qualtrics.Client
	logger *common.Logger
}

// New validates cfg and builds an Exporter. Configuration problems are
// reported here, before any network call.
func New(cfg *Config) (*Exporter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	typ := strings.TrimSpace(cfg.Auth.Type)
	if typ == "" {
		typ = "token"
	}
	method, err := auth.New(typ, authSpec(cfg))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	hc := &httpc.Httpc{
		Insecure:      cfg.Client.Insecure,
		MinTLSVersion: cfg.Client.MinTLSVersion,
		MaxTLSVersion: cfg.Client.MaxTLSVersion,
	}
	return &Exporter{
		cfg:    cfg,
		client: qualtrics.New(cfg.APIBaseURL(), hc.New(), method),
		logger: common.GetLogger().WithComponent("exporter"),
	}, nil
}

// authSpec maps the typed auth config onto the provider spec map.
func authSpec(cfg *Config) map[string]interface{} {
	switch strings.ToLower(strings.TrimSpace(cfg.Auth.Type)) {
	case "oauth2":
		return map[string]interface{}{
			"client_id":     cfg.Auth.ClientID,
			"client_secret": cfg.Auth.ClientSecret,
			"token_url":     cfg.TokenURL(),
			"scopes":        cfg.Auth.Scopes,
		}
	default:
		return map[string]interface{}{"token": cfg.Credentials.APIToken}
	}
}

// Surveys lists all surveys visible to the authenticated account.
func (e *Exporter) Surveys(ctx context.Context) ([]Survey, error) {
	return e.client.ListSurveys(ctx)
}

// FindSurveyByName matches case-insensitively; exact name wins over the
// first substring hit.
func (e *Exporter) FindSurveyByName(ctx context.Context, name string) (Survey, error) {
	return e.client.FindSurveyByName(ctx, name)
}

// ExportByID runs the full pipeline for one survey id and writes the CSV to
// outPath.
func (e *Exporter) ExportByID(ctx context.Context, surveyID, outPath string) error {
	driver := &export.Driver{
		Client: e.client,
		Options: qualtrics.ExportOptions{
			Format:    e.cfg.Export.Format,
			UseLabels: e.cfg.UseLabels(),
			Compress:  e.cfg.Compress(),
		},
		Interval: e.cfg.PollInterval(),
		Timeout:  e.cfg.PollTimeout(),
		Logger:   e.logger,
	}
	fileID, err := driver.Run(ctx, surveyID)
	if err != nil {
		return err
	}
	if err := export.FetchArchive(ctx, e.client, surveyID, fileID, outPath); err != nil {
		return err
	}
	e.logger.WithSurvey(surveyID).Info("export written", "path", outPath)
	return nil
}

// ExportByName resolves the survey by name first, then exports it. The
// matched survey is returned so callers can report what was exported.
func (e *Exporter) ExportByName(ctx context.Context, name, outPath string) (Survey, error) {
	s, err := e.client.FindSurveyByName(ctx, name)
	if err != nil {
		return Survey{}, err
	}
	if err := e.ExportByID(ctx, s.ID, outPath); err != nil {
		return s, err
	}
	return s, nil
}

// CleanCSV rewrites vendor validation annotations out of the header row of
// the CSV at inPath; empty outPath cleans in place.
func CleanCSV(inPath, outPath string, opts CleanOptions) error {
	return csvfix.CleanFile(inPath, outPath, opts)
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// DefaultOutputName derives a CSV file name from a survey, mirroring the
// vendor's "<name> responses" convention with unsafe characters replaced.
func DefaultOutputName(s Survey) string {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		name = "survey_" + s.ID
	}
	name = unsafeFileChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	if name == "" {
		name = s.ID
	}
	return name + "_responses.csv"
}
