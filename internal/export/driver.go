package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/loykin/qexport/internal/common"
	"github.com/loykin/qexport/internal/qualtrics"
)

var (
	// ErrExportTimeout means the job never reached a terminal status within
	// the configured window.
	ErrExportTimeout = errors.New("export: timed out waiting for completion")
	// ErrExportFailed means the vendor reported the job as failed.
	ErrExportFailed = errors.New("export: vendor reported export failure")
)

const (
	DefaultTimeout  = 300 * time.Second
	DefaultInterval = 5 * time.Second
)

// API is the slice of the vendor client the driver needs. qualtrics.Client
// satisfies it; tests inject fakes.
type API interface {
	CreateExport(ctx context.Context, surveyID string, opts qualtrics.ExportOptions) (string, error)
	ExportProgress(ctx context.Context, surveyID, progressID string) (qualtrics.ExportProgress, error)
	DownloadExport(ctx context.Context, surveyID, fileID string) ([]byte, error)
}

// Driver runs one export job to a terminal state: create, poll at a fixed
// interval, stop on complete/failed or when Timeout of wall clock has passed.
type Driver struct {
	Client   API
	Options  qualtrics.ExportOptions
	Interval time.Duration
	Timeout  time.Duration
	Logger   *common.Logger
}

func (d *Driver) interval() time.Duration {
	if d.Interval > 0 {
		return d.Interval
	}
	return DefaultInterval
}

func (d *Driver) timeout() time.Duration {
	if d.Timeout > 0 {
		return d.Timeout
	}
	return DefaultTimeout
}

func (d *Driver) logger() *common.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return common.GetLogger().WithComponent("export")
}

// Run starts an export job for surveyID and polls it to completion,
// returning the downloadable file id.
func (d *Driver) Run(ctx context.Context, surveyID string) (string, error) {
	logger := d.logger().WithSurvey(surveyID)

	progressID, err := d.Client.CreateExport(ctx, surveyID, d.Options)
	if err != nil {
		return "", err
	}
	logger = logger.WithExport(progressID)
	logger.Info("export job created")

	deadline := time.Now().Add(d.timeout())
	interval := d.interval()

	for {
		p, err := d.Client.ExportProgress(ctx, surveyID, progressID)
		if err != nil {
			return "", err
		}
		logger.Info("export progress", "status", p.Status, "percent", p.PercentComplete)

		switch p.Status {
		case qualtrics.StatusComplete:
			if p.FileID == "" {
				return "", fmt.Errorf("export: job complete but no fileId reported")
			}
			return p.FileID, nil
		case qualtrics.StatusFailed:
			return "", fmt.Errorf("%w (survey %s)", ErrExportFailed, surveyID)
		}

		// The next poll would land past the deadline; give up now.
		if time.Now().Add(interval).After(deadline) {
			return "", fmt.Errorf("%w after %s (survey %s)", ErrExportTimeout, d.timeout(), surveyID)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(interval):
		}
	}
}
