package qualtrics

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/loykin/qexport/internal/auth"
	"github.com/loykin/qexport/internal/common"
	"github.com/tidwall/gjson"
)

var (
	// ErrAuthentication marks a 401/403 from the vendor API.
	ErrAuthentication = errors.New("qualtrics: authentication failed")
	// ErrNotFound marks a 404 from the vendor API (unknown survey or file id).
	ErrNotFound = errors.New("qualtrics: not found")
	// ErrSurveyNotFound is returned by the finder when no survey matches.
	ErrSurveyNotFound = errors.New("qualtrics: no survey matches the given name")
)

// Survey is one entry from the list-surveys endpoint.
type Survey struct {
	ID   string
	Name string
}

// ExportOptions shape the create-export request payload.
type ExportOptions struct {
	Format    string
	UseLabels bool
	Compress  bool
}

// Export job status values reported by the progress endpoint.
const (
	StatusInProgress = "inProgress"
	StatusComplete   = "complete"
	StatusFailed     = "failed"
)

// ExportProgress is one snapshot of an export job.
type ExportProgress struct {
	Status          string
	PercentComplete float64
	FileID          string
}

// Client talks to the vendor v3 REST API.
type Client struct {
	base   string
	rc     *resty.Client
	method auth.Method
	logger *common.Logger
}

// New creates a Client for the given API base URL using the provided resty
// client and auth method.
func New(baseURL string, rc *resty.Client, method auth.Method) *Client {
	return &Client{
		base:   baseURL,
		rc:     rc,
		method: method,
		logger: common.GetLogger().WithComponent("qualtrics"),
	}
}

// newRequest builds a request with the auth header attached.
func (c *Client) newRequest(ctx context.Context) (*resty.Request, error) {
	h, v, err := c.method.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("qualtrics: acquire auth: %w", err)
	}
	return c.rc.R().
		SetContext(ctx).
		SetHeader(h, v).
		SetHeader("Content-Type", "application/json"), nil
}

// apiError maps a non-2xx vendor response to a typed error, carrying the
// vendor error message when one is present in the body.
func apiError(resp *resty.Response) error {
	msg := gjson.GetBytes(resp.Body(), "meta.error.errorMessage").String()
	if msg != "" {
		msg = ": " + msg
	}
	switch resp.StatusCode() {
	case 401, 403:
		return fmt.Errorf("%w (status %d)%s", ErrAuthentication, resp.StatusCode(), msg)
	case 404:
		return fmt.Errorf("%w (status %d)%s", ErrNotFound, resp.StatusCode(), msg)
	default:
		return fmt.Errorf("qualtrics: unexpected status %d%s", resp.StatusCode(), msg)
	}
}
