package qualtrics

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
)

// CreateExport starts an asynchronous response export job for the survey and
// returns its progress id.
func (c *Client) CreateExport(ctx context.Context, surveyID string, opts ExportOptions) (string, error) {
	if opts.Format == "" {
		opts.Format = "csv"
	}
	req, err := c.newRequest(ctx)
	if err != nil {
		return "", err
	}
	resp, err := req.
		SetBody(map[string]interface{}{
			"format":    opts.Format,
			"useLabels": opts.UseLabels,
			"compress":  opts.Compress,
		}).
		Post(fmt.Sprintf("%s/surveys/%s/export-responses", c.base, surveyID))
	if err != nil {
		return "", fmt.Errorf("qualtrics: create export: %w", err)
	}
	if resp.IsError() {
		return "", apiError(resp)
	}

	progressID := gjson.GetBytes(resp.Body(), "result.progressId").String()
	if progressID == "" {
		return "", fmt.Errorf("qualtrics: create export: response has no progressId")
	}
	c.logger.WithSurvey(surveyID).Debug("export created", "progress_id", progressID)
	return progressID, nil
}

// ExportProgress fetches one status snapshot of an export job.
func (c *Client) ExportProgress(ctx context.Context, surveyID, progressID string) (ExportProgress, error) {
	req, err := c.newRequest(ctx)
	if err != nil {
		return ExportProgress{}, err
	}
	resp, err := req.Get(fmt.Sprintf("%s/surveys/%s/export-responses/%s", c.base, surveyID, progressID))
	if err != nil {
		return ExportProgress{}, fmt.Errorf("qualtrics: export progress: %w", err)
	}
	if resp.IsError() {
		return ExportProgress{}, apiError(resp)
	}

	result := gjson.GetBytes(resp.Body(), "result")
	return ExportProgress{
		Status:          result.Get("status").String(),
		PercentComplete: result.Get("percentComplete").Float(),
		FileID:          result.Get("fileId").String(),
	}, nil
}

// DownloadExport fetches the completed export's compressed payload.
func (c *Client) DownloadExport(ctx context.Context, surveyID, fileID string) ([]byte, error) {
	req, err := c.newRequest(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := req.Get(fmt.Sprintf("%s/surveys/%s/export-responses/%s/file", c.base, surveyID, fileID))
	if err != nil {
		return nil, fmt.Errorf("qualtrics: download export: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	c.logger.WithSurvey(surveyID).Debug("export downloaded", "file_id", fileID, "bytes", len(resp.Body()))
	return resp.Body(), nil
}
