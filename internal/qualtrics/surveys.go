package qualtrics

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ListSurveys returns all surveys visible to the authenticated account,
// following result.nextPage continuation URLs until exhausted.
func (c *Client) ListSurveys(ctx context.Context) ([]Survey, error) {
	var out []Survey

	url := c.base + "/surveys"
	for url != "" {
		req, err := c.newRequest(ctx)
		if err != nil {
			return nil, err
		}
		resp, err := req.Get(url)
		if err != nil {
			return nil, fmt.Errorf("qualtrics: list surveys: %w", err)
		}
		if resp.IsError() {
			return nil, apiError(resp)
		}

		result := gjson.GetBytes(resp.Body(), "result")
		for _, el := range result.Get("elements").Array() {
			out = append(out, Survey{
				ID:   el.Get("id").String(),
				Name: el.Get("name").String(),
			})
		}
		url = strings.TrimSpace(result.Get("nextPage").String())
	}

	c.logger.Debug("listed surveys", "count", len(out))
	return out, nil
}

// FindSurveyByName does a case-insensitive substring match over the survey
// list. An exact (case-insensitive) name match wins over the first substring
// hit. Returns ErrSurveyNotFound when nothing matches.
func (c *Client) FindSurveyByName(ctx context.Context, name string) (Survey, error) {
	surveys, err := c.ListSurveys(ctx)
	if err != nil {
		return Survey{}, err
	}
	needle := strings.ToLower(strings.TrimSpace(name))

	var first *Survey
	for i := range surveys {
		hay := strings.ToLower(surveys[i].Name)
		if hay == needle {
			return surveys[i], nil
		}
		if first == nil && strings.Contains(hay, needle) {
			first = &surveys[i]
		}
	}
	if first != nil {
		return *first, nil
	}
	return Survey{}, fmt.Errorf("%w: %q", ErrSurveyNotFound, name)
}
