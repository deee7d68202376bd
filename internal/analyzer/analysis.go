package analyzer

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	analyzePath  = "/api/analyze"
	historyPath  = "/api/history"
	analysisPath = "/api/analysis/"
	statsPath    = "/api/stats"
	healthPath   = "/"

	formResume         = "resume"
	formJobDescription = "job_description"
)

func (c *Client) analyze(ctx context.Context, doc Document, jobDescription string) (*Result, error) {
	if doc == nil {
		return nil, &ValidationError{Message: "resume document is required"}
	}

	req, err := c.newMultipartRequest(ctx, analyzePath, formResume, doc, [][2]string{
		{formJobDescription, jobDescription},
	})
	if err != nil {
		return nil, err
	}

	raw, err := c.do(req, "", "analysis")
	if err != nil {
		return nil, err
	}

	result, err := decodeResult(raw, "analysis")
	if err != nil {
		return nil, err
	}

	// The analyze answer does not echo the file name back.
	if result.Filename == "" {
		result.Filename = doc.Name()
	}

	return result, nil
}

func (c *Client) listHistory(ctx context.Context, limit int) ([]*HistoryEntry, error) {
	if limit <= 0 {
		return nil, &ValidationError{Message: "history limit must be positive"}
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))

	req, err := c.newRequest(ctx, http.MethodGet, historyPath, q)
	if err != nil {
		return nil, err
	}

	raw, err := c.do(req, "", "history")
	if err != nil {
		return nil, err
	}

	return decodeHistory(raw)
}

func (c *Client) getStats(ctx context.Context) (*Stats, error) {
	req, err := c.newRequest(ctx, http.MethodGet, statsPath, nil)
	if err != nil {
		return nil, err
	}

	raw, err := c.do(req, "", "stats")
	if err != nil {
		return nil, err
	}

	return decodeStats(raw)
}

func (c *Client) getAnalysis(ctx context.Context, id string) (*HistoryEntry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &ValidationError{Message: "analysis id is required"}
	}

	req, err := c.newRequest(ctx, http.MethodGet, analysisPath+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	raw, err := c.do(req, id, "analysis")
	if err != nil {
		return nil, err
	}

	if nested, ok := raw["analysis"].(map[string]any); ok {
		raw = nested
	}

	return decodeEntry(raw)
}

func (c *Client) deleteAnalysis(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return &ValidationError{Message: "analysis id is required"}
	}

	req, err := c.newRequest(ctx, http.MethodDelete, analysisPath+url.PathEscape(id), nil)
	if err != nil {
		return err
	}

	_, err = c.do(req, id, "")
	return err
}

func (c *Client) health(ctx context.Context) (*Health, error) {
	req, err := c.newRequest(ctx, http.MethodGet, healthPath, nil)
	if err != nil {
		return nil, err
	}

	raw, err := c.do(req, "", "health")
	if err != nil {
		return nil, err
	}

	var health Health
	if _, err := decodePayload(raw, &health); err != nil {
		return nil, &SchemaError{Payload: "health", Reason: err.Error()}
	}

	return &health, nil
}
