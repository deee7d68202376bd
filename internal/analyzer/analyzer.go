package analyzer

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultAPIURL is the local development address of the analysis service.
	DefaultAPIURL = "http://localhost:5001"
	// DefaultHistoryLimit is the page size used when none is configured.
	DefaultHistoryLimit = 50
	// DefaultTimeout bounds a single round-trip. Analysis of large documents is slow.
	DefaultTimeout = 60 * time.Second

	userAgent = "spigell/resume-analyzer"
)

// Document is an opaque reference to the file submitted for analysis.
// Open may be called more than once, one call per submission attempt.
type Document interface {
	Name() string
	MediaType() string
	Open() (io.ReadCloser, error)
}

// Client talks to the remote analysis service. It holds no state between calls
// and never retries.
type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(logger *zap.Logger, apiURL, token string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	apiURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	return &Client{
		token:  strings.TrimSpace(token),
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// Analyze uploads the document with the job description and returns the scored result.
// The service persists a new history entry as a side effect.
func (c *Client) Analyze(ctx context.Context, doc Document, jobDescription string) (*Result, error) {
	return c.analyze(ctx, doc, jobDescription)
}

// ListHistory returns up to limit persisted analyses, most recent first.
func (c *Client) ListHistory(ctx context.Context, limit int) ([]*HistoryEntry, error) {
	return c.listHistory(ctx, limit)
}

// GetStats returns aggregates computed by the service over the whole history.
func (c *Client) GetStats(ctx context.Context) (*Stats, error) {
	return c.getStats(ctx)
}

// GetAnalysis fetches a single persisted analysis.
func (c *Client) GetAnalysis(ctx context.Context, id string) (*HistoryEntry, error) {
	return c.getAnalysis(ctx, id)
}

// DeleteAnalysis removes a persisted analysis. A vanished id yields a NotFoundError.
func (c *Client) DeleteAnalysis(ctx context.Context, id string) error {
	return c.deleteAnalysis(ctx, id)
}

// Health calls the service root endpoint.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	return c.health(ctx)
}
