package upload

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/analyzer"
)

const (
	MsgUnsupportedType = "Please upload a PDF, TXT, or DOCX file"
	MsgTooLarge        = "File size must be less than 5MB"
	MsgNoDocument      = "Please select a resume file"
	MsgNoJobText       = "Please enter a job description"
	MsgAnalyzeFailed   = "Failed to analyze resume. Please try again."
)

var (
	// ErrInFlight is returned when a submission is attempted while another one is running.
	ErrInFlight = errors.New("an analysis is already in progress")
	// ErrStale is returned to a caller whose response arrived after a reset or a newer submission.
	ErrStale = errors.New("analysis result discarded: the form changed while it was running")
)

// State is a step of the analyze workflow.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateDispatching
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateDispatching:
		return "dispatching"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Analyzer is the part of the API client the controller needs.
type Analyzer interface {
	Analyze(ctx context.Context, doc analyzer.Document, jobDescription string) (*analyzer.Result, error)
}

// ResultSink receives the outcome of the workflow. The application shell implements it.
type ResultSink interface {
	SetResult(result *analyzer.Result)
	ClearResult()
}

// Request is the transient pair handed to the API client on dispatch.
type Request struct {
	Document       *Document
	JobDescription string
}

// Snapshot is a read-only copy of the controller state for rendering.
type Snapshot struct {
	State          State
	DocumentName   string
	JobDescription string
	Message        string
}

// Controller owns the pending submission: the selected document, the job
// description and the last error. It is the only writer of that state.
type Controller struct {
	mu     sync.Mutex
	api    Analyzer
	sink   ResultSink
	logger *zap.Logger

	state          State
	document       *Document
	jobDescription string
	err            error
	message        string
	// token grows on every dispatch and reset; a response carrying an older
	// token is discarded.
	token uint64
}

func NewController(api Analyzer, sink ResultSink, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Controller{
		api:    api,
		sink:   sink,
		logger: logger,
		state:  StateIdle,
	}
}

// Select validates a newly picked document. Any previous selection is dropped
// first, so a rejected pick always leaves no document selected.
func (c *Controller) Select(doc *Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateDispatching {
		return ErrInFlight
	}

	c.document = nil
	c.state = StateIdle
	c.err = nil
	c.message = ""

	if err := Validate(doc); err != nil {
		c.err = err
		c.message = err.Error()
		c.logger.Info("document rejected", zap.Error(err))
		return err
	}

	c.document = doc
	c.logger.Debug("document selected",
		zap.String("name", doc.Name()),
		zap.String("media_type", doc.MediaType()),
		zap.Int64("size", doc.Size()),
	)

	return nil
}

// SetJobDescription stores the job description text as typed.
func (c *Controller) SetJobDescription(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.jobDescription = text
}

// Submit validates the form and dispatches it. A call made while another
// submission is running returns ErrInFlight without touching the service.
func (c *Controller) Submit(ctx context.Context) (*analyzer.Result, error) {
	c.mu.Lock()

	if c.state == StateDispatching {
		c.mu.Unlock()
		return nil, ErrInFlight
	}

	c.state = StateValidating
	c.err = nil
	c.message = ""

	req, err := c.request()
	if err != nil {
		c.err = err
		c.message = err.Error()
		c.mu.Unlock()
		return nil, err
	}

	c.token++
	token := c.token
	c.state = StateDispatching
	c.mu.Unlock()

	log := c.logger.With(zap.String("document", req.Document.Name()), zap.Uint64("token", token))
	log.Info("submitting analysis")

	result, err := c.api.Analyze(ctx, req.Document, req.JobDescription)

	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.token {
		log.Info("discarding stale analysis response", zap.Uint64("current_token", c.token))
		return nil, ErrStale
	}

	if err != nil {
		c.state = StateFailed
		c.err = err
		c.message = analyzer.UserMessage(err, MsgAnalyzeFailed)
		log.Warn("analysis failed", zap.Error(err))
		return nil, err
	}

	c.state = StateSucceeded
	if c.sink != nil {
		c.sink.SetResult(result)
	}
	log.Info("analysis completed", zap.Int("score", result.OverallScore), zap.String("id", result.ID))

	return result, nil
}

// Reset clears the form and the displayed result. A submission still running
// is left to finish but its response is discarded.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.document = nil
	c.jobDescription = ""
	c.err = nil
	c.message = ""
	c.state = StateIdle
	c.token++
	c.mu.Unlock()

	if c.sink != nil {
		c.sink.ClearResult()
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// InFlight reports whether an analysis request is running.
func (c *Controller) InFlight() bool {
	return c.State() == StateDispatching
}

// Err returns the error behind the current message, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.err
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		State:          c.state,
		JobDescription: c.jobDescription,
		Message:        c.message,
	}
	if c.document != nil {
		s.DocumentName = c.document.Name()
	}

	return s
}

// request builds the dispatch payload. Callers hold c.mu.
func (c *Controller) request() (*Request, error) {
	if c.document == nil {
		return nil, &analyzer.ValidationError{Message: MsgNoDocument}
	}

	if strings.TrimSpace(c.jobDescription) == "" {
		return nil, &analyzer.ValidationError{Message: MsgNoJobText}
	}

	return &Request{Document: c.document, JobDescription: c.jobDescription}, nil
}

// Validate checks the media kind first, then the size.
func Validate(doc *Document) error {
	if doc == nil {
		return &analyzer.ValidationError{Message: MsgNoDocument}
	}

	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(doc.MediaType(), ";", 2)[0]))
	if !accepted(mediaType) {
		return &analyzer.ValidationError{Message: MsgUnsupportedType}
	}

	if doc.Size() > MaxDocumentSize {
		return &analyzer.ValidationError{Message: MsgTooLarge}
	}

	return nil
}
