package shell

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/analyzer"
	"github.com/spigell/resume-analyzer/internal/history"
	"github.com/spigell/resume-analyzer/internal/presentation"
	"github.com/spigell/resume-analyzer/internal/upload"
)

// View is the active tab of the application.
type View string

const (
	ViewAnalyze View = "analyze"
	ViewHistory View = "history"
)

// API is the full client surface used by the application.
type API interface {
	upload.Analyzer
	history.API
}

// Shell is the single owner of the active view and of the result currently on
// display. Controllers reach the result only through SetResult and ClearResult.
type Shell struct {
	mu     sync.Mutex
	view   View
	result *analyzer.Result

	upload  *upload.Controller
	history *history.Controller
	logger  *zap.Logger
}

func New(api API, historyLimit int, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Shell{
		view:   ViewAnalyze,
		logger: logger,
	}
	s.upload = upload.NewController(api, s, logger.Named("upload"))
	s.history = history.NewController(api, historyLimit, logger.Named("history"))

	return s
}

func (s *Shell) Upload() *upload.Controller   { return s.upload }
func (s *Shell) History() *history.Controller { return s.history }

// SetResult replaces the displayed result.
func (s *Shell) SetResult(result *analyzer.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.result = result
}

func (s *Shell) ClearResult() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.result = nil
}

func (s *Shell) Result() *analyzer.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.result
}

func (s *Shell) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.view
}

// SwitchView activates a tab. Activating history always triggers a fresh load.
func (s *Shell) SwitchView(ctx context.Context, view View) error {
	switch view {
	case ViewAnalyze, ViewHistory:
	default:
		return errors.New("unknown view: " + string(view))
	}

	s.mu.Lock()
	s.view = view
	s.mu.Unlock()

	s.logger.Debug("switching view", zap.String("view", string(view)))

	if view == ViewHistory {
		return s.history.Load(ctx)
	}
	return nil
}

// ResultView is the presentation of the displayed result.
func (s *Shell) ResultView() presentation.View {
	inFlight := s.upload.InFlight()
	return presentation.Build(s.Result(), inFlight)
}

// Analyze runs the form through the upload controller.
func (s *Shell) Analyze(ctx context.Context, doc *upload.Document, jobDescription string) (*analyzer.Result, error) {
	if err := s.upload.Select(doc); err != nil {
		return nil, err
	}
	s.upload.SetJobDescription(jobDescription)

	return s.upload.Submit(ctx)
}

// Reset clears the analyze form and the displayed result.
func (s *Shell) Reset() {
	s.upload.Reset()
}

// Delete removes an analysis from history. When the service no longer knows
// the id the page is refetched so the local list matches the server again; the
// not-found message stays on the page either way.
func (s *Shell) Delete(ctx context.Context, id string, confirm history.Confirmer) error {
	err := s.history.Delete(ctx, id, confirm)
	if err == nil || !errors.Is(err, analyzer.ErrNotFound) {
		return err
	}

	s.logger.Info("analysis already gone, reloading history", zap.String("id", id))
	if loadErr := s.history.Reconcile(ctx); loadErr != nil {
		return errors.Join(err, loadErr)
	}

	return err
}
