package history

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-analyzer/internal/analyzer"
)

const (
	MsgLoadFailed   = "Failed to load history"
	MsgDeleteFailed = "Failed to delete analysis"
	ConfirmDelete   = "Are you sure you want to delete this analysis?"
)

// ErrDeclined is returned by Delete when the user did not confirm.
var ErrDeclined = errors.New("delete not confirmed")

// State of the history page.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// API is the part of the client the history page needs.
type API interface {
	ListHistory(ctx context.Context, limit int) ([]*analyzer.HistoryEntry, error)
	GetStats(ctx context.Context) (*analyzer.Stats, error)
	DeleteAnalysis(ctx context.Context, id string) error
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// ConfirmFunc adapts a plain function to Confirmer.
type ConfirmFunc func(question string) (bool, error)

func (f ConfirmFunc) Confirm(question string) (bool, error) { return f(question) }

// Snapshot is a copy of the page state safe to render.
type Snapshot struct {
	State       State
	Entries     []*analyzer.HistoryEntry
	Stats       *analyzer.Stats
	LoadError   string
	DeleteError string
}

// Controller owns the local history list and the stats shown next to it.
// Stats are not adjusted after a delete; they stay as last fetched until the
// next Load.
type Controller struct {
	mu     sync.Mutex
	api    API
	limit  int
	logger *zap.Logger

	state     State
	entries   []*analyzer.HistoryEntry
	stats     *analyzer.Stats
	loadErr   error
	deleteErr error
	token     uint64
}

func NewController(api API, limit int, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limit <= 0 {
		limit = analyzer.DefaultHistoryLimit
	}

	return &Controller{
		api:    api,
		limit:  limit,
		logger: logger,
		state:  StateIdle,
	}
}

// Load fetches the history page and the stats concurrently. The page becomes
// ready only when both calls succeed; on any failure nothing is exposed.
func (c *Controller) Load(ctx context.Context) error {
	return c.load(ctx, false)
}

// Reconcile refetches the page after a delete the service could not apply. The
// delete error stays on the page and a failed refetch leaves the list as it was.
func (c *Controller) Reconcile(ctx context.Context) error {
	return c.load(ctx, true)
}

func (c *Controller) load(ctx context.Context, reconcile bool) error {
	c.mu.Lock()
	c.token++
	token := c.token
	if !reconcile {
		c.state = StateLoading
		c.loadErr = nil
		c.deleteErr = nil
	}
	c.mu.Unlock()

	var (
		entries []*analyzer.HistoryEntry
		stats   *analyzer.Stats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = c.api.ListHistory(gctx, c.limit)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = c.api.GetStats(gctx)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.token {
		c.logger.Debug("discarding stale history load", zap.Uint64("token", token))
		return nil
	}

	if err != nil && reconcile {
		c.logger.Warn("reloading history after failed delete", zap.Error(err))
		return err
	}

	if err != nil {
		c.state = StateError
		c.entries = nil
		c.stats = nil
		c.loadErr = err
		c.logger.Warn("loading history", zap.Error(err))
		return err
	}

	c.state = StateReady
	c.entries = entries
	c.stats = stats
	c.loadErr = nil
	c.logger.Debug("history loaded", zap.Int("count", len(entries)), zap.Int("total", stats.TotalAnalyses))

	return nil
}

// Delete removes one analysis after explicit confirmation. The local list
// changes only once the service has confirmed the delete.
func (c *Controller) Delete(ctx context.Context, id string, confirm Confirmer) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return &analyzer.ValidationError{Message: "analysis id is required"}
	}

	if confirm == nil {
		return ErrDeclined
	}

	ok, err := confirm.Confirm(ConfirmDelete)
	if err != nil {
		return err
	}
	if !ok {
		c.logger.Debug("delete declined", zap.String("id", id))
		return ErrDeclined
	}

	c.mu.Lock()
	c.deleteErr = nil
	c.mu.Unlock()

	err = c.api.DeleteAnalysis(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.deleteErr = err
		c.logger.Warn("deleting analysis", zap.String("id", id), zap.Error(err))
		return err
	}

	kept := make([]*analyzer.HistoryEntry, 0, len(c.entries))
	for _, entry := range c.entries {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	c.entries = kept
	c.logger.Info("analysis deleted", zap.String("id", id))

	return nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Find returns the locally loaded entry with the id.
func (c *Controller) Find(id string) (*analyzer.HistoryEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, entry := range c.entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return nil, false
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		State:   c.state,
		Entries: append([]*analyzer.HistoryEntry(nil), c.entries...),
		Stats:   c.stats,
	}
	if c.loadErr != nil {
		s.LoadError = analyzer.UserMessage(c.loadErr, MsgLoadFailed)
	}
	if c.deleteErr != nil {
		s.DeleteError = analyzer.UserMessage(c.deleteErr, MsgDeleteFailed)
	}

	return s
}
