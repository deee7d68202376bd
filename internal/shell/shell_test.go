package shell

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-analyzer/internal/analyzer"
	"github.com/spigell/resume-analyzer/internal/history"
	"github.com/spigell/resume-analyzer/internal/presentation"
	"github.com/spigell/resume-analyzer/internal/upload"
)

type fakeAPI struct {
	mu        sync.Mutex
	entries   []*analyzer.HistoryEntry
	lists     int
	listErr   error
	deleteErr error
}

func (f *fakeAPI) Analyze(_ context.Context, doc analyzer.Document, _ string) (*analyzer.Result, error) {
	return &analyzer.Result{
		ID:              "41",
		Filename:        doc.Name(),
		OverallScore:    55,
		Breakdown:       analyzer.Breakdown{Skills: 60, Experience: 50, Education: 70, Format: 40},
		MatchedSkills:   []string{"go"},
		MissingSkills:   []string{},
		Recommendations: []string{},
	}, nil
}

func (f *fakeAPI) ListHistory(_ context.Context, _ int) ([]*analyzer.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]*analyzer.HistoryEntry(nil), f.entries...), nil
}

func (f *fakeAPI) GetStats(_ context.Context) (*analyzer.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return &analyzer.Stats{TotalAnalyses: len(f.entries)}, nil
}

func (f *fakeAPI) DeleteAnalysis(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, entry := range f.entries {
		if entry.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			break
		}
	}
	return nil
}

// countingAPI answers every analysis with a fixed result and records the calls.
type countingAPI struct {
	fakeAPI

	mu     sync.Mutex
	result analyzer.Result
	calls  []string
}

func (c *countingAPI) Analyze(_ context.Context, doc analyzer.Document, jobDescription string) (*analyzer.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, doc.Name()+": "+jobDescription)
	result := c.result
	return &result, nil
}

func document(name string) *upload.Document {
	return upload.NewDocument(name, upload.MediaPDF, 2048, func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("%PDF-1.4")), nil
	})
}

var confirmed = history.ConfirmFunc(func(string) (bool, error) { return true, nil })

func TestAnalyzeShowsResultAndResetClears(t *testing.T) {
	s := New(&fakeAPI{}, 10, nil)

	assert.Equal(t, ViewAnalyze, s.View())
	assert.Equal(t, presentation.StateEmpty, s.ResultView().State)

	result, err := s.Analyze(context.Background(), document("cv.pdf"), "Go developer")
	require.NoError(t, err)
	assert.Same(t, result, s.Result())

	view := s.ResultView()
	assert.Equal(t, presentation.StateReady, view.State)
	assert.Equal(t, presentation.TierModerate, view.Tier)
	assert.Equal(t, "cv.pdf", view.Filename)

	s.Reset()
	assert.Nil(t, s.Result())
	assert.Equal(t, presentation.StateEmpty, s.ResultView().State)
	assert.Equal(t, upload.StateIdle, s.Upload().State())
}

func TestOversizedPDFThenTextResume(t *testing.T) {
	api := &countingAPI{result: analyzer.Result{
		ID:              "7",
		OverallScore:    65,
		Breakdown:       analyzer.Breakdown{Skills: 80, Experience: 50, Education: 60, Format: 70},
		MatchedSkills:   []string{"Python"},
		MissingSkills:   []string{"AWS"},
		Recommendations: []string{"Add AWS experience"},
	}}
	s := New(api, 10, nil)
	ctx := context.Background()

	pdf := upload.FromBytes("resume.pdf", append([]byte("%PDF-1.4\n"), make([]byte, 10*1024*1024)...))
	require.Equal(t, upload.MediaPDF, pdf.MediaType())

	_, err := s.Analyze(ctx, pdf, "Need Python and AWS")
	require.ErrorIs(t, err, analyzer.ErrValidation)
	assert.Equal(t, upload.MsgTooLarge, s.Upload().Snapshot().Message)
	assert.Empty(t, api.calls)
	assert.Equal(t, presentation.StateEmpty, s.ResultView().State)

	line := "Backend engineer with five years of Python experience\n"
	text := upload.FromBytes("resume.txt", []byte(strings.Repeat(line, 200*1024/len(line))))
	require.Equal(t, upload.MediaText, text.MediaType())

	result, err := s.Analyze(ctx, text, "Need Python and AWS")
	require.NoError(t, err)
	assert.Equal(t, []string{"resume.txt: Need Python and AWS"}, api.calls)
	assert.Equal(t, upload.StateSucceeded, s.Upload().State())
	assert.Equal(t, api.result, *s.Result())
	assert.Same(t, result, s.Result())

	view := s.ResultView()
	assert.Equal(t, presentation.StateReady, view.State)
	assert.Equal(t, presentation.TierModerate, view.Tier)
	assert.Equal(t, 65, view.Score)
	assert.Equal(t, []presentation.ChartPoint{
		{Label: "Skills", Value: 80},
		{Label: "Experience", Value: 50},
		{Label: "Education", Value: 60},
		{Label: "Format", Value: 70},
	}, view.Chart)
	assert.Equal(t, []string{"Python"}, view.MatchedSkills)
	assert.Equal(t, []string{"AWS"}, view.MissingSkills)
	assert.Equal(t, []string{"Add AWS experience"}, view.Recommendations)
}

func TestRejectedDocumentKeepsPreviousResult(t *testing.T) {
	s := New(&fakeAPI{}, 10, nil)

	_, err := s.Analyze(context.Background(), document("cv.pdf"), "Go developer")
	require.NoError(t, err)

	big := upload.NewDocument("huge.pdf", upload.MediaPDF, 10*1024*1024, nil)
	_, err = s.Analyze(context.Background(), big, "Go developer")
	require.ErrorIs(t, err, analyzer.ErrValidation)

	assert.NotNil(t, s.Result())
	assert.Equal(t, upload.MsgTooLarge, s.Upload().Snapshot().Message)
}

func TestSwitchToHistoryLoads(t *testing.T) {
	api := &fakeAPI{entries: []*analyzer.HistoryEntry{{ID: "1"}, {ID: "2"}}}
	s := New(api, 10, nil)

	require.NoError(t, s.SwitchView(context.Background(), ViewHistory))
	assert.Equal(t, ViewHistory, s.View())
	assert.Equal(t, history.StateReady, s.History().State())
	assert.Len(t, s.History().Snapshot().Entries, 2)

	require.NoError(t, s.SwitchView(context.Background(), ViewAnalyze))
	require.NoError(t, s.SwitchView(context.Background(), ViewHistory))
	assert.Equal(t, 2, api.lists)

	assert.Error(t, s.SwitchView(context.Background(), View("settings")))
	assert.Equal(t, ViewHistory, s.View())
}

func TestDeleteNotFoundReloads(t *testing.T) {
	api := &fakeAPI{entries: []*analyzer.HistoryEntry{{ID: "1"}, {ID: "2"}}}
	s := New(api, 10, nil)
	require.NoError(t, s.SwitchView(context.Background(), ViewHistory))

	// Someone else removed the entry in the meantime.
	api.mu.Lock()
	api.entries = api.entries[:1]
	api.deleteErr = &analyzer.NotFoundError{ID: "2", Message: "Analysis not found"}
	api.mu.Unlock()

	err := s.Delete(context.Background(), "2", confirmed)
	require.ErrorIs(t, err, analyzer.ErrNotFound)

	snap := s.History().Snapshot()
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, "1", snap.Entries[0].ID)
	assert.Equal(t, history.StateReady, snap.State)
	assert.Equal(t, "Analysis not found", snap.DeleteError)
	assert.Equal(t, 2, api.lists)
}

func TestDeleteNotFoundFailedReloadKeepsList(t *testing.T) {
	api := &fakeAPI{entries: []*analyzer.HistoryEntry{{ID: "1"}, {ID: "2"}}}
	s := New(api, 10, nil)
	require.NoError(t, s.SwitchView(context.Background(), ViewHistory))

	api.mu.Lock()
	api.deleteErr = &analyzer.NotFoundError{ID: "2", Message: "Analysis not found"}
	api.listErr = &analyzer.NetworkError{Err: io.ErrUnexpectedEOF}
	api.mu.Unlock()

	err := s.Delete(context.Background(), "2", confirmed)
	require.ErrorIs(t, err, analyzer.ErrNotFound)
	require.ErrorIs(t, err, analyzer.ErrNetwork)

	snap := s.History().Snapshot()
	assert.Equal(t, history.StateReady, snap.State)
	assert.Empty(t, snap.LoadError)
	assert.Equal(t, "Analysis not found", snap.DeleteError)
	require.Len(t, snap.Entries, 2)
	assert.Equal(t, "1", snap.Entries[0].ID)
	assert.Equal(t, "2", snap.Entries[1].ID)
}

func TestDeleteSuccessDoesNotReload(t *testing.T) {
	api := &fakeAPI{entries: []*analyzer.HistoryEntry{{ID: "1"}, {ID: "2"}}}
	s := New(api, 10, nil)
	require.NoError(t, s.SwitchView(context.Background(), ViewHistory))

	require.NoError(t, s.Delete(context.Background(), "1", confirmed))

	snap := s.History().Snapshot()
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, "2", snap.Entries[0].ID)
	assert.Equal(t, 2, snap.Stats.TotalAnalyses)
	assert.Equal(t, 1, api.lists)
}
