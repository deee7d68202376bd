package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-analyzer/internal/analyzer"
)

func TestResolveToken(t *testing.T) {
	t.Setenv(tokenEnv, "")

	token, err := resolveToken(&Config{})
	require.NoError(t, err)
	assert.Empty(t, token)

	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("  secret\n"), 0o600))

	token, err = resolveToken(&Config{TokenFile: path})
	require.NoError(t, err)
	assert.Equal(t, "secret", token)

	empty := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))

	_, err = resolveToken(&Config{TokenFile: empty})
	assert.Error(t, err)
}

func TestJobDescriptionFromFlags(t *testing.T) {
	newCmd := func() *cobra.Command {
		c := &cobra.Command{Use: "analyze"}
		c.Flags().StringP("job-description", "t", "", "")
		c.Flags().StringP("job-description-file", "f", "", "")
		return c
	}

	c := newCmd()
	require.NoError(t, c.Flags().Set("job-description", "Go developer"))
	text, err := jobDescriptionFromFlags(c)
	require.NoError(t, err)
	assert.Equal(t, "Go developer", text)

	path := filepath.Join(t.TempDir(), "job.txt")
	require.NoError(t, os.WriteFile(path, []byte("Python, SQL"), 0o600))

	c = newCmd()
	require.NoError(t, c.Flags().Set("job-description-file", path))
	text, err = jobDescriptionFromFlags(c)
	require.NoError(t, err)
	assert.Equal(t, "Python, SQL", text)

	c = newCmd()
	require.NoError(t, c.Flags().Set("job-description-file", filepath.Join(t.TempDir(), "missing.txt")))
	_, err = jobDescriptionFromFlags(c)
	assert.Error(t, err)
}

func TestSelectedID(t *testing.T) {
	entries := []*analyzer.HistoryEntry{{ID: "12"}, {ID: "cv 2024 final"}}

	id, ok := selectedID(entries, 1)
	require.True(t, ok)
	assert.Equal(t, "cv 2024 final", id)

	// The back item follows the entries.
	_, ok = selectedID(entries, len(entries))
	assert.False(t, ok)

	_, ok = selectedID(entries, -1)
	assert.False(t, ok)
}
