package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPrecedence(t *testing.T) {
	t.Setenv("TEST_API_TOKEN", " from-env ")

	file := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(file, []byte("from-file\n"), 0o600))

	secret, err := Load(Source{Name: "token", File: file, Env: "TEST_API_TOKEN", Value: "inline"})
	require.NoError(t, err)
	assert.Equal(t, "from-file", secret)

	secret, err = Load(Source{Name: "token", Env: "TEST_API_TOKEN", Value: "inline"})
	require.NoError(t, err)
	assert.Equal(t, "from-env", secret)

	secret, err = Load(Source{Name: "token", Env: "TEST_API_TOKEN_UNSET", Value: " inline "})
	require.NoError(t, err)
	assert.Equal(t, "inline", secret)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(Source{Name: "api token"})
	assert.EqualError(t, err, "api token is not configured")

	secret, err := Load(Source{Name: "api token", Optional: true})
	require.NoError(t, err)
	assert.Empty(t, secret)

	empty := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0o600))

	_, err = Load(Source{Name: "api token", File: empty, Optional: true})
	assert.ErrorContains(t, err, "is empty")

	_, err = Load(Source{Name: "api token", File: filepath.Join(t.TempDir(), "missing"), Optional: true})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
