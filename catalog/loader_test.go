package catalog

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogJSON = `[
	{"id": "a", "path": "music/a.mp3", "type": "audio", "collection": "music"},
	{"id": "b", "path": "music/b.mp3", "type": "audio", "collection": "music",
	 "metadata": {"artist": "Someone", "durationSeconds": 200}}
]`

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(catalogJSON), 0644))

	p := NewProvider(path, "")
	require.NoError(t, p.Load())

	c := p.Current()
	assert.Equal(t, 2, c.Len())
	it, ok := c.ItemByID("b")
	require.True(t, ok)
	require.NotNil(t, it.Metadata)
	assert.Equal(t, "Someone", it.Metadata.Artist)
}

func TestLoadFromHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(catalogJSON))
	}))
	defer srv.Close()

	p := NewProvider("", srv.URL)
	require.NoError(t, p.Load())
	assert.Equal(t, 2, p.Current().Len())
}

func TestLoadFailureKeepsPreviousSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(catalogJSON), 0644))

	p := NewProvider(path, "")
	require.NoError(t, p.Load())

	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))
	require.Error(t, p.Load())
	assert.Equal(t, 2, p.Current().Len(), "a failed reload must keep the old snapshot")
}

func TestCurrentBeforeFirstLoad(t *testing.T) {
	p := NewProvider("/nonexistent.json", "")
	c := p.Current()
	require.NotNil(t, c)
	assert.Zero(t, c.Len())
}

func TestLoadWithoutSource(t *testing.T) {
	p := NewProvider("", "")
	assert.Error(t, p.Load())
}
