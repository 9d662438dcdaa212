package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveJoinsBaseAndPath(t *testing.T) {
	r := NewResolver("http://media.local/files/")

	url, ok := r.Resolve("albums/track.mp3")
	require.True(t, ok)
	assert.Equal(t, "http://media.local/files/albums/track.mp3", url)
}

func TestResolveEncodesSegmentsIndependently(t *testing.T) {
	r := NewResolver("http://media.local")

	url, ok := r.Resolve("live sets/intro #1.mp3")
	require.True(t, ok)
	assert.Equal(t, "http://media.local/live%20sets/intro%20%231.mp3", url)
	assert.NotContains(t, url, "%2F", "slashes separate segments and are never encoded")
}

func TestResolveUnconfigured(t *testing.T) {
	r := NewResolver("")

	assert.False(t, r.Configured())
	_, ok := r.Resolve("albums/track.mp3")
	assert.False(t, ok)
}

func TestResolveRelativeBase(t *testing.T) {
	r := NewResolver("/media")

	url, ok := r.Resolve("a/b.mp4")
	require.True(t, ok)
	assert.Equal(t, "/media/a/b.mp4", url)
}
