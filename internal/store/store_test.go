package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Root     string `json:"root"`
	Language string `json:"language"`
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "detections.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put("/repo", record{Root: "/repo", Language: "python"}))

	var got record
	ok, err := s.Get("/repo", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "python", got.Language)
}

func TestGet_MissingRoot(t *testing.T) {
	s := newTestStore(t)

	var got record
	ok, err := s.Get("/nowhere", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPut_ReplacesExisting(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put("/repo", record{Language: "go"}))
	require.NoError(t, s.Put("/repo", record{Language: "java"}))

	var got record
	ok, err := s.Get("/repo", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "java", got.Language)

	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestClear(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put("/a", record{}))
	require.NoError(t, s.Put("/b", record{}))
	require.NoError(t, s.Clear())

	n, err := s.Len()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Migrate())
}
