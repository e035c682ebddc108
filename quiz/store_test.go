package quiz

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	p := store.Load("player-1")
	assert.Equal(t, DefaultSettings(), p.Settings, "unknown player gets defaults")

	p.Stats.HighScores["endless"] = 9
	require.NoError(t, store.Save("player-1", p))

	got := store.Load("player-1")
	assert.Equal(t, 9, got.Stats.HighScores["endless"])

	other := store.Load("player-2")
	assert.Empty(t, other.Stats.HighScores, "profiles are isolated per player")
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	p := store.Load("cookie-abc")
	assert.Equal(t, DefaultSettings(), p.Settings)

	p.Settings.NormalQuestions = 15
	p.RecordAnswer("t1", true, 800*time.Millisecond)
	p.Achievements["novice"] = true
	require.NoError(t, store.Save("cookie-abc", p))

	// Saving twice upserts rather than erroring.
	p.Stats.HighScores["timed"] = 4
	require.NoError(t, store.Save("cookie-abc", p))

	got := store.Load("cookie-abc")
	assert.Equal(t, p, got)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)

	p := store.Load("cookie-abc")
	p.Stats.HighScores["endless"] = 21
	require.NoError(t, store.Save("cookie-abc", p))
	require.NoError(t, store.Close())

	store, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	got := store.Load("cookie-abc")
	assert.Equal(t, 21, got.Stats.HighScores["endless"])
}
