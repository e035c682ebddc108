package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func testCatalog() *Catalog {
	return &Catalog{
		ComposerChoices: []string{"Bach", "Mozart", "Beethoven", "Chopin"},
		Tracks: []Track{
			{ID: "t1", Title: "Toccata", Composer: "Bach", SimilarGroup: "organ"},
			{ID: "t2", Title: "Air", Composer: "Bach"},
			{ID: "t3", Title: "Nachtmusik", Composer: "Mozart"},
			{ID: "t4", Title: "Rondo", Composer: "Mozart"},
			{ID: "t5", Title: "Elise", Composer: "Beethoven", Context: "unpublished"},
			{ID: "t6", Title: "Moonlight", Composer: "Beethoven"},
			{ID: "t7", Title: "Nocturne", Composer: "Chopin"},
			{ID: "t8", Title: "Gymnopedie", Composer: "Satie"},
			{ID: "t9", Title: "Hidden", Composer: "Satie", Include: boolPtr(false)},
		},
	}
}

func TestParseCatalog(t *testing.T) {
	data := []byte(`
composer_choices: [Bach, Mozart]
tracks:
  - id: abc
    title: Toccata
    composer: Bach
  - id: def
    title: Air
    include: false
`)
	c, err := ParseCatalog(data)
	require.NoError(t, err)
	require.Len(t, c.Tracks, 2)
	assert.Equal(t, []string{"Bach", "Mozart"}, c.ComposerChoices)
	assert.True(t, c.Tracks[0].Included(), "include defaults to true")
	assert.False(t, c.Tracks[1].Included())
}

func TestParseCatalogRejectsBadEntries(t *testing.T) {
	_, err := ParseCatalog([]byte("tracks:\n  - id: abc\n"))
	assert.Error(t, err, "missing title")

	_, err = ParseCatalog([]byte("tracks:\n  - {id: a, title: x}\n  - {id: a, title: y}\n"))
	assert.Error(t, err, "duplicate id")
}

func TestFilterExcludesAndComposerFilter(t *testing.T) {
	c := testCatalog()

	pool, err := c.Filter(ModeEndless, "")
	require.NoError(t, err)
	assert.Len(t, pool, 8, "excluded track is filtered out")

	// Exact composer match only applies to normal mode.
	pool, err = c.Filter(ModeTimed, "Bach")
	require.NoError(t, err)
	assert.Len(t, pool, 8)

	_, err = c.Filter(ModeNormal, "Bach")
	assert.ErrorIs(t, err, ErrInsufficientCatalog, "only 2 Bach tracks")

	pool, err = c.Filter(ModeNormal, ComposerAll)
	require.NoError(t, err)
	assert.Len(t, pool, 8)
}

func TestFilterComposerMode(t *testing.T) {
	c := testCatalog()

	pool, err := c.Filter(ModeComposer, "")
	require.NoError(t, err)
	for _, track := range pool {
		assert.Contains(t, c.ComposerChoices, track.Composer)
	}
	assert.Len(t, pool, 7, "Satie is outside the fixed vocabulary")

	c.ComposerChoices = []string{"Bach"}
	_, err = c.Filter(ModeComposer, "")
	assert.ErrorIs(t, err, ErrInsufficientCatalog, "vocabulary of one is no quiz")
}

func TestFilterCountsDistinctTitles(t *testing.T) {
	c := &Catalog{Tracks: []Track{
		{ID: "a", Title: "Same"},
		{ID: "b", Title: "Same"},
		{ID: "c", Title: "Same"},
		{ID: "d", Title: "Other"},
		{ID: "e", Title: "Third"},
	}}
	_, err := c.Filter(ModeNormal, ComposerAll)
	assert.ErrorIs(t, err, ErrInsufficientCatalog, "5 tracks but only 3 distinct titles")
}

func TestComposers(t *testing.T) {
	c := testCatalog()
	assert.Equal(t, []string{"Bach", "Beethoven", "Chopin", "Mozart", "Satie"}, c.Composers())
}

func TestSearch(t *testing.T) {
	c := testCatalog()

	assert.Len(t, c.Search(""), 9, "empty query lists everything, excluded tracks included")
	assert.Len(t, c.Search("bach"), 2)

	results := c.Search("MOON")
	require.Len(t, results, 1)
	assert.Equal(t, "t6", results[0].ID)

	assert.Empty(t, c.Search("no such thing"))
}
