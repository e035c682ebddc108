package quiz

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInsufficientCatalog is returned when the filtered track pool is too
// small to build a multiple-choice round. Callers abort the launch and
// return to the menu; this is never treated as fatal.
var ErrInsufficientCatalog = errors.New("not enough tracks to build a round")

// minPool is the minimum number of distinct answer choices per round.
const minPool = 4

// Track is a single playable entry in the catalog. Tracks are loaded once
// at startup and never mutated.
type Track struct {
	ID           string `yaml:"id" json:"id"`                                // opaque video identifier for the player widget
	Title        string `yaml:"title" json:"title"`
	Composer     string `yaml:"composer,omitempty" json:"composer,omitempty"`
	SimilarGroup string `yaml:"similar_group,omitempty" json:"similarGroup,omitempty"` // tracks that sound alike
	Context      string `yaml:"context,omitempty" json:"context,omitempty"`            // trivia shown after answering
	Include      *bool  `yaml:"include,omitempty" json:"-"`                            // nil means true
}

// Included reports whether the track takes part in quiz rounds. The
// encyclopedia always shows excluded tracks.
func (t Track) Included() bool {
	return t.Include == nil || *t.Include
}

// Catalog holds the full track list plus the fixed composer vocabulary
// used by composer-guess mode.
type Catalog struct {
	Tracks          []Track  `yaml:"tracks"`
	ComposerChoices []string `yaml:"composer_choices,omitempty"`
}

// LoadCatalog reads a YAML catalog from disk.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(c.Tracks))
	for i, t := range c.Tracks {
		if t.ID == "" || t.Title == "" {
			return nil, fmt.Errorf("catalog entry %d is missing an id or title", i)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate track id %q", t.ID)
		}
		seen[t.ID] = true
	}

	return &c, nil
}

// Filter returns the playable pool for a mode. Normal mode honors the
// composer filter; composer-guess mode is restricted to tracks whose
// composer appears in the fixed vocabulary. Pools too small to build a
// round yield ErrInsufficientCatalog.
func (c *Catalog) Filter(mode Mode, composerFilter string) ([]Track, error) {
	var pool []Track
	for _, t := range c.Tracks {
		if !t.Included() {
			continue
		}
		switch {
		case mode == ModeNormal && composerFilter != "" && composerFilter != ComposerAll:
			if t.Composer != composerFilter {
				continue
			}
		case mode == ModeComposer:
			if !contains(c.ComposerChoices, t.Composer) {
				continue
			}
		}
		pool = append(pool, t)
	}

	if len(pool) < minPool {
		return nil, ErrInsufficientCatalog
	}

	switch mode {
	case ModeComposer:
		if len(c.ComposerChoices) < 2 {
			return nil, ErrInsufficientCatalog
		}
	default:
		// Duplicate titles across tracks cannot yield 4 visually
		// distinct answers, so count titles rather than tracks.
		titles := make(map[string]bool, len(pool))
		for _, t := range pool {
			titles[t.Title] = true
		}
		if len(titles) < minPool {
			return nil, ErrInsufficientCatalog
		}
	}

	return pool, nil
}

// Composers returns the distinct composer names of all included tracks,
// sorted, for the settings panel's filter dropdown.
func (c *Catalog) Composers() []string {
	set := make(map[string]bool)
	for _, t := range c.Tracks {
		if t.Included() && t.Composer != "" {
			set[t.Composer] = true
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Search returns tracks whose title or composer contains the query,
// case-insensitively. An empty query returns the whole catalog. Backs the
// read-only encyclopedia view, so excluded tracks are listed too.
func (c *Catalog) Search(query string) []Track {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]Track, len(c.Tracks))
		copy(out, c.Tracks)
		return out
	}
	var out []Track
	for _, t := range c.Tracks {
		if strings.Contains(strings.ToLower(t.Title), query) ||
			strings.Contains(strings.ToLower(t.Composer), query) {
			out = append(out, t)
		}
	}
	return out
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
