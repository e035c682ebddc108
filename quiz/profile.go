package quiz

import (
	"encoding/json"
	"time"
)

// ProfileKey is the versioned key the profile blob is stored under. A
// version bump marks a breaking layout change; the tolerant decoder keeps
// old blobs readable either way.
const ProfileKey = "introquiz_profile_v2"

// SongStat is the lifetime record for one track.
type SongStat struct {
	Correct     int  `json:"correct"`
	Incorrect   int  `json:"incorrect"`
	FastestTime *int `json:"fastestTime,omitempty"` // milliseconds, correct answers only
}

// Stats groups per-mode high scores and per-track records.
type Stats struct {
	HighScores map[string]int       `json:"highScores"`
	SongStats  map[string]*SongStat `json:"songStats"`
}

// Profile is everything that survives across sessions for one player.
type Profile struct {
	Settings     Settings        `json:"settings"`
	Stats        Stats           `json:"stats"`
	Achievements map[string]bool `json:"achievements"`
}

// DefaultProfile returns a fresh profile with default settings and empty
// stats.
func DefaultProfile() *Profile {
	return &Profile{
		Settings: DefaultSettings(),
		Stats: Stats{
			HighScores: make(map[string]int),
			SongStats:  make(map[string]*SongStat),
		},
		Achievements: make(map[string]bool),
	}
}

// DecodeProfile parses a stored blob. Unparseable data and missing keys
// fall back to defaults rather than failing; an old or partial blob must
// never surface as an error to the player.
func DecodeProfile(data []byte) *Profile {
	p := DefaultProfile()
	if len(data) == 0 {
		return p
	}
	if err := json.Unmarshal(data, p); err != nil {
		return DefaultProfile()
	}
	p.backfill()
	return p
}

// Encode serializes the profile for storage.
func (p *Profile) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// backfill repairs holes left by older or partial blobs.
func (p *Profile) backfill() {
	p.Settings.Normalize()
	if p.Stats.HighScores == nil {
		p.Stats.HighScores = make(map[string]int)
	}
	if p.Stats.SongStats == nil {
		p.Stats.SongStats = make(map[string]*SongStat)
	}
	if p.Achievements == nil {
		p.Achievements = make(map[string]bool)
	}
	for id, s := range p.Stats.SongStats {
		if s == nil {
			p.Stats.SongStats[id] = &SongStat{}
		}
	}
}

// RecordAnswer updates the per-track record for one scored answer.
// Fastest-answer times are only taken from correct answers.
func (p *Profile) RecordAnswer(trackID string, correct bool, elapsed time.Duration) {
	s := p.Stats.SongStats[trackID]
	if s == nil {
		s = &SongStat{}
		p.Stats.SongStats[trackID] = s
	}
	if !correct {
		s.Incorrect++
		return
	}
	s.Correct++
	ms := int(elapsed.Milliseconds())
	if ms < 0 {
		ms = 0
	}
	if s.FastestTime == nil || ms < *s.FastestTime {
		s.FastestTime = &ms
	}
}

// UpdateHighScore raises the stored high score for a mode if beaten,
// reporting whether it changed.
func (p *Profile) UpdateHighScore(mode Mode, score int) bool {
	if score <= p.Stats.HighScores[string(mode)] {
		return false
	}
	p.Stats.HighScores[string(mode)] = score
	return true
}

// Unlock marks achievements as earned and reports whether anything new
// was added. Achievements are never revoked.
func (p *Profile) Unlock(achievements []Achievement) bool {
	changed := false
	for _, a := range achievements {
		if !p.Achievements[a.ID] {
			p.Achievements[a.ID] = true
			changed = true
		}
	}
	return changed
}
