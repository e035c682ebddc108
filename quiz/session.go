package quiz

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// Mode identifies a quiz variant.
type Mode string

const (
	ModeNormal   Mode = "normal"
	ModeTimed    Mode = "timed"
	ModeEndless  Mode = "endless"
	ModeComposer Mode = "composer_quiz"
)

// ComposerAll disables the composer filter.
const ComposerAll = "All"

// ValidMode reports whether s names a playable mode.
func ValidMode(s string) bool {
	switch Mode(s) {
	case ModeNormal, ModeTimed, ModeEndless, ModeComposer:
		return true
	}
	return false
}

// Settings are the player-tunable knobs, persisted with the profile.
type Settings struct {
	NormalQuestions int    `json:"normalQuestions"` // question budget in normal mode
	TimedDuration   int    `json:"timedDuration"`   // timed round length, milliseconds
	ComposerFilter  string `json:"composerFilter"`  // "All" or an exact composer name
	TimedEndsOnMiss bool   `json:"timedEndsOnMiss"` // sudden-death variant of timed mode
}

// DefaultSettings returns the out-of-the-box settings.
func DefaultSettings() Settings {
	return Settings{
		NormalQuestions: 10,
		TimedDuration:   60_000,
		ComposerFilter:  ComposerAll,
	}
}

// Normalize clamps settings to sane minimums, backfilling zero values
// left behind by older stored profiles.
func (s *Settings) Normalize() {
	d := DefaultSettings()
	if s.NormalQuestions < 1 {
		s.NormalQuestions = d.NormalQuestions
	}
	if s.TimedDuration < 1 {
		s.TimedDuration = d.TimedDuration
	}
	if s.ComposerFilter == "" {
		s.ComposerFilter = ComposerAll
	}
}

// Round is one presented question: a cued track plus its answer choices.
type Round struct {
	Track   Track
	Choices []string
	Answer  string // the correct choice string
	started time.Time
}

// Outcome describes the result of one submitted (or timed-out) answer.
type Outcome struct {
	Correct        bool
	TimedOut       bool
	CorrectAnswer  string
	Track          Track
	Elapsed        time.Duration // submission latency, for fastest-answer stats
	Score          int
	Streak         int
	QuestionsAsked int
	Done           bool // the round that contained this question is over
}

// Session is the state of one play-through of a mode, from launch to end
// screen. It is owned by a single hub goroutine; no internal locking.
type Session struct {
	ID       string
	Mode     Mode
	Settings Settings

	Score          int
	QuestionsAsked int
	Streak         int
	TimeRemaining  time.Duration

	pool     []Track
	vocab    []string
	answered map[string]bool
	current  *Round
	locked   bool
	rng      *rand.Rand
	now      func() time.Time
}

// NewSession filters the catalog for the mode and sets up fresh state.
// Pools too small to build a round yield ErrInsufficientCatalog before
// any state exists to mutate.
func NewSession(mode Mode, settings Settings, catalog *Catalog, r *rand.Rand) (*Session, error) {
	settings.Normalize()

	pool, err := catalog.Filter(mode, settings.ComposerFilter)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:       uuid.NewString(),
		Mode:     mode,
		Settings: settings,
		pool:     pool,
		vocab:    catalog.ComposerChoices,
		answered: make(map[string]bool),
		rng:      r,
		now:      time.Now,
	}
	if mode == ModeTimed {
		s.TimeRemaining = time.Duration(settings.TimedDuration) * time.Millisecond
	}
	return s, nil
}

// PoolSize returns the number of tracks in the filtered pool.
func (s *Session) PoolSize() int {
	return len(s.pool)
}

// Current returns the open round, or nil between rounds.
func (s *Session) Current() *Round {
	return s.current
}

// Locked reports whether the open round has already been answered.
func (s *Session) Locked() bool {
	return s.locked
}

// NextRound selects the next track, preferring ones not yet shown this
// cycle, builds its choices, and unlocks answering. When every track has
// been shown the answered set is cleared and the full pool becomes
// available again; this reshuffle is intentional, not an error.
func (s *Session) NextRound() (*Round, error) {
	unseen := make([]Track, 0, len(s.pool))
	for _, t := range s.pool {
		if !s.answered[t.ID] {
			unseen = append(unseen, t)
		}
	}
	if len(unseen) == 0 {
		s.answered = make(map[string]bool)
		unseen = s.pool
	}

	track := unseen[s.rng.IntN(len(unseen))]
	s.answered[track.ID] = true

	var choices []string
	var answer string
	var err error
	if s.Mode == ModeComposer {
		choices, err = ComposerChoices(track, s.vocab, s.rng)
		answer = track.Composer
	} else {
		choices, err = Choices(track, s.pool, s.rng)
		answer = track.Title
	}
	if err != nil {
		return nil, err
	}

	s.current = &Round{
		Track:   track,
		Choices: choices,
		Answer:  answer,
		started: s.now(),
	}
	s.locked = false

	return s.current, nil
}

// Submit scores an answer against the open round. The second return is
// false when there is no open round or it is already locked; duplicate
// submissions are ignored without touching any state.
func (s *Session) Submit(answer string) (Outcome, bool) {
	if s.current == nil || s.locked {
		return Outcome{}, false
	}
	s.locked = true

	correct := answer == s.current.Answer
	s.QuestionsAsked++
	if correct {
		s.Score++
		s.Streak++
	} else {
		s.Streak = 0
	}

	out := Outcome{
		Correct:        correct,
		CorrectAnswer:  s.current.Answer,
		Track:          s.current.Track,
		Elapsed:        s.now().Sub(s.current.started),
		Score:          s.Score,
		Streak:         s.Streak,
		QuestionsAsked: s.QuestionsAsked,
		Done:           s.roundOver(correct),
	}
	return out, true
}

// roundOver applies the per-mode end condition to the answer just scored.
func (s *Session) roundOver(correct bool) bool {
	switch s.Mode {
	case ModeNormal:
		return s.QuestionsAsked >= s.Settings.NormalQuestions
	case ModeTimed:
		if s.Settings.TimedEndsOnMiss && !correct {
			return true
		}
		return s.TimeRemaining <= 0
	default: // endless, composer guess: first miss ends the round
		return !correct
	}
}

// Tick advances the timed-mode countdown by step, clamping at zero, and
// reports whether the clock has run out. The remaining time never
// increases while the round is live.
func (s *Session) Tick(step time.Duration) (time.Duration, bool) {
	if s.Mode != ModeTimed {
		return 0, false
	}
	s.TimeRemaining -= step
	if s.TimeRemaining <= 0 {
		s.TimeRemaining = 0
		return 0, true
	}
	return s.TimeRemaining, false
}

// Expire handles the timed-mode clock reaching zero. An open, unanswered
// question counts as incorrect; an already-answered question passes
// through untouched. Either way the round is over.
func (s *Session) Expire() (Outcome, bool) {
	if s.current == nil || s.locked {
		return Outcome{Score: s.Score, Streak: s.Streak, QuestionsAsked: s.QuestionsAsked, Done: true}, false
	}
	s.locked = true
	s.QuestionsAsked++
	s.Streak = 0

	return Outcome{
		TimedOut:       true,
		CorrectAnswer:  s.current.Answer,
		Track:          s.current.Track,
		Elapsed:        s.now().Sub(s.current.started),
		Score:          s.Score,
		Streak:         0,
		QuestionsAsked: s.QuestionsAsked,
		Done:           true,
	}, true
}

// NewRNG seeds a generator for session use.
func NewRNG() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
