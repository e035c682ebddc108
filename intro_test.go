package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanade/introquiz/quiz"
)

func testCatalog() *quiz.Catalog {
	return &quiz.Catalog{
		ComposerChoices: []string{"Bach", "Mozart", "Beethoven", "Chopin"},
		Tracks: []quiz.Track{
			{ID: "t1", Title: "Toccata", Composer: "Bach"},
			{ID: "t2", Title: "Air", Composer: "Bach"},
			{ID: "t3", Title: "Nachtmusik", Composer: "Mozart"},
			{ID: "t4", Title: "Rondo", Composer: "Mozart"},
			{ID: "t5", Title: "Elise", Composer: "Beethoven"},
			{ID: "t6", Title: "Moonlight", Composer: "Beethoven"},
			{ID: "t7", Title: "Nocturne", Composer: "Chopin"},
		},
	}
}

// newTestHub builds a hub with a registered owner but no connected
// clients; broadcasts become no-ops, which is all these tests need.
func newTestHub(catalog *quiz.Catalog) (*Hub, *Config) {
	store := quiz.NewMemoryStore()
	h := newHub("testgame1", catalog, store)
	h.playerID = "cookie-owner"
	h.profile = store.Load(h.playerID)
	return h, &Config{}
}

// playAnswer submits an answer to the open round, then fires the
// round-advance step the run loop would normally trigger.
func playAnswer(t *testing.T, h *Hub, cfg *Config, correct bool) {
	t.Helper()
	round := h.session.Current()
	require.NotNil(t, round)

	answer := round.Answer
	if !correct {
		answer = "wrong " + round.Answer
	}
	h.handleAnswer(cfg, answer)
	h.advanceRound(cfg)
}

func TestStartSessionRefusedOnSmallPool(t *testing.T) {
	small := &quiz.Catalog{Tracks: []quiz.Track{
		{ID: "a", Title: "One"},
		{ID: "b", Title: "Two"},
		{ID: "c", Title: "Three"},
	}}
	h, cfg := newTestHub(small)

	h.startSession(cfg, quiz.ModeNormal, nil)

	assert.Nil(t, h.session, "refused launch creates no session state")
	assert.Equal(t, screenMenu, h.screen)
	assert.Empty(t, h.profile.Stats.HighScores)
}

func TestEndlessRoundEndsOnMissAndPersists(t *testing.T) {
	h, cfg := newTestHub(testCatalog())

	h.startSession(cfg, quiz.ModeEndless, nil)
	require.NotNil(t, h.session)
	assert.Equal(t, screenPlaying, h.screen)

	playAnswer(t, h, cfg, true)
	playAnswer(t, h, cfg, true)
	playAnswer(t, h, cfg, true)
	playAnswer(t, h, cfg, false)

	assert.Nil(t, h.session, "round is over")
	assert.Equal(t, screenSummary, h.screen)
	assert.Equal(t, 3, h.profile.Stats.HighScores["endless"])

	// The profile round-trips through the store, not just the hub copy.
	saved := h.store.Load(h.playerID)
	assert.Equal(t, 3, saved.Stats.HighScores["endless"])
}

func TestNormalRoundBudget(t *testing.T) {
	h, cfg := newTestHub(testCatalog())
	h.profile.Settings.NormalQuestions = 3

	h.startSession(cfg, quiz.ModeNormal, nil)
	require.NotNil(t, h.session)

	playAnswer(t, h, cfg, true)
	playAnswer(t, h, cfg, false)
	playAnswer(t, h, cfg, true)

	assert.Equal(t, screenSummary, h.screen)
	assert.Equal(t, 2, h.profile.Stats.HighScores["normal"])
}

func TestDuplicateAnswerLeavesStatsAlone(t *testing.T) {
	h, cfg := newTestHub(testCatalog())

	h.startSession(cfg, quiz.ModeNormal, nil)
	round := h.session.Current()
	require.NotNil(t, round)
	trackID := round.Track.ID

	h.handleAnswer(cfg, round.Answer)
	h.handleAnswer(cfg, round.Answer)
	h.handleAnswer(cfg, "wrong "+round.Answer)

	stat := h.profile.Stats.SongStats[trackID]
	require.NotNil(t, stat)
	assert.Equal(t, 1, stat.Correct)
	assert.Equal(t, 0, stat.Incorrect)
	assert.Equal(t, 1, h.session.QuestionsAsked)
}

func TestHomeCancelsTimersAndSession(t *testing.T) {
	h, cfg := newTestHub(testCatalog())
	h.profile.Settings.TimedDuration = 60_000

	h.startSession(cfg, quiz.ModeTimed, nil)
	require.NotNil(t, h.session)
	require.NotNil(t, h.ticker, "timed mode arms the countdown")

	h.handleAnswer(cfg, "whatever")
	require.NotNil(t, h.advance, "answer arms the round-advance timer")

	h.toMenu()

	assert.Nil(t, h.session)
	assert.Nil(t, h.ticker)
	assert.Nil(t, h.advance)
	assert.False(t, h.pendingSummary)
	assert.Equal(t, screenMenu, h.screen)
}

func TestTimedExpiryFinishesRound(t *testing.T) {
	h, cfg := newTestHub(testCatalog())
	h.profile.Settings.TimedDuration = 100 // one tick

	h.startSession(cfg, quiz.ModeTimed, nil)
	require.NotNil(t, h.session)
	trackID := h.session.Current().Track.ID

	h.handleTick(cfg)

	assert.Nil(t, h.session)
	assert.Equal(t, screenSummary, h.screen)
	assert.Nil(t, h.ticker)

	stat := h.profile.Stats.SongStats[trackID]
	require.NotNil(t, stat, "expiring with an open question scores it as a miss")
	assert.Equal(t, 1, stat.Incorrect)
}

func TestAchievementsUnlockOnStreak(t *testing.T) {
	h, cfg := newTestHub(testCatalog())

	h.startSession(cfg, quiz.ModeEndless, nil)
	for i := 0; i < 10; i++ {
		playAnswer(t, h, cfg, true)
	}

	assert.True(t, h.profile.Achievements["novice"])
	assert.False(t, h.profile.Achievements["apprentice"])
	assert.Equal(t, 10, h.profile.Stats.HighScores["endless"], "streak high score updates mid-round")
}

func TestSettingsEventPersists(t *testing.T) {
	h, cfg := newTestHub(testCatalog())

	h.handleEvent(cfg, clientEvent{msg: ClientMessage{
		Type:     "settings",
		Settings: &quiz.Settings{NormalQuestions: 7, TimedDuration: 30_000, ComposerFilter: "Bach"},
	}})

	saved := h.store.Load(h.playerID)
	assert.Equal(t, 7, saved.Settings.NormalQuestions)
	assert.Equal(t, 30_000, saved.Settings.TimedDuration)
	assert.Equal(t, "Bach", saved.Settings.ComposerFilter)
}

// A connecting client's session_info message is encoded on the client's
// write goroutine while the run loop keeps scoring answers, so it must
// snapshot the profile maps rather than alias them.
func TestSessionInfoIsASnapshot(t *testing.T) {
	h, cfg := newTestHub(testCatalog())
	h.startSession(cfg, quiz.ModeEndless, nil)

	info := h.sessionInfo()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			_, err := json.Marshal(info)
			assert.NoError(t, err)
		}
	}()
	for i := 0; i < 500; i++ {
		playAnswer(t, h, cfg, true)
	}
	<-done

	assert.Empty(t, info.HighScores, "snapshot predates every score")
	assert.Empty(t, info.Achievements)
	assert.Equal(t, 500, h.profile.Stats.HighScores["endless"])
}

func TestNewGameIDShape(t *testing.T) {
	gm := newGameManager(0, testCatalog(), quiz.NewMemoryStore())

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := gm.newGameID()
		assert.Len(t, id, 8)
		assert.False(t, seen[id])
		seen[id] = true
	}
}
