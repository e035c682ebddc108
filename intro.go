// Introquiz game
//
// A video is cued (audio only, the iframe is hidden) via the in-browser
// player widget, and the player picks the track's title (or, in
// composer-guess mode, its composer) from four choices. Score, streaks,
// settings, achievements, and per-track stats persist per player cookie.
//
// Features:
// - One quiz session per game ID: /intro/:gameid and /intro/:gameid/ws
// - Modes: normal (fixed question budget), timed (countdown, optional
//   sudden death on a miss), endless and composer-guess (first miss ends)
// - Unseen-first track selection; the answered set resets once exhausted
// - Similar-group tracks are preferred as hard distractors
// - Streak achievements unlock in endless and composer-guess modes
// - Players identified by cookie (playerID); profiles keyed by it
// - Catalog browser ("encyclopedia") at /intro/api/catalog
// - Sessions auto-reaped after configurable idle timeout
// - Random 8-char game IDs via crypto/rand, with server-side collision check
// - In-browser QR button to share the current session, backed by go-qrcode

package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/kanade/introquiz/quiz"
)

const (
	// Delay between answering and the next question, so the reveal and
	// trivia stay readable.
	presentDelay = 2 * time.Second

	// Countdown granularity in timed mode.
	tickStep = 100 * time.Millisecond
)

// Screens the client can be told to render.
const (
	screenMenu    = "menu"
	screenPlaying = "playing"
	screenSummary = "summary"
)

// Messages coming from clients
type ClientMessage struct {
	Type     string         `json:"type"`               // "start", "answer", "settings", "replay", "toggle_pause", "volume", "home", "play_again", "player_state", "player_error"
	Mode     string         `json:"mode,omitempty"`     // start
	Answer   string         `json:"answer,omitempty"`   // answer
	Settings *quiz.Settings `json:"settings,omitempty"` // settings
	State    string         `json:"state,omitempty"`    // player_state: unstarted/playing/paused/ended/cued
	Volume   *int           `json:"volume,omitempty"`   // volume
	Code     int            `json:"code,omitempty"`     // player_error
}

// SessionInfoMessage is sent immediately on connect so the client can
// render the menu with the player's stored settings and records.
type SessionInfoMessage struct {
	Type         string             `json:"type"` // "session_info"
	Screen       string             `json:"screen"`
	Settings     quiz.Settings      `json:"settings"`
	HighScores   map[string]int     `json:"high_scores"`
	Achievements map[string]bool    `json:"achievements"`
	Composers    []string           `json:"composers"`      // for the settings filter dropdown
	ComposerSet  []string           `json:"composer_set"`   // fixed vocabulary of composer-guess mode
	Tiers        []quiz.Achievement `json:"tiers"`
}

// PlayerCommandMessage drives the external player widget.
type PlayerCommandMessage struct {
	Type    string  `json:"type"`   // "player"
	Action  string  `json:"action"` // "cue", "play", "pause", "stop", "seek", "volume"
	VideoID string  `json:"video_id,omitempty"`
	Seconds float64 `json:"seconds,omitempty"`
	Volume  int     `json:"volume,omitempty"`
}

// RoundMessage presents one question.
type RoundMessage struct {
	Type          string   `json:"type"`            // "round"
	Question      int      `json:"question"`        // 1-based
	Total         int      `json:"total,omitempty"` // 0 when the mode has no budget
	Choices       []string `json:"choices"`
	Score         int      `json:"score"`
	Streak        int      `json:"streak"`
	TimeRemaining int      `json:"time_remaining,omitempty"` // ms, timed mode
}

// ResultMessage reveals the outcome of an answer.
type ResultMessage struct {
	Type          string             `json:"type"` // "result"
	Correct       bool               `json:"correct"`
	TimedOut      bool               `json:"timed_out,omitempty"`
	CorrectAnswer string             `json:"correct_answer"`
	Context       string             `json:"context,omitempty"` // track trivia
	Score         int                `json:"score"`
	Streak        int                `json:"streak"`
	Questions     int                `json:"questions"`
	Unlocked      []quiz.Achievement `json:"unlocked,omitempty"`
}

// TickMessage updates the timed-mode countdown readout.
type TickMessage struct {
	Type      string `json:"type"`      // "tick"
	Remaining int    `json:"remaining"` // ms
}

// SummaryMessage ends a round.
type SummaryMessage struct {
	Type      string `json:"type"` // "summary"
	Mode      string `json:"mode"`
	Score     int    `json:"score"`
	Questions int    `json:"questions"`
	Total     int    `json:"total,omitempty"` // question budget, normal mode
	Best      int    `json:"best"`
	NewBest   bool   `json:"new_best"`
}

// NoticeMessage is for generic user-facing notifications ("not enough
// tracks for that filter", etc.)
type NoticeMessage struct {
	Type    string `json:"type"` // "notice"
	Message string `json:"message"`
}

// ScreenMessage tells the client which screen to render.
type ScreenMessage struct {
	Type   string `json:"type"` // "screen"
	Screen string `json:"screen"`
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	playerID string
}

type clientEvent struct {
	client *Client
	msg    ClientMessage
}

// Hub owns one quiz session and all of its timers. All state below mu is
// touched only from run(), which also makes the answer lock the only
// reentrancy guard the round protocol needs.
type Hub struct {
	id      string
	catalog *quiz.Catalog
	store   quiz.ProfileStore

	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	events   chan clientEvent
	done     chan struct{}

	mu sync.RWMutex

	createdAt  time.Time
	lastActive time.Time

	playerID string // cookie of the first connection; owns the profile
	profile  *quiz.Profile

	screen         string
	session        *quiz.Session
	lastMode       quiz.Mode
	playerState    string
	pendingSummary bool

	// Exactly one live handle per concern; both cleared on every state
	// exit. A stale timer firing into the wrong state is the classic bug
	// this structure exists to prevent.
	advance *time.Timer
	ticker  *time.Ticker
}

func newHub(gameID string, catalog *quiz.Catalog, store quiz.ProfileStore) *Hub {
	now := time.Now()
	return &Hub{
		id:         gameID,
		catalog:    catalog,
		store:      store,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		events:     make(chan clientEvent),
		done:       make(chan struct{}),
		createdAt:  now,
		lastActive: now,
		screen:     screenMenu,
	}
}

func (h *Hub) run(cfg *Config) {
	for {
		// nil channels block forever, so inactive timers simply drop out
		// of the select.
		var tickC <-chan time.Time
		if h.ticker != nil {
			tickC = h.ticker.C
		}
		var advanceC <-chan time.Time
		if h.advance != nil {
			advanceC = h.advance.C
		}

		select {
		case <-h.done:
			return

		case c := <-h.register:
			h.handleRegister(cfg, c)

		case c := <-h.unreg:
			h.mu.Lock()
			h.lastActive = time.Now()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case ev := <-h.events:
			h.handleEvent(cfg, ev)

		case <-tickC:
			h.handleTick(cfg)

		case <-advanceC:
			h.advance = nil
			h.advanceRound(cfg)
		}
	}
}

func (h *Hub) handleRegister(cfg *Config, c *Client) {
	h.mu.Lock()
	h.lastActive = time.Now()
	if h.playerID == "" {
		h.playerID = c.playerID
		h.profile = h.store.Load(c.playerID)
	}
	h.clients[c] = true
	h.mu.Unlock()

	logf(cfg, "GAMES: Player %.8s connected to %s", c.playerID, h.id)

	c.send <- h.sessionInfo()
}

// sessionInfo snapshots the profile for a connecting client. The maps
// are copied because writePump encodes the message on its own goroutine
// while run() keeps mutating the originals on every scored answer.
func (h *Hub) sessionInfo() SessionInfoMessage {
	highScores := make(map[string]int, len(h.profile.Stats.HighScores))
	for mode, score := range h.profile.Stats.HighScores {
		highScores[mode] = score
	}
	achievements := make(map[string]bool, len(h.profile.Achievements))
	for id, ok := range h.profile.Achievements {
		achievements[id] = ok
	}

	return SessionInfoMessage{
		Type:         "session_info",
		Screen:       h.screen,
		Settings:     h.profile.Settings,
		HighScores:   highScores,
		Achievements: achievements,
		Composers:    h.catalog.Composers(),
		ComposerSet:  append([]string(nil), h.catalog.ComposerChoices...),
		Tiers:        quiz.Achievements,
	}
}

func (h *Hub) handleEvent(cfg *Config, ev clientEvent) {
	h.mu.Lock()
	h.lastActive = time.Now()
	h.mu.Unlock()

	msg := ev.msg

	switch msg.Type {
	case "start":
		h.startSession(cfg, quiz.Mode(msg.Mode), msg.Settings)

	case "play_again":
		if h.lastMode != "" {
			h.startSession(cfg, h.lastMode, nil)
		}

	case "answer":
		h.handleAnswer(cfg, msg.Answer)

	case "settings":
		if msg.Settings != nil {
			s := *msg.Settings
			s.Normalize()
			h.profile.Settings = s
			h.persist(cfg)
			h.broadcast(NoticeMessage{Type: "notice", Message: "Settings saved."})
		}

	case "replay":
		if h.session != nil && h.session.Current() != nil {
			h.cueCurrent()
		}

	case "toggle_pause":
		if h.session == nil {
			return
		}
		if h.playerState == "playing" {
			h.broadcast(PlayerCommandMessage{Type: "player", Action: "pause"})
		} else {
			h.broadcast(PlayerCommandMessage{Type: "player", Action: "play"})
		}

	case "volume":
		if msg.Volume != nil {
			h.broadcast(PlayerCommandMessage{Type: "player", Action: "volume", Volume: *msg.Volume})
		}

	case "home":
		h.toMenu()

	case "player_state":
		h.playerState = msg.State

	case "player_error":
		// Playback faults are never fatal: the question stays open and
		// the player may replay or answer regardless.
		logf(cfg, "GAMES: Playback fault (code %d) in %s", msg.Code, h.id)

	default:
		// ignore unknown types
	}
}

// startSession launches a round of the requested mode. An undersized
// filtered pool aborts the launch and returns to the menu with a
// message; no session state is created.
func (h *Hub) startSession(cfg *Config, mode quiz.Mode, override *quiz.Settings) {
	if !quiz.ValidMode(string(mode)) {
		return
	}
	h.clearTimers()

	if override != nil {
		s := *override
		s.Normalize()
		h.profile.Settings = s
		h.persist(cfg)
	}

	session, err := quiz.NewSession(mode, h.profile.Settings, h.catalog, quiz.NewRNG())
	if err != nil {
		logf(cfg, "GAMES: Refused %s round in %s: %v", mode, h.id, err)
		h.toMenu()
		h.broadcast(NoticeMessage{
			Type:    "notice",
			Message: "Not enough tracks for that mode and filter. Try different settings.",
		})
		return
	}

	h.session = session
	h.lastMode = mode
	h.screen = screenPlaying
	h.broadcast(ScreenMessage{Type: "screen", Screen: screenPlaying})

	logf(cfg, "GAMES: Started %s round %s in %s (%d tracks)", mode, session.ID, h.id, session.PoolSize())

	if mode == quiz.ModeTimed {
		h.ticker = time.NewTicker(tickStep)
	}

	h.startRound(cfg)
}

// startRound presents the next question and cues playback from the top.
func (h *Hub) startRound(cfg *Config) {
	s := h.session
	if s == nil {
		return
	}

	round, err := s.NextRound()
	if err != nil {
		// Only reachable when the pool degenerates mid-round, which a
		// static catalog cannot do; bail out gracefully anyway.
		logf(cfg, "GAMES: Round build failed in %s: %v", h.id, err)
		h.toMenu()
		h.broadcast(NoticeMessage{Type: "notice", Message: "Could not build a question. Returning to menu."})
		return
	}

	h.cueCurrent()

	total := 0
	if s.Mode == quiz.ModeNormal {
		total = s.Settings.NormalQuestions
	}
	h.broadcast(RoundMessage{
		Type:          "round",
		Question:      s.QuestionsAsked + 1,
		Total:         total,
		Choices:       round.Choices,
		Score:         s.Score,
		Streak:        s.Streak,
		TimeRemaining: int(s.TimeRemaining.Milliseconds()),
	})
}

func (h *Hub) cueCurrent() {
	round := h.session.Current()
	if round == nil {
		return
	}
	h.broadcast(PlayerCommandMessage{
		Type:    "player",
		Action:  "cue",
		VideoID: round.Track.ID,
		Seconds: 0,
	})
}

// handleAnswer scores a submission. Submissions after the answer lock
// engages are dropped without side effects.
func (h *Hub) handleAnswer(cfg *Config, answer string) {
	s := h.session
	if s == nil {
		return
	}

	out, ok := s.Submit(answer)
	if !ok {
		return
	}

	unlocked := h.recordOutcome(cfg, out)

	h.broadcast(ResultMessage{
		Type:          "result",
		Correct:       out.Correct,
		CorrectAnswer: out.CorrectAnswer,
		Context:       out.Track.Context,
		Score:         out.Score,
		Streak:        out.Streak,
		Questions:     out.QuestionsAsked,
		Unlocked:      unlocked,
	})

	// Both branches run through the presentation delay so the reveal is
	// readable before the next question or the summary.
	h.advance = time.NewTimer(presentDelay)
	if out.Done {
		h.pendingSummary = true
	}
}

// recordOutcome folds one answer into the profile: per-track stats,
// achievements for streak-bearing modes, and a save. Composer-guess
// answers count toward the same per-track bucket as title answers.
func (h *Hub) recordOutcome(cfg *Config, out quiz.Outcome) []quiz.Achievement {
	h.profile.RecordAnswer(out.Track.ID, out.Correct, out.Elapsed)

	var unlocked []quiz.Achievement
	if out.Correct && (h.session.Mode == quiz.ModeEndless || h.session.Mode == quiz.ModeComposer) {
		unlocked = quiz.EvaluateAchievements(out.Streak, h.profile.Achievements)
		if h.profile.Unlock(unlocked) {
			for _, a := range unlocked {
				logf(cfg, "GAMES: Achievement %q unlocked in %s", a.ID, h.id)
			}
		}
		// The streak high score tracks the best streak ever, not just
		// round-final scores.
		h.profile.UpdateHighScore(h.session.Mode, out.Streak)
	}

	h.persist(cfg)
	return unlocked
}

// advanceRound fires after the presentation delay: either the next
// question, or the end screen.
func (h *Hub) advanceRound(cfg *Config) {
	if h.session == nil {
		return
	}
	if h.pendingSummary {
		h.finishRound(cfg)
		return
	}
	h.startRound(cfg)
}

// handleTick drives the timed-mode countdown. Expiry ends the round
// within the same tick, counting any open question as a miss.
func (h *Hub) handleTick(cfg *Config) {
	s := h.session
	if s == nil || s.Mode != quiz.ModeTimed {
		h.clearTimers()
		return
	}

	remaining, expired := s.Tick(tickStep)
	if !expired {
		h.broadcast(TickMessage{Type: "tick", Remaining: int(remaining.Milliseconds())})
		return
	}

	h.broadcast(TickMessage{Type: "tick", Remaining: 0})

	if out, scored := s.Expire(); scored {
		h.recordOutcome(cfg, out)
		h.broadcast(ResultMessage{
			Type:          "result",
			TimedOut:      true,
			CorrectAnswer: out.CorrectAnswer,
			Context:       out.Track.Context,
			Score:         out.Score,
			Streak:        out.Streak,
			Questions:     out.QuestionsAsked,
		})
	}

	h.finishRound(cfg)
}

// finishRound stops playback and timers, settles the high score, and
// shows the summary.
func (h *Hub) finishRound(cfg *Config) {
	s := h.session
	if s == nil {
		return
	}
	h.clearTimers()
	h.broadcast(PlayerCommandMessage{Type: "player", Action: "stop"})

	newBest := h.profile.UpdateHighScore(s.Mode, s.Score)
	h.persist(cfg)

	total := 0
	if s.Mode == quiz.ModeNormal {
		total = s.Settings.NormalQuestions
	}

	logf(cfg, "GAMES: Finished %s round %s in %s (score %d/%d)", s.Mode, s.ID, h.id, s.Score, s.QuestionsAsked)

	h.session = nil
	h.screen = screenSummary
	h.broadcast(SummaryMessage{
		Type:      "summary",
		Mode:      string(s.Mode),
		Score:     s.Score,
		Questions: s.QuestionsAsked,
		Total:     total,
		Best:      h.profile.Stats.HighScores[string(s.Mode)],
		NewBest:   newBest,
	})
}

// toMenu cancels everything belonging to the current round and returns
// to the menu screen.
func (h *Hub) toMenu() {
	h.clearTimers()
	if h.session != nil {
		h.broadcast(PlayerCommandMessage{Type: "player", Action: "stop"})
		h.session = nil
	}
	h.screen = screenMenu
	h.broadcast(ScreenMessage{Type: "screen", Screen: screenMenu})
}

// clearTimers releases both timer handles. Safe to call from any state.
func (h *Hub) clearTimers() {
	if h.advance != nil {
		h.advance.Stop()
		h.advance = nil
	}
	if h.ticker != nil {
		h.ticker.Stop()
		h.ticker = nil
	}
	h.pendingSummary = false
}

func (h *Hub) persist(cfg *Config) {
	if err := h.store.Save(h.playerID, h.profile); err != nil {
		// Best effort: a failed save never interrupts play.
		logf(cfg, "STORE: Save failed for %.8s: %v", h.playerID, err)
	}
}

func (h *Hub) broadcast(msg any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			delete(h.clients, client)
			close(client.send)
		}
	}
}

// closeAll disconnects all clients of this hub (used by reaper).
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	close(h.done)
	for c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, c)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const playerCookieName = "introquiz_id"

func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		log.Println("rand.Read error:", err)
		return ""
	}
	id := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// GameManager holds a set of hubs keyed by game ID, so each $path/$gameid
// is its own isolated session.
type GameManager struct {
	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration
	catalog     *quiz.Catalog
	store       quiz.ProfileStore
}

func newGameManager(idleTimeout time.Duration, catalog *quiz.Catalog, store quiz.ProfileStore) *GameManager {
	gm := &GameManager{
		hubs:        make(map[string]*Hub),
		idleTimeout: idleTimeout,
		catalog:     catalog,
		store:       store,
	}
	if idleTimeout > 0 {
		go gm.reaperLoop()
	}
	return gm
}

func (gm *GameManager) getHub(cfg *Config, gameID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	hub := newHub(gameID, gm.catalog, gm.store)
	gm.hubs[gameID] = hub
	go hub.run(cfg)
	return hub
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	for {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, 8)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		gm.mu.Lock()
		_, exists := gm.hubs[id]
		gm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reaperLoop periodically removes hubs that have been idle longer than idleTimeout.
func (gm *GameManager) reaperLoop() {
	ticker := time.NewTicker(gm.idleTimeout / 2)
	for range ticker.C {
		cutoff := time.Now().Add(-gm.idleTimeout)

		gm.mu.Lock()
		for id, hub := range gm.hubs {
			hub.mu.RLock()
			last := hub.lastActive
			hub.mu.RUnlock()

			if last.Before(cutoff) {
				delete(gm.hubs, id)
				go hub.closeAll()
			}
		}
		gm.mu.Unlock()
	}
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		playerID := getOrSetPlayerID(w, r)
		if playerID == "" {
			http.Error(w, "unable to assign player id", http.StatusInternalServerError)
			return
		}

		hub := gm.getHub(cfg, gameID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &Client{
			conn:     conn,
			send:     make(chan any, 8),
			playerID: playerID,
		}

		select {
		case hub.register <- client:
		case <-hub.done:
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		select {
		case h.events <- clientEvent{client: c, msg: msg}:
		case <-h.done:
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the current game URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gameID := ps.ByName("gameid")
	if gameID == "" {
		http.Error(w, "missing game id", http.StatusBadRequest)
		return
	}

	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../:gameid/qr; strip trailing "/qr" to get the game URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// catalogHandler backs the read-only encyclopedia view: the full catalog
// (or a substring search over title and composer) as JSON.
func catalogHandler(cfg *Config, catalog *quiz.Catalog) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		tracks := catalog.Search(r.URL.Query().Get("q"))

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		securityHeaders(cfg, w)

		if err := json.NewEncoder(w).Encode(tracks); err != nil {
			logf(cfg, "SERVE: Encyclopedia encode failed: %v", err)
		}
	}
}

func getIndexHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_ = getOrSetPlayerID(w, r)

		data, err := assets.ReadFile("assets/intro/index.html")
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(data)
	}
}

// redirectNewGame handles GET /path by generating a new random game ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerIntroQuiz sets up routes so that:
//   - $path                  → redirects to new random game (8-char ID)
//   - /api/catalog           → encyclopedia JSON (optionally ?q= search)
//   - $path/:gameid          → HTML client
//   - $path/:gameid/ws       → WebSocket for that game
//   - $path/:gameid/qr       → PNG QR code for that game URL
func registerIntroQuiz(cfg *Config, path string, mux *httprouter.Router, catalog *quiz.Catalog, store quiz.ProfileStore) {
	gm := newGameManager(cfg.sessionTimeout, catalog, store)

	// Root path → redirect to new random game
	mux.GET(cfg.prefix+path, redirectNewGame(cfg, cfg.prefix+path, gm))

	// Encyclopedia (no gameid in route, like shared assets)
	mux.GET(cfg.prefix+"/api/catalog", catalogHandler(cfg, catalog))

	// Per-game client view (HTML)
	mux.GET(cfg.prefix+path+"/:gameid", getIndexHandler(cfg))

	// Per-game websocket
	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, gm))

	// Per-game QR code
	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler)
}
