// Guess Who
//
// Two players share one device. The first secretly picks a character from the
// roster and hands the device over; the second eliminates candidates, asks for
// hints and guesses until they find it. The roster is drawn as a tree grouped
// by a selectable attribute, which can be panned and zoomed.
//
// Features:
// - WebSockets per game ID: /path/:gameid and /path/:gameid/ws
// - Every tab on a game ID drives the same single round
// - The secret pick is only sent to the page once it has been found
// - Hints are generated off the hub loop and dropped if the round moved on
// - Games auto-reaped after configurable idle timeout
// - Random 8-char game IDs via crypto/rand, with server-side collision check
// - Tree layout for any grouping mode as JSON at /path/:gameid/layout
// - In-browser QR button to share the current session, backed by go-qrcode

package main

import (
	"context"
	"crypto/rand"
	_ "embed"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/Seednode/guesswho/games/grouping"
	"github.com/Seednode/guesswho/games/guesswho"
	"github.com/Seednode/guesswho/games/roster"
	"github.com/Seednode/guesswho/games/tree"
	"github.com/Seednode/guesswho/games/viewport"
)

const (
	gameIDLength = 8

	defaultScreenWidth  = 1280
	defaultScreenHeight = 800
)

// Messages coming from clients
type ClientMessage struct {
	Type      string  `json:"type"`                 // see readPump for the accepted types
	ID        string  `json:"id,omitempty"`         // select_target / toggle_eliminate / guess
	Mode      string  `json:"mode,omitempty"`       // set_mode
	DX        float64 `json:"dx,omitempty"`         // pan
	DY        float64 `json:"dy,omitempty"`         // pan
	DeltaY    float64 `json:"delta_y,omitempty"`    // zoom (wheel)
	DeltaMode int     `json:"delta_mode,omitempty"` // zoom (wheel)
	Factor    float64 `json:"factor,omitempty"`     // zoom (buttons)
	X         float64 `json:"x,omitempty"`          // zoom anchor
	Y         float64 `json:"y,omitempty"`          // zoom anchor
	Width     float64 `json:"width,omitempty"`      // resize
	Height    float64 `json:"height,omitempty"`     // resize
}

// RosterMessage is sent once on connect.
type RosterMessage struct {
	Type       string             `json:"type"` // "roster"
	Characters []roster.Character `json:"characters"`
	Modes      []grouping.Mode    `json:"modes"`
}

// GameStateMessage is broadcast after every change to the round.
type GameStateMessage struct {
	Type       string            `json:"type"` // "game_state"
	Round      int               `json:"round"`
	Phase      guesswho.Phase    `json:"phase"`
	Picked     bool              `json:"picked"`
	Target     *roster.Character `json:"target,omitempty"` // only once the round is over
	Eliminated []string          `json:"eliminated"`
	Attempts   int               `json:"attempts"`
	Hints      []string          `json:"hints"`
	Score      int               `json:"score"`
	Fetching   bool              `json:"fetching"`
}

// TreeLayoutMessage carries the positioned tree for the current grouping.
type TreeLayoutMessage struct {
	Type   string       `json:"type"` // "tree_layout"
	Layout *tree.Layout `json:"layout"`
}

// ViewportMessage carries the zoom and pan of the tree view.
type ViewportMessage struct {
	Type      string             `json:"type"` // "viewport"
	Transform viewport.Transform `json:"transform"`
	Visible   viewport.Rect      `json:"visible"`
	MinScale  float64            `json:"min_scale"`
	MaxScale  float64            `json:"max_scale"`
}

// GuessResultMessage informs everyone about a guess outcome.
type GuessResultMessage struct {
	Type    string `json:"type"` // "guess_result"
	Correct bool   `json:"correct"`
	ID      string `json:"id"`
	Name    string `json:"name"`
}

type Client struct {
	conn *websocket.Conn
	send chan any
}

type command struct {
	client *Client
	msg    ClientMessage
}

type Hub struct {
	id  string
	cfg *Config

	clients map[*Client]bool

	register    chan *Client
	unreg       chan *Client
	commands    chan command
	hintResults chan hintResult

	ctx    context.Context
	cancel context.CancelFunc

	mu sync.RWMutex

	createdAt  time.Time
	lastActive time.Time

	game   *guesswho.Game
	mode   grouping.Mode
	layout *tree.Layout
	view   *viewport.Viewport
}

func newHub(cfg *Config, gameID string) *Hub {
	now := time.Now()
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		id:          gameID,
		cfg:         cfg,
		clients:     make(map[*Client]bool),
		register:    make(chan *Client),
		unreg:       make(chan *Client),
		commands:    make(chan command),
		hintResults: make(chan hintResult),
		ctx:         ctx,
		cancel:      cancel,
		createdAt:   now,
		lastActive:  now,
		game:        guesswho.New(cfg.characters),
		mode:        grouping.ByFamily,
		view:        viewport.New(defaultScreenWidth, defaultScreenHeight),
	}
	h.relayoutLocked()

	return h
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.ctx.Err() != nil {
				close(c.send)
				h.mu.Unlock()
				continue
			}
			h.lastActive = time.Now()
			h.clients[c] = true

			h.sendLocked(c, RosterMessage{
				Type:       "roster",
				Characters: h.game.Roster(),
				Modes:      grouping.Modes,
			})
			h.sendLocked(c, h.gameStateLocked())
			h.sendLocked(c, h.treeLayoutLocked())
			h.sendLocked(c, h.viewportLocked())
			h.mu.Unlock()

		case c := <-h.unreg:
			h.mu.Lock()
			h.lastActive = time.Now()

			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case cmd := <-h.commands:
			h.handleCommand(cmd)

		case res := <-h.hintResults:
			h.mu.Lock()
			h.lastActive = time.Now()
			if !h.game.CompleteHint(res.ticket, res.text) {
				logf(h.cfg, "HINTS: Dropped stale hint for %s round %d", h.id, res.ticket.Round)
			}
			h.broadcastLocked(h.gameStateLocked())
			h.mu.Unlock()

		case <-h.ctx.Done():
			return
		}
	}
}

// handleCommand applies one client command. Commands that are not valid in
// the current phase change nothing and produce no reply.
func (h *Hub) handleCommand(cmd command) {
	msg := cmd.msg

	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	switch msg.Type {
	case "select_target":
		if h.game.SelectTarget(msg.ID) {
			logf(h.cfg, "GAMES: Target picked in %s round %d", h.id, h.game.State().Round)
			h.broadcastLocked(h.gameStateLocked())
		}

	case "confirm_handoff":
		if h.game.ConfirmHandoff() {
			h.broadcastLocked(h.gameStateLocked())
		}

	case "toggle_eliminate":
		if h.game.ToggleEliminate(msg.ID) {
			h.broadcastLocked(h.gameStateLocked())
		}

	case "guess":
		outcome, ok := h.game.Guess(msg.ID)
		if !ok {
			return
		}
		h.guessLocked(msg.ID, outcome)

	case "request_hint":
		if h.requestHintLocked() {
			h.broadcastLocked(h.gameStateLocked())
		}

	case "new_round":
		h.game.StartNewRound()
		logf(h.cfg, "GAMES: Started round %d in %s", h.game.State().Round, h.id)
		h.broadcastLocked(h.gameStateLocked())

	case "set_mode":
		mode, err := grouping.ParseMode(msg.Mode)
		if err != nil || mode == h.mode {
			return
		}
		h.mode = mode
		h.relayoutLocked()
		h.broadcastLocked(h.treeLayoutLocked())
		h.broadcastLocked(h.viewportLocked())

	case "pan":
		h.view.Pan(msg.DX, msg.DY)
		h.broadcastLocked(h.viewportLocked())

	case "zoom":
		if msg.Factor != 0 {
			h.view.ZoomBy(msg.Factor, msg.X, msg.Y)
		} else {
			h.view.Zoom(msg.DeltaY, viewport.DeltaMode(msg.DeltaMode), msg.X, msg.Y)
		}
		h.broadcastLocked(h.viewportLocked())

	case "resize":
		h.view.Resize(msg.Width, msg.Height)
		h.broadcastLocked(h.viewportLocked())

	case "reset_view":
		h.view.Reset()
		h.broadcastLocked(h.viewportLocked())
	}
}

func (h *Hub) guessLocked(id string, outcome guesswho.Outcome) {
	c, _ := h.game.Roster().ByID(id)
	correct := outcome == guesswho.Found

	if correct {
		logf(h.cfg, "GAMES: Target found in %s round %d after %d misses", h.id, h.game.State().Round, h.game.State().Attempts)
	} else {
		logf(h.cfg, "GAMES: Wrong guess in %s round %d", h.id, h.game.State().Round)
	}

	h.broadcastLocked(GuessResultMessage{
		Type:    "guess_result",
		Correct: correct,
		ID:      c.ID,
		Name:    c.Name,
	})

	if !correct && h.cfg.hintOnMiss {
		h.requestHintLocked()
	}

	h.broadcastLocked(h.gameStateLocked())
}

// requestHintLocked starts a hint request if the game accepts one. The
// result comes back through hintResults.
func (h *Hub) requestHintLocked() bool {
	t, ok := h.game.BeginHint()
	if !ok {
		return false
	}

	go h.fetchHint(t)

	return true
}

// relayoutLocked rebuilds the tree for the current mode and bounds the
// viewport by it.
func (h *Hub) relayoutLocked() {
	h.layout = tree.Compute(tree.Build(h.game.Roster(), h.mode), tree.DefaultConfig())

	b := h.layout.Bounds
	h.view.SetExtent(&b)
}

func (h *Hub) gameStateLocked() GameStateMessage {
	s := h.game.State()

	msg := GameStateMessage{
		Type:       "game_state",
		Round:      s.Round,
		Phase:      s.Phase,
		Picked:     s.Target != nil,
		Eliminated: s.Eliminated,
		Attempts:   s.Attempts,
		Hints:      s.Hints,
		Score:      s.Score,
		Fetching:   h.game.Fetching(),
	}
	if s.Phase == guesswho.GameOver {
		msg.Target = s.Target
	}

	return msg
}

func (h *Hub) treeLayoutLocked() TreeLayoutMessage {
	return TreeLayoutMessage{
		Type:   "tree_layout",
		Layout: h.layout,
	}
}

func (h *Hub) viewportLocked() ViewportMessage {
	return ViewportMessage{
		Type:      "viewport",
		Transform: h.view.Transform(),
		Visible:   h.view.Visible(),
		MinScale:  viewport.MinScale,
		MaxScale:  viewport.MaxScale,
	}
}

// sendLocked queues msg for c, dropping the client if it cannot keep up.
func (h *Hub) sendLocked(c *Client, msg any) {
	if !h.clients[c] {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) broadcastLocked(msg any) {
	for client := range h.clients {
		h.sendLocked(client, msg)
	}
}

// closeAll stops the hub and disconnects all of its clients (used by reaper).
func (h *Hub) closeAll() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
		delete(h.clients, c)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// GameManager holds a set of hubs keyed by game ID, so each $path/$gameid
// is its own isolated session.
type GameManager struct {
	cfg         *Config
	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration
}

func newGameManager(cfg *Config) *GameManager {
	gm := &GameManager{
		cfg:         cfg,
		hubs:        make(map[string]*Hub),
		idleTimeout: cfg.sessionTimeout,
	}
	if gm.idleTimeout > 0 {
		go gm.reaperLoop()
	}
	return gm
}

func (gm *GameManager) getHub(gameID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	hub := newHub(gm.cfg, gameID)
	gm.hubs[gameID] = hub
	go hub.run()
	return hub
}

func (gm *GameManager) lookup(gameID string) (*Hub, bool) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	hub, ok := gm.hubs[gameID]
	return hub, ok
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	for {
		buf := make([]byte, gameIDLength)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, gameIDLength)
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

// validGameID accepts the IDs newGameID produces.
func validGameID(id string) bool {
	if len(id) != gameIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// reaperLoop periodically removes hubs that have been idle longer than idleTimeout.
func (gm *GameManager) reaperLoop() {
	ticker := time.NewTicker(max(gm.idleTimeout/2, minSessionTimeout/2))
	for range ticker.C {
		gm.reap(time.Now().Add(-gm.idleTimeout))
	}
}

func (gm *GameManager) reap(cutoff time.Time) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for id, hub := range gm.hubs {
		hub.mu.RLock()
		last := hub.lastActive
		hub.mu.RUnlock()

		if last.Before(cutoff) {
			delete(gm.hubs, id)
			logf(gm.cfg, "GAMES: Reaped idle game %s after %s", id, time.Since(hub.createdAt).Round(time.Second))
			go hub.closeAll()
		}
	}
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if !validGameID(gameID) {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		hub := gm.getHub(gameID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &Client{
			conn: conn,
			send: make(chan any, 16),
		}

		logf(cfg, "GAMES: %s connected to %s", realIP(r), gameID)

		go client.writePump()

		select {
		case hub.register <- client:
		case <-hub.ctx.Done():
			close(client.send)
			return
		}

		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.ctx.Done():
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "select_target", "confirm_handoff", "toggle_eliminate", "guess",
			"request_hint", "new_round", "set_mode",
			"pan", "zoom", "resize", "reset_view":
			select {
			case h.commands <- command{client: c, msg: msg}:
			case <-h.ctx.Done():
				return
			}
		default:
			// ignore unknown types
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
func qrHandler(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !validGameID(ps.ByName("gameid")) {
			http.Error(w, "invalid game id", http.StatusBadRequest)
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
		securityHeaders(cfg, w)

		if _, err := w.Write(png); err != nil {
			errs <- err
		}
	}
}

// serveLayout returns the tree layout for ?mode=, or for the game's current
// mode when none is given.
func serveLayout(cfg *Config, gm *GameManager, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		startTime := time.Now()

		gameID := ps.ByName("gameid")
		if !validGameID(gameID) {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		mode := grouping.ByFamily
		if hub, ok := gm.lookup(gameID); ok {
			hub.mu.RLock()
			mode = hub.mode
			hub.mu.RUnlock()
		}

		if q := r.URL.Query().Get("mode"); q != "" {
			m, err := grouping.ParseMode(q)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			mode = m
		}

		data, err := json.Marshal(tree.Compute(tree.Build(cfg.characters, mode), tree.DefaultConfig()))
		if err != nil {
			errs <- err
			http.Error(w, "layout failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		securityHeaders(cfg, w)

		written, err := w.Write(data)
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Layout %s for %s (%s) to %s in %s",
			mode,
			gameID,
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

// ---- Static file paths ----

//go:embed assets/guesswho/index.html
var indexHTML []byte

func getIndexHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !validGameID(ps.ByName("gameid")) {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		cacheFor(w, len(indexHTML))
		securityHeaders(cfg, w)

		_, _ = w.Write(indexHTML)
	}
}

// redirectNewGame handles GET /path by generating a new random game ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerGuessWhoGame sets up routes so that:
//   - $path                  → redirects to new random game (8-char ID)
//   - $path/:gameid          → HTML client
//   - $path/:gameid/ws       → WebSocket for that game
//   - $path/:gameid/qr       → PNG QR code for that game URL
//   - $path/:gameid/layout   → JSON tree layout
func registerGuessWhoGame(cfg *Config, path string, mux *httprouter.Router, errs chan<- error) *GameManager {
	gm := newGameManager(cfg)

	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, gm))
	mux.GET(cfg.prefix+path+"/:gameid", getIndexHandler(cfg))
	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, gm))
	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler(cfg, errs))
	mux.GET(cfg.prefix+path+"/:gameid/layout", serveLayout(cfg, gm, errs))

	return gm
}
