/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"github.com/taddelt/guessitifyoucan/games/guessit"
	"go.uber.org/zap"
)

var errUnknownGame = errors.New("unknown game")

const (
	playerCookieName = "guessit_id"
	gameIDLength     = 8
	maxMessageSize   = 64 << 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	id, err := uuid.NewV7()
	if err != nil {
		requestLogger(r).Error("generating player id", zap.Error(err))
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id.String()
}

// GameManager holds a set of hubs keyed by game ID, so each /guessit/:gameid
// is its own isolated session.
type GameManager struct {
	mu          sync.Mutex
	hubs        map[string]*Hub
	catalog     *guessit.Catalog
	idleTimeout time.Duration
	seed        uint64
}

func newGameManager(ctx context.Context, catalog *guessit.Catalog, idleTimeout time.Duration, seed uint64) *GameManager {
	gm := &GameManager{
		hubs:        make(map[string]*Hub),
		catalog:     catalog,
		idleTimeout: idleTimeout,
		seed:        seed,
	}
	if idleTimeout > 0 {
		go gm.reaperLoop(ctx)
	}
	return gm
}

// newRand gives every game its own source. A fixed seed makes every game
// shuffle the same way.
func (gm *GameManager) newRand() guessit.Rand {
	return guessit.NewRand(gm.seed)
}

func (gm *GameManager) getHub(gameID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	hub := newHub(gameID, gm.catalog, gm.newRand())
	gm.hubs[gameID] = hub
	go hub.run()

	zap.L().Info("game opened", zap.String("game", gameID))

	return hub
}

func (gm *GameManager) lookupHub(gameID string) (*Hub, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	hub, ok := gm.hubs[gameID]
	if !ok {
		return nil, errUnknownGame
	}
	return hub, nil
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

// reapIdle removes hubs that have been idle since before cutoff.
func (gm *GameManager) reapIdle(cutoff time.Time) int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	reaped := 0
	for id, hub := range gm.hubs {
		hub.mu.RLock()
		last, age := hub.lastActive, time.Since(hub.createdAt)
		hub.mu.RUnlock()

		if last.Before(cutoff) {
			delete(gm.hubs, id)
			go hub.closeAll()
			reaped++

			zap.L().Info("game reaped",
				zap.String("game", id),
				zap.Time("last_active", last),
				zap.Duration("age", age.Round(time.Second)),
			)
		}
	}
	return reaped
}

// reaperLoop periodically removes hubs that have been idle longer than idleTimeout.
func (gm *GameManager) reaperLoop(ctx context.Context) {
	ticker := time.NewTicker(gm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.reapIdle(time.Now().Add(-gm.idleTimeout))
		}
	}
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(gm *GameManager) httprouter.Handle {
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

		hub := gm.getHub(gameID)

		// Upgrade writes its own response, so a fresh cookie must travel with it.
		var header http.Header
		if set := w.Header().Values("Set-Cookie"); len(set) > 0 {
			header = http.Header{"Set-Cookie": set}
		}

		conn, err := upgrader.Upgrade(w, r, header)
		if err != nil {
			requestLogger(r).Debug("upgrade failed", zap.Error(err))
			return
		}
		conn.SetReadLimit(maxMessageSize)

		client := &Client{
			conn:     conn,
			send:     make(chan any, 32),
			playerID: playerID,
		}

		if !submit(hub, hub.register, client) {
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		submit(h, h.unreg, c)
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		if !submit(h, h.commands, command{client: c, msg: msg}) {
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
func qrHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := cfg.scheme()
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
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		securityHeaders(cfg, w)
		_, _ = w.Write(png)
	}
}

func serveState(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		hub, err := gm.lookupHub(ps.ByName("gameid"))
		if err != nil {
			serveError(cfg, w, r, err)
			return
		}

		_ = serveJSON(cfg, w, http.StatusOK, hub.snapshot())
	}
}

func serveStandings(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		hub, err := gm.lookupHub(ps.ByName("gameid"))
		if err != nil {
			serveError(cfg, w, r, err)
			return
		}

		standings, final, err := hub.standings()
		if err != nil {
			serveError(cfg, w, r, err)
			return
		}

		_ = serveJSON(cfg, w, http.StatusOK, StandingsMessage{
			Type:      "standings",
			Final:     final,
			Standings: standings,
		})
	}
}

func serveBoard(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")

		_ = getOrSetPlayerID(w, r)
		hub := gm.getHub(gameID)

		st := hub.snapshot()
		standings, _, _ := hub.standings()

		securityHeaders(cfg, w)
		cspPages(w)
		w.Header().Set("Cache-Control", "no-store")

		renderPage(w, r, boardPage(cfg.prefix, gameID, st, standings))
	}
}

// redirectNewGame handles GET /guessit by generating a new random game ID
// (with server-side collision detection) and redirecting to /guessit/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		requestLogger(r).Debug("created game", zap.String("game", gameID))
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerGuessitGame sets up routes so that:
//   - $path                     → redirects to new random game (8-char ID)
//   - $path/:gameid             → server-rendered board
//   - $path/:gameid/ws          → WebSocket for that game
//   - $path/:gameid/state       → JSON snapshot
//   - $path/:gameid/standings   → JSON standings
//   - $path/:gameid/qr          → PNG QR code for that game URL
func registerGuessitGame(cfg *Config, path string, gm *GameManager, mux *httprouter.Router) {
	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, gm))

	mux.GET(cfg.prefix+path+"/:gameid", serveBoard(cfg, gm))

	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(gm))

	mux.GET(cfg.prefix+path+"/:gameid/state", serveState(cfg, gm))

	mux.GET(cfg.prefix+path+"/:gameid/standings", serveStandings(cfg, gm))

	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler(cfg))
}

// PresetInfo describes a quick-start mode without teams.
type PresetInfo struct {
	Name   string             `json:"name"`
	Config guessit.GameConfig `json:"config"`
}

func serveCatalog(cfg *Config, catalog *guessit.Catalog) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		_ = serveJSON(cfg, w, http.StatusOK, catalog)
	}
}

func servePresets(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		names := guessit.PresetNames()
		out := make([]PresetInfo, 0, len(names))
		for _, name := range names {
			p, err := guessit.Preset(name, nil)
			if err != nil {
				serveError(cfg, w, r, err)
				return
			}
			out = append(out, PresetInfo{Name: name, Config: p})
		}

		_ = serveJSON(cfg, w, http.StatusOK, out)
	}
}

func serveRandomRounds(cfg *Config, catalog *guessit.Catalog, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		limit := 0
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > guessit.MaxRounds {
				_ = serveJSON(cfg, w, http.StatusBadRequest, ErrorMessage{
					Type:    "error",
					Message: "limit must be between 1 and " + strconv.Itoa(guessit.MaxRounds),
				})
				return
			}
			limit = n
		}

		_ = serveJSON(cfg, w, http.StatusOK, catalog.RandomRounds(gm.newRand(), limit))
	}
}

// registerCatalogAPI exposes the reference data a setup screen needs.
func registerCatalogAPI(cfg *Config, catalog *guessit.Catalog, gm *GameManager, mux *httprouter.Router) {
	mux.GET(cfg.prefix+"/api/catalog", serveCatalog(cfg, catalog))

	mux.GET(cfg.prefix+"/api/presets", servePresets(cfg))

	mux.GET(cfg.prefix+"/api/rounds/random", serveRandomRounds(cfg, catalog, gm))
}
