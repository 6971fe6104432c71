/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

// Guess It If You Can
//
// One screen per game runs the show: the first connection to a game becomes
// the facilitator and drives the session, every later connection watches.
//
// Features:
// - WebSockets per game ID: /guessit/:gameid and /guessit/:gameid/ws
// - First connection to a game becomes facilitator, identified by cookie
// - Facilitator starts a session from a preset or a full config
// - Facilitator marks words, plays jokers, advances turns, replays or resets
// - Every state change is pushed to all connected screens
// - Final standings are pushed when the last turn is played
// - Games auto-reaped after configurable idle timeout
// - Random 8-char game IDs via crypto/rand, with server-side collision check
// - QR code of the game URL for phones joining as spectators

package main

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/taddelt/guessitifyoucan/games/guessit"
	"go.uber.org/zap"
)

var errMissingConfig = errors.New("start needs a config or a preset")

// Messages coming from clients
type ClientMessage struct {
	Type    string              `json:"type"`              // "start_session", "reset_session", "replay", "record_result", "use_joker", "advance_turn"
	Config  *guessit.GameConfig `json:"config,omitempty"`  // start_session / reset_session
	Preset  string              `json:"preset,omitempty"`  // start_session / reset_session
	Teams   []guessit.Team      `json:"teams,omitempty"`   // with preset
	Team    int                 `json:"team"`              // record_result / use_joker
	Player  int                 `json:"player"`            // use_joker
	Word    string              `json:"word,omitempty"`    // record_result / use_joker
	Outcome guessit.Outcome     `json:"outcome,omitempty"` // record_result
}

// SessionInfoMessage is sent immediately on connect so the client knows
// which role this cookie has.
type SessionInfoMessage struct {
	Type          string `json:"type"` // "session_info"
	GameID        string `json:"game_id"`
	IsFacilitator bool   `json:"is_facilitator"`
	Started       bool   `json:"started"`
}

// StateMessage carries a full snapshot, and the event that produced it if any.
type StateMessage struct {
	Type  string         `json:"type"` // "state"
	Event *guessit.Event `json:"event,omitempty"`
	State guessit.State  `json:"state"`
}

// TurnResultMessage answers advance_turn.
type TurnResultMessage struct {
	Type   string             `json:"type"` // "turn_result"
	Result guessit.TurnResult `json:"result"`
}

// JokerResultMessage answers use_joker, to the facilitator only.
type JokerResultMessage struct {
	Type        string        `json:"type"` // "joker_result"
	Replaced    bool          `json:"replaced"`
	Word        string        `json:"word"`
	Replacement *guessit.Word `json:"replacement,omitempty"`
	Message     string        `json:"message,omitempty"`
}

// StandingsMessage is broadcast after every turn and when the game ends.
type StandingsMessage struct {
	Type      string             `json:"type"` // "standings"
	Final     bool               `json:"final"`
	Standings []guessit.Standing `json:"standings"`
}

// ErrorMessage is for rejected commands ("error", "not_facilitator").
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	playerID string
}

type command struct {
	client *Client
	msg    ClientMessage
}

type Hub struct {
	id      string
	catalog *guessit.Catalog
	session *guessit.Session
	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	commands chan command
	done     chan struct{}
	stopOnce sync.Once

	mu sync.RWMutex

	createdAt     time.Time
	lastActive    time.Time
	facilitatorID string // cookie/playerID of the facilitator
}

func newHub(gameID string, catalog *guessit.Catalog, rng guessit.Rand) *Hub {
	now := time.Now()
	h := &Hub{
		id:         gameID,
		catalog:    catalog,
		session:    guessit.NewSession(catalog, rng),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		commands:   make(chan command),
		done:       make(chan struct{}),
		createdAt:  now,
		lastActive: now,
	}

	// Events fire inside session calls, which only run with h.mu held.
	h.session.Subscribe(h.onEventLocked)

	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			return

		case c := <-h.register:
			h.mu.Lock()
			if h.stopped() {
				h.mu.Unlock()
				close(c.send)
				continue
			}
			h.lastActive = time.Now()

			// First connection becomes facilitator
			if h.facilitatorID == "" {
				h.facilitatorID = c.playerID
			}

			h.clients[c] = true

			h.sendLocked(c, SessionInfoMessage{
				Type:          "session_info",
				GameID:        h.id,
				IsFacilitator: c.playerID == h.facilitatorID,
				Started:       h.session.Started(),
			})
			full, public := h.stateMessagesLocked(nil)
		h.sendLocked(c, h.pickLocked(c, full, public))

			h.mu.Unlock()

			zap.L().Debug("client joined",
				zap.String("game", h.id),
				zap.String("player", c.playerID),
			)

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
		}
	}
}

func (h *Hub) stopped() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// submit hands a value to the run loop unless the hub has been stopped.
func submit[T any](h *Hub, ch chan T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) handleCommand(cmd command) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	c, msg := cmd.client, cmd.msg

	if c.playerID != h.facilitatorID {
		h.sendLocked(c, ErrorMessage{
			Type:    "not_facilitator",
			Message: "only the facilitator can " + msg.Type,
		})
		return
	}

	var err error

	switch msg.Type {
	case "start_session", "reset_session":
		var cfg guessit.GameConfig
		cfg, err = h.configFrom(msg)
		if err != nil {
			break
		}
		if msg.Type == "start_session" && !h.session.Started() {
			_, err = h.session.Start(cfg)
		} else {
			_, err = h.session.Reset(cfg)
		}

	case "replay":
		_, err = h.session.Replay()

	case "record_result":
		err = h.session.RecordResult(msg.Team, msg.Word, msg.Outcome)

	case "use_joker":
		var (
			next     guessit.Word
			replaced bool
		)
		next, replaced, err = h.session.UseJoker(msg.Team, msg.Player, msg.Word)
		if err != nil {
			break
		}

		reply := JokerResultMessage{Type: "joker_result", Replaced: replaced, Word: msg.Word}
		if replaced {
			reply.Replacement = &next
		} else {
			reply.Message = "no unused word left in this category"
		}
		h.sendLocked(c, reply)

	case "advance_turn":
		var res guessit.TurnResult
		res, err = h.session.AdvanceTurn()
		if err != nil {
			break
		}
		h.broadcastLocked(TurnResultMessage{Type: "turn_result", Result: res})

	default:
		err = fmt.Errorf("unknown message type %q", msg.Type)
	}

	if err != nil {
		zap.L().Debug("command rejected",
			zap.String("game", h.id),
			zap.String("type", msg.Type),
			zap.Error(err),
		)
		h.sendLocked(c, ErrorMessage{Type: "error", Message: err.Error()})
	}
}

// configFrom builds a session config from a preset plus teams, or takes the
// config verbatim. An empty round list falls back to the catalog defaults.
func (h *Hub) configFrom(msg ClientMessage) (guessit.GameConfig, error) {
	var cfg guessit.GameConfig

	switch {
	case msg.Preset != "":
		p, err := guessit.Preset(msg.Preset, msg.Teams)
		if err != nil {
			return cfg, err
		}
		cfg = p
	case msg.Config != nil:
		cfg = *msg.Config
	default:
		return cfg, errMissingConfig
	}

	if len(cfg.Rounds) == 0 {
		cfg.Rounds = h.catalog.DefaultRounds()
	}

	return cfg, nil
}

func (h *Hub) onEventLocked(e guessit.Event) {
	log := zap.L().With(zap.String("game", h.id), zap.String("event", string(e.Kind)))
	if e.Kind == guessit.EventJokerExhausted {
		log.Warn("joker found no replacement", zap.String("word", e.Word))
	} else {
		log.Debug("session event")
	}

	full, public := h.stateMessagesLocked(&e)
	for c := range h.clients {
		h.sendLocked(c, h.pickLocked(c, full, public))
	}

	switch e.Kind {
	case guessit.EventTurnAdvanced, guessit.EventRoundEnded, guessit.EventGameEnded:
		if standings, err := h.session.Standings(); err == nil {
			h.broadcastLocked(StandingsMessage{
				Type:      "standings",
				Final:     e.Kind == guessit.EventGameEnded,
				Standings: standings,
			})
		}
	}
}

// stateMessagesLocked builds the facilitator's state message and the one
// spectators get, which carries no words.
func (h *Hub) stateMessagesLocked(e *guessit.Event) (full, public StateMessage) {
	full = StateMessage{Type: "state", Event: e, State: h.session.Snapshot()}
	public = StateMessage{Type: "state", State: full.State.Redacted()}
	if e != nil {
		redacted := e.Redacted()
		public.Event = &redacted
	}
	return full, public
}

func (h *Hub) pickLocked(c *Client, full, public StateMessage) StateMessage {
	if c.playerID == h.facilitatorID {
		return full
	}
	return public
}

// sendLocked drops clients that are gone or too slow to keep up.
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
	for c := range h.clients {
		h.sendLocked(c, msg)
	}
}

// snapshot reads the session for HTTP handlers outside the run loop. They
// are public, so the words are left out.
func (h *Hub) snapshot() guessit.State {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.session.Snapshot().Redacted()
}

func (h *Hub) standings() ([]guessit.Standing, bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s, err := h.session.Standings()
	return s, h.session.Finished(), err
}

// closeAll stops the run loop and disconnects all clients (used by reaper).
func (h *Hub) closeAll() {
	h.stopOnce.Do(func() { close(h.done) })

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, c)
	}
}
