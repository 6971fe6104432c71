/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

// Package guessit is the session orchestrator of a multi-round team word
// guessing game: it draws the word pool, schedules each round's turn order
// and word slices, sequences turns, swaps words on a joker and ranks teams.
//
// A Session is not safe for concurrent use. It expects a single mutator
// (the UI event loop or a hub goroutine) and never blocks.
package guessit

import (
	"fmt"
	"slices"
)

// EventKind names a state change a Session reports to subscribers.
type EventKind string

const (
	EventSessionStarted EventKind = "session_started"
	EventSessionReset   EventKind = "session_reset"
	EventResultRecorded EventKind = "result_recorded"
	EventJokerUsed      EventKind = "joker_used"
	EventJokerExhausted EventKind = "joker_exhausted"
	EventTurnAdvanced   EventKind = "turn_advanced"
	EventRoundEnded     EventKind = "round_ended"
	EventGameEnded      EventKind = "game_ended"
)

// Event is delivered synchronously to every subscriber after the change
// has been applied.
type Event struct {
	Kind        EventKind  `json:"kind"`
	Team        int        `json:"team"`
	Player      int        `json:"player"`
	Word        string     `json:"word,omitempty"`
	Replacement *Word      `json:"replacement,omitempty"`
	Outcome     Outcome    `json:"outcome,omitempty"`
	Turn        TurnResult `json:"turn"`
}

// Session owns the state of one game from start to final standings.
type Session struct {
	catalog *Catalog
	rng     Rand

	cfg      GameConfig
	pool     []Word
	round    *Round
	started  bool
	finished bool

	results    [][]WordResult
	turn       map[string]Outcome
	jokersLeft int

	subs   []subscriber
	nextID int
}

type subscriber struct {
	id int
	fn func(Event)
}

// NewSession returns an idle session. Nothing but Start, Reset, Snapshot
// and Subscribe may be called until Start succeeds.
func NewSession(catalog *Catalog, rng Rand) *Session {
	return &Session{
		catalog: catalog,
		rng:     rng,
	}
}

// Start validates cfg, draws the word pool and prepares round 0. On error
// the session is left as it was.
func (s *Session) Start(cfg GameConfig) (State, error) {
	if err := s.begin(cfg); err != nil {
		return State{}, err
	}

	s.emit(Event{Kind: EventSessionStarted})

	return s.Snapshot(), nil
}

// Reset discards everything, results included, and starts over with cfg.
func (s *Session) Reset(cfg GameConfig) (State, error) {
	if err := s.begin(cfg); err != nil {
		return State{}, err
	}

	s.emit(Event{Kind: EventSessionReset})

	return s.Snapshot(), nil
}

// Replay plays the same configuration again over the same word pool,
// restarting at round 0 with an empty result log.
func (s *Session) Replay() (State, error) {
	if !s.started {
		return State{}, ErrNotStarted
	}

	round, err := PrepareRound(0, s.pool, s.cfg.Teams, s.cfg.TermsPerPlayer, s.rng)
	if err != nil {
		return State{}, err
	}

	s.round = round
	s.finished = false
	s.results = make([][]WordResult, len(s.cfg.Teams))
	s.resetTurn()

	s.emit(Event{Kind: EventSessionReset})

	return s.Snapshot(), nil
}

func (s *Session) begin(cfg GameConfig) error {
	cfg = cloneConfig(cfg)
	cfg.Normalize()

	if err := cfg.Validate(s.catalog); err != nil {
		return err
	}

	pool, err := AllocatePool(s.catalog, &cfg, s.rng)
	if err != nil {
		return err
	}

	round, err := PrepareRound(0, pool, cfg.Teams, cfg.TermsPerPlayer, s.rng)
	if err != nil {
		return err
	}

	s.cfg = cfg
	s.pool = pool
	s.round = round
	s.started = true
	s.finished = false
	s.results = make([][]WordResult, len(cfg.Teams))
	s.resetTurn()

	return nil
}

func (s *Session) resetTurn() {
	s.turn = make(map[string]Outcome)
	s.jokersLeft = s.cfg.JokerCount
}

func (s *Session) live() error {
	if !s.started {
		return ErrNotStarted
	}
	if s.finished {
		return ErrGameOver
	}
	return nil
}

func (s *Session) checkPlayer(team, player int) (PlayerKey, error) {
	if team < 0 || team >= len(s.cfg.Teams) {
		return PlayerKey{}, fmt.Errorf("%w: %d", ErrInvalidTeam, team)
	}
	if player < 0 || player >= len(s.cfg.Teams[team].Players) {
		return PlayerKey{}, fmt.Errorf("%w: %d in team %d", ErrInvalidPlayer, player, team)
	}
	return PlayerKey{Team: team, Player: player}, nil
}

// ActivePlayer returns whose turn it is.
func (s *Session) ActivePlayer() (ActivePlayer, error) {
	if err := s.live(); err != nil {
		return ActivePlayer{}, err
	}
	return s.describe(s.round.Active()), nil
}

func (s *Session) describe(key PlayerKey) ActivePlayer {
	team := s.cfg.Teams[key.Team]
	return ActivePlayer{
		TeamIndex:   key.Team,
		PlayerIndex: key.Player,
		PlayerName:  team.Players[key.Player],
		TeamName:    team.Name,
		TeamColor:   team.Color,
	}
}

// RoundWords returns the words dealt to a player for the current round.
func (s *Session) RoundWords(team, player int) ([]Word, error) {
	if !s.started {
		return nil, ErrNotStarted
	}

	key, err := s.checkPlayer(team, player)
	if err != nil {
		return nil, err
	}

	words, _ := s.round.Words(key)

	return slices.Clone(words), nil
}

// RecordResult sets the outcome of a word in the team's result log,
// overwriting an earlier entry with the same text.
func (s *Session) RecordResult(team int, text string, outcome Outcome) error {
	if err := s.live(); err != nil {
		return err
	}
	if team < 0 || team >= len(s.cfg.Teams) {
		return fmt.Errorf("%w: %d", ErrInvalidTeam, team)
	}
	if !outcome.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidOutcome, outcome)
	}

	log := s.results[team]
	if i := slices.IndexFunc(log, func(r WordResult) bool { return r.Word == text }); i >= 0 {
		log[i].Outcome = outcome
	} else {
		s.results[team] = append(log, WordResult{Word: text, Outcome: outcome})
	}

	active := s.round.Active()
	if active.Team == team {
		words, _ := s.round.Words(active)
		if slices.ContainsFunc(words, func(w Word) bool { return w.Text == text }) {
			s.turn[text] = outcome
		}
	}

	s.emit(Event{Kind: EventResultRecorded, Team: team, Word: text, Outcome: outcome})

	return nil
}

// UseJoker replaces one of the active player's words. It returns false with
// a nil error when the category has no unused word left at that tier; that
// is reported to subscribers as EventJokerExhausted and costs no joker.
func (s *Session) UseJoker(team, player int, oldText string) (Word, bool, error) {
	if err := s.live(); err != nil {
		return Word{}, false, err
	}

	key, err := s.checkPlayer(team, player)
	if err != nil {
		return Word{}, false, err
	}
	if key != s.round.Active() {
		return Word{}, false, fmt.Errorf("%w: %+v", ErrNotActivePlayer, key)
	}
	if s.round.Index != 0 {
		return Word{}, false, ErrJokerUnavailable
	}
	if s.jokersLeft <= 0 {
		return Word{}, false, ErrNoJokersLeft
	}

	next, ok, err := ReplaceWord(s.catalog, s.pool, s.round, key, oldText, s.rng)
	if err != nil {
		return Word{}, false, err
	}

	if !ok {
		s.emit(Event{Kind: EventJokerExhausted, Team: team, Player: player, Word: oldText})
		return Word{}, false, nil
	}

	s.jokersLeft--

	// A verdict given this turn belonged to the word that is now gone.
	if _, marked := s.turn[oldText]; marked {
		delete(s.turn, oldText)
		s.results[team] = slices.DeleteFunc(s.results[team], func(r WordResult) bool {
			return r.Word == oldText
		})
	}

	s.emit(Event{Kind: EventJokerUsed, Team: team, Player: player, Word: oldText, Replacement: &next})

	return next, true, nil
}

// AdvanceTurn closes the active player's turn. Every word dealt to that
// player must carry a correct or wrong verdict first. When the last turn
// of a round is played the next round is prepared, or the game ends if
// it was the last configured round.
func (s *Session) AdvanceTurn() (TurnResult, error) {
	if err := s.live(); err != nil {
		return TurnResult{}, err
	}

	active := s.round.Active()
	words, _ := s.round.Words(active)
	for _, w := range words {
		if !s.turn[w.Text].Resolved() {
			return TurnResult{}, fmt.Errorf("%w: %q", ErrUnresolvedResults, w.Text)
		}
	}

	roundDone := s.round.Advance()
	s.resetTurn()

	if !roundDone {
		res := TurnResult{}
		s.emit(Event{Kind: EventTurnAdvanced, Team: active.Team, Player: active.Player, Turn: res})
		return res, nil
	}

	if s.round.Index >= len(s.cfg.Rounds)-1 {
		s.finished = true
		res := TurnResult{RoundEnded: true, GameEnded: true}
		s.emit(Event{Kind: EventGameEnded, Team: active.Team, Player: active.Player, Turn: res})
		return res, nil
	}

	next, err := PrepareRound(s.round.Index+1, s.pool, s.cfg.Teams, s.cfg.TermsPerPlayer, s.rng)
	if err != nil {
		return TurnResult{}, err
	}
	s.round = next

	res := TurnResult{RoundEnded: true}
	s.emit(Event{Kind: EventRoundEnded, Team: active.Team, Player: active.Player, Turn: res})

	return res, nil
}

// Standings ranks the teams over the results recorded so far.
func (s *Session) Standings() ([]Standing, error) {
	if !s.started {
		return nil, ErrNotStarted
	}
	return ComputeStandings(s.cfg.Teams, s.results, s.cfg.EqualizeTeamSizes), nil
}

// Started reports whether a game is loaded.
func (s *Session) Started() bool {
	return s.started
}

// Finished reports whether the last round's last turn has been played.
func (s *Session) Finished() bool {
	return s.finished
}

// Pool returns a copy of the session word pool.
func (s *Session) Pool() []Word {
	return slices.Clone(s.pool)
}

// Subscribe registers fn for every subsequent event and returns a func
// that removes it. Subscribers are called in the order they subscribed.
func (s *Session) Subscribe(fn func(Event)) (unsubscribe func()) {
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.subs = slices.DeleteFunc(s.subs, func(sub subscriber) bool { return sub.id == id })
	}
}

func (s *Session) emit(e Event) {
	for _, sub := range slices.Clone(s.subs) {
		sub.fn(e)
	}
}

// Redacted drops the word texts a joker event carries, for screens the
// guessers can see.
func (e Event) Redacted() Event {
	if e.Kind == EventJokerUsed || e.Kind == EventJokerExhausted {
		e.Word = ""
		e.Replacement = nil
	}
	return e
}

func cloneConfig(cfg GameConfig) GameConfig {
	teams := make([]Team, len(cfg.Teams))
	for i, t := range cfg.Teams {
		teams[i] = Team{Name: t.Name, Players: slices.Clone(t.Players), Color: t.Color}
	}
	cfg.Teams = teams
	cfg.Categories = slices.Clone(cfg.Categories)
	cfg.Rounds = slices.Clone(cfg.Rounds)
	return cfg
}
