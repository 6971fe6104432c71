/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package guessit

import (
	"maps"
	"slices"
)

// State is a detached copy of everything a display needs. It shares no
// memory with the session and may be encoded on another goroutine.
type State struct {
	Started  bool `json:"started"`
	Finished bool `json:"finished"`

	Config *GameConfig `json:"config,omitempty"`

	RoundIndex int         `json:"round_index"`
	RoundCount int         `json:"round_count"`
	Round      *RoundRules `json:"round,omitempty"`

	TeamOrder      []int   `json:"team_order,omitempty"`
	PlayerQueues   [][]int `json:"player_queues,omitempty"`
	QueuePositions []int   `json:"queue_positions,omitempty"`
	ActiveSlot     int     `json:"active_slot"`
	TurnsPlayed    int     `json:"turns_played"`
	TotalTurns     int     `json:"total_turns"`

	Active      *ActivePlayer `json:"active,omitempty"`
	Assignments []Assignment  `json:"assignments,omitempty"`

	JokersLeft    int  `json:"jokers_left"`
	JokersAllowed bool `json:"jokers_allowed"`

	PoolSize     int                `json:"pool_size"`
	TurnOutcomes map[string]Outcome `json:"turn_outcomes,omitempty"`
	Results      [][]WordResult     `json:"results,omitempty"`
}

// Snapshot returns the current state. It never mutates the session.
func (s *Session) Snapshot() State {
	if !s.started {
		return State{}
	}

	cfg := cloneConfig(s.cfg)
	r := s.round

	st := State{
		Started:        true,
		Finished:       s.finished,
		Config:         &cfg,
		RoundIndex:     r.Index,
		RoundCount:     len(s.cfg.Rounds),
		TeamOrder:      slices.Clone(r.TeamOrder),
		PlayerQueues:   make([][]int, len(r.PlayerQueues)),
		QueuePositions: slices.Clone(r.QueuePositions),
		ActiveSlot:     r.ActiveSlot(),
		TurnsPlayed:    r.TurnsPlayed,
		TotalTurns:     r.total,
		Assignments:    make([]Assignment, 0, len(r.Distribution)),
		JokersLeft:     s.jokersLeft,
		JokersAllowed:  !s.finished && r.Index == 0 && s.jokersLeft > 0,
		PoolSize:       len(s.pool),
		TurnOutcomes:   maps.Clone(s.turn),
		Results:        make([][]WordResult, len(s.results)),
	}

	if rules, ok := s.catalog.Round(s.cfg.Rounds[r.Index]); ok {
		copied := *rules
		copied.Allowed = slices.Clone(rules.Allowed)
		copied.Forbidden = slices.Clone(rules.Forbidden)
		st.Round = &copied
	}

	for i, q := range r.PlayerQueues {
		st.PlayerQueues[i] = slices.Clone(q)
	}

	for _, key := range r.Distribution {
		st.Assignments = append(st.Assignments, Assignment{
			PlayerKey:  key,
			PlayerName: s.cfg.Teams[key.Team].Players[key.Player],
			Words:      slices.Clone(r.Assignment[key]),
		})
	}

	for i, log := range s.results {
		st.Results[i] = slices.Clone(log)
	}

	if !s.finished {
		active := s.describe(r.Active())
		st.Active = &active
	}

	return st
}

// Redacted returns a copy without the dealt words and this turn's
// verdicts, for screens the guessers can see.
func (st State) Redacted() State {
	st.Assignments = nil
	st.TurnOutcomes = nil
	return st
}
