/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package guessit

import (
	"fmt"
	"slices"
)

// Round is the schedule of one round plus the cursor the turn sequencer
// moves through it. Everything except QueuePositions, TurnsPlayed and the
// active slot is fixed once PrepareRound returns.
type Round struct {
	Index        int
	TeamOrder    []int
	PlayerQueues [][]int
	Assignment   map[PlayerKey][]Word
	// Distribution is the round-robin order in which slices were cut.
	Distribution []PlayerKey

	QueuePositions []int
	TurnsPlayed    int

	slot  int
	total int
}

// PrepareRound shuffles team order and each team's player queue, then deals
// termsPerPlayer words to every player from a shuffled copy of pool. Players
// are dealt in rotation across the team order so that slices never overlap.
// The caller's pool is not modified.
func PrepareRound(index int, pool []Word, teams []Team, termsPerPlayer int, rng Rand) (*Round, error) {
	total := totalPlayers(teams)
	if need := total * termsPerPlayer; len(pool) < need {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrPoolTooSmall, len(pool), need)
	}

	r := &Round{
		Index:          index,
		TeamOrder:      permutation(rng, len(teams)),
		PlayerQueues:   make([][]int, len(teams)),
		Assignment:     make(map[PlayerKey][]Word, total),
		Distribution:   make([]PlayerKey, 0, total),
		QueuePositions: make([]int, len(teams)),
		total:          total,
	}

	for i, t := range teams {
		r.PlayerQueues[i] = permutation(rng, len(t.Players))
	}

	deck := shuffled(rng, pool)

	dealt := make([]int, len(teams))
	for cursor := 0; len(r.Distribution) < total; cursor = (cursor + 1) % len(r.TeamOrder) {
		team := r.TeamOrder[cursor]
		if dealt[team] >= len(r.PlayerQueues[team]) {
			continue
		}

		key := PlayerKey{Team: team, Player: r.PlayerQueues[team][dealt[team]]}
		start := len(r.Distribution) * termsPerPlayer

		r.Assignment[key] = slices.Clone(deck[start : start+termsPerPlayer])
		r.Distribution = append(r.Distribution, key)
		dealt[team]++
	}

	return r, nil
}

// Words returns the slice dealt to key this round.
func (r *Round) Words(key PlayerKey) ([]Word, bool) {
	w, ok := r.Assignment[key]
	return w, ok
}
