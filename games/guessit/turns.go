/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package guessit

// Active returns the player whose turn it is. It only reads state and must
// not be called once the round is complete.
func (r *Round) Active() PlayerKey {
	team := r.TeamOrder[r.slot]
	return PlayerKey{
		Team:   team,
		Player: r.PlayerQueues[team][r.QueuePositions[team]],
	}
}

// ActiveSlot is the index into TeamOrder of the team currently playing.
func (r *Round) ActiveSlot() int {
	return r.slot
}

// Complete reports whether every player has had a turn this round.
func (r *Round) Complete() bool {
	return r.TurnsPlayed >= r.total
}

// Advance ends the active turn and moves to the next team in TeamOrder
// that still has a player waiting. It returns true when the round is over.
func (r *Round) Advance() bool {
	team := r.TeamOrder[r.slot]
	r.QueuePositions[team]++
	r.TurnsPlayed++

	if r.Complete() {
		return true
	}

	// TurnsPlayed < total, so some team still has a player queued.
	for range r.TeamOrder {
		r.slot = (r.slot + 1) % len(r.TeamOrder)
		next := r.TeamOrder[r.slot]
		if r.QueuePositions[next] < len(r.PlayerQueues[next]) {
			break
		}
	}

	return false
}
