/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package guessit

// Tier is a difficulty bucket of a category's word list.
type Tier string

const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
)

// Tiers lists every tier in ascending difficulty.
var Tiers = []Tier{TierEasy, TierMedium, TierHard}

func (t Tier) Valid() bool {
	switch t {
	case TierEasy, TierMedium, TierHard:
		return true
	}
	return false
}

// others returns the remaining two tiers, easiest first.
func (t Tier) others() []Tier {
	out := make([]Tier, 0, len(Tiers)-1)
	for _, o := range Tiers {
		if o != t {
			out = append(out, o)
		}
	}
	return out
}

// Outcome is the facilitator's verdict on a single word.
type Outcome string

const (
	OutcomeUndecided Outcome = "undecided"
	OutcomeCorrect   Outcome = "correct"
	OutcomeWrong     Outcome = "wrong"
)

func (o Outcome) Valid() bool {
	switch o {
	case OutcomeUndecided, OutcomeCorrect, OutcomeWrong:
		return true
	}
	return false
}

// Resolved reports whether the outcome is a final verdict.
func (o Outcome) Resolved() bool {
	return o == OutcomeCorrect || o == OutcomeWrong
}

// Team is fixed for the lifetime of a session and addressed by its index.
type Team struct {
	Name    string   `json:"name" yaml:"name" validate:"required"`
	Players []string `json:"players" yaml:"players" validate:"min=2,max=8,dive,required"`
	Color   string   `json:"color" yaml:"color"`
}

// PlayerKey addresses a player by position: team index and index within
// that team's player list.
type PlayerKey struct {
	Team   int `json:"team"`
	Player int `json:"player"`
}

// Word is immutable once drawn into a pool.
type Word struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	Tier     Tier   `json:"tier"`
	Color    string `json:"color"`
}

// WordResult is one entry in a team's result log.
type WordResult struct {
	Word    string  `json:"word"`
	Outcome Outcome `json:"outcome"`
}

// Assignment is one player's slice of words for the active round.
type Assignment struct {
	PlayerKey
	PlayerName string `json:"player_name"`
	Words      []Word `json:"words"`
}

// ActivePlayer describes whose turn it is.
type ActivePlayer struct {
	TeamIndex   int    `json:"team_index"`
	PlayerIndex int    `json:"player_index"`
	PlayerName  string `json:"player_name"`
	TeamName    string `json:"team_name"`
	TeamColor   string `json:"team_color"`
}

// TurnResult reports what advancing the turn did to the session.
type TurnResult struct {
	RoundEnded bool `json:"round_ended"`
	GameEnded  bool `json:"game_ended"`
}

func totalPlayers(teams []Team) int {
	n := 0
	for _, t := range teams {
		n += len(t.Players)
	}
	return n
}
