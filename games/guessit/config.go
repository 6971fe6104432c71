/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package guessit

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MinTeams          = 2
	MaxTeams          = 4
	MinPlayersPerTeam = 2
	MaxPlayersPerTeam = 8
	MaxRounds         = 6

	DefaultTermsPerPlayer = 3
)

// GameConfig is everything the setup screen hands over when a session starts.
type GameConfig struct {
	Teams             []Team   `json:"teams" yaml:"teams" validate:"min=2,max=4,dive"`
	EqualizeTeamSizes bool     `json:"equalize_team_sizes" yaml:"equalize_team_sizes"`
	Difficulty        Tier     `json:"difficulty" yaml:"difficulty" validate:"oneof=easy medium hard"`
	Categories        []string `json:"categories" yaml:"categories" validate:"min=1,dive,required"`
	JokerCount        int      `json:"joker_count" yaml:"joker_count" validate:"gte=0"`
	Rounds            []string `json:"rounds" yaml:"rounds" validate:"min=1,max=6,dive,required"`
	TermsPerPlayer    int      `json:"terms_per_player" yaml:"terms_per_player" validate:"gte=1"`
	TimeLimitSeconds  int      `json:"time_limit_seconds" yaml:"time_limit_seconds" validate:"gte=0"`
	Wildcards         bool     `json:"wildcards" yaml:"wildcards"`
}

// TotalPlayers is the number of turns in every round.
func (c *GameConfig) TotalPlayers() int {
	return totalPlayers(c.Teams)
}

// MaxTeamSize is the largest player count across teams.
func (c *GameConfig) MaxTeamSize() int {
	n := 0
	for _, t := range c.Teams {
		n = max(n, len(t.Players))
	}
	return n
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Normalize fills defaults and clamps the time limit. It does not validate.
func (c *GameConfig) Normalize() {
	if c.Difficulty == "" {
		c.Difficulty = TierMedium
	}
	if c.TermsPerPlayer == 0 {
		c.TermsPerPlayer = DefaultTermsPerPlayer
	}
	if c.TermsPerPlayer > 0 {
		c.TimeLimitSeconds = ClampTimeLimit(c.TimeLimitSeconds, c.TermsPerPlayer, c.Difficulty)
	}
}

// Validate checks the config's shape and that every category and round it
// names exists in catalog.
func (c *GameConfig) Validate(catalog *Catalog) error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	for _, id := range c.Categories {
		if _, ok := catalog.Category(id); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, id)
		}
	}

	for _, id := range c.Rounds {
		if _, ok := catalog.Round(id); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownRound, id)
		}
	}

	return nil
}

// TimeLimitBounds returns the allowed per-turn time range in seconds.
func TimeLimitBounds(terms int, tier Tier) (lo, hi int) {
	if tier == TierHard {
		return terms * 10, terms * 40
	}
	return terms * 5, terms * 25
}

// ClampTimeLimit forces seconds into the bounds for terms and tier. Zero
// selects the midpoint, rounded to a multiple of five.
func ClampTimeLimit(seconds, terms int, tier Tier) int {
	lo, hi := TimeLimitBounds(terms, tier)
	if seconds == 0 {
		mid := float64(lo+hi) / 2
		return int(math.Round(mid/5) * 5)
	}
	return min(max(seconds, lo), hi)
}

// presets are the quick-start modes; Preset attaches the teams.
var presets = map[string]GameConfig{
	"classic": {
		EqualizeTeamSizes: true,
		Difficulty:        TierMedium,
		Categories:        []string{"Allgemein"},
		JokerCount:        1,
		Rounds:            []string{"Erklärbär", "Pantomime", "Knackwort", "Lautmaler"},
		TermsPerPlayer:    3,
		TimeLimitSeconds:  45,
		Wildcards:         true,
	},
	"party": {
		EqualizeTeamSizes: true,
		Difficulty:        TierMedium,
		Categories:        []string{"18+", "Party"},
		JokerCount:        0,
		Rounds:            []string{"Lalaland", "Tanzalarm"},
		TermsPerPlayer:    3,
		TimeLimitSeconds:  60,
		Wildcards:         true,
	},
}

// PresetNames lists the available quick-start modes.
func PresetNames() []string {
	return []string{"classic", "party"}
}

// Preset returns the named mode with teams attached.
func Preset(name string, teams []Team) (GameConfig, error) {
	p, ok := presets[name]
	if !ok {
		return GameConfig{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}

	p.Teams = teams
	p.Categories = append([]string(nil), p.Categories...)
	p.Rounds = append([]string(nil), p.Rounds...)

	return p, nil
}
