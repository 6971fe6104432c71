/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

//go:generate templ generate -f board.templ

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/taddelt/guessitifyoucan/games/guessit"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{3,8}$`)

func safeColor(c string) string {
	if hexColor.MatchString(c) {
		return c
	}
	return "transparent"
}

func renderPage(w http.ResponseWriter, r *http.Request, c templ.Component) {
	templ.Handler(c).ServeHTTP(w, r)
}

// presetRow is one quick-start mode as the home page lists it.
type presetRow struct {
	Name       string
	Categories string
	Rounds     string
	Jokers     string
	Seconds    string
}

func presetRows() []presetRow {
	names := guessit.PresetNames()
	rows := make([]presetRow, 0, len(names))
	for _, name := range names {
		cfg, err := guessit.Preset(name, nil)
		if err != nil {
			continue
		}
		rows = append(rows, presetRow{
			Name:       name,
			Categories: strings.Join(cfg.Categories, ", "),
			Rounds:     strings.Join(cfg.Rounds, ", "),
			Jokers:     strconv.Itoa(cfg.JokerCount),
			Seconds:    strconv.Itoa(cfg.TimeLimitSeconds),
		})
	}
	return rows
}

func roundHeading(st guessit.State) string {
	heading := fmt.Sprintf("Round %d of %d", st.RoundIndex+1, st.RoundCount)
	if st.Round != nil {
		heading += ": " + st.Round.Title
	}
	return heading
}

func turnLine(st guessit.State) string {
	line := fmt.Sprintf("Turn %d of %d", st.TurnsPlayed+1, st.TotalTurns)
	if st.JokersAllowed {
		line += fmt.Sprintf(", %d joker(s) left", st.JokersLeft)
	}
	if st.Config != nil && st.Config.TimeLimitSeconds > 0 {
		line += fmt.Sprintf(", %d seconds per turn", st.Config.TimeLimitSeconds)
	}
	return line
}

// boardRefresh reloads the board every few seconds until the game is over.
func boardRefresh(st guessit.State) int {
	if st.Finished {
		return 0
	}
	return 5
}
