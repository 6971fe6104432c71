/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/taddelt/guessitifyoucan/games/guessit"
)

func TestBoardPageRendersActivePlayer(t *testing.T) {
	s := guessit.NewSession(guessit.DefaultCatalog(), guessit.NewRand(3))

	cfg, err := guessit.Preset("party", testTeams)
	if err != nil {
		t.Fatal(err)
	}
	st, err := s.Start(cfg)
	if err != nil {
		t.Fatal(err)
	}
	standings, _ := s.Standings()

	var buf bytes.Buffer
	if err := boardPage("", "abc", st, standings).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	page := buf.String()

	for _, want := range []string{
		"Round 1 of 2",
		st.Active.PlayerName,
		st.Active.TeamName,
		`src="/guessit/abc/qr"`,
		`http-equiv="refresh"`,
		"60 seconds per turn",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("board lacks %q", want)
		}
	}

	for _, a := range st.Assignments {
		for _, w := range a.Words {
			if strings.Contains(page, ">"+w.Text+"<") {
				t.Errorf("board leaks word %q", w.Text)
			}
		}
	}
}

func TestBoardPageEscapes(t *testing.T) {
	st := guessit.State{
		Started:    true,
		RoundCount: 1,
		Active: &guessit.ActivePlayer{
			PlayerName: "<script>alert(1)</script>",
			TeamName:   "Tom & Jerry",
			TeamColor:  "red;background:url(x)",
		},
	}

	var buf bytes.Buffer
	if err := boardPage("", "x", st, nil).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	page := buf.String()

	if strings.Contains(page, "<script>") {
		t.Error("player name not escaped")
	}
	if !strings.Contains(page, "Tom &amp; Jerry") {
		t.Error("team name not escaped")
	}
	if strings.Contains(page, "url(x)") {
		t.Error("unsafe colour passed through")
	}
}

func TestHomePageListsCatalog(t *testing.T) {
	catalog := guessit.DefaultCatalog()

	var buf bytes.Buffer
	if err := homePage("/pre", catalog).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	page := buf.String()

	if !strings.Contains(page, `href="/pre/guessit"`) {
		t.Error("home page lacks the new game link")
	}
	for _, r := range catalog.Rounds {
		if !strings.Contains(page, r.Title) {
			t.Errorf("home page lacks round %q", r.Title)
		}
	}
	if !strings.Contains(page, "party") || !strings.Contains(page, "classic") {
		t.Error("home page lacks presets")
	}
}

func TestSwatchFill(t *testing.T) {
	tests := map[string]string{
		"#ff8800":         `fill="#ff8800"`,
		"red":             `fill="transparent"`,
		`"><script>x</s>`: `fill="transparent"`,
	}

	for in, want := range tests {
		var buf bytes.Buffer
		if err := swatch(in).Render(context.Background(), &buf); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), want) {
			t.Errorf("swatch(%q) = %s, want %s", in, buf.String(), want)
		}
	}
}
