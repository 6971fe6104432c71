/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package guessit

import (
	"strings"
	"testing"
)

const fixtureCatalog = `
categories:
  - id: animals
    name: Animals
    color: "#111111"
    easy: [cat, dog, cow, pig, hen, ant]
    medium: [otter, badger, heron, lynx]
    hard: [axolotl, pangolin]
  - id: food
    name: Food
    color: "#222222"
    easy: [bread, soup, rice]
    medium: [risotto, gnocchi]
    hard: [bouillabaisse]
  - id: tiny
    name: Tiny
    color: "#333333"
    medium: [alpha, bravo, charlie, delta]
  - id: empty
    name: Empty
    color: "#444444"
rounds:
  - id: explain
    title: Explain
    rules: Describe the word without saying it.
    allowed: [synonyms]
    forbidden: [rhymes]
    color_group: 1
    preselected: true
  - id: mime
    title: Mime
    rules: Act it out.
    color_group: 2
    preselected: true
  - id: draw
    title: Draw
    rules: Draw it.
    color_group: 2
  - id: oneword
    title: One word
    rules: Say a single word.
    color_group: 3
`

func testCatalog(t *testing.T) *Catalog {
	t.Helper()

	c, err := LoadCatalog(strings.NewReader(fixtureCatalog))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	return c
}

func teamsOf(sizes ...int) []Team {
	names := []string{"Red", "Blue", "Green", "Gold"}
	players := []string{"Ann", "Ben", "Cem", "Dee", "Eli", "Fay", "Gus", "Hal"}

	teams := make([]Team, len(sizes))
	for i, n := range sizes {
		teams[i] = Team{Name: names[i], Color: "#00000" + string(rune('0'+i))}
		for j := 0; j < n; j++ {
			teams[i].Players = append(teams[i].Players, names[i]+"-"+players[j])
		}
	}
	return teams
}

func baseConfig(teams []Team) GameConfig {
	return GameConfig{
		Teams:          teams,
		Difficulty:     TierMedium,
		Categories:     []string{"animals"},
		Rounds:         []string{"explain"},
		TermsPerPlayer: 1,
	}
}

// syntheticPool returns n words with distinct texts.
func syntheticPool(n int) []Word {
	pool := make([]Word, n)
	for i := range pool {
		pool[i] = Word{
			Text:     "w" + strings.Repeat("x", i),
			Category: "synthetic",
			Tier:     TierMedium,
		}
	}
	return pool
}

func texts(words []Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Text
	}
	return out
}
