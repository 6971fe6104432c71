/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package guessit

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	if got := len(c.Categories); got != 12 {
		t.Errorf("categories = %d, want 12", got)
	}
	if got := len(c.Rounds); got != 16 {
		t.Errorf("rounds = %d, want 16", got)
	}

	want := []string{"Erklärbär", "Pantomime", "Knackwort", "Lautmaler"}
	if got := c.DefaultRounds(); !slices.Equal(got, want) {
		t.Errorf("DefaultRounds() = %v, want %v", got, want)
	}

	for _, cat := range c.Categories {
		for _, tier := range Tiers {
			if len(cat.Texts(tier)) == 0 {
				t.Errorf("category %q has no %s words", cat.ID, tier)
			}
		}
	}
}

func TestDefaultCatalogIsACopy(t *testing.T) {
	a := DefaultCatalog()
	a.Categories[0].Easy[0] = "changed"

	b := DefaultCatalog()
	if b.Categories[0].Easy[0] == "changed" {
		t.Fatal("DefaultCatalog returned shared data")
	}
}

func TestLoadCatalogErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", "categories:\n  - id: a\n    flavour: x\n"},
		{"missing id", "categories:\n  - name: a\n"},
		{"duplicate category", "categories:\n  - id: a\n  - id: a\n"},
		{"duplicate round", "rounds:\n  - id: r\n  - id: r\n"},
		{"not yaml", "categories: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog(strings.NewReader(tt.doc))
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("err = %v, want ErrInvalidCatalog", err)
			}
		})
	}
}

func TestCatalogLookup(t *testing.T) {
	c := testCatalog(t)

	cat, ok := c.Category("food")
	if !ok || cat.Name != "Food" {
		t.Fatalf("Category(food) = %+v, %v", cat, ok)
	}

	words := cat.Words(TierEasy)
	if len(words) != 3 || words[0].Category != "food" || words[0].Tier != TierEasy || words[0].Color != "#222222" {
		t.Errorf("Words(easy) = %+v", words)
	}

	if _, ok := c.Category("nope"); ok {
		t.Error("Category(nope) found")
	}

	r, ok := c.Round("explain")
	if !ok || !slices.Equal(r.Forbidden, []string{"rhymes"}) {
		t.Errorf("Round(explain) = %+v, %v", r, ok)
	}
}

func TestRandomRoundsOnePerGroup(t *testing.T) {
	c := testCatalog(t)

	for seed := uint64(1); seed <= 20; seed++ {
		ids := c.RandomRounds(NewRand(seed), 0)
		if len(ids) != 3 {
			t.Fatalf("seed %d: got %v, want one round per group", seed, ids)
		}

		groups := map[int]bool{}
		for _, id := range ids {
			r, _ := c.Round(id)
			if groups[r.ColorGroup] {
				t.Fatalf("seed %d: group %d drawn twice in %v", seed, r.ColorGroup, ids)
			}
			groups[r.ColorGroup] = true
		}
	}

	if ids := c.RandomRounds(NewRand(7), 2); len(ids) != 2 {
		t.Errorf("limit 2 gave %v", ids)
	}
}
