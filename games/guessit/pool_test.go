/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package guessit

import (
	"errors"
	"slices"
	"testing"
)

func uniqueTexts(words []Word) bool {
	seen := map[string]bool{}
	for _, w := range words {
		if seen[w.Text] {
			return false
		}
		seen[w.Text] = true
	}
	return true
}

func TestAllocatePoolPrefersDifficulty(t *testing.T) {
	c := testCatalog(t)
	cfg := baseConfig(teamsOf(2, 2))

	pool, err := AllocatePool(c, &cfg, NewRand(1))
	if err != nil {
		t.Fatalf("AllocatePool: %v", err)
	}

	if len(pool) != 4 {
		t.Fatalf("len = %d, want 4", len(pool))
	}
	for _, w := range pool {
		if w.Tier != TierMedium || w.Category != "animals" {
			t.Errorf("drew %+v, want animals/medium only", w)
		}
	}
	if !uniqueTexts(pool) {
		t.Errorf("duplicate texts in %v", texts(pool))
	}
}

func TestAllocatePoolFallsBackToOtherTiers(t *testing.T) {
	c := testCatalog(t)
	cfg := baseConfig(teamsOf(2, 2))
	cfg.TermsPerPlayer = 2

	pool, err := AllocatePool(c, &cfg, NewRand(2))
	if err != nil {
		t.Fatalf("AllocatePool: %v", err)
	}

	if len(pool) != 8 || !uniqueTexts(pool) {
		t.Fatalf("pool = %v, want 8 unique words", texts(pool))
	}

	medium := 0
	for _, w := range pool {
		if w.Tier == TierMedium {
			medium++
		}
	}
	if medium != 4 {
		t.Errorf("medium words = %d, want the whole tier (4)", medium)
	}
}

func TestAllocatePoolExhaustsUniqueWords(t *testing.T) {
	c := testCatalog(t)
	cfg := baseConfig(teamsOf(2, 2))
	cfg.TermsPerPlayer = 3

	pool, err := AllocatePool(c, &cfg, NewRand(3))
	if err != nil {
		t.Fatalf("AllocatePool: %v", err)
	}

	if len(pool) != 12 || !uniqueTexts(pool) {
		t.Fatalf("pool = %v, want all 12 animal words once", texts(pool))
	}
}

func TestAllocatePoolDegradesWithRepeats(t *testing.T) {
	c := testCatalog(t)
	cfg := baseConfig(teamsOf(2, 2))
	cfg.Categories = []string{"food"}
	cfg.TermsPerPlayer = 3

	pool, err := AllocatePool(c, &cfg, NewRand(4))
	if err != nil {
		t.Fatalf("AllocatePool: %v", err)
	}

	if len(pool) != 12 {
		t.Fatalf("len = %d, want 12", len(pool))
	}
	if uniqueTexts(pool) {
		t.Error("expected repeats when the category has only 6 words")
	}
	for _, w := range pool {
		if w.Category != "food" {
			t.Errorf("drew %+v outside the selected category", w)
		}
	}
}

func TestAllocatePoolEmptySource(t *testing.T) {
	c := testCatalog(t)
	cfg := baseConfig(teamsOf(2, 2))
	cfg.Categories = []string{"empty", "missing"}

	if _, err := AllocatePool(c, &cfg, NewRand(5)); !errors.Is(err, ErrEmptyWordSource) {
		t.Fatalf("err = %v, want ErrEmptyWordSource", err)
	}
}

func TestAllocatePoolSkipsMissingCategories(t *testing.T) {
	c := testCatalog(t)
	cfg := baseConfig(teamsOf(2, 2))
	cfg.Categories = []string{"missing", "animals"}

	pool, err := AllocatePool(c, &cfg, NewRand(6))
	if err != nil {
		t.Fatalf("AllocatePool: %v", err)
	}
	if len(pool) != 4 {
		t.Errorf("len = %d, want 4", len(pool))
	}
}

func TestAllocatePoolDeterministic(t *testing.T) {
	c := testCatalog(t)
	cfg := baseConfig(teamsOf(3, 2))
	cfg.Categories = []string{"animals", "food"}
	cfg.TermsPerPlayer = 2

	a, _ := AllocatePool(c, &cfg, NewRand(42))
	b, _ := AllocatePool(c, &cfg, NewRand(42))

	if !slices.Equal(a, b) {
		t.Errorf("same seed gave %v and %v", texts(a), texts(b))
	}
}
