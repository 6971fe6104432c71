/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package guessit

import "fmt"

// ReplaceWord swaps oldText in key's slice for a random word of the same
// category and tier that appears nowhere in pool. The first matching entry
// of both the slice and pool is replaced in place, so later rounds deal the
// new word. It reports false, and changes nothing, when no such word exists.
func ReplaceWord(catalog *Catalog, pool []Word, round *Round, key PlayerKey, oldText string, rng Rand) (Word, bool, error) {
	words, found := round.Assignment[key]
	if !found {
		return Word{}, false, fmt.Errorf("%w: %+v", ErrInvalidPlayer, key)
	}

	slot := -1
	for i, w := range words {
		if w.Text == oldText {
			slot = i
			break
		}
	}
	if slot < 0 {
		return Word{}, false, fmt.Errorf("%w: %q", ErrUnknownWord, oldText)
	}
	old := words[slot]

	cat, found := catalog.Category(old.Category)
	if !found {
		return Word{}, false, nil
	}

	inPool := make(map[string]struct{}, len(pool))
	for _, w := range pool {
		inPool[w.Text] = struct{}{}
	}

	var candidates []string
	for _, text := range cat.Texts(old.Tier) {
		if _, taken := inPool[text]; !taken {
			candidates = append(candidates, text)
		}
	}
	if len(candidates) == 0 {
		return Word{}, false, nil
	}

	next := Word{
		Text:     candidates[rng.IntN(len(candidates))],
		Category: old.Category,
		Tier:     old.Tier,
		Color:    old.Color,
	}

	words[slot] = next
	for i := range pool {
		if pool[i].Text == oldText {
			pool[i] = next
			break
		}
	}

	return next, true, nil
}
