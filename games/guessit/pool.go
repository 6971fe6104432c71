/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package guessit

import "fmt"

// AllocatePool draws the session's word pool: TotalPlayers*TermsPerPlayer
// words. Texts are unique unless the selected categories run dry, in which
// case words from every tier are repeated cyclically to make up the count.
//
// Categories missing from catalog are skipped. The result is shuffled.
func AllocatePool(catalog *Catalog, cfg *GameConfig, rng Rand) ([]Word, error) {
	need := cfg.TotalPlayers() * cfg.TermsPerPlayer
	if need <= 0 {
		return []Word{}, nil
	}

	var primary, secondary, everything []Word
	for _, id := range cfg.Categories {
		cat, ok := catalog.Category(id)
		if !ok {
			continue
		}

		primary = append(primary, cat.Words(cfg.Difficulty)...)
		for _, t := range cfg.Difficulty.others() {
			secondary = append(secondary, cat.Words(t)...)
		}
		for _, t := range Tiers {
			everything = append(everything, cat.Words(t)...)
		}
	}

	used := make(map[string]struct{}, need)
	pool := make([]Word, 0, need)

	pool = sampleUnused(pool, primary, need, used, rng)
	if len(pool) < need {
		pool = sampleUnused(pool, secondary, need, used, rng)
	}

	if len(pool) < need {
		if len(everything) == 0 {
			return nil, fmt.Errorf("%w: %v", ErrEmptyWordSource, cfg.Categories)
		}
		for i := 0; len(pool) < need; i++ {
			pool = append(pool, everything[i%len(everything)])
		}
	}

	return shuffled(rng, pool), nil
}

// sampleUnused appends random candidates whose text is not yet in used
// until dst reaches need or the candidates run out.
func sampleUnused(dst, candidates []Word, need int, used map[string]struct{}, rng Rand) []Word {
	for _, w := range shuffled(rng, candidates) {
		if len(dst) >= need {
			break
		}
		if _, taken := used[w.Text]; taken {
			continue
		}
		used[w.Text] = struct{}{}
		dst = append(dst, w)
	}
	return dst
}
