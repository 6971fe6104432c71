/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package guessit

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Rand is the randomness the allocator, scheduler and joker draw from.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a ChaCha8-backed source. A zero seed draws the seed from
// crypto/rand; any other value gives a reproducible sequence.
func NewRand(seed uint64) *rand.Rand {
	var key [32]byte
	if seed == 0 {
		if _, err := crand.Read(key[:]); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
	} else {
		binary.LittleEndian.PutUint64(key[:8], seed)
	}
	return rand.New(rand.NewChaCha8(key))
}

func shuffled[T any](rng Rand, in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

func permutation(rng Rand, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return shuffled(rng, idx)
}
