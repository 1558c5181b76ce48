// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package random mints seeds and builds seeded generators for the
// simulations. Every generated ballot set and district table records the
// seed it came from, so results can be reproduced.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// NewSeed generates a non-zero seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	for {
		if _, err := crand.Read(b[:]); err != nil {
			return 0, fmt.Errorf("read random seed: %w", err)
		}
		if seed := int64(binary.LittleEndian.Uint64(b[:])); seed != 0 {
			return seed, nil
		}
	}
}

// SeedOr returns fixed when it is non-zero, otherwise a fresh seed.
func SeedOr(fixed int64) (int64, error) {
	if fixed != 0 {
		return fixed, nil
	}
	return NewSeed()
}

// New returns a generator seeded with seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
