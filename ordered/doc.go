// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ordered provides an insertion-ordered map with unique keys.

# Construction

New builds a Map from a slice of values and a key function. The slice
order becomes the iteration order, and duplicate keys are rejected:

	reg, err := ordered.New(list, func(c candidates.Candidate) string { return c.ID })
	if errors.Is(err, ordered.ErrDuplicateKey) {
		// ...
	}

# Ordering

Keys and Values always follow the construction order. Order never depends
on Go map iteration, so anything derived from it (for example which
candidate absorbs a rounding remainder) is reproducible.

# Mutation

Set replaces the value of an existing key only. Adding or removing keys
means building a new Map, which keeps every Map a snapshot of one
registry state.
*/
package ordered
