// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package candidates defines candidate identities and the rules for turning
an edited candidate list into a registry the engine can tally against.

# Identity

Each Candidate carries an opaque ID (a UUID string), a display Name and a
Color. The engine only ever sees IDs; names and colours are display
attributes and never affect tallying.

# Validation

A list is valid when, after dropping entries with empty names, at least two
candidates remain and no two names collide. Names are compared after
Unicode NFKC normalisation and case folding, so "Apple" and "APPLE" are the
same name.

	if err := candidates.Validate(list); err != nil {
		// keep the previous registry
	}
	reg, err := candidates.NewRegistry(list)

# Display changes

DisplayChanged reports a rename or recolour that keeps the same IDs in the
same order. Such a change relabels existing results instead of re-running
the simulations.
*/
package candidates
