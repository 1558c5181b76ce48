// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package fptp simulates First-Past-The-Post elections over a set of districts.

# Generation

Generate produces one vote table per district. Every table sums to the
district's elector count exactly. One candidate is favoured for the whole
call and is forced to win a bare majority of districts, while the other
districts are drawn without them. The result is a map that is often won by a
candidate who does not lead the combined popular vote.

	rng := random.New(seed)
	districts := fptp.Generate(rng, 17, 100, ids)

GenerateUnderrepresentation skips the random draws. It hands one candidate
razor-thin wins in a bare majority of districts and gives another every
remaining vote, so the district winner loses the popular vote badly.

# Winners

A district is won by the candidate with the strictly highest count. A tie for
the highest count, or an empty table, means the district has no winner:

	if id, ok := district.Winner(); ok {
		// ...
	}

# Summary

Summarize totals districts won and popular votes per candidate, names the
district leader and reports whether the leader holds a majority of districts.

# Determinism

All randomness comes from the *rand.Rand passed in. The same seed, district
count, elector count and candidate order always produce the same tables.
*/
package fptp
