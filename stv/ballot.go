// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stv

import (
	"math/rand"
	"slices"
	"sort"
)

// Ballot ranks every candidate ID from lowest to highest priority.
type Ballot []string

// FirstPreference returns the highest-priority candidate, or "" for an
// empty ballot.
func (b Ballot) FirstPreference() string {
	if len(b) == 0 {
		return ""
	}
	return b[len(b)-1]
}

// TopFirst returns the ranking with the first preference first.
func (b Ballot) TopFirst() []string {
	out := make([]string, len(b))
	for i, id := range b {
		out[len(b)-1-i] = id
	}
	return out
}

// FromTopFirst builds a Ballot from a ranking listed first preference first.
func FromTopFirst(ranking []string) Ballot {
	b := make(Ballot, len(ranking))
	for i, id := range ranking {
		b[len(ranking)-1-i] = id
	}
	return b
}

// ValidBallot reports whether b ranks each of candidateIDs exactly once.
func ValidBallot(b Ballot, candidateIDs []string) bool {
	if len(b) != len(candidateIDs) {
		return false
	}
	want := make(map[string]bool, len(candidateIDs))
	for _, id := range candidateIDs {
		want[id] = true
	}
	for _, id := range b {
		if !want[id] {
			return false
		}
		delete(want, id)
	}
	return len(want) == 0
}

// GenerateBallots gives every voter a uniformly random ranking.
func GenerateBallots(rng *rand.Rand, candidateIDs []string, voters int) []Ballot {
	ballots := make([]Ballot, max(voters, 0))
	for i := range ballots {
		b := make(Ballot, len(candidateIDs))
		for j, k := range rng.Perm(len(candidateIDs)) {
			b[j] = candidateIDs[k]
		}
		ballots[i] = b
	}
	return ballots
}

// FirstPreferences counts first preferences on the original ballots.
func FirstPreferences(ballots []Ballot) map[string]int {
	counts := make(map[string]int)
	for _, b := range ballots {
		if top := b.FirstPreference(); top != "" {
			counts[top]++
		}
	}
	return counts
}

// SincereWinners returns the candidates with most first preferences,
// sorted by ID, and their vote count.
func SincereWinners(firstPreferences map[string]int) ([]string, int) {
	best := 0
	for _, votes := range firstPreferences {
		best = max(best, votes)
	}
	if best == 0 {
		return nil, 0
	}

	var winners []string
	for id, votes := range firstPreferences {
		if votes == best {
			winners = append(winners, id)
		}
	}
	sort.Strings(winners)
	return winners, best
}

// BallotIndex wraps index, including negative values, into [0, voters).
func BallotIndex(index, voters int) int {
	if voters <= 0 {
		return 0
	}
	return ((index % voters) + voters) % voters
}

// RankedChoice is one line of a ballot as shown to a voter.
type RankedChoice struct {
	Order       int    `json:"order"`
	CandidateID string `json:"candidate_id"`
}

// View returns the ballot at index (wrapped), first preference first.
// A ballot that no longer ranks exactly the given candidates gives an
// empty view.
func View(ballots []Ballot, index int, candidateIDs []string) []RankedChoice {
	if len(ballots) == 0 {
		return []RankedChoice{}
	}
	b := ballots[BallotIndex(index, len(ballots))]
	if !ValidBallot(b, candidateIDs) {
		return []RankedChoice{}
	}

	view := make([]RankedChoice, len(b))
	for i, id := range b.TopFirst() {
		view[i] = RankedChoice{Order: i + 1, CandidateID: id}
	}
	return view
}

// Replace returns a copy of ballots with the ballot at index (wrapped) set
// to ranking, given first preference first. It reports false, and returns
// ballots untouched, when nothing changes.
func Replace(ballots []Ballot, index int, ranking []string) ([]Ballot, bool) {
	if len(ballots) == 0 {
		return ballots, false
	}
	i := BallotIndex(index, len(ballots))
	next := FromTopFirst(ranking)
	if slices.Equal(ballots[i], next) {
		return ballots, false
	}

	out := make([]Ballot, len(ballots))
	copy(out, ballots)
	out[i] = next
	return out, true
}

