// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package fptp

import (
	"math/rand"
	"reflect"
	"testing"
)

var fourCandidates = []string{"A", "B", "C", "D"}

func TestGenerateDistrictSums(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		for _, electors := range []int{1, 2, 7, 100, 251} {
			rng := rand.New(rand.NewSource(seed))
			results := Generate(rng, 17, electors, fourCandidates)
			if len(results) != 17 {
				t.Fatalf("seed %d: got %d districts, want 17", seed, len(results))
			}
			for _, d := range results {
				if d.Total() != electors {
					t.Fatalf("seed %d electors %d: district %s sums to %d", seed, electors, d.District, d.Total())
				}
				for id, v := range d.Votes {
					if v < 0 {
						t.Fatalf("seed %d: negative count %d for %s", seed, v, id)
					}
				}
			}
		}
	}
}

func TestGenerateForcesBareMajority(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		for _, districts := range []int{1, 2, 5, 17, 20} {
			rng := rand.New(rand.NewSource(seed))
			results := Generate(rng, districts, 100, fourCandidates)
			summary := Summarize(results, fourCandidates)

			if !summary.Ahead {
				t.Fatalf("seed %d districts %d: no candidate holds a majority: %+v", seed, districts, summary)
			}

			// The favoured candidate sits out every district it was not forced to win.
			zeroes := 0
			for _, d := range results {
				if d.Votes[summary.Leader] == 0 {
					zeroes++
				}
			}
			if want := districts - MajorityOf(districts); zeroes < want {
				t.Errorf("seed %d: leader has %d empty districts, want at least %d", seed, zeroes, want)
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(rand.New(rand.NewSource(99)), 17, 100, fourCandidates)
	b := Generate(rand.New(rand.NewSource(99)), 17, 100, fourCandidates)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different results")
	}
}

func TestGenerateBoundaries(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	if got := Generate(rng, 0, 100, fourCandidates); len(got) != 0 {
		t.Errorf("zero districts: got %d results", len(got))
	}
	if got := Generate(rng, -3, 100, fourCandidates); len(got) != 0 {
		t.Errorf("negative districts: got %d results", len(got))
	}

	empty := Generate(rng, 5, 100, nil)
	if len(empty) != 5 {
		t.Fatalf("no candidates: got %d districts, want 5", len(empty))
	}
	for _, d := range empty {
		if len(d.Votes) != 0 {
			t.Errorf("district %s has votes without candidates", d.District)
		}
		if _, ok := d.Winner(); ok {
			t.Errorf("district %s has a winner without candidates", d.District)
		}
	}
	if empty[0].District != "1" || empty[4].District != "5" {
		t.Errorf("district labels = %s..%s, want 1..5", empty[0].District, empty[4].District)
	}
}

func TestGenerateSingleCandidate(t *testing.T) {
	results := Generate(rand.New(rand.NewSource(3)), 6, 40, []string{"solo"})
	for _, d := range results {
		if d.Votes["solo"] != 40 {
			t.Errorf("district %s: solo got %d, want 40", d.District, d.Votes["solo"])
		}
	}
}

func TestUnderrepresentationScenario(t *testing.T) {
	const electors = 100
	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		results := GenerateUnderrepresentation(rng, 20, electors, fourCandidates)
		summary := Summarize(results, fourCandidates)

		if !summary.Ahead || summary.Standings == nil {
			t.Fatalf("seed %d: formal winner has no majority", seed)
		}
		formal := summary.Leader

		var formalStanding, popularStanding Standing
		for _, s := range summary.Standings {
			if s.CandidateID == formal {
				formalStanding = s
			} else if s.PopularVotes > popularStanding.PopularVotes {
				popularStanding = s
			}
		}

		if formalStanding.Districts < 11 {
			t.Errorf("seed %d: formal winner took %d districts, want >= 11", seed, formalStanding.Districts)
		}
		if popularStanding.PopularVotes <= formalStanding.PopularVotes {
			t.Errorf("seed %d: popular vote %d does not beat formal winner's %d",
				seed, popularStanding.PopularVotes, formalStanding.PopularVotes)
		}

		for _, d := range results {
			if d.Total() != electors {
				t.Errorf("seed %d: district %s sums to %d", seed, d.District, d.Total())
			}
			if winner, ok := d.Winner(); ok && winner == formal && d.Votes[formal] != electors/2+1 {
				t.Errorf("seed %d: formal winner won district %s with %d votes", seed, d.District, d.Votes[formal])
			}
		}
	}
}

func TestUnderrepresentationFallsBack(t *testing.T) {
	results := GenerateUnderrepresentation(rand.New(rand.NewSource(1)), 4, 10, []string{"only"})
	if len(results) != 4 {
		t.Fatalf("got %d districts, want 4", len(results))
	}
	for _, d := range results {
		if d.Total() != 10 {
			t.Errorf("district %s sums to %d", d.District, d.Total())
		}
	}

	if got := GenerateUnderrepresentation(rand.New(rand.NewSource(1)), 0, 10, fourCandidates); len(got) != 0 {
		t.Errorf("zero districts: got %d", len(got))
	}
}

func TestWinner(t *testing.T) {
	tests := []struct {
		name   string
		votes  map[string]int
		want   string
		wantOK bool
	}{
		{"clear winner", map[string]int{"A": 40, "B": 35, "C": 25}, "A", true},
		{"tie for first", map[string]int{"A": 40, "B": 40, "C": 20}, "", false},
		{"tie below first", map[string]int{"A": 50, "B": 25, "C": 25}, "A", true},
		{"empty", map[string]int{}, "", false},
		{"single", map[string]int{"A": 0}, "A", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DistrictResult{Votes: tt.votes}.Winner()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Winner() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestBoundedNormalStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 1000; i++ {
		if v := boundedNormal(rng, 10, 20); v < 10 || v > 20 {
			t.Fatalf("boundedNormal(10, 20) = %d", v)
		}
	}
	if v := boundedNormal(rng, 5, 5); v != 5 {
		t.Errorf("boundedNormal(5, 5) = %d, want 5", v)
	}
	if v := boundedNormal(rng, 8, 3); v != 8 {
		t.Errorf("boundedNormal(8, 3) = %d, want 8", v)
	}
}
