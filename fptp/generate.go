// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package fptp

import (
	"math"
	"math/rand"
	"strconv"
)

// DistrictResult is the vote table of one district.
type DistrictResult struct {
	District string         `json:"district"`
	Votes    map[string]int `json:"votes"`
}

// Winner returns the candidate with the strictly highest count.
// Ties for first place and empty tables have no winner.
func (d DistrictResult) Winner() (string, bool) {
	best := -1
	winner := ""
	tied := false
	for id, votes := range d.Votes {
		switch {
		case votes > best:
			best = votes
			winner = id
			tied = false
		case votes == best:
			tied = true
		}
	}
	if best < 0 || tied {
		return "", false
	}
	return winner, true
}

// Total returns the number of votes cast in the district.
func (d DistrictResult) Total() int {
	total := 0
	for _, votes := range d.Votes {
		total += votes
	}
	return total
}

// Generate draws normally distributed district results in which one
// randomly chosen candidate is forced to win a bare majority of districts.
func Generate(rng *rand.Rand, districtCount, electorsPerDistrict int, candidateIDs []string) []DistrictResult {
	if districtCount < 1 {
		return []DistrictResult{}
	}

	results := make([]DistrictResult, districtCount)
	if len(candidateIDs) == 0 {
		for i := range results {
			results[i] = DistrictResult{District: districtLabel(i), Votes: map[string]int{}}
		}
		return results
	}

	preferred := candidateIDs[rng.Intn(len(candidateIDs))]
	forced := bareMajority(rng, districtCount)

	for i := range results {
		order := shuffled(rng, candidateIDs)
		var votes map[string]int
		if forced[i] {
			votes = forcedWin(rng, electorsPerDistrict, preferred, order)
		} else {
			votes = withoutPreferred(rng, electorsPerDistrict, preferred, order)
		}
		results[i] = DistrictResult{District: districtLabel(i), Votes: votes}
	}
	return results
}

// GenerateUnderrepresentation builds results where a formal winner takes a
// bare majority of districts by a single vote each while another candidate
// wins the popular vote. With fewer than two candidates it falls back to
// Generate.
func GenerateUnderrepresentation(rng *rand.Rand, districtCount, electorsPerDistrict int, candidateIDs []string) []DistrictResult {
	if districtCount < 1 {
		return []DistrictResult{}
	}
	if len(candidateIDs) < 2 {
		return Generate(rng, districtCount, electorsPerDistrict, candidateIDs)
	}

	perm := rng.Perm(len(candidateIDs))
	formalWinner := candidateIDs[perm[0]]
	popularWinner := candidateIDs[perm[1]]
	won := bareMajority(rng, districtCount)
	toWin := min(electorsPerDistrict/2+1, electorsPerDistrict)

	results := make([]DistrictResult, districtCount)
	for i := range results {
		votes := make(map[string]int, len(candidateIDs))
		for _, id := range candidateIDs {
			votes[id] = 0
		}
		if won[i] {
			votes[formalWinner] = toWin
			votes[popularWinner] = electorsPerDistrict - toWin
		} else {
			votes[popularWinner] = electorsPerDistrict
		}
		results[i] = DistrictResult{District: districtLabel(i), Votes: votes}
	}
	return results
}

func forcedWin(rng *rand.Rand, electors int, preferred string, order []string) map[string]int {
	votes := make(map[string]int, len(order))

	// Anything above an even split guarantees a plurality once the others
	// are capped below the head start.
	minimumHeadStart := electors/len(order) + 1
	headStart := min(boundedNormal(rng, minimumHeadStart, electors), electors)
	votes[preferred] = headStart
	allocated := headStart

	for _, id := range order {
		if id == preferred {
			continue
		}
		limit := max(0, min(electors-allocated, headStart-1))
		v := boundedNormal(rng, 0, limit)
		votes[id] = v
		allocated += v
	}

	votes[preferred] += electors - allocated
	return votes
}

func withoutPreferred(rng *rand.Rand, electors int, preferred string, order []string) map[string]int {
	votes := make(map[string]int, len(order))
	allocated := 0
	absorber := ""

	for _, id := range order {
		if id == preferred && len(order) > 1 {
			votes[id] = 0
			continue
		}
		if absorber == "" {
			absorber = id
		}
		v := boundedNormal(rng, 0, electors-allocated)
		votes[id] = v
		allocated += v
	}

	votes[absorber] += electors - allocated
	return votes
}

// boundedNormal draws an integer from a normal distribution centred on the
// interval [lo, hi] with a sixth of its width as deviation, clamped into it.
// An empty interval yields lo.
func boundedNormal(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	mean := float64(lo+hi) / 2
	deviation := float64(hi-lo) / 6
	v := int(math.Round(mean + rng.NormFloat64()*deviation))
	return max(lo, min(hi, v))
}

// bareMajority picks districtCount/2+1 distinct districts at random.
func bareMajority(rng *rand.Rand, districtCount int) map[int]bool {
	picked := make(map[int]bool, districtCount/2+1)
	for _, d := range rng.Perm(districtCount)[:districtCount/2+1] {
		picked[d] = true
	}
	return picked
}

func shuffled(rng *rand.Rand, ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func districtLabel(i int) string {
	return strconv.Itoa(i + 1)
}
