// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package fptp

// Standing is one candidate's share of a generated election.
type Standing struct {
	CandidateID  string `json:"candidate_id"`
	Districts    int    `json:"districts"`
	PopularVotes int    `json:"popular_votes"`
}

type Summary struct {
	Standings      []Standing `json:"standings"`
	TotalDistricts int        `json:"total_districts"`
	TiedDistricts  int        `json:"tied_districts"`
	TotalVotes     int        `json:"total_votes"`
	Leader         string     `json:"leader,omitempty"`
	Ahead          bool       `json:"ahead"`
	LeaderShare    float64    `json:"leader_share"`
}

// MajorityOf returns the number of districts needed for a majority.
func MajorityOf(districtCount int) int {
	return districtCount/2 + 1
}

// Summarize totals the results per candidate in registry order.
// The leader is the candidate with most districts (earlier registry position
// on ties) and is ahead only with a majority of all districts.
func Summarize(results []DistrictResult, candidateIDs []string) Summary {
	summary := Summary{
		Standings:      make([]Standing, len(candidateIDs)),
		TotalDistricts: len(results),
	}

	index := make(map[string]int, len(candidateIDs))
	for i, id := range candidateIDs {
		index[id] = i
		summary.Standings[i].CandidateID = id
	}

	for _, district := range results {
		for id, votes := range district.Votes {
			if i, ok := index[id]; ok {
				summary.Standings[i].PopularVotes += votes
				summary.TotalVotes += votes
			}
		}
		winner, ok := district.Winner()
		if !ok {
			summary.TiedDistricts++
			continue
		}
		if i, known := index[winner]; known {
			summary.Standings[i].Districts++
		}
	}

	leader := -1
	for i, s := range summary.Standings {
		if s.Districts > 0 && (leader < 0 || s.Districts > summary.Standings[leader].Districts) {
			leader = i
		}
	}
	if leader < 0 {
		return summary
	}

	best := summary.Standings[leader]
	summary.Leader = best.CandidateID
	summary.Ahead = best.Districts >= MajorityOf(len(results))
	if summary.TotalVotes > 0 {
		summary.LeaderShare = float64(best.PopularVotes) / float64(summary.TotalVotes)
	}
	return summary
}
