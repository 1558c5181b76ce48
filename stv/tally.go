// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stv

import "fmt"

// CandidateRounds is one candidate's track through the count.
type CandidateRounds struct {
	CandidateID string   `json:"candidate_id"`
	Statuses    []Status `json:"statuses"`
}

// Event records the decision taken in one round.
type Event struct {
	Round         int    `json:"round"`
	CandidateID   string `json:"candidate_id"`
	Kind          string `json:"kind"`
	Votes         int    `json:"votes"`
	ActiveBallots int    `json:"active_ballots"`
	Surplus       int    `json:"surplus,omitempty"`
	Transferred   int    `json:"transferred,omitempty"`
	Automatic     bool   `json:"automatic,omitempty"`
}

type Result struct {
	Quota   int               `json:"quota"`
	Rounds  []CandidateRounds `json:"rounds"`
	Elected []string          `json:"elected"`
	Events  []Event           `json:"events"`
}

// Quota returns the Droop quota for electors voters and seats seats.
func Quota(electors, seats int) int {
	return electors/(seats+1) + 1
}

// Tally runs the count. Ties are broken on candidate ID strings: the greater
// ID wins a tie for most votes, the lesser ID loses a tie for fewest.
func Tally(ballots []Ballot, candidateIDs []string, seats, electors int) Result {
	for i, b := range ballots {
		if !ValidBallot(b, candidateIDs) {
			panic(fmt.Sprintf("stv: ballot %d is not a full ranking of the candidates", i))
		}
	}

	tracks := make(map[string][]Status, len(candidateIDs))
	result := Result{Events: []Event{}}

	if seats >= len(candidateIDs) {
		result.Elected = append([]string{}, candidateIDs...)
		for _, id := range candidateIDs {
			tracks[id] = []Status{Elected}
			result.Events = append(result.Events, Event{CandidateID: id, Kind: "elected", Automatic: true})
		}
		result.Rounds = collect(candidateIDs, tracks)
		return result
	}

	result.Quota = Quota(electors, seats)
	result.Elected = []string{}
	t := newTabulation(ballots)
	out := make(map[string]bool, len(candidateIDs))
	round := 0

	for len(result.Elected) < seats && len(candidateIDs)-len(out) != seats-len(result.Elected) {
		counts, active := t.count(candidateIDs, out)
		for _, id := range candidateIDs {
			if !out[id] {
				tracks[id] = append(tracks[id], Votes(counts[id]))
			}
		}

		top := highest(candidateIDs, out, counts)
		if counts[top] >= result.Quota {
			surplus := counts[top] - result.Quota
			result.Elected = append(result.Elected, top)
			out[top] = true
			tracks[top] = append(tracks[top], Elected)
			transferred := t.transferSurplus(top, surplus, out)
			result.Events = append(result.Events, Event{
				Round:         round,
				CandidateID:   top,
				Kind:          "elected",
				Votes:         counts[top],
				ActiveBallots: active,
				Surplus:       surplus,
				Transferred:   transferred,
			})
		} else {
			low := lowest(candidateIDs, out, counts)
			out[low] = true
			tracks[low] = append(tracks[low], Eliminated)
			t.redistribute(out)
			result.Events = append(result.Events, Event{
				Round:         round,
				CandidateID:   low,
				Kind:          "eliminated",
				Votes:         counts[low],
				ActiveBallots: active,
			})
		}
		round++
	}

	if len(candidateIDs)-len(out) == seats-len(result.Elected) {
		for _, id := range candidateIDs {
			if out[id] {
				continue
			}
			result.Elected = append(result.Elected, id)
			tracks[id] = append(tracks[id], Elected)
			result.Events = append(result.Events, Event{Round: round, CandidateID: id, Kind: "elected", Automatic: true})
		}
	}

	result.Rounds = collect(candidateIDs, tracks)
	return result
}

func collect(candidateIDs []string, tracks map[string][]Status) []CandidateRounds {
	rounds := make([]CandidateRounds, len(candidateIDs))
	for i, id := range candidateIDs {
		statuses := tracks[id]
		if statuses == nil {
			statuses = []Status{}
		}
		rounds[i] = CandidateRounds{CandidateID: id, Statuses: statuses}
	}
	return rounds
}

func highest(candidateIDs []string, out map[string]bool, counts map[string]int) string {
	best := -1
	for i, id := range candidateIDs {
		if out[id] {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		lead := candidateIDs[best]
		if counts[id] > counts[lead] || (counts[id] == counts[lead] && id > lead) {
			best = i
		}
	}
	return candidateIDs[best]
}

func lowest(candidateIDs []string, out map[string]bool, counts map[string]int) string {
	best := -1
	for i, id := range candidateIDs {
		if out[id] {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		last := candidateIDs[best]
		if counts[id] < counts[last] || (counts[id] == counts[last] && id < last) {
			best = i
		}
	}
	return candidateIDs[best]
}

// tabulation tracks, per ballot, the position of the preference in use.
// top[i] is "" once the ballot is spent or exhausted.
type tabulation struct {
	ballots []Ballot
	cursor  []int
	top     []string
}

func newTabulation(ballots []Ballot) *tabulation {
	t := &tabulation{
		ballots: ballots,
		cursor:  make([]int, len(ballots)),
		top:     make([]string, len(ballots)),
	}
	for i, b := range ballots {
		t.cursor[i] = len(b) - 1
		if len(b) > 0 {
			t.top[i] = b[len(b)-1]
		}
	}
	return t
}

// count tallies live ballots for every candidate still in the race.
func (t *tabulation) count(candidateIDs []string, out map[string]bool) (map[string]int, int) {
	counts := make(map[string]int, len(candidateIDs))
	for _, id := range candidateIDs {
		if !out[id] {
			counts[id] = 0
		}
	}

	active := 0
	for i, top := range t.top {
		if top == "" {
			continue
		}
		if _, running := counts[top]; !running {
			panic(fmt.Sprintf("stv: ballot %d still names %s, who is out of the race", i, top))
		}
		counts[top]++
		active++
	}
	return counts, active
}

// advance moves ballot i to its next preference still in the race.
func (t *tabulation) advance(i int, out map[string]bool) string {
	for {
		t.cursor[i]--
		if t.cursor[i] < 0 {
			t.top[i] = ""
			return ""
		}
		if id := t.ballots[i][t.cursor[i]]; !out[id] {
			t.top[i] = id
			return id
		}
	}
}

func (t *tabulation) spend(i int) {
	t.cursor[i] = -1
	t.top[i] = ""
}

// transferSurplus passes the first surplus ballots naming elected on to
// their next preference and spends the remainder.
func (t *tabulation) transferSurplus(elected string, surplus int, out map[string]bool) int {
	transferred := 0
	for i, top := range t.top {
		if top != elected {
			continue
		}
		if surplus > 0 {
			if t.advance(i, out) != "" {
				surplus--
				transferred++
			}
		} else {
			t.spend(i)
		}
	}

	if surplus != 0 {
		panic(fmt.Sprintf("stv: %d surplus votes for %s could not be transferred", surplus, elected))
	}
	return transferred
}

// redistribute moves every ballot whose top preference left the race.
func (t *tabulation) redistribute(out map[string]bool) {
	for i, top := range t.top {
		if top != "" && out[top] {
			t.advance(i, out)
		}
	}
}
