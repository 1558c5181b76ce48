// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/danielhkuo/voteviz/candidates"
	"github.com/danielhkuo/voteviz/fptp"
	"github.com/danielhkuo/voteviz/models"
	"github.com/danielhkuo/voteviz/stv"
)

func namesByID(list []candidates.Candidate) map[string]string {
	names := make(map[string]string, len(list))
	for _, c := range list {
		names[c.ID] = c.Name
	}
	return names
}

func candidateIDs(list []candidates.Candidate) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.ID
	}
	return out
}

func fptpResults(e models.Election, list []candidates.Candidate, snapshotID string, computedAt time.Time, snap models.FPTPSnapshot) models.FPTPResults {
	districts := make([]models.DistrictView, len(snap.Districts))
	for i, d := range snap.Districts {
		winner, ok := d.Winner()
		districts[i] = models.DistrictView{
			District: d.District,
			Votes:    d.Votes,
			Winner:   winner,
			Tied:     !ok,
		}
	}

	summary := fptp.Summarize(snap.Districts, candidateIDs(list))
	return models.FPTPResults{
		ElectionID: e.ID,
		SnapshotID: snapshotID,
		ComputedAt: computedAt,
		Mode:       snap.Mode,
		Seed:       snap.Seed,
		Candidates: list,
		Districts:  districts,
		Summary:    summary,
		Message:    fptpMessage(summary, namesByID(list)),
	}
}

func stvResults(e models.Election, list []candidates.Candidate, snapshotID string, computedAt time.Time, snap models.STVSnapshot) models.STVResults {
	winners, votes := stv.SincereWinners(snap.FirstPreferences)
	if winners == nil {
		winners = []string{}
	}
	return models.STVResults{
		ElectionID:       e.ID,
		SnapshotID:       snapshotID,
		ComputedAt:       computedAt,
		Seats:            snap.Seats,
		Voters:           snap.Voters,
		Candidates:       list,
		Quota:            snap.Result.Quota,
		Rounds:           snap.Result.Rounds,
		Elected:          snap.Result.Elected,
		Events:           snap.Result.Events,
		FirstPreferences: snap.FirstPreferences,
		SincereWinners:   winners,
		SincereVotes:     votes,
		Message:          sincereMessage(winners, votes, snap.Voters, namesByID(list)),
	}
}

func ballotView(index, voters int, view []stv.RankedChoice, list []candidates.Candidate) models.BallotView {
	byID := make(map[string]candidates.Candidate, len(list))
	for _, c := range list {
		byID[c.ID] = c
	}

	ranking := make([]models.BallotEntry, len(view))
	for i, choice := range view {
		c := byID[choice.CandidateID]
		ranking[i] = models.BallotEntry{
			Order:       choice.Order,
			Ordinal:     humanize.Ordinal(choice.Order),
			CandidateID: choice.CandidateID,
			Name:        c.Name,
			Color:       c.Color,
		}
	}
	return models.BallotView{Index: index, Voters: voters, Ranking: ranking}
}

func percent(part, whole int) string {
	if whole <= 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(part)/float64(whole)*100)
}

func fptpMessage(summary fptp.Summary, names map[string]string) string {
	if !summary.Ahead {
		return "No candidate is ahead"
	}
	for _, s := range summary.Standings {
		if s.CandidateID != summary.Leader {
			continue
		}
		return fmt.Sprintf("%s won with %s of the popular vote (%s of %s votes), %d / %d districts",
			names[s.CandidateID],
			percent(s.PopularVotes, summary.TotalVotes),
			humanize.Comma(int64(s.PopularVotes)),
			humanize.Comma(int64(summary.TotalVotes)),
			s.Districts,
			summary.TotalDistricts,
		)
	}
	return "No candidate is ahead"
}

// joinNames lists names as "A", "A and B" or "A, B, and C".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
}

func sincereMessage(winnerIDs []string, votes, voters int, names map[string]string) string {
	if len(winnerIDs) == 0 {
		return "No winner could be found"
	}

	winners := make([]string, len(winnerIDs))
	for i, id := range winnerIDs {
		winners[i] = names[id]
	}
	collate.New(language.English).SortStrings(winners)

	share := percent(votes, voters)
	count := humanize.Comma(int64(votes))
	if len(winners) == 1 {
		return fmt.Sprintf("If everybody voted for their first priority, the winner would be %s with %s first priority votes, this equals %s of the popular vote",
			winners[0], count, share)
	}
	return fmt.Sprintf("If everybody voted for their first priority, %s would be tied with %s first priority votes, this equals %s of the popular vote each",
		joinNames(winners), count, share)
}
