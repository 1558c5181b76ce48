// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package simulation

import "github.com/danielhkuo/voteviz/candidates"

type Action int

const (
	ActionNone Action = iota
	ActionRelabel
	ActionRetally
	ActionRegenerate
)

func (a Action) String() string {
	switch a {
	case ActionRelabel:
		return "relabel"
	case ActionRetally:
		return "retally"
	case ActionRegenerate:
		return "regenerate"
	default:
		return "none"
	}
}

// State is everything a stored result depends on.
type State struct {
	Candidates *candidates.Registry
	Seats      int
	Voters     int
	Districts  int
	Electors   int
}

// PlanSTV returns the action needed to move STV results from prev to next.
// electedCount is the number of candidates the stored result elected.
func PlanSTV(prev, next State, electedCount int, force bool) Action {
	switch {
	case force, prev.Voters != next.Voters, !sameKeys(prev, next):
		return ActionRegenerate
	case prev.Seats != next.Seats && next.Seats != electedCount:
		return ActionRetally
	case displayChanged(prev, next):
		return ActionRelabel
	}
	return ActionNone
}

// PlanFPTP returns the action needed to move FPTP results from prev to next.
func PlanFPTP(prev, next State, force bool) Action {
	switch {
	case force, !sameKeys(prev, next), prev.Districts != next.Districts, prev.Electors != next.Electors:
		return ActionRegenerate
	case displayChanged(prev, next):
		return ActionRelabel
	}
	return ActionNone
}

func sameKeys(prev, next State) bool {
	if prev.Candidates == nil || next.Candidates == nil {
		return prev.Candidates == next.Candidates
	}
	return prev.Candidates.SameKeys(next.Candidates)
}

func displayChanged(prev, next State) bool {
	if prev.Candidates == nil || next.Candidates == nil {
		return false
	}
	return candidates.DisplayChanged(prev.Candidates, next.Candidates)
}
