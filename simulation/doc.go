// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package simulation decides how much work a change to an election needs.

Editing the candidate list or the election parameters can invalidate the
stored ballots, only the tally, or just the labels. PlanSTV and PlanFPTP
compare the previous and next State and return the smallest Action that
keeps the stored results consistent:

	switch simulation.PlanSTV(prev, next, len(result.Elected), false) {
	case simulation.ActionRegenerate:
		// new ballots, then tally
	case simulation.ActionRetally:
		// tally the stored ballots again
	case simulation.ActionRelabel:
		// keep results, refresh names and colours
	}
*/
package simulation
