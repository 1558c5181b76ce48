// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateElectionRequest: title, candidates, seats, voters, districts, electors_per_district, fptp_mode
  - UpdateCandidatesRequest: candidates (existing ones keep their id), regenerate
  - UpdateSettingsRequest: seats, voters, districts, electors_per_district (all optional)
  - SimulateFPTPRequest: mode
  - UpdateBallotRequest: ranking (candidate IDs, first preference first)

# Response Types

Types for JSON responses:

  - CreateElectionResponse: election_id, admin_key, share_slug
  - UpdateElectionResponse: election, stv_action, fptp_action
  - FPTPResults: districts with winners, summary, message
  - STVResults: quota, rounds, elected, events, first preferences, message
  - BallotView: one voter's ranking, first preference first
  - UpdateBallotResponse: index, changed, results
  - ErrorResponse: error, message

# Domain Types

  - Election: parameters, seeds and current snapshot IDs
  - ElectionWithCandidates: an election and its registry in order
  - FPTPSnapshot, STVSnapshot: payloads stored in result_snapshot

# Constants

Snapshot methods:

	MethodFPTP = "fptp"
	MethodSTV  = "stv"

FPTP modes:

	ModeRandom              = "random"
	ModeUnderrepresentation = "underrepresentation"
*/
package models
