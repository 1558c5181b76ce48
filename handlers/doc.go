// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the VoteViz API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - ElectionHandler: Election creation, candidate registry and settings
  - FPTPHandler: District simulation and first-past-the-post results
  - STVHandler: Ballot browsing, ballot edits and single transferable vote results

Handlers are created via constructor functions that accept *sql.DB and Config:

	electionHandler := handlers.NewElectionHandler(db, cfg)

# Recompute Plans

Every edit is planned with the simulation package before anything is
stored. A rename or recolour only relabels; a change to seats recounts the
stored ballots; a change to voters or to the candidate set draws new ballots;
a change to districts, electors or the candidate set draws new districts:

	POST /elections                   → CreateElection (returns admin_key)
	PUT  /elections/{id}/candidates   → UpdateCandidates
	PUT  /elections/{id}/settings     → UpdateSettings

The response names the action taken for each method.

Admin operations require the X-Admin-Key header.

# Results

Results are stored as snapshots in result_snapshot and referenced by ID from
the election row, so reads never recount:

	GET /elections/{slug}/fptp               → FPTPHandler.GetResults
	GET /elections/{slug}/stv                → STVHandler.GetResults
	GET /elections/{slug}/ballots/{index}    → STVHandler.GetBallot

Ballot indexes wrap around the number of voters, so -1 is the last ballot.

# Seeds

Fresh seeds are drawn for every regeneration and stored on the election.
A non-zero Config.Seed replaces them all, which makes every draw
reproducible.
*/
package handlers
