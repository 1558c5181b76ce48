// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the VoteViz API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Election management (admin, requires X-Admin-Key):

	POST /elections                          - Create election
	GET  /elections/{id}/admin               - Get election details
	PUT  /elections/{id}/candidates          - Replace candidate registry
	PUT  /elections/{id}/settings            - Change seats, voters, districts or electors
	POST /elections/{id}/fptp/simulate       - Draw new district results
	PUT  /elections/{id}/ballots/{index}     - Replace one ballot
	POST /elections/{id}/ballots/regenerate  - Draw new ballots

Results (public, uses share slug):

	GET /elections/{slug}                  - Election info and candidates
	GET /elections/{slug}/fptp             - District results and summary
	GET /elections/{slug}/stv              - Rounds, elected candidates and sincere vote
	GET /elections/{slug}/ballots/{index}  - One ballot, first preference first

# Handler Initialization

The router creates handler instances with dependency injection:

	electionHandler := handlers.NewElectionHandler(db, cfg)
	fptpHandler := handlers.NewFPTPHandler(db, cfg)
	stvHandler := handlers.NewSTVHandler(db, cfg)

All handlers receive the database connection and configuration.
*/
package router
