// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/voteviz/cliparse"
	"github.com/danielhkuo/voteviz/handlers"
	"github.com/danielhkuo/voteviz/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	electionHandler := handlers.NewElectionHandler(db, cfg)
	fptpHandler := handlers.NewFPTPHandler(db, cfg)
	stvHandler := handlers.NewSTVHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Election management (admin operations)
	mux.HandleFunc("POST /elections", middleware.WithLogging(electionHandler.CreateElection))
	mux.HandleFunc("GET /elections/{id}/admin", middleware.WithLogging(electionHandler.GetElectionAdmin))
	mux.HandleFunc("PUT /elections/{id}/candidates", middleware.WithLogging(electionHandler.UpdateCandidates))
	mux.HandleFunc("PUT /elections/{id}/settings", middleware.WithLogging(electionHandler.UpdateSettings))

	// Simulation (admin operations)
	mux.HandleFunc("POST /elections/{id}/fptp/simulate", middleware.WithLogging(fptpHandler.Simulate))
	mux.HandleFunc("PUT /elections/{id}/ballots/{index}", middleware.WithLogging(stvHandler.UpdateBallot))
	mux.HandleFunc("POST /elections/{id}/ballots/regenerate", middleware.WithLogging(stvHandler.RegenerateBallots))

	// Results retrieval (public)
	mux.HandleFunc("GET /elections/{slug}", middleware.WithLogging(electionHandler.GetElection))
	mux.HandleFunc("GET /elections/{slug}/fptp", middleware.WithLogging(fptpHandler.GetResults))
	mux.HandleFunc("GET /elections/{slug}/stv", middleware.WithLogging(stvHandler.GetResults))
	mux.HandleFunc("GET /elections/{slug}/ballots/{index}", middleware.WithLogging(stvHandler.GetBallot))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("voteviz API v1"))
	})

	return mux
}
