// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/voteviz/candidates"
	"github.com/danielhkuo/voteviz/cliparse"
	"github.com/danielhkuo/voteviz/middleware"
	"github.com/danielhkuo/voteviz/models"
	"github.com/danielhkuo/voteviz/simulation"
	"github.com/danielhkuo/voteviz/stv"
)

type STVHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	sim simulator
}

func NewSTVHandler(db *sql.DB, cfg cliparse.Config) *STVHandler {
	return &STVHandler{db: db, cfg: cfg, sim: simulator{fixedSeed: cfg.Seed}}
}

// GetResults handles GET /elections/{slug}/stv
func (h *STVHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	e, err := loadElectionBySlug(h.db, slug)
	if err != nil {
		lookupFailed(w, err)
		return
	}
	if e.STVSnapshotID == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "No STV results yet")
		return
	}

	list, err := loadCandidates(h.db, e.ID)
	if err != nil {
		slog.Error("failed to query candidates", "election_id", e.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	results, err := loadSTVResults(h.db, e, list)
	if err != nil {
		slog.Error("failed to load STV snapshot", "election_id", e.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

// GetBallot handles GET /elections/{slug}/ballots/{index}
// The index wraps around the number of voters in both directions.
func (h *STVHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}
	index, err := parseIndex(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	e, err := loadElectionBySlug(h.db, slug)
	if err != nil {
		lookupFailed(w, err)
		return
	}

	list, err := loadCandidates(h.db, e.ID)
	if err != nil {
		slog.Error("failed to query candidates", "election_id", e.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	ballots, err := loadBallots(h.db, e.ID)
	if err != nil {
		slog.Error("failed to query ballots", "election_id", e.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	view := stv.View(ballots, index, candidateIDs(list))
	middleware.JSONResponse(w, http.StatusOK, ballotView(stv.BallotIndex(index, len(ballots)), len(ballots), view, list))
}

// UpdateBallot handles PUT /elections/{id}/ballots/{index}
// Replaces one voter's ranking and recounts from scratch when it changed.
func (h *STVHandler) UpdateBallot(w http.ResponseWriter, r *http.Request) {
	electionID, ok := authorize(w, r, h.cfg.AdminKeySalt)
	if !ok {
		return
	}
	index, err := parseIndex(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.UpdateBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	e, err := loadElection(tx, electionID)
	if err != nil {
		lookupFailed(w, err)
		return
	}
	list, err := loadCandidates(tx, electionID)
	if err != nil {
		slog.Error("failed to query candidates", "election_id", electionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	ids := candidateIDs(list)

	if !stv.ValidBallot(stv.FromTopFirst(req.Ranking), ids) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ranking must list every candidate exactly once")
		return
	}

	ballots, err := loadBallots(tx, electionID)
	if err != nil {
		slog.Error("failed to query ballots", "election_id", electionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if len(ballots) == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election has no ballots")
		return
	}

	i := stv.BallotIndex(index, len(ballots))
	next, changed := stv.Replace(ballots, index, req.Ranking)
	if changed {
		if err := updateBallot(tx, electionID, i, next[i]); err != nil {
			slog.Error("failed to update ballot", "election_id", electionID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update ballot")
			return
		}
		now := time.Now().UTC()
		if err := storeSTV(tx, &e, next, ids, now); err != nil {
			slog.Error("failed to retally", "election_id", electionID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update ballot")
			return
		}
		e.UpdatedAt = now
		if err := updateElection(tx, e); err != nil {
			slog.Error("failed to update election", "election_id", electionID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update ballot")
			return
		}
	}

	results, err := loadSTVResults(tx, e, list)
	if err != nil {
		slog.Error("failed to load STV snapshot", "election_id", electionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update ballot")
		return
	}

	slog.Info("ballot updated", "election_id", electionID, "index", i, "changed", changed)

	middleware.JSONResponse(w, http.StatusOK, models.UpdateBallotResponse{
		Index:   i,
		Changed: changed,
		Results: results,
	})
}

// RegenerateBallots handles POST /elections/{id}/ballots/regenerate
func (h *STVHandler) RegenerateBallots(w http.ResponseWriter, r *http.Request) {
	electionID, ok := authorize(w, r, h.cfg.AdminKeySalt)
	if !ok {
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	e, err := loadElection(tx, electionID)
	if err != nil {
		lookupFailed(w, err)
		return
	}
	list, err := loadCandidates(tx, electionID)
	if err != nil {
		slog.Error("failed to query candidates", "election_id", electionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	reg, err := candidates.NewRegistry(list)
	if err != nil {
		slog.Error("stored candidates are invalid", "election_id", electionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := h.sim.apply(tx, &e, reg, simulation.ActionRegenerate, simulation.ActionNone, time.Now().UTC()); err != nil {
		slog.Error("failed to regenerate ballots", "election_id", electionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to regenerate ballots")
		return
	}

	results, err := loadSTVResults(tx, e, list)
	if err != nil {
		slog.Error("failed to load STV snapshot", "election_id", electionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to regenerate ballots")
		return
	}

	slog.Info("ballots regenerated", "election_id", electionID, "seed", e.BallotSeed)

	middleware.JSONResponse(w, http.StatusOK, results)
}

func loadSTVResults(q querier, e models.Election, list []candidates.Candidate) (models.STVResults, error) {
	if e.STVSnapshotID == nil {
		return models.STVResults{}, sql.ErrNoRows
	}
	var snap models.STVSnapshot
	computedAt, err := loadSnapshot(q, *e.STVSnapshotID, &snap)
	if err != nil {
		return models.STVResults{}, err
	}
	return stvResults(e, list, *e.STVSnapshotID, computedAt, snap), nil
}
