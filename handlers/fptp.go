// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/voteviz/candidates"
	"github.com/danielhkuo/voteviz/cliparse"
	"github.com/danielhkuo/voteviz/middleware"
	"github.com/danielhkuo/voteviz/models"
	"github.com/danielhkuo/voteviz/simulation"
)

type FPTPHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	sim simulator
}

func NewFPTPHandler(db *sql.DB, cfg cliparse.Config) *FPTPHandler {
	return &FPTPHandler{db: db, cfg: cfg, sim: simulator{fixedSeed: cfg.Seed}}
}

// Simulate handles POST /elections/{id}/fptp/simulate
// Draws new district results. The body is optional and defaults to random mode.
func (h *FPTPHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	electionID, ok := authorize(w, r, h.cfg.AdminKeySalt)
	if !ok {
		return
	}

	var req models.SimulateFPTPRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Mode == "" {
		req.Mode = models.ModeRandom
	}
	if !validMode(req.Mode) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "mode must be random or underrepresentation")
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

	e.FPTPMode = req.Mode
	if err := h.sim.apply(tx, &e, reg, simulation.ActionNone, simulation.ActionRegenerate, time.Now().UTC()); err != nil {
		slog.Error("failed to simulate FPTP", "election_id", electionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to simulate election")
		return
	}

	var snap models.FPTPSnapshot
	computedAt, err := loadSnapshot(tx, *e.FPTPSnapshotID, &snap)
	if err != nil {
		slog.Error("failed to load FPTP snapshot", "election_id", electionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to simulate election")
		return
	}

	slog.Info("fptp simulated", "election_id", electionID, "mode", req.Mode, "seed", e.FPTPSeed)

	middleware.JSONResponse(w, http.StatusOK, fptpResults(e, list, *e.FPTPSnapshotID, computedAt, snap))
}

// GetResults handles GET /elections/{slug}/fptp
func (h *FPTPHandler) GetResults(w http.ResponseWriter, r *http.Request) {
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
	if e.FPTPSnapshotID == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "No FPTP results yet")
		return
	}

	list, err := loadCandidates(h.db, e.ID)
	if err != nil {
		slog.Error("failed to query candidates", "election_id", e.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var snap models.FPTPSnapshot
	computedAt, err := loadSnapshot(h.db, *e.FPTPSnapshotID, &snap)
	if err != nil {
		slog.Error("failed to load FPTP snapshot", "election_id", e.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, fptpResults(e, list, *e.FPTPSnapshotID, computedAt, snap))
}
