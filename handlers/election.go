// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/voteviz/auth"
	"github.com/danielhkuo/voteviz/candidates"
	"github.com/danielhkuo/voteviz/cliparse"
	"github.com/danielhkuo/voteviz/middleware"
	"github.com/danielhkuo/voteviz/models"
	"github.com/danielhkuo/voteviz/random"
	"github.com/danielhkuo/voteviz/simulation"
)

type ElectionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	sim simulator
}

func NewElectionHandler(db *sql.DB, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{db: db, cfg: cfg, sim: simulator{fixedSeed: cfg.Seed}}
}

// CreateElection handles POST /elections
// Generates ballots and district results right away, so both result views
// are available as soon as the election exists.
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}

	colorSeed, err := h.sim.seed()
	if err != nil {
		slog.Error("failed to draw seed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}
	reg, err := buildRegistry(req.Candidates, nil, random.New(colorSeed))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	e := models.Election{
		Title:               title,
		Seats:               req.Seats,
		Voters:              req.Voters,
		Districts:           req.Districts,
		ElectorsPerDistrict: req.ElectorsPerDistrict,
		FPTPMode:            req.FPTPMode,
	}
	if e.Seats == 0 {
		e.Seats = 1
	}
	if e.Voters == 0 {
		e.Voters = h.cfg.DefaultVoters
	}
	if e.Districts == 0 {
		e.Districts = h.cfg.DefaultDistricts
	}
	if e.ElectorsPerDistrict == 0 {
		e.ElectorsPerDistrict = h.cfg.DefaultElectors
	}
	if e.FPTPMode == "" {
		e.FPTPMode = models.ModeRandom
	}
	if !validMode(e.FPTPMode) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "fptp_mode must be random or underrepresentation")
		return
	}
	if err := validateSettings(e, reg.Len()); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	e.ID, err = auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate election ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}
	e.ShareSlug = auth.GenerateShareSlug(e.ID, h.cfg.ShareSlugSalt)
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	if err := insertElection(tx, e); err != nil {
		slog.Error("failed to insert election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}
	if err := saveCandidates(tx, e.ID, reg); err != nil {
		slog.Error("failed to insert candidates", "election_id", e.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}
	if err := h.sim.apply(tx, &e, reg, simulation.ActionRegenerate, simulation.ActionRegenerate, now); err != nil {
		slog.Error("failed to simulate election", "election_id", e.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	slog.Info("election created", "election_id", e.ID, "candidates", reg.Len(), "seats", e.Seats)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateElectionResponse{
		ElectionID: e.ID,
		AdminKey:   auth.GenerateAdminKey(e.ID, h.cfg.AdminKeySalt),
		ShareSlug:  e.ShareSlug,
	})
}

// GetElectionAdmin handles GET /elections/{id}/admin
func (h *ElectionHandler) GetElectionAdmin(w http.ResponseWriter, r *http.Request) {
	electionID, ok := authorize(w, r, h.cfg.AdminKeySalt)
	if !ok {
		return
	}

	e, err := loadElection(h.db, electionID)
	if err != nil {
		lookupFailed(w, err)
		return
	}
	h.writeElection(w, e)
}

// GetElection handles GET /elections/{slug}
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
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
	h.writeElection(w, e)
}

func (h *ElectionHandler) writeElection(w http.ResponseWriter, e models.Election) {
	list, err := loadCandidates(h.db, e.ID)
	if err != nil {
		slog.Error("failed to query candidates", "election_id", e.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionWithCandidates{
		Election:   e,
		Candidates: list,
	})
}

// UpdateCandidates handles PUT /elections/{id}/candidates
// Replaces the registry. Renames and recolours keep every result; any change
// to the set or order of candidates regenerates ballots and districts.
func (h *ElectionHandler) UpdateCandidates(w http.ResponseWriter, r *http.Request) {
	electionID, ok := authorize(w, r, h.cfg.AdminKeySalt)
	if !ok {
		return
	}

	var req models.UpdateCandidatesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	colorSeed, err := h.sim.seed()
	if err != nil {
		slog.Error("failed to draw seed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update candidates")
		return
	}

	h.update(w, electionID, func(e *models.Election, prev *candidates.Registry) (*candidates.Registry, bool, error) {
		next, err := buildRegistry(req.Candidates, prev, random.New(colorSeed))
		if err != nil {
			return nil, false, err
		}
		// Seats never exceed the candidates standing.
		e.Seats = min(e.Seats, next.Len())
		return next, req.Regenerate, nil
	})
}

// UpdateSettings handles PUT /elections/{id}/settings
func (h *ElectionHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	electionID, ok := authorize(w, r, h.cfg.AdminKeySalt)
	if !ok {
		return
	}

	var req models.UpdateSettingsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	h.update(w, electionID, func(e *models.Election, prev *candidates.Registry) (*candidates.Registry, bool, error) {
		if req.Seats != nil {
			e.Seats = *req.Seats
		}
		if req.Voters != nil {
			e.Voters = *req.Voters
		}
		if req.Districts != nil {
			e.Districts = *req.Districts
		}
		if req.ElectorsPerDistrict != nil {
			e.ElectorsPerDistrict = *req.ElectorsPerDistrict
		}
		return prev, false, nil
	})
}

// changeFunc edits e in place and returns the next registry and whether
// regeneration is forced. An error is reported to the client as a 400.
type changeFunc func(e *models.Election, prev *candidates.Registry) (*candidates.Registry, bool, error)

// update runs change inside a transaction, plans the work it causes and
// recomputes whatever the plan asks for.
func (h *ElectionHandler) update(w http.ResponseWriter, electionID string, change changeFunc) {
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
	prev, err := candidates.NewRegistry(list)
	if err != nil {
		slog.Error("stored candidates are invalid", "election_id", electionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	before := e
	next, force, err := change(&e, prev)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateSettings(e, next.Len()); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	elected, err := electedCount(tx, before)
	if err != nil {
		slog.Error("failed to load STV snapshot", "election_id", electionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	prevState, nextState := stateOf(before, prev), stateOf(e, next)
	stvAction := simulation.PlanSTV(prevState, nextState, elected, force)
	fptpAction := simulation.PlanFPTP(prevState, nextState, force)

	if next != prev {
		if err := saveCandidates(tx, electionID, next); err != nil {
			slog.Error("failed to save candidates", "election_id", electionID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}
	if err := h.sim.apply(tx, &e, next, stvAction, fptpAction, time.Now().UTC()); err != nil {
		slog.Error("failed to recompute election", "election_id", electionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update election")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update election")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.UpdateElectionResponse{
		Election: models.ElectionWithCandidates{
			Election:   e,
			Candidates: next.Values(),
		},
		STVAction:  stvAction.String(),
		FPTPAction: fptpAction.String(),
	})
}
