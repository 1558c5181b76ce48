// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/danielhkuo/voteviz/auth"
	"github.com/danielhkuo/voteviz/candidates"
	"github.com/danielhkuo/voteviz/middleware"
	"github.com/danielhkuo/voteviz/models"
)

// authorize checks the admin key for the election in the {id} path value
// and writes the error response when it fails.
func authorize(w http.ResponseWriter, r *http.Request, salt string) (string, bool) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return "", false
	}

	if err := auth.ValidateAdminKey(electionID, r.Header.Get(auth.AdminKeyHeader), salt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return "", false
	}
	return electionID, true
}

// lookupFailed writes 404 for a missing election and 500 otherwise.
func lookupFailed(w http.ResponseWriter, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	slog.Error("failed to query election", "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
}

func parseIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		return 0, errors.New("index must be an integer")
	}
	return index, nil
}

func validMode(mode string) bool {
	return mode == models.ModeRandom || mode == models.ModeUnderrepresentation
}

// validateSettings checks election parameters against the candidate count.
func validateSettings(e models.Election, candidateCount int) error {
	switch {
	case e.Seats < 1 || e.Seats > candidateCount:
		return fmt.Errorf("seats must be between 1 and %d", candidateCount)
	case e.Voters < 1 || e.Voters > models.MaxVoters:
		return fmt.Errorf("voters must be between 1 and %d", models.MaxVoters)
	case e.Districts < 1 || e.Districts > models.MaxDistricts:
		return fmt.Errorf("districts must be between 1 and %d", models.MaxDistricts)
	case e.ElectorsPerDistrict < 1 || e.ElectorsPerDistrict > models.MaxElectors:
		return fmt.Errorf("electors_per_district must be between 1 and %d", models.MaxElectors)
	}
	return nil
}

// buildRegistry turns requested candidates into a registry. Inputs with an
// ID must name a candidate of prev and keep its colour unless one is given;
// inputs without an ID become new candidates.
func buildRegistry(inputs []models.CandidateInput, prev *candidates.Registry, rng *rand.Rand) (*candidates.Registry, error) {
	if len(inputs) > models.MaxCandidates {
		return nil, fmt.Errorf("at most %d candidates are allowed", models.MaxCandidates)
	}

	list := make([]candidates.Candidate, 0, len(inputs))
	for _, in := range inputs {
		if in.Color != "" && !candidates.ValidColor(in.Color) {
			return nil, fmt.Errorf("color %q must look like #rrggbb", in.Color)
		}

		if in.ID == "" {
			list = append(list, candidates.New(in.Name, in.Color, rng))
			continue
		}

		var old candidates.Candidate
		var ok bool
		if prev != nil {
			old, ok = prev.Get(in.ID)
		}
		if !ok {
			return nil, fmt.Errorf("unknown candidate id %q", in.ID)
		}
		color := in.Color
		if color == "" {
			color = old.Color
		}
		list = append(list, candidates.Candidate{ID: in.ID, Name: in.Name, Color: color})
	}

	return candidates.NewRegistry(list)
}
