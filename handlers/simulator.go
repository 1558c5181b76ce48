// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/voteviz/candidates"
	"github.com/danielhkuo/voteviz/fptp"
	"github.com/danielhkuo/voteviz/models"
	"github.com/danielhkuo/voteviz/random"
	"github.com/danielhkuo/voteviz/simulation"
	"github.com/danielhkuo/voteviz/stv"
)

// simulator runs the engine for an election and stores what it produces.
type simulator struct {
	// fixedSeed replaces every fresh seed when non-zero.
	fixedSeed int64
}

func (s simulator) seed() (int64, error) {
	return random.SeedOr(s.fixedSeed)
}

func stateOf(e models.Election, reg *candidates.Registry) simulation.State {
	return simulation.State{
		Candidates: reg,
		Seats:      e.Seats,
		Voters:     e.Voters,
		Districts:  e.Districts,
		Electors:   e.ElectorsPerDistrict,
	}
}

func generateDistricts(e models.Election, ids []string) []fptp.DistrictResult {
	rng := random.New(e.FPTPSeed)
	if e.FPTPMode == models.ModeUnderrepresentation {
		return fptp.GenerateUnderrepresentation(rng, e.Districts, e.ElectorsPerDistrict, ids)
	}
	return fptp.Generate(rng, e.Districts, e.ElectorsPerDistrict, ids)
}

func tally(e models.Election, ballots []stv.Ballot, ids []string) models.STVSnapshot {
	return models.STVSnapshot{
		Seats:            e.Seats,
		Voters:           e.Voters,
		Result:           stv.Tally(ballots, ids, e.Seats, e.Voters),
		FirstPreferences: stv.FirstPreferences(ballots),
	}
}

// apply carries out the planned actions and writes the election back.
// Relabelling needs no stored change: results reference candidates by ID.
func (s simulator) apply(q querier, e *models.Election, reg *candidates.Registry, stvAction, fptpAction simulation.Action, now time.Time) error {
	ids := reg.Keys()

	switch stvAction {
	case simulation.ActionRegenerate:
		seed, err := s.seed()
		if err != nil {
			return err
		}
		e.BallotSeed = seed
		ballots := stv.GenerateBallots(random.New(seed), ids, e.Voters)
		if err := saveBallots(q, e.ID, ballots); err != nil {
			return err
		}
		if err := storeSTV(q, e, ballots, ids, now); err != nil {
			return err
		}
	case simulation.ActionRetally:
		ballots, err := loadBallots(q, e.ID)
		if err != nil {
			return err
		}
		if err := storeSTV(q, e, ballots, ids, now); err != nil {
			return err
		}
	}

	if fptpAction == simulation.ActionRegenerate {
		seed, err := s.seed()
		if err != nil {
			return err
		}
		e.FPTPSeed = seed
		if err := storeFPTP(q, e, ids, now); err != nil {
			return err
		}
	}

	slog.Info("election recomputed",
		"election_id", e.ID,
		"stv", stvAction.String(),
		"fptp", fptpAction.String(),
	)

	e.UpdatedAt = now
	return updateElection(q, *e)
}

// storeSTV tallies ballots and points the election at the new snapshot.
func storeSTV(q querier, e *models.Election, ballots []stv.Ballot, ids []string, now time.Time) error {
	if len(ballots) != e.Voters {
		return fmt.Errorf("election %s has %d ballots for %d voters", e.ID, len(ballots), e.Voters)
	}
	for i, b := range ballots {
		if !stv.ValidBallot(b, ids) {
			return fmt.Errorf("election %s: ballot %d does not rank the current candidates", e.ID, i)
		}
	}

	id, err := saveSnapshot(q, e.ID, models.MethodSTV, now, tally(*e, ballots, ids))
	if err != nil {
		return err
	}
	e.STVSnapshotID = &id
	return nil
}

// storeFPTP generates districts from the election's seed and mode.
func storeFPTP(q querier, e *models.Election, ids []string, now time.Time) error {
	snap := models.FPTPSnapshot{
		Mode:      e.FPTPMode,
		Seed:      e.FPTPSeed,
		Districts: generateDistricts(*e, ids),
	}
	id, err := saveSnapshot(q, e.ID, models.MethodFPTP, now, snap)
	if err != nil {
		return err
	}
	e.FPTPSnapshotID = &id
	return nil
}

// electedCount returns how many candidates the current STV snapshot elected.
func electedCount(q querier, e models.Election) (int, error) {
	if e.STVSnapshotID == nil {
		return 0, nil
	}
	var snap models.STVSnapshot
	if _, err := loadSnapshot(q, *e.STVSnapshotID, &snap); err != nil {
		return 0, err
	}
	return len(snap.Result.Elected), nil
}
