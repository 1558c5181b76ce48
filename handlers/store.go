// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/danielhkuo/voteviz/auth"
	"github.com/danielhkuo/voteviz/candidates"
	"github.com/danielhkuo/voteviz/models"
	"github.com/danielhkuo/voteviz/stv"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

const electionColumns = `
	id, title, share_slug, seats, voters, districts, electors, fptp_mode,
	fptp_seed, ballot_seed, fptp_snapshot_id, stv_snapshot_id, created_at, updated_at`

func scanElection(row *sql.Row) (models.Election, error) {
	var e models.Election
	err := row.Scan(
		&e.ID, &e.Title, &e.ShareSlug, &e.Seats, &e.Voters, &e.Districts,
		&e.ElectorsPerDistrict, &e.FPTPMode, &e.FPTPSeed, &e.BallotSeed,
		&e.FPTPSnapshotID, &e.STVSnapshotID, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// loadElection returns sql.ErrNoRows when no election has the given ID.
func loadElection(q querier, electionID string) (models.Election, error) {
	return scanElection(q.QueryRow(`SELECT`+electionColumns+` FROM election WHERE id = $1`, electionID))
}

// loadElectionBySlug returns sql.ErrNoRows when no election has the slug.
func loadElectionBySlug(q querier, slug string) (models.Election, error) {
	return scanElection(q.QueryRow(`SELECT`+electionColumns+` FROM election WHERE share_slug = $1`, slug))
}

func insertElection(q querier, e models.Election) error {
	_, err := q.Exec(`
		INSERT INTO election (id, title, share_slug, seats, voters, districts, electors,
		                      fptp_mode, fptp_seed, ballot_seed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, e.ID, e.Title, e.ShareSlug, e.Seats, e.Voters, e.Districts, e.ElectorsPerDistrict,
		e.FPTPMode, e.FPTPSeed, e.BallotSeed, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert election: %w", err)
	}
	return nil
}

// updateElection writes parameters, seeds and snapshot pointers back.
func updateElection(q querier, e models.Election) error {
	_, err := q.Exec(`
		UPDATE election
		SET seats = $1, voters = $2, districts = $3, electors = $4, fptp_mode = $5,
		    fptp_seed = $6, ballot_seed = $7, fptp_snapshot_id = $8, stv_snapshot_id = $9,
		    updated_at = $10
		WHERE id = $11
	`, e.Seats, e.Voters, e.Districts, e.ElectorsPerDistrict, e.FPTPMode,
		e.FPTPSeed, e.BallotSeed, e.FPTPSnapshotID, e.STVSnapshotID, e.UpdatedAt, e.ID)
	if err != nil {
		return fmt.Errorf("update election: %w", err)
	}
	return nil
}

// loadCandidates returns the election's candidates in registry order.
func loadCandidates(q querier, electionID string) ([]candidates.Candidate, error) {
	rows, err := q.Query(`
		SELECT id, name, color
		FROM candidate
		WHERE election_id = $1
		ORDER BY seq
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	list := []candidates.Candidate{}
	for rows.Next() {
		var c candidates.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Color); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// saveCandidates replaces the stored registry with reg.
func saveCandidates(q querier, electionID string, reg *candidates.Registry) error {
	if _, err := q.Exec(`DELETE FROM candidate WHERE election_id = $1`, electionID); err != nil {
		return fmt.Errorf("delete candidates: %w", err)
	}
	for i, c := range reg.Values() {
		_, err := q.Exec(`
			INSERT INTO candidate (election_id, id, seq, name, color)
			VALUES ($1, $2, $3, $4, $5)
		`, electionID, c.ID, i, c.Name, c.Color)
		if err != nil {
			return fmt.Errorf("insert candidate %s: %w", c.ID, err)
		}
	}
	return nil
}

// loadBallots returns the election's ballots by voter index.
func loadBallots(q querier, electionID string) ([]stv.Ballot, error) {
	rows, err := q.Query(`
		SELECT ranking
		FROM ballot
		WHERE election_id = $1
		ORDER BY seq
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("query ballots: %w", err)
	}
	defer rows.Close()

	ballots := []stv.Ballot{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan ballot: %w", err)
		}
		var b stv.Ballot
		if err := json.Unmarshal([]byte(raw), &b); err != nil {
			return nil, fmt.Errorf("decode ballot %d: %w", len(ballots), err)
		}
		ballots = append(ballots, b)
	}
	return ballots, rows.Err()
}

// saveBallots replaces every stored ballot of the election.
func saveBallots(q querier, electionID string, ballots []stv.Ballot) error {
	if _, err := q.Exec(`DELETE FROM ballot WHERE election_id = $1`, electionID); err != nil {
		return fmt.Errorf("delete ballots: %w", err)
	}
	for i, b := range ballots {
		raw, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("encode ballot %d: %w", i, err)
		}
		_, err = q.Exec(`
			INSERT INTO ballot (election_id, seq, ranking)
			VALUES ($1, $2, $3)
		`, electionID, i, string(raw))
		if err != nil {
			return fmt.Errorf("insert ballot %d: %w", i, err)
		}
	}
	return nil
}

func updateBallot(q querier, electionID string, index int, b stv.Ballot) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode ballot %d: %w", index, err)
	}
	_, err = q.Exec(`
		UPDATE ballot SET ranking = $1
		WHERE election_id = $2 AND seq = $3
	`, string(raw), electionID, index)
	if err != nil {
		return fmt.Errorf("update ballot %d: %w", index, err)
	}
	return nil
}

// saveSnapshot stores payload as a new result snapshot and returns its ID.
func saveSnapshot(q querier, electionID, method string, computedAt time.Time, payload any) (string, error) {
	snapshotID, err := auth.GenerateID(16)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode %s snapshot: %w", method, err)
	}
	_, err = q.Exec(`
		INSERT INTO result_snapshot (id, election_id, method, computed_at, payload)
		VALUES ($1, $2, $3, $4, $5)
	`, snapshotID, electionID, method, computedAt, string(raw))
	if err != nil {
		return "", fmt.Errorf("insert %s snapshot: %w", method, err)
	}
	return snapshotID, nil
}

// loadSnapshot decodes the payload of snapshotID into v.
func loadSnapshot(q querier, snapshotID string, v any) (time.Time, error) {
	var raw string
	var computedAt time.Time
	err := q.QueryRow(`
		SELECT payload, computed_at
		FROM result_snapshot
		WHERE id = $1
	`, snapshotID).Scan(&raw, &computedAt)
	if err != nil {
		return time.Time{}, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return time.Time{}, fmt.Errorf("decode snapshot %s: %w", snapshotID, err)
	}
	return computedAt, nil
}
