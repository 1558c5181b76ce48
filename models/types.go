// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/danielhkuo/voteviz/candidates"
	"github.com/danielhkuo/voteviz/fptp"
	"github.com/danielhkuo/voteviz/stv"
)

// Result snapshot methods
const (
	MethodFPTP = "fptp"
	MethodSTV  = "stv"
)

// FPTP generation modes
const (
	ModeRandom              = "random"
	ModeUnderrepresentation = "underrepresentation"
)

// Limits keep simulations in the small-electorate range.
const (
	MaxCandidates = 20
	MaxVoters     = 1000
	MaxDistricts  = 100
	MaxElectors   = 100000
)

// Request types

type CandidateInput struct {
	ID    string `json:"id,omitempty"` // empty for a new candidate
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type CreateElectionRequest struct {
	Title               string           `json:"title"`
	Candidates          []CandidateInput `json:"candidates"`
	Seats               int              `json:"seats,omitempty"`
	Voters              int              `json:"voters,omitempty"`
	Districts           int              `json:"districts,omitempty"`
	ElectorsPerDistrict int              `json:"electors_per_district,omitempty"`
	FPTPMode            string           `json:"fptp_mode,omitempty"`
}

type UpdateCandidatesRequest struct {
	Candidates []CandidateInput `json:"candidates"`
	Regenerate bool             `json:"regenerate,omitempty"`
}

// nil fields are left unchanged
type UpdateSettingsRequest struct {
	Seats               *int `json:"seats,omitempty"`
	Voters              *int `json:"voters,omitempty"`
	Districts           *int `json:"districts,omitempty"`
	ElectorsPerDistrict *int `json:"electors_per_district,omitempty"`
}

type SimulateFPTPRequest struct {
	Mode string `json:"mode"`
}

// Ranking lists candidate IDs, first preference first
type UpdateBallotRequest struct {
	Ranking []string `json:"ranking"`
}

// Response types

type CreateElectionResponse struct {
	ElectionID string `json:"election_id"`
	AdminKey   string `json:"admin_key"`
	ShareSlug  string `json:"share_slug"`
}

type UpdateElectionResponse struct {
	Election   ElectionWithCandidates `json:"election"`
	STVAction  string                 `json:"stv_action"`
	FPTPAction string                 `json:"fptp_action"`
}

type UpdateBallotResponse struct {
	Index   int        `json:"index"`
	Changed bool       `json:"changed"`
	Results STVResults `json:"results"`
}

// Domain types

type Election struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	ShareSlug           string    `json:"share_slug"`
	Seats               int       `json:"seats"`
	Voters              int       `json:"voters"`
	Districts           int       `json:"districts"`
	ElectorsPerDistrict int       `json:"electors_per_district"`
	FPTPMode            string    `json:"fptp_mode"`
	FPTPSeed            int64     `json:"fptp_seed"`
	BallotSeed          int64     `json:"ballot_seed"`
	FPTPSnapshotID      *string   `json:"fptp_snapshot_id,omitempty"`
	STVSnapshotID       *string   `json:"stv_snapshot_id,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type ElectionWithCandidates struct {
	Election   Election               `json:"election"`
	Candidates []candidates.Candidate `json:"candidates"`
}

// Snapshot payloads, stored as JSON in result_snapshot

type FPTPSnapshot struct {
	Mode      string                `json:"mode"`
	Seed      int64                 `json:"seed"`
	Districts []fptp.DistrictResult `json:"districts"`
}

type STVSnapshot struct {
	Seats            int            `json:"seats"`
	Voters           int            `json:"voters"`
	Result           stv.Result     `json:"result"`
	FirstPreferences map[string]int `json:"first_preferences"`
}

// Result views

type DistrictView struct {
	District string         `json:"district"`
	Votes    map[string]int `json:"votes"`
	Winner   string         `json:"winner,omitempty"`
	Tied     bool           `json:"tied"`
}

type FPTPResults struct {
	ElectionID string                 `json:"election_id"`
	SnapshotID string                 `json:"snapshot_id"`
	ComputedAt time.Time              `json:"computed_at"`
	Mode       string                 `json:"mode"`
	Seed       int64                  `json:"seed"`
	Candidates []candidates.Candidate `json:"candidates"`
	Districts  []DistrictView         `json:"districts"`
	Summary    fptp.Summary           `json:"summary"`
	Message    string                 `json:"message"`
}

type STVResults struct {
	ElectionID       string                 `json:"election_id"`
	SnapshotID       string                 `json:"snapshot_id"`
	ComputedAt       time.Time              `json:"computed_at"`
	Seats            int                    `json:"seats"`
	Voters           int                    `json:"voters"`
	Candidates       []candidates.Candidate `json:"candidates"`
	Quota            int                    `json:"quota"`
	Rounds           []stv.CandidateRounds  `json:"rounds"`
	Elected          []string               `json:"elected"`
	Events           []stv.Event            `json:"events"`
	FirstPreferences map[string]int         `json:"first_preferences"`
	SincereWinners   []string               `json:"sincere_winners"`
	SincereVotes     int                    `json:"sincere_votes"`
	Message          string                 `json:"message"`
}

type BallotEntry struct {
	Order       int    `json:"order"`
	Ordinal     string `json:"ordinal"` // "1st", "2nd", ...
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
}

type BallotView struct {
	Index   int           `json:"index"`
	Voters  int           `json:"voters"`
	Ranking []BallotEntry `json:"ranking"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
