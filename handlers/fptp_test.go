// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/voteviz/cliparse"
	"github.com/danielhkuo/voteviz/fptp"
	"github.com/danielhkuo/voteviz/models"
	"github.com/danielhkuo/voteviz/testutil"
)

func simulateFPTP(conn *sql.DB, cfg cliparse.Config, electionID string, body any) *httptest.ResponseRecorder {
	h := NewFPTPHandler(conn, cfg)
	req := testutil.MakeRequest("POST", "/elections/"+electionID+"/fptp/simulate", body, testutil.AdminHeaders(cfg, electionID))
	req.SetPathValue("id", electionID)
	w := httptest.NewRecorder()
	h.Simulate(w, req)
	return w
}

func getFPTPResults(t *testing.T, conn *sql.DB, cfg cliparse.Config, slug string) models.FPTPResults {
	t.Helper()

	h := NewFPTPHandler(conn, cfg)
	req := testutil.MakeRequest("GET", "/elections/"+slug+"/fptp", nil, nil)
	req.SetPathValue("slug", slug)
	w := httptest.NewRecorder()
	h.GetResults(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GetResults: expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	var results models.FPTPResults
	testutil.AssertJSON(t, w, &results)
	return results
}

func standingOf(summary fptp.Summary, candidateID string) fptp.Standing {
	for _, s := range summary.Standings {
		if s.CandidateID == candidateID {
			return s
		}
	}
	return fptp.Standing{}
}

func TestFPTPGetResults(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	resp := createElection(t, conn, cfg, fruitElection())

	results := getFPTPResults(t, conn, cfg, resp.ShareSlug)

	if results.Mode != models.ModeRandom {
		t.Errorf("Expected mode %q, got %q", models.ModeRandom, results.Mode)
	}
	if results.Seed != testutil.TestSeed {
		t.Errorf("Expected seed %d, got %d", testutil.TestSeed, results.Seed)
	}
	if len(results.Districts) != 17 {
		t.Fatalf("Expected 17 districts, got %d", len(results.Districts))
	}

	for _, d := range results.Districts {
		total := 0
		for _, n := range d.Votes {
			total += n
		}
		if total != 100 {
			t.Errorf("District %s: expected 100 votes, got %d", d.District, total)
		}
		if d.Tied != (d.Winner == "") {
			t.Errorf("District %s: tied %v with winner %q", d.District, d.Tied, d.Winner)
		}
	}

	summary := results.Summary
	if summary.TotalDistricts != 17 || summary.TotalVotes != 1700 {
		t.Errorf("Expected 17 districts and 1700 votes, got %d and %d", summary.TotalDistricts, summary.TotalVotes)
	}
	// Random mode always hands one candidate a bare majority of districts.
	if !summary.Ahead {
		t.Fatalf("Expected a leader with a majority, got %+v", summary)
	}
	if leader := standingOf(summary, summary.Leader); leader.Districts < fptp.MajorityOf(17) {
		t.Errorf("Expected the leader to hold at least %d districts, got %d", fptp.MajorityOf(17), leader.Districts)
	}
	if !strings.HasSuffix(results.Message, "/ 17 districts") || !strings.Contains(results.Message, " won with ") {
		t.Errorf("Unexpected message %q", results.Message)
	}

	t.Run("unknown slug", func(t *testing.T) {
		h := NewFPTPHandler(conn, cfg)
		req := testutil.MakeRequest("GET", "/elections/missing/fptp", nil, nil)
		req.SetPathValue("slug", "missing")
		w := httptest.NewRecorder()
		h.GetResults(w, req)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestFPTPSimulateUnderrepresentation(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	resp := createElection(t, conn, cfg, fruitElection())
	before := getAdmin(t, conn, cfg, resp.ElectionID)

	w := simulateFPTP(conn, cfg, resp.ElectionID, models.SimulateFPTPRequest{Mode: models.ModeUnderrepresentation})
	testutil.AssertStatus(t, w, http.StatusOK)

	var results models.FPTPResults
	testutil.AssertJSON(t, w, &results)
	if results.Mode != models.ModeUnderrepresentation {
		t.Errorf("Expected mode %q, got %q", models.ModeUnderrepresentation, results.Mode)
	}
	if results.SnapshotID == *before.Election.FPTPSnapshotID {
		t.Error("Expected a new FPTP snapshot")
	}

	summary := results.Summary
	if !summary.Ahead {
		t.Fatalf("Expected a formal winner, got %+v", summary)
	}
	leader := standingOf(summary, summary.Leader)
	if leader.Districts != fptp.MajorityOf(17) {
		t.Errorf("Expected the formal winner to take exactly %d districts, got %d", fptp.MajorityOf(17), leader.Districts)
	}
	if leader.PopularVotes != 9*51 {
		t.Errorf("Expected the formal winner to get %d votes, got %d", 9*51, leader.PopularVotes)
	}

	popular := leader
	for _, s := range summary.Standings {
		if s.PopularVotes > popular.PopularVotes {
			popular = s
		}
	}
	if popular.CandidateID == leader.CandidateID {
		t.Error("Expected another candidate to win the popular vote")
	}
	if popular.PopularVotes != 9*49+8*100 {
		t.Errorf("Expected the popular winner to get %d votes, got %d", 9*49+8*100, popular.PopularVotes)
	}

	for _, d := range results.Districts {
		if d.Winner == leader.CandidateID && d.Votes[leader.CandidateID] != 51 {
			t.Errorf("District %s: expected the formal winner to win by one vote with 51, got %d", d.District, d.Votes[leader.CandidateID])
		}
	}

	stored := getFPTPResults(t, conn, cfg, resp.ShareSlug)
	if stored.Mode != models.ModeUnderrepresentation || stored.SnapshotID != results.SnapshotID {
		t.Errorf("Expected the simulation to be stored, got mode %q snapshot %s", stored.Mode, stored.SnapshotID)
	}

	after := getAdmin(t, conn, cfg, resp.ElectionID)
	if after.Election.FPTPMode != models.ModeUnderrepresentation {
		t.Errorf("Expected the election mode to be stored, got %q", after.Election.FPTPMode)
	}
	if *after.Election.STVSnapshotID != *before.Election.STVSnapshotID {
		t.Error("Expected STV results to be kept")
	}
}

func TestFPTPSimulate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	req := fruitElection()
	req.FPTPMode = models.ModeUnderrepresentation
	resp := createElection(t, conn, cfg, req)

	t.Run("empty body defaults to random", func(t *testing.T) {
		w := simulateFPTP(conn, cfg, resp.ElectionID, nil)
		testutil.AssertStatus(t, w, http.StatusOK)

		var results models.FPTPResults
		testutil.AssertJSON(t, w, &results)
		if results.Mode != models.ModeRandom {
			t.Errorf("Expected mode %q, got %q", models.ModeRandom, results.Mode)
		}
	})

	t.Run("bad mode", func(t *testing.T) {
		w := simulateFPTP(conn, cfg, resp.ElectionID, models.SimulateFPTPRequest{Mode: "landslide"})
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("wrong key", func(t *testing.T) {
		h := NewFPTPHandler(conn, cfg)
		r := testutil.MakeRequest("POST", "/elections/"+resp.ElectionID+"/fptp/simulate", nil, nil)
		r.SetPathValue("id", resp.ElectionID)
		w := httptest.NewRecorder()
		h.Simulate(w, r)
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("unknown election", func(t *testing.T) {
		w := simulateFPTP(conn, cfg, "ghost", nil)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}
