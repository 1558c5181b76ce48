// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"testing"

	"github.com/danielhkuo/voteviz/cliparse"
	"github.com/danielhkuo/voteviz/models"
	"github.com/danielhkuo/voteviz/stv"
	"github.com/danielhkuo/voteviz/testutil"
)

func getSTVResults(t *testing.T, conn *sql.DB, cfg cliparse.Config, slug string) models.STVResults {
	t.Helper()

	h := NewSTVHandler(conn, cfg)
	req := testutil.MakeRequest("GET", "/elections/"+slug+"/stv", nil, nil)
	req.SetPathValue("slug", slug)
	w := httptest.NewRecorder()
	h.GetResults(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GetResults: expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	var results models.STVResults
	testutil.AssertJSON(t, w, &results)
	return results
}

func getBallot(conn *sql.DB, cfg cliparse.Config, slug, index string) *httptest.ResponseRecorder {
	h := NewSTVHandler(conn, cfg)
	req := testutil.MakeRequest("GET", "/elections/"+slug+"/ballots/"+index, nil, nil)
	req.SetPathValue("slug", slug)
	req.SetPathValue("index", index)
	w := httptest.NewRecorder()
	h.GetBallot(w, req)
	return w
}

func putBallot(conn *sql.DB, cfg cliparse.Config, electionID string, index int, ranking []string) *httptest.ResponseRecorder {
	h := NewSTVHandler(conn, cfg)
	path := "/elections/" + electionID + "/ballots/" + strconv.Itoa(index)
	req := testutil.MakeRequest("PUT", path, models.UpdateBallotRequest{Ranking: ranking}, testutil.AdminHeaders(cfg, electionID))
	req.SetPathValue("id", electionID)
	req.SetPathValue("index", strconv.Itoa(index))
	w := httptest.NewRecorder()
	h.UpdateBallot(w, req)
	return w
}

// rankingAt returns the candidate IDs of one ballot view, first preference first.
func rankingAt(t *testing.T, conn *sql.DB, cfg cliparse.Config, slug string, index int) []string {
	t.Helper()

	w := getBallot(conn, cfg, slug, strconv.Itoa(index))
	if w.Code != http.StatusOK {
		t.Fatalf("GetBallot: expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}
	var view models.BallotView
	testutil.AssertJSON(t, w, &view)

	ids := make([]string, len(view.Ranking))
	for i, entry := range view.Ranking {
		ids[i] = entry.CandidateID
	}
	return ids
}

// scenarioRankings lays out nine ballots over candidates a, b and c:
// four a>b>c, three b>a>c and two c>b>a.
func scenarioRankings(a, b, c string) [][]string {
	rankings := make([][]string, 0, 9)
	for range 4 {
		rankings = append(rankings, []string{a, b, c})
	}
	for range 3 {
		rankings = append(rankings, []string{b, a, c})
	}
	for range 2 {
		rankings = append(rankings, []string{c, b, a})
	}
	return rankings
}

func TestSTVGetResults(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	resp := createElection(t, conn, cfg, fruitElection())

	results := getSTVResults(t, conn, cfg, resp.ShareSlug)

	if results.ElectionID != resp.ElectionID {
		t.Errorf("Expected election %s, got %s", resp.ElectionID, results.ElectionID)
	}
	if results.Quota != stv.Quota(9, 1) {
		t.Errorf("Expected quota %d, got %d", stv.Quota(9, 1), results.Quota)
	}
	if len(results.Elected) != 1 {
		t.Errorf("Expected 1 elected, got %v", results.Elected)
	}
	if len(results.Rounds) != 3 {
		t.Errorf("Expected a track per candidate, got %d", len(results.Rounds))
	}
	if len(results.Candidates) != 3 {
		t.Errorf("Expected 3 candidates, got %d", len(results.Candidates))
	}

	total := 0
	for _, n := range results.FirstPreferences {
		total += n
	}
	if total != 9 {
		t.Errorf("Expected first preferences to sum to 9, got %d", total)
	}
	if len(results.SincereWinners) == 0 {
		t.Error("Expected at least one sincere winner")
	}
	if results.Message == "" {
		t.Error("Expected a sincere-vote message")
	}

	t.Run("unknown slug", func(t *testing.T) {
		h := NewSTVHandler(conn, cfg)
		req := testutil.MakeRequest("GET", "/elections/missing/stv", nil, nil)
		req.SetPathValue("slug", "missing")
		w := httptest.NewRecorder()
		h.GetResults(w, req)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestGetBallot(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	resp := createElection(t, conn, cfg, fruitElection())

	w := getBallot(conn, cfg, resp.ShareSlug, "0")
	testutil.AssertStatus(t, w, http.StatusOK)

	var view models.BallotView
	testutil.AssertJSON(t, w, &view)
	if view.Index != 0 || view.Voters != 9 {
		t.Errorf("Expected index 0 of 9, got %d of %d", view.Index, view.Voters)
	}
	if len(view.Ranking) != 3 {
		t.Fatalf("Expected 3 ranked candidates, got %d", len(view.Ranking))
	}
	for i, want := range []string{"1st", "2nd", "3rd"} {
		entry := view.Ranking[i]
		if entry.Order != i+1 || entry.Ordinal != want {
			t.Errorf("Entry %d: expected order %d (%s), got %d (%s)", i, i+1, want, entry.Order, entry.Ordinal)
		}
		if entry.Name == "" || entry.Color == "" {
			t.Errorf("Entry %d: expected name and colour, got %+v", i, entry)
		}
	}

	tests := []struct {
		index string
		want  int
	}{
		{"-1", 8},
		{"9", 0},
		{"10", 1},
		{"-10", 8},
	}
	for _, tt := range tests {
		t.Run("wraps "+tt.index, func(t *testing.T) {
			w := getBallot(conn, cfg, resp.ShareSlug, tt.index)
			testutil.AssertStatus(t, w, http.StatusOK)

			var view models.BallotView
			testutil.AssertJSON(t, w, &view)
			if view.Index != tt.want {
				t.Errorf("Expected index %d, got %d", tt.want, view.Index)
			}
		})
	}

	if got, want := rankingAt(t, conn, cfg, resp.ShareSlug, -1), rankingAt(t, conn, cfg, resp.ShareSlug, 8); !slices.Equal(got, want) {
		t.Errorf("Expected ballot -1 to be ballot 8, got %v and %v", got, want)
	}

	t.Run("bad index", func(t *testing.T) {
		w := getBallot(conn, cfg, resp.ShareSlug, "abc")
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("unknown slug", func(t *testing.T) {
		w := getBallot(conn, cfg, "missing", "0")
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestUpdateBallotScenario(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	resp := createElection(t, conn, cfg, fruitElection())
	e := getAdmin(t, conn, cfg, resp.ElectionID)
	apple, orange, melon := e.Candidates[0].ID, e.Candidates[1].ID, e.Candidates[2].ID

	var last models.UpdateBallotResponse
	for i, ranking := range scenarioRankings(apple, orange, melon) {
		w := putBallot(conn, cfg, resp.ElectionID, i, ranking)
		testutil.AssertStatus(t, w, http.StatusOK)
		testutil.AssertJSON(t, w, &last)
		if last.Index != i {
			t.Errorf("Ballot %d: response index %d", i, last.Index)
		}
	}

	results := last.Results
	if results.Quota != 5 {
		t.Errorf("Expected quota 5, got %d", results.Quota)
	}
	if !slices.Equal(results.Elected, []string{orange}) {
		t.Errorf("Expected Orange to be elected, got %v", results.Elected)
	}

	tracks := make(map[string][]stv.Status, len(results.Rounds))
	for _, r := range results.Rounds {
		tracks[r.CandidateID] = r.Statuses
	}
	wantTracks := map[string][]stv.Status{
		apple:  {stv.Votes(4), stv.Votes(4)},
		orange: {stv.Votes(3), stv.Votes(5), stv.Elected},
		melon:  {stv.Votes(2), stv.Eliminated},
	}
	for id, want := range wantTracks {
		if !slices.Equal(tracks[id], want) {
			t.Errorf("Candidate %s: expected track %v, got %v", id, want, tracks[id])
		}
	}

	if !slices.Equal(results.SincereWinners, []string{apple}) || results.SincereVotes != 4 {
		t.Errorf("Expected Apple as sincere winner with 4 votes, got %v with %d", results.SincereWinners, results.SincereVotes)
	}
	wantMessage := "If everybody voted for their first priority, the winner would be Apple with 4 first priority votes, this equals 44.44% of the popular vote"
	if results.Message != wantMessage {
		t.Errorf("Expected message %q, got %q", wantMessage, results.Message)
	}

	stored := getSTVResults(t, conn, cfg, resp.ShareSlug)
	if stored.SnapshotID != results.SnapshotID {
		t.Errorf("Expected the stored snapshot %s, got %s", results.SnapshotID, stored.SnapshotID)
	}

	t.Run("unchanged ballot", func(t *testing.T) {
		w := putBallot(conn, cfg, resp.ElectionID, 0, []string{apple, orange, melon})
		testutil.AssertStatus(t, w, http.StatusOK)

		var out models.UpdateBallotResponse
		testutil.AssertJSON(t, w, &out)
		if out.Changed {
			t.Error("Expected an identical ranking to report no change")
		}
		if out.Results.SnapshotID != results.SnapshotID {
			t.Error("Expected an identical ranking to keep the snapshot")
		}
	})

	t.Run("negative index", func(t *testing.T) {
		w := putBallot(conn, cfg, resp.ElectionID, -1, []string{orange, melon, apple})
		testutil.AssertStatus(t, w, http.StatusOK)

		var out models.UpdateBallotResponse
		testutil.AssertJSON(t, w, &out)
		if out.Index != 8 || !out.Changed {
			t.Errorf("Expected ballot 8 to change, got index %d changed %v", out.Index, out.Changed)
		}
		if got := rankingAt(t, conn, cfg, resp.ShareSlug, 8); !slices.Equal(got, []string{orange, melon, apple}) {
			t.Errorf("Expected ballot 8 to be stored, got %v", got)
		}
	})
}

func TestUpdateBallotValidation(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	resp := createElection(t, conn, cfg, fruitElection())
	e := getAdmin(t, conn, cfg, resp.ElectionID)
	a, b, c := e.Candidates[0].ID, e.Candidates[1].ID, e.Candidates[2].ID

	tests := []struct {
		name    string
		ranking []string
	}{
		{"empty", nil},
		{"missing candidate", []string{a, b}},
		{"duplicate candidate", []string{a, b, b}},
		{"unknown candidate", []string{a, b, "ghost"}},
		{"extra candidate", []string{a, b, c, "ghost"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := putBallot(conn, cfg, resp.ElectionID, 0, tt.ranking)
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}

	t.Run("bad index", func(t *testing.T) {
		h := NewSTVHandler(conn, cfg)
		req := testutil.MakeRequest("PUT", "/elections/"+resp.ElectionID+"/ballots/first",
			models.UpdateBallotRequest{Ranking: []string{a, b, c}}, testutil.AdminHeaders(cfg, resp.ElectionID))
		req.SetPathValue("id", resp.ElectionID)
		req.SetPathValue("index", "first")
		w := httptest.NewRecorder()
		h.UpdateBallot(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("wrong key", func(t *testing.T) {
		h := NewSTVHandler(conn, cfg)
		req := testutil.MakeRequest("PUT", "/elections/"+resp.ElectionID+"/ballots/0",
			models.UpdateBallotRequest{Ranking: []string{a, b, c}}, nil)
		req.SetPathValue("id", resp.ElectionID)
		req.SetPathValue("index", "0")
		w := httptest.NewRecorder()
		h.UpdateBallot(w, req)
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})
}

func TestRegenerateBallots(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	resp := createElection(t, conn, cfg, fruitElection())
	e := getAdmin(t, conn, cfg, resp.ElectionID)

	original := rankingAt(t, conn, cfg, resp.ShareSlug, 0)
	edited := []string{original[2], original[1], original[0]}
	testutil.AssertStatus(t, putBallot(conn, cfg, resp.ElectionID, 0, edited), http.StatusOK)
	if got := rankingAt(t, conn, cfg, resp.ShareSlug, 0); !slices.Equal(got, edited) {
		t.Fatalf("Expected edited ballot %v, got %v", edited, got)
	}

	h := NewSTVHandler(conn, cfg)
	req := testutil.MakeRequest("POST", "/elections/"+resp.ElectionID+"/ballots/regenerate", nil, testutil.AdminHeaders(cfg, resp.ElectionID))
	req.SetPathValue("id", resp.ElectionID)
	w := httptest.NewRecorder()
	h.RegenerateBallots(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var results models.STVResults
	testutil.AssertJSON(t, w, &results)
	if len(results.Elected) != 1 {
		t.Errorf("Expected 1 elected, got %v", results.Elected)
	}
	if results.SnapshotID == *e.Election.STVSnapshotID {
		t.Error("Expected a new STV snapshot")
	}
	if n := testutil.CountRows(t, conn, "ballot", resp.ElectionID); n != 9 {
		t.Errorf("Expected 9 ballots, got %d", n)
	}

	// The fixed seed makes regeneration reproduce the original ballots.
	if got := rankingAt(t, conn, cfg, resp.ShareSlug, 0); !slices.Equal(got, original) {
		t.Errorf("Expected regenerated ballot %v, got %v", original, got)
	}

	after := getAdmin(t, conn, cfg, resp.ElectionID)
	if *after.Election.FPTPSnapshotID != *e.Election.FPTPSnapshotID {
		t.Error("Expected FPTP results to be kept")
	}
}
