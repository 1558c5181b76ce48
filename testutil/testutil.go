// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package testutil provides an in-memory database and HTTP helpers for tests.
package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/voteviz/auth"
	"github.com/danielhkuo/voteviz/cliparse"
	"github.com/danielhkuo/voteviz/db"
)

// TestSeed fixes every random draw made with GetTestConfig.
const TestSeed = 20240229

// SetupTestDB opens a fresh in-memory SQLite database with the full schema.
// The database is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(cliparse.DatabaseSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		DatabaseType:     cliparse.DatabaseSQLite,
		DatabaseURL:      ":memory:",
		AdminKeySalt:     "test-admin-salt",
		ShareSlugSalt:    "test-slug-salt",
		Seed:             TestSeed,
		DefaultVoters:    100,
		DefaultDistricts: 17,
		DefaultElectors:  100,
	}
}

// AdminHeaders returns the admin key header for electionID.
func AdminHeaders(cfg cliparse.Config, electionID string) map[string]string {
	return map[string]string{auth.AdminKeyHeader: auth.GenerateAdminKey(electionID, cfg.AdminKeySalt)}
}

// CountRows counts the rows of table that belong to electionID.
func CountRows(t *testing.T, conn *sql.DB, table, electionID string) int {
	t.Helper()

	var n int
	err := conn.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE election_id = $1", electionID).Scan(&n)
	if err != nil {
		t.Fatalf("Failed to count %s rows: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
