package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"readiness-workers/internal/engine/scoring"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const retailerProfile = `{
  "requestId": "cli-1",
  "businessProfile": {
    "businessId": "biz-7",
    "companyName": "Northern Threads",
    "ukRegistered": "No",
    "industry": "Retail",
    "companySize": "1-10 employees",
    "foundingYear": 2021,
    "targetMarkets": ["UK"]
  }
}`

const partnerCatalog = `[
  {"id": "legal-1", "name": "Smith & Co", "category": "Legal", "location": "London", "verified": true, "specialties": ["retail", "startup incorporation"]},
  {"id": "mkt-1", "name": "Brightside", "category": "marketing", "location": "London", "verified": true, "specialties": ["retail branding"]}
]`

// ==========================
// Command Tests
// ==========================

func TestScoreCommand(t *testing.T) {
	out, err := runCommand(t, retailerProfile, "score", "--as-of", "2026-03-01")
	require.NoError(t, err)

	var output struct {
		RequestID     string         `json:"requestId"`
		ScoringResult scoring.Result `json:"scoringResult"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &output))
	assert.Equal(t, "cli-1", output.RequestID)
	assert.Len(t, output.ScoringResult.ScoreBreakdown, len(scoring.Categories))
	assert.Equal(t, 0, output.ScoringResult.Score(scoring.RegulatoryCompatibility))
}

func TestScoreCommand_Errors(t *testing.T) {
	_, err := runCommand(t, "", "score", "--in", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read")

	_, err = runCommand(t, "not json", "score")
	assert.ErrorContains(t, err, "failed to parse")

	_, err = runCommand(t, retailerProfile, "score", "--as-of", "March")
	assert.ErrorContains(t, err, "invalid --as-of")
}

func TestMatchCommand(t *testing.T) {
	scored, err := runCommand(t, retailerProfile, "score", "--as-of", "2026-03-01")
	require.NoError(t, err)

	var vars map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(retailerProfile), &vars))
	var scoreOut map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(scored), &scoreOut))
	vars["scoringResult"] = scoreOut["scoringResult"]
	vars["categories"] = []string{"legal"}
	input, err := json.Marshal(vars)
	require.NoError(t, err)

	partners := writeFile(t, "partners.json", partnerCatalog)
	out, err := runCommand(t, "", "match", "--in", writeFile(t, "vars.json", string(input)), "--partners", partners)
	require.NoError(t, err)

	var output struct {
		Recommendations []struct {
			Category string `json:"category"`
		} `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &output))
	require.Len(t, output.Recommendations, 1)
	assert.Equal(t, "legal", output.Recommendations[0].Category)
}

func TestMatchCommand_RequiresPartners(t *testing.T) {
	_, err := runCommand(t, retailerProfile, "match")
	assert.ErrorContains(t, err, "partners")
}

func TestLatestCommand(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	original := openResultsDB
	openResultsDB = func(context.Context, string) (*sql.DB, error) { return db, nil }
	t.Cleanup(func() { openResultsDB = original })

	query := regexp.QuoteMeta(`SELECT result FROM readiness_results WHERE business_id = $1 ORDER BY created_at DESC LIMIT 1`)
	mock.ExpectQuery(query).WithArgs("biz-7").
		WillReturnRows(sqlmock.NewRows([]string{"result"}).AddRow([]byte(`{"overallScore":64,"confidenceLevel":"medium"}`)))

	out, err := runCommand(t, "", "latest", "--business-id", "biz-7")
	require.NoError(t, err)
	assert.Contains(t, out, `"overallScore": 64`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestCommand_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	original := openResultsDB
	openResultsDB = func(context.Context, string) (*sql.DB, error) { return db, nil }
	t.Cleanup(func() { openResultsDB = original })

	mock.ExpectQuery("SELECT result FROM readiness_results").WithArgs("biz-404").
		WillReturnRows(sqlmock.NewRows([]string{"result"}))

	_, err = runCommand(t, "", "latest", "--business-id", "biz-404")
	assert.ErrorContains(t, err, "no scoring result stored for business biz-404")
}
