package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"readiness-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Postgres
// ==========================

var partnerRowColumns = []string{"id", "name", "category", "description", "specialties", "location", "verified", "website", "contact_email"}

func TestPostgresPartnerStore_ListPartners(t *testing.T) {
	tests := []struct {
		name        string
		categories  []string
		maxPool     int
		wantQuery   string
		args        int
		categoryArg string
	}{
		{
			name:      "all categories without limit",
			wantQuery: "SELECT " + partnerColumns + " FROM partners WHERE active ORDER BY id",
		},
		{
			name:        "filtered and limited",
			categories:  []string{"legal", "accounting"},
			maxPool:     50,
			wantQuery:   "SELECT " + partnerColumns + " FROM partners WHERE active AND lower(category) = ANY($1) ORDER BY id LIMIT $2",
			args:        2,
			categoryArg: `{"legal","accounting"}`,
		},
		{
			name:        "filter is case-insensitive",
			categories:  []string{"Legal", " ACCOUNTING "},
			maxPool:     50,
			wantQuery:   "SELECT " + partnerColumns + " FROM partners WHERE active AND lower(category) = ANY($1) ORDER BY id LIMIT $2",
			args:        2,
			categoryArg: `{"legal","accounting"}`,
		},
		{
			name:      "limit only",
			maxPool:   10,
			wantQuery: "SELECT " + partnerColumns + " FROM partners WHERE active ORDER BY id LIMIT $1",
			args:      1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			rows := sqlmock.NewRows(partnerRowColumns).
				AddRow("legal-1", "Harbour Legal", "legal", "Company formation", `{"company formation",technology}`, "London", true, "https://harbour.example", "hello@harbour.example").
				AddRow("acct-1", "Ledger & Co", "accounting", "", "{}", "", false, "", "")

			expect := mock.ExpectQuery(regexp.QuoteMeta(tt.wantQuery))
			switch tt.args {
			case 1:
				expect = expect.WithArgs(tt.maxPool)
			case 2:
				expect = expect.WithArgs(tt.categoryArg, tt.maxPool)
			}
			expect.WillReturnRows(rows)

			store := NewPostgresPartnerStore(db, tt.maxPool)
			partners, err := store.ListPartners(context.Background(), tt.categories)
			require.NoError(t, err)
			require.Len(t, partners, 2)

			assert.Equal(t, "Harbour Legal", partners[0].Name)
			assert.Equal(t, []string{"company formation", "technology"}, partners[0].Specialties)
			assert.True(t, partners[0].Verified)
			assert.Empty(t, partners[1].Specialties)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresPartnerStore_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)

	_, err = NewPostgresPartnerStore(db, 0).ListPartners(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestPostgresPartnerStore_EmptyCatalog(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(partnerRowColumns))

	partners, err := NewPostgresPartnerStore(db, 0).ListPartners(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, partners)
	assert.Empty(t, partners)
}

// ==========================
// Elasticsearch
// ==========================

func newSearchServer(t *testing.T, status int, body string, captured *map[string]interface{}) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil && r.Body != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, captured)
		}
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

const searchResponse = `{
  "hits": {
    "hits": [
      {"_id": "mkt-1", "_source": {"id": "mkt-1", "name": "Brightside Digital", "category": "marketing", "specialties": ["seo", "retail"], "verified": true}},
      {"_id": "mkt-2", "_source": {"name": "Northwind Media", "category": "marketing"}}
    ]
  }
}`

func TestElasticsearchPartnerStore_ListPartners(t *testing.T) {
	var query map[string]interface{}
	client := newSearchServer(t, http.StatusOK, searchResponse, &query)

	store := NewElasticsearchPartnerStore(client, "partners", 25)
	partners, err := store.ListPartners(context.Background(), []string{" Marketing"})
	require.NoError(t, err)
	require.Len(t, partners, 2)

	assert.Equal(t, "Brightside Digital", partners[0].Name)
	assert.Equal(t, []string{"seo", "retail"}, partners[0].Specialties)
	assert.Equal(t, "mkt-2", partners[1].ID, "falls back to the document id")

	assert.EqualValues(t, 25, query["size"])
	filters := query["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].([]interface{})
	require.Len(t, filters, 1)
	terms := filters[0].(map[string]interface{})["terms"].(map[string]interface{})
	assert.Equal(t, []interface{}{"marketing"}, terms["category"])
}

func TestElasticsearchPartnerStore_NoCategoryFilter(t *testing.T) {
	store := &ElasticsearchPartnerStore{index: "partners"}
	query := store.buildQuery(nil)

	assert.Equal(t, 10000, query["size"])
	filters := query["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].([]interface{})
	assert.Empty(t, filters)
}

func TestElasticsearchPartnerStore_ErrorStatus(t *testing.T) {
	client := newSearchServer(t, http.StatusInternalServerError, `{"error":"boom"}`, nil)

	_, err := NewElasticsearchPartnerStore(client, "partners", 0).ListPartners(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "partner search error")
}

// ==========================
// Shared fixtures
// ==========================

type stubPartnerStore struct {
	partners []models.PartnerRecord
	err      error
	calls    int
}

func (s *stubPartnerStore) ListPartners(_ context.Context, _ []string) ([]models.PartnerRecord, error) {
	s.calls++
	return s.partners, s.err
}

func samplePartners() []models.PartnerRecord {
	return []models.PartnerRecord{
		{ID: "legal-1", Name: "Harbour Legal", Category: "legal", Verified: true},
		{ID: "acct-1", Name: "Ledger & Co", Category: "accounting"},
	}
}
