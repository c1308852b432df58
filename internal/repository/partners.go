// Package repository holds the partner catalog stores and the scoring result stores.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"readiness-workers/internal/models"

	"github.com/lib/pq"
)

// PartnerStore loads the candidate partner pool. An empty categories slice means every category.
type PartnerStore interface {
	ListPartners(ctx context.Context, categories []string) ([]models.PartnerRecord, error)
}

const partnerColumns = `id, name, category, description, specialties, location, verified, website, contact_email`

// PostgresPartnerStore reads active partners from the partners table.
type PostgresPartnerStore struct {
	db      *sql.DB
	maxPool int
}

func NewPostgresPartnerStore(db *sql.DB, maxPool int) *PostgresPartnerStore {
	return &PostgresPartnerStore{db: db, maxPool: maxPool}
}

func (s *PostgresPartnerStore) ListPartners(ctx context.Context, categories []string) ([]models.PartnerRecord, error) {
	var (
		query strings.Builder
		args  []interface{}
	)
	query.WriteString("SELECT " + partnerColumns + " FROM partners WHERE active")
	if len(categories) > 0 {
		lowered := make([]string, len(categories))
		for i, c := range categories {
			lowered[i] = models.Normalize(c)
		}
		args = append(args, pq.Array(lowered))
		query.WriteString(fmt.Sprintf(" AND lower(category) = ANY($%d)", len(args)))
	}
	query.WriteString(" ORDER BY id")
	if s.maxPool > 0 {
		args = append(args, s.maxPool)
		query.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("partner query failed: %w", err)
	}
	defer rows.Close()

	partners := []models.PartnerRecord{}
	for rows.Next() {
		var p models.PartnerRecord
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Category, &p.Description, pq.Array(&p.Specialties),
			&p.Location, &p.Verified, &p.Website, &p.ContactEmail,
		); err != nil {
			return nil, fmt.Errorf("partner row scan failed: %w", err)
		}
		partners = append(partners, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("partner rows failed: %w", err)
	}
	return partners, nil
}
