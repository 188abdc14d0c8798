// Package postgres persists blood requests in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"lifeline/internal/inventory/models"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
)

// Store implements ports.RequestStore over PostgreSQL.
type Store struct {
	db *sql.DB
}

// New constructs a PostgreSQL-backed request store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, request *models.BloodRequest) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blood_requests (id, blood_group, district, units_required, status, urgency, required_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.UUID(request.ID), string(request.BloodGroup), request.District,
		request.UnitsRequired, string(request.Status), string(request.Urgency),
		request.RequiredBy, request.CreatedAt)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "create blood request")
	}
	return nil
}

func (s *Store) OpenUnits(ctx context.Context, bloodGroup id.BloodGroup, district string, now time.Time) (int, error) {
	var units int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(units_required), 0) FROM blood_requests
		 WHERE blood_group = $1
		   AND ($2 = '' OR lower(district) = lower($2))
		   AND status IN ('PENDING', 'APPROVED')
		   AND required_by > $3`,
		string(bloodGroup), district, now).Scan(&units)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "sum open units")
	}
	return units, nil
}
