// Package postgres persists emergency responders in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"lifeline/internal/responder/models"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/geo"
)

// Store implements ports.ResponderStore over PostgreSQL.
type Store struct {
	db *sql.DB
}

// New constructs a PostgreSQL-backed responder store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const responderColumns = `id, name, phone, district, city, capability, is_24_hours,
	avg_response_min, rating, rating_count, active, verified, latitude, longitude`

func (s *Store) Get(ctx context.Context, responderID id.ResponderID) (*models.Responder, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+responderColumns+` FROM responders WHERE id = $1`, uuid.UUID(responderID))
	responder, err := scanResponder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "responder %s not found", responderID)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "get responder")
	}
	return responder, nil
}

func (s *Store) FindActive(ctx context.Context, district string) ([]*models.Responder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+responderColumns+` FROM responders
		 WHERE active
		   AND ($1 = '' OR lower(district) = lower($1))
		 ORDER BY avg_response_min ASC, rating DESC`,
		district)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "find responders")
	}
	defer rows.Close()

	var out []*models.Responder
	for rows.Next() {
		responder, err := scanResponder(rows)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "scan responder")
		}
		out = append(out, responder)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "iterate responders")
	}
	return out, nil
}

// Rate folds one rating into the running mean in a single UPDATE so
// concurrent ratings never lose a submission.
func (s *Store) Rate(ctx context.Context, responderID id.ResponderID, rating float64) (*models.Responder, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE responders
		 SET rating = (rating * rating_count + $2) / (rating_count + 1),
		     rating_count = rating_count + 1
		 WHERE id = $1
		 RETURNING `+responderColumns,
		uuid.UUID(responderID), rating)
	responder, err := scanResponder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "responder %s not found", responderID)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "rate responder")
	}
	return responder, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResponder(row rowScanner) (*models.Responder, error) {
	var (
		r        models.Responder
		rid      uuid.UUID
		lat, lon sql.NullFloat64
	)
	err := row.Scan(&rid, &r.Name, &r.Phone, &r.District, &r.City, &r.Capability,
		&r.Is24Hours, &r.AvgResponseMinutes, &r.Rating, &r.RatingCount,
		&r.Active, &r.Verified, &lat, &lon)
	if err != nil {
		return nil, err
	}
	r.ID = id.ResponderID(rid)
	if lat.Valid && lon.Valid {
		r.Coordinate = &geo.Coordinate{Latitude: lat.Float64, Longitude: lon.Float64}
	}
	return &r, nil
}
