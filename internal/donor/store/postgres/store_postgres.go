// Package postgres persists donors and donations in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"lifeline/internal/donor/models"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/geo"
)

// Store implements ports.DonorStore over PostgreSQL.
type Store struct {
	db *sql.DB
}

// New constructs a PostgreSQL-backed donor store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const donorColumns = `id, name, phone, blood_group, age, is_donor, is_available,
	last_donation, total_donations, badges, latitude, longitude, city, district, created_at`

func (s *Store) Get(ctx context.Context, donorID id.DonorID) (*models.DonorRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+donorColumns+` FROM donors WHERE id = $1`, uuid.UUID(donorID))
	donor, err := scanDonor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "donor %s not found", donorID)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "get donor")
	}
	return donor, nil
}

func (s *Store) FindCandidates(ctx context.Context, bloodGroup id.BloodGroup, district string) ([]*models.DonorRecord, error) {
	// Exact (case-insensitive) district match. Substring matching invites
	// cross-district bleed between names like "Kathmandu" and
	// "Kathmandu Valley".
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+donorColumns+` FROM donors
		 WHERE ($1 = '' OR blood_group = $1)
		   AND ($2 = '' OR lower(district) = lower($2))
		 ORDER BY last_donation ASC NULLS FIRST`,
		string(bloodGroup), district)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "find candidates")
	}
	defer rows.Close()

	var out []*models.DonorRecord
	for rows.Next() {
		donor, err := scanDonor(rows)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "scan candidate")
		}
		out = append(out, donor)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "iterate candidates")
	}
	return out, nil
}

// RecordDonationAtomic inserts the donation and bumps the donor counters in a
// single transaction so concurrent donations for one donor cannot lose
// updates.
func (s *Store) RecordDonationAtomic(ctx context.Context, donorID id.DonorID, event *models.DonationEvent) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "begin donation tx")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO donations (id, donor_id, donated_at, donation_type, location, organization, verified)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(event.ID), uuid.UUID(donorID), event.DonatedAt,
		string(event.Type), event.Location, event.Organization, event.Verified)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "insert donation")
	}

	var total int
	err = tx.QueryRowContext(ctx,
		`UPDATE donors
		 SET total_donations = total_donations + 1, last_donation = $2
		 WHERE id = $1
		 RETURNING total_donations`,
		uuid.UUID(donorID), event.DonatedAt).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, dErrors.Newf(dErrors.CodeNotFound, "donor %s not found", donorID)
	}
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "update donor counters")
	}

	if err := tx.Commit(); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "commit donation tx")
	}
	return total, nil
}

func (s *Store) PersistBadges(ctx context.Context, donorID id.DonorID, badges []string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE donors SET badges = $2 WHERE id = $1`,
		uuid.UUID(donorID), pq.Array(badges))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "persist badges")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "persist badges")
	}
	if affected == 0 {
		return dErrors.Newf(dErrors.CodeNotFound, "donor %s not found", donorID)
	}
	return nil
}

func (s *Store) ListDonations(ctx context.Context, donorID id.DonorID) ([]*models.DonationEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, donor_id, donated_at, donation_type, location, organization, verified
		 FROM donations WHERE donor_id = $1 ORDER BY donated_at DESC`,
		uuid.UUID(donorID))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "list donations")
	}
	defer rows.Close()

	var out []*models.DonationEvent
	for rows.Next() {
		var (
			event               models.DonationEvent
			eventID, eventDonor uuid.UUID
			donationType        string
			organization        sql.NullString
		)
		if err := rows.Scan(&eventID, &eventDonor, &event.DonatedAt, &donationType,
			&event.Location, &organization, &event.Verified); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "scan donation")
		}
		event.ID = id.DonationID(eventID)
		event.DonorID = id.DonorID(eventDonor)
		event.Type = models.DonationType(donationType)
		event.Organization = organization.String
		out = append(out, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "iterate donations")
	}
	return out, nil
}

func (s *Store) VerifyDonation(ctx context.Context, donationID id.DonationID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE donations SET verified = TRUE WHERE id = $1`, uuid.UUID(donationID))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "verify donation")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "verify donation")
	}
	if affected == 0 {
		return dErrors.Newf(dErrors.CodeNotFound, "donation %s not found", donationID)
	}
	return nil
}

func (s *Store) Stats(ctx context.Context, now time.Time) (*models.DonorStats, error) {
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	restWindow := now.AddDate(0, 0, -90)

	stats := &models.DonorStats{}
	err := s.db.QueryRowContext(ctx,
		`SELECT
			count(*) FILTER (WHERE is_donor),
			count(*) FILTER (WHERE is_donor AND is_available
				AND (last_donation IS NULL OR last_donation < $1)),
			count(*) FILTER (WHERE is_donor AND created_at >= $2)
		 FROM donors`,
		restWindow, startOfMonth).
		Scan(&stats.TotalDonors, &stats.ActiveDonors, &stats.NewDonorsThisMonth)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "aggregate donors")
	}

	var verified int
	err = s.db.QueryRowContext(ctx,
		`SELECT count(*) FILTER (WHERE verified),
		        count(*) FILTER (WHERE verified AND donated_at >= $1)
		 FROM donations`,
		startOfMonth).Scan(&verified, &stats.DonationsThisMonth)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "aggregate donations")
	}
	stats.LivesSaved = verified * 3
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDonor(row rowScanner) (*models.DonorRecord, error) {
	var (
		donor        models.DonorRecord
		donorID      uuid.UUID
		bloodGroup   string
		lastDonation sql.NullTime
		badges       pq.StringArray
		lat, lon     sql.NullFloat64
	)
	err := row.Scan(&donorID, &donor.Name, &donor.Phone, &bloodGroup, &donor.Age,
		&donor.IsDonor, &donor.IsAvailable, &lastDonation, &donor.TotalDonations,
		&badges, &lat, &lon, &donor.City, &donor.District, &donor.CreatedAt)
	if err != nil {
		return nil, err
	}

	donor.ID = id.DonorID(donorID)
	donor.BloodGroup = id.BloodGroup(bloodGroup)
	if lastDonation.Valid {
		t := lastDonation.Time
		donor.LastDonation = &t
	}
	donor.Badges = badges
	if lat.Valid && lon.Valid {
		donor.Coordinate = &geo.Coordinate{Latitude: lat.Float64, Longitude: lon.Float64}
	}
	return &donor, nil
}
