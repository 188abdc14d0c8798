// Package ports defines the store and cache boundaries for the inventory
// module.
package ports

import (
	"context"
	"time"

	donorModels "lifeline/internal/donor/models"
	"lifeline/internal/inventory/models"
	id "lifeline/pkg/domain"
)

// RequestStore is the persistence boundary for blood requests.
type RequestStore interface {
	// Create persists a new blood request.
	Create(ctx context.Context, request *models.BloodRequest) error

	// OpenUnits sums units across open requests (pending or approved with
	// a future deadline) for the blood group. An empty district means
	// "any"; matching is exact, case-insensitive.
	OpenUnits(ctx context.Context, bloodGroup id.BloodGroup, district string, now time.Time) (int, error)
}

// DonorSource supplies donors for the estimator's supply side. The donor
// store satisfies this.
type DonorSource interface {
	FindCandidates(ctx context.Context, bloodGroup id.BloodGroup, district string) ([]*donorModels.DonorRecord, error)
}

// SnapshotCache is an optional read-through cache for computed snapshots.
// A miss is (nil, nil); cache failures are treated as misses by callers.
type SnapshotCache interface {
	Get(ctx context.Context, key string) (*models.Snapshot, error)
	Set(ctx context.Context, key string, snapshot *models.Snapshot, ttl time.Duration) error
}
