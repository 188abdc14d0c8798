// Package ports defines the store boundary for the responder module.
package ports

import (
	"context"

	"lifeline/internal/responder/models"
	id "lifeline/pkg/domain"
)

// ResponderStore is the persistence boundary for emergency responders.
type ResponderStore interface {
	// Get returns the responder or a CodeNotFound error.
	Get(ctx context.Context, responderID id.ResponderID) (*models.Responder, error)

	// FindActive returns active responders in the district; verification
	// filtering happens in the locator. An empty
	// district means "any"; matching is exact, case-insensitive.
	FindActive(ctx context.Context, district string) ([]*models.Responder, error)

	// Rate folds one rating into the responder's running mean atomically
	// and returns the updated record.
	Rate(ctx context.Context, responderID id.ResponderID, rating float64) (*models.Responder, error)
}
