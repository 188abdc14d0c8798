// Package memory provides the in-memory responder store used by unit tests
// and single-node development runs.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"lifeline/internal/responder/models"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
)

// Store keeps responders in a map guarded by a RWMutex.
type Store struct {
	mu         sync.RWMutex
	responders map[id.ResponderID]*models.Responder
}

// New constructs an empty in-memory responder store.
func New() *Store {
	return &Store{responders: make(map[id.ResponderID]*models.Responder)}
}

// Put upserts a responder record. Used by seeds and tests.
func (s *Store) Put(responder *models.Responder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *responder
	s.responders[responder.ID] = &cp
}

func (s *Store) Get(_ context.Context, responderID id.ResponderID) (*models.Responder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	responder, ok := s.responders[responderID]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "responder %s not found", responderID)
	}
	cp := *responder
	return &cp, nil
}

func (s *Store) FindActive(_ context.Context, district string) ([]*models.Responder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Responder
	for _, responder := range s.responders {
		if !responder.Active {
			continue
		}
		if district != "" && !strings.EqualFold(responder.District, district) {
			continue
		}
		cp := *responder
		out = append(out, &cp)
	}

	// Stable order for deterministic tests.
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *Store) Rate(_ context.Context, responderID id.ResponderID, rating float64) (*models.Responder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	responder, ok := s.responders[responderID]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "responder %s not found", responderID)
	}
	if err := responder.ApplyRating(rating); err != nil {
		return nil, err
	}
	cp := *responder
	return &cp, nil
}
