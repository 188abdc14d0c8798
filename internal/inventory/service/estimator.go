// Package service estimates blood supply per group from donor availability
// and open requests.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"lifeline/internal/donor/eligibility"
	inventorymetrics "lifeline/internal/inventory/metrics"
	"lifeline/internal/inventory/models"
	"lifeline/internal/inventory/ports"
	"lifeline/internal/platform/events"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/requestcontext"
)

// UnitsPerDonor is the planning assumption for how many units one available
// donor can cover.
const UnitsPerDonor = 2

// DefaultCacheTTL bounds snapshot staleness when no TTL is configured.
const DefaultCacheTTL = 5 * time.Minute

// Estimator computes supply snapshots. Donor and request reads go through
// their store boundaries; an optional cache short-circuits recomputation.
type Estimator struct {
	donors    ports.DonorSource
	requests  ports.RequestStore
	cache     ports.SnapshotCache
	cacheTTL  time.Duration
	publisher events.Publisher
	logger    *slog.Logger
	metrics   *inventorymetrics.Metrics
}

// Option configures optional dependencies.
type Option func(*Estimator)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Estimator) { e.logger = logger }
}

// WithPublisher attaches a domain event publisher.
func WithPublisher(publisher events.Publisher) Option {
	return func(e *Estimator) { e.publisher = publisher }
}

// WithMetrics attaches prometheus metrics.
func WithMetrics(metrics *inventorymetrics.Metrics) Option {
	return func(e *Estimator) { e.metrics = metrics }
}

// WithCache attaches a snapshot cache with the given TTL.
func WithCache(cache ports.SnapshotCache, ttl time.Duration) Option {
	return func(e *Estimator) {
		e.cache = cache
		if ttl > 0 {
			e.cacheTTL = ttl
		}
	}
}

// New constructs the inventory estimator.
func New(donors ports.DonorSource, requests ports.RequestStore, opts ...Option) (*Estimator, error) {
	if donors == nil {
		return nil, fmt.Errorf("donor source is required")
	}
	if requests == nil {
		return nil, fmt.Errorf("request store is required")
	}
	e := &Estimator{donors: donors, requests: requests, cacheTTL: DefaultCacheTTL}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Estimate computes the supply snapshot for one blood group, optionally
// scoped to a district. Served from cache when a fresh snapshot exists.
// A critical result publishes an inventory_critical event; publication
// failures never fail the estimate.
func (e *Estimator) Estimate(ctx context.Context, bloodGroup id.BloodGroup, district string) (*models.Snapshot, error) {
	if bloodGroup == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "blood group is required")
	}

	key := cacheKey(bloodGroup, district)
	if e.cache != nil {
		if cached, err := e.cache.Get(ctx, key); err == nil && cached != nil {
			return cached, nil
		}
	}

	snapshot, err := e.compute(ctx, bloodGroup, district)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.Set(ctx, key, snapshot, e.cacheTTL); err != nil && e.logger != nil {
			e.logger.WarnContext(ctx, "snapshot cache write failed", "key", key, "error", err)
		}
	}
	if e.metrics != nil {
		e.metrics.ObserveEstimate(string(bloodGroup), snapshot.Deficit)
	}
	if snapshot.Status == models.StatusCritical {
		e.emitCritical(ctx, snapshot)
	}
	return snapshot, nil
}

func (e *Estimator) compute(ctx context.Context, bloodGroup id.BloodGroup, district string) (*models.Snapshot, error) {
	now := requestcontext.Now(ctx)

	candidates, err := e.donors.FindCandidates(ctx, bloodGroup, district)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to fetch donors")
	}
	available := 0
	for _, d := range candidates {
		if eligibility.FreshForSupply(d, now) {
			available++
		}
	}

	needed, err := e.requests.OpenUnits(ctx, bloodGroup, district, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to sum open requests")
	}

	supply := available * UnitsPerDonor
	deficit := needed - supply
	if deficit < 0 {
		deficit = 0
	}

	status := models.StatusAdequate
	switch {
	case needed > supply:
		status = models.StatusCritical
	case needed > available:
		status = models.StatusLow
	}

	return &models.Snapshot{
		BloodGroup:      bloodGroup,
		District:        district,
		AvailableDonors: available,
		SupplyUnits:     supply,
		UnitsNeeded:     needed,
		Deficit:         deficit,
		Status:          status,
		ComputedAt:      now,
	}, nil
}

// Summary estimates all blood groups concurrently and returns snapshots in
// the canonical group order. One failed group fails the summary; partial
// summaries would hide shortages.
func (e *Estimator) Summary(ctx context.Context, district string) ([]*models.Snapshot, error) {
	snapshots := make([]*models.Snapshot, len(id.BloodGroups))

	g, gctx := errgroup.WithContext(ctx)
	for i, bloodGroup := range id.BloodGroups {
		g.Go(func() error {
			snapshot, err := e.Estimate(gctx, bloodGroup, district)
			if err != nil {
				return err
			}
			snapshots[i] = snapshot
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if e.metrics != nil {
		critical := 0
		for _, snapshot := range snapshots {
			if snapshot.Status == models.StatusCritical {
				critical++
			}
		}
		e.metrics.SetCriticalGroups(critical)
	}
	return snapshots, nil
}

// Shortages returns the blood groups currently in deficit, worst first.
func (e *Estimator) Shortages(ctx context.Context, district string) ([]*models.Snapshot, error) {
	snapshots, err := e.Summary(ctx, district)
	if err != nil {
		return nil, err
	}

	var short []*models.Snapshot
	for _, snapshot := range snapshots {
		if snapshot.Deficit > 0 {
			short = append(short, snapshot)
		}
	}
	sort.SliceStable(short, func(i, j int) bool {
		return short[i].Deficit > short[j].Deficit
	})
	return short, nil
}

// SubmitRequest validates and persists a new blood request. The estimator
// owns demand, so request intake lives here rather than in a separate module.
func (e *Estimator) SubmitRequest(ctx context.Context, request *models.BloodRequest) (*models.BloodRequest, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	request.ID = id.NewRequestID()
	request.Status = models.RequestPending
	request.CreatedAt = now
	if request.Urgency == "" {
		request.Urgency = id.UrgencyMedium
	}
	if !request.RequiredBy.After(now) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "required-by deadline must be in the future")
	}

	if err := e.requests.Create(ctx, request); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to create blood request")
	}
	if e.logger != nil {
		e.logger.InfoContext(ctx, "blood request submitted",
			"request_id", request.ID,
			"blood_group", request.BloodGroup,
			"units", request.UnitsRequired,
		)
	}
	return request, nil
}

func (e *Estimator) emitCritical(ctx context.Context, snapshot *models.Snapshot) {
	if e.publisher == nil {
		return
	}
	event := events.Event{
		Type:       events.TypeInventoryCritical,
		Subject:    string(snapshot.BloodGroup),
		OccurredAt: snapshot.ComputedAt,
		RequestID:  requestcontext.RequestID(ctx),
		Attributes: map[string]string{
			"district": snapshot.District,
			"deficit":  strconv.Itoa(snapshot.Deficit),
		},
	}
	if err := e.publisher.Emit(ctx, event); err != nil && e.logger != nil {
		e.logger.WarnContext(ctx, "event emit failed", "type", event.Type, "error", err)
	}
}

func cacheKey(bloodGroup id.BloodGroup, district string) string {
	return "inventory:" + string(bloodGroup) + ":" + strings.ToLower(district)
}
