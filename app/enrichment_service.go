package app

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"

	"pcenrich/domain/core"
	"pcenrich/domain/enrichment"
	"pcenrich/internal"
	"pcenrich/internal/analysis"
	"pcenrich/ports"
)

// EnrichmentService runs enrichment computations and optionally persists
// the results. Concurrent Execute calls are bounded by a weighted
// semaphore so a burst of API requests cannot run an unbounded number of
// decompositions at once.
type EnrichmentService struct {
	store  ports.RunStore // nil disables persistence
	logger *internal.Logger
	sem    *semaphore.Weighted
}

// NewEnrichmentService creates a service allowing up to maxConcurrent
// simultaneous runs.
func NewEnrichmentService(store ports.RunStore, maxConcurrent int) *EnrichmentService {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &EnrichmentService{
		store:  store,
		logger: internal.DefaultLogger,
		sem:    semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// Execute validates and runs one enrichment computation, assigns it a run
// ID, and saves it when a store is configured.
func (s *EnrichmentService) Execute(ctx context.Context, data *enrichment.DataMatrix, basis *enrichment.ComponentBasis, membership enrichment.GroupMembership, opts enrichment.Options) (*enrichment.Run, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	start := time.Now()
	result, err := analysis.Run(data, basis, membership, opts)
	if err != nil {
		return nil, err
	}

	run := &enrichment.Run{
		ID:        core.RunID(core.NewID()),
		CreatedAt: time.Now().UTC(),
		Options:   opts.WithDefaults(),
		Result:    result,
	}
	s.logger.Info("enrichment run %s: tested %d gene sets on %d components in %.1fms",
		run.ID, len(result.GroupNames), len(result.Components),
		float64(time.Since(start).Nanoseconds())/1e6)

	if s.store != nil {
		if err := s.store.SaveRun(ctx, run); err != nil {
			return nil, err
		}
	}
	return run, nil
}

// GetRun fetches a stored run by id.
func (s *EnrichmentService) GetRun(ctx context.Context, id core.RunID) (*enrichment.Run, error) {
	if s.store == nil {
		return nil, core.ErrRunNotFound
	}
	return s.store.GetRun(ctx, id)
}

// ListRuns returns recent stored runs.
func (s *EnrichmentService) ListRuns(ctx context.Context, limit int) ([]*enrichment.Run, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListRuns(ctx, limit)
}
