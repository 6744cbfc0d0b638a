// Package repository provides circuit breaker wrappers for MongoDB operations.
package repository

import (
	"context"

	"github.com/skyfare/farecalc-service/internal/circuitbreaker"
	"github.com/skyfare/farecalc-service/internal/domain/model"
)

// FareCalcConfigRepositoryWithCircuitBreaker wraps FareCalcConfigRepository with circuit breaker protection.
type FareCalcConfigRepositoryWithCircuitBreaker struct {
	repo           *FareCalcConfigRepository
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewFareCalcConfigRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewFareCalcConfigRepositoryWithCircuitBreaker(repo *FareCalcConfigRepository, cb *circuitbreaker.CircuitBreaker) *FareCalcConfigRepositoryWithCircuitBreaker {
	return &FareCalcConfigRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Find looks up an agency config with circuit breaker protection.
func (r *FareCalcConfigRepositoryWithCircuitBreaker) Find(ctx context.Context, userApplType byte, userAppl, pseudoCity string) (*model.FareCalcConfig, error) {
	var result *model.FareCalcConfig
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Find(ctx, userApplType, userAppl, pseudoCity)
		return cbErr
	})
	if err == circuitbreaker.ErrCircuitOpen {
		// Circuit is open - return nil to use default config
		return nil, nil
	}
	return result, err
}

// Create creates a new config record with circuit breaker protection.
func (r *FareCalcConfigRepositoryWithCircuitBreaker) Create(ctx context.Context, cfg *model.FareCalcConfig) (*FareCalcConfigDocument, error) {
	var result *FareCalcConfigDocument
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Create(ctx, cfg)
		return cbErr
	})
	return result, err
}

// Update updates an existing config record with circuit breaker protection.
func (r *FareCalcConfigRepositoryWithCircuitBreaker) Update(ctx context.Context, id string, cfg *model.FareCalcConfig) (*FareCalcConfigDocument, error) {
	var result *FareCalcConfigDocument
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Update(ctx, id, cfg)
		return cbErr
	})
	return result, err
}

// List returns config records with circuit breaker protection.
func (r *FareCalcConfigRepositoryWithCircuitBreaker) List(ctx context.Context, limit int) ([]FareCalcConfigDocument, error) {
	var result []FareCalcConfigDocument
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.List(ctx, limit)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *FareCalcConfigRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// EntryAuditRepositoryWithCircuitBreaker wraps EntryAuditRepository with circuit breaker protection.
type EntryAuditRepositoryWithCircuitBreaker struct {
	repo           *EntryAuditRepository
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewEntryAuditRepositoryWithCircuitBreaker creates a new journal wrapper with circuit breaker.
func NewEntryAuditRepositoryWithCircuitBreaker(repo *EntryAuditRepository, cb *circuitbreaker.CircuitBreaker) *EntryAuditRepositoryWithCircuitBreaker {
	return &EntryAuditRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Insert stores a journal record with circuit breaker protection.
// If the circuit is open the record is dropped; the journal is non-critical.
func (r *EntryAuditRepositoryWithCircuitBreaker) Insert(ctx context.Context, rec *EntryAuditDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Insert(ctx, rec)
	})
	if err == circuitbreaker.ErrCircuitOpen {
		return nil
	}
	return err
}

// InsertBatch stores journal records with circuit breaker protection.
// If the circuit is open the records are dropped; the journal is non-critical.
func (r *EntryAuditRepositoryWithCircuitBreaker) InsertBatch(ctx context.Context, recs []*EntryAuditDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.InsertBatch(ctx, recs)
	})
	if err == circuitbreaker.ErrCircuitOpen {
		return nil
	}
	return err
}

// Search retrieves journal records with circuit breaker protection.
func (r *EntryAuditRepositoryWithCircuitBreaker) Search(ctx context.Context, q AuditQuery) ([]*EntryAuditDocument, error) {
	var result []*EntryAuditDocument
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Search(ctx, q)
		return cbErr
	})
	return result, err
}

// Count returns the number of journal records with circuit breaker protection.
func (r *EntryAuditRepositoryWithCircuitBreaker) Count(ctx context.Context, q AuditQuery) (int64, error) {
	var result int64
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Count(ctx, q)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *EntryAuditRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
