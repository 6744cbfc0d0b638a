// Package repository provides interfaces for repository operations.
package repository

import (
	"context"

	"github.com/skyfare/farecalc-service/internal/domain/model"
)

// FareCalcConfigRepositoryInterface defines the interface for fare calc config repository operations.
type FareCalcConfigRepositoryInterface interface {
	Find(ctx context.Context, userApplType byte, userAppl, pseudoCity string) (*model.FareCalcConfig, error)
	Create(ctx context.Context, cfg *model.FareCalcConfig) (*FareCalcConfigDocument, error)
	Update(ctx context.Context, id string, cfg *model.FareCalcConfig) (*FareCalcConfigDocument, error)
	List(ctx context.Context, limit int) ([]FareCalcConfigDocument, error)
}

// EntryAuditRepositoryInterface defines the interface for entry journal operations.
type EntryAuditRepositoryInterface interface {
	Insert(ctx context.Context, rec *EntryAuditDocument) error
	InsertBatch(ctx context.Context, recs []*EntryAuditDocument) error
	Search(ctx context.Context, q AuditQuery) ([]*EntryAuditDocument, error)
	Count(ctx context.Context, q AuditQuery) (int64, error)
}
