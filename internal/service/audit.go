package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skyfare/farecalc-service/internal/domain/model"
	"github.com/skyfare/farecalc-service/internal/repository"
)

// EntryAuditService journals priced entries.
// This interface can be mocked for testing using mockery.
type EntryAuditService interface {
	// Record stores a single entry journal record.
	Record(ctx context.Context, rec *model.EntryAudit) error

	// RecordBatch stores journal records in bulk.
	RecordBatch(ctx context.Context, recs []*model.EntryAudit) error

	// Search retrieves journal records matching the query.
	Search(ctx context.Context, q model.EntryAuditQuery) ([]model.EntryAudit, error)

	// Count returns the number of journal records matching the query.
	Count(ctx context.Context, q model.EntryAuditQuery) (int64, error)
}

// EntryAuditServiceImpl implements EntryAuditService on the Mongo-backed
// journal repository.
type EntryAuditServiceImpl struct {
	repo repository.EntryAuditRepositoryInterface
}

// NewEntryAuditService creates a new entry journal service.
func NewEntryAuditService(repo repository.EntryAuditRepositoryInterface) EntryAuditService {
	return &EntryAuditServiceImpl{
		repo: repo,
	}
}

// Record stores a single entry journal record.
func (s *EntryAuditServiceImpl) Record(ctx context.Context, rec *model.EntryAudit) error {
	return s.repo.Insert(ctx, auditToDocument(rec))
}

// RecordBatch stores journal records in bulk.
func (s *EntryAuditServiceImpl) RecordBatch(ctx context.Context, recs []*model.EntryAudit) error {
	if len(recs) == 0 {
		return nil
	}

	docs := make([]*repository.EntryAuditDocument, len(recs))
	for i, rec := range recs {
		docs[i] = auditToDocument(rec)
	}

	return s.repo.InsertBatch(ctx, docs)
}

// Search retrieves journal records matching the query.
func (s *EntryAuditServiceImpl) Search(ctx context.Context, q model.EntryAuditQuery) ([]model.EntryAudit, error) {
	docs, err := s.repo.Search(ctx, auditQueryToRepo(q))
	if err != nil {
		return nil, err
	}

	recs := make([]model.EntryAudit, len(docs))
	for i, doc := range docs {
		recs[i] = auditFromDocument(doc)
	}

	return recs, nil
}

// Count returns the number of journal records matching the query.
func (s *EntryAuditServiceImpl) Count(ctx context.Context, q model.EntryAuditQuery) (int64, error) {
	return s.repo.Count(ctx, auditQueryToRepo(q))
}

func auditQueryToRepo(q model.EntryAuditQuery) repository.AuditQuery {
	return repository.AuditQuery{
		RequestID:  q.RequestID,
		Entry:      q.Entry,
		PseudoCity: q.PseudoCity,
		FailedOnly: q.FailedOnly,
		StartTime:  q.StartTime,
		EndTime:    q.EndTime,
		Limit:      q.Limit,
		Skip:       q.Skip,
	}
}

func auditToDocument(rec *model.EntryAudit) *repository.EntryAuditDocument {
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	return &repository.EntryAuditDocument{
		ID:           rec.ID,
		Timestamp:    rec.Timestamp,
		RequestID:    rec.RequestID,
		Entry:        rec.Entry,
		Agent:        rec.Agent,
		PseudoCity:   rec.PseudoCity,
		PaxCount:     rec.PaxCount,
		OptionCount:  rec.OptionCount,
		LineCount:    rec.LineCount,
		WarningCount: rec.WarningCount,
		TotalAmount:  rec.TotalAmount,
		Currency:     rec.Currency,
		StatusCode:   rec.StatusCode,
		Duration:     rec.Duration,
		IP:           rec.IP,
		Error:        rec.Error,
	}
}

func auditFromDocument(doc *repository.EntryAuditDocument) model.EntryAudit {
	return model.EntryAudit{
		ID:           doc.ID,
		Timestamp:    doc.Timestamp,
		RequestID:    doc.RequestID,
		Entry:        doc.Entry,
		Agent:        doc.Agent,
		PseudoCity:   doc.PseudoCity,
		PaxCount:     doc.PaxCount,
		OptionCount:  doc.OptionCount,
		LineCount:    doc.LineCount,
		WarningCount: doc.WarningCount,
		TotalAmount:  doc.TotalAmount,
		Currency:     doc.Currency,
		StatusCode:   doc.StatusCode,
		Duration:     doc.Duration,
		IP:           doc.IP,
		Error:        doc.Error,
	}
}
