// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/skyfare/farecalc-service/internal/domain/model"
)

type MockEntryAuditService struct {
	mock.Mock
}

// NewMockEntryAuditService returns a mock wired to fail the test on unmet
// expectations.
func NewMockEntryAuditService(t *testing.T) *MockEntryAuditService {
	m := &MockEntryAuditService{}
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockEntryAuditService) Record(ctx context.Context, rec *model.EntryAudit) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockEntryAuditService) RecordBatch(ctx context.Context, recs []*model.EntryAudit) error {
	args := m.Called(ctx, recs)
	return args.Error(0)
}

func (m *MockEntryAuditService) Search(ctx context.Context, q model.EntryAuditQuery) ([]model.EntryAudit, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EntryAudit), args.Error(1)
}

func (m *MockEntryAuditService) Count(ctx context.Context, q model.EntryAuditQuery) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}
