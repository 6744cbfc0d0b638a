// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/skyfare/farecalc-service/internal/farecalc"
)

type MockPricingService struct {
	mock.Mock
}

// NewMockPricingService returns a mock wired to fail the test on unmet
// expectations.
func NewMockPricingService(t *testing.T) *MockPricingService {
	m := &MockPricingService{}
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPricingService) Price(ctx context.Context, trx *farecalc.Transaction) (*farecalc.Result, error) {
	args := m.Called(ctx, trx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*farecalc.Result), args.Error(1)
}
