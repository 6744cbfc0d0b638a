// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/skyfare/farecalc-service/internal/domain/model"
	"github.com/skyfare/farecalc-service/internal/repository"
)

type MockFareCalcConfigRepositoryInterface struct {
	mock.Mock
}

func (m *MockFareCalcConfigRepositoryInterface) Find(ctx context.Context, userApplType byte, userAppl, pseudoCity string) (*model.FareCalcConfig, error) {
	args := m.Called(ctx, userApplType, userAppl, pseudoCity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FareCalcConfig), args.Error(1)
}

func (m *MockFareCalcConfigRepositoryInterface) Create(ctx context.Context, cfg *model.FareCalcConfig) (*repository.FareCalcConfigDocument, error) {
	args := m.Called(ctx, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.FareCalcConfigDocument), args.Error(1)
}

func (m *MockFareCalcConfigRepositoryInterface) Update(ctx context.Context, id string, cfg *model.FareCalcConfig) (*repository.FareCalcConfigDocument, error) {
	args := m.Called(ctx, id, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.FareCalcConfigDocument), args.Error(1)
}

func (m *MockFareCalcConfigRepositoryInterface) List(ctx context.Context, limit int) ([]repository.FareCalcConfigDocument, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.FareCalcConfigDocument), args.Error(1)
}
