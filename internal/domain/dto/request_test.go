package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skyfare/farecalc-service/internal/domain/model"
)

func pricedPath() *PricedFarePath {
	return &PricedFarePath{
		FarePath: &model.FarePath{
			Itin: &model.Itin{
				Segments: []*model.TravelSeg{{ID: 1, OrigAirport: "DFW", DestAirport: "ORD", Carrier: "AA"}},
			},
			PaxType:   &model.PaxType{Code: "ADT", Number: 1},
			Processed: true,
		},
		BaseFare: 500,
	}
}

func TestPriceRequest_Validate(t *testing.T) {
	tests := []struct {
		name          string
		request       PriceRequest
		expectedError error
	}{
		{
			name: "valid request",
			request: PriceRequest{
				PaxTypes:  []*model.PaxType{{Code: "ADT", Number: 1}},
				FarePaths: []*PricedFarePath{pricedPath()},
			},
			expectedError: nil,
		},
		{
			name: "no pax types",
			request: PriceRequest{
				FarePaths: []*PricedFarePath{pricedPath()},
			},
			expectedError: ErrMissingPaxTypes,
		},
		{
			name: "no fare paths",
			request: PriceRequest{
				PaxTypes: []*model.PaxType{{Code: "ADT", Number: 1}},
			},
			expectedError: ErrMissingFarePaths,
		},
		{
			name: "nil fare path",
			request: PriceRequest{
				PaxTypes:  []*model.PaxType{{Code: "ADT", Number: 1}},
				FarePaths: []*PricedFarePath{nil},
			},
			expectedError: ErrEmptyFarePath,
		},
		{
			name: "fare path without itinerary",
			request: PriceRequest{
				PaxTypes:  []*model.PaxType{{Code: "ADT", Number: 1}},
				FarePaths: []*PricedFarePath{{FarePath: &model.FarePath{PaxType: &model.PaxType{Code: "ADT"}}}},
			},
			expectedError: ErrEmptyFarePath,
		},
		{
			name: "fare path with empty itinerary",
			request: PriceRequest{
				PaxTypes:  []*model.PaxType{{Code: "ADT", Number: 1}},
				FarePaths: []*PricedFarePath{{FarePath: &model.FarePath{Itin: &model.Itin{}}}},
			},
			expectedError: ErrEmptyFarePath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name          string
		validationErr *ValidationError
		expected      string
	}{
		{
			name: "validation error message format",
			validationErr: &ValidationError{
				Field:   "pax_types",
				Message: "must not be empty",
			},
			expected: "pax_types: must not be empty",
		},
		{
			name: "validation error with different field",
			validationErr: &ValidationError{
				Field:   "fare_paths",
				Message: "invalid format",
			},
			expected: "fare_paths: invalid format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.validationErr.Error())
		})
	}
}
