// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"time"

	"github.com/skyfare/farecalc-service/internal/domain/model"
)

// PriceRequest represents the JSON request body for the fare calculation endpoint.
//
// Request and at least one priced fare path are required; Options is
// optional and defaults to a plain WP rendering.
// Validation is performed using gin's binding tags.
//
// @Description Request to render a fare calculation display for priced fare paths
type PriceRequest struct {
	// Request carries the agent identity and entry flags.
	Request model.PricingRequest `json:"request"`
	// Options carries the user request switches for the rendering pass.
	Options model.PricingOptions `json:"options"`
	// PaxTypes lists the requested passenger types.
	PaxTypes []*model.PaxType `json:"pax_types" binding:"required,min=1"`
	// FarePaths are the priced fare paths, one per passenger type.
	FarePaths []*PricedFarePath `json:"fare_paths" binding:"required,min=1"`
	// TicketingDate is the ticketing date used for currency rounding and
	// tax-precision lookups. Defaults to now when omitted.
	TicketingDate time.Time `json:"ticketing_date,omitempty"`
} // @name PriceRequest

// PricedFarePath pairs one fare path with the converted monetary amounts
// and computed taxes the pricing stage produced for it.
type PricedFarePath struct {
	// FarePath is the priced itinerary coverage for one passenger type.
	FarePath *model.FarePath `json:"fare_path" binding:"required"`
	// BaseFare is the converted base fare in the path's base fare currency.
	BaseFare float64 `json:"base_fare"`
	// EquivAmount and EquivCurrency carry the equivalent-amount conversion
	// when the payment currency differs from the base fare currency.
	EquivAmount   float64 `json:"equiv_amount,omitempty"`
	EquivCurrency string  `json:"equiv_currency,omitempty"`
	// TaxRecords are the computed tax lines for the path.
	TaxRecords []*model.TaxRecord `json:"tax_records,omitempty"`
	// TaxItems are per-boarding-point breakdown entries (ZP annotation).
	TaxItems []*model.TaxItem `json:"tax_items,omitempty"`
	// TaxExemptCodes lists tax codes exempted by the entry.
	TaxExemptCodes []string `json:"tax_exempt_codes,omitempty"`
	// RoeRate is the rate of exchange for the END line, with its decimals.
	RoeRate  float64 `json:"roe_rate,omitempty"`
	RoeNoDec int     `json:"roe_no_dec,omitempty"`
	// TotalMileage is the itinerary mileage total for mileage-priced fares.
	TotalMileage int `json:"total_mileage,omitempty"`
}

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

var (
	// ErrMissingPaxTypes is returned when no passenger type is supplied.
	ErrMissingPaxTypes = &ValidationError{
		Field:   "pax_types",
		Message: "at least one passenger type is required",
	}
	// ErrMissingFarePaths is returned when no fare path is supplied.
	ErrMissingFarePaths = &ValidationError{
		Field:   "fare_paths",
		Message: "at least one fare path is required",
	}
	// ErrEmptyFarePath is returned when a fare path has no itinerary.
	ErrEmptyFarePath = &ValidationError{
		Field:   "fare_paths",
		Message: "fare path must carry at least one travel segment",
	}
)

// Validate performs custom validation on the request.
// Returns an error if validation fails, nil otherwise.
func (r *PriceRequest) Validate() error {
	if len(r.PaxTypes) == 0 {
		return ErrMissingPaxTypes
	}
	if len(r.FarePaths) == 0 {
		return ErrMissingFarePaths
	}
	for _, p := range r.FarePaths {
		if p == nil || p.FarePath == nil || p.FarePath.Itin == nil || len(p.FarePath.Itin.Segments) == 0 {
			return ErrEmptyFarePath
		}
	}
	return nil
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// UpdateFareCalcConfigRequest represents the JSON request body for creating
// or updating an agency display configuration record.
type UpdateFareCalcConfigRequest struct {
	// Config is the full agency display configuration to store.
	Config model.FareCalcConfig `json:"config" binding:"required"`
} // @name UpdateFareCalcConfigRequest
