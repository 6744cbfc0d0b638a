package farecalc

import (
	"math"

	"github.com/skyfare/farecalc-service/internal/domain/model"
)

// AdjustmentType identifies which side of the reconciliation absorbs the
// rounding discrepancy.
type AdjustmentType int

const (
	// NoAdjustment means path total and component sum already agree.
	NoAdjustment AdjustmentType = iota
	// AdjustFareComponent redistributes the pennies onto selected
	// fare components.
	AdjustFareComponent
	// AdjustTotal moves the whole difference onto the path total.
	AdjustTotal
)

// minCurrencyUnit is the adjustment step at 2-decimal precision.
const minCurrencyUnit = 0.01

// FareAmountAdjustment reconciles rounding discrepancies between the
// fare-path grand total and the sum of fare-component totals. One instance
// lives for a single rendering pass: construct, Process once, query,
// discard.
type FareAmountAdjustment struct {
	farePath   *model.FarePath
	fareUsages []*model.FareUsage

	adjType   AdjustmentType
	amount    float64
	selected  map[*model.FareUsage]bool
	status    bool
	processed bool
}

// NewFareAmountAdjustment prepares a reconciliation over the path's
// distinct fare components.
func NewFareAmountAdjustment(fp *model.FarePath, fus []*model.FareUsage) *FareAmountAdjustment {
	seen := make(map[*model.FareUsage]bool, len(fus))
	distinct := make([]*model.FareUsage, 0, len(fus))
	for _, fu := range fus {
		if fu == nil || seen[fu] {
			continue
		}
		seen[fu] = true
		distinct = append(distinct, fu)
	}
	return &FareAmountAdjustment{
		farePath:   fp,
		fareUsages: distinct,
		selected:   make(map[*model.FareUsage]bool),
	}
}

// Process computes the adjustment. It is idempotent; repeat calls return
// the first outcome.
func (a *FareAmountAdjustment) Process() bool {
	if a.processed {
		return a.status
	}
	a.processed = true

	if a.farePath == nil || len(a.fareUsages) == 0 {
		a.status = false
		return false
	}

	pathCents := fcToLongInt(a.farePath.TotalNUCAmount, 2)
	var sumCents int64
	for _, fu := range a.fareUsages {
		total := fu.TotalFareAmount
		if fu.HipPlusUp != nil {
			total += fu.HipPlusUp.Amount
		}
		sumCents += fcToLongInt(total, 2)
	}

	diff := pathCents - sumCents
	count := diff
	if count < 0 {
		count = -count
	}

	if count == 0 {
		a.adjType = NoAdjustment
		a.status = true
		return true
	}

	if count > int64(len(a.fareUsages)) {
		// adjustment impossible; caller logs and renders unadjusted
		a.status = false
		return false
	}

	if diff > 0 {
		if eligible := a.mirrorOutbounds(); len(eligible) > 0 {
			if int64(len(eligible)) < count {
				a.status = false
				return false
			}
			a.adjType = AdjustFareComponent
			a.amount = minCurrencyUnit
			for i := int64(0); i < count; i++ {
				a.selected[eligible[i]] = true
			}
			a.status = true
			return true
		}
	}

	a.adjType = AdjustTotal
	a.amount = float64(diff) * minCurrencyUnit
	a.status = true
	return true
}

// mirrorOutbounds lists the outbound components of mirror-image round-trip
// pricing units, the preferred targets when an odd-cent split occurred.
func (a *FareAmountAdjustment) mirrorOutbounds() []*model.FareUsage {
	var out []*model.FareUsage
	for _, pu := range a.farePath.PricingUnits {
		if !pu.IsMirrorRoundTrip() {
			continue
		}
		for _, fu := range pu.FareUsages {
			if fu.Outbound {
				out = append(out, fu)
			}
		}
	}
	return out
}

// Status reports whether a consistent outcome was reached. False means the
// discrepancy could not be reconciled and no adjustment applies.
func (a *FareAmountAdjustment) Status() bool { return a.status }

// IsAdjusted reports a whole-total adjustment. Mutually exclusive with any
// per-component adjustment by construction.
func (a *FareAmountAdjustment) IsAdjusted() bool {
	return a.status && a.adjType == AdjustTotal
}

// IsAdjustedFor reports whether the given fare component was selected for a
// per-component adjustment.
func (a *FareAmountAdjustment) IsAdjustedFor(fu *model.FareUsage) bool {
	return a.status && a.adjType == AdjustFareComponent && a.selected[fu]
}

// Amount returns the signed adjustment applied per selected component, or
// to the total, in minimum currency units.
func (a *FareAmountAdjustment) Amount() float64 { return a.amount }

// Type returns the computed adjustment kind.
func (a *FareAmountAdjustment) Type() AdjustmentType { return a.adjType }

// AdjustedComponentAmount returns the component's display amount with any
// selected penny adjustment applied.
func (a *FareAmountAdjustment) AdjustedComponentAmount(fu *model.FareUsage, amount float64) float64 {
	if a.IsAdjustedFor(fu) {
		return math.Round((amount+a.amount)*100) / 100
	}
	return amount
}
