package farecalc

import (
	"strings"

	"github.com/skyfare/farecalc-service/internal/domain/model"
)

// StopoverPolicy selects the minimum-stay tie-break behavior used when a
// travel segment belongs to a different fare component than the one being
// rendered. Both variants exist in production configuration; the selection
// must be preserved, not collapsed.
type StopoverPolicy int

const (
	// StopoverPolicyPerFareComponent uses the following fare component's
	// minimum-stay table when the boundary segment belongs to it. This is
	// the preferred (non-fallback) behavior.
	StopoverPolicyPerFareComponent StopoverPolicy = iota
	// StopoverPolicyLegacy always evaluates against the geo-travel-type
	// default table.
	StopoverPolicyLegacy
)

// Default minimum stay thresholds (hours) below which a boundary is a
// connection rather than a stopover.
const (
	domesticMinStayHours      = 4
	internationalMinStayHours = 24
)

// FareBreakPointInfo snapshots the displayed fare basis and amount of one
// fare component.
type FareBreakPointInfo struct {
	FareAmount    float64
	FareBasisCode string
	// NetPubFbc substitutes the fare basis for net-remit TFD results.
	NetPubFbc string
}

// CalcTotals is the per-passenger-type aggregation record for one priced
// fare path: converted amounts, per-segment fare-usage mapping, surcharge
// maps, fare-basis snapshots and collected trailer messages. It is created
// once per fare path and populated incrementally by the formatter passes.
type CalcTotals struct {
	FarePath *model.FarePath

	ConvertedBaseFare             float64
	ConvertedBaseFareCurrencyCode string
	ConvertedBaseFareNoDec        int

	EquivFareAmount   float64
	EquivCurrencyCode string
	EquivNoDec        int

	TaxRecords  []*model.TaxRecord
	TaxItems    []*model.TaxItem
	TaxCurrency string
	TaxNoDec    int

	TotalMileage int

	// Per-segment maps keyed by travel segment ID.
	FareUsagesBySeg    map[int]*model.FareUsage
	Surcharges         map[int][]*model.SurchargeData
	StopoverSurcharges map[int][]*model.SectorSurcharge
	TransferSurcharges map[int][]*model.SectorSurcharge
	ExtraMileageSegs   map[int]bool

	ExtraMileageFareUsages map[*model.FareUsage]bool

	TaxExemptCodes []string

	// Ordered per-segment display snapshots for the ticket record.
	TicketFareBasisCode []string
	TicketFareInfo      []string
	TicketOrigin        []string
	TicketDestination   []string

	MileageData []model.MileageData

	breakPoints map[*model.FareUsage]*FareBreakPointInfo

	// PrivateFareIndSeq is "most restrictive wins" across the examined
	// fare components.
	PrivateFareIndSeq byte

	// FcMessages holds collected trailer/warning records.
	FcMessages []model.FcMessage

	// FareCalcLine caches the formatted fare calculation string.
	FareCalcLine string
	// TicketFareCalcLine is the ticket-stock truncated variant.
	TicketFareCalcLine string

	// Alternate valuation views of the same fare path.
	NetRemitCalcTotals *CalcTotals
	AdjustedCalcTotals *CalcTotals

	// WpaPsgRefNo is the option index assigned during WPA/WQ display.
	WpaPsgRefNo int

	// RoeRate is the rate of exchange rendered on the END line.
	RoeRate  float64
	RoeNoDec int

	policy StopoverPolicy
}

// NewCalcTotals builds the aggregation record for one fare path, collecting
// the per-segment maps from its fare components.
func NewCalcTotals(fp *model.FarePath) *CalcTotals {
	ct := &CalcTotals{
		FarePath:               fp,
		FareUsagesBySeg:        make(map[int]*model.FareUsage),
		Surcharges:             make(map[int][]*model.SurchargeData),
		StopoverSurcharges:     make(map[int][]*model.SectorSurcharge),
		TransferSurcharges:     make(map[int][]*model.SectorSurcharge),
		ExtraMileageSegs:       make(map[int]bool),
		ExtraMileageFareUsages: make(map[*model.FareUsage]bool),
		breakPoints:            make(map[*model.FareUsage]*FareBreakPointInfo),
	}
	if fp == nil {
		return ct
	}
	ct.ConvertedBaseFareCurrencyCode = fp.BaseFareCurrency
	ct.ConvertedBaseFareNoDec = currencyNoDec(fp.BaseFareCurrency)
	ct.EquivCurrencyCode = fp.BaseFareCurrency
	ct.EquivNoDec = ct.ConvertedBaseFareNoDec

	for _, pu := range fp.PricingUnits {
		for _, fu := range pu.FareUsages {
			ct.collectFareUsage(fu)
			for _, st := range fu.SideTripPUs {
				for _, sfu := range st.FareUsages {
					ct.collectFareUsage(sfu)
				}
			}
		}
	}
	return ct
}

func (ct *CalcTotals) collectFareUsage(fu *model.FareUsage) {
	for _, ts := range fu.TravelSegs {
		ct.FareUsagesBySeg[ts.ID] = fu
	}
	for segID, scs := range fu.Surcharges {
		ct.Surcharges[segID] = append(ct.Surcharges[segID], scs...)
	}
	for segID, scs := range fu.StopoverSurcharges {
		ct.StopoverSurcharges[segID] = append(ct.StopoverSurcharges[segID], scs...)
	}
	for segID, scs := range fu.TransferSurcharges {
		ct.TransferSurcharges[segID] = append(ct.TransferSurcharges[segID], scs...)
	}
	for segID, extra := range fu.ExtraMileageSegs {
		if extra {
			ct.ExtraMileageSegs[segID] = true
		}
	}
	if fu.ExtraMileageFare {
		ct.ExtraMileageFareUsages[fu] = true
	}
	if fu.Fare != nil && fu.Fare.PrivateFareInd > ct.PrivateFareIndSeq {
		ct.PrivateFareIndSeq = fu.Fare.PrivateFareInd
	}
}

// SetStopoverPolicy selects the minimum-stay tie-break variant.
func (ct *CalcTotals) SetStopoverPolicy(p StopoverPolicy) { ct.policy = p }

// SetEquivalent records the equivalent-amount conversion for payment in a
// currency other than the base fare currency.
func (ct *CalcTotals) SetEquivalent(amount float64, currency string) {
	ct.EquivFareAmount = amount
	ct.EquivCurrencyCode = currency
	ct.EquivNoDec = currencyNoDec(currency)
}

// SetTaxCurrency records the currency taxes are expressed in.
func (ct *CalcTotals) SetTaxCurrency(currency string) {
	ct.TaxCurrency = currency
	ct.TaxNoDec = currencyNoDec(currency)
}

// FareUsageFor returns the fare component owning a travel segment.
func (ct *CalcTotals) FareUsageFor(ts *model.TravelSeg) (*model.FareUsage, bool) {
	if ts == nil {
		return nil, false
	}
	fu, ok := ct.FareUsagesBySeg[ts.ID]
	return fu, ok
}

// TaxAmount sums the fare path's non-exempt taxes.
func (ct *CalcTotals) TaxAmount() float64 {
	var total float64
	for _, tr := range ct.TaxRecords {
		if !tr.Exempt {
			total += tr.Amount
		}
	}
	return total
}

// TotalFareAmount returns the per-passenger total in the effective
// currency. With no currency override, or an override matching the
// converted base fare currency, the total is base fare plus taxes; the
// equivalent amount applies otherwise.
func (ct *CalcTotals) TotalFareAmount(currencyOverride string) float64 {
	if currencyOverride == "" || currencyOverride == ct.ConvertedBaseFareCurrencyCode {
		return ct.ConvertedBaseFare + ct.TaxAmount()
	}
	return ct.EquivFareAmount + ct.TaxAmount()
}

// FareBreakPointInfo returns the component's display snapshot, creating it
// on first use.
func (ct *CalcTotals) FareBreakPointInfo(fu *model.FareUsage) *FareBreakPointInfo {
	if fu == nil {
		return nil
	}
	if info, ok := ct.breakPoints[fu]; ok {
		return info
	}
	info := &FareBreakPointInfo{}
	ct.breakPoints[fu] = info
	return info
}

// HasBreakPoint reports whether a snapshot already exists for fu.
func (ct *CalcTotals) HasBreakPoint(fu *model.FareUsage) bool {
	_, ok := ct.breakPoints[fu]
	return ok
}

// IsConnectionPoint classifies the boundary after ts as a connection (the
// X/ marker) vs a silent stopover. Pure with respect to the receiver: no
// state is mutated and repeat calls return the same answer.
//
// An error is returned only when ts cannot be located in its own itinerary,
// which indicates corrupt input.
func (ct *CalcTotals) IsConnectionPoint(ts *model.TravelSeg, renderedFu *model.FareUsage) (bool, error) {
	if ts == nil || ct.FarePath == nil || ct.FarePath.Itin == nil {
		return false, nil
	}
	itin := ct.FarePath.Itin

	// 1. explicit agent override wins outright
	switch ts.Stop {
	case model.StopConnection:
		return true, nil
	case model.StopStopover:
		return false, nil
	}

	order := itin.SegmentOrder(ts)
	if order == 0 {
		return false, systemErrorf("travel segment %d not in itinerary", ts.ID)
	}

	// 2. the last segment never ends in a connection
	if order == len(itin.Segments) {
		return false, nil
	}

	// 3. collapse runs of same-city surface segments after ts
	next := itin.Segments[order] // order is 1-based; this is the following seg
	idx := order
	for idx < len(itin.Segments) && sameCitySurface(itin.Segments[idx]) {
		idx++
	}
	if idx >= len(itin.Segments) {
		return false, nil
	}
	nextReal := itin.Segments[idx]
	if idx == len(itin.Segments)-1 && !nextReal.IsAir() {
		return false, nil
	}

	// 4. bounding air segments
	before := ct.nearestAirBefore(order)
	after := ct.nearestAirAfter(order - 1)
	if before == nil || after == nil {
		return false, nil
	}

	// 5. minimum-stay evaluation against the governing component's table
	if ct.isStopOver(before, after, renderedFu, next) {
		return false, nil
	}

	// 6. segment-level rule overrides on the owning fare component
	if owner, ok := ct.FareUsageFor(ts); ok {
		if forced, ok := owner.StopoverOverrides[ts.ID]; ok && forced {
			return false, nil
		}
		if forced, ok := owner.TransferOverrides[ts.ID]; ok && forced {
			return true, nil
		}
	}
	return true, nil
}

// nearestAirBefore returns the closest air segment at or before the 1-based
// position.
func (ct *CalcTotals) nearestAirBefore(order int) *model.TravelSeg {
	segs := ct.FarePath.Itin.Segments
	for i := order - 1; i >= 0; i-- {
		if segs[i].IsAir() {
			return segs[i]
		}
	}
	return nil
}

// nearestAirAfter returns the closest air segment after the 0-based index.
func (ct *CalcTotals) nearestAirAfter(idx int) *model.TravelSeg {
	segs := ct.FarePath.Itin.Segments
	for i := idx + 1; i < len(segs); i++ {
		if segs[i].IsAir() {
			return segs[i]
		}
	}
	return nil
}

// isStopOver evaluates the ground time between two air segments against the
// governing minimum-stay threshold.
func (ct *CalcTotals) isStopOver(before, after *model.TravelSeg, renderedFu *model.FareUsage, boundary *model.TravelSeg) bool {
	if before.Arrival.IsZero() || after.Departure.IsZero() {
		return false
	}
	minStay := internationalMinStayHours
	if ct.FarePath.Itin.GeoTravelType == model.GeoDomestic {
		minStay = domesticMinStayHours
	}
	if ct.policy == StopoverPolicyPerFareComponent {
		// when the boundary segment belongs to the immediately-following
		// fare component, that component's table governs
		if nextFu, ok := ct.FareUsageFor(boundary); ok && nextFu != renderedFu && nextFu.MinStayHours > 0 {
			minStay = nextFu.MinStayHours
		}
	}
	ground := after.Departure.Sub(before.Arrival)
	return ground.Hours() >= float64(minStay)
}

// DispConnectionInd reports whether the X/ marker should precede the
// destination of ts, honoring the configured connection indicator.
func (ct *CalcTotals) DispConnectionInd(ts *model.TravelSeg, connectionInd byte, renderedFu *model.FareUsage) (bool, error) {
	if connectionInd == model.FCNo {
		return false, nil
	}
	return ct.IsConnectionPoint(ts, renderedFu)
}

// FareBasisCode builds the printable fare-basis string for one travel
// segment of a fare component, hard-truncated to maxLen.
func (ct *CalcTotals) FareBasisCode(fu *model.FareUsage, ts *model.TravelSeg, maxLen int) string {
	if fu == nil || fu.Fare == nil {
		return ""
	}
	basis := fu.Fare.FareBasis

	if fu.SpecifiedFareBasis != "" {
		// user override replaces the basis wholesale, splicing any ticket
		// designator at the '/' separator
		basis = fu.SpecifiedFareBasis
		if fu.TicketDesignator != "" && !strings.Contains(basis, "/") {
			basis += "/" + fu.TicketDesignator
		}
	} else if fu.TicketDesignator != "" {
		basis += "/" + fu.TicketDesignator
	} else if fu.Fare.Industry && ts != nil && ts.BookingCode != "" {
		// industry (YY) fares show the booking code inside the basis
		if !strings.HasPrefix(basis, ts.BookingCode) {
			basis = ts.BookingCode + basis
		}
	}

	if app := ct.restrictionAppendage(fu); app != "" && fu.SpecifiedFareBasis == "" {
		basis += app
	}

	if maxLen > 0 && len(basis) > maxLen {
		basis = basis[:maxLen]
	}
	return basis
}

// restrictionAppendage returns the penalty-restriction suffix when the
// component's indicator is below the pricing unit's maximum.
func (ct *CalcTotals) restrictionAppendage(fu *model.FareUsage) string {
	if fu.Fare.PenaltyRestInd == 0 || ct.FarePath == nil {
		return ""
	}
	pu := ct.FarePath.PricingUnitFor(fu)
	if pu == nil {
		return ""
	}
	var maxInd byte
	for _, u := range pu.FareUsages {
		if u.Fare != nil && u.Fare.PenaltyRestInd > maxInd {
			maxInd = u.Fare.PenaltyRestInd
		}
	}
	if fu.Fare.PenaltyRestInd < maxInd {
		return "/" + string(rune(maxInd))
	}
	return ""
}

// AddMessage appends a trailer/warning record.
func (ct *CalcTotals) AddMessage(m model.FcMessage) {
	ct.FcMessages = append(ct.FcMessages, m)
}

// sameCitySurface reports a surface segment whose board and off cities
// match (a multi-airport city gap).
func sameCitySurface(ts *model.TravelSeg) bool {
	return !ts.IsAir() && ts.BoardMultiCity == ts.OffMultiCity
}
