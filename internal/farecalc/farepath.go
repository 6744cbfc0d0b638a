package farecalc

import (
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/skyfare/farecalc-service/internal/domain/model"
)

// pathRenderer builds the complete fare calculation line of one fare path:
// the per-component token runs followed by the path-level differential,
// surcharge-total, plus-up, currency-total, END/ROE and tax annotation
// tokens.
type pathRenderer struct {
	req           *model.PricingRequest
	opts          *model.PricingOptions
	cfg           *model.FareCalcConfig
	log           zerolog.Logger
	ticketingDate time.Time

	fp         *model.FarePath
	calcTotals *CalcTotals
	os         *Stream
	isWq       bool

	useNetPubFbc bool
	originalCT   *CalcTotals
}

func newPathRenderer(
	req *model.PricingRequest,
	opts *model.PricingOptions,
	cfg *model.FareCalcConfig,
	log zerolog.Logger,
	ticketingDate time.Time,
	fp *model.FarePath,
	ct *CalcTotals,
	os *Stream,
	isWq bool,
	originalCT *CalcTotals,
	useNetPubFbc bool,
) *pathRenderer {
	return &pathRenderer{
		req:           req,
		opts:          opts,
		cfg:           cfg,
		log:           log,
		ticketingDate: ticketingDate,
		fp:            fp,
		calcTotals:    ct,
		os:            os,
		isWq:          isWq,
		originalCT:    originalCT,
		useNetPubFbc:  useNetPubFbc,
	}
}

// Render emits the fare calculation line into the stream and caches the
// formatted forms on the calc totals.
func (p *pathRenderer) Render() error {
	fus := p.fp.FareUsages()

	adj := NewFareAmountAdjustment(p.fp, fus)
	if !adj.Process() {
		p.log.Warn().
			Str("pax", p.fp.PaxType.Code).
			Msg("fare amount adjustment not applicable; rendering unadjusted totals")
	}

	fuRenderer := newFareUsageRenderer(
		p.req, p.opts, p.cfg, p.log, p.ticketingDate,
		p.fp, p.calcTotals, p.os, adj,
		p.originalCT, p.useNetPubFbc, p.isWq,
	)

	for _, fu := range fus {
		if err := fuRenderer.render(fu); err != nil {
			return err
		}
	}

	noDec := fuRenderer.noDec

	p.displayDifferentials(fus, noDec)
	p.displaySurchargeTotals(fus, noDec)
	p.displayFpLevelSurcharges(noDec)
	p.displayConsolidatorPlusUp(noDec)
	p.displayCurrencyTotal(adj, noDec)
	p.displayRoeEndorsement()
	p.displayTaxAnnotations()

	p.calcTotals.FareCalcLine = p.os.Str()
	p.calcTotals.TicketFareCalcLine = p.os.TicketStr()
	return nil
}

// displayDifferentials emits the path-level D blocks for class
// differentials collected on the components.
func (p *pathRenderer) displayDifferentials(fus []*model.FareUsage, noDec int) {
	for _, fu := range fus {
		for _, d := range fu.Differentials {
			if d.Amount <= Epsilon {
				continue
			}
			if !p.os.LastCharSpace() {
				p.os.WriteString(" ")
			}
			g := NewGroup(p.os, true)
			p.os.WriteString("D " + d.BoardCity + d.OffCity + formatAmount(d.Amount, noDec))
			if d.FareClassHi != "" {
				p.os.WriteString(d.FareClassHi)
			}
			g.End()
		}
	}
}

// displaySurchargeTotals emits the aggregated non-segment-specific stopover
// and transfer surcharges of the whole path.
func (p *pathRenderer) displaySurchargeTotals(fus []*model.FareUsage, noDec int) {
	var stopTotal, xferTotal float64
	for _, fu := range fus {
		for _, scs := range fu.StopoverSurcharges {
			for _, sc := range scs {
				if !sc.SegmentSpecific && sc.Amount > Epsilon {
					stopTotal += sc.Amount
				}
			}
		}
		for _, scs := range fu.TransferSurcharges {
			for _, sc := range scs {
				if !sc.SegmentSpecific && sc.Amount > Epsilon {
					xferTotal += sc.Amount
				}
			}
		}
	}
	for _, total := range []float64{stopTotal, xferTotal} {
		if total <= Epsilon {
			continue
		}
		if p.os.LastCharAlpha() {
			p.os.WriteString(" ")
		}
		g := NewGroup(p.os, true)
		p.os.WriteString("S" + formatAmount(total, noDec))
		g.End()
	}
}

// displayFpLevelSurcharges emits Cat-12 surcharges applied at fare-path
// level rather than to one sector.
func (p *pathRenderer) displayFpLevelSurcharges(noDec int) {
	for _, segID := range p.orderedSegIDs() {
		for _, sc := range p.calcTotals.Surcharges[segID] {
			if sc.AmountNuc == 0 || !sc.Selected || !sc.FpLevel {
				continue
			}
			amount := sc.AmountNuc * float64(sc.ItemCount)
			if p.os.LastCharAlpha() || p.os.LastCharDigit() {
				p.os.WriteString(" ")
			}
			g := NewGroup(p.os, true)
			p.os.WriteString("Q" + formatAmount(amount, noDec))
			g.End()
		}
	}
}

func (p *pathRenderer) orderedSegIDs() []int {
	if p.fp.Itin == nil {
		return nil
	}
	ids := make([]int, 0, len(p.fp.Itin.Segments))
	for _, ts := range p.fp.Itin.Segments {
		ids = append(ids, ts.ID)
	}
	return ids
}

func (p *pathRenderer) displayConsolidatorPlusUp(noDec int) {
	if p.fp.ConsolidatorPlusUp <= Epsilon {
		return
	}
	if !p.os.LastCharSpace() {
		p.os.WriteString(" ")
	}
	g := NewGroup(p.os, true)
	p.os.WriteString("Q" + formatAmount(p.fp.ConsolidatorPlusUp, noDec))
	g.End()
}

// displayCurrencyTotal closes the itinerary token run with the calculation
// currency code and path total, e.g. NUC657.50.
func (p *pathRenderer) displayCurrencyTotal(adj *FareAmountAdjustment, noDec int) {
	total := p.fp.TotalNUCAmount
	if adj.IsAdjusted() {
		// whole-total adjustment closes the gap toward the component sum
		total -= adj.Amount()
	}
	g := NewGroup(p.os, true)
	if !p.os.LastCharSpace() {
		p.os.WriteString(" ")
	}
	p.os.WriteString(p.fp.CalculationCurrency + formatAmount(total, noDec))
	g.End()
}

// displayRoeEndorsement emits the END marker and, for NUC calculations, the
// rate-of-exchange used. The rate and precision supplied with the priced
// path win; the fare-path endorsement field is the fallback.
func (p *pathRenderer) displayRoeEndorsement() {
	p.os.WriteString("END")
	if p.fp.CalculationCurrency != NUC {
		return
	}
	rate, noDec := p.calcTotals.RoeRate, p.calcTotals.RoeNoDec
	if rate <= 0 {
		rate, noDec = p.fp.RateOfExchange, 0
	}
	if rate <= 0 {
		return
	}
	g := NewGroup(p.os, true)
	p.os.WriteString(" ROE" + formatRoe(rate, noDec))
	g.End()
}

// formatRoe renders the rate with up to noDec decimals, six when the
// request did not carry a precision. Whole rates keep two decimals,
// fractional rates drop trailing zeros.
func formatRoe(rate float64, noDec int) string {
	if rate == math.Trunc(rate) {
		return formatAmount(rate, 2)
	}
	if noDec <= 0 {
		noDec = 6
	}
	s := strings.TrimRight(formatAmount(rate, noDec), "0")
	return strings.TrimSuffix(s, ".")
}

// displayTaxAnnotations appends the ZP boarding-point amounts and the XF
// passenger facility charges to the line.
func (p *pathRenderer) displayTaxAnnotations() {
	var zp, xf []*model.TaxItem
	for _, ti := range p.calcTotals.TaxItems {
		switch ti.Code {
		case "ZP":
			zp = append(zp, ti)
		case "XF":
			xf = append(xf, ti)
		}
	}
	if len(zp) > 0 {
		p.os.WriteString(" ")
		g := NewGroup(p.os, true)
		p.os.WriteString("ZP")
		g.End()
		for _, ti := range zp {
			seg := ti.BoardAirport
			if p.cfg.ZpAmountDisplayInd == model.FCYes && ti.Amount > Epsilon {
				seg += formatAmount(ti.Amount, 2)
			}
			g := NewGroup(p.os, true)
			p.os.WriteString(seg)
			g.End()
		}
	}
	if len(xf) > 0 {
		p.os.WriteString(" ")
		g := NewGroup(p.os, true)
		p.os.WriteString("XF")
		g.End()
		for _, ti := range xf {
			g := NewGroup(p.os, true)
			p.os.WriteString(ti.BoardAirport + formatAmount(ti.Amount, 0))
			g.End()
		}
	}
}

