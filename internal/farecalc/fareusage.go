package farecalc

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/skyfare/farecalc-service/internal/domain/model"
)

// fareUsageRenderer emits the compact fare-calculation tokens for the fare
// components of one fare path, in itinerary order, into a Stream. It is the
// per-component half of the line renderer; pathRenderer drives it and adds
// the path-level trailer tokens.
type fareUsageRenderer struct {
	req           *model.PricingRequest
	opts          *model.PricingOptions
	cfg           *model.FareCalcConfig
	log           zerolog.Logger
	ticketingDate time.Time

	fp         *model.FarePath
	calcTotals *CalcTotals
	os         *Stream
	adjustment *FareAmountAdjustment

	// originalCalcTotals is set for net-remit paths whose retrieved
	// published fare lives on a different fare market.
	originalCalcTotals *CalcTotals
	useNetPubFbc       bool

	matchCurrencyCode bool
	noDec             int
	surchargeCount    int
	prevFareUsage     *model.FareUsage
	prevDest          string
	prevDestConn      bool
	inSideTrip        bool
	isWq              bool
}

func newFareUsageRenderer(
	req *model.PricingRequest,
	opts *model.PricingOptions,
	cfg *model.FareCalcConfig,
	log zerolog.Logger,
	ticketingDate time.Time,
	fp *model.FarePath,
	ct *CalcTotals,
	os *Stream,
	adj *FareAmountAdjustment,
	originalCT *CalcTotals,
	useNetPubFbc bool,
	isWq bool,
) *fareUsageRenderer {
	r := &fareUsageRenderer{
		req:                req,
		opts:               opts,
		cfg:                cfg,
		log:                log,
		ticketingDate:      ticketingDate,
		fp:                 fp,
		calcTotals:         ct,
		os:                 os,
		adjustment:         adj,
		originalCalcTotals: originalCT,
		useNetPubFbc:       useNetPubFbc,
		isWq:               isWq,
	}
	if ct != nil {
		if fp.CalculationCurrency == ct.EquivCurrencyCode {
			r.matchCurrencyCode = true
		}
		if fp.CalculationCurrency == NUC {
			r.noDec = 2
		} else {
			r.noDec = ct.ConvertedBaseFareNoDec
		}
	}
	return r
}

// render emits one fare component, skipping duplicates and out-of-order
// components the same way the production display pass does.
func (r *fareUsageRenderer) render(fu *model.FareUsage) error {
	if fu == nil || r.calcTotals == nil || fu == r.prevFareUsage {
		return nil
	}
	if !r.inSideTrip && r.prevFareUsage != nil {
		itin := r.fp.Itin
		if itin.SegmentOrder(fu.FirstTravelSeg()) < itin.SegmentOrder(r.prevFareUsage.LastTravelSeg()) {
			return nil
		}
	}
	if err := r.displayFareUsage(fu); err != nil {
		return err
	}
	r.prevFareUsage = fu
	return nil
}

// netOriginalUsage resolves the original fare component of a net-remit path
// when the retrieved published fare changed fare markets.
func (r *fareUsageRenderer) netOriginalUsage(fu *model.FareUsage) *model.FareUsage {
	if r.originalCalcTotals == nil {
		return nil
	}
	return fu.NetOriginalUsage
}

// travelSegs picks which segment list to display. Net-remit components show
// the original component's segments, except TFDPSC results which always use
// the new component's own segments.
func (r *fareUsageRenderer) travelSegs(netOriginalFu, fu *model.FareUsage) []*model.TravelSeg {
	if netOriginalFu != nil {
		if len(fu.TFDPSCResults) > 0 {
			return fu.TravelSegs
		}
		return netOriginalFu.TravelSegs
	}
	return fu.TravelSegs
}

func (r *fareUsageRenderer) displayFareUsage(fu *model.FareUsage) error {
	netOriginalFu := r.netOriginalUsage(fu)
	tvlSegs := r.travelSegs(netOriginalFu, fu)
	if len(tvlSegs) == 0 {
		return nil
	}

	sideTripProcessed := false
	fareBasisSpace := r.prevFareUsage != nil
	lastTvlSeg := tvlSegs[len(tvlSegs)-1]
	tktPos := -1

	group := NewGroup(r.os, false)
	defer group.End()
	cnxGroup := false

	var orig, dest string
	for i, ts := range tvlSegs {
		orig = r.displayLoc(ts.BoardMultiCity, ts.OrigAirport)
		dest = r.displayLoc(ts.OffMultiCity, ts.DestAirport)

		if orig == dest && !ts.IsAir() {
			var err error
			sideTripProcessed, cnxGroup, err = r.processSideTrip(fu, ts, sideTripProcessed, cnxGroup, group)
			if err != nil {
				return err
			}
			r.prevDest = dest
			continue
		}

		firstCity := i == 0 && r.prevFareUsage == nil && r.prevDest == ""
		fareBreak := ts.ForcedFareBrk || ts == lastTvlSeg
		prevFareBreak := i == 0 && !firstCity

		if firstCity && r.cfg.TvlCommencementDate == model.FCYes {
			r.displayTravelCommenceDate()
		}

		r.log.Debug().
			Str("orig", orig).Str("dest", dest).
			Bool("first_city", firstCity).Bool("fare_break", fareBreak).
			Msg("fare calc segment")

		nextSeg := ts
		if i+1 < len(tvlSegs) {
			nextSeg = tvlSegs[i+1]
		}

		var err error
		if fu.HasSideTrip() && !sideTripProcessed && r.isNotArunkSegBeforeSideTrip(fu, nextSeg) {
			sideTripProcessed, cnxGroup, err = r.processSideTrip(fu, ts, sideTripProcessed, cnxGroup, group)
			if err != nil {
				return err
			}
			cnxGroup = r.displayOrigAirport(ts, orig, firstCity, prevFareBreak, cnxGroup, group)
		} else {
			cnxGroup = r.displayOrigAirport(ts, orig, firstCity, prevFareBreak, cnxGroup, group)
			sideTripProcessed, cnxGroup, err = r.processSideTrip(fu, ts, sideTripProcessed, cnxGroup, group)
			if err != nil {
				return err
			}
		}

		lastFuTvlSeg := ts == lastTvlSeg
		if lastFuTvlSeg {
			tktPos = len(r.os.TicketStr())
		}

		cnxGroup = r.displayCarrier(fu, ts, fareBasisSpace, cnxGroup, group)

		dispSeg := ts
		if netOriginalFu != nil {
			if mapped := r.netRemitSeg(netOriginalFu, ts); mapped != nil {
				dispSeg = mapped
			}
		}

		cnxGroup, err = r.displayDestAirport(fu, dispSeg, dest, fareBreak, lastFuTvlSeg, cnxGroup, group)
		if err != nil {
			return err
		}

		if r.useNetPubFbc && i+1 < len(tvlSegs) {
			if fbc, ok := fu.TFDPSCResults[ts.ID]; ok && fbc != "" {
				r.setFbcFromTFDPSC(fbc)
			}
		}

		cnxGroup = r.displayCat12Surcharge(dispSeg, cnxGroup, group)

		if lastFuTvlSeg {
			cnxGroup = r.displayCat12MultiSector(tvlSegs, cnxGroup, group)
			cnxGroup = r.displayBreakOffMileageSurcharge(fu, dispSeg, cnxGroup, group)
			cnxGroup = r.displayHipPlusUp(fu, cnxGroup, group)
		}

		cnxGroup = r.displaySectorSurcharges(r.calcTotals.StopoverSurcharges[ts.ID], cnxGroup, group)
		cnxGroup = r.displaySectorSurcharges(r.calcTotals.TransferSurcharges[ts.ID], cnxGroup, group)

		r.calcTotals.TicketOrigin = append(r.calcTotals.TicketOrigin, orig)
		r.calcTotals.TicketDestination = append(r.calcTotals.TicketDestination, dest)

		fareBasisSpace = false
		r.prevDest = dest
	}

	cnxGroup = r.displayFareAmount(fu, cnxGroup, group, lastTvlSeg)

	if cnxGroup {
		group.End()
	}

	if tktPos >= 0 {
		r.calcTotals.TicketFareInfo = append(r.calcTotals.TicketFareInfo, r.os.TicketStr()[tktPos:])
	}
	return nil
}

// netRemitSeg matches a displayed original segment to the equivalent new
// fare-market segment by city-pair identity.
func (r *fareUsageRenderer) netRemitSeg(netOriginalFu *model.FareUsage, ts *model.TravelSeg) *model.TravelSeg {
	for _, s := range netOriginalFu.TravelSegs {
		if s.BoardMultiCity == ts.BoardMultiCity && s.OffMultiCity == ts.OffMultiCity {
			return s
		}
	}
	return nil
}

func (r *fareUsageRenderer) isNotArunkSegBeforeSideTrip(fu *model.FareUsage, ts *model.TravelSeg) bool {
	if ts.Kind == model.SegmentArunk && len(fu.SideTripPUs) > 0 {
		first := fu.SideTripPUs[0]
		if len(first.FareUsages) > 0 {
			stFirst := first.FareUsages[0].FirstTravelSeg()
			if r.fp.Itin.SegmentOrder(ts) < r.fp.Itin.SegmentOrder(stFirst) {
				return false
			}
		}
	}
	return true
}

// displayTravelCommenceDate shows the journey start date ahead of the first
// city when configured. An open first segment without a departure date
// falls back to the ticketing date.
func (r *fareUsageRenderer) displayTravelCommenceDate() {
	switch r.opts.ReturnAllData {
	case "GDS", "WD", "FP":
		return
	}
	if len(r.fp.Itin.Segments) == 0 {
		return
	}
	ts := r.fp.Itin.Segments[0]
	if !ts.IsAir() {
		return
	}
	date := ts.Departure
	if date.IsZero() {
		date = r.ticketingDate
	}
	if date.IsZero() {
		return
	}
	r.os.WriteString(strings.ToUpper(date.Format("02Jan06")))
}

func (r *fareUsageRenderer) displayOrigAirport(ts *model.TravelSeg, orig string, firstCity, fareBreak, cnxGroup bool, group *Group) bool {
	if firstCity {
		r.os.WriteString(" " + orig + " ")
		return cnxGroup
	}
	if ts.Kind == model.SegmentArunk {
		if r.req.IsAxess() && cnxGroup {
			group.End()
			group.Start()
		}
		r.os.WriteString("//")
		return cnxGroup
	}
	if r.prevDest != orig {
		if r.req.IsAxess() {
			r.displaySurfaceSegment(orig, fareBreak, cnxGroup, group)
		} else {
			r.os.WriteString("/-" + orig)
		}
	}
	return cnxGroup
}

// displaySurfaceSegment renders the Axess surface variants: a non-break
// surface shows the gap as //  (with the connection marker carried over),
// a fare-break surface shows /-CTY grouped atomically.
func (r *fareUsageRenderer) displaySurfaceSegment(orig string, fareBreak, cnxGroup bool, group *Group) {
	if !fareBreak {
		if cnxGroup {
			group.End()
			group.Start()
		}
		if r.prevDestConn {
			r.os.WriteString("//X/" + orig)
		} else {
			r.os.WriteString("//" + orig)
		}
		return
	}
	g := NewGroup(r.os, true)
	defer g.End()
	r.os.WriteString("/-" + orig)
}

func (r *fareUsageRenderer) displayCarrier(fu *model.FareUsage, ts *model.TravelSeg, fareBasisSpace, cnxGroup bool, group *Group) bool {
	if !ts.IsAir() {
		return cnxGroup
	}
	if cnxGroup {
		cnxGroup = false
		group.End()
	}

	carrier := ts.Carrier
	if carrier == "" || carrier == "  " {
		carrier = "YY"
	}

	if !r.os.LastCharSpace() && !r.os.LastCharSpecial() {
		if fareBasisSpace && r.cfg.FareBasisDisplayOpt == model.FCYes {
			r.os.WriteString(" ")
		} else if (isAlpha(carrier[0]) && r.os.LastCharAlpha()) ||
			(isDigit(carrier[0]) && r.os.LastCharDigit()) ||
			(isDigit(carrier[0]) && r.os.LastCharAlpha()) {
			r.os.WriteString(" ")
		}
	}
	r.os.WriteString(carrier)
	r.displayGlobalDirection(fu, ts)
	return cnxGroup
}

// displayGlobalDirection emits the bracketed global direction marker when
// the city pair is served by more than one global direction, otherwise a
// single space.
func (r *fareUsageRenderer) displayGlobalDirection(fu *model.FareUsage, ts *model.TravelSeg) {
	var dir model.GlobalDirection
	if r.isWq {
		dir = fu.GlobalDirections[ts.ID]
	} else if ts.GlobalDirOverride != "" {
		dir = model.GlobalDirection(ts.GlobalDirOverride)
	} else {
		dir = fu.GlobalDirections[ts.ID]
	}

	if dir == "" || dir == model.GlobalDirXX || !fu.MultiGlobalDir[ts.ID] {
		r.os.WriteString(" ")
		return
	}
	if r.opts.PlainMarkers() {
		r.os.WriteString("*")
		return
	}
	open, close := r.markerPair()
	r.os.WriteString(open)
	r.os.WriteString(string(dir))
	r.os.WriteString(close)
}

// markerPair returns the configured bracket pair for global-direction and
// side-trip markers.
func (r *fareUsageRenderer) markerPair() (string, string) {
	if r.cfg.GlobalSidetripInd == model.FCOne {
		if r.req.IsAxess() {
			return "(", "*"
		}
		return "(", ")"
	}
	return "*", "*"
}

func (r *fareUsageRenderer) displayDestAirport(fu *model.FareUsage, ts *model.TravelSeg, dest string, fareBreak, lastFuTvlSeg, cnxGroup bool, group *Group) (bool, error) {
	if !r.os.LastCharSpace() && (r.os.LastCharAlpha() || r.os.LastCharDigit()) {
		if cnxGroup {
			cnxGroup = false
			group.End()
		}
		r.os.WriteString(" ")
	}

	if r.req.IsAxess() && !cnxGroup {
		cnxGroup = true
		group.Start()
	}

	conn, err := r.calcTotals.DispConnectionInd(ts, r.cfg.FcConnectionInd, fu)
	if err != nil {
		return cnxGroup, err
	}
	if conn {
		r.prevDestConn = true
		r.os.WriteString("X/")
	} else {
		r.prevDestConn = false
	}

	if !fareBreak && !lastFuTvlSeg {
		cnxGroup = r.displayNonBreakOffMileageSurcharge(fu, ts, cnxGroup, group, dest)
	}

	r.os.WriteString(dest)
	return cnxGroup, nil
}

// breakForMarker closes any open connection group and inserts spacing ahead
// of a mileage marker.
func (r *fareUsageRenderer) breakForMarker(cnxGroup bool, group *Group) bool {
	if r.os.LastCharAlpha() || r.os.LastCharSpecial() {
		if cnxGroup {
			cnxGroup = false
			group.End()
		}
		r.os.WriteString(" ")
	}
	if r.req.IsAxess() && !cnxGroup {
		cnxGroup = true
		group.Start()
	}
	return cnxGroup
}

func (r *fareUsageRenderer) displayNonBreakOffMileageSurcharge(fu *model.FareUsage, ts *model.TravelSeg, cnxGroup bool, group *Group, dest string) bool {
	if fu.Fare == nil {
		return cnxGroup
	}

	if r.calcTotals.ExtraMileageSegs[ts.ID] {
		cnxGroup = r.breakForMarker(cnxGroup, group)
		r.os.WriteString("E/")
	}

	for _, pair := range fu.Fare.SouthAtlanticExclusion {
		if pair.Board == ts.BoardMultiCity && pair.Off == ts.OffMultiCity {
			cnxGroup = r.breakForMarker(cnxGroup, group)
			r.os.WriteString("T/")
			r.saveMileageData(ts, model.MileageTicketedPoint, dest)
			break
		}
	}
	return cnxGroup
}

func (r *fareUsageRenderer) displayBreakOffMileageSurcharge(fu *model.FareUsage, ts *model.TravelSeg, cnxGroup bool, group *Group) bool {
	fare := fu.Fare
	if fare == nil {
		return cnxGroup
	}

	if fare.MileageEqualization && !fare.Routing {
		if r.os.LastCharAlpha() || r.os.LastCharSpecial() {
			if cnxGroup {
				cnxGroup = false
				group.End()
			}
			r.os.WriteString(" ")
		}
		boardCity := fu.FirstTravelSeg().BoardMultiCity
		offCity := fu.LastTravelSeg().OffMultiCity
		city := "RIO"
		if boardCity == "RIO" || offCity == "RIO" {
			city = "SAO"
		}
		if r.req.IsAxess() && !cnxGroup {
			cnxGroup = true
			group.Start()
		}
		r.os.WriteString("B/" + city)
		r.saveMileageData(ts, model.MileageEqualizationPoint, city)
	}

	if !fare.Routing && r.calcTotals.ExtraMileageFareUsages[fu] {
		cnxGroup = r.breakForMarker(cnxGroup, group)
		r.os.WriteString("E/XXX")
	}

	if fare.Routing || fare.PSRApplied {
		return cnxGroup
	}

	if fare.MileageSurchargePct > 0 {
		if r.os.LastCharDigit() {
			if cnxGroup {
				cnxGroup = false
				group.End()
			}
			r.os.WriteString(" ")
		}
		// no break between the percentage and M
		r.os.WriteString(strconv.Itoa(fare.MileageSurchargePct) + "M")
	} else if airSegCount(fu.TravelSegs) > 1 {
		if r.os.LastCharAlpha() {
			if cnxGroup {
				cnxGroup = false
				group.End()
			}
			r.os.WriteString(" ")
		}
		if r.req.IsAxess() && !cnxGroup {
			cnxGroup = true
			group.Start()
		}
		r.os.WriteString("M")
	}
	return cnxGroup
}

func (r *fareUsageRenderer) displayHipPlusUp(fu *model.FareUsage, cnxGroup bool, group *Group) bool {
	hip := fu.HipPlusUp
	if hip == nil {
		return cnxGroup
	}
	if cnxGroup {
		cnxGroup = false
		group.End()
	}
	r.os.WriteString(" ")

	if r.req.IsAxess() {
		if hip.ConstructPoint != "" {
			// no break between C/ and the constructed point
			r.os.WriteString("C/" + hip.ConstructPoint + " ")
		}
		cnxGroup = true
		group.Start()
		r.os.WriteString(hip.BoardPoint + hip.OffPoint)
		return cnxGroup
	}

	if hip.ConstructPoint != "" {
		r.os.WriteString("C/" + hip.ConstructPoint).WriteString(" ")
	}
	r.os.WriteString(hip.BoardPoint + hip.OffPoint)
	return cnxGroup
}

// surchargeSpacing inserts the configured spacing ahead of a Q/S amount.
func (r *fareUsageRenderer) surchargeSpacing() {
	if r.os.LastCharAlpha() ||
		(r.surchargeCount == 0 && r.os.LastCharDigit()) ||
		(r.surchargeCount > 0 && r.cfg.MultiSurchargeSpacing == model.FCYes) {
		r.os.WriteString(" ")
	}
}

func (r *fareUsageRenderer) displayCat12Surcharge(ts *model.TravelSeg, cnxGroup bool, group *Group) bool {
	for _, sc := range r.calcTotals.Surcharges[ts.ID] {
		if sc.AmountNuc == 0 || !sc.Selected || !sc.SingleSector || sc.FpLevel {
			continue
		}
		if cnxGroup {
			cnxGroup = false
			group.End()
		}
		amount := sc.AmountNuc * float64(sc.ItemCount)
		r.surchargeSpacing()
		g := NewGroup(r.os, true)
		r.os.WriteString("Q" + formatAmount(amount, r.noDec))
		g.End()
		r.surchargeCount++
	}
	return cnxGroup
}

// displayCat12MultiSector emits the multi-sector Q surcharges of the whole
// component with their city pair.
func (r *fareUsageRenderer) displayCat12MultiSector(tvlSegs []*model.TravelSeg, cnxGroup bool, group *Group) bool {
	for _, ts := range tvlSegs {
		for _, sc := range r.calcTotals.Surcharges[ts.ID] {
			if sc.AmountNuc == 0 || !sc.Selected || sc.SingleSector || sc.FpLevel {
				continue
			}
			if cnxGroup {
				cnxGroup = false
				group.End()
			}
			amount := sc.AmountNuc * float64(sc.ItemCount)
			r.surchargeSpacing()
			g := NewGroup(r.os, true)
			r.os.WriteString("Q " + sc.BoardCity + sc.OffCity + formatAmount(amount, r.noDec))
			g.End()
			r.surchargeCount++
		}
	}
	return cnxGroup
}

func (r *fareUsageRenderer) displaySectorSurcharges(scs []*model.SectorSurcharge, cnxGroup bool, group *Group) bool {
	for _, sc := range scs {
		if sc.Amount <= Epsilon || !sc.SegmentSpecific {
			continue
		}
		if cnxGroup {
			cnxGroup = false
			group.End()
		}
		if r.os.LastCharAlpha() ||
			(r.surchargeCount > 0 && r.cfg.MultiSurchargeSpacing == model.FCYes) {
			r.os.WriteString(" ")
		}
		if r.cfg.WrapAround == model.FCTwo {
			g := NewGroup(r.os, true)
			r.os.WriteString("S" + formatAmount(sc.Amount, r.noDec))
			g.End()
		} else {
			r.os.WriteString("S" + formatAmount(sc.Amount, r.noDec))
		}
		r.surchargeCount++
	}
	return cnxGroup
}

func (r *fareUsageRenderer) displayFareAmount(fu *model.FareUsage, cnxGroup bool, group *Group, lastTs *model.TravelSeg) bool {
	info := r.calcTotals.FareBreakPointInfo(fu)
	if info == nil {
		return cnxGroup
	}
	if info.FareAmount == 0 && info.FareBasisCode == "" {
		maxLen := model.MaxFareBasisSize
		if r.isWq {
			maxLen = model.MaxFareBasisSizeWqWpa
		}
		info.FareAmount = r.adjustment.AdjustedComponentAmount(fu, fu.TotalFareAmount)
		info.FareBasisCode = r.calcTotals.FareBasisCode(fu, lastTs, maxLen)
	}

	if r.os.LastCharDigit() {
		r.os.WriteString(" ")
	}
	if r.req.IsAxess() && !cnxGroup {
		cnxGroup = true
		group.Start()
	}

	r.os.WriteString(formatAmount(info.FareAmount, r.noDec))

	fareBasis := info.FareBasisCode
	if r.cfg.FareBasisDisplayOpt == model.FCYes {
		if r.useNetPubFbc && info.NetPubFbc != "" {
			fareBasis = info.NetPubFbc
		}
		r.os.WriteString(fareBasis)
	}

	if !r.useNetPubFbc {
		r.calcTotals.TicketFareBasisCode = append(r.calcTotals.TicketFareBasisCode, fareBasis)
	}
	return cnxGroup
}

// displayLoc resolves the configured display-location override for an
// airport, falling back to its multi-airport city.
func (r *fareUsageRenderer) displayLoc(multiCity, airport string) string {
	if loc, ok := r.cfg.DisplayLoc(airport); ok {
		if loc != "" {
			return loc
		}
		return multiCity
	}
	if multiCity != "" {
		return multiCity
	}
	return airport
}

// processSideTrip renders fu's side trip the first time a segment at or past
// the side trip's start is seen.
func (r *fareUsageRenderer) processSideTrip(fu *model.FareUsage, ts *model.TravelSeg, processed, cnxGroup bool, group *Group) (bool, bool, error) {
	if !fu.HasSideTrip() || processed {
		return processed, cnxGroup, nil
	}
	if cnxGroup {
		cnxGroup = false
		group.End()
	}
	done, err := r.displaySideTrip(fu, ts)
	return done, cnxGroup, err
}

// displaySideTrip renders the nested side-trip fare components between
// opening and closing markers. The closing marker is emitted on every exit
// path, including render failures, so a truncated nested render never
// leaves the brackets unbalanced.
func (r *fareUsageRenderer) displaySideTrip(fu *model.FareUsage, ts *model.TravelSeg) (bool, error) {
	if len(fu.SideTripPUs) == 0 {
		return false, nil
	}
	first := fu.SideTripPUs[0]
	if len(first.FareUsages) == 0 {
		return false, nil
	}
	stStart := first.FareUsages[0].FirstTravelSeg()
	if r.fp.Itin.SegmentOrder(ts) < r.fp.Itin.SegmentOrder(stStart) {
		return false, nil
	}

	err := func() error {
		r.startSideTripMarker()
		defer r.endSideTripMarker()

		prevInSideTrip := r.inSideTrip
		prevFu := r.prevFareUsage
		prevDest := r.prevDest
		r.inSideTrip = true
		defer func() {
			r.inSideTrip = prevInSideTrip
			r.prevFareUsage = prevFu
			r.prevDest = prevDest
		}()

		for _, pu := range fu.SideTripPUs {
			for _, stFu := range pu.FareUsages {
				if err := r.render(stFu); err != nil {
					return err
				}
			}
		}
		return nil
	}()
	return true, err
}

func (r *fareUsageRenderer) startSideTripMarker() {
	if r.os.LastCharSpecial() {
		return
	}
	if r.plainSideTripMarker() {
		r.os.WriteString("*")
		return
	}
	open, _ := r.markerPair()
	r.os.WriteString(open)
}

func (r *fareUsageRenderer) endSideTripMarker() {
	if r.os.LastCharSpecial() {
		return
	}
	if r.plainSideTripMarker() {
		r.os.WriteString("*")
		return
	}
	_, close := r.markerPair()
	r.os.WriteString(close)
}

func (r *fareUsageRenderer) plainSideTripMarker() bool {
	if r.opts.PlainMarkers() {
		return true
	}
	return r.req.LowFare && !r.req.IsAxess()
}

func (r *fareUsageRenderer) setFbcFromTFDPSC(fbc string) {
	if !r.os.LastCharSpace() && !r.os.LastCharDigit() {
		r.os.WriteString(" ")
	}
	r.os.WriteString(fbc)
	r.os.WriteString(" ")
}

func (r *fareUsageRenderer) saveMileageData(ts *model.TravelSeg, mt model.MileageType, city string) {
	r.calcTotals.MileageData = append(r.calcTotals.MileageData, model.MileageData{
		Type:    mt,
		City:    city,
		Segment: ts,
	})
}

func airSegCount(segs []*model.TravelSeg) int {
	n := 0
	for _, ts := range segs {
		if ts.Kind != model.SegmentSurface {
			n++
		}
	}
	return n
}

func isAlpha(c byte) bool { return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
