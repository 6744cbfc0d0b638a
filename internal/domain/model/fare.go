package model

// GlobalDirection is the IATA global direction of a fare market.
type GlobalDirection string

// Global directions used by the formatter. XX means "not determined" and is
// never displayed.
const (
	GlobalDirNone GlobalDirection = ""
	GlobalDirAT   GlobalDirection = "AT"
	GlobalDirPA   GlobalDirection = "PA"
	GlobalDirWH   GlobalDirection = "WH"
	GlobalDirEH   GlobalDirection = "EH"
	GlobalDirTS   GlobalDirection = "TS"
	GlobalDirXX   GlobalDirection = "XX"
)

// Fare is the immutable snapshot of a priced fare as the formatter needs it.
type Fare struct {
	Carrier       string  `json:"carrier"`
	FareClass     string  `json:"fare_class"`
	FareBasis     string  `json:"fare_basis"`
	Amount        float64 `json:"amount"`
	NucAmount     float64 `json:"nuc_amount"`
	Currency      string  `json:"currency"`
	OneWay        bool    `json:"one_way"`

	// Industry indicates a YY (multilateral) fare; the booking code is
	// injected into the displayed fare basis for those.
	Industry bool `json:"industry,omitempty"`

	// Routing fares never show mileage surcharge markers.
	Routing            bool `json:"routing,omitempty"`
	PSRApplied         bool `json:"psr_applied,omitempty"`
	MileageSurchargePct int  `json:"mileage_surcharge_pct,omitempty"`

	// MileageEqualization marks the Brazil RIO/SAO equalization case.
	MileageEqualization bool `json:"mileage_equalization,omitempty"`

	// SouthAtlanticExclusion lists ticketed-point city pairs for the T/ marker.
	SouthAtlanticExclusion []CityPair `json:"south_atlantic_exclusion,omitempty"`

	// PenaltyRestInd orders restriction severity for appendage selection.
	PenaltyRestInd byte `json:"penalty_rest_ind,omitempty"`

	// PrivateFareInd is the private-fare ("most restrictive wins") marker.
	PrivateFareInd byte `json:"private_fare_ind,omitempty"`

	// Cat-35 negotiated fare data.
	NetRemit bool `json:"net_remit,omitempty"`
}

// CityPair is an origin/destination city pair.
type CityPair struct {
	Board string `json:"board"`
	Off   string `json:"off"`
}

// SurchargeData is one Cat-12 surcharge attached to a travel segment.
type SurchargeData struct {
	AmountNuc    float64 `json:"amount_nuc"`
	ItemCount    int     `json:"item_count"`
	Selected     bool    `json:"selected"`
	SingleSector bool    `json:"single_sector"`
	FpLevel      bool    `json:"fp_level"`
	BoardCity    string  `json:"board_city"`
	OffCity      string  `json:"off_city"`
}

// SectorSurcharge is a stopover or transfer surcharge applied to one segment.
type SectorSurcharge struct {
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	SegmentSpecific bool    `json:"segment_specific"`
}

// HipPlusUp is a Higher Intermediate Point minimum-fare plus-up.
type HipPlusUp struct {
	Amount         float64 `json:"amount"`
	BoardPoint     string  `json:"board_point"`
	OffPoint       string  `json:"off_point"`
	ConstructPoint string  `json:"construct_point,omitempty"`
}

// MileageType classifies the saved per-segment mileage display data.
type MileageType int

const (
	// MileageTicketedPoint marks a T/ south atlantic ticketed point display.
	MileageTicketedPoint MileageType = iota
	// MileageEqualizationPoint marks a B/ equalization display.
	MileageEqualizationPoint
)

// MileageData records a mileage marker emitted for a segment, kept on the
// calc totals for the downstream ticketing image.
type MileageData struct {
	Type    MileageType
	City    string
	Segment *TravelSeg
}

// PricingUnitType classifies the fare construction of a pricing unit.
type PricingUnitType int

const (
	PUOneWay PricingUnitType = iota
	PURoundTrip
	PUCircleTrip
	PUOpenJaw
)

// PricingUnit groups fare components into one round-trip/open-jaw/circle
// construction.
type PricingUnit struct {
	Type       PricingUnitType `json:"type"`
	FareUsages []*FareUsage    `json:"fare_usages"`

	// SameFareBreaks marks a mirror-image round trip: both components break
	// at the same points with evenly split amounts. Penny adjustment prefers
	// the outbound component of such units.
	SameFareBreaks bool `json:"same_fare_breaks,omitempty"`
}

// IsMirrorRoundTrip reports whether this unit is a mirror-image round trip
// eligible for outbound penny adjustment.
func (pu *PricingUnit) IsMirrorRoundTrip() bool {
	return pu.Type == PURoundTrip && pu.SameFareBreaks && len(pu.FareUsages) == 2
}

// FareUsage is one fare component: a fare applied over a contiguous run of
// travel segments.
type FareUsage struct {
	ID         int          `json:"id"`
	Fare       *Fare        `json:"fare"`
	TravelSegs []*TravelSeg `json:"travel_segs"`

	// Outbound marks the outbound component of its pricing unit.
	Outbound bool `json:"outbound"`

	// TotalFareAmount is the component total in calculation currency,
	// surcharges and plus-ups included.
	TotalFareAmount float64 `json:"total_fare_amount"`

	// Per-segment rule overrides from the governing fare's stopover (Cat-8)
	// and transfer (Cat-9) records, keyed by segment ID.
	StopoverOverrides map[int]bool `json:"stopover_overrides,omitempty"`
	TransferOverrides map[int]bool `json:"transfer_overrides,omitempty"`

	// Surcharges keyed by segment ID.
	Surcharges         map[int][]*SurchargeData   `json:"surcharges,omitempty"`
	StopoverSurcharges map[int][]*SectorSurcharge `json:"stopover_surcharges,omitempty"`
	TransferSurcharges map[int][]*SectorSurcharge `json:"transfer_surcharges,omitempty"`

	HipPlusUp *HipPlusUp `json:"hip_plus_up,omitempty"`

	// Differential fares collected into the path-level D blocks.
	Differentials []*Differential `json:"differentials,omitempty"`

	// SideTripPUs holds the nested pricing units of a side trip that starts
	// inside this component.
	SideTripPUs []*PricingUnit `json:"side_trip_pus,omitempty"`

	// User inputs carried from the pricing entry.
	SpecifiedFareBasis string `json:"specified_fare_basis,omitempty"`
	TicketDesignator   string `json:"ticket_designator,omitempty"`

	// Stopover minimum-stay evaluation inputs.
	MinStayHours int `json:"min_stay_hours,omitempty"`

	// Net-remit cross references (Cat-35 retrieved published fare).
	NetOriginalUsage *FareUsage `json:"-"`
	// TFDPSCResults maps segment ID to the substituted fare basis for
	// ticket-fare-data-per-segment results.
	TFDPSCResults map[int]string `json:"tfdpsc_results,omitempty"`

	// GlobalDirections keyed by segment ID; only displayed when the city
	// pair is served by more than one global direction.
	GlobalDirections map[int]GlobalDirection `json:"global_directions,omitempty"`
	MultiGlobalDir   map[int]bool            `json:"multi_global_dir,omitempty"`

	// ExtraMileage segments carry the E/ marker.
	ExtraMileageSegs map[int]bool `json:"extra_mileage_segs,omitempty"`
	ExtraMileageFare bool         `json:"extra_mileage_fare,omitempty"`
}

// HasSideTrip reports whether a side trip nests inside this component.
func (fu *FareUsage) HasSideTrip() bool { return len(fu.SideTripPUs) > 0 }

// OwnsSegment reports whether ts belongs to this fare component.
func (fu *FareUsage) OwnsSegment(ts *TravelSeg) bool {
	for _, s := range fu.TravelSegs {
		if s == ts {
			return true
		}
	}
	return false
}

// FirstTravelSeg returns the component's first segment, or nil.
func (fu *FareUsage) FirstTravelSeg() *TravelSeg {
	if len(fu.TravelSegs) == 0 {
		return nil
	}
	return fu.TravelSegs[0]
}

// LastTravelSeg returns the component's last segment, or nil.
func (fu *FareUsage) LastTravelSeg() *TravelSeg {
	if len(fu.TravelSegs) == 0 {
		return nil
	}
	return fu.TravelSegs[len(fu.TravelSegs)-1]
}

// Differential is a class differential collected into a D block.
type Differential struct {
	Amount       float64 `json:"amount"`
	BoardCity    string  `json:"board_city"`
	OffCity      string  `json:"off_city"`
	HighClass    string  `json:"high_class,omitempty"`
	LowClass     string  `json:"low_class,omitempty"`
	FareClassHi  string  `json:"fare_class_hi,omitempty"`
}

// PaxType identifies one requested passenger type and count.
type PaxType struct {
	Code   string `json:"code"`
	Number int    `json:"number"`
	// InputOrder preserves the order the type appeared in the entry.
	InputOrder int `json:"input_order"`
}

// FarePath is one priced, ticketable combination of fare components covering
// the whole itinerary for one passenger type.
type FarePath struct {
	Itin         *Itin          `json:"itin"`
	PaxType      *PaxType       `json:"pax_type"`
	PricingUnits []*PricingUnit `json:"pricing_units"`

	// TotalNUCAmount is the path total in calculation currency.
	TotalNUCAmount      float64 `json:"total_nuc_amount"`
	CalculationCurrency string  `json:"calculation_currency"`
	BaseFareCurrency    string  `json:"base_fare_currency"`

	// Processed is false when pricing failed for this path.
	Processed bool `json:"processed"`
	// NoMatch marks a WPA/WQ option priced without booking-code match.
	NoMatch bool `json:"no_match,omitempty"`
	// RebookRequired marks an option that needs rebooking to the priced RBD.
	RebookRequired bool `json:"rebook_required,omitempty"`

	// Consolidator plus-up amount (Cat-35 type C).
	ConsolidatorPlusUp float64 `json:"consolidator_plus_up,omitempty"`

	// RateOfExchange endorsement data for the END line.
	RateOfExchange float64 `json:"rate_of_exchange,omitempty"`
	RoeCurrency    string  `json:"roe_currency,omitempty"`

	// Endorsements to display after the fare calc line.
	Endorsements []string `json:"endorsements,omitempty"`

	// Net-remit / adjusted-selling alternate valuations of this path.
	NetRemitFarePath *FarePath `json:"net_remit_fare_path,omitempty"`
	AdjustedFarePath *FarePath `json:"adjusted_fare_path,omitempty"`
	// OriginalFarePath links a net-remit path back to its source.
	OriginalFarePath *FarePath `json:"-"`

	// ValidatingCarriers per settlement plan for trailer messaging.
	ValidatingCarriers []ValidatingCarrier `json:"validating_carriers,omitempty"`
}

// ValidatingCarrier describes the ticketing authority under one settlement plan.
type ValidatingCarrier struct {
	SettlementPlan string   `json:"settlement_plan"`
	Default        string   `json:"default"`
	Alternates     []string `json:"alternates,omitempty"`
	Optionals      []string `json:"optionals,omitempty"`
	// GSASwapFor is set when Default issues per a GSA agreement with
	// the named carrier.
	GSASwapFor string `json:"gsa_swap_for,omitempty"`
}

// FareUsages returns the path's fare components ordered by the itinerary
// position of their first travel segment, top-level pricing units only.
func (fp *FarePath) FareUsages() []*FareUsage {
	var fus []*FareUsage
	for _, pu := range fp.PricingUnits {
		fus = append(fus, pu.FareUsages...)
	}
	if fp.Itin != nil {
		// insertion sort; component counts are tiny
		for i := 1; i < len(fus); i++ {
			for j := i; j > 0; j-- {
				a, b := fus[j-1], fus[j]
				if fp.Itin.SegmentOrder(a.FirstTravelSeg()) <= fp.Itin.SegmentOrder(b.FirstTravelSeg()) {
					break
				}
				fus[j-1], fus[j] = b, a
			}
		}
	}
	return fus
}

// PricingUnitFor returns the pricing unit owning fu, or nil.
func (fp *FarePath) PricingUnitFor(fu *FareUsage) *PricingUnit {
	for _, pu := range fp.PricingUnits {
		for _, u := range pu.FareUsages {
			if u == fu {
				return pu
			}
		}
	}
	return nil
}
