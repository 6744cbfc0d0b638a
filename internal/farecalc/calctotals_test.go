package farecalc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfare/farecalc-service/internal/domain/model"
)

// buildTwoAirPath builds an itinerary of two air segments with the given
// ground time at the boundary, covered by a single fare component.
func buildTwoAirPath(geo model.GeoTravelType, ground time.Duration) (*model.FarePath, *model.TravelSeg, *model.FareUsage) {
	arr := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	s1 := &model.TravelSeg{
		ID: 1, Kind: model.SegmentAir, Carrier: "AA",
		OrigAirport: "LAX", DestAirport: "DFW",
		BoardMultiCity: "LAX", OffMultiCity: "DFW",
		Departure: arr.Add(-3 * time.Hour), Arrival: arr,
	}
	s2 := &model.TravelSeg{
		ID: 2, Kind: model.SegmentAir, Carrier: "AA",
		OrigAirport: "DFW", DestAirport: "MIA",
		BoardMultiCity: "DFW", OffMultiCity: "MIA",
		Departure: arr.Add(ground), Arrival: arr.Add(ground + 3*time.Hour),
	}
	fu := &model.FareUsage{ID: 1, TravelSegs: []*model.TravelSeg{s1, s2}}
	fp := &model.FarePath{
		Itin: &model.Itin{Segments: []*model.TravelSeg{s1, s2}, GeoTravelType: geo},
		PricingUnits: []*model.PricingUnit{
			{Type: model.PUOneWay, FareUsages: []*model.FareUsage{fu}},
		},
	}
	return fp, s1, fu
}

// TestCalcTotals_IsConnectionPoint tests the connection classification of
// a segment boundary.
func TestCalcTotals_IsConnectionPoint(t *testing.T) {
	tests := []struct {
		name   string
		geo    model.GeoTravelType
		ground time.Duration
		stop   model.StopType
		want   bool
	}{
		{
			name:   "international short ground time is a connection",
			geo:    model.GeoInternational,
			ground: 5 * time.Hour,
			want:   true,
		},
		{
			name:   "international long ground time is a stopover",
			geo:    model.GeoInternational,
			ground: 30 * time.Hour,
			want:   false,
		},
		{
			name:   "domestic threshold is four hours",
			geo:    model.GeoDomestic,
			ground: 5 * time.Hour,
			want:   false,
		},
		{
			name:   "domestic under four hours is a connection",
			geo:    model.GeoDomestic,
			ground: 2 * time.Hour,
			want:   true,
		},
		{
			name:   "explicit connection override wins",
			geo:    model.GeoInternational,
			ground: 30 * time.Hour,
			stop:   model.StopConnection,
			want:   true,
		},
		{
			name:   "explicit stopover override wins",
			geo:    model.GeoInternational,
			ground: 2 * time.Hour,
			stop:   model.StopStopover,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp, s1, fu := buildTwoAirPath(tt.geo, tt.ground)
			s1.Stop = tt.stop
			ct := NewCalcTotals(fp)

			got, err := ct.IsConnectionPoint(s1, fu)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// repeat calls return the same answer
			again, err := ct.IsConnectionPoint(s1, fu)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

// TestCalcTotals_IsConnectionPoint_LastSegment tests that the itinerary's
// final segment never ends in a connection.
func TestCalcTotals_IsConnectionPoint_LastSegment(t *testing.T) {
	fp, _, fu := buildTwoAirPath(model.GeoInternational, 2*time.Hour)
	ct := NewCalcTotals(fp)

	got, err := ct.IsConnectionPoint(fp.Itin.Segments[1], fu)
	require.NoError(t, err)
	assert.False(t, got)
}

// TestCalcTotals_IsConnectionPoint_UnknownSegment tests the corrupt-input
// error path.
func TestCalcTotals_IsConnectionPoint_UnknownSegment(t *testing.T) {
	fp, _, fu := buildTwoAirPath(model.GeoInternational, 2*time.Hour)
	ct := NewCalcTotals(fp)

	stray := &model.TravelSeg{ID: 99, Kind: model.SegmentAir}
	_, err := ct.IsConnectionPoint(stray, fu)
	assert.ErrorIs(t, err, ErrSystem)
}

// TestCalcTotals_StopoverPolicy tests the minimum-stay table selection when
// the boundary segment belongs to the following fare component.
func TestCalcTotals_StopoverPolicy(t *testing.T) {
	fp, s1, fu1 := buildTwoAirPath(model.GeoInternational, 30*time.Hour)
	// split the components: the boundary segment belongs to the second
	s2 := fp.Itin.Segments[1]
	fu1.TravelSegs = []*model.TravelSeg{s1}
	fu2 := &model.FareUsage{ID: 2, TravelSegs: []*model.TravelSeg{s2}, MinStayHours: 48}
	fp.PricingUnits = []*model.PricingUnit{
		{Type: model.PUOneWay, FareUsages: []*model.FareUsage{fu1}},
		{Type: model.PUOneWay, FareUsages: []*model.FareUsage{fu2}},
	}

	t.Run("following component table governs", func(t *testing.T) {
		ct := NewCalcTotals(fp)
		ct.SetStopoverPolicy(StopoverPolicyPerFareComponent)
		got, err := ct.IsConnectionPoint(s1, fu1)
		require.NoError(t, err)
		// 30h ground is under the component's 48h minimum stay
		assert.True(t, got)
	})

	t.Run("legacy policy keeps the geo default table", func(t *testing.T) {
		ct := NewCalcTotals(fp)
		ct.SetStopoverPolicy(StopoverPolicyLegacy)
		got, err := ct.IsConnectionPoint(s1, fu1)
		require.NoError(t, err)
		// 30h ground exceeds the international 24h default
		assert.False(t, got)
	})
}

// TestCalcTotals_SegmentOverrides tests the Cat-8/9 rule override
// precedence at the boundary.
func TestCalcTotals_SegmentOverrides(t *testing.T) {
	t.Run("transfer override forces a connection", func(t *testing.T) {
		fp, s1, fu := buildTwoAirPath(model.GeoInternational, 5*time.Hour)
		fu.TransferOverrides = map[int]bool{s1.ID: true}
		ct := NewCalcTotals(fp)
		got, err := ct.IsConnectionPoint(s1, fu)
		require.NoError(t, err)
		assert.True(t, got)
	})

	t.Run("stopover override beats transfer override", func(t *testing.T) {
		fp, s1, fu := buildTwoAirPath(model.GeoInternational, 5*time.Hour)
		fu.StopoverOverrides = map[int]bool{s1.ID: true}
		fu.TransferOverrides = map[int]bool{s1.ID: true}
		ct := NewCalcTotals(fp)
		got, err := ct.IsConnectionPoint(s1, fu)
		require.NoError(t, err)
		assert.False(t, got)
	})
}

// TestCalcTotals_DispConnectionInd tests the config gate over the marker.
func TestCalcTotals_DispConnectionInd(t *testing.T) {
	fp, s1, fu := buildTwoAirPath(model.GeoInternational, 5*time.Hour)
	ct := NewCalcTotals(fp)

	got, err := ct.DispConnectionInd(s1, 'X', fu)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = ct.DispConnectionInd(s1, model.FCNo, fu)
	require.NoError(t, err)
	assert.False(t, got)
}

// TestCalcTotals_FareBasisCode tests fare-basis assembly and truncation.
func TestCalcTotals_FareBasisCode(t *testing.T) {
	seg := &model.TravelSeg{ID: 1, Kind: model.SegmentAir, BookingCode: "Y"}

	tests := []struct {
		name string
		fu   *model.FareUsage
		max  int
		want string
	}{
		{
			name: "plain basis",
			fu:   &model.FareUsage{Fare: &model.Fare{FareBasis: "YOW"}},
			max:  model.MaxFareBasisSize,
			want: "YOW",
		},
		{
			name: "ticket designator appended",
			fu: &model.FareUsage{
				Fare:             &model.Fare{FareBasis: "YOW"},
				TicketDesignator: "CH25",
			},
			max:  model.MaxFareBasisSize,
			want: "YOW/CH25",
		},
		{
			name: "user override replaces wholesale",
			fu: &model.FareUsage{
				Fare:               &model.Fare{FareBasis: "YOW"},
				SpecifiedFareBasis: "QAP14/ID90",
				TicketDesignator:   "CH25",
			},
			max:  model.MaxFareBasisSize,
			want: "QAP14/ID90",
		},
		{
			name: "user override splices designator at the slash",
			fu: &model.FareUsage{
				Fare:               &model.Fare{FareBasis: "YOW"},
				SpecifiedFareBasis: "QAP14",
				TicketDesignator:   "ID90",
			},
			max:  model.MaxFareBasisSize,
			want: "QAP14/ID90",
		},
		{
			name: "industry fare injects the booking code",
			fu: &model.FareUsage{
				Fare: &model.Fare{FareBasis: "OW", Industry: true},
			},
			max:  model.MaxFareBasisSize,
			want: "YOW",
		},
		{
			name: "hard truncation at the standard width",
			fu: &model.FareUsage{
				Fare: &model.Fare{FareBasis: "YABCDEFGHIJKLMNOP"},
			},
			max:  model.MaxFareBasisSize,
			want: "YABCDEFGHIJKL",
		},
		{
			name: "hard truncation at the WQ width",
			fu: &model.FareUsage{
				Fare: &model.Fare{FareBasis: "YABCDEFGHIJKLMNOP"},
			},
			max:  model.MaxFareBasisSizeWqWpa,
			want: "YABCDEFGHI",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct := NewCalcTotals(nil)
			assert.Equal(t, tt.want, ct.FareBasisCode(tt.fu, seg, tt.max))
		})
	}
}

// TestCalcTotals_RestrictionAppendage tests the penalty-restriction suffix
// when a component is less restrictive than its pricing unit's maximum.
func TestCalcTotals_RestrictionAppendage(t *testing.T) {
	low := &model.FareUsage{ID: 1, Fare: &model.Fare{FareBasis: "QAP", PenaltyRestInd: 'A'}}
	high := &model.FareUsage{ID: 2, Fare: &model.Fare{FareBasis: "VAP", PenaltyRestInd: 'B'}}
	fp := &model.FarePath{
		PricingUnits: []*model.PricingUnit{
			{Type: model.PURoundTrip, FareUsages: []*model.FareUsage{low, high}},
		},
	}
	ct := NewCalcTotals(fp)

	assert.Equal(t, "QAP/B", ct.FareBasisCode(low, nil, model.MaxFareBasisSize))
	assert.Equal(t, "VAP", ct.FareBasisCode(high, nil, model.MaxFareBasisSize))
}

// TestCalcTotals_TotalFareAmount tests effective-currency total selection.
func TestCalcTotals_TotalFareAmount(t *testing.T) {
	ct := NewCalcTotals(nil)
	ct.ConvertedBaseFare = 500
	ct.ConvertedBaseFareCurrencyCode = "USD"
	ct.EquivFareAmount = 450
	ct.TaxRecords = []*model.TaxRecord{
		{Code: "US", Amount: 30},
		{Code: "XY", Amount: 10, Exempt: true},
	}

	assert.InDelta(t, 530, ct.TotalFareAmount(""), 1e-9)
	assert.InDelta(t, 530, ct.TotalFareAmount("USD"), 1e-9)
	assert.InDelta(t, 480, ct.TotalFareAmount("EUR"), 1e-9)
}

// TestCalcTotals_FareBreakPointInfo tests get-or-create snapshot semantics.
func TestCalcTotals_FareBreakPointInfo(t *testing.T) {
	ct := NewCalcTotals(nil)
	fu := &model.FareUsage{ID: 1}

	assert.False(t, ct.HasBreakPoint(fu))
	info := ct.FareBreakPointInfo(fu)
	info.FareAmount = 123.45
	assert.True(t, ct.HasBreakPoint(fu))
	assert.Same(t, info, ct.FareBreakPointInfo(fu))
	assert.Nil(t, ct.FareBreakPointInfo(nil))
}
