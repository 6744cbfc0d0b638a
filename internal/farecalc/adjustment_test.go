package farecalc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skyfare/farecalc-service/internal/domain/model"
)

// TestFareAmountAdjustment_NoDiscrepancy tests the agreeing-totals case.
func TestFareAmountAdjustment_NoDiscrepancy(t *testing.T) {
	fu1 := &model.FareUsage{ID: 1, TotalFareAmount: 100.00}
	fu2 := &model.FareUsage{ID: 2, TotalFareAmount: 57.50}
	fp := &model.FarePath{
		TotalNUCAmount: 157.50,
		PricingUnits: []*model.PricingUnit{
			{Type: model.PUOneWay, FareUsages: []*model.FareUsage{fu1}},
			{Type: model.PUOneWay, FareUsages: []*model.FareUsage{fu2}},
		},
	}

	adj := NewFareAmountAdjustment(fp, []*model.FareUsage{fu1, fu2})
	assert.True(t, adj.Process())
	assert.Equal(t, NoAdjustment, adj.Type())
	assert.False(t, adj.IsAdjusted())
	assert.False(t, adj.IsAdjustedFor(fu1))
	assert.Equal(t, 100.00, adj.AdjustedComponentAmount(fu1, 100.00))
}

// TestFareAmountAdjustment_MirrorRoundTrip tests penny redistribution onto
// the outbound component of a mirror-image round trip.
func TestFareAmountAdjustment_MirrorRoundTrip(t *testing.T) {
	out := &model.FareUsage{ID: 1, Outbound: true, TotalFareAmount: 50.00}
	in := &model.FareUsage{ID: 2, TotalFareAmount: 50.00}
	fp := &model.FarePath{
		TotalNUCAmount: 100.01,
		PricingUnits: []*model.PricingUnit{
			{
				Type:           model.PURoundTrip,
				SameFareBreaks: true,
				FareUsages:     []*model.FareUsage{out, in},
			},
		},
	}

	adj := NewFareAmountAdjustment(fp, []*model.FareUsage{out, in})
	assert.True(t, adj.Process())
	assert.Equal(t, AdjustFareComponent, adj.Type())
	assert.True(t, adj.IsAdjustedFor(out))
	assert.False(t, adj.IsAdjustedFor(in))
	assert.False(t, adj.IsAdjusted())
	assert.InDelta(t, 50.01, adj.AdjustedComponentAmount(out, 50.00), 1e-9)
	assert.Equal(t, 50.00, adj.AdjustedComponentAmount(in, 50.00))
}

// TestFareAmountAdjustment_AdjustTotal tests moving the difference onto the
// path total when no mirror round trip is present.
func TestFareAmountAdjustment_AdjustTotal(t *testing.T) {
	tests := []struct {
		name       string
		pathTotal  float64
		wantAmount float64
	}{
		{name: "total above the sum", pathTotal: 100.01, wantAmount: 0.01},
		{name: "total below the sum", pathTotal: 99.99, wantAmount: -0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fu := &model.FareUsage{ID: 1, TotalFareAmount: 100.00}
			fp := &model.FarePath{
				TotalNUCAmount: tt.pathTotal,
				PricingUnits: []*model.PricingUnit{
					{Type: model.PUOneWay, FareUsages: []*model.FareUsage{fu}},
				},
			}

			adj := NewFareAmountAdjustment(fp, []*model.FareUsage{fu})
			assert.True(t, adj.Process())
			assert.Equal(t, AdjustTotal, adj.Type())
			assert.True(t, adj.IsAdjusted())
			assert.False(t, adj.IsAdjustedFor(fu))
			assert.InDelta(t, tt.wantAmount, adj.Amount(), 1e-9)
		})
	}
}

// TestFareAmountAdjustment_Impossible tests that a discrepancy wider than
// one cent per component fails reconciliation.
func TestFareAmountAdjustment_Impossible(t *testing.T) {
	fu := &model.FareUsage{ID: 1, TotalFareAmount: 100.00}
	fp := &model.FarePath{
		TotalNUCAmount: 100.05,
		PricingUnits: []*model.PricingUnit{
			{Type: model.PUOneWay, FareUsages: []*model.FareUsage{fu}},
		},
	}

	adj := NewFareAmountAdjustment(fp, []*model.FareUsage{fu})
	assert.False(t, adj.Process())
	assert.False(t, adj.Status())
	assert.False(t, adj.IsAdjusted())
	assert.False(t, adj.IsAdjustedFor(fu))
	// render unadjusted
	assert.Equal(t, 100.00, adj.AdjustedComponentAmount(fu, 100.00))
}

// TestFareAmountAdjustment_HipPlusUpCounted tests that HIP plus-ups join
// the component sum before comparing against the path total.
func TestFareAmountAdjustment_HipPlusUpCounted(t *testing.T) {
	fu := &model.FareUsage{
		ID:              1,
		TotalFareAmount: 90.00,
		HipPlusUp:       &model.HipPlusUp{Amount: 10.00, BoardPoint: "DFW", OffPoint: "MIA"},
	}
	fp := &model.FarePath{
		TotalNUCAmount: 100.00,
		PricingUnits: []*model.PricingUnit{
			{Type: model.PUOneWay, FareUsages: []*model.FareUsage{fu}},
		},
	}

	adj := NewFareAmountAdjustment(fp, []*model.FareUsage{fu})
	assert.True(t, adj.Process())
	assert.Equal(t, NoAdjustment, adj.Type())
}

// TestFareAmountAdjustment_DuplicatesIgnored tests that repeated component
// references are counted once.
func TestFareAmountAdjustment_DuplicatesIgnored(t *testing.T) {
	fu := &model.FareUsage{ID: 1, TotalFareAmount: 100.00}
	fp := &model.FarePath{
		TotalNUCAmount: 100.00,
		PricingUnits: []*model.PricingUnit{
			{Type: model.PUOneWay, FareUsages: []*model.FareUsage{fu}},
		},
	}

	adj := NewFareAmountAdjustment(fp, []*model.FareUsage{fu, fu, nil})
	assert.True(t, adj.Process())
	assert.Equal(t, NoAdjustment, adj.Type())
}

// TestFareAmountAdjustment_ProcessIdempotent tests that repeat Process
// calls return the first outcome.
func TestFareAmountAdjustment_ProcessIdempotent(t *testing.T) {
	adj := NewFareAmountAdjustment(nil, nil)
	assert.False(t, adj.Process())
	assert.False(t, adj.Process())
}
