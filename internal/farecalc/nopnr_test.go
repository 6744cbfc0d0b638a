package farecalc

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfare/farecalc-service/internal/domain/model"
)

func buildNoPNR(cfg *model.FareCalcConfig, cts ...*CalcTotals) *NoPNRFareCalculation {
	trx := &Transaction{
		Request:    &model.PricingRequest{Entry: model.EntryWQ},
		Options:    &model.PricingOptions{},
		PaxTypes:   []*model.PaxType{{Code: "ADT", Number: 1}},
		CalcTotals: cts,
	}
	return NewNoPNRFareCalculation(trx, cfg, zerolog.Nop())
}

// TestNoPNR_DisplayIndicesVector tests range compaction of option indices.
func TestNoPNR_DisplayIndicesVector(t *testing.T) {
	tests := []struct {
		name      string
		indices   []int
		twoDigits bool
		want      string
	}{
		{
			name:    "consecutive runs collapse to ranges",
			indices: []int{1, 2, 3, 5, 6, 9},
			want:    "OPTIONS - 1-3,5-6,9\n",
		},
		{
			name:    "singles stay separate",
			indices: []int{2, 4, 7},
			want:    "OPTIONS - 2,4,7\n",
		},
		{
			name:    "a pair becomes a range",
			indices: []int{1, 2},
			want:    "OPTIONS - 1-2\n",
		},
		{
			name:      "two digit padding",
			indices:   []int{1, 2, 3, 9},
			twoDigits: true,
			want:      "OPTIONS - 01-03,09\n",
		},
		{
			name:    "empty produces nothing",
			indices: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := model.DefaultFareCalcConfig()
			cfg.NoPNR.AlwaysTwoDigits = tt.twoDigits
			n := buildNoPNR(cfg)
			n.displayIndicesVector("OPTIONS - ", tt.indices)
			assert.Equal(t, tt.want, n.disp.String())
		})
	}
}

// TestNoPNR_DisplayIndicesVector_Wrap tests the window wrap of a long
// indices list.
func TestNoPNR_DisplayIndicesVector_Wrap(t *testing.T) {
	n := buildNoPNR(nil)
	indices := make([]int, 0, 30)
	for i := 1; i <= 30; i++ {
		indices = append(indices, i*2) // no consecutive runs
	}
	n.displayIndicesVector("OPTIONS - ", indices)

	for _, line := range Split(n.disp.String()) {
		assert.LessOrEqual(t, len(line), DefaultWidth)
	}
}

// TestNoPNR_SortOptions tests price ordering of fare options.
func TestNoPNR_SortOptions(t *testing.T) {
	cheap := buildPricedOption("ADT", 100)
	cheap.EquivFareAmount = 100
	mid := buildPricedOption("ADT", 200)
	mid.EquivFareAmount = 200
	costly := buildPricedOption("ADT", 300)
	costly.EquivFareAmount = 300

	t.Run("ascending by default", func(t *testing.T) {
		n := buildNoPNR(nil, costly, cheap, mid)
		got := n.sortOptions([]*CalcTotals{costly, cheap, mid})
		assert.Equal(t, []*CalcTotals{cheap, mid, costly}, got)
	})

	t.Run("descending when configured", func(t *testing.T) {
		cfg := model.DefaultFareCalcConfig()
		cfg.NoPNR.DescendingSort = true
		n := buildNoPNR(cfg, costly, cheap, mid)
		got := n.sortOptions([]*CalcTotals{costly, cheap, mid})
		assert.Equal(t, []*CalcTotals{costly, mid, cheap}, got)
	})

	t.Run("taxes count toward the total", func(t *testing.T) {
		taxed := buildPricedOption("ADT", 100, &model.TaxRecord{Code: "US", Amount: 150, NoDec: 2})
		taxed.EquivFareAmount = 100
		n := buildNoPNR(nil, taxed, mid)
		got := n.sortOptions([]*CalcTotals{taxed, mid})
		assert.Equal(t, []*CalcTotals{mid, taxed}, got)
	})
}

// TestNoPNR_CheckDetailFormat tests selection of the per-option detail
// display.
func TestNoPNR_CheckDetailFormat(t *testing.T) {
	one := buildPricedOption("ADT", 100)
	two := buildPricedOption("ADT", 200)

	t.Run("secondary response always detail", func(t *testing.T) {
		n := buildNoPNR(nil, one, two)
		n.trx.Request.SecondaryResponse = true
		assert.True(t, n.checkDetailFormat())
	})

	t.Run("single matched option gets detail", func(t *testing.T) {
		n := buildNoPNR(nil, one)
		assert.True(t, n.checkDetailFormat())
	})

	t.Run("multiple matched options get the summary", func(t *testing.T) {
		n := buildNoPNR(nil, one, two)
		assert.False(t, n.checkDetailFormat())
	})

	t.Run("a single no-match option gets the summary", func(t *testing.T) {
		nm := buildPricedOption("ADT", 100)
		nm.FarePath.NoMatch = true
		n := buildNoPNR(nil, nm)
		assert.False(t, n.checkDetailFormat())
	})

	t.Run("detail display disabled by config", func(t *testing.T) {
		cfg := model.DefaultFareCalcConfig()
		cfg.NoPNR.PsgDetailLineFormat = model.FCTwo
		n := buildNoPNR(cfg, one)
		assert.False(t, n.checkDetailFormat())
	})
}

// TestNoPNR_RebookTrailer tests the variants of the rebook trailer message.
func TestNoPNR_RebookTrailer(t *testing.T) {
	option := func(amount float64, ref int, rebook bool) *CalcTotals {
		ct := buildPricedOption("ADT", amount)
		ct.WpaPsgRefNo = ref
		ct.FarePath.RebookRequired = rebook
		return ct
	}

	t.Run("suppressed when configured off", func(t *testing.T) {
		cfg := model.DefaultFareCalcConfig()
		cfg.NoPNR.RbdMatchTrailerMsg = model.FCThree
		n := buildNoPNR(cfg)
		n.displayRebookMessage([]*CalcTotals{option(100, 1, false), option(200, 2, true)})
		assert.Empty(t, n.disp.String())
	})

	t.Run("no attention prefix when configured plain", func(t *testing.T) {
		cfg := model.DefaultFareCalcConfig()
		cfg.NoPNR.RbdMatchTrailerMsg = model.FCTwo
		n := buildNoPNR(cfg)
		n.displayRebookMessage([]*CalcTotals{option(100, 1, false), option(200, 2, true)})
		assert.Contains(t, n.disp.String(), "APPLICABLE BOOKING CLASS REQUIRED FOR OPTIONS - 2")
		assert.NotContains(t, n.disp.String(), "ATTN*")
	})

	t.Run("configured text replaces the list when every option needs rebooking", func(t *testing.T) {
		cfg := model.DefaultFareCalcConfig()
		cfg.Messages = map[string]string{
			model.MsgWpaNoMatchRebook: "REBOOK REQUIRED FOR ALL OPTIONS",
		}
		n := buildNoPNR(cfg)
		n.displayRebookMessage([]*CalcTotals{option(100, 1, true), option(200, 2, true)})
		assert.Contains(t, n.disp.String(), "REBOOK REQUIRED FOR ALL OPTIONS")
		assert.NotContains(t, n.disp.String(), "APPLICABLE BOOKING CLASS")
	})
}

// TestNoPNR_Process tests the multi-option summary display with the rebook
// trailer message.
func TestNoPNR_Process(t *testing.T) {
	one := buildPricedOption("ADT", 100)
	one.EquivFareAmount = 100
	two := buildPricedOption("ADT", 200)
	two.EquivFareAmount = 200
	two.FarePath.RebookRequired = true

	n := buildNoPNR(nil, two, one)
	res, err := n.Process()
	require.NoError(t, err)

	// options come out cheapest first with assigned indices
	assert.Equal(t, 1, one.WpaPsgRefNo)
	assert.Equal(t, 2, two.WpaPsgRefNo)
	assert.Contains(t, res.Display, "1 ADT")
	assert.Contains(t, res.Display, "2 ADT")
	// the rebook-required option is starred and listed in the trailer
	assert.Contains(t, res.Display, "  *")
	assert.Contains(t, res.Display, "ATTN*APPLICABLE BOOKING CLASS REQUIRED FOR OPTIONS - 2")
	assert.Contains(t, res.Display, "REBOOK OPTION OF CHOICE BEFORE STORING FARE")
}

// TestNoPNR_MaxOptions tests truncation to the configured option count.
func TestNoPNR_MaxOptions(t *testing.T) {
	var cts []*CalcTotals
	for i := 1; i <= 5; i++ {
		ct := buildPricedOption("ADT", float64(i*100))
		ct.EquivFareAmount = float64(i * 100)
		cts = append(cts, ct)
	}
	cfg := model.DefaultFareCalcConfig()
	cfg.NoPNR.MaxNoOptions = 3

	n := buildNoPNR(cfg, cts...)
	res, err := n.Process()
	require.NoError(t, err)

	assert.Contains(t, res.Display, "3 ADT")
	assert.NotContains(t, res.Display, "4 ADT")
	assert.Equal(t, 0, cts[3].WpaPsgRefNo)
}
