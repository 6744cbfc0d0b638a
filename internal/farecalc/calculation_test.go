package farecalc

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfare/farecalc-service/internal/domain/model"
)

// buildPricedOption builds a fully renderable single-segment fare path with
// its calc totals, priced in USD.
func buildPricedOption(pax string, base float64, taxes ...*model.TaxRecord) *CalcTotals {
	dep := time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)
	s1 := airSeg(1, "AA", "DFW", "ORD", dep, dep.Add(2*time.Hour))
	fu := &model.FareUsage{
		ID: 1, TravelSegs: []*model.TravelSeg{s1},
		TotalFareAmount: base,
		Fare:            &model.Fare{FareBasis: "Y26", Routing: true},
	}
	fp := &model.FarePath{
		Itin: &model.Itin{
			Segments:      []*model.TravelSeg{s1},
			GeoTravelType: model.GeoDomestic,
		},
		PaxType:             &model.PaxType{Code: pax, Number: 1},
		PricingUnits:        []*model.PricingUnit{{Type: model.PUOneWay, FareUsages: []*model.FareUsage{fu}}},
		TotalNUCAmount:      base,
		CalculationCurrency: "USD",
		BaseFareCurrency:    "USD",
		Processed:           true,
	}
	ct := NewCalcTotals(fp)
	ct.ConvertedBaseFare = base
	ct.TaxRecords = taxes
	ct.TaxNoDec = 2
	return ct
}

// TestFareCalculation_Horizontal tests the one-line fare/tax/total block,
// the passenger header and the grand total line.
func TestFareCalculation_Horizontal(t *testing.T) {
	ct := buildPricedOption("ADT", 500, &model.TaxRecord{Code: "US", Amount: 30, NoDec: 2})
	trx := &Transaction{
		Request:    &model.PricingRequest{},
		Options:    &model.PricingOptions{},
		PaxTypes:   []*model.PaxType{{Code: "ADT", Number: 1}},
		CalcTotals: []*CalcTotals{ct},
	}

	fc := NewFareCalculation(trx, nil, zerolog.Nop())
	res, err := fc.Process()
	require.NoError(t, err)

	assert.Contains(t, res.Display, " 1-       500.00")
	assert.Contains(t, res.Display, "      30.00US")
	assert.Contains(t, res.Display, "       USD530.00ADT")
	assert.Contains(t, res.Display, "TTL")
	assert.Contains(t, res.Display, "PSGR TYPE  ADT - 01")
	assert.Contains(t, res.Display, " DFW AA ORD500.00Y26 USD500.00END")
}

// TestFareCalculation_Vertical tests the labeled FARE/TAX/TOTAL lines and
// the single-passenger grand total suppression.
func TestFareCalculation_Vertical(t *testing.T) {
	ct := buildPricedOption("ADT", 500, &model.TaxRecord{Code: "US", Amount: 30, NoDec: 2})
	cfg := model.DefaultFareCalcConfig()
	cfg.FareTaxTotalInd = model.LayoutVertical
	trx := &Transaction{
		Request:    &model.PricingRequest{},
		Options:    &model.PricingOptions{},
		PaxTypes:   []*model.PaxType{{Code: "ADT", Number: 1}},
		CalcTotals: []*CalcTotals{ct},
	}

	fc := NewFareCalculation(trx, cfg, zerolog.Nop())
	res, err := fc.Process()
	require.NoError(t, err)

	assert.Contains(t, res.Display, "FARE  USD  500.00")
	assert.Contains(t, res.Display, "TAX      30.00US")
	assert.Contains(t, res.Display, "TOTAL   530.00")
	assert.NotContains(t, res.Display, "TTL")
}

// TestFareCalculation_TaxBreakDown tests the XT collapse and breakdown line
// with more than one tax.
func TestFareCalculation_TaxBreakDown(t *testing.T) {
	ct := buildPricedOption("ADT", 500,
		&model.TaxRecord{Code: "US", Amount: 30, NoDec: 2},
		&model.TaxRecord{Code: "XY", Amount: 10, NoDec: 2},
	)
	trx := &Transaction{
		Request:    &model.PricingRequest{},
		Options:    &model.PricingOptions{},
		PaxTypes:   []*model.PaxType{{Code: "ADT", Number: 1}},
		CalcTotals: []*CalcTotals{ct},
	}

	fc := NewFareCalculation(trx, nil, zerolog.Nop())
	res, err := fc.Process()
	require.NoError(t, err)

	// the tax box shows the aggregate under XT
	assert.Contains(t, res.Display, "      40.00XT")
	assert.Contains(t, res.Display, "    XT")
	assert.Contains(t, res.Display, "30.00US")
	assert.Contains(t, res.Display, "10.00XY")
}

// TestFareCalculation_ExceedLength tests the amount-width overflow error
// and the hosted-carrier widening carve-out.
func TestFareCalculation_ExceedLength(t *testing.T) {
	build := func() *Transaction {
		ct := buildPricedOption("ADT", 500)
		ct.EquivCurrencyCode = "EUR"
		ct.EquivFareAmount = 123456789.00
		ct.EquivNoDec = 2
		return &Transaction{
			Request:    &model.PricingRequest{},
			Options:    &model.PricingOptions{CurrencyOverride: "EUR"},
			PaxTypes:   []*model.PaxType{{Code: "ADT", Number: 1}},
			CalcTotals: []*CalcTotals{ct},
		}
	}

	t.Run("overflow is fatal", func(t *testing.T) {
		fc := NewFareCalculation(build(), nil, zerolog.Nop())
		_, err := fc.Process()
		assert.ErrorIs(t, err, ErrExceedLength)
	})

	t.Run("hosted carrier partition widens instead", func(t *testing.T) {
		trx := build()
		trx.Request.HostCarrier = "BA"
		fc := NewFareCalculation(trx, nil, zerolog.Nop())
		_, err := fc.Process()
		assert.NoError(t, err)
	})
}

// TestFareCalculation_NoMatch tests the no-fare message for an unpriced
// passenger type.
func TestFareCalculation_NoMatch(t *testing.T) {
	ct := buildPricedOption("INF", 0)
	ct.FarePath.Processed = false
	trx := &Transaction{
		Request:    &model.PricingRequest{},
		Options:    &model.PricingOptions{},
		PaxTypes:   []*model.PaxType{{Code: "INF", Number: 1}},
		CalcTotals: []*CalcTotals{ct},
	}

	fc := NewFareCalculation(trx, nil, zerolog.Nop())
	res, err := fc.Process()
	require.NoError(t, err)

	assert.Contains(t, res.Display, "ATTN*NO FARE FOR PASSENGER TYPE INF")
	require.NotEmpty(t, res.Messages)
	assert.Equal(t, model.FcMsgNoMatch, res.Messages[0].Type)
}

// TestFareCalculation_RecordQuote tests the WPRQ retention notice.
func TestFareCalculation_RecordQuote(t *testing.T) {
	ct := buildPricedOption("ADT", 500)
	trx := &Transaction{
		Request:    &model.PricingRequest{},
		Options:    &model.PricingOptions{RecordQuote: true},
		PaxTypes:   []*model.PaxType{{Code: "ADT", Number: 1}},
		CalcTotals: []*CalcTotals{ct},
	}

	fc := NewFareCalculation(trx, nil, zerolog.Nop())
	res, err := fc.Process()
	require.NoError(t, err)
	assert.Contains(t, res.Display, "PRICE QUOTE RECORD RETAINED")
}

// TestFareCalculation_AxessPrefix tests the partner entry prefixes.
func TestFareCalculation_AxessPrefix(t *testing.T) {
	tests := []struct {
		name string
		req  *model.PricingRequest
		want string
	}{
		{
			name: "WP entry",
			req:  &model.PricingRequest{Agent: model.AgentAxess, Entry: model.EntryWP},
			want: "VT \n",
		},
		{
			name: "WPA entry",
			req:  &model.PricingRequest{Agent: model.AgentAxess, Entry: model.EntryWPA},
			want: "VD \n",
		},
		{
			name: "net fare entry",
			req:  &model.PricingRequest{Agent: model.AgentAxess, WpNett: true},
			want: "NET FARE AMOUNT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct := buildPricedOption("ADT", 500)
			trx := &Transaction{
				Request:    tt.req,
				Options:    &model.PricingOptions{},
				PaxTypes:   []*model.PaxType{{Code: "ADT", Number: 1}},
				CalcTotals: []*CalcTotals{ct},
			}
			fc := NewFareCalculation(trx, nil, zerolog.Nop())
			res, err := fc.Process()
			require.NoError(t, err)
			assert.Contains(t, res.Display, tt.want)
		})
	}
}

// TestFareCalculation_GrandTotalMixedCurrency tests column suppression when
// passenger types price in different currencies.
func TestFareCalculation_GrandTotalMixedCurrency(t *testing.T) {
	adt := buildPricedOption("ADT", 500)
	chd := buildPricedOption("CNN", 400)
	chd.ConvertedBaseFareCurrencyCode = "CAD"
	trx := &Transaction{
		Request: &model.PricingRequest{},
		Options: &model.PricingOptions{},
		PaxTypes: []*model.PaxType{
			{Code: "ADT", Number: 1, InputOrder: 0},
			{Code: "CNN", Number: 1, InputOrder: 1},
		},
		CalcTotals: []*CalcTotals{adt, chd},
	}

	fc := NewFareCalculation(trx, nil, zerolog.Nop())
	res, err := fc.Process()
	require.NoError(t, err)

	// the base column is suppressed, not summed across currencies
	assert.NotContains(t, res.Display, "900.00")
}

// TestFareCalculation_Endorsements tests endorsement lines after the fare
// calc line, truncated to the configured limit.
func TestFareCalculation_Endorsements(t *testing.T) {
	ct := buildPricedOption("ADT", 500)
	ct.FarePath.Endorsements = []string{"NONREF/NOCHNGS"}
	trx := &Transaction{
		Request:    &model.PricingRequest{},
		Options:    &model.PricingOptions{},
		PaxTypes:   []*model.PaxType{{Code: "ADT", Number: 1}},
		CalcTotals: []*CalcTotals{ct},
	}

	fc := NewFareCalculation(trx, nil, zerolog.Nop())
	res, err := fc.Process()
	require.NoError(t, err)

	assert.Contains(t, res.Display, "NONREF/NOCHNGS")
	found := false
	for _, m := range res.Messages {
		if m.Type == model.FcMsgEndorsement {
			found = true
		}
	}
	assert.True(t, found)
}
