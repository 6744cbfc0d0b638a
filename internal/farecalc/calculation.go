package farecalc

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/skyfare/farecalc-service/internal/domain/model"
)

// Transaction aggregates the read-only inputs of one rendering pass: the
// request flags, the priced fare-path options (as calc totals) and the
// passenger types in entry order.
type Transaction struct {
	Request       *model.PricingRequest
	Options       *model.PricingOptions
	PaxTypes      []*model.PaxType
	CalcTotals    []*CalcTotals
	TicketingDate time.Time
}

// paxTypesInOrder returns the passenger types sorted by input order.
func (t *Transaction) paxTypesInOrder() []*model.PaxType {
	out := make([]*model.PaxType, len(t.PaxTypes))
	copy(out, t.PaxTypes)
	sort.SliceStable(out, func(i, j int) bool { return out[i].InputOrder < out[j].InputOrder })
	return out
}

// Result is the output of a rendering pass.
type Result struct {
	// Display is the formatted multi-line fare calculation display.
	Display string
	// Lines is Display split per terminal line.
	Lines []string
	// Messages are the collected trailer/warning records across all options.
	Messages []model.FcMessage
}

// Option configures a FareCalculation.
type Option func(*FareCalculation)

// WithStopoverPolicy selects the stopover minimum-stay tie-break variant
// used for connection classification.
func WithStopoverPolicy(p StopoverPolicy) Option {
	return func(f *FareCalculation) { f.policy = p }
}

// WithTicketStock attaches the ticket-stock budget table used for the
// ticket image of the fare calc line.
func WithTicketStock(stock *TicketStock) Option {
	return func(f *FareCalculation) { f.stock = stock }
}

// FareCalculation drives the whole rendering pass per passenger type:
// prefixes, headers, fare-tax-total blocks, fare calculation lines,
// warnings and the grand total.
type FareCalculation struct {
	trx *Transaction
	cfg *model.FareCalcConfig
	log zerolog.Logger

	policy StopoverPolicy
	stock  *TicketStock

	disp strings.Builder

	fareAmountLen    int
	fareNoDec        int
	equivNoDec       int
	fareCurrencyCode string

	totalBaseAmount  float64
	totalEquivAmount float64
	xtAmount         float64
	totalFareAmount  float64
	needXTLine       bool

	needNetRemit bool
	psgrCount    int

	warnPrefix string
	messages   []model.FcMessage
}

// NewFareCalculation builds a renderer over one transaction.
func NewFareCalculation(trx *Transaction, cfg *model.FareCalcConfig, log zerolog.Logger, opts ...Option) *FareCalculation {
	if cfg == nil {
		cfg = model.DefaultFareCalcConfig()
	}
	f := &FareCalculation{
		trx:           trx,
		cfg:           cfg,
		log:           log,
		fareAmountLen: cfg.BaseTaxEquivTotalLen,
	}
	if cfg.WarningMessages == model.FCYes {
		f.warnPrefix = "ATTN*"
	}
	f.needNetRemit = trx.Request.IsAxess() && trx.Request.WpNett
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Process runs the rendering pass and returns the assembled display.
func (f *FareCalculation) Process() (*Result, error) {
	f.log.Info().Msg("entering fare calculation process")

	if f.trx.Request.DiagnosticNumber == 854 {
		f.displayRuler()
	}

	f.displayEntryPrefix()

	if f.trx.Options.RecordQuote {
		f.line("PRICE QUOTE RECORD RETAINED")
		f.line("  ")
	}

	var rendered []*CalcTotals
	ttlProcessed := false

	paxTypes := f.trx.paxTypesInOrder()
	for pi, pax := range paxTypes {
		if f.cfg.WpPsgLineBreak == model.FCYes && pi > 0 {
			f.line("  ")
		}
		for _, original := range f.calcTotalsFor(pax) {
			ct := f.selectCalcTotals(original)
			ct.SetStopoverPolicy(f.policy)

			f.getTotalFare(ct)

			if !f.existsFarePath(ct) {
				f.displayNoMatchMessage(ct)
				continue
			}
			f.psgrCount++
			ct.WpaPsgRefNo = f.psgrCount
			rendered = append(rendered, ct)

			if err := f.displayDtlFareCalc(ct); err != nil {
				return nil, err
			}
		}
	}

	if f.cfg.ItinDisplayInd != model.FCYes && !ttlProcessed {
		var err error
		ttlProcessed, err = f.processGrandTotalLine(rendered)
		if err != nil {
			return nil, err
		}
		if f.cfg.FareTaxTotalInd == model.LayoutHorizontal {
			for _, ct := range rendered {
				if err := f.displayPsgFareCalcLine(ct); err != nil {
					return nil, err
				}
			}
		}
	}

	f.displayWarnings(rendered)

	if !ttlProcessed {
		if _, err := f.processGrandTotalLine(rendered); err != nil {
			return nil, err
		}
	}

	if f.trx.Request.DiagnosticNumber == 854 {
		f.displayRuler()
	}

	out := f.disp.String()
	f.log.Debug().Str("display", out).Msg("fare calculation display assembled")
	f.log.Info().Msg("leaving fare calculation")

	return &Result{
		Display:  out,
		Lines:    Split(out),
		Messages: f.messages,
	}, nil
}

// displayEntryPrefix emits the Axess VT/VD and WPNETT prefixes.
func (f *FareCalculation) displayEntryPrefix() {
	if !f.trx.Request.IsAxess() {
		return
	}
	switch {
	case f.trx.Request.WpNett:
		f.line("VD ")
		f.line("NET FARE AMOUNT")
	case f.trx.Request.Entry == model.EntryWP:
		f.line("VT ")
	default:
		f.line("VD ")
	}
}

// calcTotalsFor lists the options priced for one passenger type, in input
// order.
func (f *FareCalculation) calcTotalsFor(pax *model.PaxType) []*CalcTotals {
	var out []*CalcTotals
	for _, ct := range f.trx.CalcTotals {
		if ct.FarePath != nil && ct.FarePath.PaxType != nil && ct.FarePath.PaxType.Code == pax.Code {
			out = append(out, ct)
		}
	}
	return out
}

// selectCalcTotals picks the valuation view to render: the net-remit
// recalculation for WPNETT entries, else the adjusted-selling view unless
// suppressed, else the original.
func (f *FareCalculation) selectCalcTotals(ct *CalcTotals) *CalcTotals {
	if f.needNetRemit && ct.NetRemitCalcTotals != nil {
		return ct.NetRemitCalcTotals
	}
	if ct.AdjustedCalcTotals != nil && !f.trx.Options.SuppressAdjustedSelling {
		return ct.AdjustedCalcTotals
	}
	return ct
}

// existsFarePath reports whether the option survived pricing.
func (f *FareCalculation) existsFarePath(ct *CalcTotals) bool {
	return ct.FarePath != nil && ct.FarePath.Processed
}

func (f *FareCalculation) displayNoMatchMessage(ct *CalcTotals) {
	pax := "***"
	if ct.FarePath != nil && ct.FarePath.PaxType != nil {
		pax = ct.FarePath.PaxType.Code
	}
	msg := "NO FARE FOR PASSENGER TYPE " + pax
	f.line(f.warnPrefix + msg)
	f.addMessage(model.NewFcMessage(model.FcMsgNoMatch, msg))
}

// displayDtlFareCalc renders one option: header, fare-tax-total block and,
// for non-horizontal layouts, the fare calc line immediately after.
func (f *FareCalculation) displayDtlFareCalc(ct *CalcTotals) error {
	if f.cfg.ItinDisplayInd == model.FCYes && f.cfg.WpPsgTypDisplay == model.FCYes {
		f.displayPsgrInfo(ct)
	}

	switch f.cfg.FareTaxTotalInd {
	case model.LayoutHorizontal:
		if err := f.horizontal(ct); err != nil {
			return err
		}
	case model.LayoutVertical:
		if err := f.vertical(ct); err != nil {
			return err
		}
		return f.displayPsgFareCalcLine(ct)
	case model.LayoutMix:
		if err := f.mix(ct); err != nil {
			return err
		}
		return f.displayPsgFareCalcLine(ct)
	default:
		if err := f.horizontal(ct); err != nil {
			return err
		}
	}
	return nil
}

func (f *FareCalculation) displayPsgrInfo(ct *CalcTotals) {
	pax := ""
	if ct.FarePath != nil && ct.FarePath.PaxType != nil {
		pax = ct.FarePath.PaxType.Code
	}
	f.write("PSGR TYPE  " + pax)
	f.write(fmt.Sprintf(" - %02d", ct.WpaPsgRefNo))
	f.newline()
}

// getTotalFare seeds the per-option currency state.
func (f *FareCalculation) getTotalFare(ct *CalcTotals) {
	f.totalBaseAmount = ct.ConvertedBaseFare
	f.fareNoDec = ct.ConvertedBaseFareNoDec
	f.fareCurrencyCode = ct.ConvertedBaseFareCurrencyCode
	f.totalEquivAmount = 0
	f.xtAmount = 0
}

// horizontal renders the one-line fare/equiv/tax/total block.
func (f *FareCalculation) horizontal(ct *CalcTotals) error {
	n := 1
	if ct.FarePath.PaxType != nil {
		n = ct.FarePath.PaxType.Number
	}
	if n < 10 {
		f.write(" ")
	}
	f.write(fmt.Sprintf("%d-", n))

	f.write(padAmount(ct.ConvertedBaseFare, ct.ConvertedBaseFareNoDec, 13))
	f.equivNoDec = f.fareNoDec

	override := f.trx.Options.CurrencyOverride
	if override == "" || override == f.fareCurrencyCode {
		f.write(strings.Repeat(" ", 15))
	} else {
		if err := f.horizontalProcessEquivAmount(ct); err != nil {
			return err
		}
	}

	nbrTaxBoxes := f.horizontalProcessTaxAmount(ct)

	if f.totalEquivAmount != 0 {
		f.totalFareAmount = f.totalEquivAmount + f.xtAmount
	} else {
		f.totalFareAmount = f.totalBaseAmount + f.xtAmount
	}

	if err := f.horizontalProcessTotalAmount(ct); err != nil {
		return err
	}
	f.horizontalProcessTaxBreakDown(ct, nbrTaxBoxes)
	return nil
}

func (f *FareCalculation) horizontalProcessEquivAmount(ct *CalcTotals) error {
	if ct.ConvertedBaseFareCurrencyCode == ct.EquivCurrencyCode {
		f.write(strings.Repeat(" ", 15))
		return nil
	}
	f.totalEquivAmount = ct.EquivFareAmount
	f.equivNoDec = ct.EquivNoDec
	amountStr := ct.EquivCurrencyCode + formatAmount(ct.EquivFareAmount, ct.EquivNoDec)
	f.write(padLeft(amountStr, 15))
	if err := f.checkFareAmountLength(len(amountStr) - len(ct.EquivCurrencyCode)); err != nil {
		return err
	}
	return nil
}

// horizontalProcessTaxAmount emits the tax box and returns the number of
// distinct taxes.
func (f *FareCalculation) horizontalProcessTaxAmount(ct *CalcTotals) int {
	if f.trx.Options.ExemptAllTaxes {
		f.write(padLeft("TE", 13))
		return 0
	}
	tax := ct.TaxAmount()
	f.xtAmount = tax
	if tax < Epsilon {
		if f.trx.Options.ExemptSpecificTaxes {
			f.write(padLeft("TE", 13))
		} else {
			f.write(strings.Repeat(" ", 13))
		}
		return 0
	}
	nbrTaxBoxes := len(f.trx.Request.TaxOverrides) + len(ct.TaxRecords)
	f.write(padAmount(tax, ct.TaxNoDec, 11))
	if nbrTaxBoxes == 1 {
		switch {
		case len(f.trx.Request.TaxOverrides) > 0:
			f.write(taxCode2(f.trx.Request.TaxOverrides[0].Code))
		case len(ct.TaxRecords) > 0:
			f.write(taxCode2(ct.TaxRecords[0].Code))
		default:
			f.write("XT")
		}
	} else {
		f.write("XT")
	}
	return nbrTaxBoxes
}

func (f *FareCalculation) horizontalProcessTotalAmount(ct *CalcTotals) error {
	var total float64
	switch {
	case ct.EquivFareAmount == 0 && ct.ConvertedBaseFareCurrencyCode != ct.EquivCurrencyCode:
		total = ct.TaxAmount()
	case ct.ConvertedBaseFareCurrencyCode == ct.EquivCurrencyCode:
		total = ct.ConvertedBaseFare + ct.TaxAmount()
	default:
		total = ct.EquivFareAmount + ct.TaxAmount()
	}
	amountStr := ct.EquivCurrencyCode + formatAmount(total, f.equivNoDec)
	f.write(padLeft(amountStr, 16))
	if err := f.checkFareAmountLength(len(amountStr) - len(ct.EquivCurrencyCode)); err != nil {
		return err
	}
	pax := ""
	if ct.FarePath.PaxType != nil {
		pax = ct.FarePath.PaxType.Code
	}
	f.write(pax)
	f.newline()
	return nil
}

// horizontalProcessTaxBreakDown lists every tax with its code under an XT
// margin; a single tax shows no breakdown.
func (f *FareCalculation) horizontalProcessTaxBreakDown(ct *CalcTotals, nbrTaxBoxes int) {
	items := len(f.trx.Request.TaxOverrides) + len(ct.TaxRecords)
	if items <= 1 && len(ct.TaxExemptCodes) == 0 {
		return
	}

	os := NewStream(DefaultWidth)
	os.WriteString("    XT")
	os.SetMargin("      ")

	for _, to := range f.trx.Request.TaxOverrides {
		os.WriteString(padAmount(to.Amount, ct.TaxNoDec, f.fareAmountLen) + taxCode2(to.Code) + " ")
	}
	for _, tr := range ct.TaxRecords {
		if tr.Amount < Epsilon && !tr.Exempt {
			continue
		}
		if tr.Exempt {
			if f.cfg.TaxExemptionInd == model.FCTwo {
				os.WriteString(padLeft("EXEMPT"+taxCode2(tr.Code), f.fareAmountLen+2) + " ")
			} else {
				os.WriteString(padLeft("EX"+taxCode2(tr.Code), f.fareAmountLen+2) + " ")
			}
			continue
		}
		os.WriteString(padAmount(tr.Amount, tr.NoDec, f.fareAmountLen) + taxCode2(tr.Code) + " ")
	}
	for _, code := range ct.TaxExemptCodes {
		if f.cfg.TaxExemptionInd == model.FCTwo {
			os.WriteString(padLeft("EXEMPT"+taxCode2(code), f.fareAmountLen+2) + " ")
		} else if f.cfg.TaxExemptionInd == model.FCThree {
			os.WriteString(padLeft("EX"+taxCode2(code), f.fareAmountLen+2) + " ")
		}
	}
	f.write(os.Str())
	f.newline()
}

// vertical renders fare/equiv/tax/total each on its own labeled line.
func (f *FareCalculation) vertical(ct *CalcTotals) error {
	if err := f.verticalProcessBaseAmount(ct, true); err != nil {
		return err
	}
	if err := f.verticalProcessEquivAmount(ct); err != nil {
		return err
	}
	f.verticalProcessTaxAmount(ct, true)
	if err := f.verticalProcessTotalAmount(ct); err != nil {
		return err
	}
	f.verticalProcessXTLine(ct)
	return nil
}

// mix renders the vertical fare/tax block with horizontal-style grouping:
// fare and tax share lines with the totals.
func (f *FareCalculation) mix(ct *CalcTotals) error {
	if err := f.verticalProcessBaseAmount(ct, false); err != nil {
		return err
	}
	if err := f.verticalProcessEquivAmount(ct); err != nil {
		return err
	}
	f.verticalProcessTaxAmount(ct, false)
	if err := f.verticalProcessTotalAmount(ct); err != nil {
		return err
	}
	f.verticalProcessXTLine(ct)
	return nil
}

func (f *FareCalculation) verticalProcessBaseAmount(ct *CalcTotals, newline bool) error {
	amountStr := formatAmount(f.totalBaseAmount, f.fareNoDec)
	length, err := f.checkFareAmountLengthWiden(len(amountStr))
	if err != nil {
		return err
	}
	f.write("FARE  " + f.fareCurrencyCode + padLeft(amountStr, length))
	if newline {
		f.newline()
	} else {
		f.write(" ")
	}
	return nil
}

func (f *FareCalculation) verticalProcessEquivAmount(ct *CalcTotals) error {
	override := f.trx.Options.CurrencyOverride
	if override == "" || override == f.fareCurrencyCode {
		f.line(" ")
		return nil
	}
	f.totalEquivAmount = ct.EquivFareAmount
	f.equivNoDec = ct.EquivNoDec
	amountStr := formatAmount(f.totalEquivAmount, f.equivNoDec)
	length, err := f.checkFareAmountLengthWiden(len(amountStr))
	if err != nil {
		return err
	}
	f.line("EQUIV " + override + padLeft(amountStr, length))
	return nil
}

// verticalProcessTaxAmount lists taxes in the configured number of boxes,
// collapsing the overflow into one XT box.
func (f *FareCalculation) verticalProcessTaxAmount(ct *CalcTotals, vertical bool) {
	f.needXTLine = false
	override := f.trx.Options.CurrencyOverride

	type taxBox struct {
		amount float64
		code   string
		exempt bool
		noDec  int
	}
	var boxes []taxBox
	for _, to := range f.trx.Request.TaxOverrides {
		boxes = append(boxes, taxBox{amount: to.Amount, code: to.Code, noDec: ct.TaxNoDec})
	}
	for _, tr := range ct.TaxRecords {
		if tr.Amount == 0 && !tr.Exempt {
			continue
		}
		boxes = append(boxes, taxBox{amount: tr.Amount, code: tr.Code, exempt: tr.Exempt, noDec: tr.NoDec})
	}
	if len(boxes) == 0 {
		return
	}

	nbrTaxBoxes := len(boxes)
	fcBoxes := f.cfg.NoOfTaxBoxes
	if fcBoxes < nbrTaxBoxes {
		// leave the last slot for the XT overflow box
		fcBoxes--
	}

	f.write("TAX  ")
	var xtOverflow float64
	shown := 0
	for _, b := range boxes {
		if fcBoxes >= nbrTaxBoxes || shown < fcBoxes {
			shown++
			f.write(" " + override)
			if b.exempt {
				if f.cfg.TaxExemptionInd == model.FCTwo {
					f.write(" EXEMPT " + taxCode2(b.code))
				} else {
					f.write(" EX" + taxCode2(b.code))
				}
			} else {
				f.write(padAmount(b.amount, b.noDec, f.fareAmountLen) + taxCode2(b.code))
			}
			if vertical {
				f.newline()
			}
		} else {
			xtOverflow += b.amount
		}
	}

	if nbrTaxBoxes > fcBoxes {
		f.needXTLine = true
		f.xtAmount = ct.TaxAmount()
		f.write(" " + override)
		f.write(padAmount(xtOverflow, f.equivNoDecOr2(), f.fareAmountLen) + "XT")
		f.newline()
	} else {
		f.xtAmount = ct.TaxAmount()
		if !vertical {
			f.newline()
		}
	}
}

func (f *FareCalculation) verticalProcessTotalAmount(ct *CalcTotals) error {
	override := f.trx.Options.CurrencyOverride
	if f.totalEquivAmount != 0 {
		f.totalFareAmount = f.totalEquivAmount + f.xtAmount
	} else if override == f.fareCurrencyCode || override == "" {
		f.totalFareAmount = f.totalBaseAmount + f.xtAmount
	} else {
		f.totalFareAmount = f.xtAmount
	}
	amountStr := formatAmount(f.totalFareAmount, f.equivNoDecOr2())
	length, err := f.checkFareAmountLengthWiden(len(amountStr))
	if err != nil {
		return err
	}
	f.line("TOTAL " + override + padLeft(amountStr, length))
	return nil
}

// verticalProcessXTLine breaks down the XT overflow box.
func (f *FareCalculation) verticalProcessXTLine(ct *CalcTotals) {
	if !f.needXTLine {
		return
	}
	override := f.trx.Options.CurrencyOverride
	fcBoxes := f.cfg.NoOfTaxBoxes - 1

	f.write("XT")
	skip := fcBoxes - len(f.trx.Request.TaxOverrides)
	for i, tr := range ct.TaxRecords {
		if i < skip {
			continue
		}
		if tr.Exempt {
			if f.cfg.TaxExemptionInd == model.FCTwo {
				f.write(" EXEMPT " + taxCode2(tr.Code))
			} else {
				f.write(" EX" + taxCode2(tr.Code))
			}
			continue
		}
		if tr.Amount < Epsilon {
			continue
		}
		f.write(" " + override + formatAmount(tr.Amount, f.equivNoDecOr2()) + taxCode2(tr.Code))
	}
	f.newline()

	if len(ct.TaxExemptCodes) > 0 {
		for _, code := range ct.TaxExemptCodes {
			if f.cfg.TaxExemptionInd == model.FCTwo {
				f.write(" EXEMPT " + taxCode2(code))
			} else {
				f.write(" EX" + taxCode2(code))
			}
		}
		f.newline()
	}
}

// displayPsgFareCalcLine renders the per-passenger fare calculation line
// through the path renderer and appends it to the display.
func (f *FareCalculation) displayPsgFareCalcLine(ct *CalcTotals) error {
	f.displayPsgrFareBasisLine(ct)

	if ct.FareCalcLine == "" {
		os := NewStream(DefaultWidth)
		if f.stock != nil {
			os.SetTicketStock(f.stock)
		}
		var originalCT *CalcTotals
		useNetPubFbc := false
		if ct.FarePath.OriginalFarePath != nil {
			originalCT = f.findCalcTotals(ct.FarePath.OriginalFarePath)
			useNetPubFbc = f.needNetRemit
		}
		pr := newPathRenderer(
			f.trx.Request, f.trx.Options, f.cfg, f.log, f.trx.TicketingDate,
			ct.FarePath, ct, os, false, originalCT, useNetPubFbc,
		)
		if err := pr.Render(); err != nil {
			return err
		}
	}
	f.write(ct.FareCalcLine)
	f.newline()
	f.displayEndorsements(ct)
	return nil
}

// displayPsgrFareBasisLine emits the "PSGR TYPE" line ahead of the fare
// calc line in the horizontal layout.
func (f *FareCalculation) displayPsgrFareBasisLine(ct *CalcTotals) {
	if f.cfg.FareTaxTotalInd != model.LayoutHorizontal {
		return
	}
	pax := ""
	if ct.FarePath.PaxType != nil {
		pax = ct.FarePath.PaxType.Code
	}
	f.line(fmt.Sprintf("PSGR TYPE  %s - %02d", pax, ct.WpaPsgRefNo))
}

func (f *FareCalculation) displayEndorsements(ct *CalcTotals) {
	limit := f.cfg.EndorsementLimit
	for _, e := range ct.FarePath.Endorsements {
		if limit > 0 && len(e) > limit {
			e = e[:limit]
		}
		f.line(e)
		f.addMessage(model.NewFcMessage(model.FcMsgEndorsement, e))
	}
}

// processGrandTotalLine emits the whole-response totals line. Columns
// holding mixed currencies across options are suppressed rather than
// summed.
func (f *FareCalculation) processGrandTotalLine(rendered []*CalcTotals) (bool, error) {
	if len(rendered) == 0 {
		return true, nil
	}
	// vertical/mix layouts only show TTL with more than one passenger
	if f.cfg.FareTaxTotalInd != model.LayoutHorizontal && len(rendered) == 1 &&
		rendered[0].FarePath.PaxType != nil && rendered[0].FarePath.PaxType.Number == 1 {
		return true, nil
	}

	mixedBase, mixedEquiv := f.mixedCurrencies(rendered)

	var totalBase, totalEquiv, totalTax float64
	baseCur, equivCur := "", ""
	for _, ct := range rendered {
		n := 1
		if ct.FarePath.PaxType != nil && ct.FarePath.PaxType.Number > 0 {
			n = ct.FarePath.PaxType.Number
		}
		totalBase += ct.ConvertedBaseFare * float64(n)
		totalEquiv += ct.EquivFareAmount * float64(n)
		totalTax += ct.TaxAmount() * float64(n)
		baseCur = ct.ConvertedBaseFareCurrencyCode
		equivCur = ct.EquivCurrencyCode
	}

	if !mixedBase {
		f.write(padAmount(totalBase, f.fareNoDec, 16))
	} else {
		f.write(padLeft(" ", 16))
	}

	if mixedEquiv || totalEquiv == 0 || equivCur == baseCur {
		f.write(padLeft(" ", 15))
		totalEquiv = 0
	} else {
		f.write(padAmount(totalEquiv, f.equivNoDecOr2(), 15))
	}

	if totalTax == 0 {
		f.write(padLeft(" ", 11))
	} else {
		f.write(padAmount(totalTax, f.equivNoDecOr2(), 11))
	}

	grand := totalTax
	switch {
	case totalEquiv != 0:
		grand += totalEquiv
	case totalBase != 0 && equivCur == baseCur && !mixedBase:
		grand += totalBase
	}
	if grand != 0 {
		f.write(padAmount(grand, f.equivNoDecOr2(), 18) + "TTL")
	}
	f.newline()

	if err := f.checkFareAmountLength(amountWidth(grand, f.equivNoDecOr2())); err != nil {
		return false, err
	}
	return true, nil
}

func (f *FareCalculation) mixedCurrencies(rendered []*CalcTotals) (mixedBase, mixedEquiv bool) {
	for i := 1; i < len(rendered); i++ {
		if rendered[i].ConvertedBaseFareCurrencyCode != rendered[0].ConvertedBaseFareCurrencyCode {
			mixedBase = true
		}
		if rendered[i].EquivCurrencyCode != rendered[0].EquivCurrencyCode {
			mixedEquiv = true
		}
	}
	return mixedBase, mixedEquiv
}

// checkFareAmountLength validates a formatted amount width against the
// configured maximum, with the hosted-carrier carve-out widening the field
// instead of failing.
func (f *FareCalculation) checkFareAmountLength(inLen int) error {
	_, err := f.checkFareAmountLengthWiden(inLen)
	return err
}

func (f *FareCalculation) checkFareAmountLengthWiden(inLen int) (int, error) {
	maxLen := f.fareAmountLen
	if maxLen <= 0 || inLen <= maxLen {
		return maxLen, nil
	}
	if f.trx.Request.HostCarrier != "" && f.trx.Request.HostCarrier != "AA" {
		if model.HostedFareAmountLen >= inLen {
			return model.HostedFareAmountLen, nil
		}
	}
	f.log.Error().
		Int("amount_len", inLen).
		Int("max_len", maxLen).
		Msg("amount exceeds max allowable length in fare calc config")
	return 0, fmt.Errorf("%w: amount width %d exceeds %d", ErrExceedLength, inLen, maxLen)
}

func (f *FareCalculation) findCalcTotals(fp *model.FarePath) *CalcTotals {
	for _, ct := range f.trx.CalcTotals {
		if ct.FarePath == fp {
			return ct
		}
	}
	return nil
}

// displayRuler prints the 63-column ruler used by layout diagnostics.
func (f *FareCalculation) displayRuler() {
	f.line("         1         2         3         4         5         6")
	f.line("123456789012345678901234567890123456789012345678901234567890123")
}

func (f *FareCalculation) equivNoDecOr2() int {
	if f.equivNoDec > 0 {
		return f.equivNoDec
	}
	if f.fareNoDec > 0 {
		return f.fareNoDec
	}
	return 2
}

func (f *FareCalculation) write(s string) { f.disp.WriteString(s) }

func (f *FareCalculation) newline() { f.disp.WriteByte('\n') }

func (f *FareCalculation) line(s string) {
	f.disp.WriteString(s)
	f.disp.WriteByte('\n')
}

func (f *FareCalculation) addMessage(m model.FcMessage) {
	f.messages = append(f.messages, m)
}

func taxCode2(code string) string {
	if len(code) > 2 {
		return code[:2]
	}
	return code
}
