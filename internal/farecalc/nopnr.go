package farecalc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/skyfare/farecalc-service/internal/domain/model"
)

// NoPNRFareCalculation renders the WQ (itinerary-less) format variant: fare
// options sorted by total price, optionally truncated, with the rebook and
// fare-type trailer messages listing option indices as compacted ranges.
type NoPNRFareCalculation struct {
	*FareCalculation

	detailFormat bool
}

// NewNoPNRFareCalculation builds the WQ renderer over one transaction.
func NewNoPNRFareCalculation(trx *Transaction, cfg *model.FareCalcConfig, log zerolog.Logger, opts ...Option) *NoPNRFareCalculation {
	return &NoPNRFareCalculation{
		FareCalculation: NewFareCalculation(trx, cfg, log, opts...),
	}
}

// Process runs the WQ rendering pass.
func (n *NoPNRFareCalculation) Process() (*Result, error) {
	n.log.Info().Msg("entering no-PNR fare calculation process")

	n.detailFormat = n.checkDetailFormat()

	if n.trx.Request.DiagnosticNumber == 854 {
		n.displayRuler()
	}
	n.displayEntryPrefix()

	var rendered []*CalcTotals
	optionIndex := 0
	for pi, pax := range n.trx.paxTypesInOrder() {
		if n.cfg.WpPsgLineBreak == model.FCYes && pi > 0 {
			n.line("  ")
		}
		options := n.sortOptions(n.calcTotalsFor(pax))
		if max := n.cfg.NoPNR.MaxNoOptions; max > 0 && len(options) > max {
			options = options[:max]
		}
		for _, original := range options {
			ct := n.selectCalcTotals(original)
			ct.SetStopoverPolicy(n.policy)
			n.getTotalFare(ct)

			if !n.existsFarePath(ct) {
				n.displayNoMatchMessage(ct)
				continue
			}
			optionIndex++
			ct.WpaPsgRefNo = optionIndex
			rendered = append(rendered, ct)

			if n.detailFormat {
				if err := n.displayDtlFareCalc(ct); err != nil {
					return nil, err
				}
			} else if err := n.displayPsgDetailLine(ct); err != nil {
				return nil, err
			}
		}
	}

	n.displayRebookMessage(rendered)
	n.displayRoMessage(rendered)
	n.displayFareTypeMessage(rendered)
	n.displayWarnings(rendered)

	if n.trx.Request.DiagnosticNumber == 854 {
		n.displayRuler()
	}

	out := n.disp.String()
	n.log.Info().Int("options", len(rendered)).Msg("leaving no-PNR fare calculation")
	return &Result{
		Display:  out,
		Lines:    Split(out),
		Messages: n.messages,
	}, nil
}

// checkDetailFormat reports whether the full per-option detail display
// applies: always for a secondary response, otherwise only when every
// passenger type priced exactly one matched option.
func (n *NoPNRFareCalculation) checkDetailFormat() bool {
	if n.trx.Request.SecondaryResponse {
		return true
	}
	if n.cfg.NoPNR.PsgDetailLineFormat == model.FCTwo {
		// never display the detail format on a primary response
		return false
	}
	for _, pax := range n.trx.PaxTypes {
		options := n.calcTotalsFor(pax)
		if len(options) > 1 {
			return false
		}
		matched := 0
		for _, ct := range options {
			if ct.FarePath != nil && ct.FarePath.Processed && !ct.FarePath.NoMatch {
				matched++
			}
		}
		if matched == 0 {
			// no fares, or the sole option is itself a no-match
			return false
		}
	}
	return true
}

// sortOptions orders fare options by total price, taxes included, cheapest
// first unless the config asks for descending order.
func (n *NoPNRFareCalculation) sortOptions(options []*CalcTotals) []*CalcTotals {
	out := make([]*CalcTotals, len(options))
	copy(out, options)
	less := func(a, b *CalcTotals) bool {
		ta := a.EquivFareAmount + a.TaxAmount()
		tb := b.EquivFareAmount + b.TaxAmount()
		if ta != tb {
			return ta < tb
		}
		return a.ConvertedBaseFare < b.ConvertedBaseFare
	}
	sort.SliceStable(out, func(i, j int) bool {
		if n.cfg.NoPNR.DescendingSort {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// displayPsgDetailLine emits the compact one-line-per-option summary used
// by the multi-option format.
func (n *NoPNRFareCalculation) displayPsgDetailLine(ct *CalcTotals) error {
	pax := ""
	if ct.FarePath.PaxType != nil {
		pax = ct.FarePath.PaxType.Code
	}
	n.write(fmt.Sprintf("%s %s", n.formatOptionIndex(ct.WpaPsgRefNo), pax))

	base := ct.ConvertedBaseFareCurrencyCode + formatAmount(ct.ConvertedBaseFare, ct.ConvertedBaseFareNoDec)
	n.write(padLeft(base, 18))

	total := ct.EquivFareAmount + ct.TaxAmount()
	cur := ct.EquivCurrencyCode
	if ct.EquivFareAmount == 0 {
		total = ct.ConvertedBaseFare + ct.TaxAmount()
		cur = ct.ConvertedBaseFareCurrencyCode
	}
	totalStr := cur + formatAmount(total, ct.EquivNoDec)
	n.write(padLeft(totalStr, 19))
	if err := n.checkFareAmountLength(len(totalStr) - len(cur)); err != nil {
		return err
	}
	if ct.FarePath.RebookRequired {
		n.write("  *")
	}
	n.newline()

	if n.cfg.NoPNR.PsgDetailLineFormat == model.FCTwo {
		return n.displayPsgFareCalcLine(ct)
	}
	return nil
}

// displayRebookMessage lists the options that require rebooking to the
// priced booking class. When every option needs rebooking the configured
// no-match rebook text replaces the indices list.
func (n *NoPNRFareCalculation) displayRebookMessage(rendered []*CalcTotals) {
	var indices []int
	for _, ct := range rendered {
		if ct.FarePath.RebookRequired {
			indices = append(indices, ct.WpaPsgRefNo)
		}
	}
	if len(indices) == 0 {
		return
	}
	if len(indices) == len(rendered) {
		if msg, ok := n.cfg.MsgAppl(model.MsgWpaNoMatchRebook); ok {
			n.line(msg)
			n.addMessage(model.NewFcMessage(model.FcMsgTrailer, msg))
		}
		return
	}
	if n.cfg.NoPNR.RbdMatchTrailerMsg == model.FCThree {
		return
	}
	prefix := ""
	if n.cfg.NoPNR.RbdMatchTrailerMsg == model.FCOne {
		prefix = "ATTN*"
	}
	text := "APPLICABLE BOOKING CLASS REQUIRED FOR OPTIONS - "
	n.displayIndicesVector(prefix+text, indices)
	n.addMessage(model.NewFcMessage(model.FcMsgTrailer, text+n.joinIndices(indices)))
}

// displayRoMessage reminds the agent to rebook before storing the fare.
func (n *NoPNRFareCalculation) displayRoMessage(rendered []*CalcTotals) {
	any := false
	for _, ct := range rendered {
		if ct.FarePath.RebookRequired {
			any = true
			break
		}
	}
	if !any {
		return
	}
	msg, ok := n.cfg.MsgAppl(model.MsgWpaRoIndicator)
	if !ok {
		msg = "REBOOK OPTION OF CHOICE BEFORE STORING FARE"
	}
	n.displayWarning(model.NewFcMessage(model.FcMsgTrailer, msg))
}

// displayFareTypeMessage lists the options priced from private fares.
func (n *NoPNRFareCalculation) displayFareTypeMessage(rendered []*CalcTotals) {
	var indices []int
	for _, ct := range rendered {
		if ct.PrivateFareIndSeq != 0 {
			indices = append(indices, ct.WpaPsgRefNo)
		}
	}
	if len(indices) == 0 || len(indices) == len(rendered) {
		return
	}
	text := "PRIVATE FARE APPLIED - CHECK RULES FOR OPTIONS - "
	n.displayIndicesVector(n.warnPrefix+text, indices)
	n.addMessage(model.NewFcMessage(model.FcMsgTrailer, text+n.joinIndices(indices)))
}

// displayIndicesVector writes a trailer message followed by the option
// indices, collapsing runs of consecutive indices into "a-b" ranges and
// wrapping at the display width.
func (n *NoPNRFareCalculation) displayIndicesVector(title string, indices []int) {
	if len(indices) == 0 {
		return
	}
	var line strings.Builder
	line.WriteString(title)

	flush := func() {
		n.line(line.String())
		line.Reset()
	}
	add := func(tok string) {
		if line.Len()+len(tok) > DefaultWidth {
			flush()
		}
		line.WriteString(tok)
	}

	runStart := 0
	for i := 0; i <= len(indices); i++ {
		if i < len(indices) && (i == runStart || indices[i] == indices[i-1]+1) {
			continue
		}
		tok := n.rangeOrSingle(indices[runStart], indices[i-1])
		if runStart > 0 {
			tok = "," + tok
		}
		add(tok)
		runStart = i
	}
	if line.Len() > 0 {
		flush()
	}
}

// rangeOrSingle renders one compacted run: indices more than one apart stay
// separate, a spread of two or more becomes "a-b".
func (n *NoPNRFareCalculation) rangeOrSingle(first, last int) string {
	if last-first >= 1 {
		return n.formatOptionIndex(first) + "-" + n.formatOptionIndex(last)
	}
	return n.formatOptionIndex(first)
}

func (n *NoPNRFareCalculation) formatOptionIndex(i int) string {
	if n.cfg.NoPNR.AlwaysTwoDigits {
		return fmt.Sprintf("%02d", i)
	}
	return fmt.Sprintf("%d", i)
}

func (n *NoPNRFareCalculation) joinIndices(indices []int) string {
	parts := make([]string, len(indices))
	for i, v := range indices {
		parts[i] = n.formatOptionIndex(v)
	}
	return strings.Join(parts, ",")
}
