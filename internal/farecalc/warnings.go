package farecalc

import (
	"strings"

	"github.com/skyfare/farecalc-service/internal/domain/model"
)

// warningPrefixLen is the display width the ATTN* prefix consumes; wrapped
// warning lines are indented by the same amount.
const warningPrefixLen = 5

// displayWarnings emits the collected warning and restriction messages
// across all rendered options, de-duplicated in first-seen order, then the
// validating-carrier trailers.
func (f *FareCalculation) displayWarnings(rendered []*CalcTotals) {
	seen := make(map[string]struct{})
	for _, ct := range rendered {
		for _, m := range ct.FcMessages {
			if m.Type != model.FcMsgWarning && m.Type != model.FcMsgRestriction {
				continue
			}
			if _, dup := seen[m.Text]; dup {
				continue
			}
			seen[m.Text] = struct{}{}
			f.displayWarning(m)
		}
	}
	for _, ct := range rendered {
		for _, t := range validatingCarrierTrailers(ct.FarePath) {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			f.displayWarning(model.NewFcMessage(model.FcMsgCarrier, t))
		}
	}
}

// displayWarning writes one message with the configured attention prefix,
// wrapping continuations under the prefix width.
func (f *FareCalculation) displayWarning(m model.FcMessage) {
	prefix := f.warnPrefix
	if prefix == "" && m.Attn {
		prefix = "ATTN*"
	}
	if prefix != "" {
		m = m.WithAttn()
	}

	os := NewStream(DefaultWidth)
	if prefix != "" {
		os.SetMargin(strings.Repeat(" ", warningPrefixLen))
	}
	os.WriteString(prefix + m.Text)
	for _, line := range Split(os.Str()) {
		f.line(line)
	}
	f.addMessage(m)
}

// validatingCarrierTrailers builds the per-settlement-plan validating
// carrier messages, including the GSA swap notice.
func validatingCarrierTrailers(fp *model.FarePath) []string {
	if fp == nil {
		return nil
	}
	var out []string
	for _, vc := range fp.ValidatingCarriers {
		if vc.Default == "" {
			continue
		}
		var sb strings.Builder
		sb.WriteString("VALIDATING CARRIER")
		if vc.SettlementPlan != "" && len(fp.ValidatingCarriers) > 1 {
			sb.WriteString(" - " + vc.SettlementPlan)
		}
		sb.WriteString(" - " + vc.Default)
		if vc.GSASwapFor != "" {
			sb.WriteString(" PER GSA AGREEMENT WITH " + vc.GSASwapFor)
		}
		out = append(out, sb.String())

		if len(vc.Alternates) > 0 {
			out = append(out, "ALTERNATE VALIDATING CARRIER/S - "+strings.Join(vc.Alternates, " "))
		}
		if len(vc.Optionals) > 0 {
			out = append(out, "OPTIONAL VALIDATING CARRIER/S - "+strings.Join(vc.Optionals, " "))
		}
	}
	return out
}
