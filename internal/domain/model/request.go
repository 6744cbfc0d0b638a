package model

// AgentVariant identifies the partner system the requesting agent signs in
// through. Several formatting policies branch on it.
type AgentVariant int

const (
	AgentSabre AgentVariant = iota
	AgentAxess
	AgentAbacus
	AgentInfini
)

// String returns the partner mnemonic.
func (a AgentVariant) String() string {
	switch a {
	case AgentAxess:
		return "AXESS"
	case AgentAbacus:
		return "ABACUS"
	case AgentInfini:
		return "INFINI"
	default:
		return "SABRE"
	}
}

// EntryType selects the fare-calculation format variant requested.
type EntryType int

const (
	EntryWP EntryType = iota
	EntryWPA
	EntryWQ
)

// String returns the host entry mnemonic.
func (e EntryType) String() string {
	switch e {
	case EntryWPA:
		return "WPA"
	case EntryWQ:
		return "WQ"
	default:
		return "WP"
	}
}

// PricingRequest carries agent identity and entry flags.
type PricingRequest struct {
	Agent          AgentVariant `json:"agent"`
	AgencyPCC      string       `json:"agency_pcc,omitempty"`
	Entry          EntryType    `json:"entry"`
	WpNett         bool         `json:"wp_nett,omitempty"`
	LowFare        bool         `json:"low_fare,omitempty"`
	TicketingCxr   string       `json:"ticketing_cxr,omitempty"`
	// HostCarrier is the hosting partition; non-AA partitions widen the
	// amount field instead of failing on overflow.
	HostCarrier  string        `json:"host_carrier,omitempty"`
	TaxOverrides []TaxOverride `json:"tax_overrides,omitempty"`
	// MultiTicket requests per-itinerary response splitting.
	MultiTicket bool `json:"multi_ticket,omitempty"`
	// DiagnosticNumber triggers the ruler display for 854.
	DiagnosticNumber int `json:"diagnostic_number,omitempty"`
	// SecondaryResponse marks a WQ follow-up entry that always gets the
	// detail format.
	SecondaryResponse bool `json:"secondary_response,omitempty"`
}

// IsAxess reports a JAL/AXESS agent request.
func (r *PricingRequest) IsAxess() bool { return r.Agent == AgentAxess }

// IsAbacus reports an Abacus agent request.
func (r *PricingRequest) IsAbacus() bool { return r.Agent == AgentAbacus }

// IsInfini reports an Infini agent request.
func (r *PricingRequest) IsInfini() bool { return r.Agent == AgentInfini }

// PricingOptions carries user request switches that parameterize the
// rendering pass.
type PricingOptions struct {
	CurrencyOverride   string `json:"currency_override,omitempty"`
	RecordQuote        bool   `json:"record_quote,omitempty"`
	ExemptAllTaxes     bool   `json:"exempt_all_taxes,omitempty"`
	ExemptSpecificTaxes bool  `json:"exempt_specific_taxes,omitempty"`
	// ReturnAllData mirrors the GDS/WD/FP data-return modes that force the
	// plain '*' side trip markers.
	ReturnAllData string `json:"return_all_data,omitempty"`
	// SuppressAdjustedSelling disables the adjusted-selling valuation view.
	SuppressAdjustedSelling bool `json:"suppress_adjusted_selling,omitempty"`
}

// PlainMarkers reports whether side-trip/global markers degrade to '*'
// regardless of the configured bracket style.
func (o *PricingOptions) PlainMarkers() bool {
	switch o.ReturnAllData {
	case "GDS", "WD", "FP":
		return true
	}
	return o.RecordQuote
}
