package model

// Indicator values carried by FareCalcConfig records. The single-character
// encoding mirrors the database records these configs are loaded from.
const (
	FCYes   = 'Y'
	FCNo    = 'N'
	FCOne   = '1'
	FCTwo   = '2'
	FCThree = '3'

	// fareTaxTotalInd layouts.
	LayoutHorizontal = '1'
	LayoutVertical   = '2'
	LayoutMix        = '3'
)

// Agency identity types keying FareCalcConfig records.
const (
	CrsUserApplType       byte = 'C'
	MultihostUserApplType byte = 'M'
)

// Display geometry shared by every layout.
const (
	DisplayWidth          = 63
	MaxFareBasisSize      = 13
	MaxFareBasisSizeWqWpa = 10
	DefaultFareAmountLen  = 8
	// HostedFareAmountLen widens the amount field for hosted carrier
	// partitions instead of failing on overflow.
	HostedFareAmountLen = 14
)

// FareCalcConfigSeg overrides the displayed city for one market location.
type FareCalcConfigSeg struct {
	MarketLoc  string `bson:"market_loc" json:"market_loc"`
	DisplayLoc string `bson:"display_loc" json:"display_loc"`
}

// FareCalcConfig is the database-sourced formatting policy record. Every
// formatting decision in the engine is parameterized by one of these
// single-character switches.
type FareCalcConfig struct {
	ID           string `bson:"_id,omitempty" json:"id,omitempty"`
	UserApplType byte   `bson:"user_appl_type" json:"user_appl_type"`
	UserAppl     string `bson:"user_appl" json:"user_appl"`
	PseudoCity   string `bson:"pseudo_city" json:"pseudo_city"`

	ItinDisplayInd        byte `bson:"itin_display_ind" json:"itin_display_ind"`
	ItinHeaderTextInd     byte `bson:"itin_header_text_ind" json:"itin_header_text_ind"`
	WpPsgTypDisplay       byte `bson:"wp_psg_typ_display" json:"wp_psg_typ_display"`
	WpPsgLineBreak        byte `bson:"wp_psg_line_break" json:"wp_psg_line_break"`
	FareTaxTotalInd       byte `bson:"fare_tax_total_ind" json:"fare_tax_total_ind"`
	FareBasisDisplayOpt   byte `bson:"fare_basis_display_opt" json:"fare_basis_display_opt"`
	FareBasisTktDesLng    byte `bson:"fare_basis_tkt_des_lng" json:"fare_basis_tkt_des_lng"`
	TruePsgrTypeInd       byte `bson:"true_psgr_type_ind" json:"true_psgr_type_ind"`
	GlobalSidetripInd     byte `bson:"global_sidetrip_ind" json:"global_sidetrip_ind"`
	WrapAround            byte `bson:"wrap_around" json:"wrap_around"`
	MultiSurchargeSpacing byte `bson:"multi_surcharge_spacing" json:"multi_surcharge_spacing"`
	FcConnectionInd       byte `bson:"fc_connection_ind" json:"fc_connection_ind"`
	TvlCommencementDate   byte `bson:"tvl_commencement_date" json:"tvl_commencement_date"`
	WarningMessages       byte `bson:"warning_messages" json:"warning_messages"`
	LastDayTicketDisplay  byte `bson:"last_day_ticket_display" json:"last_day_ticket_display"`
	TaxPlacementInd       byte `bson:"tax_placement_ind" json:"tax_placement_ind"`
	TaxExemptionInd       byte `bson:"tax_exemption_ind" json:"tax_exemption_ind"`
	TaxCurCodeDisplayInd  byte `bson:"tax_cur_code_display_ind" json:"tax_cur_code_display_ind"`
	ZpAmountDisplayInd    byte `bson:"zp_amount_display_ind" json:"zp_amount_display_ind"`
	NoOfTaxBoxes          int  `bson:"no_of_tax_boxes" json:"no_of_tax_boxes"`
	BaseTaxEquivTotalLen  int  `bson:"base_tax_equiv_total_len" json:"base_tax_equiv_total_len"`
	FareAccrualInd        byte `bson:"fare_accrual_ind" json:"fare_accrual_ind"`
	EndorsementLimit      int  `bson:"endorsement_limit" json:"endorsement_limit"`
	DomesticNUC           byte `bson:"domestic_nuc" json:"domestic_nuc"`

	Segs []FareCalcConfigSeg `bson:"segs,omitempty" json:"segs,omitempty"`

	// Message-application overrides keyed by MsgKey.
	Messages map[string]string `bson:"messages,omitempty" json:"messages,omitempty"`

	NoPNR NoPNROptions `bson:"nopnr" json:"nopnr"`
}

// Message keys resolvable through FareCalcConfig.Messages.
const (
	MsgWpaNoMatchNoFare = "WPA_NO_MATCH_NO_FARE"
	MsgWpaNoMatchRebook = "WPA_NO_MATCH_REBOOK"
	MsgWpaRoIndicator   = "WPA_RO_INDICATOR"
)

// MsgAppl resolves a configured message text, reporting whether the record
// carries one.
func (c *FareCalcConfig) MsgAppl(key string) (string, bool) {
	if c.Messages == nil {
		return "", false
	}
	msg, ok := c.Messages[key]
	return msg, ok
}

// DisplayLoc resolves the configured display override for an airport,
// reporting whether a config segment matched.
func (c *FareCalcConfig) DisplayLoc(airport string) (string, bool) {
	for _, seg := range c.Segs {
		if seg.MarketLoc == airport {
			return seg.DisplayLoc, true
		}
	}
	return "", false
}

// NoPNROptions parameterize the WQ (itinerary-less) format variant.
type NoPNROptions struct {
	PsgDetailLineFormat    byte `bson:"psg_detail_line_format" json:"psg_detail_line_format"`
	RbdMatchTrailerMsg     byte `bson:"rbd_match_trailer_msg" json:"rbd_match_trailer_msg"`
	RbdNoMatchTrailerMsg   byte `bson:"rbd_no_match_trailer_msg" json:"rbd_no_match_trailer_msg"`
	DisplayFareRuleWarning byte `bson:"display_fare_rule_warning" json:"display_fare_rule_warning"`
	MaxNoOptions           int  `bson:"max_no_options" json:"max_no_options"`
	// DescendingSort orders fare options by descending total when set.
	DescendingSort bool `bson:"descending_sort" json:"descending_sort"`
	// AlwaysTwoDigits zero-pads option indices to two digits in trailer
	// messages.
	AlwaysTwoDigits bool `bson:"always_two_digits" json:"always_two_digits"`
}

// DefaultFareCalcConfig returns the in-code fallback record used when no
// database record matches the requesting agency.
func DefaultFareCalcConfig() *FareCalcConfig {
	return &FareCalcConfig{
		ID:                    "default",
		ItinDisplayInd:        FCNo,
		ItinHeaderTextInd:     FCOne,
		WpPsgTypDisplay:       FCYes,
		WpPsgLineBreak:        FCYes,
		FareTaxTotalInd:       LayoutHorizontal,
		FareBasisDisplayOpt:   FCYes,
		FareBasisTktDesLng:    FCTwo,
		TruePsgrTypeInd:       FCNo,
		GlobalSidetripInd:     FCTwo,
		WrapAround:            FCTwo,
		MultiSurchargeSpacing: FCNo,
		FcConnectionInd:       'X',
		TvlCommencementDate:   FCNo,
		WarningMessages:       FCYes,
		LastDayTicketDisplay:  FCYes,
		TaxPlacementInd:       FCTwo,
		TaxExemptionInd:       FCThree,
		TaxCurCodeDisplayInd:  FCNo,
		ZpAmountDisplayInd:    FCYes,
		NoOfTaxBoxes:          3,
		BaseTaxEquivTotalLen:  DefaultFareAmountLen,
		EndorsementLimit:      58,
		NoPNR: NoPNROptions{
			PsgDetailLineFormat:    FCOne,
			RbdMatchTrailerMsg:     FCOne,
			RbdNoMatchTrailerMsg:   FCOne,
			DisplayFareRuleWarning: FCYes,
			MaxNoOptions:           24,
		},
	}
}
