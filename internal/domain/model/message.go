package model

// FcMessageType classifies trailer and warning messages produced while
// building the fare calculation display.
type FcMessageType int

const (
	FcMsgWarning FcMessageType = iota
	FcMsgRestriction
	FcMsgEndorsement
	FcMsgBaggage
	FcMsgSegmentFee
	FcMsgAgencyCommission
	FcMsgCarrier
	FcMsgNoMatch
	FcMsgTrailer
)

// String returns the wire name of the message type.
func (t FcMessageType) String() string {
	switch t {
	case FcMsgWarning:
		return "WARNING"
	case FcMsgRestriction:
		return "RESTRICTION"
	case FcMsgEndorsement:
		return "ENDORSEMENT"
	case FcMsgBaggage:
		return "BAGGAGE"
	case FcMsgSegmentFee:
		return "SEGMENT_FEE"
	case FcMsgAgencyCommission:
		return "AGENCY_COMMISSION"
	case FcMsgCarrier:
		return "CARRIER"
	case FcMsgNoMatch:
		return "NO_MATCH"
	case FcMsgTrailer:
		return "TRAILER"
	}
	return "UNKNOWN"
}

// FcMessage is one structured trailer/warning record consumed by the
// response-assembly layer.
type FcMessage struct {
	Type    FcMessageType `json:"type"`
	Subtype int           `json:"subtype,omitempty"`
	Text    string        `json:"text"`
	// Attn requests the "ATTN*" prefix on display.
	Attn bool `json:"attn,omitempty"`
}

// NewFcMessage builds a message record.
func NewFcMessage(t FcMessageType, text string) FcMessage {
	return FcMessage{Type: t, Text: text}
}

// WithAttn flags the message for ATTN* prefixing.
func (m FcMessage) WithAttn() FcMessage {
	m.Attn = true
	return m
}
