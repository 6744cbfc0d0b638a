// Package model provides domain models for the fare calc service.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntryAudit is the journal record written for every priced entry. It captures
// who asked (agent variant and pseudo city), what they asked for (entry
// mnemonic, passenger and option counts) and what came back (display size,
// warnings, totals).
type EntryAudit struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	RequestID string             `bson:"request_id,omitempty" json:"request_id,omitempty"`

	// Entry context
	Entry      string `bson:"entry,omitempty" json:"entry,omitempty"` // WP, WPA or WQ
	Agent      string `bson:"agent,omitempty" json:"agent,omitempty"`
	PseudoCity string `bson:"pseudo_city,omitempty" json:"pseudo_city,omitempty"`

	// Display outcome
	PaxCount     int     `bson:"pax_count,omitempty" json:"pax_count,omitempty"`
	OptionCount  int     `bson:"option_count,omitempty" json:"option_count,omitempty"`
	LineCount    int     `bson:"line_count,omitempty" json:"line_count,omitempty"`
	WarningCount int     `bson:"warning_count,omitempty" json:"warning_count,omitempty"`
	TotalAmount  float64 `bson:"total_amount,omitempty" json:"total_amount,omitempty"`
	Currency     string  `bson:"currency,omitempty" json:"currency,omitempty"`

	// Transport outcome
	StatusCode int    `bson:"status_code,omitempty" json:"status_code,omitempty"`
	Duration   int64  `bson:"duration_ms,omitempty" json:"duration_ms,omitempty"`
	IP         string `bson:"ip,omitempty" json:"ip,omitempty"`
	Error      string `bson:"error,omitempty" json:"error,omitempty"`
}

// Failed reports whether the entry ended in a transport or display error.
func (a *EntryAudit) Failed() bool {
	return a.StatusCode >= 400 || a.Error != ""
}

// EntryAuditQuery filters journal searches.
type EntryAuditQuery struct {
	RequestID  string
	Entry      string
	PseudoCity string
	FailedOnly bool
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int
	Skip       int
}
