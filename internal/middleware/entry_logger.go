package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skyfare/farecalc-service/internal/domain/model"
	"github.com/skyfare/farecalc-service/internal/logger"
	"github.com/skyfare/farecalc-service/internal/metrics"
	"github.com/skyfare/farecalc-service/internal/service"
)

// entrySummaryKey is the gin context key under which the pricing handler
// publishes the outcome of the entry for the journal.
const entrySummaryKey = "entry_summary"

// EntrySummary is what the pricing handler reports back about a processed
// entry: the agent identity it priced for and the display it produced.
type EntrySummary struct {
	Entry        string
	Agent        string
	PseudoCity   string
	PaxCount     int
	OptionCount  int
	LineCount    int
	WarningCount int
	TotalAmount  float64
	Currency     string
}

// SetEntrySummary publishes the entry outcome for the journal middleware.
func SetEntrySummary(c *gin.Context, s EntrySummary) {
	c.Set(entrySummaryKey, s)
}

func entrySummaryFrom(c *gin.Context) (EntrySummary, bool) {
	v, exists := c.Get(entrySummaryKey)
	if !exists {
		return EntrySummary{}, false
	}
	s, ok := v.(EntrySummary)
	return s, ok
}

// EntryLogger journals every priced entry: a structured console line plus a
// persistent journal record when an audit service is configured. Persistence
// goes through the journal writer pool when one is installed, otherwise a
// bounded goroutine per request.
func EntryLogger(audit service.EntryAuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := GetRequestID(c)

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		rec := &model.EntryAudit{
			Timestamp:  time.Now(),
			RequestID:  requestID,
			StatusCode: statusCode,
			Duration:   latency.Milliseconds(),
			IP:         c.ClientIP(),
		}

		if summary, ok := entrySummaryFrom(c); ok {
			rec.Entry = summary.Entry
			rec.Agent = summary.Agent
			rec.PseudoCity = summary.PseudoCity
			rec.PaxCount = summary.PaxCount
			rec.OptionCount = summary.OptionCount
			rec.LineCount = summary.LineCount
			rec.WarningCount = summary.WarningCount
			rec.TotalAmount = summary.TotalAmount
			rec.Currency = summary.Currency
		}
		// Token-authenticated config calls carry the agency in the claims.
		if rec.PseudoCity == "" {
			if pcc, exists := c.Get("agent_pcc"); exists {
				if p, ok := pcc.(string); ok {
					rec.PseudoCity = p
				}
			}
		}
		if len(c.Errors) > 0 {
			rec.Error = c.Errors.Last().Error()
		}

		if rec.Entry != "" && !rec.Failed() {
			metrics.RecordEntryOutcome(rec.Entry, rec.OptionCount, rec.WarningCount)
		}

		log := logger.Logger().With().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status_code", statusCode).
			Int64("duration_ms", rec.Duration).
			Str("entry", rec.Entry).
			Str("pseudo_city", rec.PseudoCity).
			Int("options", rec.OptionCount).
			Int("warnings", rec.WarningCount).
			Logger()

		switch {
		case statusCode >= 500:
			log.Error().Msg("Entry failed")
		case statusCode >= 400:
			log.Warn().Msg("Entry rejected")
		default:
			log.Info().Msg("Entry priced")
		}

		if audit == nil {
			return
		}

		if journal := ActiveJournal(); journal != nil {
			journal.Append(rec)
			return
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = audit.Record(ctx, rec)
		}()
	}
}
