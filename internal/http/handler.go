package http

import (
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skyfare/farecalc-service/internal/domain/dto"
	"github.com/skyfare/farecalc-service/internal/domain/model"
	"github.com/skyfare/farecalc-service/internal/farecalc"
	"github.com/skyfare/farecalc-service/internal/i18n"
	"github.com/skyfare/farecalc-service/internal/metrics"
	"github.com/skyfare/farecalc-service/internal/middleware"
	"github.com/skyfare/farecalc-service/internal/service"
)

// configListCache provides thread-safe caching of the config history list.
type configListCache struct {
	docs      atomic.Value // holds []repository.FareCalcConfigDocument
	expiresAt atomic.Value // holds time.Time
	mu        sync.Mutex
	ttl       time.Duration
}

// newConfigListCache creates a new config list cache with the given TTL.
func newConfigListCache(ttl time.Duration) *configListCache {
	c := &configListCache{ttl: ttl}
	c.expiresAt.Store(time.Time{})
	return c
}

// get returns the cached list if valid, or nil if cache is expired/empty.
func (c *configListCache) get() interface{} {
	if exp := c.expiresAt.Load(); exp != nil {
		if expiresAt, ok := exp.(time.Time); ok && time.Now().Before(expiresAt) {
			return c.docs.Load()
		}
	}
	return nil
}

// set stores the list in the cache with TTL.
func (c *configListCache) set(docs interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring lock
	if exp := c.expiresAt.Load(); exp != nil {
		if expiresAt, ok := exp.(time.Time); ok && time.Now().Before(expiresAt) {
			return // Already cached by another goroutine
		}
	}

	c.docs.Store(docs)
	c.expiresAt.Store(time.Now().Add(c.ttl))
}

// invalidate clears the cache.
func (c *configListCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expiresAt.Store(time.Time{})
}

// Handler provides HTTP handlers for the fare calculation routes.
type Handler struct {
	pricing service.PricingService
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// NewHandler creates a new Handler instance.
func NewHandler(pricing service.PricingService, opts ...HandlerOption) *Handler {
	h := &Handler{
		pricing: pricing,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Price handles POST /api/price requests.
//
// @Summary      Render a fare calculation display
// @Description  Renders the host fare calculation display for a set of priced fare paths: passenger-type headers, fare and tax totals, the fare calc line and trailer messages. WQ entries produce the no-PNR format. Supports idempotency via Idempotency-Key header.
// @Tags         Pricing
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.PriceRequest true "Priced fare paths and entry options"
// @Success      200 {object} dto.SuccessResponse "Rendered display"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/price [post]
func (h *Handler) Price(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	if err := req.Validate(); err != nil {
		if _, ok := err.(*dto.ValidationError); ok {
			metrics.RecordFareCalculation(req.Request.Entry.String(), 0, "validation_error")
			builder.Error(http.StatusBadRequest, i18n.ErrKeyValidationFarePaths, err)
		} else {
			builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		}
		return
	}

	// Publish the entry context for the journal before pricing, so failed
	// entries are journaled with their agent identity too.
	summary := middleware.EntrySummary{
		Entry:       req.Request.Entry.String(),
		Agent:       req.Request.Agent.String(),
		PseudoCity:  req.Request.AgencyPCC,
		PaxCount:    len(req.PaxTypes),
		OptionCount: len(req.FarePaths),
	}
	middleware.SetEntrySummary(c, summary)

	trx := buildTransaction(&req)

	result, err := h.pricing.Price(c.Request.Context(), trx)
	if err != nil {
		if errors.Is(err, farecalc.ErrExceedLength) {
			metrics.RecordFareCalculation(req.Request.Entry.String(), 0, "overflow")
			builder.Error(http.StatusUnprocessableEntity, i18n.ErrKeyDisplayOverflow, err)
			return
		}
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
		return
	}

	summary.LineCount = len(result.Lines)
	for _, m := range result.Messages {
		if m.Type == model.FcMsgWarning {
			summary.WarningCount++
		}
	}
	if len(trx.CalcTotals) > 0 {
		ct := trx.CalcTotals[0]
		summary.TotalAmount = ct.TotalFareAmount(trx.Options.CurrencyOverride)
		summary.Currency = ct.EquivCurrencyCode
		if summary.Currency == "" {
			summary.Currency = ct.ConvertedBaseFareCurrencyCode
		}
	}
	middleware.SetEntrySummary(c, summary)

	builder.SuccessOK(dto.PriceResult{
		Display:  result.Display,
		Lines:    result.Lines,
		Messages: result.Messages,
	})
}

// buildTransaction assembles the engine transaction from the bound request.
func buildTransaction(req *dto.PriceRequest) *farecalc.Transaction {
	totals := make([]*farecalc.CalcTotals, 0, len(req.FarePaths))
	for _, p := range req.FarePaths {
		ct := farecalc.NewCalcTotals(p.FarePath)
		ct.ConvertedBaseFare = p.BaseFare
		if p.EquivCurrency != "" {
			ct.SetEquivalent(p.EquivAmount, p.EquivCurrency)
		}
		ct.TaxRecords = p.TaxRecords
		ct.TaxItems = p.TaxItems
		ct.TaxExemptCodes = p.TaxExemptCodes
		if len(p.TaxRecords) > 0 {
			ct.SetTaxCurrency(p.TaxRecords[0].Currency)
		}
		ct.RoeRate = p.RoeRate
		ct.RoeNoDec = p.RoeNoDec
		ct.TotalMileage = p.TotalMileage
		totals = append(totals, ct)
	}

	ticketingDate := req.TicketingDate
	if ticketingDate.IsZero() {
		ticketingDate = time.Now()
	}

	return &farecalc.Transaction{
		Request:       &req.Request,
		Options:       &req.Options,
		PaxTypes:      req.PaxTypes,
		CalcTotals:    totals,
		TicketingDate: ticketingDate,
	}
}
