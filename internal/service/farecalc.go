package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/skyfare/farecalc-service/internal/domain/model"
	"github.com/skyfare/farecalc-service/internal/farecalc"
	"github.com/skyfare/farecalc-service/internal/logger"
	"github.com/skyfare/farecalc-service/internal/metrics"
)

// PricingService renders fare calculation displays for priced itineraries.
type PricingService interface {
	// Price runs one rendering pass over a priced transaction.
	Price(ctx context.Context, trx *farecalc.Transaction) (*farecalc.Result, error)
}

// PricingOption configures a PricingServiceImpl.
type PricingOption func(*PricingServiceImpl)

// WithPricingStopoverPolicy selects the stopover tie-break variant applied to
// every rendering pass.
func WithPricingStopoverPolicy(p farecalc.StopoverPolicy) PricingOption {
	return func(s *PricingServiceImpl) { s.policy = p }
}

// WithPricingTicketStock attaches the ticket-stock budget table.
func WithPricingTicketStock(stock *farecalc.TicketStock) PricingOption {
	return func(s *PricingServiceImpl) { s.stock = stock }
}

// PricingServiceImpl implements PricingService on top of the rendering
// engine, resolving the formatting policy per requesting agency.
type PricingServiceImpl struct {
	configs FareCalcConfigService
	log     zerolog.Logger
	policy  farecalc.StopoverPolicy
	stock   *farecalc.TicketStock
}

// NewPricingService creates a new pricing service.
func NewPricingService(configs FareCalcConfigService, log zerolog.Logger, opts ...PricingOption) *PricingServiceImpl {
	s := &PricingServiceImpl{
		configs: configs,
		log:     log,
		policy:  farecalc.StopoverPolicyPerFareComponent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// crsUserAppl maps the partner variant to its config user application code.
func crsUserAppl(agent model.AgentVariant) string {
	switch agent {
	case model.AgentAxess:
		return "AXES"
	case model.AgentAbacus:
		return "ABAC"
	case model.AgentInfini:
		return "INFI"
	default:
		return "SABR"
	}
}

// Price resolves the agency config and runs the rendering pass matching the
// entry type: WQ requests take the itinerary-less variant, everything else
// the standard one.
func (s *PricingServiceImpl) Price(ctx context.Context, trx *farecalc.Transaction) (*farecalc.Result, error) {
	start := time.Now()
	entry := trx.Request.Entry.String()
	log := logger.ForEntry(s.log, logger.RequestIDFromContext(ctx), entry, trx.Request.AgencyPCC)

	cfg, err := s.configs.Resolve(ctx, model.CrsUserApplType, crsUserAppl(trx.Request.Agent), trx.Request.AgencyPCC)
	if err != nil {
		log.Error().Err(err).Msg("agency config lookup failed")
		metrics.RecordFareCalculation(entry, time.Since(start), "error")
		return nil, err
	}

	opts := []farecalc.Option{farecalc.WithStopoverPolicy(s.policy)}
	if s.stock != nil {
		opts = append(opts, farecalc.WithTicketStock(s.stock))
	}

	var result *farecalc.Result
	if trx.Request.Entry == model.EntryWQ {
		result, err = farecalc.NewNoPNRFareCalculation(trx, cfg, log, opts...).Process()
	} else {
		result, err = farecalc.NewFareCalculation(trx, cfg, log, opts...).Process()
	}
	if err != nil {
		log.Error().Err(err).Msg("fare calculation rendering failed")
		metrics.RecordFareCalculation(entry, time.Since(start), "error")
		return nil, err
	}

	log.Debug().
		Int("lines", len(result.Lines)).
		Int("messages", len(result.Messages)).
		Dur("duration", time.Since(start)).
		Msg("fare calculation rendered")
	metrics.RecordFareCalculation(entry, time.Since(start), "success")
	return result, nil
}
