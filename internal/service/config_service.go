package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skyfare/farecalc-service/internal/domain/model"
	"github.com/skyfare/farecalc-service/internal/repository"
	"github.com/skyfare/farecalc-service/internal/service/cache"
)

// ErrRepositoryNotConfigured is returned when the repository is not configured.
var ErrRepositoryNotConfigured = errors.New("repository not configured")

// FareCalcConfigService resolves per-agency formatting policy records.
type FareCalcConfigService interface {
	// Resolve returns the config for the requesting agency, falling back to
	// the built-in defaults when no record matches or the store is down.
	Resolve(ctx context.Context, userApplType byte, userAppl, pseudoCity string) (*model.FareCalcConfig, error)
	Create(ctx context.Context, cfg *model.FareCalcConfig) (*repository.FareCalcConfigDocument, error)
	Update(ctx context.Context, id string, cfg *model.FareCalcConfig) (*repository.FareCalcConfigDocument, error)
	List(ctx context.Context, limit int) ([]repository.FareCalcConfigDocument, error)
}

// FareCalcConfigServiceImpl implements FareCalcConfigService with an
// in-process TTL cache in front of the repository.
type FareCalcConfigServiceImpl struct {
	configRepo repository.FareCalcConfigRepositoryInterface
	cache      cache.Cache
}

// ConfigOption configures a FareCalcConfigServiceImpl.
type ConfigOption func(*FareCalcConfigServiceImpl)

// WithConfigCache enables agency config caching with the specified capacity and TTL.
func WithConfigCache(capacity int, ttl time.Duration) ConfigOption {
	return func(s *FareCalcConfigServiceImpl) {
		if capacity > 0 {
			s.cache = NewAgencyPolicyCache(capacity, ttl, defaultPolicyShards)
		}
	}
}

// WithConfigCacheInterface allows injecting a custom cache implementation.
func WithConfigCacheInterface(c cache.Cache) ConfigOption {
	return func(s *FareCalcConfigServiceImpl) {
		s.cache = c
	}
}

// NewFareCalcConfigService creates a new fare calc config service.
func NewFareCalcConfigService(configRepo repository.FareCalcConfigRepositoryInterface, opts ...ConfigOption) FareCalcConfigService {
	s := &FareCalcConfigServiceImpl{
		configRepo: configRepo,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// agencyKey builds the cache key for one agency identity.
func agencyKey(userApplType byte, userAppl, pseudoCity string) string {
	return fmt.Sprintf("%c/%s/%s", userApplType, userAppl, pseudoCity)
}

func (s *FareCalcConfigServiceImpl) Resolve(ctx context.Context, userApplType byte, userAppl, pseudoCity string) (*model.FareCalcConfig, error) {
	key := agencyKey(userApplType, userAppl, pseudoCity)
	if s.cache != nil {
		if cfg, ok := s.cache.Get(key); ok {
			return cfg, nil
		}
	}

	cfg := model.DefaultFareCalcConfig()
	if s.configRepo != nil {
		found, err := s.configRepo.Find(ctx, userApplType, userAppl, pseudoCity)
		if err != nil {
			return nil, err
		}
		if found != nil {
			cfg = found
		}
	}

	if s.cache != nil {
		s.cache.Set(key, cfg)
	}
	return cfg, nil
}

func (s *FareCalcConfigServiceImpl) Create(ctx context.Context, cfg *model.FareCalcConfig) (*repository.FareCalcConfigDocument, error) {
	if s.configRepo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	doc, err := s.configRepo.Create(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s.invalidate(cfg)
	return doc, nil
}

func (s *FareCalcConfigServiceImpl) Update(ctx context.Context, id string, cfg *model.FareCalcConfig) (*repository.FareCalcConfigDocument, error) {
	if s.configRepo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	doc, err := s.configRepo.Update(ctx, id, cfg)
	if err != nil {
		return nil, err
	}
	s.invalidate(cfg)
	return doc, nil
}

func (s *FareCalcConfigServiceImpl) List(ctx context.Context, limit int) ([]repository.FareCalcConfigDocument, error) {
	if s.configRepo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.configRepo.List(ctx, limit)
}

// invalidate drops the cached entry for the agency a write touched.
func (s *FareCalcConfigServiceImpl) invalidate(cfg *model.FareCalcConfig) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(agencyKey(cfg.UserApplType, cfg.UserAppl, cfg.PseudoCity))
}
