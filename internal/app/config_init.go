// Package app provides display configuration seeding.
package app

import (
	"context"
	"time"

	"github.com/skyfare/farecalc-service/internal/domain/model"
	"github.com/skyfare/farecalc-service/internal/logger"
	"github.com/skyfare/farecalc-service/internal/repository"
)

// initializeDefaultConfig stores the built-in display defaults as the first
// config record when the collection is empty.
func initializeDefaultConfig(repo repository.FareCalcConfigRepositoryInterface) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	existing, err := repo.List(ctx, 1)
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		cfg := model.DefaultFareCalcConfig()
		if _, err := repo.Create(ctx, cfg); err != nil {
			return err
		}
		lg := logger.ForComponent("config")
		lg.Info().
			Str("pseudo_city", cfg.PseudoCity).
			Msg("Seeded built-in display defaults")
	}

	return nil
}
