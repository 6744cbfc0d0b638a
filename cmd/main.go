// Package main is the entry point for the farecalc-service application.
//
// @title           Fare Calc Service API
// @version         1.0.0
// @description     API for rendering airline fare calculation displays from priced itineraries.
//
//	This service formats the fare calculation line, fare summaries and tax
//	breakdowns shown to booking agents, honoring per-agency display
//	configuration.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/skyfare/farecalc-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer token for the config administration routes. Required if authentication is enabled.
//
// @tag.name        Pricing
// @tag.description Fare calculation rendering operations
//
// @tag.name        Fare Calc Configs
// @tag.description Agency display configuration endpoints
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"github.com/rs/zerolog/log"

	_ "github.com/skyfare/farecalc-service/docs"

	"github.com/skyfare/farecalc-service/config"
	"github.com/skyfare/farecalc-service/internal/app"
	"github.com/skyfare/farecalc-service/internal/middleware"
)

func main() {
	cfg := config.Load()

	router := app.InitializeApp(cfg)
	server := app.NewServer(router, cfg.Server.Port)
	server.OnShutdown(middleware.StopAuditJournal)

	if err := server.Run(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
