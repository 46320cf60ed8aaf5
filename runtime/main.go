package main

import (
	"github.com/inkwell-labs/inkwell_api/middleware"
	"github.com/inkwell-labs/inkwell_api/services"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(
		&services.JWTService{},
		&services.PostgresService{},
		&services.RedisService{},

		&services.ReadabilityService{},
		&services.AnalyzerService{},
		&services.RateLimitService{},
		&services.SuggestionCacheService{},
		&services.SuggestionService{},

		&middleware.AuthMiddleware{},
		&services.MonitoringService{},
		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}
