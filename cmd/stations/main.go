package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/kaipandu/pandu/backend-go/internal/api"
	"github.com/kaipandu/pandu/backend-go/internal/app"
	"github.com/kaipandu/pandu/backend-go/internal/config"
	"github.com/kaipandu/pandu/backend-go/internal/handler"
)

var (
	lambdaStart     = lambda.Start // Allow mocking of lambda.Start in tests
	stationsHandler *handler.StationsHandler
	setupOnce       sync.Once
	initHandler     = defaultInitHandler
)

func defaultInitHandler(ctx context.Context) (*handler.StationsHandler, error) {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	return app.NewStationsHandler(ctx, cfg, config.GetCacheConfig())
}

func initializeService() error {
	var initError error
	setupOnce.Do(func() {
		log.Debug().Msg("Initializing stations service...")
		h, err := initHandler(context.Background())
		if err != nil {
			initError = fmt.Errorf("failed to initialize handler: %w", err)
			log.Error().Err(err).Msg("Failed to initialize stations handler")
			return
		}
		stationsHandler = h
	})
	return initError
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if stationsHandler == nil {
		return api.Error("Handler not initialized", http.StatusInternalServerError)
	}
	return stationsHandler.HandleRequest(ctx, request)
}

func main() {
	if err := initializeService(); err != nil {
		log.Fatal().Err(err).Msg("Stations service failed to start")
	}
	lambdaStart(handleRequest)
}
