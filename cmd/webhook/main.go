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
	lambdaStart    = lambda.Start // Allow mocking of lambda.Start in tests
	webhookHandler *handler.WebhookHandler
	setupOnce      sync.Once
	initHandler    = defaultInitHandler
)

// The store and broker connections live as long as the execution environment,
// so the cleanup function is dropped.
func defaultInitHandler(ctx context.Context) (*handler.WebhookHandler, error) {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	h, _, _, err := app.NewWebhookHandler(ctx, cfg, config.GetCacheConfig())
	return h, err
}

func initializeService() error {
	var initError error
	setupOnce.Do(func() {
		log.Debug().Msg("Initializing webhook service...")
		h, err := initHandler(context.Background())
		if err != nil {
			initError = fmt.Errorf("failed to initialize handler: %w", err)
			log.Error().Err(err).Msg("Failed to initialize webhook handler")
			return
		}
		webhookHandler = h
	})
	return initError
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if webhookHandler == nil {
		return api.JSON(http.StatusInternalServerError, api.NewWebhookError(api.MessageInternalError))
	}
	return webhookHandler.HandleRequest(ctx, request)
}

func main() {
	if err := initializeService(); err != nil {
		log.Fatal().Err(err).Msg("Webhook service failed to start")
	}
	lambdaStart(handleRequest)
}
