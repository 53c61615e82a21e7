// Command server runs the Lambda handlers behind a local HTTP server for
// development.
package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/kaipandu/pandu/backend-go/internal/app"
	"github.com/kaipandu/pandu/backend-go/internal/config"
)

type lambdaHandler interface {
	HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("Error loading .env file")
	}

	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()
	if !cfg.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handlers, err := app.New(ctx, cfg, config.GetCacheConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize handlers")
	}
	defer handlers.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(handlers),
		ReadHeaderTimeout: cfg.HTTPTimeout,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error shutting down server")
	}
}

func newRouter(handlers *app.Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/stations", adapt(handlers.Stations))
	router.GET("/api/stations", adapt(handlers.Stations))
	router.Any("/api/webhook/elevenlabs", adapt(handlers.Webhook))
	router.GET("/api/orders/:orderId", adapt(handlers.Orders))

	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Handled request")
	}
}

// adapt serves a Lambda proxy handler from gin
func adapt(h lambdaHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		request, err := toProxyRequest(c)
		if err != nil {
			log.Error().Err(err).Msg("Error reading request body")
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}

		response, err := h.HandleRequest(c.Request.Context(), request)
		if err != nil {
			log.Error().Err(err).Str("path", request.Path).Msg("Handler returned an error")
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		for k, v := range response.Headers {
			c.Header(k, v)
		}
		c.Status(response.StatusCode)
		if _, err := io.WriteString(c.Writer, response.Body); err != nil {
			log.Warn().Err(err).Msg("Error writing response body")
		}
	}
}

func toProxyRequest(c *gin.Context) (events.APIGatewayProxyRequest, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return events.APIGatewayProxyRequest{}, err
	}

	headers := make(map[string]string, len(c.Request.Header))
	for k, v := range c.Request.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	query := c.Request.URL.Query()
	params := make(map[string]string, len(query))
	for k, v := range query {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}

	pathParams := make(map[string]string, len(c.Params))
	for _, p := range c.Params {
		pathParams[p.Key] = p.Value
	}

	return events.APIGatewayProxyRequest{
		HTTPMethod:            c.Request.Method,
		Path:                  c.Request.URL.Path,
		Headers:               headers,
		QueryStringParameters: params,
		PathParameters:        pathParams,
		Body:                  string(body),
	}, nil
}
