package handler

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/kaipandu/pandu/backend-go/internal/api"
	"github.com/kaipandu/pandu/backend-go/internal/cache"
	"github.com/kaipandu/pandu/backend-go/internal/models"
	"github.com/kaipandu/pandu/backend-go/internal/webhook"
)

type WebhookOption func(*WebhookHandler)

// WithSignatureVerifier rejects deliveries whose signature header does not verify
func WithSignatureVerifier(verifier *webhook.SignatureVerifier) WebhookOption {
	return func(h *WebhookHandler) {
		h.verifier = verifier
	}
}

// WithDeliveryCache answers repeated conversation ids with the order created the first time
func WithDeliveryCache(deliveries *cache.DeliveryCache) WebhookOption {
	return func(h *WebhookHandler) {
		h.deliveries = deliveries
	}
}

// WebhookHandler turns post-call analysis deliveries into pending orders
type WebhookHandler struct {
	builder    *webhook.Builder
	sink       models.OrderSink
	verifier   *webhook.SignatureVerifier
	deliveries *cache.DeliveryCache
}

func NewWebhookHandler(builder *webhook.Builder, sink models.OrderSink, opts ...WebhookOption) *WebhookHandler {
	h := &WebhookHandler{
		builder: builder,
		sink:    sink,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *WebhookHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod != "" && !strings.EqualFold(request.HTTPMethod, http.MethodPost) {
		resp, err := api.JSON(http.StatusMethodNotAllowed, api.NewWebhookError(api.MessageMethodNotAllowed))
		resp.Headers["Allow"] = http.MethodPost
		return resp, err
	}

	body := []byte(request.Body)
	if request.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(request.Body)
		if err != nil {
			log.Error().Err(err).Msg("Error decoding base64 webhook body")
			return api.JSON(http.StatusInternalServerError, api.NewWebhookError(api.MessageInternalError))
		}
		body = decoded
	}

	if h.verifier != nil {
		if err := h.verifier.Verify(headerValue(request.Headers, webhook.SignatureHeader), body); err != nil {
			log.Warn().Err(err).Msg("Rejected webhook delivery")
			return api.JSON(http.StatusUnauthorized, api.NewWebhookError(api.MessageInvalidSignature))
		}
	}

	payload, err := webhook.DecodePayload(body)
	if err != nil {
		log.Error().Err(err).Msg("Error processing webhook")
		return api.JSON(http.StatusInternalServerError, api.NewWebhookError(api.MessageInternalError))
	}
	log.Info().Int("bytes", len(body)).Msg("Webhook payload received")

	conversationID := webhook.ConversationID(payload)
	if h.deliveries != nil {
		if order, ok := h.deliveries.Lookup(conversationID); ok {
			log.Info().
				Str("conversation_id", conversationID).
				Str("order_id", order.OrderID).
				Msg("Duplicate webhook delivery")
			return api.JSON(http.StatusOK, api.NewWebhookSuccess(api.MessageDuplicate, order))
		}
	}

	fields := webhook.Normalize(payload)
	if fields == nil {
		log.Info().Str("conversation_id", conversationID).Msg("Webhook received without data_collection_results")
		return api.JSON(http.StatusBadRequest, api.NewWebhookError(api.MessageNoData))
	}

	order := h.builder.ToOrderRecord(fields)
	order.ConversationID = conversationID

	log.Info().
		Str("conversation_id", conversationID).
		Interface("origin", fields[webhook.FieldOriginStation]).
		Interface("destination", fields[webhook.FieldDestinationStation]).
		Interface("date", fields[webhook.FieldDepartureDate]).
		Interface("time", fields[webhook.FieldDepartureTime]).
		Int("passengers", order.PassengerCount).
		Interface("payment_method", fields[webhook.FieldPaymentMethod]).
		Msg("Extracted booking fields")
	log.Debug().Interface("order", order).Msg("Order ready for storage")

	if h.sink != nil {
		if err := h.sink.Accept(ctx, order); err != nil {
			log.Error().Err(err).Str("order_id", order.OrderID).Msg("Error storing order")
			return api.JSON(http.StatusInternalServerError, api.NewWebhookError(api.MessageInternalError))
		}
	}

	if h.deliveries != nil {
		if err := h.deliveries.Remember(conversationID, order); err != nil {
			log.Warn().Err(err).Msg("Error caching webhook delivery")
		}
	}

	return api.JSON(http.StatusOK, api.NewWebhookSuccess(api.MessageProcessed, order))
}

// headerValue looks name up case-insensitively, as API Gateway may lowercase headers
func headerValue(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
