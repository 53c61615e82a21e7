package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/kaipandu/pandu/backend-go/internal/api"
	"github.com/kaipandu/pandu/backend-go/internal/models"
)

// OrdersHandler returns a stored order by id, taken from the orderId path
// parameter or query parameter.
type OrdersHandler struct {
	orders models.OrderReader
}

func NewOrdersHandler(orders models.OrderReader) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

func (h *OrdersHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	orderID := strings.TrimSpace(request.PathParameters["orderId"])
	if orderID == "" {
		orderID = strings.TrimSpace(request.QueryStringParameters["orderId"])
	}
	if orderID == "" {
		return api.Error("Missing orderId", http.StatusBadRequest)
	}

	if h.orders == nil {
		return api.Error("Order storage is not configured", http.StatusNotImplemented)
	}

	order, err := h.orders.Get(ctx, orderID)
	if err != nil {
		log.Error().Err(err).Str("order_id", orderID).Msg("Error reading order")
		return api.Error("Error reading order", http.StatusInternalServerError)
	}
	if order == nil {
		return api.Error("Order not found", http.StatusNotFound)
	}

	return api.Success(api.NewOrderResponse(*order))
}
