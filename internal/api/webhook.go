package api

import "github.com/kaipandu/pandu/backend-go/internal/models"

const (
	WebhookStatusSuccess = "success"
	WebhookStatusError   = "error"
)

// Webhook response messages
const (
	MessageProcessed        = "Webhook processed successfully and data extracted"
	MessageDuplicate        = "Webhook already processed"
	MessageNoData           = "Invalid payload format or no data found"
	MessageInternalError    = "Internal Server Error"
	MessageInvalidSignature = "Invalid signature"
	MessageMethodNotAllowed = "Method Not Allowed"
)

// WebhookResponse is returned to the voice assistant service for every delivery
type WebhookResponse struct {
	Status        string              `json:"status"`
	Message       string              `json:"message"`
	ExtractedData *models.OrderRecord `json:"extractedData,omitempty"`
}

func NewWebhookSuccess(message string, order models.OrderRecord) *WebhookResponse {
	return &WebhookResponse{
		Status:        WebhookStatusSuccess,
		Message:       message,
		ExtractedData: &order,
	}
}

func NewWebhookError(message string) *WebhookResponse {
	return &WebhookResponse{
		Status:  WebhookStatusError,
		Message: message,
	}
}
