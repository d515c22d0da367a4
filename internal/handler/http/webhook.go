package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/Anupmor1998/foodApp/internal/provider"
	"github.com/Anupmor1998/foodApp/internal/service"
	"github.com/Anupmor1998/foodApp/pkg/httputil"
)

// maxWebhookBody bounds webhook payloads. Checkout session events are small;
// anything larger is not ours.
const maxWebhookBody = 1 << 18 // 256 KB

// WebhookHandler receives payment-provider webhook deliveries.
type WebhookHandler struct {
	payments provider.Provider
	service  *service.BookingService
	logger   *slog.Logger
}

// NewWebhookHandler creates a new webhook HTTP handler.
func NewWebhookHandler(payments provider.Provider, svc *service.BookingService, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		payments: payments,
		service:  svc,
		logger:   logger,
	}
}

// HandleCheckout handles POST /webhooks/stripe. The signature is verified
// over the raw body exactly as delivered, so the body must not pass through
// any decoding middleware before this handler reads it.
func (h *WebhookHandler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Status: httputil.StatusFail,
			Error:  &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "Webhook error: " + err.Error()},
		})
		return
	}

	evt, err := h.payments.ConstructWebhookEvent(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		h.logger.WarnContext(r.Context(), "webhook rejected",
			slog.String("provider", h.payments.Name()),
			slog.String("error", err.Error()),
		)
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Status: httputil.StatusFail,
			Error:  &httputil.ErrorResponse{Code: "SIGNATURE_INVALID", Message: "Webhook error: " + err.Error()},
		})
		return
	}

	if err := h.service.HandleWebhookEvent(r.Context(), evt); err != nil {
		// The event is authentic; log the failure but acknowledge receipt so
		// the provider does not hammer us with retries for a payload we have
		// already dedup-marked.
		h.logger.ErrorContext(r.Context(), "webhook fulfillment failed",
			slog.String("event_id", evt.ID),
			slog.String("event_type", evt.Type),
			slog.String("error", err.Error()),
		)
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
}
