package provider

import "context"

// Webhook event types this service reacts to. All other types are
// acknowledged and ignored.
const EventTypeCheckoutCompleted = "checkout.session.completed"

// CheckoutSessionInput holds the parameters for creating a hosted checkout
// session with the payment provider.
type CheckoutSessionInput struct {
	TourID        string
	TourName      string
	TourSummary   string
	ImageURL      string
	CustomerEmail string
	UnitAmount    int64
	Currency      string
	SuccessURL    string
	CancelURL     string
}

// CheckoutSession is the provider's view of a created checkout session.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// WebhookEvent is an authenticated payment-provider event decoded into a
// strict tagged form. Session is non-nil only for checkout completion events.
type WebhookEvent struct {
	ID      string
	Type    string
	Session *CheckoutCompleted
}

// CheckoutCompleted carries the fields of a completed checkout session that
// fulfillment needs.
type CheckoutCompleted struct {
	SessionID         string
	ClientReferenceID string
	CustomerEmail     string
	UnitAmount        int64
}

// Provider is the payment-provider port: creating checkout sessions and
// authenticating inbound webhook events.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// CreateCheckoutSession creates a hosted checkout session for a tour.
	CreateCheckoutSession(ctx context.Context, input *CheckoutSessionInput) (*CheckoutSession, error)

	// ConstructWebhookEvent verifies the signature over the raw payload and
	// decodes the event. It must operate on the raw bytes as delivered;
	// re-serialization would invalidate the signature.
	ConstructWebhookEvent(payload []byte, signatureHeader string) (*WebhookEvent, error)
}
