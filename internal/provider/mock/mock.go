package mock

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Anupmor1998/foodApp/internal/provider"
)

// Provider is an in-memory payment provider for local development. Checkout
// sessions are fabricated and webhook payloads are trusted as-is.
type Provider struct{}

// New creates a mock provider.
func New() *Provider {
	return &Provider{}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "mock"
}

// CreateCheckoutSession fabricates a checkout session without calling any
// external API.
func (p *Provider) CreateCheckoutSession(_ context.Context, input *provider.CheckoutSessionInput) (*provider.CheckoutSession, error) {
	id := "cs_mock_" + uuid.New().String()
	return &provider.CheckoutSession{
		ID:  id,
		URL: fmt.Sprintf("https://checkout.local/pay/%s?tour=%s", id, input.TourID),
	}, nil
}

// ConstructWebhookEvent decodes the payload without signature verification.
func (p *Provider) ConstructWebhookEvent(payload []byte, _ string) (*provider.WebhookEvent, error) {
	var raw struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID                string `json:"id"`
				ClientReferenceID string `json:"client_reference_id"`
				CustomerEmail     string `json:"customer_email"`
				AmountTotal       int64  `json:"amount_total"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}

	event := &provider.WebhookEvent{ID: raw.ID, Type: raw.Type}
	if raw.Type == provider.EventTypeCheckoutCompleted {
		event.Session = &provider.CheckoutCompleted{
			SessionID:         raw.Data.Object.ID,
			ClientReferenceID: raw.Data.Object.ClientReferenceID,
			CustomerEmail:     raw.Data.Object.CustomerEmail,
			UnitAmount:        raw.Data.Object.AmountTotal,
		}
	}

	return event, nil
}
