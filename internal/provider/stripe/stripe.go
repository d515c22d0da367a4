package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Anupmor1998/foodApp/internal/provider"
	"github.com/Anupmor1998/foodApp/pkg/httpclient"
)

const defaultAPIBaseURL = "https://api.stripe.com"

// Config holds the Stripe provider configuration.
type Config struct {
	// SecretKey authenticates calls to the Stripe API.
	SecretKey string

	// WebhookSecret verifies inbound webhook signatures. If empty,
	// AllowUnverified must be set for webhooks to be accepted at all.
	WebhookSecret string

	// AllowUnverified trusts unsigned webhook payloads. Local/test use only;
	// the application refuses this combination in production.
	AllowUnverified bool

	// APIBaseURL overrides the Stripe API endpoint (used in tests).
	APIBaseURL string

	// Tolerance bounds the accepted age of signed webhook payloads.
	// Defaults to DefaultTolerance.
	Tolerance time.Duration
}

// Provider implements provider.Provider against the Stripe HTTP API.
type Provider struct {
	secretKey       string
	webhookSecret   string
	allowUnverified bool
	baseURL         string
	tolerance       time.Duration
	client          *httpclient.BreakerClient
}

// New creates a Stripe provider. API calls go through a retrying HTTP client
// wrapped in a circuit breaker.
func New(cfg Config) *Provider {
	baseURL := cfg.APIBaseURL
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}

	tolerance := cfg.Tolerance
	if tolerance == 0 {
		tolerance = DefaultTolerance
	}

	clientCfg := httpclient.DefaultConfig()
	clientCfg.Timeout = 15 * time.Second
	client := httpclient.NewBreakerClient(
		httpclient.New(clientCfg),
		httpclient.DefaultCircuitBreakerConfig("stripe"),
	)

	return &Provider{
		secretKey:       cfg.SecretKey,
		webhookSecret:   cfg.WebhookSecret,
		allowUnverified: cfg.AllowUnverified,
		baseURL:         strings.TrimRight(baseURL, "/"),
		tolerance:       tolerance,
		client:          client,
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "stripe"
}

// CreateCheckoutSession creates a hosted checkout session via the Stripe API.
func (p *Provider) CreateCheckoutSession(ctx context.Context, input *provider.CheckoutSessionInput) (*provider.CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("client_reference_id", input.TourID)
	form.Set("customer_email", input.CustomerEmail)
	form.Set("success_url", input.SuccessURL)
	form.Set("cancel_url", input.CancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", input.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(input.UnitAmount, 10))
	form.Set("line_items[0][price_data][product_data][name]", input.TourName)
	if input.TourSummary != "" {
		form.Set("line_items[0][price_data][product_data][description]", input.TourSummary)
	}
	if input.ImageURL != "" {
		form.Set("line_items[0][price_data][product_data][images][0]", input.ImageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create checkout session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+p.secretKey)

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read checkout session response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stripe checkout session: unexpected status %d: %s", resp.StatusCode, truncate(body, 256))
	}

	var session provider.CheckoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("decode checkout session response: %w", err)
	}

	return &session, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
