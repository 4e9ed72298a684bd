package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/domain"
)

const stripeSignatureHeader = "Stripe-Signature"

// StripeGateway issues hosted Checkout Sessions and verifies Stripe webhooks
type StripeGateway struct {
	sessions      session.Client
	webhookSecret string
}

// NewStripeGateway creates a gateway with its own backend so the secret key is never global.
// Network retries are disabled; redelivery is the caller's concern.
func NewStripeGateway(cfg *GatewayConfig) *StripeGateway {
	backendCfg := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(0),
	}
	if cfg.BackendURL != "" {
		backendCfg.URL = stripe.String(cfg.BackendURL)
	}

	return &StripeGateway{
		sessions: session.Client{
			B:   stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
			Key: cfg.SecretKey,
		},
		webhookSecret: cfg.WebhookSecret,
	}
}

// Name returns the gateway name
func (g *StripeGateway) Name() string {
	return ProviderStripe
}

// SignatureHeader returns the Stripe signature header
func (g *StripeGateway) SignatureHeader() string {
	return stripeSignatureHeader
}

// CreatePaymentLink creates a one-line-item Checkout Session with inline price data
func (g *StripeGateway) CreatePaymentLink(ctx context.Context, req *PaymentLinkRequest) (*PaymentLinkResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.PaymentGatewayError{Op: "create payment link", Err: err}
	}

	metadata := map[string]string{MetadataContestantID: req.ContestantID}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(req.ProductName),
						Description: stripe.String(req.Description),
					},
					UnitAmount: stripe.Int64(req.Amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		Metadata:   metadata,
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}

	s, err := g.sessions.New(params)
	if err != nil {
		return nil, &domain.PaymentGatewayError{Op: "create payment link", Err: err}
	}
	if s.URL == "" {
		return nil, &domain.PaymentGatewayError{Op: "create payment link", Err: fmt.Errorf("checkout session %s has no url", s.ID)}
	}

	return &PaymentLinkResponse{ID: s.ID, URL: s.URL}, nil
}

// ParseWebhookEvent verifies the Stripe-Signature header over the raw body
func (g *StripeGateway) ParseWebhookEvent(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		Tolerance:                webhook.DefaultTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSignatureVerification, err)
	}

	out := &WebhookEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}

	if event.Type == stripe.EventTypeCheckoutSessionCompleted && event.Data != nil {
		var s stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("failed to decode checkout session: %w", err)
		}
		out.ContestantID = s.Metadata[MetadataContestantID]
		out.Amount = s.AmountTotal
		out.Currency = string(s.Currency)
	}

	return out, nil
}
