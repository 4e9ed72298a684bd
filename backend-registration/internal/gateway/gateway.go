package gateway

import (
	"context"
	"fmt"
	"strings"
)

// Event types consumed from the payment provider
const (
	EventCheckoutCompleted = "checkout.session.completed"
)

// MetadataContestantID tags a payment link with the contestant it pays for
const MetadataContestantID = "contestantId"

// Provider names
const (
	ProviderStripe = "stripe"
	ProviderStub   = "stub"
)

// PaymentGateway defines the interface for the external payment provider
type PaymentGateway interface {
	// CreatePaymentLink issues a hosted checkout URL for one contestant
	CreatePaymentLink(ctx context.Context, req *PaymentLinkRequest) (*PaymentLinkResponse, error)

	// ParseWebhookEvent verifies the signature over the raw payload and decodes the event.
	// A bad signature yields domain.ErrSignatureVerification.
	ParseWebhookEvent(payload []byte, signature string) (*WebhookEvent, error)

	// SignatureHeader is the HTTP header that carries the webhook signature
	SignatureHeader() string

	// Name returns the gateway name
	Name() string
}

// PaymentLinkRequest represents a request for a hosted payment page
type PaymentLinkRequest struct {
	ContestantID  string
	ProductName   string
	Description   string
	Amount        int64 // minor units
	Currency      string
	CustomerEmail string
	SuccessURL    string
	Metadata      map[string]string
}

// PaymentLinkResponse represents an issued payment link
type PaymentLinkResponse struct {
	ID  string
	URL string
}

// WebhookEvent is a verified provider callback
type WebhookEvent struct {
	ID           string
	Type         string
	ContestantID string
	Amount       int64
	Currency     string
}

// IsCheckoutCompleted reports whether the event confirms a payment
func (e *WebhookEvent) IsCheckoutCompleted() bool {
	return e.Type == EventCheckoutCompleted
}

// GatewayConfig holds common gateway configuration
type GatewayConfig struct {
	Provider      string // "stripe" or "stub"
	SecretKey     string
	WebhookSecret string
	PublicBaseURL string
	// BackendURL overrides the provider API endpoint
	BackendURL string
}

// New returns the gateway selected by cfg.Provider
func New(cfg *GatewayConfig) (PaymentGateway, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderStripe:
		if cfg.SecretKey == "" || cfg.WebhookSecret == "" {
			return nil, fmt.Errorf("stripe gateway requires secret key and webhook secret")
		}
		return NewStripeGateway(cfg), nil
	case ProviderStub, "":
		return NewStubGateway(cfg), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Provider)
	}
}
