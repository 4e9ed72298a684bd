package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/domain"
)

const stubSignatureHeader = "X-Signature"

// StubGateway is a local development provider. Links point back at the
// service itself and webhooks are signed with HMAC-SHA256 over the raw body.
type StubGateway struct {
	baseURL       string
	webhookSecret string
}

// NewStubGateway creates a new StubGateway
func NewStubGateway(cfg *GatewayConfig) *StubGateway {
	return &StubGateway{
		baseURL:       cfg.PublicBaseURL,
		webhookSecret: cfg.WebhookSecret,
	}
}

// Name returns the gateway name
func (g *StubGateway) Name() string {
	return ProviderStub
}

// SignatureHeader returns the stub signature header
func (g *StubGateway) SignatureHeader() string {
	return stubSignatureHeader
}

// CreatePaymentLink returns a link to the local stub payment page
func (g *StubGateway) CreatePaymentLink(ctx context.Context, req *PaymentLinkRequest) (*PaymentLinkResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.PaymentGatewayError{Op: "create payment link", Err: err}
	}
	if req.ContestantID == "" {
		return nil, &domain.PaymentGatewayError{Op: "create payment link", Err: fmt.Errorf("missing contestant id")}
	}

	q := url.Values{}
	q.Set("contestant", req.ContestantID)
	return &PaymentLinkResponse{
		ID:  "stub_" + uuid.New().String(),
		URL: g.baseURL + "/pay/stub?" + q.Encode(),
	}, nil
}

// stubEvent mirrors the shape of a provider event
type stubEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			Metadata    map[string]string `json:"metadata"`
			AmountTotal int64             `json:"amount_total"`
			Currency    string            `json:"currency"`
		} `json:"object"`
	} `json:"data"`
}

// ParseWebhookEvent verifies the hex HMAC in X-Signature and decodes the event
func (g *StubGateway) ParseWebhookEvent(payload []byte, signature string) (*WebhookEvent, error) {
	expected, err := hex.DecodeString(signature)
	if err != nil || !hmac.Equal(expected, g.mac(payload)) {
		return nil, domain.ErrSignatureVerification
	}

	var ev stubEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("failed to decode stub event: %w", err)
	}

	return &WebhookEvent{
		ID:           ev.ID,
		Type:         ev.Type,
		ContestantID: ev.Data.Object.Metadata[MetadataContestantID],
		Amount:       ev.Data.Object.AmountTotal,
		Currency:     ev.Data.Object.Currency,
	}, nil
}

// Sign returns the X-Signature value for payload
func (g *StubGateway) Sign(payload []byte) string {
	return hex.EncodeToString(g.mac(payload))
}

// CompletedEvent builds a signed checkout-completed payload for contestantID
func (g *StubGateway) CompletedEvent(eventID, contestantID string) (payload []byte, signature string, err error) {
	var ev stubEvent
	ev.ID = eventID
	ev.Type = EventCheckoutCompleted
	ev.Data.Object.Metadata = map[string]string{MetadataContestantID: contestantID}
	ev.Data.Object.AmountTotal = domain.RegistrationFeeAmount
	ev.Data.Object.Currency = domain.RegistrationFeeCurrency

	payload, err = json.Marshal(ev)
	if err != nil {
		return nil, "", err
	}
	return payload, g.Sign(payload), nil
}

func (g *StubGateway) mac(payload []byte) []byte {
	m := hmac.New(sha256.New, []byte(g.webhookSecret))
	m.Write(payload)
	return m.Sum(nil)
}
