package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/domain"
)

func newTestStub() *StubGateway {
	return NewStubGateway(&GatewayConfig{
		Provider:      ProviderStub,
		WebhookSecret: "change-me",
		PublicBaseURL: "http://localhost:8080",
	})
}

func TestStubGateway_CreatePaymentLink(t *testing.T) {
	gw := newTestStub()

	resp, err := gw.CreatePaymentLink(context.Background(), &PaymentLinkRequest{ContestantID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/pay/stub?contestant=abc", resp.URL)
	assert.NotEmpty(t, resp.ID)

	_, err = gw.CreatePaymentLink(context.Background(), &PaymentLinkRequest{})
	assert.True(t, domain.IsPaymentGatewayError(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = gw.CreatePaymentLink(ctx, &PaymentLinkRequest{ContestantID: "abc"})
	assert.True(t, domain.IsPaymentGatewayError(err))
}

func TestStubGateway_ParseWebhookEvent(t *testing.T) {
	gw := newTestStub()

	payload, sig, err := gw.CompletedEvent("evt_1", "abc")
	require.NoError(t, err)

	ev, err := gw.ParseWebhookEvent(payload, sig)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", ev.ID)
	assert.Equal(t, EventCheckoutCompleted, ev.Type)
	assert.Equal(t, "abc", ev.ContestantID)
	assert.Equal(t, domain.RegistrationFeeAmount, ev.Amount)

	tests := []struct {
		name    string
		payload []byte
		sig     string
	}{
		{"empty signature", payload, ""},
		{"non hex signature", payload, "zz"},
		{"tampered payload", append([]byte{' '}, payload...), sig},
		{"other secret", payload, NewStubGateway(&GatewayConfig{WebhookSecret: "other"}).Sign(payload)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gw.ParseWebhookEvent(tt.payload, tt.sig)
			assert.ErrorIs(t, err, domain.ErrSignatureVerification)
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      GatewayConfig
		wantName string
		wantErr  bool
	}{
		{"stub", GatewayConfig{Provider: "stub"}, ProviderStub, false},
		{"default is stub", GatewayConfig{}, ProviderStub, false},
		{"stripe", GatewayConfig{Provider: "Stripe", SecretKey: "sk", WebhookSecret: "wh"}, ProviderStripe, false},
		{"stripe without keys", GatewayConfig{Provider: "stripe"}, "", true},
		{"unknown", GatewayConfig{Provider: "paypal"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, err := New(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, gw.Name())
		})
	}
}
