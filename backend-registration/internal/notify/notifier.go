package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"sync"

	"github.com/resend/resend-go/v2"

	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/domain"
)

// Notifier sends contestant notifications
type Notifier interface {
	SendPaymentConfirmation(ctx context.Context, contestant *domain.Contestant) error
}

const confirmationSubject = "Betaling ontvangen / Payment received"

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<p>Beste {{.FirstName}},</p>
<p>We hebben je inschrijving voor <strong>{{.Competition}}</strong> en de betaling ontvangen.</p>
<p>Onderdelen: {{.Disciplines}}</p>
<hr>
<p>Dear {{.FirstName}},</p>
<p>We received your registration for <strong>{{.Competition}}</strong> and your payment.</p>
<p>Events: {{.Disciplines}}</p>
`))

type confirmationData struct {
	FirstName   string
	Competition string
	Disciplines string
}

// RenderPaymentConfirmation builds the confirmation email body
func RenderPaymentConfirmation(contestant *domain.Contestant) (string, error) {
	data := confirmationData{
		FirstName:   contestant.FirstName,
		Disciplines: disciplines(contestant),
	}
	if contestant.Competition != nil {
		data.Competition = contestant.Competition.Name
	}

	var buf bytes.Buffer
	if err := confirmationTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func disciplines(c *domain.Contestant) string {
	switch {
	case c.Kata && c.Kumite:
		return "kata, kumite"
	case c.Kata:
		return "kata"
	case c.Kumite:
		return "kumite"
	}
	return "-"
}

// ResendNotifier sends emails through the Resend API
type ResendNotifier struct {
	client *resend.Client
	from   string
}

// NewResendNotifier creates a notifier with the given API key and sender address
func NewResendNotifier(apiKey, from string) *ResendNotifier {
	return &ResendNotifier{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// WithBaseURL points the client at another API endpoint
func (n *ResendNotifier) WithBaseURL(raw string) (*ResendNotifier, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	n.client.BaseURL = u
	return n, nil
}

// SendPaymentConfirmation emails the contestant that the payment was received
func (n *ResendNotifier) SendPaymentConfirmation(ctx context.Context, contestant *domain.Contestant) error {
	body, err := RenderPaymentConfirmation(contestant)
	if err != nil {
		return fmt.Errorf("failed to render confirmation: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{contestant.Email},
		Subject: confirmationSubject,
		Html:    body,
	}
	if _, err := n.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}
	return nil
}

// NoOpNotifier discards notifications; used when email is disabled
type NoOpNotifier struct{}

// SendPaymentConfirmation does nothing
func (NoOpNotifier) SendPaymentConfirmation(context.Context, *domain.Contestant) error { return nil }

// MemoryNotifier records recipients
type MemoryNotifier struct {
	mu   sync.Mutex
	sent []string
}

// SendPaymentConfirmation records the contestant email
func (n *MemoryNotifier) SendPaymentConfirmation(_ context.Context, contestant *domain.Contestant) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, contestant.Email)
	return nil
}

// Sent returns recorded recipients in order
func (n *MemoryNotifier) Sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent...)
}
