package dto

// PaymentLinkResponse is returned when an admin reissues a payment link
type PaymentLinkResponse struct {
	PaymentURL string `json:"paymentUrl"`
}

// PaymentStatusResponse is polled by the post-payment page
type PaymentStatusResponse struct {
	ID   string `json:"id"`
	Paid bool   `json:"paid"`
}

// WebhookOutcome describes what a webhook delivery did
type WebhookOutcome string

const (
	WebhookOutcomeMarkedPaid  WebhookOutcome = "marked_paid"
	WebhookOutcomeAlreadyPaid WebhookOutcome = "already_paid"
	WebhookOutcomeDuplicate   WebhookOutcome = "duplicate"
	WebhookOutcomeIgnored     WebhookOutcome = "ignored"
	WebhookOutcomeNoTarget    WebhookOutcome = "no_target"
	WebhookOutcomeUnknown     WebhookOutcome = "unknown_contestant"
)

// WebhookResult is the acknowledgement returned to the payment provider
type WebhookResult struct {
	Received bool           `json:"received"`
	Outcome  WebhookOutcome `json:"-"`
}
