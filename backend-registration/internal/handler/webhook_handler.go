package handler

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/gateway"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/service"
	"github.com/prohmpiriya/tournament-registration/pkg/logger"
	"github.com/prohmpiriya/tournament-registration/pkg/response"
	"github.com/prohmpiriya/tournament-registration/pkg/telemetry"
)

// maxWebhookBody bounds the raw payload read for signature verification.
// Checkout events with expanded line items stay well below it.
const maxWebhookBody = 1 << 20

// WebhookHandler receives payment provider callbacks
type WebhookHandler struct {
	webhookService service.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhookService service.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// HandlePayment handles POST /webhooks/payment.
// The body must stay byte-exact for signature verification.
func (h *WebhookHandler) HandlePayment(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.webhook.payment")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		span.RecordError(err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			span.SetStatus(codes.Error, "body too large")
			logger.WarnCtx(ctx, "webhook body exceeds limit, delivery rejected",
				zap.Int64("limit_bytes", tooLarge.Limit),
				zap.Int64("content_length", c.Request.ContentLength),
			)
			response.Abort(c, response.PayloadTooLarge("Webhook body too large"))
			return
		}
		span.SetStatus(codes.Error, "unreadable body")
		logger.WarnCtx(ctx, "webhook body could not be read", zap.Error(err))
		response.Abort(c, response.BadRequest("Invalid request body"))
		return
	}

	signature := c.GetHeader(h.webhookService.SignatureHeader())
	result, err := h.webhookService.HandleEvent(ctx, payload, signature)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.String("webhook.outcome", string(result.Outcome)))
	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, result)
}

// StubPaymentHandler completes payments for the local stub provider.
// It is only routed when the stub gateway is configured.
type StubPaymentHandler struct {
	stub           *gateway.StubGateway
	webhookService service.WebhookService
	publicBaseURL  string
}

// NewStubPaymentHandler creates a new StubPaymentHandler
func NewStubPaymentHandler(stub *gateway.StubGateway, webhookService service.WebhookService, publicBaseURL string) *StubPaymentHandler {
	return &StubPaymentHandler{
		stub:           stub,
		webhookService: webhookService,
		publicBaseURL:  publicBaseURL,
	}
}

// Pay handles GET /pay/stub?contestant=id by delivering a signed
// checkout-completed event and redirecting to the success page
func (h *StubPaymentHandler) Pay(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.stub.pay")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	contestantID := c.Query("contestant")
	if contestantID == "" {
		span.SetStatus(codes.Error, "contestant required")
		response.Abort(c, response.BadRequest("contestant is required"))
		return
	}
	span.SetAttributes(attribute.String("contestant_id", contestantID))

	payload, signature, err := h.stub.CompletedEvent("evt_stub_"+uuid.New().String(), contestantID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	if _, err := h.webhookService.HandleEvent(ctx, payload, signature); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.Redirect(http.StatusSeeOther, h.publicBaseURL+"/payment-success?contestant="+url.QueryEscape(contestantID))
}
