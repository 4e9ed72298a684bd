package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/domain"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/dto"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/event"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/gateway"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/idempotency"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/notify"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/repository"
	"github.com/prohmpiriya/tournament-registration/pkg/logger"
	"github.com/prohmpiriya/tournament-registration/pkg/telemetry"
)

// WebhookService defines the interface for payment provider callbacks
type WebhookService interface {
	// HandleEvent verifies and applies one webhook delivery. Every verified
	// delivery is acknowledged unless the store failed.
	HandleEvent(ctx context.Context, payload []byte, signature string) (*dto.WebhookResult, error)
	// SignatureHeader is the header the provider signs with
	SignatureHeader() string
}

// webhookService implements WebhookService
type webhookService struct {
	gateway        gateway.PaymentGateway
	contestantRepo repository.ContestantRepository
	deduper        idempotency.EventDeduper
	publisher      event.Publisher
	notifier       notify.Notifier
	metrics        *serviceMetrics
	now            func() time.Time
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(
	paymentGateway gateway.PaymentGateway,
	contestantRepo repository.ContestantRepository,
	deduper idempotency.EventDeduper,
	publisher event.Publisher,
	notifier notify.Notifier,
) WebhookService {
	if deduper == nil {
		deduper = idempotency.NewMemoryDeduper(0)
	}
	if publisher == nil {
		publisher = event.NoOpPublisher{}
	}
	if notifier == nil {
		notifier = notify.NoOpNotifier{}
	}
	return &webhookService{
		gateway:        paymentGateway,
		contestantRepo: contestantRepo,
		deduper:        deduper,
		publisher:      publisher,
		notifier:       notifier,
		metrics:        newServiceMetrics(),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// SignatureHeader returns the gateway signature header
func (s *webhookService) SignatureHeader() string {
	return s.gateway.SignatureHeader()
}

// HandleEvent runs the payment confirmation state machine for one delivery
func (s *webhookService) HandleEvent(ctx context.Context, payload []byte, signature string) (*dto.WebhookResult, error) {
	defer s.observeDuration(ctx, time.Now())

	ev, err := s.gateway.ParseWebhookEvent(payload, signature)
	if err != nil {
		if errors.Is(err, domain.ErrSignatureVerification) {
			s.countEvent(ctx, "", outcomeRejected)
			logger.WarnCtx(ctx, "webhook signature verification failed", zap.Error(err))
			return nil, domain.ErrSignatureVerification
		}
		// verified but undecodable: redelivery would fail the same way
		logger.WarnCtx(ctx, "webhook payload could not be decoded", zap.Error(err))
		return s.ack(ctx, "", dto.WebhookOutcomeIgnored), nil
	}

	log := logger.Get().WithFields(
		zap.String("event_id", ev.ID),
		zap.String("event_type", ev.Type),
	)

	if ev.ID != "" {
		seen, err := s.deduper.Seen(ctx, ev.ID)
		if err != nil {
			log.WarnContext(ctx, "event dedup lookup failed, processing anyway", zap.Error(err))
		} else if seen {
			return s.ack(ctx, ev.Type, dto.WebhookOutcomeDuplicate), nil
		}
	}

	if !ev.IsCheckoutCompleted() {
		s.mark(ctx, ev.ID)
		return s.ack(ctx, ev.Type, dto.WebhookOutcomeIgnored), nil
	}

	if ev.ContestantID == "" {
		log.WarnContext(ctx, "checkout completed without contestant id")
		s.mark(ctx, ev.ID)
		return s.ack(ctx, ev.Type, dto.WebhookOutcomeNoTarget), nil
	}

	paidAt := s.now()
	changed, err := s.contestantRepo.MarkPaid(ctx, ev.ContestantID, paidAt)
	if err != nil {
		if errors.Is(err, domain.ErrContestantNotFound) {
			log.WarnContext(ctx, "checkout completed for unknown contestant",
				zap.String("contestant_id", ev.ContestantID),
			)
			s.mark(ctx, ev.ID)
			return s.ack(ctx, ev.Type, dto.WebhookOutcomeUnknown), nil
		}
		s.countEvent(ctx, ev.Type, outcomeFailed)
		return nil, err
	}

	outcome := dto.WebhookOutcomeAlreadyPaid
	if changed {
		outcome = dto.WebhookOutcomeMarkedPaid
		log.InfoContext(ctx, "contestant marked paid", zap.String("contestant_id", ev.ContestantID))
		s.afterPayment(ctx, ev, paidAt)
	}

	s.mark(ctx, ev.ID)
	return s.ack(ctx, ev.Type, outcome), nil
}

// afterPayment runs the side effects of the first unpaid to paid transition.
// Failures are logged and never fail the delivery.
func (s *webhookService) afterPayment(ctx context.Context, ev *gateway.WebhookEvent, paidAt time.Time) {
	if s.metrics.paymentsConfirmed != nil {
		s.metrics.paymentsConfirmed.Inc(ctx, telemetry.PaymentGatewayAttr(s.gateway.Name()))
	}

	contestant, err := s.contestantRepo.GetByID(ctx, ev.ContestantID)
	if err != nil || contestant == nil {
		logger.WarnCtx(ctx, "paid contestant could not be loaded",
			zap.String("contestant_id", ev.ContestantID),
			zap.Error(err),
		)
		return
	}

	amount, currency := ev.Amount, ev.Currency
	if amount == 0 {
		amount, currency = domain.RegistrationFeeAmount, domain.RegistrationFeeCurrency
	}

	paid := &dto.ContestantPaidEvent{
		EventType:      dto.EventTypeContestantPaid,
		ContestantID:   contestant.ID,
		CompetitionID:  contestant.CompetitionID,
		GatewayEventID: ev.ID,
		Gateway:        s.gateway.Name(),
		Amount:         amount,
		Currency:       currency,
		PaidAt:         paidAt,
		Timestamp:      s.now(),
	}
	if err := s.publisher.Publish(ctx, paid); err != nil {
		logger.WarnCtx(ctx, "failed to publish event",
			zap.String("topic", paid.Topic()),
			zap.String("key", paid.Key()),
			zap.Error(err),
		)
	}

	if err := s.notifier.SendPaymentConfirmation(ctx, contestant); err != nil {
		logger.WarnCtx(ctx, "failed to send payment confirmation",
			zap.String("contestant_id", contestant.ID),
			zap.Error(err),
		)
	}
}

func (s *webhookService) mark(ctx context.Context, eventID string) {
	if eventID == "" {
		return
	}
	if err := s.deduper.Mark(ctx, eventID); err != nil {
		logger.WarnCtx(ctx, "failed to record processed event", zap.String("event_id", eventID), zap.Error(err))
	}
}

func (s *webhookService) ack(ctx context.Context, eventType string, outcome dto.WebhookOutcome) *dto.WebhookResult {
	s.countEvent(ctx, eventType, string(outcome))
	return &dto.WebhookResult{Received: true, Outcome: outcome}
}

func (s *webhookService) countEvent(ctx context.Context, eventType, outcome string) {
	if s.metrics.webhookEvents == nil {
		return
	}
	s.metrics.webhookEvents.Inc(ctx,
		telemetry.EventTypeAttr(eventType),
		telemetry.OutcomeAttr(outcome),
	)
}

func (s *webhookService) observeDuration(ctx context.Context, start time.Time) {
	if s.metrics.webhookDuration == nil {
		return
	}
	s.metrics.webhookDuration.Record(ctx, time.Since(start).Seconds(),
		telemetry.PaymentGatewayAttr(s.gateway.Name()),
	)
}
