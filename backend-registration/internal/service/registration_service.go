package service

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/domain"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/dto"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/event"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/gateway"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/repository"
	"github.com/prohmpiriya/tournament-registration/pkg/logger"
	"github.com/prohmpiriya/tournament-registration/pkg/telemetry"
)

// RegistrationService defines the interface for contestant sign-up and payment links
type RegistrationService interface {
	// Register validates the form, stores the contestant under the active
	// competition and returns a payment link
	Register(ctx context.Context, req *dto.RegisterContestantRequest) (*dto.RegistrationResponse, error)
	// ReissuePaymentLink issues a new link for an unpaid contestant
	ReissuePaymentLink(ctx context.Context, contestantID string) (*dto.PaymentLinkResponse, error)
	// PaymentStatus reports whether a contestant has paid
	PaymentStatus(ctx context.Context, contestantID string) (*dto.PaymentStatusResponse, error)
}

// RegistrationServiceConfig holds registration settings
type RegistrationServiceConfig struct {
	// PublicBaseURL is the origin the payment provider redirects back to
	PublicBaseURL string
}

// registrationService implements RegistrationService
type registrationService struct {
	competitionRepo repository.CompetitionRepository
	contestantRepo  repository.ContestantRepository
	gateway         gateway.PaymentGateway
	publisher       event.Publisher
	config          *RegistrationServiceConfig
	metrics         *serviceMetrics
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(
	competitionRepo repository.CompetitionRepository,
	contestantRepo repository.ContestantRepository,
	paymentGateway gateway.PaymentGateway,
	publisher event.Publisher,
	config *RegistrationServiceConfig,
) RegistrationService {
	if publisher == nil {
		publisher = event.NoOpPublisher{}
	}
	if config == nil {
		config = &RegistrationServiceConfig{}
	}
	return &registrationService{
		competitionRepo: competitionRepo,
		contestantRepo:  contestantRepo,
		gateway:         paymentGateway,
		publisher:       publisher,
		config:          config,
		metrics:         newServiceMetrics(),
	}
}

// Register validates the form, stores the contestant and returns a payment link.
// A payment link failure keeps the stored contestant; an admin can reissue the link.
func (s *registrationService) Register(ctx context.Context, req *dto.RegisterContestantRequest) (*dto.RegistrationResponse, error) {
	in := req.ToInput()
	if err := domain.ValidateRegistration(in); err != nil {
		s.countRegistration(ctx, outcomeRejected, in.BeltColor)
		return nil, err
	}

	competition, err := s.competitionRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active competition: %w", err)
	}
	if competition == nil {
		s.countRegistration(ctx, outcomeRejected, in.BeltColor)
		return nil, domain.ErrNoActiveCompetition
	}

	contestant, err := domain.NewContestant(in, competition)
	if err != nil {
		return nil, err
	}

	if err := s.contestantRepo.Create(ctx, contestant); err != nil {
		return nil, fmt.Errorf("failed to create contestant: %w", err)
	}

	s.publish(ctx, &dto.ContestantRegisteredEvent{
		EventType:       dto.EventTypeContestantRegistered,
		ContestantID:    contestant.ID,
		CompetitionID:   competition.ID,
		CompetitionName: competition.Name,
		FullName:        contestant.FullName(),
		Email:           contestant.Email,
		BeltColor:       string(contestant.BeltColor),
		Age:             contestant.Age,
		Kata:            contestant.Kata,
		Kumite:          contestant.Kumite,
		Timestamp:       contestant.CreatedAt,
	})

	link, err := s.createPaymentLink(ctx, contestant, competition)
	if err != nil {
		s.countRegistration(ctx, outcomeFailed, in.BeltColor)
		logger.ErrorCtx(ctx, "payment link failed, contestant kept without link",
			zap.String("contestant_id", contestant.ID),
			zap.String("gateway", s.gateway.Name()),
			zap.Error(err),
		)
		return nil, err
	}

	s.countRegistration(ctx, outcomeSuccess, in.BeltColor)
	logger.InfoCtx(ctx, "contestant registered",
		zap.String("contestant_id", contestant.ID),
		zap.String("competition_id", competition.ID),
	)

	return &dto.RegistrationResponse{
		Contestant: contestant,
		PaymentURL: link.URL,
	}, nil
}

// ReissuePaymentLink issues a new link for an unpaid contestant
func (s *registrationService) ReissuePaymentLink(ctx context.Context, contestantID string) (*dto.PaymentLinkResponse, error) {
	contestant, err := s.contestantRepo.GetByID(ctx, contestantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contestant: %w", err)
	}
	if contestant == nil {
		return nil, domain.ErrContestantNotFound
	}
	if contestant.Paid {
		return nil, domain.ErrAlreadyPaid
	}

	competition := contestant.Competition
	if competition == nil {
		competition, err = s.competitionRepo.GetByID(ctx, contestant.CompetitionID)
		if err != nil {
			return nil, fmt.Errorf("failed to get competition: %w", err)
		}
		if competition == nil {
			return nil, domain.ErrCompetitionNotFound
		}
	}

	link, err := s.createPaymentLink(ctx, contestant, competition)
	if err != nil {
		logger.ErrorCtx(ctx, "payment link reissue failed",
			zap.String("contestant_id", contestant.ID),
			zap.Error(err),
		)
		return nil, err
	}

	return &dto.PaymentLinkResponse{PaymentURL: link.URL}, nil
}

// PaymentStatus reports whether a contestant has paid
func (s *registrationService) PaymentStatus(ctx context.Context, contestantID string) (*dto.PaymentStatusResponse, error) {
	contestant, err := s.contestantRepo.GetByID(ctx, contestantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contestant: %w", err)
	}
	if contestant == nil {
		return nil, domain.ErrContestantNotFound
	}
	return &dto.PaymentStatusResponse{ID: contestant.ID, Paid: contestant.Paid}, nil
}

// createPaymentLink requests the fixed registration fee for contestant
func (s *registrationService) createPaymentLink(ctx context.Context, contestant *domain.Contestant, competition *domain.Competition) (*gateway.PaymentLinkResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.create_payment_link")
	defer span.End()

	link, err := s.gateway.CreatePaymentLink(ctx, &gateway.PaymentLinkRequest{
		ContestantID:  contestant.ID,
		ProductName:   "Tournament Registration - " + contestant.FullName(),
		Description:   "Registration for " + competition.Name,
		Amount:        domain.RegistrationFeeAmount,
		Currency:      domain.RegistrationFeeCurrency,
		CustomerEmail: contestant.Email,
		SuccessURL:    s.successURL(contestant.ID),
	})
	if err != nil {
		span.RecordError(err)
		if !domain.IsPaymentGatewayError(err) {
			err = &domain.PaymentGatewayError{Op: "create payment link", Err: err}
		}
		return nil, err
	}
	return link, nil
}

func (s *registrationService) successURL(contestantID string) string {
	return s.config.PublicBaseURL + "/payment-success?contestant=" + url.QueryEscape(contestantID)
}

func (s *registrationService) publish(ctx context.Context, ev event.Event) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		logger.WarnCtx(ctx, "failed to publish event",
			zap.String("topic", ev.Topic()),
			zap.String("key", ev.Key()),
			zap.Error(err),
		)
	}
}

func (s *registrationService) countRegistration(ctx context.Context, outcome, belt string) {
	if s.metrics.registrations == nil {
		return
	}
	s.metrics.registrations.Inc(ctx,
		telemetry.OutcomeAttr(outcome),
		telemetry.BeltColorAttr(belt),
	)
}
