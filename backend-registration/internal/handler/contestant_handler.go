package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/domain"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/dto"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/service"
	"github.com/prohmpiriya/tournament-registration/pkg/middleware"
	"github.com/prohmpiriya/tournament-registration/pkg/response"
	"github.com/prohmpiriya/tournament-registration/pkg/telemetry"
)

// ContestantHandler handles registration and contestant HTTP requests
type ContestantHandler struct {
	registrationService service.RegistrationService
	contestantService   service.ContestantService
}

// NewContestantHandler creates a new ContestantHandler
func NewContestantHandler(
	registrationService service.RegistrationService,
	contestantService service.ContestantService,
) *ContestantHandler {
	return &ContestantHandler{
		registrationService: registrationService,
		contestantService:   contestantService,
	}
}

// Register handles POST /contestants
func (h *ContestantHandler) Register(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.contestant.register")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.RegisterContestantRequest
	if !bindJSON(c, &req) {
		span.SetStatus(codes.Error, "invalid request")
		return
	}

	result, err := h.registrationService.Register(ctx, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(
		attribute.String("contestant_id", result.Contestant.ID),
		attribute.String("competition_id", result.Contestant.CompetitionID),
	)
	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusCreated, result)
}

// List handles GET /contestants (admin)
func (h *ContestantHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.contestant.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var query dto.ListContestantsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid query")
		response.Abort(c, response.BadRequest("Invalid query parameters"))
		return
	}

	contestants, err := h.contestantService.List(ctx, query.ToFilter())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}
	if contestants == nil {
		contestants = []*domain.Contestant{}
	}

	span.SetAttributes(attribute.Int("result_count", len(contestants)))
	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, contestants)
}

// PaymentStatus handles GET /contestants/:id/payment-status
func (h *ContestantHandler) PaymentStatus(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.contestant.payment_status")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id := c.Param("id")
	span.SetAttributes(attribute.String("contestant_id", id))

	result, err := h.registrationService.PaymentStatus(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, result)
}

// ReissuePaymentLink handles POST /contestants/:id/payment-link (admin)
func (h *ContestantHandler) ReissuePaymentLink(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.contestant.payment_link")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id := c.Param("id")
	span.SetAttributes(attribute.String("contestant_id", id))

	result, err := h.registrationService.ReissuePaymentLink(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	middleware.SetAuditNewValues(c, map[string]interface{}{"paymentUrl": result.PaymentURL})

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, result)
}
