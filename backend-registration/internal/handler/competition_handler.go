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
	"github.com/prohmpiriya/tournament-registration/pkg/telemetry"
)

// CompetitionHandler handles competition HTTP requests
type CompetitionHandler struct {
	competitionService service.CompetitionService
}

// NewCompetitionHandler creates a new CompetitionHandler
func NewCompetitionHandler(competitionService service.CompetitionService) *CompetitionHandler {
	return &CompetitionHandler{
		competitionService: competitionService,
	}
}

// Create handles POST /competitions (admin)
func (h *CompetitionHandler) Create(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.competition.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.CreateCompetitionRequest
	if !bindJSON(c, &req) {
		span.SetStatus(codes.Error, "invalid request")
		return
	}

	competition, err := h.competitionService.Create(ctx, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.String("competition_id", competition.ID))
	middleware.SetAuditNewValues(c, competitionAuditValues(competition))

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusCreated, competition)
}

// List handles GET /competitions
func (h *CompetitionHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.competition.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	competitions, err := h.competitionService.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}
	if competitions == nil {
		competitions = []*domain.Competition{}
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, competitions)
}

// GetActive handles GET /competitions/active
func (h *CompetitionHandler) GetActive(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.competition.active")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	competition, err := h.competitionService.GetActive(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, competition)
}

// UpdateFlags handles PATCH /competitions/:id (admin)
func (h *CompetitionHandler) UpdateFlags(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.competition.update")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id := c.Param("id")
	span.SetAttributes(attribute.String("competition_id", id))

	var req dto.UpdateCompetitionRequest
	if !bindJSON(c, &req) {
		span.SetStatus(codes.Error, "invalid request")
		return
	}

	competition, err := h.competitionService.UpdateFlags(ctx, id, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	middleware.SetAuditNewValues(c, competitionAuditValues(competition))

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, competition)
}

func competitionAuditValues(competition *domain.Competition) map[string]interface{} {
	return map[string]interface{}{
		"name":     competition.Name,
		"isActive": competition.IsActive,
		"isOpen":   competition.IsOpen,
	}
}
