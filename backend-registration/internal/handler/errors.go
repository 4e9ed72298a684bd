package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/domain"
	"github.com/prohmpiriya/tournament-registration/pkg/logger"
	"github.com/prohmpiriya/tournament-registration/pkg/response"
)

// handleError maps domain errors to response envelopes.
// Internal causes are logged and never returned to the client.
func handleError(c *gin.Context, err error) {
	if ve, ok := domain.IsValidationError(err); ok {
		response.Abort(c, response.ValidationFailed(ve.Fields))
		return
	}

	switch {
	case errors.Is(err, domain.ErrNoActiveCompetition):
		response.Abort(c, response.NoActiveCompetition())
	case errors.Is(err, domain.ErrCompetitionNotFound):
		response.Abort(c, response.NotFound("Competition not found"))
	case errors.Is(err, domain.ErrContestantNotFound):
		response.Abort(c, response.NotFound("Contestant not found"))
	case errors.Is(err, domain.ErrAlreadyPaid):
		response.Abort(c, response.Error(response.ErrCodeAlreadyPaid, "Contestant has already paid"))
	case errors.Is(err, domain.ErrSignatureVerification):
		response.Abort(c, response.InvalidSignature())
	case domain.IsPaymentGatewayError(err):
		logger.ErrorCtx(c.Request.Context(), "payment gateway failure", zap.Error(err))
		response.Abort(c, response.PaymentGatewayError())
	default:
		logger.ErrorCtx(c.Request.Context(), "request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		response.Abort(c, response.InternalError(""))
	}
}

// bindJSON decodes the request body, replying 400 on malformed JSON
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		response.Abort(c, response.BadRequest("Invalid request body"))
		return false
	}
	return true
}
