package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prohmpiriya/tournament-registration/pkg/logger"
	"github.com/prohmpiriya/tournament-registration/pkg/middleware"
	"github.com/prohmpiriya/tournament-registration/pkg/response"
	"github.com/prohmpiriya/tournament-registration/pkg/telemetry"
)

// Router binds handlers to the HTTP surface
type Router struct {
	Health      *HealthHandler
	Competition *CompetitionHandler
	Contestant  *ContestantHandler
	Webhook     *WebhookHandler
	// StubPayment is routed only for the stub provider
	StubPayment *StubPaymentHandler

	// AdminAuth guards the admin routes, typically JWT plus RequireRole
	AdminAuth []gin.HandlerFunc
	// Audit records admin mutations when set
	Audit gin.HandlerFunc
	// RegistrationLimiter throttles public sign-ups when set
	RegistrationLimiter gin.HandlerFunc
}

// NewEngine creates a gin engine with the global middleware chain
func NewEngine(cors middleware.CORSConfig) *gin.Engine {
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.CORSWithConfig(cors),
		middleware.RequestID(),
		telemetry.Middleware(),
		requestLogger(),
	)
	engine.NoRoute(func(c *gin.Context) {
		response.Abort(c, response.NotFound(""))
	})
	return engine
}

// SetupRoutes registers every route on engine
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.GET("/health", r.Health.Health)
	engine.GET("/ready", r.Health.Ready)

	admin := append([]gin.HandlerFunc{}, r.AdminAuth...)
	if r.Audit != nil {
		admin = append(admin, r.Audit)
	}

	competitions := engine.Group("/competitions")
	{
		competitions.GET("", r.Competition.List)
		competitions.GET("/active", r.Competition.GetActive)
		competitions.POST("", chain(admin, r.Competition.Create)...)
		competitions.PATCH("/:id", chain(admin, r.Competition.UpdateFlags)...)
	}

	contestants := engine.Group("/contestants")
	{
		register := []gin.HandlerFunc{}
		if r.RegistrationLimiter != nil {
			register = append(register, r.RegistrationLimiter)
		}
		contestants.POST("", chain(register, r.Contestant.Register)...)
		contestants.GET("", chain(admin, r.Contestant.List)...)
		contestants.GET("/:id/payment-status", r.Contestant.PaymentStatus)
		contestants.POST("/:id/payment-link", chain(admin, r.Contestant.ReissuePaymentLink)...)
	}

	engine.POST("/webhooks/payment", r.Webhook.HandlePayment)

	if r.StubPayment != nil {
		engine.GET("/pay/stub", r.StubPayment.Pay)
	}
}

func chain(middlewares []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	handlers := make([]gin.HandlerFunc, 0, len(middlewares)+1)
	handlers = append(handlers, middlewares...)
	return append(handlers, h)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if status >= http.StatusInternalServerError {
			logger.ErrorCtx(c.Request.Context(), "request completed", fields...)
			return
		}
		logger.InfoCtx(c.Request.Context(), "request completed", fields...)
	}
}
