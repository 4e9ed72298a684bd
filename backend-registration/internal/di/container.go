package di

import (
	"github.com/gin-gonic/gin"

	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/event"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/gateway"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/handler"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/idempotency"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/notify"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/repository"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/service"
	"github.com/prohmpiriya/tournament-registration/pkg/database"
	"github.com/prohmpiriya/tournament-registration/pkg/kafka"
	"github.com/prohmpiriya/tournament-registration/pkg/middleware"
	"github.com/prohmpiriya/tournament-registration/pkg/redis"
)

// Container holds all dependencies for the registration service
type Container struct {
	// Infrastructure
	DB       *database.PostgresDB
	Redis    *redis.Client
	Producer *kafka.Producer

	// Repositories
	CompetitionRepo repository.CompetitionRepository
	ContestantRepo  repository.ContestantRepository

	// Adapters
	Gateway     gateway.PaymentGateway
	Publisher   event.Publisher
	Notifier    notify.Notifier
	Deduper     idempotency.EventDeduper
	AuditLogger *middleware.AuditLogger
	RateLimiter middleware.Limiter

	// Services
	CompetitionService  service.CompetitionService
	RegistrationService service.RegistrationService
	ContestantService   service.ContestantService
	WebhookService      service.WebhookService

	// Handlers
	HealthHandler      *handler.HealthHandler
	CompetitionHandler *handler.CompetitionHandler
	ContestantHandler  *handler.ContestantHandler
	WebhookHandler     *handler.WebhookHandler
	StubPaymentHandler *handler.StubPaymentHandler

	Router *handler.Router
}

// ContainerConfig contains configuration for building the container.
// A nil DB selects the in-memory repositories; nil Redis and Producer
// fall back to in-process deduplication and rate limiting and no event publishing.
type ContainerConfig struct {
	DB       *database.PostgresDB
	Redis    *redis.Client
	Producer *kafka.Producer
	Gateway  gateway.PaymentGateway
	Notifier notify.Notifier

	JWT           *middleware.JWTConfig
	RateLimit     middleware.RateLimitConfig
	PublicBaseURL string
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:       cfg.DB,
		Redis:    cfg.Redis,
		Producer: cfg.Producer,
		Gateway:  cfg.Gateway,
		Notifier: cfg.Notifier,
	}

	// Initialize repositories
	if c.DB != nil {
		c.CompetitionRepo = repository.NewPostgresCompetitionRepository(c.DB.Pool())
		c.ContestantRepo = repository.NewPostgresContestantRepository(c.DB.Pool())
		c.AuditLogger = middleware.NewAuditLogger(middleware.DefaultAuditConfig(middleware.NewPostgresAuditSink(c.DB.Pool())))
	} else {
		competitions := repository.NewMemoryCompetitionRepository()
		c.CompetitionRepo = competitions
		c.ContestantRepo = repository.NewMemoryContestantRepository(competitions)
	}

	// Initialize adapters
	if c.Producer != nil {
		c.Publisher = event.NewKafkaPublisher(c.Producer)
	} else {
		c.Publisher = event.NoOpPublisher{}
	}
	if c.Notifier == nil {
		c.Notifier = notify.NoOpNotifier{}
	}

	rateLimit := cfg.RateLimit
	if c.Redis != nil {
		c.Deduper = idempotency.NewRedisDeduper(c.Redis, "", 0)
		rateLimit.RedisClient = c.Redis
		c.RateLimiter = middleware.NewRedisRateLimiter(rateLimit)
	} else {
		c.Deduper = idempotency.NewMemoryDeduper(0)
		c.RateLimiter = middleware.NewLocalRateLimiter(rateLimit)
	}

	// Initialize services
	c.CompetitionService = service.NewCompetitionService(c.CompetitionRepo)
	c.RegistrationService = service.NewRegistrationService(
		c.CompetitionRepo,
		c.ContestantRepo,
		c.Gateway,
		c.Publisher,
		&service.RegistrationServiceConfig{PublicBaseURL: cfg.PublicBaseURL},
	)
	c.ContestantService = service.NewContestantService(c.ContestantRepo)
	c.WebhookService = service.NewWebhookService(
		c.Gateway,
		c.ContestantRepo,
		c.Deduper,
		c.Publisher,
		c.Notifier,
	)

	// Initialize handlers
	c.HealthHandler = handler.NewHealthHandler(c.DB)
	if c.Redis != nil {
		c.HealthHandler.WithCheck("redis", c.Redis)
	}
	c.CompetitionHandler = handler.NewCompetitionHandler(c.CompetitionService)
	c.ContestantHandler = handler.NewContestantHandler(c.RegistrationService, c.ContestantService)
	c.WebhookHandler = handler.NewWebhookHandler(c.WebhookService)
	if stub, ok := c.Gateway.(*gateway.StubGateway); ok {
		c.StubPaymentHandler = handler.NewStubPaymentHandler(stub, c.WebhookService, cfg.PublicBaseURL)
	}

	c.Router = &handler.Router{
		Health:      c.HealthHandler,
		Competition: c.CompetitionHandler,
		Contestant:  c.ContestantHandler,
		Webhook:     c.WebhookHandler,
		StubPayment: c.StubPaymentHandler,
		AdminAuth: []gin.HandlerFunc{
			middleware.JWTMiddleware(cfg.JWT),
			middleware.RequireRole(middleware.RoleAdmin),
		},
		RegistrationLimiter: middleware.RateLimiterWith(c.RateLimiter, rateLimit.RequestsPerSecond),
	}
	if c.AuditLogger != nil {
		c.Router.Audit = middleware.AuditMiddleware(c.AuditLogger)
	}

	return c
}

// Close flushes buffered audit entries, stops background workers and
// closes the publisher. DB and Redis are closed by the caller.
func (c *Container) Close() {
	if c.AuditLogger != nil {
		_ = c.AuditLogger.Close()
	}
	if l, ok := c.RateLimiter.(*middleware.LocalRateLimiter); ok {
		l.Stop()
	}
	c.Publisher.Close()
}
