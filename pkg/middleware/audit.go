package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prohmpiriya/tournament-registration/pkg/logger"
	"go.uber.org/zap"
)

// AuditAction represents the type of action being audited
type AuditAction string

const (
	AuditActionCreate  AuditAction = "create"
	AuditActionUpdate  AuditAction = "update"
	AuditActionReissue AuditAction = "reissue"
)

const contextKeyAuditNewValues = "audit_new_values"

// AuditEntry is a single admin mutation
type AuditEntry struct {
	ID           string                 `json:"id"`
	UserID       string                 `json:"user_id,omitempty"`
	UserRole     string                 `json:"user_role,omitempty"`
	Action       AuditAction            `json:"action"`
	ResourceType string                 `json:"resource_type"`
	ResourceID   string                 `json:"resource_id,omitempty"`
	Status       int                    `json:"status"`
	IPAddress    string                 `json:"ip_address,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	NewValues    map[string]interface{} `json:"new_values,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

// AuditSink persists flushed batches
type AuditSink interface {
	Write(ctx context.Context, entries []*AuditEntry) error
}

// AuditConfig holds configuration for the audit middleware
type AuditConfig struct {
	Sink          AuditSink
	BufferSize    int
	FlushInterval time.Duration
	BatchSize     int
}

// DefaultAuditConfig returns defaults writing to the given sink
func DefaultAuditConfig(sink AuditSink) *AuditConfig {
	return &AuditConfig{
		Sink:          sink,
		BufferSize:    1000,
		FlushInterval: 5 * time.Second,
		BatchSize:     100,
	}
}

// AuditLogger buffers entries and flushes them from a background worker
type AuditLogger struct {
	config    *AuditConfig
	buffer    chan *AuditEntry
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewAuditLogger creates a new audit logger and starts its worker
func NewAuditLogger(config *AuditConfig) *AuditLogger {
	if config.BufferSize <= 0 {
		config.BufferSize = 1000
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = 5 * time.Second
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}

	al := &AuditLogger{
		config: config,
		buffer: make(chan *AuditEntry, config.BufferSize),
	}

	al.wg.Add(1)
	go al.worker()

	return al
}

// Log enqueues an entry, dropping it when the buffer is full
func (al *AuditLogger) Log(entry *AuditEntry) {
	select {
	case al.buffer <- entry:
	default:
		logger.Warn("audit buffer full, dropping entry",
			zap.String("action", string(entry.Action)),
			zap.String("resource_type", entry.ResourceType),
		)
	}
}

// Close flushes pending entries and stops the worker
func (al *AuditLogger) Close() error {
	al.closeOnce.Do(func() {
		close(al.buffer)
		al.wg.Wait()
	})
	return nil
}

func (al *AuditLogger) worker() {
	defer al.wg.Done()

	ticker := time.NewTicker(al.config.FlushInterval)
	defer ticker.Stop()

	batch := make([]*AuditEntry, 0, al.config.BatchSize)

	for {
		select {
		case entry, ok := <-al.buffer:
			if !ok {
				al.flush(batch)
				return
			}
			batch = append(batch, entry)
			if len(batch) >= al.config.BatchSize {
				al.flush(batch)
				batch = make([]*AuditEntry, 0, al.config.BatchSize)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				al.flush(batch)
				batch = make([]*AuditEntry, 0, al.config.BatchSize)
			}
		}
	}
}

func (al *AuditLogger) flush(entries []*AuditEntry) {
	if len(entries) == 0 || al.config.Sink == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// audit failures never block the request path
	if err := al.config.Sink.Write(ctx, entries); err != nil {
		logger.Error("failed to write audit entries", zap.Int("count", len(entries)), zap.Error(err))
	}
}

// PostgresAuditSink writes entries into audit_logs
type PostgresAuditSink struct {
	pool *pgxpool.Pool
}

// NewPostgresAuditSink creates a sink backed by pool
func NewPostgresAuditSink(pool *pgxpool.Pool) *PostgresAuditSink {
	return &PostgresAuditSink{pool: pool}
}

// Write inserts the batch in one round trip
func (s *PostgresAuditSink) Write(ctx context.Context, entries []*AuditEntry) error {
	query := `
		INSERT INTO audit_logs (
			id, user_id, user_role, action, resource_type, resource_id,
			status, ip_address, request_id, new_values, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	batch := &pgx.Batch{}
	for _, e := range entries {
		var newValues []byte
		if e.NewValues != nil {
			newValues, _ = json.Marshal(e.NewValues)
		}
		batch.Queue(query,
			e.ID, e.UserID, e.UserRole, string(e.Action), e.ResourceType, e.ResourceID,
			e.Status, e.IPAddress, e.RequestID, newValues, e.CreatedAt,
		)
	}

	return s.pool.SendBatch(ctx, batch).Close()
}

// AuditMiddleware records every mutating request that passes through it
func AuditMiddleware(al *AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		startTime := time.Now()
		c.Next()

		resourceType, resourceID := resourceFromPath(c.Request.URL.Path)
		if id := c.Param("id"); id != "" {
			resourceID = id
		}

		entry := &AuditEntry{
			ID:           uuid.New().String(),
			Action:       actionFor(c.Request.Method, c.Request.URL.Path),
			ResourceType: resourceType,
			ResourceID:   resourceID,
			Status:       c.Writer.Status(),
			IPAddress:    c.ClientIP(),
			RequestID:    GetRequestID(c),
			CreatedAt:    startTime,
		}
		entry.UserID, _ = GetUserID(c)
		entry.UserRole, _ = GetRole(c)
		if v, ok := c.Get(contextKeyAuditNewValues); ok {
			entry.NewValues, _ = v.(map[string]interface{})
		}

		al.Log(entry)
	}
}

// SetAuditNewValues attaches the resulting state of a mutation to the audit entry
func SetAuditNewValues(c *gin.Context, values map[string]interface{}) {
	c.Set(contextKeyAuditNewValues, values)
}

func actionFor(method, path string) AuditAction {
	if strings.HasSuffix(path, "/payment-link") {
		return AuditActionReissue
	}
	if method == http.MethodPost {
		return AuditActionCreate
	}
	return AuditActionUpdate
}

// resourceFromPath maps /competitions/123 to ("competition", "123")
func resourceFromPath(path string) (string, string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "unknown", ""
	}

	resourceType := strings.TrimSuffix(parts[0], "s")
	if len(parts) > 1 {
		if _, err := uuid.Parse(parts[1]); err == nil {
			return resourceType, parts[1]
		}
	}
	return resourceType, ""
}
