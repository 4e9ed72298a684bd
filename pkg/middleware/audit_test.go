package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	mu      sync.Mutex
	entries []*AuditEntry
}

func (s *memorySink) Write(_ context.Context, entries []*AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
	return nil
}

func (s *memorySink) all() []*AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*AuditEntry(nil), s.entries...)
}

func TestActionFor(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		expected AuditAction
	}{
		{"POST creates", http.MethodPost, "/competitions", AuditActionCreate},
		{"PATCH updates", http.MethodPatch, "/competitions/123", AuditActionUpdate},
		{"payment link reissue", http.MethodPost, "/contestants/123/payment-link", AuditActionReissue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, actionFor(tt.method, tt.path))
		})
	}
}

func TestResourceFromPath(t *testing.T) {
	id := "123e4567-e89b-12d3-a456-426614174000"
	tests := []struct {
		name         string
		path         string
		expectedType string
		expectedID   string
	}{
		{"collection", "/competitions", "competition", ""},
		{"item", "/competitions/" + id, "competition", id},
		{"nested", "/contestants/" + id + "/payment-link", "contestant", id},
		{"non uuid id", "/contestants/abc", "contestant", ""},
		{"root", "/", "unknown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resourceType, resourceID := resourceFromPath(tt.path)
			assert.Equal(t, tt.expectedType, resourceType)
			assert.Equal(t, tt.expectedID, resourceID)
		})
	}
}

func TestAuditMiddleware(t *testing.T) {
	sink := &memorySink{}
	al := NewAuditLogger(&AuditConfig{Sink: sink, FlushInterval: time.Hour, BatchSize: 100})

	router := gin.New()
	router.Use(RequestID(), func(c *gin.Context) {
		c.Set(ContextKeyUserID, "admin-1")
		c.Set(ContextKeyRole, RoleAdmin)
		c.Next()
	}, AuditMiddleware(al))
	router.PATCH("/competitions/:id", func(c *gin.Context) {
		SetAuditNewValues(c, map[string]interface{}{"isActive": true})
		c.Status(http.StatusOK)
	})
	router.GET("/competitions", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPatch, "/competitions/c-1", nil),
		httptest.NewRequest(http.MethodGet, "/competitions", nil),
	} {
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	require.NoError(t, al.Close())

	entries := sink.all()
	require.Len(t, entries, 1, "GET requests are not audited")

	entry := entries[0]
	assert.Equal(t, AuditActionUpdate, entry.Action)
	assert.Equal(t, "competition", entry.ResourceType)
	assert.Equal(t, "c-1", entry.ResourceID)
	assert.Equal(t, "admin-1", entry.UserID)
	assert.Equal(t, RoleAdmin, entry.UserRole)
	assert.Equal(t, http.StatusOK, entry.Status)
	assert.NotEmpty(t, entry.RequestID)
	assert.Equal(t, true, entry.NewValues["isActive"])
}

func TestAuditLogger_FlushOnBatchSize(t *testing.T) {
	sink := &memorySink{}
	al := NewAuditLogger(&AuditConfig{Sink: sink, FlushInterval: time.Hour, BatchSize: 2})
	defer al.Close()

	al.Log(&AuditEntry{ID: "1"})
	al.Log(&AuditEntry{ID: "2"})

	assert.Eventually(t, func() bool { return len(sink.all()) == 2 }, time.Second, 10*time.Millisecond)
}

func TestAuditLogger_CloseIsIdempotent(t *testing.T) {
	al := NewAuditLogger(DefaultAuditConfig(nil))
	require.NoError(t, al.Close())
	require.NoError(t, al.Close())
}
