package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSuccess(t *testing.T) {
	resp := Success(map[string]string{"id": "123"})

	if !resp.Success {
		t.Error("Expected success to be true")
	}
	if resp.Error != nil {
		t.Error("Expected error to be nil")
	}
}

func TestError_JSONFormat(t *testing.T) {
	resp := Error(ErrCodeNotFound, "Competition not found")

	jsonBytes, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Failed to marshal response: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &parsed); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if parsed["success"] != false {
		t.Errorf("Expected success=false, got %v", parsed["success"])
	}
	if _, ok := parsed["data"]; ok {
		t.Error("Expected data field to be omitted")
	}
	errInfo, ok := parsed["error"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected error object")
	}
	if errInfo["code"] != ErrCodeNotFound {
		t.Errorf("Expected code %s, got %v", ErrCodeNotFound, errInfo["code"])
	}
	if _, ok := errInfo["details"]; ok {
		t.Error("Expected details to be omitted")
	}
}

func TestValidationFailed(t *testing.T) {
	details := map[string]string{"age": "must be between 5 and 100", "email": "must be a valid email"}
	resp := ValidationFailed(details)

	if resp.Error.Code != ErrCodeValidationFailed {
		t.Errorf("Expected code %s, got %s", ErrCodeValidationFailed, resp.Error.Code)
	}
	if len(resp.Error.Details) != 2 {
		t.Errorf("Expected 2 details, got %d", len(resp.Error.Details))
	}
}

func TestDefaultMessages(t *testing.T) {
	tests := []struct {
		name string
		resp *Response
		code string
	}{
		{"unauthorized", Unauthorized(""), ErrCodeUnauthorized},
		{"forbidden", Forbidden(""), ErrCodeForbidden},
		{"not found", NotFound(""), ErrCodeNotFound},
		{"internal", InternalError(""), ErrCodeInternalError},
		{"too many", TooManyRequests(""), ErrCodeTooManyRequests},
		{"unavailable", ServiceUnavailable(""), ErrCodeServiceUnavailable},
		{"too large", PayloadTooLarge(""), ErrCodePayloadTooLarge},
		{"no active", NoActiveCompetition(), ErrCodeNoActiveCompetition},
		{"gateway", PaymentGatewayError(), ErrCodePaymentGatewayError},
		{"signature", InvalidSignature(), ErrCodeInvalidSignature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.resp.Error.Code != tt.code {
				t.Errorf("code = %s, want %s", tt.resp.Error.Code, tt.code)
			}
			if tt.resp.Error.Message == "" {
				t.Error("expected a default message")
			}
		})
	}
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{ErrCodeValidationFailed, http.StatusBadRequest},
		{ErrCodeNoActiveCompetition, http.StatusBadRequest},
		{ErrCodeInvalidSignature, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyPaid, http.StatusConflict},
		{ErrCodePaymentGatewayError, http.StatusBadGateway},
		{ErrCodeTooManyRequests, http.StatusTooManyRequests},
		{ErrCodePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{"UNKNOWN", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := GetHTTPStatus(tt.code); got != tt.status {
			t.Errorf("GetHTTPStatus(%s) = %d, want %d", tt.code, got, tt.status)
		}
	}
}

func TestAbort(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Abort(c, PaymentGatewayError())

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadGateway)
	}
	if !c.IsAborted() {
		t.Error("expected context to be aborted")
	}
}
