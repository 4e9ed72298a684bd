package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope used for error replies
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo represents error details in the response
type ErrorInfo struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// --- Error Code Constants ---

const (
	// Client errors (4xx)
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"
	ErrCodeInvalidSignature = "INVALID_SIGNATURE"
	ErrCodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"

	// Server errors (5xx)
	ErrCodeInternalError       = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	ErrCodePaymentGatewayError = "PAYMENT_GATEWAY_ERROR"

	// Business logic errors
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeNoActiveCompetition = "NO_ACTIVE_COMPETITION"
	ErrCodeAlreadyPaid         = "ALREADY_PAID"
)

// ErrorCodeToHTTPStatus maps error codes to HTTP status codes
var ErrorCodeToHTTPStatus = map[string]int{
	ErrCodeBadRequest:          http.StatusBadRequest,
	ErrCodeUnauthorized:        http.StatusUnauthorized,
	ErrCodeForbidden:           http.StatusForbidden,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeTooManyRequests:     http.StatusTooManyRequests,
	ErrCodeInvalidSignature:    http.StatusBadRequest,
	ErrCodePayloadTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeInternalError:       http.StatusInternalServerError,
	ErrCodeServiceUnavailable:  http.StatusServiceUnavailable,
	ErrCodePaymentGatewayError: http.StatusBadGateway,
	ErrCodeValidationFailed:    http.StatusBadRequest,
	ErrCodeNoActiveCompetition: http.StatusBadRequest,
	ErrCodeAlreadyPaid:         http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeToHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Success creates a success response with data
func Success(data interface{}) *Response {
	return &Response{
		Success: true,
		Data:    data,
	}
}

// Error creates an error response
func Error(code string, message string) *Response {
	return &Response{
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// ErrorWithDetails creates an error response with additional details
func ErrorWithDetails(code string, message string, details map[string]string) *Response {
	resp := Error(code, message)
	resp.Error.Details = details
	return resp
}

// Abort writes the error envelope with the status mapped from its code
func Abort(c *gin.Context, resp *Response) {
	status := http.StatusInternalServerError
	if resp.Error != nil {
		status = GetHTTPStatus(resp.Error.Code)
	}
	c.AbortWithStatusJSON(status, resp)
}

// --- Common Error Responses ---

// BadRequest creates a bad request error response
func BadRequest(message string) *Response {
	return Error(ErrCodeBadRequest, message)
}

// Unauthorized creates an unauthorized error response
func Unauthorized(message string) *Response {
	if message == "" {
		message = "Authentication required"
	}
	return Error(ErrCodeUnauthorized, message)
}

// Forbidden creates a forbidden error response
func Forbidden(message string) *Response {
	if message == "" {
		message = "Access denied"
	}
	return Error(ErrCodeForbidden, message)
}

// NotFound creates a not found error response
func NotFound(message string) *Response {
	if message == "" {
		message = "Resource not found"
	}
	return Error(ErrCodeNotFound, message)
}

// InternalError creates an internal server error response
func InternalError(message string) *Response {
	if message == "" {
		message = "An internal error occurred"
	}
	return Error(ErrCodeInternalError, message)
}

// ValidationFailed creates a validation error response with field details
func ValidationFailed(details map[string]string) *Response {
	return ErrorWithDetails(ErrCodeValidationFailed, "Validation failed", details)
}

// NoActiveCompetition is returned when registration happens while nothing is active
func NoActiveCompetition() *Response {
	return Error(ErrCodeNoActiveCompetition, "No active competition found")
}

// PaymentGatewayError is returned when the payment provider could not be reached
func PaymentGatewayError() *Response {
	return Error(ErrCodePaymentGatewayError, "Payment provider unavailable, please try again later")
}

// InvalidSignature is returned for webhook deliveries that fail verification
func InvalidSignature() *Response {
	return Error(ErrCodeInvalidSignature, "Webhook error")
}

// TooManyRequests creates a rate limit error response
func TooManyRequests(message string) *Response {
	if message == "" {
		message = "Too many requests, please try again later"
	}
	return Error(ErrCodeTooManyRequests, message)
}

// PayloadTooLarge creates a request body size error response
func PayloadTooLarge(message string) *Response {
	if message == "" {
		message = "Request body too large"
	}
	return Error(ErrCodePayloadTooLarge, message)
}

// ServiceUnavailable creates a service unavailable error response
func ServiceUnavailable(message string) *Response {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	return Error(ErrCodeServiceUnavailable, message)
}
