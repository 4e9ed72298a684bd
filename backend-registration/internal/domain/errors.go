package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is the family of missing-entity errors
	ErrNotFound = errors.New("not found")
	// ErrCompetitionNotFound is returned when a competition id does not exist
	ErrCompetitionNotFound = fmt.Errorf("competition %w", ErrNotFound)
	// ErrContestantNotFound is returned when a contestant id does not exist
	ErrContestantNotFound = fmt.Errorf("contestant %w", ErrNotFound)
	// ErrNoActiveCompetition is returned when registering while no competition is active
	ErrNoActiveCompetition = errors.New("no active competition")
	// ErrSignatureVerification is returned for webhook payloads that fail verification
	ErrSignatureVerification = errors.New("webhook signature verification failed")
	// ErrAlreadyPaid is returned when a payment link is requested for a paid contestant
	ErrAlreadyPaid = errors.New("contestant has already paid")
	// ErrInvalidPaymentTransition is returned for a disallowed payment state change
	ErrInvalidPaymentTransition = errors.New("invalid payment state transition")
)

// ValidationError lists every violated field with a message
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a ValidationError from field messages
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// PaymentGatewayError wraps a failure of the external payment provider
type PaymentGatewayError struct {
	Op  string
	Err error
}

func (e *PaymentGatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s: %v", e.Op, e.Err)
}

func (e *PaymentGatewayError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err carries a ValidationError
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsPaymentGatewayError reports whether err carries a PaymentGatewayError
func IsPaymentGatewayError(err error) bool {
	var pe *PaymentGatewayError
	return errors.As(err, &pe)
}
