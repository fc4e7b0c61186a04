package viewstate

import (
	"errors"
	"fmt"
)

// Status messages shown to the visitor after a submission attempt.
const (
	StatusMissingFields = "Please fill in all fields."
	StatusInvalidEmail  = "Please enter a valid email address."
	StatusSent          = "Message sent successfully! Thank you for reaching out."
	StatusSendFailed    = "Failed to send message. Please try again later."
)

var (
	// ErrUnknownPanel is returned when a tab or accordion id is outside the fixed set.
	ErrUnknownPanel = errors.New("unknown panel")
	// ErrUnknownInterest is returned for interests outside the enumerated set.
	ErrUnknownInterest = errors.New("unknown interest")
	// ErrUnknownField is returned for form field names the contact form does not have.
	ErrUnknownField = errors.New("unknown field")
	// ErrSubmitInProgress rejects a submission while another one is pending.
	ErrSubmitInProgress = errors.New("submission already in progress")

	// ErrMissingField is what a MissingField ValidationError unwraps to.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidEmail is what an InvalidEmail ValidationError unwraps to.
	ErrInvalidEmail = errors.New("invalid email")
	// ErrTransport matches any TransportError.
	ErrTransport = errors.New("transport failure")
)

// ValidationKind classifies a failed validation pass.
type ValidationKind int

const (
	MissingField ValidationKind = iota
	InvalidEmail
)

// ValidationError captures a contact form that failed validation.
type ValidationError struct {
	Kind    ValidationKind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap maps the kind onto its sentinel so callers can use errors.Is.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	if e.Kind == InvalidEmail {
		return ErrInvalidEmail
	}
	return ErrMissingField
}

// TransportError wraps a failure reported by a Sender.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("transport error: %v", e.Err)
}

// Unwrap exposes the sender's error.
func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports ErrTransport for every TransportError.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// Message is the text shown to the visitor.
func (e *TransportError) Message() string {
	return StatusSendFailed
}
