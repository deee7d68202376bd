package analyzer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNetwork    = errors.New("network error")
	ErrNotFound   = errors.New("not found")
	ErrServer     = errors.New("server error")
	ErrSchema     = errors.New("schema error")
)

const networkMessage = "Could not reach the analysis service. Please check your connection and try again."

// ValidationError reports input rejected either locally or by the service (4xx).
type ValidationError struct {
	StatusCode int
	Message    string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NetworkError reports a transport failure. It is safe to retry by hand.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// NotFoundError reports an analysis id the service does not know about.
type NotFoundError struct {
	ID      string
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("analysis %s: %s", e.ID, e.Message)
	}
	return fmt.Sprintf("analysis %s not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ServerError reports a 5xx answer or an unexpected status.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("bad status: %d", e.StatusCode)
	}
	return fmt.Sprintf("bad status: %d: %s", e.StatusCode, e.Message)
}

func (e *ServerError) Is(target error) bool { return target == ErrServer }

// SchemaError reports a payload that does not match the expected shape.
// It is treated as a server error by callers.
type SchemaError struct {
	Payload string
	Fields  []string
	Reason  string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("malformed ")
	b.WriteString(e.Payload)
	b.WriteString(" payload")
	if len(e.Fields) > 0 {
		b.WriteString(": missing or invalid fields: ")
		b.WriteString(strings.Join(e.Fields, ", "))
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema || target == ErrServer }

// UserMessage picks the text to show for a failed call. Messages supplied by the
// service win over the fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) && strings.TrimSpace(validationErr.Message) != "" {
		return validationErr.Message
	}

	var serverErr *ServerError
	if errors.As(err, &serverErr) && strings.TrimSpace(serverErr.Message) != "" {
		return serverErr.Message
	}

	var notFoundErr *NotFoundError
	if errors.As(err, &notFoundErr) && strings.TrimSpace(notFoundErr.Message) != "" {
		return notFoundErr.Message
	}

	if errors.Is(err, ErrNetwork) {
		return networkMessage
	}

	return fallback
}
