package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldService   = "service_url"
	FieldRequestID = "request_id"
)

// CommonFields describes one call to the analysis service. Blank values are left out.
func CommonFields(service, requestID string) []zap.Field {
	fields := make([]zap.Field, 0, 2)
	for _, kv := range [...][2]string{{FieldService, service}, {FieldRequestID, requestID}} {
		if value := strings.TrimSpace(kv[1]); value != "" {
			fields = append(fields, zap.String(kv[0], value))
		}
	}
	return fields
}

// ForCall scopes logger to a single service call.
func ForCall(logger *zap.Logger, service, requestID string) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}

	fields := CommonFields(service, requestID)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}
