package utils

import (
	"context"
	"time"

	"ips-timeline-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

// LogOperation runs fn and logs its duration and outcome under operation.
func LogOperation(logger *zap.Logger, operation string, requestID string, fn func() error) error {
	start := time.Now()

	logger.Debug("Operation started",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("operation", operation),
	)

	err := fn()
	duration := time.Since(start)

	if err != nil {
		logger.Error("Operation failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("operation", operation),
			zap.Duration(constvars.LoggingDurationKey, duration),
			zap.Bool(constvars.LoggingSuccessKey, false),
			zap.Error(err),
		)
		return err
	}

	logger.Info("Operation completed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("operation", operation),
		zap.Duration(constvars.LoggingDurationKey, duration),
		zap.Bool(constvars.LoggingSuccessKey, true),
	)
	return nil
}

func GetSessionID(ctx context.Context) string {
	if sessionID, ok := ctx.Value(constvars.CONTEXT_SESSION_ID_KEY).(string); ok {
		return sessionID
	}
	return ""
}
