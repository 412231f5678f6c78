package logger

import (
	"context"
	"log/slog"
)

type ContextKey string

const (
	LoggerKey ContextKey = "logger"
)

// FromContext retrieves the logger from the context.
// If no logger is found, it returns the default logger.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// WithSubmissionID tags every record logged through ctx with the submission id.
func WithSubmissionID(ctx context.Context, submissionID string) context.Context {
	logger := FromContext(ctx)
	return WithLogger(ctx, logger.With("submission_id", submissionID))
}
