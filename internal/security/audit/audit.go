package audit

import (
	"context"
	"log/slog"

	"github.com/yourorg/freehold/internal/security/middleware"
)

// Logger records security-relevant actions as structured log events.
type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (al *Logger) LogAction(ctx context.Context, principal, action, resource string, resourceID int64, status string) {
	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.Int64("resource_id", resourceID),
		slog.String("principal", principal),
		slog.String("status", status),
		slog.String("request_id", middleware.RequestIDFromContext(ctx)),
	)
}

func (al *Logger) LogTenantCreated(ctx context.Context, principal string, tenantID int64) {
	al.LogAction(ctx, principal, "create", "tenant", tenantID, "ok")
}

func (al *Logger) LogTenantRemoved(ctx context.Context, principal string, tenantID int64) {
	al.LogAction(ctx, principal, "remove", "tenant", tenantID, "ok")
}

func (al *Logger) LogDenied(ctx context.Context, principal, action, reason string) {
	al.logger.Warn("audit",
		slog.String("action", action),
		slog.String("principal", principal),
		slog.String("status", "denied"),
		slog.String("reason", reason),
		slog.String("request_id", middleware.RequestIDFromContext(ctx)),
	)
}
