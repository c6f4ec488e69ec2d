package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// BaseService carries the clock and the request-scoped logging helpers shared by the ledger services.
type BaseService struct {
	// Now returns the current time. Tests replace it to pin audit and journal dates.
	Now func() time.Time
}

// GetLogger returns the logger the HTTP middleware put on ctx, or the default logger.
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	if logger := middleware.GetLoggerFromCtx(ctx); logger != nil {
		return logger
	}
	return slog.Default()
}

func (s *BaseService) LogError(ctx context.Context, err error, msg string, attrs ...any) {
	s.GetLogger(ctx).Error(msg, append([]any{slog.String("error", err.Error())}, attrs...)...)
}

func (s *BaseService) LogWarn(ctx context.Context, msg string, attrs ...any) {
	s.GetLogger(ctx).Warn(msg, attrs...)
}

func (s *BaseService) LogInfo(ctx context.Context, msg string, attrs ...any) {
	s.GetLogger(ctx).Info(msg, attrs...)
}

func (s *BaseService) LogDebug(ctx context.Context, msg string, attrs ...any) {
	s.GetLogger(ctx).Debug(msg, attrs...)
}

// now returns the service clock in UTC.
func (s *BaseService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// today is now truncated to a journal date.
func (s *BaseService) today() time.Time {
	return domain.DateOnly(s.now())
}

// referenceAttrs are the log attributes naming the business event behind a journal.
func referenceAttrs(referenceType domain.PostingReferenceType, referenceID int64) []any {
	return []any{
		slog.String("reference_type", referenceType.String()),
		slog.Int64("reference_id", referenceID),
	}
}
