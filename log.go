package webhookbot

import (
	"context"
	"log/slog"
	"time"
)

// LogHooks returns an Option that reports dispatch activity to logger.
// Handler failures are logged at error level with their cause; routine
// dispatches at debug level.
func LogHooks(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		opts := []Option{
			WithOnParse(func(ctx context.Context, u Update) context.Context {
				logger.DebugContext(ctx, "update_parsed", "update_id", u.ID, "kind", ContentsKind(u.Contents))
				return ctx
			}),
			WithOnParseError(func(ctx context.Context, err error) {
				logger.WarnContext(ctx, "update_parse_failed", "error", err)
			}),
			WithOnSuccess(func(ctx context.Context, route Route, name string, duration time.Duration) {
				logger.DebugContext(ctx, "handler_done", "route", route, "name", name, "duration", duration)
			}),
			WithOnFailure(func(ctx context.Context, route Route, name string, err error, duration time.Duration) {
				logger.ErrorContext(ctx, "handler_failed", "route", route, "name", name, "error", err, "duration", duration)
			}),
			WithOnNoHandler(func(ctx context.Context, route Route, name string) {
				logger.InfoContext(ctx, "no_handler", "route", route, "name", name)
			}),
			WithOnFallback(func(ctx context.Context, chatID int64, err error) {
				logger.InfoContext(ctx, "fallback_reply", "chat_id", chatID, "error", err)
			}),
		}
		for _, opt := range opts {
			opt(d)
		}
	}
}

// ContentsKind returns a short name for the contents variant, for logs and
// metrics.
func ContentsKind(c Contents) string {
	switch c.(type) {
	case PlainMessage:
		return "message"
	case CommandInvocation:
		return "command"
	case CurrentProbe:
		return "current"
	case CallbackInvocation:
		return "callback"
	default:
		return "none"
	}
}
