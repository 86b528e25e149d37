package logger

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// Context кладёт логгер в контекст. Контроллер и клиент бэкенда берут его
// через FromContext, чтобы все записи одной операции имели общие атрибуты.
func Context(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, log)
}

func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return slog.Default()
}
