package logger

import (
	"io"
	"log/slog"

	"equipviz/internal/config"
)

// SetupDefault настраивает slog по умолчанию. Вывод идёт в w (для CLI это stderr,
// stdout занят результатом).
func SetupDefault(w io.Writer, cfg config.Logger) {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.Plaintext {
		slog.SetDefault(slog.New(slog.NewTextHandler(w, opts)))
	} else {
		slog.SetDefault(slog.New(slog.NewJSONHandler(w, opts)))
	}
}
