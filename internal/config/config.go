package config

import (
	"log/slog"
	"time"
)

type Logger struct {
	Level     slog.Level
	Plaintext bool
}

type Backend struct {
	BaseURL string
	Timeout time.Duration // 0 - без таймаута
}

type Report struct {
	File string // куда сохранять отчёт, если путь не задан флагом
}

type Watcher struct {
	Extensions []string
}

type View struct {
	Format string
}

type Config struct {
	Logger  Logger
	Backend Backend
	Report  Report
	Watcher Watcher
	View    View
}

func Load() (Config, error) {
	var ge getenv
	cfg := Config{
		Logger: Logger{
			Level:     ge.LogLevel("LOG_LEVEL", false, slog.LevelInfo),
			Plaintext: ge.Bool("LOG_PLAINTEXT", false, true),
		},
		Backend: Backend{
			BaseURL: ge.URL("API_BASE_URL", false, "http://127.0.0.1:8000"),
			Timeout: ge.Duration("HTTP_TIMEOUT", false, 0),
		},
		Report: Report{
			File: ge.String("REPORT_FILE", false, "equipment_report.pdf"),
		},
		Watcher: Watcher{
			Extensions: ge.Strings("WATCH_EXT", false, []string{".csv"}),
		},
		View: View{
			Format: ge.OneOf("OUTPUT_FORMAT", false, "text", "text", "json", "yaml"),
		},
	}
	return cfg, ge.Err()
}
