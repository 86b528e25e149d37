package main

import (
	"cmp"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"equipviz/internal/backend"
	"equipviz/internal/config"
	"equipviz/internal/controller"
	"equipviz/internal/logger"
	"equipviz/internal/model"
	"equipviz/internal/view"
	"equipviz/internal/watcher"
)

var (
	csvFile    = flag.String("f", "", "Upload CSV file.")
	report     = flag.Bool("r", false, "Download PDF report to REPORT_FILE.")
	reportFile = flag.String("o", "", "Download PDF report to file or directory instead of REPORT_FILE, use '-' for stdout.")
	watchDir   = flag.String("w", "", "Watch directory and upload every new CSV file.")
	format     = flag.String("format", "", "Output format: text, json or yaml (default from OUTPUT_FORMAT).")
	latestWins = flag.Bool("latest", false, "Drop responses to superseded requests instead of applying the last one to arrive.")
	verbose    = flag.Bool("v", false, "Enable debug logging.")
)

func main() {
	flag.Parse()

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	if *verbose {
		cfg.Logger.Level = slog.LevelDebug
	}
	if *format != "" {
		cfg.View.Format = *format
	}

	logger.SetupDefault(os.Stderr, cfg.Logger)
	slog.Debug("client config", "cfg", cfg)

	renderer, err := view.New(cfg.View.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *csvFile != "" && !strings.EqualFold(filepath.Ext(*csvFile), ".csv") {
		fmt.Fprintln(os.Stderr, "CSV file required")
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := backend.New(newHTTPClient(cfg.Backend), cfg.Backend.BaseURL)

	opts := []controller.Option{controller.WithNotifier(controller.NotifierFunc(notify))}
	if *latestWins {
		opts = append(opts, controller.WithLatestIssuedWins())
	}
	ctrl := controller.New(ctx, client, opts...)

	var reportDst string
	if *report || *reportFile != "" {
		reportDst = cmp.Or(*reportFile, cfg.Report.File)
	}

	// при выводе отчёта в stdout состояние уходит в stderr
	out := io.Writer(os.Stdout)
	if reportDst == "-" {
		out = os.Stderr
	}

	if *watchDir != "" {
		if err := watch(ctx, ctrl, renderer, out, cfg.Watcher.Extensions); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
		return
	}

	code := 0

	if *csvFile != "" {
		ctrl.SelectFile(*csvFile)
		if err := ctrl.UploadSelectedFile(ctx); err != nil {
			code = 1
		}
	}

	if reportDst != "" {
		if err := downloadReport(ctx, ctrl, reportDst); err != nil {
			code = 1
		}
	}

	if err := renderer.Render(out, ctrl.Snapshot()); err != nil {
		log.Fatalf("render failed: %v", err)
	}

	os.Exit(code)
}

func downloadReport(ctx context.Context, ctrl *controller.Controller, dst string) error {
	if dst == "-" {
		return ctrl.WriteReport(ctx, os.Stdout)
	}
	_, err := ctrl.DownloadReport(ctx, dst)
	return err
}

func watch(ctx context.Context, ctrl *controller.Controller, renderer *view.Renderer, out io.Writer, extensions []string) error {
	w, err := watcher.New(slog.Default(), extensions)
	if err != nil {
		return err
	}
	defer w.Close()

	paths, err := w.Watch(ctx, *watchDir)
	if err != nil {
		return err
	}

	slog.Info("watching", "dir", *watchDir, "extensions", extensions)
	if err := renderer.Render(out, ctrl.Snapshot()); err != nil {
		return err
	}

	for path := range paths {
		log := slog.With("file", path)
		ctrl.SelectFile(path)
		if err := ctrl.UploadSelectedFile(logger.Context(ctx, log)); err != nil {
			log.Error("upload failed", "error", err)
		}
		if err := renderer.Render(out, ctrl.Snapshot()); err != nil {
			return err
		}
	}

	slog.Info("watch stopped")
	return nil
}

// notify печатает блокирующее уведомление, как alert в браузере.
func notify(ctx context.Context, err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, model.ErrNoFileSelected):
		msg = "Please select a CSV file"
	case errors.Is(err, model.ErrReportDownload):
		msg = "Failed to download PDF"
	}
	fmt.Fprintln(os.Stderr, msg)
}

func newHTTPClient(cfg config.Backend) *http.Client {
	return &http.Client{
		Transport: logger.Transport(slog.Default(), nil),
		Timeout:   cfg.Timeout,
	}
}
