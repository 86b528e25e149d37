package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"equipviz/internal/backend"
	"equipviz/internal/logger"
	"equipviz/internal/model"
)

var (
	ErrNoFileSelected = model.ErrNoFileSelected
	ErrUploadFailed   = model.ErrUploadFailed
	ErrReportDownload = model.ErrReportDownload
)

type Backend interface {
	History(ctx context.Context) ([]model.HistoryEntry, error)
	Upload(ctx context.Context, name string, r io.Reader) (model.Summary, error)
	Report(ctx context.Context, w io.Writer) (backend.Report, error)
}

// Notifier показывает пользователю блокирующее уведомление (аналог alert).
// Операция ждёт возврата из Notify.
type Notifier interface {
	Notify(ctx context.Context, err error)
}

type NotifierFunc func(ctx context.Context, err error)

func (f NotifierFunc) Notify(ctx context.Context, err error) {
	f(ctx, err)
}

type Option func(*Controller)

func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

// WithOnChange подписывает fn на каждый новый снимок состояния. fn вызывается
// под блокировкой контроллера и не должна вызывать его методы.
func WithOnChange(fn func(State)) Option {
	return func(c *Controller) {
		c.onChange = append(c.onChange, fn)
	}
}

// WithLatestIssuedWins отбрасывает ответы на запросы, после которых уже был
// отправлен более новый запрос того же типа. По умолчанию побеждает ответ,
// пришедший последним.
func WithLatestIssuedWins() Option {
	return func(c *Controller) {
		c.latestIssuedWins = true
	}
}

type opKind int

const (
	opHistory opKind = iota
	opUpload
	opCount
)

// Controller держит текущий снимок состояния и выполняет операции экрана:
// выбор файла, обновление истории, загрузку CSV и скачивание отчёта.
//
// Методы можно вызывать из разных горутин. Защиты от повторных запросов нет,
// каждый ответ применяется в момент получения.
type Controller struct {
	backend          Backend
	notifier         Notifier
	onChange         []func(State)
	latestIssuedWins bool

	mu     sync.Mutex
	state  State
	issued [opCount]uint64 // последний выданный номер запроса по типу операции
}

// New создаёт контроллер и сразу загружает историю.
func New(ctx context.Context, b Backend, opts ...Option) *Controller {
	c := &Controller{
		backend:  b,
		notifier: NotifierFunc(func(context.Context, error) {}),
		state:    State{History: []model.HistoryEntry{}},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.RefreshHistory(ctx)
	return c
}

// Snapshot возвращает копию текущего состояния.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

func (c *Controller) SelectFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setState(c.state.WithSelectedFile(path))
}

// RefreshHistory перечитывает историю. Ошибка пользователю не показывается,
// история остаётся прежней, причина пишется в лог.
func (c *Controller) RefreshHistory(ctx context.Context) {
	log := logger.FromContext(ctx).With("op", "refreshHistory")
	seq := c.issue(opHistory)

	history, err := c.backend.History(ctx)
	if err != nil {
		log.Warn("history fetch failed", "error", err)
		return
	}

	c.apply(log, opHistory, seq, func(s State) State {
		return s.WithHistory(history)
	})
}

// UploadSelectedFile отправляет выбранный файл. Без выбранного файла показывает
// уведомление и в сеть не ходит. После успешной загрузки обновляет историю.
func (c *Controller) UploadSelectedFile(ctx context.Context) error {
	log := logger.FromContext(ctx).With("op", "uploadSelectedFile")

	path := c.Snapshot().SelectedFile
	if path == "" {
		log.Debug("no file selected")
		c.notifier.Notify(ctx, ErrNoFileSelected)
		return ErrNoFileSelected
	}
	log = log.With("file", path)

	seq := c.issue(opUpload)

	summary, err := c.upload(ctx, path)
	if err != nil {
		log.Warn("upload failed", "error", err)
		c.apply(log, opUpload, seq, State.WithUploadFailure)
		return err
	}

	c.apply(log, opUpload, seq, func(s State) State {
		return s.WithUploadSuccess(summary)
	})

	c.RefreshHistory(ctx)
	return nil
}

func (c *Controller) upload(ctx context.Context, path string) (model.Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Summary{}, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	defer f.Close()

	return c.backend.Upload(ctx, filepath.Base(path), f)
}

// DownloadReport скачивает текущий отчёт в файл dst. Если dst каталог, имя
// файла берётся из ответа бэкенда. Тело пишется во временный файл рядом с
// целью и переименовывается после успешной загрузки; временный файл удаляется
// в любом случае. Состояние не меняется, при ошибке показывается уведомление.
// Возвращает путь сохранённого отчёта.
func (c *Controller) DownloadReport(ctx context.Context, dst string) (string, error) {
	log := logger.FromContext(ctx).With("op", "downloadReport", "dst", dst)

	path, err := c.downloadReport(ctx, dst)
	if err != nil {
		log.Warn("download failed", "error", err)
		if !errors.Is(err, ErrReportDownload) {
			err = fmt.Errorf("%w: %w", ErrReportDownload, err)
		}
		c.notifier.Notify(ctx, err)
		return "", err
	}

	log.Info("report saved", "path", path)
	return path, nil
}

func (c *Controller) downloadReport(ctx context.Context, dst string) (string, error) {
	dir, isDir := dst, true
	if fi, err := os.Stat(dst); err != nil || !fi.IsDir() {
		dir, isDir = filepath.Dir(dst), false
	}

	tmp, err := os.CreateTemp(dir, ".report-*.part")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReportDownload, err)
	}
	defer os.Remove(tmp.Name())

	report, err := c.backend.Report(ctx, tmp)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("%w: %w", ErrReportDownload, closeErr)
	}
	if err != nil {
		return "", err
	}

	path := dst
	if isDir {
		path = filepath.Join(dir, report.Name)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("%w: %w", ErrReportDownload, err)
	}
	return path, nil
}

// WriteReport пишет текущий отчёт в w (например, в stdout). Как и
// DownloadReport, при ошибке показывает уведомление и не меняет состояние.
func (c *Controller) WriteReport(ctx context.Context, w io.Writer) error {
	log := logger.FromContext(ctx).With("op", "writeReport")

	if _, err := c.backend.Report(ctx, w); err != nil {
		log.Warn("download failed", "error", err)
		if !errors.Is(err, ErrReportDownload) {
			err = fmt.Errorf("%w: %w", ErrReportDownload, err)
		}
		c.notifier.Notify(ctx, err)
		return err
	}
	return nil
}

func (c *Controller) issue(op opKind) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued[op]++
	return c.issued[op]
}

// apply применяет переход к текущему состоянию. В режиме latestIssuedWins
// ответ на устаревший запрос отбрасывается.
func (c *Controller) apply(log *slog.Logger, op opKind, seq uint64, transition func(State) State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.latestIssuedWins && seq != c.issued[op] {
		log.Debug("stale response dropped", "seq", seq, "latest", c.issued[op])
		return
	}

	c.setState(transition(c.state))
}

// setState вызывается под c.mu.
func (c *Controller) setState(s State) {
	c.state = s
	for _, fn := range c.onChange {
		fn(s.Clone())
	}
}
