package backend

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"

	"equipviz/internal/logger"
	"equipviz/internal/model"
)

const (
	historyPath = "/api/history/"
	uploadPath  = "/api/upload/"
	reportPath  = "/api/download-pdf/"

	uploadField = "file"

	DefaultReportName = "equipment_report.pdf"
)

type (
	Summary      = model.Summary
	HistoryEntry = model.HistoryEntry
)

// Report описывает скачанный PDF-отчёт.
type Report struct {
	Name        string // имя файла из Content-Disposition или DefaultReportName
	ContentType string
	Size        int64
}

// Client ходит в три эндпоинта бэкенда. Повторов нет, таймаут задаётся
// переданным http.Client.
type Client struct {
	client  *http.Client
	baseURL string
}

func New(client *http.Client, baseURL string) *Client {
	return &Client{
		client:  client,
		baseURL: baseURL,
	}
}

// History возвращает последние загрузки в том порядке, в котором их прислал
// бэкенд. Любая ошибка оборачивает model.ErrHistoryFetch.
func (c *Client) History(ctx context.Context) ([]HistoryEntry, error) {
	log := logger.FromContext(ctx).With("op", "history")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+historyPath, nil)
	if err != nil {
		log.Error("create request failed", "error", err)
		return nil, fmt.Errorf("%w: create request: %w", model.ErrHistoryFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Debug("request failed", "error", err)
		return nil, fmt.Errorf("%w: %w", model.ErrHistoryFetch, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		log.Debug("unexpected status", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: %w", model.ErrHistoryFetch, err)
	}

	var history []HistoryEntry
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		log.Debug("decode failed", "error", err)
		return nil, fmt.Errorf("%w: decode: %w", model.ErrHistoryFetch, err)
	}

	log.Debug("success", "entries", len(history))
	return history, nil
}

// Upload отправляет CSV multipart-формой в поле "file" и возвращает сводку.
// Тело не буферизуется: форма пишется в pipe по мере отправки. Любая ошибка
// оборачивает model.ErrUploadFailed.
func (c *Client) Upload(ctx context.Context, name string, r io.Reader) (Summary, error) {
	log := logger.FromContext(ctx).With("op", "upload", "file", name)

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeForm(mw, name, r))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadPath, pr)
	if err != nil {
		pr.Close()
		log.Error("create request failed", "error", err)
		return Summary{}, fmt.Errorf("%w: create request: %w", model.ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Debug("request failed", "error", err)
		return Summary{}, fmt.Errorf("%w: %w", model.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		log.Debug("unexpected status", "status", resp.StatusCode)
		return Summary{}, fmt.Errorf("%w: %w", model.ErrUploadFailed, err)
	}

	var summary Summary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		log.Debug("decode failed", "error", err)
		return Summary{}, fmt.Errorf("%w: decode: %w", model.ErrUploadFailed, err)
	}

	log.Debug("success", "total", summary.TotalEquipment)
	return summary, nil
}

func writeForm(mw *multipart.Writer, name string, r io.Reader) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadField, filepath.Base(name)))
	h.Set("Content-Type", "text/csv")

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	return mw.Close()
}

// Report скачивает текущий PDF-отчёт в w. До записи проверяется сигнатура
// %PDF, так что при ошибке в w ничего не попадает. Любая ошибка оборачивает
// model.ErrReportDownload.
func (c *Client) Report(ctx context.Context, w io.Writer) (Report, error) {
	log := logger.FromContext(ctx).With("op", "report")

	report := Report{Name: DefaultReportName}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+reportPath, nil)
	if err != nil {
		log.Error("create request failed", "error", err)
		return report, fmt.Errorf("%w: create request: %w", model.ErrReportDownload, err)
	}
	req.Header.Set("Accept", pdfFileType.MIMEType)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Debug("request failed", "error", err)
		return report, fmt.Errorf("%w: %w", model.ErrReportDownload, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		log.Debug("unexpected status", "status", resp.StatusCode)
		return report, fmt.Errorf("%w: %w", model.ErrReportDownload, err)
	}

	report.ContentType = getContentType(resp)
	if name := getFileName(resp); name != "" {
		report.Name = constructFileName(name, pdfFileType.Extension())
	}

	br := bufio.NewReaderSize(resp.Body, bufSize)

	// Проверка сигнатуры
	magic, err := br.Peek(len(pdfFileType.Magic))
	if err != nil && err != io.EOF {
		log.Debug("first chunk read failed", "error", err)
		return report, fmt.Errorf("%w: %w", model.ErrReportDownload, err)
	}
	if !pdfFileType.Match(magic) {
		log.Debug("bad signature", "contentType", report.ContentType)
		return report, fmt.Errorf("%w: %w", model.ErrReportDownload, model.ErrNotPDF)
	}

	report.Size, err = io.Copy(w, br)
	if err != nil {
		log.Debug("copy failed", "error", err, "size", report.Size)
		return report, fmt.Errorf("%w: %w", model.ErrReportDownload, err)
	}

	log.Debug("success", "name", report.Name, "size", report.Size)
	return report, nil
}
