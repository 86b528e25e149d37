package model

import "errors"

var (
	ErrNoFileSelected   = errors.New("please select a CSV file")
	ErrUploadFailed     = errors.New("upload failed")
	ErrHistoryFetch     = errors.New("history fetch failed")
	ErrReportDownload   = errors.New("failed to download PDF")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrNotPDF           = errors.New("response is not a PDF document")
)

// UploadFailedMessage показывается пользователю при любой ошибке загрузки,
// причина пишется только в лог.
const UploadFailedMessage = "Backend error or server not running"
