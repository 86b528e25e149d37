package backend

import (
	"fmt"
	"mime"
	"net/http"
	"strings"

	"equipviz/internal/model"
)

// checkStatus считает успехом любой 2xx.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s", model.ErrUnexpectedStatus, resp.Status)
	}
	return nil
}

func getContentType(resp *http.Response) string {
	contentType := resp.Header.Get("Content-Type")
	if end := strings.IndexByte(contentType, ';'); end != -1 {
		contentType = strings.TrimSpace(contentType[:end])
	}
	return contentType
}

func getFileName(resp *http.Response) string {
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	if err != nil {
		return ""
	}
	return params["filename"]
}
