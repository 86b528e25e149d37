package backend

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nalgeon/be"

	"equipviz/internal/model"
)

const pdfBody = "%PDF-1.4\n% equipment report\n%%EOF\n"

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.Client(), srv.URL)
}

func TestHistory(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		be.Equal(t, r.Method, http.MethodGet)
		be.Equal(t, r.URL.Path, "/api/history/")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"uploaded_at": "2026-10-19T10:00:00Z", "total_equipment": 3, "avg_flowrate": 1.5, "avg_pressure": 2, "avg_temperature": 100},
			{"uploaded_at": "2026-10-18T10:00:00Z", "total_equipment": 7, "avg_flowrate": 2.5, "avg_pressure": 3, "avg_temperature": 200}
		]`)
	}))

	got, err := c.History(context.Background())
	be.Err(t, err, nil)
	be.Equal(t, len(got), 2)
	be.Equal(t, got[0].TotalEquipment, 3)
	be.Equal(t, got[1].TotalEquipment, 7)
	be.True(t, got[0].UploadedAt.Equal(time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)))
}

func TestHistoryErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server_error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "not_json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, "<html>oops</html>")
			},
		},
		{
			name: "object_instead_of_array",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"detail": "nope"}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			_, err := c.History(context.Background())
			be.Err(t, err, model.ErrHistoryFetch)
		})
	}
}

func TestHistoryUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := New(srv.Client(), srv.URL)
	srv.Close()

	_, err := c.History(context.Background())
	be.Err(t, err, model.ErrHistoryFetch)
}

func TestUpload(t *testing.T) {
	const csv = "Equipment Name,Type,Flowrate,Pressure,Temperature\nP-1,Pump,5,2,300\n"

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		be.Equal(t, r.Method, http.MethodPost)
		be.Equal(t, r.URL.Path, "/api/upload/")

		file, header, err := r.FormFile("file")
		be.Err(t, err, nil)
		defer file.Close()

		body, _ := io.ReadAll(file)
		be.Equal(t, string(body), csv)
		be.Equal(t, header.Filename, "sample.csv")
		be.Equal(t, header.Header.Get("Content-Type"), "text/csv")

		io.WriteString(w, `{"total_equipment": 10, "avg_flowrate": 5.5, "avg_pressure": 2.1, "avg_temperature": 300, "type_distribution": {"Pump": 4, "Valve": 6}}`)
	}))

	got, err := c.Upload(context.Background(), "/data/sample.csv", strings.NewReader(csv))
	be.Err(t, err, nil)
	be.Equal(t, got, model.Summary{
		TotalEquipment:   10,
		AvgFlowrate:      5.5,
		AvgPressure:      2.1,
		AvgTemperature:   300,
		TypeDistribution: model.Distribution{{Type: "Pump", Count: 4}, {Type: "Valve", Count: 6}},
	})
}

func TestUploadErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "bad_request",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				io.WriteString(w, `{"error": "invalid csv"}`)
			},
		},
		{
			name: "not_json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, "Internal Server Error")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			_, err := c.Upload(context.Background(), "a.csv", strings.NewReader("x"))
			be.Err(t, err, model.ErrUploadFailed)
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestUploadReadError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.Copy(io.Discard, r.Body); err != nil {
			http.Error(w, "truncated body", http.StatusBadRequest)
			return
		}
		io.WriteString(w, `{}`)
	}))

	_, err := c.Upload(context.Background(), "a.csv", failingReader{})
	be.Err(t, err, model.ErrUploadFailed)
}

func TestReport(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		be.Equal(t, r.URL.Path, "/api/download-pdf/")
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="equipment report.pdf"`)
		io.WriteString(w, pdfBody)
	}))

	var buf bytes.Buffer
	got, err := c.Report(context.Background(), &buf)
	be.Err(t, err, nil)
	be.Equal(t, got, Report{
		Name:        "equipment-report.pdf",
		ContentType: "application/pdf",
		Size:        int64(len(pdfBody)),
	})
	be.Equal(t, buf.String(), pdfBody)
}

func TestReportDefaultName(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, pdfBody)
	}))

	got, err := c.Report(context.Background(), io.Discard)
	be.Err(t, err, nil)
	be.Equal(t, got.Name, DefaultReportName)
}

func TestReportErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "not_found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "no data uploaded", http.StatusNotFound)
			},
			want: model.ErrUnexpectedStatus,
		},
		{
			name: "html_instead_of_pdf",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, "<html>error</html>")
			},
			want: model.ErrNotPDF,
		},
		{
			name: "empty_body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			want: model.ErrNotPDF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)

			var buf bytes.Buffer
			_, err := c.Report(context.Background(), &buf)
			be.Err(t, err, model.ErrReportDownload)
			be.Err(t, err, tt.want)
			be.Equal(t, buf.Len(), 0)
		})
	}
}
