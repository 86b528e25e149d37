package backend

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestConstructFileName(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		want     string
	}{
		{
			name:     "normal_name",
			fileName: "equipment_report.pdf",
			want:     "equipment_report.pdf",
		},
		{
			name:     "other_extension",
			fileName: "report.bin",
			want:     "report.pdf",
		},
		{
			name:     "no_extension",
			fileName: "report",
			want:     "report.pdf",
		},
		{
			name:     "path_unix",
			fileName: "../../etc/passwd",
			want:     "passwd.pdf",
		},
		{
			name:     "path_windows",
			fileName: `C:\Users\Public\report.pdf`,
			want:     "report.pdf",
		},
		{
			name:     "dangerous_chars",
			fileName: `report<>:"|?*2026.pdf`,
			want:     "report-2026.pdf",
		},
		{
			name:     "spaces_and_colons",
			fileName: "report 2026:01.pdf",
			want:     "report-2026-01.pdf",
		},
		{
			name:     "control_chars",
			fileName: "rep\x00\x01ort.pdf",
			want:     "report.pdf",
		},
		{
			name:     "reserved_name",
			fileName: "nul.pdf",
			want:     "nul_.pdf",
		},
		{
			name:     "reserved_name_upper",
			fileName: "COM1.pdf",
			want:     "COM1_.pdf",
		},
		{
			name:     "only_invalid_chars",
			fileName: `<>:"|?*.pdf`,
			want:     DefaultReportName,
		},
		{
			name:     "empty",
			fileName: "",
			want:     DefaultReportName,
		},
		{
			name:     "long_name",
			fileName: strings.Repeat("a", 150) + ".pdf",
			want:     strings.Repeat("a", 100) + ".pdf",
		},
		{
			name:     "unicode_letters",
			fileName: "отчёт.pdf",
			want:     "отчёт.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := constructFileName(tt.fileName, ".pdf")
			be.Equal(t, got, tt.want)
		})
	}
}
