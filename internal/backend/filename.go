package backend

import (
	"strings"
	"unicode"
)

const maxBaseNameLen = 100

var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// constructFileName делает из имени, присланного бэкендом в Content-Disposition,
// безопасное локальное имя отчёта:
//
//   - обрезает путь;
//   - заменяет расширение на заданное;
//   - удаляет управляющие и неграфические символы;
//   - заменяет запрещенные символы и пробелы на '-', схлопывая повторы;
//   - зарезервированные имена windows дополняет символом подчеркивания.
//
// Если от имени ничего не осталось, возвращает DefaultReportName.
//
// Примеры:
//
//	"equipment_report.pdf", ".pdf" -> "equipment_report.pdf"
//	"../../etc/passwd", ".pdf" -> "passwd.pdf"
//	"report 2026:01.pdf", ".pdf" -> "report-2026-01.pdf"
//	"nul.pdf", ".pdf" -> "nul_.pdf"
func constructFileName(fileName string, fileExt string) string {
	if p := strings.LastIndexAny(fileName, `/\`); p != -1 {
		fileName = fileName[p+1:]
	}

	if p := strings.LastIndexByte(fileName, '.'); p != -1 {
		fileName = fileName[:p]
	}

	baseName := sanitizeFilename(fileName, maxBaseNameLen)
	if baseName == "" {
		return DefaultReportName
	}

	if reservedNames[strings.ToUpper(baseName)] {
		baseName += "_"
	}

	return baseName + fileExt
}

// ASCII опасные символы
const asciiProblem = `<>:"/\|?*~.;#$%&'(){}[]!` + "`"

func sanitizeFilename(s string, maxLen int) string {
	var sb strings.Builder
	sb.Grow(maxLen)

	prev := '-' // чтобы не писать лидирующий '-'
	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}

		switch {
		case unicode.IsSpace(r), strings.ContainsRune(asciiProblem, r):
			r = '-'
		case unicode.IsControl(r) || !unicode.IsPrint(r):
			continue
		}

		if r == '-' && prev == '-' {
			continue
		}

		sb.WriteRune(r)
		prev = r
		n++
	}

	return strings.TrimSuffix(sb.String(), "-")
}
