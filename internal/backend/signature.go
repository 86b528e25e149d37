package backend

import "bytes"

const bufSize = 32 * 1024

type FileType struct {
	MIMEType   string
	Magic      []byte // сигнатура файла
	Extensions []string
}

func (f FileType) Extension() string {
	if len(f.Extensions) == 0 {
		return ""
	}
	return f.Extensions[0]
}

func (f FileType) Match(head []byte) bool {
	return bytes.HasPrefix(head, f.Magic)
}

var pdfFileType = FileType{
	MIMEType:   "application/pdf",
	Magic:      []byte{0x25, 0x50, 0x44, 0x46}, // %PDF
	Extensions: []string{".pdf"},
}
