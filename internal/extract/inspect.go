package extract

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const mimePDF = "application/pdf"

// DocumentInfo is what can be learned about an upload without extracting it.
type DocumentInfo struct {
	MimeType string
	Pages    int
}

// Inspect sniffs the MIME type of data and, for PDFs, counts pages.
// A PDF that cannot be parsed yields Pages == 0 and a non-nil error; the
// MIME type is always populated.
func Inspect(data []byte, fileName string) (DocumentInfo, error) {
	info := DocumentInfo{MimeType: normalizeMimeType(http.DetectContentType(data), fileName)}
	if info.MimeType != mimePDF {
		return info, nil
	}

	pages, err := countPDFPages(data)
	if err != nil {
		return info, fmt.Errorf("inspect pdf %s: %w", fileName, err)
	}
	info.Pages = pages
	return info, nil
}

func countPDFPages(data []byte) (n int, err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	return reader.NumPage(), nil
}

func normalizeMimeType(mimeType, fileName string) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if clean == "application/octet-stream" && strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		return mimePDF
	}
	return clean
}
