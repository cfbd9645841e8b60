package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const mimePDF = "application/pdf"

var (
	ErrUnsupported = errors.New("unsupported document type")
	ErrNoText      = errors.New("document contains no extractable text")
)

// TextFromBytes extracts plain text from an in-memory PDF. The declared MIME
// type, the file extension or the %PDF- magic bytes may identify it.
func TextFromBytes(ctx context.Context, data []byte, mimeType, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !IsPDF(mimeType, fileName, data) {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, normalizeMimeType(mimeType))
	}
	text, err := extractPDF(data)
	if err != nil {
		return "", fmt.Errorf("extract pdf %s: %w", fileName, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// IsPDF reports whether the payload should be treated as a PDF.
func IsPDF(mimeType, fileName string, data []byte) bool {
	if normalizeMimeType(mimeType) == mimePDF {
		return true
	}
	if strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		return true
	}
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

func extractPDF(data []byte) (text string, err error) {
	// ledongthuc/pdf panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()
	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func normalizeMimeType(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
}
