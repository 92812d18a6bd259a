// Package pdftext turns uploaded PDF documents into plain text prompts.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/ledongthuc/pdf"
)

var (
	ErrEmpty     = errors.New("empty PDF content")
	ErrNotPDF    = errors.New("invalid PDF file: missing PDF header")
	ErrTooLarge  = errors.New("PDF exceeds the maximum allowed size")
	ErrTooMany   = errors.New("PDF exceeds the maximum number of pages")
	ErrNoPages   = errors.New("PDF has no pages")
	ErrNoText    = errors.New("no text could be extracted from PDF")
	ErrExtension = errors.New("only PDF files are supported")
)

// Limits bounds what Extract is willing to read.
type Limits struct {
	MaxBytes int64
	MaxPages int
}

var DefaultLimits = Limits{
	MaxBytes: 20 << 20,
	MaxPages: 200,
}

// FromFileHeader reads a multipart upload and extracts its text.
func FromFileHeader(fh *multipart.FileHeader, limits Limits) (string, error) {
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
		return "", ErrExtension
	}
	if limits.MaxBytes > 0 && fh.Size > limits.MaxBytes {
		return "", ErrTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return Extract(content, limits)
}

// Extract returns the page text of content, one row per line and a blank
// line between pages.
func Extract(content []byte, limits Limits) (string, error) {
	if len(content) == 0 {
		return "", ErrEmpty
	}
	if limits.MaxBytes > 0 && int64(len(content)) > limits.MaxBytes {
		return "", ErrTooLarge
	}
	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		return "", ErrNotPDF
	}

	content = Sanitize(content)
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return "", ErrNoPages
	}
	if limits.MaxPages > 0 && numPages > limits.MaxPages {
		return "", ErrTooMany
	}

	var b strings.Builder
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			text, plainErr := page.GetPlainText(nil)
			if plainErr != nil {
				log.Warnf("pdftext: page %d unreadable: %v", i, plainErr)
				continue
			}
			b.WriteString(text)
			b.WriteString("\n\n")
			continue
		}

		for _, row := range rows {
			var line strings.Builder
			for _, word := range row.Content {
				line.WriteString(word.S)
			}
			if s := strings.TrimSpace(line.String()); s != "" {
				b.WriteString(s)
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// Sanitize drops bytes trailing the last %%EOF marker, which some
// generators append and which the parser rejects.
func Sanitize(content []byte) []byte {
	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		return content
	}

	eof := []byte("%%EOF")
	last := bytes.LastIndex(content, eof)
	if last == -1 {
		return content
	}

	end := last + len(eof)
	for end < len(content) && (content[end] == '\n' || content[end] == '\r') {
		end++
	}
	return content[:end]
}
