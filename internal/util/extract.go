package util

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gen2brain/go-fitz"
)

// ExtractText returns the text of an uploaded .txt or .pdf document.
func ExtractText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read text file: %w", err)
		}
		if !utf8.Valid(b) {
			return "", fmt.Errorf("text file is not valid UTF-8")
		}
		return strings.TrimSpace(string(b)), nil
	case ".pdf":
		return ExtractPDFText(path)
	default:
		return "", fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

// ExtractPDFText joins the text layer of every page. Pages that fail are skipped;
// the last page error is reported only when nothing could be read.
func ExtractPDFText(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var fullText bytes.Buffer
	var lastErr error

	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			lastErr = fmt.Errorf("page %d: failed to extract text: %w", n+1, err)
			log.Println(lastErr)
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if len(pageText) > 0 {
			fullText.WriteString(pageText)
			fullText.WriteString("\n\n")
		}
	}

	result := strings.TrimSpace(fullText.String())
	if len(result) == 0 {
		if lastErr != nil {
			return "", fmt.Errorf("failed to extract PDF text: %w", lastErr)
		}
		return "", fmt.Errorf("no text extracted from PDF (it may be scanned images only)")
	}
	return result, nil
}
