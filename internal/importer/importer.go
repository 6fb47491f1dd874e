// Package importer turns local manuscript files into chapter content so a
// writer can bring existing drafts into the editor.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"writook/internal/richtext"
)

// FromFile extracts plain text from a manuscript at path. Supported inputs:
// pdf, html/htm, and plain text (txt, md or anything else readable).
func FromFile(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return fromPDF(path)
	case ".html", ".htm":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read manuscript: %w", err)
		}
		return richtext.PlainText(string(data)), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read manuscript: %w", err)
		}
		return normalize(string(data)), nil
	}
}

func fromPDF(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	var b strings.Builder
	totalPages := reader.NumPage()
	for i := 1; i <= totalPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unextractable pages rather than losing the whole import.
			continue
		}
		if text = normalize(text); text != "" {
			if b.Len() > 0 {
				b.WriteString("\n\n")
			}
			b.WriteString(text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no text extracted from %s", filepath.Base(path))
	}
	return b.String(), nil
}

// normalize collapses runs of blank lines and trims trailing space per line.
func normalize(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	blank := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			blank++
			if blank > 1 {
				continue
			}
			line = ""
		} else {
			blank = 0
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
