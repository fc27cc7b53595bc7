// Package pdftest writes small text PDFs for tests.
package pdftest

import (
	"path/filepath"
	"testing"

	"github.com/go-pdf/fpdf"
)

// Write renders one page per entry of pages into dir/name and returns the path.
func Write(t testing.TB, dir, name string, pages ...string) string {
	t.Helper()

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.SetFont("Helvetica", "", 11)
	for _, text := range pages {
		doc.AddPage()
		doc.Cell(0, 10, text)
	}

	path := filepath.Join(dir, name)
	if err := doc.OutputFileAndClose(path); err != nil {
		t.Fatalf("write pdf %s: %v", path, err)
	}
	return path
}
