package pdfextract

import (
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// Result is the plain text of a PDF and the number of pages it was read from.
type Result struct {
	Text  string
	Pages int
}

// ExtractFile opens the PDF at path and extracts its plain text.
func ExtractFile(path string) (*Result, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf failed: %w", err)
	}
	defer f.Close()
	return extract(reader)
}

func extract(reader *pdf.Reader) (*Result, error) {
	plainReader, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extract pdf text failed: %w", err)
	}
	out, err := io.ReadAll(plainReader)
	if err != nil {
		return nil, fmt.Errorf("read pdf text failed: %w", err)
	}
	return &Result{Text: string(out), Pages: reader.NumPage()}, nil
}
