// Package ingest reads the PDF documents of a directory into RawDocuments.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"censusqa/internal/model"
	"censusqa/internal/pkg/pdfextract"
)

const pdfExt = ".pdf"

// DirectoryLoader loads every PDF directly inside Dir. Subdirectories are not read.
type DirectoryLoader struct {
	dir string
	log zerolog.Logger
}

func NewDirectoryLoader(dir string, log zerolog.Logger) *DirectoryLoader {
	return &DirectoryLoader{dir: dir, log: log.With().Str("component", "ingest").Logger()}
}

// Load returns one RawDocument per PDF in directory-listing order (by file name).
// Any unreadable file fails the whole load; there are no partial results.
func (l *DirectoryLoader) Load(ctx context.Context) ([]model.RawDocument, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read directory %s: %w", model.ErrIngestion, l.dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(filepath.Ext(entry.Name())) != pdfExt {
			continue
		}
		paths = append(paths, filepath.Join(l.dir, entry.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no PDF files found in %s", model.ErrIngestion, l.dir)
	}

	docs := make([]model.RawDocument, 0, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrIngestion, err)
		}
		res, err := pdfextract.ExtractFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", model.ErrIngestion, path, err)
		}
		docs = append(docs, model.RawDocument{
			Source: path,
			Order:  i,
			Pages:  res.Pages,
			Text:   res.Text,
		})
		l.log.Debug().
			Str("source", path).
			Int("pages", res.Pages).
			Int("chars", len([]rune(res.Text))).
			Msg("document loaded")
	}

	l.log.Info().Int("documents", len(docs)).Str("dir", l.dir).Msg("documents ingested")
	return docs, nil
}
