package pdfextract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"censusqa/internal/pkg/pdftest"
)

func TestExtractFile(t *testing.T) {
	path := pdftest.Write(t, t.TempDir(), "census.pdf", "Population grew", "Median income rose")

	res, err := ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pages)
	assert.Contains(t, res.Text, "Population grew")
	assert.Contains(t, res.Text, "Median income rose")
}

func TestExtractFile_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a pdf"), 0o600))

	_, err := ExtractFile(path)
	assert.Error(t, err)
}

func TestExtractFile_Missing(t *testing.T) {
	_, err := ExtractFile("/nonexistent/file.pdf")
	assert.Error(t, err)
}
