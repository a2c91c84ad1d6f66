package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"expired-listings/models"
	"expired-listings/services"
)

// CSVWriter writes exported results to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu   sync.Mutex
	path string
	file *os.File
}

var _ ExportWriter = (*CSVWriter)(nil)

// NewCSVWriter creates (or truncates) the CSV file at the given path.
// Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	return &CSVWriter{path: path, file: f}, nil
}

// WriteRows writes the export header and rows, replacing earlier content.
func (c *CSVWriter) WriteRows(rows []*models.DisplayRow) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.file.Truncate(0); err != nil {
		return fmt.Errorf("csv: truncate %q: %w", c.path, err)
	}
	if _, err := c.file.Seek(0, 0); err != nil {
		return fmt.Errorf("csv: seek %q: %w", c.path, err)
	}

	if err := services.ExportCSV(c.file, rows); err != nil {
		return fmt.Errorf("csv: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.file.Close()
}
