package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"expired-listings/apperrors"
	"expired-listings/models"
	"expired-listings/utils"
)

const utf8BOM = "\ufeff"

// Loader reads MLS CSV exports into cleaned datasets.
type Loader struct {
	cleaner *Cleaner
	logger  *utils.Logger
}

// NewLoader creates a Loader.
func NewLoader(logger *utils.Logger) *Loader {
	return &Loader{cleaner: NewCleaner(logger), logger: logger}
}

// LoadAndClean parses one export. The Address column is required. Parse
// failures are returned as validation errors whose message is safe to show
// to the user.
func (l *Loader) LoadAndClean(r io.Reader, source models.Source) (*models.Dataset, error) {
	header, records, err := readCSV(r)
	if err != nil {
		return nil, loadError(source, err)
	}

	if !contains(header, models.ColAddress) {
		return nil, loadError(source, fmt.Errorf("missing required column %q", models.ColAddress))
	}

	listings := l.cleaner.Clean(source, header, records)
	l.logger.Info("[loader] Loaded %d rows from %s export", len(listings), source)

	return &models.Dataset{Source: source, Columns: header, Listings: listings}, nil
}

func loadError(source models.Source, err error) error {
	return apperrors.ValidationErrorf(err, "Error loading CSV file: %v", err).
		WithField("source", string(source))
}

func readCSV(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, errors.New("no columns to parse from file")
	}
	if err != nil {
		return nil, nil, err
	}

	header[0] = strings.TrimPrefix(header[0], utf8BOM)
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if len(rec) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(header), len(rec))
		}
		if isBlankRecord(rec) {
			continue
		}
		records = append(records, rec)
	}
	return header, records, nil
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
