package services

import (
	"database/sql"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"expired-listings/models"
	"expired-listings/utils"
)

var (
	// numberRegexp captures the first numeric value in a decorated cell ("$1,250,000", "3 beds")
	numberRegexp = regexp.MustCompile(`-?[\d,]*\.?\d+`)
)

// Cleaner transforms raw CSV records into Listings.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean maps each record onto a Listing using the header positions. Records
// are kept in input order, duplicates included.
func (c *Cleaner) Clean(source models.Source, header []string, records [][]string) []*models.Listing {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}

	cell := func(rec []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	result := make([]*models.Listing, 0, len(records))
	blank := 0
	for _, rec := range records {
		l := &models.Listing{
			MLS:          strings.TrimSpace(cell(rec, models.ColMLS)),
			Address:      strings.TrimSpace(cell(rec, models.ColAddress)),
			PropertyType: normaliseText(cell(rec, models.ColPropertyType)),
			Bedrooms:     parseNumber(cell(rec, models.ColBedrooms)),
			Bathrooms:    parseNumber(cell(rec, models.ColBathrooms)),
			HouseSize:    parseNumber(cell(rec, models.ColHouseSize)),
			ListPrice:    parseNumber(cell(rec, models.ColListPrice)),
			DaysOnMarket: parseNumber(cell(rec, models.ColDaysOnMarket)),
			YearBuilt:    parseYear(cell(rec, models.ColYearBuilt)),
			CancelDate:   strings.TrimSpace(cell(rec, models.ColCancelDate)),
		}
		if l.Address == "" {
			blank++
		}
		result = append(result, l)
	}

	if blank > 0 {
		c.logger.Warn("[cleaner] %s export has %d rows without an address", source, blank)
	}
	c.logger.Debug("[cleaner] Cleaned %d %s rows", len(result), source)
	return result
}

// parseNumber reads a numeric cell, tolerating currency symbols and
// thousands separators. Empty or non-numeric cells are invalid.
func parseNumber(raw string) sql.NullFloat64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "nan") {
		return sql.NullFloat64{}
	}

	cleaned := strings.ReplaceAll(strings.TrimPrefix(raw, "$"), ",", "")
	if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return sql.NullFloat64{Float64: v, Valid: true}
	}

	match := numberRegexp.FindString(raw)
	if match == "" {
		return sql.NullFloat64{}
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// parseYear returns the integer year, or 0 when the cell is missing.
func parseYear(raw string) int {
	n := parseNumber(raw)
	if !n.Valid {
		return 0
	}
	return int(n.Float64)
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	s = strings.TrimSpace(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
