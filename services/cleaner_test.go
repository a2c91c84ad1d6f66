package services

import (
	"io"
	"testing"

	"expired-listings/models"
	"expired-listings/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLoggerTo(io.Discard, "error", "text") }

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw   string
		want  float64
		valid bool
	}{
		{"1250000", 1250000, true},
		{"$1,250,000", 1250000, true},
		{" 3 ", 3, true},
		{"2.5", 2.5, true},
		{"", 0, false},
		{"nan", 0, false},
		{"n/a", 0, false},
		{"1,850 sqft", 1850, true},
	}

	for _, tt := range tests {
		got := parseNumber(tt.raw)
		if got.Valid != tt.valid || got.Float64 != tt.want {
			t.Errorf("parseNumber(%q) = (%.2f, %v); want (%.2f, %v)", tt.raw, got.Float64, got.Valid, tt.want, tt.valid)
		}
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"1998", 1998},
		{"1998.0", 1998},
		{"", 0},
		{"unknown", 0},
	}

	for _, tt := range tests {
		if got := parseYear(tt.raw); got != tt.want {
			t.Errorf("parseYear(%q) = %d; want %d", tt.raw, got, tt.want)
		}
	}
}

func TestCleanerMapsColumnsByHeader(t *testing.T) {
	c := NewCleaner(newTestLogger())
	header := []string{"List Price", "Address", "MLS", "Year Built", "Property Type"}
	records := [][]string{
		{"$900,000", "  12 Elm St Vancouver BC  ", "R100", "", "  Single   Family "},
	}

	got := c.Clean(models.SourceOffMarket, header, records)
	if len(got) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(got))
	}

	l := got[0]
	if l.Address != "12 Elm St Vancouver BC" {
		t.Errorf("Address: got %q", l.Address)
	}
	if l.MLS != "R100" {
		t.Errorf("MLS: got %q", l.MLS)
	}
	if !l.ListPrice.Valid || l.ListPrice.Float64 != 900000 {
		t.Errorf("ListPrice: got %+v", l.ListPrice)
	}
	if l.YearBuilt != 0 {
		t.Errorf("YearBuilt: got %d, want 0 for a missing cell", l.YearBuilt)
	}
	if l.PropertyType != "Single Family" {
		t.Errorf("PropertyType: got %q", l.PropertyType)
	}
	if l.Bedrooms.Valid {
		t.Errorf("Bedrooms should be missing when the column is absent")
	}
}

func TestCleanerKeepsDuplicatesAndShortRows(t *testing.T) {
	c := NewCleaner(newTestLogger())
	header := []string{"Address", "Bedrooms"}
	records := [][]string{
		{"1 A St"},
		{"1 A St", "3"},
	}

	got := c.Clean(models.SourceSold, header, records)
	if len(got) != 2 {
		t.Fatalf("expected duplicates to be kept, got %d rows", len(got))
	}
	if got[0].Bedrooms.Valid {
		t.Errorf("short row should have missing Bedrooms")
	}
}
