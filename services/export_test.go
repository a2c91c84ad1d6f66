package services

import (
	"strings"
	"testing"

	"expired-listings/models"
)

func TestExportCSV(t *testing.T) {
	f := NewFormatter([]string{"Vancouver"})
	rows := f.PrepareDisplay([]*models.Listing{
		{MLS: "R1", Address: "1 A St Vancouver BC", PropertyType: "House", Bedrooms: num(3), Bathrooms: num(2),
			HouseSize: num(1800), ListPrice: num(1250000), DaysOnMarket: num(30), YearBuilt: 1999, CancelDate: "2024-01-02"},
		{MLS: "R2", Address: "2 B St, Unit 4", PropertyType: "Condo"},
	})

	out, err := ExportCSVBytes(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := strings.Join([]string{
		"Address,Property Type,Bedrooms,Bathrooms,House Size (sqft),List Price,Days on Market,Year Built,Listing Cancel Date,MLS",
		`1 A St Vancouver BC,House,3,2,1800,"$1,250,000",30,1999,2024-01-02,R1`,
		`"2 B St, Unit 4",Condo,,,,,,0,,R2`,
		"",
	}, "\n")
	if string(out) != want {
		t.Errorf("ExportCSV output:\n%s\nwant:\n%s", out, want)
	}
}

func TestMLSFromLink(t *testing.T) {
	tests := []struct {
		cell string
		want string
	}{
		{`<a href="https://x" target="_blank" data-mls="R1">R1</a>`, "R1"},
		{`<a href="https://x">A&amp;B</a>`, "A&B"},
		{"R7", "R7"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := MLSFromLink(tt.cell); got != tt.want {
			t.Errorf("MLSFromLink(%q) = %q; want %q", tt.cell, got, tt.want)
		}
	}
}
