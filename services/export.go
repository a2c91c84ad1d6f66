package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"regexp"

	"expired-listings/models"
)

// ExportFileName is the download name offered for exports.
const ExportFileName = "expired_listings.csv"

var anchorTextRegexp = regexp.MustCompile(`>([^<]+)</a>`)

// ExportColumns is the header of an export: the display columns without the
// link column, followed by the plain MLS number.
var ExportColumns = []string{
	models.ColAddress, models.ColPropertyType, models.ColBedrooms, models.ColBathrooms,
	models.ColHouseSize, models.ColListPrice, models.ColDaysOnMarket, models.ColYearBuilt,
	models.ColCancelDate, models.ColMLS,
}

// ExportCSV writes rows as CSV with HTML stripped from the MLS column.
func ExportCSV(w io.Writer, rows []*models.DisplayRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ExportColumns); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.Address,
			r.PropertyType,
			r.Bedrooms,
			r.Bathrooms,
			r.HouseSize,
			r.ListPrice,
			r.DaysOnMarket,
			r.YearBuilt,
			r.CancelDate,
			MLSFromLink(string(r.MLSLink)),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export: write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportCSVBytes is ExportCSV into memory.
func ExportCSVBytes(rows []*models.DisplayRow) ([]byte, error) {
	var buf bytes.Buffer
	if err := ExportCSV(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MLSFromLink returns the anchor text of a rendered MLS link, or the cell
// itself when it holds a bare MLS number.
func MLSFromLink(cell string) string {
	if m := anchorTextRegexp.FindStringSubmatch(cell); len(m) == 2 {
		return html.UnescapeString(m[1])
	}
	return html.UnescapeString(cell)
}
