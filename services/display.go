package services

import (
	"database/sql"
	"fmt"
	"html"
	"html/template"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"expired-listings/models"
)

const zealtyURLFormat = "https://www.zealty.ca/mls-%s/%s-%s-%s-%s/"

// Formatter turns listings into display rows.
type Formatter struct {
	cities map[string]struct{}
}

// NewFormatter creates a Formatter that recognises the given city names when
// splitting addresses for MLS links.
func NewFormatter(cities []string) *Formatter {
	set := make(map[string]struct{}, len(cities))
	for _, c := range cities {
		set[c] = struct{}{}
	}
	return &Formatter{cities: set}
}

// PrepareDisplay formats every listing for the results table.
func (f *Formatter) PrepareDisplay(listings []*models.Listing) []*models.DisplayRow {
	rows := make([]*models.DisplayRow, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, &models.DisplayRow{
			MLSLink:      f.MLSLink(l),
			Address:      l.Address,
			PropertyType: l.PropertyType,
			Bedrooms:     FormatNumber(l.Bedrooms),
			Bathrooms:    FormatNumber(l.Bathrooms),
			HouseSize:    FormatNumber(l.HouseSize),
			ListPrice:    FormatPrice(l.ListPrice),
			DaysOnMarket: FormatNumber(l.DaysOnMarket),
			YearBuilt:    strconv.Itoa(l.YearBuilt),
			CancelDate:   l.CancelDate,
			Listing:      l,
		})
	}
	return rows
}

// MLSLink renders an anchor to the listing's Zealty page. Addresses that do
// not contain a known city followed by a province fall back to the bare MLS
// number.
func (f *Formatter) MLSLink(l *models.Listing) template.HTML {
	mls := html.EscapeString(l.MLS)

	url, ok := f.zealtyURL(l)
	if !ok {
		return template.HTML(mls)
	}

	return template.HTML(fmt.Sprintf(`<a href="%s" target="_blank" data-mls="%s">%s</a>`,
		html.EscapeString(url), mls, mls))
}

func (f *Formatter) zealtyURL(l *models.Listing) (string, bool) {
	if l.MLS == "" || l.Address == "" {
		return "", false
	}

	parts := strings.Split(l.Address, " ")
	cityIdx := -1
	for i, part := range parts {
		if _, ok := f.cities[part]; ok {
			cityIdx = i
			break
		}
	}
	if cityIdx < 0 || cityIdx+1 >= len(parts) {
		return "", false
	}

	streetNum := parts[0]
	streetName := ""
	if cityIdx > 1 {
		streetName = strings.ToUpper(strings.Join(parts[1:cityIdx], "-"))
	}
	city := parts[cityIdx]
	province := parts[cityIdx+1]

	return fmt.Sprintf(zealtyURLFormat, l.MLS, streetNum, streetName, city, province), true
}

// FormatPrice renders a whole-dollar amount with thousands separators.
func FormatPrice(n sql.NullFloat64) string {
	if !n.Valid {
		return ""
	}
	return "$" + humanize.Comma(int64(math.RoundToEven(n.Float64)))
}

// FormatNumber renders integral values without a decimal point.
func FormatNumber(n sql.NullFloat64) string {
	if !n.Valid {
		return ""
	}
	if n.Float64 == math.Trunc(n.Float64) && math.Abs(n.Float64) < 1e15 {
		return strconv.FormatInt(int64(n.Float64), 10)
	}
	return strconv.FormatFloat(n.Float64, 'f', -1, 64)
}

func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}
