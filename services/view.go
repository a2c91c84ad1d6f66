package services

import (
	"expired-listings/models"
)

// ResultView is everything the results page and the exports need for one
// filtered analysis.
type ResultView struct {
	Total   int
	Rows    []*models.DisplayRow
	Options models.FilterOptions
	Filters models.Filters
	Report  *models.InsightReport
}

// Listings returns the raw listings behind the filtered rows.
func (v *ResultView) Listings() []*models.Listing {
	out := make([]*models.Listing, 0, len(v.Rows))
	for _, r := range v.Rows {
		out = append(out, r.Listing)
	}
	return out
}

// BuildView formats, filters and summarises expired listings. A nil filters
// selects DefaultFilters for the listings' options.
func BuildView(formatter *Formatter, insights *InsightService, expired []*models.Listing, filters *models.Filters) *ResultView {
	options := Options(expired)

	f := DefaultFilters(options)
	if filters != nil {
		f = *filters
	}

	rows := ApplyFilters(formatter.PrepareDisplay(expired), f)

	v := &ResultView{
		Total:   len(expired),
		Rows:    rows,
		Options: options,
		Filters: f,
	}
	v.Report = insights.Generate(v.Listings())
	return v
}
