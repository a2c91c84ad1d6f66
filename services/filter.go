package services

import (
	"database/sql"
	"math"
	"sort"

	"expired-listings/models"
)

// ApplyFilters keeps the rows whose raw listing satisfies every applied
// bound. Bounds are inclusive and a zero bound is not applied. A listing
// with a missing value fails any bound applied to that field.
func ApplyFilters(rows []*models.DisplayRow, f models.Filters) []*models.DisplayRow {
	var types map[string]struct{}
	if len(f.PropertyTypes) > 0 {
		types = make(map[string]struct{}, len(f.PropertyTypes))
		for _, t := range f.PropertyTypes {
			types[t] = struct{}{}
		}
	}

	out := make([]*models.DisplayRow, 0, len(rows))
	for _, row := range rows {
		l := row.Listing
		if !inRange(l.ListPrice, f.MinPrice, f.MaxPrice) ||
			!inRange(l.Bedrooms, f.MinBeds, f.MaxBeds) ||
			!inRange(l.Bathrooms, f.MinBaths, f.MaxBaths) ||
			!inRange(l.DaysOnMarket, f.MinDOM, f.MaxDOM) {
			continue
		}
		if types != nil {
			if _, ok := types[l.PropertyType]; !ok {
				continue
			}
		}
		out = append(out, row)
	}
	return out
}

func inRange(v sql.NullFloat64, min, max float64) bool {
	if min != 0 && (!v.Valid || v.Float64 < min) {
		return false
	}
	if max != 0 && (!v.Valid || v.Float64 > max) {
		return false
	}
	return true
}

// Options derives the filter choices offered for a set of listings.
func Options(listings []*models.Listing) models.FilterOptions {
	var opts models.FilterOptions

	maxPrice := math.Inf(-1)
	beds := map[int]struct{}{}
	baths := map[int]struct{}{}
	dom := map[int]struct{}{}
	types := map[string]struct{}{}

	for _, l := range listings {
		if l.ListPrice.Valid && l.ListPrice.Float64 > maxPrice {
			maxPrice = l.ListPrice.Float64
		}
		if l.Bedrooms.Valid && l.Bedrooms.Float64 > 0 {
			addOption(beds, l.Bedrooms.Float64)
		}
		if l.Bathrooms.Valid && l.Bathrooms.Float64 > 0 {
			addOption(baths, l.Bathrooms.Float64)
		}
		if l.DaysOnMarket.Valid && l.DaysOnMarket.Float64 >= 0 {
			addOption(dom, l.DaysOnMarket.Float64)
		}
		if l.PropertyType != "" {
			types[l.PropertyType] = struct{}{}
		}
	}

	if !math.IsInf(maxPrice, -1) {
		opts.MaxPrice = int64(math.Ceil(maxPrice))
	}
	opts.Bedrooms = sortedInts(beds)
	opts.Bathrooms = sortedInts(baths)
	opts.DaysOnMarket = sortedInts(dom)

	opts.PropertyTypes = make([]string, 0, len(types))
	for t := range types {
		opts.PropertyTypes = append(opts.PropertyTypes, t)
	}
	sort.Strings(opts.PropertyTypes)

	return opts
}

// DefaultFilters selects the full range of every option: any price up to
// the maximum, and the smallest to largest bedroom, bathroom and DOM value.
func DefaultFilters(opts models.FilterOptions) models.Filters {
	f := models.Filters{MaxPrice: float64(opts.MaxPrice)}
	f.MinBeds, f.MaxBeds = bounds(opts.Bedrooms)
	f.MinBaths, f.MaxBaths = bounds(opts.Bathrooms)
	f.MinDOM, f.MaxDOM = bounds(opts.DaysOnMarket)
	return f
}

func bounds(values []int) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return float64(values[0]), float64(values[len(values)-1])
}

// addOption records both integers around a fractional value so the default
// range still covers it.
func addOption(set map[int]struct{}, v float64) {
	set[int(math.Floor(v))] = struct{}{}
	set[int(math.Ceil(v))] = struct{}{}
}

func sortedInts(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
