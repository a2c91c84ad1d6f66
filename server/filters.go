package server

import (
	"net/url"
	"strconv"
	"strings"

	"expired-listings/apperrors"
	"expired-listings/models"
)

// filterParams maps query and form field names onto the filter bounds.
var filterParams = []struct {
	name  string
	field func(*models.Filters) *float64
}{
	{"min_price", func(f *models.Filters) *float64 { return &f.MinPrice }},
	{"max_price", func(f *models.Filters) *float64 { return &f.MaxPrice }},
	{"min_beds", func(f *models.Filters) *float64 { return &f.MinBeds }},
	{"max_beds", func(f *models.Filters) *float64 { return &f.MaxBeds }},
	{"min_baths", func(f *models.Filters) *float64 { return &f.MinBaths }},
	{"max_baths", func(f *models.Filters) *float64 { return &f.MaxBaths }},
	{"min_dom", func(f *models.Filters) *float64 { return &f.MinDOM }},
	{"max_dom", func(f *models.Filters) *float64 { return &f.MaxDOM }},
}

const (
	paramApplied      = "applied"
	paramPropertyType = "property_type"
)

// parseFilters reads filter selections. It returns nil, meaning the
// defaults for the run, unless the filter form was submitted.
func parseFilters(values url.Values) (*models.Filters, error) {
	if values.Get(paramApplied) == "" {
		return nil, nil
	}

	var f models.Filters
	for _, p := range filterParams {
		raw := strings.TrimSpace(values.Get(p.name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return nil, apperrors.ValidationError("Invalid filter value").WithField(p.name, raw)
		}
		*p.field(&f) = v
	}

	for _, t := range values[paramPropertyType] {
		if t = strings.TrimSpace(t); t != "" {
			f.PropertyTypes = append(f.PropertyTypes, t)
		}
	}
	return &f, nil
}

// encodeFilters is the inverse of parseFilters.
func encodeFilters(f models.Filters) url.Values {
	values := url.Values{paramApplied: {"1"}}
	for _, p := range filterParams {
		if v := *p.field(&f); v != 0 {
			values.Set(p.name, strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	for _, t := range f.PropertyTypes {
		values.Add(paramPropertyType, t)
	}
	return values
}
