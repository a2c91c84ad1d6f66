package server

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expired-listings/apperrors"
	"expired-listings/models"
)

func TestParseFilters(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  *models.Filters
	}{
		{name: "not applied", query: "min_price=100", want: nil},
		{name: "applied empty", query: "applied=1", want: &models.Filters{}},
		{
			name:  "bounds and types",
			query: "applied=1&min_price=500000&max_price=1e6&min_beds=2&max_baths=3.5&max_dom=60&property_type=House&property_type=+Condo+&property_type=",
			want: &models.Filters{
				MinPrice:      500000,
				MaxPrice:      1000000,
				MinBeds:       2,
				MaxBaths:      3.5,
				MaxDOM:        60,
				PropertyTypes: []string{"House", "Condo"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := parseFilters(values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFiltersRejectsBadValues(t *testing.T) {
	for _, query := range []string{"applied=1&min_price=abc", "applied=1&max_dom=-5"} {
		values, err := url.ParseQuery(query)
		require.NoError(t, err)

		_, err = parseFilters(values)
		assert.True(t, apperrors.IsType(err, apperrors.TypeValidation), query)
	}
}

func TestEncodeFiltersRoundTrip(t *testing.T) {
	f := models.Filters{MinPrice: 250000, MaxBeds: 4, MinDOM: 7, PropertyTypes: []string{"House", "Duplex"}}

	got, err := parseFilters(encodeFilters(f))
	require.NoError(t, err)
	assert.Equal(t, &f, got)
}
