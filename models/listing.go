package models

import (
	"database/sql"
	"html/template"
	"time"

	"github.com/google/uuid"
)

// Column names as they appear in the MLS CSV exports.
const (
	ColMLS          = "MLS"
	ColAddress      = "Address"
	ColPropertyType = "Property Type"
	ColBedrooms     = "Bedrooms"
	ColBathrooms    = "Bathrooms"
	ColHouseSize    = "House Size (sqft)"
	ColListPrice    = "List Price"
	ColDaysOnMarket = "Days on Market"
	ColYearBuilt    = "Year Built"
	ColCancelDate   = "Listing Cancel Date"
	ColMLSLink      = "MLS Link"
)

// DisplayColumns is the column order of the results table.
var DisplayColumns = []string{
	ColMLSLink, ColAddress, ColPropertyType, ColBedrooms, ColBathrooms, ColHouseSize,
	ColListPrice, ColDaysOnMarket, ColYearBuilt, ColCancelDate,
}

// Source identifies which export a dataset came from.
type Source string

const (
	SourceOffMarket Source = "off-market"
	SourceSold      Source = "sold"
	SourceForSale   Source = "for-sale"
)

// Listing is one cleaned row of an MLS export. Numeric fields are invalid
// when the CSV cell was empty or unparseable.
type Listing struct {
	MLS          string
	Address      string
	PropertyType string
	Bedrooms     sql.NullFloat64
	Bathrooms    sql.NullFloat64
	HouseSize    sql.NullFloat64
	ListPrice    sql.NullFloat64
	DaysOnMarket sql.NullFloat64
	YearBuilt    int
	CancelDate   string
}

// Dataset is a loaded and cleaned CSV export.
type Dataset struct {
	Source   Source
	Columns  []string
	Listings []*Listing
}

// HasColumn reports whether the export carried the named header.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Analysis is the outcome of matching the three exports.
type Analysis struct {
	OffMarketRows int
	SoldRows      int
	ForSaleRows   int
	Expired       []*Listing
}

// Run is a persisted analysis.
type Run struct {
	ID            uuid.UUID
	CreatedAt     time.Time
	OffMarketRows int
	SoldRows      int
	ForSaleRows   int
	Listings      []*Listing
}

// RunSummary is the listing-free view of a Run used for index pages.
type RunSummary struct {
	ID            uuid.UUID `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	OffMarketRows int       `json:"off_market_rows"`
	SoldRows      int       `json:"sold_rows"`
	ForSaleRows   int       `json:"for_sale_rows"`
	ExpiredCount  int       `json:"expired_count"`
}

// DisplayRow is a formatted results-table row. Listing points back at the
// unformatted record so filters can compare raw values.
type DisplayRow struct {
	MLSLink      template.HTML
	Address      string
	PropertyType string
	Bedrooms     string
	Bathrooms    string
	HouseSize    string
	ListPrice    string
	DaysOnMarket string
	YearBuilt    string
	CancelDate   string

	Listing *Listing
}

// Filters holds the user's range selections. A zero bound is not applied.
type Filters struct {
	MinPrice float64
	MaxPrice float64
	MinBeds  float64
	MaxBeds  float64
	MinBaths float64
	MaxBaths float64
	MinDOM   float64
	MaxDOM   float64

	PropertyTypes []string
}

// FilterOptions are the choices offered for each filter, derived from the
// expired listings.
type FilterOptions struct {
	MaxPrice      int64    `json:"max_price"`
	Bedrooms      []int    `json:"bedrooms"`
	Bathrooms     []int    `json:"bathrooms"`
	DaysOnMarket  []int    `json:"days_on_market"`
	PropertyTypes []string `json:"property_types"`
}

// InsightReport holds summary statistics over a set of listings.
type InsightReport struct {
	TotalListings  int            `json:"total_listings"`
	PricedListings int            `json:"priced_listings"`
	AveragePrice   float64        `json:"average_price"`
	MedianPrice    float64        `json:"median_price"`
	MinPrice       float64        `json:"min_price"`
	MaxPrice       float64        `json:"max_price"`
	AverageDOM     float64        `json:"average_dom"`
	ByPropertyType map[string]int `json:"by_property_type"`
}
