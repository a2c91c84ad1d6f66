package services

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"expired-listings/models"
)

const defaultPriceBins = 10

// PriceBucket is one histogram bar: listings priced in [Low, High).
type PriceBucket struct {
	Low   float64
	High  float64
	Count int
}

// PriceHistogram buckets positive list prices into equal-width bins. The
// highest price falls into the last bin.
func PriceHistogram(listings []*models.Listing, bins int) []PriceBucket {
	if bins < 1 {
		bins = defaultPriceBins
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	var prices []float64
	for _, l := range listings {
		if !l.ListPrice.Valid || l.ListPrice.Float64 <= 0 {
			continue
		}
		p := l.ListPrice.Float64
		prices = append(prices, p)
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}
	if len(prices) == 0 {
		return nil
	}

	if lo == hi {
		return []PriceBucket{{Low: lo, High: hi, Count: len(prices)}}
	}

	width := (hi - lo) / float64(bins)
	buckets := make([]PriceBucket, bins)
	for i := range buckets {
		buckets[i].Low = lo + float64(i)*width
		buckets[i].High = lo + float64(i+1)*width
	}
	for _, p := range prices {
		i := int((p - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		buckets[i].Count++
	}
	return buckets
}

// RenderPriceChart writes a standalone HTML page with a price histogram.
func RenderPriceChart(w io.Writer, listings []*models.Listing) error {
	buckets := PriceHistogram(listings, defaultPriceBins)

	labels := make([]string, 0, len(buckets))
	data := make([]opts.BarData, 0, len(buckets))
	for _, b := range buckets {
		labels = append(labels, fmt.Sprintf("%s–%s", compactDollars(b.Low), compactDollars(b.High)))
		data = append(data, opts.BarData{Value: b.Count})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "List Price Distribution", Width: "100%", Height: "320px"}),
		charts.WithTitleOpts(opts.Title{Title: "List Price Distribution", Subtitle: fmt.Sprintf("%d priced listings", countPriced(buckets))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Listings"}),
	)
	bar.SetXAxis(labels).AddSeries("Listings", data)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("chart: render: %w", err)
	}
	return nil
}

// RenderPriceChartString is RenderPriceChart into a string.
func RenderPriceChartString(listings []*models.Listing) (string, error) {
	var buf bytes.Buffer
	if err := RenderPriceChart(&buf, listings); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func countPriced(buckets []PriceBucket) int {
	n := 0
	for _, b := range buckets {
		n += b.Count
	}
	return n
}

func compactDollars(v float64) string {
	switch {
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.0fK", v/1e3)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}
