package services

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"expired-listings/models"
	"expired-listings/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(listings []*models.Listing) *models.InsightReport {
	report := &models.InsightReport{
		ByPropertyType: make(map[string]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)

	var prices, dom []float64
	for _, l := range listings {
		if l.ListPrice.Valid && l.ListPrice.Float64 > 0 {
			prices = append(prices, l.ListPrice.Float64)
		}
		if l.DaysOnMarket.Valid && l.DaysOnMarket.Float64 >= 0 {
			dom = append(dom, l.DaysOnMarket.Float64)
		}
		if l.PropertyType != "" {
			report.ByPropertyType[l.PropertyType]++
		}
	}

	// Price stats (only listings with price > 0)
	if len(prices) > 0 {
		sort.Float64s(prices)
		report.PricedListings = len(prices)
		report.MinPrice = round2(prices[0])
		report.MaxPrice = round2(prices[len(prices)-1])
		report.AveragePrice = round2(stat.Mean(prices, nil))
		report.MedianPrice = round2(stat.Quantile(0.5, stat.Empirical, prices, nil))
	}

	if len(dom) > 0 {
		report.AverageDOM = round2(stat.Mean(dom, nil))
	}

	s.logger.Debug("[insights] %d listings, %d priced", report.TotalListings, report.PricedListings)
	return report
}

func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n%s\n", sep)
	fmt.Fprintf(w, "  EXPIRED LISTING INSIGHTS\n")
	fmt.Fprintf(w, "%s\n\n", sep)

	fmt.Fprintf(w, "  Overview\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Expired, unlisted properties : %d\n", r.TotalListings)
	fmt.Fprintf(w, "  With a list price            : %d\n", r.PricedListings)
	fmt.Fprintf(w, "  Average days on market       : %.1f\n", r.AverageDOM)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Price Statistics\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.PricedListings > 0 {
		fmt.Fprintf(w, "  Average price : %s\n", formatDollars(r.AveragePrice))
		fmt.Fprintf(w, "  Median price  : %s\n", formatDollars(r.MedianPrice))
		fmt.Fprintf(w, "  Minimum price : %s\n", formatDollars(r.MinPrice))
		fmt.Fprintf(w, "  Maximum price : %s\n", formatDollars(r.MaxPrice))
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Listings by Property Type\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ByPropertyType) == 0 {
		fmt.Fprintf(w, "  No property type data\n")
	} else {
		for _, tc := range SortedTypeCounts(r.ByPropertyType) {
			bar := strings.Repeat("█", min(tc.Count, 40))
			fmt.Fprintf(w, "  %-28s %s (%d)\n", truncate(tc.Type, 26), bar, tc.Count)
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", sep)
}

// TypeCount is one property type and its listing count.
type TypeCount struct {
	Type  string
	Count int
}

// SortedTypeCounts orders property types by count descending, then name.
func SortedTypeCounts(counts map[string]int) []TypeCount {
	out := make([]TypeCount, 0, len(counts))
	for t, c := range counts {
		out = append(out, TypeCount{Type: t, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}

func formatDollars(v float64) string {
	return FormatPrice(nullFloat(v))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
