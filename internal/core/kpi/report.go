package kpi

import (
	"math"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"traffic-analyzer/internal/core/domain"
)

// TopProducts returns up to n products ordered by quantity sold, highest
// first. The input slice is not modified.
func TopProducts(products []domain.Product, n int) []domain.Product {
	sorted := slices.Clone(products)
	slices.SortStableFunc(sorted, func(a, b domain.Product) int {
		return cmpDesc(float64(a.QuantitySold), float64(b.QuantitySold))
	})
	return head(sorted, n)
}

// TopCampaigns returns up to n campaigns ordered by spend, highest first.
// The input slice is not modified.
func TopCampaigns(campaigns []domain.Campaign, n int) []domain.Campaign {
	sorted := slices.Clone(campaigns)
	slices.SortStableFunc(sorted, func(a, b domain.Campaign) int {
		return cmpDesc(a.Spend, b.Spend)
	})
	return head(sorted, n)
}

// FilterCampaigns keeps campaigns whose name contains term, ignoring case.
// An empty term keeps everything.
func FilterCampaigns(campaigns []domain.Campaign, term string) []domain.Campaign {
	return filterByName(campaigns, term, func(c domain.Campaign) string { return c.Name })
}

// FilterProducts keeps products whose name contains term, ignoring case.
func FilterProducts(products []domain.Product, term string) []domain.Product {
	return filterByName(products, term, func(p domain.Product) string { return p.Name })
}

// Round rounds v half away from zero to the given decimal places, the way the
// dashboard prints money and percentages.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

func filterByName[T any](items []T, term string, name func(T) string) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if term == "" || strings.Contains(strings.ToLower(name(it)), term) {
			out = append(out, it)
		}
	}
	return out
}

func cmpDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

func head[T any](s []T, n int) []T {
	if n >= 0 && len(s) > n {
		return s[:n]
	}
	return s
}
