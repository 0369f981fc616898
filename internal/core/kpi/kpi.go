// Package kpi derives marketing ratios from campaign and product records.
//
// Every function is pure and safe for concurrent use. A ratio whose
// denominator is zero is exactly 0, never NaN or Inf, so callers can render
// it without further checks.
package kpi

import "traffic-analyzer/internal/core/domain"

// Ticket is the assumed average sale value used for per-campaign ROAS, since
// campaigns carry no linked revenue.
const Ticket = 150.0

// ratio returns num/den, or 0 when den is 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// percent returns num/den*100, or 0 when den is 0.
func percent(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}

// CTR is clicks over impressions in percent.
func CTR(c domain.Campaign) float64 {
	return percent(float64(c.Clicks), float64(c.Impressions))
}

// CPC is spend per click.
func CPC(c domain.Campaign) float64 {
	return ratio(c.Spend, float64(c.Clicks))
}

// CPA is spend per conversion.
func CPA(c domain.Campaign) float64 {
	return ratio(c.Spend, float64(c.Conversions))
}

// SyntheticROAS values each conversion at Ticket and divides by spend.
func SyntheticROAS(c domain.Campaign) float64 {
	return ratio(float64(c.Conversions)*Ticket, c.Spend)
}

// CampaignMetrics holds the per-campaign figures shown in the campaign table.
type CampaignMetrics struct {
	CTR  float64 `json:"ctr"`
	CPC  float64 `json:"cpc"`
	CPA  float64 `json:"cpa"`
	ROAS float64 `json:"roas"`
}

// ForCampaign computes all per-campaign metrics of c.
func ForCampaign(c domain.Campaign) CampaignMetrics {
	return CampaignMetrics{
		CTR:  CTR(c),
		CPC:  CPC(c),
		CPA:  CPA(c),
		ROAS: SyntheticROAS(c),
	}
}

// Summary aggregates the whole campaign and product collections.
type Summary struct {
	TotalSpend       float64 `json:"totalSpend"`
	TotalRevenue     float64 `json:"totalRevenue"`
	TotalClicks      int64   `json:"totalClicks"`
	TotalImpressions int64   `json:"totalImpressions"`
	TotalConversions int64   `json:"totalConversions"`
	TotalProfit      float64 `json:"totalProfit"`
	ROAS             float64 `json:"roas"`
	CTR              float64 `json:"ctr"`
	CPC              float64 `json:"cpc"`
	CPA              float64 `json:"cpa"`
	ConversionRate   float64 `json:"conversionRate"`
	Margin           float64 `json:"margin"`
}

// Summarize computes the global figures. Revenue comes only from products and
// spend only from campaigns; the two are combined at this level alone.
func Summarize(campaigns []domain.Campaign, products []domain.Product) Summary {
	var s Summary
	for _, c := range campaigns {
		s.TotalSpend += c.Spend
		s.TotalClicks += c.Clicks
		s.TotalImpressions += c.Impressions
		s.TotalConversions += c.Conversions
	}
	for _, p := range products {
		s.TotalRevenue += p.Revenue
	}

	clicks := float64(s.TotalClicks)
	s.TotalProfit = s.TotalRevenue - s.TotalSpend
	s.ROAS = ratio(s.TotalRevenue, s.TotalSpend)
	s.CTR = percent(clicks, float64(s.TotalImpressions))
	s.CPC = ratio(s.TotalSpend, clicks)
	s.CPA = ratio(s.TotalSpend, float64(s.TotalConversions))
	s.ConversionRate = percent(float64(s.TotalConversions), clicks)
	s.Margin = percent(s.TotalProfit, s.TotalRevenue)
	return s
}

// PlatformSpend is one slice of the spend distribution chart.
type PlatformSpend struct {
	Platform domain.Platform `json:"platform"`
	Spend    float64         `json:"spend"`
}

// SpendByPlatform sums spend per platform in domain.Platforms order.
// Platforms whose total is zero are left out.
func SpendByPlatform(campaigns []domain.Campaign) []PlatformSpend {
	totals := make(map[domain.Platform]float64, len(domain.Platforms))
	for _, c := range campaigns {
		totals[c.Platform] += c.Spend
	}
	out := make([]PlatformSpend, 0, len(domain.Platforms))
	for _, p := range domain.Platforms {
		if v := totals[p]; v != 0 {
			out = append(out, PlatformSpend{Platform: p, Spend: v})
		}
	}
	return out
}
