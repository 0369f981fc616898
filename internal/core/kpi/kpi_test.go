package kpi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traffic-analyzer/internal/core/domain"
)

func TestCampaignRatiosZeroDenominators(t *testing.T) {
	cases := []struct {
		name string
		c    domain.Campaign
		want CampaignMetrics
	}{
		{name: "all zero", c: domain.Campaign{}, want: CampaignMetrics{}},
		{
			name: "spend without events",
			c:    domain.Campaign{Spend: 300},
			want: CampaignMetrics{},
		},
		{
			name: "conversions without spend",
			c:    domain.Campaign{Conversions: 4, Clicks: 10},
			want: CampaignMetrics{},
		},
		{
			name: "clicks without impressions",
			c:    domain.Campaign{Spend: 50, Clicks: 10},
			want: CampaignMetrics{CPC: 5},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ForCampaign(tc.c)
			assert.Equal(t, tc.want, got)
			for _, v := range []float64{got.CTR, got.CPC, got.CPA, got.ROAS} {
				assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
			}
		})
	}
}

func TestForCampaign(t *testing.T) {
	c := domain.Campaign{Spend: 4500, Impressions: 125000, Clicks: 3200, Conversions: 85}
	m := ForCampaign(c)
	assert.InDelta(t, 2.56, m.CTR, 1e-9)
	assert.InDelta(t, 1.40625, m.CPC, 1e-9)
	assert.InDelta(t, 52.941176, m.CPA, 1e-6)
	assert.InDelta(t, 85*Ticket/4500, m.ROAS, 1e-9)
}

func TestSummarize(t *testing.T) {
	campaigns := []domain.Campaign{
		{Spend: 100, Clicks: 10, Impressions: 1000, Conversions: 2},
		{Spend: 200, Clicks: 40, Impressions: 2000, Conversions: 8},
	}
	products := []domain.Product{{Revenue: 600}, {Revenue: 300}}

	s := Summarize(campaigns, products)
	assert.Equal(t, 300.0, s.TotalSpend)
	assert.Equal(t, int64(50), s.TotalClicks)
	assert.Equal(t, int64(3000), s.TotalImpressions)
	assert.Equal(t, int64(10), s.TotalConversions)
	assert.InDelta(t, 1.6666666, s.CTR, 1e-6)
	assert.InDelta(t, 6.0, s.CPC, 1e-9)
	assert.InDelta(t, 30.0, s.CPA, 1e-9)
	assert.InDelta(t, 20.0, s.ConversionRate, 1e-9)
	assert.Equal(t, 900.0, s.TotalRevenue)
	assert.Equal(t, 600.0, s.TotalProfit)
	assert.InDelta(t, 3.0, s.ROAS, 1e-9)
	assert.InDelta(t, 66.666666, s.Margin, 1e-6)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil)
	assert.Equal(t, Summary{}, s)
}

func TestSummarizeNegativeProfit(t *testing.T) {
	s := Summarize([]domain.Campaign{{Spend: 500}}, []domain.Product{{Revenue: 250}})
	assert.Equal(t, -250.0, s.TotalProfit)
	assert.InDelta(t, -100.0, s.Margin, 1e-9)
	assert.InDelta(t, 0.5, s.ROAS, 1e-9)
	assert.Zero(t, s.CTR)
	assert.Zero(t, s.CPC)
	assert.Zero(t, s.CPA)
	assert.Zero(t, s.ConversionRate)
}

func TestSummarizeIsIdempotent(t *testing.T) {
	campaigns := []domain.Campaign{
		{Spend: 4500, Impressions: 125000, Clicks: 3200, Conversions: 85},
		{Spend: 1200, Impressions: 45000, Clicks: 1100, Conversions: 42},
	}
	products := []domain.Product{{Revenue: 15000}, {Revenue: 8900}}
	before := append([]domain.Campaign(nil), campaigns...)

	first := Summarize(campaigns, products)
	second := Summarize(campaigns, products)
	require.Equal(t, first, second)
	require.Equal(t, before, campaigns)
}

func TestSpendByPlatform(t *testing.T) {
	campaigns := []domain.Campaign{
		{Platform: domain.PlatformInstagram, Spend: 30},
		{Platform: domain.PlatformFacebook, Spend: 100},
		{Platform: domain.PlatformFacebook, Spend: 50},
		{Platform: domain.PlatformTikTok, Spend: 0},
	}
	got := SpendByPlatform(campaigns)
	assert.Equal(t, []PlatformSpend{
		{Platform: domain.PlatformFacebook, Spend: 150},
		{Platform: domain.PlatformInstagram, Spend: 30},
	}, got)

	assert.Empty(t, SpendByPlatform(nil))
}
