package db

import (
	"context"
	"errors"

	"traffic-analyzer/internal/core/domain"
	"traffic-analyzer/internal/core/port"
)

// DemoState returns the sample products, campaigns and admin user a fresh
// installation starts with.
func DemoState() domain.AppState {
	return domain.AppState{
		Products: []domain.Product{
			{ID: "1", Name: "Digital Marketing Course", QuantitySold: 150, Revenue: 15000, CostPerUnit: 20},
			{ID: "2", Name: "Ads Strategy E-book", QuantitySold: 300, Revenue: 8900, CostPerUnit: 5},
			{ID: "3", Name: "One-on-one Consulting", QuantitySold: 12, Revenue: 24000, CostPerUnit: 100},
		},
		Campaigns: []domain.Campaign{
			{
				ID: "1", Name: "Summer Launch 2024", Platform: domain.PlatformFacebook,
				Spend: 4500, Impressions: 125000, Clicks: 3200, Conversions: 85,
				Status: domain.StatusActive, Date: "2024-01-15",
			},
			{
				ID: "2", Name: "E-book Remarketing", Platform: domain.PlatformGoogle,
				Spend: 1200, Impressions: 45000, Clicks: 1100, Conversions: 42,
				Status: domain.StatusActive, Date: "2024-01-20",
			},
			{
				ID: "3", Name: "Cold Traffic - Instagram", Platform: domain.PlatformInstagram,
				Spend: 3200, Impressions: 98000, Clicks: 2100, Conversions: 31,
				Status: domain.StatusPaused, Date: "2023-12-10",
			},
		},
		Users: []domain.User{
			{ID: "admin-1", Name: "Main Administrator", Email: "admin@example.com", Role: domain.RoleAdmin},
		},
	}
}

// Seed saves DemoState when repo holds nothing yet. It reports whether it
// wrote anything.
func Seed(ctx context.Context, repo port.StateRepository) (bool, error) {
	_, err := repo.Load(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, port.ErrStateNotFound) {
		return false, err
	}
	if err = repo.Save(ctx, DemoState()); err != nil {
		return false, err
	}
	return true, nil
}
