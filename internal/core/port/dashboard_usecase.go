package port

import (
	"context"
	"io"

	"traffic-analyzer/internal/core/domain"
	"traffic-analyzer/internal/core/kpi"
)

// DashboardUseCase is the primary port used by the HTTP adapter. Every
// mutation replaces the affected collection as a whole and persists the
// full state before it becomes visible. Failed operations leave existing
// data untouched.
type DashboardUseCase interface {
	// Snapshot returns a copy of the current state.
	Snapshot() domain.AppState
	// Summary computes the dashboard figures from the current state.
	Summary() DashboardSummary
	// Report returns the top n products by quantity and campaigns by spend.
	Report(n int) Report

	ListCampaigns(term string) []CampaignView
	CreateCampaign(ctx context.Context, c domain.Campaign) (domain.Campaign, error)
	UpdateCampaign(ctx context.Context, id string, c domain.Campaign) (domain.Campaign, error)
	DeleteCampaign(ctx context.Context, id string) error
	// ImportCampaigns appends every valid CSV row at once, or nothing when
	// the input cannot be read.
	ImportCampaigns(ctx context.Context, r io.Reader) (int, error)
	// AddCampaign prepends c unless a campaign with the same id exists.
	AddCampaign(ctx context.Context, c domain.Campaign) error

	ListProducts(term string) []domain.Product
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, p domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListUsers() []domain.User
	AddUser(ctx context.Context, u domain.User) (domain.User, error)

	PixelID() string
	SetPixelID(ctx context.Context, id string) error
	// ClearAll drops products, campaigns and the pixel id, keeping users.
	ClearAll(ctx context.Context) error

	// IngestMessage extracts a metric from text and stores it as a campaign.
	IngestMessage(ctx context.Context, text string) (domain.Campaign, error)
	// Activity returns the ingestion feed, newest first.
	Activity() []domain.ActivityEntry
}

// CampaignView pairs a campaign with its derived metrics.
type CampaignView struct {
	domain.Campaign
	Metrics kpi.CampaignMetrics `json:"metrics"`
}

// DashboardSummary is the data behind the dashboard page.
type DashboardSummary struct {
	Totals       kpi.Summary         `json:"totals"`
	Distribution []kpi.PlatformSpend `json:"distribution"`
	HasData      bool                `json:"hasData"`
}

// Report is the data behind the reports page.
type Report struct {
	TopProducts  []domain.Product  `json:"topProducts"`
	TopCampaigns []domain.Campaign `json:"topCampaigns"`
}
