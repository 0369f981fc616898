package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"traffic-analyzer/internal/adapter/memory"
	"traffic-analyzer/internal/core/domain"
	"traffic-analyzer/internal/core/extractor"
	"traffic-analyzer/internal/core/port"
	"traffic-analyzer/internal/core/port/mocks"
	"traffic-analyzer/internal/metrics"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id%08d", n)
	}
}

func newTestDashboard(t *testing.T, repo port.StateRepository, opts ...Option) *Dashboard {
	t.Helper()
	base := []Option{
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(sequentialIDs()),
	}
	d := NewDashboard(repo, discardLogger(), append(base, opts...)...)
	require.NoError(t, d.Load(context.Background()))
	return d
}

func validCampaign(name string) domain.Campaign {
	return domain.Campaign{
		Name:        name,
		Platform:    domain.PlatformGoogle,
		Spend:       100,
		Impressions: 1000,
		Clicks:      10,
		Conversions: 2,
	}
}

func TestCampaignLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStateRepository()
	d := newTestDashboard(t, repo)

	created, err := d.CreateCampaign(ctx, validCampaign("Launch"))
	require.NoError(t, err)
	assert.Equal(t, "id00000001", created.ID)
	assert.Equal(t, domain.StatusActive, created.Status)
	assert.Equal(t, domain.Date("2024-06-01"), created.Date)

	upd := validCampaign("Launch v2")
	upd.Status = domain.StatusPaused
	upd.Date = "2024-05-30"
	updated, err := d.UpdateCampaign(ctx, created.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	views := d.ListCampaigns("v2")
	require.Len(t, views, 1)
	assert.Equal(t, domain.StatusPaused, views[0].Status)
	assert.InDelta(t, 1.0, views[0].Metrics.CTR, 1e-9)
	assert.InDelta(t, 10.0, views[0].Metrics.CPC, 1e-9)
	assert.InDelta(t, 3.0, views[0].Metrics.ROAS, 1e-9)

	persisted, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Launch v2", persisted.Campaigns[0].Name)

	require.NoError(t, d.DeleteCampaign(ctx, created.ID))
	assert.Empty(t, d.Snapshot().Campaigns)
	assert.ErrorIs(t, d.DeleteCampaign(ctx, created.ID), domain.ErrNotFound)
	_, err = d.UpdateCampaign(ctx, "missing", validCampaign("x"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateCampaignRejectsInvalidInput(t *testing.T) {
	d := newTestDashboard(t, memory.NewStateRepository())

	bad := validCampaign("Neg")
	bad.Spend = -1
	_, err := d.CreateCampaign(context.Background(), bad)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "spend", verr.Field)

	bad = validCampaign("Bad platform")
	bad.Platform = "Snapchat"
	_, err = d.CreateCampaign(context.Background(), bad)
	require.ErrorAs(t, err, &verr)

	inconsistent := validCampaign("More clicks than impressions")
	inconsistent.Clicks = 5000
	_, err = d.CreateCampaign(context.Background(), inconsistent)
	require.NoError(t, err)
	assert.Len(t, d.Snapshot().Campaigns, 1)
}

func TestFailedSaveKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMockStateRepository(t)
	seed := domain.EmptyState()
	seed.Campaigns = []domain.Campaign{validCampaign("Existing")}
	seed.Campaigns[0].ID = "keep"
	repo.EXPECT().Load(mock.Anything).Return(seed, nil).Once()
	repo.EXPECT().Save(mock.Anything, mock.Anything).Return(errors.New("disk full"))

	m := metrics.New("test")
	d := newTestDashboard(t, repo, WithMetrics(m))

	_, err := d.CreateCampaign(ctx, validCampaign("New"))
	require.Error(t, err)
	require.Error(t, d.DeleteCampaign(ctx, "keep"))
	require.Error(t, d.ClearAll(ctx))

	snap := d.Snapshot()
	require.Len(t, snap.Campaigns, 1)
	assert.Equal(t, "keep", snap.Campaigns[0].ID)
}

func TestImportCampaigns(t *testing.T) {
	ctx := context.Background()
	d := newTestDashboard(t, memory.NewStateRepository())
	_, err := d.CreateCampaign(ctx, validCampaign("Manual"))
	require.NoError(t, err)

	sheet := "Name,Platform,Spend,Impressions,Clicks,Conversions\nTest,Google,abc,1000,50,5\n,Facebook,1,1,1,1\nSecond,TikTok,20,200,4,1\n"
	n, err := d.ImportCampaigns(ctx, strings.NewReader(sheet))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	campaigns := d.Snapshot().Campaigns
	require.Len(t, campaigns, 3)
	assert.Equal(t, "Manual", campaigns[0].Name)
	assert.Equal(t, "Test", campaigns[1].Name)
	assert.Zero(t, campaigns[1].Spend)
	assert.Equal(t, domain.Date("2024-06-01"), campaigns[2].Date)
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("upload interrupted") }

func TestImportReadFailureAddsNothing(t *testing.T) {
	d := newTestDashboard(t, memory.NewStateRepository())
	n, err := d.ImportCampaigns(context.Background(), brokenReader{})
	require.Error(t, err)
	assert.Zero(t, n)
	assert.Empty(t, d.Snapshot().Campaigns)
}

func TestAddCampaignPrependsAndIgnoresDuplicates(t *testing.T) {
	ctx := context.Background()
	d := newTestDashboard(t, memory.NewStateRepository())
	_, err := d.CreateCampaign(ctx, validCampaign("First"))
	require.NoError(t, err)

	pulse := validCampaign("Pulse")
	pulse.ID = "WA-ABCDE"
	pulse.Date = "2024-06-01"
	pulse.Status = domain.StatusActive
	require.NoError(t, d.AddCampaign(ctx, pulse))
	require.NoError(t, d.AddCampaign(ctx, pulse))

	campaigns := d.Snapshot().Campaigns
	require.Len(t, campaigns, 2)
	assert.Equal(t, "WA-ABCDE", campaigns[0].ID)
}

func TestProductsUsersAndSettings(t *testing.T) {
	ctx := context.Background()
	d := newTestDashboard(t, memory.NewStateRepository())

	p, err := d.CreateProduct(ctx, domain.Product{Name: "Course", QuantitySold: 10, Revenue: 1000, CostPerUnit: 5})
	require.NoError(t, err)
	_, err = d.UpdateProduct(ctx, p.ID, domain.Product{Name: "Course Pro", QuantitySold: 20, Revenue: 3000})
	require.NoError(t, err)
	assert.Len(t, d.ListProducts("pro"), 1)
	_, err = d.CreateProduct(ctx, domain.Product{Name: "Bad", Revenue: -3})
	require.Error(t, err)

	u, err := d.AddUser(ctx, domain.User{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleViewer, u.Role)
	_, err = d.AddUser(ctx, domain.User{Name: "Ana again", Email: "ANA@example.com"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	require.NoError(t, d.SetPixelID(ctx, " 123456789012345 "))
	assert.Equal(t, "123456789012345", d.PixelID())

	_, err = d.CreateCampaign(ctx, validCampaign("C"))
	require.NoError(t, err)
	require.NoError(t, d.ClearAll(ctx))
	snap := d.Snapshot()
	assert.Empty(t, snap.Campaigns)
	assert.Empty(t, snap.Products)
	assert.Empty(t, snap.MetaPixelID)
	assert.Len(t, snap.Users, 1)

	assert.ErrorIs(t, d.DeleteProduct(ctx, p.ID), domain.ErrNotFound)
}

func TestSummaryAndReport(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStateRepository()
	state := domain.EmptyState()
	state.Campaigns = []domain.Campaign{
		{ID: "a", Name: "A", Platform: domain.PlatformFacebook, Spend: 100, Clicks: 10, Impressions: 1000, Conversions: 2, Status: domain.StatusActive, Date: "2024-01-01"},
		{ID: "b", Name: "B", Platform: domain.PlatformGoogle, Spend: 200, Clicks: 40, Impressions: 2000, Conversions: 8, Status: domain.StatusActive, Date: "2024-01-01"},
	}
	state.Products = []domain.Product{{ID: "p", Name: "P", QuantitySold: 3, Revenue: 900}}
	require.NoError(t, repo.Save(ctx, state))
	d := newTestDashboard(t, repo)

	s := d.Summary()
	assert.True(t, s.HasData)
	assert.Equal(t, 300.0, s.Totals.TotalSpend)
	assert.InDelta(t, 6.0, s.Totals.CPC, 1e-9)
	assert.InDelta(t, 3.0, s.Totals.ROAS, 1e-9)
	require.Len(t, s.Distribution, 2)

	r := d.Report(1)
	require.Len(t, r.TopCampaigns, 1)
	assert.Equal(t, "b", r.TopCampaigns[0].ID)
	assert.Len(t, r.TopProducts, 1)
}

func newIngestDashboard(t *testing.T, svc port.TextCompletionService) *Dashboard {
	x := extractor.New(svc, extractor.WithClock(func() time.Time { return testNow }))
	return newTestDashboard(t, memory.NewStateRepository(), WithExtractor(x), WithMetrics(metrics.New("test")))
}

func TestIngestMessage(t *testing.T) {
	svc := mocks.NewMockTextCompletionService(t)
	svc.EXPECT().
		Complete(mock.Anything, mock.Anything).
		Return([]byte(`{"spend":1200,"conversions":45,"platform":"TikTok"}`), nil)
	d := newIngestDashboard(t, svc)

	c, err := d.IngestMessage(context.Background(), "Spent 1200 on TikTok today, 45 conversions")
	require.NoError(t, err)
	assert.Equal(t, "WA-ID000", c.ID)
	assert.Equal(t, "WA_TIKTOK_AUTO", c.Name)
	assert.Equal(t, int64(18000), c.Impressions)
	assert.Equal(t, int64(960), c.Clicks)
	assert.Equal(t, int64(45), c.Conversions)
	assert.Equal(t, domain.Date("2024-06-01"), c.Date)

	campaigns := d.Snapshot().Campaigns
	require.Len(t, campaigns, 1)
	assert.Equal(t, c, campaigns[0])

	feed := d.Activity()
	require.Len(t, feed, 2)
	assert.Equal(t, domain.ActivitySuccess, feed[0].Level)
	assert.Contains(t, feed[0].Message, "1200.00")
	assert.Equal(t, domain.ActivityInfo, feed[1].Level)
}

func TestIngestMessageKeepsExplicitClicks(t *testing.T) {
	svc := mocks.NewMockTextCompletionService(t)
	svc.EXPECT().
		Complete(mock.Anything, mock.Anything).
		Return([]byte(`{"spend":500,"clicks":12,"platform":"Facebook"}`), nil)
	d := newIngestDashboard(t, svc)

	c, err := d.IngestMessage(context.Background(), "500 on face, 12 clicks")
	require.NoError(t, err)
	assert.Equal(t, int64(12), c.Clicks)
}

func TestIngestMessageFailureLeavesCampaignsUnchanged(t *testing.T) {
	svc := mocks.NewMockTextCompletionService(t)
	svc.EXPECT().Complete(mock.Anything, mock.Anything).Return(nil, errors.New("service unavailable"))
	d := newIngestDashboard(t, svc)
	_, err := d.CreateCampaign(context.Background(), validCampaign("Existing"))
	require.NoError(t, err)
	before := d.Snapshot().Campaigns

	_, err = d.IngestMessage(context.Background(), "500 on face")
	var xerr *extractor.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, before, d.Snapshot().Campaigns)

	feed := d.Activity()
	require.NotEmpty(t, feed)
	assert.Equal(t, domain.ActivityError, feed[0].Level)
	assert.Contains(t, feed[0].Message, "service call failed")
}

func TestIngestMessageHugeSpendIsExtractionError(t *testing.T) {
	svc := mocks.NewMockTextCompletionService(t)
	svc.EXPECT().Complete(mock.Anything, mock.Anything).Return([]byte(`{"spend":1e18,"platform":"Google"}`), nil)
	d := newIngestDashboard(t, svc)

	_, err := d.IngestMessage(context.Background(), "spent a fortune on google")
	var xerr *extractor.Error
	require.ErrorAs(t, err, &xerr)
	assert.Empty(t, d.Snapshot().Campaigns)

	feed := d.Activity()
	require.NotEmpty(t, feed)
	assert.Equal(t, domain.ActivityError, feed[0].Level)
	assert.Contains(t, feed[0].Message, "invalid spend")
}

func TestIngestMessageDisabled(t *testing.T) {
	d := newTestDashboard(t, memory.NewStateRepository())
	_, err := d.IngestMessage(context.Background(), "500 on face")
	assert.ErrorIs(t, err, port.ErrIngestionDisabled)
}

func TestActivityFeedIsCapped(t *testing.T) {
	d := newTestDashboard(t, memory.NewStateRepository())
	for i := 0; i < activityLimit+10; i++ {
		d.record(domain.ActivityInfo, fmt.Sprintf("entry %d", i))
	}
	feed := d.Activity()
	assert.Len(t, feed, activityLimit)
	assert.Equal(t, fmt.Sprintf("entry %d", activityLimit+9), feed[0].Message)
}

func TestConcurrentWritersDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	d := newTestDashboard(t, memory.NewStateRepository())

	var wg sync.WaitGroup
	const writers = 20
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			_, _ = d.CreateCampaign(ctx, validCampaign(fmt.Sprintf("c%d", i)))
			_ = d.Summary()
		}(i)
	}
	wg.Wait()
	assert.Len(t, d.Snapshot().Campaigns, writers)
}
