package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"traffic-analyzer/internal/core/domain"
	"traffic-analyzer/internal/core/extractor"
	"traffic-analyzer/internal/core/importer"
	"traffic-analyzer/internal/core/kpi"
	"traffic-analyzer/internal/core/port"
	"traffic-analyzer/internal/metrics"
)

var _ port.DashboardUseCase = (*Dashboard)(nil)

const (
	// impressionsPerSpend estimates impressions for parsed messages, which
	// never carry them.
	impressionsPerSpend = 15
	// clicksPerSpend estimates clicks when a message does not mention any.
	clicksPerSpend = 0.8
	// activityLimit caps the in-memory activity feed.
	activityLimit = 100
	// defaultReportSize is used when Report gets a non-positive n.
	defaultReportSize = 5
)

// Dashboard is the application-state container. It implements
// port.DashboardUseCase. Writers are serialized; each one works on a clone of
// the state, persists it, and only then swaps it in, so readers never observe
// a partially applied change and a failed save leaves the old state intact.
type Dashboard struct {
	repo      port.StateRepository
	extractor port.MetricExtractor
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string

	mu    sync.RWMutex
	state domain.AppState

	feedMu sync.Mutex
	feed   []domain.ActivityEntry
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithExtractor enables IngestMessage.
func WithExtractor(x port.MetricExtractor) Option {
	return func(d *Dashboard) { d.extractor = x }
}

// WithMetrics records persistence and extraction metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dashboard) { d.metrics = m }
}

// WithClock sets the time source for default dates and the activity feed.
func WithClock(now func() time.Time) Option {
	return func(d *Dashboard) { d.now = now }
}

// WithIDGenerator overrides uuid-based record ids.
func WithIDGenerator(newID func() string) Option {
	return func(d *Dashboard) { d.newID = newID }
}

// NewDashboard returns a container holding an empty state. Call Load to read
// the persisted one.
func NewDashboard(repo port.StateRepository, logger *slog.Logger, opts ...Option) *Dashboard {
	d := &Dashboard{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
		state:  domain.EmptyState(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Load reads the persisted state once. A repository with nothing saved
// yields an empty state.
func (d *Dashboard) Load(ctx context.Context) error {
	state, err := d.repo.Load(ctx)
	if errors.Is(err, port.ErrStateNotFound) {
		state, err = domain.EmptyState(), nil
	}
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	d.mu.Lock()
	d.state = state.Clone()
	d.mu.Unlock()
	d.setSizes(state)
	d.logger.Info("state loaded",
		slog.Int("campaigns", len(state.Campaigns)),
		slog.Int("products", len(state.Products)),
		slog.Int("users", len(state.Users)),
	)
	return nil
}

// Snapshot returns a copy of the current state.
func (d *Dashboard) Snapshot() domain.AppState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state.Clone()
}

// Summary computes the dashboard figures from the current state.
func (d *Dashboard) Summary() port.DashboardSummary {
	s := d.Snapshot()
	return port.DashboardSummary{
		Totals:       kpi.Summarize(s.Campaigns, s.Products),
		Distribution: kpi.SpendByPlatform(s.Campaigns),
		HasData:      len(s.Campaigns) > 0,
	}
}

// Report returns the top n products and campaigns.
func (d *Dashboard) Report(n int) port.Report {
	if n <= 0 {
		n = defaultReportSize
	}
	s := d.Snapshot()
	return port.Report{
		TopProducts:  kpi.TopProducts(s.Products, n),
		TopCampaigns: kpi.TopCampaigns(s.Campaigns, n),
	}
}

// ListCampaigns returns campaigns whose name contains term, with metrics.
func (d *Dashboard) ListCampaigns(term string) []port.CampaignView {
	campaigns := kpi.FilterCampaigns(d.Snapshot().Campaigns, term)
	views := make([]port.CampaignView, len(campaigns))
	for i, c := range campaigns {
		views[i] = port.CampaignView{Campaign: c, Metrics: kpi.ForCampaign(c)}
	}
	return views
}

// CreateCampaign validates c, assigns an id and appends it.
func (d *Dashboard) CreateCampaign(ctx context.Context, c domain.Campaign) (domain.Campaign, error) {
	c = d.campaignDefaults(c)
	c.ID = d.newID()
	if err := c.Validate(); err != nil {
		return domain.Campaign{}, err
	}
	err := d.mutate(ctx, func(s *domain.AppState) error {
		s.Campaigns = append(s.Campaigns, c)
		return nil
	})
	if err != nil {
		return domain.Campaign{}, err
	}
	return c, nil
}

// UpdateCampaign replaces every field of campaign id with c.
func (d *Dashboard) UpdateCampaign(ctx context.Context, id string, c domain.Campaign) (domain.Campaign, error) {
	c = d.campaignDefaults(c)
	c.ID = id
	if err := c.Validate(); err != nil {
		return domain.Campaign{}, err
	}
	err := d.mutate(ctx, func(s *domain.AppState) error {
		i := slices.IndexFunc(s.Campaigns, func(x domain.Campaign) bool { return x.ID == id })
		if i < 0 {
			return domain.ErrNotFound
		}
		s.Campaigns[i] = c
		return nil
	})
	if err != nil {
		return domain.Campaign{}, err
	}
	return c, nil
}

// DeleteCampaign removes campaign id.
func (d *Dashboard) DeleteCampaign(ctx context.Context, id string) error {
	return d.mutate(ctx, func(s *domain.AppState) error {
		n := len(s.Campaigns)
		s.Campaigns = slices.DeleteFunc(s.Campaigns, func(x domain.Campaign) bool { return x.ID == id })
		if len(s.Campaigns) == n {
			return domain.ErrNotFound
		}
		return nil
	})
}

// ImportCampaigns parses a spreadsheet and appends all rows in one change.
func (d *Dashboard) ImportCampaigns(ctx context.Context, r io.Reader) (int, error) {
	imported, err := importer.Parse(r, d.now())
	if err != nil {
		return 0, err
	}
	if len(imported) == 0 {
		return 0, nil
	}
	err = d.mutate(ctx, func(s *domain.AppState) error {
		s.Campaigns = append(s.Campaigns, imported...)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if d.metrics != nil {
		d.metrics.CampaignsImported.Add(float64(len(imported)))
	}
	d.logger.Info("campaigns imported", slog.Int("count", len(imported)))
	return len(imported), nil
}

// AddCampaign prepends c unless its id is already present.
func (d *Dashboard) AddCampaign(ctx context.Context, c domain.Campaign) error {
	if c.ID == "" {
		c.ID = d.newID()
	}
	if err := c.Validate(); err != nil {
		return err
	}
	d.mu.RLock()
	exists := slices.ContainsFunc(d.state.Campaigns, func(x domain.Campaign) bool { return x.ID == c.ID })
	d.mu.RUnlock()
	if exists {
		return nil
	}
	return d.mutate(ctx, func(s *domain.AppState) error {
		if slices.ContainsFunc(s.Campaigns, func(x domain.Campaign) bool { return x.ID == c.ID }) {
			return errUnchanged
		}
		s.Campaigns = append([]domain.Campaign{c}, s.Campaigns...)
		return nil
	})
}

// ListProducts returns products whose name contains term.
func (d *Dashboard) ListProducts(term string) []domain.Product {
	return kpi.FilterProducts(d.Snapshot().Products, term)
}

// CreateProduct validates p, assigns an id and appends it.
func (d *Dashboard) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.ID = d.newID()
	if err := p.Validate(); err != nil {
		return domain.Product{}, err
	}
	err := d.mutate(ctx, func(s *domain.AppState) error {
		s.Products = append(s.Products, p)
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// UpdateProduct replaces every field of product id with p.
func (d *Dashboard) UpdateProduct(ctx context.Context, id string, p domain.Product) (domain.Product, error) {
	p.ID = id
	if err := p.Validate(); err != nil {
		return domain.Product{}, err
	}
	err := d.mutate(ctx, func(s *domain.AppState) error {
		i := slices.IndexFunc(s.Products, func(x domain.Product) bool { return x.ID == id })
		if i < 0 {
			return domain.ErrNotFound
		}
		s.Products[i] = p
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// DeleteProduct removes product id.
func (d *Dashboard) DeleteProduct(ctx context.Context, id string) error {
	return d.mutate(ctx, func(s *domain.AppState) error {
		n := len(s.Products)
		s.Products = slices.DeleteFunc(s.Products, func(x domain.Product) bool { return x.ID == id })
		if len(s.Products) == n {
			return domain.ErrNotFound
		}
		return nil
	})
}

// ListUsers returns every user.
func (d *Dashboard) ListUsers() []domain.User {
	return d.Snapshot().Users
}

// AddUser validates u and appends it. Emails must be unique.
func (d *Dashboard) AddUser(ctx context.Context, u domain.User) (domain.User, error) {
	u.ID = d.newID()
	u.Email = strings.TrimSpace(u.Email)
	if u.Role == "" {
		u.Role = domain.RoleViewer
	}
	if err := u.Validate(); err != nil {
		return domain.User{}, err
	}
	err := d.mutate(ctx, func(s *domain.AppState) error {
		for _, x := range s.Users {
			if strings.EqualFold(x.Email, u.Email) {
				return domain.NewValidationError("email", "already registered")
			}
		}
		s.Users = append(s.Users, u)
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// PixelID returns the configured Meta pixel id.
func (d *Dashboard) PixelID() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state.MetaPixelID
}

// SetPixelID stores the Meta pixel id.
func (d *Dashboard) SetPixelID(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	return d.mutate(ctx, func(s *domain.AppState) error {
		s.MetaPixelID = id
		return nil
	})
}

// ClearAll drops products, campaigns and the pixel id. Users are kept so the
// team does not lose access.
func (d *Dashboard) ClearAll(ctx context.Context) error {
	err := d.mutate(ctx, func(s *domain.AppState) error {
		s.Products = []domain.Product{}
		s.Campaigns = []domain.Campaign{}
		s.MetaPixelID = ""
		return nil
	})
	if err == nil {
		d.logger.Warn("all campaign and product data cleared")
	}
	return err
}

// IngestMessage runs the extractor on text and stores the result as a new
// campaign at the top of the list. Every attempt is written to the activity
// feed. On failure nothing is stored and the extractor's error is returned.
func (d *Dashboard) IngestMessage(ctx context.Context, text string) (domain.Campaign, error) {
	if d.extractor == nil {
		return domain.Campaign{}, port.ErrIngestionDisabled
	}
	d.record(domain.ActivityInfo, "Starting analysis with the extraction engine")

	start := d.now()
	m, err := d.extractor.Extract(ctx, text)
	took := d.now().Sub(start)
	if err != nil {
		d.observeExtraction(err, took)
		d.record(domain.ActivityError, "Error: the engine could not identify valid values ("+reason(err)+")")
		d.logger.Warn("message extraction failed", slog.Any("error", err))
		return domain.Campaign{}, err
	}
	d.observeExtraction(nil, took)

	c := d.campaignFromMetric(m)
	if err = d.AddCampaign(ctx, c); err != nil {
		d.record(domain.ActivityError, "Error: extracted metrics could not be saved")
		d.logger.Error("store extracted campaign", slog.Any("error", err))
		return domain.Campaign{}, err
	}
	d.record(domain.ActivitySuccess, fmt.Sprintf("Metrics extracted: %s spent on %s", formatMoney(m.Spend), m.Platform))
	d.logger.Info("campaign ingested from message",
		slog.String("id", c.ID),
		slog.String("platform", string(c.Platform)),
		slog.Float64("spend", c.Spend),
	)
	return c, nil
}

// Activity returns the feed, newest first.
func (d *Dashboard) Activity() []domain.ActivityEntry {
	d.feedMu.Lock()
	defer d.feedMu.Unlock()
	return slices.Clone(d.feed)
}

// errUnchanged aborts a mutation without saving and without failing.
var errUnchanged = errors.New("unchanged")

// mutate applies fn to a clone of the state, persists it and swaps it in.
func (d *Dashboard) mutate(ctx context.Context, fn func(s *domain.AppState) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	next := d.state.Clone()
	if err := fn(&next); err != nil {
		if errors.Is(err, errUnchanged) {
			return nil
		}
		return err
	}
	err := d.repo.Save(ctx, next)
	if d.metrics != nil {
		d.metrics.ObserveSave(err)
	}
	if err != nil {
		d.logger.Error("save state", slog.Any("error", err))
		return fmt.Errorf("save state: %w", err)
	}
	d.state = next
	d.setSizes(next)
	return nil
}

func (d *Dashboard) setSizes(s domain.AppState) {
	if d.metrics != nil {
		d.metrics.SetSizes(len(s.Campaigns), len(s.Products))
	}
}

func (d *Dashboard) campaignDefaults(c domain.Campaign) domain.Campaign {
	if c.Status == "" {
		c.Status = domain.StatusActive
	}
	if c.Date == "" {
		c.Date = domain.DateOf(d.now())
	}
	return c
}

func (d *Dashboard) campaignFromMetric(m domain.ParsedMetric) domain.Campaign {
	clicks := m.Clicks
	if clicks == 0 {
		clicks = int64(math.Floor(m.Spend * clicksPerSpend))
	}
	return domain.Campaign{
		ID:          "WA-" + shortCode(d.newID()),
		Name:        m.Name,
		Platform:    m.Platform,
		Spend:       m.Spend,
		Impressions: int64(m.Spend * impressionsPerSpend),
		Clicks:      clicks,
		Conversions: m.Conversions,
		Status:      domain.StatusActive,
		Date:        m.Date,
	}
}

func (d *Dashboard) record(level domain.ActivityLevel, msg string) {
	d.feedMu.Lock()
	defer d.feedMu.Unlock()
	d.feed = append([]domain.ActivityEntry{{Message: msg, Level: level, Time: d.now()}}, d.feed...)
	if len(d.feed) > activityLimit {
		d.feed = d.feed[:activityLimit]
	}
}

func (d *Dashboard) observeExtraction(err error, took time.Duration) {
	if d.metrics == nil {
		return
	}
	outcome := metrics.OutcomeSuccess
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		outcome = metrics.OutcomeInvalid
	} else if err != nil {
		outcome = metrics.OutcomeFailure
	}
	d.metrics.ObserveExtraction(outcome, took)
}

func reason(err error) string {
	var xerr *extractor.Error
	if errors.As(err, &xerr) {
		return xerr.Reason
	}
	return err.Error()
}

// shortCode keeps the first five characters of id without dashes, upper-cased.
func shortCode(id string) string {
	code := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(code) > 5 {
		code = code[:5]
	}
	return code
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", kpi.Round(v, 2))
}
