package domain

import (
	"math"
	"strings"
	"time"
)

// Platform is the advertising network a campaign runs on.
type Platform string

const (
	PlatformFacebook  Platform = "Facebook"
	PlatformGoogle    Platform = "Google"
	PlatformTikTok    Platform = "TikTok"
	PlatformInstagram Platform = "Instagram"
)

// Platforms is the closed set of supported platforms in display order.
var Platforms = []Platform{PlatformFacebook, PlatformGoogle, PlatformTikTok, PlatformInstagram}

// ParsePlatform matches s against the supported platforms ignoring case and
// surrounding whitespace. The canonical spelling is returned.
func ParsePlatform(s string) (Platform, bool) {
	s = strings.TrimSpace(s)
	for _, p := range Platforms {
		if strings.EqualFold(s, string(p)) {
			return p, true
		}
	}
	return "", false
}

// Valid reports whether p is one of Platforms.
func (p Platform) Valid() bool {
	for _, v := range Platforms {
		if v == p {
			return true
		}
	}
	return false
}

// CampaignStatus is the lifecycle flag shown next to a campaign.
type CampaignStatus string

const (
	StatusActive CampaignStatus = "active"
	StatusPaused CampaignStatus = "paused"
	StatusEnded  CampaignStatus = "ended"
)

// Valid reports whether s is a known status.
func (s CampaignStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusEnded:
		return true
	}
	return false
}

// DateLayout is the wire format of Date.
const DateLayout = "2006-01-02"

// Date is a calendar date in YYYY-MM-DD form.
type Date string

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp, keeping only the date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return "", err
	}
	return DateOf(t), nil
}

// Campaign is one advertising result entered by form, bulk import or a
// parsed message. Spend is in currency units; the counters are raw event
// counts. Clicks are not required to be lower than impressions.
type Campaign struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Platform    Platform       `json:"platform"`
	Spend       float64        `json:"spend"`
	Impressions int64          `json:"impressions"`
	Clicks      int64          `json:"clicks"`
	Conversions int64          `json:"conversions"`
	Status      CampaignStatus `json:"status"`
	Date        Date           `json:"date"`
}

// Validate checks the fields a form submission must satisfy.
func (c Campaign) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("name", "must not be empty")
	}
	if !c.Platform.Valid() {
		return NewValidationError("platform", "unsupported platform "+string(c.Platform))
	}
	if !c.Status.Valid() {
		return NewValidationError("status", "unsupported status "+string(c.Status))
	}
	if err := nonNegative("spend", c.Spend); err != nil {
		return err
	}
	if c.Impressions < 0 {
		return NewValidationError("impressions", "must not be negative")
	}
	if c.Clicks < 0 {
		return NewValidationError("clicks", "must not be negative")
	}
	if c.Conversions < 0 {
		return NewValidationError("conversions", "must not be negative")
	}
	if _, err := time.Parse(DateLayout, string(c.Date)); err != nil {
		return NewValidationError("date", "expected YYYY-MM-DD")
	}
	return nil
}

func nonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NewValidationError(field, "must be a finite number")
	}
	if v < 0 {
		return NewValidationError(field, "must not be negative")
	}
	return nil
}
