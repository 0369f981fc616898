package domain

// ParsedMetric is the structured result extracted from a free-text message.
// Impressions are not part of it; the caller decides how to estimate them.
type ParsedMetric struct {
	Name        string   `json:"name"`
	Spend       float64  `json:"spend"`
	Clicks      int64    `json:"clicks"`
	Conversions int64    `json:"conversions"`
	Platform    Platform `json:"platform"`
	Date        Date     `json:"date"`
}
