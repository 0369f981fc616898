package domain

import "strings"

// Product is a revenue record. It is not linked to any campaign.
type Product struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	QuantitySold int64   `json:"quantitySold"`
	Revenue      float64 `json:"revenue"`
	CostPerUnit  float64 `json:"costPerUnit"`
}

// Validate checks the fields a form submission must satisfy.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return NewValidationError("name", "must not be empty")
	}
	if p.QuantitySold < 0 {
		return NewValidationError("quantitySold", "must not be negative")
	}
	if err := nonNegative("revenue", p.Revenue); err != nil {
		return err
	}
	return nonNegative("costPerUnit", p.CostPerUnit)
}
