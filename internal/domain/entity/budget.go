package entity

// BudgetInfo represents a budget with actual and forecasted spend.
type BudgetInfo struct {
	Name     string  `json:"name"`
	Limit    float64 `json:"limit"`
	Actual   float64 `json:"actual"`
	Forecast float64 `json:"forecast,omitempty"`
}

// UsedPercent returns the actual spend as a percentage of the limit, or 0 when no limit is set.
func (b BudgetInfo) UsedPercent() float64 {
	if b.Limit <= 0 {
		return 0
	}
	return b.Actual / b.Limit * 100
}

// Exceeded reports whether the actual spend is above the limit.
func (b BudgetInfo) Exceeded() bool {
	return b.Limit > 0 && b.Actual > b.Limit
}
