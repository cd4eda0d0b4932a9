package entity

import "time"

// CostRecord is one billed amount for a single date, service and usage type.
type CostRecord struct {
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	Service   string  `json:"service" validate:"required"`
	UsageType string  `json:"usageType" validate:"required"`
	Cost      float64 `json:"cost" validate:"gte=0"`
}

// NamedCost is a cost amount attributed to a usage type or to a service.
type NamedCost struct {
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
}

// ServiceSummary aggregates every record of a single service.
type ServiceSummary struct {
	Name       string      `json:"name"`
	Cost       float64     `json:"cost"`
	Percentage float64     `json:"percentage"`
	UsageTypes []NamedCost `json:"usageTypes"`
}

// DailyCost holds the per-service costs of one day.
type DailyCost struct {
	Date     string      `json:"date"`
	Services []NamedCost `json:"services"`
}

// CostSummary is the aggregated view consumed by the console, the exporters and the HTTP API.
type CostSummary struct {
	TotalCost  float64          `json:"totalCost"`
	Services   []ServiceSummary `json:"services"`
	DailyCosts []DailyCost      `json:"dailyCosts"`
}

// Period is a Cost Explorer time window. End is exclusive.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// String formats the period the way it is shown in tables and reports.
func (p Period) String() string {
	return p.Start.Format("2006-01-02") + " to " + p.End.Format("2006-01-02")
}
