// Package service holds the pure domain logic of the dashboard.
package service

import (
	"math"
	"sort"

	"github.com/go-playground/validator"

	"github.com/diillson/aws-cost-dashboard-go/internal/domain/entity"
	"github.com/diillson/aws-cost-dashboard-go/internal/shared/types"
	"github.com/diillson/aws-cost-dashboard-go/internal/shared/validation"
)

// NoiseThreshold is the amount at or below which a cost is treated as noise.
const NoiseThreshold = 0.01

// CostAggregator turns flat cost records into a CostSummary.
// It keeps no state between calls and is safe for concurrent use.
type CostAggregator struct {
	validate *validator.Validate
}

// NewCostAggregator creates a new CostAggregator.
func NewCostAggregator() *CostAggregator {
	return &CostAggregator{validate: validation.New()}
}

// costGroup sums costs by key while remembering the order keys were first seen.
type costGroup struct {
	order []string
	sums  map[string]float64
}

func newCostGroup() *costGroup {
	return &costGroup{sums: make(map[string]float64)}
}

func (g *costGroup) add(key string, cost float64) {
	if _, ok := g.sums[key]; !ok {
		g.order = append(g.order, key)
	}
	g.sums[key] += cost
}

// sorted returns the entries above the noise threshold, descending by cost.
// Ties keep first-seen order.
func (g *costGroup) sorted() []entity.NamedCost {
	out := make([]entity.NamedCost, 0, len(g.order))
	for _, key := range g.order {
		if cost := g.sums[key]; cost > NoiseThreshold {
			out = append(out, entity.NamedCost{Name: key, Cost: cost})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Cost > out[j].Cost
	})
	return out
}

type serviceGroup struct {
	cost       float64
	usageTypes *costGroup
}

// Aggregate validates and filters records and builds the summary.
// It returns types.ErrEmptyInput when nothing is left after the noise filter,
// and a *types.RecordError for the first malformed record.
func (a *CostAggregator) Aggregate(records []entity.CostRecord) (entity.CostSummary, error) {
	if err := a.Validate(records); err != nil {
		return entity.CostSummary{}, err
	}

	filtered := make([]entity.CostRecord, 0, len(records))
	for _, r := range records {
		if r.Cost > NoiseThreshold {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return entity.CostSummary{}, types.ErrEmptyInput
	}

	var totalCost float64
	var serviceOrder []string
	services := make(map[string]*serviceGroup)
	var dateOrder []string
	days := make(map[string]*costGroup)

	for _, r := range filtered {
		totalCost += r.Cost

		sg, ok := services[r.Service]
		if !ok {
			sg = &serviceGroup{usageTypes: newCostGroup()}
			services[r.Service] = sg
			serviceOrder = append(serviceOrder, r.Service)
		}
		sg.cost += r.Cost
		sg.usageTypes.add(r.UsageType, r.Cost)

		day, ok := days[r.Date]
		if !ok {
			day = newCostGroup()
			days[r.Date] = day
			dateOrder = append(dateOrder, r.Date)
		}
		day.add(r.Service, r.Cost)
	}

	summary := entity.CostSummary{
		TotalCost:  totalCost,
		Services:   make([]entity.ServiceSummary, 0, len(serviceOrder)),
		DailyCosts: make([]entity.DailyCost, 0, len(dateOrder)),
	}

	for _, name := range serviceOrder {
		sg := services[name]
		summary.Services = append(summary.Services, entity.ServiceSummary{
			Name:       name,
			Cost:       sg.cost,
			Percentage: sg.cost / totalCost * 100,
			UsageTypes: sg.usageTypes.sorted(),
		})
	}
	sort.SliceStable(summary.Services, func(i, j int) bool {
		return summary.Services[i].Cost > summary.Services[j].Cost
	})

	sort.Strings(dateOrder)
	for _, date := range dateOrder {
		summary.DailyCosts = append(summary.DailyCosts, entity.DailyCost{
			Date:     date,
			Services: days[date].sorted(),
		})
	}

	return summary, nil
}

// Validate checks every record and returns a *types.RecordError for the first malformed one.
func (a *CostAggregator) Validate(records []entity.CostRecord) error {
	for i, r := range records {
		if math.IsInf(r.Cost, 0) || math.IsNaN(r.Cost) {
			return &types.RecordError{Index: i, Field: "Cost", Reason: "must be a finite number"}
		}
		if err := a.validate.Struct(r); err != nil {
			verrs, ok := err.(validator.ValidationErrors)
			if !ok || len(verrs) == 0 {
				return &types.RecordError{Index: i, Reason: err.Error()}
			}
			return &types.RecordError{Index: i, Field: verrs[0].Field(), Reason: reasonFor(verrs[0])}
		}
	}
	return nil
}

func reasonFor(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return "is required"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "gte":
		return "must not be negative"
	default:
		return "is not valid"
	}
}
