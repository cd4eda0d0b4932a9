package service

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-cost-dashboard-go/internal/domain/entity"
	"github.com/diillson/aws-cost-dashboard-go/internal/shared/types"
)

func TestAggregate_Example(t *testing.T) {
	records := []entity.CostRecord{
		{Date: "2024-01-01", Service: "EC2", UsageType: "BoxUsage", Cost: 10.0},
		{Date: "2024-01-01", Service: "S3", UsageType: "Storage", Cost: 5.0},
		{Date: "2024-01-02", Service: "EC2", UsageType: "BoxUsage", Cost: 15.0},
	}

	summary, err := NewCostAggregator().Aggregate(records)
	require.NoError(t, err)

	assert.InDelta(t, 30.0, summary.TotalCost, 1e-9)
	require.Len(t, summary.Services, 2)

	assert.Equal(t, "EC2", summary.Services[0].Name)
	assert.InDelta(t, 25.0, summary.Services[0].Cost, 1e-9)
	assert.InDelta(t, 83.3333333, summary.Services[0].Percentage, 1e-6)
	assert.Equal(t, []entity.NamedCost{{Name: "BoxUsage", Cost: 25.0}}, summary.Services[0].UsageTypes)

	assert.Equal(t, "S3", summary.Services[1].Name)
	assert.InDelta(t, 5.0, summary.Services[1].Cost, 1e-9)
	assert.InDelta(t, 16.6666667, summary.Services[1].Percentage, 1e-6)

	require.Len(t, summary.DailyCosts, 2)
	assert.Equal(t, "2024-01-01", summary.DailyCosts[0].Date)
	assert.Equal(t, []entity.NamedCost{{Name: "EC2", Cost: 10}, {Name: "S3", Cost: 5}}, summary.DailyCosts[0].Services)
	assert.Equal(t, "2024-01-02", summary.DailyCosts[1].Date)
	assert.Equal(t, []entity.NamedCost{{Name: "EC2", Cost: 15}}, summary.DailyCosts[1].Services)
}

func TestAggregate_NoiseFilter(t *testing.T) {
	records := []entity.CostRecord{
		{Date: "2024-03-01", Service: "EC2", UsageType: "BoxUsage", Cost: 1.5},
		{Date: "2024-03-01", Service: "S3", UsageType: "Requests", Cost: 0.01},
		{Date: "2024-03-02", Service: "Lambda", UsageType: "Request", Cost: 0.005},
		{Date: "2024-03-02", Service: "EC2", UsageType: "EBS:VolumeUsage", Cost: 0},
	}

	summary, err := NewCostAggregator().Aggregate(records)
	require.NoError(t, err)

	assert.InDelta(t, 1.5, summary.TotalCost, 1e-9)
	require.Len(t, summary.Services, 1)
	assert.Equal(t, "EC2", summary.Services[0].Name)
	assert.InDelta(t, 100.0, summary.Services[0].Percentage, 1e-9)
	require.Len(t, summary.DailyCosts, 1)
	assert.Equal(t, "2024-03-01", summary.DailyCosts[0].Date)
}

func TestAggregate_EmptyInput(t *testing.T) {
	tests := []struct {
		name    string
		records []entity.CostRecord
	}{
		{name: "nil input", records: nil},
		{name: "empty input", records: []entity.CostRecord{}},
		{
			name: "only noise",
			records: []entity.CostRecord{
				{Date: "2024-01-01", Service: "EC2", UsageType: "BoxUsage", Cost: 0.01},
				{Date: "2024-01-02", Service: "S3", UsageType: "N/A", Cost: 0.001},
				{Date: "2024-01-03", Service: "S3", UsageType: "N/A", Cost: 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := NewCostAggregator().Aggregate(tt.records)
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrEmptyInput))
			assert.Equal(t, entity.CostSummary{}, summary)
		})
	}
}

func TestAggregate_InvalidRecords(t *testing.T) {
	valid := entity.CostRecord{Date: "2024-01-01", Service: "EC2", UsageType: "BoxUsage", Cost: 1}

	tests := []struct {
		name      string
		record    entity.CostRecord
		wantField string
	}{
		{name: "missing date", record: entity.CostRecord{Service: "EC2", UsageType: "BoxUsage", Cost: 1}, wantField: "Date"},
		{name: "bad date", record: entity.CostRecord{Date: "01/02/2024", Service: "EC2", UsageType: "BoxUsage", Cost: 1}, wantField: "Date"},
		{name: "missing service", record: entity.CostRecord{Date: "2024-01-01", UsageType: "BoxUsage", Cost: 1}, wantField: "Service"},
		{name: "missing usage type", record: entity.CostRecord{Date: "2024-01-01", Service: "EC2", Cost: 1}, wantField: "UsageType"},
		{name: "negative cost", record: entity.CostRecord{Date: "2024-01-01", Service: "EC2", UsageType: "BoxUsage", Cost: -3}, wantField: "Cost"},
		{name: "NaN cost", record: entity.CostRecord{Date: "2024-01-01", Service: "EC2", UsageType: "BoxUsage", Cost: math.NaN()}, wantField: "Cost"},
		{name: "infinite cost", record: entity.CostRecord{Date: "2024-01-01", Service: "EC2", UsageType: "BoxUsage", Cost: math.Inf(1)}, wantField: "Cost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCostAggregator().Aggregate([]entity.CostRecord{valid, tt.record})
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrInvalidRecord))

			var recErr *types.RecordError
			require.True(t, errors.As(err, &recErr))
			assert.Equal(t, 1, recErr.Index)
			assert.Equal(t, tt.wantField, recErr.Field)
		})
	}
}

func TestAggregate_InvalidNoiseRecordStillRejected(t *testing.T) {
	records := []entity.CostRecord{
		{Date: "2024-01-01", Service: "EC2", UsageType: "BoxUsage", Cost: 4},
		{Date: "bad", Service: "EC2", UsageType: "BoxUsage", Cost: 0.001},
	}
	_, err := NewCostAggregator().Aggregate(records)
	assert.True(t, errors.Is(err, types.ErrInvalidRecord))
}

func TestAggregate_TiesKeepFirstSeenOrder(t *testing.T) {
	records := []entity.CostRecord{
		{Date: "2024-01-01", Service: "Zeta", UsageType: "B", Cost: 2},
		{Date: "2024-01-01", Service: "Alpha", UsageType: "A", Cost: 2},
		{Date: "2024-01-01", Service: "Zeta", UsageType: "A", Cost: 2},
		{Date: "2024-01-01", Service: "Mid", UsageType: "X", Cost: 4},
	}

	summary, err := NewCostAggregator().Aggregate(records)
	require.NoError(t, err)

	names := make([]string, 0, len(summary.Services))
	for _, s := range summary.Services {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Zeta", "Mid", "Alpha"}, names)
	assert.Equal(t, []entity.NamedCost{{Name: "B", Cost: 2}, {Name: "A", Cost: 2}}, summary.Services[0].UsageTypes)
	assert.Equal(t, []entity.NamedCost{{Name: "Zeta", Cost: 4}, {Name: "Mid", Cost: 4}, {Name: "Alpha", Cost: 2}}, summary.DailyCosts[0].Services)
}

func TestAggregate_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	services := []string{"Amazon EC2", "Amazon S3", "AWS Lambda", "Amazon RDS", "Amazon CloudWatch"}
	usageTypes := []string{"BoxUsage", "TimedStorage", "Requests", "DataTransfer-Out-Bytes", "N/A"}
	agg := NewCostAggregator()

	for iter := 0; iter < 200; iter++ {
		n := 1 + rng.Intn(60)
		records := make([]entity.CostRecord, 0, n+1)
		for i := 0; i < n; i++ {
			records = append(records, entity.CostRecord{
				Date:      fmt.Sprintf("2024-02-%02d", 1+rng.Intn(28)),
				Service:   services[rng.Intn(len(services))],
				UsageType: usageTypes[rng.Intn(len(usageTypes))],
				Cost:      rng.Float64() * 50,
			})
		}
		// always at least one record above the threshold
		records = append(records, entity.CostRecord{Date: "2024-02-15", Service: "Amazon EC2", UsageType: "BoxUsage", Cost: 1})

		summary, err := agg.Aggregate(records)
		require.NoError(t, err)

		var wantTotal float64
		for _, r := range records {
			if r.Cost > NoiseThreshold {
				wantTotal += r.Cost
			}
		}
		assert.InDelta(t, wantTotal, summary.TotalCost, 1e-9)

		var serviceSum, percentSum float64
		for _, s := range summary.Services {
			serviceSum += s.Cost
			percentSum += s.Percentage
			assert.Greater(t, s.Cost, NoiseThreshold)
			assert.InEpsilon(t, s.Cost/summary.TotalCost*100, s.Percentage, 1e-9)

			var usageSum float64
			for _, u := range s.UsageTypes {
				usageSum += u.Cost
				assert.Greater(t, u.Cost, NoiseThreshold)
			}
			assert.InDelta(t, s.Cost, usageSum, 1e-9)
			assert.True(t, sort.SliceIsSorted(s.UsageTypes, func(i, j int) bool {
				return s.UsageTypes[i].Cost > s.UsageTypes[j].Cost
			}))
		}
		assert.InDelta(t, summary.TotalCost, serviceSum, 1e-9)
		assert.InDelta(t, 100.0, percentSum, 1e-9)
		assert.True(t, sort.SliceIsSorted(summary.Services, func(i, j int) bool {
			return summary.Services[i].Cost > summary.Services[j].Cost
		}))

		var dailySum float64
		for i, d := range summary.DailyCosts {
			if i > 0 {
				assert.Less(t, summary.DailyCosts[i-1].Date, d.Date)
			}
			for _, s := range d.Services {
				dailySum += s.Cost
				assert.Greater(t, s.Cost, NoiseThreshold)
			}
			assert.True(t, sort.SliceIsSorted(d.Services, func(i, j int) bool {
				return d.Services[i].Cost > d.Services[j].Cost
			}))
		}
		assert.InDelta(t, summary.TotalCost, dailySum, 1e-9)
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	records := []entity.CostRecord{
		{Date: "2024-05-02", Service: "S3", UsageType: "TimedStorage", Cost: 3.25},
		{Date: "2024-05-01", Service: "EC2", UsageType: "BoxUsage", Cost: 7.5},
		{Date: "2024-05-01", Service: "S3", UsageType: "TimedStorage", Cost: 3.25},
		{Date: "2024-05-02", Service: "EC2", UsageType: "BoxUsage", Cost: 1.125},
	}
	agg := NewCostAggregator()

	first, err := agg.Aggregate(records)
	require.NoError(t, err)
	second, err := agg.Aggregate(records)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Each service has a single usage type, so the daily view can be flattened back into records.
	var flattened []entity.CostRecord
	for _, d := range first.DailyCosts {
		for _, s := range d.Services {
			var usage string
			for _, svc := range first.Services {
				if svc.Name == s.Name {
					usage = svc.UsageTypes[0].Name
				}
			}
			flattened = append(flattened, entity.CostRecord{Date: d.Date, Service: s.Name, UsageType: usage, Cost: s.Cost})
		}
	}

	again, err := agg.Aggregate(flattened)
	require.NoError(t, err)
	assert.InDelta(t, first.TotalCost, again.TotalCost, 1e-9)
	assert.Equal(t, first.DailyCosts, again.DailyCosts)
	require.Len(t, again.Services, len(first.Services))
	for i := range first.Services {
		assert.Equal(t, first.Services[i].Name, again.Services[i].Name)
		assert.InDelta(t, first.Services[i].Cost, again.Services[i].Cost, 1e-9)
		assert.InDelta(t, first.Services[i].Percentage, again.Services[i].Percentage, 1e-9)
	}
}
