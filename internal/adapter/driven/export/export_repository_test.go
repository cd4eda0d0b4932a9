package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-cost-dashboard-go/internal/domain/entity"
)

func fixedRepo() *ExportRepositoryImpl {
	return &ExportRepositoryImpl{now: func() time.Time {
		return time.Date(2024, 2, 1, 10, 30, 0, 0, time.UTC)
	}}
}

func sampleSummaries() []entity.ProfileSummary {
	period := entity.Period{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	return []entity.ProfileSummary{
		{
			Profile:   "default",
			AccountID: "123456789012",
			Period:    period,
			Success:   true,
			Summary: entity.CostSummary{
				TotalCost: 30,
				Services: []entity.ServiceSummary{
					{Name: "EC2", Cost: 25, Percentage: 83.3333, UsageTypes: []entity.NamedCost{{Name: "BoxUsage", Cost: 25}}},
					{Name: "S3", Cost: 5, Percentage: 16.6667, UsageTypes: []entity.NamedCost{{Name: "Storage", Cost: 5}}},
				},
				DailyCosts: []entity.DailyCost{
					{Date: "2024-01-01", Services: []entity.NamedCost{{Name: "EC2", Cost: 10}, {Name: "S3", Cost: 5}}},
					{Date: "2024-01-02", Services: []entity.NamedCost{{Name: "EC2", Cost: 15}}},
				},
			},
			Budgets: []entity.BudgetInfo{{Name: "monthly", Limit: 100, Actual: 30, Forecast: 60}},
		},
		{Profile: "broken", Period: period, Error: "no cost data found"},
	}
}

func TestExportSummaryToCSV(t *testing.T) {
	dir := t.TempDir()

	path, err := fixedRepo().ExportSummaryToCSV(sampleSummaries(), "report", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report_20240201_103000.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	// header + total + 2 services + 2 usage types + 3 daily + 1 error
	require.Len(t, rows, 10)
	assert.Equal(t, []string{"default", "123456789012", "2024-01-01 to 2024-01-03", "total", "", "", "", "$30.00", "100.00%"}, rows[1])
	assert.Equal(t, []string{"default", "123456789012", "2024-01-01 to 2024-01-03", "service", "", "EC2", "", "$25.00", "83.33%"}, rows[2])
	assert.Equal(t, "usage_type", rows[3][3])
	assert.Equal(t, "BoxUsage", rows[3][6])
	assert.Equal(t, []string{"default", "123456789012", "2024-01-01 to 2024-01-03", "daily", "2024-01-02", "EC2", "", "$15.00", ""}, rows[8])
	assert.Equal(t, "error", rows[9][3])
	assert.Equal(t, "no cost data found", rows[9][8])
}

func TestExportSummaryToJSON(t *testing.T) {
	dir := t.TempDir()

	path, err := fixedRepo().ExportSummaryToJSON(sampleSummaries(), "report", dir)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []entity.ProfileSummary
	require.NoError(t, json.Unmarshal(content, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, 30.0, decoded[0].Summary.TotalCost)
	assert.Contains(t, string(content), `"totalCost"`)
	assert.Contains(t, string(content), `"usageTypes"`)
	assert.Contains(t, string(content), `"dailyCosts"`)
}

func TestExportSummaryToPDF(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")

	path, err := fixedRepo().ExportSummaryToPDF(sampleSummaries(), "report", dir)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Equal(t, ".pdf", filepath.Ext(path))
}

func TestFormatBudgets(t *testing.T) {
	lines := formatBudgets([]entity.BudgetInfo{
		{Name: "monthly", Limit: 200, Actual: 50},
		{Name: "quarterly", Limit: 100, Actual: 20, Forecast: 90},
	})
	assert.Equal(t, []string{
		"monthly: $50.00 of $200.00 (25.0%)",
		"quarterly: $20.00 of $100.00 (20.0%), forecast $90.00",
	}, lines)
}

func TestFormatServiceLines(t *testing.T) {
	lines := formatServiceLines(sampleSummaries()[0].Summary.Services)
	assert.Equal(t, "EC2: $25.00 (83.33%)\n  - BoxUsage: $25.00\nS3: $5.00 (16.67%)\n  - Storage: $5.00\n", lines)

	tr := gofpdf.New("P", "mm", "A4", "").UnicodeTranslatorFromDescriptor("")
	assert.Equal(t, lines, tr(lines))
}
