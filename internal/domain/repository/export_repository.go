package repository

import (
	"github.com/diillson/aws-cost-dashboard-go/internal/domain/entity"
)

type ExportRepository interface {
	ExportSummaryToCSV(data []entity.ProfileSummary, filename, outputDir string) (string, error)
	ExportSummaryToJSON(data []entity.ProfileSummary, filename, outputDir string) (string, error)
	ExportSummaryToPDF(data []entity.ProfileSummary, filename, outputDir string) (string, error)
}
