package repository

import (
	"context"

	"github.com/diillson/aws-cost-dashboard-go/internal/domain/entity"
)

// CostRepository defines the interface for the billing data source.
type CostRepository interface {
	// Profile Operations
	GetAWSProfiles() []string
	GetAccountID(ctx context.Context, profile string) (string, error)

	// Cost Operations
	GetCostRecords(ctx context.Context, profile string, period entity.Period, tags []string) ([]entity.CostRecord, error)

	// Budget Operations
	GetBudgets(ctx context.Context, profile string) ([]entity.BudgetInfo, error)
}
