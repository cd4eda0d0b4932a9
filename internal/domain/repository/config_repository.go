package repository

import (
	"github.com/diillson/aws-cost-dashboard-go/internal/shared/types"
)

// ConfigRepository defines the interface for loading configuration files.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.Config, error)
	// ApplyEnv overrides config values with the ones set in the environment.
	ApplyEnv(cfg *types.Config) error
}
