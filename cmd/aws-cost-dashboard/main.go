package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/diillson/aws-cost-dashboard-go/internal/adapter/driven/aws"
	"github.com/diillson/aws-cost-dashboard-go/internal/adapter/driven/config"
	"github.com/diillson/aws-cost-dashboard-go/internal/adapter/driven/export"
	"github.com/diillson/aws-cost-dashboard-go/internal/adapter/driving/cli"
	"github.com/diillson/aws-cost-dashboard-go/internal/application/usecase"
	"github.com/diillson/aws-cost-dashboard-go/internal/domain/service"
	"github.com/diillson/aws-cost-dashboard-go/internal/shared/types"
	"github.com/diillson/aws-cost-dashboard-go/pkg/console"
	"github.com/diillson/aws-cost-dashboard-go/pkg/version"
)

func main() {
	// .env é opcional; variáveis já exportadas não são sobrescritas
	_ = godotenv.Load()

	exportRepo := export.NewExportRepository()
	configRepo := config.NewConfigRepository()
	consoleImpl := console.NewConsole()
	aggregator := service.NewCostAggregator()

	// O repositório AWS depende da região e das tentativas definidas na configuração final
	newUseCase := func(cfg *types.Config) *usecase.DashboardUseCase {
		awsRepo := aws.NewAWSRepository(aws.Options{
			Region:           cfg.Region,
			RetryMaxAttempts: cfg.RetryMaxAttempts,
		})
		return usecase.NewDashboardUseCase(awsRepo, exportRepo, aggregator, consoleImpl)
	}

	app := cli.NewCLIApp(version.Version, configRepo, newUseCase)

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
