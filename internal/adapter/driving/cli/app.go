package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/diillson/aws-cost-dashboard-go/internal/adapter/driving/httpapi"
	"github.com/diillson/aws-cost-dashboard-go/internal/application/usecase"
	"github.com/diillson/aws-cost-dashboard-go/internal/domain/repository"
	"github.com/diillson/aws-cost-dashboard-go/internal/shared/types"
	"github.com/diillson/aws-cost-dashboard-go/pkg/console"
	"github.com/diillson/aws-cost-dashboard-go/pkg/version"
)

// UseCaseFactory monta o caso de uso a partir da configuração final.
type UseCaseFactory func(cfg *types.Config) *usecase.DashboardUseCase

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd    *cobra.Command
	configRepo repository.ConfigRepository
	newUseCase UseCaseFactory
	version    string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string, configRepo repository.ConfigRepository, newUseCase UseCaseFactory) *CLIApp {
	app := &CLIApp{
		configRepo: configRepo,
		newUseCase: newUseCase,
		version:    versionStr,
	}

	rootCmd := &cobra.Command{
		Use:           "aws-cost-dashboard",
		Short:         "AWS Cost Dashboard CLI",
		Long:          "Aggregates AWS Cost Explorer data by service, usage type and day.",
		Version:       version.FormatVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          app.runCommand,
	}

	rootCmd.SetVersionTemplate(`{{printf "AWS Cost Dashboard version: %s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.StringSliceP("profiles", "p", nil, "Specific AWS profiles to use (comma-separated)")
	flags.BoolP("all", "a", false, "Use all available AWS profiles")
	flags.StringP("region", "r", "", "AWS region for regional clients (default: the profile's region)")
	flags.IntP("time-range", "t", types.DefaultTimeRange, "Time range for cost data in days, ending today")
	flags.String("start", "", "Start date (YYYY-MM-DD, inclusive); overrides --time-range")
	flags.String("end", "", "End date (YYYY-MM-DD, exclusive; default: today)")
	flags.StringSliceP("tag", "g", nil, "Cost allocation tag to filter resources, e.g., --tag Team=DevOps")
	flags.StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	flags.StringSliceP("report-type", "y", []string{"csv"}, "Specify report types: csv, json, pdf")
	flags.StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	flags.Int("concurrency", types.DefaultConcurrency, "How many profiles are fetched in parallel")
	flags.String("log-level", types.DefaultLogLevel, "Log level: debug, info, warn, error")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API used by the cost charts",
		Args:  cobra.NoArgs,
		RunE:  app.runServe,
	}
	serveCmd.Flags().String("addr", types.DefaultHTTPAddr, "Address the HTTP API listens on")
	rootCmd.AddCommand(serveCmd)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// loadConfig resolve a configuração final.
// Precedência: flags alteradas > ambiente > arquivo > padrões.
func (app *CLIApp) loadConfig(cmd *cobra.Command) (*types.Config, error) {
	cfg := types.DefaultConfig()

	configFile, _ := cmd.Flags().GetString("config-file")
	if configFile != "" {
		fileCfg, err := app.configRepo.LoadConfigFile(configFile)
		if err != nil {
			return nil, err
		}
		cfg.Merge(fileCfg)
	}

	if err := app.configRepo.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	applyFlags(cmd.Flags(), cfg)
	return cfg, nil
}

// applyFlags copia para cfg apenas as flags definidas explicitamente.
func applyFlags(flags *pflag.FlagSet, cfg *types.Config) {
	if flags.Changed("profiles") {
		cfg.Profiles, _ = flags.GetStringSlice("profiles")
	}
	if flags.Changed("all") {
		cfg.All, _ = flags.GetBool("all")
	}
	if flags.Changed("region") {
		cfg.Region, _ = flags.GetString("region")
	}
	if flags.Changed("time-range") {
		cfg.TimeRange, _ = flags.GetInt("time-range")
	}
	if flags.Changed("start") {
		cfg.Start, _ = flags.GetString("start")
	}
	if flags.Changed("end") {
		cfg.End, _ = flags.GetString("end")
	}
	if flags.Changed("tag") {
		cfg.Tag, _ = flags.GetStringSlice("tag")
	}
	if flags.Changed("report-name") {
		cfg.ReportName, _ = flags.GetString("report-name")
	}
	if flags.Changed("report-type") {
		cfg.ReportType, _ = flags.GetStringSlice("report-type")
	}
	if flags.Changed("dir") {
		cfg.Dir, _ = flags.GetString("dir")
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if f := flags.Lookup("addr"); f != nil && f.Changed {
		cfg.HTTP.Addr = f.Value.String()
	}
}

// toCLIArgs converte a configuração final nos argumentos do dashboard.
func toCLIArgs(cfg *types.Config, configFile string) (*types.CLIArgs, error) {
	dir := cfg.Dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = cwd
	} else {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	}

	return &types.CLIArgs{
		ConfigFile:  configFile,
		Profiles:    cfg.Profiles,
		All:         cfg.All,
		Region:      cfg.Region,
		TimeRange:   cfg.TimeRange,
		Start:       cfg.Start,
		End:         cfg.End,
		Tag:         cfg.Tag,
		ReportName:  cfg.ReportName,
		ReportType:  cfg.ReportType,
		Dir:         dir,
		Concurrency: cfg.Concurrency,
		LogLevel:    cfg.LogLevel,
	}, nil
}

// runCommand é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCommand(cmd *cobra.Command, args []string) error {
	displayWelcomeBanner()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Verifica em segundo plano se existe uma versão mais recente
	latest := make(chan string, 1)
	go func() {
		if v, ok := version.NewerAvailable(ctx, app.version); ok {
			latest <- v
		}
		close(latest)
	}()

	cfg, err := app.loadConfig(cmd)
	if err != nil {
		return err
	}
	configFile, _ := cmd.Flags().GetString("config-file")
	cliArgs, err := toCLIArgs(cfg, configFile)
	if err != nil {
		return err
	}

	if err := app.newUseCase(cfg).RunDashboard(ctx, cliArgs); err != nil {
		return err
	}

	notifyNewVersion(latest)
	return nil
}

// runServe inicia a API HTTP e bloqueia até receber SIGINT/SIGTERM.
func (app *CLIApp) runServe(cmd *cobra.Command, args []string) error {
	cfg, err := app.loadConfig(cmd)
	if err != nil {
		return err
	}

	log := console.NewLogger(cfg.LogLevel)
	uc := app.newUseCase(cfg)

	defaultProfile := "default"
	if len(cfg.Profiles) > 0 {
		defaultProfile = cfg.Profiles[0]
	}

	router := httpapi.NewRouter(log, uc, httpapi.NewMetrics(), httpapi.RouterOptions{
		DefaultProfile: defaultProfile,
		DefaultDays:    cfg.TimeRange,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := httpapi.NewServer(cfg.HTTP, router, log).Run(ctx); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
