package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"

	"github.com/diillson/aws-cost-dashboard-go/internal/domain/entity"
	"github.com/diillson/aws-cost-dashboard-go/internal/domain/repository"
	"github.com/diillson/aws-cost-dashboard-go/internal/domain/service"
	"github.com/diillson/aws-cost-dashboard-go/internal/shared/types"
)

// topUsageTypes é quantos usage types aparecem por serviço na tabela do console.
const topUsageTypes = 3

// DashboardUseCase handles the main dashboard functionality.
type DashboardUseCase struct {
	costRepo   repository.CostRepository
	exportRepo repository.ExportRepository
	aggregator *service.CostAggregator
	console    types.ConsoleInterface
	now        func() time.Time
}

// NewDashboardUseCase creates a new dashboard use case.
func NewDashboardUseCase(
	costRepo repository.CostRepository,
	exportRepo repository.ExportRepository,
	aggregator *service.CostAggregator,
	console types.ConsoleInterface,
) *DashboardUseCase {
	return &DashboardUseCase{
		costRepo:   costRepo,
		exportRepo: exportRepo,
		aggregator: aggregator,
		console:    console,
		now:        time.Now,
	}
}

// InitializeProfiles escolhe os perfis: a lista explícita, --all, o "default"
// ou, na falta dele, todos os perfis configurados.
func (uc *DashboardUseCase) InitializeProfiles(args *types.CLIArgs) ([]string, error) {
	available := uc.costRepo.GetAWSProfiles()
	if len(available) == 0 {
		return nil, types.ErrNoProfilesFound
	}

	switch {
	case len(args.Profiles) > 0:
		selected := make([]string, 0, len(args.Profiles))
		for _, name := range args.Profiles {
			if !slices.Contains(available, name) {
				uc.console.LogWarning("Profile '%s' not found in AWS configuration", name)
				continue
			}
			selected = append(selected, name)
		}
		if len(selected) == 0 {
			return nil, types.ErrNoValidProfilesFound
		}
		return selected, nil
	case args.All:
		return available, nil
	case slices.Contains(available, "default"):
		return []string{"default"}, nil
	default:
		uc.console.LogWarning("No default profile found. Using all available profiles.")
		return available, nil
	}
}

// Period resolve o período de custo a partir dos argumentos.
func (uc *DashboardUseCase) Period(days int, start, end string) (entity.Period, error) {
	return ResolvePeriod(uc.now(), days, start, end)
}

// Aggregate agrega registros fornecidos pelo chamador, sem consultar a AWS.
func (uc *DashboardUseCase) Aggregate(records []entity.CostRecord) (entity.CostSummary, error) {
	return uc.aggregator.Aggregate(records)
}

// Validate verifica os registros sem agregá-los.
func (uc *DashboardUseCase) Validate(records []entity.CostRecord) error {
	return uc.aggregator.Validate(records)
}

// CostSummary busca os registros de um perfil e devolve o resumo agregado.
func (uc *DashboardUseCase) CostSummary(ctx context.Context, profile string, period entity.Period, tags []string) (entity.CostSummary, error) {
	records, err := uc.costRepo.GetCostRecords(ctx, profile, period, tags)
	if err != nil {
		return entity.CostSummary{}, err
	}
	if len(records) == 0 {
		return entity.CostSummary{}, types.ErrEmptyInput
	}
	return uc.aggregator.Aggregate(records)
}

// BuildProfileSummary coleta custos, conta e orçamentos de um único perfil.
// Falhas ficam registradas no próprio resultado.
func (uc *DashboardUseCase) BuildProfileSummary(ctx context.Context, profile string, period entity.Period, tags []string) entity.ProfileSummary {
	ps := entity.ProfileSummary{
		Profile: profile,
		Period:  period,
	}

	accountID, err := uc.costRepo.GetAccountID(ctx, profile)
	if err != nil {
		accountID = "Unknown"
	}
	ps.AccountID = accountID

	summary, err := uc.CostSummary(ctx, profile, period, tags)
	if err != nil {
		ps.Error = err.Error()
		return ps
	}
	ps.Summary = summary
	ps.Success = true

	// Orçamentos são opcionais
	if budgets, err := uc.costRepo.GetBudgets(ctx, profile); err == nil {
		ps.Budgets = budgets
	}

	return ps
}

// Summaries processa os perfis em paralelo, limitado por concurrency.
// O resultado mantém a ordem de profiles.
func (uc *DashboardUseCase) Summaries(
	ctx context.Context,
	profiles []string,
	period entity.Period,
	tags []string,
	concurrency int,
	progress types.ProgressHandle,
) []entity.ProfileSummary {
	if concurrency < 1 {
		concurrency = types.DefaultConcurrency
	}

	results := make([]entity.ProfileSummary, len(profiles))
	var progressMu sync.Mutex

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, profile := range profiles {
		g.Go(func() error {
			results[i] = uc.BuildProfileSummary(ctx, profile, period, tags)
			if progress != nil {
				progressMu.Lock()
				progress.Increment()
				progressMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// RunDashboard executa a funcionalidade principal do dashboard.
func (uc *DashboardUseCase) RunDashboard(ctx context.Context, args *types.CLIArgs) error {
	status := uc.console.Status("Reading AWS profiles...")
	profilesToUse, err := uc.InitializeProfiles(args)
	status.Stop()
	if err != nil {
		return err
	}

	period, err := uc.Period(args.TimeRange, args.Start, args.End)
	if err != nil {
		return err
	}

	uc.console.LogInfo("Fetching cost data for %d profile(s), period %s", len(profilesToUse), period)

	progress := uc.console.ProgressWithTotal(len(profilesToUse))
	summaries := uc.Summaries(ctx, profilesToUse, period, args.Tag, args.Concurrency, progress)
	progress.Stop()

	uc.console.Print(uc.buildOverviewTable(summaries, period).Render())

	for _, ps := range summaries {
		if !ps.Success {
			if strings.Contains(ps.Error, types.ErrEmptyInput.Error()) {
				uc.console.LogWarning("No cost data found for profile %s in %s", ps.Profile, period)
			} else {
				uc.console.LogError("Failed to process profile %s: %s", ps.Profile, ps.Error)
			}
			continue
		}
		uc.renderProfileDetails(ps)
	}

	if args.ReportName != "" && len(args.ReportType) > 0 {
		uc.exportReports(summaries, args)
	}

	return nil
}

func (uc *DashboardUseCase) exportReports(summaries []entity.ProfileSummary, args *types.CLIArgs) {
	for _, reportType := range args.ReportType {
		switch strings.ToLower(reportType) {
		case "csv":
			csvPath, err := uc.exportRepo.ExportSummaryToCSV(summaries, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to CSV: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to CSV: %s", csvPath)
			}
		case "json":
			jsonPath, err := uc.exportRepo.ExportSummaryToJSON(summaries, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to JSON: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to JSON: %s", jsonPath)
			}
		case "pdf":
			pdfPath, err := uc.exportRepo.ExportSummaryToPDF(summaries, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to PDF: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to PDF: %s", pdfPath)
			}
		default:
			uc.console.LogWarning("Unknown report type '%s' (use csv, json or pdf)", reportType)
		}
	}
}

// Funções auxiliares para o DashboardUseCase

// buildOverviewTable cria a tabela com uma linha por perfil.
func (uc *DashboardUseCase) buildOverviewTable(summaries []entity.ProfileSummary, period entity.Period) types.TableInterface {
	table := uc.console.CreateTable()
	table.AddColumn("AWS Account Profile")
	table.AddColumn(fmt.Sprintf("Total Cost\n(%s)", period))
	table.AddColumn("Top Services")
	table.AddColumn("Budget Status")

	for _, ps := range summaries {
		profileCell := fmt.Sprintf("Profile: %s\nAccount: %s", ps.Profile, ps.AccountID)
		if !ps.Success {
			table.AddRow(profileCell, pterm.FgRed.Sprint("Error"), pterm.FgRed.Sprint(ps.Error), "")
			continue
		}

		table.AddRow(
			profileCell,
			pterm.FgGreen.Sprintf("$%.2f", ps.Summary.TotalCost),
			strings.Join(formatTopServices(ps.Summary, 5), "\n"),
			strings.Join(formatBudgetInfo(ps.Budgets), "\n"),
		)
	}

	return table
}

// renderProfileDetails exibe a quebra por serviço/usage type e as barras diárias.
func (uc *DashboardUseCase) renderProfileDetails(ps entity.ProfileSummary) {
	uc.console.Printf("\n%s\n", pterm.FgYellow.Sprintf("Account: %s (Profile: %s)", ps.AccountID, ps.Profile))

	table := uc.console.CreateTable()
	table.AddColumn("Service")
	table.AddColumn("Cost")
	table.AddColumn("Share")
	table.AddColumn("Top Usage Types")

	for _, svc := range ps.Summary.Services {
		table.AddRow(
			svc.Name,
			fmt.Sprintf("$%.2f", svc.Cost),
			fmt.Sprintf("%.2f%%", svc.Percentage),
			strings.Join(formatUsageTypes(svc.UsageTypes, topUsageTypes), "\n"),
		)
	}
	uc.console.Print(table.Render())

	uc.console.DisplayDailyBars(
		fmt.Sprintf("Daily Costs - %s", ps.Profile),
		DailyTotals(ps.Summary),
	)
}

// DailyTotals soma os serviços de cada dia do resumo.
func DailyTotals(summary entity.CostSummary) []types.DailyTotal {
	totals := make([]types.DailyTotal, 0, len(summary.DailyCosts))
	for _, d := range summary.DailyCosts {
		var total float64
		for _, s := range d.Services {
			total += s.Cost
		}
		totals = append(totals, types.DailyTotal{Date: d.Date, Cost: total})
	}
	return totals
}

// formatTopServices formata os n serviços mais caros; o restante vira uma linha "Others".
func formatTopServices(summary entity.CostSummary, n int) []string {
	lines := []string{}
	var others float64
	for i, svc := range summary.Services {
		if i >= n {
			others += svc.Cost
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: $%.2f (%.1f%%)", svc.Name, svc.Cost, svc.Percentage))
	}
	if len(summary.Services) > n {
		lines = append(lines, fmt.Sprintf("Others (%d): $%.2f", len(summary.Services)-n, others))
	}
	if len(lines) == 0 {
		lines = append(lines, "No costs associated with this account")
	}
	return lines
}

func formatUsageTypes(usageTypes []entity.NamedCost, n int) []string {
	lines := []string{}
	for i, ut := range usageTypes {
		if i >= n {
			lines = append(lines, fmt.Sprintf("... (+%d more)", len(usageTypes)-n))
			break
		}
		lines = append(lines, fmt.Sprintf("%s: $%.2f", ut.Name, ut.Cost))
	}
	return lines
}

// formatBudgetInfo formata as informações do orçamento para exibição.
func formatBudgetInfo(budgets []entity.BudgetInfo) []string {
	budgetInfo := []string{}

	for _, budget := range budgets {
		line := fmt.Sprintf("%s: $%.2f / $%.2f", budget.Name, budget.Actual, budget.Limit)
		if budget.Exceeded() {
			line = pterm.FgRed.Sprint(line + " (exceeded)")
		}
		budgetInfo = append(budgetInfo, line)
		if budget.Forecast > 0 {
			budgetInfo = append(budgetInfo, fmt.Sprintf("%s forecast: $%.2f", budget.Name, budget.Forecast))
		}
	}

	if len(budgetInfo) == 0 {
		budgetInfo = append(budgetInfo, "No budgets found;\nCreate a budget for this account")
	}

	return budgetInfo
}
