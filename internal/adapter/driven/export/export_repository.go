package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diillson/aws-cost-dashboard-go/internal/domain/entity"
	"github.com/diillson/aws-cost-dashboard-go/internal/domain/repository"
	"github.com/jung-kurt/gofpdf"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct {
	now func() time.Time
}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{now: time.Now}
}

// --- Funções de Exportação do Resumo de Custos ---

func (r *ExportRepositoryImpl) ExportSummaryToCSV(data []entity.ProfileSummary, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	headers := []string{
		"CLI Profile", "AWS Account ID", "Period", "Section",
		"Date", "Service", "Usage Type", "Cost", "Percentage",
	}
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, row := range data {
		for _, record := range summaryRows(row) {
			if err := writer.Write(record); err != nil {
				return "", fmt.Errorf("error writing CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error flushing CSV file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// summaryRows achata um ProfileSummary em linhas CSV: total, serviços, usage types e dias.
func summaryRows(ps entity.ProfileSummary) [][]string {
	period := ps.Period.String()
	base := func(section, date, service, usage string, cost float64, pct string) []string {
		return []string{ps.Profile, ps.AccountID, period, section, date, service, usage, money(cost), pct}
	}

	if !ps.Success {
		return [][]string{{ps.Profile, ps.AccountID, period, "error", "", "", "", "", ps.Error}}
	}

	s := ps.Summary
	rows := [][]string{base("total", "", "", "", s.TotalCost, "100.00%")}
	for _, svc := range s.Services {
		rows = append(rows, base("service", "", svc.Name, "", svc.Cost, fmt.Sprintf("%.2f%%", svc.Percentage)))
		for _, ut := range svc.UsageTypes {
			rows = append(rows, base("usage_type", "", svc.Name, ut.Name, ut.Cost, ""))
		}
	}
	for _, d := range s.DailyCosts {
		for _, svc := range d.Services {
			rows = append(rows, base("daily", d.Date, svc.Name, "", svc.Cost, ""))
		}
	}
	return rows
}

func (r *ExportRepositoryImpl) ExportSummaryToJSON(data []entity.ProfileSummary, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportSummaryToPDF(data []entity.ProfileSummary, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	sectionTitleColor := [3]int{0, 0, 0}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	drawSection := func(title string, content string) {
		if strings.TrimSpace(content) == "" {
			return
		}
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)

		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)

		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.MultiCell(190, 5, tr(content), "", "L", false)
		pdf.Ln(8)
	}

	for i, rowData := range data {
		pdf.AddPage()

		pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
		pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
		pdf.SetFont("Arial", "B", 14)
		profileName := rowData.Profile
		if len(profileName) > 80 {
			profileName = profileName[:77] + "..."
		}
		pdf.CellFormat(0, 12, tr(fmt.Sprintf("  %s", profileName)), "", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		pdf.SetFillColor(240, 240, 240)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Account ID: %s", rowData.AccountID)), "", 1, "L", true, 0, "")
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Period: %s", rowData.Period.String())), "", 1, "L", true, 0, "")
		pdf.Ln(10)

		if !rowData.Success {
			drawSection("Error", rowData.Error)
		} else {
			pdf.SetFont("Arial", "B", 16)
			pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
			pdf.CellFormat(0, 12, tr(fmt.Sprintf("Total: %s", money(rowData.Summary.TotalCost))), "", 1, "L", false, 0, "")
			pdf.Ln(6)

			drawSection("Cost By Service", formatServiceLines(rowData.Summary.Services))

			var daily strings.Builder
			for _, d := range rowData.Summary.DailyCosts {
				var dayTotal float64
				parts := make([]string, 0, len(d.Services))
				for _, svc := range d.Services {
					dayTotal += svc.Cost
					parts = append(parts, fmt.Sprintf("%s %s", svc.Name, money(svc.Cost)))
				}
				daily.WriteString(fmt.Sprintf("%s  %s  (%s)\n", d.Date, money(dayTotal), strings.Join(parts, ", ")))
			}
			drawSection("Daily Costs", daily.String())
		}

		drawSection("Budget Status", strings.Join(formatBudgets(rowData.Budgets), "\n"))

		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footerText := fmt.Sprintf("Generated by AWS Cost Dashboard (Go) | %s", r.now().Format("2006-01-02"))
		pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Page %d", i+1)), "", 0, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- Funções Auxiliares ---

// generateFilename cria um nome de arquivo único com timestamp e garante que o diretório exista.
func (r *ExportRepositoryImpl) generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := r.now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}

// money formata o valor com duas casas decimais; arredondamento é só de apresentação.
func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func formatBudgets(budgets []entity.BudgetInfo) []string {
	var lines []string
	for _, b := range budgets {
		line := fmt.Sprintf("%s: %s of %s (%.1f%%)", b.Name, money(b.Actual), money(b.Limit), b.UsedPercent())
		if b.Forecast > 0 {
			line += fmt.Sprintf(", forecast %s", money(b.Forecast))
		}
		lines = append(lines, line)
	}
	return lines
}

// formatServiceLines lista cada serviço seguido dos seus usage types.
// Só usa caracteres representáveis em cp1252, a codificação das fontes do PDF.
func formatServiceLines(services []entity.ServiceSummary) string {
	var b strings.Builder
	for _, svc := range services {
		b.WriteString(fmt.Sprintf("%s: %s (%.2f%%)\n", svc.Name, money(svc.Cost), svc.Percentage))
		for _, ut := range svc.UsageTypes {
			b.WriteString(fmt.Sprintf("  - %s: %s\n", ut.Name, money(ut.Cost)))
		}
	}
	return b.String()
}
