package console

import (
	"fmt"
	"math"
	"strings"

	"github.com/diillson/aws-cost-dashboard-go/internal/shared/types"
	"github.com/pterm/pterm"
)

// Console é uma implementação do ConsoleInterface.
type Console struct{}

// NewConsole cria um novo Console.
func NewConsole() *Console {
	return &Console{}
}

// Print imprime no console.
func (c *Console) Print(a ...interface{}) {
	fmt.Print(a...)
}

// Printf imprime uma string formatada no console.
func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Printf(format, a...)
}

// LogInfo registra uma mensagem de informação.
func (c *Console) LogInfo(format string, a ...interface{}) {
	pterm.Info.Printfln(format, a...)
}

// LogWarning registra uma mensagem de aviso.
func (c *Console) LogWarning(format string, a ...interface{}) {
	pterm.Warning.Printfln(format, a...)
}

// LogError registra uma mensagem de erro.
func (c *Console) LogError(format string, a ...interface{}) {
	pterm.Error.Printfln(format, a...)
}

// LogSuccess registra uma mensagem de sucesso.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	pterm.Success.Printfln(format, a...)
}

// statusHandle é uma implementação do StatusHandle.
type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner de status com a mensagem especificada.
func (c *Console) Status(message string) types.StatusHandle {
	spinner, _ := pterm.DefaultSpinner.Start(message)
	return &statusHandle{spinner: spinner}
}

// Stop pára o spinner de status.
func (h *statusHandle) Stop() {
	if h.spinner != nil {
		h.spinner.Stop()
	}
}

// progressHandle é uma implementação do ProgressHandle.
type progressHandle struct {
	bar *pterm.ProgressbarPrinter
}

// ProgressWithTotal cria uma barra de progresso com o total de etapas informado.
func (c *Console) ProgressWithTotal(total int) types.ProgressHandle {
	bar, _ := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Fetching AWS cost data").
		WithShowElapsedTime(true).
		WithShowCount(true).
		WithRemoveWhenDone(false). // Manter a barra após concluir
		Start()
	return &progressHandle{bar: bar}
}

// Increment incrementa a barra de progresso.
func (h *progressHandle) Increment() {
	if h.bar != nil {
		h.bar.Increment()
	}
}

// Stop pára a barra de progresso.
func (h *progressHandle) Stop() {
	if h.bar != nil {
		h.bar.Stop()
	}
}

// Table é uma implementação do TableInterface.
type Table struct {
	columns []string
	rows    [][]string
}

// CreateTable cria uma nova tabela.
func (c *Console) CreateTable() types.TableInterface {
	return &Table{
		columns: []string{},
		rows:    [][]string{},
	}
}

// AddColumn adiciona uma coluna à tabela.
func (t *Table) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

// AddRow adiciona uma linha à tabela.
func (t *Table) AddRow(cells ...interface{}) {
	// Convertemos cada célula para string
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

// Render renderiza a tabela como uma string.
func (t *Table) Render() string {
	// Use o pterm para criar uma tabela visualmente agradável
	tableData := pterm.TableData{t.columns}
	for _, row := range t.rows {
		tableData = append(tableData, row)
	}

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable
}

// DisplayDailyBars exibe o custo de cada dia como barras, com a variação em relação ao dia anterior.
func (c *Console) DisplayDailyBars(title string, dailyCosts []types.DailyTotal) {
	// Encontra o valor máximo para escala
	maxCost := 0.0
	for _, cost := range dailyCosts {
		if cost.Cost > maxCost {
			maxCost = cost.Cost
		}
	}

	if maxCost == 0 {
		pterm.Warning.Println("All costs are $0.00 for this period")
		return
	}

	tableData := pterm.TableData{
		{"Date", "Cost", "", "DoD Change"},
	}

	var prevCost *float64

	for _, dc := range dailyCosts {
		barLength := int((dc.Cost / maxCost) * 40)
		bar := strings.Repeat("█", barLength)

		change, trend := DayOverDayChange(prevCost, dc.Cost)
		barColor := trendColor(trend).Sprint(bar)
		if change != "" {
			change = trendColor(trend).Sprint(change)
		}

		tableData = append(tableData, []string{
			dc.Date,
			fmt.Sprintf("$%.2f", dc.Cost),
			barColor,
			change,
		})

		currentCost := dc.Cost
		prevCost = &currentCost
	}

	table := pterm.DefaultTable.WithHasHeader().WithData(tableData)
	renderedTable, _ := table.Srender()

	panel := pterm.DefaultBox.WithTitle(title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(renderedTable)

	fmt.Println("\n" + panel)
}

// Trend classifica a variação entre dois dias consecutivos.
type Trend int

const (
	TrendNone Trend = iota
	TrendFlat
	TrendUp
	TrendDown
)

// DayOverDayChange calcula o texto da variação percentual em relação ao dia anterior.
// prev nil significa primeiro dia da série.
func DayOverDayChange(prev *float64, cost float64) (string, Trend) {
	if prev == nil {
		return "", TrendNone
	}
	if *prev < 0.01 {
		if cost < 0.01 {
			return "0%", TrendFlat
		}
		return "N/A", TrendUp
	}

	changePercent := ((cost - *prev) / *prev) * 100.0
	switch {
	case math.Abs(changePercent) < 0.01:
		return "0%", TrendFlat
	case changePercent > 999:
		return ">+999%", TrendUp
	case changePercent < -999:
		return ">-999%", TrendDown
	case changePercent > 0:
		return fmt.Sprintf("+%.2f%%", changePercent), TrendUp
	default:
		return fmt.Sprintf("%.2f%%", changePercent), TrendDown
	}
}

func trendColor(t Trend) pterm.Color {
	switch t {
	case TrendFlat:
		return pterm.FgYellow
	case TrendUp:
		return pterm.FgRed
	case TrendDown:
		return pterm.FgGreen
	default:
		return pterm.FgBlue
	}
}
