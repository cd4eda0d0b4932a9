package console

import (
	"log/slog"
	"strings"

	"github.com/pterm/pterm"
)

// NewLogger cria um *slog.Logger que escreve através do logger do pterm,
// mantendo o mesmo visual do restante da CLI.
func NewLogger(level string) *slog.Logger {
	logger := pterm.DefaultLogger.
		WithLevel(ParseLogLevel(level)).
		WithTime(true)
	return slog.New(pterm.NewSlogHandler(logger))
}

// ParseLogLevel converte "debug", "info", "warn" ou "error" para o nível do pterm.
// Valores desconhecidos usam info.
func ParseLogLevel(level string) pterm.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return pterm.LogLevelDebug
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	default:
		return pterm.LogLevelInfo
	}
}
