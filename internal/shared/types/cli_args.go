package types

// CLIArgs represents the resolved command-line arguments
// (defaults, config file, environment and flags already merged).
type CLIArgs struct {
	ConfigFile  string
	Profiles    []string
	All         bool
	Region      string
	TimeRange   int
	Start       string
	End         string
	Tag         []string
	ReportName  string
	ReportType  []string
	Dir         string
	Concurrency int
	LogLevel    string
}
