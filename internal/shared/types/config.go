package types

// Config represents the application configuration that can be loaded from a file.
// Every field can also be overridden from the environment.
type Config struct {
	Profiles         []string   `json:"profiles" yaml:"profiles" toml:"profiles" env:"AWS_COST_PROFILES" env-upd:"" env-separator:","`
	All              bool       `json:"all" yaml:"all" toml:"all" env:"AWS_COST_ALL" env-upd:""`
	Region           string     `json:"region" yaml:"region" toml:"region" env:"AWS_COST_REGION" env-upd:""`
	TimeRange        int        `json:"time_range" yaml:"time_range" toml:"time_range" env:"AWS_COST_TIME_RANGE" env-upd:""`
	Start            string     `json:"start" yaml:"start" toml:"start" env:"AWS_COST_START" env-upd:""`
	End              string     `json:"end" yaml:"end" toml:"end" env:"AWS_COST_END" env-upd:""`
	Tag              []string   `json:"tag" yaml:"tag" toml:"tag" env:"AWS_COST_TAG" env-upd:"" env-separator:","`
	ReportName       string     `json:"report_name" yaml:"report_name" toml:"report_name" env:"AWS_COST_REPORT_NAME" env-upd:""`
	ReportType       []string   `json:"report_type" yaml:"report_type" toml:"report_type" env:"AWS_COST_REPORT_TYPE" env-upd:"" env-separator:","`
	Dir              string     `json:"dir" yaml:"dir" toml:"dir" env:"AWS_COST_DIR" env-upd:""`
	Concurrency      int        `json:"concurrency" yaml:"concurrency" toml:"concurrency" env:"AWS_COST_CONCURRENCY" env-upd:""`
	LogLevel         string     `json:"log_level" yaml:"log_level" toml:"log_level" env:"AWS_COST_LOG_LEVEL" env-upd:""`
	RetryMaxAttempts int        `json:"retry_max_attempts" yaml:"retry_max_attempts" toml:"retry_max_attempts" env:"AWS_COST_RETRY_MAX_ATTEMPTS" env-upd:""`
	HTTP             HTTPConfig `json:"http" yaml:"http" toml:"http"`
}

// HTTPConfig configures the API server started by the serve command.
type HTTPConfig struct {
	Addr                string   `json:"addr" yaml:"addr" toml:"addr" env:"AWS_COST_HTTP_ADDR" env-upd:""`
	ReadTimeoutSeconds  int      `json:"read_timeout" yaml:"read_timeout" toml:"read_timeout" env:"AWS_COST_HTTP_READ_TIMEOUT" env-upd:""`
	WriteTimeoutSeconds int      `json:"write_timeout" yaml:"write_timeout" toml:"write_timeout" env:"AWS_COST_HTTP_WRITE_TIMEOUT" env-upd:""`
	AllowedOrigins      []string `json:"allowed_origins" yaml:"allowed_origins" toml:"allowed_origins" env:"AWS_COST_HTTP_ALLOWED_ORIGINS" env-upd:"" env-separator:","`
}

// Valores padrão usados quando nem arquivo, nem ambiente, nem flags definem o campo.
const (
	DefaultTimeRange        = 30
	DefaultConcurrency      = 4
	DefaultLogLevel         = "info"
	DefaultRetryMaxAttempts = 5
	DefaultHTTPAddr         = ":3001"
	DefaultReadTimeout      = 15
	DefaultWriteTimeout     = 60
)

// DefaultConfig retorna a configuração com todos os valores padrão preenchidos.
func DefaultConfig() *Config {
	return &Config{
		TimeRange:        DefaultTimeRange,
		ReportType:       []string{"csv"},
		Concurrency:      DefaultConcurrency,
		LogLevel:         DefaultLogLevel,
		RetryMaxAttempts: DefaultRetryMaxAttempts,
		HTTP: HTTPConfig{
			Addr:                DefaultHTTPAddr,
			ReadTimeoutSeconds:  DefaultReadTimeout,
			WriteTimeoutSeconds: DefaultWriteTimeout,
			AllowedOrigins:      []string{"*"},
		},
	}
}

// Merge copia para c os campos não vazios de other.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if len(other.Profiles) > 0 {
		c.Profiles = other.Profiles
	}
	if other.All {
		c.All = true
	}
	if other.Region != "" {
		c.Region = other.Region
	}
	if other.TimeRange > 0 {
		c.TimeRange = other.TimeRange
	}
	if other.Start != "" {
		c.Start = other.Start
	}
	if other.End != "" {
		c.End = other.End
	}
	if len(other.Tag) > 0 {
		c.Tag = other.Tag
	}
	if other.ReportName != "" {
		c.ReportName = other.ReportName
	}
	if len(other.ReportType) > 0 {
		c.ReportType = other.ReportType
	}
	if other.Dir != "" {
		c.Dir = other.Dir
	}
	if other.Concurrency > 0 {
		c.Concurrency = other.Concurrency
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.RetryMaxAttempts > 0 {
		c.RetryMaxAttempts = other.RetryMaxAttempts
	}
	if other.HTTP.Addr != "" {
		c.HTTP.Addr = other.HTTP.Addr
	}
	if other.HTTP.ReadTimeoutSeconds > 0 {
		c.HTTP.ReadTimeoutSeconds = other.HTTP.ReadTimeoutSeconds
	}
	if other.HTTP.WriteTimeoutSeconds > 0 {
		c.HTTP.WriteTimeoutSeconds = other.HTTP.WriteTimeoutSeconds
	}
	if len(other.HTTP.AllowedOrigins) > 0 {
		c.HTTP.AllowedOrigins = other.HTTP.AllowedOrigins
	}
}
