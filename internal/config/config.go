package config

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Source  SourceConfig  `yaml:"source" mapstructure:"source"`
	Filter  FilterConfig  `yaml:"filter" mapstructure:"filter"`
	Scoring ScoringConfig `yaml:"scoring" mapstructure:"scoring"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// SourceConfig selects where the lead table is loaded from.
type SourceConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // csv, xlsx, sqlite, postgres; empty = infer from path
	Path        string `yaml:"path" mapstructure:"path"`
	Sheet       string `yaml:"sheet" mapstructure:"sheet"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Table       string `yaml:"table" mapstructure:"table"`

	// Connection retries for database drivers.
	ConnectAttempts  int `yaml:"connect_attempts" mapstructure:"connect_attempts"`
	ConnectBackoffMs int `yaml:"connect_backoff_ms" mapstructure:"connect_backoff_ms"`
}

// FilterConfig holds the default filter values applied when no flag or
// query parameter overrides them.
type FilterConfig struct {
	Industries []string `yaml:"industries" mapstructure:"industries"`
	Cities     []string `yaml:"cities" mapstructure:"cities"`
	RevenueMin *float64 `yaml:"revenue_min" mapstructure:"revenue_min"`
	RevenueMax *float64 `yaml:"revenue_max" mapstructure:"revenue_max"`
	Dedupe     bool     `yaml:"dedupe" mapstructure:"dedupe"`
	MinScore   float64  `yaml:"min_score" mapstructure:"min_score"`
}

// ScoringConfig holds the lead score weights and sub-score rules.
type ScoringConfig struct {
	RevenueWeight   float64 `yaml:"revenue_weight" mapstructure:"revenue_weight"`
	GrowthWeight    float64 `yaml:"growth_weight" mapstructure:"growth_weight"`
	EmployeesWeight float64 `yaml:"employees_weight" mapstructure:"employees_weight"`
	AgeWeight       float64 `yaml:"age_weight" mapstructure:"age_weight"`
	KeywordWeight   float64 `yaml:"keyword_weight" mapstructure:"keyword_weight"`

	MinEmployees      int     `yaml:"min_employees" mapstructure:"min_employees"`
	MaxEmployees      int     `yaml:"max_employees" mapstructure:"max_employees"`
	EmployeesFallback float64 `yaml:"employees_fallback" mapstructure:"employees_fallback"`
	FoundedSince      int     `yaml:"founded_since" mapstructure:"founded_since"`
	AgeFallback       float64 `yaml:"age_fallback" mapstructure:"age_fallback"`
	Keyword           string  `yaml:"keyword" mapstructure:"keyword"`
	KeywordMatch      float64 `yaml:"keyword_match" mapstructure:"keyword_match"`
}

// ExportConfig configures the default export target.
type ExportConfig struct {
	Path   string `yaml:"path" mapstructure:"path"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RateLimit      float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	Burst          int      `yaml:"burst" mapstructure:"burst"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output" mapstructure:"output"` // stderr or a file path
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADSCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("source.driver", "")
	v.SetDefault("source.path", "leads_sample.csv")
	v.SetDefault("source.table", "leads")
	v.SetDefault("source.connect_attempts", 3)
	v.SetDefault("source.connect_backoff_ms", 250)
	v.SetDefault("filter.dedupe", true)
	v.SetDefault("filter.min_score", 50)
	v.SetDefault("scoring.revenue_weight", 0.4)
	v.SetDefault("scoring.growth_weight", 0.3)
	v.SetDefault("scoring.employees_weight", 0.1)
	v.SetDefault("scoring.age_weight", 0.1)
	v.SetDefault("scoring.keyword_weight", 0.1)
	v.SetDefault("scoring.min_employees", 50)
	v.SetDefault("scoring.max_employees", 150)
	v.SetDefault("scoring.employees_fallback", 0.5)
	v.SetDefault("scoring.founded_since", 2015)
	v.SetDefault("scoring.age_fallback", 0.7)
	v.SetDefault("scoring.keyword", "SaaS")
	v.SetDefault("scoring.keyword_match", 0.1)
	v.SetDefault("export.path", "filtered_leads.csv")
	v.SetDefault("export.format", "csv")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 20)
	v.SetDefault("server.burst", 40)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stderr")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// SourceDriver returns the configured driver, inferring it from the path
// extension when unset.
func (c SourceConfig) SourceDriver() string {
	if c.Driver != "" {
		return strings.ToLower(c.Driver)
	}
	switch strings.ToLower(filepath.Ext(c.Path)) {
	case ".xlsx":
		return "xlsx"
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite"
	}
	if strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		return "postgres"
	}
	return "csv"
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	var errs []string

	switch c.Source.SourceDriver() {
	case "csv", "xlsx", "sqlite":
		if c.Source.Path == "" {
			errs = append(errs, "source.path is required")
		}
	case "postgres":
		if c.Source.DatabaseURL == "" {
			errs = append(errs, "source.database_url is required for postgres")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown source.driver %q", c.Source.Driver))
	}

	if c.Filter.RevenueMin != nil && c.Filter.RevenueMax != nil && *c.Filter.RevenueMax < *c.Filter.RevenueMin {
		errs = append(errs, "filter.revenue_max must be >= filter.revenue_min")
	}
	if c.Filter.MinScore < 0 || c.Filter.MinScore > 100 {
		errs = append(errs, "filter.min_score must be between 0 and 100")
	}

	switch c.Export.Format {
	case "csv", "xlsx":
	default:
		errs = append(errs, fmt.Sprintf("unknown export.format %q", c.Export.Format))
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 0 and 65535")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// WeightSum returns the sum of all scoring weights.
func (c ScoringConfig) WeightSum() float64 {
	return c.RevenueWeight + c.GrowthWeight + c.EmployeesWeight + c.AgeWeight + c.KeywordWeight
}

// ValidateScoring checks that the scoring weights are non-negative and sum to 1.
func ValidateScoring(c ScoringConfig) error {
	var errs []string

	weights := map[string]float64{
		"revenue_weight":   c.RevenueWeight,
		"growth_weight":    c.GrowthWeight,
		"employees_weight": c.EmployeesWeight,
		"age_weight":       c.AgeWeight,
		"keyword_weight":   c.KeywordWeight,
	}
	for name, w := range weights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	// Allow tolerance for floating-point.
	if sum := c.WeightSum(); math.Abs(sum-1) > 0.001 {
		errs = append(errs, fmt.Sprintf("weights should sum to 1, got %.3f", sum))
	}
	if c.MaxEmployees < c.MinEmployees {
		errs = append(errs, "max_employees must be >= min_employees")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: scoring validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger installs the global zap logger. Logs never go to stdout, which
// carries score output.
func InitLogger(cfg LogConfig) error {
	zapCfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}

	lvl := cfg.Level
	if lvl == "" {
		lvl = "info"
	}
	level, err := zapcore.ParseLevel(lvl)
	if err != nil {
		return eris.Wrapf(err, "config: parse log level %q", cfg.Level)
	}
	zapCfg.Level.SetLevel(level)

	out := cfg.Output
	if out == "" {
		out = "stderr"
	}
	if out == "stdout" {
		return eris.New("config: log.output cannot be stdout")
	}
	zapCfg.OutputPaths = []string{out}
	zapCfg.InitialFields = map[string]any{"app": "leadscore"}

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}
