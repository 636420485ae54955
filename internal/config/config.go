package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/newthinker/realize/internal/core"
	"github.com/newthinker/realize/internal/realization"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Market      MarketConfig      `mapstructure:"market"`
	Dashboard   DashboardConfig   `mapstructure:"dashboard"`
	Realization RealizationConfig `mapstructure:"realization"`
	Export      ExportConfig      `mapstructure:"export"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	TemplatesDir string `mapstructure:"templates_dir"`
}

// MarketConfig holds market-data provider settings.
type MarketConfig struct {
	ChartURL  string        `mapstructure:"chart_url"`
	QuoteURL  string        `mapstructure:"quote_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	Proxy     string        `mapstructure:"proxy"`
}

// DashboardConfig holds the form presets shown in the sidebar.
type DashboardConfig struct {
	Title         string   `mapstructure:"title"`
	Symbols       []string `mapstructure:"symbols"`
	DefaultPeriod string   `mapstructure:"default_period"`
}

// RealizationConfig holds evaluation rules.
type RealizationConfig struct {
	TieBreak            string `mapstructure:"tie_break"` // "target" or "stop_loss"
	SkipUnsetThresholds bool   `mapstructure:"skip_unset_thresholds"`
}

// ExportConfig holds CSV artifact settings.
type ExportConfig struct {
	Type     string   `mapstructure:"type"` // "localfs" or "s3"
	Path     string   `mapstructure:"path"` // For localfs, defaults to the OS temp dir
	Filename string   `mapstructure:"filename"`
	BOM      bool     `mapstructure:"bom"`
	S3       S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file on top of Defaults
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v, Defaults())

	// Support environment variable overrides
	v.SetEnvPrefix("REALIZE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.templates_dir", d.Server.TemplatesDir)
	v.SetDefault("market.chart_url", d.Market.ChartURL)
	v.SetDefault("market.quote_url", d.Market.QuoteURL)
	v.SetDefault("market.timeout", d.Market.Timeout)
	v.SetDefault("market.user_agent", d.Market.UserAgent)
	v.SetDefault("market.proxy", d.Market.Proxy)
	v.SetDefault("dashboard.title", d.Dashboard.Title)
	v.SetDefault("dashboard.symbols", d.Dashboard.Symbols)
	v.SetDefault("dashboard.default_period", d.Dashboard.DefaultPeriod)
	v.SetDefault("realization.tie_break", d.Realization.TieBreak)
	v.SetDefault("realization.skip_unset_thresholds", d.Realization.SkipUnsetThresholds)
	v.SetDefault("export.type", d.Export.Type)
	v.SetDefault("export.path", d.Export.Path)
	v.SetDefault("export.filename", d.Export.Filename)
	v.SetDefault("export.bom", d.Export.BOM)
	v.SetDefault("export.s3.bucket", d.Export.S3.Bucket)
	v.SetDefault("export.s3.endpoint", d.Export.S3.Endpoint)
	v.SetDefault("export.s3.region", d.Export.S3.Region)
	v.SetDefault("export.s3.access_key", d.Export.S3.AccessKey)
	v.SetDefault("export.s3.secret_key", d.Export.S3.SecretKey)
	v.SetDefault("export.s3.prefix", d.Export.S3.Prefix)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8501,
		},
		Market: MarketConfig{
			ChartURL:  "https://query1.finance.yahoo.com/v8/finance/chart",
			QuoteURL:  "https://finance.yahoo.com/quote",
			Timeout:   10 * time.Second,
			UserAgent: "Mozilla/5.0",
		},
		Dashboard: DashboardConfig{
			Title: "Interactive Stock Dashboard",
			Symbols: []string{
				"AAPL", "MSFT", "GOOGL", "TSLA", "ASII.JK", "BBCA.JK", "TLKM.JK",
				"BBRI.JK", "UNVR.JK", "KO", "DIS", "WMT", "ICBP.JK",
			},
			DefaultPeriod: string(core.DefaultPeriod),
		},
		Realization: RealizationConfig{
			TieBreak: string(realization.TargetTakesPrecedence),
		},
		Export: ExportConfig{
			Type:     "localfs",
			Filename: "realization_result.csv",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Policy converts the realization section into evaluation rules.
func (c *Config) Policy() realization.Policy {
	return realization.Policy{
		TieBreak:  realization.TieBreak(c.Realization.TieBreak),
		SkipUnset: c.Realization.SkipUnsetThresholds,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	if c.Market.ChartURL == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("market chart_url is required"))
	}
	if c.Market.Timeout < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("market timeout cannot be negative, got %s", c.Market.Timeout))
	}

	if c.Dashboard.DefaultPeriod != "" && !core.Period(c.Dashboard.DefaultPeriod).IsValid() {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unsupported default_period %q", c.Dashboard.DefaultPeriod))
	}

	if !realization.TieBreak(c.Realization.TieBreak).IsValid() {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("tie_break must be %q or %q, got %q",
				realization.TargetTakesPrecedence, realization.StopLossTakesPrecedence, c.Realization.TieBreak))
	}

	if c.Export.Filename == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("export filename is required"))
	}
	switch c.Export.Type {
	case "localfs":
	case "s3":
		if c.Export.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required when export type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("export type must be localfs or s3, got %q", c.Export.Type))
	}

	return nil
}
