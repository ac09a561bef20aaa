package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"currency-watch/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	Source    SourceConfig    `mapstructure:"source"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Detection DetectionConfig `mapstructure:"detection"`
	Alerting  AlertingConfig  `mapstructure:"alerting"`
	Export    ExportConfig    `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// SourceConfig describes the scraped page and the identity the fetcher
// presents. The headers are a policy of the network layer, not of
// extraction.
type SourceConfig struct {
	BaseURL        string            `mapstructure:"base_url"`
	RequestTimeout time.Duration     `mapstructure:"request_timeout"`
	Headers        map[string]string `mapstructure:"headers"`
}

// SchedulerConfig governs fetch cadence.
type SchedulerConfig struct {
	Interval     time.Duration `mapstructure:"interval"`
	AlignToStart bool          `mapstructure:"align_to_start"`
	StartupDelay time.Duration `mapstructure:"startup_delay"`
}

// DatabaseConfig locates the embedded SQLite file. An empty path disables
// persistence.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// DetectionConfig sets the change-detection threshold.
type DetectionConfig struct {
	ThresholdPct float64 `mapstructure:"threshold_pct"`
}

// AlertingConfig defines movement-alert routing.
type AlertingConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Channels []string       `mapstructure:"channels"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig holds Telegram channel parameters.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	APIBase  string `mapstructure:"api_base"`
}

// ExportConfig controls session export files written during run mode and the
// export command's limits.
type ExportConfig struct {
	Dir           string `mapstructure:"dir"`
	SessionCSV    bool   `mapstructure:"session_csv"`
	SessionJSON   bool   `mapstructure:"session_json"`
	SessionXLSX   bool   `mapstructure:"session_xlsx"`
	MaxDataPoints int    `mapstructure:"max_data_points"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CURRENCYWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "currencywatch")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("source.base_url", "https://tradingeconomics.com/currencies")
	v.SetDefault("source.request_timeout", "30s")
	// Accept-Encoding is deliberately absent: setting it by hand disables the
	// transport's transparent gzip decoding, and the fetched body must reach
	// extraction as text.
	v.SetDefault("source.headers", map[string]string{
		"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/97.0.4692.71 Safari/537.36",
		"Accept-Language":           "en-US,en;q=0.9",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
	})

	v.SetDefault("scheduler.interval", "60s")
	v.SetDefault("scheduler.align_to_start", true)
	v.SetDefault("scheduler.startup_delay", "0s")

	v.SetDefault("database.path", "data/currency_watch.db")

	v.SetDefault("detection.threshold_pct", 0.5)

	v.SetDefault("alerting.enabled", true)
	v.SetDefault("alerting.channels", []string{"log"})
	v.SetDefault("alerting.telegram.api_base", "https://api.telegram.org")

	v.SetDefault("export.dir", "currency_data")
	v.SetDefault("export.max_data_points", 100000)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Source.BaseURL == "" {
		return fmt.Errorf("source.base_url is required")
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be greater than zero")
	}
	if c.Detection.ThresholdPct < 0 {
		return fmt.Errorf("detection.threshold_pct cannot be negative")
	}
	if c.Export.MaxDataPoints <= 0 {
		return fmt.Errorf("export.max_data_points must be greater than zero")
	}
	for _, channel := range c.Alerting.Channels {
		switch channel {
		case "log":
		case "telegram":
			if c.Alerting.Telegram.BotToken == "" {
				return fmt.Errorf("alerting.telegram.bot_token is required for the telegram channel")
			}
			if c.Alerting.Telegram.ChatID == "" {
				return fmt.Errorf("alerting.telegram.chat_id is required for the telegram channel")
			}
		default:
			return fmt.Errorf("unknown alerting channel %q", channel)
		}
	}
	return nil
}
