package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Ledger    LedgerConfig    `yaml:"ledger" mapstructure:"ledger"`
	Pricing   PricingConfig   `yaml:"pricing" mapstructure:"pricing"`
	Form      FormConfig      `yaml:"form" mapstructure:"form"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings for the oracle.
type AnthropicConfig struct {
	Key       string  `yaml:"key" mapstructure:"key"`
	Model     string  `yaml:"model" mapstructure:"model"`
	MaxTokens int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	RateRPS   float64 `yaml:"rate_rps" mapstructure:"rate_rps"`
}

// LedgerConfig configures the flat-file calculation ledger and the
// interaction database.
type LedgerConfig struct {
	DataFile string `yaml:"data_file" mapstructure:"data_file"`
	DBFile   string `yaml:"db_file" mapstructure:"db_file"`
}

// PricingConfig holds the constants of the price composition formula.
type PricingConfig struct {
	HourlyRate      float64 `yaml:"hourly_rate" mapstructure:"hourly_rate"`
	ReputationBonus float64 `yaml:"reputation_bonus" mapstructure:"reputation_bonus"`
}

// FormConfig configures interactive form behavior.
type FormConfig struct {
	DebounceMS int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

// ServerConfig configures the JSON API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("APPRAISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("anthropic.rate_rps", 2.0)
	v.SetDefault("ledger.data_file", "art_pricing_data.csv")
	v.SetDefault("ledger.db_file", "oracle_interactions.db")
	v.SetDefault("pricing.hourly_rate", 15.0)
	v.SetDefault("pricing.reputation_bonus", 50.0)
	v.SetDefault("form.debounce_ms", 1000)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
