package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	AlertPolicyContinuous = "continuous"
	AlertPolicyOnce       = "once"
)

type Config struct {
	Log     Logger        `mapstructure:"logger"`
	API     API           `mapstructure:"api"`
	Binance BinanceConfig `mapstructure:"binance"`
	Twilio  TwilioConfig  `mapstructure:"twilio"`
	Monitor MonitorConfig `mapstructure:"monitor"`
	Cache   Cache         `mapstructure:"cache"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type BinanceConfig struct {
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

type TwilioConfig struct {
	AccountSID          string        `mapstructure:"account_sid" validate:"required"`
	AuthToken           string        `mapstructure:"auth_token" validate:"required"`
	WhatsAppFrom        string        `mapstructure:"whatsapp_from" validate:"required"`
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerSecond int           `mapstructure:"max_request_per_second"`
}

type MonitorConfig struct {
	// CronExpression drives the internal scheduler. Leave empty to disable it
	// and trigger cycles externally via GET /check instead.
	CronExpression string        `mapstructure:"cron_expression"`
	CycleTimeout   time.Duration `mapstructure:"cycle_timeout"`
	// AlertPolicy is "continuous" (re-alert every cycle while the target holds)
	// or "once" (stop monitoring after the first delivered alert).
	AlertPolicy string `mapstructure:"alert_policy" validate:"oneof=continuous once"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	QuoteExpiration   time.Duration `mapstructure:"quote_expiration"`
}

func Load() (*Config, error) {
	// .env is optional, real deployments inject env vars directly.
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")

	viper.SetDefault("api.port", 5000)

	viper.SetDefault("binance.base_url", "https://fapi.binance.com")
	viper.SetDefault("binance.timeout", "5s")
	viper.SetDefault("binance.max_request_per_minute", 60)

	viper.SetDefault("twilio.whatsapp_from", "whatsapp:+14155238886")
	viper.SetDefault("twilio.base_url", "https://api.twilio.com")
	viper.SetDefault("twilio.timeout", "10s")
	viper.SetDefault("twilio.max_request_per_second", 1)

	viper.SetDefault("monitor.cron_expression", "* * * * *")
	viper.SetDefault("monitor.cycle_timeout", "30s")
	viper.SetDefault("monitor.alert_policy", AlertPolicyContinuous)

	viper.SetDefault("cache.default_expiration", "5m")
	viper.SetDefault("cache.cleanup_interval", "10m")
	viper.SetDefault("cache.quote_expiration", "5s")
}
