package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB     int    `mapstructure:"REDIS_CACHE_DB"`
	RedisDispatchDB  int    `mapstructure:"REDIS_DISPATCH_DB"`
	RedisNotifyQueue int    `mapstructure:"REDIS_NOTIFY_QUEUE_DB"`

	// Dispatch policy.
	OfferWindowSeconds int     `mapstructure:"OFFER_WINDOW_SECONDS"`
	SettleDelaySeconds int     `mapstructure:"SETTLE_DELAY_SECONDS"`
	MaxCandidates      int     `mapstructure:"MAX_CANDIDATES"`
	BaseEtaMinutes     int     `mapstructure:"BASE_ETA_MINUTES"`
	EtaMinutesPerKm    float64 `mapstructure:"ETA_MINUTES_PER_KM"`
	PremiumMultiplier  float64 `mapstructure:"PREMIUM_MULTIPLIER"`
	PriorityFee        float64 `mapstructure:"PRIORITY_FEE"`

	// Firebase push credentials. Empty disables FCM delivery.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_DISPATCH_DB", 1)
	viper.SetDefault("REDIS_NOTIFY_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("OFFER_WINDOW_SECONDS", 30)
	viper.SetDefault("SETTLE_DELAY_SECONDS", 2)
	viper.SetDefault("MAX_CANDIDATES", 10)
	viper.SetDefault("BASE_ETA_MINUTES", 10)
	viper.SetDefault("ETA_MINUTES_PER_KM", 2.0)
	viper.SetDefault("PREMIUM_MULTIPLIER", 1.5)
	viper.SetDefault("PRIORITY_FEE", 25.0)
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
