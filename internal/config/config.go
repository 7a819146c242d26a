package config

import (
	"log"

	"github.com/spf13/viper"
)

// RecomputeMode controls what happens when the provider rating aggregate
// cannot be recomputed after a rating write. "best-effort" logs the failure
// and lets the rating write commit with a stale aggregate; "strict" rolls
// the whole transaction back.
const (
	RecomputeBestEffort = "best-effort"
	RecomputeStrict     = "strict"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	// Redis (rate limiting + provider profile cache)
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// "best-effort" (default) or "strict"
	RatingRecomputeMode string `mapstructure:"RATING_RECOMPUTE_MODE"`
}

var AppConfig *Config

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("RATING_RECOMPUTE_MODE", RecomputeBestEffort)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
}

// StrictRecompute reports whether aggregate recompute failures should abort
// the triggering rating write.
func StrictRecompute() bool {
	return AppConfig != nil && AppConfig.RatingRecomputeMode == RecomputeStrict
}
