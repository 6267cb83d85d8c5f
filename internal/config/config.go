package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Cfg is the globally accessible configuration instance
var Cfg *Config

// Config is the top-level configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Geo       GeoConfig       `mapstructure:"geo"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Profiles  ProfilesConfig  `mapstructure:"profiles"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// RedisConfig holds redis connection settings
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig holds session token settings
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	Issuer    string        `mapstructure:"issuer"`
}

// GeoConfig holds geocoding client settings
type GeoConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// AnalyticsConfig holds view accounting settings.
// AnchorHour pins the analytics-day boundary; the upstream product
// anchored it at 01:00 rather than midnight and that default is kept.
type AnalyticsConfig struct {
	AnchorHour int `mapstructure:"anchor_hour"`
}

// ProfilesConfig holds full-profile document source settings
type ProfilesConfig struct {
	DataDir  string        `mapstructure:"data_dir"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// RateLimitConfig holds per-IP rate limit settings
type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from ./configs and fills Cfg
func Load() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Missing file is fine, defaults and env apply
	}

	viper.SetEnvPrefix("LINKHUB")
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg
	return nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "linkhub")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("auth.token_ttl", 24*time.Hour)
	viper.SetDefault("auth.issuer", "linkhub")
	viper.SetDefault("geo.endpoint", "https://nominatim.openstreetmap.org/search")
	viper.SetDefault("geo.timeout", 5*time.Second)
	viper.SetDefault("analytics.anchor_hour", 1)
	viper.SetDefault("profiles.data_dir", "./data")
	viper.SetDefault("profiles.cache_ttl", 5*time.Minute)
	viper.SetDefault("rate_limit.requests", 60)
	viper.SetDefault("rate_limit.window", time.Minute)
	viper.SetDefault("log.level", "info")
}
