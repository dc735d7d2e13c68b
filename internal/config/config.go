package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App    AppConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Auth   AuthConfig
	Upload UploadConfig
	Logger LoggerConfig
}

// AppConfig holds configuration for the HTTP server
type AppConfig struct {
	HTTPPort               string `mapstructure:"HTTP_PORT"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
}

// MongoConfig holds configuration for the document store
type MongoConfig struct {
	URI                   string `mapstructure:"MONGO_URI"`
	Database              string `mapstructure:"MONGO_DATABASE"`
	ConnectTimeoutSeconds int    `mapstructure:"MONGO_CONNECT_TIMEOUT_SECONDS"`
}

// RedisConfig holds configuration for the user cache
type RedisConfig struct {
	Enabled     bool   `mapstructure:"REDIS_ENABLED"`
	Host        string `mapstructure:"REDIS_HOST"`
	Port        string `mapstructure:"REDIS_PORT"`
	Password    string `mapstructure:"REDIS_PASSWORD"`
	DB          int    `mapstructure:"REDIS_DB"`
	PoolSize    int    `mapstructure:"REDIS_POOL_SIZE"`
	MinIdleConn int    `mapstructure:"REDIS_MIN_IDLE_CONN"`
	CacheTTL    int    `mapstructure:"REDIS_CACHE_TTL"`
}

// AuthConfig holds the token signing secret and lifetime.
// The secret's single source of truth is this configuration value;
// it is injected into the token service once at startup.
type AuthConfig struct {
	Secret          string `mapstructure:"AUTH_SECRET"`
	TokenTTLSeconds int    `mapstructure:"AUTH_TOKEN_TTL_SECONDS"`
}

// UploadConfig holds the profile image upload directory and the public
// path it is served from
type UploadConfig struct {
	Dir        string `mapstructure:"UPLOAD_DIR"`
	PublicPath string `mapstructure:"UPLOAD_PUBLIC_PATH"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level          string `mapstructure:"LOG_LEVEL"`
	Format         string `mapstructure:"LOG_FORMAT"`
	OutputPath     string `mapstructure:"LOG_OUTPUT_PATH"`
	EnableSampling bool   `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName    string `mapstructure:"SERVICE_NAME"`
	ServiceVersion string `mapstructure:"SERVICE_VERSION"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (*Config, error) {
	setDefaults()

	viper.AddConfigPath(path)
	viper.SetConfigName("app") // Look for app.env
	viper.SetConfigType("env")

	viper.AutomaticEnv() // Read from environment variables

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if we have env vars
	}

	var config Config

	config.App.HTTPPort = viper.GetString("HTTP_PORT")
	config.App.ShutdownTimeoutSeconds = viper.GetInt("SHUTDOWN_TIMEOUT_SECONDS")

	config.Mongo.URI = viper.GetString("MONGO_URI")
	config.Mongo.Database = viper.GetString("MONGO_DATABASE")
	config.Mongo.ConnectTimeoutSeconds = viper.GetInt("MONGO_CONNECT_TIMEOUT_SECONDS")

	config.Redis.Enabled = viper.GetBool("REDIS_ENABLED")
	config.Redis.Host = viper.GetString("REDIS_HOST")
	config.Redis.Port = viper.GetString("REDIS_PORT")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")
	config.Redis.PoolSize = viper.GetInt("REDIS_POOL_SIZE")
	config.Redis.MinIdleConn = viper.GetInt("REDIS_MIN_IDLE_CONN")
	config.Redis.CacheTTL = viper.GetInt("REDIS_CACHE_TTL")

	config.Auth.Secret = viper.GetString("AUTH_SECRET")
	config.Auth.TokenTTLSeconds = viper.GetInt("AUTH_TOKEN_TTL_SECONDS")

	config.Upload.Dir = viper.GetString("UPLOAD_DIR")
	config.Upload.PublicPath = viper.GetString("UPLOAD_PUBLIC_PATH")

	config.Logger.Level = viper.GetString("LOG_LEVEL")
	config.Logger.Format = viper.GetString("LOG_FORMAT")
	config.Logger.OutputPath = viper.GetString("LOG_OUTPUT_PATH")
	config.Logger.EnableSampling = viper.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = viper.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = viper.GetString("SERVICE_VERSION")

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("HTTP_PORT", "3000")
	viper.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 15)

	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "user_account_service")
	viper.SetDefault("MONGO_CONNECT_TIMEOUT_SECONDS", 10)

	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_POOL_SIZE", 10)
	viper.SetDefault("REDIS_MIN_IDLE_CONN", 2)
	viper.SetDefault("REDIS_CACHE_TTL", 300)

	// No default secret on purpose: Validate rejects an empty one so
	// the signing key always comes from configuration.
	viper.SetDefault("AUTH_SECRET", "")
	viper.SetDefault("AUTH_TOKEN_TTL_SECONDS", 3600)

	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("UPLOAD_PUBLIC_PATH", "/uploads")

	env := viper.GetString("APP_ENV")
	if env == "production" {
		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("LOG_FORMAT", "json")
		viper.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		viper.SetDefault("LOG_LEVEL", "debug")
		viper.SetDefault("LOG_FORMAT", "console")
		viper.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	viper.SetDefault("LOG_OUTPUT_PATH", "stdout")
	viper.SetDefault("SERVICE_NAME", "user-account-service")
	viper.SetDefault("SERVICE_VERSION", "1.0.0")
}

// Validate checks that required configuration values are present and sane.
func (c *Config) Validate() error {
	if c.Auth.Secret == "" {
		return errors.New("AUTH_SECRET is required")
	}
	if c.Auth.TokenTTLSeconds <= 0 {
		return errors.New("AUTH_TOKEN_TTL_SECONDS must be positive")
	}
	if c.Mongo.URI == "" {
		return errors.New("MONGO_URI is required")
	}
	if c.Mongo.Database == "" {
		return errors.New("MONGO_DATABASE is required")
	}
	if c.Upload.Dir == "" {
		return errors.New("UPLOAD_DIR is required")
	}
	return nil
}

// TokenTTL returns the configured token lifetime as a duration.
func (c *AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLSeconds) * time.Second
}
