package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime setting for the service.
type Config struct {
	App  AppConfig
	HTTP HTTPConfig
	DB   DBConfig
	JWT  JWTConfig
	Mill MillConfig
}

type AppConfig struct {
	Name     string
	Env      string // development, staging, production
	LogLevel string
}

type HTTPConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DBConfig struct {
	// DatabaseURL takes precedence when set; otherwise the discrete
	// fields are assembled into a DSN.
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

// MillConfig carries fallbacks used when the settings row is absent.
type MillConfig struct {
	Name     string
	Currency string
}

// DSN returns the connection string for pgx.
func (d DBConfig) DSN() string {
	if d.DatabaseURL != "" {
		return d.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// Load reads configuration from the environment, with an optional
// config.env file for local development.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name:     getString(v, "APP_NAME", "ricemill-api"),
			Env:      getString(v, "APP_ENV", "development"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Port:            getInt(v, "HTTP_PORT", 8080),
			ReadTimeout:     time.Duration(getInt(v, "HTTP_READ_TIMEOUT_SECONDS", 15)) * time.Second,
			WriteTimeout:    time.Duration(getInt(v, "HTTP_WRITE_TIMEOUT_SECONDS", 30)) * time.Second,
			ShutdownTimeout: time.Duration(getInt(v, "HTTP_SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", "postgres"),
			Name:        getString(v, "DB_NAME", "ricemill"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
			Issuer: getString(v, "JWT_ISSUER", "ricemill-api"),
		},
		Mill: MillConfig{
			Name:     getString(v, "MILL_NAME", "KMG Rice Mill"),
			Currency: getString(v, "MILL_CURRENCY", "LKR"),
		},
	}

	if cfg.App.Env == "production" && cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		return v.GetInt(key)
	}
	return def
}
