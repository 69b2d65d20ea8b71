package config

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig
	DB     DBConfig
	Redis  RedisConfig
	JWT    JWTConfig
	SMTP   SMTPConfig
	Notify NotifyConfig
	Lock   LockConfig
}

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string
	// Timezone used to interpret requested dates and to bucket analytics by day.
	Timezone string
	// StoreDriver is "postgres" or "memory".
	StoreDriver string
	CORSOrigin  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
	PoolSize int
	// Timeout bounds dialing and every command round trip.
	Timeout time.Duration
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Enabled  bool
}

type NotifyConfig struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

type LockConfig struct {
	TTL time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Environment variables alone are enough in containers.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	config := &Config{
		App: AppConfig{
			Port:        viper.GetString("APP_PORT"),
			Env:         viper.GetString("APP_ENV"),
			LogLevel:    viper.GetString("APP_LOG_LEVEL"),
			Timezone:    viper.GetString("CLINIC_TIMEZONE"),
			StoreDriver: viper.GetString("STORE_DRIVER"),
			CORSOrigin:  viper.GetString("CORS_ALLOWED_ORIGIN"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			Enabled:  viper.GetBool("REDIS_ENABLED"),
			PoolSize: viper.GetInt("REDIS_POOL_SIZE"),
			Timeout:  parseDuration("REDIS_TIMEOUT", 3*time.Second),
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: parseDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			Username: viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASS"),
			From:     viper.GetString("SMTP_FROM"),
			Enabled:  viper.GetBool("SMTP_ENABLED"),
		},
		Notify: NotifyConfig{
			Workers:     viper.GetInt("NOTIFY_WORKERS"),
			QueueSize:   viper.GetInt("NOTIFY_QUEUE_SIZE"),
			SendTimeout: parseDuration("NOTIFY_SEND_TIMEOUT", 10*time.Second),
		},
		Lock: LockConfig{
			TTL: parseDuration("LOCK_TTL", 5*time.Second),
		},
	}

	return config, nil
}

// Location resolves the clinic timezone, falling back to UTC.
func (c AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_LOG_LEVEL", "info")
	viper.SetDefault("STORE_DRIVER", "postgres")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_ENABLED", true)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("NOTIFY_WORKERS", 2)
	viper.SetDefault("NOTIFY_QUEUE_SIZE", 256)
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(viper.GetString(key))
	if err != nil {
		return fallback
	}
	return d
}
