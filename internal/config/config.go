package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Auth         Auth         `mapstructure:",squash"`
	Cache        Cache        `mapstructure:",squash"`
	CacheRefresh CacheRefresh `mapstructure:",squash"`
	Upload       Upload       `mapstructure:",squash"`
	SecretKey    string       `mapstructure:"secret_key"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

// Auth carries the single configured operator credential pair. The plain
// password comparison matches the original deployment; when a bcrypt hash is
// configured it takes precedence and the plain value is ignored.
type Auth struct {
	AdminUsername     string `mapstructure:"admin_username"`
	AdminPassword     string `mapstructure:"admin_password"`
	AdminPasswordHash string `mapstructure:"admin_password_hash"`
}

// Cache controls the sales-table snapshot. TTLMinutes = 0 keeps the snapshot
// until an ingestion invalidates it.
type Cache struct {
	TTLMinutes int `mapstructure:"cache_ttl_minutes"`
}

// CacheRefresh configures the optional background warm job.
type CacheRefresh struct {
	CronSchedule string `mapstructure:"cache_refresh_cron"`
	Enabled      bool   `mapstructure:"cache_refresh_enabled"`
}

type Upload struct {
	MaxSizeMB int64 `mapstructure:"upload_max_size_mb"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/sales")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_PASSWORD", "")      // must come from the environment
	viper.SetDefault("ADMIN_PASSWORD_HASH", "") // optional bcrypt hash, preferred when set

	viper.SetDefault("SECRET_KEY", "your_secret_key")

	viper.SetDefault("CACHE_TTL_MINUTES", 0)

	viper.SetDefault("CACHE_REFRESH_CRON", "0 * * * *") // hourly when enabled
	viper.SetDefault("CACHE_REFRESH_ENABLED", false)

	viper.SetDefault("UPLOAD_MAX_SIZE_MB", 32)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("using variables loaded by godotenv (viper could not read .env):", err)
	} else {
		logrus.Info(".env file read by viper")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// loadEnvFile loads a local .env via godotenv, trying the usual locations
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("could not determine working directory:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info(".env loaded from:", location)
			return
		}
	}

	logrus.Warn("no .env file found in the known locations")
}
