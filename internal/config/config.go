// backend-go/internal/config/config.go
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	App      AppConfig
	Storage  StorageConfig
	Drive    DriveConfig
	LLM      LLMConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host                   string
	Port                   int
	User                   string
	Password               string
	Name                   string
	SSLMode                string
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeMinutes int
	MaxConcurrentTx        int
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	ReportTTLSeconds int
}

type AppConfig struct {
	LogLevel            string
	UploadDir           string
	ForecastHorizon     int
	ForecastBatchSize   int
	ForecastParallelism int
	ForecastRetentionD  int
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type DriveConfig struct {
	Enabled         bool
	CredentialsFile string
	FolderID        string
	PollSeconds     int
}

type LLMConfig struct {
	APIKey         string
	Model          string
	TimeoutSeconds int
}

// Load reads configuration from the environment (and an optional .env file)
// and returns a fresh Config. Callers own the value; nothing is cached.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "shelfwise")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	v.SetDefault("DB_MAX_CONCURRENT_TX", 4)

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_REPORT_TTL_SECONDS", 300)

	v.SetDefault("APP_LOG_LEVEL", "info")
	v.SetDefault("APP_UPLOAD_DIR", "./data/uploads")
	v.SetDefault("APP_FORECAST_HORIZON_DAYS", 30)
	v.SetDefault("APP_FORECAST_BATCH_SIZE", 20)
	v.SetDefault("APP_FORECAST_PARALLELISM", 4)
	v.SetDefault("APP_FORECAST_RETENTION_DAYS", 90)

	v.SetDefault("STORAGE_ENABLED", false)
	v.SetDefault("STORAGE_ENDPOINT", "localhost:9000")
	v.SetDefault("STORAGE_ACCESS_KEY", "")
	v.SetDefault("STORAGE_SECRET_KEY", "")
	v.SetDefault("STORAGE_BUCKET", "shelfwise-imports")
	v.SetDefault("STORAGE_USE_SSL", false)

	v.SetDefault("DRIVE_ENABLED", false)
	v.SetDefault("DRIVE_CREDENTIALS_FILE", "")
	v.SetDefault("DRIVE_FOLDER_ID", "")
	v.SetDefault("DRIVE_POLL_SECONDS", 300)

	v.SetDefault("LLM_API_KEY", "")
	v.SetDefault("LLM_MODEL", "")
	v.SetDefault("LLM_TIMEOUT_SECONDS", 15)

	v.AutomaticEnv()

	if err := ensureDir(v.GetString("APP_UPLOAD_DIR")); err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:                   v.GetString("DB_HOST"),
			Port:                   v.GetInt("DB_PORT"),
			User:                   v.GetString("DB_USER"),
			Password:               v.GetString("DB_PASSWORD"),
			Name:                   v.GetString("DB_NAME"),
			SSLMode:                v.GetString("DB_SSLMODE"),
			MaxOpenConns:           v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:           v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetimeMinutes: v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES"),
			MaxConcurrentTx:        v.GetInt("DB_MAX_CONCURRENT_TX"),
		},
		Cache: CacheConfig{
			Enabled:          v.GetBool("CACHE_ENABLED"),
			RedisURL:         v.GetString("REDIS_URL"),
			RedisHost:        v.GetString("REDIS_HOST"),
			RedisPort:        v.GetString("REDIS_PORT"),
			RedisPassword:    v.GetString("REDIS_PASSWORD"),
			RedisDB:          v.GetInt("REDIS_DB"),
			ReportTTLSeconds: v.GetInt("CACHE_REPORT_TTL_SECONDS"),
		},
		App: AppConfig{
			LogLevel:            v.GetString("APP_LOG_LEVEL"),
			UploadDir:           v.GetString("APP_UPLOAD_DIR"),
			ForecastHorizon:     v.GetInt("APP_FORECAST_HORIZON_DAYS"),
			ForecastBatchSize:   v.GetInt("APP_FORECAST_BATCH_SIZE"),
			ForecastParallelism: v.GetInt("APP_FORECAST_PARALLELISM"),
			ForecastRetentionD:  v.GetInt("APP_FORECAST_RETENTION_DAYS"),
		},
		Storage: StorageConfig{
			Enabled:   v.GetBool("STORAGE_ENABLED"),
			Endpoint:  v.GetString("STORAGE_ENDPOINT"),
			AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			UseSSL:    v.GetBool("STORAGE_USE_SSL"),
		},
		Drive: DriveConfig{
			Enabled:         v.GetBool("DRIVE_ENABLED"),
			CredentialsFile: v.GetString("DRIVE_CREDENTIALS_FILE"),
			FolderID:        v.GetString("DRIVE_FOLDER_ID"),
			PollSeconds:     v.GetInt("DRIVE_POLL_SECONDS"),
		},
		LLM: LLMConfig{
			APIKey:         v.GetString("LLM_API_KEY"),
			Model:          v.GetString("LLM_MODEL"),
			TimeoutSeconds: v.GetInt("LLM_TIMEOUT_SECONDS"),
		},
	}, nil
}

func ensureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
