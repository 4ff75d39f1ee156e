package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	DatabaseURL       string
	Env               string
	LogLevel          slog.Level
	APIMaxBodyBytes   int64
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	// WriteTimeout bounds a synchronous import run, which answers only when
	// it finishes.
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	ImportMaxFileBytes  int64
	ImportLookupRowCap  int
	ImportTriggerLimit  int
	ImportTriggerWindow time.Duration
	RateLimitMaxKeys    int

	BlobDriver      string
	BlobFSRoot      string
	BlobS3Bucket    string
	BlobS3Region    string
	BlobS3Endpoint  string
	BlobS3PathStyle bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:              getEnv("API_ADDR", ":8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		Env:               getEnv("APP_ENV", "dev"),
		LogLevel:          getEnvLevel("LOG_LEVEL", slog.LevelInfo),
		APIMaxBodyBytes:   int64(getEnvInt("API_MAX_BODY_MB", 1)) * 1024 * 1024,
		ReadHeaderTimeout: time.Duration(getEnvInt("API_READ_HEADER_TIMEOUT_SEC", 5)) * time.Second,
		ReadTimeout:       time.Duration(getEnvInt("API_READ_TIMEOUT_SEC", 15)) * time.Second,
		WriteTimeout:      time.Duration(getEnvInt("API_WRITE_TIMEOUT_SEC", 300)) * time.Second,
		IdleTimeout:       time.Duration(getEnvInt("API_IDLE_TIMEOUT_SEC", 60)) * time.Second,

		ImportMaxFileBytes:  int64(getEnvInt("IMPORT_MAX_FILE_MB", 25)) * 1024 * 1024,
		ImportLookupRowCap:  getEnvInt("IMPORT_LOOKUP_ROW_CAP", 50000),
		ImportTriggerLimit:  getEnvInt("IMPORT_TRIGGER_LIMIT", 6),
		ImportTriggerWindow: time.Duration(getEnvInt("IMPORT_TRIGGER_WINDOW_SEC", 60)) * time.Second,
		RateLimitMaxKeys:    getEnvInt("RATE_LIMIT_MAX_KEYS", 10000),

		BlobDriver:      strings.ToLower(getEnv("BLOB_DRIVER", "fs")),
		BlobFSRoot:      getEnv("BLOB_FS_ROOT", "./data/uploads"),
		BlobS3Bucket:    os.Getenv("BLOB_S3_BUCKET"),
		BlobS3Region:    getEnv("BLOB_S3_REGION", "us-east-1"),
		BlobS3Endpoint:  os.Getenv("BLOB_S3_ENDPOINT"),
		BlobS3PathStyle: getEnvBool("BLOB_S3_PATH_STYLE", false),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	switch cfg.BlobDriver {
	case "fs", "memory":
	case "s3":
		if cfg.BlobS3Bucket == "" {
			return Config{}, fmt.Errorf("BLOB_S3_BUCKET is required when BLOB_DRIVER=s3")
		}
	default:
		return Config{}, fmt.Errorf("unsupported BLOB_DRIVER %q", cfg.BlobDriver)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvLevel(key string, fallback slog.Level) slog.Level {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return fallback
	}
	return level
}
