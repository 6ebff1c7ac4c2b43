package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
// If FOO_FILE is set, reads the file content and sets FOO.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	fileKey := envKey + "_FILE"
	filePath := os.Getenv(fileKey)
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	val := strings.TrimSpace(string(data))
	os.Setenv(envKey, val)
}

type Config struct {
	Server     ServerConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig
	Upload     UploadConfig
	Processing ProcessingConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type AuthConfig struct {
	Enabled bool
}

type RateLimitConfig struct {
	UploadPerHour  int
	ProcessPerHour int
	ExportPerHour  int
}

type UploadConfig struct {
	MaxFileSize       int64 // bytes, per file
	MaxBatchFiles     int
	MaxBatchSize      int64 // bytes, whole multipart body
	AllowedExtensions []string
}

type ProcessingConfig struct {
	Tick         time.Duration // progress tick period
	Stagger      time.Duration // start delay per queue position
	MaxIncrement float64       // percentage points per tick, upper bound
	Concurrency  int           // worker parallelism
	Confidence   float64       // confidence reported on completion
}

func Load() (*Config, error) {
	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("REDIS_PASSWORD")
	readSecret("JWT_SECRET")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables
	viper.AutomaticEnv()

	// Bind environment variables with underscores to nested config keys
	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("server.log_level", "LOG_LEVEL")
	_ = viper.BindEnv("redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = viper.BindEnv("redis.db", "REDIS_DB")
	_ = viper.BindEnv("jwt.secret", "JWT_SECRET")
	_ = viper.BindEnv("auth.enabled", "AUTH_ENABLED")
	_ = viper.BindEnv("upload.max_file_size", "UPLOAD_MAX_FILE_SIZE")
	_ = viper.BindEnv("upload.max_batch_files", "UPLOAD_MAX_BATCH_FILES")
	_ = viper.BindEnv("upload.max_batch_size", "UPLOAD_MAX_BATCH_SIZE")
	_ = viper.BindEnv("processing.tick", "PROCESSING_TICK")
	_ = viper.BindEnv("processing.stagger", "PROCESSING_STAGGER")
	_ = viper.BindEnv("processing.concurrency", "PROCESSING_CONCURRENCY")

	// Defaults
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("jwt.secret", "change-me-in-production")
	viper.SetDefault("auth.enabled", true)
	viper.SetDefault("ratelimit.upload_per_hour", 50)
	viper.SetDefault("ratelimit.process_per_hour", 30)
	viper.SetDefault("ratelimit.export_per_hour", 20)

	// Upload defaults
	viper.SetDefault("upload.max_file_size", 10*1024*1024)
	viper.SetDefault("upload.max_batch_files", 50)
	viper.SetDefault("upload.max_batch_size", 100*1024*1024)
	viper.SetDefault("upload.allowed_extensions", []string{"pdf", "docx", "txt", "rtf", "odt"})

	// Processing defaults
	viper.SetDefault("processing.tick", "200ms")
	viper.SetDefault("processing.stagger", "1s")
	viper.SetDefault("processing.max_increment", 15.0)
	viper.SetDefault("processing.concurrency", 4)
	viper.SetDefault("processing.confidence", 0.92)

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:     viper.GetString("server.port"),
			Env:      viper.GetString("server.env"),
			LogLevel: viper.GetString("server.log_level"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("jwt.secret"),
		},
		Auth: AuthConfig{
			Enabled: viper.GetBool("auth.enabled"),
		},
		RateLimit: RateLimitConfig{
			UploadPerHour:  viper.GetInt("ratelimit.upload_per_hour"),
			ProcessPerHour: viper.GetInt("ratelimit.process_per_hour"),
			ExportPerHour:  viper.GetInt("ratelimit.export_per_hour"),
		},
		Upload: UploadConfig{
			MaxFileSize:       viper.GetInt64("upload.max_file_size"),
			MaxBatchFiles:     viper.GetInt("upload.max_batch_files"),
			MaxBatchSize:      viper.GetInt64("upload.max_batch_size"),
			AllowedExtensions: viper.GetStringSlice("upload.allowed_extensions"),
		},
		Processing: ProcessingConfig{
			Tick:         viper.GetDuration("processing.tick"),
			Stagger:      viper.GetDuration("processing.stagger"),
			MaxIncrement: viper.GetFloat64("processing.max_increment"),
			Concurrency:  viper.GetInt("processing.concurrency"),
			Confidence:   viper.GetFloat64("processing.confidence"),
		},
	}

	return cfg, nil
}
