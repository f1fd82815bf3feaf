package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the service
type Config struct {
	Server    ServerConfig
	Fetch     FetchConfig
	Scratch   ScratchConfig
	Banner    BannerConfig
	Publisher string // "s3" or "youtube"
	S3        S3Config
	YouTube   YouTubeConfig
	Kafka     KafkaConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	LogLevel  string
	LogDir    string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration // 0 disables; overlay requests run synchronously
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// FetchConfig holds source download retry configuration
type FetchConfig struct {
	MaxAttempts    int
	InitialDelay   time.Duration
	AttemptTimeout time.Duration
}

// ScratchConfig holds scratch file configuration
type ScratchConfig struct {
	Dir string // empty means os.TempDir()
}

// BannerConfig holds banner rendering configuration
type BannerConfig struct {
	FontFile    string // empty lets ffmpeg pick via fontconfig
	PresetsFile string // optional per-platform preset YAML
}

// S3Config holds artifact store configuration
type S3Config struct {
	Bucket        string
	Region        string
	Profile       string
	KeyPrefix     string
	PublicBaseURL string
	UsePathStyle  bool
}

// YouTubeConfig holds YouTube publisher configuration
type YouTubeConfig struct {
	ServiceAccountFile string
}

// KafkaConfig holds job intake configuration; consumption is enabled only
// when Brokers is non-empty
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// RedisConfig holds published-result cache configuration; the cache is
// enabled only when Addr is non-empty
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RateLimitConfig holds submission rate limiting configuration
type RateLimitConfig struct {
	Enabled   bool
	PerMinute int
	Burst     int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 0),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Fetch: FetchConfig{
			MaxAttempts:    getEnvAsInt("FETCH_MAX_ATTEMPTS", DefaultFetchAttempts),
			InitialDelay:   getEnvAsDuration("FETCH_INITIAL_DELAY", DefaultFetchInitialDelay),
			AttemptTimeout: getEnvAsDuration("FETCH_ATTEMPT_TIMEOUT", DefaultFetchAttemptTimeout),
		},
		Scratch: ScratchConfig{
			Dir: getEnv("SCRATCH_DIR", ""),
		},
		Banner: BannerConfig{
			FontFile:    getEnv("BANNER_FONT_FILE", ""),
			PresetsFile: getEnv("BANNER_PRESETS_FILE", ""),
		},
		Publisher: getEnv("PUBLISHER", "s3"),
		S3: S3Config{
			Bucket:        getEnv("S3_BUCKET", ""),
			Region:        getEnv("S3_REGION", ""),
			Profile:       getEnv("S3_PROFILE", ""),
			KeyPrefix:     getEnv("S3_KEY_PREFIX", "overlays"),
			PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
			UsePathStyle:  getEnvAsBool("S3_USE_PATH_STYLE", false),
		},
		YouTube: YouTubeConfig{
			ServiceAccountFile: getEnv("YOUTUBE_SERVICE_ACCOUNT_FILE", "service-account.json"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "overlay-jobs"),
			GroupID: getEnv("KAFKA_GROUP_ID", "banner-overlay-service"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      getEnvAsDuration("REDIS_RESULT_TTL", 24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			Enabled:   getEnvAsBool("RATE_LIMIT_ENABLED", false),
			PerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
			Burst:     getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogDir:   getEnv("LOG_DIR", ""),
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvAsDuration gets an environment variable as a Go duration string
// ("30s", "2m") or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// splitList splits a comma-separated list, trimming whitespace and dropping
// empty entries
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
