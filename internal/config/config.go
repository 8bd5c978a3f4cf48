package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName       = "BlockAuth"
	defaultAppEnv        = "development"
	defaultPort          = "8080"
	defaultLogLevel      = "info"
	defaultSnapshotPath  = "data/session.json"
	defaultProfileKey    = "blockauth_user"
	defaultCode          = "123456"
	defaultCooldown      = 30 * time.Second
	defaultFlowTTL       = 15 * time.Minute
	defaultShutdownDelay = 10 * time.Second

	cooldownSecondsEnvVar  = "RESEND_COOLDOWN_SECONDS"
	flowTTLEnvVar          = "FLOW_TTL"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName          string
	AppEnv           string
	Port             string
	LogLevel         string
	DatabaseURL      string
	RedisURL         string
	SnapshotPath     string
	ProfileKey       string
	VerificationCode string
	ResendCooldown   time.Duration
	FlowTTL          time.Duration
	ShutdownPeriod   time.Duration
}

// Load reads configuration values from the environment and populates a Config
// instance. A .env file in the working directory is honored when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppName:          getEnv("APP_NAME", defaultAppName),
		AppEnv:           getEnv("APP_ENV", defaultAppEnv),
		Port:             getEnv("PORT", defaultPort),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		SnapshotPath:     getEnv("SNAPSHOT_PATH", defaultSnapshotPath),
		ProfileKey:       getEnv("PROFILE_KEY", defaultProfileKey),
		VerificationCode: getEnv("VERIFICATION_CODE", defaultCode),
		ResendCooldown:   defaultCooldown,
		FlowTTL:          defaultFlowTTL,
		ShutdownPeriod:   defaultShutdownDelay,
	}

	if v := os.Getenv(cooldownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			return Config{}, fmt.Errorf("invalid %s: %q", cooldownSecondsEnvVar, v)
		}
		cfg.ResendCooldown = time.Duration(seconds) * time.Second
	}

	if v := os.Getenv(flowTTLEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid %s: %q", flowTTLEnvVar, v)
		}
		cfg.FlowTTL = d
	}

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(shutdownDurationEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownDurationEnvVar, err)
		}
		cfg.ShutdownPeriod = d
	}

	if cfg.VerificationCode == "" {
		return Config{}, fmt.Errorf("VERIFICATION_CODE must not be empty")
	}

	return cfg, nil
}

// IsDev reports whether the app runs in a development-like environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
