package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	DBPath       string     // FILLDB_DB, default "filldb.db"
	SeedDataPath string     // DEBUG_USE_SEED_DATA_PATH, default "seed_data/realistic_seed_data.json"
	DummyAPIKey  string     // FILLDB_DUMMY_API_KEY, default "1234"
	LogFile      string     // FILLDB_LOG_FILE, optional
	LogLevel     slog.Level // FILLDB_LOG_LEVEL, default INFO
	ReplayErrors string     // FILLDB_REPLAY_ERRORS, "log" or "fail", default "log"
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		DBPath:       envOr("FILLDB_DB", "filldb.db"),
		SeedDataPath: envOr("DEBUG_USE_SEED_DATA_PATH", "seed_data/realistic_seed_data.json"),
		DummyAPIKey:  envOr("FILLDB_DUMMY_API_KEY", "1234"),
		LogFile:      os.Getenv("FILLDB_LOG_FILE"),
		LogLevel:     parseLogLevel(envOr("FILLDB_LOG_LEVEL", "INFO")),
		ReplayErrors: strings.ToLower(envOr("FILLDB_REPLAY_ERRORS", "log")),
	}
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
