package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	DBPath            string
	ExportDir         string
	LogLevel          string
	DailyNew          int
	Intervals         []int
	MinCardLen        int
	MaxCardLen        int
	ImportWorkerCount int
	ImportQueueSize   int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "file:srsdeck.db"),
		ExportDir:         envOr("EXPORT_DIR", "outputs"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		DailyNew:          envIntOr("DAILY_NEW", 10),
		Intervals:         envIntervalsOr("INTERVALS", []int{1, 3, 7, 14, 30}),
		MinCardLen:        envIntOr("MIN_CARD_LEN", 3),
		MaxCardLen:        envIntOr("MAX_CARD_LEN", 260),
		ImportWorkerCount: envIntOr("IMPORT_WORKER_COUNT", 2),
		ImportQueueSize:   envIntOr("IMPORT_QUEUE_SIZE", 32),
	}
}

// Validate checks the loaded configuration and reports every problem found,
// not just the first.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	if c.ExportDir == "" {
		problems = append(problems, "EXPORT_DIR cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if c.DailyNew <= 0 {
		problems = append(problems, "DAILY_NEW must be a positive integer")
	}
	if len(c.Intervals) == 0 {
		problems = append(problems, "INTERVALS cannot be empty")
	}
	for i, d := range c.Intervals {
		if d <= 0 {
			problems = append(problems, fmt.Sprintf("INTERVALS entry %d must be positive, got %d", i+1, d))
		}
		if i > 0 && d <= c.Intervals[i-1] {
			problems = append(problems, "INTERVALS must be strictly increasing")
			break
		}
	}
	if c.MinCardLen < 1 {
		problems = append(problems, "MIN_CARD_LEN must be at least 1")
	}
	if c.MaxCardLen < c.MinCardLen {
		problems = append(problems, "MAX_CARD_LEN must be >= MIN_CARD_LEN")
	}
	if c.ImportWorkerCount <= 0 {
		problems = append(problems, "IMPORT_WORKER_COUNT must be a positive integer")
	}
	if c.ImportQueueSize <= 0 {
		problems = append(problems, "IMPORT_QUEUE_SIZE must be a positive integer")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

// envIntervalsOr parses a comma-separated list of day offsets, e.g. "1,3,7,14,30".
func envIntervalsOr(key string, def []int) []int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		i, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			log.Printf("invalid value for %s=%q, using default %v", key, v, def)
			return def
		}
		out = append(out, i)
	}
	return out
}
