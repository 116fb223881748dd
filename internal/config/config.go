package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store drivers selectable via TASKFLOW_STORE.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config keeps runtime settings for the service.
type Config struct {
	HTTPAddr       string
	StoreDriver    string
	DatabaseURL    string
	SeedDemoData   bool
	DigestTime     string // HH:MM, empty disables the daily digest
	TelegramToken  string
	TelegramChatID int64
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is honored when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:      getenv("TASKFLOW_ADDR", ":8080"),
		StoreDriver:   getenv("TASKFLOW_STORE", StoreSQLite),
		DatabaseURL:   getenv("DATABASE_URL", "taskflow.db"),
		SeedDemoData:  parseBool(os.Getenv("TASKFLOW_SEED_DEMO")),
		DigestTime:    strings.TrimSpace(os.Getenv("TASKFLOW_DIGEST_TIME")),
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
	}

	switch cfg.StoreDriver {
	case StoreSQLite, StoreMemory:
	default:
		return cfg, fmt.Errorf("TASKFLOW_STORE must be %q or %q, got %q", StoreSQLite, StoreMemory, cfg.StoreDriver)
	}

	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("TELEGRAM_CHAT_ID must be an integer: %w", err)
		}
		cfg.TelegramChatID = chatID
	}

	if cfg.DigestTime != "" && (cfg.TelegramToken == "" || cfg.TelegramChatID == 0) {
		return cfg, fmt.Errorf("TASKFLOW_DIGEST_TIME requires TELEGRAM_TOKEN and TELEGRAM_CHAT_ID")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
