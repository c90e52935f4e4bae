package config

import (
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL string
	HTTPAddr    string
	// PublicBaseURL prefixes attachment download links.
	PublicBaseURL string
	StoragePath   string

	TelegramToken   string
	TelegramDebug   bool
	BaseAdminChatID int64

	DefaultTimezone string
	ReportWorkers   int
	LogLevel        logrus.Level

	HolidaysFile       string
	HolidaysCalendarID uint
}

var instance *Config
var once sync.Once

// GetConfig loads the configuration once, reading .env when present.
func GetConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			logrus.Infof("no .env file loaded: %s", err.Error())
		}

		cfg, err := Load()
		if err != nil {
			logrus.Fatalf("invalid configuration: %s", err.Error())
		}
		instance = cfg
	})

	return instance
}

// Load builds a Config from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:     getEnv("DATABASE_URL", "attendance.db"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		StoragePath:     getEnv("STORAGE_PATH", "./storage"),
		TelegramToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramDebug:   getEnvAsBool("TELEGRAM_DEBUG", false),
		BaseAdminChatID: getEnvAsInt("BASE_ADMIN_CHAT_ID", 0),
		DefaultTimezone: getEnv("DEFAULT_TIMEZONE", ""),
		ReportWorkers:   int(getEnvAsInt("REPORT_WORKERS", 4)),
		HolidaysFile:    getEnv("HOLIDAYS_FILE", ""),
	}

	levelName := getEnv("LOG_LEVEL", "")
	if levelName == "" {
		levelName = "info"
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.ReportWorkers < 1 {
		cfg.ReportWorkers = 1
	}
	cfg.HolidaysCalendarID = uint(getEnvAsInt("HOLIDAYS_CALENDAR_ID", 0))

	return cfg, nil
}

// BotEnabled reports whether the Telegram bot should run.
func (c *Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

// ImportHolidays reports whether a holiday file must be loaded at startup.
func (c *Config) ImportHolidays() bool {
	return c.HolidaysFile != "" && c.HolidaysCalendarID != 0
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseInt(valStr, 10, 64); err == nil {
		return val
	}

	return defaultVal
}
