// Package config provides configuration management for the bot.
// It loads environment variables and makes them available throughout the application.
package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	BotToken     string
	DevGuildID   string
	DeveloperIDs []string

	// Persistence
	DataFile string

	// MongoDB (snapshot mirror, disabled when empty)
	MongoDBURL string
	DBName     string

	// MQTT (event publisher, disabled when MQTTHost is empty)
	MQTTHost     string
	MQTTPort     string
	MQTTUser     string
	MQTTPassword string

	// Web Server
	Port         string
	AllowedHosts string

	// Environment
	Environment string

	// Webhooks
	ErrorWebhook      string
	LogsWebhook       string
	LogsWebServerHook string

	// Tasks
	SweepInterval time.Duration
	FlushInterval time.Duration
	SweepWorkers  int
}

var (
	Version   = "Dev-Local"
	BuildTime = "Hoy"
)

const (
	DefaultSweepInterval = time.Minute
	DefaultFlushInterval = 5 * time.Minute
)

// cfg holds the global configuration instance
var (
	cfg     *Config
	cfgOnce sync.Once
)

// resetForTesting resets the configuration for testing purposes.
// This function should only be called from test code.
func resetForTesting() {
	cfg = nil
	cfgOnce = sync.Once{}
}

// loadConfig performs the actual configuration loading
func loadConfig() {
	// Load .env file if it exists (ignoring error if it doesn't)
	_ = godotenv.Load()

	cfg = &Config{
		// Discord
		BotToken:     getEnv("botToken", getEnv("DISCORD_TOKEN", "")),
		DevGuildID:   getEnv("devGuildId", ""),
		DeveloperIDs: getList("developerIds"),

		// Persistence
		DataFile: getEnv("dataFile", "bot_data.json"),

		// MongoDB
		MongoDBURL: getEnv("mongodbUrl", ""),
		DBName:     getEnv("dbName", "MultiGameBot"),

		// MQTT
		MQTTHost:     getEnv("MQTT_Host", ""),
		MQTTPort:     getEnv("MQTT_Port", "1883"),
		MQTTUser:     getEnv("MQTT_User", ""),
		MQTTPassword: getEnv("MQTT_Password", ""),

		// Web Server
		Port:         getEnv("PORT", "3000"),
		AllowedHosts: getEnv("allowedHosts", ""),

		// Environment
		Environment: getEnv("enviroment", "dev"),

		// Webhooks
		ErrorWebhook:      getEnv("errorWebhook", ""),
		LogsWebhook:       getEnv("logsWebhook", ""),
		LogsWebServerHook: getEnv("logsWebServerWebhook", ""),

		// Tasks
		SweepInterval: getDuration("sweepInterval", DefaultSweepInterval),
		FlushInterval: getDuration("flushInterval", DefaultFlushInterval),
		SweepWorkers:  getInt("sweepWorkers", 4),
	}
}

// Load initializes the configuration from environment variables
func Load() (*Config, error) {
	cfgOnce.Do(loadConfig)
	return cfg, nil
}

// Get returns the current configuration
func Get() *Config {
	// Use sync.Once to ensure thread-safe initialization if Load wasn't called
	cfgOnce.Do(loadConfig)
	return cfg
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a Go duration ("90s", "5m"); invalid or non-positive
// values yield the default
func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

// getList splits a comma separated variable, skipping blanks
func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsDeveloper reports whether userID may run /dev commands
func (c *Config) IsDeveloper(userID string) bool {
	for _, id := range c.DeveloperIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// MongoEnabled reports whether the snapshot mirror is configured
func (c *Config) MongoEnabled() bool {
	return c.MongoDBURL != ""
}

// MQTTEnabled reports whether the event publisher is configured
func (c *Config) MQTTEnabled() bool {
	return c.MQTTHost != ""
}
