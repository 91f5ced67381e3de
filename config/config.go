package config

import (
	"os"
	"strconv"
	"sync"
)

var (
	config     *Config
	configOnce sync.Once
)

// Config stores all configuration of the application
type Config struct {
	// Subject airport
	AirportCode string

	// Server
	ServerPort string

	// Storage paths
	DBPath      string
	ArchivePath string
	BackupPath  string
	LogDir      string

	// Redis
	RedisHost string
	RedisPort string
	RedisDB   int

	// Upstream feeds
	OpenSkyAPIURL      string
	RadarAPIURL        string
	BoardArrivalsURL   string
	BoardDeparturesURL string
	WeatherAPIURL      string
	NASStatusURL       string

	// Freshness window for feed data, in seconds
	FeedCacheTTLSeconds int

	// Retention
	HistoryRetentionDays int
	ArchiveRetentionDays int

	// Backup runner (cmd/backup only)
	BackupIntervalMinutes int
}

// LoadConfig loads config from environment variables
func LoadConfig() *Config {
	return &Config{
		AirportCode: getEnv("AIRPORT_CODE", "ICT"),

		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBPath:      getEnv("DB_PATH", "flight_history.db"),
		ArchivePath: getEnv("ARCHIVE_PATH", "archive"),
		BackupPath:  getEnv("BACKUP_PATH", "backups"),
		LogDir:      getEnv("LOG_DIR", "logs"),

		RedisHost: getEnv("REDIS_HOST", "localhost"),
		RedisPort: getEnv("REDIS_PORT", "6379"),
		RedisDB:   getEnvAsInt("REDIS_DB", 0),

		OpenSkyAPIURL:      getEnv("OPENSKY_API_URL", "https://opensky-network.org/api/states/all"),
		RadarAPIURL:        getEnv("RADAR_API_URL", "https://data-cloud.flightradar24.com/zones/fcgi/feed.js"),
		BoardArrivalsURL:   getEnv("BOARD_ARRIVALS_URL", "https://www.airportia.com/united-states/wichita-mid-continent-airport/arrivals/"),
		BoardDeparturesURL: getEnv("BOARD_DEPARTURES_URL", "https://www.airportia.com/united-states/wichita-mid-continent-airport/departures/"),
		WeatherAPIURL:      getEnv("WEATHER_API_URL", "https://api.open-meteo.com/v1/forecast"),
		NASStatusURL:       getEnv("NAS_STATUS_URL", "https://nasstatus.faa.gov/api/airport-status-information"),

		FeedCacheTTLSeconds: getEnvAsInt("FEED_CACHE_TTL_SECONDS", 15),

		HistoryRetentionDays: getEnvAsInt("HISTORY_RETENTION_DAYS", 7),
		ArchiveRetentionDays: getEnvAsInt("ARCHIVE_RETENTION_DAYS", 30),

		BackupIntervalMinutes: getEnvAsInt("BACKUP_INTERVAL_MINUTES", 60),
	}
}

// GetConfig returns the application configuration as a singleton
func GetConfig() *Config {
	configOnce.Do(func() {
		config = LoadConfig()
	})
	return config
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// Helper function to get environment variable with default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as integer with default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
