package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	BoardWidth  int
	BoardHeight int
	AIEnabled   bool
	AISeed      int64
	Player1Name string
	Player2Name string

	// Spectator server; an empty port disables it
	Port           string
	AllowedOrigins []string

	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	HistoryRetention     time.Duration

	RedisURL      string
	RedisPassword string

	KafkaBrokers []string
	KafkaTopic   string

	LogFile string
}

var AppConfig *Config

func LoadConfig() *Config {
	// Spectator CORS: localhost for development plus CSV values
	allowedOrigins := []string{"http://localhost:5173"}
	allowedOrigins = append(allowedOrigins, GetEnvAsList("ALLOWED_ORIGINS")...)

	retentionDays := GetEnvAsInt("HISTORY_RETENTION_DAYS", 30)
	if retentionDays <= 0 {
		log.Printf("[CONFIG] HISTORY_RETENTION_DAYS must be positive, using default: 30")
		retentionDays = 30
	}

	AppConfig = &Config{
		BoardWidth:  GetEnvAsInt("BOARD_WIDTH", 7),
		BoardHeight: GetEnvAsInt("BOARD_HEIGHT", 7),
		AIEnabled:   GetEnvAsBool("AI_ENABLED", false),
		AISeed:      int64(GetEnvAsInt("AI_SEED", 0)),
		Player1Name: GetEnv("PLAYER1_NAME", "a"),
		Player2Name: GetEnv("PLAYER2_NAME", "b"),

		Port:           GetEnv("PORT", ""),
		AllowedOrigins: allowedOrigins,

		DatabaseURL:          GetEnv("DATABASE_URL", ""),
		DBMaxOpenConns:       GetEnvAsInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:       GetEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxLifetimeMin: GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),
		HistoryRetention:     time.Duration(retentionDays) * 24 * time.Hour,

		RedisURL:      GetEnv("REDIS_URL", ""),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),

		KafkaBrokers: GetEnvAsList("KAFKA_BROKERS"),
		KafkaTopic:   GetEnv("KAFKA_TOPIC", "connect4.rounds"),

		LogFile: GetEnv("LOG_FILE", ""),
	}

	return AppConfig
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("[CONFIG] Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("[CONFIG] Invalid boolean value for %s: %s, using default: %v", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsList splits a comma separated variable, dropping blank entries.
func GetEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
