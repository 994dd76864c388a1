package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP         string // Host IP for the server
	RESTPort       int    // Port for the REST API
	DBHost         string // Hostname or IP address for the database
	DBPort         int    // Port number for the database
	DBUser         string // Username for the database
	DBPassword     string // Password for the database
	DBName         string // Name of the database
	RedisHost      string // Hostname or IP address for the leaderboard redis
	RedisPort      int    // Port number for the leaderboard redis
	RedisPassword  string // Password for the leaderboard redis, empty for none
	LeaderboardTTL int    // Seconds a leaderboard lives without updates
	GinMode        string // Mode for the Gin framework (e.g., release, debug, test)
	JWTSecret      string // Secret key for JWT signing
	JWTIssuer      string // Issuer claim for JWTs
	TuningFile     string // Optional YAML file overriding the level tuning
	TemplateFile   string // Optional map template, levels get a generated maze when empty
	StreamInterval int    // Milliseconds between two snapshots on the event stream
	ExtendMargin   int    // Cells from the edge at which infinite levels grow
	LevelRetention int    // Seconds a finished level stays readable
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		DBHost:         mustGetEnv("DB_HOST"),
		DBPort:         mustGetEnvAsInt("DB_PORT"),
		DBUser:         mustGetEnv("DB_USER"),
		DBPassword:     mustGetEnv("DB_PASS"),
		DBName:         mustGetEnv("DB_NAME"),
		RedisHost:      mustGetEnv("REDIS_HOST"),
		RedisPort:      mustGetEnvAsInt("REDIS_PORT"),
		RedisPassword:  getEnvWithDefault("REDIS_PASS", ""),
		LeaderboardTTL: getEnvAsIntWithDefault("LEADERBOARD_TTL", 7*24*60*60),
		GinMode:        getEnvWithDefault("GIN_MODE", "release"),
		JWTSecret:      mustGetEnv("JWT_SECRET"),
		JWTIssuer:      mustGetEnv("JWT_ISSUER"),
		HostIP:         mustGetEnv("HOST_IP"),
		RESTPort:       mustGetEnvAsInt("REST_PORT"),
		TuningFile:     getEnvWithDefault("TUNING_FILE", ""),
		TemplateFile:   getEnvWithDefault("TEMPLATE_FILE", ""),
		StreamInterval: getEnvAsIntWithDefault("STREAM_INTERVAL_MS", 100),
		ExtendMargin:   getEnvAsIntWithDefault("EXTEND_MARGIN", 3),
		LevelRetention: getEnvAsIntWithDefault("LEVEL_RETENTION", 60),
	}
}

// mustGetEnv retrieves the value of an environment variable or logs a fatal error if not set.
func mustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("[APP] [FATAL] Environment variable %s is not set", key)
	}
	return value
}

// mustGetEnvAsInt retrieves the value of an environment variable as an integer or logs a fatal error if not set or cannot be parsed.
func mustGetEnvAsInt(key string) int {
	valueStr := mustGetEnv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}
