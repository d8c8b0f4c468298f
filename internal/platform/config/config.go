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
	Port string
	Env  string

	// Quote store (Postgres)
	QuotesDatabaseURL string

	// Carrier preference store selection: "file", "mongo" or "dynamodb"
	PrefsStore   string
	LocationsDir string // when PrefsStore = "file"

	// MongoDB settings (when PrefsStore = "mongo")
	MongoURI string
	MongoDB  string

	// DynamoDB settings (when PrefsStore = "dynamodb")
	AWSRegion          string
	DynamoDBEndpoint   string // Optional: for local development
	AWSAccessKeyID     string // Optional: for local development
	AWSSecretAccessKey string // Optional: for local development

	// Underwriting rule catalog
	RulesPath        string
	CatalogReloadSec int // 0 disables the background reload worker

	// Verdict authority: "client" (caller-supplied carrierResults) or
	// "catalog" (rule-bucket evaluation fills missing carrierResults)
	VerdictSource string

	// Timeouts
	HTTPReadTimeoutSec        int
	HTTPWriteTimeoutSec       int
	HTTPIdleTimeoutSec        int
	HTTPRequestTimeoutSec     int
	MongoConnectTimeoutSec    int
	MongoOpTimeoutMs          int
	PostgresConnectTimeoutSec int
	PostgresOpTimeoutMs       int

	// Security settings
	APIKey         string   // Simple API key for demo auth
	AllowedOrigins []string // CORS allowed origins
	RateLimitRPM   int      // Rate limit requests per minute
}

func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	cfg := &Config{}

	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "dev")

	cfg.QuotesDatabaseURL = getEnv("QUOTES_DATABASE_URL", getEnv("DATABASE_URL", ""))

	cfg.PrefsStore = getEnv("PREFS_STORE", "file")
	cfg.LocationsDir = getEnv("LOCATIONS_DIR", "locations")

	// MongoDB settings (check both MONGODB_URI and MONGO_URI for compatibility)
	cfg.MongoURI = getEnv("MONGODB_URI", getEnv("MONGO_URI", ""))
	cfg.MongoDB = getEnv("MONGO_DB", "replit_quote")

	// DynamoDB settings
	cfg.AWSRegion = getEnv("AWS_REGION", "us-east-1")
	cfg.DynamoDBEndpoint = getEnv("DYNAMODB_ENDPOINT", "") // Empty means use AWS
	cfg.AWSAccessKeyID = getEnv("AWS_ACCESS_KEY_ID", "")
	cfg.AWSSecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", "")

	cfg.RulesPath = getEnv("UW_RULES_PATH", "static/js/newrules.json")
	cfg.CatalogReloadSec = getEnvAsInt("CATALOG_RELOAD_SEC", 0)
	cfg.VerdictSource = getEnv("VERDICT_SOURCE", "client")

	cfg.HTTPReadTimeoutSec = getEnvAsInt("HTTP_READ_TIMEOUT_SEC", 10)
	cfg.HTTPWriteTimeoutSec = getEnvAsInt("HTTP_WRITE_TIMEOUT_SEC", 10)
	cfg.HTTPIdleTimeoutSec = getEnvAsInt("HTTP_IDLE_TIMEOUT_SEC", 120)
	cfg.HTTPRequestTimeoutSec = getEnvAsInt("HTTP_REQUEST_TIMEOUT_SEC", 30)
	cfg.MongoConnectTimeoutSec = getEnvAsInt("MONGO_CONNECT_TIMEOUT_SEC", 5)
	cfg.MongoOpTimeoutMs = getEnvAsInt("MONGO_OP_TIMEOUT_MS", 500)
	cfg.PostgresConnectTimeoutSec = getEnvAsInt("POSTGRES_CONNECT_TIMEOUT_SEC", 5)
	cfg.PostgresOpTimeoutMs = getEnvAsInt("POSTGRES_OP_TIMEOUT_MS", 1500)

	// Security settings
	cfg.APIKey = getEnv("API_KEY", "")
	cfg.AllowedOrigins = getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"})
	cfg.RateLimitRPM = getEnvAsInt("RATE_LIMIT_RPM", 100) // 100 requests per minute

	switch cfg.PrefsStore {
	case "file", "mongo", "dynamodb":
	default:
		return nil, fmt.Errorf("PREFS_STORE must be 'file', 'mongo' or 'dynamodb', got %q", cfg.PrefsStore)
	}
	if cfg.PrefsStore == "mongo" && cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required when PREFS_STORE=mongo")
	}

	switch cfg.VerdictSource {
	case "client", "catalog":
	default:
		return nil, fmt.Errorf("VERDICT_SOURCE must be 'client' or 'catalog', got %q", cfg.VerdictSource)
	}

	if cfg.QuotesDatabaseURL == "" {
		return nil, fmt.Errorf("QUOTES_DATABASE_URL is required")
	}

	// In production, API_KEY must be explicitly set
	if cfg.Env == "prod" && cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY is required in production environment")
	}

	// Default API key for development only
	if cfg.APIKey == "" {
		cfg.APIKey = "demo-api-key-12345"
	}

	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if val, err := strconv.Atoi(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsSlice(key string, defaultVal []string) []string {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	// Split by comma and trim whitespace
	var result []string
	for _, s := range strings.Split(valStr, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	if len(result) == 0 {
		return defaultVal
	}
	return result
}
