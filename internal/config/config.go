package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port           string
	DatabaseURL    string
	DataCollection string
	JWTSecret      string
	JWTIssuer      string
	CORSOrigins    []string
	LogLevel       string
	LogFormat      string
	UploadMaxBytes int64
	KPICacheTTL    time.Duration
	Gemini         GeminiConfig
	S3             S3Config
	OTLPEndpoint   string
}

// GeminiConfig points at the generative AI API.
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// S3Config configures the raw upload archive. An empty Bucket disables it.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:           fallback(os.Getenv("PORT"), "8080"),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DataCollection: fallback(firstSet("DATA_COLLECTION", "MONGO_COLLECTION"), "chatdata"),
		JWTSecret:      firstSet("JWT_SECRET", "JWT_SECRET_KEY"),
		JWTIssuer:      fallback(os.Getenv("JWT_ISSUER"), "medplat-backend"),
		CORSOrigins:    parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		LogLevel:       strings.ToLower(fallback(os.Getenv("LOG_LEVEL"), "info")),
		LogFormat:      strings.ToLower(fallback(os.Getenv("LOG_FORMAT"), "json")),
		Gemini: GeminiConfig{
			APIKey:  strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
			BaseURL: fallback(os.Getenv("GEMINI_API_URL"), "https://generativelanguage.googleapis.com/v1beta/models"),
			Model:   fallback(os.Getenv("GEMINI_MODEL"), "gemini-pro"),
		},
		S3: S3Config{
			Bucket:    strings.TrimSpace(os.Getenv("S3_BUCKET")),
			Region:    fallback(os.Getenv("S3_REGION"), "us-east-1"),
			Endpoint:  strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
			AccessKey: strings.TrimSpace(os.Getenv("S3_ACCESS_KEY")),
			SecretKey: strings.TrimSpace(os.Getenv("S3_SECRET_KEY")),
		},
		OTLPEndpoint: strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
	}

	maxBytes := fallback(os.Getenv("UPLOAD_MAX_BYTES"), "10485760")
	if n, err := strconv.ParseInt(maxBytes, 10, 64); err == nil && n > 0 {
		cfg.UploadMaxBytes = n
	} else {
		cfg.UploadMaxBytes = 10 << 20
	}

	minutes := fallback(os.Getenv("KPI_CACHE_TTL_MINUTES"), "10")
	if ttlMinutes, err := strconv.Atoi(minutes); err == nil && ttlMinutes > 0 {
		cfg.KPICacheTTL = time.Duration(ttlMinutes) * time.Minute
	} else {
		cfg.KPICacheTTL = 10 * time.Minute
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return Config{}, fmt.Errorf("LOG_FORMAT must be json or text, got %q", cfg.LogFormat)
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func firstSet(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
