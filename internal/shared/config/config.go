package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Env             string        `yaml:"env"`
	Port            string        `yaml:"port"`
	CORSAllowOrigin []string      `yaml:"corsAllowOrigins"`
	ReportCacheTTL  time.Duration `yaml:"reportCacheTTL"`
	SubmitPerMinute int           `yaml:"submitRatePerMinute"`
	StubPort        string        `yaml:"stubPort"`

	AnalysisBaseURL          string        `yaml:"analysisBaseURL"`
	AnalysisTimeout          time.Duration `yaml:"analysisTimeout"`
	AnalysisMaxResponseBytes int64         `yaml:"analysisMaxResponseBytes"`

	AuthProvider string `yaml:"authProvider"`
	JWTSecret    string `yaml:"-"`

	DatabaseURL string `yaml:"-"`
	RedisURL    string `yaml:"-"`

	ObjectStoreType string `yaml:"objectStore"`
	LocalStoreDir   string `yaml:"localStoreDir"`
	AWSRegion       string `yaml:"awsRegion,omitempty"`
	S3Bucket        string `yaml:"s3Bucket,omitempty"`
	S3Prefix        string `yaml:"s3Prefix,omitempty"`
	SSEKMSKeyID     string `yaml:"-"`
	MinioEndpoint   string `yaml:"minioEndpoint,omitempty"`
	MinioAccessKey  string `yaml:"-"`
	MinioSecretKey  string `yaml:"-"`
	MinioBucket     string `yaml:"minioBucket,omitempty"`
	MinioUseSSL     bool   `yaml:"minioUseSSL"`
}

var defaults = map[string]any{
	"ENV":                         "dev",
	"PORT":                        "8080",
	"CORS_ALLOW_ORIGINS":          "http://localhost:3000,http://localhost:5173",
	"ANALYSIS_BASE_URL":           "http://localhost:8000",
	"ANALYSIS_TIMEOUT":            "60s",
	"ANALYSIS_MAX_RESPONSE_BYTES": 5 << 20,
	"AUTH_PROVIDER":               "stub",
	"OBJECT_STORE":                "none",
	"LOCAL_STORE_DIR":             "./data",
	"MINIO_BUCKET":                "idea-reports",
	"MINIO_USE_SSL":               false,
	"REPORT_CACHE_TTL":            "10m",
	"SUBMIT_RATE_PER_MINUTE":      6,
	"STUB_PORT":                   "8000",
}

// Load reads configuration from defaults, a best-effort .env file and the
// environment, in increasing priority.
func Load() Config {
	return LoadFrom(".env", "cmd/.env")
}

// LoadFrom is Load with explicit dotenv paths; the first readable file wins.
func LoadFrom(envFiles ...string) Config {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	for _, path := range envFiles {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err == nil {
			break
		}
	}
	v.AutomaticEnv()

	env := normalizeEnv(v.GetString("ENV"))
	cfg := Config{
		Env:             env,
		Port:            v.GetString("PORT"),
		CORSAllowOrigin: splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		ReportCacheTTL:  v.GetDuration("REPORT_CACHE_TTL"),
		SubmitPerMinute: v.GetInt("SUBMIT_RATE_PER_MINUTE"),
		StubPort:        v.GetString("STUB_PORT"),

		AnalysisBaseURL:          strings.TrimSpace(v.GetString("ANALYSIS_BASE_URL")),
		AnalysisTimeout:          v.GetDuration("ANALYSIS_TIMEOUT"),
		AnalysisMaxResponseBytes: v.GetInt64("ANALYSIS_MAX_RESPONSE_BYTES"),

		AuthProvider: normalizeAuthProvider(v.GetString("AUTH_PROVIDER"), env),
		JWTSecret:    v.GetString("JWT_SECRET"),

		DatabaseURL: strings.TrimSpace(v.GetString("DATABASE_URL")),
		RedisURL:    strings.TrimSpace(v.GetString("REDIS_URL")),

		ObjectStoreType: normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:   v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:       v.GetString("AWS_REGION"),
		S3Bucket:        v.GetString("S3_BUCKET"),
		S3Prefix:        v.GetString("S3_PREFIX"),
		SSEKMSKeyID:     v.GetString("SSE_KMS_KEY_ID"),
		MinioEndpoint:   v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:  v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:  v.GetString("MINIO_SECRET_KEY"),
		MinioBucket:     v.GetString("MINIO_BUCKET"),
		MinioUseSSL:     v.GetBool("MINIO_USE_SSL"),
	}

	if env == "production" && cfg.DatabaseURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}
	return cfg
}

// IsDevLike reports whether env tolerates missing infrastructure.
func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "local"
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

// normalizeAuthProvider falls back to jwt outside dev so demo tokens never reach production.
func normalizeAuthProvider(raw, env string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "jwt":
		return "jwt"
	case "stub", "mock":
		if env == "production" {
			return "jwt"
		}
		return "stub"
	default:
		return "jwt"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "minio":
		return "minio"
	case "local":
		return "local"
	default:
		return "none"
	}
}
