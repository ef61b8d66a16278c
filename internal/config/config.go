package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	DatabaseURL string

	LLM       LLMConfig
	WordPress WordPressConfig
	Series    SeriesConfig
	Images    ImagesConfig
}

type LLMConfig struct {
	Model string
	Fake  bool
}

// WordPressConfig carries the publishing credentials. The target site
// URL comes from each client record, not from config.
type WordPressConfig struct {
	User        string
	AppPassword string
}

type SeriesConfig struct {
	SupportCount        int
	IntervalStep        int
	ExtendWordThreshold int
	ExtendMinChars      int
}

type ImagesConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Env:         env,
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		LLM: LLMConfig{
			Model: firstNonEmpty(strings.TrimSpace(os.Getenv("GEMINI_MODEL")), "gemini-2.5-flash"),
			Fake:  boolEnv("LLM_FAKE", false),
		},
		WordPress: WordPressConfig{
			User:        strings.TrimSpace(os.Getenv("WP_USER")),
			AppPassword: strings.TrimSpace(os.Getenv("WP_APP_PASSWORD")),
		},
		Series: SeriesConfig{
			SupportCount:        intEnv("SERIES_SUPPORT_COUNT", 3),
			IntervalStep:        intEnv("SERIES_INTERVAL_STEP", 6),
			ExtendWordThreshold: intEnv("EXTEND_WORD_THRESHOLD", 1200),
			ExtendMinChars:      intEnv("EXTEND_MIN_CHARS", 200),
		},
		Images: loadImagesConfig(env),
	}, nil
}

func loadImagesConfig(env string) ImagesConfig {
	endpoint := resolveImagesEndpoint(env)
	return ImagesConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("IMAGE_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("IMAGE_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("IMAGE_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("IMAGE_S3_BUCKET")), "blogsmith-images"),
		UseSSL:    resolveImagesUseSSL(env),
	}
}

func resolveImagesEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return strings.TrimSpace(os.Getenv("IMAGE_MINIO_ENDPOINT"))
	}
	return strings.TrimSpace(os.Getenv("IMAGE_S3_ENDPOINT"))
}

func resolveImagesUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("IMAGE_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func boolEnv(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func intEnv(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
