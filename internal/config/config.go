package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	apperrors "career-insights/internal/errors"

	"github.com/joho/godotenv"
)

const (
	DefaultUserContext = "I am a professional looking to grow my career in technology and startups."
	DefaultModel       = "claude-3-7-sonnet-20250219"
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultMaxTokens   = 4000
	DefaultTemperature = 1.0
	DefaultOCRModel    = "mistral-ocr-latest"
	DefaultSignedURL   = 24 * time.Hour

	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"

	StagingMistral = "mistral"
	StagingS3      = "s3"
)

type S3Config struct {
	EndpointURL string
	Region      string
	AccessKey   string
	SecretKey   string
	Bucket      string
}

type Credentials struct {
	MistralAPIKey   string
	AnthropicAPIKey string
	GeminiAPIKey    string
}

// Config is built once at startup and handed to each component by value.
type Config struct {
	FilePath    string
	UserContext string
	Model       string
	MaxTokens   int
	Temperature float64

	Provider        string
	OCRModel        string
	Staging         string
	SignedURLExpiry time.Duration
	Timeout         time.Duration

	MistralBaseURL string
	Credentials    Credentials
	S3             S3Config

	Record      bool
	DatabaseURL string

	LogLevel  string
	LogFormat string
}

// Load reads the process environment, first merging envFile if it exists.
// A missing envFile is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, apperrors.New(apperrors.Config, "load "+envFile, err)
		}
	}

	return Config{
		UserContext:     DefaultUserContext,
		Model:           getEnv("INSIGHTS_MODEL", ""),
		MaxTokens:       getEnvAsInt("INSIGHTS_MAX_TOKENS", DefaultMaxTokens),
		Temperature:     getEnvAsFloat("INSIGHTS_TEMPERATURE", DefaultTemperature),
		Provider:        getEnv("INSIGHTS_PROVIDER", ProviderAnthropic),
		OCRModel:        getEnv("MISTRAL_OCR_MODEL", DefaultOCRModel),
		Staging:         getEnv("INSIGHTS_STAGING", StagingMistral),
		SignedURLExpiry: DefaultSignedURL,
		MistralBaseURL:  getEnv("MISTRAL_BASE_URL", ""),
		Credentials: Credentials{
			MistralAPIKey:   getEnv("MISTRAL_API_KEY", ""),
			AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
			GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		},
		S3: S3Config{
			EndpointURL: getEnv("S3_ENDPOINT_URL", ""),
			Region:      getEnv("S3_REGION", "us-east-1"),
			AccessKey:   getEnv("S3_ACCESS_KEY", ""),
			SecretKey:   getEnv("S3_SECRET_KEY", ""),
			Bucket:      getEnv("S3_BUCKET_NAME", ""),
		},
		DatabaseURL: getEnv("DATABASE_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
	}, nil
}

// ResolvedModel returns the configured model, or the provider's default.
func (c Config) ResolvedModel() string {
	if c.Model != "" {
		return c.Model
	}
	if c.Provider == ProviderGemini {
		return DefaultGeminiModel
	}
	return DefaultModel
}

// Validate reports the first missing requirement.
func (c Config) Validate() error {
	if c.FilePath == "" {
		return configErr("file path is required")
	}
	if c.MaxTokens <= 0 {
		return configErr("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Credentials.MistralAPIKey == "" {
		return configErr("MISTRAL_API_KEY is not set")
	}

	switch c.Provider {
	case ProviderAnthropic:
		if c.Credentials.AnthropicAPIKey == "" {
			return configErr("ANTHROPIC_API_KEY is not set")
		}
	case ProviderGemini:
		if c.Credentials.GeminiAPIKey == "" {
			return configErr("GEMINI_API_KEY is not set")
		}
	default:
		return configErr("unknown provider %q", c.Provider)
	}

	switch c.Staging {
	case StagingMistral:
	case StagingS3:
		if c.S3.Bucket == "" {
			return configErr("S3_BUCKET_NAME is not set")
		}
		if c.S3.AccessKey == "" || c.S3.SecretKey == "" {
			return configErr("S3_ACCESS_KEY and S3_SECRET_KEY are required for s3 staging")
		}
	default:
		return configErr("unknown staging backend %q", c.Staging)
	}

	if c.Record && c.DatabaseURL == "" {
		return configErr("DATABASE_URL is required when recording runs")
	}
	return nil
}

func configErr(format string, args ...any) error {
	return apperrors.New(apperrors.Config, "config", fmt.Errorf(format, args...))
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
