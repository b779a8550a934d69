package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration shared by the assistant and lookup binaries.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	LLM       LLMConfig       `yaml:"llm"`
	Weather   WeatherConfig   `yaml:"weather"`
	Assistant AssistantConfig `yaml:"assistant"`
	Travel    TravelConfig    `yaml:"travel"`
	Storage   StorageConfig   `yaml:"storage"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// HTTPConfig controls server level behavior of the lookup service.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLMConfig contains settings for the OpenAI-compatible completion backend.
type LLMConfig struct {
	APIKey      string  `yaml:"apiKey"`
	BaseURL     string  `yaml:"baseUrl"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// WeatherConfig points at the forecast source.
type WeatherConfig struct {
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// AssistantConfig controls the search pipeline.
type AssistantConfig struct {
	HotelServiceURL   string        `yaml:"hotelServiceUrl"`
	HotelTimeout      time.Duration `yaml:"hotelTimeout"`
	ReviewCorpus      string        `yaml:"reviewCorpus"`
	TestHotelPrefixes []string      `yaml:"testHotelPrefixes"`
	Ratings           []int         `yaml:"ratings"`
	MaxReviewTokens   int           `yaml:"maxReviewTokens"`
	ClassifierPrompt  string        `yaml:"classifierPrompt"`
	ExtractorPrompt   string        `yaml:"extractorPrompt"`
	WeatherPrompt     string        `yaml:"weatherPrompt"`
	RankingPrompt     string        `yaml:"rankingPrompt"`
}

// TravelConfig holds the travel API endpoints and client credentials.
type TravelConfig struct {
	TokenURL     string        `yaml:"tokenUrl"`
	BaseURL      string        `yaml:"baseUrl"`
	ReviewURL    string        `yaml:"reviewUrl"`
	ClientID     string        `yaml:"clientId"`
	ClientSecret string        `yaml:"clientSecret"`
	Timeout      time.Duration `yaml:"timeout"`
}

// StorageConfig configures S3-compatible object storage for s3:// review corpora.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Region    string `yaml:"region"`
}

// TelemetryConfig selects the trace exporter. "none" keeps propagation without exporting.
type TelemetryConfig struct {
	Exporter    string  `yaml:"exporter"`
	Endpoint    string  `yaml:"endpoint"`
	SampleRatio float64 `yaml:"sampleRatio"`
}

// Enabled reports whether object storage is configured.
func (s StorageConfig) Enabled() bool {
	return strings.TrimSpace(s.Endpoint) != ""
}

// LoadAssistant reads configuration for the assistant CLI.
func LoadAssistant() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateAssistant(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadLookup reads configuration for the lookup service.
func LoadLookup() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateLookup(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func load() (*Config, error) {
	cfg := defaultConfig()

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("APP_PORT_ANALYZER"); v != "" {
		cfg.HTTP.Address = ":" + strings.TrimPrefix(v, ":")
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("WEATHER_BASE_URL"); v != "" {
		cfg.Weather.BaseURL = v
	}
	if v := os.Getenv("WEATHER_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Weather.Timeout = parsed
		}
	}
	if v := os.Getenv("HOTEL_SERVICE_URL"); v != "" {
		cfg.Assistant.HotelServiceURL = v
	}
	if v := os.Getenv("REVIEW_CORPUS"); v != "" {
		cfg.Assistant.ReviewCorpus = v
	}
	if v := os.Getenv("TEST_HOTEL_PREFIXES"); v != "" {
		cfg.Assistant.TestHotelPrefixes = splitList(v)
	}
	if v := os.Getenv("HOTEL_RATINGS"); v != "" {
		if parsed, err := parseInts(v); err == nil {
			cfg.Assistant.Ratings = parsed
		}
	}
	if v := os.Getenv("MAX_REVIEW_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Assistant.MaxReviewTokens = parsed
		}
	}
	if v := os.Getenv("TOKEN_URL"); v != "" {
		cfg.Travel.TokenURL = v
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		cfg.Travel.BaseURL = v
	}
	if v := os.Getenv("REVIEW_URL"); v != "" {
		cfg.Travel.ReviewURL = v
	}
	if v := os.Getenv("CLIENT_ID"); v != "" {
		cfg.Travel.ClientID = v
	}
	if v := os.Getenv("CLIENT_SECRET"); v != "" {
		cfg.Travel.ClientSecret = v
	}
	if v := os.Getenv("STORAGE_ENDPOINT"); v != "" {
		cfg.Storage.Endpoint = v
	}
	if v := os.Getenv("STORAGE_ACCESS_KEY"); v != "" {
		cfg.Storage.AccessKey = v
	}
	if v := os.Getenv("STORAGE_SECRET_KEY"); v != "" {
		cfg.Storage.SecretKey = v
	}
	if v := os.Getenv("STORAGE_REGION"); v != "" {
		cfg.Storage.Region = v
	}
	if v := os.Getenv("TELEMETRY_EXPORTER"); v != "" {
		cfg.Telemetry.Exporter = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.Telemetry.Endpoint = v
	}
	if v := os.Getenv("TELEMETRY_SAMPLE_RATIO"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Telemetry.SampleRatio = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8084",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		LLM: LLMConfig{
			APIKey:      "ollama",
			BaseURL:     "http://localhost:11434/v1",
			Model:       "llama3.2:3b",
			Temperature: 0,
		},
		Weather: WeatherConfig{
			BaseURL: "https://api.open-meteo.com/v1/forecast",
			Timeout: 10 * time.Second,
		},
		Assistant: AssistantConfig{
			HotelServiceURL:   "http://localhost:8084",
			HotelTimeout:      20 * time.Second,
			ReviewCorpus:      "data/reviews.json",
			TestHotelPrefixes: []string{"TEST"},
			Ratings:           []int{3, 4, 5},
			MaxReviewTokens:   6000,
		},
		Travel: TravelConfig{
			Timeout: 15 * time.Second,
		},
		Storage: StorageConfig{
			Region: "auto",
		},
		Telemetry: TelemetryConfig{
			Exporter:    "none",
			SampleRatio: 1,
		},
	}
}

// ValidateAssistant ensures the assistant CLI configuration is usable.
func (c *Config) ValidateAssistant() error {
	if strings.TrimSpace(c.LLM.BaseURL) == "" {
		return errors.New("llm.baseUrl cannot be empty")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if strings.TrimSpace(c.Assistant.HotelServiceURL) == "" {
		return errors.New("assistant.hotelServiceUrl cannot be empty")
	}
	if strings.TrimSpace(c.Assistant.ReviewCorpus) == "" {
		return errors.New("assistant.reviewCorpus cannot be empty")
	}
	if strings.HasPrefix(c.Assistant.ReviewCorpus, "s3://") && !c.Storage.Enabled() {
		return errors.New("storage.endpoint is required for an s3:// review corpus")
	}
	for _, rating := range c.Assistant.Ratings {
		if rating < 1 || rating > 5 {
			return fmt.Errorf("assistant.ratings: %d is not a star rating between 1 and 5", rating)
		}
	}
	if c.Assistant.MaxReviewTokens < 0 {
		return errors.New("assistant.maxReviewTokens cannot be negative")
	}
	return c.Telemetry.validate()
}

// ValidateLookup ensures the lookup service has every upstream setting it needs.
func (c *Config) ValidateLookup() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	required := []struct {
		name  string
		value string
	}{
		{"TOKEN_URL", c.Travel.TokenURL},
		{"BASE_URL", c.Travel.BaseURL},
		{"REVIEW_URL", c.Travel.ReviewURL},
		{"CLIENT_ID", c.Travel.ClientID},
		{"CLIENT_SECRET", c.Travel.ClientSecret},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s missing", r.name)
		}
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return c.Telemetry.validate()
}

func (t TelemetryConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(t.Exporter)) {
	case "", "none", "stdout":
	case "otlp":
		if strings.TrimSpace(t.Endpoint) == "" {
			return errors.New("telemetry.endpoint is required for the otlp exporter")
		}
	default:
		return fmt.Errorf("telemetry.exporter %q must be none, stdout or otlp", t.Exporter)
	}
	if t.SampleRatio < 0 || t.SampleRatio > 1 {
		return errors.New("telemetry.sampleRatio must be between 0 and 1")
	}
	return nil
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseInts(v string) ([]int, error) {
	parts := splitList(v)
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
