package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"strategist/pkg/errors"
)

type Config struct {
	App           AppConfig
	AI            AIConfig
	Agents        AgentsConfig
	DataSources   DataSourcesConfig
	Registry      RegistryConfig
	Metrics       MetricsConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"strategist"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

type AIConfig struct {
	OpenAIKey       string  `envconfig:"OPENAI_API_KEY"`
	GeminiKey       string  `envconfig:"GEMINI_API_KEY"`
	DefaultProvider string  `envconfig:"DEFAULT_AI_PROVIDER" default:"gemini"`
	Model           string  `envconfig:"AI_MODEL" default:"gemini-2.0-flash"`
	Temperature     float64 `envconfig:"AI_TEMPERATURE" default:"0.3"`
	MaxTokens       int     `envconfig:"AI_MAX_TOKENS" default:"2048"`
	ReqPerMinute    int     `envconfig:"AI_RATE_LIMIT_PER_MINUTE" default:"60"`
	Burst           int     `envconfig:"AI_RATE_LIMIT_BURST" default:"6"`
}

// AgentsConfig holds the specialist endpoints and synthesis priors.
// Base weights sum to 1.0 across the full agent set; the synthesizer
// itself carries no per-agent bias.
type AgentsConfig struct {
	FundamentalURL string `envconfig:"FUNDAMENTAL_AGENT_URL" default:"http://localhost:8001"`
	TechnicalURL   string `envconfig:"TECHNICAL_AGENT_URL" default:"http://localhost:8002"`
	SentimentURL   string `envconfig:"SENTIMENT_AGENT_URL" default:"http://localhost:8003"`
	MacroURL       string `envconfig:"MACRO_AGENT_URL" default:"http://localhost:8004"`
	RegulatoryURL  string `envconfig:"REGULATORY_AGENT_URL" default:"http://localhost:8005"`

	FundamentalWeight float64 `envconfig:"FUNDAMENTAL_WEIGHT" default:"0.30"`
	TechnicalWeight   float64 `envconfig:"TECHNICAL_WEIGHT" default:"0.25"`
	SentimentWeight   float64 `envconfig:"SENTIMENT_WEIGHT" default:"0.20"`
	MacroWeight       float64 `envconfig:"MACRO_WEIGHT" default:"0.15"`
	RegulatoryWeight  float64 `envconfig:"REGULATORY_WEIGHT" default:"0.10"`

	CallTimeout  time.Duration `envconfig:"AGENT_CALL_TIMEOUT" default:"45s"`
	CardTimeout  time.Duration `envconfig:"AGENT_CARD_TIMEOUT" default:"3s"`
	ReqPerMinute int           `envconfig:"AGENT_RATE_LIMIT_PER_MINUTE" default:"120"`
}

// Endpoints returns the specialist base URLs keyed by agent key.
func (c AgentsConfig) Endpoints() map[string]string {
	return map[string]string{
		"fundamental": c.FundamentalURL,
		"technical":   c.TechnicalURL,
		"sentiment":   c.SentimentURL,
		"macro":       c.MacroURL,
		"regulatory":  c.RegulatoryURL,
	}
}

// BaseWeights returns the static per-agent prior weights keyed by agent key.
func (c AgentsConfig) BaseWeights() map[string]float64 {
	return map[string]float64{
		"fundamental": c.FundamentalWeight,
		"technical":   c.TechnicalWeight,
		"sentiment":   c.SentimentWeight,
		"macro":       c.MacroWeight,
		"regulatory":  c.RegulatoryWeight,
	}
}

type DataSourcesConfig struct {
	PolygonAPIKey string `envconfig:"POLYGON_API_KEY"`
	FREDAPIKey    string `envconfig:"FRED_API_KEY"`
	NewsAPIKey    string `envconfig:"NEWS_API_KEY"`
	// SEC requires a descriptive User-Agent with contact info
	EdgarUserAgent string `envconfig:"EDGAR_USER_AGENT" default:"strategist-demo research@example.com"`
}

type RegistryConfig struct {
	Port          int           `envconfig:"REGISTRY_PORT" default:"9000"`
	VerifyTimeout time.Duration `envconfig:"REGISTRY_VERIFY_TIMEOUT" default:"5s"`
}

type MetricsConfig struct {
	Enabled bool `envconfig:"METRICS_ENABLED" default:"false"`
	Port    int  `envconfig:"METRICS_PORT" default:"9090"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"development"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
