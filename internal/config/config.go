// Package config loads the service configuration from YAML with environment
// overrides for deployment-specific values.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
	Trending TrendingConfig `yaml:"trending"`
	Bedrock  BedrockConfig  `yaml:"bedrock"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Strategy StrategyConfig `yaml:"strategy"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// RedisConfig holds the cache settings.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTLHours int    `yaml:"ttl_hours"`
}

// DatabaseConfig holds the Postgres archive settings.
type DatabaseConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

// TrendingConfig holds the RSS trending-topics poller settings.
type TrendingConfig struct {
	Enabled             bool     `yaml:"enabled"`
	FeedURLs            []string `yaml:"feed_urls"`
	PollIntervalMinutes int      `yaml:"poll_interval_minutes"`
	MaxTopics           int      `yaml:"max_topics"`
}

// BedrockConfig holds the optional AWS Bedrock concept-extractor settings.
// When disabled the deterministic pattern extractor is used.
type BedrockConfig struct {
	Enabled bool   `yaml:"enabled"`
	ModelID string `yaml:"model_id"`
	Region  string `yaml:"region"`
}

// ScoringConfig overrides the viral-engine policy constants. Zero values
// keep the built-in defaults.
type ScoringConfig struct {
	MaxEngagementRate   float64 `yaml:"max_engagement_rate"`
	OptimalPostingHours []int   `yaml:"optimal_posting_hours"`
}

// ProfileThresholds overrides one brand profile's safety thresholds.
type ProfileThresholds struct {
	Safe    float64 `yaml:"safe"`
	Caution float64 `yaml:"caution"`
	Risk    float64 `yaml:"risk"`
}

// StrategyConfig overrides the strategy-pipeline policy constants. Zero
// values keep the built-in defaults.
type StrategyConfig struct {
	HorizonMonths        int     `yaml:"horizon_months"`
	MaxThemes            int     `yaml:"max_themes"`
	AwarenessBudgetFloor float64 `yaml:"awareness_budget_floor"`
	LeadGenBudgetFloor   float64 `yaml:"leadgen_budget_floor"`
	AverageDealValue     float64 `yaml:"average_deal_value"`

	SafetyThresholds map[string]ProfileThresholds `yaml:"safety_thresholds"`
}

// Load reads the YAML file at path and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads the YAML file (falling back to built-in defaults when it
// is absent) and overlays environment variables. A .env file is honored when
// present.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := Load(path)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		}
	}
	cfg.applyDefaults()

	if host := os.Getenv("SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Enabled = true
		cfg.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.Enabled = true
		cfg.Database.URL = url
	}
	if feeds := os.Getenv("TRENDING_FEEDS"); feeds != "" {
		cfg.Trending.Enabled = true
		cfg.Trending.FeedURLs = splitAndTrim(feeds)
	}
	if modelID := os.Getenv("BEDROCK_MODEL_ID"); modelID != "" {
		cfg.Bedrock.Enabled = true
		cfg.Bedrock.ModelID = modelID
	}
	if region := os.Getenv("AWS_REGION"); region != "" {
		cfg.Bedrock.Region = region
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.TTLHours == 0 {
		c.Redis.TTLHours = 72
	}
	if c.Trending.PollIntervalMinutes == 0 {
		c.Trending.PollIntervalMinutes = 15
	}
	if c.Trending.MaxTopics == 0 {
		c.Trending.MaxTopics = 25
	}
	if c.Bedrock.Region == "" {
		c.Bedrock.Region = "us-east-1"
	}
	if c.Strategy.HorizonMonths == 0 {
		c.Strategy.HorizonMonths = 3
	}
	if c.Strategy.MaxThemes == 0 {
		c.Strategy.MaxThemes = 5
	}
	if c.Strategy.AwarenessBudgetFloor == 0 {
		c.Strategy.AwarenessBudgetFloor = 20000
	}
	if c.Strategy.LeadGenBudgetFloor == 0 {
		c.Strategy.LeadGenBudgetFloor = 8000
	}
	if c.Strategy.AverageDealValue == 0 {
		c.Strategy.AverageDealValue = 5000
	}
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
