package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, "server:\n  port: 9090\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 72, cfg.Redis.TTLHours)
	assert.Equal(t, 15, cfg.Trending.PollIntervalMinutes)
	assert.Equal(t, 25, cfg.Trending.MaxTopics)
	assert.Equal(t, "us-east-1", cfg.Bedrock.Region)
	assert.Equal(t, 3, cfg.Strategy.HorizonMonths)
	assert.Equal(t, 5, cfg.Strategy.MaxThemes)
	assert.Equal(t, 20000.0, cfg.Strategy.AwarenessBudgetFloor)
	assert.Equal(t, 8000.0, cfg.Strategy.LeadGenBudgetFloor)
	assert.Equal(t, 5000.0, cfg.Strategy.AverageDealValue)
}

func TestLoadParsesFullConfig(t *testing.T) {
	path := writeTempConfig(t, `
server:
  host: "127.0.0.1"
  port: 3000

redis:
  enabled: true
  addr: "redis:6379"
  ttl_hours: 24

database:
  enabled: true
  url: "postgres://localhost/strategist"

trending:
  enabled: true
  feed_urls:
    - "https://example.com/a.rss"
    - "https://example.com/b.rss"
  poll_interval_minutes: 30

scoring:
  max_engagement_rate: 0.2
  optimal_posting_hours: [8, 13, 18]

strategy:
  max_themes: 7
  safety_thresholds:
    conservative:
      safe: 0.15
      caution: 0.35
      risk: 0.55
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 3000, cfg.Server.Port)

	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 24, cfg.Redis.TTLHours)

	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "postgres://localhost/strategist", cfg.Database.URL)

	assert.True(t, cfg.Trending.Enabled)
	assert.Len(t, cfg.Trending.FeedURLs, 2)
	assert.Equal(t, 30, cfg.Trending.PollIntervalMinutes)

	assert.Equal(t, 0.2, cfg.Scoring.MaxEngagementRate)
	assert.Equal(t, []int{8, 13, 18}, cfg.Scoring.OptimalPostingHours)

	assert.Equal(t, 7, cfg.Strategy.MaxThemes)
	require.Contains(t, cfg.Strategy.SafetyThresholds, "conservative")
	th := cfg.Strategy.SafetyThresholds["conservative"]
	assert.Equal(t, 0.15, th.Safe)
	assert.Equal(t, 0.35, th.Caution)
	assert.Equal(t, 0.55, th.Risk)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeTempConfig(t, "server: [not a mapping\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadFromEnvMissingFileFallsBackToDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	path := writeTempConfig(t, "server:\n  port: 9090\n")

	t.Setenv("SERVER_HOST", "10.0.0.5")
	t.Setenv("PORT", "4000")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("DATABASE_URL", "postgres://db/strategist")
	t.Setenv("TRENDING_FEEDS", "https://a.example/rss, https://b.example/rss ,")
	t.Setenv("BEDROCK_MODEL_ID", "anthropic.claude-3-haiku")
	t.Setenv("AWS_REGION", "eu-west-1")

	cfg, err := LoadFromEnv(path)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5", cfg.Server.Host)
	assert.Equal(t, 4000, cfg.Server.Port, "env should override the file value")

	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "secret", cfg.Redis.Password)

	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "postgres://db/strategist", cfg.Database.URL)

	assert.True(t, cfg.Trending.Enabled)
	assert.Equal(t, []string{"https://a.example/rss", "https://b.example/rss"}, cfg.Trending.FeedURLs)

	assert.True(t, cfg.Bedrock.Enabled)
	assert.Equal(t, "anthropic.claude-3-haiku", cfg.Bedrock.ModelID)
	assert.Equal(t, "eu-west-1", cfg.Bedrock.Region)
}

func TestLoadFromEnvIgnoresBadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg, err := LoadFromEnv("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"two entries", "a,b", []string{"a", "b"}},
		{"whitespace trimmed", " a , b ", []string{"a", "b"}},
		{"empty segments dropped", "a,,b,", []string{"a", "b"}},
		{"empty string", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitAndTrim(tt.input))
		})
	}
}
