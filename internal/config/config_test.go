package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kk0826-ai/adopstktstracker/internal/config"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("JIRA_BASE_URL", "https://example.atlassian.net")
	t.Setenv("JIRA_USER_EMAIL", "reporter@example.com")
	t.Setenv("JIRA_API_TOKEN", "secret-token")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "TKTS", cfg.Jira.ProjectKey)
	assert.Equal(t, "2026-02-01", cfg.Jira.SinceDate)
	assert.Equal(t, 1000, cfg.Jira.MaxResults)
	assert.Equal(t, time.Hour, cfg.Jira.CacheTTL)
	assert.Equal(t, []string{"Display", "Video", "Pixel", "Bespoke"}, cfg.Report.Categories)
	assert.InDelta(t, 20.0, cfg.Report.GoalPercent, 0.001)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoad_MissingCredentials(t *testing.T) {
	t.Setenv("JIRA_BASE_URL", "")
	t.Setenv("JIRA_USER_EMAIL", "")
	t.Setenv("JIRA_API_TOKEN", "")

	_, err := config.Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "JIRA_BASE_URL is required")
	assert.Contains(t, err.Error(), "JIRA_USER_EMAIL is required")
	assert.Contains(t, err.Error(), "JIRA_API_TOKEN is required")
}

func TestLoad_InvalidSinceDate(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REPORT_SINCE_DATE", "February 1st")

	_, err := config.Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "REPORT_SINCE_DATE")
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JIRA_PROJECT_KEY", "ADOPS")
	t.Setenv("REPORT_CATEGORIES", "Display, Video")
	t.Setenv("REPORT_GOAL_PERCENT", "35")
	t.Setenv("SNAPSHOT_CACHE_TTL", "30m")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "ADOPS", cfg.Jira.ProjectKey)
	assert.Equal(t, []string{"Display", "Video"}, cfg.Report.Categories)
	assert.InDelta(t, 35.0, cfg.Report.GoalPercent, 0.001)
	assert.Equal(t, 30*time.Minute, cfg.Jira.CacheTTL)
}

func TestConfig_StringRedactsToken(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	s := cfg.String()
	assert.NotContains(t, s, "secret-token")
	assert.Contains(t, s, "REDACTED")
}
