package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("SERIES_SUPPORT_COUNT", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "local", cfg.Env)
	require.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	require.Equal(t, 3, cfg.Series.SupportCount)
	require.Equal(t, 6, cfg.Series.IntervalStep)
	require.Equal(t, 1200, cfg.Series.ExtendWordThreshold)
	require.Equal(t, 200, cfg.Series.ExtendMinChars)
	require.False(t, cfg.LLM.Fake)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("LLM_FAKE", "true")
	t.Setenv("SERIES_SUPPORT_COUNT", "5")
	t.Setenv("EXTEND_WORD_THRESHOLD", "900")
	t.Setenv("IMAGE_S3_ENDPOINT", "s3.example.com")
	t.Setenv("IMAGE_S3_ACCESS_KEY", "ak")
	t.Setenv("IMAGE_S3_SECRET_KEY", "sk")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	require.True(t, cfg.LLM.Fake)
	require.Equal(t, 5, cfg.Series.SupportCount)
	require.Equal(t, 900, cfg.Series.ExtendWordThreshold)
	require.True(t, cfg.Images.Enabled)
	require.True(t, cfg.Images.UseSSL)
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("SERIES_SUPPORT_COUNT", "zero")
	t.Setenv("EXTEND_MIN_CHARS", "-5")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Series.SupportCount)
	require.Equal(t, 200, cfg.Series.ExtendMinChars)
}
