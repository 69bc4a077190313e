package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("未設定なら既定値", func(t *testing.T) {
		for _, k := range []string{"GEMINI_API_KEY", "IMAGE_GEMINI_MODEL", "VIEWPORT_WIDTH", "STATUS_INTERVAL", "HTTP_TIMEOUT", "COMPRESS_SOURCE_IMAGE", "LOG_LEVEL"} {
			t.Setenv(k, "")
			require.NoError(t, os.Unsetenv(k))
		}
		cfg := LoadConfig()
		assert.Empty(t, cfg.GeminiAPIKey)
		assert.Equal(t, DefaultImageModel, cfg.GeminiImageModel)
		assert.Equal(t, DefaultViewportWidth, cfg.ViewportWidth)
		assert.Equal(t, DefaultStatusInterval, cfg.StatusInterval)
		assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
		assert.False(t, cfg.CompressSourceImage)
	})

	t.Run("環境変数の値を使う", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "secret")
		t.Setenv("IMAGE_GEMINI_MODEL", "custom-model")
		t.Setenv("VIEWPORT_WIDTH", "600")
		t.Setenv("STATUS_INTERVAL", "1s")
		t.Setenv("HTTP_TIMEOUT", "10s")
		t.Setenv("COMPRESS_SOURCE_IMAGE", "true")

		cfg := LoadConfig()
		assert.Equal(t, "secret", cfg.GeminiAPIKey)
		assert.Equal(t, "custom-model", cfg.GeminiImageModel)
		assert.Equal(t, 600, cfg.ViewportWidth)
		assert.Equal(t, time.Second, cfg.StatusInterval)
		assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
		assert.True(t, cfg.CompressSourceImage)
	})

	t.Run("不正な値は既定値に戻す", func(t *testing.T) {
		t.Setenv("VIEWPORT_WIDTH", "wide")
		t.Setenv("STATUS_INTERVAL", "-1s")
		t.Setenv("COMPRESS_SOURCE_IMAGE", "maybe")

		cfg := LoadConfig()
		assert.Equal(t, DefaultViewportWidth, cfg.ViewportWidth)
		assert.Equal(t, DefaultStatusInterval, cfg.StatusInterval)
		assert.False(t, cfg.CompressSourceImage)
	})

	t.Run("0 以下の幅は既定値に戻す", func(t *testing.T) {
		t.Setenv("VIEWPORT_WIDTH", "0")
		assert.Equal(t, DefaultViewportWidth, LoadConfig().ViewportWidth)

		t.Setenv("VIEWPORT_WIDTH", "-320")
		assert.Equal(t, DefaultViewportWidth, LoadConfig().ViewportWidth)
	})
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := &Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel(), in)
	}
}

func TestGenerateOptions(t *testing.T) {
	base := GenerateOptions{Brightness: 100, Contrast: 100}
	assert.False(t, base.HasEdits())
	assert.NoError(t, base.Validate())

	rotated := base
	rotated.Rotate = 360
	assert.False(t, rotated.HasEdits())
	rotated.Rotate = -90
	assert.True(t, rotated.HasEdits())
	assert.NoError(t, rotated.Validate())

	bad := base
	bad.Rotate = 45
	assert.Error(t, bad.Validate())

	bad = base
	bad.Brightness = 201
	assert.Error(t, bad.Validate())

	bad = base
	bad.Contrast = -1
	assert.Error(t, bad.Validate())
}
