package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義
const (
	DefaultImageModel     = "gemini-2.5-flash-image"
	DefaultViewportWidth  = 1280
	DefaultStatusInterval = 2500 * time.Millisecond
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultLogLevel       = "info"
	DefaultOutputFile     = "peso-ai-image.png"
)

// Config はアプリケーション全体の環境設定を保持する構造体です。
type Config struct {
	GeminiAPIKey        string
	GeminiImageModel    string
	ViewportWidth       int
	StatusInterval      time.Duration
	HTTPTimeout         time.Duration
	CompressSourceImage bool
	LogLevel            string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込みます。
// 数値や時間として解釈できない値は警告を出して既定値を使います。
func LoadConfig() *Config {
	return &Config{
		GeminiAPIKey:        envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiImageModel:    envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
		ViewportWidth:       envInt("VIEWPORT_WIDTH", DefaultViewportWidth),
		StatusInterval:      envDuration("STATUS_INTERVAL", DefaultStatusInterval),
		HTTPTimeout:         envDuration("HTTP_TIMEOUT", DefaultHTTPTimeout),
		CompressSourceImage: envutil.GetEnvAsBool("COMPRESS_SOURCE_IMAGE", false),
		LogLevel:            envutil.GetEnv("LOG_LEVEL", DefaultLogLevel),
	}
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータです。
type GenerateOptions struct {
	// 入力
	Prompt         string // --prompt
	NegativePrompt string // --negative
	Style          string // --style
	AspectRatio    string // --aspect
	ImagePath      string // --image: ローカル / gs:// / http(s)

	// 編集
	Rotate     int // --rotate: 90 の倍数
	Brightness int // --brightness
	Contrast   int // --contrast

	// 出力
	OutputFile string // --out: ローカル or gs://...

	ImageModel  string        // --model
	HTTPTimeout time.Duration // --http-timeout
	Compress    bool          // --compress
}

// HasEdits は編集の指定があるかを返します。
func (o GenerateOptions) HasEdits() bool {
	return o.Rotate%360 != 0 || o.Brightness != 100 || o.Contrast != 100
}

// Validate は編集パラメータの範囲を検証します。
func (o GenerateOptions) Validate() error {
	if o.Rotate%90 != 0 {
		return fmt.Errorf("--rotate は 90 の倍数で指定してください: %d", o.Rotate)
	}
	if o.Brightness < 0 || o.Brightness > 200 {
		return fmt.Errorf("--brightness は 0〜200 で指定してください: %d", o.Brightness)
	}
	if o.Contrast < 0 || o.Contrast > 200 {
		return fmt.Errorf("--contrast は 0〜200 で指定してください: %d", o.Contrast)
	}
	return nil
}

// SlogLevel は LogLevel を slog.Level に変換します。未知の値は Info です。
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// envInt は正の整数のみ受け付けます。
func envInt(key string, def int) int {
	v := envutil.GetEnvAsInt(key, def)
	if v <= 0 {
		slog.Warn("環境変数の値が不正なため既定値を使います", "key", key, "value", v)
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		slog.Warn("環境変数の値が不正なため既定値を使います", "key", key, "value", raw)
		return def
	}
	return v
}
