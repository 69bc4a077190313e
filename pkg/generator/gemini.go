package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shouni/gemini-image-studio/pkg/domain"
	"github.com/shouni/gemini-image-studio/pkg/imgutil"
	"github.com/shouni/go-gemini-client/pkg/gemini"
)

// Config は GeminiGenerator の設定です。
type Config struct {
	APIKey         string
	Model          string
	CompressSource bool
	// ClientFactory が nil の場合は gemini.NewClient を使います。
	ClientFactory ClientFactory
}

// GeminiGenerator は Gemini の画像モデルで画像を生成・編集します。
// クライアントは最初の Generate 呼び出しで作成するため、API キーの欠如もその時点で検出されます。
type GeminiGenerator struct {
	core    *GeminiImageCore
	model   string
	factory ClientFactory

	mu       sync.Mutex
	apiKey   string
	aiClient AIClient
}

// NewGeminiGenerator は GeminiGenerator を初期化します。
func NewGeminiGenerator(cfg Config) (*GeminiGenerator, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	factory := cfg.ClientFactory
	if factory == nil {
		factory = newGeminiClient
	}
	return &GeminiGenerator{
		core:    NewGeminiImageCore(cfg.CompressSource),
		model:   model,
		factory: factory,
		apiKey:  strings.TrimSpace(cfg.APIKey),
	}, nil
}

func newGeminiClient(ctx context.Context, apiKey string) (AIClient, error) {
	client, err := gemini.NewClient(ctx, gemini.Config{APIKey: apiKey})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// SetAPIKey は API キーを差し替えます。作成済みのクライアントは破棄されます。
func (g *GeminiGenerator) SetAPIKey(apiKey string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.apiKey = strings.TrimSpace(apiKey)
	g.aiClient = nil
}

// client は作成済みのクライアントを返し、無ければ作成します。
func (g *GeminiGenerator) client(ctx context.Context) (AIClient, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.aiClient != nil {
		return g.aiClient, nil
	}
	if g.apiKey == "" {
		return nil, domain.ErrMissingCredential
	}
	c, err := g.factory(ctx, g.apiKey)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	g.aiClient = c
	return c, nil
}

// Generate は最終プロンプトと元画像から画像を1枚生成します。
func (g *GeminiGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.ImageResponse, error) {
	aiClient, err := g.client(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrMissingCredential) {
			return nil, err
		}
		return nil, &domain.TransportError{Err: err}
	}

	parts := g.core.buildParts(req)
	slog.InfoContext(ctx, "Geminiに画像生成をリクエストします",
		"model", g.model,
		"parts", len(parts),
		"with_source", req.SourceImage != nil)

	start := time.Now()
	resp, err := aiClient.GenerateWithParts(ctx, g.model, parts, gemini.GenerateOptions{})
	if err != nil {
		slog.ErrorContext(ctx, "Gemini API の呼び出しに失敗しました", "error", err)
		return nil, &domain.TransportError{Err: err}
	}

	out, err := g.core.parseToResponse(resp)
	if err != nil {
		slog.WarnContext(ctx, "Geminiの応答に画像が含まれていません", "error", err)
		return nil, err
	}

	if out.MimeType == "" {
		out.MimeType = imgutil.DetectMimeType(out.Data, "image/png")
	}

	slog.InfoContext(ctx, "画像生成が完了しました",
		"mime_type", out.MimeType,
		"bytes", len(out.Data),
		"elapsed", time.Since(start))

	return &domain.ImageResponse{
		Data:     out.Data,
		MimeType: out.MimeType,
	}, nil
}
