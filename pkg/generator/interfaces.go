package generator

import (
	"context"

	"github.com/shouni/gemini-image-studio/pkg/domain"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// ImageGenerator はセッション層が利用する生成サービスの窓口です。
// 1回の呼び出しは画像1枚かエラー1つのどちらかを必ず返します。
type ImageGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.ImageResponse, error)
}

// KeyedGenerator は実行中に API キーを差し替えられる ImageGenerator です。
type KeyedGenerator interface {
	ImageGenerator
	SetAPIKey(apiKey string)
}

// AIClient は Gemini との通信部分です。gemini.GenerativeModel のうち必要なメソッドだけを要求します。
type AIClient interface {
	GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

// ClientFactory は API キーから AIClient を作成します。
type ClientFactory func(ctx context.Context, apiKey string) (AIClient, error)
