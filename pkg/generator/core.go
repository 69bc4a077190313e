package generator

import (
	"log/slog"
	"strings"

	"github.com/shouni/gemini-image-studio/pkg/domain"
	"github.com/shouni/gemini-image-studio/pkg/imgutil"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// GeminiImageCore はリクエストパーツの組み立てとレスポンス解析を担当します。
type GeminiImageCore struct {
	compressSource bool
}

// NewGeminiImageCore は GeminiImageCore を作成します。
// compressSource が true の場合、JPEG 以外の元画像は送信前に JPEG へ圧縮します。
func NewGeminiImageCore(compressSource bool) *GeminiImageCore {
	return &GeminiImageCore{compressSource: compressSource}
}

// buildParts は 元画像（あれば）→ テキスト の順にパーツを並べます。
func (c *GeminiImageCore) buildParts(req domain.GenerationRequest) []*genai.Part {
	parts := make([]*genai.Part, 0, 2)
	if req.SourceImage != nil && len(req.SourceImage.Data) > 0 {
		if p := c.sourcePart(req.SourceImage); p != nil {
			parts = append(parts, p)
		}
	}
	return append(parts, &genai.Part{Text: req.FinalPrompt})
}

// sourcePart は元画像を InlineData のパーツに変換します。
func (c *GeminiImageCore) sourcePart(src *domain.SourceImage) *genai.Part {
	data := src.Data
	mimeType := src.MimeType
	if mimeType == "" {
		mimeType = imgutil.DetectMimeType(data, "")
	}

	if c.compressSource && mimeType != "image/jpeg" {
		if compressed, err := imgutil.CompressToJPEG(data, ImageCompressionQuality); err == nil {
			data, mimeType = compressed, "image/jpeg"
		} else {
			slog.Warn("元画像の圧縮に失敗したため、そのまま送信します", "error", err)
		}
	}

	if !domain.IsImageMime(mimeType) {
		slog.Warn("MIMEタイプが画像ではないためPartに変換できませんでした", "mime_type", mimeType)
		return nil
	}
	return &genai.Part{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}
}

// parseToResponse は Gemini のレスポンスを解析します。
// 画像があればそれを返し、無ければ説明文の有無でエラーの種類を分けます。
func (c *GeminiImageCore) parseToResponse(resp *gemini.Response) (*ImageOutput, error) {
	if resp == nil || resp.RawResponse == nil || len(resp.RawResponse.Candidates) == 0 {
		return nil, &domain.ServiceProtocolError{Reason: "empty response"}
	}

	// 最初の候補 (Candidate) のみを利用する
	candidate := resp.RawResponse.Candidates[0]

	var texts []string
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &ImageOutput{
					Data:     part.InlineData.Data,
					MimeType: part.InlineData.MIMEType,
				}, nil
			}
			if part.Text != "" && !part.Thought {
				texts = append(texts, part.Text)
			}
		}
	}

	if text := strings.TrimSpace(strings.Join(texts, "")); text != "" {
		return nil, &domain.ServiceExplanationError{Text: text}
	}

	// 安全フィルター等によるブロックの確認
	switch candidate.FinishReason {
	case "", genai.FinishReasonUnspecified, genai.FinishReasonStop:
	default:
		return nil, &domain.ServiceProtocolError{Reason: "FinishReason: " + string(candidate.FinishReason)}
	}
	return nil, &domain.ServiceProtocolError{}
}
