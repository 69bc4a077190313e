package domain

import "strings"

// SourceImage は生成リクエストに添付する元画像です。
// 差し替え時は常に新しい値を作り、既存の値を書き換えません。
type SourceImage struct {
	Name     string
	MimeType string
	Data     []byte
	Width    int
	Height   int
	// PreviewHandle は表示用の一時リソース（プレビュー）を指すハンドルです。
	PreviewHandle string
}

// Clone は画像データを複製した SourceImage を返します。
func (s *SourceImage) Clone() *SourceImage {
	if s == nil {
		return nil
	}
	c := *s
	c.Data = append([]byte(nil), s.Data...)
	return &c
}

// IsImageMime は MIME タイプが image/* かどうかを判定します。
func IsImageMime(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/")
}

// TransformParameters は編集画面で使う回転・明るさ・コントラストの値です。
type TransformParameters struct {
	RotationDegrees   int
	BrightnessPercent int
	ContrastPercent   int
}

// IdentityTransform は無変換のパラメータを返します。
func IdentityTransform() TransformParameters {
	return TransformParameters{RotationDegrees: 0, BrightnessPercent: 100, ContrastPercent: 100}
}

// GenerationRequest は生成サービスへ渡す1回分の要求です。
type GenerationRequest struct {
	FinalPrompt string
	SourceImage *SourceImage
}

// ImageResponse は生成された画像データとそのメタデータです。
type ImageResponse struct {
	Data     []byte
	MimeType string
}
