package editor

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/shouni/gemini-image-studio/pkg/domain"
	"github.com/shouni/gemini-image-studio/pkg/imgutil"
)

const (
	// RotationStep は1回の回転操作の角度です。
	RotationStep = 90
	MinPercent   = 0
	MaxPercent   = 200
	// EditedFileName は編集結果に付けるファイル名です。
	EditedFileName = "edited-image.png"
	EditedMimeType = "image/png"
)

// Apply は明るさ・コントラストを元画像の画素に適用した後、
// side×side のキャンバスへ回転して描画した結果を返します。
func Apply(src image.Image, params domain.TransformParameters, side int) *image.NRGBA {
	filtered := imgutil.ApplyTone(src, params.BrightnessPercent, params.ContrastPercent)
	return imgutil.RenderOnCanvas(filtered, side, params.RotationDegrees)
}

// Pipeline は編集画面1つ分の状態を保持します。
// 元画像の読み込みが終わるまで Apply と Commit は何もしません。
type Pipeline struct {
	viewportWidth int
	source        *domain.SourceImage
	decoded       image.Image
	params        domain.TransformParameters
}

// New はビューポート幅を指定して Pipeline を作成します。
func New(viewportWidth int) *Pipeline {
	return &Pipeline{
		viewportWidth: viewportWidth,
		params:        domain.IdentityTransform(),
	}
}

// Open は編集対象を設定して画像を読み込みます。
// 前回と異なる画像を開いた場合はパラメータを初期値に戻します。
// 読み込みに失敗した場合もエラーを返すだけで、Pipeline は未読み込み状態のまま使えます。
func (p *Pipeline) Open(src *domain.SourceImage) error {
	if src != p.source {
		p.params = domain.IdentityTransform()
	}
	p.source = src
	p.decoded = nil

	if src == nil {
		return nil
	}
	img, _, err := imgutil.Decode(src.Data)
	if err != nil {
		return fmt.Errorf("編集対象の読み込みに失敗しました: %w", err)
	}
	p.decoded = img
	return nil
}

// Loaded は元画像の読み込みが完了しているかを返します。
func (p *Pipeline) Loaded() bool {
	return p.decoded != nil
}

// Params は現在のパラメータを返します。
func (p *Pipeline) Params() domain.TransformParameters {
	return p.params
}

// CanvasSide は現在のビューポート幅から決まるキャンバスの一辺です。
func (p *Pipeline) CanvasSide() int {
	return imgutil.CanvasSide(p.viewportWidth)
}

// RotateLeft は反時計回りに90度回転します。値は (-360, 360) に正規化されます。
func (p *Pipeline) RotateLeft() int {
	p.params.RotationDegrees = (p.params.RotationDegrees - RotationStep) % 360
	return p.params.RotationDegrees
}

// RotateRight は時計回りに90度回転します。
func (p *Pipeline) RotateRight() int {
	p.params.RotationDegrees = (p.params.RotationDegrees + RotationStep) % 360
	return p.params.RotationDegrees
}

func (p *Pipeline) SetBrightness(percent int) {
	p.params.BrightnessPercent = clampPercent(percent)
}

func (p *Pipeline) SetContrast(percent int) {
	p.params.ContrastPercent = clampPercent(percent)
}

// Reset はパラメータを初期値に戻します。元画像の画素には触れません。
func (p *Pipeline) Reset() {
	p.params = domain.IdentityTransform()
}

// Apply は現在のパラメータでキャンバスを描画します。未読み込みなら nil です。
func (p *Pipeline) Apply() *image.NRGBA {
	if !p.Loaded() {
		return nil
	}
	return Apply(p.decoded, p.params, p.CanvasSide())
}

// Commit はキャンバスを PNG にラスタライズし、新しい SourceImage として返します。
// 未読み込みの場合は (nil, nil) を返します。
func (p *Pipeline) Commit() (*domain.SourceImage, error) {
	canvas := p.Apply()
	if canvas == nil {
		return nil, nil
	}

	data, err := imgutil.EncodePNG(canvas)
	if err != nil {
		return nil, fmt.Errorf("編集結果のエンコードに失敗しました: %w", err)
	}

	side := canvas.Bounds().Dx()
	slog.Info("編集結果を確定しました",
		"rotation", p.params.RotationDegrees,
		"brightness", p.params.BrightnessPercent,
		"contrast", p.params.ContrastPercent,
		"side", side,
		"bytes", len(data))

	return &domain.SourceImage{
		Name:     EditedFileName,
		MimeType: EditedMimeType,
		Data:     data,
		Width:    side,
		Height:   side,
	}, nil
}

func clampPercent(v int) int {
	if v < MinPercent {
		return MinPercent
	}
	if v > MaxPercent {
		return MaxPercent
	}
	return v
}
