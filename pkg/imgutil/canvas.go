package imgutil

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

const (
	// MaxCanvasSide は作業キャンバスの一辺の上限です。
	MaxCanvasSide = 500
	// ViewportRatio はビューポート幅に対するキャンバスの比率です。
	ViewportRatio = 0.8
)

// CanvasSide は正方形キャンバスの一辺 min(0.8*viewportWidth, 500) を返します。
// 小数点以下は切り捨てます。
func CanvasSide(viewportWidth int) int {
	side := math.Min(ViewportRatio*float64(viewportWidth), MaxCanvasSide)
	if side < 1 {
		return 1
	}
	return int(side)
}

// FitSize は縦横比を保ったまま長辺が side になる描画サイズを返します。
func FitSize(w, h int, side float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	if w > h {
		return side, float64(h) / float64(w) * side
	}
	return float64(w) / float64(h) * side, side
}

// rotationTrig は角度（時計回り、度）の cos と sin を返します。
// 90 度の倍数は誤差の出ない値を使います。
func rotationTrig(degrees int) (float64, float64) {
	switch ((degrees % 360) + 360) % 360 {
	case 0:
		return 1, 0
	case 90:
		return 0, 1
	case 180:
		return -1, 0
	case 270:
		return 0, -1
	}
	rad := float64(degrees) * math.Pi / 180
	return math.Cos(rad), math.Sin(rad)
}

// RenderOnCanvas は src を side×side の透明キャンバスに収め、中心を軸に回転して描画します。
// src の長辺がキャンバスの一辺に一致するよう拡縮し、中央に配置します。
func RenderOnCanvas(src image.Image, side int, rotationDegrees int) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, side, side))

	sb := src.Bounds()
	newW, newH := FitSize(sb.Dx(), sb.Dy(), float64(side))
	if newW == 0 || newH == 0 {
		return canvas
	}

	sx := newW / float64(sb.Dx())
	sy := newH / float64(sb.Dy())
	cos, sin := rotationTrig(rotationDegrees)
	cx, cy := float64(side)/2, float64(side)/2

	// src 座標 -> キャンバス座標:
	// 拡縮 → 描画矩形の中心を原点へ → 回転 → キャンバス中心へ移動
	ox := -float64(sb.Min.X)*sx - newW/2
	oy := -float64(sb.Min.Y)*sy - newH/2
	m := f64.Aff3{
		cos * sx, -sin * sy, cos*ox - sin*oy + cx,
		sin * sx, cos * sy, sin*ox + cos*oy + cy,
	}

	draw.BiLinear.Transform(canvas, m, src, sb, draw.Over, nil)
	return canvas
}
