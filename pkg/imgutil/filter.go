package imgutil

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// ToneLUT は brightness → contrast の順に合成した 8bit 変換表です。
// brightness(b): v*b, contrast(c): (v-0.5)*c+0.5 （いずれも 0..1 正規化、100% が恒等）
// 各段の結果は 0..1 にクランプしてから次の段へ渡します。
type ToneLUT [256]uint8

// NewToneLUT はパーセント指定の明るさとコントラストから変換表を作ります。
func NewToneLUT(brightnessPercent, contrastPercent int) ToneLUT {
	b := float64(brightnessPercent) / 100
	c := float64(contrastPercent) / 100

	var lut ToneLUT
	for i := range lut {
		v := float64(i) / 255
		v = clamp01(v * b)
		v = (v-0.5)*c + 0.5
		lut[i] = uint8(math.Round(clamp01(v) * 255))
	}
	return lut
}

// IsIdentity は変換表が何もしないかどうかを返します。
func (l *ToneLUT) IsIdentity() bool {
	for i, v := range l {
		if int(v) != i {
			return false
		}
	}
	return true
}

// ApplyTone は src を非乗算 RGBA に展開し、RGB に変換表を適用した新しい画像を返します。
// アルファは変更しません。src は変更されません。
func ApplyTone(src image.Image, brightnessPercent, contrastPercent int) *image.NRGBA {
	dst := toNRGBA(src)

	lut := NewToneLUT(brightnessPercent, contrastPercent)
	if lut.IsIdentity() {
		return dst
	}
	pix := dst.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i] = lut[pix[i]]
		pix[i+1] = lut[pix[i+1]]
		pix[i+2] = lut[pix[i+2]]
	}
	return dst
}

// toNRGBA は src を原点始まりの NRGBA に複製します。
// NRGBA 同士は乗算済み表現を経由せずに行単位でコピーします。
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if n, ok := src.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			i := n.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+4*b.Dx()], n.Pix[i:i+4*b.Dx()])
		}
		return dst
	}
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
