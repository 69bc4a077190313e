package imgutil

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanvasSide(t *testing.T) {
	tests := []struct {
		viewport int
		want     int
	}{
		{1280, 500},
		{625, 500},
		{400, 320},
		{0, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanvasSide(tt.viewport), "viewport=%d", tt.viewport)
	}
}

func TestFitSize(t *testing.T) {
	w, h := FitSize(200, 100, 500)
	assert.InDelta(t, 500, w, 1e-9)
	assert.InDelta(t, 250, h, 1e-9)

	w, h = FitSize(100, 400, 500)
	assert.InDelta(t, 125, w, 1e-9)
	assert.InDelta(t, 500, h, 1e-9)

	w, h = FitSize(0, 10, 500)
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestRenderOnCanvas(t *testing.T) {
	red := color.NRGBA{255, 0, 0, 255}
	// 横長 (40x20) の画像は 100x100 キャンバスで 100x50 に拡大され、中央に置かれる
	src := solidImage(40, 20, red)

	t.Run("回転なしでは上下に余白が残る", func(t *testing.T) {
		out := RenderOnCanvas(src, 100, 0)
		require.Equal(t, image.Rect(0, 0, 100, 100), out.Bounds())
		assert.Equal(t, uint8(0), out.NRGBAAt(50, 5).A, "top margin should be transparent")
		assert.Equal(t, red, out.NRGBAAt(50, 50))
		assert.Equal(t, red, out.NRGBAAt(5, 50))
	})

	t.Run("90度回転では左右に余白が残る", func(t *testing.T) {
		out := RenderOnCanvas(src, 100, 90)
		assert.Equal(t, uint8(0), out.NRGBAAt(5, 50).A, "left margin should be transparent")
		assert.Equal(t, red, out.NRGBAAt(50, 5))
		assert.Equal(t, red, out.NRGBAAt(50, 50))
	})

	t.Run("-270度と90度は同じ配置になる", func(t *testing.T) {
		a := RenderOnCanvas(src, 60, 90)
		b := RenderOnCanvas(src, 60, -270)
		assert.Equal(t, a.Pix, b.Pix)
	})
}

func TestRenderOnCanvas_RotationIsClockwise(t *testing.T) {
	// 上半分が赤、下半分が青の正方形。時計回りに90度回すと赤は右側に来る
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			c := color.NRGBA{0, 0, 255, 255}
			if y < 5 {
				c = color.NRGBA{255, 0, 0, 255}
			}
			src.SetNRGBA(x, y, c)
		}
	}

	out := RenderOnCanvas(src, 100, 90)
	assert.Equal(t, uint8(255), out.NRGBAAt(90, 50).R, "right side should be red")
	assert.Equal(t, uint8(255), out.NRGBAAt(10, 50).B, "left side should be blue")
}

func TestToneLUT(t *testing.T) {
	t.Run("100/100 は恒等変換", func(t *testing.T) {
		lut := NewToneLUT(100, 100)
		assert.True(t, lut.IsIdentity())
	})

	t.Run("明るさ0は黒、コントラスト0は中間灰色", func(t *testing.T) {
		dark := NewToneLUT(0, 100)
		assert.Equal(t, uint8(0), dark[255])

		flat := NewToneLUT(100, 0)
		assert.Equal(t, uint8(128), flat[0])
		assert.Equal(t, uint8(128), flat[255])
	})

	t.Run("明るさ200は飽和する", func(t *testing.T) {
		lut := NewToneLUT(200, 100)
		assert.Equal(t, uint8(255), lut[200])
		assert.Equal(t, uint8(100), lut[50])
	})

	t.Run("明るさの結果はコントラスト前にクランプする", func(t *testing.T) {
		lut := NewToneLUT(200, 50)
		assert.Equal(t, uint8(191), lut[255])
		assert.Equal(t, uint8(191), lut[200])
		assert.Equal(t, uint8(114), lut[50])
	})
}

func TestApplyTone(t *testing.T) {
	src := solidImage(3, 3, color.NRGBA{100, 50, 200, 128})

	out := ApplyTone(src, 0, 100)
	px := out.NRGBAAt(1, 1)
	assert.Equal(t, color.NRGBA{0, 0, 0, 128}, px, "alpha must be preserved")
	assert.Equal(t, color.NRGBA{100, 50, 200, 128}, src.NRGBAAt(1, 1), "source must not change")

	same := ApplyTone(src, 100, 100)
	assert.Equal(t, src.Pix, same.Pix)
}
