package session

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/shouni/gemini-image-studio/pkg/domain"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type fakeGenerator struct {
	mu       sync.Mutex
	requests []domain.GenerationRequest
	resp     *domain.ImageResponse
	err      error
	// release が設定されている場合、値を受け取るまで Generate はブロックします。
	release chan struct{}
	started chan struct{}
}

func (f *fakeGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.ImageResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.resp, f.err
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeGenerator) lastRequest() domain.GenerationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestController(t *testing.T, gen *fakeGenerator) *Controller {
	t.Helper()
	c, err := NewController(gen, Options{ViewportWidth: 400})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{200, 100, 50, 255})
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}
