package assets

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/shouni/gemini-image-studio/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSafeURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		resolve IPResolver
		want    bool
	}{
		{"公開アドレス", "https://example.com/a.png", resolveTo("93.184.216.34"), true},
		{"ループバック", "http://localhost/a.png", resolveTo("127.0.0.1"), false},
		{"プライベート", "http://internal/a.png", resolveTo("10.0.0.8"), false},
		{"リンクローカル", "http://meta/a.png", resolveTo("169.254.169.254"), false},
		{"不許可スキーム", "ftp://example.com/a.png", resolveTo("93.184.216.34"), false},
		{"パース不可", "not a url", resolveTo(), false},
		{"名前解決失敗", "https://nowhere.invalid/a.png", func(string) ([]net.IP, error) { return nil, errors.New("nxdomain") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := isSafeURL(tt.url, tt.resolve)
			assert.Equal(t, tt.want, got)
			if !tt.want {
				assert.Error(t, err)
			}
		})
	}
}

func TestLoader_Load(t *testing.T) {
	ctx := context.Background()
	data := pngBytes(t, 6, 3)

	t.Run("HTTP から取得する", func(t *testing.T) {
		hc := &mockHTTPClient{data: data}
		l := NewLoader(nil, hc)
		l.resolve = resolveTo("93.184.216.34")

		img, err := l.Load(ctx, "https://example.com/images/fox.png?size=large")
		require.NoError(t, err)
		assert.Equal(t, "fox.png", img.Name)
		assert.Equal(t, "image/png", img.MimeType)
		assert.Equal(t, 6, img.Width)
		assert.Equal(t, 3, img.Height)
		assert.Equal(t, 1, hc.calls)
	})

	t.Run("内部ネットワークの URL は取得しない", func(t *testing.T) {
		hc := &mockHTTPClient{data: data}
		l := NewLoader(nil, hc)
		l.resolve = resolveTo("192.168.1.10")

		_, err := l.Load(ctx, "http://router.local/a.png")
		assert.Error(t, err)
		assert.Zero(t, hc.calls)
	})

	t.Run("GCS はリーダー経由", func(t *testing.T) {
		r := &mockReader{files: map[string][]byte{"gs://bucket/in/cat.png": data}}
		l := NewLoader(r, nil)

		img, err := l.Load(ctx, "gs://bucket/in/cat.png")
		require.NoError(t, err)
		assert.Equal(t, "cat.png", img.Name)
		assert.Equal(t, []string{"gs://bucket/in/cat.png"}, r.opened)
	})

	t.Run("リーダー未指定では GCS クライアントが無いためエラー", func(t *testing.T) {
		_, err := NewLoader(nil, nil).Load(ctx, "gs://bucket/cat.png")
		assert.Error(t, err)
	})

	t.Run("リーダー未指定でもローカルファイルは読める", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "local.png")
		require.NoError(t, os.WriteFile(p, data, 0o644))

		img, err := NewLoader(nil, nil).Load(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, "local.png", img.Name)
		assert.Equal(t, data, img.Data)
	})

	t.Run("画像でないデータは ErrUnsupportedMedia", func(t *testing.T) {
		r := &mockReader{files: map[string][]byte{"notes.txt": []byte("hello")}}
		_, err := NewLoader(r, nil).Load(ctx, "notes.txt")
		assert.ErrorIs(t, err, domain.ErrUnsupportedMedia)
	})

	t.Run("空の指定", func(t *testing.T) {
		_, err := NewLoader(nil, nil).Load(ctx, "  ")
		assert.Error(t, err)
	})
}

func TestLoader_ListImages(t *testing.T) {
	r := &mockReader{listed: []string{
		"gs://b/p/z.png",
		"gs://b/p/readme.md",
		"gs://b/p/a.JPG",
		"gs://b/p/b.webp",
	}}
	got, err := NewLoader(r, nil).ListImages(context.Background(), "gs://b/p/")
	require.NoError(t, err)
	assert.Equal(t, []string{"gs://b/p/a.JPG", "gs://b/p/b.webp", "gs://b/p/z.png"}, got)

	_, err = NewLoader(nil, nil).ListImages(context.Background(), "gs://b/p/")
	assert.Error(t, err)

	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.jpg", "memo.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	got, err = NewLoader(nil, nil).ListImages(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.jpg"), filepath.Join(dir, "b.png")}, got)
}

func TestSaver_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("ライター経由", func(t *testing.T) {
		w := &mockWriter{}
		require.NoError(t, NewSaver(w).Save(ctx, "gs://bucket/out.png", []byte("img"), "image/png"))
		assert.Equal(t, "gs://bucket/out.png", w.path)
		assert.Equal(t, []byte("img"), w.data)
		assert.Equal(t, "image/png", w.contentType)
	})

	t.Run("ライターのエラーを返す", func(t *testing.T) {
		w := &mockWriter{err: errors.New("denied")}
		err := NewSaver(w).Save(ctx, "gs://bucket/out.png", []byte("img"), "image/png")
		assert.ErrorContains(t, err, "denied")
	})

	t.Run("ライター未指定ではローカルにのみ保存できる", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "nested", "out.png")
		require.NoError(t, NewSaver(nil).Save(ctx, dest, []byte("img"), "image/png"))
		got, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, []byte("img"), got)

		assert.Error(t, NewSaver(nil).Save(ctx, "gs://bucket/out.png", []byte("img"), "image/png"))
		assert.Error(t, NewSaver(nil).Save(ctx, "", nil, ""))
	})
}
