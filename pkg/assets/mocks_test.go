package assets

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type mockReader struct {
	files  map[string][]byte
	listed []string
	opened []string
}

func (m *mockReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	m.opened = append(m.opened, uri)
	data, ok := m.files[uri]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockReader) List(ctx context.Context, uri string, fn func(string) error) error {
	for _, u := range m.listed {
		if err := fn(u); err != nil {
			return err
		}
	}
	return nil
}

type mockHTTPClient struct {
	data  []byte
	err   error
	calls int
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.calls++
	return m.data, m.err
}

type mockWriter struct {
	path        string
	data        []byte
	contentType string
	err         error
}

func (m *mockWriter) Write(ctx context.Context, path string, r io.Reader, contentType string) error {
	if m.err != nil {
		return m.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.path, m.data, m.contentType = path, data, contentType
	return nil
}

func resolveTo(ips ...string) IPResolver {
	return func(host string) ([]net.IP, error) {
		out := make([]net.IP, 0, len(ips))
		for _, s := range ips {
			out = append(out, net.ParseIP(s))
		}
		return out, nil
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, image.NewNRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}
