package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"path"
	"sort"
	"strings"

	"github.com/shouni/gemini-image-studio/pkg/domain"
	"github.com/shouni/gemini-image-studio/pkg/imgutil"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// HTTPClient は画像の取得に使う HTTP クライアントです。httpkit.ClientInterface が満たします。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Loader はローカルパス、GCS、HTTP(S) から元画像を読み込みます。
type Loader struct {
	reader     remoteio.InputReader
	httpClient HTTPClient
	resolve    IPResolver
}

// NewLoader は Loader を作成します。
// reader が nil の場合はクラウドクライアントを持たない remoteio.UniversalInputReader を使うため、
// ローカルパスのみ読み込めます。
func NewLoader(reader remoteio.InputReader, httpClient HTTPClient) *Loader {
	if reader == nil {
		reader = remoteio.NewUniversalInputReader(nil, nil)
	}
	return &Loader{
		reader:     reader,
		httpClient: httpClient,
		resolve:    net.LookupIP,
	}
}

// Load は location の画像を読み込み、SourceImage として返します。
// image/* と判定できないデータは domain.ErrUnsupportedMedia になります。
func (l *Loader) Load(ctx context.Context, location string) (*domain.SourceImage, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, errors.New("画像の場所が指定されていません")
	}

	data, err := l.fetch(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("画像の読み込みに失敗しました (%s): %w", location, err)
	}

	name := path.Base(strings.SplitN(location, "?", 2)[0])
	mimeType := imgutil.DetectMimeType(data, mime.TypeByExtension(path.Ext(name)))
	if !domain.IsImageMime(mimeType) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedMedia, location)
	}

	img := &domain.SourceImage{Name: name, MimeType: mimeType, Data: data}
	if cfg, err := imgutil.DecodeConfig(data); err == nil {
		img.Width, img.Height = cfg.Width, cfg.Height
	}

	slog.InfoContext(ctx, "画像を読み込みました", "location", location, "mime_type", mimeType, "bytes", len(data))
	return img, nil
}

func (l *Loader) fetch(ctx context.Context, location string) ([]byte, error) {
	switch {
	case isHTTP(location):
		if l.httpClient == nil {
			return nil, errors.New("HTTP クライアントが設定されていません")
		}
		if safe, err := isSafeURL(location, l.resolve); err != nil || !safe {
			return nil, fmt.Errorf("安全ではないURLが指定されました: %w", err)
		}
		return l.httpClient.FetchBytes(ctx, location)

	default:
		rc, err := l.reader.Open(ctx, location)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
}

// ListImages は prefix 配下にある画像ファイルの URI を名前順で返します。
func (l *Loader) ListImages(ctx context.Context, prefix string) ([]string, error) {
	var uris []string
	err := l.reader.List(ctx, prefix, func(uri string) error {
		if domain.IsImageMime(mime.TypeByExtension(strings.ToLower(path.Ext(uri)))) {
			uris = append(uris, uri)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("一覧の取得に失敗しました (%s): %w", prefix, err)
	}
	sort.Strings(uris)
	return uris, nil
}

func isHTTP(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
