package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// OutputWriter は保存先へデータを書き込みます。remoteio.OutputWriter が満たします。
type OutputWriter interface {
	Write(ctx context.Context, path string, r io.Reader, contentType string) error
}

// Saver は生成結果をローカルや GCS に保存します。
type Saver struct {
	writer OutputWriter
}

// NewSaver は Saver を作成します。
// writer が nil の場合はクラウドクライアントを持たない remoteio.UniversalIOWriter を使うため、
// ローカルにのみ保存できます。
func NewSaver(writer OutputWriter) *Saver {
	if writer == nil {
		writer = remoteio.NewUniversalIOWriter(nil, nil)
	}
	return &Saver{writer: writer}
}

// Save は data を dest に書き込みます。
func (s *Saver) Save(ctx context.Context, dest string, data []byte, mimeType string) error {
	if dest == "" {
		return errors.New("保存先が指定されていません")
	}

	if err := s.writer.Write(ctx, dest, bytes.NewReader(data), mimeType); err != nil {
		return fmt.Errorf("画像の保存に失敗しました (%s): %w", dest, err)
	}

	slog.InfoContext(ctx, "画像を保存しました", "path", dest, "bytes", len(data))
	return nil
}
