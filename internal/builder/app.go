package builder

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/shouni/gemini-image-studio/internal/config"
	"github.com/shouni/gemini-image-studio/pkg/assets"
	"github.com/shouni/gemini-image-studio/pkg/generator"
	"github.com/shouni/gemini-image-studio/pkg/preview"
	"github.com/shouni/gemini-image-studio/pkg/session"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持します。
type AppContext struct {
	Config    *config.Config           // Config は環境変数と CLI フラグを反映した設定です。
	Generator generator.KeyedGenerator // Generator は画像生成サービスです。API キーは後から差し替えられます。
	Previews  *preview.Registry        // Previews は元画像のプレビューハンドルを管理します。
	Loader    *assets.Loader           // Loader はローカル / GCS / HTTP(S) から元画像を読み込みます。
	Saver     *assets.Saver            // Saver は生成結果をローカルまたは GCS に保存します。

	ioFactory io.Closer
}

// newIOFactory は GCS クライアントを保持する remoteio.IOFactory を作成します。
var newIOFactory = gcsfactory.New

// BuildAppContext は設定から AppContext を組み立てます。
// GCS クライアントが作れない環境ではローカルファイルと HTTP(S) のみで動作します。
func BuildAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	gen, err := generator.NewGeminiGenerator(generator.Config{
		APIKey:         cfg.GeminiAPIKey,
		Model:          cfg.GeminiImageModel,
		CompressSource: cfg.CompressSourceImage,
	})
	if err != nil {
		return nil, fmt.Errorf("画像生成サービスの初期化に失敗しました: %w", err)
	}

	factory, reader, writer := initializeRemoteIO(ctx)
	httpClient := httpkit.New(cfg.HTTPTimeout)

	return &AppContext{
		Config:    cfg,
		Generator: gen,
		Previews:  preview.NewRegistry(),
		Loader:    assets.NewLoader(reader, httpClient),
		Saver:     assets.NewSaver(writer),
		ioFactory: factory,
	}, nil
}

// Close は GCS クライアントなど、コンテキストが保持するリソースを解放します。
func (a *AppContext) Close() error {
	if a.ioFactory == nil {
		return nil
	}
	err := a.ioFactory.Close()
	a.ioFactory = nil
	if err != nil {
		return fmt.Errorf("I/O ファクトリのクローズに失敗しました: %w", err)
	}
	return nil
}

// NewController はこのコンテキストの部品で新しいセッションを作成します。
func (a *AppContext) NewController(onChange func(session.State)) (*session.Controller, error) {
	return session.NewController(a.Generator, session.Options{
		Previews:       a.Previews,
		ViewportWidth:  a.Config.ViewportWidth,
		StatusInterval: a.Config.StatusInterval,
		OnChange:       onChange,
	})
}

// initializeRemoteIO は GCS 対応の Reader / Writer を作成します。
// GCS クライアントを作れない場合はクライアントを持たない汎用実装を返し、ローカルのみで動作します。
func initializeRemoteIO(ctx context.Context) (remoteio.IOFactory, remoteio.InputReader, remoteio.OutputWriter) {
	localReader := remoteio.NewUniversalInputReader(nil, nil)
	localWriter := remoteio.NewUniversalIOWriter(nil, nil)

	factory, err := newIOFactory(ctx)
	if err != nil {
		slog.Warn("GCS クライアントを作成できないためローカルのみで動作します", "error", err)
		return nil, localReader, localWriter
	}

	reader, err := factory.InputReader()
	if err != nil {
		slog.Warn("GCS リーダーの作成に失敗しました", "error", err)
		reader = localReader
	}
	writer, err := factory.OutputWriter()
	if err != nil {
		slog.Warn("GCS ライターの作成に失敗しました", "error", err)
		writer = localWriter
	}
	return factory, reader, writer
}
