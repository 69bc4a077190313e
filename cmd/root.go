package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/gemini-image-studio/internal/config"

	"github.com/spf13/cobra"
)

// opts は各サブコマンドが共有する CLI フラグの値です。
var opts config.GenerateOptions

var rootCmd = &cobra.Command{
	Use:   "gemini-image-studio",
	Short: "Gemini で画像を生成・編集するスタジオです。",
	Long: `プロンプトと任意の元画像から Gemini の画像モデルで画像を生成します。
元画像は回転・明るさ・コントラストを編集してから送ることができます。`,
	SilenceUsage:      true,
	PersistentPreRunE: preRunAppE,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義します。
func addAppFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "model", config.DefaultImageModel, "使用する Gemini 画像モデル名です。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "元画像を URL から取得するときのタイムアウトです。")
	rootCmd.PersistentFlags().BoolVar(&opts.Compress, "compress", false, "元画像を JPEG に圧縮してから送ります。")
}

// preRunAppE は、コマンド実行前にロガーを設定します。
func preRunAppE(cmd *cobra.Command, args []string) error {
	cfg := config.LoadConfig()
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	slog.SetDefault(slog.New(handler))
	return nil
}

// loadConfig は環境変数の設定に、明示的に指定された CLI フラグを上書きします。
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.LoadConfig()
	if cmd.Flags().Changed("model") {
		cfg.GeminiImageModel = opts.ImageModel
	}
	if cmd.Flags().Changed("http-timeout") {
		cfg.HTTPTimeout = opts.HTTPTimeout
	}
	if cmd.Flags().Changed("compress") {
		cfg.CompressSourceImage = opts.Compress
	}
	cfg.Options = opts
	return cfg
}

// Execute は、アプリケーションのメインエントリポイントです。
// main.go から呼び出されて、cobra のコマンドライン解析を開始します。
func Execute() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(generateCmd, studioCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
