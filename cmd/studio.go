package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-image-studio/internal/builder"
	"github.com/shouni/gemini-image-studio/internal/studio"

	"github.com/spf13/cobra"
)

// studioCmd は、対話形式で生成と編集を繰り返すセッションを開始します。
var studioCmd = &cobra.Command{
	Use:   "studio",
	Short: "対話形式で画像の生成・編集・履歴の再利用を行います。",
	Long: `標準入力からコマンドを読み、1つのセッションの中でプロンプトの調整、元画像の編集、
生成、履歴（最大12件）の再利用と削除を行います。help でコマンド一覧を表示します。`,
	RunE: studioCommand,
}

func studioCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig(cmd)

	appCtx, err := builder.BuildAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := appCtx.Close(); cerr != nil {
			slog.Warn("リソースの解放に失敗しました", "error", cerr)
		}
	}()
	s, err := studio.New(appCtx, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("セッションの作成に失敗しました: %w", err)
	}
	return s.Run(ctx, cmd.InOrStdin())
}
