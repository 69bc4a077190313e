package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-image-studio/internal/config"
	"github.com/shouni/gemini-image-studio/internal/pipeline"

	"github.com/spf13/cobra"
)

// generateCmd は、1回分の画像生成を実行して結果を保存します。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "プロンプトから画像を1枚生成して保存します。",
	Long: `プロンプト、画風、縦横比から最終プロンプトを組み立てて画像を生成します。
--image で元画像（ローカル / gs:// / http(s)）を渡すと、その画像を元に編集した画像を生成します。
--rotate / --brightness / --contrast を指定すると、元画像を編集してから送ります。`,
	RunE: generateCommand,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&opts.Prompt, "prompt", "p", "", "生成したい画像の説明です。")
	f.StringVarP(&opts.NegativePrompt, "negative", "n", "", "画像に含めたくない要素です。")
	f.StringVarP(&opts.Style, "style", "s", "", "画風です (None, Photorealistic, Anime, Watercolor, Cyberpunk, Oil Painting)。")
	f.StringVarP(&opts.AspectRatio, "aspect", "a", "", "縦横比です (1:1, 16:9, 9:16)。")
	f.StringVarP(&opts.ImagePath, "image", "i", "", "元画像のパス（ローカル / gs:// / http(s)）です。")
	f.IntVar(&opts.Rotate, "rotate", 0, "元画像を時計回りに回転する角度です（90 の倍数）。")
	f.IntVar(&opts.Brightness, "brightness", 100, "元画像の明るさ (0-200, 100 で無変換) です。")
	f.IntVar(&opts.Contrast, "contrast", 100, "元画像のコントラスト (0-200, 100 で無変換) です。")
	f.StringVarP(&opts.OutputFile, "out", "o", config.DefaultOutputFile, "保存パス（ローカル or gs://...）です。")
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig(cmd)

	slog.Info("画像生成を開始します",
		"model", cfg.GeminiImageModel,
		"style", opts.Style,
		"aspect", opts.AspectRatio,
		"image", opts.ImagePath,
		"output", opts.OutputFile)

	if err := pipeline.Execute(ctx, cfg); err != nil {
		return fmt.Errorf("画像生成に失敗しました: %w", err)
	}
	return nil
}
