package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-image-studio/internal/builder"
	"github.com/shouni/gemini-image-studio/internal/config"
	"github.com/shouni/gemini-image-studio/pkg/session"
)

// Execute は設定から AppContext を組み立て、1回分の生成を実行します。
func Execute(ctx context.Context, cfg *config.Config) error {
	appCtx, err := builder.BuildAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := appCtx.Close(); cerr != nil {
			slog.Warn("リソースの解放に失敗しました", "error", cerr)
		}
	}()
	_, err = Run(ctx, appCtx, cfg.Options)
	return err
}

// Run は元画像の読み込み、編集、生成、保存を順に行い、保存先を返します。
func Run(ctx context.Context, appCtx *builder.AppContext, opts config.GenerateOptions) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	ctrl, err := appCtx.NewController(nil)
	if err != nil {
		return "", err
	}
	defer ctrl.Close()

	ctrl.SetPrompt(opts.Prompt)
	ctrl.SetNegativePrompt(opts.NegativePrompt)
	if opts.Style != "" {
		if err := ctrl.SelectStyle(opts.Style); err != nil {
			return "", err
		}
	}
	if opts.AspectRatio != "" {
		if err := ctrl.SelectAspectRatio(opts.AspectRatio); err != nil {
			return "", err
		}
	}

	if opts.ImagePath != "" {
		if err := loadSource(ctx, appCtx, ctrl, opts); err != nil {
			return "", err
		}
	}

	if _, err := ctrl.Submit(ctx); err != nil {
		return "", err
	}

	name, data, err := ctrl.Download()
	if err != nil {
		return "", err
	}
	dest := opts.OutputFile
	if dest == "" {
		dest = name
	}
	mimeType := ctrl.State().GeneratedResult.MimeType
	if err := appCtx.Saver.Save(ctx, dest, data, mimeType); err != nil {
		return "", err
	}

	slog.Info("画像の生成が完了しました", "output", dest, "history", len(ctrl.History()))
	return dest, nil
}

// loadSource は元画像を読み込み、編集の指定があれば確定させてから設定します。
func loadSource(ctx context.Context, appCtx *builder.AppContext, ctrl *session.Controller, opts config.GenerateOptions) error {
	img, err := appCtx.Loader.Load(ctx, opts.ImagePath)
	if err != nil {
		return err
	}
	if err := ctrl.SetSourceImage(img); err != nil {
		return err
	}
	if !opts.HasEdits() {
		return nil
	}

	editor, err := ctrl.OpenEditor()
	if err != nil {
		return err
	}
	for i := 0; i < rotationSteps(opts.Rotate); i++ {
		editor.RotateRight()
	}
	editor.SetBrightness(opts.Brightness)
	editor.SetContrast(opts.Contrast)

	ok, err := ctrl.CommitEdit()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("元画像を編集できませんでした: %s", opts.ImagePath)
	}
	return nil
}

// rotationSteps は時計回りに何回 90 度回すかを返します。
func rotationSteps(degrees int) int {
	return ((degrees/90)%4 + 4) % 4
}
