package session

import (
	"log/slog"

	"github.com/shouni/gemini-image-studio/pkg/domain"
	"github.com/shouni/gemini-image-studio/pkg/imgutil"
)

// DownloadFileName は生成結果を保存するときのファイル名です。
const DownloadFileName = "peso-ai-image.png"

// File はファイル選択やドロップで渡された1ファイルです。
type File struct {
	Name     string
	MimeType string
	Data     []byte
}

// SelectFile はファイル選択で渡された画像を元画像に設定します。
// image/* 以外は何もせず false を返します。エラー表示にはしません。
func (c *Controller) SelectFile(f File) bool {
	img, ok := toSourceImage(f)
	if !ok {
		slog.Debug("画像以外のファイルを無視しました", "name", f.Name, "mime_type", f.MimeType)
		return false
	}
	c.replaceSource(img)
	return true
}

// DropFiles はドロップされたファイルのうち先頭の1件だけを扱います。
func (c *Controller) DropFiles(files []File) bool {
	if len(files) == 0 {
		return false
	}
	return c.SelectFile(files[0])
}

// SetSourceImage は読み込み済みの画像を元画像に設定します。
func (c *Controller) SetSourceImage(img *domain.SourceImage) error {
	if img == nil {
		c.ClearSourceImage()
		return nil
	}
	mimeType := img.MimeType
	if mimeType == "" {
		mimeType = imgutil.DetectMimeType(img.Data, "")
	}
	if !domain.IsImageMime(mimeType) {
		return domain.ErrUnsupportedMedia
	}
	src := img.Clone()
	src.MimeType = mimeType
	fillDimensions(src)
	c.replaceSource(src)
	return nil
}

// ClearSourceImage は元画像を外してプレビューを解放します。
func (c *Controller) ClearSourceImage() {
	var revoke string
	c.mu.Lock()
	if c.state.SourceImage != nil {
		revoke = c.state.SourceImage.PreviewHandle
	}
	c.state.SourceImage = nil
	snap := c.state
	c.mu.Unlock()

	c.previews.Revoke(revoke)
	c.notify(snap)
}

// replaceSource は元画像を差し替えます。古いプレビューは解放し、前回の生成結果は消します。
func (c *Controller) replaceSource(img *domain.SourceImage) {
	var revoke string
	c.mu.Lock()
	if c.state.SourceImage != nil {
		revoke = c.state.SourceImage.PreviewHandle
	}
	c.state.SourceImage = c.withPreview(img)
	c.state.GeneratedResult = nil
	snap := c.state
	c.mu.Unlock()

	c.previews.Revoke(revoke)
	slog.Info("元画像を設定しました", "name", img.Name, "mime_type", img.MimeType, "width", img.Width, "height", img.Height)
	c.notify(snap)
}

// Download は現在の生成結果とその保存名を返します。
func (c *Controller) Download() (string, []byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.IsRequestPending || c.state.GeneratedResult == nil {
		return "", nil, domain.ErrNoResult
	}
	return DownloadFileName, append([]byte(nil), c.state.GeneratedResult.Data...), nil
}

func toSourceImage(f File) (*domain.SourceImage, bool) {
	mimeType := f.MimeType
	if mimeType == "" {
		mimeType = imgutil.DetectMimeType(f.Data, "")
	}
	if !domain.IsImageMime(mimeType) {
		return nil, false
	}
	img := &domain.SourceImage{
		Name:     f.Name,
		MimeType: mimeType,
		Data:     append([]byte(nil), f.Data...),
	}
	fillDimensions(img)
	return img, true
}

// fillDimensions は寸法が未設定ならヘッダから読み取ります。読めなければ 0 のままです。
func fillDimensions(img *domain.SourceImage) {
	if img.Width > 0 && img.Height > 0 {
		return
	}
	if cfg, err := imgutil.DecodeConfig(img.Data); err == nil {
		img.Width, img.Height = cfg.Width, cfg.Height
	}
}
