package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shouni/gemini-image-studio/pkg/domain"
	"github.com/shouni/gemini-image-studio/pkg/editor"
	"github.com/shouni/gemini-image-studio/pkg/generator"
	"github.com/shouni/gemini-image-studio/pkg/history"
	"github.com/shouni/gemini-image-studio/pkg/preview"
	"github.com/shouni/gemini-image-studio/pkg/prompt"
)

// Options は Controller の任意設定です。ゼロ値の項目には既定値が使われます。
type Options struct {
	Previews       *preview.Registry
	ViewportWidth  int
	StatusInterval time.Duration
	StatusMessages []string
	// OnChange は状態が変わるたびに、ロックの外で最新のスナップショットを受け取ります。
	OnChange func(State)
	Now      func() time.Time
}

// Outcome は非同期に開始した生成の結果です。
type Outcome struct {
	Result *domain.ImageResponse
	Err    error
}

// Controller は1セッション分の生成ワークフローを管理します。
// 同時に実行できる生成リクエストは常に1つです。
type Controller struct {
	mu      sync.Mutex
	state   State
	history *history.Cache[domain.HistoryEntry]
	editor  *editor.Pipeline
	ticker  *statusTicker
	closed  bool

	generator      generator.ImageGenerator
	previews       *preview.Registry
	statusInterval time.Duration
	statusMessages []string
	onChange       func(State)
	now            func() time.Time
}

// submission は送信時点で確定した生成の入力です。
type submission struct {
	request        domain.GenerationRequest
	prompt         string
	negativePrompt string
}

// NewController は生成サービスを受け取って Controller を作成します。
func NewController(gen generator.ImageGenerator, opts Options) (*Controller, error) {
	if gen == nil {
		return nil, errors.New("画像生成サービスが指定されていません")
	}

	if opts.Previews == nil {
		opts.Previews = preview.NewRegistry()
	}
	if opts.StatusInterval <= 0 {
		opts.StatusInterval = DefaultStatusInterval
	}
	if len(opts.StatusMessages) == 0 {
		opts.StatusMessages = DefaultStatusMessages
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Controller{
		state:          initialState(),
		history:        history.New[domain.HistoryEntry](),
		editor:         editor.New(opts.ViewportWidth),
		generator:      gen,
		previews:       opts.Previews,
		statusInterval: opts.StatusInterval,
		statusMessages: opts.StatusMessages,
		onChange:       opts.OnChange,
		now:            opts.Now,
	}, nil
}

// State は現在の状態のコピーを返します。
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Previews はプレビューハンドルの解決に使うレジストリを返します。
func (c *Controller) Previews() *preview.Registry {
	return c.previews
}

// Submit は現在の入力で画像を生成し、完了するまでブロックします。
// プロンプトが空の場合は ValidationError を返し、生成サービスは呼びません。
// 生成中に呼ばれた場合は ErrRequestInFlight を返し、状態を変更しません。
func (c *Controller) Submit(ctx context.Context) (*domain.ImageResponse, error) {
	sub, err := c.begin()
	if err != nil {
		return nil, err
	}
	return c.run(ctx, sub)
}

// Start は生成を開始して結果を受け取るチャネルを返します。
// 受付の可否はこの呼び出しの中で判定し、拒否された場合はエラーを返します。
func (c *Controller) Start(ctx context.Context) (<-chan Outcome, error) {
	sub, err := c.begin()
	if err != nil {
		return nil, err
	}

	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		res, err := c.run(ctx, sub)
		ch <- Outcome{Result: res, Err: err}
	}()
	return ch, nil
}

// begin は受付判定と状態遷移 Idle → Pending を1回のロックで行います。
func (c *Controller) begin() (submission, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return submission{}, domain.ErrSessionClosed
	}
	if c.state.IsRequestPending {
		c.mu.Unlock()
		return submission{}, domain.ErrRequestInFlight
	}
	if strings.TrimSpace(c.state.Prompt) == "" {
		c.state.LastError = domain.MsgEmptyPrompt
		snap := c.state
		c.mu.Unlock()
		c.notify(snap)
		return submission{}, &domain.ValidationError{Message: domain.MsgEmptyPrompt}
	}

	sub := submission{
		request: domain.GenerationRequest{
			FinalPrompt: prompt.Compose(c.state.Prompt, c.state.NegativePrompt, c.state.Style, c.state.AspectRatio),
			SourceImage: c.state.SourceImage,
		},
		prompt:         c.state.Prompt,
		negativePrompt: c.state.NegativePrompt,
	}

	c.state.IsRequestPending = true
	c.state.GeneratedResult = nil
	c.state.LastError = ""
	c.ticker, c.state.StatusMessage = startStatusTicker(c.statusInterval, c.statusMessages, c.emitStatus)
	snap := c.state
	c.mu.Unlock()

	slog.Info("画像生成を開始します",
		"style", snap.Style,
		"aspect_ratio", snap.AspectRatio,
		"has_source_image", sub.request.SourceImage != nil)
	c.notify(snap)
	return sub, nil
}

// run は生成サービスを呼び出し、結果を状態と履歴に反映します。
func (c *Controller) run(ctx context.Context, sub submission) (*domain.ImageResponse, error) {
	res, err := c.generator.Generate(ctx, sub.request)
	if err == nil && res == nil {
		err = &domain.ServiceProtocolError{}
	}

	c.mu.Lock()
	c.ticker.Stop()
	c.ticker = nil
	c.state.IsRequestPending = false
	c.state.StatusMessage = ""

	if err != nil {
		c.state.LastError = domain.UserMessage(err)
		snap := c.state
		c.mu.Unlock()

		slog.Error("画像生成に失敗しました", "error", err)
		c.notify(snap)
		return nil, err
	}

	c.state.GeneratedResult = res
	entry := domain.NewHistoryEntry(c.now(), *res, sub.prompt, sub.negativePrompt, sub.request.SourceImage)
	c.history.Insert(entry)
	snap := c.state
	c.mu.Unlock()

	slog.Info("画像生成が完了しました", "history_id", entry.ID, "mime_type", res.MimeType, "bytes", len(res.Data))
	c.notify(snap)
	return res, nil
}

// emitStatus はタイマーからの進行メッセージを反映します。止めたタイマーからの通知は捨てます。
func (c *Controller) emitStatus(t *statusTicker, msg string) {
	c.mu.Lock()
	if c.ticker != t || !c.state.IsRequestPending {
		c.mu.Unlock()
		return
	}
	c.state.StatusMessage = msg
	snap := c.state
	c.mu.Unlock()
	c.notify(snap)
}

func (c *Controller) notify(s State) {
	if c.onChange != nil {
		c.onChange(s)
	}
}

// update はロック下で fn を実行し、変更後の状態を通知します。
func (c *Controller) update(fn func(s *State)) {
	c.mu.Lock()
	fn(&c.state)
	snap := c.state
	c.mu.Unlock()
	c.notify(snap)
}

func (c *Controller) SetPrompt(p string) {
	c.update(func(s *State) { s.Prompt = p })
}

func (c *Controller) SetNegativePrompt(p string) {
	c.update(func(s *State) { s.NegativePrompt = p })
}

// SelectStyle は名前からスタイルを選択します。
func (c *Controller) SelectStyle(name string) error {
	style, err := prompt.ParseStyle(name)
	if err != nil {
		return err
	}
	c.update(func(s *State) { s.Style = style })
	return nil
}

// SelectAspectRatio は "16:9" のような表記からアスペクト比を選択します。
func (c *Controller) SelectAspectRatio(value string) error {
	aspect, err := prompt.ParseAspectRatio(value)
	if err != nil {
		return err
	}
	c.update(func(s *State) { s.AspectRatio = aspect })
	return nil
}

// SurpriseMe はサンプルのプロンプトを1つ選んで入力欄に設定し、それを返します。
func (c *Controller) SurpriseMe() string {
	p := prompt.Surprise()
	c.SetPrompt(p)
	return p
}

// History は新しい順の履歴を返します。
func (c *Controller) History() []domain.HistoryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.List()
}

// DeleteHistory は履歴を1件削除します。存在しない ID は無視します。
func (c *Controller) DeleteHistory(id string) bool {
	c.mu.Lock()
	removed := c.history.Remove(id)
	c.mu.Unlock()
	if removed {
		slog.Debug("履歴を削除しました", "id", id)
	}
	return removed
}

// Reuse は履歴の内容を入力欄と結果表示に戻します。
// 元画像があれば新しいプレビューハンドルで復元し、無ければ元画像をクリアします。
func (c *Controller) Reuse(entry domain.HistoryEntry) {
	var revoke string
	c.mu.Lock()
	c.state.Prompt = entry.Prompt
	c.state.NegativePrompt = entry.NegativePrompt
	result := entry.Result
	result.Data = append([]byte(nil), entry.Result.Data...)
	c.state.GeneratedResult = &result

	if c.state.SourceImage != nil {
		revoke = c.state.SourceImage.PreviewHandle
	}
	c.state.SourceImage = nil
	if entry.BaseImage != nil {
		c.state.SourceImage = c.withPreview(entry.BaseImage.Clone())
	}
	snap := c.state
	c.mu.Unlock()

	c.previews.Revoke(revoke)
	c.notify(snap)
}

// ReuseByID は ID を指定して Reuse します。
func (c *Controller) ReuseByID(id string) error {
	c.mu.Lock()
	entry, ok := c.history.Get(id)
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrHistoryNotFound, id)
	}
	c.Reuse(entry)
	return nil
}

// withPreview は img にプレビューハンドルを発行して返します。img は呼び出し側が所有する新しい値です。
func (c *Controller) withPreview(img *domain.SourceImage) *domain.SourceImage {
	img.PreviewHandle = c.previews.Create(img.MimeType, img.Data)
	return img
}

// OpenEditor は現在の元画像を編集画面で開きます。元画像が無い場合はエラーです。
func (c *Controller) OpenEditor() (*editor.Pipeline, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.SourceImage == nil {
		return nil, errors.New("編集する元画像がありません")
	}
	if err := c.editor.Open(c.state.SourceImage); err != nil {
		return nil, err
	}
	return c.editor, nil
}

// CommitEdit は編集結果を新しい元画像として確定します。
// 編集画面が未読み込みの場合は何もせず false を返します。
func (c *Controller) CommitEdit() (bool, error) {
	c.mu.Lock()
	edited, err := c.editor.Commit()
	c.mu.Unlock()
	if err != nil {
		return false, err
	}
	if edited == nil {
		return false, nil
	}
	c.replaceSource(edited)
	return true, nil
}

// Close はタイマーを止め、保持しているプレビューを解放します。
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.ticker.Stop()
	c.ticker = nil
	var revoke string
	if c.state.SourceImage != nil {
		revoke = c.state.SourceImage.PreviewHandle
	}
	c.mu.Unlock()

	c.previews.Revoke(revoke)
	slog.Debug("セッションを終了しました")
}
