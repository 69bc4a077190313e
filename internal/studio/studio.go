package studio

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/shouni/gemini-image-studio/internal/builder"
	"github.com/shouni/gemini-image-studio/pkg/domain"
	"github.com/shouni/gemini-image-studio/pkg/editor"
	"github.com/shouni/gemini-image-studio/pkg/prompt"
	"github.com/shouni/gemini-image-studio/pkg/session"
)

const helpText = `コマンド:
  prompt <text>          プロンプトを設定
  negative [text]        ネガティブプロンプトを設定（省略でクリア）
  style [name]           画風を選択（省略で一覧）
  aspect [ratio]         縦横比を選択（省略で一覧）
  surprise               サンプルのプロンプトを設定
  image <path|gs://|url> 元画像を読み込む
  ls <prefix>            prefix 配下の画像を一覧
  clear                  元画像を外す
  edit open|left|right|brightness N|contrast N|reset|apply|cancel
  generate               生成を開始（完了を待たずに戻る）
  wait                   生成の完了を待つ
  history                履歴を表示
  reuse <id>             履歴の内容を復元
  delete <id>            履歴を削除
  save [path]            生成結果を保存
  key <api-key>          API キーを設定
  state                  現在の状態を表示
  quit                   終了`

// Studio は対話形式で Controller を操作するシェルです。
type Studio struct {
	app  *builder.AppContext
	ctrl *session.Controller

	outMu      sync.Mutex
	out        io.Writer
	lastStatus string

	editor   *editor.Pipeline
	inflight sync.WaitGroup
}

// New は AppContext から新しいセッションを作成します。
func New(app *builder.AppContext, out io.Writer) (*Studio, error) {
	s := &Studio{app: app, out: out}
	ctrl, err := app.NewController(s.onChange)
	if err != nil {
		return nil, err
	}
	s.ctrl = ctrl
	return s, nil
}

// Controller は操作対象のセッションを返します。
func (s *Studio) Controller() *session.Controller {
	return s.ctrl
}

// Run は in から1行ずつコマンドを読み、quit か入力終端まで実行します。
func (s *Studio) Run(ctx context.Context, in io.Reader) error {
	defer s.Close()

	s.printf("Gemini Image Studio へようこそ。help でコマンド一覧を表示します。\n")
	scanner := bufio.NewScanner(in)
	for {
		s.printf("> ")
		if !scanner.Scan() {
			break
		}
		quit, err := s.Exec(ctx, scanner.Text())
		if err != nil {
			s.printf("エラー: %v\n", err)
		}
		if quit {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return scanner.Err()
}

// Close は実行中の生成を待ってからセッションを閉じます。
func (s *Studio) Close() {
	s.inflight.Wait()
	s.ctrl.Close()
}

// Exec は1行分のコマンドを実行します。quit が true なら終了します。
func (s *Studio) Exec(ctx context.Context, line string) (bool, error) {
	name, arg := splitCommand(line)
	switch name {
	case "":
		return false, nil
	case "help", "?":
		s.printf("%s\n", helpText)
	case "quit", "exit":
		return true, nil
	case "prompt":
		s.ctrl.SetPrompt(arg)
	case "negative":
		s.ctrl.SetNegativePrompt(arg)
	case "style":
		if arg == "" {
			printChoices(s, prompt.Styles(), s.ctrl.State().Style)
			return false, nil
		}
		return false, s.ctrl.SelectStyle(arg)
	case "aspect":
		if arg == "" {
			printChoices(s, prompt.AspectRatios(), s.ctrl.State().AspectRatio)
			return false, nil
		}
		return false, s.ctrl.SelectAspectRatio(arg)
	case "surprise":
		s.printf("prompt: %s\n", s.ctrl.SurpriseMe())
	case "image":
		return false, s.loadImage(ctx, arg)
	case "ls":
		return false, s.listImages(ctx, arg)
	case "clear":
		s.ctrl.ClearSourceImage()
	case "edit":
		return false, s.edit(arg)
	case "generate":
		return false, s.generate(ctx)
	case "wait":
		s.inflight.Wait()
	case "history":
		s.printHistory()
	case "reuse":
		return false, s.ctrl.ReuseByID(arg)
	case "delete":
		if !s.ctrl.DeleteHistory(arg) {
			s.printf("該当する履歴はありません: %s\n", arg)
		}
	case "save":
		return false, s.save(ctx, arg)
	case "key":
		if arg == "" {
			return false, errors.New("API キーを指定してください")
		}
		s.app.Generator.SetAPIKey(arg)
		s.printf("API キーを設定しました\n")
	case "state":
		s.printState()
	default:
		return false, fmt.Errorf("不明なコマンドです: %s (help で一覧)", name)
	}
	return false, nil
}

func (s *Studio) loadImage(ctx context.Context, location string) error {
	img, err := s.app.Loader.Load(ctx, location)
	if err != nil {
		return err
	}
	if err := s.ctrl.SetSourceImage(img); err != nil {
		return err
	}
	s.printf("元画像: %s (%s, %dx%d)\n", img.Name, img.MimeType, img.Width, img.Height)
	return nil
}

func (s *Studio) listImages(ctx context.Context, prefix string) error {
	uris, err := s.app.Loader.ListImages(ctx, prefix)
	if err != nil {
		return err
	}
	for _, u := range uris {
		s.printf("  %s\n", u)
	}
	return nil
}

func (s *Studio) edit(arg string) error {
	sub, value := splitCommand(arg)
	if sub == "open" {
		p, err := s.ctrl.OpenEditor()
		if err != nil {
			return err
		}
		s.editor = p
		s.printEditor()
		return nil
	}
	if s.editor == nil {
		return errors.New("先に edit open で編集を開始してください")
	}

	switch sub {
	case "left":
		s.editor.RotateLeft()
	case "right":
		s.editor.RotateRight()
	case "brightness", "contrast":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s には数値を指定してください: %q", sub, value)
		}
		if sub == "brightness" {
			s.editor.SetBrightness(v)
		} else {
			s.editor.SetContrast(v)
		}
	case "reset":
		s.editor.Reset()
	case "apply":
		ok, err := s.ctrl.CommitEdit()
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("編集対象が読み込まれていません")
		}
		s.editor = nil
		s.printf("編集結果を元画像に設定しました\n")
		return nil
	case "cancel":
		s.editor = nil
		return nil
	default:
		return fmt.Errorf("不明な edit コマンドです: %s", sub)
	}
	s.printEditor()
	return nil
}

func (s *Studio) generate(ctx context.Context) error {
	ch, err := s.ctrl.Start(ctx)
	if err != nil {
		return err
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		out := <-ch
		if out.Err != nil {
			s.printf("\n生成に失敗しました: %s\n", domain.UserMessage(out.Err))
			return
		}
		s.printf("\n生成が完了しました (%s, %d bytes)。save で保存できます\n", out.Result.MimeType, len(out.Result.Data))
	}()
	return nil
}

func (s *Studio) save(ctx context.Context, dest string) error {
	name, data, err := s.ctrl.Download()
	if err != nil {
		return err
	}
	if dest == "" {
		dest = name
	}
	mimeType := "image/png"
	if res := s.ctrl.State().GeneratedResult; res != nil && res.MimeType != "" {
		mimeType = res.MimeType
	}
	if err := s.app.Saver.Save(ctx, dest, data, mimeType); err != nil {
		return err
	}
	s.printf("保存しました: %s\n", dest)
	return nil
}

// onChange は進行メッセージが変わったときだけ表示します。
func (s *Studio) onChange(st session.State) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	if st.StatusMessage == s.lastStatus {
		return
	}
	s.lastStatus = st.StatusMessage
	if st.StatusMessage != "" {
		fmt.Fprintf(s.out, "\n%s\n", st.StatusMessage)
	}
}

func (s *Studio) printState() {
	st := s.ctrl.State()
	s.printf("prompt:   %s\n", st.Prompt)
	s.printf("negative: %s\n", st.NegativePrompt)
	s.printf("style:    %s\n", st.Style)
	s.printf("aspect:   %s\n", st.AspectRatio)
	if st.SourceImage != nil {
		s.printf("image:    %s (%s)\n", st.SourceImage.Name, st.SourceImage.PreviewHandle)
	} else {
		s.printf("image:    -\n")
	}
	s.printf("pending:  %t\n", st.IsRequestPending)
	if st.GeneratedResult != nil {
		s.printf("result:   %s, %d bytes\n", st.GeneratedResult.MimeType, len(st.GeneratedResult.Data))
	}
	if st.LastError != "" {
		s.printf("error:    %s\n", st.LastError)
	}
}

func (s *Studio) printHistory() {
	entries := s.ctrl.History()
	if len(entries) == 0 {
		s.printf("履歴はありません\n")
		return
	}
	for _, e := range entries {
		base := ""
		if e.BaseImage != nil {
			base = " [元画像: " + e.BaseImage.Name + "]"
		}
		s.printf("  %s  %s  %s%s\n", e.ID, e.CreatedAt.Format("15:04:05"), e.Prompt, base)
	}
}

func (s *Studio) printEditor() {
	p := s.editor.Params()
	s.printf("回転 %d° / 明るさ %d%% / コントラスト %d%% (キャンバス %dpx)\n",
		p.RotationDegrees, p.BrightnessPercent, p.ContrastPercent, s.editor.CanvasSide())
}

func printChoices[T comparable](s *Studio, items []T, current T) {
	for _, it := range items {
		s.printf("  %v%s\n", it, marker(it == current))
	}
}

func (s *Studio) printf(format string, args ...any) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

func marker(selected bool) string {
	if selected {
		return " *"
	}
	return ""
}

func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	name, arg, _ := strings.Cut(line, " ")
	return strings.ToLower(name), strings.TrimSpace(arg)
}
