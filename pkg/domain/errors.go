package domain

import (
	"errors"
	"fmt"
)

const (
	// ExplanationPrefix はモデルが画像の代わりに説明文を返したときのエラー接頭辞です。
	ExplanationPrefix = "画像の生成に失敗しました: "
	// MsgNoImageFound は画像も説明文も返らなかったときのメッセージです。
	MsgNoImageFound = "モデルの応答に画像が見つかりませんでした。"
	// MsgUnexpected は原因が特定できないときの汎用メッセージです。
	MsgUnexpected = "予期しないエラーが発生しました。"
	// MsgEmptyPrompt はプロンプト未入力時の検証メッセージです。
	MsgEmptyPrompt = "画像の説明（プロンプト）を入力してください。"
)

var (
	// ErrRequestInFlight は生成中に次の送信が行われた場合に返ります。
	ErrRequestInFlight = errors.New("画像生成リクエストが既に実行中です")
	// ErrMissingCredential は API キーが設定されていない場合に返ります。
	ErrMissingCredential = errors.New("APIキーが設定されていません (GEMINI_API_KEY)")
	// ErrNoResult はダウンロード対象の生成結果が無い場合に返ります。
	ErrNoResult = errors.New("生成された画像がありません")
	// ErrUnsupportedMedia は image/* 以外の入力を渡された場合に返ります。
	ErrUnsupportedMedia = errors.New("画像ファイルではありません")
	// ErrHistoryNotFound は指定 ID の履歴が無い場合に返ります。
	ErrHistoryNotFound = errors.New("履歴が見つかりません")
	// ErrSessionClosed は Close 済みのセッションで送信した場合に返ります。
	ErrSessionClosed = errors.New("セッションは既に終了しています")
)

// ValidationError は入力検証エラーです。ネットワークにも履歴にも触れません。
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ServiceExplanationError はモデルが画像を返さず説明文を返した場合のエラーです。
type ServiceExplanationError struct {
	Text string
}

func (e *ServiceExplanationError) Error() string { return ExplanationPrefix + e.Text }

// ServiceProtocolError は画像も説明文も返らなかった場合のエラーです。
type ServiceProtocolError struct {
	Reason string
}

func (e *ServiceProtocolError) Error() string {
	if e.Reason == "" {
		return MsgNoImageFound
	}
	return fmt.Sprintf("%s (%s)", MsgNoImageFound, e.Reason)
}

// TransportError は通信や認証の失敗をラップします。メッセージは元のエラーのままです。
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return MsgUnexpected
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// UserMessage はエラーを画面表示用の文字列に変換します。
// メッセージが取れない場合は汎用メッセージを返します。
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgUnexpected
}
