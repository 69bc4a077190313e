package session

import (
	"strings"

	"github.com/shouni/gemini-image-studio/pkg/domain"
)

// State はセッションの表示状態のスナップショットです。
// SourceImage と GeneratedResult は差し替えのみで書き換えないため、ポインタを共有しても安全です。
type State struct {
	Prompt           string
	NegativePrompt   string
	SourceImage      *domain.SourceImage
	GeneratedResult  *domain.ImageResponse
	Style            domain.Style
	AspectRatio      domain.AspectRatio
	IsRequestPending bool
	LastError        string
	// StatusMessage は生成中に切り替わる進行メッセージです。待機中は空です。
	StatusMessage string
}

// CanSubmit は送信ボタンを有効にできるかを返します。
func (s State) CanSubmit() bool {
	return !s.IsRequestPending && strings.TrimSpace(s.Prompt) != ""
}

// HasResult は生成結果を表示できるかを返します。
func (s State) HasResult() bool {
	return !s.IsRequestPending && s.GeneratedResult != nil
}

func initialState() State {
	return State{
		Style:       domain.DefaultStyle,
		AspectRatio: domain.DefaultAspect,
	}
}
