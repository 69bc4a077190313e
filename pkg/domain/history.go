package domain

import (
	"strconv"
	"sync"
	"time"
)

// HistoryEntry は過去の生成結果1件です。作成後は変更しません。
type HistoryEntry struct {
	ID             string
	Result         ImageResponse
	Prompt         string
	NegativePrompt string
	BaseImage      *SourceImage
	CreatedAt      time.Time
}

// GetID は履歴キャッシュがキーとして使う ID を返します。
func (e HistoryEntry) GetID() string {
	return e.ID
}

var (
	idMu   sync.Mutex
	lastID int64
)

// NewHistoryID は作成時刻（ミリ秒）から ID を作ります。
// 同一ミリ秒内の連続生成では値を1つずつ進めて重複を避けます。
func NewHistoryID(now time.Time) string {
	idMu.Lock()
	defer idMu.Unlock()

	v := now.UnixMilli()
	if v <= lastID {
		v = lastID + 1
	}
	lastID = v
	return strconv.FormatInt(v, 10)
}

// NewHistoryEntry は結果と入力のスナップショットから履歴エントリを作成します。
// 画像データは複製されるため、呼び出し元のバッファを後で変更しても影響しません。
// プレビューハンドルは元画像の差し替えで解放されるため、スナップショットには残しません。
func NewHistoryEntry(now time.Time, result ImageResponse, prompt, negativePrompt string, base *SourceImage) HistoryEntry {
	snapshot := base.Clone()
	if snapshot != nil {
		snapshot.PreviewHandle = ""
	}
	return HistoryEntry{
		ID: NewHistoryID(now),
		Result: ImageResponse{
			Data:     append([]byte(nil), result.Data...),
			MimeType: result.MimeType,
		},
		Prompt:         prompt,
		NegativePrompt: negativePrompt,
		BaseImage:      snapshot,
		CreatedAt:      now,
	}
}
