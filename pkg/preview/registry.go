package preview

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const (
	// Scheme はプレビューハンドルの接頭辞です。
	Scheme = "preview://"
)

// Resource はハンドルが指す表示用データです。
type Resource struct {
	MimeType string
	Data     []byte
}

// Registry は元画像のプレビュー表示用の一時リソースを管理します。
// ハンドルは期限切れにならず、差し替えや破棄の際に Revoke で解放されるまで有効です。
type Registry struct {
	store *cache.Cache
}

// NewRegistry は空のレジストリを作成します。
func NewRegistry() *Registry {
	return &Registry{store: cache.New(cache.NoExpiration, 0)}
}

// Create はデータを登録して新しいハンドルを返します。
func (r *Registry) Create(mimeType string, data []byte) string {
	handle := Scheme + uuid.NewString()
	r.store.Set(handle, Resource{MimeType: mimeType, Data: data}, cache.NoExpiration)
	return handle
}

// Resolve はハンドルが指すデータを返します。解放済みなら false です。
func (r *Registry) Resolve(handle string) (Resource, bool) {
	v, ok := r.store.Get(handle)
	if !ok {
		return Resource{}, false
	}
	res, ok := v.(Resource)
	if !ok {
		slog.Warn("プレビューキャッシュのデータが不正な型です", "handle", handle)
		return Resource{}, false
	}
	return res, true
}

// Revoke はハンドルを解放します。空文字や未知のハンドルは無視します。
func (r *Registry) Revoke(handle string) {
	if !strings.HasPrefix(handle, Scheme) {
		return
	}
	if _, ok := r.store.Get(handle); ok {
		r.store.Delete(handle)
		slog.Debug("プレビューを解放しました", "handle", handle)
	}
}

// Len は生存中のハンドル数を返します。
func (r *Registry) Len() int {
	return r.store.ItemCount()
}
