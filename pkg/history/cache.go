package history

import "log/slog"

// Capacity は保持する履歴の最大件数です。
const Capacity = 12

// Identifiable は ID で識別できる要素です。
type Identifiable interface {
	GetID() string
}

// Cache は新しい順に並ぶ固定長の履歴です。
// 内部はリングバッファで、先頭への追加と末尾の追い出しは O(1) です。
// 並行利用は想定していません。呼び出し側で排他してください。
type Cache[T Identifiable] struct {
	buf  []T
	head int // 最新要素の位置
	size int
}

// New は容量 Capacity の空のキャッシュを作成します。
func New[T Identifiable]() *Cache[T] {
	return &Cache[T]{buf: make([]T, Capacity)}
}

// Len は現在の件数を返します。
func (c *Cache[T]) Len() int {
	return c.size
}

// index は新しい順で i 番目の要素のバッファ位置を返します。
func (c *Cache[T]) index(i int) int {
	return (c.head + i) % len(c.buf)
}

// Insert は先頭に追加します。容量を超えた場合は最も古い要素を追い出し、それを返します。
func (c *Cache[T]) Insert(entry T) (evicted T, ok bool) {
	c.head = (c.head - 1 + len(c.buf)) % len(c.buf)
	if c.size == len(c.buf) {
		// 新しい head の位置には最古の要素が入っている
		evicted, ok = c.buf[c.head], true
		slog.Debug("履歴の上限に達したため古いエントリを削除しました", "id", evicted.GetID())
	} else {
		c.size++
	}
	c.buf[c.head] = entry
	return evicted, ok
}

// Remove は ID が一致する要素を削除します。存在しなければ何もしません。
func (c *Cache[T]) Remove(id string) bool {
	pos := -1
	for i := 0; i < c.size; i++ {
		if c.buf[c.index(i)].GetID() == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return false
	}

	// 後ろの要素を1つずつ詰める
	for i := pos; i < c.size-1; i++ {
		c.buf[c.index(i)] = c.buf[c.index(i+1)]
	}
	var zero T
	c.buf[c.index(c.size-1)] = zero
	c.size--
	return true
}

// Get は ID が一致する要素を返します。
func (c *Cache[T]) Get(id string) (T, bool) {
	for i := 0; i < c.size; i++ {
		if e := c.buf[c.index(i)]; e.GetID() == id {
			return e, true
		}
	}
	var zero T
	return zero, false
}

// List は新しい順のスナップショットを返します。返したスライスは後の変更の影響を受けません。
func (c *Cache[T]) List() []T {
	out := make([]T, c.size)
	for i := range out {
		out[i] = c.buf[c.index(i)]
	}
	return out
}
