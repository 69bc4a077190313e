package session

import (
	"sync"
	"time"
)

const DefaultStatusInterval = 2500 * time.Millisecond

// DefaultStatusMessages は生成中に順番に表示するメッセージです。
var DefaultStatusMessages = []string{
	"アイデアを膨らませています...",
	"色を混ぜています...",
	"構図を整えています...",
	"細部を描き込んでいます...",
	"仕上げの光を当てています...",
}

// statusTicker は生成中だけ動く進行メッセージのタイマーです。
type statusTicker struct {
	stop     chan struct{}
	stopOnce sync.Once
}

// startStatusTicker は interval ごとに messages を順に emit します。
// 最初のメッセージはこの呼び出しの中で同期的に返します。
func startStatusTicker(interval time.Duration, messages []string, emit func(*statusTicker, string)) (*statusTicker, string) {
	t := &statusTicker{stop: make(chan struct{})}
	if len(messages) == 0 || interval <= 0 {
		return t, ""
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		i := 0
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				i = (i + 1) % len(messages)
				emit(t, messages[i])
			}
		}
	}()
	return t, messages[0]
}

// Stop はタイマーを止めます。複数回呼んでも安全で、呼び出し元をブロックしません。
func (t *statusTicker) Stop() {
	if t == nil {
		return
	}
	t.stopOnce.Do(func() { close(t.stop) })
}
