// 指示: miu200521358
package logging

import "sync"

// MessageBuffer は出力済みログメッセージを保持する。
type MessageBuffer struct {
	mu    sync.Mutex
	lines []string
}

// NewMessageBuffer は空のバッファを生成する。
func NewMessageBuffer() *MessageBuffer {
	return &MessageBuffer{lines: make([]string, 0)}
}

// Lines は保持しているメッセージの複製を返す。
func (b *MessageBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	lines := make([]string, len(b.lines))
	copy(lines, b.lines)
	return lines
}

// Clear は保持しているメッセージを破棄する。
func (b *MessageBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = b.lines[:0]
}

func (b *MessageBuffer) append(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, line)
}
