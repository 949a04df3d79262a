// 指示: miu200521358
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LogLevel はログ出力レベルを表す。
type LogLevel int

const (
	LOG_LEVEL_DEBUG LogLevel = iota
	LOG_LEVEL_INFO
	LOG_LEVEL_WARN
	LOG_LEVEL_ERROR
)

// VerboseIndex は詳細ログの出力区分を表す。
type VerboseIndex int

const (
	// VERBOSE_INDEX_RIG はリグ生成の詳細ログ。
	VERBOSE_INDEX_RIG VerboseIndex = iota
	// VERBOSE_INDEX_SCENE はシーン操作の詳細ログ。
	VERBOSE_INDEX_SCENE
)

// ILogger はログ出力の契約を表す。
type ILogger interface {
	Debug(format string, params ...any)
	Info(format string, params ...any)
	Warn(format string, params ...any)
	Error(format string, params ...any)
	Verbose(index VerboseIndex, format string, params ...any)
	IsVerboseEnabled(index VerboseIndex) bool
	Level() LogLevel
}

// Logger はslogを出力先とするロガー。出力したメッセージはバッファにも保持する。
type Logger struct {
	mu      sync.Mutex
	logger  *slog.Logger
	level   *slog.LevelVar
	verbose map[VerboseIndex]bool
	buffer  *MessageBuffer
}

// NewLogger はロガーを生成する。writerがnilの場合は標準エラーへ出力する。
func NewLogger(writer io.Writer) *Logger {
	if writer == nil {
		writer = os.Stderr
	}
	level := &slog.LevelVar{}
	level.Set(slog.LevelInfo)
	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level})
	return &Logger{
		logger:  slog.New(handler),
		level:   level,
		verbose: map[VerboseIndex]bool{},
		buffer:  NewMessageBuffer(),
	}
}

// SetLevel はログ出力レベルを設定する。
func (l *Logger) SetLevel(level LogLevel) {
	l.level.Set(toSlogLevel(level))
}

// Level はログ出力レベルを返す。
func (l *Logger) Level() LogLevel {
	return fromSlogLevel(l.level.Level())
}

// EnableVerbose は詳細ログ区分の有効/無効を切り替える。
func (l *Logger) EnableVerbose(index VerboseIndex, enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose[index] = enabled
}

// IsVerboseEnabled は詳細ログ区分が有効か判定する。
func (l *Logger) IsVerboseEnabled(index VerboseIndex) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verbose[index]
}

// MessageBuffer は出力済みメッセージのバッファを返す。
func (l *Logger) MessageBuffer() *MessageBuffer {
	return l.buffer
}

// Debug はデバッグログを出力する。
func (l *Logger) Debug(format string, params ...any) {
	l.log(slog.LevelDebug, format, params...)
}

// Info は情報ログを出力する。
func (l *Logger) Info(format string, params ...any) {
	l.log(slog.LevelInfo, format, params...)
}

// Warn は警告ログを出力する。
func (l *Logger) Warn(format string, params ...any) {
	l.log(slog.LevelWarn, format, params...)
}

// Error はエラーログを出力する。
func (l *Logger) Error(format string, params ...any) {
	l.log(slog.LevelError, format, params...)
}

// Verbose は有効な区分のみ詳細ログをバッファへ残す。出力先へはINFO扱いで書き出す。
func (l *Logger) Verbose(index VerboseIndex, format string, params ...any) {
	if !l.IsVerboseEnabled(index) {
		return
	}
	message := fmt.Sprintf(format, params...)
	l.buffer.append(message)
	l.logger.LogAttrs(context.Background(), slog.LevelInfo, message, slog.Int("verbose", int(index)))
}

// log はレベル判定の上でメッセージを出力する。
func (l *Logger) log(level slog.Level, format string, params ...any) {
	ctx := context.Background()
	if !l.logger.Enabled(ctx, level) {
		return
	}
	message := fmt.Sprintf(format, params...)
	l.buffer.append(message)
	l.logger.Log(ctx, level, message)
}

// ParseLogLevel は文字列をログレベルへ変換する。未知の値はINFO。
func ParseLogLevel(level string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return LOG_LEVEL_DEBUG
	case "WARN", "WARNING":
		return LOG_LEVEL_WARN
	case "ERROR":
		return LOG_LEVEL_ERROR
	default:
		return LOG_LEVEL_INFO
	}
}

func toSlogLevel(level LogLevel) slog.Level {
	switch level {
	case LOG_LEVEL_DEBUG:
		return slog.LevelDebug
	case LOG_LEVEL_WARN:
		return slog.LevelWarn
	case LOG_LEVEL_ERROR:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func fromSlogLevel(level slog.Level) LogLevel {
	switch {
	case level <= slog.LevelDebug:
		return LOG_LEVEL_DEBUG
	case level <= slog.LevelInfo:
		return LOG_LEVEL_INFO
	case level <= slog.LevelWarn:
		return LOG_LEVEL_WARN
	default:
		return LOG_LEVEL_ERROR
	}
}
