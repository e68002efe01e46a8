// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/xae7Jeze/kram/pkg/executable"
)

var (
	isTerm    = isatty.IsTerminal(os.Stderr.Fd())
	isJournal = stderrIsJournal()

	progAttr = slog.String("prog", executable.Name)
)

// Logger writes leveled, printf-style messages to stderr, one line per message.
type Logger struct {
	sl *slog.Logger
}

func New() *Logger {
	return newLogger(4) // skip 2 slog pkg calls, 2 this pkg calls
}

func newLogger(callDepth int) *Logger {
	if isTerm {
		return &Logger{sl: slog.New(withCallDepth(callDepth, newTerminalHandler(os.Stderr)))}
	}
	return &Logger{sl: slog.New(newTextHandler(os.Stderr)).With(progAttr)}
}

func (l *Logger) Errorf(format string, a ...any)   { l.log(slog.LevelError, fmt.Sprintf(format, a...)) }
func (l *Logger) Warningf(format string, a ...any) { l.log(slog.LevelWarn, fmt.Sprintf(format, a...)) }
func (l *Logger) Debugf(format string, a ...any)   { l.log(slog.LevelDebug, fmt.Sprintf(format, a...)) }

// With returns a child logger carrying the given attributes.
func (l *Logger) With(args ...any) *Logger {
	if l.isNil() {
		return &Logger{sl: New().sl.With(args...)}
	}
	return &Logger{sl: l.sl.With(args...)}
}

func (l *Logger) log(level slog.Level, msg string) {
	if l.isNil() {
		nilLogger.sl.Log(context.Background(), level, msg)
		return
	}
	l.sl.Log(context.Background(), level, msg)
}

func (l *Logger) isNil() bool { return l == nil || l.sl == nil }

var nilLogger = New()
