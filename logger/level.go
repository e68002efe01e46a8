// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"log/slog"
	"strings"
)

const levelNotice = slog.Level(2)

// LevelNames lists the names accepted by Level.SetByName, most severe first.
var LevelNames = []string{"error", "warning", "notice", "info", "debug"}

var levelsByName = map[string]slog.Level{
	"error":   slog.LevelError,
	"warning": slog.LevelWarn,
	"notice":  levelNotice,
	"info":    slog.LevelInfo,
	"debug":   slog.LevelDebug,
}

// Level is the minimum level shared by every logger of the process.
var Level = &level{lvl: &slog.LevelVar{}}

type level struct {
	lvl *slog.LevelVar
}

func (l *level) Enabled(level slog.Level) bool {
	return level >= l.lvl.Level()
}

func (l *level) Set(level slog.Level) {
	l.lvl.Set(level)
}

// SetByName sets the level from one of LevelNames. Unknown names leave it unchanged.
func (l *level) SetByName(name string) bool {
	v, ok := levelsByName[strings.ToLower(name)]
	if ok {
		l.lvl.Set(v)
	}
	return ok
}
