// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_SetByName(t *testing.T) {
	tests := map[string]struct {
		name    string
		want    slog.Level
		wantSet bool
	}{
		"error":   {name: "error", want: slog.LevelError, wantSet: true},
		"warning": {name: "warning", want: slog.LevelWarn, wantSet: true},
		"notice":  {name: "notice", want: levelNotice, wantSet: true},
		"info":    {name: "info", want: slog.LevelInfo, wantSet: true},
		"debug":   {name: "Debug", want: slog.LevelDebug, wantSet: true},
		"unknown": {name: "verbose", want: slog.LevelInfo, wantSet: false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			lvl := &level{lvl: &slog.LevelVar{}}

			assert.Equal(t, test.wantSet, lvl.SetByName(test.name))
			assert.Equal(t, test.want, lvl.lvl.Level())
			assert.True(t, lvl.Enabled(test.want))
		})
	}
}

func TestLevelNames(t *testing.T) {
	for _, name := range LevelNames {
		_, ok := levelsByName[name]
		assert.Truef(t, ok, "level %q", name)
	}
	assert.Len(t, levelsByName, len(LevelNames))
}

func TestTextHandler_OneLine(t *testing.T) {
	defer Level.Set(Level.lvl.Level())
	Level.Set(slog.LevelDebug)

	tests := map[string]struct {
		level   slog.Level
		msg     string
		wantMsg string
		wantLvl string
	}{
		"plain message": {
			level:   slog.LevelError,
			msg:     "spawn failed",
			wantMsg: `msg="spawn failed"`,
			wantLvl: "level=error",
		},
		"multi-line message": {
			level:   slog.LevelWarn,
			msg:     "postmulti: fatal:\n  instance not found\r\n",
			wantMsg: `msg="postmulti: fatal: instance not found"`,
			wantLvl: "level=warning",
		},
		"notice level": {
			level:   levelNotice,
			msg:     "x",
			wantMsg: "msg=x",
			wantLvl: "level=notice",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			sl := slog.New(newTextHandler(&buf))

			sl.Log(t.Context(), test.level, test.msg)

			out := buf.String()
			require.True(t, strings.HasSuffix(out, "\n"))
			assert.Equal(t, 1, strings.Count(out, "\n"))
			assert.Contains(t, out, test.wantMsg)
			assert.Contains(t, out, test.wantLvl)
		})
	}
}

func TestLogger_NilSafe(t *testing.T) {
	var l *Logger

	assert.NotPanics(t, func() {
		l.Debugf("debug %d", 1)
		l.Warningf("warning %d", 1)
		_ = l.With("key", "value")
	})
}
