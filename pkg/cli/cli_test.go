// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xae7Jeze/kram/logger"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		args     []string
		want     *Option
		wantErr  bool
		wantHelp bool
	}{
		"no arguments": {
			args: []string{"pfmailq"},
			want: &Option{},
		},
		"debug": {
			args: []string{"pfmailq", "-d"},
			want: &Option{Debug: true},
		},
		"log level": {
			args: []string{"pfmailq", "--log-level", "warning"},
			want: &Option{LogLevel: "warning"},
		},
		"log level inline": {
			args: []string{"pfmailq", "--log-level=notice"},
			want: &Option{LogLevel: "notice"},
		},
		"log level not a choice": {
			args:    []string{"pfmailq", "--log-level", "verbose"},
			wantErr: true,
		},
		"version long": {
			args: []string{"pfmailq", "--version"},
			want: &Option{Version: true},
		},
		"positional argument": {
			args:    []string{"pfmailq", "postfix-out"},
			wantErr: true,
		},
		"unknown option": {
			args:    []string{"pfmailq", "--instance", "postfix-out"},
			wantErr: true,
		},
		"help": {
			args:     []string{"pfmailq", "--help"},
			wantErr:  true,
			wantHelp: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			opt, err := Parse(test.args)

			if test.wantErr {
				require.Error(t, err)
				assert.Equal(t, test.wantHelp, IsHelp(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.want, opt)
		})
	}
}

func TestParse_LogLevelChoices(t *testing.T) {
	for _, name := range logger.LevelNames {
		t.Run(name, func(t *testing.T) {
			opt, err := Parse([]string{"pfmailq", "--log-level", name})
			require.NoError(t, err)
			assert.Equal(t, name, opt.Level())
		})
	}
}

func TestOption_Level(t *testing.T) {
	tests := map[string]struct {
		opt  Option
		want string
	}{
		"default":               {opt: Option{}, want: ""},
		"log level":             {opt: Option{LogLevel: "error"}, want: "error"},
		"debug":                 {opt: Option{Debug: true}, want: "debug"},
		"debug wins over level": {opt: Option{Debug: true, LogLevel: "error"}, want: "debug"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, test.opt.Level())
		})
	}
}
