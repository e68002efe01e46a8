// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/jessevdk/go-flags"

	"github.com/xae7Jeze/kram/pkg/executable"
)

// Option defines command line options.
// None of them changes which commands run or how their output is parsed.
type Option struct {
	Debug    bool   `short:"d" long:"debug" description:"debug mode, same as --log-level=debug"`
	LogLevel string `long:"log-level" description:"minimum severity of diagnostics written to stderr" choice:"error" choice:"warning" choice:"notice" choice:"info" choice:"debug"`
	Version  bool   `short:"v" long:"version" description:"display the version and exit"`
}

// Level returns the requested log level name, or "" to keep the default.
// --debug wins over --log-level.
func (o *Option) Level() string {
	if o.Debug {
		return "debug"
	}
	return o.LogLevel
}

// Parse returns parsed command-line flags in Option struct.
// args[0] is the program name; any positional argument is rejected.
func Parse(args []string) (*Option, error) {
	opt := &Option{}
	// errors and help are reported by the caller
	parser := flags.NewParser(opt, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = executable.Name
	parser.Usage = "[OPTIONS]"

	rest, err := parser.ParseArgs(args)
	if err != nil {
		return nil, err
	}

	if len(rest) > 1 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(rest[1:], " "))
	}

	return opt, nil
}

func IsHelp(err error) bool {
	return flags.WroteHelp(err)
}
