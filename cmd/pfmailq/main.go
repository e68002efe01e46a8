// SPDX-License-Identifier: GPL-3.0-or-later

// Command pfmailq prints the mail queues of all Postfix instances on a multi-instance host.
// It is meant to run with elevated privileges and drops them to the postfix account before
// executing anything.
package main

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/xae7Jeze/kram/logger"
	"github.com/xae7Jeze/kram/mailq"
	"github.com/xae7Jeze/kram/pkg/buildinfo"
	"github.com/xae7Jeze/kram/pkg/cli"
	"github.com/xae7Jeze/kram/pkg/executable"
)

func main() {
	_, _ = maxprocs.Set(maxprocs.Logger(func(s string, args ...interface{}) {}))

	opts := parseCLI()

	if opts.Version {
		fmt.Printf("%s, %s\n", executable.Name, buildinfo.Info())
		return
	}

	if lvl := opts.Level(); lvl != "" {
		logger.Level.SetByName(lvl)
	}

	r := mailq.New(mailq.DefaultConfig())

	if err := r.Run(); err != nil {
		r.Errorf("%v", err)
		os.Exit(1)
	}
}

func parseCLI() *cli.Option {
	opt, err := cli.Parse(os.Args)
	if err != nil {
		if cli.IsHelp(err) {
			fmt.Println(err)
			os.Exit(0)
		}
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	return opt
}
