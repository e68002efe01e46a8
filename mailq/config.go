// SPDX-License-Identifier: GPL-3.0-or-later

package mailq

import (
	"github.com/xae7Jeze/kram/mailq/report"
	"github.com/xae7Jeze/kram/pkg/pipeexec"
)

// Config is the trusted, compiled-in configuration of a run.
// Nothing in it comes from the invoking user or the inherited environment.
type Config struct {
	// Account is the unprivileged account the process switches to before running anything.
	Account string
	// SearchPath is the PATH used to resolve Command and the only variable children see.
	SearchPath string
	// Command is the Postfix multi-instance manager.
	Command string
	// MaxInstances bounds the number of instances read from the instance list.
	MaxInstances int
	// NameWidth bounds instance names to NameWidth-1 bytes.
	NameWidth int
	// Placeholder is the instance name postmulti prints for the default instance.
	Placeholder string
}

func DefaultConfig() Config {
	return Config{
		Account:      "postfix",
		SearchPath:   pipeexec.DefaultSearchPath,
		Command:      "postmulti",
		MaxInstances: 100,
		NameWidth:    4096,
		Placeholder:  report.DefaultPlaceholder,
	}
}

// listArgs lists all configured instances, one per line.
func (c Config) listArgs() []string {
	return []string{c.Command, "-l"}
}

// queueArgs prints the mail queue of a single instance.
func (c Config) queueArgs(name string) []string {
	return []string{c.Command, "-i", name, "-x", "postqueue", "-p"}
}
