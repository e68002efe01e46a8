// SPDX-License-Identifier: GPL-3.0-or-later

// Package mailq prints the mail queue of every Postfix instance on the host.
//
// A run drops privileges, replaces the environment with a trusted one, lists the
// instances with postmulti and then prints each instance's queue, last instance first.
// The first failure ends the run. Every child that was started is reaped before Run returns.
package mailq

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/xae7Jeze/kram/logger"
	"github.com/xae7Jeze/kram/mailq/report"
	"github.com/xae7Jeze/kram/pkg/linelist"
	"github.com/xae7Jeze/kram/pkg/pipeexec"
	"github.com/xae7Jeze/kram/pkg/privdrop"
)

type (
	privilegeReducer interface {
		Reduce(account string) error
	}
	spawner interface {
		Spawn(env pipeexec.Env, p *pipeexec.Pipe, argv ...string) (*pipeexec.Child, error)
	}
)

type Runner struct {
	*logger.Logger
	Config

	Out io.Writer

	priv      privilegeReducer
	spawner   spawner
	openPipe  func() (*pipeexec.Pipe, error)
	clearEnv  func()
	formatter *report.Formatter

	state    State
	children []*pipeexec.Child
}

func New(cfg Config) *Runner {
	log := logger.New().With("component", "mailq")

	pd := privdrop.New()
	pd.Logger = log
	sp := pipeexec.NewSpawner()
	sp.Logger = log

	f := report.New()
	f.Placeholder = cfg.Placeholder

	return &Runner{
		Logger:    log,
		Config:    cfg,
		Out:       os.Stdout,
		priv:      pd,
		spawner:   sp,
		openPipe:  pipeexec.OpenPipe,
		clearEnv:  os.Clearenv,
		formatter: f,
	}
}

func (r *Runner) State() State { return r.state }

// Run performs one complete run. It returns the first error; nothing is retried.
func (r *Runner) Run() (err error) {
	defer func() {
		r.reapAll()
		if err != nil {
			r.setState(StateFailed)
		}
	}()

	if err := r.priv.Reduce(r.Account); err != nil {
		return fmt.Errorf("drop privileges: %w", err)
	}
	r.setState(StatePrivilegeDropped)

	env := r.sanitizeEnv()
	r.setState(StateEnvironmentSanitized)

	names, err := r.enumerate(env)
	if err != nil {
		return err
	}

	r.setState(StateQuerying)
	for i := names.Len() - 1; i >= 0; i-- {
		r.Debugf("querying instance '%s' (%d of %d)", names.At(i), names.Len()-i, names.Len())
		if err := r.query(env, names.At(i)); err != nil {
			return err
		}
	}

	r.reapAll()
	r.setState(StateDone)

	return nil
}

// sanitizeEnv drops the inherited environment. From here on children only ever see the returned Env.
func (r *Runner) sanitizeEnv() pipeexec.Env {
	r.clearEnv()
	return pipeexec.NewEnv(r.SearchPath)
}

func (r *Runner) enumerate(env pipeexec.Env) (*linelist.List, error) {
	r.setState(StateEnumerating)

	child, err := r.start(env, r.listArgs()...)
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}

	names, err := linelist.Parse(child, r.MaxInstances, r.NameWidth)
	if err == nil {
		// let the enumerator finish instead of killing it with SIGPIPE
		var n int64
		if n, err = io.Copy(io.Discard, child); err == nil && n > 0 {
			r.Debugf("instance list: discarded %d bytes after %d entries", n, names.Len())
		}
	}
	r.reap(child)
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}

	r.setState(StateEnumerated)
	r.Debugf("found %d instance(s): %v", names.Len(), names.Names())

	return names, nil
}

func (r *Runner) query(env pipeexec.Env, name string) error {
	child, err := r.start(env, r.queueArgs(name)...)
	if err != nil {
		return fmt.Errorf("query instance '%s': %w", name, err)
	}

	err = r.formatter.Write(r.Out, name, child)
	r.reap(child)
	if err != nil {
		return fmt.Errorf("query instance '%s': %w", name, err)
	}

	return nil
}

func (r *Runner) start(env pipeexec.Env, argv ...string) (*pipeexec.Child, error) {
	p, err := r.openPipe()
	if err != nil {
		return nil, err
	}

	child, err := r.spawner.Spawn(env, p, argv...)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	r.children = append(r.children, child)

	return child, nil
}

// reap waits for a child started by this run. A non-zero exit status is reported but does not fail the run.
func (r *Runner) reap(child *pipeexec.Child) {
	r.children = slices.DeleteFunc(r.children, func(c *pipeexec.Child) bool { return c == child })
	if err := child.Wait(); err != nil {
		r.Warningf("%v", err)
	}
	u := child.Usage()
	r.Debugf("'%v' used cpu %s, max rss %d bytes, read %d bytes, wrote %d bytes",
		child, u.CPU(), u.MaxRSSBytes, u.ReadBytes, u.WriteBytes)
}

// reapAll waits for every child that is still outstanding.
func (r *Runner) reapAll() {
	for len(r.children) > 0 {
		child := r.children[0]
		r.children = r.children[1:]
		if err := child.Wait(); err != nil {
			r.Debugf("reaped after failure: %v", err)
		}
	}
}

func (r *Runner) setState(s State) {
	r.Debugf("state: %s -> %s", r.state, s)
	r.state = s
}
