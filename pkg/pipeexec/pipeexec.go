// SPDX-License-Identifier: GPL-3.0-or-later

//go:build unix

// Package pipeexec starts commands whose standard output is connected to a pipe read by the caller.
package pipeexec

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/xae7Jeze/kram/logger"
)

// DefaultSearchPath is the only search path children ever see.
const DefaultSearchPath = "/bin:/sbin:/usr/bin:/usr/sbin:/usr/local/bin:/usr/local/sbin"

var (
	ErrPipe  = errors.New("pipe")
	ErrSpawn = errors.New("spawn")
	ErrRead  = errors.New("read")
)

// Env is the complete environment handed to a child. It is built once and passed to every Spawn.
type Env struct {
	searchPath string
}

func NewEnv(searchPath string) Env {
	return Env{searchPath: searchPath}
}

// Environ returns the child environment: PATH and nothing else.
func (e Env) Environ() []string {
	return []string{"PATH=" + e.searchPath}
}

// LookPath resolves file against the search path of e, ignoring the environment of the current process.
// Empty and relative search path entries are skipped.
func (e Env) LookPath(file string) (string, error) {
	if file == "" {
		return "", errors.New("empty program name")
	}
	if strings.Contains(file, "/") {
		if err := checkExecutable(file); err != nil {
			return "", err
		}
		return file, nil
	}

	for _, dir := range filepath.SplitList(e.searchPath) {
		if dir == "" || !filepath.IsAbs(dir) {
			continue
		}
		path := filepath.Join(dir, file)
		if checkExecutable(path) == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("'%s' not found in '%s'", file, e.searchPath)
}

func checkExecutable(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("'%s' is not a regular file", path)
	}
	return unix.Access(path, unix.X_OK)
}

// Pipe is a descriptor pair for one child's standard output.
// Until a successful Spawn the caller owns both ends and must Close them.
type Pipe struct {
	r *os.File
	w *os.File
}

func OpenPipe() (*Pipe, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPipe, err)
	}
	return &Pipe{r: r, w: w}, nil
}

// Close closes the ends still owned by the caller. It is a no-op after a successful Spawn.
func (p *Pipe) Close() error {
	var errs []error
	if p.r != nil {
		errs = append(errs, p.r.Close())
		p.r = nil
	}
	if p.w != nil {
		errs = append(errs, p.w.Close())
		p.w = nil
	}
	return errors.Join(errs...)
}

// Spawner starts children. It never waits for them.
type Spawner struct {
	*logger.Logger

	// Stderr receives the children's standard error.
	Stderr *os.File
}

func NewSpawner() *Spawner {
	return &Spawner{
		Logger: logger.New().With("component", "pipeexec"),
		Stderr: os.Stderr,
	}
}

// Spawn starts argv with env as its entire environment and the write end of p as its standard output.
// On success the parent's write end is closed and the returned Child owns the read end;
// the caller must call Child.Wait. On failure p is left untouched for the caller to close.
func (s *Spawner) Spawn(env Env, p *Pipe, argv ...string) (*Child, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrSpawn)
	}
	if p == nil || p.r == nil || p.w == nil {
		return nil, fmt.Errorf("%w: '%s': pipe is not open", ErrSpawn, argv[0])
	}

	path, err := env.LookPath(argv[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSpawn, strings.Join(argv, " "), err)
	}

	// argv comes from trusted sources; no shell, args passed separately
	cmd := &exec.Cmd{
		Path:   path,
		Args:   slices.Clone(argv),
		Env:    env.Environ(),
		Stdout: p.w,
		Stderr: s.Stderr,
	}

	s.Debugf("executing: %v", cmd)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v: %v", ErrSpawn, cmd, err)
	}

	_ = p.w.Close()
	stdout := p.r
	p.r, p.w = nil, nil

	return &Child{
		Logger: s.Logger,
		cmd:    cmd,
		stdout: stdout,
	}, nil
}

// Child is a started command. It reads as the command's standard output.
type Child struct {
	*logger.Logger

	cmd    *exec.Cmd
	stdout *os.File

	once  sync.Once
	err   error
	usage ResourceUsage
}

func (c *Child) Pid() int { return c.cmd.Process.Pid }

func (c *Child) String() string { return c.cmd.String() }

// Read returns io.EOF at clean end of data; any other failure is wrapped with ErrRead.
func (c *Child) Read(b []byte) (int, error) {
	n, err := c.stdout.Read(b)
	if err != nil && err != io.EOF {
		err = fmt.Errorf("%w: %v: %v", ErrRead, c.cmd, err)
	}
	return n, err
}

// Wait closes the read end and reaps the child. Only the first call waits;
// later calls return the first result. A non-zero exit status is returned as a wrapped *exec.ExitError.
func (c *Child) Wait() error {
	c.once.Do(func() {
		_ = c.stdout.Close()

		err := c.cmd.Wait()
		c.usage = extractUsage(c.cmd.ProcessState)

		c.Debugf("reaped: %v (pid %d, %s)", c.cmd, c.cmd.Process.Pid, c.cmd.ProcessState)

		if err != nil {
			c.err = fmt.Errorf("%v: %w", c.cmd, err)
		}
	})
	return c.err
}

// Usage reports the resources used by the child. It is zero until Wait returns.
func (c *Child) Usage() ResourceUsage { return c.usage }
