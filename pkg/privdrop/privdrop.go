// SPDX-License-Identifier: GPL-3.0-or-later

//go:build unix

// Package privdrop permanently lowers the process identity to an unprivileged account.
package privdrop

import (
	"errors"
	"fmt"
	"os/user"
	"slices"
	"strconv"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/xae7Jeze/kram/logger"
)

var (
	// ErrIdentity means the target account is unknown or is the superuser.
	ErrIdentity = errors.New("identity")
	// ErrPrivilege means one of the identity-changing syscalls failed.
	ErrPrivilege = errors.New("privilege")
)

// Identity is a resolved system account.
type Identity struct {
	Name   string
	UID    int
	GID    int
	Groups []int
}

// Lookup resolves an account through the system user and group databases.
func Lookup(account string) (Identity, error) {
	u, err := user.Lookup(account)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: lookup '%s': %v", ErrIdentity, account, err)
	}

	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: '%s': invalid uid '%s'", ErrIdentity, account, u.Uid)
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: '%s': invalid gid '%s'", ErrIdentity, account, u.Gid)
	}

	ids, err := u.GroupIds()
	if err != nil {
		return Identity{}, fmt.Errorf("%w: '%s': group membership: %v", ErrIdentity, account, err)
	}

	groups := []int{gid}
	for _, v := range ids {
		g, err := strconv.Atoi(v)
		if err != nil {
			return Identity{}, fmt.Errorf("%w: '%s': invalid group id '%s'", ErrIdentity, account, v)
		}
		if !slices.Contains(groups, g) {
			groups = append(groups, g)
		}
	}

	return Identity{Name: u.Username, UID: uid, GID: gid, Groups: groups}, nil
}

type sysCalls struct {
	setgid    func(gid int) error
	setgroups func(gids []int) error
	setuid    func(uid int) error
	getids    func() (ruid, euid, rgid, egid int)
	getgroups func() ([]int, error)
}

// The setters must change the credentials of every OS thread, not only the calling one:
// os/exec may fork from any thread. The syscall package does that on Linux,
// unix.Setgroups does not.
var unixCalls = sysCalls{
	setgid:    syscall.Setgid,
	setgroups: syscall.Setgroups,
	setuid:    syscall.Setuid,
	getids: func() (int, int, int, int) {
		return unix.Getuid(), unix.Geteuid(), unix.Getgid(), unix.Getegid()
	},
	getgroups: unix.Getgroups,
}

// Reducer drops the process to an unprivileged account.
type Reducer struct {
	*logger.Logger

	lookup func(account string) (Identity, error)
	sys    sysCalls
}

func New() *Reducer {
	return &Reducer{
		Logger: logger.New().With("component", "privdrop"),
		lookup: Lookup,
		sys:    unixCalls,
	}
}

// Reduce resolves the account and switches group, supplementary groups and user, in that order.
// There is no way back: once it returns nil the process can no longer regain its former identity.
// A non-nil error leaves the process at an unknown identity and the caller must exit.
func (r *Reducer) Reduce(account string) error {
	id, err := r.lookup(account)
	if err != nil {
		return err
	}
	if id.UID == 0 {
		return fmt.Errorf("%w: account '%s' resolves to uid 0", ErrIdentity, account)
	}

	r.Debugf("dropping privileges to '%s' (uid=%d, gid=%d, groups=%v)", id.Name, id.UID, id.GID, id.Groups)

	// setuid must come last, it takes away the right to change groups
	if err := r.sys.setgid(id.GID); err != nil {
		return fmt.Errorf("%w: setgid(%d): %v", ErrPrivilege, id.GID, err)
	}
	if err := r.sys.setgroups(id.Groups); err != nil {
		return fmt.Errorf("%w: setgroups(%v): %v", ErrPrivilege, id.Groups, err)
	}
	if err := r.sys.setuid(id.UID); err != nil {
		return fmt.Errorf("%w: setuid(%d): %v", ErrPrivilege, id.UID, err)
	}

	ruid, euid, rgid, egid := r.sys.getids()
	if ruid != id.UID || euid != id.UID || rgid != id.GID || egid != id.GID {
		return fmt.Errorf("%w: identity is uid=%d/%d gid=%d/%d after switching to '%s'",
			ErrPrivilege, ruid, euid, rgid, egid, account)
	}

	groups, err := r.sys.getgroups()
	if err != nil {
		return fmt.Errorf("%w: getgroups: %v", ErrPrivilege, err)
	}
	if !sameGroups(groups, id.Groups) {
		return fmt.Errorf("%w: supplementary groups are %v after switching to '%s', want %v",
			ErrPrivilege, groups, account, id.Groups)
	}

	return nil
}

// sameGroups compares group lists as sets; the kernel returns them sorted.
func sameGroups(got, want []int) bool {
	got, want = slices.Clone(got), slices.Clone(want)
	slices.Sort(got)
	slices.Sort(want)
	return slices.Equal(slices.Compact(got), slices.Compact(want))
}
