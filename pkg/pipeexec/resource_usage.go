// SPDX-License-Identifier: GPL-3.0-or-later

//go:build unix

package pipeexec

import (
	"os"
	"runtime"
	"syscall"
	"time"
)

// ResourceUsage captures OS-reported resource counters for a reaped child.
type ResourceUsage struct {
	User        time.Duration
	System      time.Duration
	MaxRSSBytes int64
	ReadBytes   int64
	WriteBytes  int64
}

// CPU is the user plus system time.
func (u ResourceUsage) CPU() time.Duration {
	return u.User + u.System
}

func extractUsage(ps *os.ProcessState) ResourceUsage {
	if ps == nil {
		return ResourceUsage{}
	}
	ru, ok := ps.SysUsage().(*syscall.Rusage)
	if !ok || ru == nil {
		return ResourceUsage{}
	}
	return ResourceUsage{
		User:        time.Duration(ru.Utime.Nano()),
		System:      time.Duration(ru.Stime.Nano()),
		MaxRSSBytes: convertMaxRSS(int64(ru.Maxrss)),
		ReadBytes:   blocksToBytes(int64(ru.Inblock)),
		WriteBytes:  blocksToBytes(int64(ru.Oublock)),
	}
}

// convertMaxRSS normalizes MaxRSS to bytes: Darwin reports bytes, the rest KiB.
func convertMaxRSS(raw int64) int64 {
	if runtime.GOOS == "darwin" || runtime.GOOS == "ios" {
		return raw
	}
	return raw * 1024
}

const blockSize = 512

func blocksToBytes(blocks int64) int64 {
	if blocks <= 0 {
		return 0
	}
	return blocks * blockSize
}
