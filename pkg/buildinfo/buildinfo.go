// SPDX-License-Identifier: GPL-3.0-or-later

package buildinfo

import (
	"fmt"
	"runtime"
)

// Version is set at link time: -ldflags "-X github.com/xae7Jeze/kram/pkg/buildinfo.Version=v1.2.3".
var Version = "v0.0.0"

// Info returns the version line printed by --version.
func Info() string {
	return fmt.Sprintf("version: %s, go: %s, %s/%s", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
