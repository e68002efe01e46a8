// SPDX-License-Identifier: GPL-3.0-or-later

package executable

import (
	"os"
	"path/filepath"
	"strings"
)

var Name string

func init() {
	path, err := os.Executable()
	if err != nil || path == "" {
		Name = "pfmailq"
		return
	}

	_, Name = filepath.Split(path)

	if strings.HasSuffix(Name, ".test") {
		Name = "test"
	}
}
