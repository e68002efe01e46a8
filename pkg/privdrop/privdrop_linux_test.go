// SPDX-License-Identifier: GPL-3.0-or-later

//go:build linux

package privdrop

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const envReduceInChild = "PFMAILQ_PRIVDROP_CHILD"

// Reduce is irreversible, so it runs in a re-executed test binary.
func TestReducer_Reduce_AllThreads(t *testing.T) {
	if os.Geteuid() != 0 {
		t.Skip("requires root")
	}
	if _, err := Lookup("nobody"); err != nil {
		t.Skipf("no 'nobody' account: %v", err)
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestReducer_Reduce_InChild$", "-test.v")
	cmd.Env = append(os.Environ(), envReduceInChild+"=1")

	out, err := cmd.CombinedOutput()

	require.NoError(t, err, string(out))
	assert.Contains(t, string(out), "--- PASS: TestReducer_Reduce_InChild")
}

func TestReducer_Reduce_InChild(t *testing.T) {
	if os.Getenv(envReduceInChild) != "1" {
		t.Skip("runs only inside TestReducer_Reduce_AllThreads")
	}

	// pin goroutines to extra OS threads that never call Reduce themselves
	var started, release sync.WaitGroup
	release.Add(1)
	for range 4 {
		started.Add(1)
		go func() {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			started.Done()
			release.Wait()
		}()
	}
	started.Wait()
	defer release.Done()

	id, err := Lookup("nobody")
	require.NoError(t, err)
	require.NoError(t, New().Reduce("nobody"))

	tasks, err := filepath.Glob("/proc/self/task/*/status")
	require.NoError(t, err)
	require.Greater(t, len(tasks), 1)

	for _, path := range tasks {
		uids, groups := readTaskCreds(t, path)
		if uids == nil {
			continue
		}

		for _, uid := range uids {
			assert.Equal(t, id.UID, uid, "%s: uid", path)
		}
		assert.True(t, sameGroups(groups, id.Groups), "%s: groups %v, want %v", path, groups, id.Groups)
	}
}

func readTaskCreds(t *testing.T, path string) (uids, groups []int) {
	t.Helper()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// thread exited
		return nil, nil
	}
	require.NoError(t, err)

	atoi := func(fields []string) []int {
		var ids []int
		for _, f := range fields {
			v, err := strconv.Atoi(f)
			require.NoError(t, err, "%s: %q", path, f)
			ids = append(ids, v)
		}
		return ids
	}

	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch key {
		case "Uid":
			uids = atoi(strings.Fields(value))
		case "Groups":
			groups = atoi(strings.Fields(value))
		}
	}
	return uids, groups
}
