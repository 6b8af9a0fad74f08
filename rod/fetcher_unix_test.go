//go:build integration && !windows

package rod_test

import (
	"syscall"
	"testing"
	"time"

	"github.com/fwojciec/xhsnote/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// alive reports whether a process with pid exists. Signal 0 only checks.
func alive(pid int) bool {
	return syscall.Kill(pid, syscall.Signal(0)) == nil
}

func TestFetcher_Close_StopsChrome(t *testing.T) {
	t.Parallel()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)

	pid := fetcher.LauncherPID()
	require.NotZero(t, pid)
	require.True(t, alive(pid))

	require.NoError(t, fetcher.Close())
	time.Sleep(100 * time.Millisecond)

	assert.False(t, alive(pid), "chrome should exit after Close")
}

func TestBrowserManager_Recycle_StopsOldChrome(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithMaxPages(1))
	require.NoError(t, err)
	defer manager.Close()

	oldPID := manager.LauncherPID()
	manager.PageRendered()
	require.NotNil(t, manager.Browser())
	time.Sleep(100 * time.Millisecond)

	assert.False(t, alive(oldPID), "replaced chrome should exit")
	assert.True(t, alive(manager.LauncherPID()))
}
