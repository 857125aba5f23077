package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tezrry/spinbench/container/lock"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spinbench.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseOptionsDefaults(t *testing.T) {
	opts, err := parseOptions(nil, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, &options{
		lockType:     lock.TypeSpin,
		workers:      2,
		interval:     time.Second,
		lockOSThread: true,
	}, opts)
}

func TestParseOptionsFlags(t *testing.T) {
	opts, err := parseOptions([]string{
		"-lock", "new", "-workers", "8", "-interval", "250ms",
		"-iterations", "1000", "-duration", "3s", "-lock-os-thread=false",
	}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, &options{
		lockType:   lock.TypePark,
		workers:    8,
		interval:   250 * time.Millisecond,
		iterations: 1000,
		duration:   3 * time.Second,
	}, opts)
}

func TestParseOptionsConfigFile(t *testing.T) {
	path := writeConfig(t, `
lock = "backoff"
workers = 6
interval = "100ms"
iterations = 500
lock_os_thread = false
`)

	opts, err := parseOptions([]string{"-config", path, "-workers", "3"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, lock.TypeBackoff, opts.lockType)
	require.Equal(t, 3, opts.workers, "flags override the file")
	require.Equal(t, 100*time.Millisecond, opts.interval)
	require.Equal(t, uint64(500), opts.iterations)
	require.False(t, opts.lockOSThread)
}

func TestParseOptionsErrors(t *testing.T) {
	_, err := parseOptions([]string{"-lock", "ticket"}, &bytes.Buffer{})
	require.ErrorIs(t, err, lock.ErrUnknownType)

	_, err = parseOptions([]string{"-config", writeConfig(t, `lock = "rcu"`)}, &bytes.Buffer{})
	require.ErrorContains(t, err, "unknown lock type")

	_, err = parseOptions([]string{"-config", writeConfig(t, `threads = 4`)}, &bytes.Buffer{})
	require.ErrorContains(t, err, "unknown keys threads")

	_, err = parseOptions([]string{"-config", writeConfig(t, `interval = "soon"`)}, &bytes.Buffer{})
	require.ErrorContains(t, err, "interval")

	_, err = parseOptions([]string{"-duration", "-1s"}, &bytes.Buffer{})
	require.Error(t, err)

	_, err = parseOptions([]string{"extra"}, &bytes.Buffer{})
	require.Error(t, err)

	_, err = parseOptions([]string{"-h"}, &bytes.Buffer{})
	require.ErrorIs(t, err, flag.ErrHelp)
}

func TestRunBounded(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-workers", "2", "-iterations", "10000", "-lock", "park"}, &stdout, &stderr)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Equal(t, "Start", lines[0])
	require.Equal(t, "Params: workers: 2; spinlock version: park;", lines[1])
	require.True(t, strings.HasPrefix(lines[len(lines)-1], "total: 20000 over "), lines[len(lines)-1])
	require.True(t, strings.HasSuffix(lines[len(lines)-1], "; 10000 10000"), lines[len(lines)-1])
}

func TestRunDuration(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-duration", "120ms", "-interval", "20ms", "-lock", "yield"}, &stdout, &stderr)
	require.NoError(t, err)
	require.Contains(t, stdout.String(), "sum: ")
	require.Contains(t, stdout.String(), "total: ")
}

func TestRunUnknownLock(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-lock", "ticket"}, &stdout, &stderr)
	require.ErrorIs(t, err, lock.ErrUnknownType)
}
