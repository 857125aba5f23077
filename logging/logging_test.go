package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warn", WarnLevel},
		{"-1", DebugLevel},
		{"2", ErrorLevel},
		{"5", FatalLevel},
	}
	for _, c := range cases {
		got, err := ParseLevel(c.in)
		require.NoError(t, err, c.in)
		require.Equal(t, c.want, got, c.in)
	}

	_, err := ParseLevel("7")
	require.Error(t, err)
	_, err = ParseLevel("verbose")
	require.Error(t, err)
}

func TestCreateLoggerAsLocalFile(t *testing.T) {
	_, _, err := CreateLoggerAsLocalFile("", InfoLevel)
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "spinbench.log")
	logger, flush, err := CreateLoggerAsLocalFile(path, WarnLevel)
	require.NoError(t, err)

	logger.Infof("filtered %d", 1)
	logger.Warnf("kept %d", 2)
	require.NoError(t, flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "kept 2")
	require.NotContains(t, string(data), "filtered 1")
}

func TestSetDefaultLogger(t *testing.T) {
	prev := GetDefaultLogger()
	require.NotNil(t, prev)

	path := filepath.Join(t.TempDir(), "default.log")
	logger, flush, err := CreateLoggerAsLocalFile(path, DebugLevel)
	require.NoError(t, err)
	SetDefaultLoggerAndFlusher(logger, flush)
	t.Cleanup(func() { SetDefaultLoggerAndFlusher(prev, nil) })

	Debugf("debug %s", "line")
	Error(os.ErrClosed)
	Error(nil)
	Cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "debug line")
	require.Contains(t, string(data), os.ErrClosed.Error())
}
