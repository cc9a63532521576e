package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"volcanotrends/internal/infrastructure"
)

// captureOutput captures stdout during fn execution and returns it as a string.
// The pipe is drained concurrently so large JSON output cannot block fn.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	w.Close()
	os.Stdout = old
	return <-done
}

// quietConfig writes a config file that keeps command logging to errors only.
func quietConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: error\n"), 0644))
	return path
}

// run executes args with the quiet config and returns stdout. The process
// logger is reset afterwards so the next run installs its own.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)
	full := append([]string{"--config", quietConfig(t)}, args...)

	var err error
	out := captureOutput(t, func() {
		err = RunWithArgs("test", nil, full)
	})
	return out, err
}
