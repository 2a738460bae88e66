package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/sqluploader/internal/core"
)

// failingConnect counts attempts and always fails.
type failingConnect struct {
	calls int
	err   error
}

func (f *failingConnect) connect(context.Context, core.ConnectionConfig) (core.Conn, error) {
	f.calls++
	return nil, f.err
}

func run(t *testing.T, connect core.ConnectFunc, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(connect)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCheck_Failure(t *testing.T) {
	fc := &failingConnect{err: errors.New("dial tcp 10.0.0.1:5432: connect: connection refused")}

	out, err := run(t, fc.connect, "check", "--host", "10.0.0.1", "-U", "loader", "-d", "analytics")
	require.ErrorIs(t, err, errCheckFailed)
	assert.Equal(t, 1, fc.calls)
	assert.Contains(t, out, "Connection failed: dial tcp 10.0.0.1:5432")
	assert.Contains(t, out, "DB002")
}

func TestCheck_RejectsArgs(t *testing.T) {
	fc := &failingConnect{}
	_, err := run(t, fc.connect, "check", "extra")
	require.Error(t, err)
	assert.Zero(t, fc.calls)
}

func TestLoad_NoDatabaseNeeded(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "notes.txt", "hello")
	empty := writeFile(t, dir, "empty.csv", "")
	headerOnly := writeFile(t, dir, "header.csv", "name,age\n")

	fc := &failingConnect{err: errors.New("should not connect")}
	out, err := run(t, fc.connect, "load", txt, empty, headerOnly)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 of 3 files failed")
	assert.Zero(t, fc.calls, "invalid or empty files must not open a connection")

	assert.Contains(t, out, "❌ notes.txt: Invalid file type\n")
	assert.Contains(t, out, "❌ empty.csv: File is empty\n")
	assert.Contains(t, out, "❌ header.csv: File is empty\n")
}

func TestLoad_ConnectionErrorPerFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "id\n1\n")
	b := writeFile(t, dir, "b.csv", "id\n2\n")

	fc := &failingConnect{err: errors.New("connection refused")}
	out, err := run(t, fc.connect, "load", a, b)

	require.Error(t, err)
	assert.Equal(t, 2, fc.calls, "each file gets its own connection attempt")
	assert.Contains(t, out, "❌ a.csv:")
	assert.Contains(t, out, "❌ b.csv:")
}

func TestLoad_TableNeedsSingleFile(t *testing.T) {
	fc := &failingConnect{}
	_, err := run(t, fc.connect, "load", "a.csv", "b.csv", "--table", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--table needs exactly one file")
}

func TestLoad_RequiresFiles(t *testing.T) {
	fc := &failingConnect{}
	_, err := run(t, fc.connect, "load")
	require.Error(t, err)
}
