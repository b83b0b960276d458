package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestVersionCommandOutputsBuildInfo(t *testing.T) {
	originalVersion := version
	t.Cleanup(func() { version = originalVersion })
	version = "1.2.3"

	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
}

func TestPrivsEncodeAndDecode(t *testing.T) {
	out, err := runCLI(t, "privs", "encode", "all")
	require.NoError(t, err)
	assert.Equal(t, "-1073741569\n", out)

	out, err = runCLI(t, "privs", "decode", "-1073741569")
	require.NoError(t, err)
	assert.Equal(t, "all\n", out)

	out, err = runCLI(t, "privs", "decode", "0")
	require.NoError(t, err)
	assert.Equal(t, "none\n", out)

	_, err = runCLI(t, "privs", "encode", "teleport")
	require.Error(t, err)
}

func TestPrivsDecodeReportsResidualBits(t *testing.T) {
	out, err := runCLI(t, "privs", "decode", "259")
	require.NoError(t, err)
	assert.Contains(t, out, "text,control_observe")
	assert.Contains(t, out, "0x100")
}

func TestPlistCommandRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "com.example.app.plist")

	_, err := runCLI(t, "plist", "write", path, "Window:Width", "1024", "--type", "int")
	require.NoError(t, err)
	_, err = runCLI(t, "plist", "write", path, "Window:Title", "untitled")
	require.NoError(t, err)

	out, err := runCLI(t, "plist", "read", path, "Window:Width")
	require.NoError(t, err)
	assert.Equal(t, "1024\n", out)

	out, err = runCLI(t, "plist", "read", path, "Window:Title")
	require.NoError(t, err)
	assert.Equal(t, "untitled\n", out)

	_, err = runCLI(t, "plist", "delete", path, "Window:Title")
	require.NoError(t, err)
	_, err = runCLI(t, "plist", "read", path, "Window:Title")
	require.Error(t, err)
}

func TestPlistReadMissingKeyFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "com.example.app.plist")
	_, err := runCLI(t, "plist", "read", path, "Missing")
	require.Error(t, err)
}

func TestApplyRequiresConfigFlag(t *testing.T) {
	_, err := runCLI(t, "apply")
	require.Error(t, err)
}

func TestApplyRejectsUnknownEntity(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "state.yaml")
	writeFile(t, cfgPath, `
version: "1.0"
entities:
  - id: `+filepath.Join(dir, "com.example.app.plist")+`
    domain: prefs
    options:
      - name: Greeting
        value: hello
`)

	_, err := runCLI(t, "apply", "--config", cfgPath, "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no entity")
}

func TestApplyConvergesPrefsEntity(t *testing.T) {
	dir := t.TempDir()
	plistPath := filepath.Join(dir, "com.example.app.plist")
	cfgPath := filepath.Join(dir, "state.yaml")
	writeFile(t, cfgPath, `
version: "1.0"
entities:
  - id: `+plistPath+`
    domain: prefs
    options:
      - name: Window:Width
        value: 1024
`)

	out, err := runCLI(t, "apply", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "converged-changed")
	assert.Contains(t, out, "Window:Width: unset -> 1024")
	assert.Contains(t, out, "1 changed, 0 unchanged, 0 failed")

	out, err = runCLI(t, "apply", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "converged-no-op")
	assert.Contains(t, out, "0 changed, 1 unchanged, 0 failed")

	read, err := runCLI(t, "plist", "read", plistPath, "Window:Width")
	require.NoError(t, err)
	assert.Equal(t, "1024\n", read)
}

func TestApplyDryRunDoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	plistPath := filepath.Join(dir, "com.example.app.plist")
	cfgPath := filepath.Join(dir, "state.yaml")
	writeFile(t, cfgPath, `
version: "1.0"
entities:
  - id: `+plistPath+`
    domain: prefs
    options:
      - name: Greeting
        value: hello
`)

	out, err := runCLI(t, "--dry-run", "apply", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "converged-changed")

	_, err = runCLI(t, "plist", "read", plistPath, "Greeting")
	require.Error(t, err)
}

func TestApplyExitStatusOnFailure(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "state.yaml")
	writeFile(t, cfgPath, `
version: "1.0"
entities:
  - id: relative/path.plist
    domain: prefs
    options:
      - name: Greeting
        value: hello
`)

	out, err := runCLI(t, "apply", "--config", cfgPath)
	require.Error(t, err)
	var exit *exitCodeError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 1, exit.code)
	assert.Contains(t, out, "failed")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
