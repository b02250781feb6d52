package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLayout = `
[[shape]]
id = "dot"
type = "sphere"
layer = 0
rect = { left = 100.0, top = 100.0, width = 50.0, height = 50.0 }
style = "background-color: rgb(255, 0, 0)"

[[shape]]
id = "card"
type = "round-box"
layer = 1
rect = { left = 0.0, top = 0.0, width = 200.0, height = 100.0 }
style = "--radius: 8px; --depth: 20px"
`

const testConfig = `
name = "cli"
capacity = 32

[[layer]]
operation = "union"

[[layer]]
operation = "smooth-union"
smoothing = 16.0
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunPrintsFrame(t *testing.T) {
	layoutPath := writeFile(t, "layout.toml", testLayout)
	configPath := writeFile(t, "scene.toml", testConfig)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-config", configPath, "-layout", layoutPath, "-width", "400", "-height", "300", "-format", "hex"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	out := stdout.String()
	assert.Contains(t, out, "scene cli  400x300  2 shapes  9/32 units")
	assert.Contains(t, out, "smooth-union")
	assert.Contains(t, out, "@0 dot sphere")
	assert.Contains(t, out, "@4 card round-box")
	// sphere tag word and red diffuse colour
	assert.Contains(t, out, "00000000")
	assert.Contains(t, out, "ff0000ff")
	assert.Empty(t, stderr.String())
}

func TestRunFloatFormat(t *testing.T) {
	layoutPath := writeFile(t, "layout.toml", testLayout)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-layout", layoutPath}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "scene default  1280x720  2 shapes  9/256 units")
}

func TestRunRejectsBadFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "-layout is required")

	stderr.Reset()
	assert.Equal(t, 2, run(context.Background(), []string{"-layout", "x.toml", "-format", "octal"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "unknown -format")

	stderr.Reset()
	assert.Equal(t, 2, run(context.Background(), []string{"-layout", "x.toml", "-width", "0"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "invalid viewport")
}

func TestRunReportsUnknownType(t *testing.T) {
	layoutPath := writeFile(t, "layout.toml", "[[shape]]\nid = \"x\"\ntype = \"torus\"\n")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-layout", layoutPath}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.True(t, strings.Contains(stderr.String(), "shape x"))
}
