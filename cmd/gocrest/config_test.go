package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "gocrest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadConfigFile(t *testing.T) {
	c, err := readConfigFile(writeConfig(t, "logLevel: debug\noutput: next_input\n"))
	require.NoError(t, err)
	assert.Equal(t, &Config{LogLevel: "debug", Backend: "z3", Output: "next_input"}, c)
}

func TestReadConfigFileErrors(t *testing.T) {
	_, err := readConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = readConfigFile(writeConfig(t, "logLevel: [\n"))
	assert.Error(t, err)

	_, err = readConfigFile(writeConfig(t, "logLevel: loud\n"))
	assert.Error(t, err)

	_, err = readConfigFile(writeConfig(t, "output: \"\"\n"))
	assert.Error(t, err)
}

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, defaultConfig().validate())
}
