package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jonlenes/simpleconf"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func fixtureLayers(t *testing.T) (string, string) {
	t.Helper()
	t.Setenv("APP_ENV", "")
	dir := t.TempDir()
	base := filepath.Join(dir, "base")
	local := filepath.Join(dir, "local")
	writeFile(t, filepath.Join(base, "service.yml"), "url: http://base\nretries: 2\n")
	writeFile(t, filepath.Join(base, "prod", "service.yml"), "retries: 3\n")
	writeFile(t, filepath.Join(local, "service.yml"), "debug: true\n")
	return base, local
}

func TestShowCommand(t *testing.T) {
	t.Run("YAMLOutput", func(t *testing.T) {
		base, local := fixtureLayers(t)
		out, _, err := runCommand(t, "show", "--layer", base, "--layer", local)
		require.NoError(t, err)
		assert.Contains(t, out, "service:")
		assert.Contains(t, out, "retries: 2")
		assert.Contains(t, out, "debug: true")
	})

	t.Run("FlatWithOverrides", func(t *testing.T) {
		base, local := fixtureLayers(t)
		out, _, err := runCommand(t, "show", "-l", base, "-l", local, "--flat", "--set", "service.retries=5")
		require.NoError(t, err)
		assert.Contains(t, out, "service.retries = 5\n")
		assert.Contains(t, out, "service.url = http://base\n")
	})

	t.Run("EnvironmentFolder", func(t *testing.T) {
		base, local := fixtureLayers(t)
		out, _, err := runCommand(t, "show", "-l", base, "-l", local, "--env", "prod", "--flat")
		require.NoError(t, err)
		assert.Contains(t, out, "service.retries = 3\n")
	})

	t.Run("JSONOutput", func(t *testing.T) {
		base, local := fixtureLayers(t)
		out, _, err := runCommand(t, "show", "-l", base, "-l", local, "--format", "json")
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		service := decoded["service"].(map[string]any)
		assert.Equal(t, "http://base", service["url"])
		assert.Equal(t, float64(2), service["retries"])
	})

	t.Run("NoFiles", func(t *testing.T) {
		t.Setenv("APP_ENV", "")
		_, _, err := runCommand(t, "show", "-l", filepath.Join(t.TempDir(), "missing"))
		require.Error(t, err)
		assert.ErrorIs(t, err, simpleconf.ErrConfigNotFound)
		assert.Equal(t, 2, exitCode(err))
	})

	t.Run("Lenient", func(t *testing.T) {
		t.Setenv("APP_ENV", "")
		base := filepath.Join(t.TempDir(), "base")
		writeFile(t, filepath.Join(base, "db.yml"), "url: ${SIMPLECONF_CLI_UNSET}\n")

		_, _, err := runCommand(t, "show", "-l", base)
		require.Error(t, err)
		assert.ErrorIs(t, err, simpleconf.ErrInterpolation)

		out, stderr, err := runCommand(t, "show", "-l", base, "--lenient", "--flat")
		require.NoError(t, err)
		assert.Contains(t, out, "db.url = ${SIMPLECONF_CLI_UNSET}")
		assert.Contains(t, stderr, "unresolved ${SIMPLECONF_CLI_UNSET} at db.url")
	})
}

func TestGetCommand(t *testing.T) {
	base, local := fixtureLayers(t)

	t.Run("Scalar", func(t *testing.T) {
		out, _, err := runCommand(t, "get", "service.url", "-l", base, "-l", local)
		require.NoError(t, err)
		assert.Equal(t, "http://base\n", out)
	})

	t.Run("Section", func(t *testing.T) {
		out, _, err := runCommand(t, "get", "service", "-l", base, "-l", local)
		require.NoError(t, err)
		assert.Contains(t, out, "url: http://base")
	})

	t.Run("MissingWithDefault", func(t *testing.T) {
		out, _, err := runCommand(t, "get", "service.timeout", "-l", base, "--default", "30s")
		require.NoError(t, err)
		assert.Equal(t, "30s\n", out)
	})

	t.Run("MissingWithoutDefault", func(t *testing.T) {
		_, _, err := runCommand(t, "get", "service.timeout", "-l", base)
		require.Error(t, err)
		assert.ErrorIs(t, err, simpleconf.ErrKeyNotFound)
		assert.Equal(t, 6, exitCode(err))
	})
}

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "conf", "service.yaml"), "host: localhost\nport: 8080\n")
	writeFile(t, filepath.Join(dir, "override.json"), `{"service": {"port": 9090}}`)

	t.Run("DirFileEnv", func(t *testing.T) {
		t.Setenv("MYCLI__SERVICE__HOST", "db.internal")
		out, _, err := runCommand(t, "merge",
			"--dir", filepath.Join(dir, "conf"),
			"--file", filepath.Join(dir, "override.json"),
			"--env-prefix", "MYCLI",
			"--format", "json")
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		service := decoded["service"].(map[string]any)
		assert.Equal(t, "db.internal", service["host"])
		assert.Equal(t, float64(9090), service["port"])
	})

	t.Run("MissingRequiredFile", func(t *testing.T) {
		_, _, err := runCommand(t, "merge", "--file", filepath.Join(dir, "absent.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, simpleconf.ErrConfigNotFound)
	})

	t.Run("NoSources", func(t *testing.T) {
		_, _, err := runCommand(t, "merge")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one")
	})

	t.Run("NoInterpolate", func(t *testing.T) {
		writeFile(t, filepath.Join(dir, "raw.yaml"), "token: ${SIMPLECONF_CLI_UNSET}\n")
		out, _, err := runCommand(t, "merge", "--file", filepath.Join(dir, "raw.yaml"), "--no-interpolate", "--flat")
		require.NoError(t, err)
		assert.Equal(t, "token = ${SIMPLECONF_CLI_UNSET}\n", out)
	})
}

func TestSaveCommand(t *testing.T) {
	base, local := fixtureLayers(t)
	dest := filepath.Join(t.TempDir(), "out", "merged.yaml")

	out, _, err := runCommand(t, "save", dest, "-l", base, "-l", local)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("wrote %s\n", dest), out)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "retries: 2")

	_, _, err = runCommand(t, "save", filepath.Join(t.TempDir(), "merged.ini"), "-l", base)
	require.Error(t, err)
	assert.ErrorIs(t, err, simpleconf.ErrUnsupportedFormat)
}

func TestParseSets(t *testing.T) {
	overrides, err := parseSets([]string{"a.b=2", "x=1", "flag=yes", "name=svc", "ratio=0.5", "empty="})
	require.NoError(t, err)
	assert.Equal(t, simpleconf.Int(2), overrides["a.b"])
	assert.Equal(t, simpleconf.Bool(true), overrides["x"], "boolean tokens win over integers")
	assert.Equal(t, simpleconf.Bool(true), overrides["flag"])
	assert.Equal(t, simpleconf.String("svc"), overrides["name"])
	assert.Equal(t, simpleconf.Float(0.5), overrides["ratio"])
	assert.Equal(t, simpleconf.String(""), overrides["empty"])

	_, err = parseSets([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseSets([]string{"=x"})
	assert.Error(t, err)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("wrap: %w", simpleconf.ErrConfigNotFound), 2},
		{simpleconf.ErrUnsupportedFormat, 3},
		{simpleconf.ErrInterpolation, 4},
		{simpleconf.ErrStructureConflict, 5},
		{simpleconf.ErrNoField, 6},
		{errors.New("other"), 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, exitCode(tt.err), tt.err.Error())
	}
}
