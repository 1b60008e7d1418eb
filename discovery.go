// FILE: simpleconf/discovery.go
package simpleconf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultEnvVar names the variable that selects the active environment.
const DefaultEnvVar = "APP_ENV"

// DefaultLayers returns the layer list used when none is configured.
func DefaultLayers() []string {
	return []string{filepath.Join("conf", "base"), filepath.Join("conf", "local")}
}

// expandLayers appends layer/env directly after each layer when env is set.
func expandLayers(layers []string, env string) []string {
	expanded := make([]string, 0, len(layers)*2)
	for _, layer := range layers {
		layer = filepath.Clean(layer)
		expanded = append(expanded, layer)
		if env != "" {
			expanded = append(expanded, filepath.Join(layer, env))
		}
	}
	return expanded
}

// activeEnv returns the explicit env name, or the value of envVar.
func activeEnv(explicit, envVar string, lookup Lookup) string {
	if explicit != "" {
		return explicit
	}
	if envVar == "" {
		envVar = DefaultEnvVar
	}
	if lookup == nil {
		lookup = EnvLookup()
	}
	env, _ := lookup(envVar)
	return env
}

// dirExists reports whether path exists and is a directory.
func dirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat config directory '%s': %w", path, err)
	}
	return info.IsDir(), nil
}

// listConfigFiles returns files with recognized extensions under dir, either
// directly inside it or at any depth, in deterministic segment order.
// Symlinks to regular files are followed.
func listConfigFiles(dir string, recursive bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !isConfigFile(path) {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			info, statErr := os.Stat(path)
			if statErr != nil || !info.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan config directory '%s': %w", dir, err)
	}

	sortConfigFiles(dir, files)
	return files, nil
}
