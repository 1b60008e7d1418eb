// File: simpleconf/io.go
package simpleconf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Dump writes the detached content of the view to w as YAML or JSON.
func (v *View) Dump(w io.Writer, format Format) error {
	if format != FormatYAML && format != FormatJSON {
		return fmt.Errorf("%w: cannot write format %q", ErrUnsupportedFormat, format)
	}
	if err := encode(w, v.ToMap(), format); err != nil {
		return fmt.Errorf("failed to marshal config data to %s: %w", format, err)
	}
	return nil
}

// Save writes the view to path atomically. The format comes from hint
// ("yaml", "yml" or "json") when given, otherwise from the destination
// extension, defaulting to JSON.
func (v *View) Save(path, hint string) error {
	format, err := resolveWriteFormat(path, hint)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := v.Dump(&buf, format); err != nil {
		return err
	}
	return atomicWriteFile(path, buf.Bytes())
}

// atomicWriteFile performs atomic file write
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // Clean up on any error

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
