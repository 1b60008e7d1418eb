// FILE: simpleconf/format.go
package simpleconf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format names a configuration file format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// detectFileFormat determines format from file extension. An empty result
// means the extension is not a configuration format. Bare dotfiles such as
// ".yaml" have no extension.
func detectFileFormat(path string) Format {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == base {
		return ""
	}
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".toml", ".tml":
		return FormatTOML
	default:
		return ""
	}
}

// isConfigFile reports whether path has a recognized extension.
func isConfigFile(path string) bool {
	return detectFileFormat(path) != ""
}

// readFile parses one configuration file into a Value. Empty documents
// decode to an empty mapping.
func readFile(path string) (Value, error) {
	format := detectFileFormat(path)
	if format == "" {
		return Value{}, fmt.Errorf("%w: %s is not a supported config file", ErrUnsupportedFormat, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Value{}, fmt.Errorf("%w: %s: %w", ErrConfigNotFound, path, err)
		}
		return Value{}, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	v, err := decode(data, format)
	if err != nil {
		return Value{}, fmt.Errorf("%w: failed to parse %s config file '%s': %w", ErrUnsupportedFormat, strings.ToUpper(string(format)), path, err)
	}
	return v, nil
}

// decode parses raw bytes of the given format.
func decode(data []byte, format Format) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Map(nil), nil
	}

	var raw any
	switch format {
	case FormatTOML:
		tree := make(map[string]any)
		if err := toml.Unmarshal(data, &tree); err != nil {
			return Value{}, err
		}
		raw = tree
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber() // Preserve integer vs float distinction
		if err := decoder.Decode(&raw); err != nil {
			return Value{}, err
		}
		if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
			return Value{}, errors.New("unexpected trailing data after JSON document")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Value{}, err
		}
	default:
		return Value{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if raw == nil {
		return Map(nil), nil
	}
	return FromAny(raw)
}

// resolveWriteFormat picks the output format from an explicit hint or the
// destination extension, defaulting to JSON.
func resolveWriteFormat(path, hint string) (Format, error) {
	name := strings.ToLower(strings.TrimPrefix(hint, "."))
	if name == "" {
		name = strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	}
	switch name {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: cannot write format %q", ErrUnsupportedFormat, name)
	}
}

// encode writes a plain mapping in the given format.
func encode(w io.Writer, data map[string]any, format Format) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		encoder.SetEscapeHTML(false)
		return encoder.Encode(data)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(data); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("%w: cannot write format %q", ErrUnsupportedFormat, format)
	}
}
