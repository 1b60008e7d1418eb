// FILE: simpleconf/source.go
package simpleconf

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"
)

// DefaultEnvDelimiter separates segments of environment variable names.
const DefaultEnvDelimiter = "__"

// Source produces one configuration fragment per Load call. Load must be
// free of side effects besides reading its origin.
type Source interface {
	// Name is a diagnostic label.
	Name() string
	// Load returns a fresh, independently owned fragment.
	Load() (Tree, error)
}

// FileSource loads a single file.
type FileSource struct {
	Path     string
	Optional bool   // a missing file yields an empty fragment
	Label    string // defaults to "file"
	Logger   *slog.Logger
}

// NewFileSource returns a required FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string { return labelOr(s.Label, "file") }

// Load parses the file. Its root must be a mapping.
func (s *FileSource) Load() (Tree, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if s.Optional {
				loggerOr(s.Logger).Debug("optional config file missing", "source", s.Name(), "path", s.Path)
				return Tree{}, nil
			}
			return nil, fmt.Errorf("%w: file %s: %w", ErrConfigNotFound, s.Path, err)
		}
		return nil, fmt.Errorf("failed to stat config file '%s': %w", s.Path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnsupportedFormat, s.Path)
	}

	v, err := readFile(s.Path)
	if err != nil {
		return nil, err
	}
	fragment := Tree{}
	if err := inject(fragment, nil, v); err != nil {
		return nil, fmt.Errorf("file %s: %w", s.Path, err)
	}
	loggerOr(s.Logger).Debug("loaded config file", "source", s.Name(), "path", s.Path)
	return fragment, nil
}

// DirectorySource loads every configuration file in a directory, projecting
// each file's relative path into a key path.
type DirectorySource struct {
	Path      string
	Recursive bool
	Optional  bool   // a missing directory yields an empty fragment
	Label     string // defaults to "directory"
	Logger    *slog.Logger
}

// NewDirectorySource returns an optional, non-recursive DirectorySource.
func NewDirectorySource(path string) *DirectorySource {
	return &DirectorySource{Path: path, Optional: true}
}

func (s *DirectorySource) Name() string { return labelOr(s.Label, "directory") }

// Load merges the directory's files in sorted order; later files win.
func (s *DirectorySource) Load() (Tree, error) {
	exists, err := dirExists(s.Path)
	if err != nil {
		return nil, err
	}
	if !exists {
		if s.Optional {
			loggerOr(s.Logger).Debug("optional config directory missing", "source", s.Name(), "path", s.Path)
			return Tree{}, nil
		}
		return nil, fmt.Errorf("%w: directory %s", ErrConfigNotFound, s.Path)
	}

	files, err := listConfigFiles(s.Path, s.Recursive)
	if err != nil {
		return nil, err
	}

	fragment := Tree{}
	for _, file := range files {
		if _, err := loadProjected(fragment, s.Path, file, loggerOr(s.Logger)); err != nil {
			return nil, err
		}
	}
	return fragment, nil
}

// loadProjected reads file and injects it into acc at its projected key path.
func loadProjected(acc Tree, root, file string, logger *slog.Logger) ([]string, error) {
	v, err := readFile(file)
	if err != nil {
		return nil, err
	}
	keyPath, err := projectKeyPath(root, file)
	if err != nil {
		return nil, err
	}
	if err := inject(acc, keyPath, v); err != nil {
		return nil, fmt.Errorf("file %s: %w", file, err)
	}
	logger.Debug("loaded config file", "path", file, "key", strings.Join(keyPath, "."))
	return keyPath, nil
}

// EnvSource projects prefixed environment variables into a fragment.
// APP__DB__HOST=x with prefix "APP" yields {db: {host: "x"}}.
type EnvSource struct {
	Prefix     string
	Delimiter  string            // defaults to DefaultEnvDelimiter
	InferTypes bool              // convert bool, int and float tokens
	Environ    map[string]string // nil reads the process environment
	Label      string            // defaults to "env"
}

// NewEnvSource returns an EnvSource with the default delimiter and type
// inference enabled.
func NewEnvSource(prefix string) *EnvSource {
	return &EnvSource{Prefix: prefix, Delimiter: DefaultEnvDelimiter, InferTypes: true}
}

func (s *EnvSource) Name() string { return labelOr(s.Label, "env") }

// Load scans the environment. Entries are visited in sorted key order so
// conflicts are reported deterministically.
func (s *EnvSource) Load() (Tree, error) {
	delimiter := s.Delimiter
	if delimiter == "" {
		delimiter = DefaultEnvDelimiter
	}
	env := s.Environ
	if env == nil {
		env = processEnviron()
	}

	prefix := strings.ToUpper(s.Prefix) + delimiter
	keys := make([]string, 0, len(env))
	for key := range env {
		if strings.HasPrefix(strings.ToUpper(key), prefix) {
			keys = append(keys, key)
		}
	}
	// Order ignores case, matching the lower-cased segments below.
	slices.SortFunc(keys, func(a, b string) int {
		if c := strings.Compare(strings.ToUpper(a), strings.ToUpper(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	fragment := Tree{}
	for _, key := range keys {
		segments := strings.Split(key[len(prefix):], delimiter)
		if slices.Contains(segments, "") {
			continue
		}
		for i, segment := range segments {
			segments[i] = strings.ToLower(segment)
		}

		raw := env[key]
		value := String(raw)
		if s.InferTypes {
			value = InferValue(raw)
		}

		if err := inject(fragment, segments, value); err != nil {
			return nil, fmt.Errorf("environment variable %s: %w", key, err)
		}
	}
	return fragment, nil
}

// DictOverlay contributes a literal mapping.
type DictOverlay struct {
	Payload map[string]any
	Label   string // defaults to "dict"
}

// NewDictOverlay returns a DictOverlay for payload.
func NewDictOverlay(payload map[string]any) *DictOverlay {
	return &DictOverlay{Payload: payload}
}

func (s *DictOverlay) Name() string { return labelOr(s.Label, "dict") }

// Load returns a structural deep copy of the payload.
func (s *DictOverlay) Load() (Tree, error) {
	if s.Payload == nil {
		return Tree{}, nil
	}
	tree, err := TreeFromMap(s.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: dict overlay %s: %w", ErrUnsupportedFormat, s.Name(), err)
	}
	return tree, nil
}

// processEnviron returns the process environment as a map.
func processEnviron() map[string]string {
	environ := os.Environ()
	env := make(map[string]string, len(environ))
	for _, entry := range environ {
		if key, value, ok := strings.Cut(entry, "="); ok {
			env[key] = value
		}
	}
	return env
}

func labelOr(label, fallback string) string {
	if label != "" {
		return label
	}
	return fallback
}

func loggerOr(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
