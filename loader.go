// FILE: simpleconf/loader.go
package simpleconf

import (
	"fmt"
	"log/slog"
	"strings"
)

// stage tracks a layered load through its pipeline.
type stage int

const (
	stageNotStarted stage = iota
	stageDirectoriesExpanded
	stageFragmentsMerged
	stageOverridesApplied
	stagePlaceholdersResolved
	stageDone
)

func (s stage) String() string {
	switch s {
	case stageNotStarted:
		return "not-started"
	case stageDirectoriesExpanded:
		return "directories-expanded"
	case stageFragmentsMerged:
		return "fragments-merged"
	case stageOverridesApplied:
		return "overrides-applied"
	case stagePlaceholdersResolved:
		return "placeholders-resolved"
	case stageDone:
		return "done"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// LayeredLoader loads configuration files from an ordered list of layer
// directories. Later layers override earlier ones field by field. When an
// environment name is active, layer/<env> is slotted directly after each
// layer. Every file is placed at the key path derived from its location
// relative to the layer root: base/db/primary.yml lands under db.primary.
type LayeredLoader struct {
	// Layers in precedence order, lowest first. Empty means DefaultLayers().
	Layers []string
	// Env is the active environment name. Empty falls back to EnvVar.
	Env string
	// EnvVar names the variable read when Env is empty. Empty means DefaultEnvVar.
	EnvVar string
	// Lookup resolves placeholders and EnvVar. Nil means the process environment.
	Lookup Lookup
	Logger *slog.Logger
}

// Load runs the full pipeline and returns the resulting view. overrides may
// be nil. Each call starts from scratch; no state is shared between calls.
func (l *LayeredLoader) Load(overrides map[string]any) (*View, error) {
	run := l.newRun()
	view, _, err := run.execute(overrides, false)
	return view, err
}

// LoadLenient is Load with unresolved placeholders left in place instead of
// failing. The markers are returned ordered by path.
func (l *LayeredLoader) LoadLenient(overrides map[string]any) (*View, []MissingEnvVar, error) {
	run := l.newRun()
	return run.execute(overrides, true)
}

func (l *LayeredLoader) newRun() *loadRun {
	run := &loadRun{
		loader: l,
		logger: loggerOr(l.Logger),
		lookup: l.Lookup,
		acc:    Tree{},
	}
	if run.lookup == nil {
		run.lookup = EnvLookup()
	}
	return run
}

// loadRun holds the state of one Load call.
type loadRun struct {
	loader *LayeredLoader
	logger *slog.Logger
	lookup Lookup
	stage  stage
	dirs   []string
	acc    Tree
}

func (r *loadRun) advance(next stage) {
	r.stage = next
	r.logger.Debug("layered load stage", "stage", next.String())
}

func (r *loadRun) execute(overrides map[string]any, lenient bool) (*View, []MissingEnvVar, error) {
	layers := r.loader.Layers
	if len(layers) == 0 {
		layers = DefaultLayers()
	}
	env := activeEnv(r.loader.Env, r.loader.EnvVar, r.lookup)
	r.dirs = expandLayers(layers, env)
	if len(r.dirs) == 0 {
		return nil, nil, fmt.Errorf("%w: no configuration folders", ErrConfigNotFound)
	}
	r.advance(stageDirectoriesExpanded)

	if err := r.mergeDirectories(); err != nil {
		return nil, nil, err
	}
	r.advance(stageFragmentsMerged)

	if len(overrides) > 0 {
		if err := applyOverrides(r.acc, overrides); err != nil {
			return nil, nil, err
		}
	}
	r.advance(stageOverridesApplied)

	var (
		resolved Tree
		missing  []MissingEnvVar
	)
	if lenient {
		resolved, missing = ResolveLenient(r.acc, r.lookup)
		for _, m := range missing {
			r.logger.Warn("unresolved placeholder", "name", m.Name, "path", m.Path)
		}
	} else {
		var err error
		if resolved, err = Resolve(r.acc, r.lookup); err != nil {
			return nil, nil, err
		}
	}
	r.advance(stagePlaceholdersResolved)

	view := NewView(resolved)
	r.acc = nil
	r.advance(stageDone)
	return view, missing, nil
}

// mergeDirectories loads every file of every existing directory, in order.
func (r *loadRun) mergeDirectories() error {
	loaded := 0
	for _, dir := range r.dirs {
		exists, err := dirExists(dir)
		if err != nil {
			return err
		}
		if !exists {
			r.logger.Debug("skipping missing config directory", "path", dir)
			continue
		}

		files, err := listConfigFiles(dir, true)
		if err != nil {
			return err
		}
		for _, file := range files {
			if _, err := loadProjected(r.acc, dir, file, r.logger); err != nil {
				return err
			}
			loaded++
		}
	}

	if loaded == 0 {
		return fmt.Errorf("%w: no configuration files found inside: %s", ErrConfigNotFound, strings.Join(r.dirs, ", "))
	}
	return nil
}
