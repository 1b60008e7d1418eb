package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Jonlenes/simpleconf"
)

// loadOptions bundles the layered-load flags shared by show, get and save.
type loadOptions struct {
	Layers  []string
	Env     string
	EnvVar  string
	Sets    []string
	Lenient bool
}

// printOptions controls how a loaded view is written out.
type printOptions struct {
	Format string
	Flat   bool
}

// mergeOptions bundles the flags of the merge command.
type mergeOptions struct {
	Files         []string
	Dirs          []string
	Recursive     bool
	EnvPrefix     string
	Delimiter     string
	NoInterpolate bool
}

func newRootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "simpleconf",
		Short:         "Compose and inspect layered configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log load steps to stderr")

	logger := func(cmd *cobra.Command) *slog.Logger {
		if !verbose {
			return nil
		}
		return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	root.AddCommand(
		newShowCommand(logger),
		newGetCommand(logger),
		newMergeCommand(logger),
		newSaveCommand(logger),
	)
	return root
}

type loggerFunc func(*cobra.Command) *slog.Logger

func addLoadFlags(cmd *cobra.Command, opts *loadOptions) {
	cmd.Flags().StringSliceVarP(&opts.Layers, "layer", "l", nil, "Layer directory, lowest precedence first (repeatable, default conf/base,conf/local)")
	cmd.Flags().StringVarP(&opts.Env, "env", "e", "", "Active environment name")
	cmd.Flags().StringVar(&opts.EnvVar, "env-var", simpleconf.DefaultEnvVar, "Variable holding the environment name when --env is empty")
	cmd.Flags().StringArrayVarP(&opts.Sets, "set", "s", nil, "Override as dotted.key=value (repeatable)")
	cmd.Flags().BoolVar(&opts.Lenient, "lenient", false, "Leave unresolved placeholders in place instead of failing")
}

func addPrintFlags(cmd *cobra.Command, opts *printOptions) {
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "yaml", "Output format: yaml or json")
	cmd.Flags().BoolVar(&opts.Flat, "flat", false, "Print sorted dotted.key = value lines")
}

func newShowCommand(logger loggerFunc) *cobra.Command {
	var (
		load   loadOptions
		output printOptions
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Load the configuration layers and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := runLayeredLoad(cmd, load, logger(cmd))
			if err != nil {
				return err
			}
			return printView(cmd.OutOrStdout(), view, output)
		},
	}
	addLoadFlags(cmd, &load)
	addPrintFlags(cmd, &output)
	return cmd
}

func newGetCommand(logger loggerFunc) *cobra.Command {
	var (
		load loadOptions
		def  string
	)
	cmd := &cobra.Command{
		Use:   "get PATH",
		Short: "Print the value at a dotted path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := runLayeredLoad(cmd, load, logger(cmd))
			if err != nil {
				return err
			}

			value, err := view.Select(args[0])
			if err != nil {
				if cmd.Flags().Changed("default") && errors.Is(err, simpleconf.ErrKeyNotFound) {
					fmt.Fprintln(cmd.OutOrStdout(), def)
					return nil
				}
				return err
			}
			return printValue(cmd.OutOrStdout(), value)
		},
	}
	addLoadFlags(cmd, &load)
	cmd.Flags().StringVarP(&def, "default", "d", "", "Printed when the path does not resolve")
	return cmd
}

func newMergeCommand(logger loggerFunc) *cobra.Command {
	var (
		opts   mergeOptions
		output printOptions
	)
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge directories, files and environment variables in that order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := runMerge(opts, logger(cmd))
			if err != nil {
				return err
			}
			return printView(cmd.OutOrStdout(), view, output)
		},
	}
	cmd.Flags().StringArrayVar(&opts.Dirs, "dir", nil, "Directory source (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Files, "file", nil, "Required file source (repeatable)")
	cmd.Flags().BoolVarP(&opts.Recursive, "recursive", "r", false, "Scan directories recursively")
	cmd.Flags().StringVar(&opts.EnvPrefix, "env-prefix", "", "Read PREFIX<delimiter>KEY environment variables last")
	cmd.Flags().StringVar(&opts.Delimiter, "delimiter", simpleconf.DefaultEnvDelimiter, "Environment variable segment delimiter")
	cmd.Flags().BoolVar(&opts.NoInterpolate, "no-interpolate", false, "Keep ${NAME} placeholders as written")
	addPrintFlags(cmd, &output)
	return cmd
}

func newSaveCommand(logger loggerFunc) *cobra.Command {
	var (
		load   loadOptions
		format string
	)
	cmd := &cobra.Command{
		Use:   "save DEST",
		Short: "Load the configuration layers and write the result to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := runLayeredLoad(cmd, load, logger(cmd))
			if err != nil {
				return err
			}
			if err := view.Save(args[0], format); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
	addLoadFlags(cmd, &load)
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: yaml or json (default from extension)")
	return cmd
}

func runLayeredLoad(cmd *cobra.Command, opts loadOptions, logger *slog.Logger) (*simpleconf.View, error) {
	overrides, err := parseSets(opts.Sets)
	if err != nil {
		return nil, err
	}

	loader := &simpleconf.LayeredLoader{
		Layers: opts.Layers,
		Env:    opts.Env,
		EnvVar: opts.EnvVar,
		Logger: logger,
	}
	if !opts.Lenient {
		return loader.Load(overrides)
	}

	view, missing, err := loader.LoadLenient(overrides)
	if err != nil {
		return nil, err
	}
	for _, m := range missing {
		fmt.Fprintf(cmd.ErrOrStderr(), "unresolved %s at %s\n", m, m.Path)
	}
	return view, nil
}

func runMerge(opts mergeOptions, logger *slog.Logger) (*simpleconf.View, error) {
	var sources []simpleconf.Source
	for _, dir := range opts.Dirs {
		sources = append(sources, &simpleconf.DirectorySource{
			Path:      dir,
			Recursive: opts.Recursive,
			Optional:  true,
			Label:     "dir " + dir,
			Logger:    logger,
		})
	}
	for _, file := range opts.Files {
		sources = append(sources, &simpleconf.FileSource{
			Path:   file,
			Label:  "file " + file,
			Logger: logger,
		})
	}
	if opts.EnvPrefix != "" {
		env := simpleconf.NewEnvSource(opts.EnvPrefix)
		env.Delimiter = opts.Delimiter
		sources = append(sources, env)
	}
	if len(sources) == 0 {
		return nil, errors.New("merge needs at least one --dir, --file or --env-prefix")
	}

	manager := simpleconf.NewManager(sources,
		simpleconf.WithInterpolation(!opts.NoInterpolate),
		simpleconf.WithManagerLogger(logger),
	)
	return manager.Load()
}

// parseSets turns key=value pairs into an override map. Values are typed
// with the same inference as environment sources.
func parseSets(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	overrides := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected key=value", pair)
		}
		overrides[key] = simpleconf.InferValue(raw)
	}
	return overrides, nil
}

func printView(w io.Writer, view *simpleconf.View, opts printOptions) error {
	if opts.Flat {
		_, err := io.WriteString(w, view.Debug())
		return err
	}
	return view.Dump(w, simpleconf.Format(strings.ToLower(opts.Format)))
}

func printValue(w io.Writer, value any) error {
	switch v := value.(type) {
	case *simpleconf.View:
		return v.Dump(w, simpleconf.FormatYAML)
	case []any:
		plain, err := simpleconf.FromAny(v)
		if err != nil {
			return err
		}
		data, err := json.Marshal(plain.Interface())
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		return nil
	case nil:
		fmt.Fprintln(w, "null")
		return nil
	default:
		fmt.Fprintln(w, v)
		return nil
	}
}
