package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/unbound-force/codestats/internal/config"
	"github.com/unbound-force/codestats/internal/engine"
	"github.com/unbound-force/codestats/internal/linescan"
	"github.com/unbound-force/codestats/internal/report"
	"github.com/unbound-force/codestats/internal/scaffold"
)

// Set by build flags.
var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "codestats",
		Short: "Codestats: line, class and method counts per source directory",
		Long: `Codestats walks labeled groups of source directories, classifies
every line of the eligible files, and prints per-group totals with
the project's code to test ratio.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newReportCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newSchemaCmd())
	root.AddCommand(newInitCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger returns the structured logger for one command run.
func newLogger(w io.Writer, verbose bool) *charmlog.Logger {
	logger := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: false,
	})
	if verbose {
		logger.SetLevel(charmlog.DebugLevel)
	}
	return logger
}

// configFlags holds the flags shared by commands that build a
// configuration.
type configFlags struct {
	configPath string
	ignore     []string
	testGroups []string
	scripts    []string
	extensions []string
	noDefaults bool
	skipBlank  bool
}

func (f *configFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "",
		"path to config file; paths in it resolve against its directory (default: "+config.FileName+" in the working directory)")
	cmd.Flags().StringArrayVar(&f.ignore, "ignore", nil,
		"glob of files to leave out, ** matches any directories (repeatable)")
	cmd.Flags().StringArrayVar(&f.testGroups, "test-group", nil,
		"label whose lines count as test code (repeatable)")
	cmd.Flags().StringArrayVar(&f.scripts, "script", nil,
		"Label:dir scanned for extensionless shebang scripts (repeatable)")
	cmd.Flags().StringArrayVar(&f.extensions, "ext", nil,
		"extra file extension to count, e.g. .rbw (repeatable)")
	cmd.Flags().BoolVar(&f.noDefaults, "no-defaults", false,
		"do not seed the default directory layout")
	cmd.Flags().BoolVar(&f.skipBlank, "skip-blank-lines", false,
		"leave blank lines out of the Lines column")
}

// loadConfig builds the effective configuration: the config file (or
// the defaults), then labeled path arguments and flag overrides. It
// returns the ignore globs collected from the file and the flags.
//
// Relative paths inside a config file, and the default layout it
// seeds, resolve against the file's directory. Arguments and flags
// resolve against root.
func loadConfig(root string, f configFlags, args []string) (*config.Config, []string, error) {
	var (
		file    *config.File
		fileDir = root
		err     error
	)
	if f.configPath != "" {
		path := f.configPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		fileDir = filepath.Dir(path)
		file, err = config.LoadFile(path)
	} else {
		file, err = config.Load(root)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading config file: %w", err)
	}
	if f.noDefaults {
		off := false
		file.Defaults = &off
	}

	cfg, err := file.Build(fileDir)
	if err != nil {
		return nil, nil, err
	}

	for _, arg := range args {
		entry, err := config.ExpandLabeledPath(arg, root)
		if err != nil {
			return nil, nil, err
		}
		if err := cfg.RegisterGroup(entry.Label, entry.Dir); err != nil {
			return nil, nil, err
		}
	}
	for _, arg := range f.scripts {
		entry, err := config.ExpandLabeledPath(arg, root)
		if err != nil {
			return nil, nil, err
		}
		if err := cfg.RegisterGroup(entry.Label, entry.Dir, config.NonRecursive(), config.ScriptDir()); err != nil {
			return nil, nil, err
		}
	}
	for _, label := range f.testGroups {
		cfg.RegisterTestGroup(label)
	}
	for _, ext := range f.extensions {
		cfg.RegisterExtension(ext)
	}
	if f.skipBlank {
		cfg.RawLines = linescan.NonBlankLines
	}

	ignore := append(file.IgnorePatterns(fileDir), f.ignore...)
	return cfg, ignore, nil
}

// reportParams holds the parsed flags for the report command.
type reportParams struct {
	args        []string
	root        string
	flags       configFlags
	format      string
	interactive bool
	verbose     bool
	stdout      io.Writer
	stderr      io.Writer
}

// runReport is the extracted, testable body of the report command.
func runReport(p reportParams) error {
	if p.format != "text" && p.format != "json" && p.format != "styled" {
		return fmt.Errorf("invalid format %q: must be 'text', 'json', or 'styled'", p.format)
	}

	logger := newLogger(p.stderr, p.verbose)

	cfg, ignore, err := loadConfig(p.root, p.flags, p.args)
	if err != nil {
		return err
	}

	logger.Debug("counting source files",
		"dirs", len(cfg.Entries()), "extensions", cfg.Extensions(), "raw_lines", cfg.RawLines)
	res, err := engine.Compute(cfg, engine.Options{
		IgnoreGlobs: ignore,
		Root:        p.root,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	if n := len(res.Diagnostics); n > 0 {
		logger.Warn("some files could not be read", "files", n)
	}
	logger.Debug("statistics complete",
		"groups", len(res.Groups), "code_loc", res.CodeLOC, "test_loc", res.TestLOC)

	if p.interactive {
		return runInteractiveReport(res)
	}

	return writeReport(p.stdout, p.format, res)
}

// writeReport outputs the statistics in the requested format.
func writeReport(w io.Writer, format string, res *engine.Result) error {
	in := res.ReportInput()
	switch format {
	case "json":
		return report.WriteJSON(w, in)
	case "styled":
		return report.WriteStyled(w, in)
	default:
		return report.WriteText(w, in)
	}
}

func newReportCmd() *cobra.Command {
	var (
		flags       configFlags
		format      string
		interactive bool
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "report [label:dir ...]",
		Short: "Print line statistics for the configured directory groups",
		Long: `Count lines, code lines, classes and methods for every directory
group and print them as a table followed by the code to test ratio.

Arguments add groups as Label:dir. A bare dir is its own label.
Directories are scanned recursively; files directly inside each
directory are counted when they have a known extension, or start
with #! inside a script directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting working directory: %w", err)
			}
			return runReport(reportParams{
				args:        args,
				root:        root,
				flags:       flags,
				format:      format,
				interactive: interactive,
				verbose:     verbose,
				stdout:      cmd.OutOrStdout(),
				stderr:      cmd.ErrOrStderr(),
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "text",
		"output format: text, json, or styled")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false,
		"launch interactive TUI for browsing results")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"log debug details to stderr")

	return cmd
}

// configParams holds the parsed flags for the config command.
type configParams struct {
	args   []string
	root   string
	flags  configFlags
	stdout io.Writer
}

// runConfig prints the effective configuration as YAML.
func runConfig(p configParams) error {
	cfg, ignore, err := loadConfig(p.root, p.flags, p.args)
	if err != nil {
		return err
	}
	return config.Write(p.stdout, config.Describe(cfg, ignore))
}

func newConfigCmd() *cobra.Command {
	var flags configFlags

	cmd := &cobra.Command{
		Use:   "config [label:dir ...]",
		Short: "Print the effective configuration as YAML",
		Long: `Print the configuration report would use, with every registered
directory listed explicitly. The output is a valid ` + config.FileName + `.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting working directory: %w", err)
			}
			return runConfig(configParams{
				args:   args,
				root:   root,
				flags:  flags,
				stdout: cmd.OutOrStdout(),
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [report|config]",
		Short: "Print a JSON Schema for codestats output or configuration",
		Long: `Print the JSON Schema (Draft 2020-12) that documents either the
structure of codestats report --format=json output (the default) or
the ` + config.FileName + ` configuration file.`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"report", "config"},
		RunE: func(cmd *cobra.Command, args []string) error {
			schema := report.Schema
			if len(args) == 1 && args[0] == "config" {
				schema = config.Schema
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), schema)
			return err
		},
	}
}

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter " + config.FileName + " in the current directory",
		Long: `Write a commented ` + config.FileName + ` that seeds the default
layout and shows how to add groups, test groups and ignore globs.
An existing file is left alone unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := scaffold.Run(scaffold.Options{
				Force:   force,
				Version: version,
				Stdout:  cmd.OutOrStdout(),
			})
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false,
		"overwrite an existing configuration file")

	return cmd
}
