// Package scaffold embeds a starter configuration file and writes it
// to a target project directory.
package scaffold

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/unbound-force/codestats/internal/config"
)

//go:embed assets/*
var assets embed.FS

// Options configures the scaffold operation.
type Options struct {
	// TargetDir is the root directory to scaffold into.
	// Defaults to the current working directory.
	TargetDir string

	// Force overwrites existing files when true.
	// When false, existing files are skipped.
	Force bool

	// Version is the codestats version recorded in the header
	// comment. Defaults to "dev".
	Version string

	// Stdout is the writer for summary output.
	// Defaults to os.Stdout.
	Stdout io.Writer
}

// Result reports what the scaffold operation did.
type Result struct {
	Created     []string
	Skipped     []string
	Overwritten []string
}

// versionMarker returns the header comment prepended to each
// scaffolded file.
func versionMarker(version string) string {
	if version == "" {
		version = "dev"
	}
	return fmt.Sprintf("# scaffolded by codestats %s\n", version)
}

// outputName maps an asset name to the dotfile written in the target
// directory.
func outputName(asset string) string {
	return "." + asset
}

// Run writes the embedded starter files into the target directory.
// An existing file is skipped unless opts.Force is set. A note is
// printed when none of the default source directories exist, since
// the defaults alone would then count nothing.
func Run(opts Options) (*Result, error) {
	if opts.TargetDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		opts.TargetDir = cwd
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	defaults, err := config.DefaultAt(opts.TargetDir)
	if err != nil {
		return nil, err
	}
	if len(defaults.Entries()) == 0 {
		fmt.Fprintln(opts.Stdout, "Warning: none of the default source directories exist here.")
		fmt.Fprintln(opts.Stdout, "Add groups to the generated file before running codestats report.")
		fmt.Fprintln(opts.Stdout)
	}

	result := &Result{}
	marker := versionMarker(opts.Version)

	err = fs.WalkDir(assets, "assets", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		name := outputName(strings.TrimPrefix(path, "assets/"))
		outPath := filepath.Join(opts.TargetDir, name)

		_, statErr := os.Stat(outPath)
		exists := statErr == nil

		if exists && !opts.Force {
			result.Skipped = append(result.Skipped, name)
			return nil
		}

		content, err := assets.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading embedded asset %s: %w", path, err)
		}

		out := append([]byte(marker), content...)
		if err := os.WriteFile(outPath, out, 0o644); err != nil {
			return fmt.Errorf("creating %s: %w", name, err)
		}

		if exists {
			result.Overwritten = append(result.Overwritten, name)
		} else {
			result.Created = append(result.Created, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	printSummary(opts.Stdout, result)

	return result, nil
}

// printSummary writes a human-readable summary of the scaffold
// operation to w.
func printSummary(w io.Writer, r *Result) {
	fmt.Fprintln(w, "Codestats configuration initialized:")

	for _, f := range r.Created {
		fmt.Fprintf(w, "  created: %s\n", f)
	}
	for _, f := range r.Skipped {
		fmt.Fprintf(w, "  skipped: %s (already exists)\n", f)
	}
	for _, f := range r.Overwritten {
		fmt.Fprintf(w, "  overwritten: %s\n", f)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run codestats report to print statistics.")

	if len(r.Skipped) > 0 {
		fmt.Fprintf(w, "%d file(s) skipped (use --force to overwrite).\n", len(r.Skipped))
	}
}

// AssetContent returns the raw content of an embedded asset by its
// name (e.g., "codestats.yaml").
func AssetContent(name string) ([]byte, error) {
	return assets.ReadFile("assets/" + name)
}
