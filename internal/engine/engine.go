// Package engine computes per-group source statistics for a
// configuration: it resolves and deduplicates the registered
// directories, decides which files are eligible, counts their lines,
// and derives the code-to-test summary.
package engine

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	charmlog "github.com/charmbracelet/log"

	"github.com/unbound-force/codestats/internal/config"
	"github.com/unbound-force/codestats/internal/fsutil"
	"github.com/unbound-force/codestats/internal/linescan"
	"github.com/unbound-force/codestats/internal/stats"
)

// TotalName is the name of the aggregate row.
const TotalName = "Total"

// Options configures an Engine.
type Options struct {
	// IgnoreGlobs are patterns of files to leave out. "**" matches any
	// number of directories. Relative patterns resolve against Root.
	IgnoreGlobs []string

	// Root is the base for relative ignore globs. Defaults to the
	// working directory.
	Root string

	// Logger receives diagnostics. Defaults to a discarding logger.
	Logger *charmlog.Logger
}

// Engine runs statistics over a snapshot of a configuration.
type Engine struct {
	cfg        *config.Config
	extensions map[string]bool
	ignore     map[string]bool
	logger     *charmlog.Logger
}

// New snapshots cfg and resolves the ignore globs once. Later changes
// to cfg do not affect the engine.
func New(cfg *config.Config, opts Options) (*Engine, error) {
	if opts.Logger == nil {
		opts.Logger = charmlog.New(io.Discard)
	}
	if opts.Root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		opts.Root = cwd
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}

	ignore, err := resolveIgnores(root, opts.IgnoreGlobs)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("resolved ignore globs", "patterns", len(opts.IgnoreGlobs), "files", len(ignore))

	snapshot := cfg.Clone()
	return &Engine{
		cfg:        snapshot,
		extensions: snapshot.ExtensionSet(),
		ignore:     ignore,
		logger:     opts.Logger,
	}, nil
}

// Compute is New followed by Run.
func Compute(cfg *config.Config, opts Options) (*Result, error) {
	e, err := New(cfg, opts)
	if err != nil {
		return nil, err
	}
	return e.Run()
}

// resolveIgnores expands patterns into a set of absolute paths.
// Relative patterns resolve against root, including ones that climb
// out of it with "..". Wildcards do not match dotfiles; a pattern
// segment that starts with "." does.
func resolveIgnores(root string, patterns []string) (map[string]bool, error) {
	set := make(map[string]bool)
	rootFS := os.DirFS(root)

	for _, pattern := range patterns {
		var matches []string
		var err error
		clean := filepath.Clean(pattern)
		switch {
		case filepath.IsAbs(clean):
			matches, err = doublestar.FilepathGlob(clean, doublestar.WithNoHidden())
		case !filepath.IsLocal(clean):
			matches, err = doublestar.FilepathGlob(filepath.Join(root, clean), doublestar.WithNoHidden())
		default:
			matches, err = doublestar.Glob(rootFS, filepath.ToSlash(clean), doublestar.WithNoHidden())
			for i, m := range matches {
				matches[i] = filepath.Join(root, filepath.FromSlash(m))
			}
		}
		if err != nil {
			return nil, fmt.Errorf("ignore glob %q: %w", pattern, err)
		}

		for _, m := range matches {
			abs, err := filepath.Abs(m)
			if err != nil {
				return nil, fmt.Errorf("resolving %s: %w", m, err)
			}
			set[abs] = true
		}
	}
	return set, nil
}

// labelGroup is one label and its deduplicated directories.
type labelGroup struct {
	label string
	dirs  []string
}

// coalesce drops entries whose directory no longer exists, keeps the
// first registration of each directory, and groups directories by
// label in order of first appearance.
func coalesce(entries []config.GroupEntry) []labelGroup {
	var groups []labelGroup
	index := make(map[string]int)
	seen := make(map[string]bool)

	for _, e := range entries {
		dir, ok := fsutil.CanonicalizeDirectory(e.Dir)
		if !ok || seen[dir] {
			continue
		}
		seen[dir] = true

		i, ok := index[e.Label]
		if !ok {
			i = len(groups)
			index[e.Label] = i
			groups = append(groups, labelGroup{label: e.Label})
		}
		groups[i].dirs = append(groups[i].dirs, dir)
	}
	return groups
}

// Run walks the filesystem and returns fresh statistics. Each call
// re-reads every file.
func (e *Engine) Run() (*Result, error) {
	groups := coalesce(e.cfg.Entries())
	res := &Result{}

	for _, lg := range groups {
		g, err := e.groupStatistics(lg, res)
		if err != nil {
			return nil, err
		}
		res.Groups = append(res.Groups, g)

		if e.cfg.IsTestGroup(lg.label) {
			res.TestLOC += g.LinesCode()
		} else {
			res.CodeLOC += g.LinesCode()
		}
	}

	if len(res.Groups) > 1 {
		res.Total = stats.NewAggregate(TotalName)
		for _, g := range res.Groups {
			res.Total.Merge(g)
		}
		res.Total.Finalize()
	}

	res.Ratio = Ratio(res.CodeLOC, res.TestLOC)
	return res, nil
}

// groupStatistics counts every eligible file directly inside the
// group's directories.
func (e *Engine) groupStatistics(lg labelGroup, res *Result) (*stats.Group, error) {
	g := stats.NewGroup(lg.label)
	e.logger.Debug("counting group", "group", lg.label, "dirs", len(lg.dirs))

	for _, dir := range lg.dirs {
		files, err := fsutil.ChildFiles(dir)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", lg.label, err)
		}

		for _, path := range files {
			if !e.eligible(dir, path) {
				continue
			}

			counts, err := linescan.CountFile(path, e.cfg.RawLines)
			if err != nil {
				diag := &FileReadError{Group: lg.label, Path: path, Err: err}
				res.Diagnostics = append(res.Diagnostics, diag)
				e.logger.Warn("skipping unreadable file", "group", lg.label, "path", path, "err", err)
				continue
			}
			if err := g.AddCounts(counts); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	g.Finalize()
	return g, nil
}

// eligible reports whether path, a file directly inside dir, is
// counted: it must not be ignored, and must either have an allowed
// extension or be a shebang script inside a script directory.
func (e *Engine) eligible(dir, path string) bool {
	if e.ignore[path] {
		return false
	}
	if fsutil.IsAllowedFileType(path, e.extensions) {
		return true
	}
	if !e.cfg.IsScriptDir(dir) {
		return false
	}

	ok, err := fsutil.SniffShebang(path)
	if err != nil {
		e.logger.Debug("shebang sniff failed", "path", path, "err", err)
		return false
	}
	return ok
}

// Ratio formats test LOC over code LOC as "1:x.y", or "1:0.0" when
// there is no code.
func Ratio(codeLOC, testLOC int) string {
	if codeLOC == 0 {
		return "1:0.0"
	}
	return fmt.Sprintf("1:%.1f", float64(testLOC)/float64(codeLOC))
}
