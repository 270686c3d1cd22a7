// Package config holds the caller-owned description of what to count:
// labeled directory groups, which labels are test code, which
// directories hold extensionless scripts, and which file extensions
// are eligible.
//
// A Config is a plain value. Independent runs use independent Configs;
// New returns an empty one and Default seeds the conventional Rails
// layout.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/unbound-force/codestats/internal/fsutil"
	"github.com/unbound-force/codestats/internal/linescan"
)

// GroupEntry is one registered (label, directory) pair. Dir is
// absolute. Several entries may share a label or a directory.
type GroupEntry struct {
	Label string
	Dir   string
}

// Config is the group, test-label, script-directory, and extension
// registry consulted by the engine.
type Config struct {
	entries    []GroupEntry
	testGroups []string
	scriptDirs map[string]bool
	extensions []string

	// RawLines selects which lines count toward raw line totals.
	RawLines linescan.Policy
}

// New returns an empty configuration.
func New() *Config {
	return &Config{scriptDirs: make(map[string]bool)}
}

// Reset clears every registration and restores the default raw line
// policy.
func (c *Config) Reset() {
	*c = *New()
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := &Config{
		entries:    slices.Clone(c.entries),
		testGroups: slices.Clone(c.testGroups),
		scriptDirs: make(map[string]bool, len(c.scriptDirs)),
		extensions: slices.Clone(c.extensions),
		RawLines:   c.RawLines,
	}
	for dir := range c.scriptDirs {
		out.scriptDirs[dir] = true
	}
	return out
}

type groupOptions struct {
	recursive bool
	script    bool
}

// GroupOption adjusts a RegisterGroup call.
type GroupOption func(*groupOptions)

// NonRecursive registers only the named directory, not its
// subdirectories.
func NonRecursive() GroupOption {
	return func(o *groupOptions) { o.recursive = false }
}

// Recursive sets whether subdirectories are registered too. It is on
// by default.
func Recursive(on bool) GroupOption {
	return func(o *groupOptions) { o.recursive = on }
}

// ScriptDir marks the registered directories as script directories.
func ScriptDir() GroupOption {
	return func(o *groupOptions) { o.script = true }
}

// RegisterGroup records dir under label. Relative paths resolve
// against the working directory. A directory that does not exist is
// dropped without error. Unless NonRecursive is given, every
// subdirectory is registered under the same label and options,
// depth first.
func (c *Config) RegisterGroup(label, dir string, opts ...GroupOption) error {
	o := groupOptions{recursive: true}
	for _, opt := range opts {
		opt(&o)
	}
	return c.register(label, dir, o, make(map[string]bool))
}

func (c *Config) register(label, dir string, o groupOptions, visited map[string]bool) error {
	abs, ok := fsutil.CanonicalizeDirectory(dir)
	if !ok {
		return nil
	}

	// Symlinked directory loops would otherwise recurse forever.
	key := abs
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		key = real
	}
	if visited[key] {
		return nil
	}
	visited[key] = true

	c.entries = append(c.entries, GroupEntry{Label: label, Dir: abs})
	if o.script {
		c.scriptDirs[abs] = true
	}
	if !o.recursive {
		return nil
	}

	children, err := fsutil.ChildDirectories(abs)
	if err != nil {
		return fmt.Errorf("registering %q: %w", label, err)
	}
	for _, child := range children {
		if err := c.register(label, child, o, visited); err != nil {
			return err
		}
	}
	return nil
}

// RegisterTestGroup marks label as test code.
func (c *Config) RegisterTestGroup(label string) {
	if !slices.Contains(c.testGroups, label) {
		c.testGroups = append(c.testGroups, label)
	}
}

// RegisterExtension adds ext to the allowed extensions. A missing
// leading dot is added.
func (c *Config) RegisterExtension(ext string) {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if !slices.Contains(c.extensions, ext) {
		c.extensions = append(c.extensions, ext)
	}
}

// Entries returns the registered pairs in registration order.
func (c *Config) Entries() []GroupEntry {
	return slices.Clone(c.entries)
}

// TestGroups returns the test labels in registration order.
func (c *Config) TestGroups() []string {
	return slices.Clone(c.testGroups)
}

// IsTestGroup reports whether label was registered as test code.
func (c *Config) IsTestGroup(label string) bool {
	return slices.Contains(c.testGroups, label)
}

// IsScriptDir reports whether the absolute directory dir is a script
// directory.
func (c *Config) IsScriptDir(dir string) bool {
	return c.scriptDirs[filepath.Clean(dir)]
}

// ScriptDirs returns the script directories, sorted.
func (c *Config) ScriptDirs() []string {
	out := make([]string, 0, len(c.scriptDirs))
	for dir := range c.scriptDirs {
		out = append(out, dir)
	}
	slices.Sort(out)
	return out
}

// Extensions returns the allowed extensions in registration order.
func (c *Config) Extensions() []string {
	return slices.Clone(c.extensions)
}

// ExtensionSet returns the allowed extensions as a lookup set.
func (c *Config) ExtensionSet() map[string]bool {
	set := make(map[string]bool, len(c.extensions))
	for _, ext := range c.extensions {
		set[ext] = true
	}
	return set
}

// layoutEntry is one directory of the default layout.
type layoutEntry struct {
	label  string
	dir    string
	script bool
}

var defaultLayout = []layoutEntry{
	{label: "Controllers", dir: "app/controllers"},
	{label: "Mailers", dir: "app/mailers"},
	{label: "Models", dir: "app/models"},
	{label: "Views", dir: "app/views"},
	{label: "Helpers", dir: "app/helpers"},
	{label: "Binaries", dir: "bin", script: true},
	{label: "Binaries", dir: "script", script: true},
	{label: "Binaries", dir: "scripts", script: true},
	{label: "Libraries", dir: "lib"},
	{label: "Source", dir: "source"},
	{label: "Source", dir: "src"},
	{label: "Unit tests", dir: "test"},
	{label: "RSpec specs", dir: "spec"},
	{label: "Features", dir: "features"},
}

// DefaultTestGroups are the labels of the default layout that hold
// test code.
var DefaultTestGroups = []string{"Unit tests", "RSpec specs", "Features"}

// DefaultExtensions are the file suffixes counted by default.
var DefaultExtensions = []string{".rb", ".rake", ".feature", ".gemspec", ".podspec"}

// Default returns a configuration seeded with the default layout
// relative to the working directory.
func Default() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return DefaultAt(cwd)
}

// DefaultAt returns a configuration seeded with the default layout
// relative to root.
func DefaultAt(root string) (*Config, error) {
	c := New()
	if err := c.SeedDefaults(root); err != nil {
		return nil, err
	}
	return c, nil
}

// SeedDefaults adds the default layout under root, the default test
// labels, and the default extensions to c.
func (c *Config) SeedDefaults(root string) error {
	for _, e := range defaultLayout {
		var opts []GroupOption
		if e.script {
			opts = append(opts, ScriptDir())
		}
		if err := c.RegisterGroup(e.label, filepath.Join(root, e.dir), opts...); err != nil {
			return err
		}
	}
	for _, label := range DefaultTestGroups {
		c.RegisterTestGroup(label)
	}
	for _, ext := range DefaultExtensions {
		c.RegisterExtension(ext)
	}
	return nil
}
