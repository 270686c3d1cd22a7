package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/unbound-force/codestats/internal/linescan"
)

// FileName is the configuration file looked up in a project root.
const FileName = ".codestats.yaml"

// ErrInvalidConfig is returned for configuration files that do not
// conform to Schema.
var ErrInvalidConfig = errors.New("invalid configuration")

// File is the on-disk form of a configuration.
type File struct {
	// Defaults seeds the default layout first. Nil means true.
	Defaults *bool `yaml:"defaults,omitempty"`

	// RawLines is "physical" (default) or "non_blank".
	RawLines string `yaml:"raw_lines,omitempty"`

	Extensions []string    `yaml:"extensions,omitempty"`
	Groups     []FileGroup `yaml:"groups,omitempty"`
	TestGroups []string    `yaml:"test_groups,omitempty"`

	// Ignore lists glob patterns of files excluded from counting.
	// Relative patterns resolve against the directory holding the
	// file; see IgnorePatterns.
	Ignore []string `yaml:"ignore,omitempty"`
}

// FileGroup is one labeled directory in a configuration file.
type FileGroup struct {
	Label string `yaml:"label"`
	Path  string `yaml:"path"`

	// Recursive defaults to true when omitted.
	Recursive *bool `yaml:"recursive,omitempty"`
	Script    bool  `yaml:"script,omitempty"`
}

// UseDefaults reports whether the default layout should be seeded.
func (f *File) UseDefaults() bool {
	return f.Defaults == nil || *f.Defaults
}

// Load reads FileName from dir. A missing file yields an empty File
// and a nil error.
func Load(dir string) (*File, error) {
	f, err := LoadFile(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return &File{}, nil
	}
	return f, err
}

// LoadFile reads and validates the configuration file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse validates data against Schema and decodes it.
func Parse(data []byte) (*File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &File{}, nil
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	if err := validate(doc); err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if _, err := linescan.ParsePolicy(f.RawLines); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &f, nil
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(Schema))
	if err != nil {
		return nil, fmt.Errorf("parsing config schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("codestats-config.schema.json", doc); err != nil {
		return nil, fmt.Errorf("adding config schema: %w", err)
	}
	return compiler.Compile("codestats-config.schema.json")
})

// validate checks a decoded YAML document against Schema. The document
// goes through JSON so that the validator sees JSON value types.
func validate(doc any) error {
	sch, err := compileSchema()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// IgnorePatterns returns f.Ignore with relative patterns anchored at
// root, normally the directory holding the file.
func (f *File) IgnorePatterns(root string) []string {
	out := make([]string, 0, len(f.Ignore))
	for _, p := range f.Ignore {
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		out = append(out, p)
	}
	return out
}

// Build turns f into a Config, resolving relative paths against root.
func (f *File) Build(root string) (*Config, error) {
	c := New()
	if f.UseDefaults() {
		if err := c.SeedDefaults(root); err != nil {
			return nil, err
		}
	}
	if err := f.Apply(c, root); err != nil {
		return nil, err
	}
	return c, nil
}

// Apply registers the contents of f into c. Relative group paths
// resolve against root.
func (f *File) Apply(c *Config, root string) error {
	policy, err := linescan.ParsePolicy(f.RawLines)
	if err != nil {
		return err
	}
	if f.RawLines != "" {
		c.RawLines = policy
	}

	for _, ext := range f.Extensions {
		c.RegisterExtension(ext)
	}
	for _, g := range f.Groups {
		path := g.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		opts := []GroupOption{Recursive(g.Recursive == nil || *g.Recursive)}
		if g.Script {
			opts = append(opts, ScriptDir())
		}
		if err := c.RegisterGroup(g.Label, path, opts...); err != nil {
			return err
		}
	}
	for _, label := range f.TestGroups {
		c.RegisterTestGroup(label)
	}
	return nil
}

// Describe returns the File form of c, listing each registered
// directory as its own non-recursive group.
func Describe(c *Config, ignore []string) *File {
	off := false
	f := &File{
		Defaults:   &off,
		RawLines:   c.RawLines.String(),
		Extensions: c.Extensions(),
		TestGroups: c.TestGroups(),
		Ignore:     ignore,
	}
	for _, e := range c.Entries() {
		rec := false
		f.Groups = append(f.Groups, FileGroup{
			Label:     e.Label,
			Path:      e.Dir,
			Recursive: &rec,
			Script:    c.IsScriptDir(e.Dir),
		})
	}
	return f
}

// Write marshals f to YAML and writes it to w.
func Write(w io.Writer, f *File) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close() //nolint:errcheck // best-effort close
	enc.SetIndent(2)
	return enc.Encode(f)
}
