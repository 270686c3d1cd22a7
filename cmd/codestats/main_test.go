package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/unbound-force/codestats/internal/config"
)

// writeFixture writes content to root/rel, creating parent directories.
func writeFixture(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// projectFixture lays out a small project with six lines of library
// code and three lines of specs.
func projectFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFixture(t, root, "lib/foo.rb", "class Foo\n  def bar\n    1\n  end\nend\n\n")
	writeFixture(t, root, "spec/foo_spec.rb", "describe Foo do\n  it \"works\" do\n  end\n")
	return root
}

func runReportFixture(t *testing.T, p reportParams) (string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	p.stdout = &stdout
	p.stderr = &stderr
	if p.format == "" {
		p.format = "text"
	}
	if err := runReport(p); err != nil {
		t.Fatalf("runReport() error: %v\nstderr:\n%s", err, stderr.String())
	}
	return stdout.String(), stderr.String()
}

// ---------------------------------------------------------------------------
// runReport tests
// ---------------------------------------------------------------------------

func TestRunReport_InvalidFormat(t *testing.T) {
	err := runReport(reportParams{
		root:   t.TempDir(),
		format: "yaml",
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	})
	if err == nil {
		t.Fatal("expected error for invalid format")
	}
	if !strings.Contains(err.Error(), `invalid format "yaml"`) {
		t.Errorf("unexpected error message: %s", err)
	}
}

func TestRunReport_TextFormat(t *testing.T) {
	root := projectFixture(t)
	out, _ := runReportFixture(t, reportParams{root: root})

	for _, want := range []string{
		"| Libraries ",
		"| RSpec specs ",
		"| Total ",
		" Code LOC: 5  Test LOC: 3  Code to Test Ratio: 1:0.6",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRunReport_JSONFormat(t *testing.T) {
	root := projectFixture(t)
	out, _ := runReportFixture(t, reportParams{root: root, format: "json"})

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput:\n%s", err, out)
	}
	for _, key := range []string{"version", "groups", "total", "summary"} {
		if _, ok := parsed[key]; !ok {
			t.Errorf("JSON output missing %q key", key)
		}
	}
	summary, _ := parsed["summary"].(map[string]interface{})
	if summary["ratio"] != "1:0.6" {
		t.Errorf("summary ratio = %v, want 1:0.6", summary["ratio"])
	}
}

func TestRunReport_StyledFormat(t *testing.T) {
	root := projectFixture(t)
	out, _ := runReportFixture(t, reportParams{root: root, format: "styled"})

	for _, want := range []string{"Libraries", "RSpec specs", "Code to Test Ratio:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRunReport_LabeledArguments(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "app/workers/job.rb", "perform\n")
	writeFixture(t, root, "lib/foo.rb", "x\n")

	out, _ := runReportFixture(t, reportParams{
		root:  root,
		args:  []string{"Workers : app/workers"},
		flags: configFlags{noDefaults: true, extensions: []string{"rb"}},
	})

	if !strings.Contains(out, "| Workers ") {
		t.Errorf("expected a Workers row, got:\n%s", out)
	}
	if strings.Contains(out, "Libraries") {
		t.Errorf("defaults should be off, got:\n%s", out)
	}
	if !strings.Contains(out, "Code LOC: 1 ") {
		t.Errorf("expected one code line, got:\n%s", out)
	}
}

func TestRunReport_ConfigFile(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "lib/a.rb", "a\n")
	writeFixture(t, root, "lib/generated.rb", "b\nc\n")
	writeFixture(t, root, "checks/a_check.rb", "d\ne\n")
	writeFixture(t, root, config.FileName, `groups:
  - label: Checks
    path: checks
test_groups: [Checks]
ignore:
  - lib/generated.rb
`)

	out, _ := runReportFixture(t, reportParams{root: root})

	if !strings.Contains(out, "Code LOC: 1  Test LOC: 2  Code to Test Ratio: 1:2.0") {
		t.Errorf("config file not honored, got:\n%s", out)
	}
}

func TestRunReport_ConfigFilePathsResolveAgainstItsDirectory(t *testing.T) {
	other := t.TempDir()
	writeFixture(t, other, "lib/a.rb", "a\n")
	writeFixture(t, other, "lib/generated.rb", "b\nc\n")
	writeFixture(t, other, "checks/a_check.rb", "d\ne\n")
	writeFixture(t, other, config.FileName, `groups:
  - label: Checks
    path: checks
test_groups: [Checks]
ignore:
  - lib/generated.rb
`)
	cwd := t.TempDir()
	writeFixture(t, cwd, "lib/elsewhere.rb", "x\ny\nz\n")

	out, _ := runReportFixture(t, reportParams{
		root:  cwd,
		flags: configFlags{configPath: filepath.Join(other, config.FileName)},
	})

	if !strings.Contains(out, "Code LOC: 1  Test LOC: 2  Code to Test Ratio: 1:2.0") {
		t.Errorf("config paths should resolve against the config file's directory, got:\n%s", out)
	}
}

func TestRunReport_InvalidConfigFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "custom.yaml")
	writeFixture(t, root, "custom.yaml", "raw_lines: sometimes\n")

	err := runReport(reportParams{
		root:   root,
		flags:  configFlags{configPath: path},
		format: "text",
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	})
	if err == nil {
		t.Fatal("expected error for invalid config file")
	}
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got: %v", err)
	}
}

func TestRunReport_MissingConfigFile(t *testing.T) {
	err := runReport(reportParams{
		root:   t.TempDir(),
		flags:  configFlags{configPath: filepath.Join(t.TempDir(), "nope.yaml")},
		format: "text",
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	})
	if err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}

func TestRunReport_ScriptAndTestGroupFlags(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "lib/a.rb", "a\nb\nc\nd\ne\n")
	writeFixture(t, root, "tools/check", "#!/bin/sh\nrun\n")

	out, _ := runReportFixture(t, reportParams{
		root: root,
		flags: configFlags{
			scripts:    []string{"Tools:tools"},
			testGroups: []string{"Tools"},
		},
	})

	if !strings.Contains(out, "| Tools ") {
		t.Errorf("expected a Tools row, got:\n%s", out)
	}
	if !strings.Contains(out, "Code LOC: 5  Test LOC: 1  Code to Test Ratio: 1:0.2") {
		t.Errorf("unexpected summary, got:\n%s", out)
	}
}

func TestRunReport_IgnoreAndSkipBlankLines(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "lib/a.rb", "a\n\n\nb\n")
	writeFixture(t, root, "lib/vendor/b.rb", "c\n")

	out, _ := runReportFixture(t, reportParams{
		root:  root,
		flags: configFlags{ignore: []string{"lib/vendor/**"}, skipBlank: true},
	})

	if !strings.Contains(out, "|     2 |     2 |") {
		t.Errorf("expected 2 lines and 2 LOC, got:\n%s", out)
	}
	if !strings.Contains(out, "Code LOC: 2 ") {
		t.Errorf("ignored file was counted, got:\n%s", out)
	}
}

func TestRunReport_VerboseLogsToStderr(t *testing.T) {
	root := projectFixture(t)
	_, stderr := runReportFixture(t, reportParams{root: root, verbose: true})

	if !strings.Contains(stderr, "counting source files") {
		t.Errorf("expected debug logging on stderr, got:\n%s", stderr)
	}
}

func TestRunReport_UnreadableFileWarns(t *testing.T) {
	root := projectFixture(t)
	if err := os.Symlink(filepath.Join(root, "missing.rb"), filepath.Join(root, "lib", "broken.rb")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	out, stderr := runReportFixture(t, reportParams{root: root})

	if !strings.Contains(stderr, "could not be read") {
		t.Errorf("expected a warning on stderr, got:\n%s", stderr)
	}
	if !strings.Contains(out, "Code LOC: 5") {
		t.Errorf("readable files should still be counted, got:\n%s", out)
	}
}

// ---------------------------------------------------------------------------
// config command tests
// ---------------------------------------------------------------------------

func TestRunConfig_RoundTrips(t *testing.T) {
	root := projectFixture(t)
	var stdout bytes.Buffer
	err := runConfig(configParams{
		root:   root,
		flags:  configFlags{ignore: []string{"lib/generated/**"}, skipBlank: true},
		stdout: &stdout,
	})
	if err != nil {
		t.Fatalf("runConfig() error: %v", err)
	}

	f, err := config.Parse(stdout.Bytes())
	if err != nil {
		t.Fatalf("config output does not parse: %v\noutput:\n%s", err, stdout.String())
	}
	if f.RawLines != "non_blank" {
		t.Errorf("raw_lines = %q, want non_blank", f.RawLines)
	}
	if len(f.Ignore) != 1 || f.Ignore[0] != "lib/generated/**" {
		t.Errorf("ignore = %v, want [lib/generated/**]", f.Ignore)
	}
	if len(f.Groups) != 2 {
		t.Errorf("expected 2 groups (lib, spec), got %d:\n%s", len(f.Groups), stdout.String())
	}
}

// ---------------------------------------------------------------------------
// schema command tests
// ---------------------------------------------------------------------------

func runSchemaCmd(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newSchemaCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs(append([]string{}, args...))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("schema command failed: %v", err)
	}
	return buf.String()
}

func TestSchemaCmd_OutputsValidJSON(t *testing.T) {
	for _, args := range [][]string{{}, {"report"}, {"config"}} {
		out := runSchemaCmd(t, args...)
		var parsed map[string]interface{}
		if err := json.Unmarshal([]byte(out), &parsed); err != nil {
			t.Errorf("schema %v output is not valid JSON: %v", args, err)
		}
	}
}

func TestSchemaCmd_SelectsSchema(t *testing.T) {
	if out := runSchemaCmd(t); !strings.Contains(out, `"codestats report"`) {
		t.Errorf("default schema should describe the report, got:\n%s", out)
	}
	if out := runSchemaCmd(t, "config"); !strings.Contains(out, `"codestats configuration"`) {
		t.Errorf("config schema missing title, got:\n%s", out)
	}
}

func TestSchemaCmd_RejectsUnknownKind(t *testing.T) {
	cmd := newSchemaCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"bogus"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unknown schema kind")
	}
}

// ---------------------------------------------------------------------------
// init command tests
// ---------------------------------------------------------------------------

func TestInitCmd_WritesLoadableConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cmd := newInitCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	if _, err := config.Load(dir); err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if !strings.Contains(buf.String(), "created: "+config.FileName) {
		t.Errorf("expected creation summary, got:\n%s", buf.String())
	}
}
