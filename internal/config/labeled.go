package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var labelSeparator = regexp.MustCompile(`\s*:\s*`)

// ExpandLabeledPath parses a "Label:path" argument. Whitespace around
// the colon is ignored, components after the second are dropped, and
// an argument without a colon is used as both label and path. The path
// is made absolute against root.
func ExpandLabeledPath(arg, root string) (GroupEntry, error) {
	if strings.TrimSpace(arg) == "" {
		return GroupEntry{}, fmt.Errorf("empty labeled path")
	}

	label, path := arg, arg
	if parts := labelSeparator.Split(arg, -1); len(parts) > 1 {
		label, path = parts[0], parts[1]
	}
	if path == "" {
		return GroupEntry{}, fmt.Errorf("labeled path %q has no directory", arg)
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	return GroupEntry{Label: label, Dir: filepath.Clean(path)}, nil
}
