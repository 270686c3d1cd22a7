// Package fsutil holds the small filesystem queries the statistics
// engine is built on: directory canonicalization, immediate-child
// listings, and file eligibility checks.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// shebang is the two-byte marker of an executable script.
var shebang = [2]byte{'#', '!'}

// CanonicalizeDirectory returns the absolute, cleaned form of path if
// it names an existing directory. It returns "" and false otherwise,
// including when path does not exist.
func CanonicalizeDirectory(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return abs, true
}

// ChildDirectories returns the absolute paths of the immediate
// subdirectories of dir, sorted lexically. Symlinks that resolve to
// directories are included.
func ChildDirectories(dir string) ([]string, error) {
	return children(dir, kindDir)
}

// ChildFiles returns the absolute paths of the immediate regular-file
// children of dir, sorted lexically. Symlinks are followed; dangling
// ones are kept so that reading them reports the failure. FIFOs,
// sockets and devices are left out.
func ChildFiles(dir string) ([]string, error) {
	return children(dir, kindFile)
}

type entryKind int

const (
	kindDir entryKind = iota
	kindFile
	kindOther
)

func children(dir string, want entryKind) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}

	// os.ReadDir sorts by name and never yields "." or "..".
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", abs, err)
	}

	var out []string
	for _, entry := range entries {
		path := filepath.Join(abs, entry.Name())
		if kindOf(path, entry.Type()) == want {
			out = append(out, path)
		}
	}
	return out, nil
}

// kindOf classifies path, following a symlink when the entry is one.
// Dangling symlinks count as files.
func kindOf(path string, mode fs.FileMode) entryKind {
	if mode&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			return kindFile
		}
		mode = info.Mode()
	}
	switch {
	case mode.IsDir():
		return kindDir
	case mode.IsRegular():
		return kindFile
	default:
		return kindOther
	}
}

// IsAllowedFileType reports whether path has one of the allowed
// extensions (as returned by filepath.Ext, dot included) and is not a
// directory. The "." and ".." pseudo-entries are never allowed.
func IsAllowedFileType(path string, allowed map[string]bool) bool {
	base := filepath.Base(path)
	if base == "." || base == ".." {
		return false
	}
	if !allowed[filepath.Ext(path)] {
		return false
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return false
	}
	return true
}

// IsShellProgram reports whether the file at path starts with "#!".
// Any failure to read the file is treated as "not a shell program".
func IsShellProgram(path string) bool {
	ok, _ := SniffShebang(path)
	return ok
}

// SniffShebang reads the first two bytes of path and reports whether
// they are "#!". Files shorter than two bytes yield false with a nil
// error; other read failures are returned.
func SniffShebang(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var magic [2]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	return magic == shebang, nil
}
