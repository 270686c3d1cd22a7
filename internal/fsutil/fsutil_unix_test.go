//go:build unix

package fsutil_test

import (
	"os"
	"path/filepath"
	"reflect"
	"syscall"
	"testing"

	"github.com/unbound-force/codestats/internal/fsutil"
)

func TestChildFiles_SkipsFIFOs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "real.rb"), "x = 1\n")
	if err := syscall.Mkfifo(filepath.Join(root, "pipe.rb"), 0o644); err != nil {
		t.Skipf("mkfifo unavailable: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "pipe.rb"), filepath.Join(root, "to_pipe.rb")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	got, err := fsutil.ChildFiles(root)
	if err != nil {
		t.Fatalf("ChildFiles: %v", err)
	}
	want := []string{filepath.Join(root, "real.rb")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ChildFiles = %v, want %v", got, want)
	}
}

func TestChildFiles_KeepsDanglingSymlinks(t *testing.T) {
	root := t.TempDir()
	link := filepath.Join(root, "broken.rb")
	if err := os.Symlink(filepath.Join(root, "missing.rb"), link); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	got, err := fsutil.ChildFiles(root)
	if err != nil {
		t.Fatalf("ChildFiles: %v", err)
	}
	if !reflect.DeepEqual(got, []string{link}) {
		t.Errorf("ChildFiles = %v, want [%s]", got, link)
	}
}
