package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetXDGDataDirRespectsEnv(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-test")

	dir, err := GetXDGDataDir()
	if err != nil {
		t.Fatalf("GetXDGDataDir failed: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-test", "focustrack") {
		t.Errorf("dir = %q, want /tmp/xdg-test/focustrack", dir)
	}
}

func TestEnsureDataDirCreates(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_DATA_HOME", base)

	dir, err := EnsureDataDir()
	if err != nil {
		t.Fatalf("EnsureDataDir failed: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("%q is not a directory", dir)
	}
}
