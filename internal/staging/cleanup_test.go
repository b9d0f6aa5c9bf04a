package staging

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"merlin/internal/logging"
)

func makeDir(t *testing.T, path string, age time.Duration) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	if err := os.WriteFile(filepath.Join(path, "audio.wav"), []byte("12345"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	stamp := time.Now().Add(-age)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("set time: %v", err)
	}
}

func TestCleanStaleInvalidPaths(t *testing.T) {
	for _, dir := range []string{"", "   ", "/nonexistent/path/12345"} {
		result := CleanStale(context.Background(), dir, time.Hour, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result for path %q", dir)
		}
	}
}

func TestCleanStaleRemovesOldDirectories(t *testing.T) {
	workDir := t.TempDir()
	oldDir := filepath.Join(workDir, "clip-1700000000000000000-abcdef12")
	recentDir := filepath.Join(workDir, "clip-1800000000000000000-12345678")
	locks := filepath.Join(workDir, LocksDirName)
	makeDir(t, oldDir, 2*time.Hour)
	makeDir(t, recentDir, 0)
	makeDir(t, locks, 48*time.Hour)

	result := CleanStale(context.Background(), workDir, time.Hour, logging.NewNop())

	if len(result.Removed) != 1 || result.Removed[0] != oldDir {
		t.Fatalf("expected only %s removed, got %v", oldDir, result.Removed)
	}
	if _, err := os.Stat(oldDir); !os.IsNotExist(err) {
		t.Error("old directory should have been removed")
	}
	if _, err := os.Stat(recentDir); err != nil {
		t.Error("recent directory should still exist")
	}
	if _, err := os.Stat(locks); err != nil {
		t.Error("locks directory must never be removed")
	}
}

func TestCleanStaleZeroAgeRemovesAll(t *testing.T) {
	workDir := t.TempDir()
	makeDir(t, filepath.Join(workDir, "a"), 0)
	makeDir(t, filepath.Join(workDir, "b"), time.Minute)

	result := CleanStale(context.Background(), workDir, 0, nil)
	if len(result.Removed) != 2 {
		t.Fatalf("expected 2 removed, got %v", result.Removed)
	}
}

func TestListDirectoriesOldestFirst(t *testing.T) {
	workDir := t.TempDir()
	makeDir(t, filepath.Join(workDir, "newer"), time.Minute)
	makeDir(t, filepath.Join(workDir, "older"), time.Hour)
	makeDir(t, filepath.Join(workDir, LocksDirName), 0)
	if err := os.WriteFile(filepath.Join(workDir, "stray.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	dirs, err := ListDirectories(workDir)
	if err != nil {
		t.Fatalf("ListDirectories: %v", err)
	}
	if len(dirs) != 2 || dirs[0].Name != "older" || dirs[1].Name != "newer" {
		t.Fatalf("unexpected listing %+v", dirs)
	}
	if dirs[0].Size != 5 {
		t.Fatalf("size = %d, want 5", dirs[0].Size)
	}
}
