package staging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"merlin/internal/logging"
)

// LocksDirName is the work dir entry holding job lock files. It is never
// treated as a job directory.
const LocksDirName = "locks"

// CleanStaleResult contains the outcome of a stale directory cleanup operation.
type CleanStaleResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a directory path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// DirInfo describes one job directory left in the work dir.
type DirInfo struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	ModTime time.Time `json:"mod_time"`
	Size    int64     `json:"size_bytes"`
}

// CleanStale removes job directories in workDir last modified before
// maxAge ago. A maxAge of zero removes every job directory. Jobs remove
// their own directory when they finish, so anything found here was left by a
// process that died mid-job.
func CleanStale(ctx context.Context, workDir string, maxAge time.Duration, logger *slog.Logger) CleanStaleResult {
	result := CleanStaleResult{}

	dirs, err := ListDirectories(workDir)
	if err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: workDir, Error: err})
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, dir := range dirs {
		if ctx.Err() != nil {
			break
		}
		if maxAge > 0 && !dir.ModTime.Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(dir.Path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dir.Path, Error: err})
			if logger != nil {
				logger.Warn("failed to remove stale job directory",
					logging.String("path", dir.Path),
					logging.Error(err),
					logging.String(logging.FieldEventType, "workdir_cleanup_failed"),
					logging.String(logging.FieldErrorHint, "check work_dir permissions"),
					logging.String(logging.FieldImpact, "disk space not reclaimed"),
				)
			}
			continue
		}
		result.Removed = append(result.Removed, dir.Path)
		if logger != nil {
			logger.Info("removed stale job directory",
				logging.String("path", dir.Path),
				logging.Duration("age", time.Since(dir.ModTime)),
				logging.Int64("size_bytes", dir.Size),
				logging.String(logging.FieldEventType, "workdir_cleanup"),
			)
		}
	}

	return result
}

// ListDirectories returns the job directories in workDir, oldest first. A
// missing or unset work dir yields no entries.
func ListDirectories(workDir string) ([]DirInfo, error) {
	workDir = strings.TrimSpace(workDir)
	if workDir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(workDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var dirs []DirInfo
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == LocksDirName {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		dirPath := filepath.Join(workDir, entry.Name())
		size, _ := dirSize(dirPath)

		dirs = append(dirs, DirInfo{
			Name:    entry.Name(),
			Path:    dirPath,
			ModTime: info.ModTime(),
			Size:    size,
		})
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].ModTime.Before(dirs[j].ModTime) })
	return dirs, nil
}

// dirSize calculates the total size of a directory recursively.
func dirSize(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // best effort
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}
