package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"storyreel/internal/paths"
)

const timeLayout = "20060102-150405"

// New creates a logger that writes to a timestamped file inside the project's
// logs directory, named after the command that opened it. The returned closer
// should be closed when logging is no longer needed.
func New(p paths.ProjectPaths, command string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(p.LogsDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure logs directory: %w", err)
	}

	filename := time.Now().Format(timeLayout) + ".log"
	prefix := ""
	if command = strings.TrimSpace(command); command != "" {
		filename = command + "-" + filename
		prefix = command + " "
	}
	file, err := os.OpenFile(filepath.Join(p.LogsDir, filename), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := log.New(file, prefix, log.LstdFlags|log.Lmicroseconds|log.Lmsgprefix)
	return logger, file, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// Prune keeps the newest keep log files in the project's logs directory and
// removes the rest. It returns the number of files removed.
func Prune(p paths.ProjectPaths, keep int) (int, error) {
	entries, err := os.ReadDir(p.LogsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read logs directory: %w", err)
	}

	type logFile struct {
		name    string
		modTime time.Time
	}
	var files []logFile
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".log" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, logFile{name: entry.Name(), modTime: info.ModTime()})
	}
	if keep < 0 {
		keep = 0
	}
	if len(files) <= keep {
		return 0, nil
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].modTime.Equal(files[j].modTime) {
			return files[i].name > files[j].name
		}
		return files[i].modTime.After(files[j].modTime)
	})

	removed := 0
	for _, f := range files[keep:] {
		if err := os.Remove(filepath.Join(p.LogsDir, f.name)); err != nil {
			return removed, fmt.Errorf("remove %s: %w", f.name, err)
		}
		removed++
	}
	return removed, nil
}
