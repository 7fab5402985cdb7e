package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"storyreel/internal/config"
)

// ProjectPaths captures canonical locations for a storyreel project.
type ProjectPaths struct {
	Root            string
	ConfigFile      string
	CompositionFile string
	EnvFile         string
	MetaDir         string
	MediaDir        string
	ExportsDir      string
	LogsDir         string
	MediaIndexFile  string
	ExportStateFile string
}

// Resolve determines the project root using the optional --project flag or the
// current working directory when the flag is empty.
func Resolve(projectFlag string) (ProjectPaths, error) {
	var (
		root string
		err  error
	)

	if projectFlag != "" {
		root, err = filepath.Abs(projectFlag)
	} else {
		root, err = os.Getwd()
	}
	if err != nil {
		return ProjectPaths{}, fmt.Errorf("resolve project root: %w", err)
	}

	return newProjectPaths(root), nil
}

func newProjectPaths(root string) ProjectPaths {
	metaDir := filepath.Join(root, ".storyreel")
	return ProjectPaths{
		Root:            root,
		ConfigFile:      filepath.Join(root, "storyreel.yaml"),
		CompositionFile: filepath.Join(root, "composition.yaml"),
		EnvFile:         filepath.Join(root, ".env"),
		MetaDir:         metaDir,
		MediaDir:        filepath.Join(root, "media"),
		ExportsDir:      filepath.Join(root, "exports"),
		LogsDir:         filepath.Join(root, "logs"),
		MediaIndexFile:  filepath.Join(metaDir, "media.json"),
		ExportStateFile: filepath.Join(metaDir, "export_state.json"),
	}
}

// ApplyConfig overrides file locations with the ones named in cfg.
func ApplyConfig(pp ProjectPaths, cfg config.Config) ProjectPaths {
	if comp := cfg.CompositionFile(); comp != "" {
		pp.CompositionFile = resolveProjectPath(pp.Root, comp)
	}
	if media := cfg.MediaDir(); media != "" {
		pp.MediaDir = resolveProjectPath(pp.Root, media)
	}
	if exports := strings.TrimSpace(cfg.Export.Dir); exports != "" {
		pp.ExportsDir = resolveProjectPath(pp.Root, exports)
	}
	return pp
}

func resolveProjectPath(root, value string) string {
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(root, value)
}

// EnsureRoot makes sure the project root exists on disk.
func (p ProjectPaths) EnsureRoot() error {
	if err := os.MkdirAll(p.Root, 0o755); err != nil {
		return fmt.Errorf("create project root: %w", err)
	}
	return nil
}

// EnsureMetaDirs creates the standard media/exports/logs hierarchy alongside
// the hidden .storyreel metadata directory.
func (p ProjectPaths) EnsureMetaDirs() error {
	dirs := []string{p.MetaDir, p.MediaDir, p.ExportsDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
