package paths

import (
	"os"
	"path/filepath"
	"testing"

	"storyreel/internal/config"
)

func TestResolveUsesFlag(t *testing.T) {
	root := t.TempDir()
	pp, err := Resolve(root)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if pp.Root != root {
		t.Fatalf("expected root %s, got %s", root, pp.Root)
	}
	if pp.ConfigFile != filepath.Join(root, "storyreel.yaml") {
		t.Fatalf("unexpected config file %s", pp.ConfigFile)
	}
	if pp.ExportStateFile != filepath.Join(root, ".storyreel", "export_state.json") {
		t.Fatalf("unexpected export state file %s", pp.ExportStateFile)
	}
}

func TestApplyConfigRelative(t *testing.T) {
	root := t.TempDir()
	pp := newProjectPaths(root)

	cfg := config.Config{}
	cfg.Files.Composition = "stories/intro.yaml"
	cfg.Files.Media = "assets"
	cfg.Export.Dir = "out"

	applied := ApplyConfig(pp, cfg)

	if want := filepath.Join(root, "stories/intro.yaml"); applied.CompositionFile != want {
		t.Fatalf("expected composition path %s, got %s", want, applied.CompositionFile)
	}
	if want := filepath.Join(root, "assets"); applied.MediaDir != want {
		t.Fatalf("expected media dir %s, got %s", want, applied.MediaDir)
	}
	if want := filepath.Join(root, "out"); applied.ExportsDir != want {
		t.Fatalf("expected exports dir %s, got %s", want, applied.ExportsDir)
	}
}

func TestApplyConfigAbsolute(t *testing.T) {
	root := t.TempDir()
	pp := newProjectPaths(root)

	compAbs := filepath.Join(t.TempDir(), "comp.yaml")
	cfg := config.Config{}
	cfg.Files.Composition = compAbs

	applied := ApplyConfig(pp, cfg)
	if applied.CompositionFile != compAbs {
		t.Fatalf("expected composition path %s, got %s", compAbs, applied.CompositionFile)
	}
}

func TestApplyConfigNoOverrides(t *testing.T) {
	pp := newProjectPaths(t.TempDir())
	applied := ApplyConfig(pp, config.Config{})
	if applied != pp {
		t.Fatalf("expected paths unchanged, got %+v", applied)
	}
}

func TestEnsureMetaDirs(t *testing.T) {
	pp := newProjectPaths(filepath.Join(t.TempDir(), "project"))
	if err := pp.EnsureRoot(); err != nil {
		t.Fatalf("ensure root: %v", err)
	}
	if err := pp.EnsureMetaDirs(); err != nil {
		t.Fatalf("ensure meta dirs: %v", err)
	}
	for _, dir := range []string{pp.MetaDir, pp.MediaDir, pp.ExportsDir, pp.LogsDir} {
		ok, err := DirExists(dir)
		if err != nil || !ok {
			t.Fatalf("expected %s to exist (err=%v)", dir, err)
		}
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if ok, _ := FileExists(file); !ok {
		t.Fatal("expected file to exist")
	}
	if ok, _ := FileExists(dir); ok {
		t.Fatal("directory should not count as a file")
	}
	if ok, err := FileExists(filepath.Join(dir, "missing")); ok || err != nil {
		t.Fatalf("missing file: ok=%v err=%v", ok, err)
	}
}
