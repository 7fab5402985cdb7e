package cli

import (
	"fmt"
	"io"
	"log"

	"storyreel/internal/composition"
	"storyreel/internal/config"
	"storyreel/internal/editor"
	"storyreel/internal/logx"
	"storyreel/internal/paths"
	"storyreel/internal/session"
	"storyreel/pkg/compfile"
)

// Logger keeps the subset of log.Logger used locally, enabling easy testing.
type Logger interface {
	Printf(format string, v ...any)
}

// project bundles the resolved paths and effective configuration.
type project struct {
	pp  paths.ProjectPaths
	cfg config.Config
}

// openProject resolves --project, loads its config and makes sure the
// standard directories exist.
func openProject() (project, error) {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return project{}, err
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return project{}, err
	}
	pp = paths.ApplyConfig(pp, cfg)

	if err := ensureProjectDirs(pp); err != nil {
		return project{}, err
	}
	return project{pp: pp, cfg: cfg}, nil
}

func ensureProjectDirs(pp paths.ProjectPaths) error {
	exists, err := paths.DirExists(pp.Root)
	if err != nil {
		return fmt.Errorf("stat project dir: %w", err)
	}
	if !exists {
		return fmt.Errorf("project directory does not exist: %s", pp.Root)
	}

	if err := pp.EnsureMetaDirs(); err != nil {
		return err
	}

	return nil
}

func (p project) fileOptions() compfile.Options {
	return compfile.Options{Defaults: p.cfg.EditorDefaults()}
}

// loadComposition reads the project's composition file.
func (p project) loadComposition() (composition.Composition, error) {
	exists, err := paths.FileExists(p.pp.CompositionFile)
	if err != nil {
		return composition.Composition{}, fmt.Errorf("check composition: %w", err)
	}
	if !exists {
		return composition.Composition{}, fmt.Errorf("composition file not found: %s (run storyreel init)", p.pp.CompositionFile)
	}
	c, err := compfile.Load(p.pp.CompositionFile, p.fileOptions())
	if err != nil {
		return c, fmt.Errorf("%s: %w", p.pp.CompositionFile, err)
	}
	return c, nil
}

// openSession loads the composition into a new editing session.
func (p project) openSession(logger Logger) (*session.Session, error) {
	c, err := p.loadComposition()
	if err != nil {
		return nil, err
	}
	ed := editor.New(p.cfg.EditorDefaults())
	sess := session.New(ed, session.WithLogger(logger), session.WithHistoryLimit(p.cfg.History.Limit))
	if err := sess.Init(c); err != nil {
		return nil, err
	}
	return sess, nil
}

// saveComposition writes c back to the project's composition file.
func (p project) saveComposition(c composition.Composition) error {
	return compfile.Save(p.pp.CompositionFile, c)
}

// keepLogs bounds how many command logs stay in logs/.
const keepLogs = 50

// openLog starts a command log and drops the oldest ones beyond keepLogs.
func (p project) openLog(command string) (*log.Logger, io.Closer, error) {
	logger, closer, err := logx.New(p.pp, command)
	if err != nil {
		return nil, nil, err
	}
	if removed, err := logx.Prune(p.pp, keepLogs); err != nil {
		logger.Printf("prune logs: %v", err)
	} else if removed > 0 {
		logger.Printf("pruned %d old log file(s)", removed)
	}
	return logger, closer, nil
}
