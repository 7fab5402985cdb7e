package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"storyreel/internal/config"
	"storyreel/internal/logx"
	"storyreel/internal/paths"
	"storyreel/pkg/compfile"
)

var initTitle string

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a storyreel project",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}

	cmd.Flags().StringVar(&initTitle, "title", "", "Title for the starter composition (default: directory name)")
	return cmd
}

func resolveInitDir(projectFlag string, args []string) (string, error) {
	if projectFlag != "" {
		return projectFlag, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	if len(args) > 0 {
		if args[0] == "." {
			return cwd, nil
		}
		return filepath.Join(cwd, args[0]), nil
	}

	return nextAvailableDir(cwd)
}

func nextAvailableDir(base string) (string, error) {
	for i := 1; ; i++ {
		candidate := filepath.Join(base, fmt.Sprintf("storyreel-%d", i))
		exists, err := paths.DirExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := resolveInitDir(projectDir, args)
	if err != nil {
		return err
	}

	pp, err := paths.Resolve(dir)
	if err != nil {
		return err
	}

	if err := pp.EnsureRoot(); err != nil {
		return err
	}
	if err := pp.EnsureMetaDirs(); err != nil {
		return err
	}

	logger, closer, err := logx.New(pp, "init")
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Printf("project=%s", pp.Root)

	created := make([]string, 0, 2)

	cfg, err := ensureConfig(pp, &created, logger)
	if err != nil {
		return err
	}

	title := strings.TrimSpace(initTitle)
	if title == "" {
		title = filepath.Base(pp.Root)
	}
	if err := ensureComposition(paths.ApplyConfig(pp, cfg), cfg, title, &created, logger); err != nil {
		return err
	}

	if len(created) == 0 {
		cmd.Printf("Project already initialized at %s\n", pp.Root)
		return nil
	}

	cmd.Printf("Initialized project at %s\n", pp.Root)
	for _, entry := range created {
		cmd.Printf("  created %s\n", entry)
	}

	return nil
}

// ensureConfig writes the default config when missing and returns the
// effective one.
func ensureConfig(pp paths.ProjectPaths, created *[]string, logger Logger) (config.Config, error) {
	exists, err := paths.FileExists(pp.ConfigFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("check config: %w", err)
	}
	if exists {
		logger.Printf("config exists: %s", pp.ConfigFile)
		return config.Load(pp.ConfigFile)
	}

	cfg := config.Default()
	cfg.ApplyDefaults()
	data, err := cfg.Marshal()
	if err != nil {
		return config.Config{}, err
	}

	if err := os.WriteFile(pp.ConfigFile, data, 0o644); err != nil {
		return config.Config{}, fmt.Errorf("write config: %w", err)
	}
	logger.Printf("created config: %s", pp.ConfigFile)
	*created = append(*created, filepath.Base(pp.ConfigFile))
	return cfg, nil
}

func ensureComposition(pp paths.ProjectPaths, cfg config.Config, title string, created *[]string, logger Logger) error {
	exists, err := paths.FileExists(pp.CompositionFile)
	if err != nil {
		return fmt.Errorf("check composition: %w", err)
	}
	if exists {
		logger.Printf("composition exists: %s", pp.CompositionFile)
		return nil
	}

	c := compfile.Template(title, compfile.Options{Defaults: cfg.EditorDefaults()})
	if err := compfile.Save(pp.CompositionFile, c); err != nil {
		return err
	}
	logger.Printf("created composition: %s", pp.CompositionFile)
	*created = append(*created, filepath.Base(pp.CompositionFile))
	return nil
}
