package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"storyreel/internal/paths"
)

// projectEnv names the environment variable that defaults --project.
const projectEnv = "STORYREEL_PROJECT"

var (
	projectDir string
	outputJSON bool
)

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "storyreel",
		Short:             "Compose narrated videos from segments and audio tracks",
		SilenceUsage:      true,
		PersistentPreRunE: loadEnv,
	}

	cmd.PersistentFlags().StringVar(&projectDir, "project", "", "Path to project directory (default $"+projectEnv+" or cwd)")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newApplyCmd())
	cmd.AddCommand(newEditCmd())
	cmd.AddCommand(newMediaCmd())

	return cmd
}

// loadEnv reads .env from the working directory, then the project root, so STORYREEL_PROJECT can
// stand in for --project. Variables already set in the environment win.
func loadEnv(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if strings.TrimSpace(projectDir) == "" {
		projectDir = strings.TrimSpace(os.Getenv(projectEnv))
	}

	// A project may carry its own .env (EDITOR, for example).
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}
	if err := godotenv.Load(pp.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", pp.EnvFile, err)
	}
	return nil
}
