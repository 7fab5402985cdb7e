package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storyreel/internal/config"
	"storyreel/internal/logx"
	"storyreel/internal/paths"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or edit project configuration",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigEditCmd())
	cmd.AddCommand(newConfigDefaultsCmd())
	return cmd
}

func newConfigDefaultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Print the editor defaults new segments and tracks receive",
		RunE:  runConfigDefaults,
	}
}

func runConfigDefaults(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}
	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return err
	}
	d := cfg.EditorDefaults()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintf(w, "segment duration\t%.2fs\n", d.SegmentDuration)
	fmt.Fprintf(w, "min split fragment\t%.2fs\n", d.MinFragment)
	fmt.Fprintf(w, "placeholder\t%s (%s)\n", d.PlaceholderURL, d.PlaceholderKind)
	fmt.Fprintf(w, "transition\t%s\n", d.Transition)
	fmt.Fprintf(w, "segment volume\t%.2f\n", d.Volume)
	fmt.Fprintf(w, "caption style\t%s %dpx %s, %s\n", d.Style.FontFamily, d.Style.FontSize, d.Style.Color, d.Style.Position)
	fmt.Fprintf(w, "track duration\t%.2fs\n", d.TrackDuration)
	fmt.Fprintf(w, "track volume\t%.2f\n", d.TrackVolume)
	fmt.Fprintf(w, "history limit\t%s\n", historyLimitLabel(cfg.History.Limit))
	return w.Flush()
}

func historyLimitLabel(limit int) string {
	if limit <= 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%d steps", limit)
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration in YAML",
		RunE:  runConfigShow,
	}
}

func newConfigEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the project configuration in $EDITOR",
		RunE:  runConfigEdit,
	}
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}
	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	fmt.Fprint(out, string(data))
	if len(data) == 0 || data[len(data)-1] != '\n' {
		fmt.Fprintln(out)
	}
	return nil
}

// runConfigEdit opens storyreel.yaml in $EDITOR, writing defaults first when
// the file is missing, and re-validates the result once the editor exits.
func runConfigEdit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}
	if err := pp.EnsureRoot(); err != nil {
		return err
	}
	var created []string
	if _, err := ensureConfig(pp, &created, logx.Discard()); err != nil {
		return err
	}

	argv, err := editorArgv(os.Getenv("EDITOR"), pp.ConfigFile)
	if err != nil {
		return err
	}
	execCmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	execCmd.Stdout = cmd.OutOrStdout()
	execCmd.Stderr = cmd.ErrOrStderr()
	execCmd.Stdin = cmd.InOrStdin()
	execCmd.Dir = pp.Root
	if err := execCmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return fmt.Errorf("edited config no longer parses: %w", err)
	}
	results := cfg.ValidateStrict(pp.Root)
	for _, r := range results {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", r.Level, r.Message)
	}
	if config.HasErrors(results) {
		return fmt.Errorf("%s has validation errors", filepath.Base(pp.ConfigFile))
	}
	return nil
}

// editorArgv splits $EDITOR (which may carry flags, e.g. "code --wait") and
// appends file. vi is the fallback.
func editorArgv(editorEnv, file string) ([]string, error) {
	editorEnv = strings.TrimSpace(editorEnv)
	if editorEnv == "" {
		editorEnv = "vi"
	}
	parts := strings.Fields(editorEnv)
	if len(parts) == 0 {
		return nil, fmt.Errorf("invalid EDITOR value: %q", editorEnv)
	}
	return append(parts, file), nil
}
