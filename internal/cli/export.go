package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"storyreel/internal/export"
)

var (
	exportFormat string
	exportOut    string
	exportForce  bool
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a read-only snapshot of the composition for rendering",
		RunE:  runExport,
	}

	cmd.Flags().StringVar(&exportFormat, "format", "", "Output format: json, edl or concat (default from config)")
	cmd.Flags().StringVar(&exportOut, "out", "", "Output path (default exports/ named by export.file_template)")
	cmd.Flags().BoolVar(&exportForce, "force", false, "Write even when the composition has not changed")

	return cmd
}

type exportResult struct {
	Output      string  `json:"output"`
	Format      string  `json:"format"`
	Action      string  `json:"action"`
	Reason      string  `json:"reason"`
	Fingerprint string  `json:"fingerprint"`
	Segments    int     `json:"segments"`
	DurationS   float64 `json:"duration_s"`
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p, err := openProject()
	if err != nil {
		return err
	}

	formatName := exportFormat
	if strings.TrimSpace(formatName) == "" {
		formatName = p.cfg.Export.Format
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	logger, closer, err := p.openLog("export")
	if err != nil {
		return err
	}
	defer closer.Close()

	sess, err := p.openSession(logger)
	if err != nil {
		return err
	}
	defer sess.Dispose()

	c := sess.Composition()
	output := exportOut
	if strings.TrimSpace(output) == "" {
		output = filepath.Join(p.pp.ExportsDir, export.TemplateFileName(p.cfg.Export.FileTemplate, c, format, time.Now()))
	} else if !filepath.IsAbs(output) {
		output = filepath.Join(p.pp.Root, output)
	}

	frameRate := float64(p.cfg.Export.FrameRate)
	fingerprint := export.Fingerprint(c, format, frameRate)

	state, err := export.LoadState(p.pp.ExportStateFile)
	if err != nil {
		return err
	}
	if n := state.Prune(); n > 0 {
		logger.Printf("pruned %d stale export record(s)", n)
	}

	action, reason := state.Decide(output, fingerprint, exportForce)
	logger.Printf("output=%s format=%s action=%s reason=%s", output, format, action, reason)

	result := exportResult{
		Output:      output,
		Format:      string(format),
		Action:      action,
		Reason:      reason,
		Fingerprint: fingerprint,
		Segments:    len(c.Segments),
		DurationS:   c.TotalDuration(),
	}

	if action == export.ActionExport {
		renderer := export.FileRenderer{Path: output, Format: format, FrameRate: frameRate}
		if err := sess.Export(ctx, renderer); err != nil {
			return err
		}
		state.Record(output, export.Record{
			Fingerprint: fingerprint,
			Format:      format,
			ExportedAt:  time.Now().UTC(),
			Segments:    len(c.Segments),
			DurationS:   c.TotalDuration(),
		})
		if err := state.Save(p.pp.ExportStateFile); err != nil {
			return fmt.Errorf("save export state: %w", err)
		}
	}

	if outputJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if action == export.ActionSkip {
		fmt.Fprintf(cmd.OutOrStdout(), "Skipped %s (%s)\n", output, reason)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s: %d segments, %s (%s)\n",
		output, result.Segments, formatSeconds(result.DurationS), reason)
	return nil
}
