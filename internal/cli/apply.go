package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storyreel/internal/media"
)

var (
	applyDryRun bool
	applyStrict bool
)

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <ops.yaml>",
		Short: "Run a scripted list of edits against the composition and save it",
		Long: `Run a YAML list of edit operations through an editing session.

Each entry names an op (add, duplicate, delete, split, move, text, keywords,
volume, duration, transition, caption, fetch-media, import-media, title, seek,
undo, redo, add-track, update-track, delete-track) and its arguments.
Rejected edits leave the composition unchanged and are reported; the
result is saved unless --dry-run is set.`,
		Args: cobra.ExactArgs(1),
		RunE: runApply,
	}

	cmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Report outcomes without saving")
	cmd.Flags().BoolVar(&applyStrict, "strict", false, "Fail without saving if any edit is rejected")
	return cmd
}

type applyStep struct {
	Line   int    `json:"line"`
	Op     string `json:"op"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
	Detail string `json:"detail,omitempty"`
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ops, err := readOps(args[0])
	if err != nil {
		return err
	}

	p, err := openProject()
	if err != nil {
		return err
	}

	logger, closer, err := p.openLog("apply")
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Printf("ops=%s count=%d dry_run=%v", args[0], len(ops), applyDryRun)

	sess, err := p.openSession(logger)
	if err != nil {
		return err
	}
	defer sess.Dispose()

	baseDir, err := filepath.Abs(filepath.Dir(args[0]))
	if err != nil {
		return err
	}
	var lib *media.Library
	runner := &opRunner{
		ctx:     ctx,
		sess:    sess,
		baseDir: baseDir,
		library: func() (*media.Library, error) {
			if lib != nil {
				return lib, nil
			}
			idx, err := media.Load(p.pp)
			if err != nil {
				return nil, err
			}
			lib = media.NewLibrary(idx)
			return lib, nil
		},
	}

	titleBefore := sess.Composition().Title
	steps := make([]applyStep, 0, len(ops))
	rejected := 0
	for _, op := range ops {
		out, err := runner.run(op)
		if err != nil {
			return err
		}
		if !out.OK() {
			rejected++
		}
		steps = append(steps, applyStep{
			Line:   op.line,
			Op:     op.Op,
			Status: out.Status.String(),
			Reason: string(out.Reason),
			Detail: out.Detail,
		})
	}

	c := sess.Composition()
	st := sess.State()
	changed := st.CanUndo || c.Title != titleBefore
	saved := false
	switch {
	case applyStrict && rejected > 0:
		logger.Printf("strict mode: %d rejected edit(s); not saving", rejected)
	case applyDryRun || !changed:
	default:
		if err := p.saveComposition(c); err != nil {
			return err
		}
		saved = true
		logger.Printf("saved %s: segments=%d tracks=%d", p.pp.CompositionFile, len(c.Segments), len(c.AudioTracks))
	}

	if outputJSON {
		payload := struct {
			Steps     []applyStep `json:"steps"`
			Rejected  int         `json:"rejected"`
			Saved     bool        `json:"saved"`
			DurationS float64     `json:"duration_s"`
		}{Steps: steps, Rejected: rejected, Saved: saved, DurationS: c.TotalDuration()}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode apply json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		writeApplyTable(cmd, steps)
		switch {
		case saved:
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s: %d segments, %s\n", p.pp.CompositionFile, len(c.Segments), formatSeconds(c.TotalDuration()))
		case applyDryRun:
			fmt.Fprintln(cmd.OutOrStdout(), "Dry run; nothing saved.")
		case !changed:
			fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
		}
	}

	if applyStrict && rejected > 0 {
		return fmt.Errorf("%d edit(s) rejected", rejected)
	}
	return nil
}

func writeApplyTable(cmd *cobra.Command, steps []applyStep) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "LINE\tOP\tRESULT\tDETAIL")
	for _, s := range steps {
		detail := s.Detail
		if s.Reason != "" {
			detail = s.Reason
			if s.Detail != "" {
				detail += ": " + s.Detail
			}
		}
		if detail == "" {
			detail = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Line, s.Op, s.Status, detail)
	}
	w.Flush()
}
