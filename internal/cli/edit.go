package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"storyreel/internal/captions"
	"storyreel/internal/composition"
	"storyreel/internal/tui"
)

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the interactive timeline editor",
		RunE:  runEdit,
	}
}

func runEdit(cmd *cobra.Command, _ []string) error {
	if outputJSON || !tui.Interactive(cmd.InOrStdin(), cmd.OutOrStdout()) {
		return errors.New("edit needs an interactive terminal; use apply for scripted edits")
	}

	p, err := openProject()
	if err != nil {
		return err
	}

	logger, closer, err := p.openLog("edit")
	if err != nil {
		return err
	}
	defer closer.Close()

	sess, err := p.openSession(logger)
	if err != nil {
		return err
	}
	defer sess.Dispose()

	model := tui.NewEditorModel(sess, tui.EditorOptions{
		FrameInterval: time.Duration(p.cfg.Playback.FrameIntervalMS) * time.Millisecond,
		SeekStep:      p.cfg.Playback.SeekStepS,
		Estimator:     captions.Estimator{},
		Save: func(c composition.Composition) error {
			if err := p.saveComposition(c); err != nil {
				logger.Printf("save failed: %v", err)
				return err
			}
			logger.Printf("saved %s: segments=%d", p.pp.CompositionFile, len(c.Segments))
			return nil
		},
	})

	return tui.Run(cmd.InOrStdin(), cmd.OutOrStdout(), model)
}
