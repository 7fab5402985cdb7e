package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storyreel/internal/composition"
	"storyreel/pkg/compfile"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the segments and audio tracks of the project composition",
		RunE:  runStatus,
	}
	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	c, loadErr := p.loadComposition()
	var issues compfile.ValidationErrors
	if loadErr != nil && !errors.As(loadErr, &issues) {
		return loadErr
	}

	if outputJSON {
		if err := writeStatusJSON(cmd, p.pp.Root, c, issues); err != nil {
			return err
		}
	} else {
		writeStatusTable(cmd, p.pp.Root, c, issues)
	}

	if len(issues) > 0 {
		return issues
	}
	return nil
}

func writeStatusTable(cmd *cobra.Command, projectName string, c composition.Composition, errs compfile.ValidationErrors) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Project: %s\n", projectName)
	fmt.Fprintf(out, "Title: %s\n", displayTitle(c.Title))
	fmt.Fprintf(out, "Duration: %s (%d segments, %d audio tracks)\n\n",
		formatSeconds(c.TotalDuration()), len(c.Segments), len(c.AudioTracks))

	w := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tID\tSTART\tDURATION\tVOLUME\tTRANSITION\tMEDIA\tNARRATION")
	offsets := composition.Offsets(c.Segments)
	for i, seg := range c.Segments {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%s\t%s\t%s\n",
			i+1,
			shortID(seg.ID),
			formatSeconds(offsets[i]),
			formatSeconds(seg.DurationSeconds),
			seg.AudioVolume,
			seg.Transition,
			seg.ActiveClip().Kind,
			truncate(seg.NarrationText, 48),
		)
	}
	w.Flush()

	if len(c.AudioTracks) > 0 {
		fmt.Fprintln(out)
		w = tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
		fmt.Fprintln(w, "TRACK\tKIND\tSTART\tEND\tVOLUME\tNAME")
		for _, tr := range c.AudioTracks {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%s\n",
				shortID(tr.ID),
				tr.Kind,
				formatSeconds(tr.StartTime),
				formatSeconds(tr.End()),
				tr.Volume,
				tr.Name,
			)
		}
		w.Flush()
	}

	if len(errs) > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "Validation issues:")
		for _, issue := range errs {
			fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", issue.Error())
		}
	}
}

func writeStatusJSON(cmd *cobra.Command, projectName string, c composition.Composition, errs compfile.ValidationErrors) error {
	payload := struct {
		Project   string            `json:"project"`
		Title     string            `json:"title"`
		DurationS float64           `json:"duration_s"`
		Segments  []statusJSONRow   `json:"segments"`
		Tracks    []statusJSONTrack `json:"audio_tracks,omitempty"`
		Errors    []string          `json:"errors,omitempty"`
	}{
		Project:   projectName,
		Title:     c.Title,
		DurationS: c.TotalDuration(),
		Segments:  make([]statusJSONRow, 0, len(c.Segments)),
	}

	offsets := composition.Offsets(c.Segments)
	for i, seg := range c.Segments {
		payload.Segments = append(payload.Segments, statusJSONRow{
			Index:      i + 1,
			ID:         seg.ID,
			StartS:     offsets[i],
			DurationS:  seg.DurationSeconds,
			Volume:     seg.AudioVolume,
			Transition: string(seg.Transition),
			MediaURL:   seg.ActiveClip().URL,
			MediaKind:  string(seg.ActiveClip().Kind),
			Narration:  seg.NarrationText,
			Captioned:  len(seg.WordTimings) > 0,
		})
	}
	for _, tr := range c.AudioTracks {
		payload.Tracks = append(payload.Tracks, statusJSONTrack{
			ID:        tr.ID,
			Name:      tr.Name,
			Kind:      string(tr.Kind),
			StartS:    tr.StartTime,
			DurationS: tr.DurationSeconds,
			Volume:    tr.Volume,
			URL:       tr.URL,
		})
	}
	for _, issue := range errs {
		payload.Errors = append(payload.Errors, issue.Error())
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode status json: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

type statusJSONRow struct {
	Index      int     `json:"index"`
	ID         string  `json:"id"`
	StartS     float64 `json:"start_s"`
	DurationS  float64 `json:"duration_s"`
	Volume     float64 `json:"volume"`
	Transition string  `json:"transition"`
	MediaURL   string  `json:"media_url"`
	MediaKind  string  `json:"media_kind"`
	Narration  string  `json:"narration"`
	Captioned  bool    `json:"captioned"`
}

type statusJSONTrack struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	StartS    float64 `json:"start_s"`
	DurationS float64 `json:"duration_s"`
	Volume    float64 `json:"volume"`
	URL       string  `json:"url"`
}
